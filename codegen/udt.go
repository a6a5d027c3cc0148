package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/declarations"
)

// UDTMemberPrototype pairs an existing field with the identifier it takes
// as a member of a new user-defined type.
type UDTMemberPrototype struct {
	Field      *declarations.Declaration
	Identifier string
}

// BuildUDT renders a Type ... End Type block with one member per prototype,
// in the given order. Implicit accessibility renders as Private. Array fields
// keep their original subscripts ("Values(1 To 5)") or render unbounded
// ("Values()") when none are known.
//
// An empty member set, a prototype without field or identifier, and two
// identifiers equal under case-insensitive comparison are construction errors.
func (b *Builder) BuildUDT(identifier string, members []UDTMemberPrototype, accessibility declarations.Accessibility) (string, error) {
	if err := b.validateUDT(identifier, members); err != nil {
		b.logger.Debug("rejected user-defined type", zap.String(logKeyType, identifier), zap.Error(err))
		return "", err
	}

	lines := make([]string, 0, len(members)+2)
	lines = append(lines, joinTokens(accessibilityToken(accessibility, declarations.Private), "Type", identifier))
	for _, m := range members {
		typeName := m.Field.AsTypeName
		if typeName == "" {
			typeName = VariantType
		}
		lines = append(lines, b.UDTMemberDeclaration(udtMemberIdentifier(m), typeName))
	}
	lines = append(lines, "End Type")

	return strings.Join(lines, b.newline), nil
}

func (b *Builder) validateUDT(identifier string, members []UDTMemberPrototype) error {
	if len(members) == 0 {
		return errors.Wrapf(ErrEmptyMemberSet, "type %q", identifier)
	}

	seen := make(map[string]string, len(members))
	for i, m := range members {
		if m.Field == nil || m.Identifier == "" {
			return errors.Wrapf(ErrInvalidMember, "type %q member %d", identifier, i)
		}
		key := strings.ToLower(m.Identifier)
		if prev, dup := seen[key]; dup {
			return errors.WithHint(
				errors.Wrapf(ErrDuplicateMember, "type %q: %q collides with %q", identifier, m.Identifier, prev),
				"member identifiers are compared case-insensitively",
			)
		}
		seen[key] = m.Identifier
	}
	return nil
}

func udtMemberIdentifier(m UDTMemberPrototype) string {
	if !m.Field.IsArray {
		return m.Identifier
	}
	return m.Identifier + "(" + m.Field.ArraySubscripts + ")"
}

// UDTMemberDeclaration renders one member line of a Type block using the
// builder's indent.
func (b *Builder) UDTMemberDeclaration(identifier, typeName string) string {
	return UDTMemberDeclaration(identifier, typeName, b.indent)
}

// UDTMemberDeclaration renders "<indent>identifier As typeName". The indent
// defaults to DefaultIndent spaces; only the first value is used.
func UDTMemberDeclaration(identifier, typeName string, indent ...int) string {
	width := DefaultIndent
	if len(indent) > 0 {
		width = max(indent[0], 0)
	}
	return strings.Repeat(" ", width) + identifier + " As " + typeName
}
