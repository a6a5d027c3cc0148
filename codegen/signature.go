package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/roveo/topo-vba/declarations"
)

type signatureConfig struct {
	accessibility declarations.Accessibility
	identifier    string
}

// SignatureOption overrides parts of a rendered member signature, for
// callers that rename or re-scope a member during a refactoring.
type SignatureOption func(*signatureConfig)

// WithAccessibility renders the signature with a instead of the member's own
// accessibility. Implicit still renders as Public.
func WithAccessibility(a declarations.Accessibility) SignatureOption {
	return func(c *signatureConfig) { c.accessibility = a }
}

// WithIdentifier renders the signature under a new name.
func WithIdentifier(name string) SignatureOption {
	return func(c *signatureConfig) {
		if name != "" {
			c.identifier = name
		}
	}
}

// ImprovedSignature renders the member's full signature with explicit
// accessibility and passing mechanisms:
//
//	Public Function Area(ByVal width As Double, ByVal height As Double) As Double
//
// It panics if m is not a procedure, function or property accessor.
func (b *Builder) ImprovedSignature(m *declarations.ModuleBodyElementDeclaration, opts ...SignatureOption) string {
	tokens, ok := tokensFor(m.Type)
	if !ok {
		panic(errors.AssertionFailedf("cannot build a signature for %s %q", m.Type, m.Name))
	}

	cfg := signatureConfig{accessibility: m.Accessibility, identifier: m.Name}
	for _, opt := range opts {
		opt(&cfg)
	}

	var asType string
	if m.Type.ReturnsValue() && m.AsTypeName != "" {
		asType = asClause(m.AsTypeName)
		if m.IsArray {
			asType += "()"
		}
	}

	return joinTokens(
		accessibilityToken(cfg.accessibility, declarations.Public),
		tokens.keyword,
		cfg.identifier+"("+b.ArgumentList(m)+")",
		asType,
	)
}

// ArgumentList renders the member's parameters in source order, comma
// separated. The value parameter of a Property Let or Set is forced ByVal
// unless it is of a user-defined type.
func (b *Builder) ArgumentList(m *declarations.ModuleBodyElementDeclaration) string {
	params := m.SortedParameters()
	if len(params) == 0 {
		return ""
	}

	args := make([]string, len(params))
	last := len(params) - 1
	for i, p := range params {
		args[i] = b.Argument(p, i == last && m.Type.IsPropertyMutator())
	}
	return strings.Join(args, ", ")
}

// Argument renders one parameter:
//
//	[ParamArray|Optional] [ByRef|ByVal] name[()] [As type] [= default]
//
// With forceByVal set, a by-reference parameter is rendered ByVal unless its
// type resolves to a user-defined type, which cannot be passed by value.
func (b *Builder) Argument(p *declarations.ParameterDeclaration, forceByVal bool) string {
	mechanism := p.Mechanism
	if forceByVal && mechanism.IsByRef() && !p.IsUserDefinedTyped() {
		mechanism = declarations.ByVal
	}

	var qualifier string
	switch {
	case p.IsParamArray:
		qualifier = "ParamArray"
	case p.IsOptional:
		qualifier = "Optional"
	}

	name := p.Name
	if p.IsArray {
		name += "()"
	}

	var defaultValue string
	if p.DefaultValue != "" {
		defaultValue = "= " + p.DefaultValue
	}

	return joinTokens(qualifier, mechanism.Token(), name, asClause(p.AsTypeName), defaultValue)
}

// MemberBlock renders the improved signature, the content verbatim and the
// member's end statement, each on its own line. Content is not indented or
// checked.
func (b *Builder) MemberBlock(m *declarations.ModuleBodyElementDeclaration, content string, opts ...SignatureOption) string {
	signature := b.ImprovedSignature(m, opts...)
	end, _ := EndStatement(m.Type)
	return b.block(signature, content, end)
}
