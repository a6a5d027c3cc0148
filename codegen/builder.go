// Package codegen assembles VBA source fragments (member signatures, property
// accessors, user-defined type declarations) from resolved declarations.
//
// A Builder holds only rendering constants fixed at construction. Every
// method is a pure function of its arguments, so one Builder can serve any
// number of goroutines.
//
// Two failure classes are kept apart. Asking for something the prototype
// cannot provide (a property accessor over a procedure) reports ok=false and
// is the caller's to skip. Malformed requests (an accessor kind that is not
// Get/Let/Set, an empty or colliding UDT member set) return an error wrapping
// one of the sentinel errors below and never partial text.
package codegen

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/declarations"
)

const (
	// VariantType is the catch-all type used for array-valued properties.
	VariantType = "Variant"
	// IntegerType replaces private enum types in generated accessors.
	IntegerType = "Long"

	DefaultValueParameter = "value"
	DefaultIndent         = 4
	NewlineCRLF           = "\r\n"
	NewlineLF             = "\n"
)

var (
	// ErrInvalidAccessorKind is returned when a property block is requested
	// for a kind other than Get, Let or Set.
	ErrInvalidAccessorKind = errors.New("invalid property accessor kind")
	// ErrEmptyMemberSet is returned when a UDT is built without members.
	ErrEmptyMemberSet = errors.New("user-defined type needs at least one member")
	// ErrDuplicateMember is returned when two UDT member identifiers
	// collide under case-insensitive comparison.
	ErrDuplicateMember = errors.New("duplicate user-defined type member")
	// ErrInvalidMember is returned when a UDT member prototype has no field
	// or no identifier.
	ErrInvalidMember = errors.New("invalid user-defined type member")
)

// structured log keys
const (
	logKeyField    = "field"
	logKeyKind     = "kind"
	logKeyProperty = "property"
	logKeyType     = "type"
)

type memberTokens struct {
	keyword string
	end     string
}

var memberTable = [...]memberTokens{
	declarations.Procedure:   {keyword: "Sub", end: "End Sub"},
	declarations.Function:    {keyword: "Function", end: "End Function"},
	declarations.PropertyGet: {keyword: "Property Get", end: "End Property"},
	declarations.PropertyLet: {keyword: "Property Let", end: "End Property"},
	declarations.PropertySet: {keyword: "Property Set", end: "End Property"},
}

func tokensFor(kind declarations.DeclarationType) (memberTokens, bool) {
	if kind < 0 || int(kind) >= len(memberTable) || memberTable[kind].keyword == "" {
		return memberTokens{}, false
	}
	return memberTable[kind], true
}

// Keyword returns the declaring keyword of a member kind ("Property Get").
func Keyword(kind declarations.DeclarationType) (string, bool) {
	t, ok := tokensFor(kind)
	return t.keyword, ok
}

// EndStatement returns the statement closing a member of the given kind.
func EndStatement(kind declarations.DeclarationType) (string, bool) {
	t, ok := tokensFor(kind)
	return t.end, ok
}

// Builder renders source fragments.
type Builder struct {
	logger         *zap.Logger
	newline        string
	indent         int
	valueParameter string
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger for debug output. If not set, nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithNewline sets the line terminator placed between generated lines.
func WithNewline(newline string) Option {
	return func(b *Builder) {
		if newline != "" {
			b.newline = newline
		}
	}
}

// WithIndent sets the number of spaces before each UDT member line.
func WithIndent(indent int) Option {
	return func(b *Builder) {
		if indent >= 0 {
			b.indent = indent
		}
	}
}

// WithValueParameter sets the name of the value parameter synthesized for
// Property Let and Property Set blocks.
func WithValueParameter(name string) Option {
	return func(b *Builder) {
		if name != "" {
			b.valueParameter = name
		}
	}
}

// New returns a Builder using CRLF line ends, a 4-space UDT indent and
// "value" as the mutator parameter name unless overridden.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger:         zap.NewNop(),
		newline:        NewlineCRLF,
		indent:         DefaultIndent,
		valueParameter: DefaultValueParameter,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Newline returns the line terminator the builder emits.
func (b *Builder) Newline() string { return b.newline }

// joinTokens joins the non-empty parts with single spaces.
func joinTokens(parts ...string) string {
	var sb strings.Builder
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p)
	}
	return sb.String()
}

// accessibilityToken renders a, substituting fallback for Implicit.
func accessibilityToken(a, fallback declarations.Accessibility) string {
	if a == declarations.Implicit {
		return fallback.Token()
	}
	return a.Token()
}

func asClause(typeName string) string {
	if typeName == "" {
		return ""
	}
	return "As " + typeName
}

// block lays out signature, content and end statement, each followed by a
// line break. Empty content contributes no line.
func (b *Builder) block(signature, content, end string) string {
	var sb strings.Builder
	sb.WriteString(signature)
	sb.WriteString(b.newline)
	if content != "" {
		sb.WriteString(content)
		sb.WriteString(b.newline)
	}
	sb.WriteString(end)
	sb.WriteString(b.newline)
	return sb.String()
}
