package declarations

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrUnknownKind is returned when a model names an accessibility, kind or
// passing mechanism that does not exist.
var ErrUnknownKind = errors.New("unknown declaration attribute")

// Accessibility is the declared scope of a declaration.
type Accessibility int

const (
	Implicit Accessibility = iota
	Private
	Public
	Friend
	Global
)

var accessibilityTokens = [...]string{
	Implicit: "",
	Private:  "Private",
	Public:   "Public",
	Friend:   "Friend",
	Global:   "Global",
}

// Token returns the keyword for the accessibility, empty for Implicit.
func (a Accessibility) Token() string {
	if a < 0 || int(a) >= len(accessibilityTokens) {
		return ""
	}
	return accessibilityTokens[a]
}

func (a Accessibility) String() string {
	if a == Implicit {
		return "Implicit"
	}
	return a.Token()
}

// ParseAccessibility reads an accessibility keyword, case-insensitively.
// The empty string is Implicit.
func ParseAccessibility(s string) (Accessibility, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "implicit") {
		return Implicit, nil
	}
	for a, tok := range accessibilityTokens {
		if tok != "" && strings.EqualFold(tok, s) {
			return Accessibility(a), nil
		}
	}
	return Implicit, errors.Wrapf(ErrUnknownKind, "accessibility %q", s)
}

// DeclarationType is the kind of a declaration.
type DeclarationType int

const (
	Project DeclarationType = iota
	ProceduralModule
	ClassModule
	Procedure
	Function
	PropertyGet
	PropertyLet
	PropertySet
	Parameter
	Variable
	Constant
	Enumeration
	EnumerationMember
	UserDefinedType
	UserDefinedTypeMember
)

var declarationTypeNames = [...]string{
	Project:               "project",
	ProceduralModule:      "module",
	ClassModule:           "class",
	Procedure:             "sub",
	Function:              "function",
	PropertyGet:           "property-get",
	PropertyLet:           "property-let",
	PropertySet:           "property-set",
	Parameter:             "parameter",
	Variable:              "variable",
	Constant:              "const",
	Enumeration:           "enum",
	EnumerationMember:     "enum-member",
	UserDefinedType:       "type",
	UserDefinedTypeMember: "type-member",
}

func (t DeclarationType) String() string {
	if t < 0 || int(t) >= len(declarationTypeNames) {
		return "unknown"
	}
	return declarationTypeNames[t]
}

// ParseDeclarationType reads a kind name as written in model files.
func ParseDeclarationType(s string) (DeclarationType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range declarationTypeNames {
		if name == s {
			return DeclarationType(t), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownKind, "declaration kind %q", s)
}

// AnyKind matches every declaration type in lookups.
const AnyKind DeclarationType = -1

// IsMember reports whether t is a procedure, function or property accessor.
func (t DeclarationType) IsMember() bool {
	switch t {
	case Procedure, Function, PropertyGet, PropertyLet, PropertySet:
		return true
	}
	return false
}

// IsProperty reports whether t is any property accessor.
func (t DeclarationType) IsProperty() bool {
	switch t {
	case PropertyGet, PropertyLet, PropertySet:
		return true
	}
	return false
}

// IsPropertyMutator reports whether t is Property Let or Property Set.
func (t DeclarationType) IsPropertyMutator() bool {
	return t == PropertyLet || t == PropertySet
}

// IsField reports whether t can back a property accessor.
func (t DeclarationType) IsField() bool {
	return t == Variable || t == UserDefinedTypeMember
}

// ReturnsValue reports whether members of kind t have an As clause.
func (t DeclarationType) ReturnsValue() bool {
	return t == Function || t == PropertyGet
}

// ParseMechanism reads a passing mechanism. The empty string is ImplicitByRef.
func ParseMechanism(s string) (Mechanism, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "implicit":
		return ImplicitByRef, nil
	case "byref":
		return ByRef, nil
	case "byval":
		return ByVal, nil
	}
	return ImplicitByRef, errors.Wrapf(ErrUnknownKind, "passing mechanism %q", s)
}
