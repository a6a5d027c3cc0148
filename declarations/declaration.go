// Package declarations models the resolved VBA declarations the code builder
// reads. The model is produced by an upstream resolver (or by Load for model
// files) and is never mutated once built.
package declarations

import "sort"

// Position represents a position in a text document (0-based)
type Position struct {
	Line      int // 0-based line number
	Character int // 0-based character offset
}

// Range represents a selection in a text document (0-based)
type Range struct {
	Start Position
	End   Position
}

// Before reports whether r starts before other.
func (r Range) Before(other Range) bool {
	if r.Start.Line != other.Start.Line {
		return r.Start.Line < other.Start.Line
	}
	return r.Start.Character < other.Start.Character
}

// Declaration is any named, typed element of a module.
type Declaration struct {
	Name          string
	Accessibility Accessibility
	Type          DeclarationType

	// AsTypeName is the declared type as written ("Long", "Colour"). Empty
	// when the declaration has no As clause.
	AsTypeName string
	IsArray    bool

	// ArraySubscripts holds the original subscript text of an array
	// declaration ("1 To 5"), empty when the bounds are unknown or dynamic.
	ArraySubscripts string

	// AsTypeDeclaration points at the declaration of AsTypeName when the
	// resolver found one in the project (enumerations and UDTs). Nil when
	// the type is intrinsic or unresolved.
	AsTypeDeclaration *Declaration

	// Parent is the user-defined type owning a UDT member. Nil for module
	// level declarations.
	Parent *Declaration

	Selection Range
}

// QualifiedName returns Type.Member for UDT members and Name otherwise.
func (d *Declaration) QualifiedName() string {
	if d.Parent == nil {
		return d.Name
	}
	return d.Parent.Name + "." + d.Name
}

// AsTypeKind returns the kind of the declaration's resolved type, if any.
func (d *Declaration) AsTypeKind() (DeclarationType, bool) {
	if d == nil || d.AsTypeDeclaration == nil {
		return 0, false
	}
	return d.AsTypeDeclaration.Type, true
}

// IsUserDefinedTyped reports whether the declaration's type resolves to a UDT.
func (d *Declaration) IsUserDefinedTyped() bool {
	kind, ok := d.AsTypeKind()
	return ok && kind == UserDefinedType
}

// IsEnumTyped reports whether the declaration's type resolves to an enumeration.
func (d *Declaration) IsEnumTyped() bool {
	kind, ok := d.AsTypeKind()
	return ok && kind == Enumeration
}

// Mechanism is the parameter passing convention.
type Mechanism int

const (
	// ImplicitByRef is a parameter declared without ByRef or ByVal.
	ImplicitByRef Mechanism = iota
	ByRef
	ByVal
)

// Token returns the keyword for the mechanism, empty for ImplicitByRef.
func (m Mechanism) Token() string {
	switch m {
	case ByRef:
		return "ByRef"
	case ByVal:
		return "ByVal"
	}
	return ""
}

// IsByRef reports whether the argument is passed by reference, explicitly or not.
func (m Mechanism) IsByRef() bool { return m != ByVal }

// ParameterDeclaration is a parameter of a member signature.
type ParameterDeclaration struct {
	Declaration
	Mechanism    Mechanism
	IsOptional   bool
	IsParamArray bool

	// DefaultValue is the literal text of an Optional parameter's default,
	// empty when none was given.
	DefaultValue string
}

// ModuleBodyElementDeclaration is a procedure, function or property accessor.
type ModuleBodyElementDeclaration struct {
	Declaration
	Parameters []*ParameterDeclaration
}

// SortedParameters returns the parameters in ascending source order. The
// receiver's slice is left untouched.
func (m *ModuleBodyElementDeclaration) SortedParameters() []*ParameterDeclaration {
	params := make([]*ParameterDeclaration, len(m.Parameters))
	copy(params, m.Parameters)
	sort.SliceStable(params, func(i, j int) bool {
		return params[i].Selection.Before(params[j].Selection)
	})
	return params
}
