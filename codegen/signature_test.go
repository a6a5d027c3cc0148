package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	d "github.com/roveo/topo-vba/declarations"
)

func param(name, typeName string, column int, mech d.Mechanism) *d.ParameterDeclaration {
	return &d.ParameterDeclaration{
		Declaration: d.Declaration{
			Name:       name,
			Type:       d.Parameter,
			AsTypeName: typeName,
			Selection:  d.Range{Start: d.Position{Line: 0, Character: column}},
		},
		Mechanism: mech,
	}
}

func member(name string, kind d.DeclarationType, acc d.Accessibility, typeName string, params ...*d.ParameterDeclaration) *d.ModuleBodyElementDeclaration {
	return &d.ModuleBodyElementDeclaration{
		Declaration: d.Declaration{
			Name:          name,
			Type:          kind,
			Accessibility: acc,
			AsTypeName:    typeName,
		},
		Parameters: params,
	}
}

var udtDecl = &d.Declaration{Name: "Point", Type: d.UserDefinedType}

func TestArgumentList_NoParameters(t *testing.T) {
	b := New()
	for _, kind := range []d.DeclarationType{d.Procedure, d.Function, d.PropertyGet, d.PropertyLet, d.PropertySet} {
		assert.Empty(t, b.ArgumentList(member("Foo", kind, d.Public, "")), kind.String())
	}
}

func TestArgumentList_SourceOrder(t *testing.T) {
	b := New()
	m := member("Foo", d.Procedure, d.Public, "",
		param("c", "String", 30, d.ByVal),
		param("a", "Long", 10, d.ByRef),
		param("b", "Double", 20, d.ImplicitByRef),
	)

	assert.Equal(t, "ByRef a As Long, b As Double, ByVal c As String", b.ArgumentList(m))
	// the declaration itself is not reordered
	assert.Equal(t, "c", m.Parameters[0].Name)
}

func TestArgumentList_OrderAcrossLines(t *testing.T) {
	b := New()
	second := param("second", "Long", 0, d.ByVal)
	second.Selection.Start.Line = 1
	first := param("first", "Long", 40, d.ByVal)

	m := member("Foo", d.Procedure, d.Public, "", second, first)
	assert.Equal(t, "ByVal first As Long, ByVal second As Long", b.ArgumentList(m))
}

func TestArgument(t *testing.T) {
	b := New()

	tests := []struct {
		name   string
		param  func() *d.ParameterDeclaration
		force  bool
		expect string
	}{
		{
			name:   "implicit byref renders no mechanism",
			param:  func() *d.ParameterDeclaration { return param("x", "Long", 0, d.ImplicitByRef) },
			expect: "x As Long",
		},
		{
			name:   "explicit byref kept",
			param:  func() *d.ParameterDeclaration { return param("x", "Long", 0, d.ByRef) },
			expect: "ByRef x As Long",
		},
		{
			name: "optional with default",
			param: func() *d.ParameterDeclaration {
				p := param("count", "Long", 0, d.ByVal)
				p.IsOptional = true
				p.DefaultValue = "10"
				return p
			},
			expect: "Optional ByVal count As Long = 10",
		},
		{
			name: "paramarray wins over optional",
			param: func() *d.ParameterDeclaration {
				p := param("args", "Variant", 0, d.ImplicitByRef)
				p.IsParamArray = true
				p.IsOptional = true
				p.IsArray = true
				return p
			},
			expect: "ParamArray args() As Variant",
		},
		{
			name:   "untyped parameter",
			param:  func() *d.ParameterDeclaration { return param("x", "", 0, d.ByVal) },
			expect: "ByVal x",
		},
		{
			name:   "forced byval from implicit",
			param:  func() *d.ParameterDeclaration { return param("v", "String", 0, d.ImplicitByRef) },
			force:  true,
			expect: "ByVal v As String",
		},
		{
			name: "forced byval skips udt",
			param: func() *d.ParameterDeclaration {
				p := param("v", "Point", 0, d.ByRef)
				p.AsTypeDeclaration = udtDecl
				return p
			},
			force:  true,
			expect: "ByRef v As Point",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Argument(tt.param(), tt.force)
			assert.Equal(t, tt.expect, got)
			assert.NotContains(t, got, "  ")
		})
	}
}

func TestArgumentList_MutatorValueParameter(t *testing.T) {
	b := New()

	for _, kind := range []d.DeclarationType{d.PropertyLet, d.PropertySet} {
		for _, mech := range []d.Mechanism{d.ByRef, d.ImplicitByRef, d.ByVal} {
			m := member("Item", kind, d.Public, "",
				param("index", "Long", 10, d.ImplicitByRef),
				param("RHS", "Variant", 20, mech),
			)
			assert.Equal(t, "index As Long, ByVal RHS As Variant", b.ArgumentList(m), "%s %v", kind, mech)
		}
	}
}

func TestArgumentList_MutatorUDTValueKeepsByRef(t *testing.T) {
	b := New()
	rhs := param("RHS", "Point", 10, d.ByRef)
	rhs.AsTypeDeclaration = udtDecl

	m := member("Origin", d.PropertyLet, d.Public, "", rhs)
	assert.Equal(t, "ByRef RHS As Point", b.ArgumentList(m))
}

func TestArgumentList_OnlyMutatorsForceByVal(t *testing.T) {
	b := New()
	m := member("Foo", d.Function, d.Public, "Long", param("x", "Long", 0, d.ImplicitByRef))
	assert.Equal(t, "x As Long", b.ArgumentList(m))
}

func TestImprovedSignature(t *testing.T) {
	b := New()

	tests := []struct {
		name   string
		member *d.ModuleBodyElementDeclaration
		opts   []SignatureOption
		expect string
	}{
		{
			name:   "implicit sub becomes public",
			member: member("DoWork", d.Procedure, d.Implicit, ""),
			expect: "Public Sub DoWork()",
		},
		{
			name:   "private function",
			member: member("Area", d.Function, d.Private, "Double", param("w", "Double", 1, d.ByVal), param("h", "Double", 2, d.ByVal)),
			expect: "Private Function Area(ByVal w As Double, ByVal h As Double) As Double",
		},
		{
			name:   "untyped function",
			member: member("Anything", d.Function, d.Friend, ""),
			expect: "Friend Function Anything()",
		},
		{
			name: "array returning function",
			member: func() *d.ModuleBodyElementDeclaration {
				m := member("Values", d.Function, d.Public, "Long")
				m.IsArray = true
				return m
			}(),
			expect: "Public Function Values() As Long()",
		},
		{
			name:   "property get",
			member: member("Name", d.PropertyGet, d.Public, "String"),
			expect: "Public Property Get Name() As String",
		},
		{
			name:   "property let drops As clause",
			member: member("Name", d.PropertyLet, d.Public, "String", param("value", "String", 0, d.ImplicitByRef)),
			expect: "Public Property Let Name(ByVal value As String)",
		},
		{
			name:   "property set",
			member: member("Target", d.PropertySet, d.Implicit, "", param("value", "Range", 0, d.ByRef)),
			expect: "Public Property Set Target(ByVal value As Range)",
		},
		{
			name:   "overrides",
			member: member("Old", d.Procedure, d.Public, ""),
			opts:   []SignatureOption{WithAccessibility(d.Private), WithIdentifier("Renamed")},
			expect: "Private Sub Renamed()",
		},
		{
			name:   "implicit override stays public",
			member: member("Old", d.Procedure, d.Private, ""),
			opts:   []SignatureOption{WithAccessibility(d.Implicit)},
			expect: "Public Sub Old()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, b.ImprovedSignature(tt.member, tt.opts...))
		})
	}
}

func TestImprovedSignature_PanicsOnNonMember(t *testing.T) {
	b := New()
	assert.Panics(t, func() {
		b.ImprovedSignature(member("x", d.Variable, d.Private, "Long"))
	})
}

func TestMemberBlock(t *testing.T) {
	b := New(WithNewline(NewlineLF))

	m := member("Greet", d.Function, d.Implicit, "String", param("name", "String", 0, d.ByVal))
	content := "    Greet = \"Hello, \" & name"

	expected := "Public Function Greet(ByVal name As String) As String\n" +
		"    Greet = \"Hello, \" & name\n" +
		"End Function\n"
	assert.Equal(t, expected, b.MemberBlock(m, content))

	empty := b.MemberBlock(member("Nothing", d.Procedure, d.Private, ""), "")
	assert.Equal(t, "Private Sub Nothing()\nEnd Sub\n", empty)
}

func TestMemberBlock_ContentRoundTrip(t *testing.T) {
	b := New()
	m := member("Run", d.Procedure, d.Public, "")

	for _, content := range []string{"x = 1", "    a = 1\r\n    b = 2", "  ' comment  "} {
		block := b.MemberBlock(m, content)
		signature := b.ImprovedSignature(m)

		require.True(t, strings.HasPrefix(block, signature+NewlineCRLF))
		require.True(t, strings.HasSuffix(block, "End Sub"+NewlineCRLF))

		inner := strings.TrimSuffix(strings.TrimPrefix(block, signature+NewlineCRLF), "End Sub"+NewlineCRLF)
		assert.Equal(t, content+NewlineCRLF, inner)
	}
}

func TestMemberBlock_Overrides(t *testing.T) {
	b := New(WithNewline(NewlineLF))
	m := member("Value", d.PropertyGet, d.Public, "Long")

	got := b.MemberBlock(m, "", WithIdentifier("Total"), WithAccessibility(d.Friend))
	assert.Equal(t, "Friend Property Get Total() As Long\nEnd Property\n", got)
}

func TestEndStatement(t *testing.T) {
	tests := map[d.DeclarationType]string{
		d.Procedure:   "End Sub",
		d.Function:    "End Function",
		d.PropertyGet: "End Property",
		d.PropertyLet: "End Property",
		d.PropertySet: "End Property",
	}
	for kind, want := range tests {
		got, ok := EndStatement(kind)
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	for _, kind := range []d.DeclarationType{d.Variable, d.UserDefinedType, d.AnyKind, d.DeclarationType(99)} {
		_, ok := EndStatement(kind)
		assert.False(t, ok, kind.String())
	}

	kw, ok := Keyword(d.PropertyLet)
	assert.True(t, ok)
	assert.Equal(t, "Property Let", kw)
}
