package declarations

import "strings"

var intrinsicTypes = map[string]bool{
	"boolean":  true,
	"byte":     true,
	"currency": true,
	"date":     true,
	"decimal":  true,
	"double":   true,
	"integer":  true,
	"long":     true,
	"longlong": true,
	"longptr":  true,
	"single":   true,
	"string":   true,
	"variant":  true,
}

// IsIntrinsicType reports whether name is a built-in value type. String * n
// fixed-length strings count as String.
func IsIntrinsicType(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.Index(name, "*"); i >= 0 {
		name = strings.TrimSpace(name[:i])
	}
	return intrinsicTypes[name]
}

// IsObjectTyped reports whether d holds an object reference: a scalar whose
// type is neither intrinsic nor a project enumeration or UDT.
func (d *Declaration) IsObjectTyped() bool {
	if d.IsArray || d.AsTypeName == "" || d.AsTypeDeclaration != nil {
		return false
	}
	return !IsIntrinsicType(d.AsTypeName)
}

// IsVariantTyped reports whether d is a scalar Variant, declared or implied.
func (d *Declaration) IsVariantTyped() bool {
	return !d.IsArray && (d.AsTypeName == "" || strings.EqualFold(d.AsTypeName, "Variant"))
}
