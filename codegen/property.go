package codegen

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/declarations"
)

type propertyConfig struct {
	content       string
	accessibility declarations.Accessibility
	parameter     string
}

// PropertyOption customizes a generated property accessor.
type PropertyOption func(*propertyConfig)

// WithContent places body text between the accessor signature and End Property.
func WithContent(content string) PropertyOption {
	return func(c *propertyConfig) { c.content = content }
}

// WithPropertyAccessibility overrides the accessor's accessibility (Public by default).
func WithPropertyAccessibility(a declarations.Accessibility) PropertyOption {
	return func(c *propertyConfig) { c.accessibility = a }
}

// WithParameterIdentifier names the value parameter of a Let or Set accessor.
func WithParameterIdentifier(name string) PropertyOption {
	return func(c *propertyConfig) {
		if name != "" {
			c.parameter = name
		}
	}
}

// PropertyType returns the type a property backed by prototype is declared
// as. Arrays become Variant; private enum-typed fields become Long, since the
// enum cannot be named outside the module that declares it.
func PropertyType(prototype *declarations.Declaration) string {
	switch {
	case prototype.IsArray:
		return VariantType
	case prototype.Accessibility == declarations.Private && prototype.IsEnumTyped():
		return IntegerType
	case prototype.AsTypeName == "":
		return VariantType
	}
	return prototype.AsTypeName
}

// BuildPropertyGet renders a Property Get accessor over prototype. ok is
// false when prototype is not a variable or UDT member.
func (b *Builder) BuildPropertyGet(prototype *declarations.Declaration, propertyIdentifier string, opts ...PropertyOption) (string, bool) {
	code, ok, _ := b.BuildPropertyBlock(prototype, declarations.PropertyGet, propertyIdentifier, opts...)
	return code, ok
}

// BuildPropertyLet renders a Property Let accessor over prototype.
func (b *Builder) BuildPropertyLet(prototype *declarations.Declaration, propertyIdentifier string, opts ...PropertyOption) (string, bool) {
	code, ok, _ := b.BuildPropertyBlock(prototype, declarations.PropertyLet, propertyIdentifier, opts...)
	return code, ok
}

// BuildPropertySet renders a Property Set accessor over prototype.
func (b *Builder) BuildPropertySet(prototype *declarations.Declaration, propertyIdentifier string, opts ...PropertyOption) (string, bool) {
	code, ok, _ := b.BuildPropertyBlock(prototype, declarations.PropertySet, propertyIdentifier, opts...)
	return code, ok
}

// BuildPropertyBlock renders a property accessor of the given kind backed by
// prototype.
//
// A kind other than PropertyGet, PropertyLet or PropertySet is a usage error
// and returns an error wrapping ErrInvalidAccessorKind. A prototype that is
// not a module variable or UDT member cannot back a property: the result is
// "", false, nil.
func (b *Builder) BuildPropertyBlock(prototype *declarations.Declaration, kind declarations.DeclarationType, propertyIdentifier string, opts ...PropertyOption) (string, bool, error) {
	if !kind.IsProperty() {
		err := errors.WithHint(
			errors.Wrapf(ErrInvalidAccessorKind, "cannot build %s accessor %q", kind, propertyIdentifier),
			"use property-get, property-let or property-set",
		)
		b.logger.Debug("rejected property accessor",
			zap.String(logKeyProperty, propertyIdentifier),
			zap.Stringer(logKeyKind, kind),
			zap.Error(err))
		return "", false, err
	}

	if prototype == nil || !prototype.Type.IsField() {
		fields := []zap.Field{zap.String(logKeyProperty, propertyIdentifier), zap.Stringer(logKeyKind, kind)}
		if prototype != nil {
			fields = append(fields, zap.String(logKeyField, prototype.Name), zap.Stringer(logKeyType, prototype.Type))
		}
		b.logger.Debug("prototype cannot back a property", fields...)
		return "", false, nil
	}

	cfg := propertyConfig{accessibility: declarations.Public, parameter: b.valueParameter}
	for _, opt := range opts {
		opt(&cfg)
	}

	tokens, _ := tokensFor(kind)
	asType := PropertyType(prototype)
	accessibility := accessibilityToken(cfg.accessibility, declarations.Public)

	var signature string
	if kind == declarations.PropertyGet {
		signature = joinTokens(accessibility, tokens.keyword, propertyIdentifier+"()", asClause(asType))
	} else {
		mechanism := declarations.ByVal
		if !prototype.IsArray && prototype.IsUserDefinedTyped() {
			mechanism = declarations.ByRef
		}
		parameter := joinTokens(mechanism.Token(), cfg.parameter, asClause(asType))
		signature = joinTokens(accessibility, tokens.keyword, propertyIdentifier+"("+parameter+")")
	}

	return b.block(signature, cfg.content, tokens.end), true, nil
}
