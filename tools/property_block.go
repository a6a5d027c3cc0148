package tools

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/declarations"
)

// PropertyBlockInput is the input schema for the property_block tool
type PropertyBlockInput struct {
	File          string `json:"file" jsonschema_description:"Declaration model file (e.g. 'src/Class1.vbm.yaml'), relative to the project root."`
	Field         string `json:"field" jsonschema_description:"Module variable, or UDT member as Type.Member, the property encapsulates."`
	Property      string `json:"property" jsonschema_description:"Name of the property to generate."`
	Kind          string `json:"kind,omitempty" jsonschema_description:"Accessor to build: get, let, set, or all (default). 'all' picks Get plus Let and/or Set from the field's type."`
	Content       string `json:"content,omitempty" jsonschema_description:"Body of a single accessor. When omitted, a body reading or assigning the field is generated."`
	Accessibility string `json:"accessibility,omitempty" jsonschema_description:"Accessor accessibility: public (default), private, friend or global."`
	Parameter     string `json:"parameter,omitempty" jsonschema_description:"Name of the Let/Set value parameter."`
}

// PropertyBlockTool creates the property_block MCP tool
func PropertyBlockTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "property_block",
		Description: "Generate Property Get/Let/Set accessors encapsulating a VBA module variable or UDT member. Private enum fields are exposed as Long, arrays as Variant, UDT values are passed ByRef.",
	}
}

// PropertyBlockHandler handles the property_block tool invocation
func PropertyBlockHandler(cfg *Config) func(context.Context, *mcp.CallToolRequest, PropertyBlockInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input PropertyBlockInput) (*mcp.CallToolResult, any, error) {
		code, err := RenderPropertyBlock(cfg, input)
		if err != nil {
			return nil, nil, err
		}
		return textResult(code), nil, nil
	}
}

// RenderPropertyBlock loads the model and builds the requested accessors.
func RenderPropertyBlock(cfg *Config, input PropertyBlockInput) (string, error) {
	if input.Field == "" {
		return "", errors.New("field name is required")
	}
	if input.Property == "" {
		return "", errors.New("property name is required")
	}

	acc, err := parseAccessibility(input.Accessibility)
	if err != nil {
		return "", err
	}

	model, err := LoadModel(input.File)
	if err != nil {
		return "", err
	}
	field, err := model.Field(input.Field)
	if err != nil {
		return "", err
	}

	kinds, err := accessorKinds(input.Kind, field)
	if err != nil {
		return "", err
	}
	if len(kinds) > 1 && input.Content != "" {
		return "", errors.WithHint(errors.New("content applies to a single accessor"), "set kind to get, let or set")
	}

	builder := cfg.Builder()
	parameter := firstNonEmpty(input.Parameter, valueParameter(cfg))
	indent := strings.Repeat(" ", indentWidth(cfg))

	var sb strings.Builder
	for _, kind := range kinds {
		content := input.Content
		if content == "" {
			content = accessorBody(kind, field, input.Property, parameter, indent, builder.Newline())
		}

		code, ok, err := builder.BuildPropertyBlock(field, kind, input.Property,
			codegen.WithContent(content),
			codegen.WithPropertyAccessibility(acc),
			codegen.WithParameterIdentifier(parameter),
		)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", errors.Newf("%s %q cannot back a property", field.Type, field.Name)
		}

		cfg.logger().Debug("built property accessor",
			zap.String(logKeyTool, "property_block"),
			zap.String(logKeyFile, input.File),
			zap.String(logKeyName, input.Property),
			zap.Stringer(logKeyKind, kind))

		if sb.Len() > 0 {
			sb.WriteString(builder.Newline())
		}
		sb.WriteString(code)
	}
	return sb.String(), nil
}

// accessorKinds maps the kind input to the accessors to build. "all" pairs
// Get with Let for values, Set for objects, and both for Variants.
func accessorKinds(kind string, field *declarations.Declaration) ([]declarations.DeclarationType, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "get":
		return []declarations.DeclarationType{declarations.PropertyGet}, nil
	case "let":
		return []declarations.DeclarationType{declarations.PropertyLet}, nil
	case "set":
		return []declarations.DeclarationType{declarations.PropertySet}, nil
	case "", "all":
		kinds := []declarations.DeclarationType{declarations.PropertyGet}
		switch {
		case field.IsVariantTyped():
			kinds = append(kinds, declarations.PropertyLet, declarations.PropertySet)
		case field.IsObjectTyped():
			kinds = append(kinds, declarations.PropertySet)
		default:
			kinds = append(kinds, declarations.PropertyLet)
		}
		return kinds, nil
	}
	return nil, errors.WithHint(
		errors.Wrapf(codegen.ErrInvalidAccessorKind, "accessor kind %q", kind),
		"use get, let, set or all")
}

// accessorBody is the default body of an accessor over field.
func accessorBody(kind declarations.DeclarationType, field *declarations.Declaration, property, parameter, indent, newline string) string {
	switch kind {
	case declarations.PropertyLet:
		return indent + field.Name + " = " + parameter
	case declarations.PropertySet:
		return indent + "Set " + field.Name + " = " + parameter
	}

	switch {
	case field.IsObjectTyped():
		return indent + "Set " + property + " = " + field.Name
	case field.IsVariantTyped():
		return strings.Join([]string{
			indent + "If IsObject(" + field.Name + ") Then",
			indent + indent + "Set " + property + " = " + field.Name,
			indent + "Else",
			indent + indent + property + " = " + field.Name,
			indent + "End If",
		}, newline)
	}
	return indent + property + " = " + field.Name
}

func valueParameter(cfg *Config) string {
	if cfg == nil || cfg.ValueParameter == "" {
		return codegen.DefaultValueParameter
	}
	return cfg.ValueParameter
}

func indentWidth(cfg *Config) int {
	if cfg == nil || cfg.Indent == nil || *cfg.Indent < 0 {
		return codegen.DefaultIndent
	}
	return *cfg.Indent
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
