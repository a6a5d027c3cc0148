package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/codegen"
)

// UDTMemberInput names a field and the identifier it takes inside the type.
type UDTMemberInput struct {
	Field      string `json:"field" jsonschema_description:"Module variable, or existing UDT member as Type.Member, supplying the member's type (and array bounds)."`
	Identifier string `json:"identifier,omitempty" jsonschema_description:"Member name inside the type. Defaults to the field name."`
}

// UDTInput is the input schema for the udt_declaration tool
type UDTInput struct {
	File          string           `json:"file" jsonschema_description:"Declaration model file (e.g. 'src/Class1.vbm.yaml'), relative to the project root."`
	Name          string           `json:"name" jsonschema_description:"Name of the new user-defined type."`
	Accessibility string           `json:"accessibility,omitempty" jsonschema_description:"Type accessibility: private (default) or public."`
	Members       []UDTMemberInput `json:"members" jsonschema_description:"Members in declaration order. Identifiers must be unique ignoring case."`
}

// UDTTool creates the udt_declaration MCP tool
func UDTTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "udt_declaration",
		Description: "Generate a VBA Type ... End Type declaration whose members mirror existing module variables. Array fields keep their original bounds.",
	}
}

// UDTHandler handles the udt_declaration tool invocation
func UDTHandler(cfg *Config) func(context.Context, *mcp.CallToolRequest, UDTInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input UDTInput) (*mcp.CallToolResult, any, error) {
		code, err := RenderUDT(cfg, input)
		if err != nil {
			return nil, nil, err
		}
		return textResult(code), nil, nil
	}
}

// RenderUDT loads the model and builds the requested Type declaration.
func RenderUDT(cfg *Config, input UDTInput) (string, error) {
	if input.Name == "" {
		return "", errors.New("type name is required")
	}

	acc, err := parseAccessibility(input.Accessibility)
	if err != nil {
		return "", err
	}

	model, err := LoadModel(input.File)
	if err != nil {
		return "", err
	}

	members := make([]codegen.UDTMemberPrototype, 0, len(input.Members))
	for _, m := range input.Members {
		field, err := model.Field(m.Field)
		if err != nil {
			return "", err
		}
		members = append(members, codegen.UDTMemberPrototype{
			Field:      field,
			Identifier: firstNonEmpty(m.Identifier, field.Name),
		})
	}

	cfg.logger().Debug("building user-defined type",
		zap.String(logKeyTool, "udt_declaration"),
		zap.String(logKeyFile, input.File),
		zap.String(logKeyName, input.Name),
		zap.Int("members", len(members)))

	return cfg.Builder().BuildUDT(input.Name, members, acc)
}
