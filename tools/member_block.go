package tools

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/declarations"
)

// MemberBlockInput is the input schema for the member_block tool
type MemberBlockInput struct {
	File          string `json:"file" jsonschema_description:"Declaration model file (e.g. 'src/Module1.vbm.yaml'), relative to the project root."`
	Member        string `json:"member" jsonschema_description:"Name of the procedure, function or property to rebuild."`
	Kind          string `json:"kind,omitempty" jsonschema_description:"Member kind when several accessors share the name: function, sub, property-get, property-let or property-set."`
	Content       string `json:"content,omitempty" jsonschema_description:"Body placed verbatim between the signature and the end statement."`
	Accessibility string `json:"accessibility,omitempty" jsonschema_description:"Optional replacement accessibility: public, private, friend or global."`
	Identifier    string `json:"identifier,omitempty" jsonschema_description:"Optional new name for the member."`
}

// MemberBlockTool creates the member_block MCP tool
func MemberBlockTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "member_block",
		Description: "Rebuild a VBA procedure, function or property from its declaration: normalized signature (optionally renamed or re-scoped), the given body, and the matching End statement.",
	}
}

// MemberBlockHandler handles the member_block tool invocation
func MemberBlockHandler(cfg *Config) func(context.Context, *mcp.CallToolRequest, MemberBlockInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input MemberBlockInput) (*mcp.CallToolResult, any, error) {
		code, err := RenderMemberBlock(cfg, input)
		if err != nil {
			return nil, nil, err
		}
		return textResult(code), nil, nil
	}
}

// RenderMemberBlock loads the model and builds the member block it describes.
func RenderMemberBlock(cfg *Config, input MemberBlockInput) (string, error) {
	if input.Member == "" {
		return "", errors.New("member name is required")
	}

	kind := declarations.AnyKind
	if input.Kind != "" {
		var err error
		kind, err = declarations.ParseDeclarationType(input.Kind)
		if err != nil {
			return "", err
		}
		if !kind.IsMember() {
			return "", errors.WithHint(
				errors.Newf("%s is not a member kind", kind),
				"use function, sub, property-get, property-let or property-set")
		}
	}

	acc, err := parseAccessibility(input.Accessibility)
	if err != nil {
		return "", err
	}

	model, err := LoadModel(input.File)
	if err != nil {
		return "", err
	}
	member, err := model.Member(input.Member, kind)
	if err != nil {
		return "", err
	}

	cfg.logger().Debug("building member block",
		zap.String(logKeyTool, "member_block"),
		zap.String(logKeyFile, input.File),
		zap.String(logKeyName, member.Name),
		zap.Stringer(logKeyKind, member.Type))

	var opts []codegen.SignatureOption
	if input.Accessibility != "" {
		opts = append(opts, codegen.WithAccessibility(acc))
	}
	if input.Identifier != "" {
		opts = append(opts, codegen.WithIdentifier(input.Identifier))
	}
	return cfg.Builder().MemberBlock(member, input.Content, opts...), nil
}
