package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/declarations"
)

// SignaturesInput is the input schema for the signatures tool
type SignaturesInput struct {
	Path   string `json:"path,omitempty" jsonschema_description:"Directory or model file to index. Defaults to current working directory if not specified."`
	Filter string `json:"filter,omitempty" jsonschema_description:"Optional path filter to show only a specific directory or model file. Overrides any default skip patterns for matching files."`
}

// SignaturesTool creates the signatures MCP tool
func SignaturesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "signatures",
		Description: "List the normalized signature of every procedure, function and property in the VBA declaration models (*.vbm.yaml, *.vbm.json) under a path: explicit accessibility, explicit ByVal/ByRef where required, parameters in source order.",
	}
}

// SignaturesHandler handles the signatures tool invocation
func SignaturesHandler(cfg *Config) func(context.Context, *mcp.CallToolRequest, SignaturesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SignaturesInput) (*mcp.CallToolResult, any, error) {
		output, err := RenderSignatures(cfg, input)
		if err != nil {
			return nil, nil, err
		}
		return textResult(output), nil, nil
	}
}

// RenderSignatures indexes input.Path and formats the signature listing.
func RenderSignatures(cfg *Config, input SignaturesInput) (string, error) {
	dir := input.Path
	if dir == "" {
		dir = "."
	}
	dir, err := absPath(dir)
	if err != nil {
		return "", err
	}

	files, loadErrs, err := IndexDirectory(dir)
	if err != nil {
		return "", errors.Wrap(err, "failed to index directory")
	}
	cfg.logger().Debug("indexed models",
		zap.String(logKeyTool, "signatures"),
		zap.String(logKeyFile, dir),
		zap.Int(logKeyModels, len(files)))

	output := FormatSignatures(files, cfg.Builder(), FormatOptions{
		SkipPatterns: cfg.SkipPatterns,
		Filter:       input.Filter,
		LineLimit:    cfg.LineLimit,
	})
	for _, loadErr := range loadErrs {
		output += fmt.Sprintf("# skipped: %v\n", loadErr)
	}
	if output == "" {
		output = "No declaration models found in the specified path."
	}
	return output, nil
}

// FormatOptions controls how the signature listing is formatted
type FormatOptions struct {
	SkipPatterns []string // Path prefixes to skip by default
	Filter       string   // If set, only show files matching this prefix (overrides skip)
	LineLimit    int      // Maximum lines in output (0 = DefaultLineLimit)
}

// FormatSignatures lists the improved signature of every member, grouped by
// model file, truncating once the line limit is reached.
func FormatSignatures(files []ModelIndex, builder *codegen.Builder, opts FormatOptions) string {
	limit := opts.LineLimit
	if limit <= 0 {
		limit = DefaultLineLimit
	}

	sorted := make([]ModelIndex, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var lines []string
	truncated := false
	emit := func(block []string) bool {
		if len(lines)+len(block) > limit {
			truncated = true
			return false
		}
		lines = append(lines, block...)
		return true
	}

	for _, file := range sorted {
		if opts.Filter != "" {
			if !matchesFilter(file.Path, opts.Filter) {
				continue
			}
		} else if isSkipped(file.Path, opts.SkipPatterns) {
			if !emit([]string{
				fmt.Sprintf("## %s", file.Path),
				"  (skipped by default - use filter parameter to index this path explicitly)",
				"",
			}) {
				break
			}
			continue
		}

		members := sortedMembers(file.Model)
		if len(members) == 0 {
			continue
		}

		block := []string{fmt.Sprintf("## %s (%s)", file.Path, file.Model.Module)}
		for _, m := range members {
			block = append(block, fmt.Sprintf("  %s [%d]", builder.ImprovedSignature(m), m.Selection.Start.Line+1))
		}
		block = append(block, "")
		if !emit(block) {
			break
		}
	}

	if len(lines) == 0 && !truncated {
		return ""
	}

	var sb strings.Builder
	if truncated {
		sb.WriteString(fmt.Sprintf("# Note: output truncated at %d lines - use filter to narrow the listing\n\n", limit))
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func sortedMembers(model *declarations.Model) []*declarations.ModuleBodyElementDeclaration {
	members := make([]*declarations.ModuleBodyElementDeclaration, len(model.Members))
	copy(members, model.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Selection.Before(members[j].Selection)
	})
	return members
}

// matchesFilter checks if a file path matches the filter.
// Supports both exact file match and directory prefix match.
func matchesFilter(filePath, filter string) bool {
	filter = strings.TrimPrefix(filter, "./")
	filePath = strings.TrimPrefix(filePath, "./")

	if filePath == filter {
		return true
	}

	// filter="src" matches "src/Module1.vbm.yaml"
	filterDir := strings.TrimSuffix(filter, "/")
	return strings.HasPrefix(filePath, filterDir+"/")
}

// isSkipped checks if a file path matches any skip pattern (prefix match)
func isSkipped(filePath string, patterns []string) bool {
	filePath = strings.TrimPrefix(filePath, "./")
	for _, pattern := range patterns {
		pattern = strings.TrimPrefix(pattern, "./")
		pattern = strings.TrimSuffix(pattern, "/")
		if filePath == pattern || strings.HasPrefix(filePath, pattern+"/") {
			return true
		}
	}
	return false
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
