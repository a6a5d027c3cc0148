// Package tools exposes the code builder as MCP tools and as the library
// functions behind the CLI commands.
package tools

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/roveo/topo-vba/codegen"
	"github.com/roveo/topo-vba/declarations"
	"github.com/roveo/topo-vba/gitignore"
)

// DefaultLineLimit is the default maximum number of lines in the signatures output
const DefaultLineLimit = 1000

// structured log keys
const (
	logKeyTool   = "tool"
	logKeyFile   = "file"
	logKeyName   = "name"
	logKeyKind   = "kind"
	logKeyModels = "models"
)

// Config holds server-wide configuration for tools
type Config struct {
	SkipPatterns   []string // Path prefixes to skip by default
	LineLimit      int      // Maximum lines in output (0 = DefaultLineLimit)
	Indent         *int     // Spaces before UDT member and body lines (nil = codegen.DefaultIndent)
	Newline        string   // Line terminator of generated code
	ValueParameter string   // Name of the synthesized Let/Set parameter
	Logger         *zap.Logger
}

func (c *Config) logger() *zap.Logger {
	if c == nil || c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// Builder returns a code builder configured from c.
func (c *Config) Builder() *codegen.Builder {
	if c == nil {
		return codegen.New()
	}
	opts := []codegen.Option{
		codegen.WithLogger(c.Logger),
		codegen.WithNewline(c.Newline),
		codegen.WithValueParameter(c.ValueParameter),
	}
	if c.Indent != nil {
		opts = append(opts, codegen.WithIndent(*c.Indent))
	}
	return codegen.New(opts...)
}

// ModelIndex is one loaded declaration model file.
type ModelIndex struct {
	Path  string // Relative path from the index root
	Model *declarations.Model
}

// IndexDirectory walks dir and loads every declaration model file that is
// not ignored by .gitignore. A dir naming a single file loads just that file.
// Files that fail to load are reported in the returned error list and
// skipped.
func IndexDirectory(dir string) ([]ModelIndex, []error, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to stat path")
	}
	if !info.IsDir() {
		model, err := declarations.LoadFile(dir)
		if err != nil {
			return nil, []error{err}, nil
		}
		return []ModelIndex{{Path: filepath.Base(dir), Model: model}}, nil, nil
	}

	matcher, _ := gitignore.New(dir)

	var results []ModelIndex
	var loadErrs []error
	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			relPath = path
		}

		if entry.IsDir() {
			name := entry.Name()
			if path != dir && (strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules") {
				return filepath.SkipDir
			}
			if path != dir && matcher.Match(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !declarations.IsModelFile(path) || matcher.Match(relPath, false) {
			return nil
		}

		model, err := declarations.LoadFile(path)
		if err != nil {
			loadErrs = append(loadErrs, err)
			return nil
		}
		results = append(results, ModelIndex{Path: filepath.ToSlash(relPath), Model: model})
		return nil
	})

	return results, loadErrs, err
}

// absPath makes a relative path absolute against the working directory.
func absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Wrap(err, "failed to get working directory")
	}
	return filepath.Join(cwd, path), nil
}

// LoadModel resolves file against the working directory and loads it.
func LoadModel(file string) (*declarations.Model, error) {
	if file == "" {
		return nil, errors.New("file path is required")
	}
	path, err := absPath(file)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.Newf("file not found: %s", file)
	}
	return declarations.LoadFile(path)
}

// parseAccessibility reads an optional accessibility override.
func parseAccessibility(s string) (declarations.Accessibility, error) {
	a, err := declarations.ParseAccessibility(s)
	if err != nil {
		return declarations.Implicit, errors.WithHint(err, "use public, private, friend or global")
	}
	return a, nil
}
