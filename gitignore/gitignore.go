// Package gitignore matches paths against the .gitignore files of a tree.
package gitignore

import (
	"bufio"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// Matcher holds compiled gitignore patterns for a directory tree.
type Matcher struct {
	root     string
	patterns []pattern
}

// pattern is a single gitignore line with its context.
type pattern struct {
	pattern  string // cleaned pattern text
	negation bool   // starts with !
	dirOnly  bool   // ends with /
	anchored bool   // contains / other than a trailing one
	baseDir  string // directory of the .gitignore, relative to root

	globs []glob.Glob
}

// New creates a Matcher for root, loading every .gitignore below it.
func New(root string) (*Matcher, error) {
	m := &Matcher{root: root}

	err := filepath.WalkDir(root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil // inaccessible paths are not fatal
		}
		if entry.IsDir() && p != root && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		if entry.Name() != ".gitignore" {
			return nil
		}

		relDir, _ := filepath.Rel(root, filepath.Dir(p))
		if relDir == "." {
			relDir = ""
		}
		_ = m.loadFile(p, filepath.ToSlash(relDir))
		return nil
	})

	return m, err
}

func (m *Matcher) loadFile(p string, baseDir string) error {
	file, err := os.Open(p)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if pat := parseLine(scanner.Text(), baseDir); pat != nil {
			m.patterns = append(m.patterns, *pat)
		}
	}
	return scanner.Err()
}

// parseLine parses one .gitignore line. It returns nil for blank lines,
// comments and patterns that do not compile.
func parseLine(line string, baseDir string) *pattern {
	// trailing spaces are dropped unless escaped
	for len(line) > 0 && line[len(line)-1] == ' ' {
		if len(line) >= 2 && line[len(line)-2] == '\\' {
			line = line[:len(line)-2] + " "
			break
		}
		line = line[:len(line)-1]
	}
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &pattern{baseDir: baseDir}
	if strings.HasPrefix(line, "!") {
		p.negation = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.HasPrefix(line, "/") {
		p.anchored = true
		line = line[1:]
	} else if strings.Contains(line, "/") {
		p.anchored = true
	}
	if line == "" {
		return nil
	}
	p.pattern = line

	for _, variant := range expandDoublestar(line) {
		g, err := glob.Compile(escapeBraces(variant), '/')
		if err != nil {
			return nil
		}
		p.globs = append(p.globs, g)
	}
	return p
}

// expandDoublestar lists the glob forms of a gitignore pattern. A "**"
// segment may match zero directories, which a glob "**" between two slashes
// cannot, so each such segment also gets a collapsed form.
func expandDoublestar(s string) []string {
	variants := []string{s}
	if strings.HasPrefix(s, "**/") {
		variants = append(variants, strings.TrimPrefix(s, "**/"))
	}
	for _, v := range variants {
		if strings.Contains(v, "/**/") {
			variants = append(variants, strings.ReplaceAll(v, "/**/", "/"))
		}
	}
	return variants
}

// escapeBraces quotes the glob alternation syntax, which gitignore lacks.
func escapeBraces(s string) string {
	return strings.NewReplacer("{", `\{`, "}", `\}`).Replace(s)
}

// Match reports whether a path relative to the Matcher's root is ignored.
// isDir must be true when path is a directory.
func (m *Matcher) Match(p string, isDir bool) bool {
	if m == nil || len(m.patterns) == 0 {
		return false
	}

	p = strings.TrimPrefix(filepath.ToSlash(p), "./")

	// a file under an ignored directory is ignored as well
	parts := strings.Split(p, "/")
	for i := 1; i < len(parts); i++ {
		if m.matchPath(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return m.matchPath(p, isDir)
}

// matchPath applies the patterns in order; the last match decides.
func (m *Matcher) matchPath(p string, isDir bool) bool {
	ignored := false
	for i := range m.patterns {
		if m.patterns[i].matches(p, isDir) {
			ignored = !m.patterns[i].negation
		}
	}
	return ignored
}

func (p *pattern) matches(name string, isDir bool) bool {
	if p.dirOnly && !isDir {
		return false
	}
	if p.baseDir != "" {
		if !strings.HasPrefix(name, p.baseDir+"/") {
			return false
		}
		name = strings.TrimPrefix(name, p.baseDir+"/")
	}
	if !p.anchored {
		// slash-free patterns match the last path element at any depth
		name = path.Base(name)
	}
	for _, g := range p.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
