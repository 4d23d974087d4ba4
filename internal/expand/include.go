package expand

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/eugenenazirov/confighelper/internal/expression"
)

// DefaultMaxIncludeDepth bounds include nesting.
const DefaultMaxIncludeDepth = 32

// IncludeOptions configures include expansion.
type IncludeOptions struct {
	// SearchPaths are directories searched in order for each included name.
	SearchPaths []string
	// MaxDepth bounds nesting. Zero means DefaultMaxIncludeDepth.
	MaxDepth int
	// Transform is applied to each included file's raw text before its own
	// includes are expanded.
	Transform func(name, text string) string
	// Syntax overrides the %[name] syntax.
	Syntax *expression.Syntax
	// ReadFile overrides os.ReadFile.
	ReadFile func(path string) ([]byte, error)
}

// Includes replaces every %[name] in text with the contents of the first file
// called name found on the search paths. Included text is expanded
// recursively, depth first, with the same search paths.
func Includes(text string, opts IncludeOptions) (string, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxIncludeDepth
	}
	if opts.ReadFile == nil {
		opts.ReadFile = os.ReadFile
	}
	syntax := expression.Include()
	if opts.Syntax != nil {
		syntax = *opts.Syntax
	}
	return includes(text, syntax, opts, 0)
}

func includes(text string, syntax expression.Syntax, opts IncludeOptions, depth int) (string, error) {
	return syntax.Replace(text, func(full string, m expression.Match) (string, bool, error) {
		if depth >= opts.MaxDepth {
			return "", false, fmt.Errorf("%w (%d) at %s", ErrIncludeDepth, opts.MaxDepth, m.Text)
		}

		path, err := resolveInclude(m.Name, opts.SearchPaths)
		if err != nil {
			return "", false, err
		}
		data, err := opts.ReadFile(path)
		if err != nil {
			return "", false, fmt.Errorf("include %s: read %s: %w", m.Name, path, err)
		}

		included := string(data)
		if opts.Transform != nil {
			included = opts.Transform(m.Name, included)
		}
		included, err = includes(included, syntax, opts, depth+1)
		if err != nil {
			return "", false, err
		}
		return place(included, full, m.Start), true, nil
	})
}

func resolveInclude(name string, searchPaths []string) (string, error) {
	if filepath.IsAbs(name) {
		if isFile(name) {
			return name, nil
		}
		return "", fmt.Errorf("%w: %s", ErrIncludeNotFound, name)
	}
	for _, dir := range searchPaths {
		candidate := filepath.Join(dir, name)
		if isFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s (searched %s)", ErrIncludeNotFound, name, strings.Join(searchPaths, ", "))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// place fits included text into the line holding the expression at offset
// start. An expression standing for a whole value (key: %[file] or
// - %[file]) becomes a block on the following lines, two spaces deeper than
// the line. An expression that begins its line keeps the line's indentation
// on continuation lines. Anywhere else the text is substituted as is.
func place(included, text string, start int) string {
	included = strings.TrimSuffix(included, "\n")

	lineStart := strings.LastIndex(text[:start], "\n") + 1
	prefix := text[lineStart:start]
	indent := prefix[:len(prefix)-len(strings.TrimLeft(prefix, " \t"))]
	lead := strings.TrimSpace(prefix)
	spaced := strings.HasSuffix(prefix, " ") || strings.HasSuffix(prefix, "\t")

	lines := strings.Split(included, "\n")
	switch {
	case lead == "":
		for i := 1; i < len(lines); i++ {
			if lines[i] != "" {
				lines[i] = indent + lines[i]
			}
		}
		return strings.Join(lines, "\n")
	case spaced && (strings.HasSuffix(lead, ":") || lead == "-" || strings.HasSuffix(lead, " -")):
		indent = strings.Repeat(" ", len(prefix)-len(strings.TrimLeft(prefix, " \t-")))
		indent += "  "
		for i := range lines {
			if lines[i] != "" {
				lines[i] = indent + lines[i]
			}
		}
		return "\n" + strings.Join(lines, "\n")
	default:
		return included
	}
}
