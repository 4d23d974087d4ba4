package cli

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Option declares one command-line option.
type Option struct {
	// Long is the option name without leading dashes.
	Long string
	// Short is the optional single-letter alias.
	Short rune
	// TakesValue is false for switches.
	TakesValue  bool
	Placeholder string
	Help        string
	// Default is used when the option is not supplied. Nil means no default.
	Default *string
}

// Usage is a tool's command-line interface description.
type Usage struct {
	Program     string
	Description string
	Options     []Option
}

// Option returns the declaration for a long name.
func (u Usage) Option(long string) (Option, bool) {
	for _, opt := range u.Options {
		if opt.Long == long {
			return opt, true
		}
	}
	return Option{}, false
}

var (
	usageOptionPattern = regexp.MustCompile(`--([A-Za-z0-9][A-Za-z0-9_-]*)(=[^\s\]\)|]+)?`)
	defaultPattern     = regexp.MustCompile(`(?i)\[default:\s*([^\]]*)\]`)
	helpSplitPattern   = regexp.MustCompile(`\s{2,}`)
)

// ParseUsage reads a docopt-style usage document:
//
//	mytool.py docstring
//
//	Usage:
//	    mytool.py [--config=<file>] [--option1=<value>] [--verbose]
//
//	Options:
//	    -c, --config=<file>   configuration file
//	    --option1=<value>     overrides the file [default: x]
//	    --verbose             print more
//
// Every --name token declares an option; one written with an argument takes a
// value. A line starting with the option supplies help text and an optional
// [default: ...].
func ParseUsage(doc string) (Usage, error) {
	var usage Usage
	index := make(map[string]int)
	declare := func(opt Option) {
		if opt.Long == "help" {
			return
		}
		i, ok := index[opt.Long]
		if !ok {
			index[opt.Long] = len(usage.Options)
			usage.Options = append(usage.Options, opt)
			return
		}
		existing := &usage.Options[i]
		existing.TakesValue = existing.TakesValue || opt.TakesValue
		if opt.Short != 0 {
			existing.Short = opt.Short
		}
		if opt.Placeholder != "" {
			existing.Placeholder = opt.Placeholder
		}
		if opt.Help != "" {
			existing.Help = opt.Help
		}
		if opt.Default != nil {
			existing.Default = opt.Default
		}
	}

	lines := strings.Split(doc, "\n")
	inUsage := false
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			inUsage = false
			continue
		}
		if usage.Description == "" && usage.Program == "" && !isSectionHeader(line, "usage:") {
			usage.Description = line
		}

		if isSectionHeader(line, "usage:") {
			inUsage = true
			line = strings.TrimSpace(line[len("usage:"):])
			if line == "" {
				continue
			}
		}
		if inUsage && usage.Program == "" {
			usage.Program = strings.Fields(line)[0]
		}

		if strings.HasPrefix(line, "-") {
			opt, ok, err := parseOptionLine(line)
			if err != nil {
				return Usage{}, err
			}
			if ok {
				declare(opt)
				continue
			}
		}
		for _, m := range usageOptionPattern.FindAllStringSubmatch(line, -1) {
			opt := Option{Long: m[1], TakesValue: m[2] != ""}
			if opt.TakesValue {
				opt.Placeholder = strings.TrimPrefix(m[2], "=")
			}
			declare(opt)
		}
	}

	if len(usage.Options) == 0 {
		return Usage{}, fmt.Errorf("%w: no options declared", ErrUsage)
	}
	if usage.Program == "" {
		usage.Program = "tool"
	}
	return usage, nil
}

func isSectionHeader(line, header string) bool {
	return len(line) >= len(header) && strings.EqualFold(line[:len(header)], header)
}

// parseOptionLine handles "-c, --config=<file>  help text [default: x]".
// It reports false when the line declares no long option.
func parseOptionLine(line string) (Option, bool, error) {
	decl, help := line, ""
	if loc := helpSplitPattern.FindStringIndex(line); loc != nil {
		decl, help = line[:loc[0]], strings.TrimSpace(line[loc[1]:])
	}

	var opt Option
	expectValue := false
	tokens := strings.FieldsFunc(decl, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	for i, tok := range tokens {
		switch {
		case strings.HasPrefix(tok, "--"):
			name, arg, hasArg := strings.Cut(tok[2:], "=")
			if name == "" {
				return Option{}, false, fmt.Errorf("%w: malformed option %q", ErrUsage, tok)
			}
			opt.Long = name
			if hasArg {
				opt.TakesValue = true
				opt.Placeholder = arg
			}
			expectValue = !hasArg
			continue
		case strings.HasPrefix(tok, "-") && len(tok) >= 2:
			name, arg, hasArg := strings.Cut(tok[1:], "=")
			r, size := utf8.DecodeRuneInString(name)
			if size != len(name) {
				return Option{}, false, fmt.Errorf("%w: short option %q must be one character", ErrUsage, tok)
			}
			opt.Short = r
			if hasArg {
				opt.TakesValue = true
				opt.Placeholder = arg
			}
			expectValue = !hasArg
			continue
		case expectValue && isPlaceholder(tok):
			opt.TakesValue = true
			opt.Placeholder = tok
			expectValue = false
			continue
		}
		// single-spaced help text
		help = strings.TrimSpace(strings.Join(tokens[i:], " ") + " " + help)
		break
	}
	if opt.Long == "" {
		return Option{}, false, nil
	}

	if m := defaultPattern.FindStringSubmatch(help); m != nil {
		def := strings.TrimSpace(m[1])
		opt.Default = &def
		help = strings.TrimSpace(defaultPattern.ReplaceAllString(help, ""))
	}
	opt.Help = help
	return opt, true, nil
}

func isPlaceholder(tok string) bool {
	if strings.HasPrefix(tok, "<") && strings.HasSuffix(tok, ">") {
		return true
	}
	return tok == strings.ToUpper(tok) && strings.ToLower(tok) != tok
}
