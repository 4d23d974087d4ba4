// Package expression finds reference expressions such as $(HOME), %(base)
// and %[common.yaml] in raw document text.
//
// Matching is purely textual and non-greedy. It does not understand quoting or
// escaping, so expression-like text inside a string literal is matched too.
package expression

import (
	"regexp"
	"strings"
)

// Syntax describes an expression by its opening and closing delimiters.
type Syntax struct {
	Open  string
	Close string
}

// Environment returns the $(name) syntax for environment variables.
func Environment() Syntax { return Syntax{Open: "$(", Close: ")"} }

// Local returns the %(name) syntax for local variables.
func Local() Syntax { return Syntax{Open: "%(", Close: ")"} }

// Include returns the %[name] syntax for file includes.
func Include() Syntax { return Syntax{Open: "%[", Close: "]"} }

// Match is one occurrence of an expression in a text.
type Match struct {
	// Text is the full matched expression, delimiters included.
	Text string
	// Name is the text between the delimiters.
	Name string
	// Start and End are byte offsets of Text.
	Start int
	End   int
}

func (s Syntax) String() string {
	return s.Open + "name" + s.Close
}

func (s Syntax) pattern() *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(s.Open) + `(.*?)` + regexp.QuoteMeta(s.Close))
}

// Find returns every match in order of occurrence, duplicates included.
func (s Syntax) Find(text string) []Match {
	if s.Open == "" || s.Close == "" || !strings.Contains(text, s.Open) {
		return nil
	}
	locs := s.pattern().FindAllStringSubmatchIndex(text, -1)
	matches := make([]Match, 0, len(locs))
	for _, loc := range locs {
		matches = append(matches, Match{
			Text:  text[loc[0]:loc[1]],
			Name:  text[loc[2]:loc[3]],
			Start: loc[0],
			End:   loc[1],
		})
	}
	return matches
}

// Names returns the distinct names referenced in text, in order of first occurrence.
func (s Syntax) Names(text string) []string {
	var names []string
	seen := make(map[string]struct{})
	for _, m := range s.Find(text) {
		if _, ok := seen[m.Name]; ok {
			continue
		}
		seen[m.Name] = struct{}{}
		names = append(names, m.Name)
	}
	return names
}

// ReplaceFunc resolves a match. Returning ok == false keeps the matched text.
type ReplaceFunc func(text string, m Match) (replacement string, ok bool, err error)

// Replace rebuilds text with every match passed through fn. The full text is
// handed to fn so that replacements can depend on the surrounding line.
// The first error aborts the replacement.
func (s Syntax) Replace(text string, fn ReplaceFunc) (string, error) {
	matches := s.Find(text)
	if len(matches) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range matches {
		replacement, ok, err := fn(text, m)
		if err != nil {
			return "", err
		}
		b.WriteString(text[last:m.Start])
		if ok {
			b.WriteString(replacement)
		} else {
			b.WriteString(m.Text)
		}
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String(), nil
}
