package expand

import (
	"fmt"

	"github.com/eugenenazirov/confighelper/internal/document"
	"github.com/eugenenazirov/confighelper/internal/expression"
)

// DefaultMaxPasses is the default cap on local expansion passes.
const DefaultMaxPasses = 10

// Report describes the outcome of a fixed-point local expansion.
type Report struct {
	// Passes is the number of passes run.
	Passes int
	// Stable is false when the pass cap was reached before the text stopped changing.
	Stable bool
	// Unresolved lists names still referenced in the final text.
	Unresolved []string
}

// Locals runs one pass replacing every %(name) with the text of the top-level
// scope value called name. Names that are absent or null stay in place and
// are returned as unresolved.
func Locals(text string, scope *document.Mapping) (string, []string, error) {
	return locals(text, expression.Local(), scope)
}

func locals(text string, syntax expression.Syntax, scope *document.Mapping) (string, []string, error) {
	var unresolved []string
	seen := make(map[string]struct{})
	miss := func(name string) {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			unresolved = append(unresolved, name)
		}
	}

	out, err := syntax.Replace(text, func(_ string, m expression.Match) (string, bool, error) {
		value, ok := scope.Get(m.Name)
		if !ok {
			miss(m.Name)
			return "", false, nil
		}
		switch v := value.(type) {
		case document.Scalar:
			if !v.IsBasic() {
				miss(m.Name)
				return "", false, nil
			}
			return v.Text(), true, nil
		case *document.Sequence, *document.Mapping:
			return "", false, fmt.Errorf("%w: %s resolves to a %s", ErrTypeMismatch, m.Text, document.TypeName(v))
		default:
			return "", false, fmt.Errorf("%w: %s resolves to %T", ErrTypeMismatch, m.Text, v)
		}
	})
	if err != nil {
		return "", nil, err
	}
	return out, unresolved, nil
}

// LocalsFixedPoint applies Locals until the text stops changing or maxPasses
// passes have run. A non-positive maxPasses means DefaultMaxPasses.
func LocalsFixedPoint(text string, scope *document.Mapping, maxPasses int) (string, Report, error) {
	return LocalsFixedPointWith(text, expression.Local(), scope, maxPasses)
}

// LocalsFixedPointWith is LocalsFixedPoint for a custom local syntax.
func LocalsFixedPointWith(text string, syntax expression.Syntax, scope *document.Mapping, maxPasses int) (string, Report, error) {
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}

	var report Report
	current := text
	for report.Passes < maxPasses {
		next, unresolved, err := locals(current, syntax, scope)
		if err != nil {
			return "", report, err
		}
		report.Passes++
		report.Unresolved = unresolved
		if next == current {
			report.Stable = true
			return next, report, nil
		}
		current = next
	}

	// the last pass changed the text, so its unresolved list may be stale
	report.Unresolved = syntax.Names(current)
	return current, report, nil
}
