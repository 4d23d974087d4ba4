package expand

import (
	"os"

	"github.com/eugenenazirov/confighelper/internal/expression"
)

// EnvLookup resolves the value of an environment variable.
type EnvLookup func(name string) (string, bool)

// OSEnv looks names up in the process environment.
func OSEnv() EnvLookup {
	return os.LookupEnv
}

// MapEnv looks names up in env.
func MapEnv(env map[string]string) EnvLookup {
	return func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
}

// Environment replaces every $(name) in text with the variable's value.
// Unknown names stay in place and are returned as unresolved. The output is
// not scanned again.
func Environment(text string, lookup EnvLookup) (string, []string) {
	return EnvironmentWith(text, expression.Environment(), lookup)
}

// EnvironmentWith is Environment for a custom syntax.
func EnvironmentWith(text string, syntax expression.Syntax, lookup EnvLookup) (string, []string) {
	if lookup == nil {
		lookup = OSEnv()
	}

	var unresolved []string
	seen := make(map[string]struct{})
	out, _ := syntax.Replace(text, func(_ string, m expression.Match) (string, bool, error) {
		if v, ok := lookup(m.Name); ok {
			return v, true, nil
		}
		if _, dup := seen[m.Name]; !dup {
			seen[m.Name] = struct{}{}
			unresolved = append(unresolved, m.Name)
		}
		return "", false, nil
	})
	return out, unresolved
}
