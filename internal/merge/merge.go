// Package merge overlays command-line values onto file-sourced configuration.
package merge

import "github.com/eugenenazirov/confighelper/internal/document"

// Merge combines primary (command-line) and secondary (file) mappings. The
// result holds every key of either input. A key takes primary's value unless
// that value is missing or null, then secondary's, then null. Empty strings,
// zero and false in primary still win.
//
// Keys keep secondary's order, followed by keys only primary has. Inputs are
// not modified.
func Merge(primary, secondary *document.Mapping) *document.Mapping {
	out := document.NewMapping()
	for _, key := range secondary.Keys() {
		out.Set(key, choose(key, primary, secondary))
	}
	for _, key := range primary.Keys() {
		if out.Has(key) {
			continue
		}
		out.Set(key, choose(key, primary, secondary))
	}
	return out
}

func choose(key string, primary, secondary *document.Mapping) document.Node {
	if v, ok := primary.Get(key); ok && !isNull(v) {
		return document.Clone(v)
	}
	if v, ok := secondary.Get(key); ok {
		return document.Clone(v)
	}
	return document.Null()
}

func isNull(n document.Node) bool {
	s, ok := n.(document.Scalar)
	return ok && s.IsNull()
}
