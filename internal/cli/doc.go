// Package cli turns a docopt-style usage document and an argument list into
// the command-line side of a configuration merge. Parsing is delegated to
// kingpin; this package only builds the flag set and shapes the results.
package cli
