// Package logging builds the zap logger shared by the loader and the CLI.
package logging
