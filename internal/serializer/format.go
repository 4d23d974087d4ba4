package serializer

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format names a supported serialization format.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat maps a format or extension name to a Format.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrConfigFormat, name)
	}
}

// FormatFromFilename infers the format from the text after the final '.' in
// path, lower-cased.
func FormatFromFilename(path string) (Format, error) {
	base := filepath.Base(path)
	idx := strings.LastIndex(base, ".")
	if idx < 0 {
		return "", fmt.Errorf("%w: %q has no extension", ErrConfigFormat, path)
	}
	return ParseFormat(strings.ToLower(base[idx+1:]))
}
