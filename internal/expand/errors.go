package expand

import "errors"

var (
	// ErrIncludeNotFound is returned when an included file is absent from every search path.
	ErrIncludeNotFound = errors.New("include: file not found on any search path")
	// ErrIncludeDepth is returned when includes nest deeper than the configured limit,
	// which usually means an include cycle.
	ErrIncludeDepth = errors.New("include: maximum nesting depth exceeded")
	// ErrTypeMismatch is returned when a local reference resolves to a sequence or mapping.
	ErrTypeMismatch = errors.New("local reference must resolve to a string, number or boolean")
)
