package serializer

import "errors"

var (
	// ErrConfigFormat is returned when a requested or inferred format is not supported.
	ErrConfigFormat = errors.New("config format not supported, use json or yaml")
	// ErrParse is returned when document text cannot be parsed.
	ErrParse = errors.New("parse config")
	// ErrNotMapping is returned when a document's root is not a mapping.
	ErrNotMapping = errors.New("config root must be a mapping")
)
