// Package serializer converts configuration documents to and from the two
// supported text formats, JSON and YAML.
package serializer
