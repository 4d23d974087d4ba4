// Package document defines the in-memory form of a configuration document:
// a tree of scalar leaves, ordered mappings and sequences. Every consumer
// dispatches on the concrete node type with an exhaustive type switch.
package document
