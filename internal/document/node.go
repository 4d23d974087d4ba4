package document

import (
	"math"
	"strconv"
)

// Node is a configuration document node: Scalar, *Sequence or *Mapping.
type Node interface {
	node()
}

// Kind identifies the type of value held by a Scalar.
type Kind int

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Scalar is a leaf value. The zero value is null.
type Scalar struct {
	kind Kind
	s    string
	i    int64
	f    float64
	b    bool
}

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// String returns a string scalar.
func String(s string) Scalar { return Scalar{kind: KindString, s: s} }

// Int returns an integer scalar.
func Int(i int64) Scalar { return Scalar{kind: KindInt, i: i} }

// Float returns a floating point scalar.
func Float(f float64) Scalar { return Scalar{kind: KindFloat, f: f} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{kind: KindBool, b: b} }

func (Scalar) node() {}

// Kind reports the scalar's value type.
func (s Scalar) Kind() Kind { return s.kind }

// IsNull reports whether the scalar is null.
func (s Scalar) IsNull() bool { return s.kind == KindNull }

// IsBasic reports whether the scalar is a string, number or boolean, the only
// values a local reference may resolve to.
func (s Scalar) IsBasic() bool {
	switch s.kind {
	case KindString, KindInt, KindFloat, KindBool:
		return true
	default:
		return false
	}
}

// Text returns the textual form substituted for a local reference.
func (s Scalar) Text() string {
	switch s.kind {
	case KindString:
		return s.s
	case KindInt:
		return strconv.FormatInt(s.i, 10)
	case KindFloat:
		return formatFloat(s.f)
	case KindBool:
		return strconv.FormatBool(s.b)
	default:
		return "null"
	}
}

// Value returns the scalar as a plain Go value: nil, string, int64, float64 or bool.
func (s Scalar) Value() any {
	switch s.kind {
	case KindString:
		return s.s
	case KindInt:
		return s.i
	case KindFloat:
		return s.f
	case KindBool:
		return s.b
	default:
		return nil
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Sequence is an ordered list of nodes.
type Sequence struct {
	Items []Node
}

// NewSequence returns a sequence holding items.
func NewSequence(items ...Node) *Sequence {
	return &Sequence{Items: items}
}

func (*Sequence) node() {}

// Len returns the number of items.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Items)
}

// Mapping is a string-keyed map that remembers insertion order.
type Mapping struct {
	keys   []string
	values map[string]Node
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Node)}
}

func (*Mapping) node() {}

// Set stores value under key. A new key is appended; an existing key keeps its position.
func (m *Mapping) Set(key string, value Node) {
	if m.values == nil {
		m.values = make(map[string]Node)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	if value == nil {
		value = Null()
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Clone returns a deep copy of the mapping.
func (m *Mapping) Clone() *Mapping {
	out := NewMapping()
	if m == nil {
		return out
	}
	for _, k := range m.keys {
		out.Set(k, Clone(m.values[k]))
	}
	return out
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case Scalar:
		return v
	case *Sequence:
		if v == nil {
			return Null()
		}
		items := make([]Node, len(v.Items))
		for i, item := range v.Items {
			items[i] = Clone(item)
		}
		return &Sequence{Items: items}
	case *Mapping:
		if v == nil {
			return Null()
		}
		return v.Clone()
	default:
		return Null()
	}
}

// TypeName describes a node for error messages.
func TypeName(n Node) string {
	switch v := n.(type) {
	case Scalar:
		return v.Kind().String()
	case *Sequence:
		return "sequence"
	case *Mapping:
		return "mapping"
	default:
		return "unknown"
	}
}
