package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestScalarText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		scalar Scalar
		want   string
		basic  bool
	}{
		{name: "string", scalar: String("/data"), want: "/data", basic: true},
		{name: "int", scalar: Int(8080), want: "8080", basic: true},
		{name: "float", scalar: Float(0.25), want: "0.25", basic: true},
		{name: "bool", scalar: Bool(true), want: "true", basic: true},
		{name: "null", scalar: Null(), want: "null", basic: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.scalar.Text())
			assert.Equal(t, tc.basic, tc.scalar.IsBasic())
		})
	}
}

func TestMappingKeepsInsertionOrder(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("zeta", Int(1))
	m.Set("alpha", Int(2))
	m.Set("zeta", Int(3))

	assert.Equal(t, []string{"zeta", "alpha"}, m.Keys())
	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, Int(3), v)
	assert.False(t, m.Has("missing"))
}

func TestMappingSetNilStoresNull(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("key", nil)

	v, ok := m.Get("key")
	require.True(t, ok)
	assert.Equal(t, Null(), v)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	inner := NewMapping()
	inner.Set("host", String("x"))
	m := NewMapping()
	m.Set("server", inner)
	m.Set("ports", NewSequence(Int(1), Int(2)))

	c := m.Clone()
	inner.Set("host", String("changed"))

	server, _ := c.Get("server")
	host, _ := server.(*Mapping).Get("host")
	assert.Equal(t, String("x"), host)
}

func TestToNative(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("name", String("svc"))
	m.Set("list", NewSequence(Int(1), Bool(false), Null()))

	got := ToNative(m)
	assert.Equal(t, map[string]any{
		"name": "svc",
		"list": []any{int64(1), false, nil},
	}, got)
}

func TestYAMLRoundTripPreservesOrderAndTypes(t *testing.T) {
	t.Parallel()

	src := "b: 1\na: two\nc:\n  - 1.5\n  - true\nd: null\n"
	var yn yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &yn))

	n, err := FromYAML(&yn)
	require.NoError(t, err)

	m, ok := n.(*Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a", "c", "d"}, m.Keys())

	b, _ := m.Get("b")
	assert.Equal(t, Int(1), b)
	c, _ := m.Get("c")
	assert.Equal(t, NewSequence(Float(1.5), Bool(true)), c)
	d, _ := m.Get("d")
	assert.Equal(t, Null(), d)

	back, err := YAMLNode(m)
	require.NoError(t, err)
	out, err := yaml.Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na: two\nc:\n    - 1.5\n    - true\nd: null\n", string(out))
}

func TestYAMLNodeQuotesNumericStrings(t *testing.T) {
	t.Parallel()

	m := NewMapping()
	m.Set("port", String("8080"))

	yn, err := YAMLNode(m)
	require.NoError(t, err)
	out, err := yaml.Marshal(yn)
	require.NoError(t, err)
	assert.Equal(t, "port: \"8080\"\n", string(out))
}

func TestFromYAMLResolvesAliases(t *testing.T) {
	t.Parallel()

	src := "base: &b /data\ncopy: *b\n"
	var yn yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &yn))

	n, err := FromYAML(&yn)
	require.NoError(t, err)
	v, _ := n.(*Mapping).Get("copy")
	assert.Equal(t, String("/data"), v)
}

func TestUnmarshalIntoStruct(t *testing.T) {
	t.Parallel()

	type server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	}
	type settings struct {
		Server server   `yaml:"server"`
		Tags   []string `yaml:"tags"`
	}

	srv := NewMapping()
	srv.Set("host", String("localhost"))
	srv.Set("port", Int(9000))
	m := NewMapping()
	m.Set("server", srv)
	m.Set("tags", NewSequence(String("a"), String("b")))

	var got settings
	require.NoError(t, Unmarshal(m, &got))
	assert.Equal(t, settings{Server: server{Host: "localhost", Port: 9000}, Tags: []string{"a", "b"}}, got)
}
