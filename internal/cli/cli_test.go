package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/confighelper/internal/document"
)

const exampleUsage = `example.py docstring in docopt recognised format see docopt

	Usage:
	example.py [--config=<file>]
			[--option1=arg1]
			[--option2=arg2]
			[--verbose]

	Options:
		-c, --config=<file>  configuration file to specify options
		--option1=arg1       anything specified here will override the config file
		--option2=arg2
		--level=<n>          verbosity level [default: 1]
		--verbose            print more
		-h --help            show this screen
`

func TestParseUsage(t *testing.T) {
	t.Parallel()

	usage, err := ParseUsage(exampleUsage)
	require.NoError(t, err)

	assert.Equal(t, "example.py", usage.Program)
	assert.Equal(t, "example.py docstring in docopt recognised format see docopt", usage.Description)

	names := make([]string, 0, len(usage.Options))
	for _, opt := range usage.Options {
		names = append(names, opt.Long)
	}
	assert.Equal(t, []string{"config", "option1", "option2", "verbose", "level"}, names)

	config, ok := usage.Option("config")
	require.True(t, ok)
	assert.True(t, config.TakesValue)
	assert.Equal(t, 'c', config.Short)
	assert.Equal(t, "<file>", config.Placeholder)
	assert.Equal(t, "configuration file to specify options", config.Help)

	level, ok := usage.Option("level")
	require.True(t, ok)
	require.NotNil(t, level.Default)
	assert.Equal(t, "1", *level.Default)
	assert.Equal(t, "verbosity level", level.Help)

	verbose, ok := usage.Option("verbose")
	require.True(t, ok)
	assert.False(t, verbose.TakesValue)
	assert.Equal(t, "print more", verbose.Help)

	_, ok = usage.Option("help")
	assert.False(t, ok)
}

func TestParseUsageOptionLineVariants(t *testing.T) {
	t.Parallel()

	usage, err := ParseUsage("Usage: tool [options]\n\nOptions:\n  --out FILE  output file\n  -q, --quiet Suppress output\n")
	require.NoError(t, err)

	out, ok := usage.Option("out")
	require.True(t, ok)
	assert.True(t, out.TakesValue)
	assert.Equal(t, "FILE", out.Placeholder)

	quiet, ok := usage.Option("quiet")
	require.True(t, ok)
	assert.False(t, quiet.TakesValue)
	assert.Equal(t, 'q', quiet.Short)
	assert.Equal(t, "Suppress output", quiet.Help)
	assert.Equal(t, "tool", usage.Program)
}

func TestParseUsageWithoutOptions(t *testing.T) {
	t.Parallel()

	_, err := ParseUsage("Usage: tool <file>\n")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestParse(t *testing.T) {
	t.Parallel()

	usage, err := ParseUsage(exampleUsage)
	require.NoError(t, err)

	raw, err := Parse(usage, []string{"--option1=fromcli", "-c", "conf.yaml", "--verbose"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"--config":  "conf.yaml",
		"--option1": "fromcli",
		"--option2": nil,
		"--level":   "1",
		"--verbose": true,
	}, raw)
}

func TestParseUnsetSwitchIsNull(t *testing.T) {
	t.Parallel()

	usage, err := ParseUsage(exampleUsage)
	require.NoError(t, err)

	raw, err := Parse(usage, nil)
	require.NoError(t, err)
	assert.Nil(t, raw["--verbose"])
	assert.Nil(t, raw["--config"])
}

func TestParseRejectsUnknownFlags(t *testing.T) {
	t.Parallel()

	usage, err := ParseUsage(exampleUsage)
	require.NoError(t, err)

	_, err = Parse(usage, []string{"--nope=1"})
	assert.ErrorIs(t, err, ErrUsage)
}

func TestStripMarkers(t *testing.T) {
	t.Parallel()

	got := StripMarkers(map[string]any{"--config": "a.yaml", "--option1": nil})
	assert.Equal(t, map[string]any{"config": "a.yaml", "option1": nil}, got)
}

func TestReinterpret(t *testing.T) {
	t.Parallel()

	got, err := Reinterpret(map[string]any{
		"list":    "[1,2,3]",
		"port":    "8080",
		"name":    "fromcli",
		"map":     "{a: 1}",
		"empty":   "",
		"unset":   nil,
		"switch":  true,
		"comment": "#not-a-comment",
		"broken":  "[1,2",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"broken", "comment", "empty", "list", "map", "name", "port", "switch", "unset"}, got.Keys())
	assert.Equal(t, map[string]any{
		"list":    []any{int64(1), int64(2), int64(3)},
		"port":    int64(8080),
		"name":    "fromcli",
		"map":     map[string]any{"a": int64(1)},
		"empty":   "",
		"unset":   nil,
		"switch":  true,
		"comment": "#not-a-comment",
		"broken":  "[1,2",
	}, document.ToNative(got))
}

func TestReinterpretRejectsUnsupportedValues(t *testing.T) {
	t.Parallel()

	_, err := Reinterpret(map[string]any{"bad": 3})
	assert.ErrorIs(t, err, ErrUsage)
}
