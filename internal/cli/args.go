package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/alecthomas/kingpin/v2"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/confighelper/internal/document"
)

const optionMarker = "--"

type binding struct {
	opt   Option
	str   *string
	flag  *bool
	isSet bool
}

// Parse matches args against usage and returns the raw values keyed by their
// full spelling (--name). Value options map to their string, switches given
// on the command line map to a bool, and options neither supplied nor
// defaulted map to nil.
func Parse(usage Usage, args []string) (map[string]any, error) {
	app := kingpin.New(usage.Program, usage.Description)
	app.Terminate(nil)
	app.UsageWriter(io.Discard)
	app.ErrorWriter(io.Discard)

	bindings := make([]*binding, 0, len(usage.Options))
	for _, opt := range usage.Options {
		b := &binding{opt: opt}
		clause := app.Flag(opt.Long, opt.Help).IsSetByUser(&b.isSet)
		if opt.Short != 0 {
			clause = clause.Short(opt.Short)
		}
		if opt.TakesValue {
			if opt.Placeholder != "" {
				clause = clause.PlaceHolder(opt.Placeholder)
			}
			if opt.Default != nil {
				clause = clause.Default(*opt.Default)
			}
			b.str = clause.String()
		} else {
			b.flag = clause.Bool()
		}
		bindings = append(bindings, b)
	}

	if _, err := app.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	raw := make(map[string]any, len(bindings))
	for _, b := range bindings {
		key := optionMarker + b.opt.Long
		switch {
		case b.opt.TakesValue && (b.isSet || b.opt.Default != nil):
			raw[key] = *b.str
		case !b.opt.TakesValue && b.isSet:
			raw[key] = *b.flag
		default:
			raw[key] = nil
		}
	}
	return raw, nil
}

// StripMarkers removes the leading "--" from every key.
func StripMarkers(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for key, value := range raw {
		out[strings.TrimPrefix(key, optionMarker)] = value
	}
	return out
}

// Reinterpret parses every non-empty string value as a YAML literal so that
// [1,2,3] becomes a sequence and 8080 a number. Values that do not parse stay
// strings. Keys are sorted.
func Reinterpret(values map[string]any) (*document.Mapping, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := document.NewMapping()
	for _, key := range keys {
		switch v := values[key].(type) {
		case nil:
			out.Set(key, document.Null())
		case bool:
			out.Set(key, document.Bool(v))
		case string:
			out.Set(key, literal(v))
		default:
			return nil, fmt.Errorf("%w: option %s has unsupported value type %T", ErrUsage, key, v)
		}
	}
	return out, nil
}

func literal(s string) document.Node {
	if s == "" {
		return document.String(s)
	}
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(s), &root); err != nil || len(root.Content) == 0 {
		return document.String(s)
	}
	n, err := document.FromYAML(&root)
	if err != nil {
		return document.String(s)
	}
	return n
}
