package serializer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/confighelper/internal/document"
)

const defaultIndent = 2

// EncodeOption configures Encode. Options are passed through to the
// underlying encoder.
type EncodeOption func(*encodeConfig)

type encodeConfig struct {
	indent int
	prefix string
}

// WithIndent sets the indentation width. Zero produces compact JSON.
func WithIndent(spaces int) EncodeOption {
	return func(cfg *encodeConfig) {
		if spaces >= 0 {
			cfg.indent = spaces
		}
	}
}

// WithPrefix sets the JSON line prefix. It is ignored for YAML.
func WithPrefix(prefix string) EncodeOption {
	return func(cfg *encodeConfig) {
		cfg.prefix = prefix
	}
}

// Decode parses text in the given format. Empty input yields an empty mapping.
func Decode(text []byte, f Format) (document.Node, error) {
	switch f {
	case YAML:
		return decodeYAML(text)
	case JSON:
		return decodeJSON(text)
	default:
		return nil, fmt.Errorf("%w: %q", ErrConfigFormat, f)
	}
}

// DecodeMapping parses text and requires the root to be a mapping.
func DecodeMapping(text []byte, f Format) (*document.Mapping, error) {
	n, err := Decode(text, f)
	if err != nil {
		return nil, err
	}
	switch v := n.(type) {
	case *document.Mapping:
		return v, nil
	case document.Scalar:
		if v.IsNull() {
			return document.NewMapping(), nil
		}
	}
	return nil, fmt.Errorf("%w, got %s", ErrNotMapping, document.TypeName(n))
}

// Encode serializes n in the given format.
func Encode(n document.Node, f Format, opts ...EncodeOption) ([]byte, error) {
	cfg := encodeConfig{indent: defaultIndent}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch f {
	case YAML:
		return encodeYAML(n, cfg)
	case JSON:
		return encodeJSON(n, cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrConfigFormat, f)
	}
}

func decodeYAML(text []byte) (document.Node, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return document.NewMapping(), nil
	}
	var root yaml.Node
	if err := yaml.Unmarshal(text, &root); err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", ErrParse, err)
	}
	if root.Kind == 0 {
		return document.NewMapping(), nil
	}
	n, err := document.FromYAML(&root)
	if err != nil {
		return nil, fmt.Errorf("%w: yaml: %v", ErrParse, err)
	}
	return n, nil
}

func encodeYAML(n document.Node, cfg encodeConfig) ([]byte, error) {
	yn, err := document.YAMLNode(n)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	if cfg.indent > 0 {
		enc.SetIndent(cfg.indent)
	}
	if err := enc.Encode(yn); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeJSON(text []byte) (document.Node, error) {
	if len(bytes.TrimSpace(text)) == 0 {
		return document.NewMapping(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	n, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: json: unexpected data after top-level value", ErrParse)
	}
	return n, nil
}

func decodeJSONValue(dec *json.Decoder) (document.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			m := document.NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
				}
				value, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			seq := document.NewSequence()
			for dec.More() {
				item, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				seq.Items = append(seq.Items, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case json.Number:
		if i, err := strconv.ParseInt(v.String(), 10, 64); err == nil {
			return document.Int(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", v, err)
		}
		return document.Float(f), nil
	case string:
		return document.String(v), nil
	case bool:
		return document.Bool(v), nil
	case nil:
		return document.Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func encodeJSON(n document.Node, cfg encodeConfig) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeJSON(&compact, n); err != nil {
		return nil, err
	}
	if cfg.indent == 0 && cfg.prefix == "" {
		compact.WriteByte('\n')
		return compact.Bytes(), nil
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), cfg.prefix, strings.Repeat(" ", cfg.indent)); err != nil {
		return nil, fmt.Errorf("indent json: %w", err)
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, n document.Node) error {
	switch v := n.(type) {
	case document.Scalar:
		raw, err := marshalJSON(v.Value())
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		buf.Write(raw)
	case *document.Sequence:
		buf.WriteByte('[')
		if v != nil {
			for i, item := range v.Items {
				if i > 0 {
					buf.WriteByte(',')
				}
				if err := writeJSON(buf, item); err != nil {
					return err
				}
			}
		}
		buf.WriteByte(']')
	case *document.Mapping:
		buf.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := marshalJSON(k)
			if err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			value, _ := v.Get(k)
			if err := writeJSON(buf, value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("encode json: unsupported node type %T", n)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
