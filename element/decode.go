package element

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/byte4ever/postrender/fault"
)

// UnmarshalTOML implements toml.Unmarshaler. The decoder hands over either
// a string or a table.
func (e *Element) UnmarshalTOML(v any) error {
	parsed, err := decodeAny(v)
	if err != nil {
		return err
	}

	*e = parsed

	return nil
}

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (e *Element) UnmarshalYAML(data []byte) error {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return fault.NewParse("element", "YAML", err.Error())
	}

	parsed, err := decodeAny(v)
	if err != nil {
		return err
	}

	*e = parsed

	return nil
}

// UnmarshalJSON implements json.Unmarshaler. Objects are read token by
// token so that a repeated key is reported instead of silently winning.
func (e *Element) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fault.NewParse("element", "JSON", err.Error())
	}

	var parsed Element

	switch t := tok.(type) {
	case string:
		parsed, err = ParseCompact(t)
	case json.Delim:
		if t != '{' {
			return fault.NewParse(
				"element", "JSON",
				fmt.Sprintf("unexpected %q, expected a string or an object", t),
			)
		}

		var fields map[string]any

		fields, err = jsonTable(dec)
		if err != nil {
			return err
		}

		parsed, err = fromTable(fields)
	default:
		return fault.NewParse(
			"element", "JSON",
			fmt.Sprintf("expected a string or an object, got %T", tok),
		)
	}

	if err != nil {
		return err
	}

	*e = parsed

	return nil
}

// jsonTable reads the members of an object whose opening brace has been
// consumed. Only string values are accepted.
func jsonTable(dec *json.Decoder) (map[string]any, error) {
	fields := make(map[string]any, 2)

	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, fault.NewParse("element", "JSON", err.Error())
		}

		if d, ok := tok.(json.Delim); ok && d == '}' {
			return fields, nil
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fault.NewParse(
				"element", "JSON",
				fmt.Sprintf("unexpected token %v", tok),
			)
		}

		if _, dup := fields[key]; dup {
			return nil, fault.NewParse(
				"element field", "verbose element",
				fmt.Sprintf("duplicate field %q", key),
			)
		}

		val, err := dec.Token()
		if err != nil {
			return nil, fault.NewParse("element", "JSON", err.Error())
		}

		if d, isDelim := val.(json.Delim); isDelim {
			return nil, fault.NewParse(
				"element field "+key, "verbose element",
				fmt.Sprintf("expected a string, got %q", d),
			)
		}

		fields[key] = val
	}
}
