package testsuite

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Attribute is one key of a script attribute object.
type Attribute struct {
	Key   string
	Value json.RawMessage
}

// Attributes is a JSON object decoded with its key order preserved.
type Attributes []Attribute

// UnmarshalJSON decodes an object, keeping document order. null decodes
// to nil.
func (a *Attributes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("attributes: expected a JSON object")
	}

	out := Attributes{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("attributes: unexpected token %v", tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Attribute{Key: key, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}

// Render returns the attributes as `key="value"` strings in document
// order. The JSON text of each value is used with surrounding quotes
// trimmed, so strings appear unquoted and other values verbatim.
func (a Attributes) Render() []string {
	if len(a) == 0 {
		return nil
	}
	out := make([]string, 0, len(a))
	for _, attr := range a {
		out = append(out, fmt.Sprintf(`%s="%s"`, attr.Key, strings.Trim(valueText(attr.Value), `"`)))
	}
	return out
}

// valueText returns compact JSON for v. Strings are re-encoded without
// HTML escaping.
func valueText(v json.RawMessage) string {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(s); err == nil {
			return strings.TrimSuffix(buf.String(), "\n")
		}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
