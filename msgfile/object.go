package msgfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// object is a JSON object that remembers key order. Values are kept as raw
// JSON so anything the tool does not touch is written back as it was read.
type object struct {
	keys   []string
	values map[string]json.RawMessage
}

func newObject() object {
	return object{values: make(map[string]json.RawMessage)}
}

// parseObject decodes a single JSON object from data, token by token, so
// that key order survives. Trailing data after the object is an error.
func parseObject(data []byte) (object, error) {
	o := newObject()
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return o, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return o, fmt.Errorf("expected '{', got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return o, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return o, fmt.Errorf("expected string key, got %T", keyTok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return o, fmt.Errorf("value for %q: %w", key, err)
		}
		o.set(key, raw)
	}

	// Closing '}'.
	if _, err := dec.Token(); err != nil {
		return o, err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err != nil {
			return o, err
		}
		return o, fmt.Errorf("unexpected data after object: %v", tok)
	}

	return o, nil
}

// set stores raw under key. A key seen before keeps its position.
func (o *object) set(key string, raw json.RawMessage) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = raw
}

func (o *object) get(key string) (json.RawMessage, bool) {
	raw, ok := o.values[key]
	return raw, ok
}

// writeTo writes the object with 2-space indentation starting at depth
// levels deep. first, when present in the object, is written before the
// other keys.
func (o *object) writeTo(buf *bytes.Buffer, depth int, first string) error {
	if len(o.keys) == 0 {
		buf.WriteString("{}")
		return nil
	}

	prefix := indentFor(depth)
	inner := prefix + "  "

	order := o.keys
	if _, ok := o.values[first]; ok && first != "" {
		order = make([]string, 0, len(o.keys))
		order = append(order, first)
		for _, k := range o.keys {
			if k != first {
				order = append(order, k)
			}
		}
	}

	buf.WriteString("{\n")
	for i, k := range order {
		buf.WriteString(inner)
		buf.Write(encodeString(k))
		buf.WriteString(": ")

		value, err := reencode(o.values[k])
		if err != nil {
			return fmt.Errorf("value for %q: %w", k, err)
		}
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, value, inner, "  "); err != nil {
			return fmt.Errorf("value for %q: %w", k, err)
		}
		buf.Write(pretty.Bytes())

		if i < len(order)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(prefix)
	buf.WriteByte('}')
	return nil
}

func indentFor(depth int) string {
	return string(bytes.Repeat([]byte("  "), depth))
}

// encodeString returns s as a JSON string literal. Unlike json.Marshal it
// leaves <, > and & alone; non-ASCII text is never escaped.
func encodeString(s string) json.RawMessage {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// compact returns the object as single-line JSON in key order.
func (o *object) compact() json.RawMessage {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeString(k))
		buf.WriteByte(':')
		buf.Write(o.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// reencode rewrites a raw JSON value with every string passed through
// encodeString. Object key order and number literals are kept.
func reencode(raw json.RawMessage) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var buf bytes.Buffer
	if err := reencodeValue(dec, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func reencodeValue(dec *json.Decoder, buf *bytes.Buffer) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case json.Delim:
		isObject := v == '{'
		buf.WriteRune(rune(v))
		for i := 0; dec.More(); i++ {
			if i > 0 {
				buf.WriteByte(',')
			}
			if isObject {
				keyTok, err := dec.Token()
				if err != nil {
					return err
				}
				key, _ := keyTok.(string)
				buf.Write(encodeString(key))
				buf.WriteByte(':')
			}
			if err := reencodeValue(dec, buf); err != nil {
				return err
			}
		}
		end, err := dec.Token()
		if err != nil {
			return err
		}
		buf.WriteRune(rune(end.(json.Delim)))
	case string:
		buf.Write(encodeString(v))
	case json.Number:
		buf.WriteString(v.String())
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case nil:
		buf.WriteString("null")
	}
	return nil
}
