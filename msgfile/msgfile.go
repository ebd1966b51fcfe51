// Package msgfile implements reading and writing of JSON message files.
//
// A message file is a flat JSON object:
//
//	{
//	  "@metadata": { "locale": "en-US", "last-updated": "2024-01-31" },
//	  "greeting": "Hello $1",
//	  "farewell": "Goodbye"
//	}
//
//   - "@metadata" holds file-level metadata as a nested object.
//   - Other keys starting with "@" are reserved; their values are carried
//     through untouched.
//   - All other keys map a message identifier to translatable text, which
//     may contain positional arguments ($1, $2, ...).
//
// Round-trip fidelity: key order from the source file is preserved, and
// values the tool does not modify are written back from their raw JSON.
package msgfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MetadataKey is the reserved key holding the metadata object.
const MetadataKey = "@metadata"

// IsReserved reports whether key is a reserved (non-message) key.
func IsReserved(key string) bool {
	return strings.HasPrefix(key, "@")
}

// File represents a parsed message file.
type File struct {
	obj object
}

// New returns an empty message file.
func New() *File {
	return &File{obj: newObject()}
}

// ParseFile reads and parses a message file from disk.
func ParseFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// Parse parses message file content.
func Parse(data []byte) (*File, error) {
	obj, err := parseObject(data)
	if err != nil {
		return nil, fmt.Errorf("parsing message file: %w", err)
	}
	return &File{obj: obj}, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

// AllKeys returns every key, reserved ones included, in document order.
func (f *File) AllKeys() []string {
	return append([]string(nil), f.obj.keys...)
}

// Keys returns the message keys in document order.
func (f *File) Keys() []string {
	var keys []string
	for _, k := range f.obj.keys {
		if !IsReserved(k) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Raw returns the raw JSON value stored under key.
func (f *File) Raw(key string) (json.RawMessage, bool) {
	return f.obj.get(key)
}

// ErrNotString is returned by Message when the value is not a JSON string.
var ErrNotString = errors.New("value is not a string")

// Message returns the text of a message key.
func (f *File) Message(key string) (string, error) {
	raw, ok := f.obj.get(key)
	if !ok {
		return "", fmt.Errorf("no message %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%q: %w", key, ErrNotString)
	}
	return s, nil
}

// Set stores a message. An existing key keeps its position; a new key is
// appended.
func (f *File) Set(key, value string) {
	f.obj.set(key, encodeString(value))
}

// SetRaw stores a raw JSON value under key, unvalidated.
func (f *File) SetRaw(key string, raw json.RawMessage) {
	f.obj.set(key, raw)
}

// Len returns the number of keys, reserved ones included.
func (f *File) Len() int { return len(f.obj.keys) }

// Metadata returns a copy of the file's metadata. A file without
// "@metadata" yields an empty Metadata.
func (f *File) Metadata() (*Metadata, error) {
	raw, ok := f.obj.get(MetadataKey)
	if !ok {
		return NewMetadata(), nil
	}
	obj, err := parseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", MetadataKey, err)
	}
	return &Metadata{obj: obj}, nil
}

// SetMetadata stores m as the file's "@metadata".
func (f *File) SetMetadata(m *Metadata) {
	f.obj.set(MetadataKey, m.obj.compact())
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Marshal serialises the file as JSON with 2-space indentation. The
// metadata object, when present, is always written first.
func (f *File) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := f.obj.writeTo(&buf, 0, MetadataKey); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// WriteFile serialises f and writes it to path, replacing any existing
// file. The content goes to a temporary file in the same directory first
// and is renamed into place, so readers never see a partial file.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
