package msgfile

import (
	"encoding/json"
	"fmt"
)

// Well-known metadata fields.
const (
	FieldLocale        = "locale"
	FieldLastUpdated   = "last-updated"
	FieldOtherMetadata = "other-metadata"
)

// Metadata is the ordered "@metadata" object of a message file. Fields the
// tool does not set keep their raw JSON value.
type Metadata struct {
	obj object
}

// NewMetadata returns an empty metadata object.
func NewMetadata() *Metadata {
	return &Metadata{obj: newObject()}
}

// Fields returns the field names in document order.
func (m *Metadata) Fields() []string {
	return append([]string(nil), m.obj.keys...)
}

// String returns a string-valued field. ok is false when the field is
// missing or holds something other than a string.
func (m *Metadata) String(field string) (value string, ok bool) {
	raw, found := m.obj.get(field)
	if !found {
		return "", false
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", false
	}
	return value, true
}

// SetString sets a string field, keeping the position of an existing one.
func (m *Metadata) SetString(field, value string) {
	m.obj.set(field, encodeString(value))
}

// Clone returns an independent copy of m.
func (m *Metadata) Clone() *Metadata {
	c := NewMetadata()
	for _, k := range m.obj.keys {
		c.obj.set(k, append(json.RawMessage(nil), m.obj.values[k]...))
	}
	return c
}

// Stamp applies the fields every translated file carries: the target
// locale, the date it was generated and a short description.
func (m *Metadata) Stamp(locale, date string) {
	m.SetString(FieldLocale, locale)
	m.SetString(FieldLastUpdated, date)
	m.SetString(FieldOtherMetadata, fmt.Sprintf("%s message file", locale))
}
