package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// ErrNotObject is returned when a user record is not a JSON object.
var ErrNotObject = errors.New("user record is not a JSON object")

// User is the profile record attached to a session. Beyond the three
// projected fields (username, role, avatar) the record is opaque: whatever
// the backend sent is kept verbatim, field by field, and round-trips
// unchanged through persistence.
type User struct {
	fields map[string]json.RawMessage
}

// NewUser builds a record from arbitrary fields. Values must be
// JSON-encodable.
func NewUser(fields map[string]any) (*User, error) {
	u := &User{fields: make(map[string]json.RawMessage, len(fields))}
	for name, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		u.fields[name] = raw
	}
	return u, nil
}

// Username returns the "username" field, or "" when absent or not a string.
func (u *User) Username() string {
	return u.stringField("username")
}

// Role returns the "role" field, or "" when absent or not a string.
func (u *User) Role() string {
	return u.stringField("role")
}

// Avatar returns the "avatar" field, or "" when absent or not a string.
func (u *User) Avatar() string {
	return u.stringField("avatar")
}

// Field returns the raw JSON value of one field.
func (u *User) Field(name string) (json.RawMessage, bool) {
	if u == nil {
		return nil, false
	}
	raw, ok := u.fields[name]
	return raw, ok
}

// FieldNames lists the record's fields in sorted order.
func (u *User) FieldNames() []string {
	if u == nil {
		return nil
	}
	names := make([]string, 0, len(u.fields))
	for name := range u.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (u *User) stringField(name string) string {
	if u == nil {
		return ""
	}
	raw, ok := u.fields[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// MarshalJSON emits the record exactly as it was received.
func (u *User) MarshalJSON() ([]byte, error) {
	if u == nil || u.fields == nil {
		return []byte("null"), nil
	}
	return json.Marshal(u.fields)
}

// UnmarshalJSON accepts any JSON object and keeps every field verbatim.
func (u *User) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return ErrNotObject
	}
	u.fields = fields
	return nil
}

// merge overlays partial onto the record, field by field: fields present in
// partial override, fields absent are retained. The receiver is not modified.
func (u *User) merge(partial map[string]any) (*User, error) {
	merged := &User{fields: make(map[string]json.RawMessage, len(u.fields)+len(partial))}
	for name, raw := range u.fields {
		merged.fields[name] = raw
	}
	for name, value := range partial {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		merged.fields[name] = raw
	}
	return merged, nil
}

func (u *User) clone() *User {
	if u == nil {
		return nil
	}
	fields := make(map[string]json.RawMessage, len(u.fields))
	for name, raw := range u.fields {
		fields[name] = raw
	}
	return &User{fields: fields}
}
