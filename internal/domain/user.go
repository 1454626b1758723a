// Package domain holds the signaling vocabulary: event names, wire payloads
// and the opaque user a client attaches on join.
package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

var (
	ErrUserEmpty     = errors.New("user payload empty")
	ErrUserNotObject = errors.New("user payload is not a json object")
)

// User is the identity a client attaches to its connection on join.
// Apart from the optional "id" field the relay never looks inside it and
// hands the original bytes back out unchanged.
type User struct {
	raw json.RawMessage
	id  json.RawMessage
}

// NewUser accepts a JSON object and remembers its "id" field, if any.
// Empty, null and non-object payloads are rejected.
func NewUser(raw json.RawMessage) (*User, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, ErrUserEmpty
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, ErrUserNotObject
	}
	u := &User{raw: append(json.RawMessage(nil), trimmed...)}
	if id, ok := fields["id"]; ok && !bytes.Equal(bytes.TrimSpace(id), []byte("null")) {
		u.id = append(json.RawMessage(nil), bytes.TrimSpace(id)...)
	}
	return u, nil
}

// ID returns the client-supplied identifier or nil when the user has none.
func (u *User) ID() json.RawMessage {
	if u == nil {
		return nil
	}
	return u.id
}

func (u *User) MarshalJSON() ([]byte, error) {
	if u == nil || len(u.raw) == 0 {
		return []byte("null"), nil
	}
	return u.raw, nil
}
