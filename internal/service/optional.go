package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

var jsonNull = []byte("null")

// OptionalString distinguishes an absent JSON field from one that is present.
// A present null leaves Value nil.
type OptionalString struct {
	Set   bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// Cleared reports whether the field was sent as null or a blank string.
func (o OptionalString) Cleared() bool {
	return o.Set && (o.Value == nil || strings.TrimSpace(*o.Value) == "")
}

// NullableTime is a timestamp field that may be set, changed or explicitly
// cleared with null.
type NullableTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler. Empty strings clear like null.
func (n *NullableTime) UnmarshalJSON(data []byte) error {
	n.Set = true
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, jsonNull) || bytes.Equal(trimmed, []byte(`""`)) {
		n.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return err
	}
	n.Value = &t
	return nil
}
