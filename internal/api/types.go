package api

import (
	"bytes"
	"encoding/json"
)

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// SuccessResponse acknowledges a delete.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// NullString is a JSON string field that records whether the key was present
// and whether its value was null.
type NullString struct {
	Set   bool
	Valid bool
	Value string
}

// SetString returns a present, non-null NullString.
func SetString(value string) NullString {
	return NullString{Set: true, Valid: true, Value: value}
}

// SetNull returns a present, null NullString.
func SetNull() NullString {
	return NullString{Set: true}
}

func (n NullString) IsZero() bool { return !n.Set }

func (n *NullString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Valid = false
		n.Value = ""
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when null or absent.
func (n NullString) Ptr() *string {
	if !n.Set || !n.Valid {
		return nil
	}
	v := n.Value
	return &v
}
