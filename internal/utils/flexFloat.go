package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat wraps a *float64 to enable lenient JSON unmarshaling of numbers
// that some APIs send as strings (e.g. "51.5080") and others as plain numbers.
// A missing, null, or empty value leaves Value nil.
type FlexFloat struct {
	Value *float64
}

// UnmarshalJSON accepts a JSON number, a numeric string, an empty string, or null.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		f.Value = nil
		return nil
	}

	var raw string
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			f.Value = nil
			return nil
		}
	} else {
		raw = string(b)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q: %w", raw, err)
	}
	f.Value = &v
	return nil
}

// MarshalJSON serializes the value as a JSON number, or null when absent.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}
