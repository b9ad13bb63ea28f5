package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt is an integer the commerce API may send either as a JSON number or as
// a numeric string ("12"). Empty strings and null decode to zero.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid integer %q: %w", s, err)
		}
		*f = FlexInt(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid integer %s: %w", data, err)
	}
	*f = FlexInt(v)
	return nil
}

// Int returns the value as int
func (f FlexInt) Int() int {
	return int(f)
}

// String returns the decimal representation
func (f FlexInt) String() string {
	return strconv.FormatInt(int64(f), 10)
}

// FlexFloat is a decimal amount sent either as a number or a numeric string.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", s, err)
		}
		*f = FlexFloat(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid amount %s: %w", data, err)
	}
	*f = FlexFloat(v)
	return nil
}

// Fields holds form values (profile and checkout user data). Scalars of any JSON
// type are kept as strings; nested values are dropped.
type Fields map[string]string

// UnmarshalJSON implements json.Unmarshaler
func (f *Fields) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = nil
		return nil
	}
	// An empty PHP array serializes as [] instead of {}.
	if bytes.Equal(data, []byte("[]")) {
		*f = Fields{}
		return nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(Fields, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		case bool:
			if val {
				out[k] = "Y"
			} else {
				out[k] = "N"
			}
		}
	}
	*f = out
	return nil
}

// Clone returns a copy that shares no storage with f
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Formatted is a server-rendered price ({"price": "12.00", "symbol": "$"}).
type Formatted struct {
	Price  string `json:"price"`
	Symbol string `json:"symbol,omitempty"`
}

// Dict is a string-keyed object that also accepts an empty JSON array, which is
// how the backend serializes an empty associative array.
type Dict[V any] map[string]V

// UnmarshalJSON implements json.Unmarshaler
func (d *Dict[V]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*d = nil
		return nil
	}
	if bytes.Equal(data, []byte("[]")) {
		*d = Dict[V]{}
		return nil
	}

	var m map[string]V
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*d = m
	return nil
}
