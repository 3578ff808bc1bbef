package responses

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Value is a response value: either an integer rating or a chosen label.
type Value struct {
	rating   int
	choice   string
	isRating bool
	set      bool
}

// Rating returns a rating value.
func Rating(n int) Value {
	return Value{rating: n, isRating: true, set: true}
}

// Choice returns a chosen-label value.
func Choice(label string) Value {
	return Value{choice: label, set: true}
}

// AsRating returns the rating and true if v holds a rating.
func (v Value) AsRating() (int, bool) {
	return v.rating, v.set && v.isRating
}

// AsChoice returns the label and true if v holds a label.
func (v Value) AsChoice() (string, bool) {
	return v.choice, v.set && !v.isRating
}

// IsZero reports whether v holds nothing.
func (v Value) IsZero() bool { return !v.set }

func (v Value) String() string {
	switch {
	case !v.set:
		return ""
	case v.isRating:
		return strconv.Itoa(v.rating)
	default:
		return v.choice
	}
}

// MarshalJSON encodes ratings as numbers and labels as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.set:
		return []byte("null"), nil
	case v.isRating:
		return json.Marshal(v.rating)
	default:
		return json.Marshal(v.choice)
	}
}

// UnmarshalJSON accepts a JSON number (rating) or string (label).
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Choice(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("value must be a number or string: %w", err)
	}
	if f != float64(int(f)) {
		return fmt.Errorf("rating %v is not an integer", f)
	}
	*v = Rating(int(f))
	return nil
}
