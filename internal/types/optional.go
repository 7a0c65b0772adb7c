package types

import (
	"bytes"
	"encoding/json"
)

// Optional is a JSON field that distinguishes three states: absent (the key
// was not in the payload), null, and a concrete value.
//
// encoding/json only calls UnmarshalJSON when the key is present, which is
// what makes the absent state observable.
type Optional[T any] struct {
	value T
	set   bool
	valid bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true, valid: true}
}

// Null returns an Optional that was explicitly set to null.
func Null[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// IsSet reports whether the field was present in the payload (value or null).
func (o Optional[T]) IsSet() bool { return o.set }

// IsNull reports whether the field was present and null.
func (o Optional[T]) IsNull() bool { return o.set && !o.valid }

// Ptr returns the value, or nil when the field is null or absent.
func (o Optional[T]) Ptr() *T {
	if !o.valid {
		return nil
	}
	v := o.value
	return &v
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.set = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.value, o.valid = zero, false
		return nil
	}

	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
