package dto

import (
	"encoding/json"
	"fmt"
)

// Optional is a request field that may be absent. A JSON null is recorded so that
// validation can reject it, since the underlying column is not nullable.
type Optional[T any] struct {
	Value T
	Set   bool
	null  bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.null = true
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return fmt.Errorf("invalid value %s: %w", data, err)
	}
	return nil
}

// Present reports whether the field carries a usable value.
func (o Optional[T]) Present() bool { return o.Set && !o.null }

// IsNull reports whether the field was sent as JSON null.
func (o Optional[T]) IsNull() bool { return o.Set && o.null }

// AllowsNull is false: a null Optional is a validation error.
func (o Optional[T]) AllowsNull() bool { return false }

// Ptr returns a pointer to the value, or nil when the field is not present.
func (o Optional[T]) Ptr() *T {
	if !o.Present() {
		return nil
	}
	v := o.Value
	return &v
}

// Nullable is a request field that may be absent, explicitly null, or hold a value.
// Absent leaves the stored value untouched; null clears it.
type Nullable[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Value returns a present Nullable holding v.
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Set: true}
}

// Null returns an explicitly null Nullable.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return fmt.Errorf("invalid value %s: %w", data, err)
	}
	return nil
}

// Present reports whether the field carries a value.
func (n Nullable[T]) Present() bool { return n.Set && !n.Null }

// IsNull reports whether the field was sent as JSON null.
func (n Nullable[T]) IsNull() bool { return n.Set && n.Null }

// AllowsNull is true: null clears the stored value.
func (n Nullable[T]) AllowsNull() bool { return true }

// Ptr returns a pointer to the value, or nil when the field is absent or null.
func (n Nullable[T]) Ptr() *T {
	if !n.Present() {
		return nil
	}
	v := n.Value
	return &v
}

// Merge applies the field to a nullable destination: absent keeps it, null clears it.
func (n Nullable[T]) Merge(dst **T) {
	if !n.Set {
		return
	}
	*dst = n.Ptr()
}
