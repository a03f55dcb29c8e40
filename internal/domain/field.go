package domain

import (
	"bytes"
	"encoding/json"
)

// Field is an optional patch value that tells apart an omitted JSON member
// (Set == false) from an explicit null (Set == true, Null == true).
type Field[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// NewField returns a present, non-null field.
func NewField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// NullField returns a present field holding null.
func NullField[T any]() Field[T] {
	return Field[T]{Set: true, Null: true}
}

// Ptr returns nil for null and a pointer to the value otherwise.
func (f Field[T]) Ptr() *T {
	if f.Null {
		return nil
	}
	v := f.Value
	return &v
}

// UnmarshalJSON is only invoked when the member is present in the payload.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Null = true
		var zero T
		f.Value = zero
		return nil
	}
	f.Null = false
	return json.Unmarshal(data, &f.Value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Null {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}
