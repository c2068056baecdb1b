package omit

import (
	"encoding/json"
)

func New[T any](value T) Omit[T] {
	return Omit[T]{
		Value: value,
		OK:    true,
	}
}

func NewZero[T any]() Omit[T] {
	return Omit[T]{
		OK: false,
	}
}

// FromPtr treats a nil pointer as absent.
func FromPtr[T any](value *T) Omit[T] {
	if value == nil {
		return NewZero[T]()
	}
	return New(*value)
}

type Omit[T any] struct {
	Value T    `json:"value"`
	OK    bool `json:"ok"`
}

func (o Omit[T]) IsZero() bool {
	return !o.OK
}

func (o Omit[T]) Get() (T, bool) {
	return o.Value, o.OK
}

func (o Omit[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

func (o *Omit[T]) UnmarshalJSON(data []byte) error {
	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	o.Value = value
	o.OK = true

	return nil
}
