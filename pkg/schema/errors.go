package schema

import (
	"fmt"
	"reflect"
)

// Error reports why a type cannot be used as a slice.
type Error struct {
	Type   reflect.Type
	Member string // Method or field name, empty for the type itself
	Err    error
}

func (e *Error) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("%v: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("%v.%s: %v", e.Type, e.Member, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
