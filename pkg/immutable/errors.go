package immutable

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aretw0/oodux/pkg/domain"
)

// FieldError reports a value that cannot be stored in a field or element.
// It unwraps to domain.ErrInvalidPayload.
type FieldError struct {
	Field string
	Want  reflect.Type
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	msg := fmt.Sprintf("cannot use %T as %s", e.Value, e.Want)
	if e.Field != "" {
		msg = fmt.Sprintf("field %q: %s", e.Field, msg)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FieldError) Unwrap() error {
	return domain.ErrInvalidPayload
}

func withField(err error, field string) error {
	var fe *FieldError
	if errors.As(err, &fe) && fe.Field == "" {
		copied := *fe
		copied.Field = field
		return &copied
	}
	return err
}

// notSlice reports a list operation addressed to a non-slice field.
func notSlice(key string, f reflect.Value) *FieldError {
	return &FieldError{
		Field: key,
		Want:  reflect.TypeOf([]any(nil)),
		Value: f.Interface(),
		Err:   errors.New("field is not a slice"),
	}
}
