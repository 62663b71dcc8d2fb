package immutable

import (
	"fmt"
	"reflect"

	"github.com/aretw0/oodux/pkg/domain"
)

// From builds a snapshot from a loose map: the default instance of S with
// every existing field overwritten by the matching entry of m. Unknown keys
// are ignored. Values are decoded weakly, so data read back from JSON
// (float64 numbers, []any lists, nested maps) lands in typed fields.
func From[S any](m map[string]any) (S, error) {
	var zero S
	out, err := FromOf(TypeOf[S](), m)
	if err != nil {
		return zero, err
	}
	return out.(S), nil
}

// FromOf is From for a type known only at runtime.
func FromOf(t reflect.Type, m map[string]any) (any, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", domain.ErrAbstractSlice, t)
	}
	if len(m) == 0 {
		return NewOf(t), nil
	}
	ptr := reflect.New(t)
	ptr.Elem().Set(reflect.ValueOf(NewOf(t)))
	if err := decode(m, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", t, err)
	}
	return ptr.Elem().Interface(), nil
}
