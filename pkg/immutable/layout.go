package immutable

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/aretw0/oodux/internal/naming"
	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag read by oodux. `oodux:"-"` hides a field from
// reflection.
const TagName = "oodux"

// FieldKey returns the state key of a struct field and whether the field is
// part of the slice shape. The key is the json tag name when present,
// otherwise the Go name with its leading capital lowered.
func FieldKey(f reflect.StructField) (string, bool) {
	if !f.IsExported() {
		return "", false
	}
	if tag, ok := f.Tag.Lookup(TagName); ok && naming.TagName(tag) == "-" {
		return "", false
	}
	if name := naming.TagName(f.Tag.Get("json")); name != "" && name != "-" {
		return name, true
	}
	return naming.LowerFirst(f.Name), true
}

// layout maps state keys (and Go field names) to struct field indexes.
type layout struct {
	index map[string]int
	keys  []string
}

var layouts sync.Map // reflect.Type -> *layout

func layoutOf(t reflect.Type) *layout {
	if cached, ok := layouts.Load(t); ok {
		return cached.(*layout)
	}
	l := &layout{index: make(map[string]int)}
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			key, ok := FieldKey(t.Field(i))
			if !ok {
				continue
			}
			l.index[key] = i
			l.keys = append(l.keys, key)
			if _, taken := l.index[t.Field(i).Name]; !taken {
				l.index[t.Field(i).Name] = i
			}
		}
	}
	actual, _ := layouts.LoadOrStore(t, l)
	return actual.(*layout)
}

// Keys returns the state keys of a struct type in declaration order.
func Keys(t reflect.Type) []string {
	return append([]string(nil), layoutOf(t).keys...)
}

// fieldByKey returns the field of struct value v addressed by key.
func fieldByKey(v reflect.Value, key string) (reflect.Value, bool) {
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	i, ok := layoutOf(v.Type()).index[key]
	if !ok {
		return reflect.Value{}, false
	}
	return v.Field(i), true
}

// Field reads the field addressed by key from a struct snapshot.
func Field(s any, key string) (any, bool) {
	f, ok := fieldByKey(indirect(reflect.ValueOf(s)), key)
	if !ok {
		return nil, false
	}
	return f.Interface(), true
}

// clone returns an addressable shallow copy of s.
func clone(s any) reflect.Value {
	src := reflect.ValueOf(s)
	out := reflect.New(src.Type()).Elem()
	out.Set(src)
	return out
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func isNumber(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsNumber reports whether t is an integer or floating point kind.
func IsNumber(t reflect.Type) bool {
	return isNumber(t.Kind())
}

func nilable(k reflect.Kind) bool {
	switch k {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// Coerce converts val into a value of type t. Assignable values pass through,
// numbers convert across kinds, and loose shapes (maps, []any) are decoded
// with mapstructure the way JSON payloads arrive.
func Coerce(val any, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		if nilable(t.Kind()) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, &FieldError{Want: t, Value: val}
	}
	v := reflect.ValueOf(val)
	switch {
	case v.Type().AssignableTo(t):
		out := reflect.New(t).Elem()
		out.Set(v)
		return out, nil
	case isNumber(v.Kind()) && isNumber(t.Kind()):
		if err := fitsNumber(v, t); err != nil {
			return reflect.Value{}, &FieldError{Want: t, Value: val, Err: err}
		}
		return v.Convert(t), nil
	case v.Kind() == reflect.String && t.Kind() == reflect.String:
		return v.Convert(t), nil
	}
	ptr := reflect.New(t)
	if err := decode(val, ptr.Interface()); err != nil {
		return reflect.Value{}, &FieldError{Want: t, Value: val, Err: err}
	}
	return ptr.Elem(), nil
}

var (
	errNotWhole   = errors.New("not a whole number")
	errOutOfRange = errors.New("value out of range")
)

// fitsNumber reports whether v converts to t without losing its value.
// Floats stored in float fields may lose precision but not magnitude.
func fitsNumber(v reflect.Value, t reflect.Type) error {
	out := reflect.Zero(t)
	switch {
	case v.CanFloat():
		f := v.Float()
		switch {
		case out.CanFloat():
			if !math.IsInf(f, 0) && out.OverflowFloat(f) {
				return errOutOfRange
			}
			return nil
		case math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f):
			return errNotWhole
		case out.CanInt():
			if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
				return errOutOfRange
			}
		case out.CanUint():
			if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
				return errOutOfRange
			}
		}
	case v.CanInt():
		i := v.Int()
		switch {
		case out.CanInt():
			if out.OverflowInt(i) {
				return errOutOfRange
			}
		case out.CanUint():
			if i < 0 || out.OverflowUint(uint64(i)) {
				return errOutOfRange
			}
		}
	case v.CanUint():
		u := v.Uint()
		switch {
		case out.CanInt():
			if u > math.MaxInt64 || out.OverflowInt(int64(u)) {
				return errOutOfRange
			}
		case out.CanUint():
			if out.OverflowUint(u) {
				return errOutOfRange
			}
		}
	}
	return nil
}

func decode(in, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		ZeroFields:       true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(in)
}

// setKey writes val under key into a struct field or a map entry of dst.
// Unknown struct keys are skipped.
func setKey(dst reflect.Value, key string, val any) {
	switch dst.Kind() {
	case reflect.Struct:
		f, ok := fieldByKey(dst, key)
		if !ok {
			return
		}
		cv, err := Coerce(val, f.Type())
		if err != nil {
			panic(withField(err, key))
		}
		f.Set(cv)
	case reflect.Map:
		kv, err := Coerce(key, dst.Type().Key())
		if err != nil {
			panic(withField(err, key))
		}
		cv, err := Coerce(val, dst.Type().Elem())
		if err != nil {
			panic(withField(err, key))
		}
		dst.SetMapIndex(kv, cv)
	}
}

// keyOf reads the value stored under key in a struct or string-keyed map.
func keyOf(v reflect.Value, key string) (any, bool) {
	v = indirect(v)
	if !v.IsValid() {
		return nil, false
	}
	switch v.Kind() {
	case reflect.Struct:
		if f, ok := fieldByKey(v, key); ok {
			return f.Interface(), true
		}
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() && strings.EqualFold(v.Type().Field(i).Name, key) {
				return v.Field(i).Interface(), true
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		e := v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))
		if e.IsValid() {
			return e.Interface(), true
		}
	}
	return nil, false
}
