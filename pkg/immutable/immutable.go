/*
Package immutable implements the copy-on-write update primitives every oodux
mutator is composed from.

All functions are pure: they never modify the snapshot they receive nor any
slice or map reachable from it, and they always return a new top-level
value. Fields a patch does not name are carried over by reference, so
unchanged slices keep their backing arrays and compare Same before and after.

Snapshots are struct values. Patches address fields by state key (see
FieldKey):

	next := immutable.Update(state, immutable.Patch{"counter": 3})
	next = immutable.Add(next, immutable.Patch{"items": "milk"})
	next = immutable.RemoveByID(next, immutable.Patch{"pets": 7})

Values that cannot be stored in the addressed field panic with a
*FieldError, the way reflect does; callers that accept untrusted payloads
validate them with Coerce first.
*/
package immutable

import (
	"reflect"
)

// Patch maps state keys to values.
type Patch map[string]any

// DefaultKey is the element key used by the ById operations.
const DefaultKey = "id"

// Defaulter is implemented by slice types whose default instance differs
// from the zero value (typically to start with non-nil slices).
type Defaulter[S any] interface {
	Default() S
}

// New returns the default-constructed instance of S.
func New[S any]() S {
	var zero S
	if d, ok := any(zero).(Defaulter[S]); ok {
		return d.Default()
	}
	return zero
}

// NewOf returns the default-constructed instance of type t.
func NewOf(t reflect.Type) any {
	zero := reflect.Zero(t)
	if m := zero.MethodByName("Default"); m.IsValid() {
		mt := m.Type()
		if mt.NumIn() == 0 && mt.NumOut() == 1 && mt.Out(0) == t {
			return m.Call(nil)[0].Interface()
		}
	}
	return zero.Interface()
}

// TypeOf returns the reflect.Type of S, including interface types.
func TypeOf[S any]() reflect.Type {
	return reflect.TypeOf((*S)(nil)).Elem()
}

// Copy returns a field-for-field duplicate of s. Nested slices and maps are
// shared, not duplicated.
func Copy[S any](s S) S {
	return clone(s).Interface().(S)
}

// Clear returns a brand-new default instance of the snapshot's type,
// unrelated to the values held by s.
func Clear[S any](s S) S {
	return NewOf(reflect.TypeOf(s)).(S)
}

// Update overwrites every field named in patch. Keys that are not fields of
// s are ignored; Update never introduces new fields.
func Update[S any](s S, patch Patch) S {
	out := clone(s)
	for key, val := range patch {
		setKey(out, key, val)
	}
	return out.Interface().(S)
}

// Add appends one value to each slice field named in patch.
func Add[S any](s S, patch Patch) S {
	return eachSlice(s, patch, func(key string, f reflect.Value, val any) reflect.Value {
		elem := mustCoerce(key, val, f.Type().Elem())
		out := reflect.MakeSlice(f.Type(), 0, f.Len()+1)
		out = reflect.AppendSlice(out, f)
		return reflect.Append(out, elem)
	})
}

// Concat appends every element of a slice value to each slice field named
// in patch.
func Concat[S any](s S, patch Patch) S {
	return eachSlice(s, patch, func(key string, f reflect.Value, val any) reflect.Value {
		items := mustCoerce(key, val, f.Type())
		out := reflect.MakeSlice(f.Type(), 0, f.Len()+items.Len())
		out = reflect.AppendSlice(out, f)
		return reflect.AppendSlice(out, items)
	})
}

// Remove drops every element strictly equal (see Same) to the patch value.
func Remove[S any](s S, patch Patch) S {
	return eachSlice(s, patch, func(_ string, f reflect.Value, val any) reflect.Value {
		return filter(f, func(e reflect.Value) bool {
			return !Same(e.Interface(), val)
		})
	})
}

// RemoveBy drops every element whose key equals the patch value.
func RemoveBy[S any](s S, key string, patch Patch) S {
	return eachSlice(s, patch, func(_ string, f reflect.Value, val any) reflect.Value {
		return filter(f, func(e reflect.Value) bool {
			id, ok := keyOf(e, key)
			return !ok || !Same(id, val)
		})
	})
}

// RemoveByID is RemoveBy with the "id" key.
func RemoveByID[S any](s S, patch Patch) S {
	return RemoveBy(s, DefaultKey, patch)
}

// UpdateBy finds the elements whose key matches the key of the partial
// element in patch and merges the partial onto a shallow clone of each.
// A map partial contributes only its own keys; an element-typed partial
// contributes every field, so fields left at their zero value overwrite the
// stored ones. Pass a map[string]any to change only some fields. Other
// elements are kept by reference.
func UpdateBy[S any](s S, key string, patch Patch) S {
	return eachSlice(s, patch, func(_ string, f reflect.Value, partial any) reflect.Value {
		want, ok := keyOf(reflect.ValueOf(partial), key)
		out := reflect.MakeSlice(f.Type(), f.Len(), f.Len())
		for i := 0; i < f.Len(); i++ {
			e := f.Index(i)
			if id, has := keyOf(e, key); ok && has && Same(id, want) {
				out.Index(i).Set(merge(e, partial))
				continue
			}
			out.Index(i).Set(e)
		}
		return out
	})
}

// UpdateByID is UpdateBy with the "id" key. Use a map[string]any partial,
// e.g. {"id": 1, "name": "Max"}, for a partial update; a struct partial
// replaces every field of the matched element.
func UpdateByID[S any](s S, patch Patch) S {
	return UpdateBy(s, DefaultKey, patch)
}

// UpdateAll replaces each slice field named in patch with the result of
// calling the patch function (func(E) E) on a shallow clone of every element.
func UpdateAll[S any](s S, patch Patch) S {
	return eachSlice(s, patch, func(key string, f reflect.Value, fn any) reflect.Value {
		fv := reflect.ValueOf(fn)
		if fv.Kind() != reflect.Func || fv.Type().NumIn() != 1 || fv.Type().NumOut() != 1 {
			panic(&FieldError{Field: key, Want: reflect.FuncOf([]reflect.Type{f.Type().Elem()}, []reflect.Type{f.Type().Elem()}, false), Value: fn})
		}
		out := reflect.MakeSlice(f.Type(), f.Len(), f.Len())
		for i := 0; i < f.Len(); i++ {
			arg := mustCoerce(key, shallowClone(f.Index(i)).Interface(), fv.Type().In(0))
			res := fv.Call([]reflect.Value{arg})[0]
			out.Index(i).Set(mustCoerce(key, res.Interface(), f.Type().Elem()))
		}
		return out
	})
}

// eachSlice clones s and replaces each slice field named in patch with the
// result of fn. Keys that are not fields are ignored.
func eachSlice[S any](s S, patch Patch, fn func(key string, f reflect.Value, val any) reflect.Value) S {
	out := clone(s)
	for key, val := range patch {
		f, ok := fieldByKey(out, key)
		if !ok {
			continue
		}
		if f.Kind() != reflect.Slice {
			panic(notSlice(key, f))
		}
		f.Set(fn(key, f, val))
	}
	return out.Interface().(S)
}

func filter(f reflect.Value, keep func(reflect.Value) bool) reflect.Value {
	out := reflect.MakeSlice(f.Type(), 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		if e := f.Index(i); keep(e) {
			out = reflect.Append(out, e)
		}
	}
	return out
}

func mustCoerce(key string, val any, t reflect.Type) reflect.Value {
	v, err := Coerce(val, t)
	if err != nil {
		panic(withField(err, key))
	}
	return v
}

// shallowClone copies one level of an element: the pointee of a pointer,
// the entries of a map or slice. Plain values are already copies.
func shallowClone(e reflect.Value) reflect.Value {
	switch e.Kind() {
	case reflect.Interface:
		if e.IsNil() {
			return e
		}
		c := shallowClone(e.Elem())
		out := reflect.New(e.Type()).Elem()
		out.Set(c)
		return out
	case reflect.Pointer:
		if e.IsNil() {
			return e
		}
		p := reflect.New(e.Type().Elem())
		p.Elem().Set(e.Elem())
		return p
	case reflect.Map:
		if e.IsNil() {
			return e
		}
		m := reflect.MakeMapWithSize(e.Type(), e.Len())
		iter := e.MapRange()
		for iter.Next() {
			m.SetMapIndex(iter.Key(), iter.Value())
		}
		return m
	case reflect.Slice:
		if e.IsNil() {
			return e
		}
		out := reflect.MakeSlice(e.Type(), e.Len(), e.Len())
		reflect.Copy(out, e)
		return out
	}
	out := reflect.New(e.Type()).Elem()
	out.Set(e)
	return out
}

// merge returns a shallow clone of element e with the partial's keys applied.
func merge(e reflect.Value, partial any) reflect.Value {
	c := shallowClone(e)
	target := c
	for target.Kind() == reflect.Interface || target.Kind() == reflect.Pointer {
		if target.IsNil() {
			return c
		}
		if target.Kind() == reflect.Interface {
			// Interface elements hold unaddressable values: merge into a copy
			// and re-box it.
			inner := merge(target.Elem(), partial)
			out := reflect.New(e.Type()).Elem()
			out.Set(inner)
			return out
		}
		target = target.Elem()
	}
	pv := indirect(reflect.ValueOf(partial))
	if !pv.IsValid() {
		return c
	}
	switch pv.Kind() {
	case reflect.Map:
		iter := pv.MapRange()
		for iter.Next() {
			if iter.Key().Kind() != reflect.String {
				continue
			}
			setKey(target, iter.Key().String(), iter.Value().Interface())
		}
	case reflect.Struct:
		for _, key := range layoutOf(pv.Type()).keys {
			f, _ := fieldByKey(pv, key)
			setKey(target, key, f.Interface())
		}
	}
	return c
}
