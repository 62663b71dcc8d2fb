package schema

import (
	"reflect"
	"sort"

	"github.com/aretw0/oodux/pkg/immutable"
)

// Diff returns the keys whose values differ between two snapshots, using
// reference equality (immutable.Same). Struct snapshots report field keys in
// declaration order; string-keyed maps (such as a combined domain.Tree)
// report added, changed and removed keys sorted. A nil old snapshot reports
// every key of next.
func Diff(old, next any) []string {
	nv := reflect.ValueOf(next)
	if !nv.IsValid() {
		return nil
	}

	switch nv.Kind() {
	case reflect.Struct:
		var changed []string
		for _, key := range immutable.Keys(nv.Type()) {
			a, hadOld := immutable.Field(old, key)
			b, _ := immutable.Field(next, key)
			if !hadOld || !immutable.Same(a, b) {
				changed = append(changed, key)
			}
		}
		return changed
	case reflect.Map:
		return diffMap(reflect.ValueOf(old), nv)
	}
	return nil
}

func diffMap(old, next reflect.Value) []string {
	if next.Type().Key().Kind() != reflect.String {
		return nil
	}
	if old.IsValid() && old.Type() != next.Type() {
		old = reflect.Value{}
	}
	delta := make(map[string]struct{})

	// Added or modified
	iter := next.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		if !old.IsValid() || old.IsNil() {
			delta[key] = struct{}{}
			continue
		}
		prev := old.MapIndex(iter.Key())
		if !prev.IsValid() || !immutable.Same(prev.Interface(), iter.Value().Interface()) {
			delta[key] = struct{}{}
		}
	}

	// Deleted
	if old.IsValid() {
		iter = old.MapRange()
		for iter.Next() {
			if !next.MapIndex(iter.Key()).IsValid() {
				delta[iter.Key().String()] = struct{}{}
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	keys := make([]string, 0, len(delta))
	for k := range delta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
