package schema

import (
	"fmt"
	"reflect"

	"github.com/aretw0/oodux/pkg/immutable"
)

// Kind classifies a field by the operations that make sense on it.
type Kind int

const (
	// Generic fields only support set and clear.
	Generic Kind = iota
	// Bool fields additionally toggle.
	Bool
	// Number fields additionally increment.
	Number
	// Slice fields hold plain elements and support list operations.
	Slice
	// Identified fields are slices whose elements expose an "id" key.
	Identified
)

var kindNames = map[Kind]string{
	Generic:    "generic",
	Bool:       "bool",
	Number:     "number",
	Slice:      "slice",
	Identified: "identified",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name.
func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unsupported kind: %s", text)
}

// IsList reports whether list operations are synthesized for the kind.
func (k Kind) IsList() bool {
	return k == Slice || k == Identified
}

// KindOf classifies a field type.
func KindOf(t reflect.Type) Kind {
	switch {
	case t.Kind() == reflect.Bool:
		return Bool
	case immutable.IsNumber(t):
		return Number
	case t.Kind() == reflect.Slice:
		if identified(t.Elem()) {
			return Identified
		}
		return Slice
	}
	return Generic
}

// identified reports whether elements of type t carry an id key: structs
// with an "id" field (or pointers to them) and string-keyed maps.
func identified(t reflect.Type) bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		for _, key := range immutable.Keys(t) {
			if key == immutable.DefaultKey {
				return true
			}
		}
	case reflect.Map:
		return t.Key().Kind() == reflect.String
	}
	return false
}
