package schema

import (
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/oodux/internal/naming"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/immutable"
	"github.com/aretw0/oodux/pkg/memo"
)

// Reserved method names are never treated as mutators.
var reserved = map[string]bool{
	"Default": true,
	"Getters": true,
}

// Field is one entry of a slice's data shape.
type Field struct {
	Key     string       `json:"key"`
	GoName  string       `json:"go_name"`
	Index   int          `json:"-"`
	Type    reflect.Type `json:"-"`
	Kind    Kind         `json:"kind"`
	Default any          `json:"-"`
}

// Method is a user-written mutator.
type Method struct {
	Name   string `json:"name"`
	GoName string `json:"go_name"`
	Arity  int    `json:"arity"`

	// ArgType is the declared argument type, nil at arity 0. Variadic
	// methods take their arguments as one slice.
	ArgType  reflect.Type  `json:"-"`
	Variadic bool          `json:"variadic,omitempty"`
	Func     reflect.Value `json:"-"`
}

// Call invokes the method on receiver s. arg is ignored at arity 0 and
// must already be of ArgType otherwise.
func (m Method) Call(s reflect.Value, arg reflect.Value) reflect.Value {
	in := []reflect.Value{s}
	if m.Arity == 0 {
		return m.Func.Call(in)[0]
	}
	in = append(in, arg)
	if m.Variadic {
		return m.Func.CallSlice(in)[0]
	}
	return m.Func.Call(in)[0]
}

// Getter is a declared derived value.
type Getter struct {
	Name string
	Func memo.Func
}

// Schema is the reflected description of a slice type.
type Schema struct {
	Type    reflect.Type
	Name    string
	Default any
	Fields  []Field
	Methods []Method
	Getters []Getter

	fields  map[string]int
	methods map[string]int
}

// Field looks a field up by state key.
func (s *Schema) Field(key string) (Field, bool) {
	i, ok := s.fields[key]
	if !ok {
		return Field{}, false
	}
	return s.Fields[i], true
}

// Method looks a user mutator up by action name.
func (s *Schema) Method(name string) (Method, bool) {
	i, ok := s.methods[name]
	if !ok {
		return Method{}, false
	}
	return s.Methods[i], true
}

// Value reads the field addressed by key from snapshot.
func (s *Schema) Value(snapshot any, key string) (any, bool) {
	return immutable.Field(snapshot, key)
}

// GetterMap returns the declared derived values keyed by name.
func (s *Schema) GetterMap() memo.Getters {
	out := make(memo.Getters, len(s.Getters))
	for _, g := range s.Getters {
		out[g.Name] = g.Func
	}
	return out
}

type cached struct {
	schema *Schema
	err    error
}

var cache sync.Map // reflect.Type -> cached

// Describe reflects over t. The result is cached per type.
func Describe(t reflect.Type) (*Schema, error) {
	if c, ok := cache.Load(t); ok {
		return c.(cached).schema, c.(cached).err
	}
	s, err := describe(t)
	c, _ := cache.LoadOrStore(t, cached{schema: s, err: err})
	return c.(cached).schema, c.(cached).err
}

// MustDescribe is like Describe but panics on error.
func MustDescribe(t reflect.Type) *Schema {
	s, err := Describe(t)
	if err != nil {
		panic(err)
	}
	return s
}

func describe(t reflect.Type) (*Schema, error) {
	if t == nil || t.Kind() != reflect.Struct {
		return nil, &Error{Type: t, Err: domain.ErrAbstractSlice}
	}

	def := immutable.NewOf(t)
	dv := reflect.ValueOf(def)
	s := &Schema{
		Type:    t,
		Name:    naming.LowerFirst(t.Name()),
		Default: def,
		fields:  make(map[string]int),
		methods: make(map[string]int),
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		key, ok := immutable.FieldKey(sf)
		if !ok {
			continue
		}
		s.fields[key] = len(s.Fields)
		s.Fields = append(s.Fields, Field{
			Key:     key,
			GoName:  sf.Name,
			Index:   i,
			Type:    sf.Type,
			Kind:    KindOf(sf.Type),
			Default: dv.Field(i).Interface(),
		})
	}

	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if reserved[m.Name] {
			continue
		}
		mt := m.Type
		if mt.NumOut() != 1 || mt.Out(0) != t {
			continue
		}
		arity := mt.NumIn() - 1
		if arity > domain.MaxArity {
			return nil, &Error{Type: t, Member: m.Name, Err: domain.ErrArityExceeded}
		}
		method := Method{
			Name:     naming.LowerFirst(m.Name),
			GoName:   m.Name,
			Arity:    arity,
			Variadic: mt.IsVariadic(),
			Func:     m.Func,
		}
		if arity == 1 {
			method.ArgType = mt.In(1)
		}
		s.methods[method.Name] = len(s.Methods)
		s.Methods = append(s.Methods, method)
	}

	if p, ok := def.(memo.Provider); ok {
		for name, fn := range p.Getters() {
			if fn != nil {
				s.Getters = append(s.Getters, Getter{Name: name, Func: fn})
			}
		}
		sort.Slice(s.Getters, func(i, j int) bool { return s.Getters[i].Name < s.Getters[j].Name })
	}

	return s, nil
}
