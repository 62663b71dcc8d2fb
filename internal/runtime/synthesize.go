// Package runtime turns a reflected slice schema into a static table of
// mutators and reduces actions against it.
package runtime

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/aretw0/oodux/internal/naming"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/immutable"
	"github.com/aretw0/oodux/pkg/schema"
)

// Op identifies what a mutator does.
type Op int

const (
	// OpUser calls a method written on the slice type.
	OpUser Op = iota
	OpClear
	OpSet
	OpClearField
	OpToggle
	OpIncrement
	OpAddTo
	OpUpdate
	OpUpdateByID
	OpRemoveFrom
	OpRemoveFromByID
)

var opNames = [...]string{
	OpUser:           "user",
	OpClear:          "clear",
	OpSet:            "set",
	OpClearField:     "clearField",
	OpToggle:         "toggle",
	OpIncrement:      "increment",
	OpAddTo:          "addTo",
	OpUpdate:         "update",
	OpUpdateByID:     "updateById",
	OpRemoveFrom:     "removeFrom",
	OpRemoveFromByID: "removeFromById",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// fieldOp describes how a synthesized mutator is named and which field
// kinds receive it.
type fieldOp struct {
	op     Op
	prefix string
	suffix string
	arity  int
	want   func(schema.Kind) bool
}

func anyKind(schema.Kind) bool { return true }

func kindIs(k schema.Kind) func(schema.Kind) bool {
	return func(got schema.Kind) bool { return got == k }
}

var fieldOps = []fieldOp{
	{op: OpSet, prefix: "set", arity: 1, want: anyKind},
	{op: OpClearField, prefix: "clear", arity: 0, want: anyKind},
	{op: OpToggle, prefix: "toggle", arity: 0, want: kindIs(schema.Bool)},
	{op: OpIncrement, prefix: "increment", arity: 1, want: kindIs(schema.Number)},
	{op: OpAddTo, prefix: "addTo", arity: 1, want: schema.Kind.IsList},
	{op: OpUpdate, prefix: "update", arity: 1, want: schema.Kind.IsList},
	{op: OpUpdateByID, prefix: "update", suffix: "ById", arity: 1, want: schema.Kind.IsList},
	{op: OpRemoveFrom, prefix: "removeFrom", arity: 1, want: schema.Kind.IsList},
	{op: OpRemoveFromByID, prefix: "removeFrom", suffix: "ById", arity: 1, want: schema.Kind.IsList},
}

var matchType = reflect.TypeOf(domain.Match{})

// Mutator is one entry of the table: either a user method (OpUser) or a
// synthesized operation on Field.
type Mutator struct {
	Name   string
	Arity  int
	Op     Op
	Field  schema.Field
	Method schema.Method
}

// Default reports whether the mutator was synthesized.
func (m Mutator) Default() bool {
	return m.Op != OpUser
}

// Descriptor returns the {name, arity} pair of the mutator.
func (m Mutator) Descriptor() domain.Descriptor {
	return domain.Descriptor{Name: m.Name, Arity: m.Arity, Default: m.Default()}
}

// ArgType is the type the payload is converted to, nil at arity 0.
func (m Mutator) ArgType() reflect.Type {
	switch m.Op {
	case OpUser:
		return m.Method.ArgType
	case OpSet, OpIncrement, OpAddTo:
		return m.Field.Type
	case OpUpdate:
		return matchType
	case OpUpdateByID, OpRemoveFrom:
		return m.Field.Type.Elem()
	case OpRemoveFromByID:
		return reflect.TypeOf((*any)(nil)).Elem()
	}
	return nil
}

// Table is the static mutator table of one slice type.
type Table struct {
	schema *schema.Schema
	order  []string
	byName map[string]Mutator
}

// Synthesize builds the mutator table of s. User methods are installed
// first; a synthesized name is skipped when the table already holds it.
func Synthesize(s *schema.Schema) *Table {
	t := &Table{
		schema: s,
		byName: make(map[string]Mutator),
	}
	for _, m := range s.Methods {
		t.install(Mutator{Name: m.Name, Arity: m.Arity, Op: OpUser, Method: m})
	}
	t.install(Mutator{Name: "clear", Op: OpClear})
	for _, f := range s.Fields {
		for _, fo := range fieldOps {
			if !fo.want(f.Kind) {
				continue
			}
			t.install(Mutator{
				Name:  naming.MethodName(fo.prefix, f.Key) + fo.suffix,
				Arity: fo.arity,
				Op:    fo.op,
				Field: f,
			})
		}
	}
	return t
}

func (t *Table) install(m Mutator) {
	if _, taken := t.byName[m.Name]; taken {
		return
	}
	t.byName[m.Name] = m
	t.order = append(t.order, m.Name)
}

// Schema returns the reflected description the table was built from.
func (t *Table) Schema() *schema.Schema {
	return t.schema
}

// Lookup finds a mutator by action name.
func (t *Table) Lookup(name string) (Mutator, bool) {
	m, ok := t.byName[name]
	return m, ok
}

// Mutators returns every mutator in installation order.
func (t *Table) Mutators() []Mutator {
	out := make([]Mutator, 0, len(t.order))
	for _, name := range t.order {
		out = append(out, t.byName[name])
	}
	return out
}

// Apply runs the mutator name on state. Unknown names return state
// unchanged with handled false. A payload that does not fit returns an
// error wrapping domain.ErrInvalidPayload and leaves state untouched.
func (t *Table) Apply(state any, name string, data any) (next any, handled bool, err error) {
	m, ok := t.byName[name]
	if !ok {
		return state, false, nil
	}
	if reflect.TypeOf(state) != t.schema.Type {
		return state, false, fmt.Errorf("%s: state is %T, want %v: %w", name, state, t.schema.Type, domain.ErrInvalidPayload)
	}
	next, err = guard(name, func() (any, error) { return m.apply(state, data) })
	if err != nil {
		return state, false, err
	}
	return next, true, nil
}

func (m Mutator) apply(state any, data any) (any, error) {
	key := m.Field.Key
	switch m.Op {
	case OpUser:
		recv := reflect.ValueOf(state)
		if m.Arity == 0 {
			return m.Method.Call(recv, reflect.Value{}).Interface(), nil
		}
		arg, err := argument(data, m.Method.ArgType)
		if err != nil {
			return nil, err
		}
		return m.Method.Call(recv, arg).Interface(), nil

	case OpClear:
		return immutable.Clear(state), nil

	case OpSet:
		v, err := argument(data, m.Field.Type)
		if err != nil {
			return nil, err
		}
		return immutable.Update(state, immutable.Patch{key: v.Interface()}), nil

	case OpClearField:
		return immutable.Update(state, immutable.Patch{key: m.Field.Default}), nil

	case OpToggle:
		cur, _ := immutable.Field(state, key)
		v := reflect.New(m.Field.Type).Elem()
		v.SetBool(!reflect.ValueOf(cur).Bool())
		return immutable.Update(state, immutable.Patch{key: v.Interface()}), nil

	case OpIncrement:
		amount, err := argument(data, m.Field.Type)
		if err != nil {
			return nil, err
		}
		cur, _ := immutable.Field(state, key)
		sum, err := add(key, reflect.ValueOf(cur), amount)
		if err != nil {
			return nil, err
		}
		return immutable.Update(state, immutable.Patch{key: sum.Interface()}), nil

	case OpAddTo:
		if items(data, m.Field.Type) {
			return immutable.Concat(state, immutable.Patch{key: data}), nil
		}
		return immutable.Add(state, immutable.Patch{key: data}), nil

	case OpUpdate:
		v, err := argument(data, matchType)
		if err != nil {
			return nil, err
		}
		match := v.Interface().(domain.Match)
		by := match.Key
		if by == "" {
			by = immutable.DefaultKey
		}
		return immutable.UpdateBy(state, by, immutable.Patch{key: match.Data}), nil

	case OpUpdateByID:
		return immutable.UpdateByID(state, immutable.Patch{key: data}), nil

	case OpRemoveFrom:
		return immutable.Remove(state, immutable.Patch{key: data}), nil

	case OpRemoveFromByID:
		return immutable.RemoveByID(state, immutable.Patch{key: data}), nil
	}
	return nil, fmt.Errorf("unsupported operation %v", m.Op)
}

// argument converts a payload to t. A missing payload is the zero value.
func argument(data any, t reflect.Type) (reflect.Value, error) {
	if data == nil {
		return reflect.Zero(t), nil
	}
	return immutable.Coerce(data, t)
}

// items reports whether an addTo payload holds several elements rather than
// a single one.
func items(data any, field reflect.Type) bool {
	if data == nil {
		return false
	}
	dt := reflect.TypeOf(data)
	if dt == field {
		return true
	}
	return (dt.Kind() == reflect.Slice || dt.Kind() == reflect.Array) && !dt.AssignableTo(field.Elem())
}

// add sums two numbers of the field type. Integer sums that leave the range
// of the type are rejected.
func add(key string, cur, amount reflect.Value) (reflect.Value, error) {
	out := reflect.New(cur.Type()).Elem()
	overflow := false
	switch {
	case cur.CanInt():
		a, b := cur.Int(), amount.Int()
		sum := a + b
		overflow = (b > 0 && sum < a) || (b < 0 && sum > a) || out.OverflowInt(sum)
		if !overflow {
			out.SetInt(sum)
		}
	case cur.CanUint():
		sum := cur.Uint() + amount.Uint()
		overflow = sum < cur.Uint() || out.OverflowUint(sum)
		if !overflow {
			out.SetUint(sum)
		}
	default:
		out.SetFloat(cur.Float() + amount.Float())
	}
	if overflow {
		return reflect.Value{}, &immutable.FieldError{
			Field: key,
			Want:  cur.Type(),
			Value: amount.Interface(),
			Err:   errors.New("sum out of range"),
		}
	}
	return out, nil
}

// guard turns the *immutable.FieldError panics raised by the update core
// into returned errors.
func guard(name string, fn func() (any, error)) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			var fe *immutable.FieldError
			if e, ok := r.(error); ok && errors.As(e, &fe) {
				out, err = nil, fmt.Errorf("%s: %w", name, e)
				return
			}
			panic(r)
		}
	}()
	out, err = fn()
	if err != nil {
		err = fmt.Errorf("%s: %w", name, err)
	}
	return out, err
}
