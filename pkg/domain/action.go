package domain

// Action is the unit of change sent through a store.
type Action struct {
	// Type is the action name, e.g. "setCounter".
	Type string `json:"type" yaml:"type"`

	// Data is the optional payload (present for arity-1 actions).
	Data any `json:"data,omitempty" yaml:"data,omitempty"`

	// Target restricts the action to one slice of a combined store.
	// An empty Target reaches every slice that recognizes Type.
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// Descriptor identifies a dispatchable operation. It is derived once per
// mutator name and stays constant for the lifetime of a registry.
type Descriptor struct {
	Name  string `json:"name" yaml:"name"`
	Arity int    `json:"arity" yaml:"arity"`

	// Default reports whether the mutator was synthesized from a field.
	Default bool `json:"default" yaml:"default"`

	// Slice is the name of the slice that owns the mutator.
	Slice string `json:"slice,omitempty" yaml:"slice,omitempty"`
}

// MaxArity is the largest number of arguments a mutator may take.
const MaxArity = 1

// Creator builds an Action. The argument is ignored for arity-0 actions.
type Creator func(data any) Action

// Dispatcher builds an Action and sends it to the bound store.
type Dispatcher func(data any) error

// Tree is the snapshot of a combined store: slice name -> slice snapshot.
// A Tree is never mutated after it has been published.
type Tree map[string]any

// Match is the payload of the keyed list update mutators
// (update<Field>): the element whose Key equals Data[Key] is merged with Data.
// An empty Key means "id".
type Match struct {
	Key  string `json:"key" yaml:"key"`
	Data any    `json:"data" yaml:"data"`
}
