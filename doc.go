/*
Package oodux turns plain Go structs into redux style state containers.

A slice is a struct type. Its exported fields are the state; its methods
that return the struct type are mutators. Everything else a reducer needs
is synthesized by reflection: a setter, a clearer and kind specific
operations for every field, action creators and bound dispatchers for every
mutator, and cached derived values for the getters the type declares.

# Concept

Snapshots are never mutated. Every mutator returns a new value that shares
all untouched members with its input, so identity comparison tells which
parts of the state changed. The immutable package provides the update
helpers user mutators are written with.

# Key Features

  - Default Mutators: set, clear, toggle, increment, addTo, update and removeFrom variants derived from the field kinds.
  - User Overrides: a method always wins over a synthesized mutator of the same name.
  - Combination: several slices share one store; default actions produced by more than one slice are disabled at the root.
  - Derived Values: getters rerun only when a field they read changed.
  - Middleware: logging, metrics and policy guards wrap the dispatch path.

# Usage

	type Counter struct {
		Counter int `json:"counter"`
	}

	func (c Counter) Reset() Counter {
		return immutable.Clear(c)
	}

	func main() {
		store := oodux.Define[Counter]().Init()

		_ = store.Dispatch("incrementCounter", 2)
		_ = store.Dispatch("reset")

		fmt.Println(store.State().Counter)
	}

Combined stores are built with Combine:

	root := oodux.Combine(oodux.Define[User](), oodux.Define[Products]())
	err := root.Dispatch("setData", data) // domain.ErrConflict when both slices have a data field
*/
package oodux
