// Package schema describes the shape of a slice type by reflection.
//
// A slice is a plain Go struct. Describe inspects it once and produces an
// explicit descriptor that the rest of oodux works from:
//
//   - Fields: every exported field not tagged `oodux:"-"`, with its state key,
//     its Kind and its value in the default instance.
//   - Methods: the user mutators, i.e. exported value-receiver methods that
//     return the slice type and take at most one argument.
//   - Getters: the derived values declared through memo.Provider.
//
// Basic usage:
//
//	type Todo struct {
//		Items []string `json:"items"`
//		Done  bool     `json:"done"`
//	}
//
//	s, err := schema.Describe(reflect.TypeOf(Todo{}))
//	if err != nil {
//		// errors.Is(err, domain.ErrAbstractSlice) or domain.ErrArityExceeded
//	}
//	for _, f := range s.Fields {
//		fmt.Println(f.Key, f.Kind) // items slice, done bool
//	}
//
// Descriptors are cached per type and must be treated as read-only.
package schema
