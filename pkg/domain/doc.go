/*
Package domain contains the shared vocabulary of the oodux state container.

It defines the values that travel through the dispatch pipeline and the
errors every layer agrees on. This package is kept pure and free of
reflection, I/O or persistence so that adapters and the runtime can both
depend on it.

# Key Entities

  - Action: a dispatched operation (type, optional payload, optional target slice).
  - Descriptor: the {name, arity} pair identifying a dispatchable operation.
  - Creator / Dispatcher: generated functions building and sending actions.
  - Tree: the keyed snapshot of a combined store.
  - DispatchEvent: the observation record emitted around every dispatch.
*/
package domain
