// Package middleware wraps the dispatch path of a store.
//
// A Middleware sees every action before the store reduces it and the
// outcome afterwards. Middlewares compose with Chain; the first one is the
// outermost:
//
//	store := memory.NewStore(transition, initial,
//		memory.WithMiddleware(
//			middleware.Logging(logger),
//			middleware.Metrics(prometheus.DefaultRegisterer),
//		),
//	)
package middleware

import (
	"github.com/aretw0/oodux/pkg/domain"
)

// Handler applies an action. handled is false when no reducer recognized it.
type Handler func(action domain.Action) (handled bool, err error)

// Middleware decorates a Handler.
type Middleware func(next Handler) Handler

// Chain composes middlewares so that mws[0] runs first.
func Chain(mws ...Middleware) Middleware {
	return func(next Handler) Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			if mws[i] != nil {
				next = mws[i](next)
			}
		}
		return next
	}
}

// Guard consults policy before every action. A non-nil policy error
// blocks the action and is returned from the dispatch unchanged.
func Guard(policy func(domain.Action) error) Middleware {
	return func(next Handler) Handler {
		return func(a domain.Action) (bool, error) {
			if err := policy(a); err != nil {
				return false, err
			}
			return next(a)
		}
	}
}
