package oodux

import (
	"log/slog"

	"github.com/aretw0/oodux/internal/logging"
	"github.com/aretw0/oodux/pkg/adapters/memory"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/middleware"
)

// Option configures a slice definition or a store.
type Option func(*config)

type config struct {
	name       string
	logger     *slog.Logger
	middleware []middleware.Middleware
	hooks      domain.LifecycleHooks
}

func newConfig(opts []Option) config {
	c := config{logger: logging.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	return c
}

// storeOptions translates the store related settings.
func (c config) storeOptions() []memory.Option {
	return []memory.Option{
		memory.WithLogger(c.logger),
		memory.WithMiddleware(c.middleware...),
		memory.WithHooks(c.hooks),
	}
}

// WithName overrides the slice name. Defaults to the type name with its
// first letter lowered.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMiddleware wraps the dispatch path of the store. The first middleware
// runs first.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mws...)
	}
}

// WithLifecycleHooks registers callbacks invoked after every dispatch.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.hooks = hooks
	}
}
