package middleware

import (
	"log/slog"
	"time"

	"github.com/aretw0/oodux/pkg/domain"
)

// Logging logs every dispatch at Debug and failed dispatches at Warn.
func Logging(logger *slog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(a domain.Action) (bool, error) {
			start := time.Now()
			handled, err := next(a)
			attrs := []any{
				"action", a.Type,
				"target", a.Target,
				"handled", handled,
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Warn("dispatch failed", append(attrs, "error", err)...)
				return handled, err
			}
			logger.Debug("action dispatched", attrs...)
			return handled, nil
		}
	}
}
