package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/oodux/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Script is a recorded list of actions. JSON is valid YAML, so both
// formats load.
type Script struct {
	Actions []domain.Action `yaml:"actions"`
}

// LoadScript parses a script document. A bare list of actions is accepted
// as well.
func LoadScript(r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		var list []domain.Action
		if listErr := yaml.Unmarshal(data, &list); listErr != nil {
			return nil, fmt.Errorf("invalid script: %w", err)
		}
		script.Actions = list
	}
	for i, a := range script.Actions {
		if a.Type == "" {
			return nil, fmt.Errorf("action %d: type is required", i)
		}
	}
	return &script, nil
}

// Dispatcher sends one action of a replay.
type Dispatcher interface {
	DispatchAction(ctx context.Context, a domain.Action) error
}

// ReplayResult counts the outcome of a replay.
type ReplayResult struct {
	Sent   int `json:"sent" yaml:"sent"`
	Failed int `json:"failed" yaml:"failed"`
}

// Replay sends every action of the script in order. Rejected actions are
// logged and counted; with stopOnError the first one ends the replay.
func Replay(ctx context.Context, d Dispatcher, script *Script, stopOnError bool, logger *slog.Logger) (ReplayResult, error) {
	var res ReplayResult
	var errs []error
	for i, a := range script.Actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		err := d.DispatchAction(ctx, a)
		if err == nil {
			res.Sent++
			logger.Debug("replayed action", "index", i, "action", a.Type)
			continue
		}
		res.Failed++
		logger.Warn("replay rejected", "index", i, "action", a.Type, "error", err)
		errs = append(errs, fmt.Errorf("action %d (%s): %w", i, a.Type, err))
		if stopOnError {
			break
		}
	}
	return res, errors.Join(errs...)
}

// ClientDispatcher adapts a Client to Dispatcher.
type ClientDispatcher struct {
	Client *Client
}

// DispatchAction implements Dispatcher.
func (c ClientDispatcher) DispatchAction(ctx context.Context, a domain.Action) error {
	_, err := c.Client.DispatchAction(ctx, a)
	return err
}
