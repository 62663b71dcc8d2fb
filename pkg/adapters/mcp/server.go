// Package mcp exposes a store to MCP clients: tools to read the state, list
// and dispatch actions, and a resource with the current state.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/oodux"
	"github.com/aretw0/oodux/internal/logging"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/persistence"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// StateURI is the resource holding the current state.
const StateURI = "oodux://state"

// Store is the view of a store the server needs. The devtools HTTP adapter
// values (FromStore, FromRoot) satisfy it.
type Store interface {
	State() any
	Revision() uint64
	Descriptors() []domain.Descriptor
	Dispatch(name string, data any) error
	DispatchAction(a domain.Action) error
}

// StateResponse is the structured result of every tool. State is keyed by
// state keys, the same shape the HTTP adapter serves.
type StateResponse struct {
	Revision uint64         `json:"revision" jsonschema_description:"Store revision, bumped by every state change"`
	State    map[string]any `json:"state" jsonschema_description:"The current state"`
}

// Server wraps a Store and exposes it as an MCP Server.
type Server struct {
	store     Store
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(store Store, opts ...Option) *Server {
	s := &Server{
		store:     store,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("oodux-mcp", strings.TrimSpace(oodux.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Get the current state and revision."),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleGetState))

	s.mcpServer.AddTool(mcp.NewTool("list_actions",
		mcp.WithDescription("List the dispatchable actions with their arity and owning slice."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.store.Descriptors())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode actions: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	s.mcpServer.AddTool(mcp.NewTool("dispatch",
		mcp.WithDescription("Dispatch an action by name. Conflicting top-level names must be sent with a target slice."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Action name, e.g. setCount")),
		mcp.WithString("data", mcp.Description("JSON payload (optional)")),
		mcp.WithString("target", mcp.Description("Slice to scope the action to (optional)")),
		mcp.WithBoolean("raw", mcp.Description("Send as an untargeted action that reaches every slice")),
		mcp.WithOutputSchema[StateResponse](),
	), mcp.NewStructuredToolHandler(s.handleDispatch))
}

func (s *Server) snapshot() (StateResponse, error) {
	revision := s.store.Revision()
	state, err := persistence.Encode(s.store.State())
	if err != nil {
		return StateResponse{}, fmt.Errorf("encode state: %w", err)
	}
	return StateResponse{Revision: revision, State: state}, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	return s.snapshot()
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	name, _ := args["name"].(string)
	if name == "" {
		return StateResponse{}, errors.New("name is required")
	}

	var data any
	if raw, ok := args["data"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return StateResponse{}, fmt.Errorf("data is not valid JSON: %w", err)
		}
	}
	target, _ := args["target"].(string)
	rawAction, _ := args["raw"].(bool)

	var err error
	switch {
	case target != "" || rawAction:
		err = s.store.DispatchAction(domain.Action{Type: name, Data: data, Target: target})
	default:
		err = s.store.Dispatch(name, data)
	}
	if err != nil {
		s.logger.Warn("MCP dispatch rejected", "action", name, "error", err)
		return StateResponse{}, fmt.Errorf("dispatch %s: %w", name, err)
	}
	return s.snapshot()
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Current State",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := s.snapshot()
		if err != nil {
			return nil, err
		}
		jsonBytes, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StateURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
