// Package server provides the HTTP handlers and routing for a tool server.
package server

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"workspace-mcp/internal/logging"
	"workspace-mcp/internal/mcpserver"
	"workspace-mcp/internal/registry"
)

const defaultRequestTimeout = 60 * time.Second

// Config contains the server identity and the optional bearer token.
type Config struct {
	Name    string
	Version string
	Token   string
	// RequestTimeout bounds the JSON API routes; zero means 60s. The MCP
	// transport is exempt since it holds streams open.
	RequestTimeout time.Duration
}

// Server routes HTTP requests to the operations of a registry, both through a
// plain JSON API and through the MCP streamable HTTP transport.
type Server struct {
	cfg      Config
	router   *chi.Mux
	registry *registry.Registry
	mcp      *mcpserver.MCPServer
	log      *slog.Logger
}

// New constructs a Server with middleware and routes configured. Operations
// must be registered in reg before New is called.
func New(cfg Config, reg *registry.Registry, logger *slog.Logger) *Server {
	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		registry: reg,
		mcp:      mcpserver.New(cfg.Name, cfg.Version, reg),
		log:      logging.Component(logger, "http"),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  logging.StdLogger(logger, "http"),
		NoColor: true,
	}))
	s.router.Use(middleware.Recoverer)

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	s.router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))
		r.Get("/health", s.handleHealth)
		r.With(s.auth).Get("/mcp/tools", s.handleListTools)
		r.With(s.auth).Post("/mcp/call", s.handleCall)
	})
	s.router.With(s.auth).Handle("/mcp", s.mcp.Handler())

	return s
}

// Router exposes the root HTTP handler for the server.
func (s *Server) Router() http.Handler { return s.router }

// MCP exposes the protocol adapter, for serving over stdio.
func (s *Server) MCP() *mcpserver.MCPServer { return s.mcp }

func (s *Server) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.Token == "" {
			next.ServeHTTP(w, r)
			return
		}
		got := r.Header.Get("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+s.cfg.Token)) != 1 {
			writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTools(w http.ResponseWriter, _ *http.Request) {
	descs := s.registry.List()
	tools := make([]Tool, 0, len(descs))
	for _, d := range descs {
		tools = append(tools, Tool{Name: d.Name, Description: d.Description, InputSchema: d.InputSchema()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": tools})
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	var req CallRequest
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	id := uuid.NewString()
	ctx := r.Context()
	s.log.DebugContext(ctx, "tool call", "id", id, "tool", req.Name, "request_id", middleware.GetReqID(ctx))

	result, err := s.registry.Invoke(ctx, req.Name, req.Args)
	if err != nil {
		s.writeCallError(w, r, id, err)
		return
	}
	writeJSON(w, http.StatusOK, CallResponse{ID: id, Name: req.Name, Result: result})
}

func (s *Server) writeCallError(w http.ResponseWriter, r *http.Request, id string, err error) {
	var argErr *registry.ArgumentError
	switch {
	case errors.Is(err, registry.ErrUnknownOperation):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: codeUnknownOperation, ID: id})
	case errors.As(err, &argErr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: codeInvalidArgument, Param: argErr.Param, ID: id})
	case errors.Is(err, registry.ErrInvalidArgument):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: codeInvalidArgument, ID: id})
	default:
		s.log.ErrorContext(r.Context(), "tool call failed", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error(), Code: codeInternal, ID: id})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
