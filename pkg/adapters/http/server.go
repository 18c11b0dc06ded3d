package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/aretw0/diagram/internal/logging"
	"github.com/aretw0/diagram/pkg/domain"
	"github.com/aretw0/diagram/pkg/model"
	"github.com/aretw0/diagram/pkg/ports"
	"github.com/aretw0/diagram/pkg/protocol"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// Engine is the part of diagram.Engine the HTTP adapter drives.
type Engine interface {
	Dispatch(ctx context.Context, action domain.Action) error
	Model(ctx context.Context) (*domain.Element, error)
	SetModel(ctx context.Context, root *domain.Element) error
	PatchModel(ctx context.Context, root *domain.Element) error
	InsertElement(ctx context.Context, item domain.ElementInsertion) error
	RemoveElement(ctx context.Context, id string) error
	RegisterRenderer(h ports.ActionHandler)
}

// Server serves the model API and streams every outbound action over SSE.
type Server struct {
	Engine  Engine
	Streams *StreamManager
	Version string

	logger *slog.Logger
	doc    *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithVersion sets the build version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// NewHandler creates a new HTTP handler for the engine and registers the
// server as a renderer so outbound actions reach SSE subscribers.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:  engine,
		Version: "dev",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	s.doc = doc

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})

	routes := []struct {
		method, pattern string
		handler         http.HandlerFunc
	}{
		{http.MethodGet, "/health", s.GetHealth},
		{http.MethodGet, "/info", s.GetInfo},
		{http.MethodPost, "/actions", s.PostAction},
		{http.MethodGet, "/model", s.GetModel},
		{http.MethodPut, "/model", s.PutModel},
		{http.MethodPost, "/model/elements", s.AddElement},
		{http.MethodDelete, "/model/elements/{id}", s.RemoveElement},
		{http.MethodGet, "/events", s.SubscribeEvents},
	}
	for _, rt := range routes {
		validated, err := s.validated(rt.method, rt.pattern, rt.handler)
		if err != nil {
			return nil, err
		}
		r.Method(rt.method, rt.pattern, validated)
	}

	if engine != nil {
		engine.RegisterRenderer(ports.HandlerFunc(s.publish))
	}
	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// publish runs inside the dispatcher turn; Broadcast never blocks.
func (s *Server) publish(_ context.Context, action domain.Action) error {
	data, err := protocol.Encode(action)
	if err != nil {
		return err
	}
	s.Streams.Broadcast(Event{Kind: action.Kind(), Data: data})
	return nil
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "diagram-http",
		"version":     s.Version,
		"api_version": s.doc.Info.Version,
	}, s.logger)
}

// PostAction handles the POST /actions request. Only inbound kinds are accepted.
func (s *Server) PostAction(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	action, err := protocol.Decode(data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid action: %v", err), http.StatusBadRequest)
		s.logger.Warn("PostAction: decode failed", "error", err)
		return
	}
	if !slices.Contains(domain.InboundKinds(), action.Kind()) {
		http.Error(w, fmt.Sprintf("Action %q is not accepted from clients", action.Kind()), http.StatusUnprocessableEntity)
		return
	}

	if err := s.Engine.Dispatch(r.Context(), action); err != nil {
		http.Error(w, fmt.Sprintf("Dispatch error: %v", err), http.StatusInternalServerError)
		s.logger.Error("PostAction: dispatch failed", "kind", action.Kind(), "error", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "kind": action.Kind()}, s.logger)
}

// GetModel handles the GET /model request.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request) {
	root, err := s.Engine.Model(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Model error: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, root, s.logger)
}

// PutModel handles the PUT /model request. With ?patch=true the new tree is
// reached through computed matches instead of a wholesale SetModel.
func (s *Server) PutModel(w http.ResponseWriter, r *http.Request) {
	var root domain.Element
	if err := json.NewDecoder(r.Body).Decode(&root); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := model.Validate(&root); err != nil {
		writeValidationError(w, err, s.logger)
		return
	}

	patch, _ := strconv.ParseBool(r.URL.Query().Get("patch"))
	submit := s.Engine.SetModel
	if patch {
		submit = s.Engine.PatchModel
	}
	if err := submit(r.Context(), &root); err != nil {
		http.Error(w, fmt.Sprintf("Submit error: %v", err), http.StatusInternalServerError)
		s.logger.Error("PutModel failed", "patch", patch, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddElement handles the POST /model/elements request.
func (s *Server) AddElement(w http.ResponseWriter, r *http.Request) {
	var item domain.ElementInsertion
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil || item.Element == nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := model.Validate(item.Element); err != nil {
		writeValidationError(w, err, s.logger)
		return
	}

	switch err := s.Engine.InsertElement(r.Context(), item); {
	case errors.Is(err, domain.ErrDuplicateElement):
		http.Error(w, fmt.Sprintf("Element %q already exists", item.Element.ID), http.StatusConflict)
		return
	case errors.Is(err, domain.ErrUnknownParent):
		http.Error(w, fmt.Sprintf("Parent %q not found", item.ParentID), http.StatusUnprocessableEntity)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("Add error: %v", err), http.StatusInternalServerError)
		s.logger.Error("AddElement failed", "element_id", item.Element.ID, "error", err)
		return
	}
	writeJSON(w, http.StatusCreated, item.Element, s.logger)
}

// RemoveElement handles the DELETE /model/elements/{id} request.
func (s *Server) RemoveElement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	switch err := s.Engine.RemoveElement(r.Context(), id); {
	case errors.Is(err, domain.ErrElementNotFound):
		http.Error(w, fmt.Sprintf("Element %q not found", id), http.StatusNotFound)
		return
	case err != nil:
		http.Error(w, fmt.Sprintf("Remove error: %v", err), http.StatusInternalServerError)
		s.logger.Error("RemoveElement failed", "element_id", id, "error", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}

func writeValidationError(w http.ResponseWriter, err error, logger *slog.Logger) {
	reasons := []string{err.Error()}
	if errs := model.ValidationErrors(err); len(errs) > 0 {
		reasons = reasons[:0]
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
	}
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": "invalid model", "details": reasons}, logger)
}
