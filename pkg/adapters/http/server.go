package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"

	"github.com/aretw0/liftnav"
	"github.com/aretw0/liftnav/pkg/domain"
	"github.com/aretw0/liftnav/pkg/ports"
)

// Server exposes a Navigator over HTTP.
type Server struct {
	Nav     ports.Navigator
	Spec    *openapi3.T
	logger  *slog.Logger
	metrics http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the adapter logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates a new HTTP handler for the navigator.
func NewHandler(nav ports.Navigator, opts ...Option) (http.Handler, error) {
	server := &Server{
		Nav:    nav,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(server)
	}

	doc, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}
	server.Spec = doc
	router, err := newRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to build openapi router: %w", err)
	}

	r := chi.NewRouter()
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(rawSpec)
	})
	r.Get("/health", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Get("/state", server.GetState)
	r.Get("/pages", server.GetPages)
	r.Get("/current", server.GetCurrent)
	r.Get("/events", server.SubscribeEvents)
	if server.metrics != nil {
		r.Handle("/metrics", server.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(server.validateRequests(router))
		r.Post("/present", server.Present)
		r.Post("/navigate", server.NavigateTo)
		r.Put("/index", server.UpdateIndex)
		r.Post("/back", server.Back)
		r.Post("/pop-to-root", server.PopToRoot)
		r.Post("/root", server.SetRoot)
	})

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StateResponse is the JSON form of a navigation snapshot.
type StateResponse struct {
	Pages        []domain.Wire `json:"pages"`
	CurrentIndex int           `json:"current_index"`
	CurrentPage  domain.Wire   `json:"current_page"`
}

// HandledResponse reports the outcome of back and pop-to-root.
type HandledResponse struct {
	Handled bool          `json:"handled"`
	State   StateResponse `json:"state"`
}

// FoundResponse reports the outcome of navigate.
type FoundResponse struct {
	Found bool          `json:"found"`
	State StateResponse `json:"state"`
}

type destinationRequest struct {
	Destination *domain.Wire `json:"destination"`
	Animate     *bool        `json:"animate,omitempty"`
}

type indexRequest struct {
	Index *int `json:"index"`
}

type keepStackRequest struct {
	KeepStack *bool `json:"keep_stack,omitempty"`
}

// NewStateResponse converts a snapshot to its response form.
func NewStateResponse(s domain.State) StateResponse {
	resp := StateResponse{
		Pages:        make([]domain.Wire, len(s.Stack)),
		CurrentIndex: s.CurrentIndex,
		CurrentPage:  domain.ToWire(s.Current()),
	}
	for i, d := range s.Stack {
		resp.Pages[i] = domain.ToWire(d)
	}
	return resp
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.Spec != nil && s.Spec.Info != nil {
		apiVersion = s.Spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "liftnav-http",
		"version":     strings.TrimSpace(liftnav.Version),
		"api_version": apiVersion,
	})
}

// GetState handles the GET /state request.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, NewStateResponse(s.Nav.State()))
}

// GetPages handles the GET /pages request.
func (s *Server) GetPages(w http.ResponseWriter, r *http.Request) {
	pages := s.Nav.Pages()
	out := make([]domain.Wire, len(pages))
	for i, d := range pages {
		out[i] = domain.ToWire(d)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetCurrent handles the GET /current request.
func (s *Server) GetCurrent(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, domain.ToWire(s.Nav.CurrentPage()))
}

// Present handles the POST /present request.
func (s *Server) Present(w http.ResponseWriter, r *http.Request) {
	var body destinationRequest
	d, ok := s.decodeDestination(w, r, &body)
	if !ok {
		return
	}
	animate := true
	if body.Animate != nil {
		animate = *body.Animate
	}
	if res, ok := s.apply(w, domain.Command{Op: domain.OpPresent, Destination: d, Animate: animate}); ok {
		s.writeJSON(w, http.StatusOK, NewStateResponse(res.State))
	}
}

// NavigateTo handles the POST /navigate request.
func (s *Server) NavigateTo(w http.ResponseWriter, r *http.Request) {
	var body destinationRequest
	d, ok := s.decodeDestination(w, r, &body)
	if !ok {
		return
	}
	if res, ok := s.apply(w, domain.Command{Op: domain.OpNavigateTo, Destination: d}); ok {
		s.writeJSON(w, http.StatusOK, FoundResponse{Found: res.Handled, State: NewStateResponse(res.State)})
	}
}

// UpdateIndex handles the PUT /index request.
func (s *Server) UpdateIndex(w http.ResponseWriter, r *http.Request) {
	var body indexRequest
	if err := decodeBody(r, &body); err != nil || body.Index == nil {
		if err == nil {
			err = errors.New("index is required")
		}
		s.logger.Warn("UpdateIndex: Invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if res, ok := s.apply(w, domain.Command{Op: domain.OpUpdateIndex, Index: *body.Index}); ok {
		s.writeJSON(w, http.StatusOK, NewStateResponse(res.State))
	}
}

// Back handles the POST /back request.
func (s *Server) Back(w http.ResponseWriter, r *http.Request) {
	keep, ok := s.decodeKeepStack(w, r)
	if !ok {
		return
	}
	if res, ok := s.apply(w, domain.Command{Op: domain.OpBack, KeepStack: keep}); ok {
		s.writeJSON(w, http.StatusOK, HandledResponse{Handled: res.Handled, State: NewStateResponse(res.State)})
	}
}

// PopToRoot handles the POST /pop-to-root request.
func (s *Server) PopToRoot(w http.ResponseWriter, r *http.Request) {
	keep, ok := s.decodeKeepStack(w, r)
	if !ok {
		return
	}
	if res, ok := s.apply(w, domain.Command{Op: domain.OpPopToRoot, KeepStack: keep}); ok {
		s.writeJSON(w, http.StatusOK, HandledResponse{Handled: res.Handled, State: NewStateResponse(res.State)})
	}
}

// SetRoot handles the POST /root request.
func (s *Server) SetRoot(w http.ResponseWriter, r *http.Request) {
	var body destinationRequest
	d, ok := s.decodeDestination(w, r, &body)
	if !ok {
		return
	}
	if res, ok := s.apply(w, domain.Command{Op: domain.OpSetRoot, Destination: d}); ok {
		s.writeJSON(w, http.StatusOK, NewStateResponse(res.State))
	}
}

// -- Helpers --

// apply runs cmd on the navigator. Responses are built from the returned state,
// never from a later read, so they show exactly what this request produced.
func (s *Server) apply(w http.ResponseWriter, cmd domain.Command) (domain.Result, bool) {
	res, err := s.Nav.Apply(cmd)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, domain.ErrInvalidIndex):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, domain.ErrNilDestination), errors.Is(err, domain.ErrInvalidDestination):
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return res, false
	}
	return res, true
}

// decodeBody decodes a JSON body. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (s *Server) decodeDestination(w http.ResponseWriter, r *http.Request, body *destinationRequest) (domain.Destination, bool) {
	if err := decodeBody(r, body); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	if body.Destination == nil {
		writeError(w, http.StatusBadRequest, errors.New("destination is required"))
		return nil, false
	}
	d, err := domain.FromWire(*body.Destination)
	if err != nil {
		s.logger.Warn("Invalid destination", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return nil, false
	}
	return d, true
}

func (s *Server) decodeKeepStack(w http.ResponseWriter, r *http.Request) (bool, bool) {
	var body keepStackRequest
	if err := decodeBody(r, &body); err != nil {
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return false, false
	}
	if body.KeepStack == nil {
		return true, true
	}
	return *body.KeepStack, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
