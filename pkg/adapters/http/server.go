// Package http exposes the engine as a JSON HTTP API with server-side
// sessions: clients hold an opaque session id, the server holds the
// walk. Session access is serialized through the session manager, so
// concurrent requests against one walk cannot lose updates.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aretw0/espalier"
	"github.com/aretw0/espalier/api"
	"github.com/aretw0/espalier/internal/logging"
	"github.com/aretw0/espalier/internal/presentation/graph"
	"github.com/aretw0/espalier/pkg/codec"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/ports"
	"github.com/aretw0/espalier/pkg/session"
)

// Server handles the HTTP surface over one engine and one session store.
type Server struct {
	engine   ports.Engine
	sessions *session.Manager
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics attaches externally created metrics, so their hooks can be
// shared with the engine construction.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine ports.Engine, sessions *session.Manager, opts ...Option) http.Handler {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	r := chi.NewRouter()
	r.Get("/health", s.getHealth)
	r.Get("/info", s.getInfo)
	r.Get("/graph", s.getGraph)
	r.Get("/graph/mermaid", s.getGraphMermaid)
	r.Handle("/metrics", s.metrics.Handler())

	// Swagger UI
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(api.OpenAPI)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})
	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.createSession)
		r.Get("/", s.listSessions)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Post("/choose", s.choose)
			r.Post("/back", s.back)
			r.Post("/reset", s.reset)
		})
	})

	return enableCORS(r)
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

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Espalier API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

type createSessionRequest struct {
	ID string `json:"id"`
}

type chooseRequest struct {
	Option *int `json:"option"`
}

type sessionResponse struct {
	ID   string      `json:"id"`
	View domain.View `json:"view"`
	Path []string    `json:"path"`
}

// createSession handles POST /sessions. An empty body (or one without an
// id) mints a fresh id; posting an existing id returns that session
// unchanged, so creation is safe to retry.
func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateSession: invalid request body", "err", err)
		return
	}

	id := body.ID
	if id == "" {
		id = uuid.NewString()
	}

	var sess *domain.Session
	created := false
	err := s.sessions.WithLock(r.Context(), id, func(ctx context.Context) error {
		var err error
		sess, err = s.sessions.Store().Load(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return err
		}
		sess = s.engine.Start()
		created = true
		return s.sessions.Store().Save(ctx, id, sess)
	})
	if err != nil {
		s.respondError(w, "create", id, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respondSession(w, status, id, sess)
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		s.respondError(w, "view", id, err)
		return
	}
	s.respondSession(w, http.StatusOK, id, sess)
}

func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.respondError(w, "delete", id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.sessions.List(r.Context())
	if err != nil {
		s.respondError(w, "list", "", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

func (s *Server) choose(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var body chooseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Choose: invalid request body", "err", err)
		return
	}
	if body.Option == nil {
		http.Error(w, "Missing option index", http.StatusBadRequest)
		return
	}

	sess, err := s.advance(r, id, func(cur *domain.Session) (*domain.Session, error) {
		return s.engine.Choose(cur, *body.Option)
	})
	if err != nil {
		s.respondError(w, "choose", id, err)
		return
	}
	s.respondSession(w, http.StatusOK, id, sess)
}

func (s *Server) back(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.advance(r, id, s.engine.Back)
	if err != nil {
		s.respondError(w, "back", id, err)
		return
	}
	s.respondSession(w, http.StatusOK, id, sess)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.advance(r, id, func(cur *domain.Session) (*domain.Session, error) {
		return s.engine.Reset(cur), nil
	})
	if err != nil {
		s.respondError(w, "reset", id, err)
		return
	}
	s.respondSession(w, http.StatusOK, id, sess)
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	data, err := codec.DumpJSON(s.engine.Graph())
	if err != nil {
		s.respondError(w, "graph", "", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// getGraphMermaid handles GET /graph/mermaid. With ?session=<id> the
// diagram is overlaid with that walk's visited path and current node.
func (s *Server) getGraphMermaid(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.Overlay
	if id := r.URL.Query().Get("session"); id != "" {
		sess, err := s.sessions.Load(r.Context(), id)
		if err != nil {
			s.respondError(w, "mermaid", id, err)
			return
		}
		overlay = &graph.Overlay{
			VisitedNodes: sess.Path,
			CurrentNode:  sess.CurrentID,
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.Mermaid(s.engine.Graph(), overlay))
}

func (s *Server) getHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "espalier-http",
		"version": strings.TrimSpace(espalier.Version),
	})
}

// advance runs op on the stored session under its lock and persists the
// result, all in one critical section.
func (s *Server) advance(r *http.Request, id string, op func(*domain.Session) (*domain.Session, error)) (*domain.Session, error) {
	var out *domain.Session
	err := s.sessions.WithLock(r.Context(), id, func(ctx context.Context) error {
		cur, err := s.sessions.Store().Load(ctx, id)
		if err != nil {
			return err
		}
		next, err := op(cur)
		if err != nil {
			return err
		}
		if err := s.sessions.Store().Save(ctx, id, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	return out, err
}

func (s *Server) respondSession(w http.ResponseWriter, status int, id string, sess *domain.Session) {
	view, err := s.engine.View(sess)
	if err != nil {
		s.respondError(w, "view", id, err)
		return
	}
	writeJSON(w, status, sessionResponse{
		ID:   id,
		View: view,
		Path: sess.Path,
	})
}

func (s *Server) respondError(w http.ResponseWriter, op, sessionID string, err error) {
	status, reason := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", "op", op, "session_id", sessionID, "err", err)
	} else {
		s.logger.Warn("Request rejected", "op", op, "session_id", sessionID, "reason", reason)
	}
	s.metrics.observeError(reason)
	http.Error(w, err.Error(), status)
}

// mapError translates traversal errors into HTTP status codes plus the
// reason label used by the error counter.
func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, domain.ErrOptionOutOfRange):
		return http.StatusUnprocessableEntity, "option_out_of_range"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrAtRoot):
		return http.StatusConflict, "at_root"
	case errors.Is(err, domain.ErrUnknownNode):
		return http.StatusConflict, "unknown_node"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
