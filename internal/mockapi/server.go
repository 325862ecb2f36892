// Package mockapi is an in-memory implementation of the CRM REST API.
// It backs `propdesk mock-api` and the end-to-end tests.
package mockapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/propdesk/propdesk/internal/domain"
	"github.com/propdesk/propdesk/internal/logging"
	"github.com/propdesk/propdesk/internal/search"
)

// Prefix is the path prefix every route is mounted under.
const Prefix = "/api"

type document struct {
	name        string
	contentType string
	data        []byte
}

// Server holds the fixture data.
type Server struct {
	mu         sync.RWMutex
	properties []domain.Property
	extra      map[string]map[string]any
	offPlan    []domain.Property
	drafts     map[string]domain.Draft
	draftOrder []string
	documents  map[string]document
	passwords  *store[domain.PasswordEntry]
	watermarks *store[domain.Watermark]

	logger logging.Logger
	now    func() time.Time
	router *mux.Router
	search search.Provider

	// failures lets tests inject status codes for a path.
	failures map[string][]int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithSearch sets how the search parameter matches properties. The
// default is a case-insensitive substring match.
func WithSearch(p search.Provider) Option {
	return func(s *Server) {
		s.search = p
	}
}

// New creates an empty server.
func New(opts ...Option) *Server {
	s := &Server{
		extra:      make(map[string]map[string]any),
		drafts:     make(map[string]domain.Draft),
		documents:  make(map[string]document),
		passwords:  newStore(func(p domain.PasswordEntry) string { return p.ID }, func(p *domain.PasswordEntry, id string) { p.ID = id }),
		watermarks: newStore(func(w domain.Watermark) string { return w.ID }, func(w *domain.Watermark, id string) { w.ID = id }),
		logger:     logging.Noop(),
		now:        time.Now,
		failures:   make(map[string][]int),
		search:     search.NewSubstringProvider(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.injectFailures)
	api := r.PathPrefix(Prefix).Subrouter()

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api.HandleFunc("/properties", s.listHandler(func() []domain.Property { return s.properties })).Methods(http.MethodGet)
	api.HandleFunc("/properties", s.createPropertyHandler).Methods(http.MethodPost)
	api.HandleFunc("/properties/{id}", s.getPropertyHandler).Methods(http.MethodGet)
	api.HandleFunc("/properties/{id}", s.updatePropertyHandler).Methods(http.MethodPatch)
	api.HandleFunc("/off-plan", s.listHandler(func() []domain.Property { return s.offPlan })).Methods(http.MethodGet)

	api.HandleFunc("/drafts", s.listDraftsHandler).Methods(http.MethodGet)
	api.HandleFunc("/drafts", s.createDraftHandler).Methods(http.MethodPost)
	api.HandleFunc("/drafts/{id}", s.getDraftHandler).Methods(http.MethodGet)
	api.HandleFunc("/drafts/{id}", s.updateDraftHandler).Methods(http.MethodPatch)
	api.HandleFunc("/drafts/{id}", s.deleteDraftHandler).Methods(http.MethodDelete)

	api.HandleFunc("/uploads", s.uploadHandler).Methods(http.MethodPost)
	api.HandleFunc("/documents/{id}", s.documentHandler).Methods(http.MethodGet)
	api.HandleFunc("/noc", s.createNOCHandler).Methods(http.MethodPost)

	mountStore(api, "/passwords", s.passwords)
	mountStore(api, "/watermarks", s.watermarks)
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := s.now()
		next.ServeHTTP(w, r)
		s.logger.Debug("mock api request", "method", r.Method, "path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-ID"), "duration", s.now().Sub(start).String())
	})
}

// FailNext makes the next len(statuses) requests to path answer with
// the given statuses, in order.
func (s *Server) FailNext(path string, statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	path = Prefix + "/" + strings.TrimLeft(path, "/")
	s.failures[path] = append(s.failures[path], statuses...)
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		queue := s.failures[r.URL.Path]
		var status int
		if len(queue) > 0 {
			status, s.failures[r.URL.Path] = queue[0], queue[1:]
		}
		s.mu.Unlock()
		if status != 0 {
			writeError(w, status, "injected failure")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
