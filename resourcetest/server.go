// Package resourcetest provides an in-process HTTP fixture server with
// redirect endpoints, for exercising resource.Resource over real HTTP.
//
// Routes:
//
//	/redirect/{code}?<target>   responds with status code and Location: <target>
//	                            (the whole raw query is the target, no Location if empty)
//	/loop                       302 back to itself
//	/status/{code}              responds with status code
//	/flaky/{n}                  cycles of n 503s followed by one /anything echo
//	/get                        echoes the request as JSON, GET and HEAD only
//	/anything, /anything/*      echoes the request as JSON, any method
package resourcetest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Echo is the JSON body returned by the echo routes.
type Echo struct {
	Method    string              `json:"method"`
	Path      string              `json:"path"`
	Query     string              `json:"query"`
	Body      string              `json:"body"`
	Headers   map[string][]string `json:"headers"`
	RequestID string              `json:"request_id"`
}

// Server is a running fixture server. Close it when done.
type Server struct {
	*httptest.Server

	logger zerolog.Logger

	mu   sync.Mutex
	hits map[string]int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger logs every served request at debug level.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer starts a fixture server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		logger: zerolog.Nop(),
		hits:   make(map[string]int),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	return s
}

// URL returns the absolute URL of path on this server.
func (s *Server) URL(path string) string {
	return s.Server.URL + path
}

// Hits returns how many requests were served for path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.HandleFunc("/redirect/{code}", s.redirect)
	r.HandleFunc("/loop", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Location", "/loop")
		w.WriteHeader(http.StatusFound)
	})
	r.HandleFunc("/status/{code}", func(w http.ResponseWriter, req *http.Request) {
		code, err := strconv.Atoi(chi.URLParam(req, "code"))
		if err != nil {
			http.Error(w, "bad status code", http.StatusBadRequest)
			return
		}
		w.WriteHeader(code)
	})
	r.HandleFunc("/flaky/{n}", s.flaky)
	r.Get("/get", s.echo)
	r.Head("/get", s.echo)
	r.HandleFunc("/anything", s.echo)
	r.HandleFunc("/anything/*", s.echo)

	return r
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.hits[r.URL.Path]++
		s.mu.Unlock()

		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Msg("fixture request")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.Atoi(chi.URLParam(r, "code"))
	if err != nil || code < 300 || code > 399 {
		http.Error(w, "bad redirect code", http.StatusBadRequest)
		return
	}

	if target := r.URL.RawQuery; target != "" {
		w.Header().Set("Location", target)
	}
	w.WriteHeader(code)
}

func (s *Server) flaky(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "bad count", http.StatusBadRequest)
		return
	}

	if n < 0 {
		http.Error(w, "bad count", http.StatusBadRequest)
		return
	}

	// Every (n+1)th hit succeeds.
	if s.Hits(r.URL.Path)%(n+1) != 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	s.echo(w, r)
}

func (s *Server) echo(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)

	if r.Method == http.MethodHead {
		return
	}

	_ = json.NewEncoder(w).Encode(Echo{
		Method:    r.Method,
		Path:      r.URL.Path,
		Query:     r.URL.RawQuery,
		Body:      string(body),
		Headers:   r.Header,
		RequestID: requestID,
	})
}
