// Package api provides the poetrytools REST API server.
//
// The dictionary is loaded once at startup and shared read-only by every
// request handler; no locking is needed because the list is immutable.
package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ipv6poetry/poetrytools/core/poetry"
	"github.com/ipv6poetry/poetrytools/core/wordlist"
	"github.com/ipv6poetry/poetrytools/internal/logging"
)

// Server serves the conversion API over HTTP.
type Server struct {
	cfg   Config
	codec *poetry.Codec
	hub   *Hub
	jobs  *JobStore
}

// NewServer loads the dictionary from cfg.WordlistDir and builds a server.
// A wordlist integrity manifest next to the dictionary is verified when
// present; a size mismatch is logged but tolerated.
func NewServer(cfg Config) (*Server, error) {
	list, err := wordlist.LoadDir(cfg.WordlistDir)
	if err != nil {
		return nil, err
	}

	manifest := filepath.Join(cfg.WordlistDir, wordlist.ManifestFile)
	if _, err := os.Stat(manifest); err == nil {
		if err := list.VerifyManifest(manifest); err != nil {
			return nil, fmt.Errorf("wordlist failed integrity check: %w", err)
		}
	}
	for _, d := range poetry.SizeDiagnostic(list.Len()) {
		logging.Diagnostic(string(d.Kind), "count", d.Count)
	}

	return &Server{
		cfg:   cfg,
		codec: poetry.NewCodec(list),
		hub:   NewHub(),
		jobs:  NewJobStore(),
	}, nil
}

// Handler builds the full middleware-wrapped route handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/encode", s.handleEncode)
	mux.HandleFunc("POST /v1/decode", s.handleDecode)
	mux.HandleFunc("GET /v1/wordlist", s.handleWordlistInfo)
	mux.HandleFunc("GET /v1/healthz", s.handleHealth)
	mux.HandleFunc("POST /v1/batch", s.handleBatchCreate)
	mux.HandleFunc("GET /v1/jobs/{id}", s.handleJobGet)
	mux.HandleFunc("GET /v1/ws", s.handleWebSocket)

	var handler http.Handler = mux
	handler = securityHeaders(handler)
	handler = corsMiddleware(s.cfg.AllowedOrigins, handler)
	handler = logging.CombinedMiddleware(handler)
	return handler
}

// Start runs the hub and serves HTTP until the listener fails.
func (s *Server) Start() error {
	go s.hub.Run()

	logging.ServerStartup("rest_api", "http", s.cfg.Port,
		"wordlist_dir", s.cfg.WordlistDir,
		"wordlist_size", s.codec.List().Len())

	addr := fmt.Sprintf(":%d", s.cfg.Port)
	return http.ListenAndServe(addr, s.Handler())
}

// securityHeaders sets conservative response headers on every route.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		next.ServeHTTP(w, r)
	})
}

// corsMiddleware applies CORS headers. An empty origin list allows all.
func corsMiddleware(allowed []string, next http.Handler) http.Handler {
	allowedSet := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		allowedSet[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		switch {
		case len(allowedSet) == 0:
			w.Header().Set("Access-Control-Allow-Origin", "*")
		case allowedSet[origin]:
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
