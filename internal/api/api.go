// Package api provides the HTTP API for symptom analysis.
package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/GogikarMahashri/MEDCARE-QR/internal/logging"
	"github.com/GogikarMahashri/MEDCARE-QR/internal/symptoms"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

// Server is the API server.
type Server struct {
	service     *symptoms.Service
	log         *logrus.Entry
	corsOrigins []string
	mux         *http.ServeMux
	handler     http.Handler
}

// Config holds API server configuration.
type Config struct {
	Service *symptoms.Service
	Logger  logrus.FieldLogger
	// CORSOrigins is "*" or a comma-separated list of allowed origins.
	CORSOrigins string
}

// NewServer creates a new API server.
func NewServer(cfg Config) *Server {
	s := &Server{
		service:     cfg.Service,
		log:         logging.Component(cfg.Logger, "api"),
		corsOrigins: parseOrigins(cfg.CORSOrigins),
		mux:         http.NewServeMux(),
	}

	s.registerRoutes()
	s.handler = chain(s.mux, s.recoverer, s.accessLog, requestID)
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/symptoms/analyze", s.handleAnalyze)
	s.mux.HandleFunc("GET /api/symptoms/analyze/stream", s.handleAnalyzeStream)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if origin := s.allowOrigin(r.Header.Get("Origin")); origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		if origin != "*" {
			w.Header().Add("Vary", "Origin")
		}
	}

	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	s.handler.ServeHTTP(w, r)
}

// handleHealth reports liveness plus what a client needs before submitting:
// whether analyses can run and the minimum description length.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"strategy":  s.service.StrategyName(),
		"ready":     s.service.Ready() == nil,
		"minLength": s.service.MinLength(),
	})
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or ""
// when the origin is not allowed.
func (s *Server) allowOrigin(origin string) string {
	for _, o := range s.corsOrigins {
		if o == "*" {
			return "*"
		}
		if origin != "" && o == origin {
			return origin
		}
	}
	return ""
}

func parseOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}
	var out []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, map[string]string{"error": message, "kind": kind})
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}
