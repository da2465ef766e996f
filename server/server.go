// Package server implements the JSON HTTP API: thin chi handlers over the
// internal/query collaborators and the iterative resolver, serving
// GET-only endpoints under /v1/... and a plain 404 fallback for anything
// else, matching spec.md §6's external interface exactly.
package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ipgeom/ipgeom/internal/resolver"
)

// Config configures the router's dependencies.
type Config struct {
	Resolver *resolver.Resolver
	Log      *zap.SugaredLogger
}

type server struct {
	resolver *resolver.Resolver
	log      *zap.SugaredLogger
}

// New builds the HTTP API router. Handlers are read-only against their
// collaborators, matching spec.md §5's "handlers are read-only" contract.
func New(cfg Config) http.Handler {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	res := cfg.Resolver
	if res == nil {
		res = resolver.New(log)
	}
	s := &server{resolver: res, log: log}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/v1/query/dns", s.handleDNSQuery)
	r.Get("/v1/query/whois", s.handleWhois)
	r.Get("/v1/query/rdap", s.handleRDAP)
	r.Get("/v1/query/domain-certificate", s.handleDomainCertificate)
	r.Get("/v1/ping", s.handlePing)
	r.Get("/v1/query/traceroute", s.handleTraceroute)
	r.Get("/v1/password-hash-generate", s.handlePasswordHash)

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		handleNotFound(w, req)
	})

	return r
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes spec.md §6's uniform error body, {"error": string}.
func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// handleNotFound distinguishes unknown /v1/... paths (JSON 404) from any
// other unknown path (HTML 404), per spec.md §6.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/v1/") {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("<html><head><title>Not Found</title></head><body><h1>404 Not Found</h1></body></html>"))
}
