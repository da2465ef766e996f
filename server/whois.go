package server

import (
	"net/http"

	"github.com/ipgeom/ipgeom/internal/query"
)

type whoisResponse struct {
	Server string `json:"server"`
	Data   string `json:"data"`
}

// handleWhois implements GET /v1/query/whois?domain.
func (s *server) handleWhois(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("domain"))
		return
	}

	resp, err := query.DomainWhois(r.Context(), domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, whoisResponse{Server: resp.Server, Data: resp.Data})
}
