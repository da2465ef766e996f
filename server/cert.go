package server

import (
	"net/http"
	"time"

	"github.com/ipgeom/ipgeom/internal/query"
)

type certResponse struct {
	Subject   string `json:"subject"`
	Issuer    string `json:"issuer"`
	NotBefore string `json:"not_before"`
	NotAfter  string `json:"not_after"`
	Valid     bool   `json:"valid"`
}

// handleDomainCertificate implements GET /v1/query/domain-certificate?domain.
func (s *server) handleDomainCertificate(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("domain"))
		return
	}

	info, err := query.FetchCertificate(r.Context(), domain)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, certResponse{
		Subject:   info.Subject,
		Issuer:    info.Issuer,
		NotBefore: info.NotBefore.Format(time.RFC3339),
		NotAfter:  info.NotAfter.Format(time.RFC3339),
		Valid:     info.Valid,
	})
}
