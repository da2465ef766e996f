package server

import (
	"fmt"
	"net/http"

	"github.com/ipgeom/ipgeom/internal/query"
)

type passwordHashResponse struct {
	Method string `json:"method"`
	Hash   string `json:"hash"`
}

// handlePasswordHash implements GET /v1/password-hash-generate?method=bcrypt&password.
func (s *server) handlePasswordHash(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	method := q.Get("method")
	if method == "" {
		method = "bcrypt"
	}
	if method != "bcrypt" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported hash method: %q", method))
		return
	}
	password := q.Get("password")
	if password == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("password"))
		return
	}

	hash, err := query.GenerateBcryptHash(password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, passwordHashResponse{Method: method, Hash: hash})
}
