package server

import (
	"net/http"
	"strings"

	"github.com/ipgeom/ipgeom/internal/query"
)

var rdapQueryTypes = map[string]query.QueryType{
	"domain":     query.QueryDomain,
	"ip":         query.QueryIP,
	"autnum":     query.QueryAutnum,
	"entity":     query.QueryEntity,
	"nameserver": query.QueryNameserver,
}

// handleRDAP implements GET /v1/query/rdap?query&qtype?, returning the
// opaque RDAP JSON object unchanged.
func (s *server) handleRDAP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	target := q.Get("query")
	if target == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("query"))
		return
	}

	qtype := query.QueryDomain
	if raw := q.Get("qtype"); raw != "" {
		t, ok := rdapQueryTypes[strings.ToLower(raw)]
		if !ok {
			writeError(w, http.StatusBadRequest, errInvalidParam("qtype", raw))
			return
		}
		qtype = t
	}

	obj, err := query.RDAPQuery(r.Context(), qtype, target)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, obj)
}
