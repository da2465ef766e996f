package server

import (
	"net/http"
	"time"

	"github.com/ipgeom/ipgeom/internal/query"
)

type tracerouteProbe struct {
	Seq     int     `json:"seq"`
	Address string  `json:"address,omitempty"`
	RTTMs   float64 `json:"rtt_ms,omitempty"`
	Timeout bool    `json:"timeout"`
}

type tracerouteHop struct {
	TTL    uint8             `json:"ttl"`
	Probes []tracerouteProbe `json:"probes"`
}

type tracerouteResponse struct {
	Destination string          `json:"destination"`
	Hops        []tracerouteHop `json:"hops"`
}

// handleTraceroute implements GET /v1/query/traceroute?host&max_hops?&queries?&wait?.
func (s *server) handleTraceroute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	host := q.Get("host")
	if host == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("host"))
		return
	}

	maxHops, err := intParam(q, "max_hops", 30)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	queries, err := intParam(q, "queries", 3)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	wait, err := durationParam(q, "wait", 3*time.Second)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := query.Traceroute(r.Context(), host, uint8(maxHops), queries, wait, query.IPVersionAny)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	hops := make([]tracerouteHop, len(res.Hops))
	for i, hop := range res.Hops {
		probes := make([]tracerouteProbe, len(hop.Probes))
		for j, p := range hop.Probes {
			probes[j] = tracerouteProbe{Seq: p.Seq, Timeout: p.Timeout}
			if !p.Timeout {
				probes[j].RTTMs = msOf(p.RTT)
				if p.Address != nil {
					probes[j].Address = p.Address.String()
				}
			}
		}
		hops[i] = tracerouteHop{TTL: hop.TTL, Probes: probes}
	}

	writeJSON(w, http.StatusOK, tracerouteResponse{
		Destination: res.Destination.String(),
		Hops:        hops,
	})
}
