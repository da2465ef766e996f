package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ipgeom/ipgeom/internal/query"
)

type pingProbe struct {
	Seq    int     `json:"seq"`
	RTTMs  float64 `json:"rtt_ms,omitempty"`
	Lost   bool    `json:"lost"`
	Source string  `json:"source,omitempty"`
}

type pingResponse struct {
	IP          string      `json:"ip"`
	Transmitted int         `json:"transmitted"`
	Received    int         `json:"received"`
	Probes      []pingProbe `json:"probes"`
	AvgMs       float64     `json:"avg_ms"`
	MinMs       float64     `json:"min_ms"`
	MaxMs       float64     `json:"max_ms"`
	StdDevMs    float64     `json:"stddev_ms"`
	TotalMs     float64     `json:"total_ms"`
}

// handlePing implements GET /v1/ping?host&timeout?&probes?&interval?.
func (s *server) handlePing(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	host := q.Get("host")
	if host == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("host"))
		return
	}

	timeout, err := durationParam(q, "timeout", 5*time.Second)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	probes, err := intParam(q, "probes", 4)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	interval, err := durationParam(q, "interval", time.Second)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := query.Ping(r.Context(), host, timeout, probes, interval, "", query.IPVersionAny)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	out := make([]pingProbe, len(res.Updates))
	for i, u := range res.Updates {
		out[i] = pingProbe{Seq: u.Seq, Lost: u.Lost}
		if !u.Lost {
			out[i].RTTMs = msOf(u.RTT)
			if u.Source != nil {
				out[i].Source = u.Source.String()
			}
		}
	}

	writeJSON(w, http.StatusOK, pingResponse{
		IP:          res.IP.String(),
		Transmitted: res.Transmitted,
		Received:    res.Received,
		Probes:      out,
		AvgMs:       msOf(res.AvgRTT),
		MinMs:       msOf(res.MinRTT),
		MaxMs:       msOf(res.MaxRTT),
		StdDevMs:    msOf(res.StdDevRTT),
		TotalMs:     msOf(res.TotalTime),
	})
}

func msOf(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

func durationParam(q map[string][]string, name string, def time.Duration) (time.Duration, error) {
	raw := firstOf(q, name)
	if raw == "" {
		return def, nil
	}
	secs, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errInvalidParam(name, raw)
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func intParam(q map[string][]string, name string, def int) (int, error) {
	raw := firstOf(q, name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidParam(name, raw)
	}
	return n, nil
}

func firstOf(q map[string][]string, name string) string {
	vs := q[name]
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}
