package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/miekg/dns"
)

// dnsRecord is one answer-section resource record, flattened to the
// shape spec.md §6 documents.
type dnsRecord struct {
	Name       string `json:"name"`
	TTL        uint32 `json:"ttl"`
	RecordType string `json:"record_type"`
	Data       string `json:"data"`
}

type dnsResponse struct {
	AuthoritativeServer string      `json:"authoritative_server"`
	Records             []dnsRecord `json:"records"`
}

// handleDNSQuery implements GET /v1/query/dns?name&record_type&server.
func (s *server) handleDNSQuery(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	name := q.Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, errMissingParam("name"))
		return
	}
	recordType := q.Get("record_type")
	if recordType == "" {
		recordType = "A"
	}
	qtype, ok := dns.StringToType[strings.ToUpper(recordType)]
	if !ok {
		writeError(w, http.StatusBadRequest, errInvalidParam("record_type", recordType))
		return
	}

	res, err := s.resolver.Query(r.Context(), name, qtype, q.Get("server"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	records := make([]dnsRecord, 0, len(res.Answers))
	for _, rr := range res.Answers {
		records = append(records, dnsRecord{
			Name:       rr.Header().Name,
			TTL:        rr.Header().Ttl,
			RecordType: dns.TypeToString[rr.Header().Rrtype],
			Data:       rrData(rr),
		})
	}

	writeJSON(w, http.StatusOK, dnsResponse{
		AuthoritativeServer: res.AuthoritativeServer,
		Records:             records,
	})
}

// rrData extracts the data portion of rr's zone-file representation,
// everything after the fixed name/ttl/class/type columns miekg/dns
// separates with tabs.
func rrData(rr dns.RR) string {
	full := rr.String()
	parts := strings.SplitN(full, "\t", 5)
	if len(parts) == 5 {
		return parts[4]
	}
	return full
}

func errMissingParam(name string) error {
	return &paramError{msg: "missing required parameter: " + name}
}

func errInvalidParam(name, value string) error {
	return &paramError{msg: "invalid " + name + ": " + strconv.Quote(value)}
}

type paramError struct{ msg string }

func (e *paramError) Error() string { return e.msg }
