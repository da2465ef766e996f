package query

import (
	"context"
	"strings"

	"github.com/domainr/whois"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// WhoisResponse is the outcome of a (possibly referral-following) classic
// WHOIS query.
type WhoisResponse struct {
	Server string
	Data   string
}

// Fields parses "key: value" lines out of the raw response, the loose
// convention every WHOIS server follows even though none of them share a
// schema. Lines that don't match the pattern are dropped silently.
func (r WhoisResponse) Fields() []KeyValue {
	var fields []KeyValue
	for _, line := range strings.Split(r.Data, "\n") {
		key, value, ok := strings.Cut(strings.TrimLeft(line, " \t"), ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, KeyValue{Key: key, Value: value})
	}
	return fields
}

// KeyValue is one parsed WHOIS field.
type KeyValue struct {
	Key, Value string
}

// DomainWhois queries the classic WHOIS protocol for domain, starting at
// IANA's root server and following the registrar referral it returns.
func DomainWhois(ctx context.Context, domain string) (*WhoisResponse, error) {
	req, err := whois.NewRequest(domain)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "build whois request", Err: err, Details: domain}
	}

	resp, err := whois.DefaultClient.FetchContext(ctx, req)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "whois query", Err: err, Details: domain}
	}

	return &WhoisResponse{Server: resp.Host, Data: resp.String()}, nil
}
