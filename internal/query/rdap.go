package query

import (
	"context"

	"github.com/openrdap/rdap"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// QueryType selects which RDAP object class to look up, mirroring the
// object kinds RFC 7482 defines.
type QueryType int

const (
	QueryDomain QueryType = iota
	QueryIP
	QueryAutnum
	QueryEntity
	QueryNameserver
)

func (t QueryType) requestType() rdap.RequestType {
	switch t {
	case QueryIP:
		return rdap.IPRequest
	case QueryAutnum:
		return rdap.AutnumRequest
	case QueryEntity:
		return rdap.EntityRequest
	case QueryNameserver:
		return rdap.NameserverRequest
	default:
		return rdap.DomainRequest
	}
}

// RDAPQuery performs a single RDAP lookup, letting the client bootstrap to
// the authoritative server for query via IANA's registry data, and returns
// the decoded response object (a *rdap.Domain, *rdap.IPNetwork, *rdap.Autnum,
// *rdap.Entity, or *rdap.Nameserver depending on qtype).
func RDAPQuery(ctx context.Context, qtype QueryType, query string) (interface{}, error) {
	client := &rdap.Client{}
	req := rdap.NewRequest(qtype.requestType(), query).WithContext(ctx)

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "rdap query", Err: err, Details: query}
	}
	return resp.Object, nil
}

// DomainWhoisRDAP performs an RDAP domain lookup, the modern, structured
// replacement for classic WHOIS that this system prefers when available.
func DomainWhoisRDAP(ctx context.Context, domain string) (interface{}, error) {
	return RDAPQuery(ctx, QueryDomain, domain)
}
