// Package resolver implements an iterative, non-caching, non-recursive DNS
// resolver: starting from a root nameserver, it walks NS delegations using
// plain UDP queries until it reaches a server that answers authoritatively,
// then issues the caller's actual query against that server.
package resolver

import (
	"context"
	"fmt"
	"net"
	"net/netip"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// Root seed: a.root-servers.net, hardcoded as the starting point when the
// caller does not supply a server.
const (
	rootServerAddr = "198.41.0.4:53"
	rootServerName = "a.root-servers.net."
)

// Result is the outcome of a successful Query: the identity of the server
// that answered authoritatively, and the answer section it returned.
type Result struct {
	AuthoritativeServer string
	Answers             []dns.RR
}

// Resolver walks NS delegations from a root (or caller-supplied) server to
// an authoritative answer. It holds no cache and performs no DNSSEC
// validation; see spec.md §1's Non-goals.
type Resolver struct {
	client *dns.Client
	log    *zap.SugaredLogger
	port   string
}

// Option configures a Resolver at construction time.
type Option func(*Resolver)

// WithPort overrides the port assumed for delegation targets that carry no
// explicit port (production is "53"; tests bind fake nameservers to an
// ephemeral port and pass it here).
func WithPort(port string) Option {
	return func(r *Resolver) { r.port = port }
}

// New returns a Resolver using UDP exchanges with the default miekg/dns
// client timeout. log may be nil, in which case a no-op logger is used.
func New(log *zap.SugaredLogger, opts ...Option) *Resolver {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	r := &Resolver{client: &dns.Client{Net: "udp"}, log: log, port: "53"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Query resolves name (a record of type qtype) by walking NS delegations
// starting at server (an IP address or hostname, port optional, defaulting
// to 53) or, if server is empty, at the hardcoded root. It returns the
// authoritative server's identity and the final answer section.
func (r *Resolver) Query(ctx context.Context, name string, qtype uint16, server string) (*Result, error) {
	fqdn := dns.Fqdn(name)
	serverAddr, serverName, err := r.resolveStart(ctx, server)
	if err != nil {
		return nil, err
	}

	for hop := 0; hop < maxHops; hop++ {
		resp, err := r.exchange(ctx, fqdn, dns.TypeNS, serverAddr, true)
		if err != nil {
			return nil, &ipgeomerrors.DnsError{Kind: ipgeomerrors.NoResponse, Name: fqdn, Err: err}
		}
		if resp.Authoritative {
			return r.finalQuery(ctx, fqdn, qtype, serverAddr, serverName)
		}

		nsName, glue, ok := r.nextDelegation(ctx, resp)
		if !ok {
			return nil, &ipgeomerrors.DnsError{Kind: ipgeomerrors.NoAddressForNameServer, Name: fqdn}
		}
		serverName = nsName
		serverAddr = net.JoinHostPort(glue, r.port)
		r.log.Debugw("dns delegation", "name", fqdn, "ns", nsName, "addr", serverAddr, "hop", hop)
	}
	return nil, &ipgeomerrors.DnsError{Kind: ipgeomerrors.TooManyRedirects, Name: fqdn}
}

// finalQuery issues the caller's actual query against the now-authoritative
// server and requires the response to carry the authoritative flag.
func (r *Resolver) finalQuery(ctx context.Context, fqdn string, qtype uint16, serverAddr, serverName string) (*Result, error) {
	resp, err := r.exchange(ctx, fqdn, qtype, serverAddr, false)
	if err != nil {
		return nil, &ipgeomerrors.DnsError{Kind: ipgeomerrors.NoResponse, Name: fqdn, Err: err}
	}
	if !resp.Authoritative {
		return nil, &ipgeomerrors.DnsError{Kind: ipgeomerrors.NonAuthoritative, Name: fqdn}
	}
	return &Result{AuthoritativeServer: serverName, Answers: resp.Answer}, nil
}

// nextDelegation scans a non-authoritative response's authority section for
// the first NS record, then looks for its A/AAAA glue in the additional
// section. If glue is absent, it re-resolves the NS name's address with a
// fresh iterative query (A, then AAAA).
func (r *Resolver) nextDelegation(ctx context.Context, resp *dns.Msg) (nsName, addr string, ok bool) {
	for _, rr := range resp.Ns {
		ns, isNS := rr.(*dns.NS)
		if !isNS {
			continue
		}
		nsName = ns.Ns
		if ip, found := glueAddr(resp.Extra, nsName); found {
			return nsName, ip, true
		}
		ip, err := r.lookupName(ctx, nsName)
		if err != nil {
			return "", "", false
		}
		return nsName, ip, true
	}
	return "", "", false
}

// glueAddr looks for an A or AAAA record in extra whose owner name matches
// name (case-insensitive), returning the first address found.
func glueAddr(extra []dns.RR, name string) (string, bool) {
	for _, rr := range extra {
		if !equalFoldName(rr.Header().Name, name) {
			continue
		}
		switch v := rr.(type) {
		case *dns.A:
			return v.A.String(), true
		case *dns.AAAA:
			return v.AAAA.String(), true
		}
	}
	return "", false
}

func equalFoldName(a, b string) bool {
	return dns.CanonicalName(a) == dns.CanonicalName(b)
}

// lookupName resolves a nameserver's address by running a fresh iterative
// query for its A record, then AAAA if no A answer was found.
func (r *Resolver) lookupName(ctx context.Context, fqdn string) (string, error) {
	if res, err := r.Query(ctx, fqdn, dns.TypeA, ""); err == nil {
		if ip, ok := firstAddr(res.Answers); ok {
			return ip, nil
		}
	}
	if res, err := r.Query(ctx, fqdn, dns.TypeAAAA, ""); err == nil {
		if ip, ok := firstAddr(res.Answers); ok {
			return ip, nil
		}
	}
	return "", fmt.Errorf("no address found for nameserver %s", fqdn)
}

func firstAddr(rrs []dns.RR) (string, bool) {
	for _, rr := range rrs {
		switch v := rr.(type) {
		case *dns.A:
			return v.A.String(), true
		case *dns.AAAA:
			return v.AAAA.String(), true
		}
	}
	return "", false
}

// resolveStart determines the first server to query: the hardcoded root if
// server is empty, the literal address if server parses as one, or the
// result of resolving server as a hostname otherwise.
func (r *Resolver) resolveStart(ctx context.Context, server string) (addr, name string, err error) {
	if server == "" {
		return rootServerAddr, rootServerName, nil
	}

	host, port := server, r.port
	if h, p, splitErr := net.SplitHostPort(server); splitErr == nil {
		host, port = h, p
	}

	if _, perr := netip.ParseAddr(host); perr == nil {
		return net.JoinHostPort(host, port), host, nil
	}

	fqdn := dns.Fqdn(host)
	ip, lookupErr := r.lookupName(ctx, fqdn)
	if lookupErr != nil {
		return "", "", &ipgeomerrors.DnsError{Kind: ipgeomerrors.InvalidServerAddress, Name: server, Err: lookupErr}
	}
	return net.JoinHostPort(ip, port), fqdn, nil
}

// exchange sends a single UDP query for (name, qtype) to addr with
// recursion desired cleared, optionally attaching EDNS0, and returns the
// raw response. Truncated responses are surfaced as transport errors; this
// resolver never falls back to TCP (spec.md §4.7).
func (r *Resolver) exchange(ctx context.Context, fqdn string, qtype uint16, addr string, useEDNS bool) (*dns.Msg, error) {
	m := new(dns.Msg)
	m.SetQuestion(fqdn, qtype)
	m.RecursionDesired = false
	if useEDNS {
		m.SetEdns0(4096, false)
	}

	resp, _, err := r.client.ExchangeContext(ctx, m, addr)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "dns exchange", Err: err, Details: addr}
	}
	if resp == nil {
		return nil, &ipgeomerrors.NetError{Operation: "dns exchange", Err: fmt.Errorf("no response"), Details: addr}
	}
	if resp.Truncated {
		return nil, &ipgeomerrors.NetError{Operation: "dns exchange", Err: fmt.Errorf("truncated response, no tcp fallback"), Details: addr}
	}
	return resp, nil
}
