package resolver

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// startFakeServer runs a minimal UDP DNS server on an ephemeral port,
// answering every query with whatever handler returns. It mirrors the
// classmarkets-style test-seam pattern of binding fake nameservers to a
// configurable, non-privileged port instead of the real port 53.
func startFakeServer(t *testing.T, handler func(req *dns.Msg) *dns.Msg) (ip, port string) {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 512)
		for {
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			req := new(dns.Msg)
			if err := req.Unpack(buf[:n]); err != nil {
				continue
			}
			resp := handler(req)
			resp.SetReply(req)
			out, err := resp.Pack()
			if err != nil {
				continue
			}
			_, _ = conn.WriteTo(out, addr)
		}
	}()

	host, p, err := net.SplitHostPort(conn.LocalAddr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	return host, p
}

// TestQuery_IterativeHappyPath covers spec.md §8 scenario 6: a root that
// delegates "example." to "ns.example.", which then answers authoritatively
// with an A record.
func TestQuery_IterativeHappyPath(t *testing.T) {
	nsIP, nsPort := startFakeServer(t, func(req *dns.Msg) *dns.Msg {
		resp := new(dns.Msg)
		resp.Authoritative = true
		if req.Question[0].Qtype == dns.TypeA {
			rr := &dns.A{
				Hdr: dns.RR_Header{Name: "example.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
				A:   net.ParseIP("192.0.2.10"),
			}
			resp.Answer = append(resp.Answer, rr)
		}
		return resp
	})

	rootIP, rootPort := startFakeServer(t, func(req *dns.Msg) *dns.Msg {
		resp := new(dns.Msg)
		resp.Authoritative = false
		ns := &dns.NS{
			Hdr: dns.RR_Header{Name: "example.", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 300},
			Ns:  "ns.example.",
		}
		glue := &dns.A{
			Hdr: dns.RR_Header{Name: "ns.example.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
			A:   net.ParseIP(nsIP),
		}
		resp.Ns = append(resp.Ns, ns)
		resp.Extra = append(resp.Extra, glue)
		return resp
	})

	// The root is addressed with an explicit port; WithPort supplies the
	// port used for the delegated nameserver found through glue.
	r := New(nil, WithPort(nsPort))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	result, err := r.Query(ctx, "example.", dns.TypeA, net.JoinHostPort(rootIP, rootPort))
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.AuthoritativeServer != "ns.example." {
		t.Errorf("AuthoritativeServer = %q, want ns.example.", result.AuthoritativeServer)
	}
	if len(result.Answers) != 1 {
		t.Fatalf("Answers = %d records, want 1", len(result.Answers))
	}
	a, ok := result.Answers[0].(*dns.A)
	if !ok {
		t.Fatalf("answer type = %T, want *dns.A", result.Answers[0])
	}
	if a.A.String() != "192.0.2.10" {
		t.Errorf("answer address = %s, want 192.0.2.10", a.A.String())
	}
}

// TestQuery_TooManyRedirects verifies the 16-hop bound: a server that
// perpetually delegates to itself (same NS name, same address) never
// resolves and the loop terminates with TooManyRedirects rather than
// looping forever.
func TestQuery_TooManyRedirects(t *testing.T) {
	var selfAddr net.IP // set once the listener address is known, read only
	// after the test below starts issuing queries (the handler runs on its
	// own goroutine but every exchange in the iterative walk is sequential).
	selfIP, selfPort := startFakeServer(t, func(req *dns.Msg) *dns.Msg {
		resp := new(dns.Msg)
		resp.Authoritative = false
		ns := &dns.NS{
			Hdr: dns.RR_Header{Name: "loop.example.", Rrtype: dns.TypeNS, Class: dns.ClassINET, Ttl: 300},
			Ns:  "ns.loop.example.",
		}
		glue := &dns.A{
			Hdr: dns.RR_Header{Name: "ns.loop.example.", Rrtype: dns.TypeA, Class: dns.ClassINET, Ttl: 300},
			A:   selfAddr,
		}
		resp.Ns = append(resp.Ns, ns)
		resp.Extra = append(resp.Extra, glue)
		return resp
	})
	selfAddr = net.ParseIP(selfIP)

	r := New(nil, WithPort(selfPort))
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.Query(ctx, "loop.example.", dns.TypeA, selfIP)
	if err == nil {
		t.Fatal("expected TooManyRedirects error, got nil")
	}
	var dnsErr *ipgeomerrors.DnsError
	if !errors.As(err, &dnsErr) || dnsErr.Kind != ipgeomerrors.TooManyRedirects {
		t.Fatalf("error = %v, want DnsError of kind TooManyRedirects", err)
	}
}
