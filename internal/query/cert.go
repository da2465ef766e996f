// Package query implements the network-diagnostic collaborators: TLS
// certificate inspection, ICMP ping and traceroute, WHOIS, RDAP, and
// password hashing. Each operation is a small, self-contained function
// rather than a stateful client, mirroring how this system treats every
// external protocol as a narrow, swappable capability.
package query

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// CertificateInfo summarizes the leaf certificate a TLS handshake
// presented for a domain.
type CertificateInfo struct {
	Subject   string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
	DNSNames  []string
	Valid     bool
}

// FetchCertificate dials domain:443, completes a TLS handshake, and
// reports the leaf certificate's identity and validity. Valid is true only
// when the chain verifies against the system root pool; an otherwise
// successful handshake with a verification failure still returns the
// certificate's details, with Valid set to false.
func FetchCertificate(ctx context.Context, domain string) (*CertificateInfo, error) {
	return fetchCertificateAt(net.JoinHostPort(domain, "443"), domain)
}

// fetchCertificateAt is FetchCertificate with the dial address separated
// from the TLS server name, so tests can point it at a loopback listener
// while still exercising SNI/hostname verification against a real name.
func fetchCertificateAt(addr, domain string) (*CertificateInfo, error) {
	dialer := &net.Dialer{Timeout: 5 * time.Second}

	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		ServerName:         domain,
		InsecureSkipVerify: true,
	})
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "tls handshake", Err: err, Details: addr}
	}
	defer conn.Close()

	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return nil, &ipgeomerrors.NetError{Operation: "tls handshake", Err: fmt.Errorf("no certificate presented"), Details: addr}
	}
	leaf := state.PeerCertificates[0]

	valid := verifyChain(leaf, state.PeerCertificates[1:], domain) == nil

	return &CertificateInfo{
		Subject:   leaf.Subject.String(),
		Issuer:    leaf.Issuer.String(),
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
		DNSNames:  leaf.DNSNames,
		Valid:     valid,
	}, nil
}

func verifyChain(leaf *x509.Certificate, intermediates []*x509.Certificate, domain string) error {
	pool := x509.NewCertPool()
	for _, c := range intermediates {
		pool.AddCert(c)
	}
	_, err := leaf.Verify(x509.VerifyOptions{
		DNSName:       domain,
		Intermediates: pool,
	})
	return err
}
