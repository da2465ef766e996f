package query

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestPing_Loopback(t *testing.T) {
	if os.Geteuid() != 0 {
		t.Skip("requires raw ICMP socket privileges")
	}

	res, err := Ping(context.Background(), "127.0.0.1", time.Second, 1, 0, "", IPVersionV4)
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if res.Transmitted != 1 {
		t.Errorf("transmitted = %d, want 1", res.Transmitted)
	}
	if res.Received > 1 {
		t.Errorf("received = %d, want at most 1", res.Received)
	}
}

func TestResolveHost_RestrictsFamily(t *testing.T) {
	ip, err := ResolveHost(context.Background(), "127.0.0.1", IPVersionV4)
	if err != nil {
		t.Fatalf("ResolveHost: %v", err)
	}
	if ip.To4() == nil {
		t.Errorf("resolved %s is not an IPv4 address", ip)
	}
}
