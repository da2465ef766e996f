package typed

import (
	"net/netip"
	"testing"
)

func TestDecomposeIPv4_FullRange(t *testing.T) {
	first := netip.MustParseAddr("0.0.0.0")
	last := netip.MustParseAddr("255.255.255.255")
	prefixes, err := DecomposeIPv4(first, last)
	if err != nil {
		t.Fatalf("DecomposeIPv4() error = %v", err)
	}
	if len(prefixes) != 1 || prefixes[0].String() != "0.0.0.0/0" {
		t.Fatalf("DecomposeIPv4() = %v, want [0.0.0.0/0]", prefixes)
	}
}

func TestDecomposeIPv4_SingleAddress(t *testing.T) {
	a := netip.MustParseAddr("192.0.2.5")
	prefixes, err := DecomposeIPv4(a, a)
	if err != nil {
		t.Fatalf("DecomposeIPv4() error = %v", err)
	}
	if len(prefixes) != 1 || prefixes[0].String() != "192.0.2.5/32" {
		t.Fatalf("DecomposeIPv4() = %v, want [192.0.2.5/32]", prefixes)
	}
}

func TestDecomposeIPv4_Unaligned(t *testing.T) {
	first := netip.MustParseAddr("192.0.2.0")
	last := netip.MustParseAddr("192.0.2.130")
	prefixes, err := DecomposeIPv4(first, last)
	if err != nil {
		t.Fatalf("DecomposeIPv4() error = %v", err)
	}
	if !coversExactly(t, prefixes, first, last) {
		t.Fatalf("DecomposeIPv4() = %v does not exactly cover %s-%s", prefixes, first, last)
	}
}

func TestDecomposeIPv4_InvalidOrder(t *testing.T) {
	first := netip.MustParseAddr("192.0.2.10")
	last := netip.MustParseAddr("192.0.2.1")
	if _, err := DecomposeIPv4(first, last); err == nil {
		t.Fatal("DecomposeIPv4() error = nil, want error for first > last")
	}
}

func TestDecomposeIPv6_FullRange(t *testing.T) {
	first := netip.MustParseAddr("::")
	last := netip.MustParseAddr("ffff:ffff:ffff:ffff:ffff:ffff:ffff:ffff")
	prefixes, err := DecomposeIPv6(first, last)
	if err != nil {
		t.Fatalf("DecomposeIPv6() error = %v", err)
	}
	if len(prefixes) != 1 || prefixes[0].String() != "::/0" {
		t.Fatalf("DecomposeIPv6() = %v, want [::/0]", prefixes)
	}
}

func TestDecomposeIPv6_Aligned(t *testing.T) {
	first := netip.MustParseAddr("2001:db8::")
	last := netip.MustParseAddr("2001:db8:ffff:ffff:ffff:ffff:ffff:ffff")
	prefixes, err := DecomposeIPv6(first, last)
	if err != nil {
		t.Fatalf("DecomposeIPv6() error = %v", err)
	}
	if len(prefixes) != 1 || prefixes[0].String() != "2001:db8::/32" {
		t.Fatalf("DecomposeIPv6() = %v, want [2001:db8::/32]", prefixes)
	}
}

// coversExactly checks the coverage invariant by walking every address in
// the (small) test range and confirming exactly one prefix contains it,
// with no gaps or overlaps. It does not check minimality.
func coversExactly(t *testing.T, prefixes []netip.Prefix, first, last netip.Addr) bool {
	t.Helper()
	cur := first
	for {
		matches := 0
		for _, p := range prefixes {
			if p.Contains(cur) {
				matches++
			}
		}
		if matches != 1 {
			return false
		}
		if cur == last {
			break
		}
		cur = cur.Next()
	}
	return true
}
