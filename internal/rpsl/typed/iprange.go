// Package typed projects untyped RPSL attribute objects into the nine
// known RPSL entity types (inetnum, inet6num, aut-num, person, role,
// organisation, mntner, route, route6), falling back to Other for
// anything else.
package typed

import (
	"fmt"
	"math/big"
	"math/bits"
	"net/netip"
)

// DecomposeIPv4 converts an inclusive [first, last] IPv4 range into the
// minimal covering set of CIDR prefixes, using the standard
// "largest-aligned-prefix at the current address" algorithm: at each step
// the next prefix is as large as both the current address's alignment and
// the remaining range permit.
func DecomposeIPv4(first, last netip.Addr) ([]netip.Prefix, error) {
	if !first.Is4() || !last.Is4() {
		return nil, fmt.Errorf("ipv4 range requires ipv4 addresses, got %s - %s", first, last)
	}
	f := uint64(addrToUint32(first))
	l := uint64(addrToUint32(last))
	if f > l {
		return nil, fmt.Errorf("invalid range: first %s > last %s", first, last)
	}

	var prefixes []netip.Prefix
	cur := f
	for cur <= l {
		align := 32
		if cur != 0 {
			align = bits.TrailingZeros64(cur)
			if align > 32 {
				align = 32
			}
		}
		remaining := l - cur + 1
		rangeBits := bits.Len64(remaining) - 1
		size := align
		if rangeBits < size {
			size = rangeBits
		}
		prefixLen := 32 - size
		ip := uint32ToAddr(uint32(cur))
		prefixes = append(prefixes, netip.PrefixFrom(ip, prefixLen))
		cur += uint64(1) << uint(size)
	}
	return prefixes, nil
}

// DecomposeIPv6 is the 128-bit equivalent of DecomposeIPv4.
func DecomposeIPv6(first, last netip.Addr) ([]netip.Prefix, error) {
	if !first.Is6() || first.Is4In6() || !last.Is6() || last.Is4In6() {
		return nil, fmt.Errorf("ipv6 range requires ipv6 addresses, got %s - %s", first, last)
	}
	f := addrToBigInt(first)
	l := addrToBigInt(last)
	if f.Cmp(l) > 0 {
		return nil, fmt.Errorf("invalid range: first %s > last %s", first, last)
	}

	one := big.NewInt(1)
	var prefixes []netip.Prefix
	cur := new(big.Int).Set(f)
	for cur.Cmp(l) <= 0 {
		align := 128
		if cur.Sign() != 0 {
			align = int(cur.TrailingZeroBits())
			if align > 128 {
				align = 128
			}
		}
		remaining := new(big.Int).Sub(l, cur)
		remaining.Add(remaining, one)
		rangeBits := remaining.BitLen() - 1
		size := align
		if rangeBits < size {
			size = rangeBits
		}
		prefixLen := 128 - size
		ip := bigIntToAddr(cur)
		prefixes = append(prefixes, netip.PrefixFrom(ip, prefixLen))
		step := new(big.Int).Lsh(one, uint(size))
		cur.Add(cur, step)
	}
	return prefixes, nil
}

func addrToUint32(a netip.Addr) uint32 {
	b := a.As4()
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func uint32ToAddr(v uint32) netip.Addr {
	return netip.AddrFrom4([4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}

func addrToBigInt(a netip.Addr) *big.Int {
	b := a.As16()
	return new(big.Int).SetBytes(b[:])
}

func bigIntToAddr(v *big.Int) netip.Addr {
	var b [16]byte
	v.FillBytes(b[:])
	return netip.AddrFrom16(b)
}
