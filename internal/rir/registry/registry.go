// Package registry provides one Provider implementation per Regional
// Internet Registry, each pinned to that registry's public RPSL dump URL.
// Every registry exposes the same shape (a single gzip-compressed HTTPS
// download), so each file here differs only in its URL constant.
package registry

import "github.com/ipgeom/ipgeom/internal/rir"

// All returns the default provider set, keyed by registry, using each
// registry's current public dump URL.
func All() map[rir.Rir]rir.Provider {
	return map[rir.Rir]rir.Provider{
		rir.Arin:    Arin{},
		rir.Apnic:   Apnic{},
		rir.Ripe:    Ripe{},
		rir.Lacnic:  Lacnic{},
		rir.Afrinic: Afrinic{},
	}
}
