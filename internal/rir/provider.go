package rir

import (
	"context"
	"io"
	"net/http"
)

// DbData is the result of a provider's download: a reader over the dump
// text, and whether it is still gzip-framed (Fetch, which the providers in
// the registry subpackage use, always decompresses before returning, so
// Gzip is false in practice, but the field documents the contract from
// spec.md §4.4).
type DbData struct {
	Gzip   bool
	Reader io.Reader
}

// Provider is the uniform capability every registry exposes: a single
// HTTPS download of its public RPSL dump. No inheritance hierarchy is
// implied; a map keyed by Rir holds concrete providers (see registry.All).
type Provider interface {
	// URL returns the registry's fixed HTTPS dump URL.
	URL() string
	// DownloadRPSLDB fetches and decompresses the dump.
	DownloadRPSLDB(ctx context.Context, client *http.Client) (*DbData, error)
}
