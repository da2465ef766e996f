package rir

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
)

// Fetch issues an HTTPS GET against url requesting gzip, transparently
// decompressing a (possibly multi-member) gzip response body. RIR dumps
// concatenate several gzip streams back to back, which gzip.Reader
// handles natively by continuing past each member's trailer. Concrete
// Provider implementations under the registry subpackage call this.
func Fetch(ctx context.Context, client *http.Client, url string) (*DbData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "build rir download request", Err: err, Details: url}
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "download rir dump", Err: err, Details: url}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ipgeomerrors.NetError{
			Operation: "download rir dump",
			Err:       fmt.Errorf("unexpected status %s", resp.Status),
			Details:   url,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "read rir dump body", Err: err, Details: url}
	}

	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		// Not actually gzip-framed; hand back the raw body.
		return &DbData{Gzip: false, Reader: bytes.NewReader(body)}, nil
	}
	gz.Multistream(true)
	decompressed, err := io.ReadAll(gz)
	if err != nil {
		return nil, &ipgeomerrors.NetError{Operation: "decompress rir dump", Err: err, Details: url}
	}
	return &DbData{Gzip: false, Reader: bytes.NewReader(decompressed)}, nil
}

// StoreData writes the fully decompressed RPSL text for registry r to
// <dataDir>/rir/<name>/db/latest.rpsl, creating parent directories.
func StoreData(dataDir string, r Rir, data io.Reader) error {
	path := DbPath(dataDir, r)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &ipgeomerrors.NetError{Operation: "create rir data directory", Err: err, Details: path}
	}
	f, err := os.Create(path)
	if err != nil {
		return &ipgeomerrors.NetError{Operation: "create rir dump file", Err: err, Details: path}
	}
	defer f.Close()
	if _, err := io.Copy(f, data); err != nil {
		return &ipgeomerrors.NetError{Operation: "write rir dump file", Err: err, Details: path}
	}
	return nil
}

// DbPath returns the on-disk path for registry r's decompressed dump.
func DbPath(dataDir string, r Rir) string {
	return filepath.Join(dataDir, "rir", r.Name(), "db", "latest.rpsl")
}
