package registry

import (
	"context"
	"net/http"

	"github.com/ipgeom/ipgeom/internal/rir"
)

// Lacnic downloads LACNIC's public RPSL dump.
type Lacnic struct{}

const lacnicURL = "https://ftp.lacnic.net/pub/dbase/lacnic.db.gz"

func (Lacnic) URL() string { return lacnicURL }

func (Lacnic) DownloadRPSLDB(ctx context.Context, client *http.Client) (*rir.DbData, error) {
	return rir.Fetch(ctx, client, lacnicURL)
}
