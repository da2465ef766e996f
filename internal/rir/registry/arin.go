package registry

import (
	"context"
	"net/http"

	"github.com/ipgeom/ipgeom/internal/rir"
)

// Arin downloads ARIN's public RPSL dump.
type Arin struct{}

const arinURL = "https://ftp.arin.net/pub/rr/arin.db.gz"

func (Arin) URL() string { return arinURL }

func (Arin) DownloadRPSLDB(ctx context.Context, client *http.Client) (*rir.DbData, error) {
	return rir.Fetch(ctx, client, arinURL)
}
