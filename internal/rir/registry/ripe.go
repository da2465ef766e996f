package registry

import (
	"context"
	"net/http"

	"github.com/ipgeom/ipgeom/internal/rir"
)

// Ripe downloads RIPE NCC's public RPSL dump.
type Ripe struct{}

const ripeURL = "https://ftp.ripe.net/ripe/dbase/ripe.db.gz"

func (Ripe) URL() string { return ripeURL }

func (Ripe) DownloadRPSLDB(ctx context.Context, client *http.Client) (*rir.DbData, error) {
	return rir.Fetch(ctx, client, ripeURL)
}
