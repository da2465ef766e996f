package registry

import (
	"context"
	"net/http"

	"github.com/ipgeom/ipgeom/internal/rir"
)

// Afrinic downloads AFRINIC's public RPSL dump.
type Afrinic struct{}

const afrinicURL = "https://ftp.afrinic.net/pub/dbase/afrinic.db.gz"

func (Afrinic) URL() string { return afrinicURL }

func (Afrinic) DownloadRPSLDB(ctx context.Context, client *http.Client) (*rir.DbData, error) {
	return rir.Fetch(ctx, client, afrinicURL)
}
