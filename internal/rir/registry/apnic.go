package registry

import (
	"context"
	"net/http"

	"github.com/ipgeom/ipgeom/internal/rir"
)

// Apnic downloads APNIC's public RPSL dump.
type Apnic struct{}

const apnicURL = "https://ftp.apnic.net/apnic/dbase/data/apnic.db.gz"

func (Apnic) URL() string { return apnicURL }

func (Apnic) DownloadRPSLDB(ctx context.Context, client *http.Client) (*rir.DbData, error) {
	return rir.Fetch(ctx, client, apnicURL)
}
