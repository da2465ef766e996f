package rir

import (
	"context"
	"net/http"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ipgeom/ipgeom/internal/geostore"
	"github.com/ipgeom/ipgeom/internal/rpsl/typed"
)

// mockProvider serves a fixed in-memory RPSL dump, the same test seam the
// store's acquisition orchestrator is grounded on.
type mockProvider struct {
	data string
}

func (m mockProvider) URL() string { return "mock://test" }

func (m mockProvider) DownloadRPSLDB(ctx context.Context, client *http.Client) (*DbData, error) {
	return &DbData{Gzip: false, Reader: strings.NewReader(m.data)}, nil
}

const mockRirData = "inetnum: 192.0.2.0/24\nnetname: TEST-NET\ncountry: ZZ\nsource: TST\n\n" +
	"inet6num: 2001:db8::/32\nnetname: V6-NET\ncountry: ZZ\nsource: TST\n\n"

func mockProviders() map[Rir]Provider {
	providers := make(map[Rir]Provider, len(All))
	for _, r := range All {
		providers[r] = mockProvider{data: mockRirData}
	}
	return providers
}

func TestStore_UpdateAndObjectsIter(t *testing.T) {
	dataDir := t.TempDir()
	store := NewStore(dataDir, nil, WithProviders(mockProviders()))

	if err := store.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	for _, r := range All {
		next, closer, err := store.ObjectsIter(r)
		if err != nil {
			t.Fatalf("ObjectsIter(%s): %v", r, err)
		}

		obj, err := next()
		if err != nil {
			t.Fatalf("first object: %v", err)
		}
		inet, ok := obj.(*typed.Inetnum)
		if !ok || inet.Netname != "TEST-NET" {
			t.Fatalf("first object = %#v, want inetnum TEST-NET", obj)
		}

		obj, err = next()
		if err != nil {
			t.Fatalf("second object: %v", err)
		}
		inet6, ok := obj.(*typed.Inet6num)
		if !ok || inet6.Netname != "V6-NET" {
			t.Fatalf("second object = %#v, want inet6num V6-NET", obj)
		}

		closer.Close()
	}
}

func TestStore_Persist(t *testing.T) {
	dataDir := t.TempDir()
	store := NewStore(dataDir, nil, WithProviders(mockProviders()))
	if err := store.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	dbPath := filepath.Join(t.TempDir(), "geo.sqlite")
	db, err := geostore.Open(dbPath)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer db.Close()

	if err := store.Persist(db, DefaultPersistFilter()); err != nil {
		t.Fatalf("Persist: %v", err)
	}

	country, err := db.Lookup4(netip.MustParseAddr("192.0.2.5"))
	if err != nil {
		t.Fatalf("Lookup4: %v", err)
	}
	if country != "ZZ" {
		t.Errorf("country = %q, want ZZ", country)
	}
}

func TestStore_WriteGeoDB(t *testing.T) {
	dataDir := t.TempDir()
	store := NewStore(dataDir, nil, WithProviders(mockProviders()))
	if err := store.Update(context.Background()); err != nil {
		t.Fatalf("Update: %v", err)
	}

	path := filepath.Join(t.TempDir(), "geoip.mmdb")
	if err := store.WriteGeoDB(path, 1700000000); err != nil {
		t.Fatalf("WriteGeoDB: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("geoip database file is empty")
	}
}
