package rir

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ipgeom/ipgeom/internal/geostore"
	"github.com/ipgeom/ipgeom/internal/rpsl"
	"github.com/ipgeom/ipgeom/internal/rpsl/typed"
)

// Store coordinates acquiring RIR dumps onto disk and streaming their
// typed RPSL objects back out, for either database persistence or
// geo-database generation.
type Store struct {
	dataDir   string
	client    *http.Client
	providers map[Rir]Provider
	log       *zap.SugaredLogger
}

// StoreOption configures a Store at construction time.
type StoreOption func(*Store)

// WithProviders overrides the default provider set, primarily so tests can
// substitute a provider that serves fixture data instead of hitting the
// network.
func WithProviders(providers map[Rir]Provider) StoreOption {
	return func(s *Store) { s.providers = providers }
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) StoreOption {
	return func(s *Store) { s.client = client }
}

// NewStore returns a Store rooted at dataDir. Without WithProviders, the
// caller is expected to pass registry.All() explicitly; an empty map means
// Update is a no-op, which is intentional for unit tests that only
// exercise the persistence half of the pipeline.
func NewStore(dataDir string, log *zap.SugaredLogger, opts ...StoreOption) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &Store{
		dataDir:   dataDir,
		client:    &http.Client{Timeout: 5 * time.Minute},
		providers: map[Rir]Provider{},
		log:       log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Update downloads every configured registry's dump and persists the
// decompressed RPSL text to disk.
func (s *Store) Update(ctx context.Context) error {
	s.log.Infow("updating rir databases", "data_dir", s.dataDir)
	for r, provider := range s.providers {
		s.log.Debugw("downloading rpsl dump", "rir", r)
		data, err := provider.DownloadRPSLDB(ctx, s.client)
		if err != nil {
			return fmt.Errorf("rir: download %s: %w", r, err)
		}
		if err := StoreData(s.dataDir, r, data.Reader); err != nil {
			return fmt.Errorf("rir: store %s: %w", r, err)
		}
		s.log.Infow("updated rpsl dump", "rir", r)
	}
	s.log.Infow("rir databases updated successfully")
	return nil
}

// ObjectsIter opens the on-disk dump for r and returns a function that
// yields successive typed RPSL objects, following the same pull-based
// iterator shape rpsl.ObjectReader uses. The returned closer must be
// called once iteration is done.
func (s *Store) ObjectsIter(r Rir) (next func() (typed.RpslObject, error), closer io.Closer, err error) {
	f, err := os.Open(DbPath(s.dataDir, r))
	if err != nil {
		return nil, nil, fmt.Errorf("rir: open %s dump: %w", r, err)
	}
	reader := rpsl.NewObjectReader(f, rpsl.DefaultParserOptions())
	return func() (typed.RpslObject, error) {
		for {
			obj, err := reader.Next()
			if err != nil {
				return nil, err
			}
			projected, err := typed.Project(obj)
			if err != nil {
				return nil, err
			}
			return projected, nil
		}
	}, f, nil
}

// PersistFilter controls which RPSL objects Persist writes into a
// geostore.Store.
type PersistFilter struct {
	// RpslObjects persists every object type.
	RpslObjects bool
	// RpslInetnum persists only inetnum/inet6num objects, the minimum
	// needed for IP-to-country lookups. This is the default.
	RpslInetnum bool
}

// DefaultPersistFilter keeps only address-range objects, matching the
// relational store's lookup-only purpose.
func DefaultPersistFilter() PersistFilter {
	return PersistFilter{RpslInetnum: true}
}

// Persist streams every configured registry's stored dump into db, batching
// upserts at db's preferred batch size and applying filter to decide which
// object kinds are kept.
func (s *Store) Persist(db *geostore.Store, filter PersistFilter) error {
	s.log.Infow("persisting rir store into database")
	batchSize := geostore.BatchSize()
	batch := make([]typed.RpslObject, 0, batchSize)
	count := 0

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		s.log.Debugw("insert rpsl batch", "count", len(batch))
		if err := db.UpsertMany(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for r := range s.providers {
		next, closer, err := s.ObjectsIter(r)
		if err != nil {
			return err
		}
		for {
			obj, err := next()
			if err == io.EOF {
				break
			}
			if err != nil {
				closer.Close()
				return fmt.Errorf("rir: stream %s: %w", r, err)
			}

			switch {
			case filter.RpslObjects:
				batch = append(batch, obj)
				count++
			case filter.RpslInetnum && (obj.Kind() == rpsl.Inetnum || obj.Kind() == rpsl.Inet6num):
				batch = append(batch, obj)
				count++
			default:
				continue
			}

			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					closer.Close()
					return err
				}
			}
		}
		closer.Close()
	}

	if err := flush(); err != nil {
		return err
	}
	s.log.Infow("persisted rir store successfully", "rpsl_objects", count)
	return nil
}
