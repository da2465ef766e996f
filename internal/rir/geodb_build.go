package rir

import (
	"fmt"
	"io"
	"os"

	"github.com/ipgeom/ipgeom/internal/geodb"
	"github.com/ipgeom/ipgeom/internal/rpsl/typed"
)

// WriteGeoDB streams every configured registry's stored inetnum/inet6num
// objects into a freshly built binary geo-database at path, keyed only by
// country code.
func (s *Store) WriteGeoDB(path string, buildEpoch uint64) error {
	s.log.Infow("building geoip database", "path", path)
	tree := geodb.NewTree()

	for r := range s.providers {
		next, closer, err := s.ObjectsIter(r)
		if err != nil {
			return err
		}
		if err := insertCountries(tree, next); err != nil {
			closer.Close()
			return fmt.Errorf("rir: stream %s: %w", r, err)
		}
		closer.Close()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rir: create geodb file: %w", err)
	}
	defer f.Close()

	_, err = tree.WriteTo(f, geodb.Metadata{
		DatabaseType: "ipgeom-Country",
		Description:  map[string]string{"en": "ipgeom generated geoip database"},
		Languages:    []string{"en"},
		BuildEpoch:   buildEpoch,
	})
	if err != nil {
		return fmt.Errorf("rir: write geodb: %w", err)
	}
	s.log.Infow("geoip database written successfully", "path", path)
	return nil
}

func insertCountries(tree *geodb.Tree, next func() (typed.RpslObject, error)) error {
	for {
		obj, err := next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		var country string
		switch o := obj.(type) {
		case *typed.Inetnum:
			country = o.Country
		case *typed.Inet6num:
			country = o.Country
		default:
			continue
		}
		if country == "" {
			continue
		}

		value := geodb.Map{"country": geodb.Map{"iso_code": geodb.String(country)}}
		for _, prefix := range obj.Prefixes() {
			tree.Insert(prefix, value)
		}
	}
}
