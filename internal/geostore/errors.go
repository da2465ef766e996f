package geostore

import "errors"

// ErrNotFound is returned by the Lookup* and GetObject methods when no row
// matches the query.
var ErrNotFound = errors.New("geostore: not found")
