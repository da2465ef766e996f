// Package geostore implements the transactional relational geo-index:
// persisted RPSL objects keyed by (obj_type, obj_key), each optionally
// contributing IPv4/IPv6 ranges tagged with a country, searchable by
// longest-match.
package geostore

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"math/big"
	"net/netip"
	"sort"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	ipgeomerrors "github.com/ipgeom/ipgeom/internal/errors"
	"github.com/ipgeom/ipgeom/internal/rpsl/typed"
)

// upsertBatchSize is the number of objects a full-load ingestion path
// groups into a single UpsertMany transaction (spec.md §4.5).
const upsertBatchSize = 1000

// BatchSize returns upsertBatchSize, exposed so ingestion callers (the rir
// store orchestrator) can chunk a stream of objects the way this package
// was sized for.
func BatchSize() int { return upsertBatchSize }

// Store wraps a *sql.DB behind a single exclusive lock for writes. The
// pool holds a single connection (see Open), so reads do not run
// concurrently with each other or with an open write transaction; they
// wait for the connection.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if necessary) a relational geo-index at path. Use
// ":memory:" for an ephemeral in-memory database (used by tests and
// one-shot CLI invocations).
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &ipgeomerrors.StoreError{Operation: "open database", Err: err}
	}
	// modernc.org/sqlite serializes access per *sql.DB connection; a single
	// connection avoids the driver handing concurrent writers to SQLite,
	// which is already guarded by Store.mu above it.
	db.SetMaxOpenConns(1)

	memory := path == ":memory:" || strings.Contains(path, "mode=memory")
	pragmas := "PRAGMA temp_store=MEMORY;"
	if memory {
		pragmas += "PRAGMA journal_mode=MEMORY; PRAGMA synchronous=OFF;"
	} else {
		pragmas += "PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"
	}
	if _, err := db.Exec(pragmas); err != nil {
		db.Close()
		return nil, &ipgeomerrors.StoreError{Operation: "configure connection", Err: err}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &ipgeomerrors.StoreError{Operation: "migrate schema", Err: err}
	}
	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// Upsert persists a single typed RPSL object; see UpsertMany for the
// transactional contract.
func (s *Store) Upsert(obj typed.RpslObject) error {
	return s.UpsertMany([]typed.RpslObject{obj})
}

// UpsertMany applies the insert/fetch-id/delete-geo/insert-geo sequence to
// each object in order, inside a single transaction. If any object fails,
// the whole batch is rolled back and no row from it becomes visible
// (spec.md §8's transactional-atomicity invariant).
func (s *Store) UpsertMany(objs []typed.RpslObject) error {
	if len(objs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return &ipgeomerrors.StoreError{Operation: "begin transaction", Err: err}
	}
	for _, obj := range objs {
		if err := upsertOne(tx, obj); err != nil {
			tx.Rollback()
			return &ipgeomerrors.StoreError{Operation: "upsert rpsl object", Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return &ipgeomerrors.StoreError{Operation: "commit transaction", Err: err}
	}
	return nil
}

func upsertOne(tx *sql.Tx, obj typed.RpslObject) error {
	objType := string(obj.Kind())
	objKey := typed.ObjectKey(obj)
	source := sourceOf(obj)
	jsonBytes, err := json.Marshal(obj)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(
		`INSERT INTO rpsl (obj_type, obj_key, source, json) VALUES (?, ?, ?, ?)
		 ON CONFLICT(obj_type, obj_key) DO UPDATE SET source=excluded.source, json=excluded.json`,
		objType, objKey, source, string(jsonBytes),
	); err != nil {
		return err
	}

	var objID int64
	if err := tx.QueryRow(`SELECT id FROM rpsl WHERE obj_type = ? AND obj_key = ?`, objType, objKey).Scan(&objID); err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM ipv4_geo WHERE obj_id = ?`, objID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM ipv6_geo WHERE obj_id = ?`, objID); err != nil {
		return err
	}

	country, ok := countryOf(obj)
	if !ok {
		return nil
	}
	for _, p := range obj.Prefixes() {
		if p.Addr().Is4() {
			start, end := v4Range(p)
			if _, err := tx.Exec(
				`INSERT INTO ipv4_geo (start, end, country, obj_id) VALUES (?, ?, ?, ?)
				 ON CONFLICT(start, end, obj_id) DO UPDATE SET country=excluded.country`,
				int64(start), int64(end), country, objID,
			); err != nil {
				return err
			}
			continue
		}
		start, end := v6Range(p)
		if _, err := tx.Exec(
			`INSERT INTO ipv6_geo (start, end, country, obj_id) VALUES (?, ?, ?, ?)
			 ON CONFLICT(start, end, obj_id) DO UPDATE SET country=excluded.country`,
			start[:], end[:], country, objID,
		); err != nil {
			return err
		}
	}
	return nil
}

// countryOf returns the country tag for the types that carry one.
func countryOf(obj typed.RpslObject) (string, bool) {
	switch v := obj.(type) {
	case *typed.Inetnum:
		return v.Country, v.Country != ""
	case *typed.Inet6num:
		return v.Country, v.Country != ""
	default:
		return "", false
	}
}

// sourceOf returns the registry source tag for the types that carry one.
func sourceOf(obj typed.RpslObject) sql.NullString {
	var src string
	switch v := obj.(type) {
	case *typed.Inetnum:
		src = v.Source
	case *typed.Inet6num:
		src = v.Source
	case *typed.AutNum:
		src = v.Source
	case *typed.Person:
		src = v.Source
	case *typed.Role:
		src = v.Source
	case *typed.Organisation:
		src = v.Source
	case *typed.Mntner:
		src = v.Source
	case *typed.Route:
		src = v.Source
	case *typed.Route6:
		src = v.Source
	default:
		return sql.NullString{}
	}
	if src == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: src, Valid: true}
}

// v4Range returns the inclusive [start, end] uint32 range covered by p. p
// must already be masked (as every netip.Prefix produced by this module is).
func v4Range(p netip.Prefix) (start, end uint32) {
	a := p.Addr().As4()
	start = binary.BigEndian.Uint32(a[:])
	hostBits := 32 - p.Bits()
	var mask uint32
	if hostBits > 0 {
		mask = (uint32(1) << uint(hostBits)) - 1
	}
	return start, start | mask
}

// v6Range is the 128-bit equivalent of v4Range, represented as big-endian
// 16-byte arrays so SQLite's BLOB comparison equals numeric address order.
func v6Range(p netip.Prefix) (start, end [16]byte) {
	start = p.Addr().As16()
	end = start
	hostBits := 128 - p.Bits()
	fullBytes := hostBits / 8
	remBits := hostBits % 8
	for i := 0; i < fullBytes; i++ {
		end[15-i] = 0xFF
	}
	if remBits > 0 {
		end[15-fullBytes] |= byte(0xFF) >> uint(8-remBits)
	}
	return start, end
}

// Lookup4 returns the country of the narrowest IPv4 range covering addr, or
// ErrNotFound if no range covers it.
func (s *Store) Lookup4(addr netip.Addr) (string, error) {
	val := int64(binary.BigEndian.Uint32(addr.As4()[:]))
	var country string
	err := s.db.QueryRow(
		`SELECT country FROM ipv4_geo WHERE start <= ? AND end >= ? ORDER BY (end - start) ASC LIMIT 1`,
		val, val,
	).Scan(&country)
	return scanResult(country, err)
}

// Lookup4WithObj is Lookup4 joined against the owning rpsl row.
func (s *Store) Lookup4WithObj(addr netip.Addr) (country, objType, objKey string, err error) {
	val := int64(binary.BigEndian.Uint32(addr.As4()[:]))
	err = s.db.QueryRow(
		`SELECT g.country, r.obj_type, r.obj_key FROM ipv4_geo g
		 JOIN rpsl r ON r.id = g.obj_id
		 WHERE g.start <= ? AND g.end >= ? ORDER BY (g.end - g.start) ASC LIMIT 1`,
		val, val,
	).Scan(&country, &objType, &objKey)
	if err == sql.ErrNoRows {
		return "", "", "", ErrNotFound
	}
	if err != nil {
		return "", "", "", &ipgeomerrors.StoreError{Operation: "lookup ipv4 with object", Err: err}
	}
	return country, objType, objKey, nil
}

// Lookup4All returns every covering country for addr, most-specific first.
func (s *Store) Lookup4All(addr netip.Addr) ([]string, error) {
	val := int64(binary.BigEndian.Uint32(addr.As4()[:]))
	rows, err := s.db.Query(
		`SELECT country FROM ipv4_geo WHERE start <= ? AND end >= ? ORDER BY (end - start) ASC`,
		val, val,
	)
	if err != nil {
		return nil, &ipgeomerrors.StoreError{Operation: "lookup ipv4 all", Err: err}
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, &ipgeomerrors.StoreError{Operation: "scan ipv4 all", Err: err}
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type v6row struct {
	start, end []byte
	country    string
	objType    string
	objKey     string
}

// queryV6 fetches every ipv6_geo row covering addr, optionally joined
// against rpsl, without relying on SQL arithmetic over BLOB columns (SQLite
// coerces non-numeric BLOBs to 0 for arithmetic, which would make
// "ORDER BY (end-start)" silently meaningless for 128-bit ranges). Width
// comparison happens in Go instead, via widthSort.
func (s *Store) queryV6(addr netip.Addr, withObj bool) ([]v6row, error) {
	bytes := addr.As16()
	query := `SELECT start, end, country FROM ipv6_geo WHERE start <= ? AND end >= ?`
	if withObj {
		query = `SELECT g.start, g.end, g.country, r.obj_type, r.obj_key FROM ipv6_geo g
		          JOIN rpsl r ON r.id = g.obj_id WHERE g.start <= ? AND g.end >= ?`
	}
	rows, err := s.db.Query(query, bytes[:], bytes[:])
	if err != nil {
		return nil, &ipgeomerrors.StoreError{Operation: "query ipv6 ranges", Err: err}
	}
	defer rows.Close()

	var out []v6row
	for rows.Next() {
		var r v6row
		if withObj {
			if err := rows.Scan(&r.start, &r.end, &r.country, &r.objType, &r.objKey); err != nil {
				return nil, &ipgeomerrors.StoreError{Operation: "scan ipv6 row", Err: err}
			}
		} else {
			if err := rows.Scan(&r.start, &r.end, &r.country); err != nil {
				return nil, &ipgeomerrors.StoreError{Operation: "scan ipv6 row", Err: err}
			}
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, &ipgeomerrors.StoreError{Operation: "iterate ipv6 rows", Err: err}
	}
	widthSort(out)
	return out, nil
}

// widthSort orders rows ascending by (end - start), narrowest first.
func widthSort(rows []v6row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return v6Width(rows[i]).Cmp(v6Width(rows[j])) < 0
	})
}

func v6Width(r v6row) *big.Int {
	start := new(big.Int).SetBytes(r.start)
	end := new(big.Int).SetBytes(r.end)
	return new(big.Int).Sub(end, start)
}

// Lookup6 is the IPv6 counterpart of Lookup4.
func (s *Store) Lookup6(addr netip.Addr) (string, error) {
	rows, err := s.queryV6(addr, false)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return "", ErrNotFound
	}
	return rows[0].country, nil
}

// Lookup6WithObj is the IPv6 counterpart of Lookup4WithObj.
func (s *Store) Lookup6WithObj(addr netip.Addr) (country, objType, objKey string, err error) {
	rows, err := s.queryV6(addr, true)
	if err != nil {
		return "", "", "", err
	}
	if len(rows) == 0 {
		return "", "", "", ErrNotFound
	}
	return rows[0].country, rows[0].objType, rows[0].objKey, nil
}

// Lookup6All is the IPv6 counterpart of Lookup4All.
func (s *Store) Lookup6All(addr netip.Addr) ([]string, error) {
	rows, err := s.queryV6(addr, false)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.country
	}
	return out, nil
}

// GetObject returns the stored JSON for the rpsl row with the given
// (obj_type, obj_key).
func (s *Store) GetObject(objType, objKey string) (string, error) {
	var jsonStr string
	err := s.db.QueryRow(`SELECT json FROM rpsl WHERE obj_type = ? AND obj_key = ?`, objType, objKey).Scan(&jsonStr)
	return scanResult(jsonStr, err)
}

func scanResult(val string, err error) (string, error) {
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", &ipgeomerrors.StoreError{Operation: "query", Err: err}
	}
	return val, nil
}
