package geostore

// schemaSQL creates the tables and indexes described in spec.md §4.5: one
// rpsl row per persistent object plus a per-family geo range table pointing
// back at it. Applied once, guarded by schema_migrations.
const schemaSQL = `
CREATE TABLE rpsl (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	obj_type TEXT NOT NULL,
	obj_key TEXT NOT NULL,
	source TEXT,
	json TEXT NOT NULL,
	UNIQUE(obj_type, obj_key)
);
CREATE TABLE ipv4_geo (
	start INTEGER NOT NULL,
	end INTEGER NOT NULL,
	country TEXT NOT NULL,
	obj_id INTEGER NOT NULL REFERENCES rpsl(id) ON DELETE CASCADE,
	UNIQUE(start, end, obj_id)
);
CREATE INDEX ipv4_geo_range_idx ON ipv4_geo(start, end);
CREATE TABLE ipv6_geo (
	start BLOB NOT NULL,
	end BLOB NOT NULL,
	country TEXT NOT NULL,
	obj_id INTEGER NOT NULL REFERENCES rpsl(id) ON DELETE CASCADE,
	UNIQUE(start, end, obj_id)
);
CREATE INDEX ipv6_geo_range_idx ON ipv6_geo(start, end);
`

const currentSchemaVersion = 1

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (version INTEGER PRIMARY KEY)`); err != nil {
		return err
	}
	var version int
	row := s.db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_migrations`)
	if err := row.Scan(&version); err != nil {
		return err
	}
	if version >= currentSchemaVersion {
		return nil
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return err
	}
	_, err := s.db.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, currentSchemaVersion)
	return err
}
