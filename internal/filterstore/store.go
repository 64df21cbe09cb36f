package filterstore

import (
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/catalogsync/internal/filter"
)

//go:embed schema.sql
var schemaSQL string

// connParams are go-sqlite3 DSN parameters applied to every connection the
// driver opens. Empty depends on foreign keys to drop a filter's selections
// with it.
var connParams = []string{
	"_journal_mode=WAL",
	"_synchronous=NORMAL",
	"_busy_timeout=5000",
	"_foreign_keys=on",
}

// migration upgrades a filter database from version-1 to version.
type migration struct {
	version int
	name    string
	stmt    string
}

// migrations run in order on databases whose user_version is below their
// version. The base tables come from schema.sql and are version 0.
var migrations = []migration{
	{
		version: 1,
		name:    "index selections by component",
		stmt: `CREATE INDEX IF NOT EXISTS idx_filter_components_component
			ON filter_components(component_id)`,
	},
}

// currentSchemaVersion is the user_version of a fully migrated database.
var currentSchemaVersion = migrations[len(migrations)-1].version

var _ filter.Storage = (*Store)(nil)

// Store keeps filter selections per (city, category) pair in SQLite.
type Store struct {
	db *sql.DB
}

// Open opens the filter database at path, creating and migrating it as
// needed. ":memory:" gives a private in-memory database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open filter store %s: %w", path, err)
	}

	// One connection: selections have a single writer, and an in-memory
	// database exists only on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open filter store %s: %w", path, err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate filter store %s: %w", path, err)
	}

	slog.Debug("filter store opened", "path", path, "schema", currentSchemaVersion)
	return &Store{db: db}, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + strings.Join(connParams, "&")
}

// migrate creates the base tables and applies every pending migration. Each
// migration and its user_version bump commit together.
func migrate(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		if err := apply(db, m); err != nil {
			return err
		}
		slog.Debug("filter store migrated", "version", m.version, "migration", m.name)
	}
	return nil
}

func apply(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d: begin: %w", m.version, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(m.stmt); err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
		return fmt.Errorf("migration %d: set user_version: %w", m.version, err)
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pragma reads the current value of a connection pragma.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
