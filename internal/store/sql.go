package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

const schemaSQLite = `
CREATE TABLE IF NOT EXISTS validation_cache (
    path TEXT PRIMARY KEY,
    size INTEGER NOT NULL,
    mod_time INTEGER NOT NULL,
    valid BOOLEAN NOT NULL,
    min_lines INTEGER NOT NULL,
    max_lines INTEGER NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    checked_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS validation_cache (
    path TEXT PRIMARY KEY,
    size BIGINT NOT NULL,
    mod_time BIGINT NOT NULL,
    valid BOOLEAN NOT NULL,
    min_lines INTEGER NOT NULL,
    max_lines INTEGER NOT NULL,
    reason TEXT NOT NULL DEFAULT '',
    checked_at BIGINT NOT NULL
);
`

// SQLStore is the Store backed by database/sql. The same queries run on
// sqlite and postgres; both accept $N placeholders.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

// Open connects to the given driver and ensures the schema exists.
// An empty dsn selects a local default.
func Open(ctx context.Context, driver Driver, dsn string) (*SQLStore, error) {
	var (
		drvName string
		schema  string
	)
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		schema = schemaSQLite
		if dsn == "" {
			dsn = "file:quizplayer.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		schema = schemaPostgres
		if dsn == "" {
			dsn = "postgres://localhost:5432/quizplayer?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// one writer; also keeps a :memory: database on a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Validation cache
// ============================================================================

func (s *SQLStore) GetCheck(ctx context.Context, path string) (CachedCheck, error) {
	var (
		c       CachedCheck
		modTime int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT path, size, mod_time, valid, min_lines, max_lines, reason
		 FROM validation_cache WHERE path = $1`, path,
	).Scan(&c.Path, &c.Size, &modTime, &c.Check.Valid, &c.Check.Min, &c.Check.Max, &c.Check.Reason)
	if errors.Is(err, sql.ErrNoRows) {
		return CachedCheck{}, ErrNotFound
	}
	if err != nil {
		return CachedCheck{}, err
	}
	c.ModTime = time.Unix(0, modTime)
	return c, nil
}

func (s *SQLStore) SaveCheck(ctx context.Context, c CachedCheck) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO validation_cache (path, size, mod_time, valid, min_lines, max_lines, reason, checked_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (path) DO UPDATE SET
		   size = EXCLUDED.size,
		   mod_time = EXCLUDED.mod_time,
		   valid = EXCLUDED.valid,
		   min_lines = EXCLUDED.min_lines,
		   max_lines = EXCLUDED.max_lines,
		   reason = EXCLUDED.reason,
		   checked_at = EXCLUDED.checked_at`,
		c.Path, c.Size, c.ModTime.UnixNano(), c.Check.Valid, c.Check.Min, c.Check.Max, c.Check.Reason,
		time.Now().Unix(),
	)
	return err
}

func (s *SQLStore) DeleteCheck(ctx context.Context, path string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM validation_cache WHERE path = $1", path)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
