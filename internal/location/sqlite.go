package location

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore serves location lookups from a local SQLite reference database
// with a `locations(id, area, city, state)` table. The driver is pure Go, so
// the reference data ships as a plain file with no native dependencies.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the reference database read-only and verifies it responds.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open location db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping location db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// NewSQLiteStore wraps an already-open handle; used by tests with an
// in-memory database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ByCityState(ctx context.Context, city, state string) (string, error) {
	const q = `SELECT id FROM locations WHERE LOWER(city) = LOWER(?) AND LOWER(state) = LOWER(?) LIMIT 1`
	return s.queryID(ctx, q, city, state)
}

func (s *SQLiteStore) ByAreaCity(ctx context.Context, area, city string) (string, error) {
	const q = `SELECT id FROM locations WHERE LOWER(area) = LOWER(?) AND LOWER(city) = LOWER(?) LIMIT 1`
	return s.queryID(ctx, q, area, city)
}

func (s *SQLiteStore) ByFreeText(ctx context.Context, freeText string) (string, error) {
	const q = `SELECT id FROM locations
		WHERE instr(LOWER(?), LOWER(area)) > 0
		   OR instr(LOWER(?), LOWER(city)) > 0
		   OR instr(LOWER(?), LOWER(state)) > 0
		LIMIT 1`
	return s.queryID(ctx, q, freeText, freeText, freeText)
}

func (s *SQLiteStore) queryID(ctx context.Context, query string, args ...any) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoMatch
	}
	if err != nil {
		return "", fmt.Errorf("location query: %w", err)
	}
	return id, nil
}
