package location

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE locations (id TEXT, area TEXT, city TEXT, state TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO locations (id, area, city, state) VALUES
		('LOC-1', 'Andheri', 'Mumbai', 'Maharashtra'),
		('LOC-2', 'Koramangala', 'Bengaluru', 'Karnataka')`)
	require.NoError(t, err)
	return db
}

func TestSQLiteByCityState(t *testing.T) {
	s := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	id, err := s.ByCityState(ctx, "mumbai", "MAHARASHTRA")
	require.NoError(t, err)
	assert.Equal(t, "LOC-1", id)

	_, err = s.ByCityState(ctx, "Mumbai", "Karnataka")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestSQLiteByAreaCity(t *testing.T) {
	s := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	id, err := s.ByAreaCity(ctx, "koramangala", "bengaluru")
	require.NoError(t, err)
	assert.Equal(t, "LOC-2", id)

	_, err = s.ByAreaCity(ctx, "Andheri", "Bengaluru")
	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestSQLiteByFreeText(t *testing.T) {
	s := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	id, err := s.ByFreeText(ctx, "currently in Andheri East, open to relocation")
	require.NoError(t, err)
	assert.Equal(t, "LOC-1", id)

	id, err = s.ByFreeText(ctx, "based out of karnataka")
	require.NoError(t, err)
	assert.Equal(t, "LOC-2", id)

	_, err = s.ByFreeText(ctx, "remote only")
	assert.ErrorIs(t, err, ErrNoMatch)
}
