package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeStore struct {
	columns map[string]struct{}
	rows    []map[string]string
	err     error
}

func (f *fakeStore) Columns(context.Context) (map[string]struct{}, error) {
	return f.columns, f.err
}

func (f *fakeStore) Insert(context.Context, map[string]string) error { return nil }

func (f *fakeStore) Upsert(context.Context, map[string]string, string) error { return nil }

func (f *fakeStore) List(context.Context, []string) ([]map[string]string, error) {
	return f.rows, f.err
}

func TestExportCandidatesXLSX(t *testing.T) {
	store := &fakeStore{
		columns: map[string]struct{}{
			"username":      {},
			"mobile_number": {},
			"email":         {},
		},
		rows: []map[string]string{
			{"username": "Asha Rao", "mobile_number": "9876543210", "email": "asha@example.com"},
			{"username": "Rahul Nair", "mobile_number": "9123456789", "email": "rahul@example.com"},
		},
	}

	data, err := NewService(store, nil).ExportCandidatesXLSX(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Candidates")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Header follows the canonical column order.
	assert.Equal(t, []string{"username", "mobile_number", "email"}, rows[0])
	assert.Contains(t, rows[1], "Asha Rao")
	assert.Contains(t, rows[2], "rahul@example.com")
}

func TestExportNoUsableColumns(t *testing.T) {
	store := &fakeStore{columns: map[string]struct{}{"internal_only": {}}}
	_, err := NewService(store, nil).ExportCandidatesXLSX(context.Background())
	assert.Error(t, err)
}

func TestExportStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("db gone")}
	_, err := NewService(store, nil).ExportCandidatesXLSX(context.Background())
	assert.Error(t, err)
}
