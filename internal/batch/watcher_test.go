package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForPath(t *testing.T, evCh <-chan string) string {
	t.Helper()
	select {
	case p := <-evCh:
		return p
	case <-time.After(3 * time.Second):
		t.Fatal("no path emitted before timeout")
		return ""
	}
}

func TestStartWatcherRequiresRoot(t *testing.T) {
	_, _, err := StartWatcher(context.Background(), WatchConfig{}, slog.Default())
	require.Error(t, err)
}

func TestWatcherInitialScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "existing.pdf"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Root: dir, InitialScan: true}, slog.Default())
	require.NoError(t, err)

	got := waitForPath(t, evCh)
	assert.Equal(t, filepath.Join(dir, "existing.pdf"), got)
}

func TestWatcherEmitsDebouncedCreates(t *testing.T) {
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	evCh, _, err := StartWatcher(ctx, WatchConfig{Root: dir, Debounce: 20 * time.Millisecond}, slog.Default())
	require.NoError(t, err)

	path := filepath.Join(dir, "incoming.docx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	// A write burst on the same file coalesces into one emission.
	require.NoError(t, os.WriteFile(path, []byte("xy"), 0o644))

	assert.Equal(t, path, waitForPath(t, evCh))
}
