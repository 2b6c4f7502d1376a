package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/json2struct/internal/errors"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) handle(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, path)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func startWatcher(t *testing.T, paths []string, handler Handler) {
	t.Helper()
	w, err := New(paths, 50*time.Millisecond, handler)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	rec := &recorder{}
	startWatcher(t, []string{input}, rec.handle)

	for _, content := range []string{`{"a": 1}`, `{"a": 2}`, `{"a": 3}`} {
		require.NoError(t, os.WriteFile(input, []byte(content), 0o644))
	}

	require.Eventually(t, func() bool { return len(rec.snapshot()) >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)

	calls := rec.snapshot()
	require.Len(t, calls, 1)
	abs, err := filepath.Abs(input)
	require.NoError(t, err)
	assert.Equal(t, abs, calls[0])
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	rec := &recorder{}
	startWatcher(t, []string{input}, rec.handle)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte(`[]`), 0o644))
	time.Sleep(250 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

func TestWatcher_AtomicReplace(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	rec := &recorder{}
	startWatcher(t, []string{input}, rec.handle)

	tmp := filepath.Join(dir, ".input.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`{"b": true}`), 0o644))
	require.NoError(t, os.Rename(tmp, input))

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, 0, func(string) {})
	assert.True(t, errors.Is(err, errors.ErrInvalidFilePath))

	_, err = New([]string{filepath.Join(t.TempDir(), "missing.json")}, 0, func(string) {})
	assert.True(t, errors.Is(err, errors.ErrFileNotFound))
}

func TestNew_DefaultDebounce(t *testing.T) {
	input := filepath.Join(t.TempDir(), "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{}`), 0o644))

	w, err := New([]string{input}, 0, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, w.Run(ctx))
}
