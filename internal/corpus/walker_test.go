package corpus

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearair/laravel-docs-mcp/internal/core/domain"
)

func writeCorpusFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestWalker_Walk(t *testing.T) {
	t.Run("enumerates files with relative paths and hashes", func(t *testing.T) {
		root := t.TempDir()
		writeCorpusFile(t, root, "routing.md", "# Routing")
		writeCorpusFile(t, root, "eloquent/queries.md", "# Queries")

		files, warnings, err := NewWalker().Walk(context.Background(), root)
		require.NoError(t, err)
		assert.Empty(t, warnings)
		require.Len(t, files, 2)

		byPath := make(map[string]string)
		for _, f := range files {
			byPath[f.Path] = f.Hash
		}

		sum := md5.Sum([]byte("# Routing"))
		assert.Equal(t, hex.EncodeToString(sum[:]), byPath["routing.md"])
		assert.Contains(t, byPath, "eloquent/queries.md")
	})

	t.Run("skips hidden files and directories", func(t *testing.T) {
		root := t.TempDir()
		writeCorpusFile(t, root, "visible.md", "visible")
		writeCorpusFile(t, root, ".hidden.md", "hidden")
		writeCorpusFile(t, root, ".git/config", "gitstuff")

		files, _, err := NewWalker().Walk(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "visible.md", files[0].Path)
	})

	t.Run("records size and modification time", func(t *testing.T) {
		root := t.TempDir()
		writeCorpusFile(t, root, "a.txt", "hello")

		files, _, err := NewWalker().Walk(context.Background(), root)
		require.NoError(t, err)
		require.Len(t, files, 1)

		assert.Equal(t, int64(5), files[0].Size)
		assert.WithinDuration(t, time.Now(), files[0].ModTime, time.Minute)
	})

	t.Run("fails for non-existent root", func(t *testing.T) {
		_, _, err := NewWalker().Walk(context.Background(), "/non/existent/path")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrIO)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("fails when root is a file", func(t *testing.T) {
		root := t.TempDir()
		file := filepath.Join(root, "plain.txt")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

		_, _, err := NewWalker().Walk(context.Background(), file)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		root := t.TempDir()
		writeCorpusFile(t, root, "a.txt", "a")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := NewWalker().Walk(ctx, root)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty directory yields no files", func(t *testing.T) {
		files, warnings, err := NewWalker().Walk(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, files)
		assert.Empty(t, warnings)
	})
}

func TestWalker_Read(t *testing.T) {
	t.Run("reads file content", func(t *testing.T) {
		root := t.TempDir()
		writeCorpusFile(t, root, "sub/doc.md", "# Title\n\nBody")

		content, err := NewWalker().Read(root, "sub/doc.md")
		require.NoError(t, err)
		assert.Equal(t, "# Title\n\nBody", content)
	})

	t.Run("missing file maps to not found", func(t *testing.T) {
		_, err := NewWalker().Read(t.TempDir(), "gone.md")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejects path escaping the root", func(t *testing.T) {
		_, err := NewWalker().Read(t.TempDir(), "../../etc/passwd")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestWatcher(t *testing.T) {
	t.Run("signals after a file change", func(t *testing.T) {
		root := t.TempDir()

		w, err := NewWatcher(root, 50*time.Millisecond)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		time.Sleep(50 * time.Millisecond)
		writeCorpusFile(t, root, "new.md", "content")

		select {
		case <-w.Changes():
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for change signal")
		}
	})

	t.Run("coalesces bursts into one signal", func(t *testing.T) {
		root := t.TempDir()

		w, err := NewWatcher(root, 100*time.Millisecond)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		time.Sleep(50 * time.Millisecond)
		for i := 0; i < 5; i++ {
			writeCorpusFile(t, root, "burst.md", "content")
			time.Sleep(10 * time.Millisecond)
		}

		select {
		case <-w.Changes():
		case <-time.After(2 * time.Second):
			t.Fatal("timeout waiting for change signal")
		}

		select {
		case <-w.Changes():
			t.Fatal("expected a single coalesced signal")
		case <-time.After(300 * time.Millisecond):
		}
	})

	t.Run("closes channel on cancellation", func(t *testing.T) {
		w, err := NewWatcher(t.TempDir(), 50*time.Millisecond)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			w.Run(ctx)
			close(done)
		}()

		cancel()
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("fails for non-existent root", func(t *testing.T) {
		_, err := NewWatcher("/non/existent/path", 0)
		assert.Error(t, err)
	})
}
