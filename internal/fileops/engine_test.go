package fileops_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"picsort/internal/config"
	"picsort/internal/errors"
	"picsort/internal/fileops"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestMove(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("moves into a new directory", func(t *testing.T) {
		src := filepath.Join(tmpDir, "a.jpg")
		writeFile(t, src, "a")
		dest := filepath.Join(tmpDir, "out", "5", "a.jpg")

		outcome, err := fileops.New().Move(src, dest)
		require.NoError(t, err)
		assert.True(t, outcome.Transferred)
		assert.Equal(t, dest, outcome.Destination)

		_, err = os.Stat(src)
		assert.ErrorIs(t, err, os.ErrNotExist, "Source file should not exist after move")
		assert.Equal(t, "a", readFile(t, dest))
	})

	t.Run("missing source", func(t *testing.T) {
		_, err := fileops.New().Move(filepath.Join(tmpDir, "gone.jpg"), filepath.Join(tmpDir, "x", "gone.jpg"))
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
	})

	t.Run("directory source", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "folder.jpg")
		require.NoError(t, os.Mkdir(dir, 0755))
		_, err := fileops.New().Move(dir, filepath.Join(tmpDir, "x", "folder.jpg"))
		require.Error(t, err)
		assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
	})

	t.Run("same path is a skip", func(t *testing.T) {
		src := filepath.Join(tmpDir, "same.jpg")
		writeFile(t, src, "same")
		outcome, err := fileops.New().Move(src, src)
		require.NoError(t, err)
		assert.True(t, outcome.Skipped)
		assert.Equal(t, "same", readFile(t, src))
	})
}

func TestCollisionStrategies(t *testing.T) {
	tests := []struct {
		strategy    string
		wantDest    string
		wantContent string
		wantSkipped bool
	}{
		{config.CollisionOverwrite, "a.jpg", "new", false},
		{config.CollisionRename, "a_(1).jpg", "new", false},
		{config.CollisionSkip, "a.jpg", "old", true},
	}

	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "a.jpg")
			destDir := filepath.Join(dir, "5")
			writeFile(t, src, "new")
			writeFile(t, filepath.Join(destDir, "a.jpg"), "old")

			engine := fileops.New()
			engine.SetCollision(tt.strategy)
			outcome, err := engine.Move(src, filepath.Join(destDir, "a.jpg"))
			require.NoError(t, err)

			assert.Equal(t, tt.wantSkipped, outcome.Skipped)
			assert.Equal(t, !tt.wantSkipped, outcome.Transferred)
			assert.Equal(t, tt.wantContent, readFile(t, filepath.Join(destDir, tt.wantDest)))
			if !tt.wantSkipped {
				assert.Equal(t, filepath.Join(destDir, tt.wantDest), outcome.Destination)
			}
		})
	}

	t.Run("unknown strategy", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, "a.jpg"), "new")
		writeFile(t, filepath.Join(dir, "5", "a.jpg"), "old")

		engine := fileops.New()
		engine.SetCollision("ask")
		_, err := engine.Move(filepath.Join(dir, "a.jpg"), filepath.Join(dir, "5", "a.jpg"))
		require.Error(t, err)
		assert.True(t, errors.IsInvalidConfig(err))
	})
}

func TestCopyPreservingMetadata(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "race.jpg")
	writeFile(t, src, "finish line")
	require.NoError(t, os.Chmod(src, 0600))
	mtime := time.Date(2023, 5, 14, 9, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(src, mtime, mtime))

	engine := fileops.New()
	for _, label := range []string{"12", "34"} {
		dest := filepath.Join(dir, label, "race.jpg")
		outcome, err := engine.CopyPreservingMetadata(src, dest)
		require.NoError(t, err)
		assert.True(t, outcome.Transferred)

		info, err := os.Stat(dest)
		require.NoError(t, err)
		assert.Equal(t, "finish line", readFile(t, dest))
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
		assert.True(t, info.ModTime().Equal(mtime), "mtime should be preserved")
	}

	// Copy leaves the source in place
	assert.Equal(t, "finish line", readFile(t, src))
}

func TestDryRun(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	writeFile(t, src, "a")

	cfg := config.NewTestConfig()
	cfg.Settings.DryRun = true
	engine := fileops.NewWithConfig(cfg)
	assert.True(t, engine.IsDryRun())

	require.NoError(t, engine.CreateDirectories(filepath.Join(dir, "5")))
	outcome, err := engine.Move(src, filepath.Join(dir, "5", "a.jpg"))
	require.NoError(t, err)
	assert.True(t, outcome.DryRun)
	assert.False(t, outcome.Transferred)

	_, err = os.Stat(src)
	assert.NoError(t, err, "dry run must not move the source")
	_, err = os.Stat(filepath.Join(dir, "5"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCreateDirectoriesIsIdempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "12")
	engine := fileops.New()
	require.NoError(t, engine.CreateDirectories(dir))
	require.NoError(t, engine.CreateDirectories(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestConcurrentRenameCollisions(t *testing.T) {
	dir := t.TempDir()
	destDir := filepath.Join(dir, "out")
	writeFile(t, filepath.Join(destDir, "img.jpg"), "existing")

	engine := fileops.New()
	engine.SetCollision(config.CollisionRename)

	const workers = 5
	var wg sync.WaitGroup
	dests := make([]string, workers)
	for i := 0; i < workers; i++ {
		src := filepath.Join(dir, "src", string(rune('a'+i)), "img.jpg")
		writeFile(t, src, "copy")
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			outcome, err := engine.CopyPreservingMetadata(src, filepath.Join(destDir, "img.jpg"))
			assert.NoError(t, err)
			dests[i] = outcome.Destination
		}(i, src)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, d := range dests {
		assert.False(t, seen[d], "duplicate destination %s", d)
		seen[d] = true
	}
	assert.Equal(t, "existing", readFile(t, filepath.Join(destDir, "img.jpg")))
}
