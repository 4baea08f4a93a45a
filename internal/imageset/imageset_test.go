package imageset_test

import (
	"os"
	"path/filepath"
	"testing"

	"picsort/internal/errors"
	"picsort/internal/imageset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

func TestMatcher(t *testing.T) {
	m, err := imageset.NewMatcher(nil)
	require.NoError(t, err)
	assert.Equal(t, "*.{png,jpg,jpeg,gif,bmp}", m.String())

	for _, name := range []string{"a.png", "B.JPG", "c.Jpeg", "d.gif", "e.bmp", "/abs/path/f.jpg"} {
		assert.True(t, m.Match(name), name)
	}
	for _, name := range []string{"a.txt", "jpg", "a.jpg.txt", "a.tiff", "README"} {
		assert.False(t, m.Match(name), name)
	}

	custom, err := imageset.NewMatcher([]string{".TIFF", " webp "})
	require.NoError(t, err)
	assert.True(t, custom.Match("scan.tiff"))
	assert.True(t, custom.Match("x.WEBP"))
	assert.False(t, custom.Match("x.jpg"))
}

func TestScan(t *testing.T) {
	m, err := imageset.NewMatcher(nil)
	require.NoError(t, err)

	t.Run("filters and sorts", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "c.jpg", "a.PNG", "notes.txt", "b.gif")
		require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0755))
		writeFiles(t, filepath.Join(dir, "sub.jpg"), "nested.jpg")

		set, err := imageset.Scan(dir, m)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "a.PNG"),
			filepath.Join(dir, "b.gif"),
			filepath.Join(dir, "c.jpg"),
		}, set.Paths())
		assert.Equal(t, 0, set.Cursor())
	})

	t.Run("only non-image files", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.txt", "b.doc")

		set, err := imageset.Scan(dir, m)
		require.NoError(t, err)
		assert.True(t, set.IsEmpty())
		assert.Equal(t, imageset.NoCursor, set.Cursor())
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := imageset.Scan(filepath.Join(t.TempDir(), "gone"), m)
		require.Error(t, err)
		assert.True(t, errors.IsFileNotFound(err))
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFiles(t, dir, "a.jpg")
		_, err := imageset.Scan(filepath.Join(dir, "a.jpg"), m)
		require.Error(t, err)
		assert.Equal(t, errors.InvalidPath, errors.KindOf(err))
	})
}

func TestNewDeduplicates(t *testing.T) {
	set := imageset.New([]string{"b.jpg", "a.jpg", "b.jpg"})
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, set.Paths())
}

func TestNavigationIsCircular(t *testing.T) {
	for n := 2; n <= 6; n++ {
		paths := make([]string, n)
		for i := range paths {
			paths[i] = string(rune('a'+i)) + ".jpg"
		}
		set := imageset.New(paths)

		for start := 0; start < n; start++ {
			s := set.Seek(start)
			for i := 0; i < n; i++ {
				s = s.Next()
			}
			assert.Equal(t, start, s.Cursor(), "next n=%d start=%d", n, start)

			for i := 0; i < n; i++ {
				s = s.Previous()
			}
			assert.Equal(t, start, s.Cursor(), "previous n=%d start=%d", n, start)
		}
	}
}

func TestNavigationWraps(t *testing.T) {
	set := imageset.New([]string{"a.jpg", "b.jpg", "c.jpg"})

	prev := set.Previous()
	cur, _ := prev.Current()
	assert.Equal(t, "c.jpg", cur)

	next := prev.Next()
	cur, _ = next.Current()
	assert.Equal(t, "a.jpg", cur)

	// The original set is untouched
	assert.Equal(t, 0, set.Cursor())
}

func TestSingleImageNavigation(t *testing.T) {
	set := imageset.New([]string{"only.jpg"})
	assert.Equal(t, 0, set.Next().Cursor())
	assert.Equal(t, 0, set.Previous().Cursor())
}

func TestEmptyNavigation(t *testing.T) {
	set := imageset.Empty()
	assert.Equal(t, imageset.NoCursor, set.Next().Cursor())
	assert.Equal(t, imageset.NoCursor, set.Previous().Cursor())
	assert.Equal(t, imageset.NoCursor, set.RemoveCurrent().Cursor())
	_, ok := set.Current()
	assert.False(t, ok)

	var zero imageset.Set
	assert.NoError(t, zero.Validate())
	assert.Equal(t, imageset.NoCursor, zero.Cursor())
}

func TestRemoveCurrent(t *testing.T) {
	set := imageset.New([]string{"a.jpg", "b.jpg", "c.jpg"})

	t.Run("from the front keeps the index", func(t *testing.T) {
		after := set.RemoveCurrent()
		assert.Equal(t, []string{"b.jpg", "c.jpg"}, after.Paths())
		assert.Equal(t, 0, after.Cursor())
		cur, _ := after.Current()
		assert.Equal(t, "b.jpg", cur)
	})

	t.Run("from the middle points at the follower", func(t *testing.T) {
		after := set.Seek(1).RemoveCurrent()
		cur, _ := after.Current()
		assert.Equal(t, "c.jpg", cur)
		assert.Equal(t, 1, after.Cursor())
	})

	t.Run("from the end wraps to zero", func(t *testing.T) {
		after := set.Seek(2).RemoveCurrent()
		assert.Equal(t, 0, after.Cursor())
		cur, _ := after.Current()
		assert.Equal(t, "a.jpg", cur)
	})

	t.Run("last image empties the set", func(t *testing.T) {
		after := imageset.New([]string{"a.jpg"}).RemoveCurrent()
		assert.True(t, after.IsEmpty())
		assert.Equal(t, imageset.NoCursor, after.Cursor())
	})

	t.Run("shrinks by exactly one and leaves the receiver intact", func(t *testing.T) {
		after := set.Seek(1).RemoveCurrent()
		assert.Equal(t, set.Len()-1, after.Len())
		assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, set.Paths())
	})
}
