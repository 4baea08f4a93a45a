//go:build !nogui

package gui

import (
	"path/filepath"
	"testing"

	"picsort/internal/config"
	"picsort/internal/errors"
	"picsort/internal/notify"
	"picsort/internal/session"
	"picsort/pkg/testutils"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChooser struct {
	titles []string
	path   string
	ok     bool
}

func (f *fakeChooser) choose(title string, done func(string, bool)) {
	f.titles = append(f.titles, title)
	done(f.path, f.ok)
}

func sourceWithImages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		testutils.WriteJPEG(t, filepath.Join(dir, name), 4, 3)
	}
	return dir
}

func newTestApp(t *testing.T, mode string, opts Options) (*App, *notify.Recorder) {
	t.Helper()
	cfg := config.NewTestConfig()
	cfg.Settings.Mode = mode
	rec := &notify.Recorder{}
	opts.Notifier = rec
	a, err := NewWithApp(test.NewTempApp(t), cfg, opts)
	require.NoError(t, err)
	return a, rec
}

func TestStartsWithoutFolder(t *testing.T) {
	a, _ := newTestApp(t, config.ModeMove, Options{})

	assert.Equal(t, session.Empty, a.Session().Phase())
	assert.Equal(t, "Open a folder of images to start sorting", a.nameLabel.Text)
	assert.True(t, a.sortButton.Disabled())
	assert.True(t, a.entry.Disabled())
	assert.False(t, a.openButton.Disabled())
}

func TestOpenFolder(t *testing.T) {
	chooser := &fakeChooser{}
	a, rec := newTestApp(t, config.ModeMove, Options{ChooseFolder: chooser.choose})

	test.Tap(a.openButton)
	require.Len(t, rec.Errors, 1)
	assert.True(t, errors.IsKind(rec.Errors[0], errors.NoDirectorySelected))

	chooser.path, chooser.ok = t.TempDir(), true
	test.Tap(a.openButton)
	require.Len(t, rec.Errors, 2)
	assert.True(t, errors.IsKind(rec.Errors[1], errors.EmptyImageSet))
	assert.Equal(t, session.Empty, a.Session().Phase())

	chooser.path = sourceWithImages(t, "a.jpg", "b.jpg")
	test.Tap(a.openButton)
	assert.Equal(t, session.Browsing, a.Session().Phase())
	assert.Equal(t, "Loaded 2 images", a.Status())
	assert.Equal(t, "a.jpg", a.nameLabel.Text)
	assert.False(t, a.sortButton.Disabled())
}

func TestNavigationWraps(t *testing.T) {
	a, _ := newTestApp(t, config.ModeMove, Options{Source: sourceWithImages(t, "a.jpg", "b.jpg", "c.jpg")})

	assert.Equal(t, "Image 1 of 3", a.counterLabel.Text)
	assert.NotNil(t, a.preview.Image)
	assert.False(t, a.metaCard.Visible(), "move mode hides metadata by default")

	test.Tap(a.nextButton)
	assert.Equal(t, "b.jpg", a.nameLabel.Text)

	test.Tap(a.prevButton)
	test.Tap(a.prevButton)
	assert.Equal(t, "c.jpg", a.nameLabel.Text)
	assert.Equal(t, "Image 3 of 3", a.counterLabel.Text)
}

func TestSortWithFixedDestination(t *testing.T) {
	dir := sourceWithImages(t, "a.jpg", "b.jpg", "c.jpg")
	base := t.TempDir()
	chooser := &fakeChooser{}
	a, rec := newTestApp(t, config.ModeMove, Options{Source: dir, Destination: base, ChooseFolder: chooser.choose})

	a.entry.SetText("5")
	test.Tap(a.sortButton)

	assert.Empty(t, chooser.titles)
	assert.FileExists(t, filepath.Join(base, "5", "a.jpg"))
	assert.Equal(t, "Image moved to "+filepath.Join(base, "5", "a.jpg"), rec.LastBanner())
	assert.Equal(t, 2, a.Session().Remaining())
	assert.Equal(t, "b.jpg", a.nameLabel.Text)
	assert.Equal(t, "", a.entry.Text)
	assert.Equal(t, "Folders: 5", a.foldersLabel.Text)
}

func TestSortAsksForDestination(t *testing.T) {
	dir := sourceWithImages(t, "a.jpg", "b.jpg", "c.jpg")
	base := t.TempDir()
	chooser := &fakeChooser{}
	var asked []string
	confirm := func(title, message string, done func(bool)) {
		asked = append(asked, message)
		done(true)
	}
	a, rec := newTestApp(t, config.ModeMove, Options{Source: dir, ChooseFolder: chooser.choose, Confirm: confirm})

	a.entry.SetText("Holiday")
	test.Tap(a.sortButton)
	require.Len(t, rec.Errors, 1)
	assert.True(t, errors.IsKind(rec.Errors[0], errors.DestinationNotSelected))
	assert.Equal(t, 3, a.Session().Remaining())
	assert.Equal(t, "Holiday", a.entry.Text)

	chooser.path, chooser.ok = base, true
	test.Tap(a.sortButton)
	assert.FileExists(t, filepath.Join(base, "Holiday", "a.jpg"))
	assert.Equal(t, []string{`Select destination for "Holiday"`, `Select destination for "Holiday"`}, chooser.titles)

	// Accepting the suggestion files under the bound folder without asking
	a.entry.SetText("Holday")
	test.Tap(a.sortButton)
	require.Len(t, asked, 1)
	assert.Contains(t, asked[0], `Did you mean "Holiday"?`)
	assert.Len(t, chooser.titles, 2)
	assert.FileExists(t, filepath.Join(base, "Holiday", "b.jpg"))
	assert.Equal(t, 1, a.Session().Remaining())
}

func TestCopyModeUntilDone(t *testing.T) {
	dir := sourceWithImages(t, "a.jpg", "b.jpg")
	a, rec := newTestApp(t, config.ModeCopy, Options{Source: dir})

	assert.True(t, a.metaCard.Visible())
	assert.Contains(t, a.metaLabel.Text, "File Name: a.jpg")
	assert.Contains(t, a.metaLabel.Text, "Aperture: Unknown")

	a.entry.SetText("12, 34")
	test.Tap(a.sortButton)
	assert.Equal(t, "Image sorted for: 12, 34", rec.LastBanner())
	assert.FileExists(t, filepath.Join(dir, "12", "a.jpg"))
	assert.FileExists(t, filepath.Join(dir, "34", "a.jpg"))
	assert.Contains(t, a.metaLabel.Text, "File Name: b.jpg")

	a.entry.SetText("12")
	test.Tap(a.sortButton)
	assert.Equal(t, session.Done, a.Session().Phase())
	assert.Contains(t, rec.Infos, notify.AllSortedMessage)
	assert.Equal(t, notify.AllSortedMessage, a.nameLabel.Text)
	assert.True(t, a.sortButton.Disabled())
	assert.False(t, a.metaCard.Visible())
}

func TestEmptyLabel(t *testing.T) {
	a, rec := newTestApp(t, config.ModeCopy, Options{Source: sourceWithImages(t, "a.jpg")})

	a.entry.SetText("  ,  ")
	test.Tap(a.sortButton)
	require.Len(t, rec.Errors, 1)
	assert.True(t, errors.IsKind(rec.Errors[0], errors.EmptyLabelInput))
	assert.Empty(t, rec.Banners)
	assert.Equal(t, 1, a.Session().Remaining())
}

func TestChangeOutputFolder(t *testing.T) {
	dir := sourceWithImages(t, "a.jpg", "b.jpg")
	a, rec := newTestApp(t, config.ModeCopy, Options{Source: dir})

	a.entry.SetText("7")
	test.Tap(a.sortButton)
	require.Equal(t, 1, a.Session().Destinations().Len())

	test.Tap(a.clearButton)
	assert.Equal(t, 0, a.Session().Destinations().Len())
	assert.Equal(t, 1, a.Session().Remaining())
	assert.Contains(t, rec.Infos, notify.ClearedMessage)
	assert.Equal(t, "", a.foldersLabel.Text)
}
