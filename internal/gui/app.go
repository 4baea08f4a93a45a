//go:build !nogui

// Package gui is the desktop front end of a sorting session, built on fyne.
package gui

import (
	"fmt"
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"picsort/internal/config"
	"picsort/internal/errors"
	"picsort/internal/fileops"
	"picsort/internal/imageset"
	"picsort/internal/imaging"
	"picsort/internal/log"
	"picsort/internal/metadata"
	"picsort/internal/notify"
	"picsort/internal/session"
	"picsort/internal/watch"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const defaultBanner = 3 * time.Second

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	cfg        *config.Config
	matcher    *imageset.Matcher
	filer      fileops.Filer
	watcher    *watch.Watcher

	notifier     notify.Notifier
	chooseFolder FolderChooser
	confirm      Confirmer

	sess    session.Session
	baseDir string // Fixed move-mode base folder
	warned  string // Input already confirmed despite a similar folder

	external atomic.Int64

	preview      *canvas.Image
	nameLabel    *widget.Label
	counterLabel *widget.Label
	foldersLabel *widget.Label
	statusLabel  *widget.Label
	metaLabel    *widget.Label
	metaCard     *widget.Card
	entry        *widget.Entry

	openButton  *widget.Button
	sortButton  *widget.Button
	prevButton  *widget.Button
	nextButton  *widget.Button
	clearButton *widget.Button

	accentColor color.NRGBA
}

// NewApp creates a new GUI application
func NewApp(cfg *config.Config, opts Options) (*App, error) {
	return NewWithApp(app.NewWithID("io.github.picsort"), cfg, opts)
}

// NewWithApp builds the sorter window on an existing fyne application and
// loads the source folder if one is given.
func NewWithApp(fyneApp fyne.App, cfg *config.Config, opts Options) (*App, error) {
	if cfg == nil {
		cfg = config.New()
	}
	matcher, err := imageset.NewMatcher(cfg.Settings.Extensions)
	if err != nil {
		return nil, err
	}

	a := &App{
		fyneApp:     fyneApp,
		cfg:         cfg,
		matcher:     matcher,
		filer:       opts.Filer,
		watcher:     opts.Watcher,
		sess:        session.New(cfg.Settings.Mode),
		baseDir:     strings.TrimSpace(opts.Destination),
		accentColor: color.NRGBA{R: 255, G: 165, B: 0, A: 255},
	}
	if a.filer == nil {
		a.filer = fileops.NewWithConfig(cfg)
	}
	if a.baseDir == "" {
		a.baseDir = strings.TrimSpace(cfg.Directories.Destination)
	}

	a.mainWindow = fyneApp.NewWindow(a.title())

	a.notifier = opts.Notifier
	if a.notifier == nil {
		a.notifier = &dialogNotifier{app: a}
	}
	a.chooseFolder = opts.ChooseFolder
	if a.chooseFolder == nil {
		a.chooseFolder = a.showFolderDialog
	}
	a.confirm = opts.Confirm
	if a.confirm == nil {
		a.confirm = func(title, message string, done func(bool)) {
			dialog.ShowConfirm(title, message, done, a.mainWindow)
		}
	}

	a.setupMainWindow()

	source := strings.TrimSpace(opts.Source)
	if source == "" {
		source = strings.TrimSpace(cfg.Directories.Source)
	}
	if source != "" {
		a.LoadFolder(source)
	} else {
		a.refresh()
	}
	return a, nil
}

func (a *App) title() string {
	if a.sess.Mode() == config.ModeCopy {
		return "Athlete Sorter"
	}
	return "Image Sorter"
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Session returns the current session state.
func (a *App) Session() session.Session { return a.sess }

// Status returns the text of the status bar.
func (a *App) Status() string { return a.statusLabel.Text }

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.mainWindow.Resize(fyne.NewSize(900, 700))

	a.preview = canvas.NewImageFromImage(nil)
	a.preview.FillMode = canvas.ImageFillContain
	a.preview.SetMinSize(fyne.NewSize(480, 320))

	a.nameLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	a.counterLabel = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{})
	a.foldersLabel = widget.NewLabel("")
	a.foldersLabel.Wrapping = fyne.TextWrapWord
	a.statusLabel = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{})

	a.metaLabel = widget.NewLabel("")
	a.metaCard = widget.NewCard("Image Info", "", a.metaLabel)

	a.entry = widget.NewEntry()
	a.entry.OnSubmitted = func(string) { a.Sort() }
	if a.sess.Mode() == config.ModeCopy {
		a.entry.SetPlaceHolder("Athlete numbers, comma separated")
	} else {
		a.entry.SetPlaceHolder("Folder name")
	}

	a.openButton = widget.NewButtonWithIcon("Open Folder", theme.FolderOpenIcon(), a.OpenFolder)
	a.sortButton = widget.NewButtonWithIcon("Sort", theme.ConfirmIcon(), a.Sort)
	a.sortButton.Importance = widget.HighImportance
	a.prevButton = widget.NewButtonWithIcon("Previous", theme.NavigateBackIcon(), a.Previous)
	a.nextButton = widget.NewButtonWithIcon("Next", theme.NavigateNextIcon(), a.Next)
	a.clearButton = widget.NewButtonWithIcon("Change Output Folder", theme.ContentClearIcon(), a.ChangeOutputFolder)

	header := container.NewVBox(
		container.NewHBox(a.openButton, layout.NewSpacer(), a.clearButton),
		canvas.NewLine(a.accentColor),
		a.nameLabel,
		a.counterLabel,
	)

	labelRow := container.NewBorder(nil, nil, nil, a.sortButton, a.entry)
	footer := container.NewVBox(
		container.NewHBox(a.prevButton, layout.NewSpacer(), a.nextButton),
		labelRow,
		a.foldersLabel,
		canvas.NewLine(a.accentColor),
		a.statusLabel,
	)

	a.mainWindow.SetContent(container.NewBorder(header, footer, nil, a.metaCard, a.preview))

	a.mainWindow.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyLeft, Modifier: fyne.KeyModifierAlt},
		func(fyne.Shortcut) { a.Previous() })
	a.mainWindow.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyRight, Modifier: fyne.KeyModifierAlt},
		func(fyne.Shortcut) { a.Next() })
}

// OpenFolder asks for a source folder and loads it.
func (a *App) OpenFolder() {
	a.chooseFolder("Select image folder", func(path string, ok bool) {
		if !ok || strings.TrimSpace(path) == "" {
			a.notifier.Error(errors.ErrNoDirectorySelected)
			return
		}
		a.LoadFolder(path)
	})
}

// LoadFolder replaces the image set with the images in dir. On failure the
// current session is kept.
func (a *App) LoadFolder(dir string) {
	dir = strings.TrimSpace(dir)
	next, err := a.sess.Load(dir, a.matcher)
	if err != nil {
		log.LogWithError(err).With(log.F("dir", dir)).Warn("Failed to load folder")
		a.notifier.Error(err)
		a.refresh()
		return
	}

	a.sess = next
	a.warned = ""
	a.external.Store(0)
	a.mainWindow.SetTitle(fmt.Sprintf("%s · %s", a.title(), dir))
	a.statusLabel.SetText(fmt.Sprintf("Loaded %d images", next.Remaining()))
	a.refresh()

	if a.watcher != nil {
		if err := a.watcher.Watch(dir); err != nil {
			log.LogWithError(err).Warn("Cannot watch source folder")
		}
	}
}

// Next shows the following image, wrapping to the first.
func (a *App) Next() {
	a.sess = a.sess.Next()
	a.warned = ""
	a.refresh()
}

// Previous shows the preceding image, wrapping to the last.
func (a *App) Previous() {
	a.sess = a.sess.Previous()
	a.warned = ""
	a.refresh()
}

// ChangeOutputFolder forgets every label binding so the next sort asks again.
func (a *App) ChangeOutputFolder() {
	a.sess = a.sess.ClearDestinations()
	a.refresh()
	a.notifier.Info("Output folders", notify.ClearedMessage)
}

// Sort files the current image under the labels typed in the entry. In move
// mode an unbound label first asks for its base folder, and a label close to
// an existing one asks for confirmation.
func (a *App) Sort() {
	input := a.entry.Text

	if suggestion, ok := a.sess.Suggest(input); ok && a.warned != input {
		a.confirm("Similar folder",
			fmt.Sprintf("Did you mean %q?\nChoose No to create %q.", suggestion, strings.TrimSpace(input)),
			func(yes bool) {
				if yes {
					a.entry.SetText(suggestion)
				} else {
					a.warned = input
				}
				a.Sort()
			})
		return
	}

	if a.sess.NeedsDestination(input) && a.baseDir == "" {
		label := strings.TrimSpace(input)
		a.chooseFolder(fmt.Sprintf("Select destination for %q", label), func(path string, ok bool) {
			if !ok || strings.TrimSpace(path) == "" {
				a.notifier.Error(errors.ErrDestinationNotSelected)
				return
			}
			a.commit(input, strings.TrimSpace(path))
		})
		return
	}
	a.commit(input, a.baseDir)
}

func (a *App) commit(input, base string) {
	env := session.Env{Filer: a.filer}
	if base != "" {
		env.Prompt = func(string) (string, bool) { return base, true }
	}
	if current, ok := a.sess.Current(); ok && a.watcher != nil && a.sess.Mode() == config.ModeMove {
		a.watcher.Ignore(current)
	}

	next, result, err := a.sess.Commit(input, env)
	a.sess = next
	a.warned = ""
	if err != nil {
		a.notifier.Error(err)
		a.refresh()
		return
	}

	a.entry.SetText("")
	a.statusLabel.SetText(result.Summary())
	a.notifier.Banner(result.Banner())
	a.refresh()
	if result.Done {
		a.notifier.Info(notify.AllSortedTitle, notify.AllSortedMessage)
	}
}

// refresh redraws every widget from the session state.
func (a *App) refresh() {
	if labels := a.sess.Destinations().Labels(); len(labels) > 0 {
		a.foldersLabel.SetText("Folders: " + strings.Join(labels, ", "))
	} else {
		a.foldersLabel.SetText("")
	}

	current, ok := a.sess.Current()
	if !ok {
		a.preview.Image = nil
		a.preview.Refresh()
		switch a.sess.Phase() {
		case session.Done:
			a.nameLabel.SetText(notify.AllSortedMessage)
		default:
			a.nameLabel.SetText("Open a folder of images to start sorting")
		}
		a.counterLabel.SetText("")
		a.metaCard.Hide()
		a.setBrowsing(false)
		return
	}

	a.nameLabel.SetText(filepath.Base(current))
	a.counterLabel.SetText(fmt.Sprintf("Image %d of %d", a.sess.Cursor()+1, a.sess.Remaining()))
	a.preview.Image = a.loadPreview(current)
	a.preview.Refresh()

	if a.sess.Mode() == config.ModeCopy || a.cfg.Display.ShowMetadata {
		a.metaLabel.SetText(strings.Join(metadata.Read(current).Lines(), "\n"))
		a.metaCard.Show()
	} else {
		a.metaCard.Hide()
	}
	a.setBrowsing(true)
}

func (a *App) setBrowsing(on bool) {
	for _, w := range []fyne.Disableable{a.sortButton, a.prevButton, a.nextButton, a.entry} {
		if on {
			w.Enable()
		} else {
			w.Disable()
		}
	}
}

// loadPreview decodes path scaled to the configured bounds. A file that
// cannot be decoded shows no preview.
func (a *App) loadPreview(path string) image.Image {
	img, err := imaging.Open(path)
	if err != nil {
		log.LogWithError(err).With(log.F("path", path)).Warn("Cannot preview image")
		return nil
	}
	img.Thumbnail(a.cfg.Display.ThumbnailWidth, a.cfg.Display.ThumbnailHeight)
	return img.Image()
}

func (a *App) showFolderDialog(title string, done func(path string, ok bool)) {
	log.LogWithFields(log.F("title", title)).Debug("Choosing folder")
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			a.notifier.Error(err)
			return
		}
		if uri == nil {
			done("", false)
			return
		}
		done(uri.Path(), true)
	}, a.mainWindow)
}

func (a *App) bannerDuration() time.Duration {
	if a.cfg.Display.BannerSeconds > 0 {
		return time.Duration(a.cfg.Display.BannerSeconds) * time.Second
	}
	return defaultBanner
}

// watchChanges reports external changes in the status bar until the
// watcher stops.
func (a *App) watchChanges() {
	for change := range a.watcher.Changes() {
		n := a.external.Add(1)
		log.LogWithFields(log.F("path", change.Path), log.F("op", change.Op.String())).Debug("External change")
		a.statusLabel.SetText(notify.WatchNotice(int(n)))
	}
}

// Run starts the GUI application
func (a *App) Run() {
	if a.watcher != nil {
		if err := a.watcher.Start(); err != nil {
			log.LogWithError(err).Warn("Cannot start source watcher")
		} else {
			go a.watchChanges()
		}
	}
	a.mainWindow.SetOnClosed(func() {
		if a.watcher != nil {
			a.watcher.Stop()
		}
	})
	a.mainWindow.ShowAndRun()
}

// Run opens the desktop sorter and blocks until its window is closed.
func Run(cfg *config.Config, opts Options) error {
	a, err := NewApp(cfg, opts)
	if err != nil {
		return err
	}
	a.Run()
	return nil
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// dialogNotifier shows messages as dialogs on the main window and banners
// as a pop-up that hides itself.
type dialogNotifier struct {
	app *App
}

func (n *dialogNotifier) Info(title, message string) {
	dialog.ShowInformation(title, message, n.app.mainWindow)
}

func (n *dialogNotifier) Error(err error) {
	if err == nil {
		return
	}
	log.LogWithError(err).Debug("Showing error")
	dialog.ShowInformation(notify.Title(err), notify.Message(n.app.sess.Mode(), err), n.app.mainWindow)
}

func (n *dialogNotifier) Banner(message string) {
	label := widget.NewLabelWithStyle(message, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	popup := widget.NewPopUp(container.NewPadded(label), n.app.mainWindow.Canvas())
	popup.Show()
	time.AfterFunc(n.app.bannerDuration(), popup.Hide)
}

var _ notify.Notifier = (*dialogNotifier)(nil)
