// Package tui is the terminal front end of a sorting session, built on
// bubbletea. It translates key presses into session transitions and renders
// the resulting state.
package tui

import (
	"fmt"
	"strings"
	"time"

	"picsort/internal/config"
	"picsort/internal/errors"
	"picsort/internal/fileops"
	"picsort/internal/imageset"
	"picsort/internal/log"
	"picsort/internal/metadata"
	"picsort/internal/notify"
	"picsort/internal/session"
	"picsort/internal/tui/components"
	"picsort/internal/tui/messages"
	"picsort/internal/tui/styles"
	"picsort/internal/tui/views"
	"picsort/internal/watch"
	"picsort/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultBanner = 3 * time.Second

// Options are the per-run inputs of the terminal sorter.
type Options struct {
	// Source is loaded on start; empty asks for a folder.
	Source string
	// Destination is a fixed base folder for move mode; empty asks per label.
	Destination string
	// Filer performs the file operations; nil uses a fileops.Engine built
	// from the configuration.
	Filer fileops.Filer
	// Watcher, when set and started, reports external changes to the source.
	Watcher *watch.Watcher
}

type Model struct {
	cfg     *config.Config
	sess    session.Session
	matcher *imageset.Matcher
	filer   fileops.Filer
	watcher *watch.Watcher

	keys     types.KeyMap
	help     help.Model
	theme    styles.Theme
	input    textinput.Model
	status   *components.StatusBar
	mode     types.Mode
	showHelp bool

	baseDir string // Fixed move-mode base folder
	pending string // Label waiting for its base folder
	warned  string // Input already warned about as a probable typo

	meta     metadata.Result
	metaPath string

	bannerSeq int
	external  int
}

// New creates the model and loads the source folder if one is given.
func New(cfg *config.Config, opts Options) (*Model, error) {
	if cfg == nil {
		cfg = config.New()
	}
	matcher, err := imageset.NewMatcher(cfg.Settings.Extensions)
	if err != nil {
		return nil, err
	}

	filer := opts.Filer
	if filer == nil {
		filer = fileops.NewWithConfig(cfg)
	}

	theme := styles.New(cfg)
	input := textinput.New()
	input.Focus()

	m := &Model{
		cfg:     cfg,
		sess:    session.New(cfg.Settings.Mode),
		matcher: matcher,
		filer:   filer,
		watcher: opts.Watcher,
		keys:    types.DefaultKeyMap(),
		help:    help.New(),
		theme:   theme,
		input:   input,
		status:  components.NewStatusBar(theme),
		baseDir: firstNonEmpty(opts.Destination, cfg.Directories.Destination),
	}

	source := firstNonEmpty(opts.Source, cfg.Directories.Source)
	m.setMode(types.Source)
	if source != "" {
		m.load(source)
	}
	return m, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}
	if m.watcher != nil {
		cmds = append(cmds, m.status.Tick(), waitForChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// View implements tea.Model
func (m *Model) View() string {
	return views.RenderMainView(m)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case messages.BannerExpiredMsg:
		next := m.copy()
		if msg.Seq == next.bannerSeq && next.status.Kind() == components.StatusSuccess {
			next.status.Clear()
		}
		return next, nil

	case messages.ExternalChangeMsg:
		next := m.copy()
		next.external++
		next.status.SetText(notify.WatchNotice(next.external), components.StatusInfo)
		log.LogWithFields(log.F("path", msg.Change.Path), log.F("op", msg.Change.Op.String())).Debug("External change")
		return next, waitForChange(next.watcher)

	case messages.WatcherClosedMsg:
		next := m.copy()
		next.status.SetWatching("")
		return next, nil

	case spinner.TickMsg:
		next := m.copy()
		return next, next.status.Update(msg)
	}

	next := m.copy()
	var cmd tea.Cmd
	next.input, cmd = next.input.Update(msg)
	return next, cmd
}

func (m *Model) copy() *Model {
	next := *m
	next.status = m.status.Copy()
	return &next
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	next := m.copy()

	switch {
	case key.Matches(msg, next.keys.Quit):
		return next, tea.Quit
	case key.Matches(msg, next.keys.Help):
		next.showHelp = !next.showHelp
		return next, nil
	}

	switch next.mode {
	case types.Destination:
		return next.handleDestinationKeys(msg)
	case types.Source:
		return next.handleSourceKeys(msg)
	default:
		return next.handleLabelKeys(msg)
	}
}

func (m *Model) handleLabelKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Next):
		m.sess = m.sess.Next()
		m.afterNavigate()
		return m, nil

	case key.Matches(msg, m.keys.Previous):
		m.sess = m.sess.Previous()
		m.afterNavigate()
		return m, nil

	case key.Matches(msg, m.keys.ClearDestinations):
		m.sess = m.sess.ClearDestinations()
		m.status.SetText(notify.ClearedMessage, components.StatusInfo)
		return m, nil

	case key.Matches(msg, m.keys.ChangeSource):
		m.setMode(types.Source)
		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.input.Reset()
		m.warned = ""
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		return m.submitLabel()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleDestinationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		pending := m.pending
		m.setMode(types.Label)
		m.input.SetValue(pending)
		m.status.SetText(notify.Message(m.sess.Mode(), errors.ErrDestinationNotSelected), components.StatusError)
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		base := strings.TrimSpace(m.input.Value())
		pending := m.pending
		m.setMode(types.Label)
		m.input.SetValue(pending)
		return m.commit(pending, base)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleSourceKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		if m.sess.Phase() == session.Browsing {
			m.setMode(types.Label)
			return m, nil
		}
		m.status.SetText(notify.Message(m.sess.Mode(), errors.ErrNoDirectorySelected), components.StatusError)
		return m, nil

	case key.Matches(msg, m.keys.Commit):
		m.load(m.input.Value())
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitLabel commits the typed label, first asking for a base folder or
// warning about a probable typo when needed.
func (m *Model) submitLabel() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	if suggestion, ok := m.sess.Suggest(value); ok && m.warned != value {
		m.warned = value
		m.status.SetText(fmt.Sprintf("Did you mean %q? Press enter again to create %q", suggestion, strings.TrimSpace(value)), components.StatusError)
		return m, nil
	}

	if m.sess.NeedsDestination(value) && m.baseDir == "" {
		m.pending = value
		m.setMode(types.Destination)
		return m, nil
	}
	return m.commit(value, m.baseDir)
}

func (m *Model) commit(input, base string) (tea.Model, tea.Cmd) {
	env := session.Env{Filer: m.filer}
	if base != "" {
		env.Prompt = func(string) (string, bool) { return base, true }
	}
	if current, ok := m.sess.Current(); ok && m.watcher != nil && m.sess.Mode() == config.ModeMove {
		m.watcher.Ignore(current)
	}

	next, result, err := m.sess.Commit(input, env)
	m.sess = next
	m.warned = ""
	if err != nil {
		m.status.SetText(notify.Message(m.sess.Mode(), err), components.StatusError)
		return m, nil
	}

	m.input.Reset()
	m.refreshMetadata()
	if result.Done {
		m.status.SetText(result.Banner()+". "+notify.AllSortedMessage, components.StatusSuccess)
		return m, nil
	}
	return m, m.banner(result.Banner())
}

// banner shows a success message that clears itself after the configured delay.
func (m *Model) banner(text string) tea.Cmd {
	m.bannerSeq++
	seq := m.bannerSeq
	m.status.SetText(text, components.StatusSuccess)

	d := defaultBanner
	if m.cfg.Display.BannerSeconds > 0 {
		d = time.Duration(m.cfg.Display.BannerSeconds) * time.Second
	}
	return tea.Tick(d, func(time.Time) tea.Msg {
		return messages.BannerExpiredMsg{Seq: seq}
	})
}

func (m *Model) load(dir string) {
	dir = strings.TrimSpace(dir)
	next, err := m.sess.Load(dir, m.matcher)
	if err != nil {
		log.LogWithError(err).With(log.F("dir", dir)).Warn("Failed to load folder")
		m.status.SetText(notify.Message(m.sess.Mode(), err), components.StatusError)
		m.setMode(types.Source)
		return
	}

	m.sess = next
	m.external = 0
	m.setMode(types.Label)
	m.refreshMetadata()
	m.status.SetText(fmt.Sprintf("Loaded %d images", next.Remaining()), components.StatusInfo)

	if m.watcher != nil {
		if err := m.watcher.Watch(dir); err != nil {
			log.LogWithError(err).Warn("Cannot watch source folder")
			m.status.SetWatching("")
		} else {
			m.status.SetWatching(dir)
		}
	}
}

func (m *Model) afterNavigate() {
	m.warned = ""
	m.refreshMetadata()
}

func (m *Model) setMode(mode types.Mode) {
	m.mode = mode
	m.input.Reset()
	m.input.Prompt = mode.String() + ": "
	switch mode {
	case types.Destination:
		m.input.Placeholder = fmt.Sprintf("base folder for %q", strings.TrimSpace(m.pending))
	case types.Source:
		m.input.Placeholder = "path to a folder of images"
		m.pending = ""
	default:
		m.pending = ""
		if m.sess.Mode() == config.ModeCopy {
			m.input.Placeholder = "athlete numbers, comma separated"
		} else {
			m.input.Placeholder = "folder name"
		}
	}
}

func (m *Model) showMetadata() bool {
	return m.sess.Mode() == config.ModeCopy || m.cfg.Display.ShowMetadata
}

func (m *Model) refreshMetadata() {
	if !m.showMetadata() {
		return
	}
	current, ok := m.sess.Current()
	if !ok {
		m.metaPath = ""
		return
	}
	if current == m.metaPath {
		return
	}
	m.meta = metadata.Read(current)
	m.metaPath = current
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		change, ok := <-w.Changes()
		if !ok {
			return messages.WatcherClosedMsg{}
		}
		return messages.ExternalChangeMsg{Change: change}
	}
}

// Session returns the current session state.
func (m *Model) Session() session.Session { return m.sess }

// InputMode returns what the text input is collecting.
func (m *Model) InputMode() types.Mode { return m.mode }

// InputValue returns the raw text typed so far.
func (m *Model) InputValue() string { return m.input.Value() }

func (m *Model) InputView() string { return m.input.View() }

func (m *Model) StatusView() string { return m.status.View() }

// Status returns the plain status text.
func (m *Model) Status() string { return m.status.Text() }

func (m *Model) HelpView() string {
	h := m.help
	h.ShowAll = m.showHelp
	return h.View(m.keys)
}

func (m *Model) Theme() styles.Theme { return m.theme }

func (m *Model) Metadata() (metadata.Result, bool) {
	if !m.showMetadata() || m.metaPath == "" || m.sess.Phase() != session.Browsing {
		return metadata.Result{}, false
	}
	return m.meta, true
}

// Run starts the terminal UI and blocks until the user quits.
func Run(cfg *config.Config, opts Options) error {
	m, err := New(cfg, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
