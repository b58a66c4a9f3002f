package ui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/shutter/internal/gallery"
	"github.com/five82/shutter/internal/prefs"
)

// noticeTTL is how long a failure notice stays on screen.
const noticeTTL = 5 * time.Second

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller *gallery.Controller
	Logger     *zerolog.Logger
	Prefs      prefs.Prefs
	PrefsPath  string
	LogPath    string
	// Clipboard overrides the system clipboard writer.
	Clipboard func(string) error
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      *gallery.Controller
	log       zerolog.Logger
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	copyText  func(string) error

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	search  textinput.Model
	theme   Theme

	width  int
	height int
	ready  bool

	cursor int
	status string
	modal  Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	copyText := opts.Clipboard
	if copyText == nil {
		copyText = clipboard.WriteAll
	}
	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	ti := textinput.New()
	ti.Placeholder = "Search photos..."
	ti.Prompt = ""
	ti.CharLimit = 100
	ti.Width = 40

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:       ctx,
		ctrl:      opts.Controller,
		log:       log,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logPath:   opts.LogPath,
		copyText:  copyText,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   sp,
		search:    ti,
		theme:     GetTheme(opts.Prefs.Theme),
	}
}

// Init implements tea.Model. The gallery opens on a random page.
func (m Model) Init() tea.Cmd {
	return m.dispatch(m.ctrl.LoadRandom())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		if m.modal != nil {
			var cmd tea.Cmd
			m.modal, cmd, _ = m.modal.Update(msg, m.keys)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case resultMsg:
		return m.handleResult(gallery.Result(msg))

	case noticeExpiredMsg:
		if n := m.ctrl.Snapshot().Notice; !n.Empty() && n.At.Equal(msg.at) {
			m.ctrl.ClearNotice()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ctrl.Snapshot().Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.modal != nil {
		var cmd tea.Cmd
		m.modal, cmd, _ = m.modal.Update(msg, m.keys)
		return m, cmd
	}
	if m.search.Focused() {
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	st := m.ctrl.Snapshot()
	if st.Selected != nil {
		return m.renderDetail(st)
	}
	return m.renderMain(st)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.modal != nil {
		var (
			cmd    tea.Cmd
			closed bool
		)
		m.modal, cmd, closed = m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		}
		return m, cmd
	}

	if m.search.Focused() {
		return m.handleSearchKey(msg)
	}

	m.status = ""
	st := m.ctrl.Snapshot()
	if st.Selected != nil {
		if model, cmd, handled := m.handleDetailKey(msg, *st.Selected); handled {
			return model, cmd
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.modal = helpModal{}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Columns):
		m.prefs.Columns = nextColumns(m.prefs.Columns)
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		m.modal = newLogModal(m.logPath, m.theme, m.width, m.height)
		return m, readLogCmd(m.logPath)

	case key.Matches(msg, m.keys.Random):
		return m, m.dispatch(m.ctrl.LoadRandom())

	case key.Matches(msg, m.keys.Search) && st.Selected == nil:
		m.search.SetValue(st.PendingQuery)
		m.search.CursorEnd()
		cmd := m.search.Focus()
		return m, cmd
	}

	if st.Selected != nil {
		return m, nil
	}
	return m.handleGridKey(msg, len(st.Images))
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		req := m.ctrl.RunSearch()
		m.search.SetValue("")
		m.search.Blur()
		return m, m.dispatch(req)

	case key.Matches(msg, m.keys.Escape):
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.ctrl.SetQuery(m.search.Value())
	return m, cmd
}

func (m Model) handleResult(res gallery.Result) (tea.Model, tea.Cmd) {
	before := m.ctrl.Snapshot().Notice
	if !m.ctrl.Apply(res) {
		return m, nil
	}
	st := m.ctrl.Snapshot()
	if res.Err == nil {
		m.cursor = 0
	}
	m.cursor = clamp(m.cursor, 0, max(len(st.Images)-1, 0))

	if !st.Notice.Empty() && !st.Notice.At.Equal(before.At) {
		return m, noticeExpiryCmd(st.Notice.At)
	}
	return m, nil
}

func (m Model) dispatch(req gallery.Request) tea.Cmd {
	return tea.Batch(runRequestCmd(m.ctx, req), m.spinner.Tick)
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// Messages

type resultMsg gallery.Result

type noticeExpiredMsg struct {
	at time.Time
}

// Commands

func runRequestCmd(ctx context.Context, req gallery.Request) tea.Cmd {
	return func() tea.Msg {
		return resultMsg(req.Run(ctx))
	}
}

func noticeExpiryCmd(at time.Time) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{at: at}
	})
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	if _, err := p.Run(); err != nil && m.ctx.Err() == nil {
		return err
	}
	return nil
}
