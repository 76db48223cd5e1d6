package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/tally/internal/app"
	"github.com/five82/tally/internal/prefs"
	"github.com/five82/tally/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewLogs
)

// Controller is the slice of app.Session the dashboard drives.
type Controller interface {
	Store() *state.Store
	Prices() *app.PriceTracker
	Start(ctx context.Context, explicit string) (string, error)
	Retry(ctx context.Context)
	Refresh(ctx context.Context)
	ToggleAutoRefresh() bool
	SetVisible(visible bool)
	Close()
}

var _ Controller = (*app.Session)(nil)

// Options configures the UI.
type Options struct {
	Context context.Context
	Session Controller
	// Address is tracked on start; empty defers to the session's resolution.
	Address   string
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string
	Logger    *zap.Logger
	Tick      time.Duration
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx       context.Context
	ctrl      Controller
	address   string
	prefsPath string
	logFile   string
	log       *zap.Logger
	tick      time.Duration
	mailbox   *mailbox

	// UI state
	theme     Theme
	keys      keyMap
	view      View
	width     int
	height    int
	ready     bool
	showHelp  bool
	hideChart bool
	notice    string
	noticeAt  time.Time

	// Data state
	snap     state.State
	quote    app.Quote
	now      time.Time
	starting bool
	startErr error

	spinner  spinner.Model
	progress progress.Model

	logView   viewport.Model
	logFollow bool
	logErr    error
}

// New creates the dashboard model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	tick := opts.Tick
	if tick <= 0 {
		tick = time.Second
	}

	theme := GetTheme(opts.Prefs.Theme)
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))

	m := Model{
		ctx:       ctx,
		ctrl:      opts.Session,
		address:   opts.Address,
		prefsPath: opts.PrefsPath,
		logFile:   opts.LogFile,
		log:       logger,
		tick:      tick,
		mailbox:   newMailbox(),
		theme:     theme,
		keys:      DefaultKeyMap(),
		hideChart: opts.Prefs.HideChart,
		now:       time.Now(),
		quote:     app.Quote{USD: app.DefaultSOLPrice},
		spinner:   s,
		progress:  newProgressBar(theme),
		logFollow: true,
	}
	if m.ctrl != nil {
		m.snap = m.ctrl.Store().State()
		m.quote = m.ctrl.Prices().Quote()
		m.starting = true
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForSnapshot(m.ctx, m.mailbox),
		tickCmd(m.tick),
		m.spinner.Tick,
	}
	if m.ctrl != nil {
		cmds = append(cmds, startCmd(m.ctx, m.ctrl, m.address))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.logView = viewport.New(msg.Width, m.bodyHeight())
		}
		m.ready = true
		m.resizeLogView()
		return m, nil

	case tea.FocusMsg:
		return m, visibilityCmd(m.ctrl, true)

	case tea.BlurMsg:
		return m, visibilityCmd(m.ctrl, false)

	case tea.ResumeMsg:
		return m, visibilityCmd(m.ctrl, true)

	case tickMsg:
		return m.handleTick(time.Time(msg))

	case snapshotMsg:
		m.snap = state.State(msg)
		return m, waitForSnapshot(m.ctx, m.mailbox)

	case startedMsg:
		m.starting = false
		m.startErr = msg.err
		if msg.err == nil {
			m.address = msg.address
		} else {
			m.log.Warn("start failed", zap.Error(msg.err))
		}
		return m, nil

	case logsMsg:
		m.applyLogs(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	body := m.renderDashboard(m.width, m.bodyHeight())
	if m.view == ViewLogs {
		body = m.renderLogs()
	}
	body = lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Render(body)

	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		if !key.Matches(msg, m.keys.Quit) {
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Suspend):
		return m, tea.Sequence(visibilityCmd(m.ctrl, false), tea.Suspend)

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Retry):
		return m.retry()

	case key.Matches(msg, m.keys.Refresh):
		if m.ctrl == nil || !m.snap.Tracking() {
			return m, nil
		}
		m.setNotice("Refreshing")
		return m, refreshCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.AutoRefresh):
		if m.ctrl == nil {
			return m, nil
		}
		if m.ctrl.ToggleAutoRefresh() {
			m.setNotice("Auto-refresh on")
		} else {
			m.setNotice("Auto-refresh off")
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.progress = newProgressBar(m.theme)
		m.spinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Accent))
		m.savePrefs()
		m.setNotice("Theme: " + m.theme.Name)
		return m, nil

	case key.Matches(msg, m.keys.ToggleChart):
		m.hideChart = !m.hideChart
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ToggleLogs):
		if m.view == ViewLogs {
			m.view = ViewDashboard
			return m, nil
		}
		m.view = ViewLogs
		return m, loadLogsCmd(m.logFile)
	}

	if m.view == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m, nil
}

// retry restarts tracking after a fatal error. When the address could not
// be resolved the whole start sequence runs again.
func (m Model) retry() (tea.Model, tea.Cmd) {
	if m.ctrl == nil || m.starting {
		return m, nil
	}
	if m.startErr != nil {
		m.starting = true
		m.startErr = nil
		return m, startCmd(m.ctx, m.ctrl, m.address)
	}
	if m.snap.Error == "" {
		return m, nil
	}
	m.setNotice("Retrying")
	return m, retryCmd(m.ctx, m.ctrl)
}

func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	m.now = now
	if m.ctrl != nil {
		m.quote = m.ctrl.Prices().Quote()
	}
	if m.notice != "" && now.Sub(m.noticeAt) > 4*time.Second {
		m.notice = ""
	}

	cmds := []tea.Cmd{tickCmd(m.tick)}
	if m.view == ViewLogs && m.logFollow {
		cmds = append(cmds, loadLogsCmd(m.logFile))
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) setNotice(text string) {
	m.notice = text
	m.noticeAt = m.now
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, HideChart: m.hideChart}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn("save preferences", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

// bodyHeight is the space left between the header and footer lines.
func (m Model) bodyHeight() int {
	return max(m.height-2, 1)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.State

type startedMsg struct {
	address string
	err     error
}

// mailbox holds at most one pending snapshot. Store listeners run under the
// store's commit lock, so push never blocks; a newer snapshot replaces an
// unread one.
type mailbox struct {
	ch chan state.State
}

func newMailbox() *mailbox {
	return &mailbox{ch: make(chan state.State, 1)}
}

func (mb *mailbox) push(st state.State) {
	select {
	case <-mb.ch:
	default:
	}
	select {
	case mb.ch <- st:
	default:
	}
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitForSnapshot(ctx context.Context, mb *mailbox) tea.Cmd {
	return func() tea.Msg {
		select {
		case st := <-mb.ch:
			return snapshotMsg(st)
		case <-ctx.Done():
			return nil
		}
	}
}

func startCmd(ctx context.Context, ctrl Controller, address string) tea.Cmd {
	return func() tea.Msg {
		addr, err := ctrl.Start(ctx, address)
		return startedMsg{address: addr, err: err}
	}
}

func retryCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Retry(ctx)
		return nil
	}
}

func refreshCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		ctrl.Refresh(ctx)
		return nil
	}
}

func visibilityCmd(ctrl Controller, visible bool) tea.Cmd {
	if ctrl == nil {
		return nil
	}
	return func() tea.Msg {
		ctrl.SetVisible(visible)
		return nil
	}
}

// Run starts the Bubble Tea program and blocks until the user quits or the
// context ends. Tracking stops before Run returns.
func Run(opts Options) error {
	if opts.Session == nil {
		return errors.New("ui requires a session")
	}
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := New(opts)
	store := opts.Session.Store()
	unsubscribe := store.Watch(m.mailbox.push)
	defer unsubscribe()
	defer opts.Session.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(opts.Context),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && opts.Context.Err() != nil {
		return nil
	}
	return err
}
