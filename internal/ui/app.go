package ui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/prefs"
	"github.com/naotimes/naotimes-cli/internal/project"
	"github.com/naotimes/naotimes-cli/internal/search"
	"github.com/naotimes/naotimes-cli/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewDashboard View = iota
	ViewProject
)

const noticeTTL = 4 * time.Second

// Options configures the UI.
type Options struct {
	Context     context.Context
	Gateway     naotimes.Gateway
	Coordinator *project.Coordinator
	Store       *state.Store
	Logger      *slog.Logger
	PollTick    time.Duration
	DarkMode    bool
	PrefsPath   string
}

// notice is a transient message shown in the footer.
type notice struct {
	id      int
	text    string
	isError bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	gw        naotimes.Gateway
	coord     *project.Coordinator
	store     *state.Store
	logger    *slog.Logger
	prefsPath string
	pollTick  time.Duration

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	darkMode    bool
	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool
	notice      notice

	// Dashboard state
	snapshot    state.Snapshot
	selectedRow int

	// Search state
	searching     bool
	searchInput   textinput.Model
	searcher      *search.Searcher
	searchResults []naotimes.ProjectSummary
	searchQuery   string

	// Project state
	project *projectView

	// Active modal, nil when none
	modal modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = 15 * time.Second
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	coord := opts.Coordinator
	if coord == nil && opts.Gateway != nil {
		coord = project.NewCoordinator(project.NewSyncContext(opts.Gateway, logger))
	}

	input := textinput.New()
	input.Placeholder = "Search projects"
	input.Prompt = "/ "
	input.CharLimit = 100

	m := Model{
		ctx:         ctx,
		gw:          opts.Gateway,
		coord:       coord,
		store:       opts.Store,
		logger:      logger,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		theme:       ThemeFor(opts.DarkMode),
		darkMode:    opts.DarkMode,
		currentView: ViewDashboard,
		searchInput: input,
	}
	if opts.Gateway != nil {
		m.searcher = search.NewSearcher(ctx, opts.Gateway, search.DefaultDelay, logger)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	// Fetch snapshot immediately on start
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.searcher != nil {
		cmds = append(cmds, waitSearchCmd(m.ctx, m.searcher))
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
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.clampSelection()
		return m, nil

	case searchResultMsg:
		return m.handleSearchResult(msg)

	case projectLoadedMsg:
		return m.handleProjectLoaded(msg)

	case statusResultMsg:
		return m.handleStatusResult(msg)

	case releaseResultMsg:
		return m.handleReleaseResult(msg)

	case removeResultMsg:
		return m.handleRemoveResult(msg)

	case addResultMsg:
		return m.handleAddResult(msg)

	case staffResultMsg:
		return m.handleStaffResult(msg)

	case noticeExpiredMsg:
		if int(msg) == m.notice.id {
			m.notice = notice{id: m.notice.id}
		}
		return m, nil
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

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch m.currentView {
	case ViewProject:
		b.WriteString(m.renderProject())
	default:
		b.WriteString(m.renderDashboard())
	}

	if m.modal != nil {
		b.WriteString("\n")
		b.WriteString(m.modal.View(m.theme, m.width))
	}

	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		return m.handleModalKey(msg)
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	if m.currentView == ViewProject && m.project != nil && m.project.editing() {
		return m.handleEditKey(msg)
	}

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Quit) && m.currentView == ViewDashboard:
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleTheme):
		return m.toggleTheme()
	}

	switch m.currentView {
	case ViewProject:
		return m.handleProjectKey(msg)
	default:
		return m.handleDashboardKey(msg)
	}
}

// toggleTheme flips dark mode and persists the choice.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	m.darkMode = !m.darkMode
	m.theme = ThemeFor(m.darkMode)
	dark := m.darkMode
	if err := prefs.Update(m.prefsPath, func(p *prefs.Prefs) { p.DarkMode = dark }); err != nil {
		m.logger.Warn("save prefs failed", "error", err)
	}
	return m, nil
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// notify shows text in the footer for a few seconds.
func (m *Model) notify(text string, isError bool) tea.Cmd {
	m.notice = notice{id: m.notice.id + 1, text: text, isError: isError}
	id := m.notice.id
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg(id)
	})
}

// notifyOutcome turns a card outcome into a notice.
func (m *Model) notifyOutcome(out project.Outcome, success string) tea.Cmd {
	switch out.Kind {
	case project.OutcomeFailed:
		return m.notify(out.Message, true)
	case project.OutcomeCommitted:
		if success != "" {
			return m.notify(success, false)
		}
	}
	return nil
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type searchResultMsg search.Result

type noticeExpiredMsg int

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func waitSearchCmd(ctx context.Context, s *search.Searcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case res := <-s.Results():
			return searchResultMsg(res)
		case <-ctx.Done():
			return nil
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if m.searcher != nil {
		m.searcher.Stop()
	}
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
