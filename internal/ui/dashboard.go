package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// visibleProjects returns search results while a query is active, the
// polled dashboard otherwise.
func (m Model) visibleProjects() []naotimes.ProjectSummary {
	if m.searchQuery != "" {
		return m.searchResults
	}
	return m.snapshot.Projects
}

func (m *Model) clampSelection() {
	n := len(m.visibleProjects())
	if m.selectedRow >= n {
		m.selectedRow = n - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
}

// handleDashboardKey processes keyboard input for the project list.
func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	items := m.visibleProjects()

	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.Back):
		m.clearSearch()
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshDashboardCmd()
	case key.Matches(msg, m.keys.Down):
		if m.selectedRow < len(items)-1 {
			m.selectedRow++
		}
	case key.Matches(msg, m.keys.Up):
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case key.Matches(msg, m.keys.Open):
		if m.selectedRow < len(items) {
			return m.openProject(items[m.selectedRow].ID)
		}
	}
	return m, nil
}

// handleSearchKey feeds the search box. Every change goes through the
// debouncer; nothing is sent until typing pauses.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.clearSearch()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	before := m.searchInput.Value()
	m.searchInput, cmd = m.searchInput.Update(msg)
	if value := m.searchInput.Value(); value != before {
		m.searchQuery = strings.TrimSpace(value)
		if m.searchQuery == "" {
			m.searchResults = nil
		}
		if m.searcher != nil {
			m.searcher.Type(value)
		}
		m.selectedRow = 0
	}
	return m, cmd
}

func (m *Model) clearSearch() {
	m.searching = false
	m.searchInput.Blur()
	m.searchInput.SetValue("")
	m.searchQuery = ""
	m.searchResults = nil
	if m.searcher != nil {
		m.searcher.Stop()
	}
	m.clampSelection()
}

func (m Model) handleSearchResult(msg searchResultMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{waitSearchCmd(m.ctx, m.searcher)}
	// Results for a query the user has already replaced are dropped.
	if strings.TrimSpace(msg.Query) != m.searchQuery {
		return m, tea.Batch(cmds...)
	}
	if msg.Err != nil {
		cmds = append(cmds, m.notify(naotimes.Describe(msg.Err, naotimes.Params{}), true))
		return m, tea.Batch(cmds...)
	}
	m.searchResults = msg.Projects
	m.clampSelection()
	return m, tea.Batch(cmds...)
}

func (m Model) refreshDashboardCmd() tea.Cmd {
	if m.gw == nil || m.store == nil {
		return nil
	}
	gw, store, ctx := m.gw, m.store, m.ctx
	return func() tea.Msg {
		projects, err := gw.FetchProjects(ctx)
		store.Update(projects, err)
		return snapshotMsg(store.Snapshot())
	}
}

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bar := newBarStyle(m.theme.Surface)
	parts := []string{bar.Render("naoTimes", styles.Logo)}

	switch {
	case m.snapshot.IsOffline():
		parts = append(parts, bar.Render("OFFLINE", styles.DangerText), bar.Render("Retrying...", styles.WarningText))
	case m.snapshot.LastError != nil:
		parts = append(parts, bar.Render("Last refresh failed", styles.WarningText))
	case !m.snapshot.HasProjects:
		parts = append(parts, bar.Render("Connecting...", styles.MutedText))
	default:
		parts = append(parts, bar.Render(fmt.Sprintf("%d projects", len(m.snapshot.Projects)), styles.SuccessText))
	}
	if !m.snapshot.LastUpdated.IsZero() {
		parts = append(parts, bar.Render("updated "+humanize.Time(m.snapshot.LastUpdated), styles.MutedText))
	}
	if m.currentView == ViewProject && m.project != nil {
		parts = append(parts, bar.Render(m.project.title(), styles.AccentText))
	}

	return bar.Fill(bar.space+bar.Join(parts, "  "), m.width)
}

// renderDashboard renders the project list.
func (m Model) renderDashboard() string {
	styles := m.theme.Styles()
	var b strings.Builder

	if m.searching || m.searchQuery != "" {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n\n")
	}

	items := m.visibleProjects()
	if len(items) == 0 {
		switch {
		case m.searchQuery != "":
			b.WriteString(styles.MutedText.Render("No projects match " + fmt.Sprintf("%q", m.searchQuery)))
		case m.snapshot.HasProjects:
			b.WriteString(styles.MutedText.Render("No projects yet"))
		default:
			b.WriteString(styles.MutedText.Render("Waiting for the server..."))
		}
		return b.String()
	}

	for i, p := range items {
		line := fmt.Sprintf("%-40s %s", truncate(p.Title, 40), projectProgress(p))
		if p.UpdatedAt > 0 {
			line += "  " + styles.FaintText.Render(humanize.Time(time.Unix(p.UpdatedAt, 0)))
		}
		if i == m.selectedRow {
			line = styles.Selected.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderFooter shows the active notice or the key hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	if m.notice.text != "" {
		style := styles.SuccessText
		if m.notice.isError {
			style = styles.DangerText
		}
		return styles.Footer.Width(max(m.width, 0)).Render(style.Render(m.notice.text))
	}
	if m.currentView == ViewProject {
		return m.help.ShortHelpView(m.keys.projectHelp())
	}
	return m.help.View(m.keys)
}

// renderHelp renders the help overlay.
func (m Model) renderHelp() string {
	styles := m.theme.Styles()
	title := styles.Text.Bold(true).Render("Keyboard Shortcuts")
	full := m.help
	full.ShowAll = true
	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		styles.FaintText.Render(strings.Repeat("─", 30)),
		"",
		full.View(m.keys),
		"",
		styles.MutedText.Render("Press any key to close"),
	)
}
