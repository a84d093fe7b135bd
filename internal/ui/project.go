package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/project"
)

// projectView is the open project: its board, one card per episode and
// the cursor.
type projectView struct {
	id       string
	detail   *naotimes.ProjectDetail
	board    *project.Board
	cards    map[int]*project.Card
	staff    *project.StaffEditor
	selected int
	role     int
	loading  bool
}

func newProjectView(id string) *projectView {
	return &projectView{id: id, loading: true, cards: make(map[int]*project.Card)}
}

func (p *projectView) title() string {
	if p.detail == nil || p.detail.Title == "" {
		return "Project " + p.id
	}
	return p.detail.Title
}

// attach seeds the board from a freshly loaded detail.
func (p *projectView) attach(coord *project.Coordinator, detail *naotimes.ProjectDetail) {
	p.detail = detail
	p.loading = false
	p.board = coord.OpenBoard(detail, p.syncCards)
	p.staff = project.NewStaffEditor(coord, detail)
	p.syncCards(p.board.Episodes())
}

// syncCards keeps one card per episode on the board.
func (p *projectView) syncCards(episodes []naotimes.EpisodeStatus) {
	seen := make(map[int]struct{}, len(episodes))
	for _, ep := range episodes {
		seen[ep.Number] = struct{}{}
		if card, ok := p.cards[ep.Number]; ok {
			card.Sync(ep)
			continue
		}
		p.cards[ep.Number] = p.board.NewCard(ep)
	}
	for number := range p.cards {
		if _, ok := seen[number]; !ok {
			delete(p.cards, number)
		}
	}
	if p.selected >= len(episodes) {
		p.selected = max(len(episodes)-1, 0)
	}
}

// current returns the card under the cursor.
func (p *projectView) current() *project.Card {
	if p == nil || p.board == nil {
		return nil
	}
	eps := p.board.Episodes()
	if p.selected < 0 || p.selected >= len(eps) {
		return nil
	}
	return p.cards[eps[p.selected].Number]
}

func (p *projectView) editing() bool {
	card := p.current()
	return card != nil && card.Edit.State() == project.Editing
}

func (p *projectView) cursorRole() naotimes.Role {
	roles := naotimes.Roles()
	return roles[p.role%len(roles)]
}

// Messages

type projectLoadedMsg struct {
	id      string
	detail  *naotimes.ProjectDetail
	err     error
	refresh bool
}

type statusResultMsg struct {
	number int
	res    *naotimes.ProgressResult
	err    error
}

type releaseResultMsg struct {
	number int
	res    naotimes.MutationResult
	err    error
}

type removeResultMsg struct {
	number int
	res    naotimes.MutationResult
	err    error
}

type addResultMsg struct {
	numbers []int
	res     naotimes.AddEpisodesResult
	err     error
}

type staffResultMsg struct {
	detail *naotimes.ProjectDetail
	out    project.Outcome
}

// openProject switches to the project view and loads the detail.
func (m Model) openProject(id string) (tea.Model, tea.Cmd) {
	if m.coord == nil {
		return m, nil
	}
	m.currentView = ViewProject
	m.project = newProjectView(id)
	return m, m.loadProjectCmd(id, false)
}

func (m Model) loadProjectCmd(id string, force bool) tea.Cmd {
	coord, ctx := m.coord, m.ctx
	return func() tea.Msg {
		detail, err := coord.LoadProject(ctx, id, force)
		return projectLoadedMsg{id: id, detail: detail, err: err, refresh: force}
	}
}

func (m Model) handleProjectLoaded(msg projectLoadedMsg) (tea.Model, tea.Cmd) {
	if m.project == nil || m.project.id != msg.id {
		return m, nil
	}
	if msg.err != nil {
		// Without a board the view stays in its no-data state until r retries.
		m.project.loading = false
		return m, m.notify(project.LoadFailureMessage(msg.id, msg.err), true)
	}
	if msg.refresh && m.project.board != nil {
		m.project.detail = msg.detail
		if !m.project.staff.Submitting() {
			m.project.staff = project.NewStaffEditor(m.coord, msg.detail)
		}
		m.project.board.Merge(msg.detail.Episodes)
		return m, m.notify("Project refreshed", false)
	}
	m.project.attach(m.coord, msg.detail)
	return m, nil
}

// handleProjectKey processes keys on the episode list.
func (m Model) handleProjectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.project
	if p == nil {
		m.currentView = ViewDashboard
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back), key.Matches(msg, m.keys.Quit):
		m.currentView = ViewDashboard
		m.project = nil
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		if p.board == nil {
			p.loading = true
		}
		return m, m.loadProjectCmd(p.id, true)
	}

	if p.board == nil {
		return m, nil
	}
	n := len(p.board.Episodes())

	switch {
	case key.Matches(msg, m.keys.Down):
		if p.selected < n-1 {
			p.selected++
		}
	case key.Matches(msg, m.keys.Up):
		if p.selected > 0 {
			p.selected--
		}
	case key.Matches(msg, m.keys.Edit):
		if card := p.current(); card != nil {
			if err := card.Edit.BeginEdit(); err != nil {
				return m, m.notify("Please wait for the previous update", true)
			}
		}
	case key.Matches(msg, m.keys.ToggleRelease):
		return m.toggleRelease()
	case key.Matches(msg, m.keys.Remove):
		if card := p.current(); card != nil {
			if err := card.Removal.Request(true); err != nil {
				return m, nil
			}
			m.modal = newRemoveModal(card)
			return m, textinputBlink()
		}
	case key.Matches(msg, m.keys.AddEpisode):
		m.modal = newPromptModal(promptAddEpisodes, "Episodes to add (e.g. 13 or 13-24)")
		return m, textinputBlink()
	case key.Matches(msg, m.keys.AssignStaff):
		if p.staff != nil && !p.staff.Submitting() {
			m.modal = newPromptModal(promptAssignStaff, "Role and user id (e.g. QC 1234)")
			return m, textinputBlink()
		}
	}
	return m, nil
}

// handleEditKey processes keys while a card is in Editing.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.project
	card := p.current()
	roles := naotimes.Roles()

	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		p.role = (p.role + len(roles) - 1) % len(roles)
	case key.Matches(msg, m.keys.Right):
		p.role = (p.role + 1) % len(roles)
	case key.Matches(msg, m.keys.ToggleRole):
		_ = card.Edit.Toggle(p.cursorRole())
	case key.Matches(msg, m.keys.Back):
		card.Edit.Cancel()
	case key.Matches(msg, m.keys.Submit):
		req, ok := card.Edit.Finish()
		if !ok {
			return m, nil
		}
		gw, ctx := m.gw, m.ctx
		return m, func() tea.Msg {
			res, err := gw.UpdateEpisodeStatus(ctx, req.ProjectID, req.Episode, req.Roles)
			return statusResultMsg{number: req.Episode, res: res, err: err}
		}
	}
	return m, nil
}

func (m Model) handleStatusResult(msg statusResultMsg) (tea.Model, tea.Cmd) {
	card := m.cardFor(msg.number)
	if card == nil {
		return m, nil
	}
	out := card.Edit.Resolve(msg.res, msg.err)
	return m, m.notifyOutcome(out, fmt.Sprintf("Episode %d updated", msg.number))
}

func (m Model) toggleRelease() (tea.Model, tea.Cmd) {
	card := m.project.current()
	if card == nil {
		return m, nil
	}
	target, err := card.Release.Begin()
	if err != nil {
		return m, nil
	}
	gw, ctx, id, number := m.gw, m.ctx, m.project.id, card.Number
	return m, func() tea.Msg {
		res, err := gw.UpdateReleaseStatus(ctx, id, number, target)
		return releaseResultMsg{number: number, res: res, err: err}
	}
}

func (m Model) handleReleaseResult(msg releaseResultMsg) (tea.Model, tea.Cmd) {
	card := m.cardFor(msg.number)
	if card == nil {
		return m, nil
	}
	out := card.Release.Resolve(msg.res, msg.err)
	text := fmt.Sprintf("Episode %d marked as released", msg.number)
	if !out.Episode.Released {
		text = fmt.Sprintf("Episode %d marked as unreleased", msg.number)
	}
	return m, m.notifyOutcome(out, text)
}

func (m Model) handleRemoveResult(msg removeResultMsg) (tea.Model, tea.Cmd) {
	m.modal = nil
	card := m.cardFor(msg.number)
	if card == nil {
		return m, nil
	}
	out := card.Removal.Resolve(msg.res, msg.err)
	return m, m.notifyOutcome(out, fmt.Sprintf("Episode %d removed", msg.number))
}

func (m Model) handleAddResult(msg addResultMsg) (tea.Model, tea.Cmd) {
	if m.project == nil || m.project.board == nil {
		return m, nil
	}
	out := m.coord.ApplyAdded(m.project.board, msg.numbers, msg.res, msg.err)
	return m, m.notifyOutcome(out, fmt.Sprintf("Added %d episode(s)", len(msg.res.Episodes)))
}

func (m Model) handleStaffResult(msg staffResultMsg) (tea.Model, tea.Cmd) {
	if m.project == nil || m.project.staff == nil {
		return m, nil
	}
	out := m.project.staff.Resolve(msg.detail, msg.out)
	if out.Kind == project.OutcomeCommitted {
		m.project.detail = m.project.staff.Detail()
	}
	return m, m.notifyOutcome(out, "Staff updated")
}

// cardFor finds the card of an episode on the open project.
func (m Model) cardFor(number int) *project.Card {
	if m.project == nil {
		return nil
	}
	return m.project.cards[number]
}

// renderProject renders the open project's staff and episode cards.
func (m Model) renderProject() string {
	styles := m.theme.Styles()
	p := m.project
	if p == nil || p.loading {
		return styles.MutedText.Render("Loading project...")
	}
	if p.board == nil {
		return styles.MutedText.Render("Project unavailable, press r to retry or esc to go back")
	}

	var b strings.Builder
	b.WriteString(m.renderStaff())
	b.WriteString("\n\n")

	eps := p.board.Episodes()
	if len(eps) == 0 {
		b.WriteString(styles.MutedText.Render("No episodes"))
		return b.String()
	}

	// Show a window of cards around the cursor.
	perPage := max((m.height-8)/5, 1)
	start := max(p.selected-perPage/2, 0)
	end := min(start+perPage, len(eps))
	start = max(end-perPage, 0)

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, m.renderCard(eps[i], i == p.selected))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	return b.String()
}

func (m Model) renderStaff() string {
	styles := m.theme.Styles()
	parts := make([]string, 0, len(naotimes.Roles()))
	for _, role := range naotimes.Roles() {
		name := "-"
		if member := m.project.detail.Assignee(role); member != nil {
			name = member.Name
		}
		parts = append(parts, styles.AccentText.Render(string(role))+" "+styles.Text.Render(name))
	}
	line := strings.Join(parts, "  ")
	if m.project.staff != nil && m.project.staff.Submitting() {
		line += "  " + styles.WarningText.Render("saving...")
	}
	return line
}

func (m Model) renderCard(ep naotimes.EpisodeStatus, focused bool) string {
	styles := m.theme.Styles()
	card := m.project.cards[ep.Number]

	title := styles.Text.Bold(true).Render(fmt.Sprintf("Episode %d", ep.Number))
	status := styles.MutedText.Render(statusLabel(ep))
	if ep.Released {
		status = styles.SuccessText.Render(statusLabel(ep))
	}
	header := title + "  " + status + "  " + styles.FaintText.Render(airLabel(ep, time.Now()))

	progress := ep.Progress
	editing := card != nil && card.Edit.State() != project.Viewing
	if editing {
		progress = card.Edit.Buffer()
	}
	chips := make([]string, 0, len(naotimes.Roles()))
	for i, role := range naotimes.Roles() {
		style := styles.RolePending
		if progress.Get(role) {
			style = styles.RoleDone
		}
		if editing && focused && card.Edit.State() == project.Editing && i == m.project.role {
			style = styles.RoleCursor
		}
		chips = append(chips, style.Render(string(role)))
	}

	var flags []string
	if card != nil {
		switch card.Edit.State() {
		case project.Editing:
			flags = append(flags, styles.InfoText.Render("editing: space toggles, enter saves"))
		case project.Submitting:
			flags = append(flags, styles.WarningText.Render("saving..."))
		}
		if card.Release.Submitting() {
			flags = append(flags, styles.WarningText.Render("updating release..."))
		}
	}

	body := header + "\n" + strings.Join(chips, " ")
	if len(flags) > 0 {
		body += "\n" + strings.Join(flags, "  ")
	}

	style := styles.Card
	if focused {
		style = styles.CardFocus
	}
	return style.Width(max(m.width-4, 20)).Render(body)
}
