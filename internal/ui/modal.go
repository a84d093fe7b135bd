package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/project"
)

// modal is a dialog drawn below the active view that captures all keys.
type modal interface {
	View(theme Theme, width int) string
}

func textinputBlink() tea.Cmd {
	return textinput.Blink
}

// removeModal confirms an episode removal with a typed phrase.
type removeModal struct {
	card  *project.Card
	input textinput.Model
}

func newRemoveModal(card *project.Card) *removeModal {
	input := textinput.New()
	input.Prompt = "> "
	input.Placeholder = "verification phrase"
	input.Focus()
	return &removeModal{card: card, input: input}
}

func (r *removeModal) View(theme Theme, width int) string {
	styles := theme.Styles()
	var b strings.Builder
	b.WriteString(styles.DangerText.Render(fmt.Sprintf("Remove episode %d?", r.card.Number)))
	b.WriteString("\n\n")
	if r.card.Removal.RequiresPhrase() {
		b.WriteString("Type ")
		b.WriteString(styles.WarningText.Render(r.card.Removal.Phrase()))
		b.WriteString(" to confirm\n")
		b.WriteString(r.input.View())
		b.WriteString("\n\n")
	}
	switch {
	case r.card.Removal.State() == project.RemovalRemoving:
		b.WriteString(styles.WarningText.Render("Removing..."))
	case r.card.Removal.CanConfirm(r.input.Value()):
		b.WriteString(styles.Text.Render("enter remove  esc cancel"))
	default:
		b.WriteString(styles.MutedText.Render("esc cancel"))
	}
	return styles.Modal.Width(min(max(width-4, 20), 60)).Render(b.String())
}

type promptKind int

const (
	promptAddEpisodes promptKind = iota
	promptAssignStaff
)

// promptModal asks for one line of input.
type promptModal struct {
	kind  promptKind
	label string
	input textinput.Model
}

func newPromptModal(kind promptKind, label string) *promptModal {
	input := textinput.New()
	input.Prompt = "> "
	input.CharLimit = 64
	input.Focus()
	return &promptModal{kind: kind, label: label, input: input}
}

func (p *promptModal) View(theme Theme, width int) string {
	styles := theme.Styles()
	body := styles.AccentText.Render(p.label) + "\n\n" + p.input.View() + "\n\n" +
		styles.MutedText.Render("enter submit  esc cancel")
	return styles.Modal.Width(min(max(width-4, 20), 60)).Render(body)
}

// handleModalKey routes keys to the active modal.
func (m Model) handleModalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch d := m.modal.(type) {
	case *removeModal:
		return m.handleRemoveModalKey(d, msg)
	case *promptModal:
		return m.handlePromptKey(d, msg)
	}
	m.modal = nil
	return m, nil
}

func (m Model) handleRemoveModalKey(d *removeModal, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	removal := d.card.Removal
	if removal.State() == project.RemovalRemoving {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		removal.Cancel()
		m.modal = nil
		return m, nil
	case tea.KeyEnter:
		if err := removal.Confirm(d.input.Value()); err != nil {
			return m, nil
		}
		gw, ctx, id, number := m.gw, m.ctx, m.project.id, d.card.Number
		return m, func() tea.Msg {
			res, err := gw.RemoveEpisode(ctx, id, []int{number})
			return removeResultMsg{number: number, res: res, err: err}
		}
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return m, cmd
}

func (m Model) handlePromptKey(d *promptModal, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.modal = nil
		return m, nil
	case tea.KeyEnter:
		value := d.input.Value()
		switch d.kind {
		case promptAddEpisodes:
			return m.submitAddEpisodes(value)
		case promptAssignStaff:
			return m.submitAssignStaff(value)
		}
		m.modal = nil
		return m, nil
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return m, cmd
}

func (m Model) submitAddEpisodes(value string) (tea.Model, tea.Cmd) {
	numbers, err := project.ParseEpisodes(value)
	if err != nil {
		return m, m.notify(err.Error(), true)
	}
	m.modal = nil
	gw, ctx, id := m.gw, m.ctx, m.project.id
	return m, func() tea.Msg {
		res, err := gw.AddEpisodes(ctx, id, numbers)
		return addResultMsg{numbers: numbers, res: res, err: err}
	}
}

func (m Model) submitAssignStaff(value string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(value)
	if len(fields) != 2 {
		return m, m.notify("Enter a role and a user id", true)
	}
	role, ok := naotimes.ParseRole(fields[0])
	if !ok {
		return m, m.notify(naotimes.RenderError(naotimes.KindInvalidRole, naotimes.Params{}), true)
	}
	staff := m.project.staff
	if err := staff.Begin(); err != nil {
		return m, nil
	}
	m.modal = nil
	coord, ctx, detail, userID := m.coord, m.ctx, staff.Detail(), fields[1]
	return m, func() tea.Msg {
		updated, out := coord.AssignStaff(ctx, detail, role, userID)
		return staffResultMsg{detail: updated, out: out}
	}
}
