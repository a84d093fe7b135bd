package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/naotimes/mocks"
	"github.com/naotimes/naotimes-cli/internal/prefs"
	"github.com/naotimes/naotimes-cli/internal/project"
	"github.com/naotimes/naotimes-cli/internal/state"
)

func testDetail() *naotimes.ProjectDetail {
	return &naotimes.ProjectDetail{
		ID:    "p1",
		Title: "Bocchi the Rock!",
		Episodes: []naotimes.EpisodeStatus{
			{Number: 1},
			{Number: 2},
		},
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and returns the model and the command it produced.
func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	got, ok := next.(Model)
	require.True(t, ok)
	return got, cmd
}

// resolve runs cmd and feeds its message back into the model.
func resolve(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	m, _ = press(t, m, cmd())
	return m
}

func newTestModel(t *testing.T, gw naotimes.Gateway) Model {
	t.Helper()
	store := &state.Store{}
	store.Update([]naotimes.ProjectSummary{{ID: "p1", Title: "Bocchi the Rock!"}}, nil)

	m := New(Options{
		Context:   context.Background(),
		Gateway:   gw,
		Store:     store,
		DarkMode:  true,
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m, _ = press(t, m, snapshotMsg(store.Snapshot()))
	return m
}

func openTestProject(t *testing.T, gw *mocks.Gateway) Model {
	t.Helper()
	gw.On("FetchProjectDetail", mock.Anything, "p1").Return(testDetail(), nil).Once()

	m := newTestModel(t, gw)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, ViewProject, m.currentView)
	m = resolve(t, m, cmd)
	require.NotNil(t, m.project.board)
	require.Len(t, m.project.cards, 2)
	return m
}

func TestModel_EditCardCommitsServerProgress(t *testing.T) {
	gw := &mocks.Gateway{}
	m := openTestProject(t, gw)

	gw.On("UpdateEpisodeStatus", mock.Anything, "p1", 1, mock.Anything).
		Return(&naotimes.ProgressResult{Progress: naotimes.Progress{TL: true}}, nil).Once()

	m, _ = press(t, m, runes("e"))
	require.True(t, m.project.editing())
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, project.Submitting, m.project.current().Edit.State())

	m = resolve(t, m, cmd)
	ep, ok := m.project.board.Episode(1)
	require.True(t, ok)
	assert.True(t, ep.Progress.TL)
	assert.Equal(t, "Episode 1 updated", m.notice.text)
	gw.AssertExpectations(t)
}

func TestModel_UnchangedEditSendsNothing(t *testing.T) {
	gw := &mocks.Gateway{}
	m := openTestProject(t, gw)

	m, _ = press(t, m, runes("e"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.Equal(t, project.Viewing, m.project.current().Edit.State())
	gw.AssertNotCalled(t, "UpdateEpisodeStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestModel_ReleaseFailureShowsMessage(t *testing.T) {
	gw := &mocks.Gateway{}
	m := openTestProject(t, gw)

	gw.On("UpdateReleaseStatus", mock.Anything, "p1", 1, true).
		Return(naotimes.MutationResult{Code: naotimes.CodeProjectNotFound}, nil).Once()

	m, cmd := press(t, m, runes("R"))
	assert.True(t, m.project.current().Release.Submitting())
	m = resolve(t, m, cmd)

	assert.False(t, m.project.current().Release.Released())
	assert.True(t, m.notice.isError)
	assert.Equal(t, "Project p1 could not be found", m.notice.text)
}

func TestModel_RemoveRequiresPhrase(t *testing.T) {
	gw := &mocks.Gateway{}
	m := openTestProject(t, gw)

	gw.On("RemoveEpisode", mock.Anything, "p1", []int{1}).
		Return(naotimes.MutationResult{Success: true}, nil).Once()

	m, _ = press(t, m, runes("d"))
	d, ok := m.modal.(*removeModal)
	require.True(t, ok)

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "empty input does not confirm")

	m, _ = press(t, m, runes(d.card.Removal.Phrase()))
	m, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = resolve(t, m, cmd)

	assert.Nil(t, m.modal)
	assert.Len(t, m.project.board.Episodes(), 1)
	assert.NotContains(t, m.project.cards, 1)
}

func TestModel_UnavailableProjectStaysInNoDataState(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("FetchProjectDetail", mock.Anything, "p1").Return(nil, errors.New("dial tcp 127.0.0.1:80: connect: connection refused")).Once()
	gw.On("FetchProjectDetail", mock.Anything, "p1").Return(testDetail(), nil).Once()

	m := newTestModel(t, gw)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = resolve(t, m, cmd)

	assert.Equal(t, ViewProject, m.currentView)
	require.NotNil(t, m.project)
	assert.Nil(t, m.project.board)
	assert.False(t, m.project.loading)
	assert.Equal(t, naotimes.TransportMessage, m.notice.text)
	assert.Contains(t, m.renderProject(), "Project unavailable")

	m, cmd = press(t, m, runes("r"))
	assert.True(t, m.project.loading)
	m = resolve(t, m, cmd)

	require.NotNil(t, m.project.board)
	assert.Len(t, m.project.board.Episodes(), len(testDetail().Episodes))
	gw.AssertNumberOfCalls(t, "FetchProjectDetail", 2)
}

func TestModel_MissingProjectUsesServerCode(t *testing.T) {
	gw := &mocks.Gateway{}
	gw.On("FetchProjectDetail", mock.Anything, "p1").Return(nil, &naotimes.APIError{Status: 404, Code: naotimes.CodeProjectNotFound})

	m := newTestModel(t, gw)
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = resolve(t, m, cmd)

	assert.Equal(t, ViewProject, m.currentView)
	assert.Equal(t, "Project p1 could not be found", m.notice.text)
}

func TestModel_ToggleThemePersists(t *testing.T) {
	m := newTestModel(t, &mocks.Gateway{})
	require.True(t, m.darkMode)

	m, _ = press(t, m, runes("T"))
	assert.False(t, m.darkMode)
	assert.Equal(t, "Light", m.theme.Name)
	assert.False(t, prefs.Load(m.prefsPath).DarkMode)
}

func TestModel_StaleSearchResultsAreDropped(t *testing.T) {
	m := newTestModel(t, &mocks.Gateway{})
	m.searchQuery = "frieren"

	m, _ = press(t, m, searchResultMsg{Query: "fri", Projects: []naotimes.ProjectSummary{{ID: "x"}}})
	assert.Empty(t, m.searchResults)

	m, _ = press(t, m, searchResultMsg{Query: "frieren", Projects: []naotimes.ProjectSummary{{ID: "y"}}})
	require.Len(t, m.searchResults, 1)
	assert.Equal(t, "y", m.visibleProjects()[0].ID)
}
