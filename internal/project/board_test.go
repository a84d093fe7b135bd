package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

func TestBoard_DeduplicatesAndEmits(t *testing.T) {
	detail := &naotimes.ProjectDetail{
		ID:       "p1",
		Episodes: []naotimes.EpisodeStatus{{Number: 1}, {Number: 1, Released: true}, {Number: 2}},
	}
	var snapshots [][]naotimes.EpisodeStatus
	board := NewBoard(detail, func(eps []naotimes.EpisodeStatus) { snapshots = append(snapshots, eps) })

	require.Len(t, board.Episodes(), 2)
	ep, ok := board.Episode(1)
	require.True(t, ok)
	assert.False(t, ep.Released, "first occurrence wins")

	assert.False(t, board.Merge(board.Episodes()), "merging the same list is not a change")
	assert.Empty(t, snapshots)

	board.Apply(naotimes.EpisodeStatus{Number: 2, Released: true})
	assert.True(t, board.Remove(1))
	assert.False(t, board.Remove(1))
	require.Len(t, snapshots, 2)
	assert.Equal(t, []naotimes.EpisodeStatus{{Number: 2, Released: true}}, snapshots[1])
}

func TestBoard_CardWiring(t *testing.T) {
	board := NewBoard(&naotimes.ProjectDetail{
		ID:       "p1",
		Episodes: []naotimes.EpisodeStatus{{Number: 1}},
	}, nil)
	card := board.NewCard(naotimes.EpisodeStatus{Number: 1})

	_, err := card.Release.Begin()
	require.NoError(t, err)
	card.Release.Resolve(naotimes.MutationResult{Success: true}, nil)

	require.NoError(t, card.Edit.BeginEdit())
	require.NoError(t, card.Edit.Toggle(naotimes.RoleTL))
	_, ok := card.Edit.Finish()
	require.True(t, ok)
	card.Edit.Resolve(&naotimes.ProgressResult{Progress: naotimes.Progress{TL: true}}, nil)

	ep, _ := board.Episode(1)
	assert.True(t, ep.Released, "progress commit keeps the released flag set by the toggle")
	assert.True(t, ep.Progress.TL)

	card.Sync(naotimes.EpisodeStatus{Number: 1, Progress: naotimes.Progress{TL: true, TLC: true}})
	assert.True(t, card.Edit.Episode().Progress.TLC)
	assert.False(t, card.Release.Released())
	card.Sync(naotimes.EpisodeStatus{Number: 99, Released: true})
	assert.False(t, card.Release.Released())
}
