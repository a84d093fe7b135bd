package project

import (
	"slices"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// Board owns the working episode list of one open project. Every mutation
// goes through it and is reported to OnChange.
type Board struct {
	projectID string
	episodes  []naotimes.EpisodeStatus
	onChange  func([]naotimes.EpisodeStatus)
	writeBack func(edit func([]naotimes.EpisodeStatus) []naotimes.EpisodeStatus)
}

// NewBoard seeds a board from detail. Duplicate episode numbers keep the
// first occurrence.
func NewBoard(detail *naotimes.ProjectDetail, onChange func([]naotimes.EpisodeStatus)) *Board {
	b := &Board{onChange: onChange}
	if detail == nil {
		return b
	}
	b.projectID = detail.ID
	for _, ep := range detail.Episodes {
		if indexOfEpisode(b.episodes, ep.Number) < 0 {
			b.episodes = append(b.episodes, ep)
		}
	}
	return b
}

// ProjectID returns the id of the project on the board.
func (b *Board) ProjectID() string { return b.projectID }

// Episodes returns a copy of the working list.
func (b *Board) Episodes() []naotimes.EpisodeStatus {
	return slices.Clone(b.episodes)
}

// Episode returns the working record for number.
func (b *Board) Episode(number int) (naotimes.EpisodeStatus, bool) {
	idx := indexOfEpisode(b.episodes, number)
	if idx < 0 {
		return naotimes.EpisodeStatus{}, false
	}
	return b.episodes[idx], true
}

// Merge overlays refreshed episodes, see MergeEpisodes. It reports whether
// the list changed.
func (b *Board) Merge(refreshed []naotimes.EpisodeStatus) bool {
	merged := MergeEpisodes(b.episodes, refreshed)
	if slices.Equal(merged, b.episodes) {
		return false
	}
	b.episodes = merged
	b.emit()
	return true
}

// Apply stores ep, replacing the record with the same number or appending.
func (b *Board) Apply(ep naotimes.EpisodeStatus) {
	idx := indexOfEpisode(b.episodes, ep.Number)
	if idx < 0 {
		b.episodes = append(b.episodes, ep)
	} else {
		if b.episodes[idx] == ep {
			return
		}
		b.episodes[idx] = ep
	}
	b.emit()
}

// Remove drops the episode with number. Unknown numbers are a no-op.
func (b *Board) Remove(number int) bool {
	idx := indexOfEpisode(b.episodes, number)
	if idx < 0 {
		return false
	}
	b.episodes = slices.Delete(b.episodes, idx, idx+1)
	b.emit()
	return true
}

// persist hands a committed change to the owner of the cached detail.
func (b *Board) persist(edit func([]naotimes.EpisodeStatus) []naotimes.EpisodeStatus) {
	if b.writeBack != nil {
		b.writeBack(edit)
	}
}

func (b *Board) emit() {
	if b.onChange != nil {
		b.onChange(slices.Clone(b.episodes))
	}
}

// Card bundles the per-episode state machines shown on one episode card.
type Card struct {
	Number  int
	Edit    *EditSession
	Release *ReleaseToggle
	Removal *Removal
}

// NewCard builds the state machines for ep with their results wired back
// into the board and, for boards opened by a Coordinator, into the cached
// project detail.
func (b *Board) NewCard(ep naotimes.EpisodeStatus) *Card {
	return &Card{
		Number: ep.Number,
		Edit: NewEditSession(b.projectID, ep, func(updated naotimes.EpisodeStatus) {
			if cur, ok := b.Episode(updated.Number); ok {
				cur.Progress = updated.Progress
				b.Apply(cur)
			} else {
				b.Apply(updated)
			}
			b.persist(func(eps []naotimes.EpisodeStatus) []naotimes.EpisodeStatus {
				if idx := indexOfEpisode(eps, updated.Number); idx >= 0 {
					eps[idx].Progress = updated.Progress
				}
				return eps
			})
		}),
		Release: NewReleaseToggle(b.projectID, ep, func(number int, released bool) {
			if cur, ok := b.Episode(number); ok {
				cur.Released = released
				b.Apply(cur)
			}
			b.persist(func(eps []naotimes.EpisodeStatus) []naotimes.EpisodeStatus {
				if idx := indexOfEpisode(eps, number); idx >= 0 {
					eps[idx].Released = released
				}
				return eps
			})
		}),
		Removal: NewRemoval(b.projectID, ep.Number, func(number int) {
			b.Remove(number)
			b.persist(func(eps []naotimes.EpisodeStatus) []naotimes.EpisodeStatus {
				if idx := indexOfEpisode(eps, number); idx >= 0 {
					eps = slices.Delete(eps, idx, idx+1)
				}
				return eps
			})
		}),
	}
}

// Sync pushes a refreshed record into the card. Local edits in progress and
// pending submissions are left alone.
func (c *Card) Sync(ep naotimes.EpisodeStatus) {
	if ep.Number != c.Number {
		return
	}
	c.Edit.Refresh(ep)
	c.Release.Refresh(ep.Released)
}
