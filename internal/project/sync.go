package project

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// sentinelID marks the placeholder stored when a fetch fails. It never
// leaves this package.
const sentinelID = "-123"

var emptyProject = &naotimes.ProjectDetail{ID: sentinelID}

// Coordinator loads project details through the cache and applies
// project-level mutations.
type Coordinator struct {
	sc SyncContext

	mu       sync.Mutex
	failures map[string]error // cause of the last failed fetch per project
}

// NewCoordinator builds a Coordinator; a nil cache gets a default one.
func NewCoordinator(sc SyncContext) *Coordinator {
	if sc.Cache == nil {
		sc.Cache = NewCache[*naotimes.ProjectDetail](DefaultTTL)
	}
	return &Coordinator{sc: sc, failures: make(map[string]error)}
}

// Context returns the SyncContext the coordinator was built with.
func (c *Coordinator) Context() SyncContext { return c.sc }

// LoadProject returns the project detail for id, from cache when fresh.
// forceRefresh drops the cached entry first. A failed fetch returns nil and
// an error wrapping ErrProjectUnavailable, and leaves nothing cached.
func (c *Coordinator) LoadProject(ctx context.Context, id string, forceRefresh bool) (*naotimes.ProjectDetail, error) {
	logger := c.sc.log().With("project", id)
	if forceRefresh {
		c.sc.Cache.Invalidate(id)
	}

	detail, _ := c.sc.Cache.Get(ctx, id, func(ctx context.Context) (*naotimes.ProjectDetail, error) {
		logger.Debug("project cache miss, fetching")
		fetched, err := c.sc.Gateway.FetchProjectDetail(ctx, id)
		if err != nil || fetched == nil {
			c.recordFailure(id, err)
			return emptyProject, nil
		}
		c.recordFailure(id, nil)
		return fetched, nil
	})

	if detail == nil || detail.ID == sentinelID {
		c.sc.Cache.Invalidate(id)
		// Callers that shared another caller's load read the same cause.
		cause := c.lastFailure(id)
		logger.Warn("project fetch failed", "error", cause)
		if cause != nil {
			return nil, fmt.Errorf("%w: %w", ErrProjectUnavailable, cause)
		}
		return nil, ErrProjectUnavailable
	}
	return detail.Clone(), nil
}

func (c *Coordinator) recordFailure(id string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.failures, id)
		return
	}
	c.failures[id] = err
}

func (c *Coordinator) lastFailure(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures[id]
}

// LoadFailureMessage renders the notice for an error returned by
// LoadProject. An empty answer reads as not found; otherwise the cause
// decides, see naotimes.Describe.
func LoadFailureMessage(id string, err error) string {
	params := naotimes.Params{ProjectID: id}
	if err == ErrProjectUnavailable {
		return naotimes.RenderError(naotimes.KindProjectNotFound, params)
	}
	return naotimes.Describe(err, params)
}

// OpenBoard seeds a board for detail whose committed card changes are also
// written onto the cached detail, so a later LoadProject within the TTL
// returns what the server already confirmed.
func (c *Coordinator) OpenBoard(detail *naotimes.ProjectDetail, onChange func([]naotimes.EpisodeStatus)) *Board {
	b := NewBoard(detail, onChange)
	b.writeBack = func(edit func([]naotimes.EpisodeStatus) []naotimes.EpisodeStatus) {
		c.updateCached(b.projectID, func(d *naotimes.ProjectDetail) {
			d.Episodes = edit(d.Episodes)
		})
	}
	return b
}

// MergeEpisodes overlays refreshed onto working and returns the result.
// Matching episode numbers are replaced in place when they differ, unknown
// ones are appended, and episodes missing from refreshed are kept.
func MergeEpisodes(working, refreshed []naotimes.EpisodeStatus) []naotimes.EpisodeStatus {
	out := slices.Clone(working)
	for _, ep := range refreshed {
		idx := indexOfEpisode(out, ep.Number)
		if idx < 0 {
			out = append(out, ep)
			continue
		}
		if out[idx] != ep {
			out[idx] = ep
		}
	}
	return out
}

func indexOfEpisode(list []naotimes.EpisodeStatus, number int) int {
	return slices.IndexFunc(list, func(ep naotimes.EpisodeStatus) bool {
		return ep.Number == number
	})
}

// Refresh force-reloads the board's project and merges its episodes into the
// board. The fresh detail is returned for callers that render staff.
func (c *Coordinator) Refresh(ctx context.Context, board *Board) (*naotimes.ProjectDetail, error) {
	detail, err := c.LoadProject(ctx, board.ProjectID(), true)
	if err != nil {
		return nil, err
	}
	board.Merge(detail.Episodes)
	return detail, nil
}

// AddEpisodes creates episodes on the server and merges the returned records
// into the board.
func (c *Coordinator) AddEpisodes(ctx context.Context, board *Board, numbers []int) Outcome {
	res, err := c.sc.Gateway.AddEpisodes(ctx, board.ProjectID(), numbers)
	return c.ApplyAdded(board, numbers, res, err)
}

// ApplyAdded applies the answer of an add-episodes call to the board and the
// cached detail.
func (c *Coordinator) ApplyAdded(board *Board, numbers []int, res naotimes.AddEpisodesResult, err error) Outcome {
	params := naotimes.Params{ProjectID: board.ProjectID()}
	if len(numbers) > 0 {
		params.Episode = numbers[0]
	}
	if err != nil {
		c.sc.log().Warn("add episodes failed", "project", board.ProjectID(), "error", err)
		return failed(naotimes.EpisodeStatus{}, naotimes.Describe(err, params), err)
	}
	if !res.Success {
		return failed(naotimes.EpisodeStatus{}, naotimes.RenderError(res.Code.Kind(), params), nil)
	}
	board.Merge(res.Episodes)
	c.updateCached(board.ProjectID(), func(d *naotimes.ProjectDetail) {
		d.Episodes = MergeEpisodes(d.Episodes, res.Episodes)
	})
	return Outcome{Kind: OutcomeCommitted}
}

// AssignStaff sets the member for role on detail. On success it returns the
// updated detail, and the assignment is also written onto the cached entry
// when one is fresh.
func (c *Coordinator) AssignStaff(ctx context.Context, detail *naotimes.ProjectDetail, role naotimes.Role, userID string) (*naotimes.ProjectDetail, Outcome) {
	params := naotimes.Params{ProjectID: detail.ID}
	if !role.Valid() {
		return detail, failed(naotimes.EpisodeStatus{}, naotimes.RenderError(naotimes.KindInvalidRole, params), nil)
	}

	res, err := c.sc.Gateway.UpdateStaffAssignment(ctx, detail.ID, role, userID)
	if err != nil {
		c.sc.log().Warn("staff update failed", "project", detail.ID, "role", role, "error", err)
		return detail, failed(naotimes.EpisodeStatus{}, naotimes.Describe(err, params), err)
	}
	if !res.Success {
		return detail, failed(naotimes.EpisodeStatus{}, naotimes.RenderError(res.Code.Kind(), params), nil)
	}

	var member *naotimes.StaffMember
	if res.ID != "" {
		member = &naotimes.StaffMember{ID: res.ID, Name: res.Name}
	}
	assign := func(d *naotimes.ProjectDetail) {
		if d.Assignments == nil {
			d.Assignments = make(map[naotimes.Role]*naotimes.StaffMember)
		}
		if member == nil {
			d.Assignments[role] = nil
			return
		}
		m := *member
		d.Assignments[role] = &m
	}

	updated := detail.Clone()
	assign(updated)
	// Only the assignment is written back; the cached episodes may be newer
	// than the ones detail was loaded with.
	c.updateCached(updated.ID, assign)
	return updated, Outcome{Kind: OutcomeCommitted}
}

// updateCached rewrites a fresh cache entry in place; absent entries stay absent.
func (c *Coordinator) updateCached(id string, fn func(*naotimes.ProjectDetail)) {
	cached, ok := c.sc.Cache.Lookup(id)
	if !ok || cached == nil {
		return
	}
	dup := cached.Clone()
	fn(dup)
	c.sc.Cache.Put(id, dup)
}
