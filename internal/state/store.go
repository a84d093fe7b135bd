package state

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// Snapshot represents the latest dashboard data available to the UI.
type Snapshot struct {
	Projects            []naotimes.ProjectSummary
	HasProjects         bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the server has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Project returns the summary with id from the snapshot.
func (s Snapshot) Project(id string) (naotimes.ProjectSummary, bool) {
	idx := slices.IndexFunc(s.Projects, func(p naotimes.ProjectSummary) bool { return p.ID == id })
	if idx < 0 {
		return naotimes.ProjectSummary{}, false
	}
	return s.Projects[idx], true
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored project list. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(projects []naotimes.ProjectSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Projects = cloneProjects(projects)
	s.snapshot.HasProjects = true
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Projects = cloneProjects(s.snapshot.Projects)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneProjects(items []naotimes.ProjectSummary) []naotimes.ProjectSummary {
	if len(items) == 0 {
		return nil
	}
	return slices.Clone(items)
}
