package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
)

// Gateway is a mock for naotimes.Gateway.
type Gateway struct {
	mock.Mock
}

var _ naotimes.Gateway = (*Gateway)(nil)

// FetchProjects records the call and returns the configured project list.
func (m *Gateway) FetchProjects(ctx context.Context) ([]naotimes.ProjectSummary, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]naotimes.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// FetchProjectDetail records the call and returns the configured detail.
func (m *Gateway) FetchProjectDetail(ctx context.Context, id string) (*naotimes.ProjectDetail, error) {
	args := m.Called(ctx, id)
	if detail, ok := args.Get(0).(*naotimes.ProjectDetail); ok {
		return detail, args.Error(1)
	}
	return nil, args.Error(1)
}

// SearchProjects records the call and returns the configured matches.
func (m *Gateway) SearchProjects(ctx context.Context, query string) ([]naotimes.ProjectSummary, error) {
	args := m.Called(ctx, query)
	if list, ok := args.Get(0).([]naotimes.ProjectSummary); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateEpisodeStatus records the roles payload and returns the configured progress.
func (m *Gateway) UpdateEpisodeStatus(ctx context.Context, projectID string, episode int, roles []naotimes.RoleUpdate) (*naotimes.ProgressResult, error) {
	args := m.Called(ctx, projectID, episode, roles)
	if res, ok := args.Get(0).(*naotimes.ProgressResult); ok {
		return res, args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateReleaseStatus records the call and returns the configured result.
func (m *Gateway) UpdateReleaseStatus(ctx context.Context, projectID string, episode int, isDone bool) (naotimes.MutationResult, error) {
	args := m.Called(ctx, projectID, episode, isDone)
	return args.Get(0).(naotimes.MutationResult), args.Error(1)
}

// AddEpisodes records the episode numbers and returns the configured result.
func (m *Gateway) AddEpisodes(ctx context.Context, projectID string, episodes []int) (naotimes.AddEpisodesResult, error) {
	args := m.Called(ctx, projectID, episodes)
	return args.Get(0).(naotimes.AddEpisodesResult), args.Error(1)
}

// RemoveEpisode records the episode numbers and returns the configured result.
func (m *Gateway) RemoveEpisode(ctx context.Context, projectID string, episodes []int) (naotimes.MutationResult, error) {
	args := m.Called(ctx, projectID, episodes)
	return args.Get(0).(naotimes.MutationResult), args.Error(1)
}

// UpdateStaffAssignment records the call and returns the configured result.
func (m *Gateway) UpdateStaffAssignment(ctx context.Context, projectID string, role naotimes.Role, userID string) (naotimes.StaffResult, error) {
	args := m.Called(ctx, projectID, role, userID)
	return args.Get(0).(naotimes.StaffResult), args.Error(1)
}

// FetchIdentity records the call and returns the configured identity.
func (m *Gateway) FetchIdentity(ctx context.Context) (*naotimes.Identity, error) {
	args := m.Called(ctx)
	if id, ok := args.Get(0).(*naotimes.Identity); ok {
		return id, args.Error(1)
	}
	return nil, args.Error(1)
}
