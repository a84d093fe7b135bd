package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 15 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 15 * time.Second},
		{"negative failures", -1, 15 * time.Second},
		{"one failure", 1, 30 * time.Second},
		{"two failures", 2, 60 * time.Second},
		{"three failures capped", 3, 2 * time.Minute}, // 120s is exactly the cap
		{"many failures capped", 10, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff || got <= 0 {
			t.Errorf("calculateBackoff(%d, %v) = %v, outside (0, %v]", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeLister struct {
	calls    atomic.Int32
	failures int32
}

func (f *fakeLister) FetchProjects(context.Context) ([]naotimes.ProjectSummary, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, errors.New("unreachable")
	}
	return []naotimes.ProjectSummary{{ID: "1", Title: "Bocchi"}}, nil
}

func TestRefresh_TracksFailuresAndRecovers(t *testing.T) {
	store := &state.Store{}
	lister := &fakeLister{failures: 2}
	ctx := context.Background()

	refresh(ctx, store, lister, nil)
	refresh(ctx, store, lister, nil)
	if snap := store.Snapshot(); !snap.IsOffline() {
		t.Fatalf("after two failures IsOffline = false, want true")
	}

	refresh(ctx, store, lister, nil)
	snap := store.Snapshot()
	if snap.IsOffline() || len(snap.Projects) != 1 {
		t.Fatalf("after recovery snapshot = %+v", snap)
	}
}

func TestStartPoller_PollsUntilCancelled(t *testing.T) {
	store := &state.Store{}
	lister := &fakeLister{}
	ctx, cancel := context.WithCancel(context.Background())

	StartPoller(ctx, store, lister, 10*time.Millisecond, nil)

	deadline := time.Now().Add(2 * time.Second)
	for lister.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 2", lister.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	time.Sleep(30 * time.Millisecond)
	stopped := lister.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := lister.calls.Load(); got != stopped {
		t.Fatalf("poller kept running after cancel: %d -> %d calls", stopped, got)
	}
	if !store.Snapshot().HasProjects {
		t.Fatalf("store was never populated")
	}
}
