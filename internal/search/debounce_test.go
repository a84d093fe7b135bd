package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naotimes/naotimes-cli/internal/naotimes"
	"github.com/naotimes/naotimes-cli/internal/naotimes/mocks"
)

type recorder struct {
	mu    sync.Mutex
	calls []string
	at    []time.Time
}

func (r *recorder) record(_ context.Context, query string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, query)
	r.at = append(r.at, time.Now())
}

func (r *recorder) snapshot() ([]string, []time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...), append([]time.Time(nil), r.at...)
}

func TestDebouncer_KeystrokeBurstSendsOneQuery(t *testing.T) {
	rec := &recorder{}
	d := NewDebouncer(context.Background(), DefaultDelay, rec.record)
	defer d.Stop()

	var last time.Time
	for _, q := range []string{"b", "bo", "boc", "bocc"} {
		last = time.Now()
		d.Trigger(q)
		time.Sleep(100 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		calls, _ := rec.snapshot()
		return len(calls) > 0
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(DefaultDelay)

	calls, at := rec.snapshot()
	require.Equal(t, []string{"bocc"}, calls)
	assert.GreaterOrEqual(t, at[0].Sub(last), DefaultDelay)
}

func TestDebouncer_CancelsRunningSearch(t *testing.T) {
	started := make(chan context.Context, 2)
	d := NewDebouncer(context.Background(), 10*time.Millisecond, func(ctx context.Context, query string) {
		started <- ctx
		<-ctx.Done()
	})
	defer d.Stop()

	d.Trigger("first")
	first := <-started
	d.Trigger("second")

	select {
	case <-first.Done():
	case <-time.After(time.Second):
		t.Fatal("running search was not cancelled")
	}
	second := <-started
	assert.NoError(t, second.Err())
}

func TestDebouncer_StopAndParentCancel(t *testing.T) {
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())
	d := NewDebouncer(ctx, 20*time.Millisecond, rec.record)

	d.Trigger("a")
	d.Stop()
	cancel()
	d.Trigger("b")

	time.Sleep(100 * time.Millisecond)
	calls, _ := rec.snapshot()
	assert.Empty(t, calls)
}

func TestSearcher_PublishesFreshResults(t *testing.T) {
	gw := &mocks.Gateway{}
	found := []naotimes.ProjectSummary{{ID: "1", Title: "Bocchi the Rock!"}}
	gw.On("SearchProjects", mock.Anything, "bocchi").Return(found, nil).Once()

	s := NewSearcher(context.Background(), gw, 10*time.Millisecond, nil)
	defer s.Stop()

	s.Type("  ")
	s.Type("bocchi ")

	select {
	case res := <-s.Results():
		require.NoError(t, res.Err)
		assert.Equal(t, "bocchi ", res.Query)
		assert.Equal(t, found, res.Projects)
	case <-time.After(time.Second):
		t.Fatal("no search result")
	}
	gw.AssertExpectations(t)
}
