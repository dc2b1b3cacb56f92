package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankinfer/adapters/datareadiness/coercer"
	"bankinfer/domain/core"
	"bankinfer/domain/dataset"
	"bankinfer/domain/stats"
	"bankinfer/internal"
)

type fakeSource struct {
	loads   atomic.Int32
	gate    chan struct{}
	fail    atomic.Bool
	headers []string
	rows    [][]string
}

func (f *fakeSource) Describe() string { return "fake" }

func (f *fakeSource) Load(ctx context.Context) (*dataset.Dataset, error) {
	f.loads.Add(1)
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.fail.Load() {
		return nil, errors.New("connection refused")
	}
	return coercer.NewTypeCoercer(coercer.DefaultCoercionConfig()).BuildDataset("fake", f.headers, f.rows)
}

func bankSource() *fakeSource {
	return &fakeSource{
		headers: []string{"age", "y"},
		rows:    [][]string{{"30", "yes"}, {"40", "no"}, {"50", "no"}},
	}
}

func TestSnapshot_LoadsOnce(t *testing.T) {
	src := bankSource()
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger())
	assert.False(t, s.Loaded())

	first, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	second, err := s.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), src.loads.Load())
	assert.True(t, s.Loaded())
	assert.Equal(t, "y", first.Outcome.Column())
	assert.Equal(t, []int{1, 0, 0}, first.Outcome.Values())
	assert.Equal(t, "fake", first.Source)
}

func TestSnapshot_DedupsConcurrentColdLoads(t *testing.T) {
	src := bankSource()
	src.gate = make(chan struct{})
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger())

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*Snapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snap, err := s.Snapshot(context.Background())
			assert.NoError(t, err)
			results[i] = snap
		}(i)
	}

	require.Eventually(t, func() bool { return src.loads.Load() == 1 }, time.Second, time.Millisecond)
	close(src.gate)
	wg.Wait()

	assert.Equal(t, int32(1), src.loads.Load())
	for _, snap := range results {
		assert.Same(t, results[0], snap)
	}
}

func TestSnapshot_CancelledWaiterDoesNotFailOthers(t *testing.T) {
	src := bankSource()
	src.gate = make(chan struct{})
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := s.Snapshot(ctx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return src.loads.Load() == 1 }, time.Second, time.Millisecond)

	type result struct {
		snap *Snapshot
		err  error
	}
	second := make(chan result, 1)
	go func() {
		snap, err := s.Snapshot(context.Background())
		second <- result{snap, err}
	}()

	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	close(src.gate)
	res := <-second
	require.NoError(t, res.err)
	assert.Equal(t, "y", res.snap.Outcome.Column())
	assert.Equal(t, int32(1), src.loads.Load())
	assert.True(t, s.Loaded())
}

func TestSnapshot_LoadTimeout(t *testing.T) {
	src := bankSource()
	src.gate = make(chan struct{})
	defer close(src.gate)
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger()).WithLoadTimeout(20 * time.Millisecond)

	_, err := s.Snapshot(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, s.Loaded())
}

func TestSnapshot_FailuresAreNotCached(t *testing.T) {
	src := bankSource()
	src.fail.Store(true)
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger())

	_, err := s.Snapshot(context.Background())
	assert.ErrorContains(t, err, "connection refused")
	assert.False(t, s.Loaded())

	src.fail.Store(false)
	snap, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, snap)
	assert.Equal(t, int32(2), src.loads.Load())
}

func TestSnapshot_NoBinaryColumn(t *testing.T) {
	src := &fakeSource{
		headers: []string{"job"},
		rows:    [][]string{{"admin"}, {"services"}, {"retired"}},
	}
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger())

	_, err := s.Snapshot(context.Background())
	assert.True(t, errors.Is(err, core.ErrNoBinaryColumnFound))
	assert.False(t, s.Loaded())
}

func TestSnapshot_ContextCancelled(t *testing.T) {
	src := bankSource()
	src.gate = make(chan struct{})
	s := New(src, stats.DefaultPolicy(), internal.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Snapshot(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	close(src.gate)
}

func TestSessionsAreIndependent(t *testing.T) {
	a := New(bankSource(), stats.DefaultPolicy(), internal.NewNopLogger())
	b := New(bankSource(), stats.DefaultPolicy(), internal.NewNopLogger())
	assert.NotEqual(t, a.ID(), b.ID())

	_, err := a.Snapshot(context.Background())
	require.NoError(t, err)
	assert.False(t, b.Loaded())
}
