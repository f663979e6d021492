package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct{ calls atomic.Int32 }

func (f *fakeSweeper) Sweep() int {
	f.calls.Add(1)
	return 1
}

type fakeEvicter struct {
	calls  atomic.Int32
	lastIdle atomic.Int64
}

func (f *fakeEvicter) EvictIdle(_ context.Context, maxIdle time.Duration) int {
	f.calls.Add(1)
	f.lastIdle.Store(int64(maxIdle))
	return 0
}

func TestSchedulerRunsJobs(t *testing.T) {
	quizzes := &fakeSweeper{}
	profiles := &fakeEvicter{}
	s := New(quizzes, profiles, 20*time.Millisecond, time.Hour)
	require.NoError(t, s.Start())
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return quizzes.calls.Load() >= 2 && profiles.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(time.Hour), profiles.lastIdle.Load())
}

func TestSchedulerRejectsZeroInterval(t *testing.T) {
	s := New(&fakeSweeper{}, &fakeEvicter{}, 0, time.Hour)
	assert.Error(t, s.Start())
}
