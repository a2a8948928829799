package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRun struct {
	job    string
	status string
}

type fakeMetrics struct {
	mu   sync.Mutex
	runs []recordedRun
}

func (m *fakeMetrics) RecordJobRun(job, status string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, recordedRun{job: job, status: status})
}

func (m *fakeMetrics) count(status string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.runs {
		if r.status == status {
			n++
		}
	}
	return n
}

type fakeLocker struct {
	mu       sync.Mutex
	held     map[string]bool
	released int
	err      error
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{held: make(map[string]bool)}
}

func (l *fakeLocker) Acquire(_ context.Context, key string, _ time.Duration) (func(context.Context) error, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held[key] {
		return nil, false, nil
	}
	l.held[key] = true
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		delete(l.held, key)
		l.released++
		return nil
	}, true, nil
}

func TestScheduler_Register(t *testing.T) {
	s := New(nil)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.Register(Job{Name: "b", Interval: time.Minute, Run: noop}))
	require.NoError(t, s.Register(Job{Name: "a", Interval: time.Minute, Run: noop}))

	assert.ErrorIs(t, s.Register(Job{Name: "a", Interval: time.Minute, Run: noop}), ErrInvalidJob)
	assert.ErrorIs(t, s.Register(Job{Name: "c", Run: noop}), ErrInvalidJob)
	assert.ErrorIs(t, s.Register(Job{Name: "d", Interval: time.Minute}), ErrInvalidJob)
	assert.ErrorIs(t, s.Register(Job{Interval: time.Minute, Run: noop}), ErrInvalidJob)

	assert.Equal(t, []string{"a", "b"}, s.Jobs())
}

func TestScheduler_Trigger(t *testing.T) {
	t.Run("runs the job and returns its error", func(t *testing.T) {
		metrics := &fakeMetrics{}
		s := New(nil, WithMetrics(metrics))
		jobErr := errors.New("boom")
		var calls atomic.Int32

		require.NoError(t, s.Register(Job{Name: "ok", Interval: time.Hour, Run: func(context.Context) error {
			calls.Add(1)
			return nil
		}}))
		require.NoError(t, s.Register(Job{Name: "fail", Interval: time.Hour, Run: func(context.Context) error {
			return jobErr
		}}))

		require.NoError(t, s.Trigger(context.Background(), "ok"))
		assert.ErrorIs(t, s.Trigger(context.Background(), "fail"), jobErr)
		assert.Equal(t, int32(1), calls.Load())
		assert.Equal(t, 1, metrics.count(StatusSuccess))
		assert.Equal(t, 1, metrics.count(StatusFailure))
	})

	t.Run("unknown job", func(t *testing.T) {
		s := New(nil)
		assert.ErrorIs(t, s.Trigger(context.Background(), "nope"), ErrUnknownJob)
	})

	t.Run("overlapping run is skipped", func(t *testing.T) {
		metrics := &fakeMetrics{}
		s := New(nil, WithMetrics(metrics))
		entered := make(chan struct{})
		unblock := make(chan struct{})

		require.NoError(t, s.Register(Job{Name: "slow", Interval: time.Hour, Run: func(context.Context) error {
			close(entered)
			<-unblock
			return nil
		}}))

		done := make(chan error, 1)
		go func() { done <- s.Trigger(context.Background(), "slow") }()
		<-entered

		assert.ErrorIs(t, s.Trigger(context.Background(), "slow"), ErrJobRunning)
		close(unblock)
		require.NoError(t, <-done)
		assert.Equal(t, 1, metrics.count(StatusSkipped))
	})

	t.Run("lock held by another instance", func(t *testing.T) {
		locker := newFakeLocker()
		locker.held["scheduler:locked"] = true
		s := New(nil, WithLocker(locker))
		var calls atomic.Int32

		require.NoError(t, s.Register(Job{Name: "locked", Interval: time.Hour, Run: func(context.Context) error {
			calls.Add(1)
			return nil
		}}))

		assert.ErrorIs(t, s.Trigger(context.Background(), "locked"), ErrLockHeld)
		assert.Zero(t, calls.Load())
	})

	t.Run("lock is released after the run", func(t *testing.T) {
		locker := newFakeLocker()
		s := New(nil, WithLocker(locker))
		require.NoError(t, s.Register(Job{Name: "j", Interval: time.Hour, Run: func(context.Context) error { return nil }}))

		require.NoError(t, s.Trigger(context.Background(), "j"))
		require.NoError(t, s.Trigger(context.Background(), "j"))
		assert.Equal(t, 2, locker.released)
	})

	t.Run("lock error fails the run", func(t *testing.T) {
		locker := newFakeLocker()
		locker.err = errors.New("redis down")
		s := New(nil, WithLocker(locker))
		require.NoError(t, s.Register(Job{Name: "j", Interval: time.Hour, Run: func(context.Context) error { return nil }}))

		assert.Error(t, s.Trigger(context.Background(), "j"))
	})

	t.Run("stopped scheduler refuses triggers", func(t *testing.T) {
		s := New(nil)
		require.NoError(t, s.Register(Job{Name: "j", Interval: time.Hour, Run: func(context.Context) error { return nil }}))
		s.Stop()

		assert.ErrorIs(t, s.Trigger(context.Background(), "j"), ErrNotAccepting)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	t.Run("ticks until stopped", func(t *testing.T) {
		s := New(nil)
		var calls atomic.Int32
		require.NoError(t, s.Register(Job{Name: "tick", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
			calls.Add(1)
			return nil
		}}))

		s.Start()
		assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
		s.Stop()

		after := calls.Load()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, after, calls.Load())
	})

	t.Run("run on start", func(t *testing.T) {
		s := New(nil)
		ran := make(chan struct{}, 1)
		require.NoError(t, s.Register(Job{Name: "boot", Interval: time.Hour, RunOnStart: true, Run: func(context.Context) error {
			ran <- struct{}{}
			return nil
		}}))

		s.Start()
		defer s.Stop()
		select {
		case <-ran:
		case <-time.After(time.Second):
			t.Fatal("job did not run on start")
		}
	})

	t.Run("stop cancels and waits for in-flight runs", func(t *testing.T) {
		s := New(nil)
		entered := make(chan struct{})
		var finished atomic.Bool
		require.NoError(t, s.Register(Job{Name: "long", Interval: time.Hour, RunOnStart: true, Run: func(ctx context.Context) error {
			close(entered)
			<-ctx.Done()
			finished.Store(true)
			return ctx.Err()
		}}))

		s.Start()
		<-entered
		s.Stop()
		assert.True(t, finished.Load())
	})
}
