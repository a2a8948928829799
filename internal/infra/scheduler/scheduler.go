package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/Deepak-Sharma-2006/tessera-backend-sub000/internal/port/outbound"
)

// Run statuses reported to Metrics.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusSkipped = "skipped"
)

var (
	ErrUnknownJob   = errors.New("unknown job")
	ErrJobRunning   = errors.New("job is already running")
	ErrLockHeld     = errors.New("job is running on another instance")
	ErrInvalidJob   = errors.New("invalid job")
	ErrNotAccepting = errors.New("scheduler is stopped")
)

// JobFunc is the body of a scheduled job.
type JobFunc func(ctx context.Context) error

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      JobFunc

	// LockTTL bounds the distributed lease. Defaults to the interval.
	LockTTL time.Duration

	// RunOnStart runs the job once as soon as the scheduler starts.
	RunOnStart bool
}

// Metrics records job runs.
type Metrics interface {
	RecordJobRun(job, status string, duration time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) RecordJobRun(string, string, time.Duration) {}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLocker makes every run take a lease so only one instance runs a job at a time.
func WithLocker(locker outbound.LockPort) Option {
	return func(s *Scheduler) { s.locker = locker }
}

// WithMetrics sets the run recorder.
func WithMetrics(m Metrics) Option {
	return func(s *Scheduler) {
		if m != nil {
			s.metrics = m
		}
	}
}

type jobState struct {
	Job
	running atomic.Bool
}

// Scheduler runs registered jobs on their intervals. A job never overlaps
// with itself: a tick or trigger that finds it running is skipped.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState

	locker  outbound.LockPort
	metrics Metrics
	logger  *zap.Logger

	// Lifecycle
	ctx     context.Context
	cancel  context.CancelFunc
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// New creates a new scheduler.
func New(logger *zap.Logger, opts ...Option) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		jobs:    make(map[string]*jobState),
		metrics: nopMetrics{},
		logger:  logger.Named("scheduler"),
		ctx:     ctx,
		cancel:  cancel,
		stopCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register adds a job. Jobs must be registered before Start.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil || job.Interval <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidJob, job.Name)
	}
	if job.LockTTL <= 0 {
		job.LockTTL = job.Interval
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[job.Name]; ok {
		return fmt.Errorf("%w: %q registered twice", ErrInvalidJob, job.Name)
	}
	s.jobs[job.Name] = &jobState{Job: job}
	s.logger.Debug("registered job",
		zap.String("job", job.Name),
		zap.Duration("interval", job.Interval))
	return nil
}

// Jobs returns the registered job names in sorted order.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start starts one ticker loop per job. It returns immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	for _, st := range s.jobs {
		s.logger.Info("starting job",
			zap.String("job", st.Name),
			zap.Duration("interval", st.Interval))
		s.wg.Add(1)
		go s.loop(st)
	}
}

// Stop stops the ticker loops, cancels in-flight runs and waits for them.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.logger.Info("stopping scheduler")
	close(s.stopCh)
	s.cancel()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}

// Trigger runs a job now in the caller's goroutine and returns its error.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.RLock()
	st, ok := s.jobs[name]
	stopped := s.stopped
	if ok && !stopped {
		s.wg.Add(1)
	}
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownJob, name)
	}
	if stopped {
		return ErrNotAccepting
	}
	defer s.wg.Done()

	// Stop cancels triggered runs as well.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	return s.run(ctx, st)
}

func (s *Scheduler) loop(st *jobState) {
	defer s.wg.Done()

	if st.RunOnStart {
		s.tick(st)
	}

	ticker := time.NewTicker(st.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(st)
		}
	}
}

func (s *Scheduler) tick(st *jobState) {
	err := s.run(s.ctx, st)
	switch {
	case err == nil, errors.Is(err, ErrJobRunning), errors.Is(err, ErrLockHeld):
	case errors.Is(err, context.Canceled) && s.ctx.Err() != nil:
	default:
		s.logger.Error("job failed", zap.String("job", st.Name), zap.Error(err))
	}
}

// run executes one guarded run of st.
func (s *Scheduler) run(ctx context.Context, st *jobState) error {
	if !st.running.CompareAndSwap(false, true) {
		s.metrics.RecordJobRun(st.Name, StatusSkipped, 0)
		s.logger.Debug("job still running, skipping", zap.String("job", st.Name))
		return ErrJobRunning
	}
	defer st.running.Store(false)

	if s.locker != nil {
		release, acquired, err := s.locker.Acquire(ctx, "scheduler:"+st.Name, st.LockTTL)
		if err != nil {
			s.metrics.RecordJobRun(st.Name, StatusFailure, 0)
			return fmt.Errorf("acquire job lock: %w", err)
		}
		if !acquired {
			s.metrics.RecordJobRun(st.Name, StatusSkipped, 0)
			s.logger.Debug("job lock held elsewhere, skipping", zap.String("job", st.Name))
			return ErrLockHeld
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := release(releaseCtx); err != nil {
				s.logger.Warn("failed to release job lock",
					zap.String("job", st.Name),
					zap.Error(err))
			}
		}()
	}

	start := time.Now()
	err := st.Run(ctx)
	duration := time.Since(start)

	if err != nil {
		s.metrics.RecordJobRun(st.Name, StatusFailure, duration)
		return err
	}
	s.metrics.RecordJobRun(st.Name, StatusSuccess, duration)
	s.logger.Debug("job finished",
		zap.String("job", st.Name),
		zap.Duration("duration", duration))
	return nil
}
