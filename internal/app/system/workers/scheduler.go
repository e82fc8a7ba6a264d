// internal/app/system/workers/scheduler.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/valera-kram/recipe-app-api/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Scheduler runs periodic jobs in the background, one goroutine per job.
// Each job runs once at Start and then on its interval. A nil *Scheduler
// is a no-op.
type Scheduler struct {
	log     *zap.Logger
	timeout time.Duration
	jobs    []tasks.Job

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewScheduler creates a scheduler. timeout bounds each individual run.
func NewScheduler(logger *zap.Logger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		log:     logger,
		timeout: timeout,
		stopCh:  make(chan struct{}),
	}
}

// Add registers a job. Jobs added after Start are ignored.
func (s *Scheduler) Add(job tasks.Job) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.log.Warn("job added after start; ignored", zap.String("job", job.Name))
		return
	}
	s.jobs = append(s.jobs, job)
}

// Start begins the background loops. Calling it twice has no effect.
func (s *Scheduler) Start() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.run(job)
		s.log.Info("background job started",
			zap.String("job", job.Name),
			zap.Duration("interval", job.Interval))
	}
}

// Stop signals every job to stop and waits for running work to finish.
func (s *Scheduler) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	select {
	case <-s.stopCh:
		s.mu.Unlock()
		return
	default:
		close(s.stopCh)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("background jobs stopped")
}

func (s *Scheduler) run(job tasks.Job) {
	defer s.wg.Done()

	s.runOnce(job)

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.runOnce(job)
		}
	}
}

func (s *Scheduler) runOnce(job tasks.Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := job.Run(ctx); err != nil {
		s.log.Error("background job failed", zap.String("job", job.Name), zap.Error(err))
	}
}
