package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

// Job is one iteration of a periodic worker.
type Job func(ctx context.Context)

type Worker struct {
	name     string
	delay    time.Duration
	interval time.Duration
	logger   *log.Entry
}

// NewInstance creates a worker that first fires after delay and then every interval.
func NewInstance(name string, delay, interval time.Duration) *Worker {
	return &Worker{
		name:     name,
		delay:    delay,
		interval: interval,
		logger:   log.WithField("worker_name", name),
	}
}

func (w *Worker) GetLogger() *log.Entry {
	return w.logger
}

// Run blocks until ctx is done. A panic inside job is logged and does not stop the schedule.
func (w *Worker) Run(ctx context.Context, job Job) {
	timer := time.NewTimer(w.delay)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("worker stopped")
			return
		case <-timer.C:
		}
		started := time.Now()
		w.safeRun(ctx, job)
		w.logger.WithField("took", time.Since(started)).Debug("job finished")
		timer.Reset(w.interval)
	}
}

func (w *Worker) safeRun(ctx context.Context, job Job) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		w.logger.
			WithField("panic_stack", string(debug.Stack())).
			Errorf("job panic: %v", r)
	}()
	job(ctx)
}
