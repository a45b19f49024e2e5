// Package schedule runs background housekeeping on robfig/cron.
//
//	s := schedule.New()
//	s.Add("janitor", "@every 10m", janitor.Run)
//	s.Start(ctx)            // stops when ctx is done
//
// Specs accept the standard 5-field syntax plus descriptors such as
// "@hourly" and "@every 90s". A run that is still going when the next tick
// fires is skipped, and a panicking task is logged instead of crashing the
// process.
package schedule

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/shashiranjanraj/delish/pkg/logger"
)

// Task is the function signature for a scheduled task.
type Task func()

// Scheduler wraps a cron runner with named entries.
type Scheduler struct {
	c     *cron.Cron
	mu    sync.Mutex
	specs map[string]string
}

// New returns a scheduler that is not yet started.
func New() *Scheduler {
	l := cronLogger{}
	return &Scheduler{
		c: cron.New(
			cron.WithLogger(l),
			cron.WithChain(cron.SkipIfStillRunning(l), cron.Recover(l)),
		),
		specs: map[string]string{},
	}
}

// Add registers task under name.
func (s *Scheduler) Add(name, spec string, task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.specs[name]; dup {
		return fmt.Errorf("schedule: %s already registered", name)
	}
	_, err := s.c.AddFunc(spec, func() {
		logger.Debug("schedule: running task", "id", name)
		task()
	})
	if err != nil {
		return fmt.Errorf("schedule: %s %q: %w", name, spec, err)
	}
	s.specs[name] = spec
	return nil
}

// Start dispatches tasks in the background until ctx is done. Stopping
// waits for running tasks to finish.
func (s *Scheduler) Start(ctx context.Context) {
	s.c.Start()
	logger.Info("schedule: scheduler started", "tasks", len(s.List()))
	go func() {
		<-ctx.Done()
		<-s.c.Stop().Done()
		logger.Info("schedule: scheduler stopped")
	}()
}

// List returns the registered tasks as "name  [spec]" for CLI display.
func (s *Scheduler) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.specs))
	for name, spec := range s.specs {
		out = append(out, fmt.Sprintf("%s  [%s]", name, spec))
	}
	sort.Strings(out)
	return out
}

// cronLogger routes cron's own logging to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, kv ...interface{}) {
	logger.Debug("schedule: "+msg, kv...)
}

func (cronLogger) Error(err error, msg string, kv ...interface{}) {
	logger.Error("schedule: "+msg, append(kv, "error", err)...)
}
