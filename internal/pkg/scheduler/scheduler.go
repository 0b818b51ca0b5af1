// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler wraps a cron runner so jobs can be registered with a
// context and stopped on shutdown.
type Scheduler struct {
	cron *cron.Cron
}

func New() *Scheduler {
	return &Scheduler{cron: cron.New()}
}

// Register schedules fn on the given cron expression. Errors from fn
// are logged, not propagated; the next tick runs regardless.
func (s *Scheduler) Register(spec, name string, fn func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		if err := fn(context.Background()); err != nil {
			slog.Error("Scheduled job failed", "job", name, "error", err)
		}
	})
	return err
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
