// Package sched runs the periodic ingest-and-rebuild job in watch mode.
package sched

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Service wraps a cron scheduler around a single refresh job.
type Service struct {
	cron *cron.Cron
	spec string
	job  func() error
}

// New builds a scheduler for the given 6-field cron spec (with seconds).
func New(spec string, job func() error) *Service {
	return &Service{
		cron: cron.New(cron.WithSeconds()),
		spec: spec,
		job:  job,
	}
}

// Start registers the job and starts the scheduler. The job also runs
// once immediately so a fresh watch process begins with current data.
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("[cron] scheduled refresh: %s", s.spec)

	go s.runOnce()
	return nil
}

// Stop halts the scheduler, waiting for a running job to finish.
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("[cron] stopped")
}

func (s *Service) runOnce() {
	start := time.Now()
	log.Printf("[cron] refresh starting")
	if err := s.job(); err != nil {
		log.Printf("[cron] refresh failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		return
	}
	log.Printf("[cron] refresh done in %s", time.Since(start).Round(time.Millisecond))
}
