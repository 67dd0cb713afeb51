// Package scheduler regenerates the insight report on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	rcron "github.com/robfig/cron/v3"

	"mcp-gut-check/internal/models"
	"mcp-gut-check/internal/report"
)

// jobTimeout bounds one scheduled report run.
const jobTimeout = 2 * time.Minute

type Service struct {
	reports    *report.Generator
	expr       string
	windowDays int

	mu     sync.Mutex
	cron   *rcron.Cron
	entry  rcron.EntryID
	cancel context.CancelFunc
}

// NewService schedules a report over the trailing windowDays at each
// firing of expr, a standard five-field cron expression.
func NewService(reports *report.Generator, expr string, windowDays int) *Service {
	return &Service{reports: reports, expr: expr, windowDays: windowDays}
}

func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := rcron.New()
	id, err := c.AddFunc(s.expr, func() {
		if _, err := s.RunNow(runCtx); err != nil {
			log.Printf("[cron] scheduled report failed: %v", err)
		}
	})
	if err != nil {
		cancel()
		return fmt.Errorf("failed to register report job (%s): %w", s.expr, err)
	}

	s.cron, s.entry, s.cancel = c, id, cancel
	c.Start()
	log.Printf("[cron] started, next report at %s", c.Entry(id).Next.Format(time.RFC3339))
	return nil
}

// RunNow generates and saves a scheduled report immediately.
func (s *Service) RunNow(ctx context.Context) (*models.InsightReport, error) {
	ctx, cancel := context.WithTimeout(ctx, jobTimeout)
	defer cancel()

	log.Printf("[cron] generating report for the last %d days", s.windowDays)
	window := s.reports.TrailingWindow(s.windowDays)
	rep, err := s.reports.Generate(ctx, window, report.TriggerScheduled, true)
	if err != nil {
		return nil, err
	}
	log.Printf("[cron] report %s: %d insights", rep.ID, len(rep.Insights))
	return rep, nil
}

// NextRun reports the next scheduled firing; false when not started.
func (s *Service) NextRun() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return time.Time{}, false
	}
	return s.cron.Entry(s.entry).Next, true
}

func (s *Service) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	s.cron, s.cancel = nil, nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	stopCtx := c.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(5 * time.Second):
		log.Printf("[cron] stop timeout waiting for running jobs")
	}
	cancel()
	log.Printf("[cron] stopped")
}
