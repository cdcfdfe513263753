package scheduler

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/monitor"
)

// Service runs the account-health monitor on a fixed cadence.
type Service struct {
	monitorService *monitor.Service
	schedule       string
	cron           *cron.Cron
}

// NewService creates a scheduler. schedule is a cron expression with a
// seconds field, e.g. "0 */15 * * * *" for every 15 minutes.
func NewService(monitorService *monitor.Service, schedule string) *Service {
	return &Service{
		monitorService: monitorService,
		schedule:       schedule,
		cron:           cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled health checks.
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		logrus.Debug("Starting scheduled account health check")
		if err := s.monitorService.RunCheck(); err != nil {
			logrus.Errorf("Account health check failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid monitor schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	logrus.Infof("Scheduler started (account health check: %q)", s.schedule)
	return nil
}

// Stop stops the scheduler.
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Scheduler stopped")
	}
}
