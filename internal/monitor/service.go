package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/notifications"
)

// Service periodically inspects the account pool and alerts the operator
// when the pool degrades to zero active accounts. One alert per degradation
// episode; the alarm re-arms once an account recovers.
type Service struct {
	pool     *accounts.Pool
	notifier notifications.Notifier

	mu      sync.Mutex
	alerted bool
}

// NewService creates an account-health monitor.
func NewService(pool *accounts.Pool, notifier notifications.Notifier) *Service {
	return &Service{
		pool:     pool,
		notifier: notifier,
	}
}

// RunCheck takes one health snapshot, logs per-account state and fires a
// degradation alert when warranted.
func (s *Service) RunCheck() error {
	infos := s.pool.Snapshot()

	active := 0
	for _, info := range infos {
		if info.Active {
			active++
		}
		if info.LastError != "" {
			logrus.Warnf("Account %s (state %s): last error: %s", info.Username, info.State, info.LastError)
		} else {
			logrus.Debugf("Account %s (state %s)", info.Username, info.State)
		}
	}

	logrus.Infof("Account health check: %d/%d active", active, len(infos))

	s.mu.Lock()
	defer s.mu.Unlock()

	if active > 0 {
		if s.alerted {
			logrus.Info("Account pool recovered; re-arming degradation alert")
			s.alerted = false
		}
		return nil
	}

	if s.alerted {
		return nil
	}

	alert := notifications.Alert{
		Title:     "No active scraping accounts",
		Message:   fmt.Sprintf("All %d registered account(s) are unusable. Tweet fetching will fail until an account logs in successfully.", len(infos)),
		Severity:  "critical",
		CreatedAt: time.Now(),
	}
	if err := s.notifier.SendAlert(alert); err != nil {
		return fmt.Errorf("failed to deliver degradation alert: %w", err)
	}

	s.alerted = true
	return nil
}
