package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/monitor"
	"github.com/tickerpulse/ticker-tweets-api/internal/notifications"
)

type noopNotifier struct{}

func (noopNotifier) SendAlert(alert notifications.Alert) error { return nil }

func newMonitor() *monitor.Service {
	return monitor.NewService(accounts.NewPool(nil), noopNotifier{})
}

func TestService_StartAndStop(t *testing.T) {
	service := NewService(newMonitor(), "0 */15 * * * *")
	require.NoError(t, service.Start())
	service.Stop()
}

func TestService_StartRejectsBadSchedule(t *testing.T) {
	service := NewService(newMonitor(), "not a cron expression")
	assert.Error(t, service.Start())
}
