package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/notifications"
)

// MockNotifier is a mock implementation of the notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendAlert(alert notifications.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

func newPoolWithAccount(t *testing.T, username string) *accounts.Pool {
	t.Helper()
	pool := accounts.NewPool(nil)
	require.NoError(t, pool.Register(accounts.Account{
		Username: username,
		Credentials: accounts.Credentials{
			Cookies: map[string]string{"auth_token": "tok"},
		},
	}))
	return pool
}

func TestRunCheck_HealthyPoolSendsNoAlert(t *testing.T) {
	pool := newPoolWithAccount(t, "acct1")
	require.NoError(t, pool.ReportSuccess("acct1"))

	notifier := &MockNotifier{}
	service := NewService(pool, notifier)

	require.NoError(t, service.RunCheck())
	notifier.AssertNotCalled(t, "SendAlert")
}

func TestRunCheck_DegradedPoolAlertsOnce(t *testing.T) {
	pool := newPoolWithAccount(t, "acct1")

	notifier := &MockNotifier{}
	notifier.On("SendAlert", mock.MatchedBy(func(alert notifications.Alert) bool {
		return alert.Severity == "critical"
	})).Return(nil).Once()

	service := NewService(pool, notifier)

	// No account has ever succeeded: degraded, one alert.
	require.NoError(t, service.RunCheck())
	// Still degraded on the next check, but the alert already fired.
	require.NoError(t, service.RunCheck())

	notifier.AssertExpectations(t)
	notifier.AssertNumberOfCalls(t, "SendAlert", 1)
}

func TestRunCheck_RecoveryRearmsAlert(t *testing.T) {
	pool := newPoolWithAccount(t, "acct1")

	notifier := &MockNotifier{}
	notifier.On("SendAlert", mock.Anything).Return(nil)

	service := NewService(pool, notifier)

	require.NoError(t, service.RunCheck()) // degraded -> alert #1

	require.NoError(t, pool.ReportSuccess("acct1"))
	require.NoError(t, service.RunCheck()) // recovered, re-arms

	// Knock the account out again with an auth failure.
	require.NoError(t, pool.ReportFailure("acct1", authErr{}))
	require.NoError(t, service.RunCheck()) // degraded -> alert #2

	notifier.AssertNumberOfCalls(t, "SendAlert", 2)
}

func TestRunCheck_DeliveryFailureSurfaces(t *testing.T) {
	pool := newPoolWithAccount(t, "acct1")

	notifier := &MockNotifier{}
	notifier.On("SendAlert", mock.Anything).Return(assert.AnError).Once()
	notifier.On("SendAlert", mock.Anything).Return(nil).Once()

	service := NewService(pool, notifier)
	assert.Error(t, service.RunCheck())

	// The alert did not go out, so the next degraded check tries again.
	assert.NoError(t, service.RunCheck())
	notifier.AssertNumberOfCalls(t, "SendAlert", 2)
}

type authErr struct{}

func (authErr) Error() string     { return "credentials rejected" }
func (authErr) AuthFailure() bool { return true }
