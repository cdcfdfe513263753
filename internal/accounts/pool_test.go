package accounts

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authError mimics a fetch failure classified as authentication.
type authError struct{ msg string }

func (e *authError) Error() string     { return e.msg }
func (e *authError) AuthFailure() bool { return true }

func cookieAccount(username string) Account {
	return Account{
		Username: username,
		Credentials: Credentials{
			Cookies: map[string]string{"auth_token": "tok-" + username},
		},
	}
}

func TestPool_Register(t *testing.T) {
	pool := NewPool(nil)

	require.NoError(t, pool.Register(cookieAccount("alpha")))
	assert.Equal(t, 1, pool.Size())

	err := pool.Register(cookieAccount("alpha"))
	assert.ErrorIs(t, err, ErrDuplicateAccount)

	err = pool.Register(Account{Username: "nocreds"})
	assert.Error(t, err)

	err = pool.Register(cookieAccount(""))
	assert.Error(t, err)
}

func TestPool_SelectEmpty(t *testing.T) {
	pool := NewPool(nil)

	_, err := pool.Select()
	assert.ErrorIs(t, err, ErrNoUsableAccount)
}

func TestPool_SelectPrefersLeastRecentlyUsed(t *testing.T) {
	pool := NewPool(nil)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, pool.Register(cookieAccount(name)))
	}

	// Never-used accounts go in registration order, and each use pushes the
	// account to the back of the line: a, b, c, a, b, c.
	var selected []string
	for i := 0; i < 6; i++ {
		acct, err := pool.Select()
		require.NoError(t, err)
		selected = append(selected, acct.Username)
		require.NoError(t, pool.ReportSuccess(acct.Username))
	}

	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, selected)
}

func TestPool_TransientFailureKeepsAccountEligible(t *testing.T) {
	pool := NewPool(nil)
	require.NoError(t, pool.Register(cookieAccount("a")))
	require.NoError(t, pool.Register(cookieAccount("b")))

	acct, err := pool.Select()
	require.NoError(t, err)
	assert.Equal(t, "a", acct.Username)

	require.NoError(t, pool.ReportFailure("a", errors.New("rate limited")))

	// Failure pushed a's last-used forward, so b goes next, but a stays in
	// the rotation.
	acct, err = pool.Select()
	require.NoError(t, err)
	assert.Equal(t, "b", acct.Username)

	require.NoError(t, pool.ReportSuccess("b"))

	acct, err = pool.Select()
	require.NoError(t, err)
	assert.Equal(t, "a", acct.Username)
}

func TestPool_AuthFailureDeactivatesAccount(t *testing.T) {
	pool := NewPool(nil)
	require.NoError(t, pool.Register(cookieAccount("a")))
	require.NoError(t, pool.Register(cookieAccount("b")))

	require.NoError(t, pool.ReportFailure("a", &authError{msg: "credentials rejected"}))

	// a is out of rotation: every selection now lands on b.
	for i := 0; i < 3; i++ {
		acct, err := pool.Select()
		require.NoError(t, err)
		assert.Equal(t, "b", acct.Username)
		require.NoError(t, pool.ReportSuccess("b"))
	}

	infos := pool.Snapshot()
	require.Len(t, infos, 2)
	assert.Equal(t, StateInactive, infos[0].State)
	assert.Equal(t, "credentials rejected", infos[0].LastError)
}

func TestPool_AllAccountsInactive(t *testing.T) {
	pool := NewPool(nil)
	require.NoError(t, pool.Register(cookieAccount("a")))
	require.NoError(t, pool.ReportFailure("a", &authError{msg: "rejected"}))

	_, err := pool.Select()
	assert.ErrorIs(t, err, ErrNoUsableAccount)
}

func TestPool_ReportSuccessActivatesAndClearsError(t *testing.T) {
	pool := NewPool(nil)
	require.NoError(t, pool.Register(cookieAccount("a")))

	require.NoError(t, pool.ReportFailure("a", errors.New("rate limited")))
	require.NoError(t, pool.ReportSuccess("a"))

	infos := pool.Snapshot()
	require.Len(t, infos, 1)
	assert.Equal(t, StateActive, infos[0].State)
	assert.True(t, infos[0].Active)
	assert.Empty(t, infos[0].LastError)
	assert.False(t, infos[0].LastUsedAt.IsZero())
}

func TestPool_ReportOnUnknownAccount(t *testing.T) {
	pool := NewPool(nil)

	assert.ErrorIs(t, pool.ReportSuccess("ghost"), ErrUnknownAccount)
	assert.ErrorIs(t, pool.ReportFailure("ghost", errors.New("boom")), ErrUnknownAccount)
}

func TestPool_HasActive(t *testing.T) {
	pool := NewPool(nil)
	require.NoError(t, pool.Register(cookieAccount("a")))

	assert.False(t, pool.HasActive())
	require.NoError(t, pool.ReportSuccess("a"))
	assert.True(t, pool.HasActive())
}

func TestPool_SnapshotOmitsCredentials(t *testing.T) {
	pool := NewPool(nil)
	require.NoError(t, pool.Register(cookieAccount("a")))

	infos := pool.Snapshot()
	require.Len(t, infos, 1)
	// Info has no credential fields at all; spot-check the ones it has.
	assert.Equal(t, "a", infos[0].Username)
	assert.Equal(t, StateUnverified, infos[0].State)
}

func TestPool_ConcurrentUse(t *testing.T) {
	pool := NewPool(nil)
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Register(cookieAccount(fmt.Sprintf("acct%d", i))))
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			acct, err := pool.Select()
			if err != nil {
				return
			}
			if n%3 == 0 {
				_ = pool.ReportFailure(acct.Username, errors.New("rate limited"))
			} else {
				_ = pool.ReportSuccess(acct.Username)
			}
			pool.Snapshot()
		}(i)
	}
	wg.Wait()

	// Nothing was auth-failed, so every account is still usable.
	_, err := pool.Select()
	assert.NoError(t, err)
	assert.Equal(t, 4, pool.Size())
}
