package accounts

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	// ErrDuplicateAccount is returned when registering a username twice.
	ErrDuplicateAccount = errors.New("account already registered")
	// ErrNoUsableAccount is returned when no account is eligible for use.
	ErrNoUsableAccount = errors.New("no usable account available")
	// ErrUnknownAccount is returned when reporting on an unregistered username.
	ErrUnknownAccount = errors.New("unknown account")
)

// Persister durably stores account records, keyed by username. Writes are
// idempotent upserts.
type Persister interface {
	Upsert(acct Account) error
	LoadAll() ([]Account, error)
}

// Pool owns a set of accounts and hands out one per outbound request,
// spreading load by least-recently-used selection and recording the outcome
// of every use back onto the record.
//
// The pool is a monitor: select and report operations run under a single
// mutex, so no two callers ever observe a record's bookkeeping fields
// mid-update. Selection does not reserve the account for the duration of the
// fetch; two concurrent requests may pick the same account if it was the LRU
// choice for both. That double use is tolerated since fetch failures are
// cheap to recover from.
type Pool struct {
	mu        sync.Mutex
	accounts  map[string]*Account
	nextIndex int
	store     Persister
	now       func() time.Time
}

// NewPool creates an empty pool. store may be nil for an in-memory pool;
// when set, every mutation is mirrored to it best-effort.
func NewPool(store Persister) *Pool {
	return &Pool{
		accounts: make(map[string]*Account),
		store:    store,
		now:      time.Now,
	}
}

// Load restores previously persisted accounts into the pool. Records already
// registered keep their in-memory state.
func (p *Pool) Load() error {
	if p.store == nil {
		return nil
	}

	records, err := p.store.LoadAll()
	if err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, record := range records {
		if _, exists := p.accounts[record.Username]; exists {
			continue
		}
		acct := record
		acct.regIndex = p.nextIndex
		p.nextIndex++
		p.accounts[acct.Username] = &acct
	}

	logrus.Infof("Loaded %d account(s) from store", len(records))
	return nil
}

// Register adds an account to the pool. The username must be unique and at
// least one credential form must be present.
func (p *Pool) Register(acct Account) error {
	if acct.Username == "" {
		return fmt.Errorf("account username is required")
	}
	if acct.Credentials.Empty() {
		return fmt.Errorf("account %s has no password and no cookies", acct.Username)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[acct.Username]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateAccount, acct.Username)
	}

	if acct.State == "" {
		acct.State = StateUnverified
	}
	if acct.RegisteredAt.IsZero() {
		acct.RegisteredAt = p.now()
	}
	acct.regIndex = p.nextIndex
	p.nextIndex++

	p.accounts[acct.Username] = &acct
	p.persistLocked(&acct)

	logrus.Infof("Registered account %s (state: %s)", acct.Username, acct.State)
	return nil
}

// Select returns a copy of the least-recently-used account whose state allows
// use (unverified or active). Never-used accounts sort before any used one;
// ties break by registration order. Returns ErrNoUsableAccount when the pool
// has no eligible account.
func (p *Pool) Select() (Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var best *Account
	for _, acct := range p.accounts {
		if !acct.Usable() {
			continue
		}
		if best == nil || olderUse(acct, best) {
			best = acct
		}
	}

	if best == nil {
		return Account{}, ErrNoUsableAccount
	}
	return *best, nil
}

// olderUse reports whether a should be selected before b.
func olderUse(a, b *Account) bool {
	if !a.LastUsedAt.Equal(b.LastUsedAt) {
		return a.LastUsedAt.Before(b.LastUsedAt)
	}
	return a.regIndex < b.regIndex
}

// ReportSuccess records a successful use: the account becomes active, its
// last error is cleared and its last-used timestamp advances.
func (p *Pool) ReportSuccess(username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, exists := p.accounts[username]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, username)
	}

	acct.State = StateActive
	acct.LastError = ""
	acct.LastUsedAt = p.now()
	p.persistLocked(acct)
	return nil
}

// ReportFailure records a failed use. Authentication-class failures take the
// account out of rotation (state inactive); transient failures leave the
// state alone — the LRU selection order is the only cooldown.
func (p *Pool) ReportFailure(username string, cause error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	acct, exists := p.accounts[username]
	if !exists {
		return fmt.Errorf("%w: %s", ErrUnknownAccount, username)
	}

	acct.LastUsedAt = p.now()
	if cause != nil {
		acct.LastError = cause.Error()
	} else {
		acct.LastError = "unknown failure"
	}

	if isAuthFailure(cause) {
		acct.State = StateInactive
		logrus.Warnf("Account %s marked inactive after authentication failure: %v", username, cause)
	}

	p.persistLocked(acct)
	return nil
}

// isAuthFailure reports whether cause carries an authentication
// classification (see scraper.FetchError).
func isAuthFailure(cause error) bool {
	var classified interface{ AuthFailure() bool }
	return errors.As(cause, &classified) && classified.AuthFailure()
}

// Snapshot returns a credential-free view of every account, ordered by
// registration.
func (p *Pool) Snapshot() []Info {
	p.mu.Lock()
	defer p.mu.Unlock()

	infos := make([]Info, 0, len(p.accounts))
	ordered := make([]*Account, 0, len(p.accounts))
	for _, acct := range p.accounts {
		ordered = append(ordered, acct)
	}
	for i := 0; i < len(ordered)-1; i++ {
		for j := i + 1; j < len(ordered); j++ {
			if ordered[j].regIndex < ordered[i].regIndex {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	for _, acct := range ordered {
		infos = append(infos, acct.info())
	}
	return infos
}

// HasActive reports whether at least one account is in state active.
func (p *Pool) HasActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, acct := range p.accounts {
		if acct.State == StateActive {
			return true
		}
	}
	return false
}

// Size returns the number of registered accounts.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.accounts)
}

// persistLocked mirrors one record to the store. Persistence is best-effort:
// the in-memory pool stays authoritative and failures are only logged.
func (p *Pool) persistLocked(acct *Account) {
	if p.store == nil {
		return
	}
	if err := p.store.Upsert(*acct); err != nil {
		logrus.Errorf("Failed to persist account %s: %v", acct.Username, err)
	}
}
