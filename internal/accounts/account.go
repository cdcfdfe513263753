package accounts

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// State describes where an account sits in its usability lifecycle.
type State string

const (
	// StateUnverified is the initial state of a freshly registered account.
	StateUnverified State = "unverified"
	// StateActive means the most recent use succeeded.
	StateActive State = "active"
	// StateInactive means the platform rejected the account's credentials.
	StateInactive State = "inactive"
	// StateDisabled means an operator took the account out of rotation.
	StateDisabled State = "disabled"
)

// Credentials holds either password-class credentials or a session-cookie
// blob. At least one of the two forms must be present.
type Credentials struct {
	Password      string            `json:"password,omitempty"`
	Email         string            `json:"email,omitempty"`
	EmailPassword string            `json:"email_password,omitempty"`
	Cookies       map[string]string `json:"cookies,omitempty"`
}

// Empty reports whether no usable credential form is present.
func (c Credentials) Empty() bool {
	return c.Password == "" && len(c.Cookies) == 0
}

// CookieHeader renders the session cookies as a Cookie header value, with
// names in sorted order so the output is stable.
func (c Credentials) CookieHeader() string {
	if len(c.Cookies) == 0 {
		return ""
	}
	names := make([]string, 0, len(c.Cookies))
	for name := range c.Cookies {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, fmt.Sprintf("%s=%s", name, c.Cookies[name]))
	}
	return strings.Join(pairs, "; ")
}

// Account is one authenticated scraping identity. The username is owned by
// the pool and immutable after registration; all other fields are mutated by
// the pool as fetch outcomes come in.
type Account struct {
	Username     string      `json:"username"`
	Credentials  Credentials `json:"credentials"`
	State        State       `json:"state"`
	LastUsedAt   time.Time   `json:"last_used_at,omitempty"`
	LastError    string      `json:"last_error,omitempty"`
	RegisteredAt time.Time   `json:"registered_at"`

	// regIndex breaks LastUsedAt ties by registration order.
	regIndex int
}

// Usable reports whether the pool may hand this account out.
func (a *Account) Usable() bool {
	return a.State == StateUnverified || a.State == StateActive
}

// Info is a credential-free view of an account for health reporting.
type Info struct {
	Username   string    `json:"username"`
	State      State     `json:"state"`
	Active     bool      `json:"active"`
	LastUsedAt time.Time `json:"last_used_at,omitempty"`
	LastError  string    `json:"error_msg,omitempty"`
}

func (a *Account) info() Info {
	return Info{
		Username:   a.Username,
		State:      a.State,
		Active:     a.State == StateActive,
		LastUsedAt: a.LastUsedAt,
		LastError:  a.LastError,
	}
}
