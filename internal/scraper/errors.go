package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a fetch failure for pool bookkeeping and HTTP mapping.
type Kind string

const (
	// KindAuth means the platform rejected the account's credentials.
	// The account must be taken out of rotation.
	KindAuth Kind = "authentication"

	// KindTransient covers rate limits, timeouts and cancellations. The
	// account stays eligible and naturally cools down through LRU selection.
	KindTransient Kind = "transient"

	// KindUpstream means the scraping engine itself is unreachable or broken.
	KindUpstream Kind = "upstream_unavailable"

	// KindNotFound means the requested user does not exist.
	KindNotFound Kind = "not_found"

	// KindUnknown is everything else.
	KindUnknown Kind = "unknown"
)

// FetchError is a classified failure from the post source.
type FetchError struct {
	Kind    Kind
	Status  int
	Message string
}

// AuthFailure reports whether the failure should take the account that made
// the request out of rotation. Checked structurally by the account pool.
func (e *FetchError) AuthFailure() bool {
	return e.Kind == KindAuth
}

func (e *FetchError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("fetch failed (%s, status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("fetch failed (%s): %s", e.Kind, e.Message)
}

// Classify returns the failure kind of err. Plain network and context errors
// from the HTTP client are mapped here; everything unrecognized is unknown.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTransient
		}
		return KindUpstream
	}

	return KindUnknown
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindTransient
	case status >= 500:
		return KindUpstream
	default:
		return KindUnknown
	}
}
