package notifications

import "time"

// Alert is an operator-facing notification about pool health.
type Alert struct {
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  string    `json:"severity"` // "critical" or "info"
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is the contract for alert delivery channels.
type Notifier interface {
	SendAlert(alert Alert) error
}
