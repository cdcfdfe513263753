package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Service delivers alerts through the configured channels: a Teams incoming
// webhook and/or SMTP email. Channels that are not configured are skipped.
type Service struct {
	config *config.Config
	client *resty.Client
}

// Ensure Service implements Notifier
var _ Notifier = (*Service)(nil)

// teamsMessage is the legacy MessageCard payload Teams webhooks accept.
type teamsMessage struct {
	Type    string `json:"@type"`
	Context string `json:"@context"`
	Title   string `json:"title"`
	Text    string `json:"text"`
}

// NewService creates a notification service.
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
		client: resty.New().SetTimeout(30 * time.Second),
	}
}

// SendAlert delivers the alert on every configured channel. Partial delivery
// failures are collected so one broken channel does not hide the others.
func (s *Service) SendAlert(alert Alert) error {
	var failures []string

	if s.config.TeamsWebhookURL != "" {
		if err := s.sendToTeams(alert); err != nil {
			logrus.Errorf("Failed to send Teams alert: %v", err)
			failures = append(failures, fmt.Sprintf("Teams: %v", err))
		} else {
			logrus.Info("Sent alert to Teams")
		}
	}

	if s.config.NotificationEmail != "" {
		if err := s.sendEmail(alert); err != nil {
			logrus.Errorf("Failed to send email alert: %v", err)
			failures = append(failures, fmt.Sprintf("Email: %v", err))
		} else {
			logrus.Info("Sent alert via email")
		}
	}

	if len(failures) > 0 {
		return fmt.Errorf("alert delivery failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

func (s *Service) sendToTeams(alert Alert) error {
	message := teamsMessage{
		Type:    "MessageCard",
		Context: "http://schema.org/extensions",
		Title:   alert.Title,
		Text:    fmt.Sprintf("%s\n\nSeverity: %s\nTime: %s", alert.Message, alert.Severity, alert.CreatedAt.Format(time.RFC3339)),
	}

	resp, err := s.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(message).
		Post(s.config.TeamsWebhookURL)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("teams webhook returned status %d: %s", resp.StatusCode(), string(resp.Body()))
	}
	return nil
}

func (s *Service) sendEmail(alert Alert) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.config.SMTPUsername)
	m.SetHeader("To", s.config.NotificationEmail)
	m.SetHeader("Subject", fmt.Sprintf("[ticker-tweets-api] %s", alert.Title))
	m.SetBody("text/plain", fmt.Sprintf("%s\n\nSeverity: %s\nTime: %s\n",
		alert.Message, alert.Severity, alert.CreatedAt.Format(time.RFC3339)))

	d := gomail.NewDialer(s.config.SMTPHost, s.config.SMTPPort, s.config.SMTPUsername, s.config.SMTPPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
