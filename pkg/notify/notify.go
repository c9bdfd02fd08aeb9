package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"rollcall-hq/rollcall/pkg/config"
)

// Event identifies the kind of attendance event a notification is about.
type Event string

const (
	// EventApprovalRequested asks a supervisor to review a check-in.
	EventApprovalRequested Event = "checkin-approval"
	// EventApproved informs the submitter their record was approved.
	EventApproved Event = "checkin-approved"
	// EventRejected informs the submitter their record was rejected.
	EventRejected Event = "checkin-rejected"
)

// Message is one rendered notification ready for delivery.
type Message struct {
	Token string            `json:"token"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// ErrInvalidToken reports that the push endpoint rejected the device token
// as unregistered. The token should be pruned, not retried.
var ErrInvalidToken = errors.New("push token is no longer registered")

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// HTTPSender implements Sender by posting the message as JSON to a webhook
// endpoint.
type HTTPSender struct {
	url    string
	client *http.Client
}

// NewHTTPSender creates an HTTPSender from the notify configuration.
func NewHTTPSender(cfg config.NotifyConfig) *HTTPSender {
	return &HTTPSender{
		url:    cfg.WebhookURL,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Send posts the message. A 404 or 410 from the endpoint means the token is
// unregistered and maps to ErrInvalidToken.
func (s *HTTPSender) Send(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		return ErrInvalidToken
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("send notification: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

// render produces the title and body for an event. recordID travels in the
// data payload so the client app can deep link.
func render(event Event, userName string) (title, body string) {
	switch event {
	case EventApprovalRequested:
		return "Attendance approval needed", fmt.Sprintf("%s checked in and needs your approval.", userName)
	case EventApproved:
		return "Check-in approved", "Your attendance record was approved."
	case EventRejected:
		return "Check-in rejected", "Your attendance record was rejected. Contact your supervisor."
	default:
		return "Attendance update", "An attendance record was updated."
	}
}
