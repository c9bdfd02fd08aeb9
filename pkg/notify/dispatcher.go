package notify

import (
	"context"
	"errors"
	"log/slog"

	"rollcall-hq/rollcall/pkg/tenant"
)

// Directory is the slice of the tenant directory the dispatcher needs: token
// lookup plus write-back for pruning.
type Directory interface {
	GetUser(ctx context.Context, tenantID, userID string) (*tenant.User, error)
	PutUser(ctx context.Context, u *tenant.User) error
}

// Dispatcher renders and delivers event notifications to users.
type Dispatcher struct {
	sender Sender
	users  Directory
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(sender Sender, users Directory) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		users:  users,
		logger: slog.Default().With("component", "notify.dispatcher"),
	}
}

// Notify delivers an event notification to the recipient. Every failure
// path logs and returns; notification delivery never propagates an error to
// the operation that triggered it. When the push endpoint reports the token
// as unregistered, the token is pruned from the user's directory entry.
func (d *Dispatcher) Notify(ctx context.Context, tenantID, recipientID string, event Event, actorName, recordID string) {
	user, err := d.users.GetUser(ctx, tenantID, recipientID)
	if err != nil {
		d.logger.Warn("notification recipient lookup failed",
			"tenant_id", tenantID,
			"user_id", recipientID,
			"error", err,
		)
		return
	}
	if user.PushToken == "" {
		d.logger.Debug("recipient has no push token, skipping notification",
			"tenant_id", tenantID,
			"user_id", recipientID,
		)
		return
	}

	title, body := render(event, actorName)
	msg := Message{
		Token: user.PushToken,
		Title: title,
		Body:  body,
		Data: map[string]string{
			"event":     string(event),
			"record_id": recordID,
		},
	}

	if err := d.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, ErrInvalidToken) {
			d.pruneToken(ctx, user)
			return
		}
		d.logger.Warn("notification delivery failed",
			"tenant_id", tenantID,
			"user_id", recipientID,
			"event", string(event),
			"error", err,
		)
		return
	}

	d.logger.Debug("notification delivered",
		"tenant_id", tenantID,
		"user_id", recipientID,
		"event", string(event),
	)
}

// pruneToken clears an unregistered push token so it is not retried.
func (d *Dispatcher) pruneToken(ctx context.Context, user *tenant.User) {
	user.PushToken = ""
	if err := d.users.PutUser(ctx, user); err != nil {
		d.logger.Warn("failed to prune invalid push token",
			"tenant_id", user.TenantID,
			"user_id", user.ID,
			"error", err,
		)
		return
	}
	d.logger.Info("pruned invalid push token",
		"tenant_id", user.TenantID,
		"user_id", user.ID,
	)
}
