package notify

import "context"

// AttendanceNotifier adapts the Dispatcher to the attendance service's
// notification hooks.
type AttendanceNotifier struct {
	dispatcher *Dispatcher
}

// NewAttendanceNotifier wraps a Dispatcher.
func NewAttendanceNotifier(dispatcher *Dispatcher) *AttendanceNotifier {
	return &AttendanceNotifier{dispatcher: dispatcher}
}

// ApprovalRequested notifies the approver that a check-in awaits review.
func (n *AttendanceNotifier) ApprovalRequested(ctx context.Context, tenantID, approverID, submitterName, recordID string) {
	n.dispatcher.Notify(ctx, tenantID, approverID, EventApprovalRequested, submitterName, recordID)
}

// Decided notifies the submitter of the approval outcome.
func (n *AttendanceNotifier) Decided(ctx context.Context, tenantID, submitterID, recordID string, approved bool) {
	event := EventRejected
	if approved {
		event = EventApproved
	}
	n.dispatcher.Notify(ctx, tenantID, submitterID, event, "", recordID)
}
