// Package notify delivers push notifications for attendance events.
//
// Delivery is best effort: a failed send is logged and dropped, never
// surfaced to the operation that triggered it. Tokens the push endpoint
// reports as invalid are pruned from the user's directory entry so they are
// not retried forever.
package notify
