// Package approval resolves the approver hierarchy for attendance records.
//
// A record's approvers are the submitting user's supervisor chain, walked
// upward until the tenant's configured approval depth is reached or the
// chain ends. The walk is cycle-safe: a supervisor loop terminates the
// chain instead of recursing forever.
package approval
