// Package attendance defines the attendance record model and the live store
// abstraction used by the rest of the system.
//
// Records carry a strongly-typed core (identity, tenant, check-in time) plus an
// open bag of additional fields. The store treats records as documents: the
// typed core is indexed for queries, everything else is preserved verbatim so
// that archival never loses data written by other collaborators.
//
// Two store backends are provided under attendance/storage: an in-memory store
// for tests and development, and a SQLite-backed store for production use.
package attendance
