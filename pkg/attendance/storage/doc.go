// Package storage provides the attendance store backends.
//
// MemoryStore is an in-memory implementation used by tests and local
// development. SQLiteStore is the production backend; it indexes the typed
// record core in columns and keeps the full document as JSON so unknown
// fields survive storage untouched.
package storage
