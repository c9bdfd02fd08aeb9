// Package archival implements the data retention pipeline: a recurring job
// that, for every tenant, finds attendance records older than the tenant's
// retention window, writes them durably to archive storage as NDJSON, and
// only then purges them from the live store.
//
// The pipeline is built from small pieces wired by explicit dependency
// injection:
//
//   - PolicyResolver computes the per-tenant retention cutoff, or a skip.
//   - BatchArchiver drives one tenant batch by batch with cursor pagination.
//   - Writer persists one uniquely named archive object per batch.
//   - Coordinator fans out over all tenants concurrently and settles every
//     outcome without letting one tenant's failure abort another's.
//   - Scheduler fires the coordinator on a cron expression.
//
// The correctness contract is ordering, not atomicity across stores: a batch
// is purged only after its archive write has been confirmed in the same
// invocation. A purge failure after a confirmed write leaves the batch
// duplicated (archived and live), which is the safe direction; it is flagged
// as critical for manual reconciliation. The reverse direction, purge without
// archive, cannot happen by construction.
package archival
