package attendance

import (
	"context"
	"encoding/json"
	"time"
)

// Status represents the approval state of an attendance record.
type Status string

const (
	// StatusPending means the record awaits supervisor approval.
	StatusPending Status = "Pending"
	// StatusApproved means the record has been approved.
	StatusApproved Status = "Approved"
	// StatusRejected means the record has been rejected.
	StatusRejected Status = "Rejected"
)

// Record is a single attendance event scoped to one tenant.
//
// The typed fields are the core the system indexes and queries on. Fields
// holds every other key present in the stored document; it is preserved
// verbatim through storage and archival so the schema stays open. Keys in
// Fields never shadow typed fields: on conflict the typed value wins.
type Record struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name,omitempty"`

	// CheckInTime is the age field used by retention queries.
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`

	Status Status `json:"status,omitempty"`

	CheckInLat      float64 `json:"check_in_lat,omitempty"`
	CheckInLng      float64 `json:"check_in_lng,omitempty"`
	CheckInAccuracy float64 `json:"check_in_accuracy,omitempty"`
	CheckInAddress  string  `json:"check_in_address,omitempty"`

	ApproverHierarchy []string `json:"approver_hierarchy,omitempty"`

	// Fields carries all additional document fields verbatim.
	Fields map[string]any `json:"-"`
}

// typedKeys are the JSON keys owned by the typed core of Record.
var typedKeys = map[string]bool{
	"id":                 true,
	"tenant_id":          true,
	"user_id":            true,
	"user_name":          true,
	"check_in_time":      true,
	"check_out_time":     true,
	"status":             true,
	"check_in_lat":       true,
	"check_in_lng":       true,
	"check_in_accuracy":  true,
	"check_in_address":   true,
	"approver_hierarchy": true,
}

// recordCore mirrors Record without the custom marshalling, so the typed
// fields can be encoded with plain struct tags.
type recordCore struct {
	ID                string     `json:"id"`
	TenantID          string     `json:"tenant_id"`
	UserID            string     `json:"user_id"`
	UserName          string     `json:"user_name,omitempty"`
	CheckInTime       time.Time  `json:"check_in_time"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	Status            Status     `json:"status,omitempty"`
	CheckInLat        float64    `json:"check_in_lat,omitempty"`
	CheckInLng        float64    `json:"check_in_lng,omitempty"`
	CheckInAccuracy   float64    `json:"check_in_accuracy,omitempty"`
	CheckInAddress    string     `json:"check_in_address,omitempty"`
	ApproverHierarchy []string   `json:"approver_hierarchy,omitempty"`
}

// MarshalJSON flattens the typed core and the open Fields bag into a single
// JSON object. Typed fields win on key conflicts.
func (r *Record) MarshalJSON() ([]byte, error) {
	core := recordCore{
		ID:                r.ID,
		TenantID:          r.TenantID,
		UserID:            r.UserID,
		UserName:          r.UserName,
		CheckInTime:       r.CheckInTime,
		CheckOutTime:      r.CheckOutTime,
		Status:            r.Status,
		CheckInLat:        r.CheckInLat,
		CheckInLng:        r.CheckInLng,
		CheckInAccuracy:   r.CheckInAccuracy,
		CheckInAddress:    r.CheckInAddress,
		ApproverHierarchy: r.ApproverHierarchy,
	}

	coreJSON, err := json.Marshal(core)
	if err != nil {
		return nil, err
	}

	if len(r.Fields) == 0 {
		return coreJSON, nil
	}

	merged := make(map[string]json.RawMessage, len(r.Fields)+12)
	if err := json.Unmarshal(coreJSON, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Fields {
		if typedKeys[k] {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		merged[k] = raw
	}
	return json.Marshal(merged)
}

// UnmarshalJSON decodes the typed core and collects every unknown key into
// Fields, so documents round-trip without loss.
func (r *Record) UnmarshalJSON(data []byte) error {
	var core recordCore
	if err := json.Unmarshal(data, &core); err != nil {
		return err
	}

	var all map[string]any
	if err := json.Unmarshal(data, &all); err != nil {
		return err
	}

	*r = Record{
		ID:                core.ID,
		TenantID:          core.TenantID,
		UserID:            core.UserID,
		UserName:          core.UserName,
		CheckInTime:       core.CheckInTime,
		CheckOutTime:      core.CheckOutTime,
		Status:            core.Status,
		CheckInLat:        core.CheckInLat,
		CheckInLng:        core.CheckInLng,
		CheckInAccuracy:   core.CheckInAccuracy,
		CheckInAddress:    core.CheckInAddress,
		ApproverHierarchy: core.ApproverHierarchy,
	}

	for k := range all {
		if typedKeys[k] {
			delete(all, k)
		}
	}
	if len(all) > 0 {
		r.Fields = all
	}
	return nil
}

// Cursor marks where a paginated archival query should resume. It identifies
// the last record of the previous page by its age field and id, which keeps
// pagination stable when new records are written past the cutoff.
//
// A cursor is only valid within a single pipeline run; it is never persisted.
type Cursor struct {
	CheckInTime time.Time
	ID          string
}

// MaxPurgeBatch is the hard ceiling on operations in one atomic purge.
// Callers must page below it; PurgeBatch rejects larger batches.
const MaxPurgeBatch = 500

// Store is the live record store boundary.
//
// Implementations must be safe for concurrent use.
type Store interface {
	// Put inserts or replaces a record.
	Put(ctx context.Context, record *Record) error

	// Get returns a record by id, or ErrNotFound.
	Get(ctx context.Context, tenantID, id string) (*Record, error)

	// QueryArchivable returns up to limit records of the tenant whose
	// check-in time is at or before cutoff, ordered ascending by
	// (check-in time, id), starting strictly after the cursor. A nil
	// cursor starts from the oldest record.
	QueryArchivable(ctx context.Context, tenantID string, cutoff time.Time, limit int, after *Cursor) ([]*Record, error)

	// PurgeBatch deletes exactly the given record ids as one atomic
	// operation. Batches larger than MaxPurgeBatch are rejected.
	PurgeBatch(ctx context.Context, tenantID string, ids []string) error

	// Count returns the number of live records for the tenant.
	Count(ctx context.Context, tenantID string) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
