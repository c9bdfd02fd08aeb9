package storage

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"rollcall-hq/rollcall/pkg/attendance"
)

// MemoryStore implements the attendance.Store interface using an in-memory
// map. This implementation is intended for testing and local development.
type MemoryStore struct {
	records map[string]map[string]*attendance.Record // tenantID -> recordID -> record
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory attendance store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]*attendance.Record),
	}
}

// Put inserts or replaces a record.
func (s *MemoryStore) Put(ctx context.Context, record *attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tenant := s.records[record.TenantID]
	if tenant == nil {
		tenant = make(map[string]*attendance.Record)
		s.records[record.TenantID] = tenant
	}

	copied, err := copyRecord(record)
	if err != nil {
		return attendance.NewStorageError("memory", "put", err)
	}
	tenant[record.ID] = copied
	return nil
}

// Get returns a record by id, or attendance.ErrNotFound.
func (s *MemoryStore) Get(ctx context.Context, tenantID, id string) (*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[tenantID][id]
	if !ok {
		return nil, attendance.ErrNotFound
	}
	return copyRecord(record)
}

// QueryArchivable returns up to limit records at or before the cutoff,
// ordered ascending by (check-in time, id), starting after the cursor.
func (s *MemoryStore) QueryArchivable(ctx context.Context, tenantID string, cutoff time.Time, limit int, after *attendance.Cursor) ([]*attendance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*attendance.Record
	for _, record := range s.records[tenantID] {
		if record.CheckInTime.After(cutoff) {
			continue
		}
		if after != nil && !afterCursor(record, after) {
			continue
		}
		matched = append(matched, record)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CheckInTime.Equal(matched[j].CheckInTime) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CheckInTime.Before(matched[j].CheckInTime)
	})

	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]*attendance.Record, 0, len(matched))
	for _, record := range matched {
		copied, err := copyRecord(record)
		if err != nil {
			return nil, attendance.NewStorageError("memory", "query", err)
		}
		results = append(results, copied)
	}
	return results, nil
}

// afterCursor reports whether the record sorts strictly after the cursor in
// (check-in time, id) order.
func afterCursor(record *attendance.Record, after *attendance.Cursor) bool {
	if record.CheckInTime.After(after.CheckInTime) {
		return true
	}
	if record.CheckInTime.Equal(after.CheckInTime) {
		return record.ID > after.ID
	}
	return false
}

// PurgeBatch deletes exactly the given record ids, all or nothing.
func (s *MemoryStore) PurgeBatch(ctx context.Context, tenantID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if len(ids) > attendance.MaxPurgeBatch {
		return attendance.NewStorageError("memory", "purge", &attendance.BatchSizeError{Size: len(ids), Ceiling: attendance.MaxPurgeBatch})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tenant := s.records[tenantID]
	for _, id := range ids {
		if _, ok := tenant[id]; !ok {
			return attendance.NewStorageError("memory", "purge", attendance.ErrNotFound)
		}
	}
	for _, id := range ids {
		delete(tenant, id)
	}
	return nil
}

// Count returns the number of live records for the tenant.
func (s *MemoryStore) Count(ctx context.Context, tenantID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records[tenantID])), nil
}

// Close releases resources; a no-op for the memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// copyRecord deep-copies a record through its JSON form so callers can never
// mutate stored state through the open Fields bag.
func copyRecord(record *attendance.Record) (*attendance.Record, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, err
	}
	var copied attendance.Record
	if err := json.Unmarshal(data, &copied); err != nil {
		return nil, err
	}
	return &copied, nil
}
