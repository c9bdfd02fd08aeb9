package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"rollcall-hq/rollcall/pkg/attendance"
)

// attendanceSheet is the sheet records are appended to.
const attendanceSheet = "Attendance"

// SyncStatus is the last-sync bookkeeping kept per tenant.
type SyncStatus struct {
	LastAttempt time.Time
	LastSuccess time.Time
	LastError   string
	RowsWritten int64
}

// Service exports approved records to the configured spreadsheet and tracks
// per-tenant sync status.
type Service struct {
	client        SpreadsheetClient
	spreadsheetID string
	now           func() time.Time
	logger        *slog.Logger

	mu     sync.Mutex
	status map[string]*SyncStatus
}

// NewService creates a Service writing to the given spreadsheet.
func NewService(client SpreadsheetClient, spreadsheetID string) *Service {
	return &Service{
		client:        client,
		spreadsheetID: spreadsheetID,
		now:           time.Now,
		logger:        slog.Default().With("component", "sheets.sync"),
		status:        make(map[string]*SyncStatus),
	}
}

// ExportRecord appends one approved record as a spreadsheet row. Failures
// are recorded in the tenant's sync status and returned; callers treat them
// as non-fatal.
func (s *Service) ExportRecord(ctx context.Context, record *attendance.Record) error {
	row := recordRow(record)

	err := s.client.AppendRows(ctx, s.spreadsheetID, attendanceSheet, [][]string{row})
	s.track(record.TenantID, 1, err)
	if err != nil {
		s.logger.Warn("spreadsheet export failed",
			"tenant_id", record.TenantID,
			"record_id", record.ID,
			"error", err,
		)
		return fmt.Errorf("export record %s: %w", record.ID, err)
	}
	return nil
}

// Status returns a copy of the tenant's sync bookkeeping. The zero status
// means no export was ever attempted.
func (s *Service) Status(tenantID string) SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.status[tenantID]; ok {
		return *st
	}
	return SyncStatus{}
}

func (s *Service) track(tenantID string, rows int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.status[tenantID]
	if !ok {
		st = &SyncStatus{}
		s.status[tenantID] = st
	}
	st.LastAttempt = s.now()
	if err != nil {
		st.LastError = err.Error()
		return
	}
	st.LastSuccess = s.now()
	st.LastError = ""
	st.RowsWritten += rows
}

// recordRow flattens a record into the spreadsheet column layout: id, user,
// check-in, check-out, status, address.
func recordRow(record *attendance.Record) []string {
	checkOut := ""
	if record.CheckOutTime != nil {
		checkOut = record.CheckOutTime.UTC().Format(time.RFC3339)
	}
	return []string{
		record.ID,
		record.UserName,
		record.CheckInTime.UTC().Format(time.RFC3339),
		checkOut,
		string(record.Status),
		record.CheckInAddress,
	}
}
