package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Geocoder resolves coordinates to an address. Optional enrichment.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) (string, error)
}

// HierarchyResolver builds the approver chain for a user.
type HierarchyResolver interface {
	BuildHierarchy(ctx context.Context, tenantID, userID string, levels int) ([]string, error)
}

// ApprovalPolicy yields how many approval levels a tenant requires.
type ApprovalPolicy interface {
	ApprovalLevels(ctx context.Context, tenantID string) (int, error)
}

// Notifier receives lifecycle events for delivered notifications. All
// methods are fire-and-forget.
type Notifier interface {
	ApprovalRequested(ctx context.Context, tenantID, approverID, submitterName, recordID string)
	Decided(ctx context.Context, tenantID, submitterID, recordID string, approved bool)
}

// Exporter mirrors an approved record to an external sink.
type Exporter interface {
	ExportRecord(ctx context.Context, record *Record) error
}

// CheckInRequest carries the inputs for recording a check-in.
type CheckInRequest struct {
	TenantID string
	UserID   string
	UserName string
	Lat      float64
	Lng      float64
	Accuracy float64
	// Fields carries client-supplied open keys, stored verbatim.
	Fields map[string]any
}

// Service implements the attendance operations: check-in with enrichment,
// check-out, and the approval decisions. Enrichment is best effort; only
// the store write is load-bearing.
type Service struct {
	store    Store
	geocoder Geocoder // may be nil
	resolver HierarchyResolver
	policy   ApprovalPolicy
	notifier Notifier // may be nil
	exporter Exporter // may be nil
	now      func() time.Time
	logger   *slog.Logger
}

// NewService creates a Service. geocoder, notifier, and exporter may be nil
// to disable the corresponding enrichment.
func NewService(store Store, geocoder Geocoder, resolver HierarchyResolver, policy ApprovalPolicy, notifier Notifier, exporter Exporter) *Service {
	return &Service{
		store:    store,
		geocoder: geocoder,
		resolver: resolver,
		policy:   policy,
		notifier: notifier,
		exporter: exporter,
		now:      time.Now,
		logger:   slog.Default().With("component", "attendance.service"),
	}
}

// WithClock overrides the service clock. Returns the service for chaining.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CheckIn records a check-in, enriches it with a reverse-geocoded address
// and the approver hierarchy, stores it pending, and notifies the first
// approver. Geocoding failures degrade the address to empty.
func (s *Service) CheckIn(ctx context.Context, req CheckInRequest) (*Record, error) {
	if req.TenantID == "" || req.UserID == "" {
		return nil, fmt.Errorf("tenant and user are required")
	}

	record := &Record{
		ID:              uuid.NewString(),
		TenantID:        req.TenantID,
		UserID:          req.UserID,
		UserName:        req.UserName,
		CheckInTime:     s.now().UTC(),
		Status:          StatusPending,
		CheckInLat:      req.Lat,
		CheckInLng:      req.Lng,
		CheckInAccuracy: req.Accuracy,
		Fields:          req.Fields,
	}

	if s.geocoder != nil {
		address, err := s.geocoder.ReverseGeocode(ctx, req.Lat, req.Lng)
		if err != nil {
			s.logger.Warn("reverse geocoding failed, storing check-in without address",
				"tenant_id", req.TenantID,
				"record_id", record.ID,
				"error", err,
			)
		} else {
			record.CheckInAddress = address
		}
	}

	levels, err := s.policy.ApprovalLevels(ctx, req.TenantID)
	if err != nil {
		return nil, fmt.Errorf("resolve approval policy: %w", err)
	}
	chain, err := s.resolver.BuildHierarchy(ctx, req.TenantID, req.UserID, levels)
	if err != nil {
		return nil, fmt.Errorf("build approver hierarchy: %w", err)
	}
	record.ApproverHierarchy = chain

	if err := s.store.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("store check-in: %w", err)
	}

	if s.notifier != nil && len(chain) > 0 {
		s.notifier.ApprovalRequested(ctx, req.TenantID, chain[0], req.UserName, record.ID)
	}

	s.logger.Info("check-in recorded",
		"tenant_id", req.TenantID,
		"record_id", record.ID,
		"approvers", len(chain),
	)
	return record, nil
}

// CheckOut stamps the check-out time on an open record.
func (s *Service) CheckOut(ctx context.Context, tenantID, recordID string) (*Record, error) {
	record, err := s.store.Get(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record.CheckOutTime != nil {
		return nil, fmt.Errorf("record %s: %w", recordID, ErrAlreadyCheckedOut)
	}

	out := s.now().UTC()
	record.CheckOutTime = &out
	if err := s.store.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("store check-out: %w", err)
	}
	return record, nil
}

// Decide applies an approval decision. Only pending records can be decided.
// The submitter is notified; an approval is additionally exported to the
// spreadsheet sink, best effort.
func (s *Service) Decide(ctx context.Context, tenantID, recordID string, approve bool) (*Record, error) {
	record, err := s.store.Get(ctx, tenantID, recordID)
	if err != nil {
		return nil, err
	}
	if record.Status != StatusPending {
		return nil, fmt.Errorf("record %s is already %s: %w", recordID, record.Status, ErrAlreadyDecided)
	}

	if approve {
		record.Status = StatusApproved
	} else {
		record.Status = StatusRejected
	}
	if err := s.store.Put(ctx, record); err != nil {
		return nil, fmt.Errorf("store decision: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Decided(ctx, tenantID, record.UserID, record.ID, approve)
	}
	if approve && s.exporter != nil {
		if err := s.exporter.ExportRecord(ctx, record); err != nil {
			s.logger.Warn("spreadsheet export failed for approved record",
				"tenant_id", tenantID,
				"record_id", record.ID,
				"error", err,
			)
		}
	}

	s.logger.Info("approval decision applied",
		"tenant_id", tenantID,
		"record_id", record.ID,
		"status", string(record.Status),
	)
	return record, nil
}
