package userimport

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"rollcall-hq/rollcall/pkg/tenant"
)

// expected CSV header, in order.
var header = []string{"name", "email", "role", "supervisor_email"}

// RowError reports one rejected row. Row numbers are 1-based and count the
// header, matching what a spreadsheet shows the operator.
type RowError struct {
	Row     int
	Message string
}

// Error implements the error interface.
func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Report summarizes one import run.
type Report struct {
	Imported int
	Skipped  int
	Errors   []RowError
}

// Importer loads users from CSV into the tenant directory.
type Importer struct {
	store  tenant.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewImporter creates an Importer backed by the given directory store.
func NewImporter(store tenant.Store) *Importer {
	return &Importer{
		store:  store,
		now:    time.Now,
		logger: slog.Default().With("component", "userimport"),
	}
}

// Import reads CSV from r and creates one user per valid row. Imported
// users start in the Invited state. A malformed header or unreadable stream
// fails the whole import; individual row problems only mark that row.
func (im *Importer) Import(ctx context.Context, tenantID string, r io.Reader) (*Report, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(header)
	reader.TrimLeadingSpace = true

	head, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, col := range header {
		if i >= len(head) || !strings.EqualFold(strings.TrimSpace(head[i]), col) {
			return nil, fmt.Errorf("unexpected csv header: want %s", strings.Join(header, ","))
		}
	}

	// Emails seen in the directory or earlier rows, for supervisor
	// resolution and duplicate detection.
	byEmail := make(map[string]string)
	existing, err := im.store.ListUsers(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list existing users: %w", err)
	}
	for _, u := range existing {
		byEmail[strings.ToLower(u.Email)] = u.ID
	}

	report := &Report{}
	rowNum := 1
	for {
		rowNum++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Message: err.Error()})
			continue
		}

		user, rowErr := im.buildUser(tenantID, rowNum, row, byEmail)
		if rowErr != nil {
			report.Skipped++
			report.Errors = append(report.Errors, *rowErr)
			continue
		}

		if err := im.store.PutUser(ctx, user); err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Message: fmt.Sprintf("store user: %v", err)})
			continue
		}
		byEmail[strings.ToLower(user.Email)] = user.ID
		report.Imported++
	}

	im.logger.Info("user import finished",
		"tenant_id", tenantID,
		"imported", report.Imported,
		"skipped", report.Skipped,
	)
	return report, nil
}

// buildUser validates one row and constructs the user. byEmail maps known
// lowercase emails to user ids.
func (im *Importer) buildUser(tenantID string, rowNum int, row []string, byEmail map[string]string) (*tenant.User, *RowError) {
	name := strings.TrimSpace(row[0])
	email := strings.ToLower(strings.TrimSpace(row[1]))
	role := tenant.Role(strings.TrimSpace(row[2]))
	supervisorEmail := strings.ToLower(strings.TrimSpace(row[3]))

	if name == "" {
		return nil, &RowError{Row: rowNum, Message: "name is required"}
	}
	if !validEmail(email) {
		return nil, &RowError{Row: rowNum, Message: fmt.Sprintf("invalid email %q", row[1])}
	}
	if _, exists := byEmail[email]; exists {
		return nil, &RowError{Row: rowNum, Message: fmt.Sprintf("duplicate email %q", email)}
	}
	if !tenant.ValidRole(role) {
		return nil, &RowError{Row: rowNum, Message: fmt.Sprintf("unknown role %q", row[2])}
	}

	var supervisorID string
	if supervisorEmail != "" {
		id, ok := byEmail[supervisorEmail]
		if !ok {
			return nil, &RowError{Row: rowNum, Message: fmt.Sprintf("supervisor %q not found", supervisorEmail)}
		}
		supervisorID = id
	}

	now := im.now().UTC()
	return &tenant.User{
		ID:           uuid.NewString(),
		TenantID:     tenantID,
		Name:         name,
		Email:        email,
		Role:         role,
		Status:       tenant.UserInvited,
		SupervisorID: supervisorID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// validEmail does a shape check, not RFC validation: one @ with something
// on both sides and a dot in the domain.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.Contains(domain, "@")
}
