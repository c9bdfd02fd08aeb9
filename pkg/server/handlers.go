package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"rollcall-hq/rollcall/pkg/attendance"
	"rollcall-hq/rollcall/pkg/sheets"
	"rollcall-hq/rollcall/pkg/tenant"
	"rollcall-hq/rollcall/pkg/userimport"
)

// errorResponse is the JSON envelope for all handler errors.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: errorBody{Message: message}})
}

// statusForError maps domain errors to HTTP status codes. Unknown errors
// are server faults.
func statusForError(err error) int {
	switch {
	case errors.Is(err, attendance.ErrNotFound),
		errors.Is(err, tenant.ErrTenantNotFound),
		errors.Is(err, tenant.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrAlreadyDecided):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ProvisionHandler onboards new tenants.
type ProvisionHandler struct {
	Provisioner *tenant.Provisioner
}

// NewProvisionHandler creates a tenant provisioning handler.
func NewProvisionHandler(p *tenant.Provisioner) *ProvisionHandler {
	return &ProvisionHandler{Provisioner: p}
}

type provisionRequest struct {
	OrganizationName string `json:"organization_name"`
	AdminName        string `json:"admin_name"`
	AdminEmail       string `json:"admin_email"`
}

type provisionResponse struct {
	Tenant *tenant.Tenant `json:"tenant"`
	Admin  *tenant.User   `json:"admin"`
}

// ServeHTTP implements http.Handler for POST /v1/tenants.
func (h *ProvisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req provisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	t, admin, err := h.Provisioner.Provision(r.Context(), tenant.ProvisionRequest{
		OrganizationName: req.OrganizationName,
		AdminName:        req.AdminName,
		AdminEmail:       req.AdminEmail,
	})
	if err != nil {
		var storeErr *tenant.StoreError
		if errors.As(err, &storeErr) {
			writeError(w, http.StatusInternalServerError, "tenant provisioning failed")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, provisionResponse{Tenant: t, Admin: admin})
}

// CheckInHandler records new check-ins.
type CheckInHandler struct {
	Attendance *attendance.Service
}

// NewCheckInHandler creates a check-in handler.
func NewCheckInHandler(svc *attendance.Service) *CheckInHandler {
	return &CheckInHandler{Attendance: svc}
}

type checkInRequest struct {
	UserID   string         `json:"user_id"`
	UserName string         `json:"user_name"`
	Lat      float64        `json:"lat"`
	Lng      float64        `json:"lng"`
	Accuracy float64        `json:"accuracy"`
	Fields   map[string]any `json:"fields,omitempty"`
}

// ServeHTTP implements http.Handler for POST /v1/tenants/{tenant}/checkins.
func (h *CheckInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tenantID := r.PathValue("tenant")

	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	record, err := h.Attendance.CheckIn(r.Context(), attendance.CheckInRequest{
		TenantID: tenantID,
		UserID:   req.UserID,
		UserName: req.UserName,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Accuracy: req.Accuracy,
		Fields:   req.Fields,
	})
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, record)
}

// CheckOutHandler closes open check-ins.
type CheckOutHandler struct {
	Attendance *attendance.Service
}

// NewCheckOutHandler creates a check-out handler.
func NewCheckOutHandler(svc *attendance.Service) *CheckOutHandler {
	return &CheckOutHandler{Attendance: svc}
}

// ServeHTTP implements http.Handler for
// POST /v1/tenants/{tenant}/checkins/{record}/checkout.
func (h *CheckOutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	record, err := h.Attendance.CheckOut(r.Context(), r.PathValue("tenant"), r.PathValue("record"))
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// DecisionHandler applies approval decisions to pending check-ins.
type DecisionHandler struct {
	Attendance *attendance.Service
}

// NewDecisionHandler creates an approval decision handler.
func NewDecisionHandler(svc *attendance.Service) *DecisionHandler {
	return &DecisionHandler{Attendance: svc}
}

type decisionRequest struct {
	Approve bool `json:"approve"`
}

// ServeHTTP implements http.Handler for
// POST /v1/tenants/{tenant}/checkins/{record}/decision.
func (h *DecisionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req decisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	record, err := h.Attendance.Decide(r.Context(), r.PathValue("tenant"), r.PathValue("record"), req.Approve)
	if err != nil {
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, record)
}

// ImportHandler bulk-imports users from an uploaded CSV file.
type ImportHandler struct {
	Importer *userimport.Importer
}

// NewImportHandler creates a user import handler.
func NewImportHandler(im *userimport.Importer) *ImportHandler {
	return &ImportHandler{Importer: im}
}

type importRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type importResponse struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []importRowError `json:"errors"`
}

// ServeHTTP implements http.Handler for
// POST /v1/tenants/{tenant}/users/import. The request body is the CSV file.
func (h *ImportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report, err := h.Importer.Import(r.Context(), r.PathValue("tenant"), r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := importResponse{
		Imported: report.Imported,
		Skipped:  report.Skipped,
		Errors:   make([]importRowError, 0, len(report.Errors)),
	}
	for _, rowErr := range report.Errors {
		resp.Errors = append(resp.Errors, importRowError{Row: rowErr.Row, Message: rowErr.Message})
	}

	writeJSON(w, http.StatusOK, resp)
}

// SheetsStatusHandler reports per-tenant spreadsheet sync status.
type SheetsStatusHandler struct {
	Sheets *sheets.Service
}

// NewSheetsStatusHandler creates a sheets status handler.
func NewSheetsStatusHandler(s *sheets.Service) *SheetsStatusHandler {
	return &SheetsStatusHandler{Sheets: s}
}

type sheetsStatusResponse struct {
	LastAttempt *time.Time `json:"last_attempt,omitempty"`
	LastSuccess *time.Time `json:"last_success,omitempty"`
	LastError   string     `json:"last_error,omitempty"`
	RowsWritten int64      `json:"rows_written"`
}

// ServeHTTP implements http.Handler for
// GET /v1/tenants/{tenant}/sheets/status.
func (h *SheetsStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.Sheets.Status(r.PathValue("tenant"))

	resp := sheetsStatusResponse{
		LastError:   status.LastError,
		RowsWritten: status.RowsWritten,
	}
	if !status.LastAttempt.IsZero() {
		resp.LastAttempt = &status.LastAttempt
	}
	if !status.LastSuccess.IsZero() {
		resp.LastSuccess = &status.LastSuccess
	}

	writeJSON(w, http.StatusOK, resp)
}

// HealthHandler answers liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for GET /health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
