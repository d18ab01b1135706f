/*
handlers.go - HTTP API handlers for the attendance and payroll core

PURPOSE:
  Exposes the attendance/payroll engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Punches:
    POST   /api/punches                      Record an attendance event
    GET    /api/employees/{id}/punch         Current open punch (204 if none)
    GET    /api/employees/{id}/hours         Worked hours for a window

  Payroll:
    POST   /api/payroll/preview              Pure pay calculation, inputs inline
    POST   /api/payroll/report               Run the payroll report

  Admin (thin CRUD around the store):
    GET/POST /api/employees
    GET/POST /api/geofences
    POST     /api/geofences/assignments
    POST     /api/overtime-rule
    POST     /api/deductions
    POST     /api/loans

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors (state-machine or geofence rejections included)
  - 404: Resource not found
  - 409: Concurrency conflict that survived the transparent retry
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lazizbekravshanov/shopmule-sub004/geo"
	"github.com/lazizbekravshanov/shopmule-sub004/payroll"
	"github.com/lazizbekravshanov/shopmule-sub004/store/sqlite"
	"github.com/lazizbekravshanov/shopmule-sub004/timeclock"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Clock   *timeclock.Clock
	Reports *payroll.ReportBuilder
	Log     zerolog.Logger
}

// NewHandler wires the engine on top of the given store.
func NewHandler(store *sqlite.Store, log zerolog.Logger) *Handler {
	clock := timeclock.NewClock(store, store, store)
	return &Handler{
		Store:   store,
		Clock:   clock,
		Reports: payroll.NewReportBuilder(store, clock, store),
		Log:     log,
	}
}

// =============================================================================
// PUNCH HANDLERS
// =============================================================================

// RecordPunch records one attendance event.
func (h *Handler) RecordPunch(w http.ResponseWriter, r *http.Request) {
	var req RecordPunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", "missing_employee_id")
		return
	}

	var at time.Time
	if req.Timestamp != "" {
		t, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "timestamp must be RFC3339", "bad_timestamp")
			return
		}
		at = t
	}

	ev, err := h.Clock.RecordPunch(r.Context(), timeclock.PunchRequest{
		EmployeeID:   req.EmployeeID,
		Type:         timeclock.PunchType(req.Type),
		At:           at,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Accuracy:     req.Accuracy,
		SourceMethod: req.SourceMethod,
		Note:         req.Note,
	})
	if err != nil {
		h.writePunchError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, punchDTO(ev))
}

func (h *Handler) writePunchError(w http.ResponseWriter, err error) {
	switch {
	case timeclock.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), punchErrorCode(err))
	case timeclock.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), "not_found")
	case timeclock.IsConflict(err):
		writeError(w, http.StatusConflict, err.Error(), "conflict")
	default:
		h.Log.Error().Err(err).Msg("punch failed")
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
	}
}

func punchErrorCode(err error) string {
	var tr *timeclock.TransitionError
	if errors.As(err, &tr) {
		return "illegal_transition"
	}
	if errors.Is(err, geo.ErrOutsideZone) {
		return "outside_zone"
	}
	if errors.Is(err, geo.ErrLocationRequired) {
		return "location_required"
	}
	return "validation"
}

// CurrentOpenPunch returns the employee's open punch, 204 when none.
func (h *Handler) CurrentOpenPunch(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	ev, err := h.Clock.CurrentOpenPunch(r.Context(), employeeID)
	if err != nil {
		h.Log.Error().Err(err).Str("employee", employeeID).Msg("open punch lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	if ev == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, punchDTO(ev))
}

// ComputeHours aggregates worked hours for a window.
// Query params: start (RFC3339, required), now (RFC3339, default server time).
func (h *Handler) ComputeHours(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be RFC3339", "bad_start")
		return
	}
	now := time.Now()
	if v := r.URL.Query().Get("now"); v != "" {
		now, err = time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "now must be RFC3339", "bad_now")
			return
		}
	}

	hours, err := h.Clock.ComputeHours(r.Context(), employeeID, start, now)
	if err != nil {
		h.Log.Error().Err(err).Str("employee", employeeID).Msg("hours computation failed")
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	writeJSON(w, http.StatusOK, HoursDTO{
		EmployeeID: employeeID,
		From:       start.UTC().Format(time.RFC3339),
		To:         now.UTC().Format(time.RFC3339),
		Hours:      hours,
	})
}

// =============================================================================
// PAYROLL HANDLERS
// =============================================================================

// PreviewPay runs the pure calculator over body-supplied inputs.
func (h *Handler) PreviewPay(w http.ResponseWriter, r *http.Request) {
	var req PreviewPayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	period := payroll.PayPeriod(req.Period)
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "period must be week, month, quarter or year", "bad_period")
		return
	}
	if req.RegularHours < 0 || req.OvertimeHours < 0 {
		writeError(w, http.StatusBadRequest, "hours must not be negative", "negative_hours")
		return
	}
	emp := req.Employee.toDomain()
	if !emp.PayRate.IsPositive() {
		writeError(w, http.StatusBadRequest, "pay_rate must be positive", "bad_pay_rate")
		return
	}

	var rule *payroll.OvertimeRule
	if req.OvertimeRule != nil {
		ot := req.OvertimeRule.toDomain()
		rule = &ot
	}
	var deductions []payroll.Deduction
	for _, d := range req.Deductions {
		deductions = append(deductions, d.toDomain())
	}
	var loans []payroll.LoanAdvance
	for _, l := range req.Loans {
		loans = append(loans, l.toDomain())
	}

	bd := payroll.Calculate(emp, req.RegularHours, req.OvertimeHours, rule, deductions, loans, period)
	writeJSON(w, http.StatusOK, bd)
}

// RunReport runs the payroll report for a period and employee scope.
func (h *Handler) RunReport(w http.ResponseWriter, r *http.Request) {
	var req RunReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	period := payroll.PayPeriod(req.Period)
	if !period.Valid() {
		writeError(w, http.StatusBadRequest, "period must be week, month, quarter or year", "bad_period")
		return
	}

	ids := req.EmployeeIDs
	if len(ids) == 0 {
		employees, err := h.Store.ListEmployees(r.Context())
		if err != nil {
			h.Log.Error().Err(err).Msg("list employees failed")
			writeError(w, http.StatusInternalServerError, "internal error", "internal")
			return
		}
		for _, emp := range employees {
			ids = append(ids, emp.ID)
		}
	}

	report, err := h.Reports.Run(r.Context(), period, ids)
	if err != nil {
		if timeclock.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err.Error(), "not_found")
			return
		}
		h.Log.Error().Err(err).Msg("payroll report failed")
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// =============================================================================
// ADMIN HANDLERS - thin CRUD around the store
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list employees", "internal")
		return
	}
	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = employeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req EmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	emp := req.toDomain()
	switch emp.PayType {
	case payroll.PayHourly, payroll.PaySalary, payroll.PayFlatRate:
	default:
		writeError(w, http.StatusBadRequest, "pay_type must be hourly, salary or flat_rate", "bad_pay_type")
		return
	}
	if !emp.PayRate.IsPositive() {
		writeError(w, http.StatusBadRequest, "pay_rate must be positive", "bad_pay_rate")
		return
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save employee", "internal")
		return
	}
	writeJSON(w, http.StatusCreated, employeeDTO(emp))
}

// ListGeofences returns all geofences.
func (h *Handler) ListGeofences(w http.ResponseWriter, r *http.Request) {
	zones, err := h.Store.ListGeofences(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list geofences", "internal")
		return
	}
	dtos := make([]GeofenceDTO, len(zones))
	for i, z := range zones {
		dtos[i] = GeofenceDTO{
			ID: z.ID, Name: z.Name, Latitude: z.Lat, Longitude: z.Lon,
			RadiusMeters: z.RadiusMeters, Required: z.Required, Active: z.Active,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateGeofence creates or updates a geofence.
func (h *Handler) CreateGeofence(w http.ResponseWriter, r *http.Request) {
	var req GeofenceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.RadiusMeters <= 0 {
		writeError(w, http.StatusBadRequest, "radius_meters must be positive", "bad_radius")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	z := geo.Zone{
		ID: req.ID, Name: req.Name, Lat: req.Latitude, Lon: req.Longitude,
		RadiusMeters: req.RadiusMeters, Required: req.Required, Active: req.Active,
	}
	if err := h.Store.SaveGeofence(r.Context(), z); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save geofence", "internal")
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// AssignGeofence links a zone to a shop or an employee.
func (h *Handler) AssignGeofence(w http.ResponseWriter, r *http.Request) {
	var req AssignGeofenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.GeofenceID == "" || (req.ShopID == "" && req.EmployeeID == "") {
		writeError(w, http.StatusBadRequest, "geofence_id and one of shop_id/employee_id are required", "bad_assignment")
		return
	}
	a := sqlite.GeofenceAssignment{
		ID:         uuid.NewString(),
		GeofenceID: req.GeofenceID,
		ShopID:     req.ShopID,
		EmployeeID: req.EmployeeID,
	}
	if err := h.Store.SaveAssignment(r.Context(), a); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save assignment", "internal")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID})
}

// SaveOvertimeRule creates or updates the overtime rule.
func (h *Handler) SaveOvertimeRule(w http.ResponseWriter, r *http.Request) {
	var req OvertimeRuleDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := h.Store.SaveOvertimeRule(r.Context(), req.toDomain()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save overtime rule", "internal")
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// SaveDeduction creates or updates a deduction.
func (h *Handler) SaveDeduction(w http.ResponseWriter, r *http.Request) {
	var req DeductionDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", "missing_employee_id")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := h.Store.SaveDeduction(r.Context(), req.toDomain()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save deduction", "internal")
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// SaveLoan creates or updates a loan advance.
func (h *Handler) SaveLoan(w http.ResponseWriter, r *http.Request) {
	var req LoanDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.EmployeeID == "" {
		writeError(w, http.StatusBadRequest, "employee_id is required", "missing_employee_id")
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if err := h.Store.SaveLoan(r.Context(), req.toDomain()); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save loan", "internal")
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, ErrorDTO{Error: msg, Code: code})
}
