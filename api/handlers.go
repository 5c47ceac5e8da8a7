/*
handlers.go - HTTP API handlers for the attendance compliance system

PURPOSE:
  Exposes the compliance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine,
  the schedule classifier, and the store.

ENDPOINTS:
  Evaluation:
    POST   /api/attendance/evaluate            Stateless evaluation

  Employees:
    GET    /api/employees                      List all employees
    POST   /api/employees                      Create/update employee
    GET    /api/employees/{id}                 Get employee details
    POST   /api/employees/{id}/attendance      Clock a shift (classify,
                                               evaluate, persist)
    GET    /api/employees/{id}/attendance      Attendance history

  Holidays:
    GET    /api/holidays                       List holidays
    POST   /api/holidays                       Create holiday
    DELETE /api/holidays/{id}                  Delete holiday

  Compliance:
    GET    /api/compliance/alerts              Expiring-document alerts
    GET    /api/dashboard/metrics              Dashboard summary

  Requests:
    POST   /api/requests                       Submit tracked request
    GET    /api/requests/{reference}           Track by reference
    POST   /api/requests/{reference}/status    Update status

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors
  The engine itself never errors; failures here are transport or
  storage failures.
*/
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/schedule"
	"github.com/warp/compliance-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store  *sqlite.Store
	Engine *compliance.Engine
	Logger *zap.Logger
}

// NewHandler creates a new handler with the given store and engine.
func NewHandler(store *sqlite.Store, engine *compliance.Engine, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Store: store, Engine: engine, Logger: logger}
}

// =============================================================================
// EVALUATION HANDLERS
// =============================================================================

// Evaluate runs a stateless compliance evaluation.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	input, err := h.buildInput(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid evaluation input", err)
		return
	}

	writeJSON(w, http.StatusOK, toResultDTO(h.Engine.Evaluate(input)))
}

func (h *Handler) buildInput(req EvaluateRequest) (compliance.Input, error) {
	var input compliance.Input
	var err error

	// Absent timestamps stay zero: the engine treats that as "no
	// attendance recorded", not an error.
	if req.ClockIn != "" {
		if input.Interval.ClockIn, err = time.Parse(time.RFC3339, req.ClockIn); err != nil {
			return input, err
		}
	}
	if req.ClockOut != "" {
		if input.Interval.ClockOut, err = time.Parse(time.RFC3339, req.ClockOut); err != nil {
			return input, err
		}
	}

	input.Interval.LunchMinutes = h.Engine.Rules().DefaultLunchMinutes
	if req.LunchMinutes != nil {
		input.Interval.LunchMinutes = *req.LunchMinutes
	}

	input.Day = compliance.DayContext{
		IsNormalWorkingDay: req.IsNormalWorkingDay,
		IsOffDay:           req.IsOffDay,
		IsHoliday:          req.IsHoliday,
	}

	input.Employee = compliance.EmployeeContext{
		IsManagerial: req.IsManagerial,
		HourlyRate:   decimal.Zero,
		Schedule:     compliance.WorkSchedule(req.WorkSchedule),
	}
	if req.HourlyRate != "" {
		rate, err := decimal.NewFromString(req.HourlyRate)
		if err != nil {
			return input, err
		}
		if rate.IsNegative() {
			return input, errNegativeRate
		}
		input.Employee.HourlyRate = rate
	}

	return input, nil
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates or updates an employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid hire_date format (use YYYY-MM-DD)", err)
		return
	}

	rate := decimal.Zero
	if req.HourlyRate != "" {
		if rate, err = decimal.NewFromString(req.HourlyRate); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid hourly_rate", err)
			return
		}
		if rate.IsNegative() {
			writeError(w, http.StatusBadRequest, "hourly_rate must not be negative", nil)
			return
		}
	}

	workSchedule := compliance.WorkSchedule(req.WorkSchedule)
	if workSchedule == "" {
		workSchedule = compliance.ScheduleFiveDays
	}

	emp := sqlite.Employee{
		ID:           req.ID,
		Name:         req.Name,
		Email:        req.Email,
		HireDate:     hireDate,
		IsManagerial: req.IsManagerial,
		HourlyRate:   rate,
		WorkSchedule: workSchedule,
	}
	if emp.VisaExpiry, err = parseOptionalDate(req.VisaExpiry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid visa_expiry format (use YYYY-MM-DD)", err)
		return
	}
	if emp.EmiratesIDExpiry, err = parseOptionalDate(req.EmiratesIDExpiry); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid emirates_id_expiry format (use YYYY-MM-DD)", err)
		return
	}

	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// =============================================================================
// ATTENDANCE HANDLERS
// =============================================================================

// RecordAttendance classifies the day, evaluates the shift for a stored
// employee, and persists the record.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	emp, err := h.Store.GetEmployee(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	var req RecordAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	var interval compliance.WorkInterval
	if req.ClockIn != "" {
		if interval.ClockIn, err = time.Parse(time.RFC3339, req.ClockIn); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid clock_in (use RFC 3339)", err)
			return
		}
	}
	if req.ClockOut != "" {
		if interval.ClockOut, err = time.Parse(time.RFC3339, req.ClockOut); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid clock_out (use RFC 3339)", err)
			return
		}
	}
	interval.LunchMinutes = h.Engine.Rules().DefaultLunchMinutes
	if req.LunchMinutes != nil {
		interval.LunchMinutes = *req.LunchMinutes
	}

	day := schedule.ClassifyDay(interval.ClockIn, emp.WorkSchedule, h.Store)

	result := h.Engine.Evaluate(compliance.Input{
		Interval: interval,
		Day:      day,
		Employee: emp.Context(),
	})

	rec := sqlite.AttendanceRecord{
		EmployeeID: emp.ID,
		Interval:   interval,
		Day:        day,
		Result:     result,
	}
	if rec.ID, err = h.Store.SaveAttendanceRecord(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save attendance record", err)
		return
	}

	h.Logger.Info("attendance recorded",
		zap.String("employee_id", emp.ID),
		zap.String("net_hours", result.NetWorkedHours.String()),
		zap.Bool("exceeds_legal_limit", result.ExceedsLegalLimit))

	writeJSON(w, http.StatusCreated, toAttendanceRecordDTO(rec))
}

// ListAttendance returns an employee's attendance history.
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	records, err := h.Store.ListAttendanceRecords(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list attendance records", err)
		return
	}

	dtos := make([]AttendanceRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toAttendanceRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the company holiday calendar.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, len(holidays))
	for i, hol := range holidays {
		dtos[i] = toHolidayDTO(hol)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateHoliday adds a holiday to the calendar.
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var dto HolidayDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if dto.ID == "" || dto.Name == "" {
		writeError(w, http.StatusBadRequest, "id and name are required", nil)
		return
	}

	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	hol := schedule.Holiday{ID: dto.ID, Date: date, Name: dto.Name, Recurring: dto.Recurring}
	if err := h.Store.SaveHoliday(r.Context(), hol); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	writeJSON(w, http.StatusCreated, toHolidayDTO(hol))
}

// DeleteHoliday removes a holiday.
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteHoliday(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete holiday", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// COMPLIANCE ALERT AND DASHBOARD HANDLERS
// =============================================================================

// ComplianceAlerts returns expiring-document alerts for all employees.
func (h *Handler) ComplianceAlerts(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	alerts := collectAlerts(employees, time.Now().UTC())
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// collectAlerts grades every employee document and keeps the ones that
// require action.
func collectAlerts(employees []sqlite.Employee, asOf time.Time) []AlertDTO {
	alerts := make([]AlertDTO, 0)
	for _, emp := range employees {
		for _, doc := range []struct {
			name   string
			expiry time.Time
		}{
			{"visa", emp.VisaExpiry},
			{"emirates_id", emp.EmiratesIDExpiry},
		} {
			urgency := compliance.UrgencyFor(doc.expiry, asOf)
			if !urgency.ActionRequired() {
				continue
			}
			alert := AlertDTO{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Document:     doc.name,
				Urgency:      string(urgency),
			}
			if !doc.expiry.IsZero() {
				alert.ExpiryDate = doc.expiry.Format("2006-01-02")
			}
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// DashboardMetrics returns the home-dashboard summary counts.
func (h *Handler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	now := time.Now().UTC()
	metrics := DashboardMetricsDTO{TotalEmployees: len(employees)}
	for _, emp := range employees {
		if expiringWithin(emp.VisaExpiry, now, 30) {
			metrics.VisasExpiring30++
		}
		if expiringWithin(emp.EmiratesIDExpiry, now, 30) {
			metrics.EIDsExpiring30++
		}
	}
	metrics.ComplianceAlerts = len(collectAlerts(employees, now))

	pending, err := h.Store.CountOpenRequests(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to count open requests", err)
		return
	}
	metrics.PendingRequests = pending

	writeJSON(w, http.StatusOK, metrics)
}

func expiringWithin(expiry, asOf time.Time, days int) bool {
	if expiry.IsZero() {
		return false
	}
	u := compliance.UrgencyFor(expiry, asOf)
	switch days {
	case 30:
		return u == compliance.UrgencyCritical || u == compliance.UrgencyUrgent || u == compliance.UrgencyWarning
	default:
		return u.ActionRequired()
	}
}

// =============================================================================
// REQUEST HANDLERS
// =============================================================================

// CreateRequest submits a tracked HR request and returns its reference.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.EmployeeID == "" || req.RequestType == "" {
		writeError(w, http.StatusBadRequest, "employee_id and request_type are required", nil)
		return
	}

	emp, err := h.Store.GetEmployee(r.Context(), req.EmployeeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get employee", err)
		return
	}
	if emp == nil {
		writeError(w, http.StatusNotFound, "Employee not found", nil)
		return
	}

	created, err := h.Store.CreateRequest(r.Context(), sqlite.Request{
		EmployeeID:  req.EmployeeID,
		RequestType: req.RequestType,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create request", err)
		return
	}

	h.Logger.Info("request submitted",
		zap.String("reference", created.Reference),
		zap.String("employee_id", created.EmployeeID),
		zap.String("type", created.RequestType))

	writeJSON(w, http.StatusCreated, toRequestDTO(created))
}

// GetRequest tracks a request by its public reference.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	req, err := h.Store.GetRequestByReference(r.Context(), reference)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get request", err)
		return
	}
	if req == nil {
		writeError(w, http.StatusNotFound, "Request not found", nil)
		return
	}
	writeJSON(w, http.StatusOK, toRequestDTO(*req))
}

// UpdateRequestStatus moves a request through its lifecycle.
func (h *Handler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	var req UpdateRequestStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch req.Status {
	case sqlite.RequestSubmitted, sqlite.RequestInProgress, sqlite.RequestCompleted, sqlite.RequestRejected:
	default:
		writeError(w, http.StatusBadRequest, "Unknown status", nil)
		return
	}

	if err := h.Store.UpdateRequestStatus(r.Context(), reference, req.Status); err != nil {
		writeError(w, http.StatusNotFound, "Failed to update request", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reference": reference, "status": req.Status})
}

// =============================================================================
// HELPERS
// =============================================================================

type inputError string

func (e inputError) Error() string { return string(e) }

const errNegativeRate = inputError("hourly_rate must not be negative")

func parseOptionalDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	resp := ErrorResponse{Error: msg}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
