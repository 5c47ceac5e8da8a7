/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DECIMAL FIELDS:
  Hour and money quantities are rendered as fixed two-decimal strings,
  not JSON numbers. The engine guarantees bit-identical decimal outputs
  for identical inputs; pushing them through float64 would break that at
  the API boundary.
*/
package api

import (
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/schedule"
	"github.com/warp/compliance-engine/store/sqlite"
)

// =============================================================================
// EVALUATION
// =============================================================================

// EvaluateRequest is a stateless evaluation call. Day flags and employee
// classification are supplied inline; nothing is read from or written to
// the store.
type EvaluateRequest struct {
	ClockIn            string `json:"clock_in"`  // RFC 3339
	ClockOut           string `json:"clock_out"` // RFC 3339
	LunchMinutes       *int   `json:"lunch_minutes,omitempty"`
	IsNormalWorkingDay bool   `json:"is_normal_working_day"`
	IsOffDay           bool   `json:"is_off_day"`
	IsHoliday          bool   `json:"is_holiday"`
	IsManagerial       bool   `json:"is_managerial"`
	HourlyRate         string `json:"hourly_rate,omitempty"`
	WorkSchedule       string `json:"work_schedule,omitempty"`
}

// ResultDTO mirrors compliance.Result.
type ResultDTO struct {
	NetWorkedHours    string `json:"net_worked_hours"`
	OvertimeHours     string `json:"overtime_hours"`
	OffsetDaysEarned  string `json:"offset_days_earned"`
	Meals             int    `json:"meals"`
	FoodAllowance     string `json:"food_allowance"`
	AllowanceReason   string `json:"allowance_reason,omitempty"`
	OvertimePay       string `json:"overtime_pay"`
	OvertimeRate      string `json:"overtime_rate"`
	NightOvertime     bool   `json:"night_overtime"`
	HolidayOvertime   bool   `json:"holiday_overtime"`
	ExceedsLegalLimit bool   `json:"exceeds_legal_limit"`
	OffsetEligible    bool   `json:"offset_eligible"`
	Explanation       string `json:"explanation"`
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	HireDate         string `json:"hire_date"`
	IsManagerial     bool   `json:"is_managerial"`
	HourlyRate       string `json:"hourly_rate"`
	WorkSchedule     string `json:"work_schedule"`
	VisaExpiry       string `json:"visa_expiry,omitempty"`
	EmiratesIDExpiry string `json:"emirates_id_expiry,omitempty"`
	CreatedAt        string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create or update an employee.
type CreateEmployeeRequest struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	HireDate         string `json:"hire_date"` // YYYY-MM-DD
	IsManagerial     bool   `json:"is_managerial"`
	HourlyRate       string `json:"hourly_rate"`
	WorkSchedule     string `json:"work_schedule,omitempty"`
	VisaExpiry       string `json:"visa_expiry,omitempty"`        // YYYY-MM-DD
	EmiratesIDExpiry string `json:"emirates_id_expiry,omitempty"` // YYYY-MM-DD
}

// =============================================================================
// ATTENDANCE
// =============================================================================

// RecordAttendanceRequest clocks a shift for a stored employee. The day
// context is classified from the employee's schedule and the holiday
// calendar; the evaluated result is persisted.
type RecordAttendanceRequest struct {
	ClockIn      string `json:"clock_in"`  // RFC 3339
	ClockOut     string `json:"clock_out"` // RFC 3339
	LunchMinutes *int   `json:"lunch_minutes,omitempty"`
}

// AttendanceRecordDTO is one persisted, evaluated shift.
type AttendanceRecordDTO struct {
	ID                 int64     `json:"id"`
	EmployeeID         string    `json:"employee_id"`
	ClockIn            string    `json:"clock_in"`
	ClockOut           string    `json:"clock_out"`
	LunchMinutes       int       `json:"lunch_minutes"`
	IsNormalWorkingDay bool      `json:"is_normal_working_day"`
	IsOffDay           bool      `json:"is_off_day"`
	IsHoliday          bool      `json:"is_holiday"`
	Result             ResultDTO `json:"result"`
	CreatedAt          string    `json:"created_at,omitempty"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a company holiday.
type HolidayDTO struct {
	ID        string `json:"id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// COMPLIANCE ALERTS AND DASHBOARD
// =============================================================================

// AlertDTO is one expiring-document alert.
type AlertDTO struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Document     string `json:"document"` // "visa" or "emirates_id"
	ExpiryDate   string `json:"expiry_date,omitempty"`
	Urgency      string `json:"urgency"`
}

// DashboardMetricsDTO is the home-dashboard summary.
type DashboardMetricsDTO struct {
	TotalEmployees   int `json:"total_employees"`
	VisasExpiring30  int `json:"visas_expiring_30"`
	EIDsExpiring30   int `json:"eids_expiring_30"`
	ComplianceAlerts int `json:"compliance_alerts"`
	PendingRequests  int `json:"pending_requests"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// CreateRequestRequest submits a tracked HR request.
type CreateRequestRequest struct {
	EmployeeID  string `json:"employee_id"`
	RequestType string `json:"request_type"`
	Notes       string `json:"notes,omitempty"`
}

// RequestDTO is a tracked HR request.
type RequestDTO struct {
	Reference   string `json:"reference"`
	EmployeeID  string `json:"employee_id"`
	RequestType string `json:"request_type"`
	Status      string `json:"status"`
	Notes       string `json:"notes,omitempty"`
	SubmittedAt string `json:"submitted_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

// UpdateRequestStatusRequest moves a request through its lifecycle.
type UpdateRequestStatusRequest struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toResultDTO(r compliance.Result) ResultDTO {
	return ResultDTO{
		NetWorkedHours:    r.NetWorkedHours.StringFixed(2),
		OvertimeHours:     r.OvertimeHours.StringFixed(2),
		OffsetDaysEarned:  r.OffsetDaysEarned.StringFixed(2),
		Meals:             r.Meals,
		FoodAllowance:     r.FoodAllowance.StringFixed(2),
		AllowanceReason:   r.AllowanceReason,
		OvertimePay:       r.OvertimePay.StringFixed(2),
		OvertimeRate:      r.OvertimeRate.StringFixed(2),
		NightOvertime:     r.NightOvertime,
		HolidayOvertime:   r.HolidayOvertime,
		ExceedsLegalLimit: r.ExceedsLegalLimit,
		OffsetEligible:    r.OffsetEligible,
		Explanation:       r.Explanation,
	}
}

func toEmployeeDTO(e sqlite.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		HireDate:     e.HireDate.Format("2006-01-02"),
		IsManagerial: e.IsManagerial,
		HourlyRate:   e.HourlyRate.String(),
		WorkSchedule: string(e.WorkSchedule),
		CreatedAt:    e.CreatedAt.Format(time.RFC3339),
	}
	if !e.VisaExpiry.IsZero() {
		dto.VisaExpiry = e.VisaExpiry.Format("2006-01-02")
	}
	if !e.EmiratesIDExpiry.IsZero() {
		dto.EmiratesIDExpiry = e.EmiratesIDExpiry.Format("2006-01-02")
	}
	return dto
}

func toAttendanceRecordDTO(rec sqlite.AttendanceRecord) AttendanceRecordDTO {
	return AttendanceRecordDTO{
		ID:                 rec.ID,
		EmployeeID:         rec.EmployeeID,
		ClockIn:            rec.Interval.ClockIn.Format(time.RFC3339),
		ClockOut:           rec.Interval.ClockOut.Format(time.RFC3339),
		LunchMinutes:       rec.Interval.LunchMinutes,
		IsNormalWorkingDay: rec.Day.IsNormalWorkingDay,
		IsOffDay:           rec.Day.IsOffDay,
		IsHoliday:          rec.Day.IsHoliday,
		Result:             toResultDTO(rec.Result),
		CreatedAt:          rec.CreatedAt.Format(time.RFC3339),
	}
}

func toHolidayDTO(h schedule.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		Date:      h.Date.Format("2006-01-02"),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

func toRequestDTO(r sqlite.Request) RequestDTO {
	dto := RequestDTO{
		Reference:   r.Reference,
		EmployeeID:  r.EmployeeID,
		RequestType: r.RequestType,
		Status:      r.Status,
		Notes:       r.Notes,
		SubmittedAt: r.SubmittedAt.Format(time.RFC3339),
	}
	if !r.CompletedAt.IsZero() {
		dto.CompletedAt = r.CompletedAt.Format(time.RFC3339)
	}
	return dto
}
