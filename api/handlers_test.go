/*
handlers_test.go - Unit tests for API handlers

Tests for:
- Stateless evaluation endpoint
- Employee creation and retrieval
- Attendance recording with day classification
- Holiday calendar endpoints
- Compliance alerts and dashboard metrics
- Request tracking lifecycle
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/store/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()

	store, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	handler := NewHandler(store, compliance.NewEngine(compliance.DefaultRules()), nil)
	srv := httptest.NewServer(NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv, store
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			t.Fatalf("Failed to marshal request: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func createTestEmployee(t *testing.T, srv *httptest.Server, req CreateEmployeeRequest) EmployeeDTO {
	t.Helper()

	var dto EmployeeDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees", req, &dto)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 creating employee, got %d", status)
	}
	return dto
}

func TestEvaluate_OvertimeDay(t *testing.T) {
	// GIVEN: A running server
	srv, _ := newTestServer(t)

	lunch := 60
	req := EvaluateRequest{
		ClockIn:            "2026-03-02T08:00:00Z",
		ClockOut:           "2026-03-02T19:00:00Z",
		LunchMinutes:       &lunch,
		IsNormalWorkingDay: true,
		HourlyRate:         "20",
	}

	// WHEN: Evaluating an 11-hour shift with a one-hour lunch
	var result ResultDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/attendance/evaluate", req, &result)

	// THEN: The response carries the full compliance breakdown
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if result.NetWorkedHours != "10.00" {
		t.Errorf("Expected net 10.00, got %s", result.NetWorkedHours)
	}
	if result.OvertimeHours != "2.00" {
		t.Errorf("Expected overtime 2.00, got %s", result.OvertimeHours)
	}
	if result.OffsetDaysEarned != "0.25" {
		t.Errorf("Expected offset 0.25, got %s", result.OffsetDaysEarned)
	}
	if result.Meals != 1 || result.FoodAllowance != "50.00" {
		t.Errorf("Expected 1 meal at 50.00, got %d at %s", result.Meals, result.FoodAllowance)
	}
	if result.OvertimePay != "50.00" || result.OvertimeRate != "1.25" {
		t.Errorf("Expected pay 50.00 at 1.25, got %s at %s", result.OvertimePay, result.OvertimeRate)
	}
	if result.ExceedsLegalLimit {
		t.Error("Two hours of overtime should not exceed the legal limit")
	}
	if result.Explanation == "" {
		t.Error("Expected a non-empty explanation")
	}
}

func TestEvaluate_InvalidInput(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := map[string]EvaluateRequest{
		"bad clock_in":  {ClockIn: "yesterday morning", IsNormalWorkingDay: true},
		"bad rate":      {HourlyRate: "twenty", IsNormalWorkingDay: true},
		"negative rate": {HourlyRate: "-5", IsNormalWorkingDay: true},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			var errResp ErrorResponse
			status := doJSON(t, http.MethodPost, srv.URL+"/api/attendance/evaluate", req, &errResp)
			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
			if errResp.Error == "" {
				t.Error("Expected an error message")
			}
		})
	}
}

func TestEmployees_CreateAndGet(t *testing.T) {
	// GIVEN: A running server
	srv, _ := newTestServer(t)

	// WHEN: Creating an employee
	created := createTestEmployee(t, srv, CreateEmployeeRequest{
		ID:           "emp-1",
		Name:         "Amal Hassan",
		Email:        "amal@example.com",
		HireDate:     "2024-06-01",
		HourlyRate:   "23.50",
		WorkSchedule: "6-day",
	})

	// THEN: The stored employee round-trips with the exact rate
	if created.HourlyRate != "23.50" {
		t.Errorf("Expected rate 23.50, got %s", created.HourlyRate)
	}

	var fetched EmployeeDTO
	status := doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-1", nil, &fetched)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if fetched.Name != "Amal Hassan" || fetched.WorkSchedule != "6-day" {
		t.Errorf("Unexpected employee: %+v", fetched)
	}

	// Unknown employees are a 404, not an empty object
	status = doJSON(t, http.MethodGet, srv.URL+"/api/employees/nobody", nil, &ErrorResponse{})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown employee, got %d", status)
	}
}

func TestEmployees_ValidationErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := map[string]CreateEmployeeRequest{
		"missing id":   {Name: "No ID", HireDate: "2024-01-01"},
		"bad date":     {ID: "e1", Name: "Bad Date", HireDate: "June 2024"},
		"bad rate":     {ID: "e2", Name: "Bad Rate", HireDate: "2024-01-01", HourlyRate: "lots"},
		"negative pay": {ID: "e3", Name: "Negative", HireDate: "2024-01-01", HourlyRate: "-1"},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			status := doJSON(t, http.MethodPost, srv.URL+"/api/employees", req, &ErrorResponse{})
			if status != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", status)
			}
		})
	}
}

func TestRecordAttendance_ClassifiesDay(t *testing.T) {
	// GIVEN: A five-day employee (Friday and Saturday are rest days)
	srv, _ := newTestServer(t)
	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID:         "emp-rec",
		Name:       "Noor Said",
		HireDate:   "2024-01-01",
		HourlyRate: "20",
	})

	// WHEN: Clocking a six-hour Friday shift with no lunch
	lunch := 0
	var rec AttendanceRecordDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-rec/attendance",
		RecordAttendanceRequest{
			ClockIn:      "2026-03-06T08:00:00Z",
			ClockOut:     "2026-03-06T14:00:00Z",
			LunchMinutes: &lunch,
		}, &rec)

	// THEN: The day classifies as an off day and earns one meal
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	if !rec.IsOffDay || rec.IsNormalWorkingDay {
		t.Errorf("Friday should classify as an off day: %+v", rec)
	}
	if rec.Result.NetWorkedHours != "6.00" {
		t.Errorf("Expected net 6.00, got %s", rec.Result.NetWorkedHours)
	}
	if rec.Result.Meals != 1 {
		t.Errorf("Expected 1 meal for a short off-day shift, got %d", rec.Result.Meals)
	}

	// And the record shows up in the history
	var history []AttendanceRecordDTO
	status = doJSON(t, http.MethodGet, srv.URL+"/api/employees/emp-rec/attendance", nil, &history)
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if len(history) != 1 || history[0].ID != rec.ID {
		t.Errorf("Expected the saved record in history, got %+v", history)
	}
}

func TestRecordAttendance_UnknownEmployee(t *testing.T) {
	srv, _ := newTestServer(t)

	status := doJSON(t, http.MethodPost, srv.URL+"/api/employees/ghost/attendance",
		RecordAttendanceRequest{ClockIn: "2026-03-02T08:00:00Z", ClockOut: "2026-03-02T17:00:00Z"},
		&ErrorResponse{})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", status)
	}
}

func TestHolidays_AffectClassification(t *testing.T) {
	// GIVEN: An employee and a declared holiday on a Monday
	srv, _ := newTestServer(t)
	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID:         "emp-hol",
		Name:       "Omar Khalid",
		HireDate:   "2024-01-01",
		HourlyRate: "20",
	})

	var hol HolidayDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/holidays",
		HolidayDTO{ID: "national-day", Date: "2026-03-02", Name: "National Day"}, &hol)
	if status != http.StatusCreated {
		t.Fatalf("Expected 201 creating holiday, got %d", status)
	}

	// WHEN: Clocking a shift on that Monday
	lunch := 0
	var rec AttendanceRecordDTO
	doJSON(t, http.MethodPost, srv.URL+"/api/employees/emp-hol/attendance",
		RecordAttendanceRequest{
			ClockIn:      "2026-03-02T08:00:00Z",
			ClockOut:     "2026-03-02T18:00:00Z",
			LunchMinutes: &lunch,
		}, &rec)

	// THEN: The day carries the holiday flag and premium overtime pay
	if !rec.IsHoliday {
		t.Error("Expected the holiday flag on the record")
	}
	if rec.Result.OvertimeRate != "1.50" {
		t.Errorf("Expected premium rate 1.50 on a holiday, got %s", rec.Result.OvertimeRate)
	}

	// And the holiday can be listed and deleted
	var holidays []HolidayDTO
	doJSON(t, http.MethodGet, srv.URL+"/api/holidays", nil, &holidays)
	if len(holidays) != 1 {
		t.Fatalf("Expected 1 holiday, got %d", len(holidays))
	}

	status = doJSON(t, http.MethodDelete, srv.URL+"/api/holidays/national-day", nil, nil)
	if status != http.StatusNoContent {
		t.Errorf("Expected 204 deleting holiday, got %d", status)
	}
}

func TestComplianceAlerts(t *testing.T) {
	// GIVEN: One employee with a visa expiring soon, one with distant dates
	srv, _ := newTestServer(t)

	soon := time.Now().UTC().AddDate(0, 0, 5).Format("2006-01-02")
	far := time.Now().UTC().AddDate(2, 0, 0).Format("2006-01-02")

	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID: "emp-exp", Name: "Expiring Visa", HireDate: "2024-01-01",
		VisaExpiry: soon, EmiratesIDExpiry: far,
	})
	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID: "emp-ok", Name: "All Current", HireDate: "2024-01-01",
		VisaExpiry: far, EmiratesIDExpiry: far,
	})

	// WHEN: Fetching compliance alerts
	var resp struct {
		Alerts []AlertDTO `json:"alerts"`
	}
	status := doJSON(t, http.MethodGet, srv.URL+"/api/compliance/alerts", nil, &resp)

	// THEN: Only the expiring visa raises an alert, graded urgent
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if len(resp.Alerts) != 1 {
		t.Fatalf("Expected 1 alert, got %d: %+v", len(resp.Alerts), resp.Alerts)
	}
	alert := resp.Alerts[0]
	if alert.EmployeeID != "emp-exp" || alert.Document != "visa" {
		t.Errorf("Unexpected alert: %+v", alert)
	}
	if alert.Urgency != string(compliance.UrgencyUrgent) {
		t.Errorf("Expected urgent, got %s", alert.Urgency)
	}
}

func TestDashboardMetrics(t *testing.T) {
	// GIVEN: Two employees, one expiring visa, one open request
	srv, _ := newTestServer(t)

	soon := time.Now().UTC().AddDate(0, 0, 20).Format("2006-01-02")
	far := time.Now().UTC().AddDate(2, 0, 0).Format("2006-01-02")

	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID: "emp-a", Name: "A", HireDate: "2024-01-01",
		VisaExpiry: soon, EmiratesIDExpiry: far,
	})
	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID: "emp-b", Name: "B", HireDate: "2024-01-01",
		VisaExpiry: far, EmiratesIDExpiry: far,
	})

	doJSON(t, http.MethodPost, srv.URL+"/api/requests",
		CreateRequestRequest{EmployeeID: "emp-a", RequestType: "salary_certificate"}, &RequestDTO{})

	// WHEN: Fetching the dashboard
	var metrics DashboardMetricsDTO
	status := doJSON(t, http.MethodGet, srv.URL+"/api/dashboard/metrics", nil, &metrics)

	// THEN: Counts reflect the stored data
	if status != http.StatusOK {
		t.Fatalf("Expected 200, got %d", status)
	}
	if metrics.TotalEmployees != 2 {
		t.Errorf("Expected 2 employees, got %d", metrics.TotalEmployees)
	}
	if metrics.VisasExpiring30 != 1 {
		t.Errorf("Expected 1 visa expiring within 30 days, got %d", metrics.VisasExpiring30)
	}
	if metrics.EIDsExpiring30 != 0 {
		t.Errorf("Expected no Emirates IDs expiring, got %d", metrics.EIDsExpiring30)
	}
	if metrics.PendingRequests != 1 {
		t.Errorf("Expected 1 pending request, got %d", metrics.PendingRequests)
	}
}

func TestRequests_Lifecycle(t *testing.T) {
	// GIVEN: An employee
	srv, _ := newTestServer(t)
	createTestEmployee(t, srv, CreateEmployeeRequest{
		ID: "emp-req", Name: "Requester", HireDate: "2024-01-01",
	})

	// WHEN: Submitting a tracked request
	var created RequestDTO
	status := doJSON(t, http.MethodPost, srv.URL+"/api/requests",
		CreateRequestRequest{EmployeeID: "emp-req", RequestType: "noc_letter", Notes: "For bank"}, &created)

	// THEN: It gets a year-scoped reference and starts submitted
	if status != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", status)
	}
	wantPrefix := "REF-" + time.Now().UTC().Format("2006") + "-"
	if !strings.HasPrefix(created.Reference, wantPrefix) {
		t.Errorf("Expected reference prefix %s, got %s", wantPrefix, created.Reference)
	}
	if created.Status != sqlite.RequestSubmitted {
		t.Errorf("Expected submitted, got %s", created.Status)
	}

	// Tracking by reference returns the same request
	var fetched RequestDTO
	status = doJSON(t, http.MethodGet, srv.URL+"/api/requests/"+created.Reference, nil, &fetched)
	if status != http.StatusOK || fetched.Reference != created.Reference {
		t.Fatalf("Expected to fetch %s, got status %d: %+v", created.Reference, status, fetched)
	}

	// Completing stamps the status
	status = doJSON(t, http.MethodPost, srv.URL+"/api/requests/"+created.Reference+"/status",
		UpdateRequestStatusRequest{Status: sqlite.RequestCompleted}, nil)
	if status != http.StatusOK {
		t.Fatalf("Expected 200 updating status, got %d", status)
	}

	doJSON(t, http.MethodGet, srv.URL+"/api/requests/"+created.Reference, nil, &fetched)
	if fetched.Status != sqlite.RequestCompleted {
		t.Errorf("Expected completed, got %s", fetched.Status)
	}
	if fetched.CompletedAt == "" {
		t.Error("Expected completed_at to be stamped")
	}

	// Invalid status values are rejected
	status = doJSON(t, http.MethodPost, srv.URL+"/api/requests/"+created.Reference+"/status",
		UpdateRequestStatusRequest{Status: "done-ish"}, &ErrorResponse{})
	if status != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown status, got %d", status)
	}

	// Requests for unknown employees are rejected
	status = doJSON(t, http.MethodPost, srv.URL+"/api/requests",
		CreateRequestRequest{EmployeeID: "ghost", RequestType: "noc_letter"}, &ErrorResponse{})
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown employee, got %d", status)
	}
}
