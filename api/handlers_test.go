package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazizbekravshanov/shopmule-sub004/payroll"
	"github.com/lazizbekravshanov/shopmule-sub004/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)

	handler := NewHandler(store, zerolog.Nop())
	server := httptest.NewServer(NewRouter(handler))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return server, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func seedEmployee(t *testing.T, store *sqlite.Store, id string) {
	t.Helper()
	require.NoError(t, store.SaveEmployee(context.Background(), payroll.Employee{
		ID: id, Name: "Aziz", PayType: payroll.PayHourly,
		PayRate: decimal.NewFromInt(20), Active: true,
	}))
}

// =============================================================================
// PUNCH ENDPOINT TESTS
// =============================================================================

func TestAPI_RecordPunch_Created(t *testing.T) {
	server, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	resp := postJSON(t, server.URL+"/api/punches", RecordPunchRequest{
		EmployeeID: "emp-1",
		Type:       "clock_in",
		Timestamp:  "2025-06-02T09:00:00Z",
	})

	require.Equal(t, http.StatusCreated, resp.StatusCode)
	dto := decodeBody[PunchEventDTO](t, resp)
	assert.Equal(t, "emp-1", dto.EmployeeID)
	assert.Equal(t, "clock_in", dto.Type)
	assert.NotEmpty(t, dto.ID)
}

func TestAPI_RecordPunch_IllegalTransition_BadRequest(t *testing.T) {
	server, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	resp := postJSON(t, server.URL+"/api/punches", RecordPunchRequest{
		EmployeeID: "emp-1", Type: "clock_out",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "illegal_transition", dto.Code)
}

func TestAPI_RecordPunch_UnknownEmployee_NotFound(t *testing.T) {
	// GIVEN: no stored employees
	// WHEN: punching for an id that resolves to nobody
	// THEN: 404, and no punch exists for that id

	server, store := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/punches", RecordPunchRequest{
		EmployeeID: "ghost", Type: "clock_in",
	})

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "not_found", dto.Code)

	latest, err := store.Latest(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestAPI_RecordPunch_MissingEmployee_BadRequest(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/punches", RecordPunchRequest{Type: "clock_in"})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "missing_employee_id", dto.Code)
}

func TestAPI_RecordPunch_GeofenceRejection(t *testing.T) {
	// GIVEN: an employee assigned to a required zone
	// WHEN: punching without a location
	// THEN: 400 with code location_required

	server, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	resp := postJSON(t, server.URL+"/api/geofences", GeofenceDTO{
		Name: "Main Shop", Latitude: 40.7128, Longitude: -74.0060,
		RadiusMeters: 100, Required: true, Active: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	zone := decodeBody[GeofenceDTO](t, resp)

	resp = postJSON(t, server.URL+"/api/geofences/assignments", AssignGeofenceRequest{
		GeofenceID: zone.ID, EmployeeID: "emp-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/punches", RecordPunchRequest{
		EmployeeID: "emp-1", Type: "clock_in",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "location_required", dto.Code)
}

func TestAPI_CurrentOpenPunch_NoContentWhenOut(t *testing.T) {
	server, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	resp, err := http.Get(server.URL + "/api/employees/emp-1/punch")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestAPI_HoursWindow(t *testing.T) {
	server, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")

	resp := postJSON(t, server.URL+"/api/punches", RecordPunchRequest{
		EmployeeID: "emp-1", Type: "clock_in", Timestamp: "2025-06-02T09:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, server.URL+"/api/punches", RecordPunchRequest{
		EmployeeID: "emp-1", Type: "clock_out", Timestamp: "2025-06-02T17:00:00Z",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := http.Get(server.URL +
		"/api/employees/emp-1/hours?start=2025-06-01T00:00:00Z&now=2025-06-03T00:00:00Z")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	dto := decodeBody[HoursDTO](t, resp)
	assert.Equal(t, 8.0, dto.Hours)
}

// =============================================================================
// PAYROLL ENDPOINT TESTS
// =============================================================================

func TestAPI_PreviewPay(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/payroll/preview", PreviewPayRequest{
		Employee: EmployeeDTO{
			ID: "emp-1", Name: "Aziz", PayType: "hourly", PayRate: "20", Active: true,
		},
		RegularHours:  40,
		OvertimeHours: 5,
		Period:        "week",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	bd := decodeBody[payroll.Breakdown](t, resp)
	assert.True(t, bd.GrossPay.Equal(decimal.RequireFromString("950")))
	assert.True(t, bd.NetPay.Equal(decimal.RequireFromString("950")))
}

func TestAPI_PreviewPay_WithRule(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/payroll/preview", PreviewPayRequest{
		Employee: EmployeeDTO{
			ID: "emp-1", Name: "Aziz", PayType: "hourly", PayRate: "20", Active: true,
		},
		RegularHours:  40,
		OvertimeHours: 5,
		OvertimeRule: &OvertimeRuleDTO{
			WeeklyThresholdHours: 40, Multiplier: "2", Active: true,
		},
		Period: "week",
	})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	bd := decodeBody[payroll.Breakdown](t, resp)
	assert.True(t, bd.OvertimePay.Equal(decimal.RequireFromString("200")))
	assert.True(t, bd.GrossPay.Equal(decimal.RequireFromString("1000")))
}

func TestAPI_PreviewPay_BadPeriod(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/payroll/preview", PreviewPayRequest{
		Employee: EmployeeDTO{PayType: "hourly", PayRate: "20"},
		Period:   "fortnight",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "bad_period", dto.Code)
}

func TestAPI_RunReport_AllEmployeesByDefault(t *testing.T) {
	server, store := newTestServer(t)
	seedEmployee(t, store, "emp-1")
	seedEmployee(t, store, "emp-2")

	resp := postJSON(t, server.URL+"/api/payroll/report", RunReportRequest{Period: "week"})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	report := decodeBody[payroll.Report](t, resp)
	assert.Len(t, report.PerEmployee, 2)
	assert.Equal(t, payroll.PeriodWeek, report.Period)
}

// =============================================================================
// ADMIN ENDPOINT TESTS
// =============================================================================

func TestAPI_CreateEmployee_Validation(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/employees", EmployeeDTO{
		Name: "Aziz", PayType: "commission", PayRate: "20", Active: true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "bad_pay_type", dto.Code)

	resp = postJSON(t, server.URL+"/api/employees", EmployeeDTO{
		Name: "Aziz", PayType: "hourly", PayRate: "0", Active: true,
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto = decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "bad_pay_rate", dto.Code)
}

func TestAPI_CreateAndListEmployees(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/employees", EmployeeDTO{
		Name: "Aziz", PayType: "hourly", PayRate: "22.50", Active: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[EmployeeDTO](t, resp)
	assert.NotEmpty(t, created.ID, "server assigns an id")

	resp, err := http.Get(server.URL + "/api/employees")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decodeBody[[]EmployeeDTO](t, resp)
	require.Len(t, list, 1)
	assert.Equal(t, "22.5", list[0].PayRate)
}

func TestAPI_CreateGeofence_BadRadius(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/geofences", GeofenceDTO{
		Name: "Main Shop", RadiusMeters: 0, Active: true,
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "bad_radius", dto.Code)
}

func TestAPI_AssignGeofence_NeedsTarget(t *testing.T) {
	server, _ := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/geofences/assignments", AssignGeofenceRequest{
		GeofenceID: "z1",
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	dto := decodeBody[ErrorDTO](t, resp)
	assert.Equal(t, "bad_assignment", dto.Code)
}
