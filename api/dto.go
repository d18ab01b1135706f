/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lazizbekravshanov/shopmule-sub004/payroll"
	"github.com/lazizbekravshanov/shopmule-sub004/timeclock"
)

// =============================================================================
// PUNCH TYPES
// =============================================================================

// RecordPunchRequest is the request to record an attendance event.
type RecordPunchRequest struct {
	EmployeeID   string   `json:"employee_id"`
	Type         string   `json:"type"`
	Timestamp    string   `json:"timestamp,omitempty"` // RFC3339; empty = server time
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	SourceMethod string   `json:"source_method,omitempty"`
	Note         string   `json:"note,omitempty"`
}

// PunchEventDTO represents a recorded punch in API responses.
type PunchEventDTO struct {
	ID             string   `json:"id"`
	EmployeeID     string   `json:"employee_id"`
	Type           string   `json:"type"`
	At             string   `json:"at"`
	Latitude       *float64 `json:"latitude,omitempty"`
	Longitude      *float64 `json:"longitude,omitempty"`
	ZoneID         string   `json:"zone_id,omitempty"`
	DistanceMeters *float64 `json:"distance_meters,omitempty"`
	BreakMinutes   *int64   `json:"break_minutes,omitempty"`
	SourceMethod   string   `json:"source_method,omitempty"`
	Note           string   `json:"note,omitempty"`
}

func punchDTO(ev *timeclock.PunchEvent) PunchEventDTO {
	return PunchEventDTO{
		ID:             ev.ID,
		EmployeeID:     ev.EmployeeID,
		Type:           string(ev.Type),
		At:             ev.At.UTC().Format(time.RFC3339),
		Latitude:       ev.Latitude,
		Longitude:      ev.Longitude,
		ZoneID:         ev.ZoneID,
		DistanceMeters: ev.DistanceMeters,
		BreakMinutes:   ev.BreakMinutes,
		SourceMethod:   ev.SourceMethod,
		Note:           ev.Note,
	}
}

// HoursDTO is the worked-hours aggregation response.
type HoursDTO struct {
	EmployeeID string  `json:"employee_id"`
	From       string  `json:"from"`
	To         string  `json:"to"`
	Hours      float64 `json:"hours"`
}

// =============================================================================
// PAYROLL TYPES
// =============================================================================

// PreviewPayRequest carries every calculator input inline, so a client can
// preview a breakdown without touching stored records.
type PreviewPayRequest struct {
	Employee      EmployeeDTO      `json:"employee"`
	RegularHours  float64          `json:"regular_hours"`
	OvertimeHours float64          `json:"overtime_hours"`
	OvertimeRule  *OvertimeRuleDTO `json:"overtime_rule,omitempty"`
	Deductions    []DeductionDTO   `json:"deductions,omitempty"`
	Loans         []LoanDTO        `json:"loans,omitempty"`
	Period        string           `json:"period"`
}

// RunReportRequest triggers the payroll report for a set of employees.
// An empty employee list means every stored employee.
type RunReportRequest struct {
	Period      string   `json:"period"`
	EmployeeIDs []string `json:"employee_ids,omitempty"`
}

// =============================================================================
// ADMIN RECORD TYPES
// =============================================================================

// EmployeeDTO represents an employee pay-policy snapshot.
type EmployeeDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	PayType      string  `json:"pay_type"`
	PayRate      string  `json:"pay_rate"`
	OvertimeRate *string `json:"overtime_rate,omitempty"`
	Active       bool    `json:"active"`
	ShopID       string  `json:"shop_id,omitempty"`
}

func (d EmployeeDTO) toDomain() payroll.Employee {
	emp := payroll.Employee{
		ID:      d.ID,
		Name:    d.Name,
		PayType: payroll.PayType(d.PayType),
		PayRate: parseDecimal(d.PayRate),
		Active:  d.Active,
		ShopID:  d.ShopID,
	}
	if d.OvertimeRate != nil {
		rate := parseDecimal(*d.OvertimeRate)
		emp.OvertimeRate = &rate
	}
	return emp
}

func employeeDTO(emp payroll.Employee) EmployeeDTO {
	d := EmployeeDTO{
		ID:      emp.ID,
		Name:    emp.Name,
		PayType: string(emp.PayType),
		PayRate: emp.PayRate.String(),
		Active:  emp.Active,
		ShopID:  emp.ShopID,
	}
	if emp.OvertimeRate != nil {
		v := emp.OvertimeRate.String()
		d.OvertimeRate = &v
	}
	return d
}

// GeofenceDTO represents a circular zone.
type GeofenceDTO struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Required     bool    `json:"required"`
	Active       bool    `json:"active"`
}

// AssignGeofenceRequest links a zone to a shop or an employee.
type AssignGeofenceRequest struct {
	GeofenceID string `json:"geofence_id"`
	ShopID     string `json:"shop_id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
}

// OvertimeRuleDTO represents the overtime rule.
type OvertimeRuleDTO struct {
	ID                   string  `json:"id,omitempty"`
	WeeklyThresholdHours float64 `json:"weekly_threshold_hours"`
	Multiplier           string  `json:"multiplier"`
	Active               bool    `json:"active"`
}

func (d OvertimeRuleDTO) toDomain() payroll.OvertimeRule {
	return payroll.OvertimeRule{
		ID:                   d.ID,
		WeeklyThresholdHours: d.WeeklyThresholdHours,
		Multiplier:           parseDecimal(d.Multiplier),
		Active:               d.Active,
	}
}

// DeductionDTO represents a deduction record.
type DeductionDTO struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employee_id,omitempty"`
	Name       string `json:"name"`
	Amount     string `json:"amount,omitempty"`
	Percentage string `json:"percentage,omitempty"`
	Recurring  bool   `json:"recurring"`
	Active     bool   `json:"active"`
}

func (d DeductionDTO) toDomain() payroll.Deduction {
	return payroll.Deduction{
		ID:         d.ID,
		EmployeeID: d.EmployeeID,
		Name:       d.Name,
		Amount:     parseDecimal(d.Amount),
		Percentage: parseDecimal(d.Percentage),
		Recurring:  d.Recurring,
		Active:     d.Active,
	}
}

// LoanDTO represents a loan advance record.
type LoanDTO struct {
	ID               string `json:"id,omitempty"`
	EmployeeID       string `json:"employee_id,omitempty"`
	Name             string `json:"name"`
	MonthlyPayment   string `json:"monthly_payment"`
	RemainingBalance string `json:"remaining_balance"`
	Active           bool   `json:"active"`
}

func (d LoanDTO) toDomain() payroll.LoanAdvance {
	return payroll.LoanAdvance{
		ID:               d.ID,
		EmployeeID:       d.EmployeeID,
		Name:             d.Name,
		MonthlyPayment:   parseDecimal(d.MonthlyPayment),
		RemainingBalance: parseDecimal(d.RemainingBalance),
		Active:           d.Active,
	}
}

// ErrorDTO is the machine-readable error envelope.
type ErrorDTO struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
