/*
Package payroll turns aggregated hours and pay policy into money.

PURPOSE:
  Domain types and the deterministic arithmetic pipeline that converts
  regular/overtime hours into a pay breakdown: pay-type rules, overtime
  thresholds, percentage/flat deductions, capped loan amortization.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: pay policy snapshot (type, rate, optional overtime rate)
  - PayPeriod: week/month/quarter/year, with weeks-in-period and
    periods-per-year multipliers
  - Breakdown: the itemized, exactly-reproducible output of a calculation

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal everywhere money appears
  2. Determinism: identical inputs yield byte-identical breakdowns
  3. Rounding: round-half-up to 2dp at each monetary step, so line
     items sum exactly to their totals

SEE ALSO:
  - calc.go: the calculation pipeline
  - report.go: per-employee fan-out for a pay period
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAY TYPES
// =============================================================================

type PayType string

const (
	PayHourly   PayType = "hourly"
	PaySalary   PayType = "salary"
	PayFlatRate PayType = "flat_rate"
)

// Employee is the pay-policy snapshot consumed by the calculator. Immutable
// during a payroll run; mutated by administrative action only.
type Employee struct {
	ID      string
	Name    string
	PayType PayType

	// PayRate meaning depends on PayType: hourly rate, annual salary, or
	// flat per-period amount.
	PayRate decimal.Decimal

	// OvertimeRate, when set, overrides rate x multiplier for hourly
	// employees.
	OvertimeRate *decimal.Decimal

	Active bool
	ShopID string
}

// OvertimeRule scales the base rate beyond a weekly hour threshold.
// At most one active rule is considered.
type OvertimeRule struct {
	ID                   string
	WeeklyThresholdHours float64
	Multiplier           decimal.Decimal
	Active               bool
}

// Deduction is either a fixed amount or a percentage of gross pay.
// A positive percentage takes precedence over the fixed amount; both being
// set is a policy quirk, not an error.
type Deduction struct {
	ID         string
	EmployeeID string
	Name       string
	Amount     decimal.Decimal
	Percentage decimal.Decimal
	Recurring  bool
	Active     bool
}

// LoanAdvance amortizes at min(monthlyPayment, remainingBalance) per run.
type LoanAdvance struct {
	ID               string
	EmployeeID       string
	Name             string
	MonthlyPayment   decimal.Decimal
	RemainingBalance decimal.Decimal
	Active           bool
}

// =============================================================================
// PAY PERIOD
// =============================================================================

type PayPeriod string

const (
	PeriodWeek    PayPeriod = "week"
	PeriodMonth   PayPeriod = "month"
	PeriodQuarter PayPeriod = "quarter"
	PeriodYear    PayPeriod = "year"
)

func (p PayPeriod) Valid() bool {
	switch p {
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		return true
	}
	return false
}

// Weeks returns the weeks-in-period multiplier used to scale the weekly
// overtime threshold.
func (p PayPeriod) Weeks() float64 {
	switch p {
	case PeriodMonth:
		return 4
	case PeriodQuarter:
		return 13
	case PeriodYear:
		return 52
	default:
		return 1
	}
}

// PeriodsPerYear returns the divisor applied to annual salaries.
func (p PayPeriod) PeriodsPerYear() int64 {
	switch p {
	case PeriodMonth:
		return 12
	case PeriodQuarter:
		return 4
	case PeriodYear:
		return 1
	default:
		return 52
	}
}

// Start resolves the period start instant relative to now.
func (p PayPeriod) Start(now time.Time) time.Time {
	switch p {
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	case PeriodQuarter:
		return now.AddDate(0, -3, 0)
	case PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, 0, -7)
	}
}

// =============================================================================
// BREAKDOWN - The calculator's output
// =============================================================================

// DeductionLine itemizes one applied deduction.
type DeductionLine struct {
	DeductionID string          `json:"deduction_id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// LoanLine itemizes one loan repayment.
type LoanLine struct {
	LoanID string          `json:"loan_id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// Breakdown is the structured result of one pay calculation. Every monetary
// field is rounded to 2dp, so RegularPay + OvertimePay == GrossPay and the
// itemized lines sum exactly to their totals.
type Breakdown struct {
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name,omitempty"`
	Period          PayPeriod       `json:"period"`
	RegularHours    float64         `json:"regular_hours"`
	OvertimeHours   float64         `json:"overtime_hours"`
	RegularPay      decimal.Decimal `json:"regular_pay"`
	OvertimePay     decimal.Decimal `json:"overtime_pay"`
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	LoanRepayments  decimal.Decimal `json:"loan_repayments"`
	NetPay          decimal.Decimal `json:"net_pay"`
	Deductions      []DeductionLine `json:"deductions,omitempty"`
	Loans           []LoanLine      `json:"loans,omitempty"`
}
