/*
report.go - Payroll report orchestration

PURPOSE:
  For a pay period and a set of employees, fetches hours and policy
  records through injected sources and composes per-employee breakdowns
  via the calculator, then reduces them into period totals.

CONCURRENCY:
  Each employee's pipeline is independent (read-only sources, pure
  calculator), so the builder fans out one goroutine per employee with
  errgroup and reduces after Wait. Results keep the caller's employee
  order regardless of completion order.

SEE ALSO:
  - calc.go: per-employee arithmetic
  - timeclock/hours.go: where the hours totals come from
*/
package payroll

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// =============================================================================
// SOURCES - External collaborators, injected for testability
// =============================================================================

// EmployeeSource resolves employee pay-policy snapshots.
type EmployeeSource interface {
	GetEmployee(ctx context.Context, id string) (*Employee, error)
}

// HoursSource aggregates worked hours for a window ending at now.
type HoursSource interface {
	ComputeHours(ctx context.Context, employeeID string, windowStart, now time.Time) (float64, error)
}

// PolicySource loads the records the calculator consumes.
type PolicySource interface {
	ActiveOvertimeRule(ctx context.Context) (*OvertimeRule, error)
	ActiveDeductions(ctx context.Context, employeeID string) ([]Deduction, error)
	ActiveLoans(ctx context.Context, employeeID string) ([]LoanAdvance, error)
}

// =============================================================================
// REPORT BUILDER
// =============================================================================

// Report is the fan-in result: one breakdown per employee plus totals.
type Report struct {
	Period      PayPeriod   `json:"period"`
	GeneratedAt time.Time   `json:"generated_at"`
	PerEmployee []Breakdown `json:"per_employee"`
	Totals      Breakdown   `json:"totals"`
}

type ReportBuilder struct {
	Employees EmployeeSource
	Hours     HoursSource
	Policy    PolicySource

	Now func() time.Time
}

func NewReportBuilder(employees EmployeeSource, hours HoursSource, policy PolicySource) *ReportBuilder {
	return &ReportBuilder{Employees: employees, Hours: hours, Policy: policy, Now: time.Now}
}

// Run computes one breakdown per employee and period totals. Inactive
// employees are skipped; an unknown employee fails the run.
func (b *ReportBuilder) Run(ctx context.Context, period PayPeriod, employeeIDs []string) (*Report, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("invalid pay period %q", period)
	}

	now := b.Now()
	windowStart := period.Start(now)

	// The rule is shared across employees; load it once, outside the fan-out.
	rule, err := b.Policy.ActiveOvertimeRule(ctx)
	if err != nil {
		return nil, fmt.Errorf("load overtime rule: %w", err)
	}

	results := make([]*Breakdown, len(employeeIDs))
	wg, gctx := errgroup.WithContext(ctx)
	for i, id := range employeeIDs {
		i, id := i, id
		wg.Go(func() error {
			bd, err := b.runOne(gctx, period, windowStart, now, id, rule)
			if err != nil {
				return err
			}
			results[i] = bd
			return nil
		})
	}
	if err := wg.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Period: period, GeneratedAt: now}
	totals := Breakdown{Period: period}
	for _, bd := range results {
		if bd == nil {
			continue
		}
		report.PerEmployee = append(report.PerEmployee, *bd)
		totals.RegularHours += bd.RegularHours
		totals.OvertimeHours += bd.OvertimeHours
		totals.RegularPay = totals.RegularPay.Add(bd.RegularPay)
		totals.OvertimePay = totals.OvertimePay.Add(bd.OvertimePay)
		totals.GrossPay = totals.GrossPay.Add(bd.GrossPay)
		totals.TotalDeductions = totals.TotalDeductions.Add(bd.TotalDeductions)
		totals.LoanRepayments = totals.LoanRepayments.Add(bd.LoanRepayments)
		totals.NetPay = totals.NetPay.Add(bd.NetPay)
	}
	report.Totals = totals
	return report, nil
}

// runOne is the per-employee pipeline: hours, split, policy, calculate.
// Returns (nil, nil) for inactive employees.
func (b *ReportBuilder) runOne(ctx context.Context, period PayPeriod, windowStart, now time.Time, employeeID string, rule *OvertimeRule) (*Breakdown, error) {
	emp, err := b.Employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee %s: %w", employeeID, err)
	}
	if !emp.Active {
		return nil, nil
	}

	total, err := b.Hours.ComputeHours(ctx, employeeID, windowStart, now)
	if err != nil {
		return nil, fmt.Errorf("hours for %s: %w", employeeID, err)
	}
	regular, overtime := SplitHours(total, rule, period)

	deductions, err := b.Policy.ActiveDeductions(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("deductions for %s: %w", employeeID, err)
	}
	loans, err := b.Policy.ActiveLoans(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("loans for %s: %w", employeeID, err)
	}

	bd := Calculate(*emp, regular, overtime, rule, deductions, loans, period)
	return &bd, nil
}
