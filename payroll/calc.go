/*
calc.go - The payroll arithmetic pipeline

PURPOSE:
  A pure function from (employee policy, pre-split hours, overtime rule,
  deductions, loans, period) to an itemized pay breakdown. No persistence,
  no hidden state: calling it twice with identical inputs yields identical
  output.

PIPELINE:
  1. Base pay by pay type (hourly / salary / flat rate)
  2. Overtime pay (flat rate never accrues overtime)
  3. grossPay = round2(regular + overtime)
  4. Deductions against gross (percentage precedence, else fixed)
  5. Loan repayments capped at the remaining balance
  6. netPay = round2(gross - deductions - loans)

ROUNDING:
  round-half-up to two decimal places at EACH monetary step, not only at
  the end, so breakdown line items sum exactly to their totals.

KNOWN POLICY QUIRKS (preserved, see DESIGN.md):
  - Loan repayment collects the fixed monthly amount once per run
    regardless of the requested period length.
  - A deduction with both percentage and fixed amount set applies the
    percentage silently.
*/
package payroll

import "github.com/shopspring/decimal"

// Default overtime handling when no rule is active.
var (
	defaultMultiplier      = decimal.NewFromFloat(1.5)
	annualHoursDivisor     = decimal.NewFromInt(2080) // 40h x 52wk
	defaultWeeklyThreshold = 40.0
)

// round2 applies round-half-up to two decimal places. Decimal.Round is
// half-away-from-zero, which is half-up for the non-negative amounts this
// pipeline produces.
func round2(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// Calculate produces the pay breakdown for one employee.
// regularHours and overtimeHours are pre-split by the caller (see SplitHours)
// and must be >= 0.
func Calculate(
	emp Employee,
	regularHours, overtimeHours float64,
	rule *OvertimeRule,
	deductions []Deduction,
	loans []LoanAdvance,
	period PayPeriod,
) Breakdown {
	multiplier := defaultMultiplier
	if rule != nil && rule.Active && rule.Multiplier.IsPositive() {
		multiplier = rule.Multiplier
	}

	regular := decimal.NewFromFloat(regularHours)
	overtime := decimal.NewFromFloat(overtimeHours)

	var regularPay, overtimePay decimal.Decimal
	switch emp.PayType {
	case PaySalary:
		// PayRate is annual; overtime accrues at the hourly equivalent.
		regularPay = round2(emp.PayRate.Div(decimal.NewFromInt(period.PeriodsPerYear())))
		hourly := emp.PayRate.Div(annualHoursDivisor)
		overtimePay = round2(overtime.Mul(hourly).Mul(multiplier))

	case PayFlatRate:
		// Flat amount for the period; overtime never accrues.
		regularPay = round2(emp.PayRate)
		overtimePay = decimal.Zero.Round(2)

	default: // hourly
		regularPay = round2(regular.Mul(emp.PayRate))
		otRate := emp.PayRate.Mul(multiplier)
		if emp.OvertimeRate != nil && emp.OvertimeRate.IsPositive() {
			otRate = *emp.OvertimeRate
		}
		overtimePay = round2(overtime.Mul(otRate))
	}

	grossPay := round2(regularPay.Add(overtimePay))

	totalDeductions := decimal.Zero
	var dedLines []DeductionLine
	for _, d := range deductions {
		if !d.Active {
			continue
		}
		var amount decimal.Decimal
		if d.Percentage.IsPositive() {
			amount = round2(grossPay.Mul(d.Percentage).Div(decimal.NewFromInt(100)))
		} else {
			amount = round2(d.Amount)
		}
		totalDeductions = totalDeductions.Add(amount)
		dedLines = append(dedLines, DeductionLine{DeductionID: d.ID, Name: d.Name, Amount: amount})
	}
	totalDeductions = round2(totalDeductions)

	loanRepayments := decimal.Zero
	var loanLines []LoanLine
	for _, l := range loans {
		if !l.Active {
			continue
		}
		payment := l.MonthlyPayment
		if l.RemainingBalance.LessThan(payment) {
			payment = l.RemainingBalance
		}
		payment = round2(payment)
		if !payment.IsPositive() {
			continue
		}
		loanRepayments = loanRepayments.Add(payment)
		loanLines = append(loanLines, LoanLine{LoanID: l.ID, Name: l.Name, Amount: payment})
	}
	loanRepayments = round2(loanRepayments)

	netPay := round2(grossPay.Sub(totalDeductions).Sub(loanRepayments))

	return Breakdown{
		EmployeeID:      emp.ID,
		EmployeeName:    emp.Name,
		Period:          period,
		RegularHours:    regularHours,
		OvertimeHours:   overtimeHours,
		RegularPay:      regularPay,
		OvertimePay:     overtimePay,
		GrossPay:        grossPay,
		TotalDeductions: totalDeductions,
		LoanRepayments:  loanRepayments,
		NetPay:          netPay,
		Deductions:      dedLines,
		Loans:           loanLines,
	}
}

// SplitHours splits a worked-hours total into regular and overtime using the
// weekly threshold scaled by the weeks in the period. No active rule means a
// 40-hour weekly threshold with the default multiplier.
func SplitHours(totalHours float64, rule *OvertimeRule, period PayPeriod) (regular, overtime float64) {
	if totalHours <= 0 {
		return 0, 0
	}
	weekly := defaultWeeklyThreshold
	if rule != nil && rule.Active && rule.WeeklyThresholdHours > 0 {
		weekly = rule.WeeklyThresholdHours
	}
	threshold := weekly * period.Weeks()
	if totalHours <= threshold {
		return totalHours, 0
	}
	return threshold, totalHours - threshold
}
