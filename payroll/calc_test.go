package payroll_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazizbekravshanov/shopmule-sub004/payroll"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func hourlyEmployee(rate string) payroll.Employee {
	return payroll.Employee{
		ID:      "emp-1",
		Name:    "Aziz",
		PayType: payroll.PayHourly,
		PayRate: d(rate),
		Active:  true,
	}
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

// =============================================================================
// HOURLY PAY
// =============================================================================

func TestCalculate_Hourly_RegularAndOvertime(t *testing.T) {
	// GIVEN: $20/h, 40 regular hours, 5 overtime hours, default 1.5x
	// THEN: regular 800.00, overtime 150.00, gross 950.00

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 5, nil, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "800.00", bd.RegularPay)
	assertMoney(t, "150.00", bd.OvertimePay)
	assertMoney(t, "950.00", bd.GrossPay)
	assertMoney(t, "950.00", bd.NetPay)
}

func TestCalculate_Hourly_RuleMultiplierOverridesDefault(t *testing.T) {
	rule := &payroll.OvertimeRule{ID: "ot-1", WeeklyThresholdHours: 40, Multiplier: d("2"), Active: true}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 5, rule, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "200.00", bd.OvertimePay)
	assertMoney(t, "1000.00", bd.GrossPay)
}

func TestCalculate_Hourly_ExplicitOvertimeRateWins(t *testing.T) {
	emp := hourlyEmployee("20")
	otRate := d("35")
	emp.OvertimeRate = &otRate

	bd := payroll.Calculate(emp, 40, 2, nil, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "70.00", bd.OvertimePay)
}

func TestCalculate_InactiveRuleFallsBackToDefault(t *testing.T) {
	rule := &payroll.OvertimeRule{ID: "ot-1", Multiplier: d("3"), Active: false}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 5, rule, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "150.00", bd.OvertimePay)
}

// =============================================================================
// SALARY PAY
// =============================================================================

func TestCalculate_Salary_DividedByPeriodsPerYear(t *testing.T) {
	emp := payroll.Employee{ID: "emp-2", PayType: payroll.PaySalary, PayRate: d("52000"), Active: true}

	weekly := payroll.Calculate(emp, 40, 0, nil, nil, nil, payroll.PeriodWeek)
	monthly := payroll.Calculate(emp, 160, 0, nil, nil, nil, payroll.PeriodMonth)
	yearly := payroll.Calculate(emp, 2080, 0, nil, nil, nil, payroll.PeriodYear)

	assertMoney(t, "1000.00", weekly.RegularPay)
	assertMoney(t, "4333.33", monthly.RegularPay)
	assertMoney(t, "52000.00", yearly.RegularPay)
}

func TestCalculate_Salary_OvertimeAtHourlyEquivalent(t *testing.T) {
	// $52,000 / 2080h = $25/h; 4 OT hours at 1.5x = 150.00
	emp := payroll.Employee{ID: "emp-2", PayType: payroll.PaySalary, PayRate: d("52000"), Active: true}

	bd := payroll.Calculate(emp, 40, 4, nil, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "150.00", bd.OvertimePay)
	assertMoney(t, "1150.00", bd.GrossPay)
}

// =============================================================================
// FLAT RATE PAY
// =============================================================================

func TestCalculate_FlatRate_NoOvertimeEver(t *testing.T) {
	emp := payroll.Employee{ID: "emp-3", PayType: payroll.PayFlatRate, PayRate: d("1200"), Active: true}

	bd := payroll.Calculate(emp, 40, 20, nil, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "1200.00", bd.RegularPay)
	assertMoney(t, "0.00", bd.OvertimePay)
	assertMoney(t, "1200.00", bd.GrossPay)
}

// =============================================================================
// DEDUCTIONS
// =============================================================================

func TestCalculate_Deductions_PercentageAndFixed(t *testing.T) {
	// GIVEN: gross 950.00, a 10% deduction and a $50 fixed deduction
	// THEN: 95.00 + 50.00 = 145.00 total

	deds := []payroll.Deduction{
		{ID: "d1", Name: "Tax", Percentage: d("10"), Active: true},
		{ID: "d2", Name: "Uniform", Amount: d("50"), Active: true},
	}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 5, nil, deds, nil, payroll.PeriodWeek)

	require.Len(t, bd.Deductions, 2)
	assertMoney(t, "95.00", bd.Deductions[0].Amount)
	assertMoney(t, "50.00", bd.Deductions[1].Amount)
	assertMoney(t, "145.00", bd.TotalDeductions)
	assertMoney(t, "805.00", bd.NetPay)
}

func TestCalculate_Deduction_PercentagePrecedence(t *testing.T) {
	// Both percentage and fixed set: the percentage applies, silently.
	deds := []payroll.Deduction{
		{ID: "d1", Name: "Tax", Percentage: d("10"), Amount: d("500"), Active: true},
	}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 5, nil, deds, nil, payroll.PeriodWeek)

	assertMoney(t, "95.00", bd.TotalDeductions)
}

func TestCalculate_InactiveDeductionSkipped(t *testing.T) {
	deds := []payroll.Deduction{
		{ID: "d1", Name: "Old levy", Amount: d("50"), Active: false},
	}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 0, nil, deds, nil, payroll.PeriodWeek)

	assert.Empty(t, bd.Deductions)
	assertMoney(t, "0.00", bd.TotalDeductions)
}

// =============================================================================
// LOANS
// =============================================================================

func TestCalculate_Loan_CappedAtRemainingBalance(t *testing.T) {
	// Monthly payment 200, remaining balance 120: repayment is 120.
	loans := []payroll.LoanAdvance{
		{ID: "l1", Name: "Advance", MonthlyPayment: d("200"), RemainingBalance: d("120"), Active: true},
	}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 0, nil, nil, loans, payroll.PeriodWeek)

	require.Len(t, bd.Loans, 1)
	assertMoney(t, "120.00", bd.Loans[0].Amount)
	assertMoney(t, "120.00", bd.LoanRepayments)
}

func TestCalculate_Loan_ZeroBalanceSkipped(t *testing.T) {
	loans := []payroll.LoanAdvance{
		{ID: "l1", Name: "Paid off", MonthlyPayment: d("200"), RemainingBalance: d("0"), Active: true},
	}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 0, nil, nil, loans, payroll.PeriodWeek)

	assert.Empty(t, bd.Loans)
	assertMoney(t, "0.00", bd.LoanRepayments)
}

// =============================================================================
// FULL PIPELINE
// =============================================================================

func TestCalculate_FullPipeline_NetPay(t *testing.T) {
	// GIVEN: gross 950.00, deductions 145.00, loan repayment 120.00
	// THEN: net 685.00

	deds := []payroll.Deduction{
		{ID: "d1", Name: "Tax", Percentage: d("10"), Active: true},
		{ID: "d2", Name: "Uniform", Amount: d("50"), Active: true},
	}
	loans := []payroll.LoanAdvance{
		{ID: "l1", Name: "Advance", MonthlyPayment: d("200"), RemainingBalance: d("120"), Active: true},
	}

	bd := payroll.Calculate(hourlyEmployee("20"), 40, 5, nil, deds, loans, payroll.PeriodWeek)

	assertMoney(t, "950.00", bd.GrossPay)
	assertMoney(t, "145.00", bd.TotalDeductions)
	assertMoney(t, "120.00", bd.LoanRepayments)
	assertMoney(t, "685.00", bd.NetPay)
}

func TestCalculate_Deterministic(t *testing.T) {
	deds := []payroll.Deduction{{ID: "d1", Name: "Tax", Percentage: d("7.65"), Active: true}}

	a := payroll.Calculate(hourlyEmployee("21.37"), 38.25, 3.5, nil, deds, nil, payroll.PeriodWeek)
	b := payroll.Calculate(hourlyEmployee("21.37"), 38.25, 3.5, nil, deds, nil, payroll.PeriodWeek)

	assert.Equal(t, a, b)
}

func TestCalculate_RoundingHalfUpEachStep(t *testing.T) {
	// 3 hours at $10.415 = 31.245, rounded half-up to 31.25 before summing.
	bd := payroll.Calculate(hourlyEmployee("10.415"), 3, 0, nil, nil, nil, payroll.PeriodWeek)

	assertMoney(t, "31.25", bd.RegularPay)
	assertMoney(t, "31.25", bd.GrossPay)
}

// =============================================================================
// HOURS SPLIT
// =============================================================================

func TestSplitHours_DefaultWeeklyThreshold(t *testing.T) {
	regular, overtime := payroll.SplitHours(45, nil, payroll.PeriodWeek)
	assert.Equal(t, 40.0, regular)
	assert.Equal(t, 5.0, overtime)
}

func TestSplitHours_UnderThreshold_AllRegular(t *testing.T) {
	regular, overtime := payroll.SplitHours(32, nil, payroll.PeriodWeek)
	assert.Equal(t, 32.0, regular)
	assert.Equal(t, 0.0, overtime)
}

func TestSplitHours_ThresholdScalesWithPeriod(t *testing.T) {
	// Month = 4 weeks, so the 40h threshold becomes 160h.
	regular, overtime := payroll.SplitHours(170, nil, payroll.PeriodMonth)
	assert.Equal(t, 160.0, regular)
	assert.Equal(t, 10.0, overtime)
}

func TestSplitHours_RuleThresholdApplies(t *testing.T) {
	rule := &payroll.OvertimeRule{ID: "ot-1", WeeklyThresholdHours: 35, Multiplier: d("1.5"), Active: true}

	regular, overtime := payroll.SplitHours(45, rule, payroll.PeriodWeek)
	assert.Equal(t, 35.0, regular)
	assert.Equal(t, 10.0, overtime)
}

func TestSplitHours_NonPositiveTotal_Zero(t *testing.T) {
	regular, overtime := payroll.SplitHours(0, nil, payroll.PeriodWeek)
	assert.Equal(t, 0.0, regular)
	assert.Equal(t, 0.0, overtime)

	regular, overtime = payroll.SplitHours(-3, nil, payroll.PeriodWeek)
	assert.Equal(t, 0.0, regular)
	assert.Equal(t, 0.0, overtime)
}

// =============================================================================
// PAY PERIOD HELPERS
// =============================================================================

func TestPayPeriod_Multipliers(t *testing.T) {
	assert.Equal(t, 1.0, payroll.PeriodWeek.Weeks())
	assert.Equal(t, 4.0, payroll.PeriodMonth.Weeks())
	assert.Equal(t, 13.0, payroll.PeriodQuarter.Weeks())
	assert.Equal(t, 52.0, payroll.PeriodYear.Weeks())

	assert.Equal(t, int64(52), payroll.PeriodWeek.PeriodsPerYear())
	assert.Equal(t, int64(12), payroll.PeriodMonth.PeriodsPerYear())
	assert.Equal(t, int64(4), payroll.PeriodQuarter.PeriodsPerYear())
	assert.Equal(t, int64(1), payroll.PeriodYear.PeriodsPerYear())
}

func TestPayPeriod_Valid(t *testing.T) {
	assert.True(t, payroll.PeriodWeek.Valid())
	assert.False(t, payroll.PayPeriod("fortnight").Valid())
}
