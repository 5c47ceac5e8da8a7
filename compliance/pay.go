package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// OVERTIME PAY CALCULATOR - Article 19 pricing
// =============================================================================

// payOutcome is the pay calculator's contribution to the final Result.
// Callers can always rely on both fields being present; a shift with no
// payable overtime produces a zero-amount, zero-rate record rather than
// an omitted one.
type payOutcome struct {
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// calculateOvertimePay prices overtime hours. Night and holiday/rest-day
// overtime earn the premium multiplier (150%), everything else the
// regular one (125%).
func calculateOvertimePay(overtimeHours, hourlyRate decimal.Decimal, night, holidayOrOffDay bool, rules RuleSet) payOutcome {
	if !overtimeHours.IsPositive() || !hourlyRate.IsPositive() {
		return payOutcome{Rate: decimal.Zero.Round(2), Amount: decimal.Zero.Round(2)}
	}

	rate := rules.RegularOvertimeRate
	if night || holidayOrOffDay {
		rate = rules.PremiumOvertimeRate
	}

	return payOutcome{
		Rate:   rate,
		Amount: overtimeHours.Mul(hourlyRate).Mul(rate).Round(2),
	}
}
