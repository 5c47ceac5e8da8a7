package compliance

import "github.com/shopspring/decimal"

// =============================================================================
// OVERTIME CLASSIFIER - Regular vs. overtime hours, offset-day accrual
// =============================================================================

// overtimeOutcome is the classifier's contribution to the final Result.
type overtimeOutcome struct {
	OvertimeHours     decimal.Decimal
	OffsetDaysEarned  decimal.Decimal
	OffsetEligible    bool
	ExceedsLegalLimit bool
}

// classifyOvertime splits net worked hours at the standard-day threshold
// and converts the excess into offset-day credit.
//
// Managerial staff are categorically exempt from overtime accounting:
// both overtime hours and offset days are forced to 0.00 regardless of
// hours worked, and the legal-limit check is skipped.
//
// The statutory cap check (Article 19: 2 hours/day) only flags the
// result; it never truncates the hours, which payroll still owes.
func classifyOvertime(netHours decimal.Decimal, isManagerial bool, rules RuleSet) overtimeOutcome {
	out := overtimeOutcome{
		OvertimeHours:    decimal.Zero.Round(2),
		OffsetDaysEarned: decimal.Zero.Round(2),
		OffsetEligible:   !isManagerial,
	}

	if isManagerial {
		return out
	}

	if netHours.GreaterThan(rules.StandardWorkHours) {
		overtime := netHours.Sub(rules.StandardWorkHours).Round(2)
		out.OvertimeHours = overtime

		// 8 overtime hours bank 1 offset day; fractions are representable,
		// whole-day conversion is downstream policy.
		out.OffsetDaysEarned = overtime.Div(rules.OffsetHoursPerDay).Round(2)

		if overtime.GreaterThan(rules.LegalOvertimeCap) {
			out.ExceedsLegalLimit = true
		}
	}

	return out
}
