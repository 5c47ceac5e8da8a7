package compliance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TIME INTERVAL RESOLVER - Net worked hours from a raw attendance span
// =============================================================================

var secondsPerHour = decimal.NewFromInt(3600)

// resolveWorkedHours computes net worked hours for the interval:
// (clock-out - clock-in) minus the lunch deduction, in hours to 2 dp.
//
// Degradation rules:
//   - either timestamp missing: 0.00 (no attendance recorded, not an error)
//   - inverted span or lunch exceeding the span: clamp to 0.00
func resolveWorkedHours(w WorkInterval, rules RuleSet) decimal.Decimal {
	if !w.Recorded() {
		return decimal.Zero.Round(2)
	}

	lunchMinutes := w.LunchMinutes
	if lunchMinutes < 0 {
		lunchMinutes = 0
	}

	total := decimal.NewFromInt(int64(w.ClockOut.Sub(w.ClockIn) / time.Second)).Div(secondsPerHour)
	lunch := decimal.NewFromInt(int64(lunchMinutes)).Div(decimal.NewFromInt(60))

	net := total.Sub(lunch)
	if net.IsNegative() {
		net = decimal.Zero
	}
	return net.Round(2)
}
