package compliance

import "time"

// =============================================================================
// DOCUMENT EXPIRY URGENCY - Visa / Emirates ID renewal alerts
// =============================================================================

// Urgency is the color-coded alert level for an expiring document.
type Urgency string

const (
	UrgencyCritical Urgency = "critical" // expired or expires today
	UrgencyUrgent   Urgency = "urgent"   // expires in 1-7 days
	UrgencyWarning  Urgency = "warning"  // expires in 8-30 days
	UrgencyNotice   Urgency = "notice"   // expires in 31-60 days
	UrgencyOK       Urgency = "ok"       // more than 60 days remaining
)

// UrgencyFor grades an expiry date against a reference date (usually
// today). A zero expiry means the document is missing and is treated as
// critical. Only the calendar dates matter; time-of-day is ignored.
func UrgencyFor(expiry, asOf time.Time) Urgency {
	if expiry.IsZero() {
		return UrgencyCritical
	}

	days := int(startOfDay(expiry).Sub(startOfDay(asOf)).Hours() / 24)

	switch {
	case days <= 0:
		return UrgencyCritical
	case days <= 7:
		return UrgencyUrgent
	case days <= 30:
		return UrgencyWarning
	case days <= 60:
		return UrgencyNotice
	default:
		return UrgencyOK
	}
}

// ActionRequired reports whether the urgency level should surface as a
// compliance alert.
func (u Urgency) ActionRequired() bool {
	return u != UrgencyOK
}
