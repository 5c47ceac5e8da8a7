package compliance_test

import (
	"testing"
	"time"

	"github.com/warp/compliance-engine/compliance"
)

func netHours(t *testing.T, w compliance.WorkInterval) string {
	t.Helper()
	result := newEngine().Evaluate(compliance.Input{
		Interval: w,
		Day:      compliance.DayContext{IsNormalWorkingDay: true},
	})
	return result.NetWorkedHours.StringFixed(2)
}

func TestResolveWorkedHours(t *testing.T) {
	tests := []struct {
		name string
		w    compliance.WorkInterval
		want string
	}{
		{
			name: "nine hour span minus one hour lunch",
			w:    compliance.WorkInterval{ClockIn: at(10, 8, 0), ClockOut: at(10, 17, 0), LunchMinutes: 60},
			want: "8.00",
		},
		{
			name: "zero lunch leaves the raw span",
			w:    compliance.WorkInterval{ClockIn: at(10, 8, 0), ClockOut: at(10, 17, 0)},
			want: "9.00",
		},
		{
			name: "sub-hour precision rounds to two decimals",
			w:    compliance.WorkInterval{ClockIn: at(10, 9, 0), ClockOut: at(10, 14, 20), LunchMinutes: 30},
			want: "4.83",
		},
		{
			name: "lunch longer than the span clamps to zero",
			w:    compliance.WorkInterval{ClockIn: at(10, 9, 0), ClockOut: at(10, 9, 30), LunchMinutes: 120},
			want: "0.00",
		},
		{
			name: "inverted span clamps to zero instead of going negative",
			w:    compliance.WorkInterval{ClockIn: at(10, 17, 0), ClockOut: at(10, 8, 0)},
			want: "0.00",
		},
		{
			name: "missing clock-in means no attendance recorded",
			w:    compliance.WorkInterval{ClockOut: at(10, 17, 0), LunchMinutes: 60},
			want: "0.00",
		},
		{
			name: "negative lunch minutes are ignored",
			w:    compliance.WorkInterval{ClockIn: at(10, 8, 0), ClockOut: at(10, 16, 0), LunchMinutes: -15},
			want: "8.00",
		},
		{
			name: "midnight-crossing span",
			w:    compliance.WorkInterval{ClockIn: at(10, 22, 0), ClockOut: at(11, 6, 30), LunchMinutes: 30},
			want: "8.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := netHours(t, tt.w); got != tt.want {
				t.Errorf("net hours = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveWorkedHours_LunchZeroEqualsRawSpan(t *testing.T) {
	// GIVEN: Any interval with zero lunch
	// THEN: Net hours equal clock-out minus clock-in exactly

	spans := map[time.Duration]string{
		time.Hour:                    "1.00",
		7*time.Hour + 45*time.Minute: "7.75",
		26 * time.Hour:               "26.00",
	}
	for span, want := range spans {
		in := at(10, 6, 0)
		got := netHours(t, compliance.WorkInterval{ClockIn: in, ClockOut: in.Add(span)})
		if got != want {
			t.Errorf("span %v: net hours = %s, want %s", span, got, want)
		}
	}
}
