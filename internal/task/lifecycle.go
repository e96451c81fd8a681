package task

import (
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/date"
)

// ApplyPayment sets the payment status and keeps PaidAt in step with it.
//   - Entering Paid stamps PaidAt unless it is already set.
//   - Any other status clears PaidAt.
func ApplyPayment(t *Task, status PaymentStatus, now time.Time) {
	if status == Paid {
		if t.PaidAt == nil {
			t.PaidAt = &now
		}
	} else {
		t.PaidAt = nil
	}
	t.Payment = status
}

// NextRevisionNumber returns one past the highest revision number, so numbers
// are never reused even when revisions are still open.
func NextRevisionNumber(t *Task) int {
	highest := 0
	for _, r := range t.Revisions {
		if r.Number > highest {
			highest = r.Number
		}
	}
	return highest + 1
}

// UrgencyForPriority maps a creation priority to a due urgency.
func UrgencyForPriority(priority string) Urgency {
	switch priority {
	case "urgent":
		return UrgencyUrgent
	case "medium":
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}

// DeadlineAt combines a deadline date with an HH:MM clock in loc. An empty
// clock falls back to fallback.
func DeadlineAt(d date.Date, clock, fallback string, loc *time.Location) (time.Time, error) {
	if clock == "" {
		clock = fallback
	}
	return d.At(clock, loc)
}
