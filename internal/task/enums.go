package task

import "strings"

// PaymentStatus is the billing state of a task.
type PaymentStatus string

// Payment states.
const (
	Unbilled PaymentStatus = "Unbilled"
	Pending  PaymentStatus = "Pending"
	Paid     PaymentStatus = "Paid"
	Overdue  PaymentStatus = "Overdue"
)

// PaymentStatuses lists every payment state in display order.
var PaymentStatuses = []PaymentStatus{Unbilled, Pending, Paid, Overdue}

// ParsePaymentStatus matches s case-insensitively against the payment states.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	for _, p := range PaymentStatuses {
		if strings.EqualFold(string(p), strings.TrimSpace(s)) {
			return p, true
		}
	}
	return "", false
}

// NextInvoiceStatus rotates an invoice through Pending, Paid and Overdue.
// Anything else starts the cycle at Pending.
func NextInvoiceStatus(s PaymentStatus) PaymentStatus {
	switch s {
	case Pending:
		return Paid
	case Paid:
		return Overdue
	default:
		return Pending
	}
}

// Kind classifies activity records.
type Kind string

// Activity kinds.
const (
	KindMove    Kind = "move"
	KindCreate  Kind = "create"
	KindComment Kind = "comment"
	KindUpload  Kind = "upload"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindMove, KindCreate, KindComment, KindUpload:
		return true
	}
	return false
}

// RevisionStatus is the progress of a revision.
type RevisionStatus string

// Revision states.
const (
	RevisionCreating  RevisionStatus = "Creating"
	RevisionReviewing RevisionStatus = "Reviewing"
	RevisionCompleted RevisionStatus = "Completed"
)

// RevisionStatuses lists every revision state in display order.
var RevisionStatuses = []RevisionStatus{RevisionCreating, RevisionReviewing, RevisionCompleted}

// ParseRevisionStatus matches s case-insensitively against the revision states.
func ParseRevisionStatus(s string) (RevisionStatus, bool) {
	for _, r := range RevisionStatuses {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, true
		}
	}
	return "", false
}

// Urgency drives how prominently a task's due date is shown.
type Urgency string

// Urgency levels.
const (
	UrgencyUrgent  Urgency = "urgent"
	UrgencyWarning Urgency = "warning"
	UrgencyInfo    Urgency = "info"
	UrgencyNormal  Urgency = "normal"
)
