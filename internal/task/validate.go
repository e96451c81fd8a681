package task

import (
	"slices"
	"strings"

	"github.com/twiced-technology-gmbh/cutboard/internal/clierr"
)

// ValidateColumn checks that a column id is registered.
func ValidateColumn(column string, allowed []string) error {
	if slices.Contains(allowed, column) {
		return nil
	}
	return clierr.Newf(clierr.InvalidColumn, "invalid column %q", column).
		WithDetails(map[string]any{
			"column":  column,
			"allowed": allowed,
		})
}

// ValidatePriority checks that a priority is in the allowed list.
func ValidatePriority(priority string, allowed []string) error {
	if slices.Contains(allowed, priority) {
		return nil
	}
	return clierr.Newf(clierr.InvalidPriority, "invalid priority %q", priority).
		WithDetails(map[string]any{
			"priority": priority,
			"allowed":  allowed,
		})
}

// ValidatePaymentStatus parses a payment status or returns a CLI error.
func ValidatePaymentStatus(input string) (PaymentStatus, error) {
	if p, ok := ParsePaymentStatus(input); ok {
		return p, nil
	}
	allowed := make([]string, len(PaymentStatuses))
	for i, p := range PaymentStatuses {
		allowed[i] = string(p)
	}
	return "", clierr.Newf(clierr.InvalidStatus, "invalid payment status %q", input).
		WithDetails(map[string]any{
			"status":  input,
			"allowed": allowed,
		})
}

// ValidateRevisionStatus parses a revision status or returns a CLI error.
func ValidateRevisionStatus(input string) (RevisionStatus, error) {
	if r, ok := ParseRevisionStatus(input); ok {
		return r, nil
	}
	allowed := make([]string, len(RevisionStatuses))
	for i, r := range RevisionStatuses {
		allowed[i] = string(r)
	}
	return "", clierr.Newf(clierr.InvalidStatus, "invalid revision status %q", input).
		WithDetails(map[string]any{
			"status":  input,
			"allowed": allowed,
		})
}

// ValidateDate returns a CLIError for invalid date input.
func ValidateDate(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidDate, "invalid %s date: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateClock returns a CLIError for invalid HH:MM input.
func ValidateClock(field, input string, err error) *clierr.Error {
	return clierr.Newf(clierr.InvalidTime, "invalid %s time: %v", field, err).
		WithDetails(map[string]any{
			"field": field,
			"input": input,
		})
}

// ValidateTaskID returns a CLIError for invalid task ID input.
func ValidateTaskID(input string) *clierr.Error {
	return clierr.Newf(clierr.InvalidTaskID, "invalid task ID %q", input).
		WithDetails(map[string]any{"input": input})
}

// NotFound returns a CLIError for a task id the board does not track.
func NotFound(id int) *clierr.Error {
	return clierr.Newf(clierr.TaskNotFound, "task not found: #%d", id).
		WithDetails(map[string]any{"id": id})
}

// ValidateSeed checks a task loaded from a seed file before it enters the store.
func ValidateSeed(t *Task, columns []string) error {
	if t.ID < 1 {
		return clierr.Newf(clierr.InvalidTaskID, "task id must be >= 1, got %d", t.ID)
	}
	if err := ValidateColumn(t.Column, columns); err != nil {
		return err
	}
	if t.Payment == "" {
		t.Payment = Unbilled
	}
	if _, ok := ParsePaymentStatus(string(t.Payment)); !ok {
		_, err := ValidatePaymentStatus(string(t.Payment))
		return err
	}
	if t.Payment != Paid && t.PaidAt != nil {
		return clierr.Newf(clierr.InvalidInput,
			"task #%d has paid_at but payment is %s", t.ID, t.Payment)
	}
	seen := make(map[int]bool, len(t.Revisions))
	for _, r := range t.Revisions {
		if r.Number < 1 || seen[r.Number] {
			return clierr.Newf(clierr.InvalidInput,
				"task #%d has a duplicate or non-positive revision number %d", t.ID, r.Number)
		}
		seen[r.Number] = true
	}
	for _, a := range t.Activities {
		if !a.Kind.Valid() {
			return clierr.Newf(clierr.InvalidInput,
				"task #%d has activity of unknown kind %q", t.ID, a.Kind)
		}
		if strings.TrimSpace(a.Content) == "" {
			return clierr.Newf(clierr.InvalidInput, "task #%d has an empty activity record", t.ID)
		}
	}
	return nil
}
