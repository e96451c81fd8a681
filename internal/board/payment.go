package board

import (
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// OnBillingStatusChanged mirrors an invoice status onto the linked task.
// Events for tasks this board does not track are logged and dropped.
func (s *Store) OnBillingStatusChanged(taskID int, status task.PaymentStatus) bool {
	l := s.log.WithField("task_id", taskID).WithField("status", status)
	if _, ok := task.ParsePaymentStatus(string(status)); !ok {
		l.Info("ignoring billing event with unknown status")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(taskID)
	if i < 0 {
		l.Info("ignoring billing event for untracked task")
		return false
	}
	task.ApplyPayment(s.tasks[i], status, s.now())
	return true
}

// CycleInvoice advances the task's invoice through Pending, Paid and Overdue
// and syncs the result. Returns the new status.
func (s *Store) CycleInvoice(taskID int) (task.PaymentStatus, bool) {
	t, ok := s.Task(taskID)
	if !ok {
		s.log.WithField("task_id", taskID).Info("ignoring invoice cycle for untracked task")
		return "", false
	}
	next := task.NextInvoiceStatus(t.Payment)
	return next, s.OnBillingStatusChanged(taskID, next)
}
