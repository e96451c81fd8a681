package board

import (
	"fmt"
	"math"
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/date"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// DueLabel is the due-date caption of a task card at a given instant.
type DueLabel struct {
	Text    string       `json:"text"`
	Urgency task.Urgency `json:"urgency"`
	Overdue bool         `json:"overdue"`
}

// Due computes the caption for t at now. Deadlines falling on now's calendar
// day count down in whole hours, rounded up; other days show the date.
// Tasks without a deadline or due date return an empty label.
func Due(t *task.Task, now time.Time) DueLabel {
	if t.Deadline != nil {
		dl := t.Deadline.In(now.Location())
		if date.Of(dl).Equal(date.Of(now)) {
			diff := dl.Sub(now)
			if diff < 0 {
				return DueLabel{Text: "OVERDUE (Today)", Urgency: task.UrgencyUrgent, Overdue: true}
			}
			hours := int(math.Ceil(diff.Hours()))
			return DueLabel{Text: fmt.Sprintf("DUE TODAY (in ~%dh)", hours), Urgency: task.UrgencyUrgent}
		}
		if dl.Before(now) {
			return DueLabel{Text: "OVERDUE (" + dl.Format("Jan 2") + ")", Urgency: task.UrgencyUrgent, Overdue: true}
		}
		return DueLabel{Text: "Due " + dl.Format("Jan 2"), Urgency: t.Urgency}
	}
	if t.Due != nil {
		return DueLabel{Text: "Due " + t.Due.Format("Jan 2"), Urgency: t.Urgency}
	}
	return DueLabel{}
}
