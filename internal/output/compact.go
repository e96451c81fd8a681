package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t, now))
	}
}

// TaskDetailCompact renders a single task with its journal in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task, now time.Time) {
	fmt.Fprintln(w, formatTaskLine(t, now))

	ts := "  created:" + t.Created.Format("2006-01-02")
	if t.Deadline != nil {
		ts += " deadline:" + t.Deadline.Format("2006-01-02T15:04")
	}
	if t.PaidAt != nil {
		ts += " paid:" + t.PaidAt.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	for _, r := range t.Revisions {
		fmt.Fprintf(w, "  rev %d [%s] %s\n", r.Number, r.Status, firstLine(r.Content))
	}
	for _, a := range t.Activities {
		fmt.Fprintf(w, "  %s %s %s: %s\n",
			a.Timestamp.Format("2006-01-02T15:04"), a.Kind, a.Actor, firstLine(a.Content))
	}
}

// OverviewCompact renders a board summary in compact format.
func OverviewCompact(w io.Writer, s board.Overview) {
	fmt.Fprintf(w, "%s (%d tasks, %d hidden)\n", s.BoardName, s.TotalTasks, s.Hidden)

	for _, cs := range s.Columns {
		line := "  " + cs.DisplayName + ": " + strconv.Itoa(cs.Count)
		var annotations []string
		if cs.Overdue > 0 {
			annotations = append(annotations, strconv.Itoa(cs.Overdue)+" overdue")
		}
		if cs.Unpaid > 0 {
			annotations = append(annotations, strconv.Itoa(cs.Unpaid)+" unpaid")
		}
		if len(annotations) > 0 {
			line += " (" + strings.Join(annotations, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}

	parts := make([]string, 0, len(s.Payments))
	for _, pc := range s.Payments {
		parts = append(parts, string(pc.Status)+"="+strconv.Itoa(pc.Count))
	}
	fmt.Fprintln(w, "Payment: "+strings.Join(parts, " "))
}

// EntryCompact renders a journal entry on one line.
func EntryCompact(w io.Writer, e board.Entry) {
	fmt.Fprintf(w, "%s #%d %s %s: %s\n",
		e.Activity.Timestamp.Format(time.RFC3339), e.TaskID, e.Activity.Kind, e.Activity.Actor,
		firstLine(e.Activity.Content))
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task, now time.Time) string {
	line := "#" + strconv.Itoa(t.ID) + " [" + t.Column + "/" + string(t.Payment) + "] " + t.Title
	if t.Client != "" {
		line += " @" + t.Client
	}
	if t.Tag != "" {
		line += " (" + t.Tag + ")"
	}
	if due := board.Due(t, now); due.Text != "" {
		line += " due:" + strings.ReplaceAll(due.Text, " ", "_")
	}
	return line
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
