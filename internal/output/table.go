package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/config"
	"github.com/twiced-technology-gmbh/cutboard/internal/replay"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	paymentStyles = map[string]lipgloss.Style{
		string(task.Unbilled): lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		string(task.Pending):  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		string(task.Paid):     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(task.Overdue):  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	urgencyStyles = map[string]lipgloss.Style{
		string(task.UrgencyUrgent):  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		string(task.UrgencyWarning): lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		string(task.UrgencyInfo):    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}

	kindStyles = map[string]lipgloss.Style{
		string(task.KindMove):    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		string(task.KindCreate):  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		string(task.KindComment): lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		string(task.KindUpload):  lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	}

	tagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
)

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task, cfg *config.Config, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	const pad = 2
	idW, colW, titleW, clientW, tagW, payW := 4, 8, 5, 8, 5, 9
	for _, t := range tasks {
		idW = max(idW, len(strconv.Itoa(t.ID))+pad)
		colW = max(colW, len(cfg.DisplayName(t.Column))+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 42)) //nolint:mnd // max title column width
		clientW = max(clientW, min(len(t.Client)+pad, 24)) //nolint:mnd // max client column width
		tagW = max(tagW, len(t.Tag)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-*s %-*s %-*s %s",
		idW, "ID", colW, "COLUMN", titleW, "TITLE", clientW, "CLIENT",
		tagW, "TAG", payW, "PAYMENT", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, t := range tasks {
		row := fmt.Sprintf("%-*d %s %s %s %s %s %s",
			idW, t.ID,
			padRight(cfg.DisplayName(t.Column), colW),
			padRight(truncate(t.Title, titleW-pad), titleW),
			padRight(truncate(t.Client, clientW-pad), clientW),
			padRight(stringOrDash(tagStyle.Render(t.Tag), t.Tag), tagW),
			padRight(styledValue(string(t.Payment), paymentStyles), payW),
			dueCell(t, now))
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with its revisions and journal.
func TaskDetail(w io.Writer, t *task.Task, cfg *config.Config, now time.Time, width int) {
	titleLine := fmt.Sprintf("Task #%d: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", lipgloss.Width(titleLine)))

	printField(w, "Column", cfg.DisplayName(t.Column))
	printField(w, "Client", stringOrDash(t.Client, t.Client))
	printField(w, "Tag", stringOrDash(tagStyle.Render(t.Tag), t.Tag))
	if t.Priority != "" {
		printField(w, "Priority", t.Priority)
	}
	printField(w, "Due", dueCell(t, now))
	if t.Deadline != nil {
		printField(w, "Deadline", t.Deadline.Format("2006-01-02 15:04"))
	}
	payment := styledValue(string(t.Payment), paymentStyles)
	if t.PaidAt != nil {
		payment += dimStyle.Render(" (paid " + t.PaidAt.Format("2006-01-02 15:04") + ")")
	}
	printField(w, "Payment", payment)
	if t.Budget != nil {
		printField(w, "Budget", strconv.FormatFloat(*t.Budget, 'f', -1, 64)+" "+t.Currency)
	}
	if t.VideoLink != "" {
		printField(w, "Video", t.VideoLink)
	}
	if t.ProjectFileLink != "" {
		printField(w, "Project", t.ProjectFileLink)
	}
	printField(w, "Created", t.Created.Format("2006-01-02 15:04"))

	if len(t.Revisions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("REVISIONS"))
		for _, r := range t.Revisions {
			line := fmt.Sprintf("  #%d %-10s %s", r.Number, r.Status, r.Created.Format("2006-01-02"))
			fmt.Fprintln(w, line)
			fmt.Fprintln(w, "     "+r.Content)
			if r.Link != "" {
				fmt.Fprintln(w, "     "+dimStyle.Render(r.Link))
			}
		}
	}

	if len(t.Activities) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("ACTIVITY"))
		for _, a := range t.Activities {
			fmt.Fprintf(w, "  %s %s %s\n",
				dimStyle.Render(a.Timestamp.Format("2006-01-02 15:04")),
				padRight(styledValue(string(a.Kind), kindStyles), 8), //nolint:mnd // kind column width
				dimStyle.Render(a.Actor))
			Markdown(w, a.Content, width)
		}
	}

	if t.Notes != "" {
		fmt.Fprintln(w)
		Markdown(w, t.Notes, width)
	}
}

// OverviewTable renders a board summary as a formatted dashboard.
func OverviewTable(w io.Writer, s board.Overview) {
	fmt.Fprintln(w, titleStyle.Render(s.BoardName))
	line := fmt.Sprintf("Total: %d tasks", s.TotalTasks)
	if s.Hidden > 0 {
		line += dimStyle.Render(fmt.Sprintf(" (%d settled and hidden)", s.Hidden))
	}
	fmt.Fprintln(w, line)
	fmt.Fprintln(w)

	const nameW = 16
	header := fmt.Sprintf("%-*s %6s %8s %8s", nameW, "COLUMN", "COUNT", "OVERDUE", "UNPAID")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, cs := range s.Columns {
		fmt.Fprintf(w, "%s %6d %8d %8d\n", padRight(cs.DisplayName, nameW), cs.Count, cs.Overdue, cs.Unpaid)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(fmt.Sprintf("%-*s %6s", nameW, "PAYMENT", "COUNT")))
	for _, pc := range s.Payments {
		fmt.Fprintf(w, "%s %6d\n", padRight(styledValue(string(pc.Status), paymentStyles), nameW), pc.Count)
	}
}

// GroupedTable renders a grouped board view with per-group column breakdowns.
func GroupedTable(w io.Writer, gs board.GroupedSummary) {
	if len(gs.Groups) == 0 {
		fmt.Fprintln(os.Stderr, "No groups found.")
		return
	}

	for i, g := range gs.Groups {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s (%d tasks)", g.Key, g.Total)))
		for _, cs := range g.Columns {
			if cs.Count == 0 {
				continue
			}
			const groupColW = 16
			fmt.Fprintf(w, "  %s %d\n", padRight(cs.DisplayName, groupColW), cs.Count)
		}
	}
}

// LogTable renders audit log entries.
func LogTable(w io.Writer, entries []board.LogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No activity recorded.")
		return
	}
	header := fmt.Sprintf("%-16s %-6s %-8s %-10s %s", "TIME", "TASK", "KIND", "ACTOR", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, e := range entries {
		fmt.Fprintf(w, "%-16s %-6s %s %-10s %s\n",
			e.Timestamp.Format("2006-01-02 15:04"),
			"#"+strconv.Itoa(e.TaskID),
			padRight(styledValue(string(e.Kind), kindStyles), 8), //nolint:mnd // kind column width
			truncate(e.Actor, 10),                                 //nolint:mnd // actor column width
			e.Detail)
	}
}

// ReplayTable renders replay step results.
func ReplayTable(w io.Writer, results []replay.Result) {
	header := fmt.Sprintf("%-5s %-16s %-8s %s", "STEP", "ACTION", "CHANGED", "DETAIL")
	fmt.Fprintln(w, headerStyle.Render(header))
	for _, r := range results {
		changed := dimStyle.Render("no")
		if r.Changed {
			changed = "yes"
		}
		detail := r.Detail
		if r.Error != "" {
			detail = paymentStyles[string(task.Overdue)].Render("error: " + r.Error)
		}
		fmt.Fprintf(w, "%-5d %-16s %s %s\n", r.Step, r.Action, padRight(changed, 8), detail) //nolint:mnd // column width
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-10s %s\n", label+":", value)
}

func dueCell(t *task.Task, now time.Time) string {
	due := board.Due(t, now)
	if due.Text == "" {
		return dimStyle.Render("--")
	}
	return urgencyStyle(due.Urgency).Render(due.Text)
}

func urgencyStyle(u task.Urgency) lipgloss.Style {
	if st, ok := urgencyStyles[string(u)]; ok {
		return st
	}
	return lipgloss.NewStyle()
}

func truncate(s string, n int) string {
	if n <= 3 || len(s) <= n { //nolint:mnd // room for the ellipsis
		return s
	}
	return s[:n-3] + "..."
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

// stringOrDash returns styled, or a dim dash when raw is empty.
func stringOrDash(styled, raw string) string {
	if raw == "" {
		return dimStyle.Render("--")
	}
	return styled
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
