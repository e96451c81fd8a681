package tui

import (
	"fmt"
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/twiced-technology-gmbh/cutboard/internal/board"
	"github.com/twiced-technology-gmbh/cutboard/internal/gesture"
	"github.com/twiced-technology-gmbh/cutboard/internal/output"
	"github.com/twiced-technology-gmbh/cutboard/internal/task"
)

var (
	columnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	activeColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				Background(lipgloss.Color("62")).
				Padding(0, 1)

	hoverColumnHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("16")).
				Background(lipgloss.Color("214")).
				Padding(0, 1)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	activeCardStyle = cardStyle.BorderForeground(lipgloss.Color("226"))
	dragCardStyle   = cardStyle.BorderStyle(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("62"))
	hoverCardStyle  = cardStyle.BorderForeground(lipgloss.Color("214"))

	statusBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	urgencyStyles = map[task.Urgency]lipgloss.Style{
		task.UrgencyUrgent:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		task.UrgencyWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		task.UrgencyInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	}

	paymentStyles = map[task.PaymentStatus]lipgloss.Style{
		task.Unbilled: dimStyle,
		task.Pending:  lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		task.Paid:     lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		task.Overdue:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}

	// namedColors maps registry color names to terminal colors.
	namedColors = map[string]lipgloss.Color{
		"blue": "33", "pink": "205", "purple": "135", "green": "34",
		"cyan": "37", "amber": "214", "red": "196", "yellow": "226",
		"orange": "208", "gray": "245",
	}

	// tagColorPalette colors tags the registry does not know.
	tagColorPalette = []lipgloss.Color{"33", "36", "35", "32", "91", "34", "93", "96"}

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2) //nolint:mnd // dialog padding
)

// tagStyle colors a tag from the registry, falling back to a stable hash of
// its label.
func (b *Board) tagStyle(tag string) lipgloss.Style {
	if tc, ok := b.store.Registries().Tag(tag); ok {
		if c, ok := namedColors[strings.ToLower(tc.Color)]; ok {
			return lipgloss.NewStyle().Foreground(c)
		}
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(tag))
	return lipgloss.NewStyle().Foreground(tagColorPalette[h.Sum32()%uint32(len(tagColorPalette))])
}

func (b *Board) viewBoard() string {
	if len(b.columns) == 0 {
		return "No columns configured."
	}

	colWidth := b.columnWidth()
	over, dragging := b.interp.Over()

	rendered := make([]string, len(b.columns))
	for i, col := range b.columns {
		rendered[i] = b.renderColumn(i, col, colWidth, over, dragging)
	}
	boardView := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	targetHeight := b.height - b.chromeHeight()
	if targetHeight > 0 {
		actual := strings.Count(boardView, "\n") + 1
		if actual > targetHeight {
			lines := strings.SplitN(boardView, "\n", targetHeight+1)
			boardView = strings.Join(lines[:targetHeight], "\n")
		} else if actual < targetHeight {
			boardView += strings.Repeat("\n", targetHeight-actual)
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, boardView, "", b.renderStatusBar())
}

func (b *Board) renderColumn(colIdx int, col column, width int, over board.DropTarget, dragging bool) string {
	inner := width - 1 // one cell gap to the right of every column

	headerText := fmt.Sprintf("%s (%d)", col.cfg.DisplayName, len(col.tasks))
	start := min(col.scrollOff, len(col.tasks))
	end := min(start+b.visibleCards(), len(col.tasks))
	if start > 0 {
		headerText += fmt.Sprintf(" ↑%d", start)
	}
	if end < len(col.tasks) {
		headerText += fmt.Sprintf(" ↓%d", len(col.tasks)-end)
	}
	const headerPad = 2
	headerText = truncate(headerText, inner-headerPad)

	headerStyle := columnHeaderStyle
	switch {
	case dragging && over.Kind == board.TargetColumn && over.Column == col.cfg.ID:
		headerStyle = hoverColumnHeaderStyle
	case colIdx == b.activeCol:
		headerStyle = activeColumnHeaderStyle
	}
	parts := []string{headerStyle.Width(inner).Render(headerText)}

	if len(col.tasks) == 0 {
		parts = append(parts, dimStyle.Width(inner).Render("  (empty)"))
	}
	for row := start; row < end; row++ {
		t := col.tasks[row]
		if row > start {
			parts = append(parts, "")
		}
		parts = append(parts, b.renderCard(t, b.cardStyle(t, colIdx, row, over, dragging), inner))
	}

	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (b *Board) cardStyle(t *task.Task, colIdx, row int, over board.DropTarget, dragging bool) lipgloss.Style {
	switch {
	case b.interp.Subject() == t.ID:
		return dragCardStyle
	case dragging && over.Kind == board.TargetTask && over.TaskID == t.ID:
		return hoverCardStyle
	case colIdx == b.activeCol && row == b.activeRow:
		return activeCardStyle
	default:
		return cardStyle
	}
}

// renderCard draws a fixed-height card so screen rows line up with the
// gesture grid.
func (b *Board) renderCard(t *task.Task, style lipgloss.Style, width int) string {
	const cardChrome = 4 // border (2) + padding (2)
	cw := max(width-cardChrome, 1)

	title := truncate(fmt.Sprintf("#%d %s", t.ID, t.Title), cw)

	var meta []string
	if t.Client != "" {
		meta = append(meta, dimStyle.Render(truncate(t.Client, cw/2))) //nolint:mnd // client takes at most half
	}
	if t.Tag != "" {
		meta = append(meta, b.tagStyle(t.Tag).Render(t.Tag))
	}

	due := board.Due(t, b.now())
	dueText := dimStyle.Render("no deadline")
	if due.Text != "" {
		st, ok := urgencyStyles[due.Urgency]
		if !ok {
			st = lipgloss.NewStyle()
		}
		dueText = st.Render(due.Text)
	}
	pay := paymentStyles[t.Payment].Render(string(t.Payment))
	status := dueText
	if lipgloss.Width(dueText)+1+lipgloss.Width(pay) <= cw {
		status += strings.Repeat(" ", cw-lipgloss.Width(dueText)-lipgloss.Width(pay)) + pay
	}

	content := strings.Join([]string{title, strings.Join(meta, " "), status}, "\n")
	return style.Width(width - 2).Height(cardLines - 2).Render(content) //nolint:mnd // border width
}

func (b *Board) renderStatusBar() string {
	var left string
	if b.interp.State() == gesture.Idle {
		left = fmt.Sprintf(" %s | %d tasks | ", b.cfg.Board.Name, b.total) + b.help.View(b.keys)
	} else {
		left = fmt.Sprintf(" dragging #%d | ", b.interp.Subject()) + b.help.View(dragKeys{b.keys})
	}
	if b.status != "" {
		left += " | " + b.status
	}
	status := statusBarStyle.MaxWidth(b.width).Render(left)

	if b.err != nil {
		return errorStyle.Render(truncate("Error: "+b.err.Error(), b.width)) + "\n" + status
	}
	return status
}

func (b *Board) viewDetail() string {
	t, ok := b.store.Task(b.detailID)
	if !ok {
		return dialogStyle.Render(errorStyle.Render(fmt.Sprintf("Task #%d is gone.", b.detailID)))
	}
	var sb strings.Builder
	output.TaskDetail(&sb, t, b.cfg, b.now(), b.width-6) //nolint:mnd // dialog chrome
	sb.WriteString("\n" + dimStyle.Render("esc:back"))
	return dialogStyle.Render(sb.String())
}

func (b *Board) viewComment() string {
	t, ok := b.store.Task(b.detailID)
	title := fmt.Sprintf("Comment on #%d", b.detailID)
	if ok {
		title += ": " + t.Title
	}
	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n" +
		b.input.View() + "\n\n" +
		dimStyle.Render("enter:save  esc:cancel")
	return dialogStyle.Render(content)
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	target := min(maxLen-3, len(runes)) //nolint:mnd // room for "..."
	for target > 0 && lipgloss.Width(string(runes[:target])) > maxLen-3 {
		target--
	}
	return string(runes[:target]) + "..."
}
