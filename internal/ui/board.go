package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/pharmaops/shiftcheck/internal/schedule"
)

// BoardRow is one resolved task on the status board.
type BoardRow struct {
	ID          string
	Title       string
	DueTime     string
	Status      schedule.Status
	CompletedBy []string
	Warnings    []string
}

// RenderBoard renders the checklist board for one viewing date. The
// position label is "all positions" for the aggregated view.
func RenderBoard(date time.Time, positionLabel string, rows []BoardRow) string {
	var sb strings.Builder

	title := fmt.Sprintf("Checklist for %s", date.Format("Mon, 2 Jan 2006"))
	sb.WriteString(StyleHeader.Render(title))
	sb.WriteString("\n")
	sb.WriteString(" " + StyleSubtle.Render(positionLabel) + "\n\n")

	if len(rows) == 0 {
		sb.WriteString(" " + StyleSubtle.Render("Nothing on the board for this date.") + "\n")
		return sb.String()
	}

	tbl := Table{
		Headers: []string{"ID", "Task", "Due", "Status", "Done By"},
		RowStyle: func(r int) lipgloss.Style {
			return StatusStyle(rows[r].Status)
		},
	}
	for _, row := range rows {
		tbl.Rows = append(tbl.Rows, []string{
			TruncateID(row.ID),
			Truncate(row.Title, 48),
			row.DueTime,
			row.Status.String(),
			strings.Join(row.CompletedBy, ", "),
		})
	}
	sb.WriteString(tbl.Render())

	if warnings := collectWarnings(rows); len(warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(RenderWarningPanel("Schedule warnings", strings.Join(warnings, "\n")))
		sb.WriteString("\n")
	}

	sb.WriteString("\n " + renderSummary(rows) + "\n")
	return sb.String()
}

func collectWarnings(rows []BoardRow) []string {
	var out []string
	for _, row := range rows {
		for _, w := range row.Warnings {
			out = append(out, fmt.Sprintf("%s: %s", Truncate(row.Title, 32), w))
		}
	}
	return out
}

func renderSummary(rows []BoardRow) string {
	counts := map[schedule.Status]int{}
	for _, row := range rows {
		counts[row.Status]++
	}
	order := []schedule.Status{
		schedule.StatusMissed,
		schedule.StatusOverdue,
		schedule.StatusDueToday,
		schedule.StatusNotDueYet,
		schedule.StatusCompleted,
	}
	var parts []string
	for _, s := range order {
		if n := counts[s]; n > 0 {
			parts = append(parts, StatusStyle(s).Render(fmt.Sprintf("%d %s", n, s)))
		}
	}
	if len(parts) == 0 {
		return StyleSubtle.Render("no visible tasks")
	}
	return strings.Join(parts, StyleSubtle.Render(" · "))
}
