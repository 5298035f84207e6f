package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/pharmaops/shiftcheck/internal/schedule"
)

func TestTable_ColumnWidths(t *testing.T) {
	tbl := Table{
		Headers: []string{"ID", "Task"},
		Rows: [][]string{
			{"12345678", "Check fridge temperatures"},
			{"abc", "Balance till"},
		},
	}
	widths := tbl.ColumnWidths()
	if widths[0] != 8 {
		t.Errorf("widths[0] = %d, want 8", widths[0])
	}
	if widths[1] != len("Check fridge temperatures") {
		t.Errorf("widths[1] = %d, want %d", widths[1], len("Check fridge temperatures"))
	}

	tbl.MaxWidth = 10
	widths = tbl.ColumnWidths()
	if widths[1] != 10 {
		t.Errorf("constrained widths[1] = %d, want 10", widths[1])
	}
}

func TestTable_RenderTruncates(t *testing.T) {
	tbl := Table{
		Headers:  []string{"Task"},
		Rows:     [][]string{{"Check the emergency trolley seals"}},
		MaxWidth: 10,
	}
	out := tbl.Render()
	if !strings.Contains(out, "…") {
		t.Errorf("Render() = %q, want truncated cell with ellipsis", out)
	}
}

func TestTruncateID(t *testing.T) {
	if got := TruncateID("11111111-1111-4111-8111-111111111111"); got != "11111111" {
		t.Errorf("TruncateID() = %q, want %q", got, "11111111")
	}
	if got := TruncateID("abc"); got != "abc" {
		t.Errorf("TruncateID() = %q, want %q", got, "abc")
	}
}

func TestRenderBoard(t *testing.T) {
	date := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)
	rows := []BoardRow{
		{ID: "11111111-aaaa", Title: "Balance till", DueTime: "09:00", Status: schedule.StatusOverdue},
		{ID: "22222222-bbbb", Title: "Check fridge", DueTime: "17:00", Status: schedule.StatusCompleted, CompletedBy: []string{"Thandi"}},
	}
	out := RenderBoard(date, "dispensary", rows)

	for _, want := range []string{"Tue, 6 Jan 2026", "dispensary", "Balance till", "overdue", "Thandi", "1 completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderBoard() missing %q in output:\n%s", want, out)
		}
	}
}

func TestRenderBoard_Empty(t *testing.T) {
	out := RenderBoard(time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC), "all positions", nil)
	if !strings.Contains(out, "Nothing on the board") {
		t.Errorf("RenderBoard() = %q, want empty-board message", out)
	}
}
