package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/pharmaops/shiftcheck/internal/schedule"
	"github.com/pharmaops/shiftcheck/models"
	"github.com/pharmaops/shiftcheck/store"
)

type noHolidays struct{}

func (noHolidays) Holidays(year int) ([]string, error) { return nil, nil }

func newBoardFixture(t *testing.T) (store.TaskStore, *store.CompletionStore, *schedule.Calendar) {
	t.Helper()

	GlobalAppConfig.Board.Positions = []string{"dispensary", "front-shop"}

	ts := store.NewFileTaskStore()
	err := ts.Initialize(map[string]string{
		"dataFile":       filepath.Join(t.TempDir(), "tasks.json"),
		"dataFileFormat": "json",
	})
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	t.Cleanup(func() { _ = ts.Close() })

	cs, err := store.NewCompletionStore(":memory:")
	if err != nil {
		t.Fatalf("NewCompletionStore() error = %v", err)
	}
	t.Cleanup(func() { _ = cs.Close() })

	cal := schedule.NewCalendar(time.UTC, noHolidays{})
	if err := cal.Load(2026); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return ts, cs, cal
}

func TestResolveBoard(t *testing.T) {
	ts, cs, cal := newBoardFixture(t)

	created := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	daily, err := ts.CreateTask(models.TaskDefinition{
		Title:            "Check fridge temperatures",
		Responsibilities: []string{"dispensary"},
		RecurrenceCodes:  []models.RecurrenceCode{models.RecurrenceEveryDay},
		DueTime:          "08:30",
		CreatedAt:        created,
		UpdatedAt:        created,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	future := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if _, err := ts.CreateTask(models.TaskDefinition{
		Title:            "Not yet published",
		Responsibilities: []string{"dispensary"},
		RecurrenceCodes:  []models.RecurrenceCode{models.RecurrenceEveryDay},
		StartDate:        &future,
		CreatedAt:        created,
		UpdatedAt:        created,
	}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	// Tuesday 6 Jan 2026, 09:00: the 08:30 daily task is overdue.
	asOf := time.Date(2026, time.January, 6, 9, 0, 0, 0, time.UTC)
	viewing := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)

	entries, err := resolveBoard(cal, ts, cs, asOf, viewing, schedule.AllView())
	if err != nil {
		t.Fatalf("resolveBoard() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("resolveBoard() returned %d entries, want 1 (hidden task dropped)", len(entries))
	}
	if entries[0].Status != "overdue" {
		t.Errorf("status = %q, want %q", entries[0].Status, "overdue")
	}
	if entries[0].DueTime != "08:30" {
		t.Errorf("dueTime = %q, want %q", entries[0].DueTime, "08:30")
	}

	// Complete it as the dispensary and it flips to completed with the
	// completing position listed.
	if err := cs.Record(daily.ID, "dispensary", "Thandi", asOf); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	entries, err = resolveBoard(cal, ts, cs, asOf, viewing, schedule.AllView())
	if err != nil {
		t.Fatalf("resolveBoard() error = %v", err)
	}
	if entries[0].Status != "completed" {
		t.Errorf("status after completion = %q, want %q", entries[0].Status, "completed")
	}
	if len(entries[0].CompletedBy) != 1 || entries[0].CompletedBy[0] != "dispensary" {
		t.Errorf("completedBy = %v, want [dispensary]", entries[0].CompletedBy)
	}

	// The front-shop view does not inherit the dispensary's completion.
	entries, err = resolveBoard(cal, ts, cs, asOf, viewing, schedule.PositionView("front-shop"))
	if err != nil {
		t.Fatalf("resolveBoard() error = %v", err)
	}
	if entries[0].Status != "overdue" {
		t.Errorf("front-shop status = %q, want %q", entries[0].Status, "overdue")
	}
}

func TestResolveBoard_Order(t *testing.T) {
	ts, cs, cal := newBoardFixture(t)

	created := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	mk := func(title, dueTime string, order int) {
		t.Helper()
		_, err := ts.CreateTask(models.TaskDefinition{
			Title:            title,
			Responsibilities: []string{"dispensary"},
			RecurrenceCodes:  []models.RecurrenceCode{models.RecurrenceEveryDay},
			DueTime:          dueTime,
			CustomOrder:      order,
			CreatedAt:        created,
			UpdatedAt:        created,
		})
		if err != nil {
			t.Fatalf("CreateTask(%s) error = %v", title, err)
		}
	}
	mk("Late task", "16:00", 0)
	mk("Early task", "08:00", 0)
	mk("Pinned task", "17:00", 1)

	asOf := time.Date(2026, time.January, 6, 7, 0, 0, 0, time.UTC)
	viewing := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)

	entries, err := resolveBoard(cal, ts, cs, asOf, viewing, schedule.AllView())
	if err != nil {
		t.Fatalf("resolveBoard() error = %v", err)
	}
	var titles []string
	for _, e := range entries {
		titles = append(titles, e.Title)
	}
	want := []string{"Pinned task", "Early task", "Late task"}
	for i := range want {
		if titles[i] != want[i] {
			t.Fatalf("board order = %v, want %v", titles, want)
		}
	}
}

func TestParseViewDate(t *testing.T) {
	loc := time.UTC
	now := time.Date(2026, time.January, 6, 15, 4, 5, 0, loc)

	got, err := parseViewDate("", now, loc)
	if err != nil {
		t.Fatalf("parseViewDate('') error = %v", err)
	}
	if want := time.Date(2026, time.January, 6, 0, 0, 0, 0, loc); !got.Equal(want) {
		t.Errorf("parseViewDate('') = %v, want %v", got, want)
	}

	got, err = parseViewDate("2026-02-01", now, loc)
	if err != nil {
		t.Fatalf("parseViewDate() error = %v", err)
	}
	if want := time.Date(2026, time.February, 1, 0, 0, 0, 0, loc); !got.Equal(want) {
		t.Errorf("parseViewDate() = %v, want %v", got, want)
	}

	if _, err := parseViewDate("01/02/2026", now, loc); err == nil {
		t.Error("parseViewDate() with slash date expected error, got nil")
	}
}
