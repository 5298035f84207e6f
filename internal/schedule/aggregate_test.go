package schedule

import (
	"testing"
	"time"

	"github.com/pharmaops/shiftcheck/models"
)

func sharedTask() *models.TaskDefinition {
	task := testTask(models.RecurrenceEveryDay)
	task.Responsibilities = []string{"dispensary", "front-shop"}
	return task
}

// Scenario: position A completes, position B does not. All-positions view
// shows completed; B's filtered view resolves as uncompleted.
func TestEffectiveStatus_SharedTask(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := sharedTask()
	day := date(2026, time.January, 6)
	doneAt := at(day, 8, 0)
	inst := models.TaskInstance{
		InstanceDate: day,
		Completion: &models.CompletionRecord{
			Positions: []models.PositionCompletion{
				{PositionName: "dispensary", CompletedBy: "s.naidoo", CompletedAtUTC: &doneAt, IsCompleted: true},
				{PositionName: "front-shop", IsCompleted: false},
			},
		},
	}
	asOf := at(day, 18, 0) // past the default 17:00 due time

	tests := []struct {
		name string
		view View
		want Status
	}{
		{"all positions", AllView(), StatusCompleted},
		{"completing position", PositionView("dispensary"), StatusCompleted},
		{"non-completing position", PositionView("front-shop"), StatusOverdue},
		{"unknown position", PositionView("stock-room"), StatusOverdue},
	}
	for _, tt := range tests {
		if got := EffectiveStatus(cal, task, inst, asOf, day, tt.view); got != tt.want {
			t.Errorf("%s: EffectiveStatus = %s, want %s", tt.name, got, tt.want)
		}
	}
}

// One stale completion among several does not force completed; the board
// resolves the task as a fresh instance instead.
func TestEffectiveStatus_StaleCompletionIgnored(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := sharedTask()
	lastWeek := at(date(2025, time.December, 30), 9, 0)
	day := date(2026, time.January, 6)
	inst := models.TaskInstance{
		InstanceDate: day,
		Completion: &models.CompletionRecord{
			Positions: []models.PositionCompletion{
				{PositionName: "dispensary", CompletedAtUTC: &lastWeek, IsCompleted: true},
			},
		},
	}

	if got := EffectiveStatus(cal, task, inst, at(day, 8, 0), day, AllView()); got != StatusDueToday {
		t.Errorf("EffectiveStatus = %s, want due_today (stale completion discarded)", got)
	}
}

func TestEffectiveStatus_NoCompletions(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := sharedTask()
	day := date(2026, time.January, 6)
	inst := models.TaskInstance{InstanceDate: day}

	if got := EffectiveStatus(cal, task, inst, at(day, 8, 0), day, AllView()); got != StatusDueToday {
		t.Errorf("EffectiveStatus = %s, want due_today", got)
	}
}

func TestCompletedPositions(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := sharedTask()
	day := date(2026, time.January, 6)
	fresh := at(day, 8, 0)
	stale := at(date(2025, time.December, 30), 9, 0)
	inst := models.TaskInstance{
		InstanceDate: day,
		Completion: &models.CompletionRecord{
			Positions: []models.PositionCompletion{
				{PositionName: "dispensary", CompletedAtUTC: &fresh, IsCompleted: true},
				{PositionName: "front-shop", CompletedAtUTC: &stale, IsCompleted: true},
			},
		},
	}

	got := CompletedPositions(cal, task, inst, at(day, 9, 0), day)
	if len(got) != 1 || got[0] != "dispensary" {
		t.Errorf("CompletedPositions = %v, want [dispensary]", got)
	}
}
