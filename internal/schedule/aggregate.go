package schedule

import (
	"time"

	"github.com/pharmaops/shiftcheck/models"
)

// View is the vantage point a status is computed for: one position, or the
// administrator's unfiltered all-positions board.
type View struct {
	Position     string
	AllPositions bool
}

// PositionView scopes resolution to one responsibility.
func PositionView(position string) View {
	return View{Position: position}
}

// AllView is the administrator's cross-position vantage point.
func AllView() View {
	return View{AllPositions: true}
}

// EffectiveStatus reconciles independent per-position completions into one
// display status.
//
// Single-position view: the matching position's completion feeds the
// resolver; no match resolves uncompleted.
//
// All-positions view: the task is completed if any position's completion
// is still inside its own carry window. One stale completion among several
// never forces completed, and one valid completion suffices even when
// other positions never completed.
func EffectiveStatus(cal *Calendar, task *models.TaskDefinition, inst models.TaskInstance, asOf, viewingDate time.Time, view View) Status {
	if !view.AllPositions {
		pc := inst.Completion.ForPosition(view.Position)
		if pc == nil || !pc.IsCompleted {
			pc = nil
		}
		return Resolve(cal, task, inst, asOf, viewingDate, pc)
	}

	for _, pc := range inst.Completion.Completed() {
		if Resolve(cal, task, inst, asOf, viewingDate, &pc) == StatusCompleted {
			return StatusCompleted
		}
	}
	return Resolve(cal, task, inst, asOf, viewingDate, nil)
}

// CompletedPositions lists the positions whose completion is still valid
// at the viewing date. Display-side concern: the board collapses several
// simultaneous completions into one badge plus this list.
func CompletedPositions(cal *Calendar, task *models.TaskDefinition, inst models.TaskInstance, asOf, viewingDate time.Time) []string {
	var out []string
	for _, pc := range inst.Completion.Completed() {
		if Resolve(cal, task, inst, asOf, viewingDate, &pc) == StatusCompleted {
			out = append(out, pc.PositionName)
		}
	}
	return out
}
