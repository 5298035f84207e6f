package schedule

import (
	"time"

	"github.com/pharmaops/shiftcheck/models"
)

// Status is the display state of one task instance from one vantage point.
// The numeric order of the non-completed states is their severity order;
// when a task carries several recurrence codes the resolver reports the
// maximum. Completed short-circuits severity entirely.
type Status int

const (
	StatusNotVisible Status = iota
	StatusNotDueYet
	StatusDueToday
	StatusOverdue
	StatusMissed
	StatusCompleted
)

var statusNames = map[Status]string{
	StatusNotVisible: "not_visible",
	StatusNotDueYet:  "not_due_yet",
	StatusDueToday:   "due_today",
	StatusOverdue:    "overdue",
	StatusMissed:     "missed",
	StatusCompleted:  "completed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return "unknown"
}

// ParseStatus maps a status name back to its Status. Unknown names map
// to StatusNotVisible.
func ParseStatus(name string) Status {
	for s, n := range statusNames {
		if n == name {
			return s
		}
	}
	return StatusNotVisible
}

// Resolve computes the status of a task instance for a viewer looking at
// viewingDate with the clock reading asOf. completion is the one
// completion relevant to the viewer's context, or nil; cross-position
// reconciliation lives in EffectiveStatus.
//
// Pure: identical inputs always produce the identical status.
func Resolve(cal *Calendar, task *models.TaskDefinition, inst models.TaskInstance, asOf, viewingDate time.Time, completion *models.PositionCompletion) Status {
	viewing := cal.Date(viewingDate)

	// A task must never render before it is meant to exist.
	if viewing.Before(task.VisibilityAnchor(cal.Location())) {
		return StatusNotVisible
	}
	if task.VisibilityEnd != nil && viewing.After(cal.Date(*task.VisibilityEnd)) {
		return StatusNotVisible
	}

	if completion != nil && completion.IsCompleted {
		if s, ok := resolveCompleted(cal, task, inst, asOf, viewing, completion); ok {
			return s
		}
	}

	return resolveUncompleted(cal, task, CutoffsFor(cal, task, cal.Date(inst.InstanceDate)), asOf, viewing)
}

// resolveCompleted applies the completion short-circuit and carry-over. It
// returns ok=false when the completion does not decide the status and the
// caller should fall back to the uncompleted rules on the original anchor.
func resolveCompleted(cal *Calendar, task *models.TaskDefinition, inst models.TaskInstance, asOf, viewing time.Time, completion *models.PositionCompletion) (Status, bool) {
	completedOn := cal.Date(inst.InstanceDate)
	if completion.CompletedAtUTC != nil {
		completedOn = cal.Date(*completion.CompletedAtUTC)
	}

	// Carry windows are re-anchored at the completion's own context, so a
	// Tuesday completion of a weekly task carries through that week's
	// adjusted Saturday regardless of which date is being viewed.
	expired := true
	for _, co := range CutoffsFor(cal, task, completedOn) {
		if co.CarryEnd == nil {
			if !viewing.Before(completedOn) {
				return StatusCompleted, true
			}
			expired = false
			continue
		}
		if !viewing.Before(completedOn) && !viewing.After(*co.CarryEnd) {
			return StatusCompleted, true
		}
		if !viewing.After(*co.CarryEnd) {
			expired = false
		}
	}

	// Every carry window has lapsed: the completion is stale. Re-open as a
	// brand-new, uncompleted cycle anchored at the viewing date.
	if expired && viewing.After(completedOn) {
		s := resolveUncompleted(cal, task, CutoffsFor(cal, task, viewing), asOf, viewing)
		if s == StatusDueToday && viewing.After(cal.Date(asOf)) {
			// From today's vantage a future re-opened cycle has not begun.
			s = StatusNotDueYet
		}
		return s, true
	}
	return StatusNotVisible, false
}

func resolveUncompleted(cal *Calendar, task *models.TaskDefinition, cutoffs []Cutoff, asOf, viewing time.Time) Status {
	// Defensive default for an empty recurrence set, not a designed state.
	if len(cutoffs) == 0 {
		return StatusDueToday
	}
	best := StatusNotVisible
	for _, co := range cutoffs {
		if s := resolveCutoff(cal, co, asOf, viewing); s > best {
			best = s
		}
	}
	return best
}

func resolveCutoff(cal *Calendar, co Cutoff, asOf, viewing time.Time) Status {
	if viewing.Before(co.Appearance) {
		return StatusNotDueYet
	}

	if viewing.Equal(co.Due) {
		// Time of day only matters when the viewer is looking at "today";
		// a past or future due date is not time-of-day sensitive from a
		// remote vantage point.
		if viewing.Equal(cal.Date(asOf)) {
			if lm := co.LockMoment(cal.Location()); lm != nil && !asOf.Before(*lm) {
				return StatusMissed
			}
			if !asOf.Before(co.DueMoment(cal.Location())) {
				return StatusOverdue
			}
		}
		return StatusDueToday
	}

	if viewing.After(co.Due) {
		if co.LockDate != nil && viewing.After(*co.LockDate) {
			return StatusMissed
		}
		// No lock date means the instance never auto-misses.
		return StatusOverdue
	}

	// Appeared but not yet due.
	return StatusNotDueYet
}
