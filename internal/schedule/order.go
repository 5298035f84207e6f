package schedule

import (
	"sort"
	"strings"
	"time"

	"github.com/pharmaops/shiftcheck/models"
)

// frequencyRank is the fixed priority of each recurrence family for
// default ordering: once-off first, then daily, weekly, the specific
// weekdays in day order, monthly, the start-of-month variants, and the
// end-of-month variants last.
var frequencyRank = buildFrequencyRank()

func buildFrequencyRank() map[models.RecurrenceCode]int {
	ranks := make(map[models.RecurrenceCode]int)
	for i, code := range models.KnownRecurrenceCodes() {
		ranks[code] = i
	}
	return ranks
}

// unrankedFrequency sorts unknown codes after the whole vocabulary.
var unrankedFrequency = len(models.KnownRecurrenceCodes())

// FrequencyRank returns a task's best (lowest) rank across its codes.
func FrequencyRank(task *models.TaskDefinition) int {
	best := unrankedFrequency
	for _, code := range task.RecurrenceCodes {
		if r, ok := frequencyRank[code]; ok && r < best {
			best = r
		}
	}
	return best
}

// PositionOrder maps position names to their external display priority;
// lower sorts first. Positions absent from the map sort after ranked ones.
type PositionOrder map[string]int

func (p PositionOrder) rank(task *models.TaskDefinition) int {
	if len(task.Responsibilities) == 0 {
		return len(p) + 1
	}
	if r, ok := p[task.Responsibilities[0]]; ok {
		return r
	}
	return len(p)
}

// Compare is the deterministic display order for two tasks: administrator
// custom order when assigned, else due time, frequency rank, the first
// responsibility's display priority, then description case-insensitively.
// Returns -1, 0 or 1.
func Compare(a, b *models.TaskDefinition, positions PositionOrder) int {
	aCustom, bCustom := a.HasCustomOrder(), b.HasCustomOrder()
	switch {
	case aCustom && bCustom:
		if c := cmpInt(a.CustomOrder, b.CustomOrder); c != 0 {
			return c
		}
	case aCustom:
		return -1
	case bCustom:
		return 1
	}

	if c := cmpInt(a.DueTimeMinutes(), b.DueTimeMinutes()); c != 0 {
		return c
	}
	if c := cmpInt(FrequencyRank(a), FrequencyRank(b)); c != 0 {
		return c
	}
	if c := cmpInt(positions.rank(a), positions.rank(b)); c != 0 {
		return c
	}
	if c := strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description)); c != 0 {
		return c
	}
	// Tiebreakers keeping the order total.
	if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
		return c
	}
	return strings.Compare(a.ID, b.ID)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortTasks orders a slice in place per Compare. Stable so equal tasks
// keep their incoming order.
func SortTasks(tasks []models.TaskDefinition, positions PositionOrder) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Compare(&tasks[i], &tasks[j], positions) < 0
	})
}

// NextOccurrenceHint renders a short human hint for when a task is next
// due, e.g. "due Thu, 4 Oct". Used by the board view.
func NextOccurrenceHint(cal *Calendar, task *models.TaskDefinition, instanceDate time.Time) string {
	cutoffs := CutoffsFor(cal, task, instanceDate)
	if len(cutoffs) == 0 {
		return ""
	}
	due := cutoffs[0].Due
	for _, co := range cutoffs[1:] {
		if co.Due.Before(due) {
			due = co.Due
		}
	}
	return "due " + due.Format("Mon, 2 Jan")
}
