package schedule

import (
	"testing"
	"time"

	"github.com/pharmaops/shiftcheck/models"
)

func testTask(codes ...models.RecurrenceCode) *models.TaskDefinition {
	created := date(2025, time.June, 1)
	return &models.TaskDefinition{
		ID:               "11111111-1111-4111-8111-111111111111",
		Title:            "Check fridge temperatures",
		Responsibilities: []string{"dispensary"},
		RecurrenceCodes:  codes,
		CustomOrder:      models.CustomOrderUnset,
		CreatedAt:        created,
		UpdatedAt:        created,
	}
}

func instanceOn(d time.Time) models.TaskInstance {
	return models.TaskInstance{InstanceDate: d}
}

func completedAt(position string, at time.Time) *models.PositionCompletion {
	return &models.PositionCompletion{
		PositionName:   position,
		CompletedBy:    "s.naidoo",
		CompletedAtUTC: &at,
		IsCompleted:    true,
	}
}

func at(d time.Time, hour, min int) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, time.UTC)
}

func TestResolve_VisibilityWindow(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceEveryDay)
	end := date(2026, time.January, 31)
	task.VisibilityEnd = &end

	tests := []struct {
		name    string
		viewing time.Time
		want    Status
	}{
		{"before creation", date(2025, time.May, 1), StatusNotVisible},
		{"after visibility end", date(2026, time.February, 2), StatusNotVisible},
		{"inside window", date(2026, time.January, 6), StatusDueToday},
	}
	for _, tt := range tests {
		inst := instanceOn(tt.viewing)
		if got := Resolve(cal, task, inst, at(tt.viewing, 8, 0), tt.viewing, nil); got != tt.want {
			t.Errorf("%s: Resolve = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestResolve_DueTodayTimeOfDay(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceEveryDay)
	task.DueTime = "09:00"
	day := date(2026, time.January, 6)
	inst := instanceOn(day)

	tests := []struct {
		name string
		asOf time.Time
		want Status
	}{
		{"before due time", at(day, 8, 30), StatusDueToday},
		{"at due time", at(day, 9, 0), StatusOverdue},
		{"after due time", at(day, 16, 0), StatusOverdue},
		{"at lock time", at(day, 23, 59), StatusMissed},
	}
	for _, tt := range tests {
		if got := Resolve(cal, task, inst, tt.asOf, day, nil); got != tt.want {
			t.Errorf("%s: Resolve = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestResolve_NonTodayVantageIgnoresTimeOfDay(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceEveryDay)
	task.DueTime = "09:00"
	day := date(2026, time.January, 6)

	// Looking at tomorrow's instance from today: due_today regardless of clock.
	asOf := at(date(2026, time.January, 5), 18, 0)
	if got := Resolve(cal, task, instanceOn(day), asOf, day, nil); got != StatusDueToday {
		t.Errorf("Resolve = %s, want due_today", got)
	}
}

// Scenario: daily task due 09:00 completed at 08:00. Today shows completed;
// tomorrow is a fresh cycle that has not started yet.
func TestResolve_DailyCompletionCarry(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceEveryDay)
	task.DueTime = "09:00"
	day := date(2026, time.January, 6)
	inst := instanceOn(day)
	done := completedAt("dispensary", at(day, 8, 0))

	if got := Resolve(cal, task, inst, at(day, 8, 30), day, done); got != StatusCompleted {
		t.Errorf("viewing today = %s, want completed", got)
	}
	tomorrow := day.AddDate(0, 0, 1)
	if got := Resolve(cal, task, inst, at(day, 8, 30), tomorrow, done); got != StatusNotDueYet {
		t.Errorf("viewing tomorrow = %s, want not_due_yet", got)
	}
}

// Scenario: Monday-only task in a week whose Monday is a public holiday.
func TestResolve_MondayHolidayShift(t *testing.T) {
	cal := newTestCalendar(t, map[int][]string{
		2026: {"2026-01-05"},
	})
	task := testTask(models.RecurrenceMonday)
	monday := date(2026, time.January, 5)
	inst := instanceOn(monday)

	if got := Resolve(cal, task, inst, at(monday, 8, 0), monday, nil); got != StatusNotDueYet {
		t.Errorf("viewing holiday Monday = %s, want not_due_yet", got)
	}
	tuesday := date(2026, time.January, 6)
	if got := Resolve(cal, task, inst, at(tuesday, 8, 0), tuesday, nil); got != StatusDueToday {
		t.Errorf("viewing shifted Tuesday = %s, want due_today", got)
	}
}

// Scenario: once-off with a past due date sits overdue forever, never missed.
func TestResolve_OnceOffNeverMissed(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceOnceOff)
	due := date(2026, time.January, 2)
	task.DueDateOverride = &due
	inst := instanceOn(due)

	for _, viewing := range []time.Time{
		date(2026, time.January, 3),
		date(2026, time.March, 1),
		date(2026, time.December, 31),
	} {
		if got := Resolve(cal, task, inst, at(viewing, 10, 0), viewing, nil); got != StatusOverdue {
			t.Errorf("viewing %s = %s, want overdue", viewing.Format("2006-01-02"), got)
		}
	}
}

func TestResolve_OnceOffCompletionNeverExpires(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceOnceOff)
	due := date(2026, time.January, 2)
	task.DueDateOverride = &due
	inst := instanceOn(due)
	done := completedAt("dispensary", at(date(2026, time.January, 4), 11, 0))

	viewing := date(2026, time.November, 30)
	if got := Resolve(cal, task, inst, at(viewing, 10, 0), viewing, done); got != StatusCompleted {
		t.Errorf("Resolve = %s, want completed", got)
	}
}

// Carry-over round trip: weekly task completed Tuesday displays completed
// through that week's Saturday, then reopens the following Monday.
func TestResolve_WeeklyCarryRoundTrip(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceOnceWeekly)
	tuesday := date(2026, time.January, 6)
	inst := instanceOn(tuesday)
	done := completedAt("dispensary", at(tuesday, 10, 0))

	for d := tuesday; !d.After(date(2026, time.January, 10)); d = d.AddDate(0, 0, 1) {
		if got := Resolve(cal, task, inst, at(d, 12, 0), d, done); got != StatusCompleted {
			t.Errorf("viewing %s = %s, want completed", d.Format("2006-01-02"), got)
		}
	}

	monday := date(2026, time.January, 12)
	if got := Resolve(cal, task, inst, at(monday, 8, 0), monday, done); got != StatusNotDueYet {
		t.Errorf("viewing next Monday = %s, want not_due_yet (reopened cycle)", got)
	}
}

func TestResolve_WeeklyMissedAfterLock(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceOnceWeekly)
	inst := instanceOn(date(2026, time.January, 6))

	sunday := date(2026, time.January, 11)
	if got := Resolve(cal, task, inst, at(sunday, 9, 0), sunday, nil); got != StatusMissed {
		t.Errorf("viewing past lock = %s, want missed", got)
	}
	friday := date(2026, time.January, 9)
	if got := Resolve(cal, task, inst, at(friday, 9, 0), friday, nil); got != StatusNotDueYet {
		t.Errorf("viewing mid-week = %s, want not_due_yet", got)
	}
}

// A task with several recurrence codes reports the most severe status.
func TestResolve_MultipleCodesSeverity(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceMonday, models.RecurrenceOnceMonthly)
	// Tuesday: the Monday code is already past due (overdue until the week
	// locks), the monthly code is still open.
	tuesday := date(2026, time.January, 6)
	inst := instanceOn(tuesday)

	if got := Resolve(cal, task, inst, at(tuesday, 8, 0), tuesday, nil); got != StatusOverdue {
		t.Errorf("Resolve = %s, want overdue from the Monday code", got)
	}
}

// An uncompleted monthly task viewed strictly between its appearance and
// its due Saturday has simply not fallen due yet.
func TestResolve_MonthlyBetweenAppearanceAndDue(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceOnceMonthly)

	// January 2026: appearance Thu 1st, due Sat 31st.
	for _, day := range []time.Time{
		date(2026, time.January, 6),
		date(2026, time.January, 15),
		date(2026, time.January, 30),
	} {
		if got := Resolve(cal, task, instanceOn(day), at(day, 12, 0), day, nil); got != StatusNotDueYet {
			t.Errorf("viewing %s = %s, want not_due_yet", day.Format("2006-01-02"), got)
		}
	}

	due := date(2026, time.January, 31)
	if got := Resolve(cal, task, instanceOn(due), at(due, 8, 0), due, nil); got != StatusDueToday {
		t.Errorf("viewing the due Saturday = %s, want due_today", got)
	}
}

func TestResolve_EmptyRecurrenceFallsBackDueToday(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask()
	day := date(2026, time.January, 6)

	if got := Resolve(cal, task, instanceOn(day), at(day, 8, 0), day, nil); got != StatusDueToday {
		t.Errorf("Resolve = %s, want due_today fallback", got)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	cal := newTestCalendar(t, nil)
	task := testTask(models.RecurrenceOnceWeekly, models.RecurrenceEveryDay)
	day := date(2026, time.January, 6)
	inst := instanceOn(day)
	done := completedAt("dispensary", at(day, 8, 0))

	first := Resolve(cal, task, inst, at(day, 9, 0), day, done)
	for i := 0; i < 5; i++ {
		if got := Resolve(cal, task, inst, at(day, 9, 0), day, done); got != first {
			t.Fatalf("Resolve not idempotent: %s then %s", first, got)
		}
	}
}
