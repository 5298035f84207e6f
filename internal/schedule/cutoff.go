package schedule

import (
	"fmt"
	"time"

	"github.com/pharmaops/shiftcheck/models"
)

// EndOfDayMinutes is the lock time of day for every auto-locking family.
const EndOfDayMinutes = 23*60 + 59

// Cutoff is the boundary set computed for one (task, recurrence code) pair:
// when the instance appears, when it is due, when it locks into "missed",
// and over which dates a completion keeps displaying as completed.
type Cutoff struct {
	Code models.RecurrenceCode

	Appearance time.Time
	Due        time.Time
	// DueTime is minutes since midnight on the due date.
	DueTime int

	// LockDate nil means the instance never auto-locks: it stays overdue
	// until completed. Designed behavior for once-off tasks.
	LockDate *time.Time
	LockTime int

	CarryStart time.Time
	// CarryEnd nil means the completion never expires.
	CarryEnd *time.Time

	// Degraded marks a cutoff computed without complete holiday data or
	// from malformed input; Warnings says what was missing. Callers and
	// tests assert on these instead of scraping log output.
	Degraded bool
	Warnings []string
}

// DueMoment is the instant the instance becomes overdue.
func (c Cutoff) DueMoment(loc *time.Location) time.Time {
	return atMinutes(c.Due, c.DueTime, loc)
}

// LockMoment is the instant the instance becomes missed, or nil when it
// never auto-locks.
func (c Cutoff) LockMoment(loc *time.Location) *time.Time {
	if c.LockDate == nil {
		return nil
	}
	m := atMinutes(*c.LockDate, c.LockTime, loc)
	return &m
}

func atMinutes(date time.Time, minutes int, loc *time.Location) time.Time {
	y, m, d := date.In(loc).Date()
	return time.Date(y, m, d, minutes/60, minutes%60, 0, 0, loc)
}

// ComputeCutoffs evaluates one recurrence code against a nominal instance
// date. dueDate is the explicit override (required for once-off, ignored
// otherwise); dueTime is HH:MM, empty for the default. The function never
// fails: malformed input degrades to a defensive cutoff with warnings.
func ComputeCutoffs(cal *Calendar, instanceDate time.Time, code models.RecurrenceCode, dueDate *time.Time, dueTime string) Cutoff {
	k := &cutoffCalc{cal: cal}
	d := cal.Date(instanceDate)

	dueMin, err := models.ParseDueTime(dueTime)
	if err != nil {
		dueMin = models.DefaultDueTimeMinutes
		k.warnf("unparseable due time %q, using default", dueTime)
	}

	var co Cutoff
	switch {
	case code.IsOnceOff():
		co = k.onceOff(d, dueDate)
	case code == models.RecurrenceEveryDay:
		co = singleDay(d)
	case code == models.RecurrenceOnceWeekly:
		co = k.onceWeekly(d)
	case isWeekdayCode(code):
		co = k.specificWeekday(d, code)
	case code == models.RecurrenceOnceMonthly:
		co = k.onceMonthly(d)
	case code.IsStartOfMonth():
		co = k.startOfMonth(d, code)
	case code.IsEndOfMonth():
		co = k.endOfMonth(d, code)
	default:
		k.warnf("unrecognized recurrence code %q, using single-day cutoff", code)
		co = singleDay(d)
	}

	co.Code = code
	co.DueTime = dueMin
	k.checkLoaded(co)
	co.Degraded = k.degraded
	co.Warnings = k.warnings
	return co
}

// CutoffsFor computes the cutoff of every recurrence code a task carries,
// anchored at the given instance date.
func CutoffsFor(cal *Calendar, task *models.TaskDefinition, instanceDate time.Time) []Cutoff {
	out := make([]Cutoff, 0, len(task.RecurrenceCodes))
	for _, code := range task.RecurrenceCodes {
		out = append(out, ComputeCutoffs(cal, instanceDate, code, task.DueDateOverride, task.DueTime))
	}
	return out
}

type cutoffCalc struct {
	cal      *Calendar
	degraded bool
	warnings []string
}

func (k *cutoffCalc) warnf(format string, args ...any) {
	k.degraded = true
	k.warnings = append(k.warnings, fmt.Sprintf(format, args...))
}

// checkLoaded flags the cutoff degraded when any touched year lacks
// holiday data. The business-day math above already ran treating those
// years as holiday-free (soft-fail per the concurrency contract).
func (k *cutoffCalc) checkLoaded(co Cutoff) {
	years := map[int]bool{co.Appearance.Year(): true, co.Due.Year(): true, co.CarryStart.Year(): true}
	if co.LockDate != nil {
		years[co.LockDate.Year()] = true
	}
	if co.CarryEnd != nil {
		years[co.CarryEnd.Year()] = true
	}
	for y := range years {
		if !k.cal.Loaded(y) {
			k.warnf("holiday data for %d not loaded, business-day adjustments skipped", y)
			return
		}
	}
}

func singleDay(d time.Time) Cutoff {
	lock := d
	end := d
	return Cutoff{
		Appearance: d,
		Due:        d,
		LockDate:   &lock,
		LockTime:   EndOfDayMinutes,
		CarryStart: d,
		CarryEnd:   &end,
	}
}

func (k *cutoffCalc) onceOff(d time.Time, dueDate *time.Time) Cutoff {
	due := d
	if dueDate != nil {
		due = k.cal.Date(*dueDate)
	} else {
		k.warnf("once-off recurrence missing due date, using instance date")
	}
	appearance := d
	if due.Before(appearance) {
		appearance = due
	}
	return Cutoff{
		Appearance: appearance,
		Due:        due,
		CarryStart: appearance,
	}
}

func (k *cutoffCalc) onceWeekly(d time.Time) Cutoff {
	appearance := k.cal.FirstBusinessDayOfWeek(d)
	due := k.cal.LastBusinessDayOfWeek(d)
	lock := due
	end := due
	return Cutoff{
		Appearance: appearance,
		Due:        due,
		LockDate:   &lock,
		LockTime:   EndOfDayMinutes,
		CarryStart: appearance,
		CarryEnd:   &end,
	}
}

func isWeekdayCode(code models.RecurrenceCode) bool {
	_, ok := code.Weekday()
	return ok
}

// specificWeekday targets one weekday in the instance's week. When the
// target is a holiday, Monday shifts forward to the next business day;
// Tuesday through Saturday first try shifting backward within the week and
// only shift forward when no earlier business day exists.
func (k *cutoffCalc) specificWeekday(d time.Time, code models.RecurrenceCode) Cutoff {
	wd, _ := code.Weekday()
	mon := k.cal.WeekMonday(d)
	target := mon.AddDate(0, 0, int(wd)-int(time.Monday))

	if !k.cal.IsBusinessDay(target) {
		shifted := time.Time{}
		if wd != time.Monday {
			for back := target.AddDate(0, 0, -1); !back.Before(mon); back = back.AddDate(0, 0, -1) {
				if k.cal.IsBusinessDay(back) {
					shifted = back
					break
				}
			}
		}
		if shifted.IsZero() {
			shifted = k.cal.NextBusinessDay(target)
		}
		target = shifted
	}

	lock := k.cal.LastBusinessDayOfWeek(d)
	end := lock
	return Cutoff{
		Appearance: target,
		Due:        target,
		LockDate:   &lock,
		LockTime:   EndOfDayMinutes,
		CarryStart: target,
		CarryEnd:   &end,
	}
}

func (k *cutoffCalc) onceMonthly(d time.Time) Cutoff {
	appearance := k.cal.FirstBusinessDayOfMonth(d.Year(), d.Month())
	due := k.cal.LastSaturdayOfMonth(d.Year(), d.Month())
	lock := due
	end := due
	return Cutoff{
		Appearance: appearance,
		Due:        due,
		LockDate:   &lock,
		LockTime:   EndOfDayMinutes,
		CarryStart: appearance,
		CarryEnd:   &end,
	}
}

// anchorMonth resolves the month a month-family code applies to: the named
// month for month-specific codes, anchored in the instance date's year,
// else the instance date's own month.
func anchorMonth(d time.Time, code models.RecurrenceCode) (int, time.Month) {
	if m, ok := code.Month(); ok {
		return d.Year(), m
	}
	return d.Year(), d.Month()
}

func (k *cutoffCalc) startOfMonth(d time.Time, code models.RecurrenceCode) Cutoff {
	year, month := anchorMonth(d, code)
	appearance := k.cal.FirstBusinessDayOfMonth(year, month)
	due := k.cal.AddBusinessDays(appearance, 5)
	lock := k.cal.LastSaturdayOfMonth(year, month)
	end := lock
	return Cutoff{
		Appearance: appearance,
		Due:        due,
		LockDate:   &lock,
		LockTime:   EndOfDayMinutes,
		CarryStart: appearance,
		CarryEnd:   &end,
	}
}

// endOfMonth schedules the month-end block: due on the adjusted last
// Saturday, appearing on the Monday that begins the final week holding at
// least five business days up to the due date.
func (k *cutoffCalc) endOfMonth(d time.Time, code models.RecurrenceCode) Cutoff {
	year, month := anchorMonth(d, code)
	due := k.cal.LastSaturdayOfMonth(year, month)

	appearance := k.cal.WeekMonday(due)
	// bounded walk so a pathological all-holiday calendar cannot spin
	for i := 0; i < 6 && k.cal.BusinessDaysBetween(appearance, due) < 5; i++ {
		appearance = appearance.AddDate(0, 0, -7)
	}

	end := k.cal.WeekSaturday(appearance)
	if due.Before(end) {
		end = due
	}
	lock := due
	return Cutoff{
		Appearance: appearance,
		Due:        due,
		LockDate:   &lock,
		LockTime:   EndOfDayMinutes,
		CarryStart: appearance,
		CarryEnd:   &end,
	}
}
