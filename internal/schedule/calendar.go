// Package schedule implements the task scheduling and status resolution
// engine: business-day calendar math, per-recurrence cutoff calculation,
// status resolution with completion carry-over, cross-position completion
// aggregation, and the display ordering policy.
//
// Every function is pure over caller-supplied snapshots. The engine never
// reads the system clock; the caller passes the as-of moment explicitly.
package schedule

import (
	"time"
)

// HolidaySource supplies the public-holiday dates for a year as ISO
// yyyy-mm-dd strings. Implementations live outside the engine (a file
// store, a remote API cache); the engine only reads.
type HolidaySource interface {
	Holidays(year int) ([]string, error)
}

const isoDate = "2006-01-02"

// Calendar answers business-day questions for the loaded years. Load must
// be called for every year a computation touches before that computation
// runs; an unloaded year degrades to "no holidays" and the touching cutoff
// is flagged degraded rather than failing.
//
// Calendar is not safe for concurrent Load; load everything up front, then
// share freely for reads.
type Calendar struct {
	loc      *time.Location
	src      HolidaySource
	holidays map[string]bool
	loaded   map[int]bool
}

// NewCalendar returns a calendar in the given civil timezone. src may be
// nil, in which case every year stays unloaded and holiday adjustments are
// silently omitted.
func NewCalendar(loc *time.Location, src HolidaySource) *Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return &Calendar{
		loc:      loc,
		src:      src,
		holidays: make(map[string]bool),
		loaded:   make(map[int]bool),
	}
}

// Location returns the calendar's civil timezone.
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// Load populates the holiday set for the year and its immediate neighbors,
// so month and week boundary math never reads an unloaded year. Loading an
// already-loaded year is a no-op.
func (c *Calendar) Load(year int) error {
	for y := year - 1; y <= year+1; y++ {
		if err := c.loadOne(y); err != nil {
			return err
		}
	}
	return nil
}

func (c *Calendar) loadOne(year int) error {
	if c.loaded[year] || c.src == nil {
		return nil
	}
	dates, err := c.src.Holidays(year)
	if err != nil {
		return err
	}
	for _, d := range dates {
		c.holidays[d] = true
	}
	c.loaded[year] = true
	return nil
}

// Loaded reports whether holiday data for the year is present.
func (c *Calendar) Loaded(year int) bool {
	return c.loaded[year]
}

// IsHoliday reports whether the date is a public holiday. Unloaded years
// always answer false.
func (c *Calendar) IsHoliday(d time.Time) bool {
	return c.holidays[c.Date(d).Format(isoDate)]
}

// IsBusinessDay reports whether the date is a business day: not a Sunday
// and not a public holiday. Saturdays count unless they are holidays.
func (c *Calendar) IsBusinessDay(d time.Time) bool {
	if d.In(c.loc).Weekday() == time.Sunday {
		return false
	}
	return !c.IsHoliday(d)
}

// Date normalizes a moment to midnight of its calendar date in the
// calendar's timezone.
func (c *Calendar) Date(t time.Time) time.Time {
	y, m, d := t.In(c.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, c.loc)
}

// NextBusinessDay walks forward one day at a time from d (inclusive) to
// the first business day.
func (c *Calendar) NextBusinessDay(d time.Time) time.Time {
	d = c.Date(d)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// PrevBusinessDay walks backward one day at a time from d (inclusive) to
// the first business day.
func (c *Calendar) PrevBusinessDay(d time.Time) time.Time {
	d = c.Date(d)
	for !c.IsBusinessDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// AddBusinessDays returns the date n business days after d. d itself does
// not count toward n.
func (c *Calendar) AddBusinessDays(d time.Time, n int) time.Time {
	d = c.Date(d)
	for n > 0 {
		d = d.AddDate(0, 0, 1)
		if c.IsBusinessDay(d) {
			n--
		}
	}
	return d
}

// BusinessDaysBetween counts the business days in [from, to] inclusive.
func (c *Calendar) BusinessDaysBetween(from, to time.Time) int {
	from, to = c.Date(from), c.Date(to)
	if to.Before(from) {
		return 0
	}
	n := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if c.IsBusinessDay(d) {
			n++
		}
	}
	return n
}

// WeekMonday returns the Monday that begins d's Monday-to-Saturday week.
// Sundays belong to the week that started the previous Monday.
func (c *Calendar) WeekMonday(d time.Time) time.Time {
	d = c.Date(d)
	offset := (int(d.Weekday()) + 6) % 7 // days since Monday
	return d.AddDate(0, 0, -offset)
}

// WeekSaturday returns the Saturday that ends d's Monday-to-Saturday week.
func (c *Calendar) WeekSaturday(d time.Time) time.Time {
	return c.WeekMonday(d).AddDate(0, 0, 5)
}

// FirstBusinessDayOfWeek scans d's week Monday through Saturday for the
// first business day. Falls back to the Monday if the whole week is
// holidays (degenerate, but keeps the math total).
func (c *Calendar) FirstBusinessDayOfWeek(d time.Time) time.Time {
	mon := c.WeekMonday(d)
	for i := 0; i < 6; i++ {
		day := mon.AddDate(0, 0, i)
		if c.IsBusinessDay(day) {
			return day
		}
	}
	return mon
}

// LastBusinessDayOfWeek scans d's week Saturday back through Monday for
// the last business day.
func (c *Calendar) LastBusinessDayOfWeek(d time.Time) time.Time {
	sat := c.WeekSaturday(d)
	for i := 0; i < 6; i++ {
		day := sat.AddDate(0, 0, -i)
		if c.IsBusinessDay(day) {
			return day
		}
	}
	return sat
}

// FirstBusinessDayOfMonth returns the first business day of the month.
func (c *Calendar) FirstBusinessDayOfMonth(year int, month time.Month) time.Time {
	return c.NextBusinessDay(time.Date(year, month, 1, 0, 0, 0, 0, c.loc))
}

// LastSaturdayOfMonth returns the month's final Saturday, pushed back to
// the nearest earlier business day if that Saturday is itself a holiday.
func (c *Calendar) LastSaturdayOfMonth(year int, month time.Month) time.Time {
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, c.loc) // day 0 = last of month
	for last.Weekday() != time.Saturday {
		last = last.AddDate(0, 0, -1)
	}
	if !c.IsBusinessDay(last) {
		return c.PrevBusinessDay(last)
	}
	return last
}
