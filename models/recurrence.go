package models

import (
	"strings"
	"time"
)

// RecurrenceCode identifies how often and when a task instance appears.
// A task may carry several codes at once; the engine evaluates each and
// keeps the most severe resulting status.
type RecurrenceCode string

const (
	RecurrenceOnceOff       RecurrenceCode = "once_off"
	RecurrenceOnceOffSticky RecurrenceCode = "once_off_sticky"
	RecurrenceEveryDay      RecurrenceCode = "every_day"
	RecurrenceOnceWeekly    RecurrenceCode = "once_weekly"

	RecurrenceMonday    RecurrenceCode = "monday"
	RecurrenceTuesday   RecurrenceCode = "tuesday"
	RecurrenceWednesday RecurrenceCode = "wednesday"
	RecurrenceThursday  RecurrenceCode = "thursday"
	RecurrenceFriday    RecurrenceCode = "friday"
	RecurrenceSaturday  RecurrenceCode = "saturday"

	RecurrenceOnceMonthly RecurrenceCode = "once_monthly"

	RecurrenceStartOfEveryMonth RecurrenceCode = "start_of_every_month"
	RecurrenceEndOfEveryMonth   RecurrenceCode = "end_of_every_month"
)

const (
	startOfMonthPrefix = "start_of_month_"
	endOfMonthPrefix   = "end_of_month_"
)

var weekdayCodes = map[RecurrenceCode]time.Weekday{
	RecurrenceMonday:    time.Monday,
	RecurrenceTuesday:   time.Tuesday,
	RecurrenceWednesday: time.Wednesday,
	RecurrenceThursday:  time.Thursday,
	RecurrenceFriday:    time.Friday,
	RecurrenceSaturday:  time.Saturday,
}

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// StartOfMonth returns the code for the named month, e.g. start_of_month_jan.
func StartOfMonth(m time.Month) RecurrenceCode {
	return RecurrenceCode(startOfMonthPrefix + monthAbbrev(m))
}

// EndOfMonth returns the code for the named month, e.g. end_of_month_jun.
func EndOfMonth(m time.Month) RecurrenceCode {
	return RecurrenceCode(endOfMonthPrefix + monthAbbrev(m))
}

func monthAbbrev(m time.Month) string {
	return strings.ToLower(m.String()[:3])
}

// Weekday reports the target weekday for specific-weekday codes.
func (c RecurrenceCode) Weekday() (time.Weekday, bool) {
	wd, ok := weekdayCodes[c]
	return wd, ok
}

// Month reports the anchor month for month-specific start/end codes.
func (c RecurrenceCode) Month() (time.Month, bool) {
	s := string(c)
	var abbrev string
	switch {
	case strings.HasPrefix(s, startOfMonthPrefix):
		abbrev = strings.TrimPrefix(s, startOfMonthPrefix)
	case strings.HasPrefix(s, endOfMonthPrefix):
		abbrev = strings.TrimPrefix(s, endOfMonthPrefix)
	default:
		return 0, false
	}
	m, ok := monthAbbrevs[abbrev]
	return m, ok
}

// IsStartOfMonth reports whether the code belongs to the start-of-month family.
func (c RecurrenceCode) IsStartOfMonth() bool {
	return c == RecurrenceStartOfEveryMonth || strings.HasPrefix(string(c), startOfMonthPrefix)
}

// IsEndOfMonth reports whether the code belongs to the end-of-month family.
func (c RecurrenceCode) IsEndOfMonth() bool {
	return c == RecurrenceEndOfEveryMonth || strings.HasPrefix(string(c), endOfMonthPrefix)
}

// IsOnceOff reports whether the code is one of the once-off variants.
func (c RecurrenceCode) IsOnceOff() bool {
	return c == RecurrenceOnceOff || c == RecurrenceOnceOffSticky
}

// Known reports whether the code belongs to the recurrence vocabulary.
// Unknown codes are not an error; the cutoff calculator degrades them to a
// single-day default.
func (c RecurrenceCode) Known() bool {
	switch c {
	case RecurrenceOnceOff, RecurrenceOnceOffSticky, RecurrenceEveryDay,
		RecurrenceOnceWeekly, RecurrenceOnceMonthly,
		RecurrenceStartOfEveryMonth, RecurrenceEndOfEveryMonth:
		return true
	}
	if _, ok := c.Weekday(); ok {
		return true
	}
	if _, ok := c.Month(); ok {
		return true
	}
	return false
}

// KnownRecurrenceCodes lists the full vocabulary in rank order (see the
// ordering policy in internal/schedule).
func KnownRecurrenceCodes() []RecurrenceCode {
	codes := []RecurrenceCode{
		RecurrenceOnceOff, RecurrenceOnceOffSticky, RecurrenceEveryDay,
		RecurrenceOnceWeekly,
		RecurrenceMonday, RecurrenceTuesday, RecurrenceWednesday,
		RecurrenceThursday, RecurrenceFriday, RecurrenceSaturday,
		RecurrenceOnceMonthly, RecurrenceStartOfEveryMonth,
	}
	for m := time.January; m <= time.December; m++ {
		codes = append(codes, StartOfMonth(m))
	}
	codes = append(codes, RecurrenceEndOfEveryMonth)
	for m := time.January; m <= time.December; m++ {
		codes = append(codes, EndOfMonth(m))
	}
	return codes
}
