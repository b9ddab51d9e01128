package event

import (
	"sort"
	"time"
)

// timeMax is the end-of-day fallback when an event has no end time.
func endOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 999999000, time.UTC)
}

// combine merges a calendar date with a time-of-day value.
func combine(date time.Time, tod *time.Time) time.Time {
	if tod == nil {
		return dateOnly(date)
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		tod.Hour(), tod.Minute(), tod.Second(), 0, time.UTC)
}

// StartDateTime is the start of the event's first occurrence (midnight if no
// start time is set).
func (e *Event) StartDateTime() time.Time {
	return combine(e.StartDate, e.StartTime)
}

// EndDateTime is the end of the event's first occurrence (end of day if no
// end time is set).
func (e *Event) EndDateTime() time.Time {
	if e.EndTime == nil {
		return endOfDay(e.EndDate)
	}
	return combine(e.EndDate, e.EndTime)
}

// Occurrences returns the start datetimes of all occurrences of the event
// that overlap with [start, end], in ascending order. Expects start < end.
//
// An occurrence overlaps when its own start or its computed end (start plus
// the event's span) lies within the window. Non-recurring events contribute
// at most their single occurrence; recurring events are expanded per
// frequency up to min(end, recurrence end date).
func (e *Event) Occurrences(start, end time.Time) []time.Time {
	eventStart := e.StartDateTime()
	eventEnd := e.EndDateTime()
	span := eventEnd.Sub(eventStart)

	rule := e.RecurrenceRule
	if rule == nil {
		if within(start, eventStart, end) || within(start, eventEnd, end) {
			return []time.Time{eventStart}
		}
		return nil
	}

	until := end
	if rule.RecurrenceEndDate != nil {
		ruleEnd := endOfDay(*rule.RecurrenceEndDate)
		if ruleEnd.Before(until) {
			until = ruleEnd
		}
	}

	var candidates []time.Time
	switch rule.Frequency {
	case FrequencyDaily:
		candidates = expandDaily(eventStart, rule.Interval, until)
	case FrequencyYearly:
		candidates = expandYearly(eventStart, rule.Interval, until)
	case FrequencyWeekly:
		candidates = expandWeekly(eventStart, rule.Interval, rule.WeekdaysForWeekly, until)
	case FrequencyMonthly:
		candidates = expandMonthly(eventStart, rule.Interval, *rule.WeekdayForMonthly, *rule.WeekForMonthly, until)
	}

	var occurrences []time.Time
	for _, c := range candidates {
		if within(start, c, end) || within(start, c.Add(span), end) {
			occurrences = append(occurrences, c)
		}
	}
	return occurrences
}

func within(lo, x, hi time.Time) bool {
	return !x.Before(lo) && !x.After(hi)
}

// expandDaily yields dtstart and every interval-th day after it, up to until.
func expandDaily(dtstart time.Time, interval int, until time.Time) []time.Time {
	var out []time.Time
	for d := dtstart; !d.After(until); d = d.AddDate(0, 0, interval) {
		out = append(out, d)
	}
	return out
}

// expandYearly yields the same month/day every interval years. Years in
// which the date does not exist (Feb 29) are skipped entirely.
func expandYearly(dtstart time.Time, interval int, until time.Time) []time.Time {
	var out []time.Time
	for year := dtstart.Year(); year <= until.Year(); year += interval {
		d := time.Date(year, dtstart.Month(), dtstart.Day(),
			dtstart.Hour(), dtstart.Minute(), dtstart.Second(), 0, time.UTC)
		if d.Month() != dtstart.Month() || d.Day() != dtstart.Day() {
			continue
		}
		if d.After(until) {
			break
		}
		out = append(out, d)
	}
	return out
}

// expandWeekly yields every configured weekday of every interval-th week,
// counted from the week of dtstart (weeks starting on Monday). Days of the
// start week before dtstart itself are not occurrences.
func expandWeekly(dtstart time.Time, interval int, weekdays []int, until time.Time) []time.Time {
	sorted := append([]int(nil), weekdays...)
	sort.Ints(sorted)

	weekStart := dtstart.AddDate(0, 0, -isoWeekday(dtstart))
	var out []time.Time
	for week := weekStart; !week.After(until); week = week.AddDate(0, 0, 7*interval) {
		for _, wd := range sorted {
			d := week.AddDate(0, 0, wd)
			if d.Before(dtstart) {
				continue
			}
			if d.After(until) {
				return out
			}
			out = append(out, d)
		}
	}
	return out
}

// expandMonthly yields the nth occurrence of a weekday in every interval-th
// month, counted from the month of dtstart. Months without an nth occurrence
// yield nothing.
func expandMonthly(dtstart time.Time, interval, weekday, week int, until time.Time) []time.Time {
	var out []time.Time
	month := time.Date(dtstart.Year(), dtstart.Month(), 1,
		dtstart.Hour(), dtstart.Minute(), dtstart.Second(), 0, time.UTC)
	for !month.After(until) {
		d := nthWeekdayOfMonth(month, weekday, week)
		d = time.Date(d.Year(), d.Month(), d.Day(),
			dtstart.Hour(), dtstart.Minute(), dtstart.Second(), 0, time.UTC)
		if d.Month() == month.Month() && !d.Before(dtstart) {
			if d.After(until) {
				break
			}
			out = append(out, d)
		}
		month = month.AddDate(0, interval, 0)
	}
	return out
}
