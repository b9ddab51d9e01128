package event

import (
	"errors"
	"sort"
	"time"

	"gorm.io/datatypes"
)

// Frequency of a recurrence rule
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
	FrequencyYearly  Frequency = "YEARLY"
)

// ErrInvalidRecurrenceRule is returned when a rule's fields do not fit its
// frequency. Rules are rejected at creation/update time so the iterator can
// assume a well-formed rule.
var ErrInvalidRecurrenceRule = errors.New("invalid recurrence rule")

// maxDate bounds iteration for rules without an end date. Callers must
// truncate the sequence themselves; this only keeps the comparison total.
var maxDate = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

// RecurrenceRule represents the recurrence frequency and interval of an
// event. Owned one-to-one by its event; deleted when the event's recurrence
// is removed.
//
// Weekday indices are Monday=0 through Sunday=6 everywhere in this package.
type RecurrenceRule struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Frequency Frequency `gorm:"type:varchar(7);not null;default:WEEKLY" json:"frequency"`
	// Interval is "repeat every N periods", at least 1.
	Interval int `gorm:"not null;default:1" json:"interval"`
	// WeekdaysForWeekly determines on which days the event takes place when
	// the frequency is weekly. Must not be empty for weekly rules.
	WeekdaysForWeekly datatypes.JSONSlice[int] `json:"weekdays_for_weekly,omitempty"`
	// WeekdayForMonthly and WeekForMonthly select the Nth occurrence of a
	// weekday within the month when the frequency is monthly. Week is an
	// ordinal 1-5; there is no explicit "last" marker, a 5 that does not
	// exist in a month overflows into the next one in IterAfter.
	WeekdayForMonthly *int `json:"weekday_for_monthly,omitempty"`
	WeekForMonthly    *int `json:"week_for_monthly,omitempty"`
	// RecurrenceEndDate is nil for indefinitely recurring events.
	RecurrenceEndDate *time.Time `gorm:"type:date" json:"recurrence_end_date,omitempty"`
}

// TableName overrides table name for RecurrenceRule
func (RecurrenceRule) TableName() string {
	return "recurrence_rules"
}

// Validate fails fast on frequency-inappropriate field combinations instead
// of letting the iterator produce wrong dates.
func (r *RecurrenceRule) Validate() error {
	if r.Interval < 1 {
		return errInvalidRule("interval must be at least 1")
	}
	switch r.Frequency {
	case FrequencyDaily, FrequencyYearly:
		return nil
	case FrequencyWeekly:
		if len(r.WeekdaysForWeekly) == 0 {
			return errInvalidRule("weekly rule needs at least one weekday")
		}
		for _, wd := range r.WeekdaysForWeekly {
			if wd < 0 || wd > 6 {
				return errInvalidRule("weekday index out of range 0-6")
			}
		}
		return nil
	case FrequencyMonthly:
		if r.WeekdayForMonthly == nil || r.WeekForMonthly == nil {
			return errInvalidRule("monthly rule needs weekday and week")
		}
		if *r.WeekdayForMonthly < 0 || *r.WeekdayForMonthly > 6 {
			return errInvalidRule("weekday index out of range 0-6")
		}
		if *r.WeekForMonthly < 1 || *r.WeekForMonthly > 5 {
			return errInvalidRule("week ordinal out of range 1-5")
		}
		return nil
	default:
		return errInvalidRule("unknown frequency")
	}
}

func errInvalidRule(msg string) error {
	return errors.Join(ErrInvalidRecurrenceRule, errors.New(msg))
}

// RuleIterator is the forward occurrence sequence of one rule. Each call to
// IterAfter builds a fresh iterator with its own cursor, so iterators are
// safe to use concurrently for different calls and sequences are repeatable.
type RuleIterator struct {
	rule  RecurrenceRule
	start time.Time
	end   time.Time

	cursor     time.Time
	cycle      int
	queue      []time.Time
	queueCycle int
	done       bool
}

// IterAfter iterates all recurrences of the rule at or after start. The
// sequence is strictly increasing and stops silently once the rule's end
// date is exceeded; without an end date it is unbounded and the caller must
// stop consuming.
//
// The interval is applied as a modulo counter over advancement cycles, with
// one cycle covering the whole weekday expansion for weekly rules. For
// weekly rules with interval > 1 this skips whole cycles rather than
// individual weekdays. That coupling is visible in published event dates,
// so it is kept exactly as is.
func (r *RecurrenceRule) IterAfter(start time.Time) *RuleIterator {
	rule := *r
	if rule.Interval < 1 {
		// Validated upstream; clamp so hand-built rules cannot divide by zero.
		rule.Interval = 1
	}
	end := maxDate
	if rule.RecurrenceEndDate != nil {
		end = dateOnly(*rule.RecurrenceEndDate)
	}
	startDate := dateOnly(start)
	return &RuleIterator{
		rule:   rule,
		start:  startDate,
		end:    end,
		cursor: startDate,
	}
}

// Next returns the next occurrence date, or false once the sequence is
// exhausted. Exhaustion is terminal.
func (it *RuleIterator) Next() (time.Time, bool) {
	for !it.done {
		if len(it.queue) == 0 {
			it.fillCycle()
			continue
		}
		candidate := it.queue[0]
		it.queue = it.queue[1:]
		if candidate.After(it.end) {
			it.done = true
			break
		}
		if it.queueCycle%it.rule.Interval == 0 {
			return candidate, true
		}
	}
	return time.Time{}, false
}

// Collect drains up to max occurrences. Intended for tests and callers that
// want a bounded prefix of the sequence.
func (it *RuleIterator) Collect(max int) []time.Time {
	var dates []time.Time
	for len(dates) < max {
		d, ok := it.Next()
		if !ok {
			break
		}
		dates = append(dates, d)
	}
	return dates
}

// fillCycle runs one advancement cycle: it appends the cycle's candidate
// dates to the queue and moves the cursor past them. Weekly cycles may
// produce no candidate when the start date lies after every configured
// weekday of its week; the cycle still counts against the interval.
func (it *RuleIterator) fillCycle() {
	it.queueCycle = it.cycle
	switch it.rule.Frequency {
	case FrequencyDaily:
		it.queue = append(it.queue, it.cursor)
		it.cursor = it.cursor.AddDate(0, 0, 1)

	case FrequencyWeekly:
		weekdays := append([]int(nil), it.rule.WeekdaysForWeekly...)
		sort.Ints(weekdays)
		for _, wd := range weekdays {
			if wd < isoWeekday(it.cursor) {
				continue
			}
			it.cursor = it.cursor.AddDate(0, 0, wd-isoWeekday(it.cursor))
			it.queue = append(it.queue, it.cursor)
		}
		// advance to the next monday
		it.cursor = it.cursor.AddDate(0, 0, 7-isoWeekday(it.cursor))

	case FrequencyMonthly:
		it.cursor = nthWeekdayOfMonth(it.cursor, *it.rule.WeekdayForMonthly, *it.rule.WeekForMonthly)
		if it.cursor.Before(it.start) {
			it.cursor = nthWeekdayOfMonth(nextMonth(it.cursor), *it.rule.WeekdayForMonthly, *it.rule.WeekForMonthly)
		}
		it.queue = append(it.queue, it.cursor)
		it.cursor = nextMonth(it.cursor)

	case FrequencyYearly:
		it.queue = append(it.queue, it.cursor)
		// A leap day only exists every four (or eight) years: skip years
		// where the date is invalid instead of shifting to Feb 28.
		for yearDiff := 1; ; yearDiff++ {
			next := time.Date(it.cursor.Year()+yearDiff, it.cursor.Month(), it.cursor.Day(), 0, 0, 0, 0, time.UTC)
			if next.Month() == it.cursor.Month() && next.Day() == it.cursor.Day() {
				it.cursor = next
				break
			}
		}

	default:
		// unreachable for validated rules
		it.done = true
	}
	it.cycle++
}

// isoWeekday maps time.Weekday (Sunday=0) to Monday=0 ... Sunday=6.
func isoWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// nthWeekdayOfMonth returns the nth occurrence of a weekday in the month of
// d, computed as first matching weekday plus n-1 weeks. For n=5 the result
// can fall into the following month.
func nthWeekdayOfMonth(d time.Time, weekday, n int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	first = first.AddDate(0, 0, (weekday-isoWeekday(first)+7)%7)
	return first.AddDate(0, 0, (n-1)*7)
}

// nextMonth advances to the first day of the following month. Advancing from
// the first keeps day-29 to day-31 cursors from skipping a month.
func nextMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
}

// dateOnly truncates to a UTC calendar date.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
