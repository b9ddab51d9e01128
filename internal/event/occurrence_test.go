package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestOccurrencesSingleEvent(t *testing.T) {
	e := &Event{
		StartDate: date(2024, time.March, 10),
		StartTime: timePtr(time.Date(0, 1, 1, 14, 0, 0, 0, time.UTC)),
		EndDate:   date(2024, time.March, 10),
		EndTime:   timePtr(time.Date(0, 1, 1, 16, 0, 0, 0, time.UTC)),
	}

	t.Run("inside the window", func(t *testing.T) {
		got := e.Occurrences(date(2024, time.March, 1), date(2024, time.March, 31))
		assert.Equal(t, []time.Time{time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)}, got)
	})

	t.Run("outside the window", func(t *testing.T) {
		got := e.Occurrences(date(2024, time.April, 1), date(2024, time.April, 30))
		assert.Empty(t, got)
	})

	t.Run("overlapping via its end", func(t *testing.T) {
		// starts before the window but ends inside it
		got := e.Occurrences(
			time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC),
			date(2024, time.March, 31),
		)
		assert.Len(t, got, 1)
	})
}

func TestOccurrencesDaily(t *testing.T) {
	e := &Event{
		StartDate:      date(2024, time.January, 1),
		EndDate:        date(2024, time.January, 1),
		RecurrenceRule: &RecurrenceRule{Frequency: FrequencyDaily, Interval: 2},
	}
	got := e.Occurrences(date(2024, time.January, 1), endOfDay(date(2024, time.January, 7)))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 3),
		date(2024, time.January, 5),
		date(2024, time.January, 7),
	}, got)
}

func TestOccurrencesWeekly(t *testing.T) {
	e := &Event{
		StartDate: date(2024, time.January, 3), // a Wednesday
		StartTime: timePtr(time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC)),
		EndDate:   date(2024, time.January, 3),
		EndTime:   timePtr(time.Date(0, 1, 1, 11, 0, 0, 0, time.UTC)),
		RecurrenceRule: &RecurrenceRule{
			Frequency:         FrequencyWeekly,
			Interval:          1,
			WeekdaysForWeekly: []int{0, 2},
		},
	}

	got := e.Occurrences(date(2024, time.January, 1), endOfDay(date(2024, time.January, 10)))

	// The Monday of the start week lies before the event start and is not
	// an occurrence.
	assert.Equal(t, []time.Time{
		time.Date(2024, time.January, 3, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 8, 10, 0, 0, 0, time.UTC),
		time.Date(2024, time.January, 10, 10, 0, 0, 0, time.UTC),
	}, got)
}

func TestOccurrencesMonthly(t *testing.T) {
	// Second Tuesday of every month
	e := &Event{
		StartDate: date(2024, time.January, 9),
		EndDate:   date(2024, time.January, 9),
		RecurrenceRule: &RecurrenceRule{
			Frequency:         FrequencyMonthly,
			Interval:          1,
			WeekdayForMonthly: intPtr(1),
			WeekForMonthly:    intPtr(2),
		},
	}
	got := e.Occurrences(date(2024, time.January, 1), endOfDay(date(2024, time.March, 31)))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 9),
		date(2024, time.February, 13),
		date(2024, time.March, 12),
	}, got)
}

func TestOccurrencesMonthlyMonthsWithoutNthOccurrence(t *testing.T) {
	// Fifth Friday: only months with five Fridays contribute.
	e := &Event{
		StartDate: date(2024, time.March, 29),
		EndDate:   date(2024, time.March, 29),
		RecurrenceRule: &RecurrenceRule{
			Frequency:         FrequencyMonthly,
			Interval:          1,
			WeekdayForMonthly: intPtr(4),
			WeekForMonthly:    intPtr(5),
		},
	}
	got := e.Occurrences(date(2024, time.March, 1), endOfDay(date(2024, time.June, 30)))
	assert.Equal(t, []time.Time{
		date(2024, time.March, 29),
		date(2024, time.May, 31),
	}, got)
}

func TestOccurrencesRespectRuleEndDate(t *testing.T) {
	end := date(2024, time.January, 3)
	e := &Event{
		StartDate: date(2024, time.January, 1),
		EndDate:   date(2024, time.January, 1),
		RecurrenceRule: &RecurrenceRule{
			Frequency:         FrequencyDaily,
			Interval:          1,
			RecurrenceEndDate: &end,
		},
	}
	got := e.Occurrences(date(2024, time.January, 1), endOfDay(date(2024, time.January, 31)))
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 2),
		date(2024, time.January, 3),
	}, got)
}

func TestOccurrencesYearlyLeapDay(t *testing.T) {
	e := &Event{
		StartDate:      date(2024, time.February, 29),
		EndDate:        date(2024, time.February, 29),
		RecurrenceRule: &RecurrenceRule{Frequency: FrequencyYearly, Interval: 1},
	}
	got := e.Occurrences(date(2024, time.January, 1), endOfDay(date(2030, time.December, 31)))
	assert.Equal(t, []time.Time{
		date(2024, time.February, 29),
		date(2028, time.February, 29),
	}, got)
}

func TestStartEndDateTime(t *testing.T) {
	e := &Event{
		StartDate: date(2024, time.May, 1),
		EndDate:   date(2024, time.May, 1),
	}
	assert.Equal(t, date(2024, time.May, 1), e.StartDateTime())
	assert.Equal(t, endOfDay(date(2024, time.May, 1)), e.EndDateTime())

	e.StartTime = timePtr(time.Date(0, 1, 1, 9, 30, 0, 0, time.UTC))
	e.EndTime = timePtr(time.Date(0, 1, 1, 17, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, time.May, 1, 9, 30, 0, 0, time.UTC), e.StartDateTime())
	assert.Equal(t, time.Date(2024, time.May, 1, 17, 0, 0, 0, time.UTC), e.EndDateTime())
}
