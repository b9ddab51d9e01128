package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(i int) *int { return &i }

func timePtr(t time.Time) *time.Time { return &t }

func TestRuleValidate(t *testing.T) {
	t.Run("daily rule needs nothing extra", func(t *testing.T) {
		rule := RecurrenceRule{Frequency: FrequencyDaily, Interval: 1}
		assert.NoError(t, rule.Validate())
	})

	t.Run("interval below one is rejected", func(t *testing.T) {
		rule := RecurrenceRule{Frequency: FrequencyDaily, Interval: 0}
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRecurrenceRule)
	})

	t.Run("weekly rule without weekdays is rejected", func(t *testing.T) {
		rule := RecurrenceRule{Frequency: FrequencyWeekly, Interval: 1}
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRecurrenceRule)
	})

	t.Run("weekday index out of range is rejected", func(t *testing.T) {
		rule := RecurrenceRule{
			Frequency:         FrequencyWeekly,
			Interval:          1,
			WeekdaysForWeekly: datatypes.JSONSlice[int]{7},
		}
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRecurrenceRule)
	})

	t.Run("monthly rule needs weekday and week", func(t *testing.T) {
		rule := RecurrenceRule{Frequency: FrequencyMonthly, Interval: 1, WeekdayForMonthly: intPtr(1)}
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRecurrenceRule)
	})

	t.Run("monthly week ordinal out of range is rejected", func(t *testing.T) {
		rule := RecurrenceRule{
			Frequency:         FrequencyMonthly,
			Interval:          1,
			WeekdayForMonthly: intPtr(1),
			WeekForMonthly:    intPtr(6),
		}
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRecurrenceRule)
	})

	t.Run("unknown frequency is rejected", func(t *testing.T) {
		rule := RecurrenceRule{Frequency: Frequency("HOURLY"), Interval: 1}
		assert.ErrorIs(t, rule.Validate(), ErrInvalidRecurrenceRule)
	})
}

func TestIterAfterDaily(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyDaily, Interval: 1}
	got := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 2),
		date(2024, time.January, 3),
	}, got)
}

func TestIterAfterDailyInterval(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyDaily, Interval: 3}
	got := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 4),
		date(2024, time.January, 7),
	}, got)
}

func TestIterAfterWeekly(t *testing.T) {
	// Monday and Wednesday, starting on a Monday
	rule := RecurrenceRule{
		Frequency:         FrequencyWeekly,
		Interval:          1,
		WeekdaysForWeekly: datatypes.JSONSlice[int]{0, 2},
	}
	got := rule.IterAfter(date(2024, time.January, 1)).Collect(4)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 3),
		date(2024, time.January, 8),
		date(2024, time.January, 10),
	}, got)
}

func TestIterAfterWeeklyIntervalSkipsWholeCycles(t *testing.T) {
	// Every second week on Monday. The interval counts advancement cycles,
	// so entire weeks drop out of the sequence.
	rule := RecurrenceRule{
		Frequency:         FrequencyWeekly,
		Interval:          2,
		WeekdaysForWeekly: datatypes.JSONSlice[int]{0},
	}
	got := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 15),
		date(2024, time.January, 29),
	}, got)
}

func TestIterAfterWeeklyEmptyStartCycleCountsAgainstInterval(t *testing.T) {
	// Start on a Wednesday with the rule firing on Mondays: the start week
	// produces no occurrence but still consumes cycle 0, so the next Monday
	// falls into cycle 1 and is skipped by interval 2.
	rule := RecurrenceRule{
		Frequency:         FrequencyWeekly,
		Interval:          2,
		WeekdaysForWeekly: datatypes.JSONSlice[int]{0},
	}
	got := rule.IterAfter(date(2024, time.January, 3)).Collect(2)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 15),
		date(2024, time.January, 29),
	}, got)
}

func TestIterAfterWeeklyUnsortedWeekdays(t *testing.T) {
	rule := RecurrenceRule{
		Frequency:         FrequencyWeekly,
		Interval:          1,
		WeekdaysForWeekly: datatypes.JSONSlice[int]{4, 0},
	}
	got := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 5),
		date(2024, time.January, 8),
	}, got)
}

func TestIterAfterMonthly(t *testing.T) {
	// Second Tuesday of every month
	rule := RecurrenceRule{
		Frequency:         FrequencyMonthly,
		Interval:          1,
		WeekdayForMonthly: intPtr(1),
		WeekForMonthly:    intPtr(2),
	}
	got := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2024, time.January, 9),
		date(2024, time.February, 13),
		date(2024, time.March, 12),
	}, got)
}

func TestIterAfterMonthlySkipsOccurrenceBeforeStart(t *testing.T) {
	// Second Tuesday of January 2024 is the 9th; starting on the 15th the
	// first occurrence is February's.
	rule := RecurrenceRule{
		Frequency:         FrequencyMonthly,
		Interval:          1,
		WeekdayForMonthly: intPtr(1),
		WeekForMonthly:    intPtr(2),
	}
	got := rule.IterAfter(date(2024, time.January, 15)).Collect(1)
	assert.Equal(t, []time.Time{date(2024, time.February, 13)}, got)
}

func TestIterAfterMonthlyFifthWeekOverflows(t *testing.T) {
	// February 2024 has no fifth Monday; the candidate overflows into March.
	rule := RecurrenceRule{
		Frequency:         FrequencyMonthly,
		Interval:          1,
		WeekdayForMonthly: intPtr(0),
		WeekForMonthly:    intPtr(5),
	}
	got := rule.IterAfter(date(2024, time.February, 1)).Collect(2)
	assert.Equal(t, []time.Time{
		date(2024, time.March, 4),
		date(2024, time.April, 29),
	}, got)
}

func TestIterAfterYearly(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyYearly, Interval: 1}
	got := rule.IterAfter(date(2023, time.June, 15)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2023, time.June, 15),
		date(2024, time.June, 15),
		date(2025, time.June, 15),
	}, got)
}

func TestIterAfterYearlyLeapDay(t *testing.T) {
	// Feb 29 only exists in leap years; the in-between years are skipped
	// instead of shifting to Feb 28.
	rule := RecurrenceRule{Frequency: FrequencyYearly, Interval: 1}
	got := rule.IterAfter(date(2024, time.February, 29)).Collect(3)
	assert.Equal(t, []time.Time{
		date(2024, time.February, 29),
		date(2028, time.February, 29),
		date(2032, time.February, 29),
	}, got)
}

func TestIterAfterEndDateIsTerminal(t *testing.T) {
	end := date(2024, time.January, 3)
	rule := RecurrenceRule{
		Frequency:         FrequencyDaily,
		Interval:          1,
		RecurrenceEndDate: &end,
	}
	it := rule.IterAfter(date(2024, time.January, 1))

	got := it.Collect(10)
	require.Equal(t, []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 2),
		date(2024, time.January, 3),
	}, got)

	// exhaustion is terminal
	_, ok := it.Next()
	assert.False(t, ok)
	_, ok = it.Next()
	assert.False(t, ok)
}

func TestIterAfterTruncatesStartToDate(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyDaily, Interval: 1}
	got := rule.IterAfter(time.Date(2024, time.January, 1, 18, 30, 0, 0, time.UTC)).Collect(1)
	assert.Equal(t, []time.Time{date(2024, time.January, 1)}, got)
}

func TestIterAfterFreshIteratorsAreIndependent(t *testing.T) {
	rule := RecurrenceRule{Frequency: FrequencyDaily, Interval: 1}
	first := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	second := rule.IterAfter(date(2024, time.January, 1)).Collect(3)
	assert.Equal(t, first, second)
}
