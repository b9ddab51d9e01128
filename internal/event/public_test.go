package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stadtportal/city-portal-backend/internal/revision"
)

func publishEvent(t *testing.T, svc *Service, eventID, languageID uint, title string) {
	t.Helper()
	_, err := svc.SaveTranslation(eventID, languageID, &SaveTranslationRequest{
		Title:       title,
		Description: "<p>" + title + "</p>",
		Status:      revision.StatusPublic,
	}, 1, "127.0.0.1")
	require.NoError(t, err)
}

func TestPublicEventsOmitsExpiredBaseOfRecurringEvent(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	reg, lang := seedRegion(t, db)

	// Weekly Monday market; the event span itself ended before the window.
	e, err := svc.CreateEvent(&CreateEventRequest{
		Title:     "Wochenmarkt",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-06",
		Recurrence: &RecurrenceRuleRequest{
			Frequency:         FrequencyWeekly,
			Interval:          1,
			WeekdaysForWeekly: []int{0},
		},
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)
	publishEvent(t, svc, e.ID, lang.ID, "Wochenmarkt")

	from := date(2026, 1, 12)
	payloads, err := svc.PublicEvents(reg, lang.ID, lang.Slug, from)
	require.NoError(t, err)

	// Mondays Jan 12 through Feb 9 fall within the 31 day horizon past from.
	require.Len(t, payloads, 5)
	wantStarts := []string{"2026-01-12", "2026-01-19", "2026-01-26", "2026-02-02", "2026-02-09"}
	for i, p := range payloads {
		assert.Nil(t, p.ID, "occurrence %d should be synthetic", i)
		assert.Equal(t, wantStarts[i], p.Event.StartDate)
		require.NotNil(t, p.Event.RecurrenceID)
		assert.Equal(t, *e.RecurrenceRuleID, *p.Event.RecurrenceID)
	}
	// The two-day span is shifted along with the start date.
	assert.Equal(t, "2026-01-13", payloads[0].Event.EndDate)
	assert.Contains(t, payloads[0].Path, "wochenmarkt-2026-01-12")
}

func TestPublicEventsKeepsBaseWhileSpanActive(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	reg, lang := seedRegion(t, db)

	e, err := svc.CreateEvent(&CreateEventRequest{
		Title:     "Wochenmarkt",
		StartDate: "2026-01-05",
		EndDate:   "2026-01-05",
		Recurrence: &RecurrenceRuleRequest{
			Frequency:         FrequencyWeekly,
			Interval:          1,
			WeekdaysForWeekly: []int{0},
		},
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)
	publishEvent(t, svc, e.ID, lang.ID, "Wochenmarkt")

	from := date(2026, 1, 5)
	payloads, err := svc.PublicEvents(reg, lang.ID, lang.Slug, from)
	require.NoError(t, err)

	// Base occurrence plus the Mondays Jan 12 through Feb 2.
	require.Len(t, payloads, 5)
	assert.NotNil(t, payloads[0].ID)
	assert.Equal(t, "2026-01-05", payloads[0].Event.StartDate)
	for _, p := range payloads[1:] {
		assert.Nil(t, p.ID)
	}
}

func TestPublicEventsHorizonCutoff(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	reg, lang := seedRegion(t, db)

	// Daily without an end date recurs indefinitely; the horizon must cap it.
	e, err := svc.CreateEvent(&CreateEventRequest{
		Title:      "Morgenschwimmen",
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-05",
		Recurrence: &RecurrenceRuleRequest{Frequency: FrequencyDaily, Interval: 1},
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)
	publishEvent(t, svc, e.ID, lang.ID, "Morgenschwimmen")

	from := date(2026, 1, 10)
	payloads, err := svc.PublicEvents(reg, lang.ID, lang.Slug, from)
	require.NoError(t, err)

	// The base date and the days before from are skipped; everything from
	// Jan 10 through Feb 10 (31 days past from) is emitted, nothing beyond.
	require.Len(t, payloads, 32)
	assert.Equal(t, "2026-01-10", payloads[0].Event.StartDate)
	assert.Equal(t, "2026-02-10", payloads[len(payloads)-1].Event.StartDate)
	for _, p := range payloads {
		assert.Nil(t, p.ID)
	}
}
