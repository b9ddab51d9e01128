package event

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/region"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&language.Language{},
		&language.LanguageTreeNode{},
		&region.Region{},
		&Event{},
		&RecurrenceRule{},
		&EventTranslation{},
	))
	return db
}

func newTestService(db *gorm.DB) *Service {
	cfg := &config.Config{
		WebappURL:             "https://portal.example.com",
		BackendLanguage:       "de",
		EventsMaxTimeSpanDays: 31,
	}
	return NewService(NewRepository(db), region.NewRepository(db), language.NewRepository(db), nil, nil, cfg)
}

func seedRegion(t *testing.T, db *gorm.DB) (*region.Region, *language.Language) {
	t.Helper()
	lang := &language.Language{Slug: "de", BCP47Tag: "de-DE", NativeName: "Deutsch", EnglishName: "German"}
	require.NoError(t, db.Create(lang).Error)
	reg := &region.Region{Name: "Augsburg", Slug: "augsburg", DefaultLanguageID: lang.ID, IsActive: true}
	require.NoError(t, db.Create(reg).Error)
	require.NoError(t, db.Create(&language.LanguageTreeNode{
		RegionID:   reg.ID,
		LanguageID: lang.ID,
		Visible:    true,
	}).Error)
	return reg, lang
}

func TestUpdateEventPersistsRecurrenceRuleEdit(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	reg, _ := seedRegion(t, db)

	e, err := svc.CreateEvent(&CreateEventRequest{
		Title:      "Wochenmarkt",
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-05",
		Recurrence: &RecurrenceRuleRequest{Frequency: FrequencyDaily, Interval: 1},
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, e.RecurrenceRuleID)

	_, err = svc.UpdateEvent(e.ID, &UpdateEventRequest{
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-05",
		Recurrence: &RecurrenceRuleRequest{Frequency: FrequencyDaily, Interval: 5},
	}, 1, "127.0.0.1")
	require.NoError(t, err)

	reloaded, err := svc.Repo.GetByID(e.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.RecurrenceRule)
	assert.Equal(t, 5, reloaded.RecurrenceRule.Interval)
	assert.Equal(t, *e.RecurrenceRuleID, reloaded.RecurrenceRule.ID)

	var count int64
	require.NoError(t, db.Model(&RecurrenceRule{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestUpdateEventChangesRuleFrequency(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	reg, _ := seedRegion(t, db)

	e, err := svc.CreateEvent(&CreateEventRequest{
		Title:      "Stadtlauf",
		StartDate:  "2026-01-05",
		EndDate:    "2026-01-05",
		Recurrence: &RecurrenceRuleRequest{Frequency: FrequencyDaily, Interval: 1},
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.UpdateEvent(e.ID, &UpdateEventRequest{
		StartDate: "2026-01-05",
		EndDate:   "2026-01-05",
		Recurrence: &RecurrenceRuleRequest{
			Frequency:         FrequencyWeekly,
			Interval:          2,
			WeekdaysForWeekly: []int{0, 2},
			RecurrenceEndDate: "2026-06-30",
		},
	}, 1, "127.0.0.1")
	require.NoError(t, err)

	reloaded, err := svc.Repo.GetByID(e.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.RecurrenceRule)
	assert.Equal(t, FrequencyWeekly, reloaded.RecurrenceRule.Frequency)
	assert.Equal(t, 2, reloaded.RecurrenceRule.Interval)
	assert.Equal(t, []int{0, 2}, []int(reloaded.RecurrenceRule.WeekdaysForWeekly))
	require.NotNil(t, reloaded.RecurrenceRule.RecurrenceEndDate)
	assert.Equal(t, date(2026, 6, 30), dateOnly(*reloaded.RecurrenceRule.RecurrenceEndDate))
	assert.Equal(t, *e.RecurrenceRuleID, reloaded.RecurrenceRule.ID)
}

func TestUpdateEventAddsAndRemovesRule(t *testing.T) {
	db := newTestDB(t)
	svc := newTestService(db)
	reg, _ := seedRegion(t, db)

	e, err := svc.CreateEvent(&CreateEventRequest{
		Title:     "Konzert",
		StartDate: "2026-03-01",
		EndDate:   "2026-03-01",
	}, reg.ID, 1, "127.0.0.1")
	require.NoError(t, err)
	require.Nil(t, e.RecurrenceRuleID)

	_, err = svc.UpdateEvent(e.ID, &UpdateEventRequest{
		StartDate:  "2026-03-01",
		EndDate:    "2026-03-01",
		Recurrence: &RecurrenceRuleRequest{Frequency: FrequencyYearly, Interval: 1},
	}, 1, "127.0.0.1")
	require.NoError(t, err)

	reloaded, err := svc.Repo.GetByID(e.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.RecurrenceRule)
	assert.Equal(t, FrequencyYearly, reloaded.RecurrenceRule.Frequency)

	_, err = svc.UpdateEvent(e.ID, &UpdateEventRequest{
		StartDate: "2026-03-01",
		EndDate:   "2026-03-01",
	}, 1, "127.0.0.1")
	require.NoError(t, err)

	reloaded, err = svc.Repo.GetByID(e.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.RecurrenceRule)
	assert.Nil(t, reloaded.RecurrenceRuleID)

	var count int64
	require.NoError(t, db.Model(&RecurrenceRule{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
