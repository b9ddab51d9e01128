package event

import (
	"time"

	"github.com/stadtportal/city-portal-backend/internal/revision"
)

// Event represents the events table. The date/time fields span the first
// occurrence; recurring events additionally carry a recurrence rule.
type Event struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	RegionID         uint            `gorm:"not null;index" json:"region_id"`
	LocationID       *uint           `gorm:"index" json:"location_id,omitempty"`
	StartDate        time.Time       `gorm:"type:date;not null;index" json:"start_date"`
	StartTime        *time.Time      `json:"start_time,omitempty"`
	EndDate          time.Time       `gorm:"type:date;not null" json:"end_date"`
	EndTime          *time.Time      `json:"end_time,omitempty"`
	IconURL          string          `gorm:"type:text" json:"icon_url,omitempty"`
	Archived         bool            `gorm:"default:false;index" json:"archived"`
	RecurrenceRuleID *uint           `gorm:"uniqueIndex" json:"-"`
	RecurrenceRule   *RecurrenceRule `gorm:"foreignKey:RecurrenceRuleID" json:"recurrence_rule,omitempty"`

	Translations []EventTranslation `gorm:"foreignKey:EventID" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// IsRecurring checks whether the event has a recurrence rule
func (e *Event) IsRecurring() bool {
	return e.RecurrenceRule != nil
}

// HasLocation checks whether the event has a physical location (POI)
func (e *Event) HasLocation() bool {
	return e.LocationID != nil
}

// IsAllDay checks whether the event takes place the whole day: start time
// at midnight and end time at 23:59:59.
func (e *Event) IsAllDay() bool {
	if e.StartTime == nil || e.EndTime == nil {
		return false
	}
	s, en := *e.StartTime, *e.EndTime
	return s.Hour() == 0 && s.Minute() == 0 && s.Second() == 0 &&
		en.Hour() == 23 && en.Minute() == 59 && en.Second() == 59
}

// EventTranslation is one revision of an event's translation in one
// language. Revisions are never mutated once created (auto-save corrections
// aside) and never deleted except by cascade with the event.
type EventTranslation struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	EventID                uint            `gorm:"not null;index" json:"event_id"`
	LanguageID             uint            `gorm:"not null;index" json:"language_id"`
	Title                  string          `gorm:"type:varchar(250);not null" json:"title"`
	Slug                   string          `gorm:"type:varchar(200);index" json:"slug"`
	Status                 revision.Status `gorm:"type:varchar(9);default:DRAFT" json:"status"`
	Description            string          `gorm:"type:text" json:"description"`
	CurrentlyInTranslation bool            `gorm:"default:false" json:"currently_in_translation"`
	Version                int             `gorm:"not null;default:1" json:"version"`
	MinorEdit              bool            `gorm:"default:false" json:"minor_edit"`
	CreatorID              *uint           `json:"creator_id,omitempty"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	LastUpdated            time.Time       `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName overrides table name for EventTranslation
func (EventTranslation) TableName() string {
	return "event_translations"
}

// revision.Translation implementation

func (t EventTranslation) RevisionVersion() int            { return t.Version }
func (t EventTranslation) RevisionStatus() revision.Status { return t.Status }
func (t EventTranslation) IsMinorEdit() bool               { return t.MinorEdit }
func (t EventTranslation) InTranslation() bool             { return t.CurrentlyInTranslation }
func (t EventTranslation) LastUpdatedAt() time.Time        { return t.LastUpdated }

// ============================
// 🟡 Request DTOs

type CreateEventRequest struct {
	Title       string                 `json:"title" binding:"required"`
	Description string                 `json:"description"`
	StartDate   string                 `json:"start_date" binding:"required"` // "2006-01-02"
	StartTime   string                 `json:"start_time,omitempty"`          // "15:04"
	EndDate     string                 `json:"end_date" binding:"required"`
	EndTime     string                 `json:"end_time,omitempty"`
	LocationID  *uint                  `json:"location_id,omitempty"`
	IconURL     string                 `json:"icon_url,omitempty"`
	Recurrence  *RecurrenceRuleRequest `json:"recurrence,omitempty"`
}

type UpdateEventRequest struct {
	StartDate  string                 `json:"start_date" binding:"required"`
	StartTime  string                 `json:"start_time,omitempty"`
	EndDate    string                 `json:"end_date" binding:"required"`
	EndTime    string                 `json:"end_time,omitempty"`
	LocationID *uint                  `json:"location_id,omitempty"`
	IconURL    string                 `json:"icon_url,omitempty"`
	Archived   *bool                  `json:"archived,omitempty"`
	Recurrence *RecurrenceRuleRequest `json:"recurrence,omitempty"` // nil removes the rule
}

type RecurrenceRuleRequest struct {
	Frequency         Frequency `json:"frequency" binding:"required"`
	Interval          int       `json:"interval"`
	WeekdaysForWeekly []int     `json:"weekdays_for_weekly,omitempty"`
	WeekdayForMonthly *int      `json:"weekday_for_monthly,omitempty"`
	WeekForMonthly    *int      `json:"week_for_monthly,omitempty"`
	RecurrenceEndDate string    `json:"recurrence_end_date,omitempty"` // "2006-01-02"
}

type SaveTranslationRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	MinorEdit   bool   `json:"minor_edit"`
	// Status must be one of DRAFT, REVIEW, PUBLIC, AUTO_SAVE
	Status revision.Status `json:"status"`
}
