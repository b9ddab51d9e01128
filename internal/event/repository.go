package event

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🎯 Events

func (r *Repository) Create(e *Event) error {
	return r.DB.Create(e).Error
}

func (r *Repository) GetByID(id uint) (*Event, error) {
	var e Event
	err := r.DB.Preload("RecurrenceRule").First(&e, id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Save persists the event together with its recurrence rule. gorm's
// association upsert is insert-only, so edits to an existing rule row are
// written explicitly before the event itself.
func (r *Repository) Save(e *Event) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if e.RecurrenceRule != nil {
			if err := tx.Save(e.RecurrenceRule).Error; err != nil {
				return err
			}
			e.RecurrenceRuleID = &e.RecurrenceRule.ID
		}
		return tx.Omit("RecurrenceRule").Save(e).Error
	})
}

// ListByRegion returns all non-archived events of a region, recurrence rules
// preloaded, ordered like the calendar shows them.
func (r *Repository) ListByRegion(regionID uint) ([]Event, error) {
	var events []Event
	err := r.DB.
		Preload("RecurrenceRule").
		Where("region_id = ? AND archived = FALSE", regionID).
		Order("start_date ASC, start_time ASC").
		Find(&events).Error
	return events, err
}

// ListUpcoming returns events that still have occurrences at or after the
// given date: the event span ends later, or the event recurs indefinitely,
// or its recurrence end date is not yet passed.
func (r *Repository) ListUpcoming(regionID uint, from time.Time) ([]Event, error) {
	var events []Event
	err := r.DB.
		Preload("RecurrenceRule").
		Joins("LEFT JOIN recurrence_rules rr ON rr.id = events.recurrence_rule_id").
		Where("events.region_id = ? AND events.archived = FALSE", regionID).
		Where(
			r.DB.Where("events.end_date >= ?", from).
				Or("events.recurrence_rule_id IS NOT NULL AND rr.recurrence_end_date IS NULL").
				Or("events.recurrence_rule_id IS NOT NULL AND rr.recurrence_end_date >= ?", from),
		).
		Order("events.start_date ASC, events.start_time ASC").
		Find(&events).Error
	return events, err
}

func (r *Repository) Delete(e *Event) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", e.ID).Delete(&EventTranslation{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(e).Error; err != nil {
			return err
		}
		if e.RecurrenceRuleID != nil {
			return tx.Delete(&RecurrenceRule{}, *e.RecurrenceRuleID).Error
		}
		return nil
	})
}

// DeleteRecurrenceRule removes a rule after the event dropped its reference
func (r *Repository) DeleteRecurrenceRule(id uint) error {
	return r.DB.Delete(&RecurrenceRule{}, id).Error
}

// ===========================
// 📝 Translations

func (r *Repository) CreateTranslation(t *EventTranslation) error {
	return r.DB.Create(t).Error
}

func (r *Repository) SaveTranslation(t *EventTranslation) error {
	return r.DB.Save(t).Error
}

// Translations returns all revisions of an event's translations, newest
// version first per language.
func (r *Repository) Translations(eventID uint) ([]EventTranslation, error) {
	var ts []EventTranslation
	err := r.DB.
		Where("event_id = ?", eventID).
		Order("language_id ASC, version DESC").
		Find(&ts).Error
	return ts, err
}

// TranslationsByLanguage returns the revision chain of (event, language),
// newest first.
func (r *Repository) TranslationsByLanguage(eventID, languageID uint) ([]EventTranslation, error) {
	var ts []EventTranslation
	err := r.DB.
		Where("event_id = ? AND language_id = ?", eventID, languageID).
		Order("version DESC").
		Find(&ts).Error
	return ts, err
}

// DemotePublic flips all public revisions of (event, language) to draft.
// Called inside the publish flow so at most one revision is served.
func (r *Repository) DemotePublic(tx *gorm.DB, eventID, languageID uint) error {
	return tx.Model(&EventTranslation{}).
		Where("event_id = ? AND language_id = ? AND status = ?", eventID, languageID, "PUBLIC").
		Update("status", "DRAFT").Error
}

// SlugExists checks slug uniqueness within (region, language), optionally
// excluding one translation (its own older revisions share the slug).
func (r *Repository) SlugExists(regionID, languageID uint, slug string, excludeEventID *uint) (bool, error) {
	query := r.DB.Model(&EventTranslation{}).
		Joins("JOIN events ON events.id = event_translations.event_id").
		Where("events.region_id = ? AND event_translations.language_id = ? AND event_translations.slug = ?",
			regionID, languageID, slug)
	if excludeEventID != nil {
		query = query.Where("event_translations.event_id <> ?", *excludeEventID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
