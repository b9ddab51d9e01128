package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/poi"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/internal/revision"
	"github.com/stadtportal/city-portal-backend/utils"
)

// Service wraps business logic for events and their translations
type Service struct {
	Repo       *Repository
	RegionRepo *region.Repository
	LangRepo   *language.Repository
	POIRepo    *poi.Repository
	AuditSvc   auditlog.Service
	Cfg        *config.Config
}

func NewService(r *Repository, regionRepo *region.Repository, langRepo *language.Repository, poiRepo *poi.Repository, auditSvc auditlog.Service, cfg *config.Config) *Service {
	return &Service{
		Repo:       r,
		RegionRepo: regionRepo,
		LangRepo:   langRepo,
		POIRepo:    poiRepo,
		AuditSvc:   auditSvc,
		Cfg:        cfg,
	}
}

const dateLayout = "2006-01-02"
const timeLayout = "15:04"

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return dateOnly(d), nil
}

func parseTimeOfDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		// seconds are accepted too, the all-day convention needs 23:59:59
		t, err = time.Parse("15:04:05", s)
		if err != nil {
			return nil, fmt.Errorf("invalid time %q, use HH:MM", s)
		}
	}
	normalized := time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return &normalized, nil
}

func buildRule(req *RecurrenceRuleRequest) (*RecurrenceRule, error) {
	if req == nil {
		return nil, nil
	}
	interval := req.Interval
	if interval == 0 {
		interval = 1
	}
	rule := &RecurrenceRule{
		Frequency:         req.Frequency,
		Interval:          interval,
		WeekdaysForWeekly: req.WeekdaysForWeekly,
		WeekdayForMonthly: req.WeekdayForMonthly,
		WeekForMonthly:    req.WeekForMonthly,
	}
	if req.RecurrenceEndDate != "" {
		end, err := parseDate(req.RecurrenceEndDate)
		if err != nil {
			return nil, err
		}
		rule.RecurrenceEndDate = &end
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// ===========================
// 🎯 Create Event
//
// An event always starts its life with a first translation in the region's
// default language.
func (s *Service) CreateEvent(req *CreateEventRequest, regionID uint, creatorID uint, ip string) (*Event, error) {
	reg, err := s.RegionRepo.GetByID(regionID)
	if err != nil {
		return nil, errors.New("region not found")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	startTime, err := parseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := parseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, err
	}

	rule, err := buildRule(req.Recurrence)
	if err != nil {
		return nil, err
	}

	e := &Event{
		RegionID:       regionID,
		LocationID:     req.LocationID,
		StartDate:      startDate,
		StartTime:      startTime,
		EndDate:        endDate,
		EndTime:        endTime,
		IconURL:        req.IconURL,
		RecurrenceRule: rule,
	}
	if err := s.Repo.Create(e); err != nil {
		s.logAction(creatorID, regionID, "EVENT_CREATED", map[string]interface{}{"title": req.Title, "error": err.Error()}, ip, "failure")
		return nil, err
	}

	slug, err := s.uniqueSlug(regionID, reg.DefaultLanguageID, req.Title, nil)
	if err != nil {
		return nil, err
	}
	translation := &EventTranslation{
		EventID:     e.ID,
		LanguageID:  reg.DefaultLanguageID,
		Title:       req.Title,
		Slug:        slug,
		Status:      revision.StatusDraft,
		Description: req.Description,
		Version:     1,
		CreatorID:   &creatorID,
	}
	if err := s.Repo.CreateTranslation(translation); err != nil {
		return nil, err
	}

	s.logAction(creatorID, regionID, "EVENT_CREATED", map[string]interface{}{
		"event_id": e.ID,
		"title":    req.Title,
		"slug":     slug,
	}, ip, "success")

	return e, nil
}

// ===========================
// 🟠 Update Event
func (s *Service) UpdateEvent(id uint, req *UpdateEventRequest, userID uint, ip string) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, errors.New("event not found")
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, err
	}
	startTime, err := parseTimeOfDay(req.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := parseTimeOfDay(req.EndTime)
	if err != nil {
		return nil, err
	}

	e.StartDate = startDate
	e.StartTime = startTime
	e.EndDate = endDate
	e.EndTime = endTime
	e.LocationID = req.LocationID
	e.IconURL = req.IconURL
	if req.Archived != nil {
		e.Archived = *req.Archived
	}

	// Recurrence removal deletes the rule row; the rule is owned by the event
	droppedRule := e.RecurrenceRuleID
	if req.Recurrence == nil {
		e.RecurrenceRule = nil
		e.RecurrenceRuleID = nil
	} else {
		rule, err := buildRule(req.Recurrence)
		if err != nil {
			return nil, err
		}
		if e.RecurrenceRuleID != nil {
			rule.ID = *e.RecurrenceRuleID
		}
		e.RecurrenceRule = rule
		droppedRule = nil
	}

	if err := s.Repo.Save(e); err != nil {
		return nil, err
	}
	if droppedRule != nil {
		if err := s.Repo.DeleteRecurrenceRule(*droppedRule); err != nil {
			return nil, err
		}
	}

	s.logAction(userID, e.RegionID, "EVENT_UPDATED", map[string]interface{}{"event_id": e.ID}, ip, "success")
	s.invalidateCache(e.RegionID)
	return e, nil
}

// ===========================
// 📝 Save Translation
//
// Every save creates a new revision with the next version number; revisions
// are immutable once created. The only exception is auto-save mode, where a
// consecutive auto-save corrects the previous one in place.
func (s *Service) SaveTranslation(eventID, languageID uint, req *SaveTranslationRequest, userID uint, ip string) (*EventTranslation, error) {
	e, err := s.Repo.GetByID(eventID)
	if err != nil {
		return nil, errors.New("event not found")
	}

	status := req.Status
	if status == "" {
		status = revision.StatusDraft
	}

	chain, err := s.Repo.TranslationsByLanguage(eventID, languageID)
	if err != nil {
		return nil, err
	}

	if latest, ok := revision.Latest(chain); ok &&
		latest.Status == revision.StatusAutoSave && status == revision.StatusAutoSave {
		latest.Title = req.Title
		latest.Description = req.Description
		latest.MinorEdit = req.MinorEdit
		if err := s.Repo.SaveTranslation(&latest); err != nil {
			return nil, err
		}
		return &latest, nil
	}

	version := 1
	slug := ""
	if latest, ok := revision.Latest(chain); ok {
		version = latest.Version + 1
		slug = latest.Slug
	}
	if slug == "" {
		slug, err = s.uniqueSlug(e.RegionID, languageID, req.Title, &eventID)
		if err != nil {
			return nil, err
		}
	}

	t := &EventTranslation{
		EventID:     eventID,
		LanguageID:  languageID,
		Title:       req.Title,
		Slug:        slug,
		Status:      status,
		Description: req.Description,
		Version:     version,
		MinorEdit:   req.MinorEdit,
		CreatorID:   &userID,
	}

	if status == revision.StatusPublic {
		err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.DemotePublic(tx, eventID, languageID); err != nil {
				return err
			}
			return tx.Create(t).Error
		})
	} else {
		err = s.Repo.CreateTranslation(t)
	}
	if err != nil {
		return nil, err
	}

	s.logAction(userID, e.RegionID, "EVENT_TRANSLATION_SAVED", map[string]interface{}{
		"event_id":    eventID,
		"language_id": languageID,
		"version":     version,
		"status":      status,
	}, ip, "success")

	if status == revision.StatusPublic {
		s.invalidateCache(e.RegionID)
	}
	return t, nil
}

// ===========================
// 📋 Duplicate Event
//
// Deep copy of the event, its recurrence rule and all translation revisions.
// Copies start over as drafts with a "(copy)" title suffix and fresh unique
// slugs.
func (s *Service) Duplicate(id uint, userID uint, ip string) (*Event, error) {
	e, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, errors.New("event not found")
	}
	translations, err := s.Repo.Translations(e.ID)
	if err != nil {
		return nil, err
	}

	copyEvent := &Event{
		RegionID:   e.RegionID,
		LocationID: e.LocationID,
		StartDate:  e.StartDate,
		StartTime:  e.StartTime,
		EndDate:    e.EndDate,
		EndTime:    e.EndTime,
		IconURL:    e.IconURL,
	}
	if e.RecurrenceRule != nil {
		ruleCopy := *e.RecurrenceRule
		ruleCopy.ID = 0
		copyEvent.RecurrenceRule = &ruleCopy
	}
	if err := s.Repo.Create(copyEvent); err != nil {
		return nil, err
	}

	// fresh slugs are assigned once per language, reused by older revisions
	slugByLanguage := map[uint]string{}
	for _, t := range translations {
		title := t.Title + " (copy)"
		slug, ok := slugByLanguage[t.LanguageID]
		if !ok {
			slug, err = s.uniqueSlug(e.RegionID, t.LanguageID, t.Slug+"-copy", nil)
			if err != nil {
				return nil, err
			}
			slugByLanguage[t.LanguageID] = slug
		}
		tCopy := t
		tCopy.ID = 0
		tCopy.EventID = copyEvent.ID
		tCopy.Title = title
		tCopy.Slug = slug
		tCopy.Status = revision.StatusDraft
		tCopy.CurrentlyInTranslation = false
		tCopy.CreatorID = &userID
		if err := s.Repo.CreateTranslation(&tCopy); err != nil {
			return nil, err
		}
	}

	s.logAction(userID, e.RegionID, "EVENT_DUPLICATED", map[string]interface{}{
		"source_event_id": e.ID,
		"event_id":        copyEvent.ID,
	}, ip, "success")

	return copyEvent, nil
}

// ===========================
// 🔍 Revision resolution

// LatestTranslation returns the newest revision regardless of status, for
// edit forms.
func (s *Service) LatestTranslation(eventID, languageID uint) (*EventTranslation, error) {
	chain, err := s.Repo.TranslationsByLanguage(eventID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.Latest(chain); ok {
		return &t, nil
	}
	return nil, nil
}

// PublicTranslation returns the currently served revision, or nil if the
// translation was never published.
func (s *Service) PublicTranslation(eventID, languageID uint) (*EventTranslation, error) {
	chain, err := s.Repo.TranslationsByLanguage(eventID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.LatestPublic(chain); ok {
		return &t, nil
	}
	return nil, nil
}

// BestTranslation returns the backend-language revision, falling back to
// the region default language. Used for editorial list display.
func (s *Service) BestTranslation(e *Event) (*EventTranslation, error) {
	if backendLang, err := s.LangRepo.GetBySlug(s.Cfg.BackendLanguage); err == nil {
		if t, err := s.LatestTranslation(e.ID, backendLang.ID); err == nil && t != nil {
			return t, nil
		}
	}
	reg, err := s.RegionRepo.GetByID(e.RegionID)
	if err != nil {
		return nil, err
	}
	return s.LatestTranslation(e.ID, reg.DefaultLanguageID)
}

// SourceTranslation returns the latest revision of the translation this one
// is derived from, or nil for the tree root language.
func (s *Service) SourceTranslation(e *Event, languageID uint) (*EventTranslation, error) {
	srcLang, err := s.LangRepo.SourceLanguage(e.RegionID, languageID)
	if err != nil || srcLang == nil {
		return nil, err
	}
	return s.LatestTranslation(e.ID, srcLang.ID)
}

// IsOutdated computes the transitive staleness of (event, language) through
// the region's language tree.
func (s *Service) IsOutdated(e *Event, languageID uint) (bool, error) {
	node, err := s.chainNode(e, languageID)
	if err != nil {
		return false, err
	}
	if node == nil {
		return false, nil
	}
	return revision.Outdated(node), nil
}

// chainNode loads the revision chains from the given language up to the
// tree root and links them for the resolver. Returns nil when the event has
// no translation in the language.
func (s *Service) chainNode(e *Event, languageID uint) (revision.Node, error) {
	type loaded struct {
		revs []EventTranslation
	}
	var chains []loaded

	lang := languageID
	for depth := 0; depth < 32; depth++ {
		revs, err := s.Repo.TranslationsByLanguage(e.ID, lang)
		if err != nil {
			return nil, err
		}
		if len(revs) == 0 {
			break
		}
		chains = append(chains, loaded{revs: revs})

		srcLang, err := s.LangRepo.SourceLanguage(e.RegionID, lang)
		if err != nil {
			return nil, err
		}
		if srcLang == nil {
			break
		}
		lang = srcLang.ID
	}
	if len(chains) == 0 {
		return nil, nil
	}

	var src revision.Node
	for i := len(chains) - 1; i >= 0; i-- {
		node, ok := revision.NewChainNode(chains[i].revs, src)
		if !ok {
			return nil, nil
		}
		src = node
	}
	return src, nil
}

// ===========================
// 📆 Occurrences within a window (editorial calendar)
func (s *Service) Occurrences(eventID uint, start, end time.Time) ([]time.Time, error) {
	e, err := s.Repo.GetByID(eventID)
	if err != nil {
		return nil, errors.New("event not found")
	}
	if !end.After(start) {
		return nil, errors.New("window end must be after start")
	}
	return e.Occurrences(start, end), nil
}

// ===========================
// 🔧 helpers

func (s *Service) uniqueSlug(regionID, languageID uint, desired string, excludeEventID *uint) (string, error) {
	return utils.UniqueSlug(desired, func(slug string) (bool, error) {
		return s.Repo.SlugExists(regionID, languageID, slug, excludeEventID)
	})
}

func (s *Service) logAction(userID, regionID uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(context.Background(), &userID, &regionID, action, details, ip, status)
}

func (s *Service) invalidateCache(regionID uint) {
	utils.CacheInvalidate(context.Background(), fmt.Sprintf("api:v3:%d:*", regionID))
}
