package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/stadtportal/city-portal-backend/internal/poi"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/utils"
)

// ===========================
// 🌍 Public API payloads

// OccurrencePayload carries the date/time block of one occurrence.
// Synthetic occurrences of recurring events have no ID of their own.
type OccurrencePayload struct {
	ID           *uint  `json:"id"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	AllDay       bool   `json:"all_day"`
	StartTime    string `json:"start_time,omitempty"`
	EndTime      string `json:"end_time,omitempty"`
	RecurrenceID *uint  `json:"recurrence_id"`
}

type AvailableLanguage struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// Payload is one event occurrence as served by the public events endpoint
type Payload struct {
	ID                 *uint                        `json:"id"`
	URL                string                       `json:"url"`
	Path               string                       `json:"path"`
	Title              string                       `json:"title"`
	ModifiedGMT        string                       `json:"modified_gmt"`
	Excerpt            string                       `json:"excerpt"`
	Content            string                       `json:"content"`
	AvailableLanguages map[string]AvailableLanguage `json:"available_languages"`
	Thumbnail          string                       `json:"thumbnail,omitempty"`
	Location           *poi.Payload                 `json:"location"`
	Event              OccurrencePayload            `json:"event"`
}

func formatTimeOfDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04:05")
}

func (s *Service) publicPath(reg *region.Region, langSlug, slug string) string {
	return fmt.Sprintf("/%s/%s/events/%s/", reg.Slug, langSlug, slug)
}

// ===========================
// 📡 Public events listing
//
// Returns all upcoming occurrences of the region's events in the given
// language: one entry per non-recurring event plus synthetic entries for
// each future occurrence of recurring events, bounded by the configured
// time span. Results are cached per (region, language, from) until the
// next publish in the region.
func (s *Service) PublicEvents(reg *region.Region, langID uint, langSlug string, from time.Time) ([]Payload, error) {
	from = dateOnly(from)
	ctx := context.Background()
	cacheKey := fmt.Sprintf("api:v3:%d:events:%d:%s", reg.ID, langID, from.Format(dateLayout))
	if raw, ok := utils.CacheGet(ctx, cacheKey); ok {
		var cached []Payload
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	events, err := s.Repo.ListUpcoming(reg.ID, from)
	if err != nil {
		return nil, err
	}

	langSlugs, err := s.regionLanguageSlugs(reg.ID)
	if err != nil {
		return nil, err
	}

	payloads := make([]Payload, 0, len(events))
	for i := range events {
		e := &events[i]
		t, err := s.PublicTranslation(e.ID, langID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}

		base, err := s.buildPayload(reg, e, t, langSlug, langSlugs)
		if err != nil {
			return nil, err
		}
		// The base occurrence is listed only while the event's own span has
		// not ended; a recurring event past its span contributes synthetic
		// occurrences only.
		if !dateOnly(e.EndDate).Before(from) {
			payloads = append(payloads, *base)
		}

		if e.IsRecurring() {
			synthetic, err := s.transformEventRecurrences(reg, e, t, base, langSlug, from)
			if err != nil {
				return nil, err
			}
			payloads = append(payloads, synthetic...)
		}
	}

	sort.SliceStable(payloads, func(i, j int) bool {
		return payloads[i].Event.StartDate < payloads[j].Event.StartDate
	})

	if encoded, err := json.Marshal(payloads); err == nil {
		utils.CacheSet(ctx, cacheKey, encoded, 10*time.Minute)
	}
	return payloads, nil
}

func (s *Service) buildPayload(reg *region.Region, e *Event, t *EventTranslation, langSlug string, langSlugs map[uint]string) (*Payload, error) {
	var location *poi.Payload
	if e.HasLocation() && s.POIRepo != nil {
		p, err := s.POIRepo.GetByID(*e.LocationID)
		if err == nil {
			location, err = s.poiPayload(p, t.LanguageID)
			if err != nil {
				return nil, err
			}
		}
	}

	available := map[string]AvailableLanguage{}
	for otherLangID, otherSlug := range langSlugs {
		if otherLangID == t.LanguageID {
			continue
		}
		other, err := s.PublicTranslation(e.ID, otherLangID)
		if err != nil {
			return nil, err
		}
		if other == nil {
			continue
		}
		path := s.publicPath(reg, otherSlug, other.Slug)
		available[otherSlug] = AvailableLanguage{
			Path: path,
			URL:  s.Cfg.WebappURL + path,
		}
	}

	path := s.publicPath(reg, langSlug, t.Slug)
	eventID := e.ID
	translationID := t.ID
	return &Payload{
		ID:                 &translationID,
		URL:                s.Cfg.WebappURL + path,
		Path:               path,
		Title:              t.Title,
		ModifiedGMT:        t.LastUpdated.UTC().Format("2006-01-02 15:04:05"),
		Excerpt:            utils.StripTags(t.Description),
		Content:            t.Description,
		AvailableLanguages: available,
		Thumbnail:          e.IconURL,
		Location:           location,
		Event: OccurrencePayload{
			ID:           &eventID,
			StartDate:    e.StartDate.Format(dateLayout),
			EndDate:      e.EndDate.Format(dateLayout),
			AllDay:       e.IsAllDay(),
			StartTime:    formatTimeOfDay(e.StartTime),
			EndTime:      formatTimeOfDay(e.EndTime),
			RecurrenceID: e.RecurrenceRuleID,
		},
	}, nil
}

// transformEventRecurrences generates one synthetic payload per future
// occurrence of a recurring event, leaving out the base occurrence which is
// already in the listing. Expansion stops once an occurrence lies further
// than the configured time span beyond max(event start, from).
func (s *Service) transformEventRecurrences(reg *region.Region, e *Event, t *EventTranslation, base *Payload, langSlug string, from time.Time) ([]Payload, error) {
	rule := e.RecurrenceRule
	if rule == nil {
		return nil, nil
	}
	if rule.RecurrenceEndDate != nil && dateOnly(*rule.RecurrenceEndDate).Before(from) {
		return nil, nil
	}

	length := dateOnly(e.EndDate).Sub(dateOnly(e.StartDate))
	lower := dateOnly(e.StartDate)
	if from.After(lower) {
		lower = from
	}
	horizon := time.Duration(s.Cfg.EventsMaxTimeSpanDays) * 24 * time.Hour

	var out []Payload
	it := rule.IterAfter(e.StartDate)
	for {
		candidate, ok := it.Next()
		if !ok {
			break
		}
		if candidate.Sub(lower) > horizon {
			break
		}
		if candidate.Equal(dateOnly(e.StartDate)) || candidate.Before(from) {
			continue
		}

		slug, err := s.uniqueSlug(reg.ID, t.LanguageID,
			fmt.Sprintf("%s-%s", t.Slug, candidate.Format(dateLayout)), &e.ID)
		if err != nil {
			return nil, err
		}

		occurrence := *base
		occurrence.ID = nil
		path := s.publicPath(reg, langSlug, slug)
		occurrence.Path = path
		occurrence.URL = s.Cfg.WebappURL + path
		occurrence.Event = OccurrencePayload{
			StartDate:    candidate.Format(dateLayout),
			EndDate:      candidate.Add(length).Format(dateLayout),
			AllDay:       e.IsAllDay(),
			StartTime:    formatTimeOfDay(e.StartTime),
			EndTime:      formatTimeOfDay(e.EndTime),
			RecurrenceID: e.RecurrenceRuleID,
		}
		out = append(out, occurrence)
	}
	return out, nil
}

func (s *Service) poiPayload(p *poi.POI, languageID uint) (*poi.Payload, error) {
	ts, err := s.POIRepo.TranslationsByLanguage(p.ID, languageID)
	if err != nil {
		return nil, err
	}
	var title, slug string
	for _, t := range ts {
		if t.Status == "PUBLIC" {
			title, slug = t.Title, t.Slug
			break
		}
	}
	if title == "" {
		return nil, nil
	}
	return &poi.Payload{
		ID:        p.ID,
		Name:      title,
		Slug:      slug,
		Address:   p.Address,
		Town:      p.City,
		Zip:       p.Postcode,
		Country:   p.Country,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Icon:      p.IconURL,
	}, nil
}

func (s *Service) regionLanguageSlugs(regionID uint) (map[uint]string, error) {
	nodes, err := s.LangRepo.ListTree(regionID)
	if err != nil {
		return nil, err
	}
	slugs := make(map[uint]string, len(nodes))
	for _, n := range nodes {
		if n.Visible && n.Language.Slug != "" {
			slugs[n.LanguageID] = n.Language.Slug
		}
	}
	return slugs, nil
}
