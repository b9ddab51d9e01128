package reports

import (
	"errors"

	"github.com/stadtportal/city-portal-backend/internal/event"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/page"
	"github.com/stadtportal/city-portal-backend/internal/poi"
	"github.com/stadtportal/city-portal-backend/internal/region"
)

// Service computes translation coverage reports over a region's content.
type Service struct {
	EventSvc   *event.Service
	PageSvc    *page.Service
	POISvc     *poi.Service
	RegionRepo *region.Repository
	LangRepo   *language.Repository
	Exporter   Exporter
}

func NewService(eventSvc *event.Service, pageSvc *page.Service, poiSvc *poi.Service, regionRepo *region.Repository, langRepo *language.Repository) *Service {
	return &Service{
		EventSvc:   eventSvc,
		PageSvc:    pageSvc,
		POISvc:     poiSvc,
		RegionRepo: regionRepo,
		LangRepo:   langRepo,
		Exporter:   NewExporter(),
	}
}

// itemState classifies one (item, language) pair
type itemState int

const (
	stateMissing itemState = iota
	stateInTranslation
	stateOutdated
	stateUpToDate
)

// TranslationCoverage builds the coverage report for one region: one row
// per visible language and content type.
func (s *Service) TranslationCoverage(regionID uint) (*CoverageReport, error) {
	reg, err := s.RegionRepo.GetByID(regionID)
	if err != nil {
		return nil, errors.New("region not found")
	}
	nodes, err := s.LangRepo.ListTree(regionID)
	if err != nil {
		return nil, err
	}

	events, err := s.EventSvc.Repo.ListByRegion(regionID)
	if err != nil {
		return nil, err
	}
	pages, err := s.PageSvc.Repo.ListByRegion(regionID)
	if err != nil {
		return nil, err
	}
	pois, err := s.POISvc.Repo.ListByRegion(regionID)
	if err != nil {
		return nil, err
	}

	report := &CoverageReport{RegionID: regionID, RegionName: reg.Name}
	for _, node := range nodes {
		if !node.Visible {
			continue
		}
		langID := node.LanguageID

		eventRow := newRow(ContentTypeEvents, node)
		for i := range events {
			state, err := s.eventState(&events[i], langID)
			if err != nil {
				return nil, err
			}
			eventRow.add(state)
		}

		pageRow := newRow(ContentTypePages, node)
		for i := range pages {
			state, err := s.pageState(&pages[i], langID)
			if err != nil {
				return nil, err
			}
			pageRow.add(state)
		}

		poiRow := newRow(ContentTypeLocations, node)
		for i := range pois {
			state, err := s.poiState(&pois[i], langID)
			if err != nil {
				return nil, err
			}
			poiRow.add(state)
		}

		report.Rows = append(report.Rows, eventRow, pageRow, poiRow)
	}
	return report, nil
}

func newRow(contentType string, node language.LanguageTreeNode) CoverageRow {
	return CoverageRow{
		ContentType:  contentType,
		LanguageSlug: node.Language.Slug,
		LanguageName: node.Language.EnglishName,
	}
}

func (r *CoverageRow) add(state itemState) {
	r.Total++
	switch state {
	case stateMissing:
		r.Missing++
	case stateInTranslation:
		r.Translated++
		r.InTranslation++
	case stateOutdated:
		r.Translated++
		r.Outdated++
	case stateUpToDate:
		r.Translated++
		r.UpToDate++
	}
}

func (s *Service) eventState(e *event.Event, langID uint) (itemState, error) {
	latest, err := s.EventSvc.LatestTranslation(e.ID, langID)
	if err != nil {
		return stateMissing, err
	}
	if latest == nil {
		return stateMissing, nil
	}
	if latest.CurrentlyInTranslation {
		return stateInTranslation, nil
	}
	outdated, err := s.EventSvc.IsOutdated(e, langID)
	if err != nil {
		return stateMissing, err
	}
	if outdated {
		return stateOutdated, nil
	}
	return stateUpToDate, nil
}

func (s *Service) pageState(p *page.Page, langID uint) (itemState, error) {
	latest, err := s.PageSvc.LatestTranslation(p.ID, langID)
	if err != nil {
		return stateMissing, err
	}
	if latest == nil {
		return stateMissing, nil
	}
	if latest.CurrentlyInTranslation {
		return stateInTranslation, nil
	}
	outdated, err := s.PageSvc.IsOutdated(p, langID)
	if err != nil {
		return stateMissing, err
	}
	if outdated {
		return stateOutdated, nil
	}
	return stateUpToDate, nil
}

func (s *Service) poiState(p *poi.POI, langID uint) (itemState, error) {
	latest, err := s.POISvc.LatestTranslation(p.ID, langID)
	if err != nil {
		return stateMissing, err
	}
	if latest == nil {
		return stateMissing, nil
	}
	if latest.CurrentlyInTranslation {
		return stateInTranslation, nil
	}
	outdated, err := s.POISvc.IsOutdated(p, langID)
	if err != nil {
		return stateMissing, err
	}
	if outdated {
		return stateOutdated, nil
	}
	return stateUpToDate, nil
}
