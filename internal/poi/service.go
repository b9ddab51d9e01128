package poi

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/internal/revision"
	"github.com/stadtportal/city-portal-backend/utils"
)

type Service struct {
	Repo       *Repository
	RegionRepo *region.Repository
	LangRepo   *language.Repository
	AuditSvc   auditlog.Service
	Cfg        *config.Config
}

func NewService(r *Repository, regionRepo *region.Repository, langRepo *language.Repository, auditSvc auditlog.Service, cfg *config.Config) *Service {
	return &Service{
		Repo:       r,
		RegionRepo: regionRepo,
		LangRepo:   langRepo,
		AuditSvc:   auditSvc,
		Cfg:        cfg,
	}
}

// ===========================
// 🎯 Create POI
func (s *Service) CreatePOI(req *CreatePOIRequest, regionID uint, creatorID uint, ip string) (*POI, error) {
	reg, err := s.RegionRepo.GetByID(regionID)
	if err != nil {
		return nil, errors.New("region not found")
	}

	p := &POI{
		RegionID:  regionID,
		Address:   req.Address,
		City:      req.City,
		Postcode:  req.Postcode,
		Country:   req.Country,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IconURL:   req.IconURL,
	}
	if err := s.Repo.Create(p); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(regionID, reg.DefaultLanguageID, req.Title, nil)
	if err != nil {
		return nil, err
	}
	t := &POITranslation{
		POIID:            p.ID,
		LanguageID:       reg.DefaultLanguageID,
		Title:            req.Title,
		Slug:             slug,
		Status:           revision.StatusDraft,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Version:          1,
		CreatorID:        &creatorID,
	}
	if err := s.Repo.CreateTranslation(t); err != nil {
		return nil, err
	}

	s.logAction(creatorID, regionID, "POI_CREATED", map[string]interface{}{
		"poi_id": p.ID,
		"title":  req.Title,
	}, ip, "success")
	return p, nil
}

// ===========================
// 🟠 Update POI
func (s *Service) UpdatePOI(id uint, req *UpdatePOIRequest, userID uint, ip string) (*POI, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, errors.New("location not found")
	}

	if req.Address != "" {
		p.Address = req.Address
	}
	if req.City != "" {
		p.City = req.City
	}
	if req.Postcode != "" {
		p.Postcode = req.Postcode
	}
	if req.Country != "" {
		p.Country = req.Country
	}
	if req.Latitude != nil {
		p.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = *req.Longitude
	}
	if req.IconURL != "" {
		p.IconURL = req.IconURL
	}
	if req.Archived != nil {
		p.Archived = *req.Archived
	}

	if err := s.Repo.Save(p); err != nil {
		return nil, err
	}
	s.logAction(userID, p.RegionID, "POI_UPDATED", map[string]interface{}{"poi_id": p.ID}, ip, "success")
	return p, nil
}

// ===========================
// 📝 Save Translation
func (s *Service) SaveTranslation(poiID, languageID uint, req *SaveTranslationRequest, userID uint, ip string) (*POITranslation, error) {
	p, err := s.Repo.GetByID(poiID)
	if err != nil {
		return nil, errors.New("location not found")
	}

	status := req.Status
	if status == "" {
		status = revision.StatusDraft
	}

	chain, err := s.Repo.TranslationsByLanguage(poiID, languageID)
	if err != nil {
		return nil, err
	}

	if latest, ok := revision.Latest(chain); ok &&
		latest.Status == revision.StatusAutoSave && status == revision.StatusAutoSave {
		latest.Title = req.Title
		latest.ShortDescription = req.ShortDescription
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
		slug, err = s.uniqueSlug(p.RegionID, languageID, req.Title, &poiID)
		if err != nil {
			return nil, err
		}
	}

	t := &POITranslation{
		POIID:            poiID,
		LanguageID:       languageID,
		Title:            req.Title,
		Slug:             slug,
		Status:           status,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
		Version:          version,
		MinorEdit:        req.MinorEdit,
		CreatorID:        &userID,
	}

	if status == revision.StatusPublic {
		err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.DemotePublic(tx, poiID, languageID); err != nil {
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

	s.logAction(userID, p.RegionID, "POI_TRANSLATION_SAVED", map[string]interface{}{
		"poi_id":      poiID,
		"language_id": languageID,
		"version":     version,
		"status":      status,
	}, ip, "success")
	return t, nil
}

// LatestTranslation returns the newest revision regardless of status
func (s *Service) LatestTranslation(poiID, languageID uint) (*POITranslation, error) {
	chain, err := s.Repo.TranslationsByLanguage(poiID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.Latest(chain); ok {
		return &t, nil
	}
	return nil, nil
}

// IsOutdated computes the transitive staleness of (poi, language) through
// the region's language tree.
func (s *Service) IsOutdated(p *POI, languageID uint) (bool, error) {
	var chains [][]POITranslation

	lang := languageID
	for depth := 0; depth < 32; depth++ {
		revs, err := s.Repo.TranslationsByLanguage(p.ID, lang)
		if err != nil {
			return false, err
		}
		if len(revs) == 0 {
			break
		}
		chains = append(chains, revs)

		srcLang, err := s.LangRepo.SourceLanguage(p.RegionID, lang)
		if err != nil {
			return false, err
		}
		if srcLang == nil {
			break
		}
		lang = srcLang.ID
	}
	if len(chains) == 0 {
		return false, nil
	}

	var src revision.Node
	for i := len(chains) - 1; i >= 0; i-- {
		node, ok := revision.NewChainNode(chains[i], src)
		if !ok {
			return false, nil
		}
		src = node
	}
	return revision.Outdated(src), nil
}

// PublicTranslation returns the currently served revision or nil
func (s *Service) PublicTranslation(poiID, languageID uint) (*POITranslation, error) {
	chain, err := s.Repo.TranslationsByLanguage(poiID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.LatestPublic(chain); ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Service) uniqueSlug(regionID, languageID uint, desired string, excludePOIID *uint) (string, error) {
	return utils.UniqueSlug(desired, func(slug string) (bool, error) {
		return s.Repo.SlugExists(regionID, languageID, slug, excludePOIID)
	})
}

func (s *Service) logAction(userID, regionID uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(context.Background(), &userID, &regionID, action, details, ip, status)
}

// ===========================
// 🌍 Public payload

// Payload is the location shape embedded in public event responses and
// served by the public locations endpoint.
type Payload struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Slug      string  `json:"slug"`
	Address   string  `json:"address"`
	Town      string  `json:"town"`
	Zip       string  `json:"zip"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Icon      string  `json:"icon,omitempty"`
}

// PublicPayload assembles the payload for one POI in one language, or nil
// when no public translation exists.
func (s *Service) PublicPayload(p *POI, languageID uint) (*Payload, error) {
	t, err := s.PublicTranslation(p.ID, languageID)
	if err != nil || t == nil {
		return nil, err
	}
	return &Payload{
		ID:        p.ID,
		Name:      t.Title,
		Slug:      t.Slug,
		Address:   p.Address,
		Town:      p.City,
		Zip:       p.Postcode,
		Country:   p.Country,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Icon:      p.IconURL,
	}, nil
}

// PublicLocations lists all locations of a region that have a public
// translation in the language.
func (s *Service) PublicLocations(regionID, languageID uint) ([]Payload, error) {
	pois, err := s.Repo.ListByRegion(regionID)
	if err != nil {
		return nil, err
	}
	payloads := make([]Payload, 0, len(pois))
	for i := range pois {
		pl, err := s.PublicPayload(&pois[i], languageID)
		if err != nil {
			return nil, err
		}
		if pl != nil {
			payloads = append(payloads, *pl)
		}
	}
	return payloads, nil
}
