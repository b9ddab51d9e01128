package imprint

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/internal/revision"
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
// 📝 Save Translation
//
// The imprint row is created lazily on the first save.
func (s *Service) SaveTranslation(regionID, languageID uint, req *SaveTranslationRequest, userID uint, ip string) (*ImprintTranslation, error) {
	if _, err := s.RegionRepo.GetByID(regionID); err != nil {
		return nil, errors.New("region not found")
	}

	imp, err := s.Repo.GetByRegion(regionID)
	if err != nil {
		return nil, err
	}
	if imp == nil {
		imp = &Imprint{RegionID: regionID}
		if err := s.Repo.Create(imp); err != nil {
			return nil, err
		}
	}

	status := req.Status
	if status == "" {
		status = revision.StatusDraft
	}

	chain, err := s.Repo.TranslationsByLanguage(imp.ID, languageID)
	if err != nil {
		return nil, err
	}

	if latest, ok := revision.Latest(chain); ok &&
		latest.Status == revision.StatusAutoSave && status == revision.StatusAutoSave {
		latest.Title = req.Title
		latest.Content = req.Content
		latest.MinorEdit = req.MinorEdit
		if err := s.Repo.SaveTranslation(&latest); err != nil {
			return nil, err
		}
		return &latest, nil
	}

	version := 1
	if latest, ok := revision.Latest(chain); ok {
		version = latest.Version + 1
	}

	t := &ImprintTranslation{
		ImprintID:  imp.ID,
		LanguageID: languageID,
		Title:      req.Title,
		Status:     status,
		Content:    req.Content,
		Version:    version,
		MinorEdit:  req.MinorEdit,
		CreatorID:  &userID,
	}

	if status == revision.StatusPublic {
		err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.DemotePublic(tx, imp.ID, languageID); err != nil {
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

	s.logAction(userID, regionID, "IMPRINT_TRANSLATION_SAVED", map[string]interface{}{
		"language_id": languageID,
		"version":     version,
		"status":      status,
	}, ip, "success")
	return t, nil
}

func (s *Service) LatestTranslation(regionID, languageID uint) (*ImprintTranslation, error) {
	imp, err := s.Repo.GetByRegion(regionID)
	if err != nil || imp == nil {
		return nil, err
	}
	chain, err := s.Repo.TranslationsByLanguage(imp.ID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.Latest(chain); ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Service) PublicTranslation(regionID, languageID uint) (*ImprintTranslation, error) {
	imp, err := s.Repo.GetByRegion(regionID)
	if err != nil || imp == nil {
		return nil, err
	}
	chain, err := s.Repo.TranslationsByLanguage(imp.ID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.LatestPublic(chain); ok {
		return &t, nil
	}
	return nil, nil
}

// ===========================
// 🌍 Public imprint

// Payload is the imprint as served by the public endpoint
type Payload struct {
	ID          uint   `json:"id"`
	URL         string `json:"url"`
	Path        string `json:"path"`
	Title       string `json:"title"`
	ModifiedGMT string `json:"modified_gmt"`
	Content     string `json:"content"`
	Language    string `json:"language"`
}

// PublicImprint resolves the region's imprint in the requested language,
// falling back to the region's default language when the requested one has
// no public revision. Returns nil when neither has one.
func (s *Service) PublicImprint(reg *region.Region, langID uint, langSlug string) (*Payload, error) {
	t, err := s.PublicTranslation(reg.ID, langID)
	if err != nil {
		return nil, err
	}
	servedSlug := langSlug
	if t == nil && langID != reg.DefaultLanguageID {
		t, err = s.PublicTranslation(reg.ID, reg.DefaultLanguageID)
		if err != nil {
			return nil, err
		}
		if t != nil {
			if lang, err := s.LangRepo.GetByID(reg.DefaultLanguageID); err == nil {
				servedSlug = lang.Slug
			}
		}
	}
	if t == nil {
		return nil, nil
	}

	path := "/" + reg.Slug + "/" + servedSlug + "/imprint/"
	return &Payload{
		ID:          t.ImprintID,
		URL:         s.Cfg.WebappURL + path,
		Path:        path,
		Title:       t.Title,
		ModifiedGMT: t.LastUpdated.UTC().Format("2006-01-02 15:04:05"),
		Content:     t.Content,
		Language:    servedSlug,
	}, nil
}

func (s *Service) logAction(userID, regionID uint, action string, details map[string]interface{}, ip, status string) {
	if s.AuditSvc == nil {
		return
	}
	_ = s.AuditSvc.LogAction(context.Background(), &userID, &regionID, action, details, ip, status)
}
