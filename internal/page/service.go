package page

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/stadtportal/city-portal-backend/config"
	"github.com/stadtportal/city-portal-backend/internal/auditlog"
	"github.com/stadtportal/city-portal-backend/internal/language"
	"github.com/stadtportal/city-portal-backend/internal/region"
	"github.com/stadtportal/city-portal-backend/internal/revision"
	"github.com/stadtportal/city-portal-backend/utils"
)

const maxTreeDepth = 32

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
// 🎯 Create Page
func (s *Service) CreatePage(req *CreatePageRequest, regionID uint, creatorID uint, ip string) (*Page, error) {
	reg, err := s.RegionRepo.GetByID(regionID)
	if err != nil {
		return nil, errors.New("region not found")
	}

	if req.ParentID != nil {
		parent, err := s.Repo.GetByID(*req.ParentID)
		if err != nil || parent.RegionID != regionID {
			return nil, errors.New("parent page not found in region")
		}
	}

	position := 0
	if req.Position != nil {
		position = *req.Position
	}
	p := &Page{
		RegionID: regionID,
		ParentID: req.ParentID,
		Position: position,
		IconURL:  req.IconURL,
	}
	if err := s.Repo.Create(p); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(regionID, reg.DefaultLanguageID, req.Title, nil)
	if err != nil {
		return nil, err
	}
	t := &PageTranslation{
		PageID:     p.ID,
		LanguageID: reg.DefaultLanguageID,
		Title:      req.Title,
		Slug:       slug,
		Status:     revision.StatusDraft,
		Content:    req.Content,
		Version:    1,
		CreatorID:  &creatorID,
	}
	if err := s.Repo.CreateTranslation(t); err != nil {
		return nil, err
	}

	s.logAction(creatorID, regionID, "PAGE_CREATED", map[string]interface{}{
		"page_id": p.ID,
		"title":   req.Title,
	}, ip, "success")
	return p, nil
}

// ===========================
// 🟠 Update Page (move within the tree, archive)
func (s *Service) UpdatePage(id uint, req *UpdatePageRequest, userID uint, ip string) (*Page, error) {
	p, err := s.Repo.GetByID(id)
	if err != nil {
		return nil, errors.New("page not found")
	}

	if req.ParentID != nil {
		if err := s.checkMove(p, *req.ParentID); err != nil {
			return nil, err
		}
		p.ParentID = req.ParentID
	}
	if req.Position != nil {
		p.Position = *req.Position
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
	s.logAction(userID, p.RegionID, "PAGE_UPDATED", map[string]interface{}{"page_id": p.ID}, ip, "success")
	s.invalidateCache(p.RegionID)
	return p, nil
}

// checkMove rejects moves that would create a cycle or cross regions
func (s *Service) checkMove(p *Page, newParentID uint) error {
	if newParentID == p.ID {
		return errors.New("page cannot be its own parent")
	}
	parent, err := s.Repo.GetByID(newParentID)
	if err != nil {
		return errors.New("parent page not found")
	}
	if parent.RegionID != p.RegionID {
		return errors.New("parent page not found in region")
	}
	cursor := parent
	for depth := 0; depth < maxTreeDepth && cursor.ParentID != nil; depth++ {
		if *cursor.ParentID == p.ID {
			return errors.New("move would create a cycle in the page tree")
		}
		cursor, err = s.Repo.GetByID(*cursor.ParentID)
		if err != nil {
			return err
		}
	}
	return nil
}

// ===========================
// 📝 Save Translation
func (s *Service) SaveTranslation(pageID, languageID uint, req *SaveTranslationRequest, userID uint, ip string) (*PageTranslation, error) {
	p, err := s.Repo.GetByID(pageID)
	if err != nil {
		return nil, errors.New("page not found")
	}

	status := req.Status
	if status == "" {
		status = revision.StatusDraft
	}

	chain, err := s.Repo.TranslationsByLanguage(pageID, languageID)
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
	slug := ""
	if latest, ok := revision.Latest(chain); ok {
		version = latest.Version + 1
		slug = latest.Slug
	}
	if slug == "" {
		slug, err = s.uniqueSlug(p.RegionID, languageID, req.Title, &pageID)
		if err != nil {
			return nil, err
		}
	}

	t := &PageTranslation{
		PageID:     pageID,
		LanguageID: languageID,
		Title:      req.Title,
		Slug:       slug,
		Status:     status,
		Content:    req.Content,
		Version:    version,
		MinorEdit:  req.MinorEdit,
		CreatorID:  &userID,
	}

	if status == revision.StatusPublic {
		err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.DemotePublic(tx, pageID, languageID); err != nil {
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

	s.logAction(userID, p.RegionID, "PAGE_TRANSLATION_SAVED", map[string]interface{}{
		"page_id":     pageID,
		"language_id": languageID,
		"version":     version,
		"status":      status,
	}, ip, "success")

	if status == revision.StatusPublic {
		s.invalidateCache(p.RegionID)
	}
	return t, nil
}

// ===========================
// 🔍 Revision resolution

func (s *Service) LatestTranslation(pageID, languageID uint) (*PageTranslation, error) {
	chain, err := s.Repo.TranslationsByLanguage(pageID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.Latest(chain); ok {
		return &t, nil
	}
	return nil, nil
}

func (s *Service) PublicTranslation(pageID, languageID uint) (*PageTranslation, error) {
	chain, err := s.Repo.TranslationsByLanguage(pageID, languageID)
	if err != nil {
		return nil, err
	}
	if t, ok := revision.LatestPublic(chain); ok {
		return &t, nil
	}
	return nil, nil
}

// IsOutdated computes the transitive staleness of (page, language) through
// the region's language tree.
func (s *Service) IsOutdated(p *Page, languageID uint) (bool, error) {
	var chains [][]PageTranslation

	lang := languageID
	for depth := 0; depth < maxTreeDepth; depth++ {
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

// ===========================
// 🌍 Public pages

type ParentRef struct {
	ID   *uint  `json:"id"`
	Path string `json:"path,omitempty"`
	URL  string `json:"url,omitempty"`
}

// Payload is one page as served by the public pages endpoint
type Payload struct {
	ID          uint      `json:"id"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	Title       string    `json:"title"`
	ModifiedGMT string    `json:"modified_gmt"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Parent      ParentRef `json:"parent"`
	Order       int       `json:"order"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
}

// PublicPages lists all pages of the region with a public translation in
// the language, in tree order. Paths are hierarchical: the slugs of all
// ancestors that are themselves public in the language, joined.
func (s *Service) PublicPages(reg *region.Region, langID uint, langSlug string) ([]Payload, error) {
	pages, err := s.Repo.ListByRegion(reg.ID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]*Page, len(pages))
	for i := range pages {
		byID[pages[i].ID] = &pages[i]
	}

	slugCache := map[uint]string{}
	publicSlug := func(pageID uint) (string, error) {
		if slug, ok := slugCache[pageID]; ok {
			return slug, nil
		}
		t, err := s.PublicTranslation(pageID, langID)
		if err != nil {
			return "", err
		}
		slug := ""
		if t != nil {
			slug = t.Slug
		}
		slugCache[pageID] = slug
		return slug, nil
	}

	pagePath := func(p *Page, slug string) (string, error) {
		segments := []string{slug}
		cursor := p
		for depth := 0; depth < maxTreeDepth && cursor.ParentID != nil; depth++ {
			parent, ok := byID[*cursor.ParentID]
			if !ok {
				break
			}
			parentSlug, err := publicSlug(parent.ID)
			if err != nil {
				return "", err
			}
			if parentSlug != "" {
				segments = append([]string{parentSlug}, segments...)
			}
			cursor = parent
		}
		path := fmt.Sprintf("/%s/%s", reg.Slug, langSlug)
		for _, seg := range segments {
			path += "/" + seg
		}
		return path + "/", nil
	}

	payloads := make([]Payload, 0, len(pages))
	for i := range pages {
		p := &pages[i]
		t, err := s.PublicTranslation(p.ID, langID)
		if err != nil {
			return nil, err
		}
		if t == nil {
			continue
		}
		path, err := pagePath(p, t.Slug)
		if err != nil {
			return nil, err
		}

		parent := ParentRef{}
		if p.ParentID != nil {
			if pp, ok := byID[*p.ParentID]; ok {
				parentSlug, err := publicSlug(pp.ID)
				if err != nil {
					return nil, err
				}
				if parentSlug != "" {
					parentPath, err := pagePath(pp, parentSlug)
					if err != nil {
						return nil, err
					}
					id := pp.ID
					parent = ParentRef{ID: &id, Path: parentPath, URL: s.Cfg.WebappURL + parentPath}
				}
			}
		}

		payloads = append(payloads, Payload{
			ID:          p.ID,
			URL:         s.Cfg.WebappURL + path,
			Path:        path,
			Title:       t.Title,
			ModifiedGMT: t.LastUpdated.UTC().Format("2006-01-02 15:04:05"),
			Excerpt:     utils.StripTags(t.Content),
			Content:     t.Content,
			Parent:      parent,
			Order:       p.Position,
			Thumbnail:   p.IconURL,
		})
	}

	sort.SliceStable(payloads, func(i, j int) bool {
		return payloads[i].Path < payloads[j].Path
	})
	return payloads, nil
}

// PublicPageBySlug resolves a single page by the slug of its public
// translation in the language. Returns nil when no public page matches.
func (s *Service) PublicPageBySlug(reg *region.Region, langID uint, langSlug, slug string) (*Payload, error) {
	payloads, err := s.PublicPages(reg, langID, langSlug)
	if err != nil {
		return nil, err
	}
	suffix := "/" + slug + "/"
	for i := range payloads {
		if strings.HasSuffix(payloads[i].Path, suffix) {
			return &payloads[i], nil
		}
	}
	return nil, nil
}

// ===========================
// 🔧 helpers

func (s *Service) uniqueSlug(regionID, languageID uint, desired string, excludePageID *uint) (string, error) {
	return utils.UniqueSlug(desired, func(slug string) (bool, error) {
		return s.Repo.SlugExists(regionID, languageID, slug, excludePageID)
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
