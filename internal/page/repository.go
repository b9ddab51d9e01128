package page

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(p *Page) error {
	return r.DB.Create(p).Error
}

func (r *Repository) GetByID(id uint) (*Page, error) {
	var p Page
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Save(p *Page) error {
	return r.DB.Save(p).Error
}

// ListByRegion returns all non-archived pages of a region in tree order
// (parents before children, siblings by position).
func (r *Repository) ListByRegion(regionID uint) ([]Page, error) {
	var pages []Page
	err := r.DB.
		Where("region_id = ? AND archived = FALSE", regionID).
		Order("parent_id ASC NULLS FIRST, position ASC, id ASC").
		Find(&pages).Error
	return pages, err
}

// ListChildren returns the direct children of a page, siblings by position
func (r *Repository) ListChildren(pageID uint) ([]Page, error) {
	var pages []Page
	err := r.DB.
		Where("parent_id = ? AND archived = FALSE", pageID).
		Order("position ASC, id ASC").
		Find(&pages).Error
	return pages, err
}

func (r *Repository) Delete(p *Page) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var childCount int64
		if err := tx.Model(&Page{}).Where("parent_id = ?", p.ID).Count(&childCount).Error; err != nil {
			return err
		}
		if childCount > 0 {
			return gorm.ErrForeignKeyViolated
		}
		if err := tx.Where("page_id = ?", p.ID).Delete(&PageTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}

// ===========================
// 📝 Translations

func (r *Repository) CreateTranslation(t *PageTranslation) error {
	return r.DB.Create(t).Error
}

func (r *Repository) SaveTranslation(t *PageTranslation) error {
	return r.DB.Save(t).Error
}

// TranslationsByLanguage returns the revision chain of (page, language),
// newest first.
func (r *Repository) TranslationsByLanguage(pageID, languageID uint) ([]PageTranslation, error) {
	var ts []PageTranslation
	err := r.DB.
		Where("page_id = ? AND language_id = ?", pageID, languageID).
		Order("version DESC").
		Find(&ts).Error
	return ts, err
}

// DemotePublic flips all public revisions of (page, language) to draft
func (r *Repository) DemotePublic(tx *gorm.DB, pageID, languageID uint) error {
	return tx.Model(&PageTranslation{}).
		Where("page_id = ? AND language_id = ? AND status = ?", pageID, languageID, "PUBLIC").
		Update("status", "DRAFT").Error
}

// SlugExists checks slug uniqueness within (region, language)
func (r *Repository) SlugExists(regionID, languageID uint, slug string, excludePageID *uint) (bool, error) {
	query := r.DB.Model(&PageTranslation{}).
		Joins("JOIN pages ON pages.id = page_translations.page_id").
		Where("pages.region_id = ? AND page_translations.language_id = ? AND page_translations.slug = ?",
			regionID, languageID, slug)
	if excludePageID != nil {
		query = query.Where("page_translations.page_id <> ?", *excludePageID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
