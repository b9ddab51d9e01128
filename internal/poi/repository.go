package poi

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(p *POI) error {
	return r.DB.Create(p).Error
}

func (r *Repository) GetByID(id uint) (*POI, error) {
	var p POI
	if err := r.DB.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) Save(p *POI) error {
	return r.DB.Save(p).Error
}

func (r *Repository) ListByRegion(regionID uint) ([]POI, error) {
	var pois []POI
	err := r.DB.
		Where("region_id = ? AND archived = FALSE", regionID).
		Order("id ASC").
		Find(&pois).Error
	return pois, err
}

func (r *Repository) Delete(p *POI) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("poi_id = ?", p.ID).Delete(&POITranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(p).Error
	})
}

// ===========================
// 📝 Translations

func (r *Repository) CreateTranslation(t *POITranslation) error {
	return r.DB.Create(t).Error
}

func (r *Repository) SaveTranslation(t *POITranslation) error {
	return r.DB.Save(t).Error
}

// TranslationsByLanguage returns the revision chain of (poi, language),
// newest first.
func (r *Repository) TranslationsByLanguage(poiID, languageID uint) ([]POITranslation, error) {
	var ts []POITranslation
	err := r.DB.
		Where("poi_id = ? AND language_id = ?", poiID, languageID).
		Order("version DESC").
		Find(&ts).Error
	return ts, err
}

// DemotePublic flips all public revisions of (poi, language) to draft
func (r *Repository) DemotePublic(tx *gorm.DB, poiID, languageID uint) error {
	return tx.Model(&POITranslation{}).
		Where("poi_id = ? AND language_id = ? AND status = ?", poiID, languageID, "PUBLIC").
		Update("status", "DRAFT").Error
}

// SlugExists checks slug uniqueness within (region, language)
func (r *Repository) SlugExists(regionID, languageID uint, slug string, excludePOIID *uint) (bool, error) {
	query := r.DB.Model(&POITranslation{}).
		Joins("JOIN pois ON pois.id = poi_translations.poi_id").
		Where("pois.region_id = ? AND poi_translations.language_id = ? AND poi_translations.slug = ?",
			regionID, languageID, slug)
	if excludePOIID != nil {
		query = query.Where("poi_translations.poi_id <> ?", *excludePOIID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
