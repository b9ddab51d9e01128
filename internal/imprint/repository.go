package imprint

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(i *Imprint) error {
	return r.DB.Create(i).Error
}

// GetByRegion returns the region's imprint, or nil when none was created yet
func (r *Repository) GetByRegion(regionID uint) (*Imprint, error) {
	var i Imprint
	err := r.DB.Where("region_id = ?", regionID).First(&i).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *Repository) Delete(i *Imprint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("imprint_id = ?", i.ID).Delete(&ImprintTranslation{}).Error; err != nil {
			return err
		}
		return tx.Delete(i).Error
	})
}

// ===========================
// 📝 Translations

func (r *Repository) CreateTranslation(t *ImprintTranslation) error {
	return r.DB.Create(t).Error
}

func (r *Repository) SaveTranslation(t *ImprintTranslation) error {
	return r.DB.Save(t).Error
}

// TranslationsByLanguage returns the revision chain of (imprint, language),
// newest first.
func (r *Repository) TranslationsByLanguage(imprintID, languageID uint) ([]ImprintTranslation, error) {
	var ts []ImprintTranslation
	err := r.DB.
		Where("imprint_id = ? AND language_id = ?", imprintID, languageID).
		Order("version DESC").
		Find(&ts).Error
	return ts, err
}

// DemotePublic flips all public revisions of (imprint, language) to draft
func (r *Repository) DemotePublic(tx *gorm.DB, imprintID, languageID uint) error {
	return tx.Model(&ImprintTranslation{}).
		Where("imprint_id = ? AND language_id = ? AND status = ?", imprintID, languageID, "PUBLIC").
		Update("status", "DRAFT").Error
}
