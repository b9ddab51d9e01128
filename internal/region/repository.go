package region

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

func (r *Repository) Create(region *Region) error {
	return r.DB.Create(region).Error
}

func (r *Repository) GetByID(id uint) (*Region, error) {
	var region Region
	if err := r.DB.Preload("DefaultLanguage").First(&region, id).Error; err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *Repository) GetBySlug(slug string) (*Region, error) {
	var region Region
	err := r.DB.Preload("DefaultLanguage").Where("slug = ?", slug).First(&region).Error
	if err != nil {
		return nil, err
	}
	return &region, nil
}

func (r *Repository) List() ([]Region, error) {
	var regions []Region
	err := r.DB.Preload("DefaultLanguage").Order("name ASC").Find(&regions).Error
	return regions, err
}

// ListActive returns the regions served by the public API
func (r *Repository) ListActive() ([]Region, error) {
	var regions []Region
	err := r.DB.Preload("DefaultLanguage").Where("is_active = TRUE").Order("name ASC").Find(&regions).Error
	return regions, err
}

func (r *Repository) Update(region *Region) error {
	return r.DB.Save(region).Error
}
