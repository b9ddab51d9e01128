package region

import (
	"time"

	"github.com/stadtportal/city-portal-backend/internal/language"
)

// Region represents the regions table. All content is scoped to a region.
type Region struct {
	ID                uint               `gorm:"primaryKey" json:"id"`
	Name              string             `gorm:"type:varchar(200);not null" json:"name"`
	Slug              string             `gorm:"type:varchar(200);uniqueIndex;not null" json:"slug"`
	DefaultLanguageID uint               `gorm:"not null" json:"default_language_id"`
	DefaultLanguage   language.Language  `gorm:"foreignKey:DefaultLanguageID" json:"default_language"`
	IsActive          bool               `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

// ============================
// 🟡 Create Region Request
type CreateRegionRequest struct {
	Name              string `json:"name" binding:"required"`
	Slug              string `json:"slug" binding:"required"`
	DefaultLanguageID uint   `json:"default_language_id" binding:"required"`
}

// ============================
// 🟠 Update Region Request
type UpdateRegionRequest struct {
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active,omitempty"`
}
