package imprint

import (
	"time"

	"github.com/stadtportal/city-portal-backend/internal/revision"
)

// Imprint represents the imprints table. Each region has at most one
// imprint; its content lives in per-language translation revisions.
type Imprint struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RegionID  uint      `gorm:"not null;uniqueIndex" json:"region_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Translations []ImprintTranslation `gorm:"foreignKey:ImprintID" json:"-"`
}

// TableName overrides table name for Imprint
func (Imprint) TableName() string {
	return "imprints"
}

// ImprintTranslation is one revision of a region's imprint in one language.
type ImprintTranslation struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	ImprintID              uint            `gorm:"not null;index" json:"imprint_id"`
	LanguageID             uint            `gorm:"not null;index" json:"language_id"`
	Title                  string          `gorm:"type:varchar(250);not null" json:"title"`
	Status                 revision.Status `gorm:"type:varchar(9);default:DRAFT" json:"status"`
	Content                string          `gorm:"type:text" json:"content"`
	CurrentlyInTranslation bool            `gorm:"default:false" json:"currently_in_translation"`
	Version                int             `gorm:"not null;default:1" json:"version"`
	MinorEdit              bool            `gorm:"default:false" json:"minor_edit"`
	CreatorID              *uint           `json:"creator_id,omitempty"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	LastUpdated            time.Time       `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName overrides table name for ImprintTranslation
func (ImprintTranslation) TableName() string {
	return "imprint_translations"
}

// revision.Translation implementation

func (t ImprintTranslation) RevisionVersion() int            { return t.Version }
func (t ImprintTranslation) RevisionStatus() revision.Status { return t.Status }
func (t ImprintTranslation) IsMinorEdit() bool               { return t.MinorEdit }
func (t ImprintTranslation) InTranslation() bool             { return t.CurrentlyInTranslation }
func (t ImprintTranslation) LastUpdatedAt() time.Time        { return t.LastUpdated }

// ============================
// 🟡 Request DTOs

type SaveTranslationRequest struct {
	Title     string          `json:"title" binding:"required"`
	Content   string          `json:"content"`
	MinorEdit bool            `json:"minor_edit"`
	Status    revision.Status `json:"status"`
}
