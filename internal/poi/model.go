package poi

import (
	"time"

	"github.com/stadtportal/city-portal-backend/internal/revision"
)

// POI represents the pois table (a physical point of interest)
type POI struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RegionID  uint      `gorm:"not null;index" json:"region_id"`
	Address   string    `gorm:"type:varchar(250)" json:"address"`
	City      string    `gorm:"type:varchar(250)" json:"city"`
	Postcode  string    `gorm:"type:varchar(10)" json:"postcode"`
	Country   string    `gorm:"type:varchar(250)" json:"country"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IconURL   string    `gorm:"type:text" json:"icon_url,omitempty"`
	Archived  bool      `gorm:"default:false;index" json:"archived"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Translations []POITranslation `gorm:"foreignKey:POIID" json:"-"`
}

// TableName overrides table name for POI
func (POI) TableName() string {
	return "pois"
}

// POITranslation is one revision of a POI's translation in one language.
type POITranslation struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	POIID                  uint            `gorm:"column:poi_id;not null;index" json:"poi_id"`
	LanguageID             uint            `gorm:"not null;index" json:"language_id"`
	Title                  string          `gorm:"type:varchar(250);not null" json:"title"`
	Slug                   string          `gorm:"type:varchar(200);index" json:"slug"`
	Status                 revision.Status `gorm:"type:varchar(9);default:DRAFT" json:"status"`
	ShortDescription       string          `gorm:"type:varchar(250)" json:"short_description"`
	Description            string          `gorm:"type:text" json:"description"`
	CurrentlyInTranslation bool            `gorm:"default:false" json:"currently_in_translation"`
	Version                int             `gorm:"not null;default:1" json:"version"`
	MinorEdit              bool            `gorm:"default:false" json:"minor_edit"`
	CreatorID              *uint           `json:"creator_id,omitempty"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	LastUpdated            time.Time       `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName overrides table name for POITranslation
func (POITranslation) TableName() string {
	return "poi_translations"
}

// revision.Translation implementation

func (t POITranslation) RevisionVersion() int            { return t.Version }
func (t POITranslation) RevisionStatus() revision.Status { return t.Status }
func (t POITranslation) IsMinorEdit() bool               { return t.MinorEdit }
func (t POITranslation) InTranslation() bool             { return t.CurrentlyInTranslation }
func (t POITranslation) LastUpdatedAt() time.Time        { return t.LastUpdated }

// ============================
// 🟡 Request DTOs

type CreatePOIRequest struct {
	Title            string  `json:"title" binding:"required"`
	ShortDescription string  `json:"short_description"`
	Description      string  `json:"description"`
	Address          string  `json:"address" binding:"required"`
	City             string  `json:"city" binding:"required"`
	Postcode         string  `json:"postcode"`
	Country          string  `json:"country"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	IconURL          string  `json:"icon_url,omitempty"`
}

type UpdatePOIRequest struct {
	Address   string   `json:"address"`
	City      string   `json:"city"`
	Postcode  string   `json:"postcode"`
	Country   string   `json:"country"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IconURL   string   `json:"icon_url,omitempty"`
	Archived  *bool    `json:"archived,omitempty"`
}

type SaveTranslationRequest struct {
	Title            string          `json:"title" binding:"required"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	MinorEdit        bool            `json:"minor_edit"`
	Status           revision.Status `json:"status"`
}
