package page

import (
	"time"

	"github.com/stadtportal/city-portal-backend/internal/revision"
)

// Page represents the pages table. Pages form a tree per region; the root
// pages have no parent. Ordering among siblings is by Position.
type Page struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RegionID  uint      `gorm:"not null;index" json:"region_id"`
	ParentID  *uint     `gorm:"index" json:"parent_id"`
	Parent    *Page     `gorm:"foreignKey:ParentID" json:"-"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	IconURL   string    `gorm:"type:text" json:"icon_url,omitempty"`
	Archived  bool      `gorm:"default:false;index" json:"archived"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Translations []PageTranslation `gorm:"foreignKey:PageID" json:"-"`
}

// TableName overrides table name for Page
func (Page) TableName() string {
	return "pages"
}

// PageTranslation is one revision of a page's translation in one language.
type PageTranslation struct {
	ID                     uint            `gorm:"primaryKey" json:"id"`
	PageID                 uint            `gorm:"not null;index" json:"page_id"`
	LanguageID             uint            `gorm:"not null;index" json:"language_id"`
	Title                  string          `gorm:"type:varchar(250);not null" json:"title"`
	Slug                   string          `gorm:"type:varchar(200);index" json:"slug"`
	Status                 revision.Status `gorm:"type:varchar(9);default:DRAFT" json:"status"`
	Content                string          `gorm:"type:text" json:"content"`
	CurrentlyInTranslation bool            `gorm:"default:false" json:"currently_in_translation"`
	Version                int             `gorm:"not null;default:1" json:"version"`
	MinorEdit              bool            `gorm:"default:false" json:"minor_edit"`
	CreatorID              *uint           `json:"creator_id,omitempty"`
	CreatedAt              time.Time       `gorm:"autoCreateTime" json:"created_at"`
	LastUpdated            time.Time       `gorm:"autoUpdateTime" json:"last_updated"`
}

// TableName overrides table name for PageTranslation
func (PageTranslation) TableName() string {
	return "page_translations"
}

// revision.Translation implementation

func (t PageTranslation) RevisionVersion() int            { return t.Version }
func (t PageTranslation) RevisionStatus() revision.Status { return t.Status }
func (t PageTranslation) IsMinorEdit() bool               { return t.MinorEdit }
func (t PageTranslation) InTranslation() bool             { return t.CurrentlyInTranslation }
func (t PageTranslation) LastUpdatedAt() time.Time        { return t.LastUpdated }

// ============================
// 🟡 Request DTOs

type CreatePageRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id,omitempty"`
	Position *int   `json:"position,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
}

type UpdatePageRequest struct {
	ParentID *uint  `json:"parent_id,omitempty"`
	Position *int   `json:"position,omitempty"`
	IconURL  string `json:"icon_url,omitempty"`
	Archived *bool  `json:"archived,omitempty"`
}

type SaveTranslationRequest struct {
	Title     string          `json:"title" binding:"required"`
	Content   string          `json:"content"`
	MinorEdit bool            `json:"minor_edit"`
	Status    revision.Status `json:"status"`
}
