package language

import (
	"time"
)

// Language represents the languages table. Languages are global; their
// arrangement into translation source trees is per region (LanguageTreeNode).
type Language struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Slug          string    `gorm:"type:varchar(8);uniqueIndex;not null" json:"code"`
	BCP47Tag      string    `gorm:"type:varchar(35);uniqueIndex;not null" json:"bcp47_tag"`
	NativeName    string    `gorm:"type:varchar(250);not null" json:"native_name"`
	EnglishName   string    `gorm:"type:varchar(250);not null" json:"english_name"`
	TextDirection string    `gorm:"type:varchar(13);default:LEFT_TO_RIGHT" json:"text_direction"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// LanguageTreeNode represents one node of a region's language tree. Every
// node except the root has a parent whose language is the source language
// for translations into this node's language. (region, language) is unique,
// so source language lookups are unambiguous.
type LanguageTreeNode struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	RegionID   uint              `gorm:"not null;index;uniqueIndex:idx_ltn_region_language" json:"region_id"`
	LanguageID uint              `gorm:"not null;uniqueIndex:idx_ltn_region_language" json:"language_id"`
	Language   Language          `gorm:"foreignKey:LanguageID" json:"language"`
	ParentID   *uint             `gorm:"index" json:"parent_id"`
	Parent     *LanguageTreeNode `gorm:"foreignKey:ParentID" json:"-"`
	Visible    bool              `gorm:"default:true" json:"visible"`
	CreatedAt  time.Time         `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides table name for LanguageTreeNode
func (LanguageTreeNode) TableName() string {
	return "language_tree_nodes"
}

// ============================
// 🟡 Request DTOs

type CreateLanguageRequest struct {
	Slug          string `json:"code" binding:"required,min=2,max=8"`
	BCP47Tag      string `json:"bcp47_tag" binding:"required,min=2,max=35"`
	NativeName    string `json:"native_name" binding:"required"`
	EnglishName   string `json:"english_name" binding:"required"`
	TextDirection string `json:"text_direction,omitempty"`
}

type CreateTreeNodeRequest struct {
	LanguageID uint  `json:"language_id" binding:"required"`
	ParentID   *uint `json:"parent_id,omitempty"`
	Visible    *bool `json:"visible,omitempty"`
}
