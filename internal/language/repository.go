package language

import (
	"gorm.io/gorm"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// ===========================
// 🔍 Languages

func (r *Repository) Create(l *Language) error {
	return r.DB.Create(l).Error
}

func (r *Repository) GetByID(id uint) (*Language, error) {
	var l Language
	if err := r.DB.First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) GetBySlug(slug string) (*Language, error) {
	var l Language
	if err := r.DB.Where("slug = ?", slug).First(&l).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) List() ([]Language, error) {
	var langs []Language
	err := r.DB.Order("bcp47_tag ASC").Find(&langs).Error
	return langs, err
}

// ===========================
// 🌳 Language tree

func (r *Repository) CreateTreeNode(n *LanguageTreeNode) error {
	return r.DB.Create(n).Error
}

// GetTreeNode returns the node for (region, language), with the language and
// parent node preloaded. Unique per region and language.
func (r *Repository) GetTreeNode(regionID, languageID uint) (*LanguageTreeNode, error) {
	var node LanguageTreeNode
	err := r.DB.
		Preload("Language").
		Preload("Parent").
		Preload("Parent.Language").
		Where("region_id = ? AND language_id = ?", regionID, languageID).
		First(&node).Error
	if err != nil {
		return nil, err
	}
	return &node, nil
}

// ListTree returns all nodes of a region's language tree, root first.
func (r *Repository) ListTree(regionID uint) ([]LanguageTreeNode, error) {
	var nodes []LanguageTreeNode
	err := r.DB.
		Preload("Language").
		Where("region_id = ?", regionID).
		Order("parent_id ASC NULLS FIRST, id ASC").
		Find(&nodes).Error
	return nodes, err
}

// SourceLanguage returns the language of the parent tree node for the given
// (region, language), or nil if the language is the root of the tree.
func (r *Repository) SourceLanguage(regionID, languageID uint) (*Language, error) {
	node, err := r.GetTreeNode(regionID, languageID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if node.Parent == nil {
		return nil, nil
	}
	return &node.Parent.Language, nil
}
