package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roomledger/rentals_backend/utils"
	"gorm.io/gorm"
)

// LeaseTemplate is a reusable HTML document with {{Token}} placeholders.
// At most one template is the default among active ones; the exclusivity is
// enforced by clearing the flag on all others whenever a template is created
// or updated with the flag set.
type LeaseTemplate struct {
	ID          int    `gorm:"primary_key" json:"id"`
	Name        string `gorm:"size:150;not null" json:"name"`
	Body        string `gorm:"type:longtext;not null" json:"body"`
	Description string `gorm:"size:500" json:"description"`

	IsActive  bool `gorm:"not null;default:true" json:"is_active"`
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	// VariableDocs is a JSON map documenting the placeholder tokens the
	// renderer supplies. Stored as text to avoid JSON column requirements.
	VariableDocs string `gorm:"type:longtext" json:"variable_docs"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewLeaseTemplate struct {
	Name        string `json:"name" validate:"required,max=150"`
	Body        string `json:"body" validate:"required"`
	Description string `json:"description" validate:"max=500"`
	IsActive    *bool  `json:"isActive"`
	IsDefault   bool   `json:"isDefault"`
}

// TemplateDB is the gorm-backed template store.
type TemplateDB struct {
	db *gorm.DB
}

func NewTemplateDB(db *gorm.DB) *TemplateDB {
	return &TemplateDB{db: db}
}

func (s *TemplateDB) Get(ctx context.Context, id int) (*LeaseTemplate, error) {
	var template LeaseTemplate
	if err := s.db.WithContext(ctx).First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: lease template %d", utils.ErrorRecordNotFound, id)
		}
		return nil, err
	}
	return &template, nil
}

func (s *TemplateDB) ListActive(ctx context.Context) ([]*LeaseTemplate, error) {
	var templates []*LeaseTemplate
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("id").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// Add inserts the template; when it is flagged default the flag is cleared
// on every other template in the same transaction.
func (s *TemplateDB) Add(ctx context.Context, template *LeaseTemplate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return err
		}
		if template.IsDefault {
			return clearDefaultExcept(tx, template.ID)
		}
		return nil
	})
}

func (s *TemplateDB) Update(ctx context.Context, template *LeaseTemplate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(template).Error; err != nil {
			return err
		}
		if template.IsDefault {
			return clearDefaultExcept(tx, template.ID)
		}
		return nil
	})
}

func (s *TemplateDB) Delete(ctx context.Context, id int) error {
	result := s.db.WithContext(ctx).Delete(&LeaseTemplate{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: lease template %d", utils.ErrorRecordNotFound, id)
	}
	return nil
}

// Default returns the active default template, or ErrorRecordNotFound when
// none is flagged (the workflow layer auto-creates the built-in one then).
func (s *TemplateDB) Default(ctx context.Context) (*LeaseTemplate, error) {
	var template LeaseTemplate
	err := s.db.WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		Order("id").
		First(&template).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: default lease template", utils.ErrorRecordNotFound)
		}
		return nil, err
	}
	return &template, nil
}

func clearDefaultExcept(tx *gorm.DB, id int) error {
	return tx.Model(&LeaseTemplate{}).
		Where("id <> ? AND is_default = ?", id, true).
		Update("is_default", false).Error
}
