package repository

import (
	"context"

	"github.com/Odiway/battrack/internal/qc/entity"
	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, template *entity.ChecklistTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *TemplateRepository) FindByID(ctx context.Context, id string) (*entity.ChecklistTemplate, error) {
	var template entity.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		First(&template, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &template, nil
}

func (r *TemplateRepository) ListActive(ctx context.Context) ([]entity.ChecklistTemplate, error) {
	var templates []entity.ChecklistTemplate
	err := r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Where("active = ?", true).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}

func (r *TemplateRepository) Update(ctx context.Context, template *entity.ChecklistTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}

// ReplaceQuestions swaps a template's question set atomically.
// Historical answers keep their question rows only when questions are not
// replaced, so callers replace questions on templates not yet in use.
func (r *TemplateRepository) ReplaceQuestions(ctx context.Context, templateID string, questions []entity.ChecklistQuestion) error {
	tx := r.db.WithContext(ctx).Begin()
	if err := tx.Where("checklist_template_id = ?", templateID).Delete(&entity.ChecklistQuestion{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(questions) > 0 {
		if err := tx.Create(&questions).Error; err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit().Error
}

// Deactivate soft-deletes a template; existing answers stay untouched.
func (r *TemplateRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&entity.ChecklistTemplate{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
