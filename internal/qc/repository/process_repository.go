package repository

import (
	"context"

	"github.com/Odiway/battrack/internal/qc/entity"
	"gorm.io/gorm"
)

type ProcessRepository struct {
	db *gorm.DB
}

func NewProcessRepository(db *gorm.DB) *ProcessRepository {
	return &ProcessRepository{db: db}
}

func (r *ProcessRepository) Create(ctx context.Context, process *entity.Process) error {
	return r.db.WithContext(ctx).Create(process).Error
}

func (r *ProcessRepository) FindByID(ctx context.Context, id string) (*entity.Process, error) {
	var process entity.Process
	err := r.db.WithContext(ctx).First(&process, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &process, nil
}

func (r *ProcessRepository) ListActive(ctx context.Context) ([]entity.Process, error) {
	var processes []entity.Process
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("display_order ASC").
		Find(&processes).Error
	return processes, err
}

func (r *ProcessRepository) Update(ctx context.Context, process *entity.Process) error {
	return r.db.WithContext(ctx).Save(process).Error
}

// Deactivate soft-deletes a process definition.
func (r *ProcessRepository) Deactivate(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Model(&entity.Process{}).
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

func (r *ProcessRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Process{}).Where("active = ?", true).Count(&count).Error
	return count, err
}
