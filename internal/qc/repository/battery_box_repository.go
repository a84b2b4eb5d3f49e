package repository

import (
	"context"

	"github.com/Odiway/battrack/internal/qc/entity"
	"gorm.io/gorm"
)

type BatteryBoxRepository struct {
	db *gorm.DB
}

func NewBatteryBoxRepository(db *gorm.DB) *BatteryBoxRepository {
	return &BatteryBoxRepository{db: db}
}

func (r *BatteryBoxRepository) DB() *gorm.DB {
	return r.db
}

// BoxFilter narrows List results.
type BoxFilter struct {
	Status string
	Search string
}

// Create inserts a battery box together with its process instances.
func (r *BatteryBoxRepository) Create(ctx context.Context, box *entity.BatteryBox) error {
	return r.db.WithContext(ctx).Create(box).Error
}

func (r *BatteryBoxRepository) FindByID(ctx context.Context, id string) (*entity.BatteryBox, error) {
	var box entity.BatteryBox
	err := r.db.WithContext(ctx).
		Preload("Processes", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Processes.Process").
		Preload("Processes.ChecklistTemplate").
		Preload("Processes.ChecklistTemplate.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Processes.Answers").
		Preload("Processes.Answers.Question").
		Preload("Processes.Answers.AnsweredBy").
		First(&box, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &box, nil
}

func (r *BatteryBoxRepository) List(ctx context.Context, filter BoxFilter) ([]entity.BatteryBox, error) {
	query := r.db.WithContext(ctx).
		Preload("Processes", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Processes.Process").
		Preload("Processes.ChecklistTemplate")

	if filter.Status != "" && filter.Status != "ALL" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		query = query.Where("serial_number ILIKE ?", "%"+filter.Search+"%")
	}

	var boxes []entity.BatteryBox
	err := query.Order("created_at DESC").Find(&boxes).Error
	return boxes, err
}

func (r *BatteryBoxRepository) Update(ctx context.Context, box *entity.BatteryBox) error {
	return r.db.WithContext(ctx).Save(box).Error
}

// Delete removes a box and everything hanging off it.
func (r *BatteryBoxRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var instanceIDs []string
		if err := tx.Model(&entity.BatteryBoxProcess{}).
			Where("battery_box_id = ?", id).
			Pluck("id", &instanceIDs).Error; err != nil {
			return err
		}
		if err := tx.Where("battery_box_id = ?", id).Delete(&entity.DefectLog{}).Error; err != nil {
			return err
		}
		if len(instanceIDs) > 0 {
			if err := tx.Where("battery_box_process_id IN ?", instanceIDs).Delete(&entity.ChecklistAnswer{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("battery_box_id = ?", id).Delete(&entity.BatteryBoxProcess{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&entity.BatteryBox{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *BatteryBoxRepository) CountBySerial(ctx context.Context, serial string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.BatteryBox{}).
		Where("serial_number = ?", serial).Count(&count).Error
	return count, err
}

// FindProcess loads one process instance by (box, process) with its template,
// questions and answers.
func (r *BatteryBoxRepository) FindProcess(ctx context.Context, boxID, processID string) (*entity.BatteryBoxProcess, error) {
	var instance entity.BatteryBoxProcess
	err := r.db.WithContext(ctx).
		Preload("BatteryBox").
		Preload("Process").
		Preload("ChecklistTemplate").
		Preload("ChecklistTemplate.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Answers").
		Preload("Answers.Question").
		Preload("Answers.AnsweredBy").
		First(&instance, "battery_box_id = ? AND process_id = ?", boxID, processID).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &instance, nil
}

func (r *BatteryBoxRepository) UpdateProcess(ctx context.Context, instance *entity.BatteryBoxProcess) error {
	return r.db.WithContext(ctx).Save(instance).Error
}

// CountByStatus groups battery boxes by status.
func (r *BatteryBoxRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.BatteryBox{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// ProcessStatusCounts returns process-instance counts keyed by status.
func (r *BatteryBoxRepository) ProcessStatusCounts(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&entity.BatteryBoxProcess{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// ListRecent returns the newest boxes with their processes preloaded.
func (r *BatteryBoxRepository) ListRecent(ctx context.Context, limit int) ([]entity.BatteryBox, error) {
	var boxes []entity.BatteryBox
	err := r.db.WithContext(ctx).
		Preload("Processes", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC")
		}).
		Preload("Processes.Process").
		Order("created_at DESC").
		Limit(limit).
		Find(&boxes).Error
	return boxes, err
}
