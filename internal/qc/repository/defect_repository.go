package repository

import (
	"context"
	"time"

	"github.com/Odiway/battrack/internal/qc/entity"
	"gorm.io/gorm"
)

type DefectRepository struct {
	db *gorm.DB
}

func NewDefectRepository(db *gorm.DB) *DefectRepository {
	return &DefectRepository{db: db}
}

// DefectFilter narrows List results.
type DefectFilter struct {
	Status   string
	Category string
	Severity string
}

func (r *DefectRepository) FindByID(ctx context.Context, id string) (*entity.DefectLog, error) {
	var defect entity.DefectLog
	err := r.db.WithContext(ctx).
		Preload("BatteryBox").
		Preload("ChecklistAnswer").
		Preload("ChecklistAnswer.Question").
		Preload("ChecklistAnswer.AnsweredBy").
		Preload("ResolvedBy").
		First(&defect, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &defect, nil
}

func (r *DefectRepository) List(ctx context.Context, filter DefectFilter) ([]entity.DefectLog, error) {
	query := r.db.WithContext(ctx).
		Preload("BatteryBox").
		Preload("ChecklistAnswer").
		Preload("ChecklistAnswer.Question").
		Preload("ChecklistAnswer.AnsweredBy").
		Preload("ResolvedBy")

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}

	var defects []entity.DefectLog
	err := query.Order("created_at DESC").Find(&defects).Error
	return defects, err
}

func (r *DefectRepository) Update(ctx context.Context, defect *entity.DefectLog) error {
	return r.db.WithContext(ctx).Save(defect).Error
}

// StatusCount is one row of a grouped count.
type StatusCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

func (r *DefectRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Select("status as key, count(*) as count").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *DefectRepository) CountByCategorySince(ctx context.Context, since time.Time) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Select("category as key, count(*) as count").
		Where("created_at >= ?", since).
		Group("category").
		Order("count DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *DefectRepository) CountOpenBySeverity(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Select("severity as key, count(*) as count").
		Where("status IN ?", []string{entity.DefectStatusOpen, entity.DefectStatusInReview}).
		Group("severity").
		Scan(&rows).Error
	return rows, err
}

func (r *DefectRepository) CountWhere(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).Where(query, args...).Count(&count).Error
	return count, err
}

func (r *DefectRepository) ListRecent(ctx context.Context, limit int) ([]entity.DefectLog, error) {
	var defects []entity.DefectLog
	err := r.db.WithContext(ctx).
		Preload("BatteryBox").
		Preload("ChecklistAnswer").
		Preload("ChecklistAnswer.AnsweredBy").
		Order("created_at DESC").
		Limit(limit).
		Find(&defects).Error
	return defects, err
}

// DailyCount is one day of the defect trend.
type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

func (r *DefectRepository) DailyTrendSince(ctx context.Context, since time.Time) ([]DailyCount, error) {
	var rows []DailyCount
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Select("to_char(created_at, 'YYYY-MM-DD') as date, count(*) as count").
		Where("created_at >= ?", since).
		Group("date").
		Order("date ASC").
		Scan(&rows).Error
	return rows, err
}

// BoxDefectCount pairs a battery box with its open defect count.
type BoxDefectCount struct {
	SerialNumber string `json:"serial_number"`
	Count        int64  `json:"count"`
}

func (r *DefectRepository) TopDefectBoxes(ctx context.Context, limit int) ([]BoxDefectCount, error) {
	var rows []BoxDefectCount
	err := r.db.WithContext(ctx).Model(&entity.DefectLog{}).
		Select("battery_boxes.serial_number as serial_number, count(*) as count").
		Joins("JOIN battery_boxes ON battery_boxes.id = defect_logs.battery_box_id").
		Where("defect_logs.status IN ?", []string{entity.DefectStatusOpen, entity.DefectStatusInReview}).
		Group("battery_boxes.serial_number").
		Order("count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
