package service

import (
	"context"
	"time"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
)

// DefectService manages nonconformance records after their automatic
// creation by the checklist state machine.
type DefectService struct {
	repo *repository.DefectRepository
}

func NewDefectService(repo *repository.DefectRepository) *DefectService {
	return &DefectService{repo: repo}
}

func (s *DefectService) ListDefects(ctx context.Context, status, category, severity string) ([]entity.DefectLog, error) {
	return s.repo.List(ctx, repository.DefectFilter{
		Status:   status,
		Category: category,
		Severity: severity,
	})
}

func (s *DefectService) GetDefect(ctx context.Context, id string) (*entity.DefectLog, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateDefectInput carries the QUALITY/ADMIN review fields.
type UpdateDefectInput struct {
	Status   *string `json:"status"`
	Severity *string `json:"severity"`
	Notes    *string `json:"notes"`
}

// UpdateDefect applies a review edit. Moving to RESOLVED or CLOSED stamps
// the resolving user and time.
func (s *DefectService) UpdateDefect(ctx context.Context, id, userID string, input *UpdateDefectInput) (*entity.DefectLog, error) {
	defect, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Status != nil {
		defect.Status = *input.Status
	}
	if input.Severity != nil {
		defect.Severity = *input.Severity
	}
	if input.Notes != nil {
		defect.Notes = *input.Notes
	}

	if input.Status != nil &&
		(*input.Status == entity.DefectStatusResolved || *input.Status == entity.DefectStatusClosed) {
		now := time.Now()
		defect.ResolvedByID = &userID
		defect.ResolvedAt = &now
	}

	if err := s.repo.Update(ctx, defect); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// DefectStats is the aggregate view for the quality dashboard.
type DefectStats struct {
	Summary struct {
		TotalOpen     int64 `json:"total_open"`
		TotalInReview int64 `json:"total_in_review"`
		TotalResolved int64 `json:"total_resolved"`
		CriticalCount int64 `json:"critical_count"`
		HighCount     int64 `json:"high_count"`
	} `json:"summary"`
	ByStatus   []repository.StatusCount    `json:"defects_by_status"`
	ByCategory []repository.StatusCount    `json:"defects_by_category"`
	BySeverity []repository.StatusCount    `json:"defects_by_severity"`
	DailyTrend []repository.DailyCount     `json:"daily_trend"`
	Recent     []entity.DefectLog          `json:"recent_defects"`
	TopBoxes   []repository.BoxDefectCount `json:"top_defect_boxes"`
}

// GetStats assembles defect statistics: status/category/severity breakdowns,
// a 7-day trend and the boxes accumulating the most open defects.
func (s *DefectService) GetStats(ctx context.Context) (*DefectStats, error) {
	stats := &DefectStats{}
	openStatuses := []string{entity.DefectStatusOpen, entity.DefectStatusInReview}

	var err error
	if stats.Summary.TotalOpen, err = s.repo.CountWhere(ctx, "status = ?", entity.DefectStatusOpen); err != nil {
		return nil, err
	}
	if stats.Summary.TotalInReview, err = s.repo.CountWhere(ctx, "status = ?", entity.DefectStatusInReview); err != nil {
		return nil, err
	}
	if stats.Summary.TotalResolved, err = s.repo.CountWhere(ctx, "status IN ?", []string{entity.DefectStatusResolved, entity.DefectStatusClosed}); err != nil {
		return nil, err
	}
	if stats.Summary.CriticalCount, err = s.repo.CountWhere(ctx, "severity = ? AND status IN ?", entity.SeverityCritical, openStatuses); err != nil {
		return nil, err
	}
	if stats.Summary.HighCount, err = s.repo.CountWhere(ctx, "severity = ? AND status IN ?", entity.SeverityHigh, openStatuses); err != nil {
		return nil, err
	}

	if stats.ByStatus, err = s.repo.CountByStatus(ctx); err != nil {
		return nil, err
	}
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)
	if stats.ByCategory, err = s.repo.CountByCategorySince(ctx, thirtyDaysAgo); err != nil {
		return nil, err
	}
	if stats.BySeverity, err = s.repo.CountOpenBySeverity(ctx); err != nil {
		return nil, err
	}
	sevenDaysAgo := time.Now().AddDate(0, 0, -7)
	if stats.DailyTrend, err = s.repo.DailyTrendSince(ctx, sevenDaysAgo); err != nil {
		return nil, err
	}
	if stats.Recent, err = s.repo.ListRecent(ctx, 10); err != nil {
		return nil, err
	}
	if stats.TopBoxes, err = s.repo.TopDefectBoxes(ctx, 5); err != nil {
		return nil, err
	}

	return stats, nil
}
