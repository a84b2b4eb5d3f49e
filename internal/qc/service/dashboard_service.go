package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	dashboardCacheKey = "dashboard:overview"
	dashboardCacheTTL = 60 * time.Second
)

// DashboardService assembles the production overview. Results are cached in
// Redis for a minute; without Redis every request hits the database.
type DashboardService struct {
	boxRepo     *repository.BatteryBoxRepository
	processRepo *repository.ProcessRepository
	rdb         *redis.Client
	logger      *zap.Logger
}

func NewDashboardService(boxRepo *repository.BatteryBoxRepository, processRepo *repository.ProcessRepository, rdb *redis.Client, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		boxRepo:     boxRepo,
		processRepo: processRepo,
		rdb:         rdb,
		logger:      logger,
	}
}

// DashboardStats is the production overview payload.
type DashboardStats struct {
	TotalBatteryBoxes int64               `json:"total_battery_boxes"`
	InProgressBoxes   int64               `json:"in_progress_boxes"`
	CompletedBoxes    int64               `json:"completed_boxes"`
	TotalProcesses    int64               `json:"total_processes"`
	RecentBatteryBox  []entity.BatteryBox `json:"recent_battery_boxes"`
	ProcessStats      map[string]int64    `json:"process_stats"`
}

func (s *DashboardService) GetOverview(ctx context.Context) (*DashboardStats, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	stats := &DashboardStats{}
	var err error

	if stats.TotalBatteryBoxes, err = s.boxRepo.CountByStatus(ctx, ""); err != nil {
		return nil, err
	}
	if stats.InProgressBoxes, err = s.boxRepo.CountByStatus(ctx, entity.BoxStatusInProgress); err != nil {
		return nil, err
	}
	if stats.CompletedBoxes, err = s.boxRepo.CountByStatus(ctx, entity.BoxStatusCompleted); err != nil {
		return nil, err
	}
	if stats.TotalProcesses, err = s.processRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.RecentBatteryBox, err = s.boxRepo.ListRecent(ctx, 5); err != nil {
		return nil, err
	}
	if stats.ProcessStats, err = s.boxRepo.ProcessStatusCounts(ctx); err != nil {
		return nil, err
	}

	s.toCache(ctx, stats)
	return stats, nil
}

func (s *DashboardService) fromCache(ctx context.Context) *DashboardStats {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, dashboardCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("dashboard cache read", zap.Error(err))
		}
		return nil
	}
	var stats DashboardStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		s.logger.Warn("dashboard cache decode", zap.Error(err))
		return nil
	}
	return &stats
}

func (s *DashboardService) toCache(ctx context.Context, stats *DashboardStats) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, dashboardCacheKey, raw, dashboardCacheTTL).Err(); err != nil {
		s.logger.Warn("dashboard cache write", zap.Error(err))
	}
}
