package service

import (
	"strings"

	"github.com/Odiway/battrack/internal/config"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services bundles the application layer.
type Services struct {
	Auth       *AuthService
	User       *UserService
	Process    *ProcessService
	Template   *TemplateService
	BatteryBox *BatteryBoxService
	Checklist  *ChecklistService
	Defect     *DefectService
	Report     *ReportService
	Dashboard  *DashboardService
}

// NewServices wires the service layer. rdb and store may be nil; the services
// that use them degrade to uncached / non-archiving behavior.
func NewServices(repos *repository.Repositories, rdb *redis.Client, store *minio.Client, cfg *config.Config, logger *zap.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg),
		User:       NewUserService(repos.User),
		Process:    NewProcessService(repos.Process),
		Template:   NewTemplateService(repos.Template),
		BatteryBox: NewBatteryBoxService(repos.BatteryBox, repos.Process),
		Checklist:  NewChecklistService(repos.BatteryBox),
		Defect:     NewDefectService(repos.Defect),
		Report:     NewReportService(repos.BatteryBox, store, cfg.MinIO.Bucket, logger),
		Dashboard:  NewDashboardService(repos.BatteryBox, repos.Process, rdb, logger),
	}
}

// newID returns a 32-char hex identifier, the primary key format shared by
// all entities.
func newID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
