package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Odiway/battrack/internal/config"
	"github.com/Odiway/battrack/internal/middleware"
	"github.com/Odiway/battrack/internal/qc/entity"
	"github.com/Odiway/battrack/internal/qc/handler"
	"github.com/Odiway/battrack/internal/qc/repository"
	"github.com/Odiway/battrack/internal/qc/service"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting battrack service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Process{},
		&entity.ChecklistTemplate{},
		&entity.ChecklistQuestion{},
		&entity.BatteryBox{},
		&entity.BatteryBoxProcess{},
		&entity.ChecklistAnswer{},
		&entity.DefectLog{},
	); err != nil {
		zapLogger.Fatal("AutoMigrate failed", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)
	if rdb != nil {
		pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			zapLogger.Warn("Redis unreachable, continuing without cache/revocation", zap.Error(err))
			rdb = nil
		}
		cancel()
	}

	store := initMinIO(cfg.MinIO, zapLogger)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, rdb, store, cfg, zapLogger)
	handlers := handler.NewHandlers(services)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, services, cfg)

	srv := newHTTPServer(cfg.Server, router)

	go func() {
		zapLogger.Info("HTTP server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exited")
}

func registerRoutes(r *gin.Engine, h *handler.Handlers, svc *service.Services, cfg *config.Config) {
	r.GET("/health/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/health/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    Version,
			"build_time": BuildTime,
		})
	})

	isRevoked := func(c *gin.Context, jti string) bool {
		return svc.Auth.IsTokenRevoked(c.Request.Context(), jti)
	}

	v1 := r.Group("/api/v1")
	{
		v1.POST("/auth/login", h.Auth.Login)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(cfg.JWT.Secret, isRevoked))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// SSE stream (token via query param).
			authorized.GET("/events", h.SSE.Stream)

			authorized.GET("/dashboard", h.Dashboard.Overview)

			boxes := authorized.Group("/battery-boxes")
			{
				boxes.GET("", h.BatteryBox.List)
				boxes.POST("", h.BatteryBox.Create)
				boxes.GET("/:id", h.BatteryBox.Get)
				boxes.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.BatteryBox.Delete)
				boxes.POST("/:id/processes/:processId/start", h.BatteryBox.StartProcess)
				boxes.POST("/:id/processes/:processId/answers", h.BatteryBox.SubmitAnswers)
				boxes.GET("/:id/processes/:processId/export", h.BatteryBox.Export)
			}

			processes := authorized.Group("/processes")
			{
				processes.GET("", h.Process.List)
				processes.GET("/:id", h.Process.Get)
				processes.POST("", middleware.RequireRole(entity.RoleAdmin), h.Process.Create)
				processes.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), h.Process.Update)
				processes.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Process.Delete)
			}

			templates := authorized.Group("/checklist-templates")
			{
				templates.GET("", h.Template.List)
				templates.GET("/:id", h.Template.Get)
				templates.POST("", middleware.RequireRole(entity.RoleAdmin), h.Template.Create)
				templates.PUT("/:id", middleware.RequireRole(entity.RoleAdmin), h.Template.Update)
				templates.DELETE("/:id", middleware.RequireRole(entity.RoleAdmin), h.Template.Delete)
			}

			defects := authorized.Group("/defects")
			{
				defects.GET("", h.Defect.List)
				defects.GET("/stats", h.Defect.Stats)
				defects.GET("/:id", h.Defect.Get)
				defects.PATCH("/:id", middleware.RequireRole(entity.RoleQuality), h.Defect.Update)
			}

			users := authorized.Group("/users")
			users.Use(middleware.RequireRole(entity.RoleAdmin))
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.PUT("/:id", h.User.Update)
			}
		}
	}
}

func newHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     handler,
		ReadTimeout: cfg.ReadTimeout,
		// WriteTimeout must stay 0: /api/v1/events holds the response open
		// indefinitely and a write deadline would sever every stream.
		WriteTimeout: 0,
	}
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	if cfg.Host == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// initMinIO returns nil when no endpoint is configured; report archiving is
// then disabled.
func initMinIO(cfg config.MinIOConfig, zapLogger *zap.Logger) *minio.Client {
	if cfg.Endpoint == "" {
		return nil
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		zapLogger.Warn("MinIO init failed, report archiving disabled", zap.Error(err))
		return nil
	}
	return client
}
