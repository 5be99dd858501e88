package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/studyplan-api/internal/config"
	"github.com/yourusername/studyplan-api/internal/handler"
	"github.com/yourusername/studyplan-api/internal/middleware"
	"github.com/yourusername/studyplan-api/internal/pkg/logger"
	"github.com/yourusername/studyplan-api/internal/pkg/metrics"
	pgRepo "github.com/yourusername/studyplan-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/studyplan-api/internal/repository/redis"
	"github.com/yourusername/studyplan-api/internal/service"
	"github.com/yourusername/studyplan-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		// Логгера ещё нет: его режим задаётся конфигом
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("config loaded", "path", configPath)

	// Контекст приложения: отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString(), cfg.Log.Level == "debug")
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if err := database.MigrateDB(db, cfg.Database.MigrationsDir, log); err != nil {
		log.Fatal("failed to migrate database", "error", err)
	}
	sqlDB, err := database.GetSQLDB(db)
	if err != nil {
		log.Fatal("failed to get sql.DB", "error", err)
	}
	defer sqlDB.Close()

	// Redis
	redisClient, err := database.NewUniversalRedisClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	// Репозитории
	perfRepo := pgRepo.NewPerformanceRepo(db)
	profileRepo := pgRepo.NewProfileRepo(db)
	achievementRepo := pgRepo.NewAchievementRepo(db)
	completionRepo := pgRepo.NewTaskCompletionRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Fatal("failed to initialize CacheRepo", "error", err)
	}

	m := metrics.New()

	// Отправка писем: Resend при включённом дайджесте, иначе no-op
	var sender service.EmailSender = service.NewNoopEmailSender(log)
	if cfg.Digest.Enabled {
		resendSender, err := service.NewResendEmailSender(cfg.Digest.ResendAPIKey, cfg.Digest.From)
		if err != nil {
			log.Fatal("failed to initialize Resend sender", "error", err)
		}
		sender = resendSender
		log.Info("weekly digest enabled", "from", cfg.Digest.From)
	}

	// Сервисы
	studyService := service.NewStudyService(perfRepo, profileRepo, achievementRepo, completionRepo, cacheRepo, cfg.Planner, m, log)
	digestService := service.NewDigestService(studyService, cacheRepo, sender, m, log)

	// Обработчики
	loc, err := cfg.Planner.Location()
	if err != nil {
		log.Fatal("invalid planner timezone", "error", err)
	}
	plannerHandler := handler.NewPlannerHandler(studyService, digestService, cfg.Planner.DefaultDaysToExam, loc, log)

	isProduction := gin.Mode() == gin.ReleaseMode

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(log), middleware.Metrics(m))

	// В production не доверяем прокси-заголовкам (защита от IP spoofing)
	trusted := []string{"127.0.0.1", "::1"}
	if isProduction {
		trusted = nil
	}
	if err := router.SetTrustedProxies(trusted); err != nil {
		log.Warn("failed to set trusted proxies", "error", err)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		hctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok", "redis": "ok"}
		code := http.StatusOK
		if err := sqlDB.PingContext(hctx); err != nil {
			status["database"], status["status"], code = err.Error(), "degraded", http.StatusServiceUnavailable
		}
		if err := redisClient.Ping(hctx).Err(); err != nil {
			status["redis"], status["status"], code = err.Error(), "degraded", http.StatusServiceUnavailable
		}
		c.JSON(code, status)
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	var limit gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limit = middleware.NewRateLimiter(redisClient, log).Limit(middleware.RateLimitConfig{
			MaxRequests: cfg.RateLimit.MaxRequests,
			Window:      cfg.RateLimit.Window,
			KeyPrefix:   "ratelimit:api",
		})
	}
	handler.RegisterRoutes(router.Group("/api"), plannerHandler, limit)

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exited")
}
