package app

import (
	"context"
	"net/http"
	"os/signal"
	"physics_edu_backend/internal/config"
	"physics_edu_backend/internal/controller"
	"physics_edu_backend/internal/repository"
	"physics_edu_backend/internal/service"
	"physics_edu_backend/pkg/configwatcher"
	"physics_edu_backend/pkg/database"
	"physics_edu_backend/pkg/logger"
	"physics_edu_backend/pkg/monitoring"
	"physics_edu_backend/pkg/security"
	"physics_edu_backend/pkg/tracing"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services *services
	tracer   *sdktrace.TracerProvider
}

type repositories struct {
	user              *repository.UserRepository
	profile           *repository.ProfileRepository
	notification      *repository.NotificationRepository
	preference        *repository.PreferenceRepository
	grade             *repository.GradeRepository
	topic             *repository.TopicRepository
	resource          *repository.TopicResourceRepository
	progress          *repository.ProgressRepository
	studySession      *repository.StudySessionRepository
	learningPath      *repository.LearningPathRepository
	quiz              *repository.QuizRepository
	attempt           *repository.AttemptRepository
	simulation        *repository.SimulationRepository
	simulationSession *repository.SimulationSessionRepository
	achievement       *repository.AchievementRepository
	analytics         *repository.AnalyticsRepository
}

type services struct {
	auth            *service.AuthService
	user            *service.UserService
	notification    *service.NotificationService
	catalog         *service.CatalogService
	catalogAdmin    *service.CatalogAdminService
	media           *service.MediaService
	quiz            *service.QuizService
	quizAdmin       *service.QuizAdminService
	simulation      *service.SimulationService
	simulationAdmin *service.SimulationAdminService
	progress        *service.ProgressService
	achievement     *service.AchievementService
	analytics       *service.AnalyticsService
	report          *service.ReportService
	reminder        *service.ReminderService
	seed            *service.SeedService
}

type controllers struct {
	health       *controller.HealthController
	auth         *controller.AuthController
	user         *controller.UserController
	notification *controller.NotificationController
	catalog      *controller.CatalogController
	quiz         *controller.QuizController
	simulation   *controller.SimulationController
	progress     *controller.ProgressController
	achievement  *controller.AchievementController
	admin        *controller.AdminController
	report       *controller.ReportController
}

func initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:              repository.NewUserRepository(db),
		profile:           repository.NewProfileRepository(db),
		notification:      repository.NewNotificationRepository(db),
		preference:        repository.NewPreferenceRepository(db),
		grade:             repository.NewGradeRepository(db),
		topic:             repository.NewTopicRepository(db),
		resource:          repository.NewTopicResourceRepository(db),
		progress:          repository.NewProgressRepository(db),
		studySession:      repository.NewStudySessionRepository(db),
		learningPath:      repository.NewLearningPathRepository(db),
		quiz:              repository.NewQuizRepository(db),
		attempt:           repository.NewAttemptRepository(db),
		simulation:        repository.NewSimulationRepository(db),
		simulationSession: repository.NewSimulationSessionRepository(db),
		achievement:       repository.NewAchievementRepository(db),
		analytics:         repository.NewAnalyticsRepository(db),
	}
}

func initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	cache := service.NewCatalogCache(rdb, time.Duration(cfg.Redis.CacheTTLMinutes)*time.Minute)
	store := service.NewStorageFromConfig(context.Background(), &cfg.Storage)

	s.auth = service.NewAuthService(db, repos.user, repos.profile, repos.preference, cfg)
	s.user = service.NewUserService(repos.user, repos.profile, repos.notification, repos.grade)
	s.notification = service.NewNotificationService(repos.notification, repos.preference)

	s.catalog = service.NewCatalogService(repos.grade, repos.topic, repos.quiz, repos.simulation, cache)
	s.catalogAdmin = service.NewCatalogAdminService(db, repos.grade, repos.topic, repos.resource, cache)
	s.media = service.NewMediaService(store, repos.topic, repos.resource, cache)

	s.achievement = service.NewAchievementService(repos.achievement, repos.user, repos.preference, repos.notification)
	s.analytics = service.NewAnalyticsService(db, repos.analytics, repos.progress, repos.studySession, repos.user, s.achievement)

	s.quiz = service.NewQuizService(db, repos.quiz, repos.attempt, s.analytics)
	s.quizAdmin = service.NewQuizAdminService(db, repos.quiz, repos.topic)
	s.simulation = service.NewSimulationService(db, repos.simulation, repos.simulationSession, s.analytics)
	s.simulationAdmin = service.NewSimulationAdminService(db, repos.simulation, repos.topic)

	s.progress = service.NewProgressService(
		db,
		repos.progress,
		repos.topic,
		repos.studySession,
		repos.learningPath,
		repos.achievement,
		s.analytics,
	)

	s.report = service.NewReportService(repos.quiz, repos.attempt, repos.analytics, repos.user)
	s.reminder = service.NewReminderService(
		repos.user,
		repos.preference,
		repos.analytics,
		repos.studySession,
		s.notification,
		service.NewMailer(&cfg.Mail),
		cfg.Scheduler,
	)
	s.seed = service.NewSeedService(s.catalogAdmin, s.quizAdmin, s.simulationAdmin)

	return s
}

func initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		health:       controller.NewHealthController(db, rdb),
		auth:         controller.NewAuthController(s.auth),
		user:         controller.NewUserController(s.user),
		notification: controller.NewNotificationController(s.notification),
		catalog:      controller.NewCatalogController(s.catalog),
		quiz:         controller.NewQuizController(s.quiz),
		simulation:   controller.NewSimulationController(s.simulation),
		progress:     controller.NewProgressController(s.progress, s.analytics),
		achievement:  controller.NewAchievementController(s.achievement),
		admin:        controller.NewAdminController(s.catalogAdmin, s.media, s.quizAdmin, s.simulationAdmin),
		report:       controller.NewReportController(s.report),
	}
}

func setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window, "/api/health", "/metrics"))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware("physics-hub"))
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化数据库、服务与路由；迁移失败直接退出
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{Config: cfg, DB: db}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时继续运行
		logger.Log.Error("Failed to initialize redis, catalog cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	repos := initRepositories(db)
	app.services = initServices(repos, cfg, db, rdb)
	controllers := initControllers(app.services, db, rdb)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("physics-hub", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Error("Failed to initialize tracing", zap.Error(err))
		} else {
			app.tracer = tp
		}
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, repos)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}
	app.Router = router

	return app
}

// Seed 导入 YAML 初始数据
func (a *App) Seed(ctx context.Context, path string) error {
	if a.services == nil {
		cache := service.NewCatalogCache(nil, 0)
		repos := initRepositories(a.DB)
		s := &services{}
		s.catalogAdmin = service.NewCatalogAdminService(a.DB, repos.grade, repos.topic, repos.resource, cache)
		s.quizAdmin = service.NewQuizAdminService(a.DB, repos.quiz, repos.topic)
		s.simulationAdmin = service.NewSimulationAdminService(a.DB, repos.simulation, repos.topic)
		s.seed = service.NewSeedService(s.catalogAdmin, s.quizAdmin, s.simulationAdmin)
		a.services = s
	}
	_, err := a.services.seed.SeedFromFile(ctx, path)
	return err
}

func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.Config.Scheduler.Enabled {
		if err := a.services.reminder.Start(); err != nil {
			logger.Log.Error("Failed to start reminder scheduler", zap.Error(err))
		}
	}

	// 配置热更新：仅日志级别
	go func() {
		err := configwatcher.WatchConfig(ctx, configFile, func(newCfg *config.Config) {
			logger.SetLevel(newCfg)
		})
		if err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down server...")

	a.services.reminder.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
