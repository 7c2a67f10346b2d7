package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/gradplanner/internal/app/catalog"
	appControllers "github.com/yigit/gradplanner/internal/app/controllers"
	appMigrations "github.com/yigit/gradplanner/internal/app/migrations"
	appRepos "github.com/yigit/gradplanner/internal/app/repositories"
	appRoutes "github.com/yigit/gradplanner/internal/app/routes"
	appServices "github.com/yigit/gradplanner/internal/app/services"
	"github.com/yigit/gradplanner/internal/config"
	"github.com/yigit/gradplanner/internal/db"
	appMiddleware "github.com/yigit/gradplanner/internal/middleware"
	pkgAuth "github.com/yigit/gradplanner/internal/pkg/auth"
	"github.com/yigit/gradplanner/internal/pkg/logger"
	"github.com/yigit/gradplanner/internal/pkg/notify"
	"github.com/yigit/gradplanner/internal/pkg/validation"
	"github.com/yigit/gradplanner/internal/pkg/websocket"
	"github.com/yigit/gradplanner/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Catalog         *catalog.Store
	Repos           *appRepos.Repositories
	Bus             notify.Bus
	Hub             *websocket.Hub
	JWTService      *pkgAuth.JWTService
	CatalogService  appServices.CatalogService
	RecordService   appServices.CourseRecordService
	ProgressService appServices.ProgressService
	TransferService appServices.TransferService
	AuthMiddleware  *appMiddleware.AuthMiddleware
	Controllers     appRoutes.Controllers
	Logger          zerolog.Logger
}

// Close releases the resources owned by the dependencies
func (d *Dependencies) Close() error {
	if d.Bus != nil {
		return d.Bus.Close()
	}
	return nil
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the demo plan.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Str("dir", cfg.Database.MigrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, lgr)
	if err := migrator.MigrateFromDirectory(ctx, cfg.Database.MigrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if !cfg.IsProduction() {
		repo := appRepos.NewCourseRecordRepository(database)
		if err := seed.CreateDefaultData(ctx, repo, cfg.Seed.DemoUserID, time.Now().Year()-1, lgr); err != nil {
			// a missing demo plan does not prevent startup
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// LoadCatalog reads the catalog file named in the config, or the embedded
// default catalog when no path is set.
func LoadCatalog(cfg *config.Config, lgr zerolog.Logger) (*catalog.Store, error) {
	var (
		store *catalog.Store
		err   error
	)
	if cfg.Catalog.Path != "" {
		store, err = catalog.Load(cfg.Catalog.Path)
	} else {
		store, err = catalog.Default()
	}
	if err != nil {
		lgr.Error().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
		return nil, err
	}

	lgr.Info().
		Int("courses", store.CourseCount()).
		Int("curricula", len(store.ListCurricula())).
		Msg("Catalog loaded")
	return store, nil
}

// SetupBus connects to Redis when an address is configured. Without one,
// change notifications stay inside this process.
func SetupBus(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (notify.Bus, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis address not set, using in-process change notifications")
		return notify.NewMemoryBus(), nil
	}

	bus, err := notify.NewRedisBus(ctx, notify.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, lgr)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Change notifications go through Redis")
	return bus, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(
	cfg *config.Config,
	database *db.PostgresDB,
	catalogStore *catalog.Store,
	bus notify.Bus,
	lgr zerolog.Logger,
) (*Dependencies, error) {
	deps := &Dependencies{
		Catalog: catalogStore,
		Bus:     bus,
		Logger:  lgr,
	}

	if err := validation.Register(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(database)

	var err error
	deps.CatalogService, err = appServices.NewCatalogService(catalogStore, cfg.Catalog.DefaultCurriculum)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize catalog service")
		return nil, err
	}

	deps.RecordService = appServices.NewCourseRecordService(deps.Repos.CourseRecordRepository, catalogStore, bus, lgr)
	deps.ProgressService = appServices.NewProgressService(deps.Repos.CourseRecordRepository, catalogStore, deps.CatalogService, lgr)
	deps.TransferService = appServices.NewTransferService(deps.Repos.CourseRecordRepository, catalogStore, bus, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Hub = websocket.NewHub(lgr)

	deps.Controllers = appRoutes.Controllers{
		Health:   appControllers.NewHealthController(database),
		Catalog:  appControllers.NewCatalogController(deps.CatalogService),
		Records:  appControllers.NewCourseRecordController(deps.RecordService),
		Progress: appControllers.NewProgressController(deps.ProgressService),
		Transfer: appControllers.NewTransferController(deps.TransferService),
		Live: websocket.NewHandler(
			deps.Hub,
			deps.RecordService,
			deps.ProgressService,
			deps.CatalogService,
			cfg.Server.AllowedOrigins,
			lgr,
		),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http")))
	router.Use(appMiddleware.CORS(cfg.Server.AllowedOrigins))

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
