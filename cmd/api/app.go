package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/catalog"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/database"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/docstore"
	adapterHTTP "github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/handler/http"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/policy"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/config"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/services"
	"github.com/comitanigiacomo/checklist-sync-engine/internal/core/workers"
)

// application holds the wired service and the resources to release on
// shutdown.
type application struct {
	router *gin.Engine
	worker *workers.RefreshWorker

	db  *sqlx.DB
	rdb *redis.Client
}

func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, startTime time.Time) (*application, error) {
	app := &application{}

	calendar, err := domain.NewBusinessCalendar(cfg.Business.Timezone)
	if err != nil {
		return nil, err
	}

	stores, err := domain.NewStoreDirectory(cfg.Business.Stores)
	if err != nil {
		return nil, err
	}

	rule := cfg.Business.StoreAccessPolicy
	if rule == "" {
		rule = policy.DefaultStoreAccessRule
	}
	access, err := policy.NewCELPolicy(rule)
	if err != nil {
		return nil, err
	}
	logger.Info("store access policy compiled", "rule", access.Expression())

	var (
		docs  domain.DocumentStore
		users domain.UserRepository
	)

	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory storage, data is lost on restart")
		docs = docstore.NewMemoryStore()
		users = repository.NewInMemoryUserRepository()

	case database.DriverSQLite, database.DriverPostgres:
		dsn := cfg.Database.SQLitePath
		if cfg.Database.Driver == database.DriverPostgres {
			dsn = database.PostgresDSN(
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Host,
				strconv.Itoa(cfg.Database.Port),
				cfg.Database.Name,
			)
		}

		logger.Info("connecting to database", "driver", cfg.Database.Driver)
		db, err := database.Open(cfg.Database.Driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		logger.Info("database connected, migrations applied")

		app.db = db
		docs = docstore.NewSQLStore(db)
		users = repository.NewSQLUserRepository(db)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(ctx, cache.Options{
			Host:     cfg.Redis.Host,
			Port:     strconv.Itoa(cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			logger.Warn("redis unavailable, running without catalog cache and rate limiting", "error", err)
		} else {
			logger.Info("redis connected", "addr", rdb.Options().Addr)
			app.rdb = rdb
		}
	}

	sheets := catalog.NewSheetsSource(catalog.Config{
		APIKey:  cfg.Catalog.SheetsAPIKey,
		SheetID: cfg.Catalog.SheetsSheetID,
		Range:   cfg.Catalog.SheetsRange,
		BaseURL: cfg.Catalog.SheetsBaseURL,
	})
	if !sheets.Configured() {
		logger.Warn("catalog sheet not configured, product search will be empty")
	}

	var source domain.CatalogSource = sheets
	if app.rdb != nil {
		source = repository.NewCachedCatalogSource(sheets, app.rdb, cfg.Catalog.CacheTTL, logger)
	}

	tokenService := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL, users)
	authService := services.NewAuthService(users, tokenService)

	snapshotService := services.NewSnapshotService(docs, calendar, logger)
	checklistService := services.NewChecklistService(snapshotService, stores, access, logger)
	migrationService := services.NewMigrationService(snapshotService, stores, access, logger)
	exportService := services.NewExportService(snapshotService, stores, access)
	catalogService := services.NewCatalogService(source, logger)

	app.worker = workers.NewRefreshWorker(catalogService, logger)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:      adapterHTTP.NewAuthHandler(authService),
		AdminHandler:     adapterHTTP.NewAdminHandler(authService),
		StoreHandler:     adapterHTTP.NewStoreHandler(checklistService),
		ChecklistHandler: adapterHTTP.NewChecklistHandler(checklistService, migrationService, exportService, catalogService),
		CatalogHandler:   adapterHTTP.NewCatalogHandler(catalogService, app.worker),
		TokenValidator:   tokenService,
		RateLimit:        cfg.Service.RateLimitPerMinute,
		Logger:           logger,
		StartTime:        startTime,
	}
	if app.db != nil {
		deps.DB = app.db
	}
	if app.rdb != nil {
		deps.Redis = app.rdb
	}

	app.router = adapterHTTP.NewRouter(deps)

	return app, nil
}

func (a *application) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.db != nil {
		_ = a.db.Close()
	}
}
