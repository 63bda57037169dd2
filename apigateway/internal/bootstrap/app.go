package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/task_management_sample/apigateway/internal/cache"
	"github.com/locvowork/task_management_sample/apigateway/internal/config"
	"github.com/locvowork/task_management_sample/apigateway/internal/database"
	"github.com/locvowork/task_management_sample/apigateway/internal/handler"
	"github.com/locvowork/task_management_sample/apigateway/internal/logger"
	appmiddleware "github.com/locvowork/task_management_sample/apigateway/internal/middleware"
	"github.com/locvowork/task_management_sample/apigateway/internal/repository"
	"github.com/locvowork/task_management_sample/apigateway/internal/search"
	"github.com/locvowork/task_management_sample/apigateway/internal/service"
	"github.com/locvowork/task_management_sample/apigateway/internal/service/serviceutils"
	"github.com/locvowork/task_management_sample/apigateway/internal/store"
	"github.com/locvowork/task_management_sample/apigateway/internal/summary"
	"github.com/locvowork/task_management_sample/apigateway/pkg/googlecloud"
	"github.com/locvowork/task_management_sample/apigateway/pkg/simpleexcel"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Echo  *echo.Echo
	Store store.Store
	Redis *redis.Client
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo: e,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH)
	logger.SetLevel(cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Loaded before any connection is opened.
	var opts []service.Option
	if cfg.SUMMARY_EXPORT_TEMPLATE != "" {
		tpl, err := simpleexcel.LoadTemplateFile(cfg.SUMMARY_EXPORT_TEMPLATE)
		if err != nil {
			return fmt.Errorf("failed to load export template: %w", err)
		}
		opts = append(opts, service.WithExportTemplate(tpl))
	}

	s, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize %s store: %w", cfg.STORE_DRIVER, err)
	}
	logger.InfoLog(ctx, "Using %s task store", cfg.STORE_DRIVER)

	if cfg.ELASTIC_URL != "" {
		idx, err := search.NewElasticIndex(ctx, cfg.ELASTIC_URL, cfg.ELASTIC_INDEX)
		if err != nil {
			// Keyword search falls back to the store.
			logger.ErrorLog(ctx, "failed to initialize elasticsearch, search served by the store: %v", err)
		} else {
			indexed := search.NewIndexedStore(s, idx)
			if n, err := indexed.Reindex(ctx); err != nil {
				logger.WarnLog(ctx, "initial reindex failed, retried on the next keyword search: %v", err)
			} else {
				logger.InfoLog(ctx, "Indexed %d tasks into %s", n, cfg.ELASTIC_INDEX)
			}
			s = indexed
		}
	}
	a.Store = s

	// Initialize dependencies
	repo := repository.NewTaskRepository(s)
	engine := summary.NewEngine(repo, summary.WithLocation(cfg.Location()))

	if cfg.REDIS_ADDR != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.REDIS_ADDR,
			Password: cfg.REDIS_PASSWORD,
			DB:       cfg.REDIS_DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.ErrorLog(ctx, "redis unavailable at %s, weekly summary cache disabled: %v", cfg.REDIS_ADDR, err)
			_ = client.Close()
		} else {
			a.Redis = client
			opts = append(opts, service.WithSummaryCache(cache.New(client, "tasks:", cfg.CACHE_TTL)))
		}
	}

	taskSvc := service.NewTaskService(repo, engine, opts...)
	taskHandler := handler.NewTaskHandler(taskSvc)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(taskHandler)

	return nil
}

func openStore(ctx context.Context) (store.Store, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.STORE_DRIVER {
	case "datastore":
		if host := googlecloud.EmulatorHost(); host != "" {
			logger.InfoLog(ctx, "Initializing Datastore client against emulator at %s", host)
		}
		client, err := googlecloud.NewClient(ctx, cfg.GCP_PROJECT_ID)
		if err != nil {
			return nil, err
		}
		return store.NewDatastoreStore(client), nil

	case "mongo":
		return store.NewMongoStore(ctx, cfg.MONGO_URI, cfg.MONGO_DB)

	case "postgres":
		db, err := database.NewPostgresDB(ctx, database.Config{
			Host:            cfg.DB_HOST,
			Port:            cfg.DB_PORT,
			User:            cfg.DB_USER,
			Password:        cfg.DB_PASSWORD,
			DBName:          cfg.DB_NAME,
			SSLMode:         cfg.DB_SSL_MODE,
			MaxOpenConns:    cfg.DB_MAX_OPEN_CONNS,
			MaxIdleConns:    cfg.DB_MAX_IDLE_CONNS,
			ConnMaxLifetime: cfg.DB_CONN_MAX_LIFETIME,
		})
		if err != nil {
			return nil, err
		}
		pg := store.NewPostgresStore(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("failed to create schema: %w", err)
		}
		return pg, nil

	default:
		return store.NewMemoryStore(), nil
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(appmiddleware.RequestContext())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))
	a.Echo.Use(appmiddleware.Metrics())
}

func (a *App) RegisterRoutes(taskHandler *handler.TaskHandler) {
	a.Echo.GET("/health", func(c echo.Context) error {
		return serviceutils.ResponseSuccess(c, http.StatusOK, serviceutils.HealthResponse{Status: "ok"})
	})
	a.Echo.GET("/metrics", echo.WrapHandler(appmiddleware.MetricsHandler()))

	api := a.Echo.Group("/api")
	api.GET("/all", taskHandler.ListHandler)
	api.POST("/create", taskHandler.CreateHandler)
	api.PUT("/edit/:id", taskHandler.EditHandler)
	api.DELETE("/delete/:id", taskHandler.DeleteHandler)
	api.GET("/search", taskHandler.SearchHandler)
	api.PUT("/status/:id", taskHandler.UpdateStatusHandler)
	api.PUT("/task/priority/:id", taskHandler.UpdatePriorityHandler)
	api.GET("/weekly-summary", taskHandler.WeeklySummaryHandler)

	api.GET("/task/:id", taskHandler.GetHandler)
	api.PUT("/update/:id", taskHandler.UpdateHandler)
	api.GET("/weekly-summary/export", taskHandler.ExportWeeklySummaryHandler)
}

// Run serves HTTP until Shutdown is called.
func (a *App) Run() error {
	err := a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops the server and releases the storage handles.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if err := a.Echo.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http server: %w", err))
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
