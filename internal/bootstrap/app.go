package bootstrap

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/example/employee-gateway/internal/cache"
	"github.com/example/employee-gateway/internal/config"
	"github.com/example/employee-gateway/internal/domain"
	"github.com/example/employee-gateway/internal/handler"
	"github.com/example/employee-gateway/internal/logger"
	"github.com/example/employee-gateway/internal/service"
	"github.com/example/employee-gateway/internal/upstream"
)

type App struct {
	Echo  *echo.Echo
	redis *redis.Client
}

func NewApp() *App {
	return &App{
		Echo: echo.New(),
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
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Cache store selection
	store, err := a.buildStore(ctx)
	if err != nil {
		return err
	}

	// Initialize dependencies
	client := upstream.NewClient(upstream.Config{
		BaseURL:        cfg.EMPLOYEE_API_BASE_URL,
		ConnectTimeout: cfg.HTTP_CONNECT_TIMEOUT,
		ReadTimeout:    cfg.HTTP_READ_TIMEOUT,
		Policy: upstream.Policy{
			MaxAttempts: cfg.RETRY_MAX_ATTEMPTS,
			BaseDelay:   cfg.RETRY_BASE_DELAY,
			MaxDelay:    cfg.RETRY_MAX_DELAY,
		},
	})
	empSvc := service.NewEmployeeService(client, store)
	empHandler := handler.NewEmployeeHandler(empSvc)

	a.Echo.Validator = handler.NewRequestValidator()

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(empHandler)

	logger.InfoLog(ctx, "Upstream employee API: %s", cfg.EMPLOYEE_API_BASE_URL)
	return nil
}

func (a *App) buildStore(ctx context.Context) (domain.Store, error) {
	cfg := config.DefaultEnvConfig

	switch cfg.CACHE_BACKEND {
	case "redis":
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.REDIS_ADDR})
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.REDIS_ADDR, err)
		}
		logger.InfoLog(ctx, "Using redis cache at %s", cfg.REDIS_ADDR)
		return cache.NewRedisStore(a.redis), nil
	case "off":
		logger.InfoLog(ctx, "Caching disabled")
		return nil, nil
	default:
		logger.InfoLog(ctx, "Using in-memory cache")
		return cache.NewMemoryStore(), nil
	}
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler) {
	api := a.Echo.Group("/api/v1")

	api.GET("/employee", empHandler.ListHandler)
	api.GET("/employee/search/:fragment", empHandler.SearchHandler)
	api.GET("/employee/highestSalary", empHandler.HighestSalaryHandler)
	api.GET("/employee/topTenHighestEarningEmployeeNames", empHandler.TopTenEarnersHandler)
	api.GET("/employee/export", empHandler.ExportHandler)
	api.GET("/employee/:id", empHandler.GetHandler)
	api.POST("/employee", empHandler.CreateHandler)
	api.DELETE("/employee/:id", empHandler.DeleteHandler)
}

func (a *App) Run() error {
	if a.redis != nil {
		defer a.redis.Close()
	}
	return a.Echo.Start(":" + config.DefaultEnvConfig.APP_PORT)
}
