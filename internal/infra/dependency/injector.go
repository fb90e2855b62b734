// Package dependency provides dependency injection for the application.
package dependency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/application/usecase/auth"
	"github.com/expense-tracker/backend/internal/application/usecase/expense"
	"github.com/expense-tracker/backend/internal/application/usecase/statistics"
	"github.com/expense-tracker/backend/internal/infra/scheduler"
	"github.com/expense-tracker/backend/internal/infra/server/router"
	"github.com/expense-tracker/backend/internal/integration/adapters"
	"github.com/expense-tracker/backend/internal/integration/email"
	"github.com/expense-tracker/backend/internal/integration/email/templates"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/controller"
	"github.com/expense-tracker/backend/internal/integration/entrypoint/middleware"
	"github.com/expense-tracker/backend/internal/integration/persistence"
)

// Options override collaborators, mostly for tests.
type Options struct {
	// Clock supplies "today" for transaction date validation.
	Clock func() time.Time
	// Redis is used by the redis rate limit backend instead of dialing Config.Redis.
	Redis redis.UniversalClient
	// EmailSender replaces the Resend client and enables the email worker.
	EmailSender adapter.EmailSender
	// HealthCheck replaces the database ping of the health endpoint.
	HealthCheck func(ctx context.Context) error
}

// Injector holds all application dependencies.
type Injector struct {
	Config      *config.Config
	DB          *gorm.DB
	Router      *router.Router
	RateLimiter *middleware.RateLimiter
	EmailWorker *email.Worker // nil when no sender is configured
	Scheduler   *scheduler.Scheduler

	redis redis.UniversalClient
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, opts Options) (*Injector, error) {
	// Create repositories
	userRepo := persistence.NewUserRepository(db)
	tokenRepo := persistence.NewTokenRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)
	emailQueueRepo := persistence.NewEmailQueueRepository(db)

	// Create adapters/services
	passwordService := adapters.NewPasswordService()
	tokenService := adapters.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry, tokenRepo)
	emailService := email.NewService(emailQueueRepo, cfg.Email.AppBaseURL)

	// Create auth use cases
	registerUseCase := auth.NewRegisterUserUseCase(userRepo, passwordService, tokenService, emailService)
	loginUseCase := auth.NewLoginUserUseCase(userRepo, passwordService, tokenService)
	refreshTokenUseCase := auth.NewRefreshTokenUseCase(userRepo, tokenService)
	logoutUseCase := auth.NewLogoutUserUseCase(tokenService)

	// Create expense use cases
	clock := expense.Clock(opts.Clock)
	listExpensesUseCase := expense.NewListExpensesUseCase(expenseRepo)
	createExpenseUseCase := expense.NewCreateExpenseUseCase(expenseRepo, clock)
	getExpenseUseCase := expense.NewGetExpenseUseCase(expenseRepo)
	updateExpenseUseCase := expense.NewUpdateExpenseUseCase(expenseRepo, clock)
	deleteExpenseUseCase := expense.NewDeleteExpenseUseCase(expenseRepo)
	getStatisticsUseCase := statistics.NewGetStatisticsUseCase(expenseRepo)

	// Create controllers
	healthCheck := opts.HealthCheck
	if healthCheck == nil {
		healthCheck = func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}
	healthController := controller.NewHealthController(healthCheck)

	authController := controller.NewAuthController(
		registerUseCase,
		loginUseCase,
		refreshTokenUseCase,
		logoutUseCase,
	)

	expenseController := controller.NewExpenseController(
		listExpensesUseCase,
		createExpenseUseCase,
		getExpenseUseCase,
		updateExpenseUseCase,
		deleteExpenseUseCase,
	)

	statisticsController := controller.NewStatisticsController(getStatisticsUseCase)

	// Create middleware
	inj := &Injector{Config: cfg, DB: db}

	limiterStore, err := inj.limiterStore(opts)
	if err != nil {
		return nil, err
	}
	inj.RateLimiter = middleware.NewRateLimiter(limiterStore)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	inj.Router = router.NewRouter(
		healthController,
		authController,
		expenseController,
		statisticsController,
		inj.RateLimiter,
		authMiddleware,
	)

	// Background workers
	sender := opts.EmailSender
	if sender == nil && cfg.Email.WorkerEnabled() {
		sender = email.NewResendClient(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	}
	if sender != nil {
		renderer, err := templates.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("failed to load email templates: %w", err)
		}
		inj.EmailWorker = email.NewWorker(emailQueueRepo, sender, renderer, email.WorkerConfig{
			PollInterval: cfg.Email.PollInterval,
			BatchSize:    cfg.Email.BatchSize,
		})
	}

	inj.Scheduler, err = scheduler.New(scheduler.MaintenanceJobs(scheduler.MaintenanceDeps{
		RateLimiter: inj.RateLimiter,
		Tokens:      tokenRepo,
		EmailQueue:  emailQueueRepo,
	})...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return inj, nil
}

func (i *Injector) limiterStore(opts Options) (middleware.LimiterStore, error) {
	rl := i.Config.RateLimit
	if rl.Backend != config.RateLimitRedis {
		return middleware.NewMemoryStore(rl.MaxAttempts, rl.Window), nil
	}

	client := opts.Redis
	if client == nil {
		redisOpts, err := redis.ParseURL(i.Config.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse REDIS_URL: %w", err)
		}
		if i.Config.Redis.Password != "" {
			redisOpts.Password = i.Config.Redis.Password
		}
		if i.Config.Redis.DB != 0 {
			redisOpts.DB = i.Config.Redis.DB
		}
		client = redis.NewClient(redisOpts)
		i.redis = client
	}
	return middleware.NewRedisStore(client, rl.MaxAttempts, rl.Window), nil
}

// Close releases connections opened by the injector.
func (i *Injector) Close() error {
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}
	return nil
}
