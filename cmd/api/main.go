package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk/internal/api/http"
	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/clock"
	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
	"github.com/spec-kit/helpdesk/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	store := repository.NewStore(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)

	systemClock := clock.System()
	metrics := observability.NewMetrics()
	dispatcher := events.NewDispatcher(logger, systemClock)

	tokens := auth.NewTokenManager(cfg.Auth, systemClock)
	authService := service.NewAuthService(service.AuthServiceDeps{
		Store:          store,
		PasswordResets: resetRepo,
		Tokens:         tokens,
		Clock:          systemClock,
		Logger:         logger,
		Config:         cfg.Auth,
	})
	ticketService := service.NewTicketService(service.TicketServiceDeps{
		Store:      store,
		Clock:      systemClock,
		Logger:     logger,
		Dispatcher: dispatcher,
	})
	commentService := service.NewCommentService(service.CommentServiceDeps{
		Store:      store,
		Clock:      systemClock,
		Logger:     logger,
		Dispatcher: dispatcher,
	})
	userService := service.NewUserService(service.UserServiceDeps{
		Store:      store,
		Clock:      systemClock,
		Logger:     logger,
		Dispatcher: dispatcher,
	})
	statsService := service.NewStatsService(service.StatsServiceDeps{
		Store:  store,
		Redis:  redis.Client,
		Logger: logger,
		Config: cfg.Stats,
	})

	notifications := service.NewNotificationService(service.NotificationServiceDeps{
		Redis:  redis.Client,
		Logger: logger,
		Config: cfg.Notification,
	})
	notifications.RegisterHandlers(dispatcher)
	worker.NewNotificationWorker(redis.Client, logger, cfg.Notification).Start(ctx)

	ticketOwnership := auth.NewTicketOwnership(store.Tickets())
	commentOwnership := auth.NewCommentOwnership(store.Comments())
	authMiddleware := auth.Middleware(tokens, store.Users())

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService, ticketOwnership),
		Comments:       handlers.NewCommentsHandler(commentService, ticketOwnership, commentOwnership),
		Users:          handlers.NewUsersHandler(userService, statsService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
