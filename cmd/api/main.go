package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/fieldops-service/internal/api/http"
	"github.com/spec-kit/fieldops-service/internal/api/http/handlers"
	"github.com/spec-kit/fieldops-service/internal/auth"
	"github.com/spec-kit/fieldops-service/internal/config"
	"github.com/spec-kit/fieldops-service/internal/events"
	"github.com/spec-kit/fieldops-service/internal/observability"
	"github.com/spec-kit/fieldops-service/internal/persistence"
	"github.com/spec-kit/fieldops-service/internal/policy"
	"github.com/spec-kit/fieldops-service/internal/repository"
	"github.com/spec-kit/fieldops-service/internal/service"
	"github.com/spec-kit/fieldops-service/internal/worker"
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

	catalog := policy.DefaultCatalog()
	if err := catalog.Validate(); err != nil {
		logger.Fatal("invalid permission catalog", zap.Error(err))
	}
	evaluator := policy.NewEvaluator(catalog)

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
	actorRepo := repository.NewActorRepository(pool)
	orderRepo := repository.NewWorkOrderRepository(pool)
	historyRepo := repository.NewHistoryRepository(pool)
	fileRepo := repository.NewFileRepository(pool)
	contactRepo := repository.NewContactRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	messageRepo := repository.NewHubMessageRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, actorRepo)
	workOrderService := service.NewWorkOrderService(service.WorkOrderDependencies{
		OrderRepo:   orderRepo,
		HistoryRepo: historyRepo,
		Evaluator:   evaluator,
		Dispatcher:  dispatcher,
	})
	fileService := service.NewFileService(fileRepo, evaluator, dispatcher)
	hubService := service.NewHubService(service.HubDependencies{
		OrderRepo:   orderRepo,
		ContactRepo: contactRepo,
		FileRepo:    fileRepo,
		MessageRepo: messageRepo,
		Evaluator:   evaluator,
		Dispatcher:  dispatcher,
	})
	taskService := service.NewTaskService(taskRepo, evaluator, dispatcher)
	notificationService := service.NewNotificationService(dispatcher, redis.Client, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), actorRepo)

	app := fiber.New()
	metrics := observability.NewMetrics()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(redis),
		Auth:           handlers.NewAuthHandler(authService),
		WorkOrders:     handlers.NewWorkOrdersHandler(workOrderService),
		Files:          handlers.NewFilesHandler(fileService),
		Hub:            handlers.NewHubHandler(hubService),
		Tasks:          handlers.NewTasksHandler(taskService),
		AuthMiddleware: authMiddleware,
		Evaluator:      evaluator,
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
