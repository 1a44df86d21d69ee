package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/miayudatic/helpdesk/internal/api/http"
	"github.com/miayudatic/helpdesk/internal/api/http/handlers"
	"github.com/miayudatic/helpdesk/internal/auth"
	"github.com/miayudatic/helpdesk/internal/config"
	"github.com/miayudatic/helpdesk/internal/events"
	"github.com/miayudatic/helpdesk/internal/mail"
	"github.com/miayudatic/helpdesk/internal/observability"
	"github.com/miayudatic/helpdesk/internal/persistence"
	"github.com/miayudatic/helpdesk/internal/repository"
	"github.com/miayudatic/helpdesk/internal/service"
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
	ticketRepo := repository.NewTicketRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	staffRepo := repository.NewStaffRepository(pool)
	departmentRepo := repository.NewDepartmentRepository(pool)
	serviceTypeRepo := repository.NewServiceTypeRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()
	events.RegisterEventLogger(dispatcher, logger)

	metrics := observability.NewMetrics()

	sender := mail.NewSMTPSender(cfg.SMTP)
	notifier := mail.NewNotifier(sender, logger)

	lifecycleService := service.NewLifecycleService(service.LifecycleDependencies{
		TicketRepo:      ticketRepo,
		StaffRepo:       staffRepo,
		DepartmentRepo:  departmentRepo,
		ServiceTypeRepo: serviceTypeRepo,
		AuditRepo:       auditRepo,
		Notifier:        notifier,
		Dispatcher:      dispatcher,
		Metrics:         metrics,
	})
	queryService := service.NewQueryService(ticketRepo, auditRepo)
	masterDataService := service.NewMasterDataService(departmentRepo, serviceTypeRepo, staffRepo, redis.Client, logger)
	commentService := service.NewCommentService(commentRepo, ticketRepo, dispatcher)
	authService := service.NewAuthService(cfg.Auth, staffRepo)
	staffService := service.NewStaffService(staffRepo, cfg.Auth.BcryptCost)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), staffRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Tickets:        handlers.NewTicketsHandler(lifecycleService, queryService, masterDataService),
		Comments:       handlers.NewCommentsHandler(commentService),
		MasterData:     handlers.NewMasterDataHandler(masterDataService),
		Staff:          handlers.NewStaffHandler(authService, staffService),
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
