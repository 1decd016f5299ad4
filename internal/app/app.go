package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Freeeeeet/college_scheduler/internal/api"
	"github.com/Freeeeeet/college_scheduler/internal/config"
	"github.com/Freeeeeet/college_scheduler/internal/controller"
	"github.com/Freeeeeet/college_scheduler/internal/metrics"
	"github.com/Freeeeeet/college_scheduler/internal/notify"
	"github.com/Freeeeeet/college_scheduler/internal/repository"
	"github.com/Freeeeeet/college_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/college_scheduler/internal/repository/postgres"
	"github.com/Freeeeeet/college_scheduler/internal/repository/sqlite"
	"github.com/Freeeeeet/college_scheduler/internal/service"
)

const (
	healthCheckInterval = 30 * time.Second
	shutdownTimeout     = 10 * time.Second
)

// App собранный процесс: хранилище, сервис, HTTP API и, опционально, бот и мост Redis
type App struct {
	cfg     *config.Config
	store   repository.Store
	hub     *notify.Hub
	bridge  *notify.RedisBridge
	service *service.ScheduleService
	server  *api.Server
	bot     *controller.BotController
	monitor *HealthMonitor
	logger  *zap.Logger
}

// New собирает зависимости по конфигурации
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.store = store

	a.hub = notify.NewHub(uuid.NewString(), logger)
	var notifier notify.Notifier = a.hub
	if cfg.RedisAddr != "" {
		bridge, err := notify.NewRedisBridge(ctx, cfg.RedisAddr, cfg.RedisChannel, a.hub, logger)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.bridge = bridge
		notifier = bridge
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.NewRecorder(registry)

	a.service = service.NewScheduleService(store, notifier, logger,
		service.WithTimeout(cfg.StoreTimeout),
		service.WithMetrics(recorder),
	)

	a.server = api.NewServer(api.Options{
		Address:  cfg.HTTPAddr,
		Service:  a.service,
		Hub:      a.hub,
		Gatherer: registry,
		Logger:   logger,
	})

	a.monitor = NewHealthMonitor(store, healthCheckInterval, recorder.SetStoreUp, logger)

	if cfg.TelegramToken != "" {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("create telegram bot: %w", err)
		}
		a.bot = controller.NewBotController(b, a.service, a.hub, logger)
		if err := a.bot.RegisterHandlers(ctx); err != nil {
			// меню команд не критично, команды всё равно работают
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}
	} else {
		logger.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	return a, nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	logger.Info("Opening store", zap.String("driver", cfg.StoreDriver))

	switch cfg.StoreDriver {
	case config.DriverPostgres:
		store, err := postgres.Connect(ctx, cfg.DBDSN, logger)
		if err != nil {
			return nil, err
		}

		migrator, err := NewMigrator(store.Pool(), logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(cfg.SQLitePath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory store, data is lost on restart")
		return memory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// Service фасад операций расписания
func (a *App) Service() *service.ScheduleService {
	return a.service
}

// Run обслуживает запросы до отмены ctx или падения одного из компонентов
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		return a.monitor.Run(gctx)
	})

	if a.bridge != nil {
		g.Go(func() error {
			return a.bridge.Run(gctx)
		})
	}

	if a.bot != nil {
		g.Go(func() error {
			return a.bot.Start(gctx)
		})
	}

	a.logger.Info("Scheduler started",
		zap.String("environment", a.cfg.Environment),
		zap.String("http_addr", a.cfg.HTTPAddr),
		zap.Bool("bot_enabled", a.bot != nil),
		zap.Bool("redis_enabled", a.bridge != nil))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close освобождает хранилище и соединение с Redis
func (a *App) Close() error {
	var errs []error
	if a.bridge != nil {
		errs = append(errs, a.bridge.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	return errors.Join(errs...)
}
