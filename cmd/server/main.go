package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/donelist/backend/api/handler"
	"github.com/donelist/backend/internal/config"
	boltInfra "github.com/donelist/backend/internal/infrastructure/bolt"
	"github.com/donelist/backend/internal/infrastructure/monitor"
	pgInfra "github.com/donelist/backend/internal/infrastructure/postgres"
	"github.com/donelist/backend/internal/middleware"
	"github.com/donelist/backend/internal/router"
	"github.com/donelist/backend/internal/services/lifecycle"
	"github.com/donelist/backend/pkg/httpcontext"
	"github.com/donelist/backend/pkg/logger"
	"github.com/donelist/backend/repository"
	boltRepo "github.com/donelist/backend/repository/bolt"
	pgRepo "github.com/donelist/backend/repository/postgres"
	todoUC "github.com/donelist/backend/usecase/todo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		AppName:  cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)

	var (
		todoRepo   repository.TodoRepository
		storeCheck monitor.CheckFunc
	)

	switch cfg.Store.Driver {
	case config.DriverBolt:
		db, err := boltInfra.Open(cfg.Store.Bolt.Path)
		if err != nil {
			zapLogger.Fatal("failed to open bolt store", zap.Error(err))
		}
		manager.Register("bolt", func(ctx context.Context) error {
			return db.Close()
		})

		todoRepo, err = boltRepo.NewTodoRepository(db)
		if err != nil {
			zapLogger.Fatal("failed to init bolt repository", zap.Error(err))
		}
		storeCheck = boltInfra.Ping(db)

	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}

		pool, err := pgInfra.NewPool(appCtx, cfg.Store.Postgres, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pgInfra.Close(pool, zapLogger)
			return nil
		})

		todoRepo = pgRepo.NewTodoRepository(pool)
		storeCheck = pool.Ping
	}

	mon := monitor.New(storeCheck, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	todoUseCase := todoUC.New(todoRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Todo:   apiHandler.NewTodoHandler(todoUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	handler := router.New(handlers,
		middleware.AccessLog(zapLogger),
		middleware.CORS(cfg.HTTP.CORSOrigin),
	)

	server := &fasthttp.Server{
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Store.Driver),
		)
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()
	zapLogger.Info("shutdown signal received")

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
