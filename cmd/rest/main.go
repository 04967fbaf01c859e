package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"legifai-be/internal/bootstrap"
	"legifai-be/internal/config"
	"legifai-be/internal/pkg/logger"
	"legifai-be/internal/server"
	"legifai-be/internal/tracer"
	"legifai-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration:\n%v", err)
	}

	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	defer sysLogger.Sync()

	shutdownTracer := tracer.InitTracer(ctx, sysLogger)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{Verbose: cfg.Database.Verbose})
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg, sysLogger)
	if err != nil {
		log.Fatalf("Failed to bootstrap: %v", err)
	}
	defer container.Close()

	srv := server.New(cfg, container)

	// 4. Run server and background services until a signal arrives
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return container.ConsumerService.Consume(gctx)
	})

	if container.AuditService != nil {
		g.Go(func() error {
			if err := container.AuditService.Start(gctx); err != nil {
				sysLogger.Warn("Main", "Audit consumer not started", map[string]interface{}{"error": err.Error()})
			}
			return nil
		})
	}

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		return srv.Run()
	})

	g.Go(func() error {
		<-gctx.Done()
		sysLogger.Info("Main", "Shutting down", nil)
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		sysLogger.Error("Main", "Server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}
