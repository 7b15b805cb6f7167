package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/i474232898/skyweather/internal/api/http"
	"github.com/i474232898/skyweather/internal/app"
	"github.com/i474232898/skyweather/internal/config"
	"github.com/i474232898/skyweather/internal/logger"
	"github.com/i474232898/skyweather/internal/scheduler"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.New(cfg.LogLevel, cfg.AppEnv)
	c := app.Build(cfg, lg)

	// Scheduler that periodically refreshes the saved locations.
	sched := scheduler.New(cfg.SavedLocations, scheduler.Options{
		Interval: cfg.FetchInterval,
		Language: cfg.DefaultLanguage,
		Provider: cfg.PreferredLocationProvider,
	}, c.Weather, c.Places, lg)
	if err := sched.Start(); err != nil {
		lg.Errorf("failed to start scheduler: %v", err)
		return
	}
	defer sched.Stop()

	server := httpapi.NewApp(httpapi.Deps{
		Weather:         c.Weather,
		Places:          c.Places,
		Sessions:        c.Sessions,
		IP:              c.IP,
		Saved:           sched,
		DeviceTimeout:   cfg.DeviceTimeout,
		DefaultLanguage: cfg.DefaultLanguage,
		DefaultProvider: cfg.PreferredLocationProvider,
	})

	go func() {
		lg.Infof("listening on :%s", cfg.Port)
		if err := server.Listen(":" + cfg.Port); err != nil {
			lg.WithError(err).Warn("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		lg.WithError(err).Error("error during shutdown")
	}
}
