package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/username/finanphy/console/src/config"
	"github.com/username/finanphy/console/src/gateway"
	"github.com/username/finanphy/console/src/handlers"
	"github.com/username/finanphy/console/src/logger"
	"github.com/username/finanphy/console/src/security"
	"github.com/username/finanphy/console/src/services"
)

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel, config.Cfg.LogFormat)
	logger.L.Info("Finanphy console starting...", "api", config.Cfg.APIBaseURL)

	if config.Cfg.APIToken == "" {
		logger.L.Warn("API_TOKEN not set. Requests go out unauthenticated until someone logs in.")
	}

	logger.L.Info("Initializing gateway...")
	credentials := security.NewCredentialHolder(config.Cfg.APIToken)
	gw := gateway.NewHTTPGateway(gateway.Options{
		BaseURL:       config.Cfg.APIBaseURL,
		Timeout:       config.Cfg.GatewayTimeout,
		RatePerSecond: config.Cfg.GatewayRatePerSecond,
		Burst:         config.Cfg.GatewayBurst,
	}, credentials)

	logger.L.Info("Initializing services and handlers...")
	views := services.NewViewService(gw, services.NewViewStore())
	synchronizer := services.NewSynchronizer(gw, views)
	authService := security.NewAuthService(gw, credentials)

	router := handlers.NewRouter(handlers.RouterDeps{
		Views:          views,
		Sync:           synchronizer,
		Auth:           authService,
		Limiter:        rate.NewLimiter(rate.Limit(config.Cfg.ServerRatePerSecond), config.Cfg.ServerBurst),
		AllowedOrigins: config.Cfg.AllowedOrigins,
		PageSize:       config.Cfg.InventoryPageSize,
		RecentLength:   config.Cfg.RecentTransactions,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the views so the first dashboard hit does not wait on the API.
	go func() {
		warmCtx, cancel := context.WithTimeout(ctx, 2*config.Cfg.GatewayTimeout)
		defer cancel()
		if err := views.RefreshAll(warmCtx); err != nil {
			logger.L.Warn("Initial refresh failed, views will load on demand", "error", err)
			return
		}
		logger.L.Info("Initial refresh complete")
	}()

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*config.Cfg.GatewayTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.L.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.L.Error("Graceful shutdown failed", "error", err)
		}
	}()

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.L.Error("Failed to start server", "error", err)
		stdlog.Fatalf("Failed to start server: %v", err)
	}
	logger.L.Info("Server stopped gracefully.")
}
