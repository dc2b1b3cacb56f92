package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bankinfer/internal"
	"bankinfer/internal/config"
	"bankinfer/internal/container"
	"bankinfer/ui"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	level, ok := internal.ParseLogLevel(appConfig.LogLevel)
	if !ok {
		log.Fatalf("Unknown LOG_LEVEL %q", appConfig.LogLevel)
	}
	logger := internal.NewLogger(level)

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	warmCtx, cancel := context.WithTimeout(ctx, appConfig.Source.FetchTimeout+10*time.Second)
	err = appContainer.Warm(warmCtx)
	cancel()
	if err != nil {
		logger.Error("dataset unavailable: %v", err)
		os.Exit(1)
	}

	dashboard, err := ui.NewApp(appContainer.Deps())
	if err != nil {
		logger.Error("dashboard setup failed: %v", err)
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.UIPort,
		Handler:           dashboard.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("dashboard listening on http://localhost%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
