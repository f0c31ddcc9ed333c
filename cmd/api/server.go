package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-catalog/pkg/container"
	"bookstore-catalog/pkg/logger"
)

func Serve() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ========================================
	// 1. BUILD DI CONTAINER
	// ========================================
	appContainer, err := container.NewContainer(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	defer appContainer.Cleanup()

	if appContainer.DB != nil {
		go appContainer.DB.MonitorPoolHealth(ctx, time.Minute)
	}

	// ========================================
	// 2. CONFIGURE HTTP SERVER
	// ========================================
	port := appContainer.Config.App.Port
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           SetupRouter(appContainer),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// ========================================
	// 3. START SERVER (NON-BLOCKING)
	// ========================================
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", map[string]interface{}{
			"port":        port,
			"environment": appContainer.Config.App.Environment,
			"store":       appContainer.Config.Store.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// ========================================
	// 4. GRACEFUL SHUTDOWN
	// ========================================
	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appContainer.Config.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
		return err
	}

	logger.Info("Server exited gracefully", nil)
	return nil
}

func exitOnError(err error) {
	if err != nil {
		logger.Error("Server stopped with error", err)
		os.Exit(1)
	}
}
