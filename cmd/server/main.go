package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pram0n0/Travelog/internal/auth"
	"github.com/Pram0n0/Travelog/internal/config"
	"github.com/Pram0n0/Travelog/internal/httpapi"
	"github.com/Pram0n0/Travelog/internal/service"
	"github.com/Pram0n0/Travelog/internal/storage/sqlite"
	"github.com/Pram0n0/Travelog/internal/workflow"
	"github.com/Pram0n0/Travelog/pkg/logging"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Database.Path)

	clock := workflow.SystemClock()
	server := &httpapi.Server{
		Groups:        service.NewGroupService(store, clock),
		Expenses:      service.NewExpenseService(store, clock),
		Payments:      service.NewPaymentService(store, clock),
		Authenticator: auth.NewPasswordAuthenticator(store),
		Tokens:        auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: httpapi.NewRouter(server),
	}

	go func() {
		slog.Info("Server starting", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Shutdown failed", "error", err)
	}
}
