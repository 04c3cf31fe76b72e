package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cintyy73/template-todo-list/internal/config"
	"github.com/cintyy73/template-todo-list/internal/handler"
	"github.com/cintyy73/template-todo-list/internal/logging"
	"github.com/cintyy73/template-todo-list/internal/repository"
	"github.com/cintyy73/template-todo-list/internal/service"
	"github.com/cintyy73/template-todo-list/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults to $CONTACTOS_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}
	logger := logging.Setup(cfg.LoggingOptions())

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.StorageOptions())
	if err != nil {
		logging.Fatal("open store failed", "driver", cfg.Store.Driver, "error", err)
	}
	defer store.Close()

	contactRepo := repository.NewSlotContactRepository(store, cfg.Store.Key)

	opts := []service.Option{service.WithLogger(logger)}
	if !cfg.Seed {
		opts = append(opts, service.WithSeed(nil))
	}
	contactService := service.NewContactService(ctx, contactRepo, opts...)
	if contactService.Degraded() {
		slog.Warn("store unreadable, changes will not be saved this session", "driver", cfg.Store.Driver)
	}

	h := handler.New(contactRepo, cfg.FrontendURL)
	contactHandler := handler.NewContactHandler(contactService)
	eventsHandler := handler.NewEventsHandler(contactService)

	mux := http.NewServeMux()
	handler.Register(mux, h, contactHandler, eventsHandler)

	server := newHTTPServer(cfg.Addr, h.Chain(mux))

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
