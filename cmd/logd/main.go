package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"streamchat/logd"
	"streamchat/observability"
	"streamchat/runtime/workers"
	"streamchat/search"
	"streamchat/streamlog/badgerlog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the daemon lifecycle, and
// centralizes error reporting, so every defer executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Storage (BadgerDB) & Search index (Bluge)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	index, err := search.Open(config.BlugeFilepath, log)
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing search index...")
		_ = index.Close()
	}()

	store := badgerlog.NewStore(db, log, badgerlog.Options{
		PollTimeout: config.PollTimeout,
		BatchLimit:  config.BatchLimit,
	})
	defer func() { _ = store.Close() }()

	// 3. Daemon surface & supervised workers
	obs := observability.NewManager(log)
	server := logd.NewServer(log, store, index, obs, logd.Options{
		MaxPollWait: config.MaxPollWait,
		IndexBuffer: config.IndexBuffer,
	})

	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		logd.NewIndexWorker(log, index, server),
		observability.NewHealthWorker(log, obs, config.HealthInterval),
	)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		defer close(supDone)
		sup.Run(ctx)
	}()

	// 5. HTTP server (health, stats, websocket RPC)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	srv := &http.Server{Addr: address, Handler: server.Handler()}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting log daemon", "address", address, "at", time.Now().UTC())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 7. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP shutdown incomplete", "error", err)
	}
	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}
