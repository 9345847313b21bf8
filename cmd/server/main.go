// Package main initializes and starts the ListKeeper HTTP server, setting up
// configuration, logging, storage, repositories, services, handlers and
// optional TLS.
package main

import (
	"cmp"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/listkeeper/internal/auth"
	"github.com/atinyakov/listkeeper/internal/config"
	"github.com/atinyakov/listkeeper/internal/db"
	"github.com/atinyakov/listkeeper/internal/logger"
	"github.com/atinyakov/listkeeper/internal/repository"
	"github.com/atinyakov/listkeeper/internal/repository/memory"
	"github.com/atinyakov/listkeeper/internal/server/handler/http"
	"github.com/atinyakov/listkeeper/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	zapLogger := log.Log

	secret, err := options.Secret()
	if err != nil {
		zapLogger.Fatal("cannot load signing secret", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Pick the storage backend and the session lookup used for revocation.
	var (
		store    service.Store
		sessions auth.SessionLookup
	)
	if options.DatabaseDSN != "" {
		pool, err := db.InitPostgres(ctx, options.DatabaseDSN, db.PoolOptions{
			MaxOpenConns:    options.MaxOpenConns,
			MaxIdleConns:    options.MaxIdleConns,
			ConnMaxLifetime: options.ConnMaxLifetime.Duration,
		})
		if err != nil {
			zapLogger.Fatal("cannot init database", zap.Error(err))
		}
		defer pool.Close()

		db.StartOrphanListCleaner(ctx, pool,
			options.CleanupInterval.Duration,
			options.OrphanRetention.Duration,
			zapLogger,
		)

		store = repository.NewPostgresStore(pool)
		sessions = repository.NewPostgresUserRepository(pool)
	} else {
		zapLogger.Warn("no database configured, data is kept in memory")
		mem := memory.NewStore()
		store = mem
		sessions = mem
	}

	var tokenOpts []auth.TokenOption
	if options.Revocable {
		tokenOpts = append(tokenOpts, auth.WithRevocation(sessions))
	}
	tokens := auth.NewTokenService(secret, tokenOpts...)

	// Initialize business-logic services.
	accountService := service.NewAccountService(store, tokens)
	listService := service.NewListService(store)

	// Create HTTP handlers.
	accountHandler := &http.AccountHandler{AccountService: accountService, Logger: zapLogger}
	listHandler := &http.ListHandler{ListService: listService, Logger: zapLogger}

	// Build the router with middleware and routes.
	router := http.NewRouter(accountHandler, listHandler, auth.NewGate(tokens), options.Origins(), zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zapLogger.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	useTLS := options.TLSCertFile != "" && options.TLSKeyFile != ""
	zapLogger.Info("starting server",
		zap.String("addr", options.Port),
		zap.Bool("tls", useTLS),
		zap.Bool("revocable_sessions", tokens.Revocable()),
	)

	if useTLS {
		cert, err := tls.LoadX509KeyPair(options.TLSCertFile, options.TLSKeyFile)
		if err != nil {
			zapLogger.Fatal("failed to load server TLS cert/key", zap.Error(err))
		}
		server.TLSConfig = &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		err = server.ListenAndServeTLS("", "")
		if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			zapLogger.Fatal("failed to start HTTPS server", zap.Error(err))
		}
		return
	}

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
