package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jimiolaniyan/moneymanager"
	"github.com/jimiolaniyan/moneymanager/auth"
	"github.com/jimiolaniyan/moneymanager/config"
	"github.com/jimiolaniyan/moneymanager/mail"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	accounts, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	tokens, err := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.JWTExpiration, auth.WithIssuer(cfg.JWTIssuer))
	if err != nil {
		return err
	}

	var notifier auth.Notifier = mail.NewLogNotifier(logger)
	if cfg.ResendAPIKey != "" {
		notifier = mail.NewResendNotifier(cfg.ResendAPIKey, cfg.MailFrom, logger)
	}

	svc := auth.NewService(accounts, tokens, auth.NewBcryptHasher(cfg.BcryptCost), notifier,
		auth.WithActivationBaseURL(cfg.ActivationBaseURL),
		auth.WithLogger(logger),
	)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           moneymanager.NewHandler(svc, tokens, accounts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server_started", "addr", cfg.Addr, "store", cfg.Store)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (auth.Repository, func(), error) {
	switch cfg.Store {
	case config.StoreMongo:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("error connecting to mongo: %w", err)
		}
		disconnect := func() { _ = client.Disconnect(context.Background()) }
		if err := client.Ping(connectCtx, nil); err != nil {
			disconnect()
			return nil, nil, fmt.Errorf("error pinging mongo: %w", err)
		}

		repo := auth.NewMongoAccountRepository(client.Database(cfg.MongoDatabase).Collection("profiles"))
		if err := repo.EnsureIndexes(connectCtx); err != nil {
			disconnect()
			return nil, nil, err
		}
		return repo, disconnect, nil

	case config.StoreSQLite:
		db, err := auth.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := auth.NewSQLiteAccountRepository(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil

	default:
		return auth.NewAccountRepository(), func() {}, nil
	}
}
