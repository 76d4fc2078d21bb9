package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/goliatone/go-logins"
	"github.com/goliatone/go-logins/activitymap"
	"github.com/goliatone/go-logins/config"
)

func main() {
	configPath := flag.String("config", "", "path to the yaml config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	base, err := newZapLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer base.Sync()

	logger := named(base, "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DB.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	if err := auth.CreateSchema(ctx, db); err != nil {
		logger.Error("failed to create schema", "error", err)
		os.Exit(1)
	}

	authLogger := named(base, "auth")
	activityLogger := named(base, "activity")

	directory := auth.NewUsersRepository(db, auth.WithUsersLogger(named(base, "users")))
	tokens := auth.NewTokenService(cfg.Auth, auth.WithTokenLogger(authLogger))
	sink := auth.ActivitySinkFunc(func(_ context.Context, e auth.ActivityEvent) error {
		rec := activitymap.Normalize(e)
		activityLogger.Info("activity",
			"verb", rec.Verb,
			"actor_id", rec.ActorID,
			"object_id", rec.ObjectID,
			"metadata", rec.Metadata,
			"occurred_at", rec.OccurredAt,
		)
		return nil
	})

	auther := auth.NewAuthenticator(directory, auth.BcryptVerifier{}, tokens).
		WithLogger(authLogger).
		WithActivitySink(sink)
	verifier := auth.NewVerifier(tokens, directory, cfg.Auth).WithLogger(authLogger)
	sessions := auth.NewSessionAttacher(tokens, cfg.Auth).WithLogger(authLogger)
	guard := auth.NewGuard(verifier).WithLogger(authLogger)

	controller := auth.NewController(
		auth.WithDirectory(directory),
		auth.WithAuther(auther),
		auth.WithSessions(sessions),
		auth.WithGuard(guard),
		auth.WithControllerLogger(named(base, "http")),
		auth.WithControllerActivitySink(sink),
		auth.WithDebug(cfg.Debug),
	)

	app := fiber.New(fiber.Config{
		AppName:               "logins",
		DisableStartupMessage: true,
		ErrorHandler:          controller.ErrorHandler,
	})
	controller.Mount(app)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down", "timeout", cfg.HTTP.ShutdownTimeout.String())
		if err := app.ShutdownWithTimeout(cfg.HTTP.ShutdownTimeout); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr())
	if err := app.Listen(cfg.HTTP.Addr()); err != nil {
		logger.Error("server stopped", "error", err)
	}
}
