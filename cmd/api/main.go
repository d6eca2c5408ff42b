package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aurumjoyeria/aurum-backend/api/routes"
	"github.com/aurumjoyeria/aurum-backend/internal/auth"
	"github.com/aurumjoyeria/aurum-backend/internal/carousel"
	"github.com/aurumjoyeria/aurum-backend/internal/products"
	"github.com/aurumjoyeria/aurum-backend/pkg/auth/session"
	"github.com/aurumjoyeria/aurum-backend/pkg/config"
	"github.com/aurumjoyeria/aurum-backend/pkg/db"
	"github.com/aurumjoyeria/aurum-backend/pkg/logger"
	"github.com/aurumjoyeria/aurum-backend/pkg/mailer"
	"github.com/aurumjoyeria/aurum-backend/pkg/metrics"
	"github.com/aurumjoyeria/aurum-backend/pkg/migrate"
	redisclient "github.com/aurumjoyeria/aurum-backend/pkg/redis"
	"github.com/aurumjoyeria/aurum-backend/pkg/storage/gcs"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.Features.UseSQLite, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redisclient.New(ctx, cfg.Redis, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(ctx, "failed to create session manager", err)
		os.Exit(1)
	}

	var gcsClient *gcs.Client
	if cfg.GCS.Bucket != "" {
		gcsClient, err = gcs.NewClient(ctx, cfg.GCS, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap object storage", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "object storage not configured, image uploads disabled")
	}

	var mailSender mailer.Sender
	if cfg.Mail.Enabled && cfg.Mail.ResendKey != "" {
		mailSender, err = mailer.NewClient(cfg.Mail, cfg.App)
		if err != nil {
			logg.Error(ctx, "failed to create mailer", err)
			os.Exit(1)
		}
	} else {
		logg.Warn(ctx, "mailer not configured, account emails disabled")
	}

	authService, err := auth.NewService(auth.ServiceParams{
		DB:             dbClient,
		Mailer:         mailSender,
		SessionManager: sessionManager,
		Logger:         logg,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(ctx, "failed to create auth service", err)
		os.Exit(1)
	}

	productParams := products.ServiceParams{DB: dbClient, Logger: logg, Media: cfg.Media}
	carouselParams := carousel.ServiceParams{DB: dbClient, Logger: logg, Media: cfg.Media}
	if gcsClient != nil {
		productParams.Storage = gcsClient
		carouselParams.Storage = gcsClient
	}

	productService, err := products.NewService(productParams)
	if err != nil {
		logg.Error(ctx, "failed to create products service", err)
		os.Exit(1)
	}
	carouselService, err := carousel.NewService(carouselParams)
	if err != nil {
		logg.Error(ctx, "failed to create carousel service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics()

	deps := routes.Deps{
		Config:      cfg,
		Logger:      logg,
		DB:          dbClient,
		Redis:       redisClient,
		Sessions:    sessionManager,
		HTTPMetrics: httpMetrics,
		AuthService: authService,
		Products:    productService,
		Carousel:    carouselService,
	}
	if gcsClient != nil {
		deps.Storage = gcsClient
	}

	addr := fmt.Sprintf("%s:%d", cfg.App.Host, cfg.App.Port)
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      routes.NewRouter(deps),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	runCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(runCtx, "starting api server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(runCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(runCtx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(ctx, cfg.App.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(runCtx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
