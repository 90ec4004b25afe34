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

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/labdesk/labdesk/internal/config"
	"github.com/labdesk/labdesk/internal/domain/hospital"
	"github.com/labdesk/labdesk/internal/domain/report"
	"github.com/labdesk/labdesk/internal/domain/template"
	"github.com/labdesk/labdesk/internal/platform/artifact"
	"github.com/labdesk/labdesk/internal/platform/auth"
	"github.com/labdesk/labdesk/internal/platform/db"
	appmw "github.com/labdesk/labdesk/internal/platform/middleware"
	"github.com/labdesk/labdesk/internal/render"
)

var migrationsDir string

func main() {
	rootCmd := &cobra.Command{
		Use:   "labdesk-server",
		Short: "Lab report rendering and verification server",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "migrations directory")
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			RunE:  runMigrateUp,
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show migration status",
			RunE:  runMigrateStatus,
		},
	)

	rootCmd.AddCommand(serveCmd, migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info().Msg("database pool ready")

	hospitalSvc := hospital.NewService(hospital.NewRepoPG(pool))
	templateSvc := template.NewService(template.NewRepoPG(pool))
	reportSvc := report.NewService(report.NewRepoPG(pool), logger)

	renderer := render.NewRenderer(logger)
	artifacts := artifact.NewCache()

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = "http://localhost:" + cfg.Port
	}

	hospitalHandler := hospital.NewHandler(hospitalSvc)
	templateHandler := template.NewHandler(templateSvc)
	reportHandler := report.NewHandler(reportSvc, templateSvc, hospitalSvc, renderer,
		artifacts, baseURL, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(appmw.RequestID())
	e.Use(appmw.Recovery(logger))
	e.Use(appmw.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// Public document endpoints: rate limited per caller, with a deadline
	// sized for the render path.
	public := e.Group("",
		appmw.RateLimit(appmw.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		}),
		appmw.RequestTimeout(cfg.RenderTimeout()),
	)
	reportHandler.RegisterPublicRoutes(public)

	api := e.Group("/api/v1")
	if cfg.IsDev() && cfg.AuthJWTSecret == "" {
		logger.Warn().Msg("dev auth active: all staff requests run as admin")
		api.Use(auth.DevAuthMiddleware())
	} else {
		api.Use(auth.JWTMiddleware(auth.JWTConfig{SigningKey: []byte(cfg.AuthJWTSecret)}))
	}
	hospitalHandler.RegisterRoutes(api)
	templateHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	count, err := db.NewMigrator(pool, migrationsDir).Up(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("applied %d migration(s)\n", count)
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return err
	}
	defer pool.Close()

	statuses, err := db.NewMigrator(pool, migrationsDir).Status(ctx)
	if err != nil {
		return err
	}
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied " + s.AppliedAt.Format(time.RFC3339)
		}
		fmt.Printf("%03d  %-40s %s\n", s.Version, s.Name, state)
	}
	return nil
}
