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

	"github.com/harborview/clinic/internal/config"
	"github.com/harborview/clinic/internal/domain/appointment"
	"github.com/harborview/clinic/internal/domain/assessment"
	"github.com/harborview/clinic/internal/domain/crisis"
	"github.com/harborview/clinic/internal/domain/dashboard"
	"github.com/harborview/clinic/internal/domain/episode"
	"github.com/harborview/clinic/internal/domain/patient"
	"github.com/harborview/clinic/internal/domain/risk"
	"github.com/harborview/clinic/internal/platform/auth"
	"github.com/harborview/clinic/internal/platform/db"
	"github.com/harborview/clinic/internal/platform/middleware"
)

func main() {
	root := &cobra.Command{
		Use:   "clinic-server",
		Short: "Behavioral health clinic API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	var migrationsDir string
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema migrations",
	}
	migrateCmd.PersistentFlags().StringVar(&migrationsDir, "dir", "migrations", "directory holding migration files")

	migrateUpCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), migrationsDir, false)
		},
	}
	migrateStatusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), migrationsDir, true)
		},
	}
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
	root.AddCommand(serveCmd, migrateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDev() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger := newLogger(cfg)

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		if err := pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	var authMW echo.MiddlewareFunc
	if cfg.IsDev() && cfg.JWTSecret == "" {
		authMW = auth.DevAuthMiddleware()
	} else {
		authMW = auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			SigningKey: []byte(cfg.JWTSecret),
		})
	}
	api := e.Group("/api/v1", authMW)

	patientRepo := patient.NewPGRepository(pool)
	escalator := risk.NewEscalator(patientRepo, logger)

	patientSvc := patient.NewService(patientRepo, logger)
	assessmentSvc := assessment.NewService(assessment.NewPGRepository(pool), patientRepo, escalator, logger)
	crisisSvc := crisis.NewService(crisis.NewPGRepository(pool), patientRepo, escalator, logger)
	episodeSvc := episode.NewService(episode.NewPGRepository(pool), patientRepo, logger)
	appointmentSvc := appointment.NewService(appointment.NewPGRepository(pool), patientRepo, logger)
	dashboardSvc := dashboard.NewService(dashboard.NewPGRepository(pool), logger)

	patient.NewHandler(patientSvc, logger).RegisterRoutes(api)
	assessment.NewHandler(assessmentSvc, logger).RegisterRoutes(api)
	crisis.NewHandler(crisisSvc, logger).RegisterRoutes(api)
	episode.NewHandler(episodeSvc, logger).RegisterRoutes(api)
	appointment.NewHandler(appointmentSvc, logger).RegisterRoutes(api)
	dashboard.NewHandler(dashboardSvc, logger).RegisterRoutes(api)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func runMigrate(ctx context.Context, dir string, statusOnly bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	migrator := db.NewMigrator(pool, dir)
	if statusOnly {
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			state := "pending"
			if st.Applied {
				state = "applied"
			}
			fmt.Printf("%03d  %-30s %s\n", st.Version, st.Name, state)
		}
		return nil
	}

	n, err := migrator.Up(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("applied", n).Msg("migrations complete")
	return nil
}
