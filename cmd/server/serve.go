package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yourusername/jobseeker-api/internal/config"
	"github.com/yourusername/jobseeker-api/internal/handler"
	"github.com/yourusername/jobseeker-api/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		migrate, _ := cmd.Flags().GetBool("migrate")
		return serve(cmd.Context(), cfg, migrate)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "apply pending migrations before serving")
}

func serve(ctx context.Context, cfg *config.Config, migrate bool) error {
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("Starting job seeker API")

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Stores ───────────────────────────────────────────
	s, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer s.close()

	if migrate {
		versions, err := s.migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
		log.Info().Ints("versions", versions).Msg("Schema up to date")
	}

	// ── Middleware ────────────────────────────────────────
	verifier, err := middleware.NewFirebaseVerifier(ctx, cfg.FirebaseProjectID)
	if err != nil {
		return fmt.Errorf("initializing Firebase auth: %w", err)
	}
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS)
	defer rateLimiter.Stop()

	// ── Router ───────────────────────────────────────────
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := handler.NewRouter(handler.Deps{
		Jobs:           jobSource(cfg, s),
		Refs:           s.refs,
		Users:          s.users,
		Auth:           middleware.NewAuthMiddleware(verifier),
		RateLimiter:    rateLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		PageSize:       cfg.PageSize,
		PageWindow:     cfg.PageWindow,
		FanOutLimit:    cfg.FanOutLimit,
	})

	// ── Server ───────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	log.Info().Str("port", cfg.Port).Msg("Job seeker API server running")

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("Server stopped")
	return nil
}
