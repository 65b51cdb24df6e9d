package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdg-garage/memorial-api/internal/attendance"
	"github.com/gdg-garage/memorial-api/internal/auth"
	"github.com/gdg-garage/memorial-api/internal/cache"
	"github.com/gdg-garage/memorial-api/internal/database"
	"github.com/gdg-garage/memorial-api/internal/handlers"
	"github.com/gdg-garage/memorial-api/internal/notifier"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

// newService wires the attendance service with whatever optional
// collaborators are configured.
func newService(ctx context.Context, db *gorm.DB) *attendance.Service {
	var opts []attendance.Option

	if cfg.DiscordBotToken != "" {
		discordNotifier, err := notifier.Open(cfg.DiscordBotToken, cfg.DiscordNotificationsChannelID)
		if err != nil {
			log.Warn().Err(err).Msg("Discord notifier not initialized")
		} else {
			opts = append(opts, attendance.WithNotifier(discordNotifier))
		}
	}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			log.Warn().Err(err).Msg("Summary cache disabled")
		} else {
			opts = append(opts, attendance.WithCache(cache.NewSummaryCache(client, cfg.SummaryCacheTTL)))
		}
	}

	return attendance.NewService(db, cfg.DefaultCapacity, opts...)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return err
	}

	svc := newService(ctx, db)
	adminAuth := auth.NewAdminAuth(cfg)
	if cfg.AdminToken == "" {
		log.Warn().Msg("ADMIN_TOKEN is not set, admin endpoints will reject every request")
	}

	// Initialize Router
	r := chi.NewRouter()
	handlers.RegisterRoutes(r, cfg, adminAuth, handlers.NewAttendanceHandler(svc), handlers.NewMemorialHandler(db, svc))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	svc.Wait()
	return err
}
