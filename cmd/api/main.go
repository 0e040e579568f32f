package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/danceflow/danceflow-api/internal/config"
	"github.com/danceflow/danceflow-api/internal/domain/booking"
	"github.com/danceflow/danceflow-api/internal/domain/dashboard"
	"github.com/danceflow/danceflow-api/internal/domain/event"
	"github.com/danceflow/danceflow-api/internal/domain/studio"
	"github.com/danceflow/danceflow-api/internal/domain/user"
	"github.com/danceflow/danceflow-api/internal/middleware"
	"github.com/danceflow/danceflow-api/internal/pkg/database"
	"github.com/danceflow/danceflow-api/internal/pkg/jwt"
	"github.com/danceflow/danceflow-api/internal/pkg/logger"
	"github.com/danceflow/danceflow-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting DanceFlow API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redisClient, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redisClient)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL)

	// ---------- Repositories ----------
	bookingRepo := booking.NewRepository(db)
	eventRepo := event.NewRepository(db)
	dashboardRepo := dashboard.NewRepository(db)
	userRepo := user.NewRepository(db)

	// ---------- Services ----------
	snapshotCache := booking.NewSnapshotCache(redisClient, cfg.SnapshotCacheTTL)
	bookingService := booking.NewService(bookingRepo, eventRepo, snapshotCache, booking.CancellationPolicy{
		NoticeHours: cfg.CancellationNoticeHours,
	})
	dashboardService := dashboard.NewService(dashboardRepo, redisClient)

	// ---------- Handlers ----------
	studioHandler := studio.NewHandler()
	bookingHandler := booking.NewHandler(bookingService)
	eventHandler := event.NewHandler(eventRepo, snapshotCache)
	dashboardHandler := dashboard.NewHandler(dashboardService)
	userHandler := user.NewHandler(userRepo)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(chimw.Compress(5))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/studios", studioHandler.Routes(bookingHandler.Availability))
		r.Mount("/bookings", bookingHandler.Routes(authMiddleware))
		r.Mount("/booking-groups", bookingHandler.GroupRoutes(authMiddleware))
		r.Mount("/events", eventHandler.Routes(authMiddleware))
		r.Mount("/dashboard", dashboardHandler.Routes(authMiddleware))
		r.Mount("/users", userHandler.Routes(authMiddleware))
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
