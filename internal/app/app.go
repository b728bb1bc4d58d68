package app

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"parishlink/internal/auth"
	"parishlink/internal/config"
	"parishlink/internal/database"
	"parishlink/internal/email"
	"parishlink/internal/handlers"
	"parishlink/internal/logger"
	"parishlink/internal/middleware"
	"parishlink/internal/models"
	"parishlink/internal/repositories"
	"parishlink/internal/routes"
	"parishlink/internal/services"
	"parishlink/internal/workers"
	"parishlink/internal/ws"
)

// hubPusher adapts the websocket hub to the services' push interface.
type hubPusher struct {
	hub *ws.Hub
}

func (p hubPusher) PushToUser(userID, eventType string, payload interface{}) {
	p.hub.SendToUser(userID, ws.Event{Type: eventType, Payload: payload})
}

// SetupRouter builds the full engine against an existing database
// handle. Tests call this directly with a transaction-backed db.
func SetupRouter(db *gorm.DB, sc *services.ServiceContainer, hub *ws.Hub) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.DBMiddleware(db))

	appHandlers := handlers.NewAppHandlers(sc)
	routes.SetupRoutes(r, appHandlers, hub)
	return r
}

// Run is the whole process: config, database, redis, seed, workers,
// HTTP. Blocks until SIGINT/SIGTERM, then drains.
func Run() error {
	config.LoadConfig()
	cfg := config.GetConfig()

	logger.Init(cfg.Server.Env)
	auth.Configure(cfg.JWT.Secret, cfg.JWT.TTL)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	if cfg.Redis.URL != "" {
		if err := database.ConnectRedis(cfg.Redis.URL); err != nil {
			logger.WithError(err).Warn("redis unavailable, presence and rate limits degraded")
		}
		defer database.DisconnectRedis()
	}

	if err := seedFirstAdmin(db, cfg); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	sc := services.NewServiceContainer()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub()
	go hub.Run(ctx)
	pusher := hubPusher{hub: hub}
	sc.MessageService.SetPusher(pusher)
	sc.NotificationService.SetPusher(pusher)

	outboxWorker := workers.NewOutboxWorker(db, repositories.NewOutboxRepository(), email.NewSMTPProvider(cfg), cfg)
	go outboxWorker.Run(ctx)

	r := SetupRouter(db, sc, hub)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// seedFirstAdmin makes sure at least one admin exists so the first
// registrations can be approved. Idempotent across restarts.
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	if cfg.App.FirstAdminEmail == "" || cfg.App.FirstAdminPassword == "" {
		logger.Warn("first admin credentials not configured, skipping seed")
		return nil
	}

	userRepo := repositories.NewUserRepository()

	return db.Transaction(func(tx *gorm.DB) error {
		count, err := userRepo.CountByRole(tx, models.UserRoleAdmin)
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		hash, err := auth.HashPassword(cfg.App.FirstAdminPassword)
		if err != nil {
			return err
		}

		now := time.Now()
		admin := &models.User{
			Email:             cfg.App.FirstAdminEmail,
			PasswordHash:      hash,
			Name:              firstAdminName(cfg),
			Role:              models.UserRoleAdmin,
			AccountStatus:     models.ApprovalStatusApproved,
			AccountApprovedAt: &now,
			AccountApprovedBy: "bootstrap",
			IsVerified:        true,
		}
		if err := userRepo.Create(tx, admin); err != nil {
			return err
		}
		logger.Info("seeded first admin", "email", admin.Email)
		return nil
	})
}

func firstAdminName(cfg *config.Config) string {
	if cfg.App.FirstAdminName != "" {
		return cfg.App.FirstAdminName
	}
	return "Administrator"
}
