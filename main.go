package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"wiz-homes/config"
	"wiz-homes/controllers"
	"wiz-homes/routes"
	"wiz-homes/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.SetupLogger(cfg)
	if cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	kv, closeStore, err := config.OpenStore(cfg)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer closeStore()
	log.WithField("driver", cfg.StoreDriver).Info("store ready")

	// Initialize services
	roomService := services.NewRoomService(kv, config.DefaultRooms)
	bookingService := services.NewBookingService(kv, services.NewEventPublisher(cfg.RabbitMQURL), cfg.ReserveDelay)
	userService := services.NewUserService(kv)
	settingsService := services.NewSettingsService(kv)
	imageService := services.NewImageService(cfg.UploadDir)
	hub := services.NewNotificationHub()

	gate := services.NewAuthGate(userService, services.AuthConfig{
		Secret:        cfg.JWTSecret,
		SessionTTL:    cfg.SessionTTL,
		BcryptCost:    cfg.BcryptCost,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		LoginDelay:    cfg.LoginDelay,
		SignupDelay:   cfg.SignupDelay,
	})
	registry := services.NewWorkspaceRegistry(services.WorkspaceDeps{
		Rooms:     roomService,
		Bookings:  bookingService,
		Images:    imageService,
		Hub:       hub,
		NotifyTTL: cfg.NotifyTTL,
	})
	gate.OnSignOut(registry.Close)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go gate.RunSweeper(sweepCtx, cfg.SessionSweep)

	// Make sure the inventory is seeded before the first request.
	if _, err := roomService.GetRooms(context.Background()); err != nil {
		log.Fatalf("load rooms: %v", err)
	}

	router := routes.SetupRouter(routes.Handlers{
		Rooms:         controllers.NewRoomController(roomService, bookingService),
		Bookings:      controllers.NewBookingController(bookingService),
		Auth:          controllers.NewAuthController(gate),
		Settings:      controllers.NewSettingsController(settingsService),
		Admin:         controllers.NewAdminController(registry),
		Notifications: controllers.NewNotificationController(hub),
		Gate:          gate,
		CorsOrigins:   cfg.ParseCorsOrigins(),
		UploadDir:     cfg.UploadDir,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
		return
	}
	log.Info("server stopped gracefully")
}
