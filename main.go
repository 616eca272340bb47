package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"pension-backend/cache"
	"pension-backend/config"
	"pension-backend/controllers"
	"pension-backend/repository"
	"pension-backend/routes"
	"pension-backend/services"
	"pension-backend/storage"
	"pension-backend/utils"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Info(".env not found; continuing with environment variables")
	}

	settings, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	log := config.NewLogger(settings)

	db, err := config.ConnectDatabase(settings, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	log.Info("database connected, migrations applied")

	ctx := context.Background()
	store, err := storage.New(ctx, settings)
	if err != nil {
		log.WithError(err).Fatal("object storage init failed")
	}

	var lock services.SubmissionLock
	if settings.RedisURL != "" {
		client, err := cache.NewRedisClient(settings.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("redis init failed")
		}
		if err := client.Ping(ctx).Err(); err != nil {
			log.WithError(err).Warn("redis not reachable yet; submissions will fail until it is")
		}
		defer client.Close()
		lock = cache.NewRedisSubmissionLock(client, settings.SubmissionLockTTL)
	} else {
		log.Info("REDIS_URL not set; using in-process submission lock")
		lock = cache.NewLocalSubmissionLock(settings.SubmissionLockTTL)
	}

	mailer := utils.NewMailer(utils.SMTPConfig{
		Host:     settings.SMTPHost,
		Port:     settings.SMTPPort,
		Username: settings.SMTPUser,
		Password: settings.SMTPPass,
		From:     settings.SMTPFrom,
	}, log)
	if !settings.MailEnabled() {
		log.Info("SMTP_HOST not set; booking emails are logged only")
	}

	// Initialize services
	bookingRepo := repository.NewBookingRepository(db)
	recorder := services.NewBookingRecorder(bookingRepo, store, lock, mailer, log)
	availability := services.NewAvailabilityChecker(bookingRepo)
	catalog := services.NewCatalogService(db)
	site := services.NewSiteService(db)

	// Initialize controllers
	h := routes.Controllers{
		Rooms:    controllers.NewRoomController(catalog, log),
		Bookings: controllers.NewBookingController(recorder, bookingRepo, availability, log),
		Site:     controllers.NewSiteController(site, log),
	}
	if settings.AdminAPIKey != "" {
		h.Admin = controllers.NewAdminController(services.NewBookingAdminService(db), site, log)
	} else {
		log.Info("ADMIN_API_KEY not set; operator routes disabled")
	}

	router := routes.SetupRouter(settings, log, h)

	addr := ":" + settings.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Warn("shutdown signal received, shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
		return
	}
	log.Info("server stopped gracefully")
}
