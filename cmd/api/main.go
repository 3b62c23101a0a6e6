package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/brightsmile/scheduling-api/internal/clinic"
	"github.com/brightsmile/scheduling-api/internal/config"
	"github.com/brightsmile/scheduling-api/internal/handler"
	appointmentHandler "github.com/brightsmile/scheduling-api/internal/handler/appointment"
	availabilityHandler "github.com/brightsmile/scheduling-api/internal/handler/availability"
	bookingHandler "github.com/brightsmile/scheduling-api/internal/handler/booking"
	"github.com/brightsmile/scheduling-api/internal/middleware"
	"github.com/brightsmile/scheduling-api/internal/payment"
	"github.com/brightsmile/scheduling-api/internal/repository/postgres"
	"github.com/brightsmile/scheduling-api/internal/router"
	"github.com/brightsmile/scheduling-api/internal/schedule"
	availabilityService "github.com/brightsmile/scheduling-api/internal/service/availability"
	bookingService "github.com/brightsmile/scheduling-api/internal/service/booking"
	"github.com/brightsmile/scheduling-api/pkg/logger"
	"github.com/brightsmile/scheduling-api/pkg/messaging"
	redisbroker "github.com/brightsmile/scheduling-api/pkg/messaging/redis"
	"github.com/brightsmile/scheduling-api/pkg/metrics"
)

func main() {
	appLogger := logger.NewLogger(nil)
	zl := appLogger.Zerolog()

	cfg, err := config.LoadConfig()
	if err != nil {
		appLogger.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		appLogger.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	journal := postgres.NewAttemptJournal(db)

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisbroker.NewRedisBroker(redisbroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, zl)
		if err != nil {
			appLogger.Fatal(err, "failed to connect to Redis")
		}
		defer func() {
			if err := broker.Close(); err != nil {
				appLogger.Error(err, "failed to close event broker")
			}
		}()
	}

	policy, err := schedule.NewPolicy(schedule.PolicyConfig{
		CutoffHour:  cfg.Booking.CutoffHour,
		HorizonDays: cfg.Booking.HorizonDays,
		Timezone:    cfg.Booking.Timezone,
	})
	if err != nil {
		appLogger.Fatal(err, "invalid booking policy configuration")
	}

	m := metrics.NewMetrics("scheduling")

	clinicClient := clinic.NewClientWithMetrics(clinic.Config{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout(),
	}, m, zl)

	gateway := payment.NewGateway(payment.Config{
		BaseURL:   cfg.Payment.BaseURL,
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		Currency:  cfg.Payment.Currency,
		Timeout:   cfg.Payment.Timeout(),
	}, zl)

	availabilitySvc := availabilityService.NewService(clinicClient, cfg.Booking.CacheTTL(), m, zl)
	bookingSvc := bookingService.NewService(
		clinicClient,
		gateway,
		policy,
		journal,
		broker,
		m,
		zl,
		bookingService.Config{
			FeeMinorUnits:    cfg.Payment.BookingFeeMinor,
			MaxDurationHours: cfg.Booking.MaxDurationHours,
			SymptomsLimit:    cfg.Booking.SymptomsLimit,
		},
	)

	authMiddleware := middleware.NewAuthMiddleware()

	r := router.New(
		authMiddleware,
		availabilityHandler.NewHandler(availabilitySvc, policy),
		bookingHandler.NewHandler(bookingSvc),
		appointmentHandler.NewHandler(bookingSvc),
		handler.NewHealth(db),
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RPS),
			RateBurst:  cfg.RateLimit.Burst,
			CORSConfig: middleware.DefaultCORSConfig(),
			Timeout:    cfg.Server.Timeout(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal(err, "server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}
