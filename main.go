// main.go - Trio Tag event server
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"triotag/config"
	"triotag/database"
	"triotag/handlers"
	"triotag/handlers/admin"
	"triotag/middleware"
	"triotag/services"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}
	log := newLogger(cfg)

	// Snapshot store
	var (
		store services.Store = services.NewMemoryStore()
		db    *gorm.DB
	)
	if cfg.Store == "postgres" {
		db, err = database.Open(cfg.DatabaseURL, log)
		if err != nil {
			log.Fatal().Err(err).Msg("database unavailable")
		}
		defer database.Close(db)
		store = database.NewGormStore(db)
	}

	// Metrics
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(reg)

	svc := services.NewEventService(store, services.Options{
		WaveSize: cfg.Event.WaveSize,
		Logger:   &log,
		Metrics:  metrics,
	})
	loadCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := svc.Load(loadCtx); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("failed to load event state")
	}
	cancel()

	clock := clockwork.NewRealClock()
	auth, err := admin.NewAuthenticator(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash, []byte(cfg.JWTSecret), cfg.TokenTTL, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure admin login")
	}
	adminOnly := middleware.AdminAuth([]byte(cfg.JWTSecret), clock)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(log, cfg.IsProduction()),
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	stopSweepers := make(chan struct{})
	defer close(stopSweepers)

	var authLimit fiber.Handler = func(c *fiber.Ctx) error { return c.Next() }
	if cfg.RateLimitEnabled {
		general := middleware.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow, clock)
		strict := middleware.NewRateLimiter(cfg.AuthRateLimitMax, cfg.AuthRateLimitWindow, clock)
		go general.RunSweeper(5*time.Minute, 10*time.Minute, stopSweepers)
		go strict.RunSweeper(5*time.Minute, 10*time.Minute, stopSweepers)

		app.Use(middleware.RateLimit(general, ""))
		authLimit = middleware.RateLimit(strict, "Too many login attempts. Please try again later.")
	}

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   version,
			"store":     cfg.Store,
		})
	})

	// API Routes
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", authLimit, auth.Login)
	authGroup.Get("/verify", adminOnly, admin.VerifyToken)

	handlers.New(svc, log, cfg.Event).Register(api, adminOnly)

	// Static UI (admin console and spectator leaderboard)
	app.Static("/", cfg.StaticDir)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("env", cfg.AppEnv).
		Str("store", cfg.Store).
		Int("wave_size", cfg.Event.WaveSize).
		Msg("HTTP server starting")

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("HTTP server stopped")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}
