package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/atultingre/society-management-backend/internal/auth"
	"github.com/atultingre/society-management-backend/internal/config"
	"github.com/atultingre/society-management-backend/internal/houses"
	"github.com/atultingre/society-management-backend/internal/logging"
	"github.com/atultingre/society-management-backend/internal/router"
	"github.com/atultingre/society-management-backend/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("creating pgx pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("pinging database", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(logger),
	})

	app.Use(router.CorsMiddleware(cfg.CORSOrigin))
	app.Use(requestLogger(logger))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	userRepo := users.NewRepository(pool)
	houseRepo := houses.NewRepository(pool)
	houseService := houses.NewService(houseRepo, userRepo)

	r := &router.Router{
		AuthHandler:  users.NewHandler(userRepo, issuer, logger),
		HouseHandler: houses.NewHandler(houseService, logger),
		AuthMW:       auth.Middleware(issuer),
		AuthLimiter:  router.RateLimitAuth(cfg.AuthRateMax, cfg.RateLimitWindow),
		WriteLimiter: router.RateLimitWrite(cfg.WriteRateMax, cfg.RateLimitWindow),
	}
	r.RegisterRoutes(app)

	go func() {
		logger.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// errorHandler is the single place failures become HTTP responses. Field
// validation renders as {"errors": [...]}; everything unclassified is a
// generic 500 with no internal detail.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var vErr *houses.ValidationError
		if errors.As(err, &vErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": vErr.Fields})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		logger.Error("unhandled error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)))
		return err
	}
}
