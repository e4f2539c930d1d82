package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lostfound/infra/grpc"
	"lostfound/infra/memory"
	"lostfound/infra/rabbitmq"
	"lostfound/pkg/config"
	"lostfound/pkg/events"
	"lostfound/pkg/httperror"
	"lostfound/pkg/logger"
	"lostfound/pkg/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
			return writeError(c, httperror.BadRequest(
				"request.invalid_body",
				"Invalid body",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.ParamsParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_path_params",
				"Invalid path params",
				fiber.Map{"error": err.Error()},
			))
		}

		if err := c.QueryParser(&req); err != nil {
			return writeError(c, httperror.BadRequest(
				"request.invalid_query_params",
				"Invalid query params",
				fiber.Map{"error": err.Error()},
			))
		}

		ctx := c.UserContext()

		res, err := handler.Handle(ctx, &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

func main() {
	appConfig := config.Read()
	log := logger.Init(appConfig.LogLevel, appConfig.LogFormat)
	defer log.Sync()

	zap.L().Info("app starting...",
		zap.String("port", appConfig.Port),
		zap.String("grpcPort", appConfig.GRPCPort),
		zap.String("serviceName", appConfig.ServiceName),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := dependencies{
		repository:         memory.NewRepository(),
		publisher:          newPublisher(appConfig),
		recorder:           metrics.NewCollector(registry),
		gatherer:           registry,
		publicBaseURL:      appConfig.PublicBaseURL,
		reactionRateLimit:  appConfig.ReactionRateLimit,
		reactionRateWindow: appConfig.ReactionRateWindow,
	}
	if deps.publisher != nil {
		defer deps.publisher.Close()
	}

	app := newApp(deps)

	var grpcServer *grpc.Server
	if appConfig.GRPCPort != "" {
		var err error
		grpcServer, err = grpc.NewServer(appConfig)
		if err != nil {
			zap.L().Error("failed to create grpc server", zap.Error(err))
			os.Exit(1)
		}
		grpc.RegisterItemServiceServer(grpcServer.GetGRPCServer(), grpc.NewItemServiceServer(deps.repository, deps.publisher, deps.recorder))

		go func() {
			if err := grpcServer.Start(); err != nil {
				zap.L().Error("failed to start grpc server", zap.Error(err))
				os.Exit(1)
			}
		}()
	}

	go func() {
		if err := app.Listen(fmt.Sprintf("0.0.0.0:%s", appConfig.Port)); err != nil {
			zap.L().Error("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	zap.L().Info("Server started on port", zap.String("port", appConfig.Port))

	gracefulShutdown(app, grpcServer)
}

// newPublisher returns nil when no broker is configured; events are then
// simply not emitted.
func newPublisher(appConfig *config.AppConfig) events.Publisher {
	if appConfig.RabbitMQURL == "" {
		zap.L().Info("RABBITMQ_URL not set, item events are disabled")
		return nil
	}

	publisher, err := rabbitmq.NewRabbitMQPublisher(appConfig.RabbitMQURL, appConfig.ServiceName)
	if err != nil {
		zap.L().Error("Failed to connect event publisher, item events are disabled", zap.Error(err))
		return nil
	}
	return publisher
}

func gracefulShutdown(app *fiber.App, grpcServer *grpc.Server) {
	// Create channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Wait for shutdown signal
	<-sigChan
	zap.L().Info("Shutting down server...")

	// Shutdown with 5 second timeout
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zap.L().Error("Error during server shutdown", zap.Error(err))
	}

	if grpcServer != nil {
		if err := grpcServer.GracefulStop(); err != nil {
			zap.L().Error("Error during grpc server shutdown", zap.Error(err))
		}
	}

	zap.L().Info("Server gracefully stopped")
}

func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		payload := fiber.Map{
			"code":    httpErr.Code,
			"message": httpErr.Message,
		}

		if httpErr.Details != nil {
			payload["details"] = httpErr.Details
		}

		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber validation error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"code":    "request.invalid",
			"message": fiberErr.Message,
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"code":    "internal_server_error",
		"message": "Internal server error.",
	})
}
