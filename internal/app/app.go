package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gal-ch/green-market/internal/dal/postgres"
	"github.com/gal-ch/green-market/internal/dal/rabbitmq"
	outboxrepo "github.com/gal-ch/green-market/internal/dal/repositories/outbox/postgres"
	storerepo "github.com/gal-ch/green-market/internal/dal/repositories/store/postgres"
	"github.com/gal-ch/green-market/internal/export"
	"github.com/gal-ch/green-market/internal/mail"
	"github.com/gal-ch/green-market/internal/otel"
	"github.com/gal-ch/green-market/internal/service/services/closingsvc"
	"github.com/gal-ch/green-market/internal/service/services/ordersvc"
	"github.com/gal-ch/green-market/internal/service/services/storesvc"
	httptransport "github.com/gal-ch/green-market/internal/transport/http"
	outboxworker "github.com/gal-ch/green-market/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	storeSvc       *storesvc.StoreService
	closingSvc     *closingsvc.ClosingService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	rabbitMqClient *rabbitmq.Client
	postgresClient *postgres.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()
	rabbitMqClient := rabbitmq.MustNewClient()
	postgresClient := postgres.MustNewClient()

	if _, err := rabbitMqClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    ordersvc.DayClosedRoutingKey,
		Durable: true,
	}); err != nil {
		panic("Failed to declare day-closed queue: " + err.Error())
	}

	storeRepository := storerepo.NewPostgresStoreRepository(postgresClient.Pool())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient.Pool())

	mailer := mail.MustNewMailer()
	encoder := export.NewEncoder()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
	)

	storeSvc := storesvc.MustNewStoreService(
		storesvc.WithStoreRepository(storeRepository),
	)

	closingSvc := closingsvc.MustNewClosingService(
		closingsvc.WithStoreRepository(storeRepository),
		closingsvc.WithOrderService(orderSvc),
		closingsvc.WithMailer(mailer),
		closingsvc.WithEncoder(encoder),
	)

	transport := httptransport.NewHTTPTransport(orderSvc, storeSvc, closingSvc, encoder)
	transport.RegisterRoutes()

	outboxWorker := outboxworker.NewWorker(outboxRepository, rabbitMqClient)

	return &App{
		orderSvc:       orderSvc,
		storeSvc:       storeSvc,
		closingSvc:     closingSvc,
		transport:      transport,
		outboxWorker:   outboxWorker,
		rabbitMqClient: rabbitMqClient,
		postgresClient: postgresClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	go func() {
		slog.Info("Starting outbox worker")
		a.outboxWorker.Start(ctx)
	}()

	<-stop
	slog.Info("Shutdown signal received")
	cancel()

	a.gracefulShutdown()
}

// gracefulShutdown performs graceful shutdown of all application components.
// It shuts down components sequentially: outbox worker, HTTP server, RabbitMQ,
// PostgreSQL, and OpenTelemetry.
func (a *App) gracefulShutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a.outboxWorker.Stop()
	slog.Info("Outbox worker stopped gracefully")

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	if err := a.rabbitMqClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	a.postgresClient.Close()

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Otel trace provider connection close error", "error", err)
	} else {
		slog.Info("Otel trace provider connection closed gracefully")
	}

	select {
	case <-ctx.Done():
		slog.Warn("Shutdown timeout exceeded")
	default:
		slog.Info("Application shutdown complete")
	}
}
