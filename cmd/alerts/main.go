package main

import (
	"context"

	alertsconsumer "nestbook/internal/alerts/consumer"
	"nestbook/internal/alerts/handler"
	"nestbook/internal/alerts/repository"
	"nestbook/internal/alerts/service"
	"nestbook/pkg/app"
	"nestbook/pkg/config"
	"nestbook/pkg/kafka"
	kafkaconfig "nestbook/pkg/kafka/config"
	kafkamiddleware "nestbook/pkg/kafka/middleware"
)

const ServiceName = "alerts"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Alerts service")

	alertRepo := repository.NewMongoAlertRepository(cfg)
	alertService := service.NewAlertService(alertRepo, cfg)
	alertHandler := handler.NewAlertHandler(alertService, cfg.Log)

	consumer := initConsumer(cfg, alertService)
	defer func() {
		if err := consumer.Close(); err != nil {
			cfg.Log.Error("Failed to close consumer", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := consumer.Start(ctx); err != nil && err != context.Canceled {
			cfg.Log.Error("Alerts consumer stopped", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(alertHandler)
	serverApp.Run()
}

func initConsumer(cfg *config.Config, alertService service.AlertService) *kafka.Consumer {
	consumer, err := kafka.NewConsumer(
		kafkaconfig.Load(),
		cfg.Log,
		cfg.AlertsTopic,
		cfg.AlertsGroupID,
		cfg.AlertsDLQTopic,
		alertsconsumer.NewAlertHandler(alertService, cfg.Log),
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create alerts consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.LoggingConsumerMiddleware(cfg.Log))
	return consumer
}
