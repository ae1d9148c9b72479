package main

import (
	archivehandler "nestbook/internal/archive/handler"
	archiverepo "nestbook/internal/archive/repository"
	archiveservice "nestbook/internal/archive/service"
	"nestbook/internal/properties/handler"
	"nestbook/internal/properties/repository"
	"nestbook/internal/properties/service"
	"nestbook/internal/properties/validator"
	"nestbook/pkg/app"
	"nestbook/pkg/config"
	"nestbook/pkg/kafka"
	kafkaconfig "nestbook/pkg/kafka/config"
	kafkamiddleware "nestbook/pkg/kafka/middleware"
	"nestbook/pkg/notify"
)

const ServiceName = "properties"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close producer", "error", err)
		}
	}()

	cfg.Log.Info("Starting Properties service")
	propertyHandler, archiveHandler := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(propertyHandler, archiveHandler)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	producer, err := kafka.NewProducer(kafkaconfig.Load(), cfg.Log, cfg.AlertsTopic, cfg.AlertsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create alerts producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) (*handler.PropertyHandler, *archivehandler.ArchiveHandler) {
	notifier := notify.NewKafkaNotifier(producer, ServiceName, cfg.Log)

	propertyRepo := repository.NewMongoPropertyRepository(cfg)
	archiveRepo := archiverepo.NewMongoArchiveRepository(cfg)

	archiveService := archiveservice.NewArchiveService(archiveRepo, propertyRepo, notifier, cfg)
	propertyService := service.NewPropertyService(
		propertyRepo,
		validator.NewPropertyValidator(cfg.Log),
		archiveService,
		cfg,
	)

	cfg.Log.Info("Property service initialized", "database", cfg.MongoDatabaseName)
	return handler.NewPropertyHandler(propertyService, cfg.Log),
		archivehandler.NewArchiveHandler(archiveService, cfg.Log)
}
