package main

import (
	"nestbook/internal/availability"
	"nestbook/internal/bookings/handler"
	"nestbook/internal/bookings/repository"
	"nestbook/internal/bookings/service"
	"nestbook/internal/bookings/validator"
	"nestbook/pkg/app"
	"nestbook/pkg/config"
	"nestbook/pkg/kafka"
	kafkaconfig "nestbook/pkg/kafka/config"
	kafkamiddleware "nestbook/pkg/kafka/middleware"
	"nestbook/pkg/notify"
	"nestbook/pkg/sealer"
)

const ServiceName = "bookings"

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

	cfg.Log.Info("Starting Bookings service")
	bookingHandler := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(bookingHandler)
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

func initServices(cfg *config.Config, producer *kafka.Producer) *handler.BookingHandler {
	tokenSealer, err := sealer.New(cfg.SealerKey)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize sealer", "error", err)
	}

	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewBookingLockRepository(cfg)
	propertyReader := repository.NewPropertyReader(cfg)
	availabilityService := availability.NewService(bookingRepo, cfg.Log)
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	notifier := notify.NewKafkaNotifier(producer, ServiceName, cfg.Log)

	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		propertyReader,
		availabilityService,
		bookingValidator,
		notifier,
		tokenSealer,
		cfg,
	)

	bookingHandler := handler.NewBookingHandler(
		bookingService,
		availabilityService,
		bookingRepo.Collection(),
		cfg.Log,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingHandler
}
