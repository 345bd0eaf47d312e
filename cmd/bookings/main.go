package main

import (
	"skyfare/internal/bookings/handler"
	"skyfare/internal/bookings/repository"
	"skyfare/internal/bookings/service"
	"skyfare/internal/bookings/validator"
	itinerariesrepo "skyfare/internal/itineraries/repository"
	legsrepo "skyfare/internal/legs/repository"
	"skyfare/pkg/app"
	"skyfare/pkg/config"
	"skyfare/pkg/events"
	"skyfare/pkg/metrics"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Bookings service")

	reporter := metrics.NewPrometheusReporter()
	bookingService, publisher := initServices(cfg, reporter)
	if publisher != nil {
		defer func() {
			if err := publisher.Close(); err != nil {
				cfg.Log.Error("Failed to close event publisher", "error", err)
			}
		}()
	}

	bookingValidator := validator.NewBookingValidator(cfg.Log)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewBookingHandler(bookingService, bookingValidator, cfg.Log), reporter.Handler())
	serverApp.Run()
}

func initServices(cfg *config.Config, reporter metrics.Reporter) (service.BookingService, events.Publisher) {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	idempotencyStore := repository.NewMongoIdempotencyStore(cfg)
	itineraryRepo := itinerariesrepo.NewMongoItineraryRepository(cfg)
	legRepo := legsrepo.NewMongoLegRepository(cfg)

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaBookingTopic)
		if err != nil {
			cfg.Log.Fatal("Failed to initialize Kafka publisher", "error", err)
		}
		publisher = kafkaPublisher
		cfg.Log.Info("Kafka publisher initialized", "topic", cfg.KafkaBookingTopic)
	} else {
		cfg.Log.Warn("No Kafka brokers configured, booking events disabled")
	}

	bookingService := service.NewBookingService(
		bookingRepo,
		idempotencyStore,
		itineraryRepo,
		legRepo,
		reporter,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService, publisher
}
