package main

import (
	flightsrepo "skyfare/internal/flights/repository"
	"skyfare/internal/itineraries/handler"
	"skyfare/internal/itineraries/repository"
	"skyfare/internal/itineraries/service"
	legsrepo "skyfare/internal/legs/repository"
	"skyfare/pkg/app"
	"skyfare/pkg/config"
)

const ServiceName = "itineraries"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Itineraries service")

	itineraryService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewItineraryHandler(itineraryService, cfg.Log), nil)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.ItineraryService {
	itineraryRepo := repository.NewMongoItineraryRepository(cfg)
	legRepo := legsrepo.NewMongoLegRepository(cfg)
	flightRepo := flightsrepo.NewMongoFlightRepository(cfg)

	itineraryService := service.NewItineraryService(
		itineraryRepo,
		legRepo,
		flightRepo,
		cfg,
	)

	cfg.Log.Info("Itinerary service initialized", "database", cfg.MongoDatabaseName)
	return itineraryService
}
