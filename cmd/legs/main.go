package main

import (
	flightsrepo "skyfare/internal/flights/repository"
	"skyfare/internal/legs/handler"
	"skyfare/internal/legs/repository"
	"skyfare/internal/legs/service"
	"skyfare/pkg/app"
	"skyfare/pkg/config"
)

const ServiceName = "legs"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Legs service")

	legService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewLegHandler(legService, cfg.Log), nil)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.LegService {
	legRepo := repository.NewMongoLegRepository(cfg)
	flightRepo := flightsrepo.NewMongoFlightRepository(cfg)
	airportRepo := flightsrepo.NewMongoAirportRepository(cfg)

	legService := service.NewLegService(
		legRepo,
		flightRepo,
		airportRepo,
		cfg,
	)

	cfg.Log.Info("Leg service initialized",
		"database", cfg.MongoDatabaseName,
		"default_capacity", cfg.DefaultLegCapacity,
	)
	return legService
}
