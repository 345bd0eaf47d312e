package main

import (
	"skyfare/internal/flights/handler"
	"skyfare/internal/flights/repository"
	"skyfare/internal/flights/service"
	"skyfare/internal/flights/validator"
	"skyfare/pkg/app"
	"skyfare/pkg/config"
)

const ServiceName = "flights"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Flights service")

	flightService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewFlightHandler(flightService, cfg.Log), nil)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.FlightService {
	flightRepo := repository.NewMongoFlightRepository(cfg)
	airportRepo := repository.NewMongoAirportRepository(cfg)
	airlineRepo := repository.NewMongoAirlineRepository(cfg)
	flightValidator := validator.NewFlightValidator(cfg.Log)

	flightService := service.NewFlightService(
		flightRepo,
		airportRepo,
		airlineRepo,
		flightValidator,
		cfg,
	)

	cfg.Log.Info("Flight service initialized", "database", cfg.MongoDatabaseName)
	return flightService
}
