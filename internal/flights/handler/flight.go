package handler

import (
	"encoding/json"
	"net/http"

	"skyfare/internal/flights/repository"
	"skyfare/internal/flights/service"
	httputil "skyfare/pkg/http"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type FlightHandler struct {
	service service.FlightService
	log     *logger.Logger
}

func NewFlightHandler(service service.FlightService, log *logger.Logger) *FlightHandler {
	return &FlightHandler{
		service: service,
		log:     log,
	}
}

func (h *FlightHandler) CreateFlight(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var flight model.Flight
	if err := json.NewDecoder(r.Body).Decode(&flight); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateFlight", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateFlight(r.Context(), &flight); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateFlight", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, flight); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateFlight", "error", err)
	}
}

func (h *FlightHandler) GetFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	flight, err := h.service.GetFlight(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetFlight", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, flight); err != nil {
		h.log.Error("failed to write success response", "handler", "GetFlight", "error", err)
	}
}

func (h *FlightHandler) ListFlights(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListFlights", "error", writeErr)
		}
		return
	}

	flights, total, err := h.service.ListFlights(r.Context(), repository.FlightFilter{
		OriginIATA:      query.Get("origin"),
		DestinationIATA: query.Get("destination"),
		AirlineID:       query.Get("airline_id"),
	}, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListFlights", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, flights, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListFlights", "error", err)
	}
}

func (h *FlightHandler) DeleteFlight(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.DeleteFlight(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "DeleteFlight", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *FlightHandler) CreateAirport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var airport model.Airport
	if err := json.NewDecoder(r.Body).Decode(&airport); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateAirport", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateAirport(r.Context(), &airport); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateAirport", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, airport); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateAirport", "error", err)
	}
}

func (h *FlightHandler) GetAirport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	iata := ps.ByName("iata")

	airport, err := h.service.GetAirportByIATA(r.Context(), iata)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAirport", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, airport); err != nil {
		h.log.Error("failed to write success response", "handler", "GetAirport", "error", err)
	}
}

func (h *FlightHandler) ListAirports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAirports", "error", writeErr)
		}
		return
	}

	airports, total, err := h.service.ListAirports(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAirports", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, airports, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "ListAirports", "error", err)
	}
}

func (h *FlightHandler) CreateAirline(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var airline model.Airline
	if err := json.NewDecoder(r.Body).Decode(&airline); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CreateAirline", "error", writeErr)
		}
		return
	}

	if err := h.service.CreateAirline(r.Context(), &airline); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "CreateAirline", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, airline); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateAirline", "error", err)
	}
}

func (h *FlightHandler) ListAirlines(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	airlines, err := h.service.ListAirlines(r.Context())
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListAirlines", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, airlines); err != nil {
		h.log.Error("failed to write success response", "handler", "ListAirlines", "error", err)
	}
}

func (h *FlightHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/flights", h.CreateFlight)
	router.GET("/api/v1/flights", h.ListFlights)
	router.GET("/api/v1/flights/id/:id", h.GetFlight)
	router.DELETE("/api/v1/flights/id/:id", h.DeleteFlight)

	router.POST("/api/v1/airports", h.CreateAirport)
	router.GET("/api/v1/airports", h.ListAirports)
	router.GET("/api/v1/airports/iata/:iata", h.GetAirport)

	router.POST("/api/v1/airlines", h.CreateAirline)
	router.GET("/api/v1/airlines", h.ListAirlines)
}
