package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"skyfare/internal/itineraries/service"
	apperrors "skyfare/pkg/errors"
	httputil "skyfare/pkg/http"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ItineraryHandler struct {
	service service.ItineraryService
	log     *logger.Logger
}

func NewItineraryHandler(service service.ItineraryService, log *logger.Logger) *ItineraryHandler {
	return &ItineraryHandler{
		service: service,
		log:     log,
	}
}

func (h *ItineraryHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var itinerary model.Itinerary
	if err := json.NewDecoder(r.Body).Decode(&itinerary); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.service.Create(r.Context(), &itinerary); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, itinerary); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *ItineraryHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	itinerary, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, itinerary); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

// Search handles GET /api/v1/itineraries/search. Seat counts in the response
// are snapshots; only a booking request can claim them.
func (h *ItineraryHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	queryParams := r.URL.Query()

	query := service.AvailabilityQuery{
		Origin:        queryParams.Get("origin"),
		Destination:   queryParams.Get("destination"),
		DepartureDate: queryParams.Get("departure_date"),
		ExcludeRedEye: queryParams.Get("exclude_red_eye") == "true",
	}

	if airlines := queryParams.Get("airlines"); airlines != "" {
		query.Airlines = strings.Split(airlines, ",")
	}

	if maxStopsStr := queryParams.Get("max_stops"); maxStopsStr != "" {
		maxStops, err := strconv.Atoi(maxStopsStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid max_stops parameter")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
			}
			return
		}
		query.MaxStops = &maxStops
	}

	if maxDurationStr := queryParams.Get("max_duration_minutes"); maxDurationStr != "" {
		maxDuration, err := strconv.Atoi(maxDurationStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid max_duration_minutes parameter")); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
			}
			return
		}
		query.MaxTotalDurationMinutes = &maxDuration
	}

	options, err := h.service.SearchAvailability(r.Context(), query)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, options); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "error", err)
	}
}

func (h *ItineraryHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/itineraries", h.Create)
	router.GET("/api/v1/itineraries/search", h.Search)
	router.GET("/api/v1/itineraries/id/:id", h.GetByID)
}
