package handler

import (
	"encoding/json"
	"net/http"

	"skyfare/internal/legs/repository"
	"skyfare/internal/legs/service"
	httputil "skyfare/pkg/http"
	"skyfare/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type LegHandler struct {
	service service.LegService
	log     *logger.Logger
}

func NewLegHandler(service service.LegService, log *logger.Logger) *LegHandler {
	return &LegHandler{
		service: service,
		log:     log,
	}
}

type generateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type generateResponse struct {
	Generated int `json:"generated"`
}

// Generate handles POST /api/v1/legs/generate: materializes legs for every
// scheduled flight over the requested date window.
func (h *LegHandler) Generate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var request generateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Generate", "error", writeErr)
		}
		return
	}

	generated, err := h.service.Generate(r.Context(), request.StartDate, request.EndDate)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Generate", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, generateResponse{Generated: generated}); err != nil {
		h.log.Error("failed to write created response", "handler", "Generate", "error", err)
	}
}

func (h *LegHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	leg, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, leg); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *LegHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	legs, err := h.service.Search(r.Context(), repository.LegFilter{
		FlightID:    query.Get("flight_id"),
		ServiceDate: query.Get("service_date"),
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, legs); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "error", err)
	}
}

func (h *LegHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/legs/generate", h.Generate)
	router.GET("/api/v1/legs", h.Search)
	router.GET("/api/v1/legs/id/:id", h.GetByID)
}
