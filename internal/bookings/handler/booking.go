package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"skyfare/internal/bookings/service"
	"skyfare/internal/bookings/validator"
	apperrors "skyfare/pkg/errors"
	httputil "skyfare/pkg/http"
	"skyfare/pkg/logger"
	"skyfare/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const idempotencyKeyHeader = "Idempotency-Key"

type BookingHandler struct {
	service   service.BookingService
	validator *validator.BookingValidator
	log       *logger.Logger
}

func NewBookingHandler(service service.BookingService, v *validator.BookingValidator, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:   service,
		validator: v,
		log:       log,
	}
}

// Create handles POST /api/v1/bookings. The Idempotency-Key header is
// mandatory: requests without one are rejected before the coordinator runs.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	key := r.Header.Get(idempotencyKeyHeader)
	if err := h.validator.ValidateIdempotencyKey(key); err != nil {
		if writeErr := httputil.WriteError(w, apperrors.InvalidInput(err.Error())); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	var request model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := h.validator.ValidateRequest(&request); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			details := make(map[string]any, len(validationErrs))
			for _, v := range validationErrs {
				details[v.Field] = v.Message
			}
			if writeErr := httputil.WriteError(w, apperrors.Validation("Invalid booking request", details)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
			}
			return
		}
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	booking, err := h.service.Create(r.Context(), service.CreateBookingInput{
		UserID:         request.UserID,
		ItineraryID:    request.ItineraryID,
		IdempotencyKey: key,
	})
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	booking, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "error", err)
	}
}

func (h *BookingHandler) GetByUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'user_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "GetByUser", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByUser", "error", writeErr)
		}
		return
	}

	bookings, total, err := h.service.GetByUser(r.Context(), userID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByUser", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetByUser", "error", err)
	}
}

// Cancel handles DELETE. Cancellation is idempotent, so repeating the call
// on an already-cancelled booking also returns 204.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	if err := h.service.Cancel(r.Context(), id); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Cancel", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.GetByUser)
	router.GET("/api/v1/bookings/id/:id", h.GetByID)
	router.DELETE("/api/v1/bookings/id/:id", h.Cancel)
}
