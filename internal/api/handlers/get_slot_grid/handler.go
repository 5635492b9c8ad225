package get_slot_grid

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	getSlotGrid "github.com/m04kA/CRH-SchedulingService/internal/usecase/get_slot_grid"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidDays       = "некорректное число дней"
	msgInvalidAnchor     = "некорректная дата начала сетки, ожидается YYYY-MM-DD"
	msgResourceNotFound  = "ресурс не найден"
	msgNotBookable       = "ресурс недоступен для бронирования"
)

type Handler struct {
	useCase GetSlotGridUseCase
	logger  Logger
}

func NewHandler(useCase GetSlotGridUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/slot-grid?days
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/slot-grid - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	query := r.URL.Query()

	days := 0
	if rawDays := query.Get("days"); rawDays != "" {
		days, err = strconv.Atoi(rawDays)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDays)
			return
		}
	}

	var anchor *time.Time
	if rawAnchor := query.Get("anchor"); rawAnchor != "" {
		parsed, err := time.Parse("2006-01-02", rawAnchor)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidAnchor)
			return
		}
		anchor = &parsed
	}

	userID, _ := middleware.GetUserID(r.Context())

	result, err := h.useCase.Execute(r.Context(), &getSlotGrid.Request{
		UserID:     userID,
		ResourceID: resourceID,
		Days:       days,
		Anchor:     anchor,
	})
	if err != nil {
		switch {
		case errors.Is(err, getSlotGrid.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/slot-grid - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, getSlotGrid.ErrResourceNotBookable):
			h.logger.Warn("GET /resources/{id}/slot-grid - Resource not bookable: resource_id=%d", resourceID)
			handlers.RespondError(w, http.StatusConflict, msgNotBookable)

		case errors.Is(err, getSlotGrid.ErrInvalidInput):
			h.logger.Warn("GET /resources/{id}/slot-grid - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidDays)

		default:
			h.logger.Error("GET /resources/{id}/slot-grid - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
