package check_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	availabilitySvc "github.com/m04kA/CRH-SchedulingService/internal/service/availability"
)

const (
	msgInvalidResourceID = "некорректный ID ресурса"
	msgInvalidTimeRange  = "некорректный диапазон времени, ожидается RFC3339"
	msgResourceNotFound  = "ресурс не найден"
	msgNotBookable       = "ресурс недоступен для бронирования"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/resources/{resourceId}/availability?start&end
// Без параметров start/end проверяется текущий момент
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /resources/{id}/availability - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	// Мгновенная проверка по умолчанию: start == end == сейчас
	start := time.Now().UTC()
	end := start

	query := r.URL.Query()
	if rawStart := query.Get("start"); rawStart != "" {
		start, err = time.Parse(time.RFC3339, rawStart)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
			return
		}
		end = start
	}
	if rawEnd := query.Get("end"); rawEnd != "" {
		end, err = time.Parse(time.RFC3339, rawEnd)
		if err != nil || end.Before(start) {
			handlers.RespondBadRequest(w, msgInvalidTimeRange)
			return
		}
	}

	result, err := h.service.CheckWindow(r.Context(), resourceID, start, end)
	if err != nil {
		switch {
		case errors.Is(err, availabilitySvc.ErrResourceNotFound):
			h.logger.Warn("GET /resources/{id}/availability - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, availabilitySvc.ErrResourceNotBookable):
			h.logger.Warn("GET /resources/{id}/availability - Resource not bookable: resource_id=%d", resourceID)
			handlers.RespondError(w, http.StatusConflict, msgNotBookable)

		default:
			h.logger.Error("GET /resources/{id}/availability - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromAvailability(result, start, end))
}
