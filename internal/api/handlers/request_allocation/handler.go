package request_allocation

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	"github.com/m04kA/CRH-SchedulingService/internal/service/approvals"
)

const (
	msgInvalidResourceID  = "некорректный ID ресурса"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgResourceNotFound   = "ресурс не найден"
	msgNotBookable        = "ресурс недоступен для бронирования"
	msgInvalidTimeBlock   = "некорректное временное окно"
	msgWindowInPast       = "окно начинается в прошлом"
	msgDuplicateRequest   = "запрос на выделение уже ожидает решения"
)

type Handler struct {
	service ApprovalService
	logger  Logger
}

func NewHandler(service ApprovalService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/allocation-requests
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/allocation-requests - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /resources/{id}/allocation-requests - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AllocationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/allocation-requests - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	request, err := h.service.RequestAllocation(r.Context(), resourceID, userID, start, end, req.Purpose, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, approvals.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/allocation-requests - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, approvals.ErrResourceNotBookable):
			h.logger.Warn("POST /resources/{id}/allocation-requests - Resource not bookable: resource_id=%d", resourceID)
			handlers.RespondError(w, http.StatusConflict, msgNotBookable)

		case errors.Is(err, approvals.ErrInvalidTimeBlock):
			h.logger.Warn("POST /resources/{id}/allocation-requests - Invalid time block: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeBlock)

		case errors.Is(err, approvals.ErrWindowInPast):
			h.logger.Warn("POST /resources/{id}/allocation-requests - Window in past: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgWindowInPast)

		case errors.Is(err, approvals.ErrDuplicateRequest):
			h.logger.Warn("POST /resources/{id}/allocation-requests - Duplicate request: user_id=%d, resource_id=%d",
				userID, resourceID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateRequest)

		default:
			h.logger.Error("POST /resources/{id}/allocation-requests - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/allocation-requests - Created: request_id=%d, user_id=%d, resource_id=%d",
		request.ID, userID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(request))
}
