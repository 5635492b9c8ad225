package join_waitlist

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	"github.com/m04kA/CRH-SchedulingService/internal/service/waitlist"
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
	msgAlreadyWaiting     = "вы уже в листе ожидания на это окно"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/resources/{resourceId}/waitlist
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	resourceID, err := strconv.ParseInt(vars["resourceId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /resources/{id}/waitlist - Invalid resource ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidResourceID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /resources/{id}/waitlist - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req JoinWaitlistRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /resources/{id}/waitlist - Invalid request body: %v", err)
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

	entry, err := h.service.Join(r.Context(), resourceID, userID, start, end, req.Purpose)
	if err != nil {
		switch {
		case errors.Is(err, waitlist.ErrResourceNotFound):
			h.logger.Warn("POST /resources/{id}/waitlist - Resource not found: resource_id=%d", resourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, waitlist.ErrResourceNotBookable):
			h.logger.Warn("POST /resources/{id}/waitlist - Resource not bookable: resource_id=%d", resourceID)
			handlers.RespondError(w, http.StatusConflict, msgNotBookable)

		case errors.Is(err, waitlist.ErrInvalidTimeBlock):
			h.logger.Warn("POST /resources/{id}/waitlist - Invalid time block: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeBlock)

		case errors.Is(err, waitlist.ErrWindowInPast):
			h.logger.Warn("POST /resources/{id}/waitlist - Window in past: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgWindowInPast)

		case errors.Is(err, waitlist.ErrAlreadyWaiting):
			h.logger.Warn("POST /resources/{id}/waitlist - Already waiting: user_id=%d, resource_id=%d", userID, resourceID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyWaiting)

		default:
			h.logger.Error("POST /resources/{id}/waitlist - Failed: resource_id=%d, error=%v", resourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /resources/{id}/waitlist - Joined: entry_id=%d, user_id=%d, resource_id=%d",
		entry.ID, userID, resourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromDomain(entry))
}
