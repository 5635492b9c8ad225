package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	"github.com/m04kA/CRH-SchedulingService/internal/domain"
	"github.com/m04kA/CRH-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidUserID = "некорректный ID пользователя"
	msgInvalidStatus = "некорректный статус бронирования"
	msgMissingUserID = "отсутствует ID пользователя"
	msgForbidden     = "доступ запрещен"
)

type Handler struct {
	service  BookingService
	identity IdentityClient
	logger   Logger
}

func NewHandler(service BookingService, identity IdentityClient, logger Logger) *Handler {
	return &Handler{
		service:  service,
		identity: identity,
		logger:   logger,
	}
}

// Handle GET /api/v1/users/{userId}/bookings?status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	targetID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Чужой список бронирований доступен только администратору
	if targetID != actorID {
		actor, err := h.identity.GetUser(r.Context(), actorID)
		if err != nil {
			h.logger.Error("GET /users/{id}/bookings - Failed to resolve actor: actor_id=%d, error=%v", actorID, err)
			handlers.RespondInternalError(w)
			return
		}
		if !actor.IsAdmin() {
			h.logger.Warn("GET /users/{id}/bookings - Access denied: target_id=%d, actor_id=%d", targetID, actorID)
			handlers.RespondForbidden(w, msgForbidden)
			return
		}
	}

	var status *domain.BookingStatus
	if rawStatus := r.URL.Query().Get("status"); rawStatus != "" {
		parsed := domain.BookingStatus(rawStatus)
		switch parsed {
		case domain.StatusPending, domain.StatusApproved, domain.StatusRejected,
			domain.StatusCancelled, domain.StatusCompleted:
			status = &parsed
		default:
			handlers.RespondBadRequest(w, msgInvalidStatus)
			return
		}
	}

	list, err := h.service.ListByUser(r.Context(), targetID, status)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /users/{id}/bookings - Access denied: target_id=%d, actor_id=%d", targetID, actorID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /users/{id}/bookings - Failed: user_id=%d, error=%v", targetID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromDomain(targetID, list))
}
