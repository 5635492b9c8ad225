package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	createBooking "github.com/m04kA/CRH-SchedulingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgResourceNotFound   = "ресурс не найден"
	msgNotBookable        = "ресурс недоступен для бронирования"
	msgInvalidTimeBlock   = "некорректное временное окно"
	msgWindowInPast       = "окно начинается в прошлом"
	msgInvalidRecurrence  = "некорректные параметры повторения"
	msgDowntime           = "окно пересекается с обслуживанием ресурса"
	msgCapacityExceeded   = "вместимость ресурса в этом окне исчерпана"
	msgForbidden          = "доступ запрещен"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings - Resource not found: resource_id=%d", req.ResourceID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, createBooking.ErrResourceNotBookable):
			h.logger.Warn("POST /bookings - Resource not bookable: resource_id=%d", req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgNotBookable)

		case errors.Is(err, createBooking.ErrInvalidTimeBlock):
			h.logger.Warn("POST /bookings - Invalid time block: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidTimeBlock)

		case errors.Is(err, createBooking.ErrWindowInPast):
			h.logger.Warn("POST /bookings - Window in past: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgWindowInPast)

		case errors.Is(err, createBooking.ErrInvalidRecurrence):
			h.logger.Warn("POST /bookings - Invalid recurrence: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRecurrence)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		case errors.Is(err, createBooking.ErrResourceUnderDowntime):
			h.logger.Warn("POST /bookings - Downtime conflict: user_id=%d, resource_id=%d", userID, req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgDowntime)

		case errors.Is(err, createBooking.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings - Capacity exceeded: user_id=%d, resource_id=%d", userID, req.ResourceID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%d", userID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, resource_id=%d, error=%v",
				userID, req.ResourceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Created %d booking(s): user_id=%d, resource_id=%d",
		len(result.Bookings), userID, req.ResourceID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
