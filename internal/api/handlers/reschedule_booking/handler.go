package reschedule_booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	rescheduleBooking "github.com/m04kA/CRH-SchedulingService/internal/usecase/reschedule_booking"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBookingNotFound    = "бронирование не найдено"
	msgResourceNotFound   = "ресурс не найден"
	msgNotBookable        = "ресурс недоступен для бронирования"
	msgForbidden          = "доступ запрещен"
	msgBookingInactive    = "бронирование неактивно"
	msgDowntime           = "целевое окно пересекается с обслуживанием ресурса"
	msgWindowConflict     = "целевое окно занято другим бронированием"
	msgWaitlistHint       = "на занятое окно можно встать в лист ожидания"
)

type Handler struct {
	useCase RescheduleBookingUseCase
	logger  Logger
}

func NewHandler(useCase RescheduleBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/reschedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/reschedule - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RescheduleBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, bookingID)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/reschedule - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		var conflict *rescheduleBooking.WindowConflictError
		switch {
		case errors.As(err, &conflict):
			h.logger.Warn("POST /bookings/{id}/reschedule - Window conflict: booking_id=%d, conflicting_id=%d",
				bookingID, conflict.ConflictingBookingID)
			handlers.RespondJSON(w, http.StatusConflict, &ConflictResponse{
				Error:                msgWindowConflict,
				ConflictingBookingID: conflict.ConflictingBookingID,
				ConflictStart:        conflict.Start.Format(time.RFC3339),
				ConflictEnd:          conflict.End.Format(time.RFC3339),
				Hint:                 msgWaitlistHint,
			})

		case errors.Is(err, rescheduleBooking.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, rescheduleBooking.ErrResourceNotFound):
			h.logger.Warn("POST /bookings/{id}/reschedule - Resource not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgResourceNotFound)

		case errors.Is(err, rescheduleBooking.ErrResourceNotBookable):
			h.logger.Warn("POST /bookings/{id}/reschedule - Resource not bookable: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotBookable)

		case errors.Is(err, rescheduleBooking.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/reschedule - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rescheduleBooking.ErrBookingInactive):
			h.logger.Warn("POST /bookings/{id}/reschedule - Booking inactive: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgBookingInactive)

		case errors.Is(err, rescheduleBooking.ErrDowntimeConflict):
			h.logger.Warn("POST /bookings/{id}/reschedule - Downtime conflict: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDowntime)

		case errors.Is(err, rescheduleBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings/{id}/reschedule - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)

		default:
			h.logger.Error("POST /bookings/{id}/reschedule - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/reschedule - Rescheduled: booking_id=%d, admin_id=%d", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
