package approve_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/CRH-SchedulingService/internal/api/handlers"
	"github.com/m04kA/CRH-SchedulingService/internal/api/middleware"
	"github.com/m04kA/CRH-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgBookingNotFound  = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"
	msgNotPending       = "бронирование не ожидает решения"
	msgCapacityExceeded = "вместимость ресурса в этом окне исчерпана"
	msgDowntime         = "окно пересекается с обслуживанием ресурса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/approve - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.Approve(r.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("POST /bookings/{id}/approve - Access denied: booking_id=%d, user_id=%d", bookingID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrNotPending):
			h.logger.Warn("POST /bookings/{id}/approve - Not pending: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, bookings.ErrCapacityExceeded):
			h.logger.Warn("POST /bookings/{id}/approve - Capacity exceeded: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgCapacityExceeded)

		case errors.Is(err, bookings.ErrResourceUnderDowntime):
			h.logger.Warn("POST /bookings/{id}/approve - Downtime conflict: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgDowntime)

		default:
			h.logger.Error("POST /bookings/{id}/approve - Failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/approve - Approved: booking_id=%d, approver_id=%d", bookingID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromDomain(booking))
}
