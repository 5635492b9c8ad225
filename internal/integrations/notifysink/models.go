package notifysink

// NotificationKind тип уведомления для получателя
type NotificationKind string

const (
	KindBookingCreated   NotificationKind = "booking_created"
	KindBookingApproved  NotificationKind = "booking_approved"
	KindBookingRejected  NotificationKind = "booking_rejected"
	KindBookingCancelled NotificationKind = "booking_cancelled"
	KindBookingMoved     NotificationKind = "booking_moved"
	KindWaitlistPromoted NotificationKind = "waitlist_promoted"
	KindApprovalRequest  NotificationKind = "approval_request"
)

// Notification модель исходящего уведомления
type Notification struct {
	UserID      int64            `json:"user_id"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Kind        NotificationKind `json:"kind"`
	RelatedLink string           `json:"related_link,omitempty"`
}
