package domain

import "time"

// ApprovalStatus status of an approval request
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalDenied   ApprovalStatus = "denied"
	ApprovalClosed   ApprovalStatus = "closed"
)

// ApprovalKind distinguishes owner approvals from admin allocation requests
type ApprovalKind string

const (
	// ApprovalKindOwner is addressed to the resource owner and linked
	// to a pending booking
	ApprovalKindOwner ApprovalKind = "owner"
	// ApprovalKindAllocator sits in a queue visible to administrators;
	// no booking exists until an admin books on the requester's behalf
	ApprovalKindAllocator ApprovalKind = "allocator"
)

// ApprovalRequest links a booking pending human review to its requester.
// A booking owns at most one approval request.
type ApprovalRequest struct {
	ID          int64
	ResourceID  int64
	RequesterID int64
	BookingID   *int64
	StartTime   time.Time
	EndTime     time.Time
	Purpose     string
	Note        *string
	Kind        ApprovalKind
	Status      ApprovalStatus

	DecisionNote *string
	DecidedAt    *time.Time
	CreatedAt    time.Time
}

// IsPending returns true if the request still awaits a decision
func (a *ApprovalRequest) IsPending() bool {
	return a.Status == ApprovalPending
}
