package domain

import "time"

// AccessType controls the approval policy of a resource
type AccessType string

const (
	AccessPublic     AccessType = "public"
	AccessRestricted AccessType = "restricted"
)

// ResourceStatus lifecycle status of a resource
type ResourceStatus string

const (
	ResourceDraft     ResourceStatus = "draft"
	ResourcePublished ResourceStatus = "published"
	ResourceArchived  ResourceStatus = "archived"
)

// Resource represents a bookable resource with seat-level capacity.
// Capacity is derived at read time from active bookings; it is never
// stored as a live counter.
type Resource struct {
	ID         int64
	OwnerID    int64
	Title      string
	Capacity   int
	AccessType AccessType
	Status     ResourceStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// IsPublished returns true if the resource is visible and bookable
func (r *Resource) IsPublished() bool {
	return r.Status == ResourcePublished
}

// IsOwnedBy returns true if the given user owns the resource
func (r *Resource) IsOwnedBy(userID int64) bool {
	return r.OwnerID == userID
}

// AutoApproves returns true if a booking by userID skips owner review:
// public resources and owner self-bookings are approved immediately.
func (r *Resource) AutoApproves(userID int64) bool {
	return r.AccessType == AccessPublic || r.IsOwnedBy(userID)
}
