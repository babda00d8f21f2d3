package domain

import "time"

// User represents an account without persistence concerns. The password
// hash never leaves the repository layer.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Category groups events for browsing.
type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
}

// Event is a bookable event. CurrentParticipants is owned by the
// registration ledger and must never be written by any other path.
type Event struct {
	ID                  uint      `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description,omitempty"`
	Date                time.Time `json:"date"`
	Location            string    `json:"location"`
	MaxParticipants     int       `json:"maxParticipants"`
	CurrentParticipants int       `json:"currentParticipants"`
	Status              string    `json:"status"`
	IsPublic            bool      `json:"isPublic"`
	CreatedBy           uint      `json:"createdBy"`
	CategoryID          *uint     `json:"categoryId,omitempty"`
	Category            *Category `json:"category,omitempty"`
	Creator             *User     `json:"creator,omitempty"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

// IsFull reports whether the event has no seats left.
func (e Event) IsFull() bool {
	return e.CurrentParticipants >= e.MaxParticipants
}

// Registration records a user's seat at an event.
type Registration struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	EventID   uint      `json:"eventId"`
	CreatedAt time.Time `json:"createdAt"`
	User      *User     `json:"user,omitempty"`
	Event     *Event    `json:"event,omitempty"`
}

// Requester is the authenticated caller resolved by the auth middleware.
// The zero value is an anonymous, non-admin caller.
type Requester struct {
	ID   uint
	Role string
}

// IsAdmin reports whether the requester holds the administrator role.
func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

// IsAnonymous reports whether no identity was presented.
func (r Requester) IsAnonymous() bool {
	return r.ID == 0
}

// EventFilter narrows event listings. When IncludePrivate is false only
// public events and events created by ViewerID match.
type EventFilter struct {
	CategoryID     *uint
	Status         string
	DateFrom       *time.Time
	DateTo         *time.Time
	Search         string
	ViewerID       uint
	IncludePrivate bool
}

// OccupancySignal is broadcast after every accepted register/cancel.
type OccupancySignal struct {
	EventID   uint      `json:"eventId"`
	Occupancy int       `json:"occupancy"`
	Kind      string    `json:"kind"` // "register" or "cancel"
	At        time.Time `json:"at"`
}

// Stats holds the aggregate counters shown on the admin dashboard.
type Stats struct {
	UserCount         int64 `json:"userCount"`
	EventCount        int64 `json:"eventCount"`
	RegistrationCount int64 `json:"registrationCount"`
}
