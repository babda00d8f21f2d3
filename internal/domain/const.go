package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	StatusScheduled = "scheduled"
	StatusOngoing   = "ongoing"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// ValidStatus reports whether s is one of the event lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusScheduled, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	RequesterCtxKey = "gh-requester"
)

const (
	SignalKindRegister = "register"
	SignalKindCancel   = "cancel"
)

// OccupancyChannel is the redis pub/sub channel occupancy signals are
// published on.
const OccupancyChannel = "gatherhub:occupancy"
