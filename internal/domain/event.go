package domain

// Realtime event names pushed to a user's connections.
const (
	EventGoalsChanged      = "goals:changed"
	EventPlansChanged      = "plans:changed"
	EventWorkoutsChanged   = "workouts:changed"
	EventRealtimeConnected = "realtime:connected"
)

// ChangeType describes the kind of mutation behind a change event.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangePayload is the body of every *:changed event.
type ChangePayload struct {
	Type     ChangeType `json:"type"`
	EntityID string     `json:"entityId"`
}
