package service

import (
	"vitaltrack/fitness-app/internal/domain"
)

// EventPublisher pushes an event to every live connection of one user.
// Delivery is best effort; implementations must not block the caller.
type EventPublisher interface {
	Emit(userID string, event string, payload any)
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Emit(string, string, any) {}

func publisherOrNop(p EventPublisher) EventPublisher {
	if p == nil {
		return NopPublisher{}
	}
	return p
}

func changed(t domain.ChangeType, entityID string) domain.ChangePayload {
	return domain.ChangePayload{Type: t, EntityID: entityID}
}
