// internal/domain/plan.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PlanStatus string

const (
	PlanDraft     PlanStatus = "draft"
	PlanActive    PlanStatus = "active"
	PlanPaused    PlanStatus = "paused"
	PlanCompleted PlanStatus = "completed"
)

// PlanStatuses lists every plan status in display order.
var PlanStatuses = []PlanStatus{PlanDraft, PlanActive, PlanPaused, PlanCompleted}

type PlanIntensity string

const (
	PlanLow      PlanIntensity = "low"
	PlanModerate PlanIntensity = "moderate"
	PlanHigh     PlanIntensity = "high"
)

// SessionStatus is shared by plan sessions and workouts.
type SessionStatus string

const (
	SessionPlanned   SessionStatus = "planned"
	SessionCompleted SessionStatus = "completed"
	SessionSkipped   SessionStatus = "skipped"
)

// MaxPlanSessions bounds the session list of a single plan.
const MaxPlanSessions = 14

// Session is a planned training slot owned by its Plan.
type Session struct {
	ID             primitive.ObjectID `bson:"_id"`
	Day            string             `bson:"day"` // Weekday label, e.g. "Mon"
	Title          string             `bson:"title"`
	Notes          string             `bson:"notes,omitempty"`
	TargetDuration *int               `bson:"targetDuration,omitempty"` // Minutes
	FocusArea      string             `bson:"focusArea,omitempty"`
	Status         SessionStatus      `bson:"status"`
}

// Plan is a training plan composed of ordered sessions.
type Plan struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   primitive.ObjectID `bson:"ownerId"`
	Name      string             `bson:"name"`
	Goal      string             `bson:"goal"`
	FocusArea string             `bson:"focusArea"`
	Status    PlanStatus         `bson:"status"`
	Intensity PlanIntensity      `bson:"intensity"`
	StartDate time.Time          `bson:"startDate"`
	EndDate   *time.Time         `bson:"endDate,omitempty"`
	Notes     string             `bson:"notes,omitempty"`
	Sessions  []Session          `bson:"sessions"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// CompletedSessions counts sessions whose status is completed.
func (p *Plan) CompletedSessions() int {
	n := 0
	for _, s := range p.Sessions {
		if s.Status == SessionCompleted {
			n++
		}
	}
	return n
}

// NormalizeSessions assigns ids to new sessions and defaults missing statuses to planned.
func NormalizeSessions(sessions []Session) []Session {
	out := make([]Session, len(sessions))
	for i, s := range sessions {
		if s.ID.IsZero() {
			s.ID = primitive.NewObjectID()
		}
		if s.Status == "" {
			s.Status = SessionPlanned
		}
		out[i] = s
	}
	return out
}
