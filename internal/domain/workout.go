package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutType string

const (
	WorkoutStrength     WorkoutType = "strength"
	WorkoutConditioning WorkoutType = "conditioning"
	WorkoutMobility     WorkoutType = "mobility"
	WorkoutHybrid       WorkoutType = "hybrid"
	WorkoutEndurance    WorkoutType = "endurance"
)

type Intensity string

const (
	IntensityEasy     Intensity = "easy"
	IntensityModerate Intensity = "moderate"
	IntensityHard     Intensity = "hard"
)

// Intensities lists every workout intensity in display order.
var Intensities = []Intensity{IntensityEasy, IntensityModerate, IntensityHard}

// ExerciseEntry is one exercise logged inside a workout.
type ExerciseEntry struct {
	Name            string   `bson:"name"`
	Sets            *int     `bson:"sets,omitempty"`
	Reps            *int     `bson:"reps,omitempty"`
	WeightKg        *float64 `bson:"weightKg,omitempty"`
	DurationMinutes *int     `bson:"durationMinutes,omitempty"`
	DistanceKm      *float64 `bson:"distanceKm,omitempty"`
	Notes           string   `bson:"notes,omitempty"`
}

// Workout is a single logged training session. PlanID/SessionID reference a
// plan session without owning it.
type Workout struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty"`
	OwnerID         primitive.ObjectID  `bson:"ownerId"`
	PlanID          *primitive.ObjectID `bson:"planId,omitempty"`
	SessionID       *primitive.ObjectID `bson:"sessionId,omitempty"`
	Title           string              `bson:"title"`
	Type            WorkoutType         `bson:"type"`
	Date            time.Time           `bson:"date"`
	DurationMinutes int                 `bson:"durationMinutes"`
	Intensity       Intensity           `bson:"intensity"`
	PerceivedEffort *int                `bson:"perceivedEffort,omitempty"`
	Calories        *int                `bson:"calories,omitempty"`
	Notes           string              `bson:"notes,omitempty"`
	Status          SessionStatus       `bson:"status"`
	Exercises       []ExerciseEntry     `bson:"exercises"`
	CreatedAt       time.Time           `bson:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt"`
}

// SessionRef returns the referenced plan session, if both ids are set.
func (w *Workout) SessionRef() (planID, sessionID primitive.ObjectID, ok bool) {
	if w.PlanID == nil || w.SessionID == nil || w.PlanID.IsZero() || w.SessionID.IsZero() {
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return *w.PlanID, *w.SessionID, true
}
