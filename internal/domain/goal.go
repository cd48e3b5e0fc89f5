package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GoalType string

const (
	GoalWorkouts GoalType = "workouts"
	GoalMinutes  GoalType = "minutes"
	GoalSteps    GoalType = "steps"
	GoalWeight   GoalType = "weight"
	GoalCalories GoalType = "calories"
)

type GoalPeriod string

const (
	PeriodDaily   GoalPeriod = "daily"
	PeriodWeekly  GoalPeriod = "weekly"
	PeriodMonthly GoalPeriod = "monthly"
)

// DefaultGoalUnit is used when a goal is created without a unit label.
const DefaultGoalUnit = "sessions"

// Goal is a periodic target owned by one user. The window
// [StartDate, EndDate] is inclusive on both ends.
type Goal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID   primitive.ObjectID `bson:"ownerId"`
	Type      GoalType           `bson:"type"`
	Period    GoalPeriod         `bson:"period"`
	Target    float64            `bson:"target"`
	Progress  float64            `bson:"progress"`
	Unit      string             `bson:"unit"`
	StartDate time.Time          `bson:"startDate"`
	EndDate   time.Time          `bson:"endDate"`
	IsActive  bool               `bson:"isActive"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

// Overlaps reports whether the goal window intersects [start, end].
func (g *Goal) Overlaps(start, end time.Time) bool {
	return !g.StartDate.After(end) && !g.EndDate.Before(start)
}
