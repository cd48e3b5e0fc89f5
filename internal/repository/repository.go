package repository

import (
	"context"
	"time"

	"vitaltrack/fitness-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer. Services translate them into
// apperror kinds at their boundary.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// GoalFilter narrows a goal listing. Zero values match everything.
type GoalFilter struct {
	Period domain.GoalPeriod
	Active *bool
}

// GoalRepository stores goals. Every lookup is scoped by owner, so a goal
// owned by someone else is reported as ErrNotFound.
type GoalRepository interface {
	Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error)
	GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Goal, error)
	List(ctx context.Context, ownerID primitive.ObjectID, filter GoalFilter) ([]domain.Goal, error) // newest first
	Update(ctx context.Context, goal *domain.Goal) error
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
}

// PlanFilter narrows a plan listing.
type PlanFilter struct {
	Status domain.PlanStatus
}

// PlanRepository stores training plans together with their sessions.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Plan, error)
	List(ctx context.Context, ownerID primitive.ObjectID, filter PlanFilter) ([]domain.Plan, error) // newest first
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	// SetSessionStatus changes the status of a single session in place.
	// Returns ErrNotFound when the plan or the session does not exist for the owner.
	SetSessionStatus(ctx context.Context, ownerID, planID, sessionID primitive.ObjectID, status domain.SessionStatus) error
}

// WorkoutFilter narrows a workout listing. From and To bound the workout
// date inclusively.
type WorkoutFilter struct {
	PlanID *primitive.ObjectID
	From   *time.Time
	To     *time.Time
}

// WorkoutRepository stores logged workouts.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error)
	List(ctx context.Context, ownerID primitive.ObjectID, filter WorkoutFilter) ([]domain.Workout, error) // most recent date first
	Update(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
}
