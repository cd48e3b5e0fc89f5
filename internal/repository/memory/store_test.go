package memory

import (
	"context"
	"testing"
	"time"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUsers_EmailIsUniqueAndCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	users := NewStore().Users()

	id, err := users.Create(ctx, &domain.User{Email: "Ada@Example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = users.Create(ctx, &domain.User{Email: "ada@example.COM", PasswordHash: "y"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	found, err := users.GetByEmail(ctx, "ADA@EXAMPLE.COM")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = users.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGoals_ListNewestFirstWithFilters(t *testing.T) {
	ctx := context.Background()
	goals := NewStore().Goals()
	owner := primitive.NewObjectID()

	first := &domain.Goal{OwnerID: owner, Period: domain.PeriodWeekly, IsActive: true, Target: 1}
	second := &domain.Goal{OwnerID: owner, Period: domain.PeriodDaily, IsActive: true, Target: 1}
	third := &domain.Goal{OwnerID: owner, Period: domain.PeriodWeekly, IsActive: false, Target: 1}
	for _, g := range []*domain.Goal{first, second, third} {
		_, err := goals.Create(ctx, g)
		require.NoError(t, err)
	}
	_, err := goals.Create(ctx, &domain.Goal{OwnerID: primitive.NewObjectID(), Period: domain.PeriodWeekly, Target: 1})
	require.NoError(t, err)

	all, err := goals.List(ctx, owner, repository.GoalFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, third.ID, all[0].ID)
	assert.Equal(t, first.ID, all[2].ID)

	active := true
	weeklyActive, err := goals.List(ctx, owner, repository.GoalFilter{Period: domain.PeriodWeekly, Active: &active})
	require.NoError(t, err)
	require.Len(t, weeklyActive, 1)
	assert.Equal(t, first.ID, weeklyActive[0].ID)
}

func TestGoals_OtherOwnerLooksMissing(t *testing.T) {
	ctx := context.Background()
	goals := NewStore().Goals()
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()

	goal := &domain.Goal{OwnerID: owner, Target: 2}
	id, err := goals.Create(ctx, goal)
	require.NoError(t, err)

	_, err = goals.GetByID(ctx, stranger, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	hijack := *goal
	hijack.OwnerID = stranger
	assert.ErrorIs(t, goals.Update(ctx, &hijack), repository.ErrNotFound)
	assert.ErrorIs(t, goals.Delete(ctx, stranger, id), repository.ErrNotFound)

	_, err = goals.GetByID(ctx, owner, id)
	assert.NoError(t, err)
}

func TestPlans_SessionsNormalizedAndStatusToggle(t *testing.T) {
	ctx := context.Background()
	plans := NewStore().Plans()
	owner := primitive.NewObjectID()

	plan := &domain.Plan{OwnerID: owner, Name: "Base", Sessions: []domain.Session{{Day: "Mon", Title: "A"}}}
	planID, err := plans.Create(ctx, plan)
	require.NoError(t, err)
	require.False(t, plan.Sessions[0].ID.IsZero())
	assert.Equal(t, domain.SessionPlanned, plan.Sessions[0].Status)

	sessionID := plan.Sessions[0].ID
	require.NoError(t, plans.SetSessionStatus(ctx, owner, planID, sessionID, domain.SessionCompleted))

	reloaded, err := plans.GetByID(ctx, owner, planID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, reloaded.Sessions[0].Status)

	// Mutating a returned copy must not leak into the store.
	reloaded.Sessions[0].Status = domain.SessionSkipped
	again, err := plans.GetByID(ctx, owner, planID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, again.Sessions[0].Status)

	assert.ErrorIs(t, plans.SetSessionStatus(ctx, owner, planID, primitive.NewObjectID(), domain.SessionCompleted), repository.ErrNotFound)
	assert.ErrorIs(t, plans.SetSessionStatus(ctx, primitive.NewObjectID(), planID, sessionID, domain.SessionCompleted), repository.ErrNotFound)
}

func TestWorkouts_FilterAndOrder(t *testing.T) {
	ctx := context.Background()
	workouts := NewStore().Workouts()
	owner := primitive.NewObjectID()
	planID := primitive.NewObjectID()

	day := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	mk := func(offset int, plan *primitive.ObjectID) *domain.Workout {
		return &domain.Workout{OwnerID: owner, Title: "W", Date: day.AddDate(0, 0, offset), DurationMinutes: 10, PlanID: plan}
	}
	for _, w := range []*domain.Workout{mk(-2, nil), mk(0, &planID), mk(-1, &planID)} {
		_, err := workouts.Create(ctx, w)
		require.NoError(t, err)
	}

	all, err := workouts.List(ctx, owner, repository.WorkoutFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, day, all[0].Date)
	assert.Equal(t, day.AddDate(0, 0, -2), all[2].Date)

	byPlan, err := workouts.List(ctx, owner, repository.WorkoutFilter{PlanID: &planID})
	require.NoError(t, err)
	assert.Len(t, byPlan, 2)

	from := day.AddDate(0, 0, -1)
	to := day
	ranged, err := workouts.List(ctx, owner, repository.WorkoutFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}
