package service

import (
	"context"
	"testing"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Wednesday 2024-05-15, 14:30 UTC.
var serviceNow = time.Date(2024, 5, 15, 14, 30, 0, 0, time.UTC)

func newGoalFixture() (GoalService, *recordingPublisher) {
	events := &recordingPublisher{}
	return NewGoalService(memory.NewStore().Goals(), events, WithNow(fixedNow(serviceNow))), events
}

func TestGoalService_CreateWindows(t *testing.T) {
	goals, _ := newGoalFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	weekly, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalWorkouts, Period: domain.PeriodWeekly, Target: 4})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), weekly.StartDate)
	assert.Equal(t, time.Date(2024, 5, 18, 23, 59, 59, 999999999, time.UTC), weekly.EndDate)
	assert.Equal(t, domain.DefaultGoalUnit, weekly.Unit)
	assert.True(t, weekly.IsActive)
	assert.Zero(t, weekly.Progress)

	daily, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalSteps, Period: domain.PeriodDaily, Target: 8000, Unit: "steps"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), daily.StartDate)
	assert.Equal(t, 15, daily.EndDate.Day())
	assert.Equal(t, "steps", daily.Unit)

	explicitStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	monthly, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalMinutes, Period: domain.PeriodMonthly, Target: 600, StartDate: &explicitStart})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), monthly.StartDate)
	assert.Equal(t, 31, monthly.EndDate.Day())

	explicitEnd := time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC)
	custom, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalWorkouts, Period: domain.PeriodWeekly, Target: 3, StartDate: &explicitStart, EndDate: &explicitEnd})
	require.NoError(t, err)
	assert.Equal(t, explicitStart, custom.StartDate)
	assert.Equal(t, explicitEnd, custom.EndDate)

	_, err = goals.Create(ctx, owner, GoalInput{Type: domain.GoalWorkouts, Period: domain.PeriodWeekly, Target: 0})
	assert.Equal(t, 400, apperror.StatusOf(err))
}

func TestGoalService_WeeklySummaryClamps(t *testing.T) {
	goals, _ := newGoalFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	zero := 0.0
	goal, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalWorkouts, Period: domain.PeriodWeekly, Target: 4, Progress: &zero})
	require.NoError(t, err)

	completionAfter := func(progress float64) float64 {
		_, err := goals.Update(ctx, owner, goal.ID, GoalPatch{Progress: &progress})
		require.NoError(t, err)
		got, err := goals.WeeklySummary(ctx, owner)
		require.NoError(t, err)
		require.Len(t, got, 1)
		return got[0].Completion
	}

	assert.Equal(t, 0.0, completionAfter(0))
	assert.Equal(t, 50.0, completionAfter(2))
	assert.Equal(t, 100.0, completionAfter(4))
	assert.Equal(t, 100.0, completionAfter(8))
}

func TestGoalService_WeeklySummarySkipsInactiveAndOtherPeriods(t *testing.T) {
	goals, _ := newGoalFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	inactive := false
	_, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalWorkouts, Period: domain.PeriodWeekly, Target: 4, IsActive: &inactive})
	require.NoError(t, err)
	_, err = goals.Create(ctx, owner, GoalInput{Type: domain.GoalWorkouts, Period: domain.PeriodDaily, Target: 1})
	require.NoError(t, err)

	got, err := goals.WeeklySummary(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGoalService_OwnerScopingAndEvents(t *testing.T) {
	goals, events := newGoalFixture()
	ctx := context.Background()
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()

	goal, err := goals.Create(ctx, owner, GoalInput{Type: domain.GoalCalories, Period: domain.PeriodWeekly, Target: 2000})
	require.NoError(t, err)
	created := events.last()
	assert.Equal(t, owner.Hex(), created.UserID)
	assert.Equal(t, domain.EventGoalsChanged, created.Event)
	assert.Equal(t, domain.ChangePayload{Type: domain.ChangeCreated, EntityID: goal.ID.Hex()}, payloadOf(created))

	progress := 100.0
	_, err = goals.Update(ctx, stranger, goal.ID, GoalPatch{Progress: &progress})
	assert.ErrorIs(t, err, ErrGoalNotFound)
	assert.ErrorIs(t, goals.Delete(ctx, stranger, goal.ID), ErrGoalNotFound)
	assert.Len(t, events.names(), 1)

	badTarget := 0.0
	_, err = goals.Update(ctx, owner, goal.ID, GoalPatch{Target: &badTarget})
	assert.ErrorIs(t, err, ErrGoalTargetRange)

	_, err = goals.Update(ctx, owner, goal.ID, GoalPatch{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, domain.ChangeUpdated, payloadOf(events.last()).Type)

	require.NoError(t, goals.Delete(ctx, owner, goal.ID))
	assert.Equal(t, domain.ChangePayload{Type: domain.ChangeDeleted, EntityID: goal.ID.Hex()}, payloadOf(events.last()))

	list, err := goals.List(ctx, owner, repository.GoalFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
