package service

import (
	"context"
	"testing"
	"time"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type workoutFixture struct {
	store    *memory.Store
	events   *recordingPublisher
	plans    PlanService
	workouts WorkoutService
}

func newWorkoutFixture() *workoutFixture {
	store := memory.NewStore()
	events := &recordingPublisher{}
	clock := WithNow(fixedNow(serviceNow))
	return &workoutFixture{
		store:    store,
		events:   events,
		plans:    NewPlanService(store.Plans(), events, clock),
		workouts: NewWorkoutService(store.Workouts(), store.Plans(), events, clock),
	}
}

func (f *workoutFixture) sessionStatus(t *testing.T, owner, planID, sessionID primitive.ObjectID) domain.SessionStatus {
	t.Helper()
	plan, err := f.plans.Get(context.Background(), owner, planID)
	require.NoError(t, err)
	for _, s := range plan.Sessions {
		if s.ID == sessionID {
			return s.Status
		}
	}
	t.Fatalf("session %s not found", sessionID.Hex())
	return ""
}

func TestWorkoutService_SessionSync(t *testing.T) {
	f := newWorkoutFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	plan, err := f.plans.Create(ctx, owner, PlanInput{Name: "Week 1", Sessions: []SessionInput{{Day: "Mon", Title: "Run"}}})
	require.NoError(t, err)
	sessionID := plan.Sessions[0].ID
	f.events.reset()

	workout, err := f.workouts.Create(ctx, owner, WorkoutInput{
		PlanID:          &plan.ID,
		SessionID:       &sessionID,
		Title:           "Run",
		Type:            domain.WorkoutEndurance,
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, workout.Status)
	assert.Equal(t, domain.IntensityModerate, workout.Intensity)
	assert.Equal(t, serviceNow, workout.Date)
	assert.Equal(t, domain.SessionCompleted, f.sessionStatus(t, owner, plan.ID, sessionID))
	assert.Equal(t, []string{domain.EventPlansChanged, domain.EventWorkoutsChanged}, f.events.names())

	skipped := domain.SessionSkipped
	_, err = f.workouts.Update(ctx, owner, workout.ID, WorkoutPatch{Status: &skipped})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionSkipped, f.sessionStatus(t, owner, plan.ID, sessionID))

	// Patches that leave the link alone do not touch the session.
	completed := domain.SessionCompleted
	require.NoError(t, f.store.Plans().SetSessionStatus(ctx, owner, plan.ID, sessionID, completed))
	notes := "felt good"
	_, err = f.workouts.Update(ctx, owner, workout.ID, WorkoutPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionCompleted, f.sessionStatus(t, owner, plan.ID, sessionID))

	f.events.reset()
	require.NoError(t, f.workouts.Delete(ctx, owner, workout.ID))
	assert.Equal(t, domain.SessionPlanned, f.sessionStatus(t, owner, plan.ID, sessionID))
	assert.Equal(t, []string{domain.EventPlansChanged, domain.EventWorkoutsChanged}, f.events.names())
	assert.Equal(t, domain.ChangePayload{Type: domain.ChangeDeleted, EntityID: workout.ID.Hex()}, payloadOf(f.events.last()))
}

func TestWorkoutService_MissingPlanIsIgnored(t *testing.T) {
	f := newWorkoutFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()
	missingPlan, missingSession := primitive.NewObjectID(), primitive.NewObjectID()

	workout, err := f.workouts.Create(ctx, owner, WorkoutInput{
		PlanID:          &missingPlan,
		SessionID:       &missingSession,
		Title:           "Orphan",
		DurationMinutes: 20,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.EventWorkoutsChanged}, f.events.names())
	require.NoError(t, f.workouts.Delete(ctx, owner, workout.ID))
}

func TestWorkoutService_DoesNotSyncAnotherUsersPlan(t *testing.T) {
	f := newWorkoutFixture()
	ctx := context.Background()
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()

	plan, err := f.plans.Create(ctx, owner, PlanInput{Name: "Private", Sessions: []SessionInput{{Title: "Lift"}}})
	require.NoError(t, err)
	sessionID := plan.Sessions[0].ID

	_, err = f.workouts.Create(ctx, stranger, WorkoutInput{PlanID: &plan.ID, SessionID: &sessionID, Title: "Sneaky", DurationMinutes: 10})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionPlanned, f.sessionStatus(t, owner, plan.ID, sessionID))
}

func TestWorkoutService_ValidationAndOwnership(t *testing.T) {
	f := newWorkoutFixture()
	ctx := context.Background()
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()

	_, err := f.workouts.Create(ctx, owner, WorkoutInput{Title: " ", DurationMinutes: 10})
	assert.ErrorIs(t, err, ErrWorkoutTitleRequired)
	_, err = f.workouts.Create(ctx, owner, WorkoutInput{Title: "Row", DurationMinutes: 0})
	assert.ErrorIs(t, err, ErrWorkoutDuration)

	workout, err := f.workouts.Create(ctx, owner, WorkoutInput{Title: "Row", DurationMinutes: 15})
	require.NoError(t, err)

	title := "Mine now"
	_, err = f.workouts.Update(ctx, stranger, workout.ID, WorkoutPatch{Title: &title})
	assert.ErrorIs(t, err, ErrWorkoutNotFound)
	assert.ErrorIs(t, f.workouts.Delete(ctx, stranger, workout.ID), ErrWorkoutNotFound)

	zero := 0
	_, err = f.workouts.Update(ctx, owner, workout.ID, WorkoutPatch{DurationMinutes: &zero})
	assert.ErrorIs(t, err, ErrWorkoutDuration)
}

func TestWorkoutService_ListNormalizesDays(t *testing.T) {
	f := newWorkoutFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	early := time.Date(2024, 5, 14, 0, 5, 0, 0, time.UTC)
	late := time.Date(2024, 5, 14, 23, 50, 0, 0, time.UTC)
	outside := time.Date(2024, 5, 15, 0, 1, 0, 0, time.UTC)
	for _, d := range []time.Time{early, late, outside} {
		d := d
		_, err := f.workouts.Create(ctx, owner, WorkoutInput{Title: "Spin", DurationMinutes: 30, Date: &d})
		require.NoError(t, err)
	}

	noon := time.Date(2024, 5, 14, 12, 0, 0, 0, time.UTC)
	got, err := f.workouts.List(ctx, owner, WorkoutQuery{Start: &noon, End: &noon})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, late, got[0].Date)
	assert.Equal(t, early, got[1].Date)
}

func TestWorkoutService_Summary(t *testing.T) {
	f := newWorkoutFixture()
	ctx := context.Background()
	owner := primitive.NewObjectID()

	monday := time.Date(2024, 5, 13, 7, 0, 0, 0, time.UTC)
	stale := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)
	_, err := f.workouts.Create(ctx, owner, WorkoutInput{Title: "Tempo", DurationMinutes: 40, Intensity: domain.IntensityHard, Date: &monday})
	require.NoError(t, err)
	_, err = f.workouts.Create(ctx, owner, WorkoutInput{Title: "Old", DurationMinutes: 90, Date: &stale})
	require.NoError(t, err)

	s, err := f.workouts.Summary(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, s.TotalSessions)
	assert.Equal(t, 40, s.TotalMinutes)
	require.NotNil(t, s.RecentWorkout)
	assert.Equal(t, "Tempo", s.RecentWorkout.Title)
	assert.Equal(t, 1, s.Intensity[domain.IntensityHard])
	assert.Len(t, s.VolumeByDay, 7)
}
