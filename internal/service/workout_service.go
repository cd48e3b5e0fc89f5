package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/metrics"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/summary"

	"github.com/jinzhu/now"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrWorkoutNotFound      = apperror.NotFound("Workout not found")
	ErrWorkoutTitleRequired = apperror.Validation("Workout title is required", nil)
	ErrWorkoutDuration      = apperror.Validation("Workout duration must be at least one minute", nil)
)

// WorkoutQuery filters a workout listing. Start and End are widened to the
// start and end of their calendar day.
type WorkoutQuery struct {
	PlanID *primitive.ObjectID
	Start  *time.Time
	End    *time.Time
}

// WorkoutInput is the payload for logging a workout.
type WorkoutInput struct {
	PlanID          *primitive.ObjectID
	SessionID       *primitive.ObjectID
	Title           string
	Type            domain.WorkoutType
	Date            *time.Time
	DurationMinutes int
	Intensity       domain.Intensity
	PerceivedEffort *int
	Calories        *int
	Notes           string
	Status          domain.SessionStatus
	Exercises       []domain.ExerciseEntry
}

// WorkoutPatch updates a workout; nil fields are left unchanged.
type WorkoutPatch struct {
	PlanID          *primitive.ObjectID
	SessionID       *primitive.ObjectID
	Title           *string
	Type            *domain.WorkoutType
	Date            *time.Time
	DurationMinutes *int
	Intensity       *domain.Intensity
	PerceivedEffort *int
	Calories        *int
	Notes           *string
	Status          *domain.SessionStatus
	Exercises       *[]domain.ExerciseEntry
}

// touchesSession reports whether the patch can change the linked session.
func (p WorkoutPatch) touchesSession() bool {
	return p.PlanID != nil || p.SessionID != nil || p.Status != nil
}

type WorkoutService interface {
	List(ctx context.Context, ownerID primitive.ObjectID, query WorkoutQuery) ([]domain.Workout, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, patch WorkoutPatch) (*domain.Workout, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	Summary(ctx context.Context, ownerID primitive.ObjectID) (summary.WorkoutSummary, error)
}

type workoutService struct {
	resourceBase
	workoutRepo repository.WorkoutRepository
	planRepo    repository.PlanRepository
}

// NewWorkoutService creates the workout service. planRepo is used to keep
// the status of a linked plan session in step with its workout.
func NewWorkoutService(workoutRepo repository.WorkoutRepository, planRepo repository.PlanRepository, events EventPublisher, opts ...ResourceOption) WorkoutService {
	return &workoutService{
		resourceBase: newResourceBase("workouts", events, opts),
		workoutRepo:  workoutRepo,
		planRepo:     planRepo,
	}
}

func (s *workoutService) List(ctx context.Context, ownerID primitive.ObjectID, query WorkoutQuery) ([]domain.Workout, error) {
	filter := repository.WorkoutFilter{PlanID: query.PlanID}
	if query.Start != nil {
		from := now.With(*query.Start).BeginningOfDay()
		filter.From = &from
	}
	if query.End != nil {
		to := now.With(*query.End).EndOfDay()
		filter.To = &to
	}

	workouts, err := s.workoutRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list workouts", err)
	}
	return workouts, nil
}

func (s *workoutService) Create(ctx context.Context, ownerID primitive.ObjectID, in WorkoutInput) (*domain.Workout, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrWorkoutTitleRequired
	}
	if in.DurationMinutes < 1 {
		return nil, ErrWorkoutDuration
	}

	workout := &domain.Workout{
		OwnerID:         ownerID,
		PlanID:          in.PlanID,
		SessionID:       in.SessionID,
		Title:           title,
		Type:            in.Type,
		Date:            s.now(),
		DurationMinutes: in.DurationMinutes,
		Intensity:       in.Intensity,
		PerceivedEffort: in.PerceivedEffort,
		Calories:        in.Calories,
		Notes:           in.Notes,
		Status:          in.Status,
		Exercises:       in.Exercises,
	}
	if in.Date != nil {
		workout.Date = *in.Date
	}
	if workout.Intensity == "" {
		workout.Intensity = domain.IntensityModerate
	}
	if workout.Status == "" {
		workout.Status = domain.SessionCompleted
	}

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, apperror.Internal("failed to create workout", err)
	}

	s.syncSession(ctx, ownerID, workout.PlanID, workout.SessionID, workout.Status)
	s.emit(ownerID, domain.EventWorkoutsChanged, changed(domain.ChangeCreated, workout.ID.Hex()))
	return workout, nil
}

func (s *workoutService) Update(ctx context.Context, ownerID, id primitive.ObjectID, patch WorkoutPatch) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, ErrWorkoutNotFound, "failed to load workout")
	}

	if patch.PlanID != nil {
		workout.PlanID = patch.PlanID
	}
	if patch.SessionID != nil {
		workout.SessionID = patch.SessionID
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, ErrWorkoutTitleRequired
		}
		workout.Title = title
	}
	if patch.Type != nil {
		workout.Type = *patch.Type
	}
	if patch.Date != nil {
		workout.Date = *patch.Date
	}
	if patch.DurationMinutes != nil {
		if *patch.DurationMinutes < 1 {
			return nil, ErrWorkoutDuration
		}
		workout.DurationMinutes = *patch.DurationMinutes
	}
	if patch.Intensity != nil {
		workout.Intensity = *patch.Intensity
	}
	if patch.PerceivedEffort != nil {
		workout.PerceivedEffort = patch.PerceivedEffort
	}
	if patch.Calories != nil {
		workout.Calories = patch.Calories
	}
	if patch.Notes != nil {
		workout.Notes = *patch.Notes
	}
	if patch.Status != nil {
		workout.Status = *patch.Status
	}
	if patch.Exercises != nil {
		workout.Exercises = *patch.Exercises
	}

	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		return nil, translate(err, ErrWorkoutNotFound, "failed to update workout")
	}

	// Unpatched fields already hold their previous values.
	if patch.touchesSession() {
		s.syncSession(ctx, ownerID, workout.PlanID, workout.SessionID, workout.Status)
	}
	s.emit(ownerID, domain.EventWorkoutsChanged, changed(domain.ChangeUpdated, workout.ID.Hex()))
	return workout, nil
}

// Delete removes the workout and puts its linked session back to planned.
func (s *workoutService) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	workout, err := s.workoutRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return translate(err, ErrWorkoutNotFound, "failed to load workout")
	}
	if err := s.workoutRepo.Delete(ctx, ownerID, id); err != nil {
		return translate(err, ErrWorkoutNotFound, "failed to delete workout")
	}

	s.syncSession(ctx, ownerID, workout.PlanID, workout.SessionID, domain.SessionPlanned)
	s.emit(ownerID, domain.EventWorkoutsChanged, changed(domain.ChangeDeleted, id.Hex()))
	return nil
}

func (s *workoutService) Summary(ctx context.Context, ownerID primitive.ObjectID) (summary.WorkoutSummary, error) {
	t := s.now()
	from, to := summary.TrailingWindow(t)
	workouts, err := s.workoutRepo.List(ctx, ownerID, repository.WorkoutFilter{From: &from, To: &to})
	if err != nil {
		return summary.WorkoutSummary{}, apperror.Internal("failed to load workouts", err)
	}
	return summary.Workouts(workouts, t), nil
}

// syncSession copies a workout status onto its linked plan session. It is
// best effort: a missing plan or session, or a storage failure, is logged
// and never returned to the caller.
func (s *workoutService) syncSession(ctx context.Context, ownerID primitive.ObjectID, planID, sessionID *primitive.ObjectID, status domain.SessionStatus) {
	if planID == nil || sessionID == nil || planID.IsZero() || sessionID.IsZero() {
		return
	}

	err := s.planRepo.SetSessionStatus(ctx, ownerID, *planID, *sessionID, status)
	switch {
	case err == nil:
		s.emit(ownerID, domain.EventPlansChanged, changed(domain.ChangeUpdated, planID.Hex()))
	case errors.Is(err, repository.ErrNotFound):
		s.log.Debug().
			Str("plan_id", planID.Hex()).
			Str("session_id", sessionID.Hex()).
			Msg("Linked plan session not found, skipping status sync")
	default:
		metrics.SessionSyncFailures.Inc()
		s.log.Warn().Err(err).
			Str("plan_id", planID.Hex()).
			Str("session_id", sessionID.Hex()).
			Msg("Failed to sync plan session status")
	}
}
