package service

import (
	"context"
	"strings"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/summary"

	"github.com/jinzhu/now"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrGoalNotFound    = apperror.NotFound("Goal not found")
	ErrGoalTargetRange = apperror.Validation("Goal target must be greater than zero", nil)
)

// GoalInput is the payload for creating a goal.
type GoalInput struct {
	Type      domain.GoalType
	Period    domain.GoalPeriod
	Target    float64
	Progress  *float64
	Unit      string
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
}

// GoalPatch updates a goal; nil fields are left unchanged.
type GoalPatch struct {
	Type      *domain.GoalType
	Period    *domain.GoalPeriod
	Target    *float64
	Progress  *float64
	Unit      *string
	StartDate *time.Time
	EndDate   *time.Time
	IsActive  *bool
}

type GoalService interface {
	List(ctx context.Context, ownerID primitive.ObjectID, filter repository.GoalFilter) ([]domain.Goal, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, in GoalInput) (*domain.Goal, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, patch GoalPatch) (*domain.Goal, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	WeeklySummary(ctx context.Context, ownerID primitive.ObjectID) ([]summary.GoalCompletion, error)
}

type goalService struct {
	resourceBase
	goalRepo repository.GoalRepository
}

func NewGoalService(goalRepo repository.GoalRepository, events EventPublisher, opts ...ResourceOption) GoalService {
	return &goalService{
		resourceBase: newResourceBase("goals", events, opts),
		goalRepo:     goalRepo,
	}
}

func (s *goalService) List(ctx context.Context, ownerID primitive.ObjectID, filter repository.GoalFilter) ([]domain.Goal, error) {
	goals, err := s.goalRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list goals", err)
	}
	return goals, nil
}

// goalWindow derives the period window. Daily and monthly goals always use
// the current day or month; weekly goals honor explicit dates.
func goalWindow(period domain.GoalPeriod, start, end *time.Time, t time.Time) (time.Time, time.Time) {
	n := now.With(t)
	switch period {
	case domain.PeriodDaily:
		return n.BeginningOfDay(), n.EndOfDay()
	case domain.PeriodMonthly:
		return n.BeginningOfMonth(), n.EndOfMonth()
	}

	windowStart, windowEnd := n.BeginningOfWeek(), n.EndOfWeek()
	if start != nil {
		windowStart = *start
	}
	if end != nil {
		windowEnd = *end
	}
	return windowStart, windowEnd
}

func (s *goalService) Create(ctx context.Context, ownerID primitive.ObjectID, in GoalInput) (*domain.Goal, error) {
	if in.Target <= 0 {
		return nil, ErrGoalTargetRange
	}

	start, end := goalWindow(in.Period, in.StartDate, in.EndDate, s.now())
	goal := &domain.Goal{
		OwnerID:   ownerID,
		Type:      in.Type,
		Period:    in.Period,
		Target:    in.Target,
		Unit:      strings.TrimSpace(in.Unit),
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if goal.Unit == "" {
		goal.Unit = domain.DefaultGoalUnit
	}
	if in.Progress != nil {
		goal.Progress = *in.Progress
	}
	if in.IsActive != nil {
		goal.IsActive = *in.IsActive
	}

	if _, err := s.goalRepo.Create(ctx, goal); err != nil {
		return nil, apperror.Internal("failed to create goal", err)
	}

	s.emit(ownerID, domain.EventGoalsChanged, changed(domain.ChangeCreated, goal.ID.Hex()))
	return goal, nil
}

func (s *goalService) Update(ctx context.Context, ownerID, id primitive.ObjectID, patch GoalPatch) (*domain.Goal, error) {
	goal, err := s.goalRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, ErrGoalNotFound, "failed to load goal")
	}

	if patch.Type != nil {
		goal.Type = *patch.Type
	}
	if patch.Period != nil {
		goal.Period = *patch.Period
	}
	if patch.Target != nil {
		if *patch.Target <= 0 {
			return nil, ErrGoalTargetRange
		}
		goal.Target = *patch.Target
	}
	if patch.Progress != nil {
		goal.Progress = *patch.Progress
	}
	if patch.Unit != nil {
		goal.Unit = strings.TrimSpace(*patch.Unit)
	}
	if patch.StartDate != nil {
		goal.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		goal.EndDate = *patch.EndDate
	}
	if patch.IsActive != nil {
		goal.IsActive = *patch.IsActive
	}

	if err := s.goalRepo.Update(ctx, goal); err != nil {
		return nil, translate(err, ErrGoalNotFound, "failed to update goal")
	}

	s.emit(ownerID, domain.EventGoalsChanged, changed(domain.ChangeUpdated, goal.ID.Hex()))
	return goal, nil
}

func (s *goalService) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	if err := s.goalRepo.Delete(ctx, ownerID, id); err != nil {
		return translate(err, ErrGoalNotFound, "failed to delete goal")
	}
	s.emit(ownerID, domain.EventGoalsChanged, changed(domain.ChangeDeleted, id.Hex()))
	return nil
}

func (s *goalService) WeeklySummary(ctx context.Context, ownerID primitive.ObjectID) ([]summary.GoalCompletion, error) {
	active := true
	goals, err := s.goalRepo.List(ctx, ownerID, repository.GoalFilter{Period: domain.PeriodWeekly, Active: &active})
	if err != nil {
		return nil, apperror.Internal("failed to load goals", err)
	}
	return summary.WeeklyGoals(goals, s.now()), nil
}
