package service

import (
	"context"
	"strings"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/summary"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrPlanNotFound     = apperror.NotFound("Plan not found")
	ErrTooManySessions  = apperror.Validation("A plan can hold at most 14 sessions", nil)
	ErrPlanNameRequired = apperror.Validation("Plan name is required", nil)
)

// SessionInput describes one session in a submitted plan. Sessions without
// an ID are new; sessions with an ID keep it.
type SessionInput struct {
	ID             *primitive.ObjectID
	Day            string
	Title          string
	Notes          string
	TargetDuration *int
	FocusArea      string
	Status         domain.SessionStatus
}

// PlanInput is the payload for creating a plan.
type PlanInput struct {
	Name      string
	Goal      string
	FocusArea string
	Status    domain.PlanStatus
	Intensity domain.PlanIntensity
	StartDate *time.Time
	EndDate   *time.Time
	Notes     string
	Sessions  []SessionInput
}

// PlanPatch updates a plan; nil fields are left unchanged. A non-nil
// Sessions replaces the whole session list.
type PlanPatch struct {
	Name      *string
	Goal      *string
	FocusArea *string
	Status    *domain.PlanStatus
	Intensity *domain.PlanIntensity
	StartDate *time.Time
	EndDate   *time.Time
	Notes     *string
	Sessions  *[]SessionInput
}

type PlanService interface {
	List(ctx context.Context, ownerID primitive.ObjectID, filter repository.PlanFilter) ([]domain.Plan, error)
	Get(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Plan, error)
	Create(ctx context.Context, ownerID primitive.ObjectID, in PlanInput) (*domain.Plan, error)
	Update(ctx context.Context, ownerID, id primitive.ObjectID, patch PlanPatch) (*domain.Plan, error)
	Delete(ctx context.Context, ownerID, id primitive.ObjectID) error
	Summary(ctx context.Context, ownerID primitive.ObjectID) (summary.PlanSummary, error)
}

type planService struct {
	resourceBase
	planRepo repository.PlanRepository
}

func NewPlanService(planRepo repository.PlanRepository, events EventPublisher, opts ...ResourceOption) PlanService {
	return &planService{
		resourceBase: newResourceBase("plans", events, opts),
		planRepo:     planRepo,
	}
}

func buildSessions(in []SessionInput) ([]domain.Session, error) {
	if len(in) > domain.MaxPlanSessions {
		return nil, ErrTooManySessions
	}
	sessions := make([]domain.Session, len(in))
	for i, s := range in {
		session := domain.Session{
			Day:            s.Day,
			Title:          strings.TrimSpace(s.Title),
			Notes:          s.Notes,
			TargetDuration: s.TargetDuration,
			FocusArea:      s.FocusArea,
			Status:         s.Status,
		}
		if s.ID != nil {
			session.ID = *s.ID
		}
		sessions[i] = session
	}
	return domain.NormalizeSessions(sessions), nil
}

func (s *planService) List(ctx context.Context, ownerID primitive.ObjectID, filter repository.PlanFilter) ([]domain.Plan, error) {
	plans, err := s.planRepo.List(ctx, ownerID, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list plans", err)
	}
	return plans, nil
}

func (s *planService) Get(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, ErrPlanNotFound, "failed to load plan")
	}
	return plan, nil
}

func (s *planService) Create(ctx context.Context, ownerID primitive.ObjectID, in PlanInput) (*domain.Plan, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrPlanNameRequired
	}
	sessions, err := buildSessions(in.Sessions)
	if err != nil {
		return nil, err
	}

	plan := &domain.Plan{
		OwnerID:   ownerID,
		Name:      name,
		Goal:      in.Goal,
		FocusArea: in.FocusArea,
		Status:    in.Status,
		Intensity: in.Intensity,
		StartDate: s.now(),
		EndDate:   in.EndDate,
		Notes:     in.Notes,
		Sessions:  sessions,
	}
	if plan.Status == "" {
		plan.Status = domain.PlanDraft
	}
	if plan.Intensity == "" {
		plan.Intensity = domain.PlanModerate
	}
	if in.StartDate != nil {
		plan.StartDate = *in.StartDate
	}

	if _, err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, apperror.Internal("failed to create plan", err)
	}

	s.emit(ownerID, domain.EventPlansChanged, changed(domain.ChangeCreated, plan.ID.Hex()))
	return plan, nil
}

func (s *planService) Update(ctx context.Context, ownerID, id primitive.ObjectID, patch PlanPatch) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, translate(err, ErrPlanNotFound, "failed to load plan")
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, ErrPlanNameRequired
		}
		plan.Name = name
	}
	if patch.Goal != nil {
		plan.Goal = *patch.Goal
	}
	if patch.FocusArea != nil {
		plan.FocusArea = *patch.FocusArea
	}
	if patch.Status != nil {
		plan.Status = *patch.Status
	}
	if patch.Intensity != nil {
		plan.Intensity = *patch.Intensity
	}
	if patch.StartDate != nil {
		plan.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		plan.EndDate = patch.EndDate
	}
	if patch.Notes != nil {
		plan.Notes = *patch.Notes
	}
	if patch.Sessions != nil {
		sessions, err := buildSessions(*patch.Sessions)
		if err != nil {
			return nil, err
		}
		plan.Sessions = sessions
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, translate(err, ErrPlanNotFound, "failed to update plan")
	}

	s.emit(ownerID, domain.EventPlansChanged, changed(domain.ChangeUpdated, plan.ID.Hex()))
	return plan, nil
}

// Delete removes the plan. Workouts that reference it keep their reference.
func (s *planService) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	if err := s.planRepo.Delete(ctx, ownerID, id); err != nil {
		return translate(err, ErrPlanNotFound, "failed to delete plan")
	}
	s.emit(ownerID, domain.EventPlansChanged, changed(domain.ChangeDeleted, id.Hex()))
	return nil
}

func (s *planService) Summary(ctx context.Context, ownerID primitive.ObjectID) (summary.PlanSummary, error) {
	plans, err := s.planRepo.List(ctx, ownerID, repository.PlanFilter{})
	if err != nil {
		return summary.PlanSummary{}, apperror.Internal("failed to load plans", err)
	}
	return summary.Plans(plans), nil
}
