package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userRepository struct{ s *Store }

func (r *userRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Email == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("user email and password hash are required")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := domain.NormalizeEmail(user.Email)
	for _, existing := range r.s.users {
		if existing.Email == email {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}

	user.ID = r.s.nextID()
	user.Email = email
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.s.users[user.ID] = cloneUser(*user)
	return user.ID, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range r.s.users {
		if u.Email == email {
			found := cloneUser(u)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := cloneUser(u)
	return &found, nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[user.ID]
	if !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now().UTC()
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Preferences = user.Preferences
	existing.AvatarKey = user.AvatarKey
	existing.Age = user.Age
	existing.HeightCm = user.HeightCm
	existing.WeightKg = user.WeightKg
	existing.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = existing
	return nil
}

// DeleteUser removes a user. Only tests need it: the HTTP surface never
// deletes accounts.
func (s *Store) DeleteUser(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type goalRepository struct{ s *Store }

func (r *goalRepository) Create(ctx context.Context, goal *domain.Goal) (primitive.ObjectID, error) {
	if goal.OwnerID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("goal requires ownerId")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	goal.ID = r.s.nextID()
	now := time.Now().UTC()
	goal.CreatedAt = now
	goal.UpdatedAt = now
	r.s.goals[goal.ID] = *goal
	return goal.ID, nil
}

func (r *goalRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	g, ok := r.s.goals[id]
	if !ok || g.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *goalRepository) List(ctx context.Context, ownerID primitive.ObjectID, f repository.GoalFilter) ([]domain.Goal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	goals := []domain.Goal{}
	for _, g := range r.s.goals {
		if g.OwnerID != ownerID {
			continue
		}
		if f.Period != "" && g.Period != f.Period {
			continue
		}
		if f.Active != nil && g.IsActive != *f.Active {
			continue
		}
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		return r.s.newerFirst(goals[i].CreatedAt.UnixNano(), goals[j].CreatedAt.UnixNano(), goals[i].ID, goals[j].ID)
	})
	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.goals[goal.ID]
	if !ok || existing.OwnerID != goal.OwnerID {
		return repository.ErrNotFound
	}
	goal.CreatedAt = existing.CreatedAt
	goal.UpdatedAt = time.Now().UTC()
	r.s.goals[goal.ID] = *goal
	return nil
}

func (r *goalRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	g, ok := r.s.goals[id]
	if !ok || g.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.goals, id)
	return nil
}

type planRepository struct{ s *Store }

func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.OwnerID == primitive.NilObjectID || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires ownerId and name")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	plan.ID = r.s.nextID()
	plan.Sessions = domain.NormalizeSessions(plan.Sessions)
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now
	r.s.plans[plan.ID] = clonePlan(*plan)
	return plan.ID, nil
}

func (r *planRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.plans[id]
	if !ok || p.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	found := clonePlan(p)
	return &found, nil
}

func (r *planRepository) List(ctx context.Context, ownerID primitive.ObjectID, f repository.PlanFilter) ([]domain.Plan, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	plans := []domain.Plan{}
	for _, p := range r.s.plans {
		if p.OwnerID != ownerID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		plans = append(plans, clonePlan(p))
	}
	sort.Slice(plans, func(i, j int) bool {
		return r.s.newerFirst(plans[i].CreatedAt.UnixNano(), plans[j].CreatedAt.UnixNano(), plans[i].ID, plans[j].ID)
	})
	return plans, nil
}

func (r *planRepository) Update(ctx context.Context, plan *domain.Plan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.plans[plan.ID]
	if !ok || existing.OwnerID != plan.OwnerID {
		return repository.ErrNotFound
	}
	plan.Sessions = domain.NormalizeSessions(plan.Sessions)
	plan.CreatedAt = existing.CreatedAt
	plan.UpdatedAt = time.Now().UTC()
	r.s.plans[plan.ID] = clonePlan(*plan)
	return nil
}

func (r *planRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.plans[id]
	if !ok || p.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.plans, id)
	return nil
}

func (r *planRepository) SetSessionStatus(ctx context.Context, ownerID, planID, sessionID primitive.ObjectID, status domain.SessionStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.plans[planID]
	if !ok || p.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	p = clonePlan(p)
	for i := range p.Sessions {
		if p.Sessions[i].ID == sessionID {
			p.Sessions[i].Status = status
			p.UpdatedAt = time.Now().UTC()
			r.s.plans[planID] = p
			return nil
		}
	}
	return repository.ErrNotFound
}

type workoutRepository struct{ s *Store }

func (r *workoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.OwnerID == primitive.NilObjectID || workout.Title == "" {
		return primitive.NilObjectID, errors.New("workout requires ownerId and title")
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	workout.ID = r.s.nextID()
	if workout.Exercises == nil {
		workout.Exercises = []domain.ExerciseEntry{}
	}
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now
	r.s.workouts[workout.ID] = cloneWorkout(*workout)
	return workout.ID, nil
}

func (r *workoutRepository) GetByID(ctx context.Context, ownerID, id primitive.ObjectID) (*domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.workouts[id]
	if !ok || w.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	found := cloneWorkout(w)
	return &found, nil
}

func (r *workoutRepository) List(ctx context.Context, ownerID primitive.ObjectID, f repository.WorkoutFilter) ([]domain.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	workouts := []domain.Workout{}
	for _, w := range r.s.workouts {
		if w.OwnerID != ownerID {
			continue
		}
		if f.PlanID != nil && (w.PlanID == nil || *w.PlanID != *f.PlanID) {
			continue
		}
		if f.From != nil && w.Date.Before(*f.From) {
			continue
		}
		if f.To != nil && w.Date.After(*f.To) {
			continue
		}
		workouts = append(workouts, cloneWorkout(w))
	}
	sort.Slice(workouts, func(i, j int) bool {
		if !workouts[i].Date.Equal(workouts[j].Date) {
			return workouts[i].Date.After(workouts[j].Date)
		}
		return r.s.newerFirst(workouts[i].CreatedAt.UnixNano(), workouts[j].CreatedAt.UnixNano(), workouts[i].ID, workouts[j].ID)
	})
	return workouts, nil
}

func (r *workoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.workouts[workout.ID]
	if !ok || existing.OwnerID != workout.OwnerID {
		return repository.ErrNotFound
	}
	if workout.Exercises == nil {
		workout.Exercises = []domain.ExerciseEntry{}
	}
	workout.CreatedAt = existing.CreatedAt
	workout.UpdatedAt = time.Now().UTC()
	r.s.workouts[workout.ID] = cloneWorkout(*workout)
	return nil
}

func (r *workoutRepository) Delete(ctx context.Context, ownerID, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	w, ok := r.s.workouts[id]
	if !ok || w.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(r.s.workouts, id)
	return nil
}
