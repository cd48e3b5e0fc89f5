// Package memory is an in-process implementation of the repository
// interfaces. It backs the test suites and the `memory` database driver.
package memory

import (
	"sync"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store holds every collection behind a single lock.
type Store struct {
	mu       sync.RWMutex
	seq      int64
	order    map[primitive.ObjectID]int64 // insertion order, breaks createdAt ties
	users    map[primitive.ObjectID]domain.User
	goals    map[primitive.ObjectID]domain.Goal
	plans    map[primitive.ObjectID]domain.Plan
	workouts map[primitive.ObjectID]domain.Workout
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		order:    make(map[primitive.ObjectID]int64),
		users:    make(map[primitive.ObjectID]domain.User),
		goals:    make(map[primitive.ObjectID]domain.Goal),
		plans:    make(map[primitive.ObjectID]domain.Plan),
		workouts: make(map[primitive.ObjectID]domain.Workout),
	}
}

// Users returns the user repository view of the store.
func (s *Store) Users() repository.UserRepository { return &userRepository{s} }

// Goals returns the goal repository view of the store.
func (s *Store) Goals() repository.GoalRepository { return &goalRepository{s} }

// Plans returns the plan repository view of the store.
func (s *Store) Plans() repository.PlanRepository { return &planRepository{s} }

// Workouts returns the workout repository view of the store.
func (s *Store) Workouts() repository.WorkoutRepository { return &workoutRepository{s} }

// nextID allocates an id and records its insertion order. Callers hold mu.
func (s *Store) nextID() primitive.ObjectID {
	id := primitive.NewObjectID()
	s.seq++
	s.order[id] = s.seq
	return id
}

// newerFirst orders by createdAt descending, then by insertion order descending.
func (s *Store) newerFirst(aCreated, bCreated int64, aID, bID primitive.ObjectID) bool {
	if aCreated != bCreated {
		return aCreated > bCreated
	}
	return s.order[aID] > s.order[bID]
}

func cloneUser(u domain.User) domain.User {
	u.Roles = append([]domain.Role(nil), u.Roles...)
	return u
}

func clonePlan(p domain.Plan) domain.Plan {
	p.Sessions = append([]domain.Session{}, p.Sessions...)
	return p
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.Exercises = append([]domain.ExerciseEntry{}, w.Exercises...)
	return w
}
