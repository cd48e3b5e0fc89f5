package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GoalFilter narrows ListGoals. Zero values do not filter.
type GoalFilter struct {
	Period string
	Active *bool
}

// WorkoutFilter narrows ListWorkouts. Zero values do not filter.
type WorkoutFilter struct {
	PlanID string
	Start  time.Time
	End    time.Time
}

// Goals returns every goal, newest first, from the cache when present.
func (c *Client) Goals(ctx context.Context) ([]Goal, error) {
	return fetch(ctx, c.cache, KeyGoals, func(ctx context.Context) ([]Goal, error) {
		return c.ListGoals(ctx, GoalFilter{})
	})
}

// ListGoals always asks the server.
func (c *Client) ListGoals(ctx context.Context, f GoalFilter) ([]Goal, error) {
	query := url.Values{}
	if f.Period != "" {
		query.Set("period", f.Period)
	}
	if f.Active != nil {
		query.Set("active", strconv.FormatBool(*f.Active))
	}
	var out struct {
		Goals []Goal `json:"goals"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/goals", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

// WeeklyGoalSummary returns the completion of the active weekly goals.
func (c *Client) WeeklyGoalSummary(ctx context.Context) ([]GoalCompletion, error) {
	return fetch(ctx, c.cache, KeyGoalSummary, func(ctx context.Context) ([]GoalCompletion, error) {
		var out struct {
			Summary []GoalCompletion `json:"summary"`
		}
		if err := c.do(ctx, http.MethodGet, "/api/goals/summary/weekly", nil, nil, &out); err != nil {
			return nil, err
		}
		return out.Summary, nil
	})
}

func (c *Client) CreateGoal(ctx context.Context, in GoalInput) (*Goal, error) {
	return c.mutateGoal(ctx, http.MethodPost, "/api/goals", in)
}

func (c *Client) UpdateGoal(ctx context.Context, id string, patch GoalPatch) (*Goal, error) {
	return c.mutateGoal(ctx, http.MethodPatch, "/api/goals/"+url.PathEscape(id), patch)
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/goals/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(KeysFor(EventGoalsChanged)...)
	return nil
}

func (c *Client) mutateGoal(ctx context.Context, method, path string, in any) (*Goal, error) {
	var out struct {
		Goal Goal `json:"goal"`
	}
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(KeysFor(EventGoalsChanged)...)
	return &out.Goal, nil
}

// Plans returns every plan, newest first, from the cache when present.
func (c *Client) Plans(ctx context.Context) ([]Plan, error) {
	return fetch(ctx, c.cache, KeyPlans, func(ctx context.Context) ([]Plan, error) {
		return c.ListPlans(ctx, "")
	})
}

// ListPlans always asks the server. An empty status lists every plan.
func (c *Client) ListPlans(ctx context.Context, status string) ([]Plan, error) {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	var out struct {
		Plans []Plan `json:"plans"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Plans, nil
}

func (c *Client) Plan(ctx context.Context, id string) (*Plan, error) {
	var out struct {
		Plan Plan `json:"plan"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/plans/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out.Plan, nil
}

func (c *Client) PlanSummary(ctx context.Context) (*PlanSummary, error) {
	return fetch(ctx, c.cache, KeyPlanSummary, func(ctx context.Context) (*PlanSummary, error) {
		var out struct {
			Summary PlanSummary `json:"summary"`
		}
		if err := c.do(ctx, http.MethodGet, "/api/plans/summary", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out.Summary, nil
	})
}

func (c *Client) CreatePlan(ctx context.Context, in PlanInput) (*Plan, error) {
	return c.mutatePlan(ctx, http.MethodPost, "/api/plans", in)
}

func (c *Client) UpdatePlan(ctx context.Context, id string, patch PlanPatch) (*Plan, error) {
	return c.mutatePlan(ctx, http.MethodPatch, "/api/plans/"+url.PathEscape(id), patch)
}

func (c *Client) DeletePlan(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/plans/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return err
	}
	c.cache.Invalidate(KeysFor(EventPlansChanged)...)
	return nil
}

func (c *Client) mutatePlan(ctx context.Context, method, path string, in any) (*Plan, error) {
	var out struct {
		Plan Plan `json:"plan"`
	}
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	c.cache.Invalidate(KeysFor(EventPlansChanged)...)
	return &out.Plan, nil
}

// Workouts returns every workout, most recent date first, from the cache
// when present.
func (c *Client) Workouts(ctx context.Context) ([]Workout, error) {
	return fetch(ctx, c.cache, KeyWorkouts, func(ctx context.Context) ([]Workout, error) {
		return c.ListWorkouts(ctx, WorkoutFilter{})
	})
}

// ListWorkouts always asks the server. The server widens Start and End to
// whole days.
func (c *Client) ListWorkouts(ctx context.Context, f WorkoutFilter) ([]Workout, error) {
	query := url.Values{}
	if f.PlanID != "" {
		query.Set("planId", f.PlanID)
	}
	if !f.Start.IsZero() {
		query.Set("start", f.Start.Format(time.RFC3339))
	}
	if !f.End.IsZero() {
		query.Set("end", f.End.Format(time.RFC3339))
	}
	var out struct {
		Workouts []Workout `json:"workouts"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/workouts", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Workouts, nil
}

func (c *Client) WorkoutSummary(ctx context.Context) (*WorkoutSummary, error) {
	return fetch(ctx, c.cache, KeyWorkoutSummary, func(ctx context.Context) (*WorkoutSummary, error) {
		var out struct {
			Summary WorkoutSummary `json:"summary"`
		}
		if err := c.do(ctx, http.MethodGet, "/api/workouts/summary", nil, nil, &out); err != nil {
			return nil, err
		}
		return &out.Summary, nil
	})
}

func (c *Client) CreateWorkout(ctx context.Context, in WorkoutInput) (*Workout, error) {
	return c.mutateWorkout(ctx, http.MethodPost, "/api/workouts", in)
}

func (c *Client) UpdateWorkout(ctx context.Context, id string, patch WorkoutPatch) (*Workout, error) {
	return c.mutateWorkout(ctx, http.MethodPatch, "/api/workouts/"+url.PathEscape(id), patch)
}

func (c *Client) DeleteWorkout(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/api/workouts/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return err
	}
	c.invalidateWorkouts()
	return nil
}

func (c *Client) mutateWorkout(ctx context.Context, method, path string, in any) (*Workout, error) {
	var out struct {
		Workout Workout `json:"workout"`
	}
	if err := c.do(ctx, method, path, nil, in, &out); err != nil {
		return nil, err
	}
	c.invalidateWorkouts()
	return &out.Workout, nil
}

// invalidateWorkouts also drops the plan keys: a workout tied to a plan
// session changes that session's status on the server.
func (c *Client) invalidateWorkouts() {
	c.cache.Invalidate(KeysFor(EventWorkoutsChanged)...)
	c.cache.Invalidate(KeysFor(EventPlansChanged)...)
}
