package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Query keys of the cached collections and summaries.
const (
	KeyGoals          = "goals"
	KeyGoalSummary    = "goals/summary/weekly"
	KeyPlans          = "plans"
	KeyPlanSummary    = "plans/summary"
	KeyWorkouts       = "workouts"
	KeyWorkoutSummary = "workouts/summary"
)

// Realtime event names published by the server.
const (
	EventConnected       = "realtime:connected"
	EventGoalsChanged    = "goals:changed"
	EventPlansChanged    = "plans:changed"
	EventWorkoutsChanged = "workouts:changed"
)

// invalidations maps a change event to the query keys it makes stale.
// Workouts feed the weekly goal summary, so they drop it too.
var invalidations = map[string][]string{
	EventGoalsChanged:    {KeyGoals, KeyGoalSummary},
	EventPlansChanged:    {KeyPlans, KeyPlanSummary},
	EventWorkoutsChanged: {KeyWorkouts, KeyWorkoutSummary, KeyGoalSummary},
}

// KeysFor returns the query keys invalidated by a realtime event.
func KeysFor(event string) []string {
	return invalidations[event]
}

// Cache holds the last loaded value per query key. Concurrent loads of the
// same key share one call. An invalidation that lands while a load is in
// flight keeps that load's result out of the cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]any
	gen     map[string]uint64
	group   singleflight.Group
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]any),
		gen:     make(map[string]uint64),
	}
}

// Fetch returns the cached value for key, or calls load and caches its result.
func (c *Cache) Fetch(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		gen := c.gen[key]
		c.mu.Unlock()

		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen[key] == gen {
			c.entries[key] = v
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Cached reports whether key currently holds a value.
func (c *Cache) Cached(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Invalidate drops the given keys. The next Fetch of each key reloads.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
		c.gen[key]++
		c.group.Forget(key)
	}
}

// Clear drops every entry, e.g. after logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	keys := []string{KeyGoals, KeyGoalSummary, KeyPlans, KeyPlanSummary, KeyWorkouts, KeyWorkoutSummary}
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mu.Unlock()
	c.Invalidate(keys...)
}

// fetch is the typed form of Cache.Fetch.
func fetch[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T", key, v)
	}
	return typed, nil
}
