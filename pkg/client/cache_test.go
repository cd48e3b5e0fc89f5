package client

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_DeduplicatesConcurrentLoads(t *testing.T) {
	cache := NewCache()
	release := make(chan struct{})
	var loads atomic.Int32

	load := func(context.Context) (any, error) {
		loads.Add(1)
		<-release
		return []string{"a"}, nil
	}

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := cache.Fetch(context.Background(), KeyGoals, load)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	assert.Eventually(t, func() bool { return loads.Load() == 1 }, time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
	for _, v := range results {
		assert.Equal(t, []string{"a"}, v)
	}
	assert.True(t, cache.Cached(KeyGoals))

	v, err := cache.Fetch(context.Background(), KeyGoals, func(context.Context) (any, error) {
		t.Fatal("cached key must not reload")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	cache := NewCache()
	_, err := cache.Fetch(context.Background(), KeyPlans, func(context.Context) (any, error) {
		return nil, errors.New("offline")
	})
	assert.EqualError(t, err, "offline")
	assert.False(t, cache.Cached(KeyPlans))
}

func TestCache_InvalidateDuringLoadDiscardsResult(t *testing.T) {
	cache := NewCache()
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any)
	go func() {
		v, _ := cache.Fetch(context.Background(), KeyWorkouts, func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-started
	cache.Invalidate(KeyWorkouts)
	close(release)

	assert.Equal(t, "stale", <-done, "the caller still gets its answer")
	assert.False(t, cache.Cached(KeyWorkouts))
}

func TestCache_ClearAndTypedFetch(t *testing.T) {
	cache := NewCache()
	ctx := context.Background()

	n, err := fetch(ctx, cache, KeyPlanSummary, func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = fetch(ctx, cache, KeyPlanSummary, func(context.Context) (string, error) { return "x", nil })
	assert.ErrorContains(t, err, `cache entry "plans/summary" holds int`)

	cache.Clear()
	assert.False(t, cache.Cached(KeyPlanSummary))
}

func TestKeysFor(t *testing.T) {
	assert.Equal(t, []string{KeyGoals, KeyGoalSummary}, KeysFor(EventGoalsChanged))
	assert.Equal(t, []string{KeyPlans, KeyPlanSummary}, KeysFor(EventPlansChanged))
	assert.Equal(t, []string{KeyWorkouts, KeyWorkoutSummary, KeyGoalSummary}, KeysFor(EventWorkoutsChanged))
	assert.Nil(t, KeysFor(EventConnected))
}
