package client

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_InvalidatesOnChangeEvents(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	dashboard := registered(t, srv.URL, "ada@example.com")
	// A second tab of the same user makes the changes.
	other, err := New(srv.URL)
	require.NoError(t, err)
	_, _, err = other.Login(ctx, "ada@example.com", "Secret123")
	require.NoError(t, err)

	events := make(chan Event, 8)
	sub, err := dashboard.Subscribe(ctx, func(ev Event) { events <- ev })
	require.NoError(t, err)
	defer sub.Close()

	_, err = dashboard.Goals(ctx)
	require.NoError(t, err)
	_, err = dashboard.WeeklyGoalSummary(ctx)
	require.NoError(t, err)
	_, err = dashboard.Plans(ctx)
	require.NoError(t, err)

	goal, err := other.CreateGoal(ctx, GoalInput{Type: "steps", Period: "daily", Target: 10000})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventGoalsChanged, ev.Name)
		assert.Equal(t, Change{Type: "created", EntityID: goal.ID}, ev.Change)
		assert.Equal(t, []string{KeyGoals, KeyGoalSummary}, ev.Keys)
	case <-time.After(2 * time.Second):
		t.Fatal("no realtime event received")
	}
	assert.False(t, dashboard.Cache().Cached(KeyGoals))
	assert.False(t, dashboard.Cache().Cached(KeyGoalSummary))
	assert.True(t, dashboard.Cache().Cached(KeyPlans), "unrelated keys stay cached")

	// Re-fetching after the event sees the other tab's goal.
	goals, err := dashboard.Goals(ctx)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestSubscribe_OtherUsersEventsDoNotArrive(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	ada := registered(t, srv.URL, "ada@example.com")
	bob := registered(t, srv.URL, "bob@example.com")

	events := make(chan Event, 8)
	sub, err := ada.Subscribe(ctx, func(ev Event) { events <- ev })
	require.NoError(t, err)
	defer sub.Close()

	_, err = bob.CreatePlan(ctx, PlanInput{Name: "Bob's plan"})
	require.NoError(t, err)
	_, err = ada.CreatePlan(ctx, PlanInput{Name: "Ada's plan"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, EventPlansChanged, ev.Name)
		plans, err := ada.ListPlans(ctx, "")
		require.NoError(t, err)
		require.Len(t, plans, 1)
		assert.Equal(t, plans[0].ID, ev.Change.EntityID)
	case <-time.After(2 * time.Second):
		t.Fatal("no realtime event received")
	}
}

func TestSubscribe_RequiresSession(t *testing.T) {
	srv := newServer(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Subscribe(context.Background(), nil)
	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
}

func TestSubscribe_StopsWithContext(t *testing.T) {
	srv := newServer(t)
	c := registered(t, srv.URL, "ada@example.com")

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := c.Subscribe(ctx, nil)
	require.NoError(t, err)

	cancel()
	select {
	case <-sub.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("subscription did not stop")
	}
	sub.Close()
}
