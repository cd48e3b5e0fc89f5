// Package summary derives dashboard statistics from raw records. Every
// function is pure: the same records and reference time always give the
// same result, so callers recompute on every request.
package summary

import (
	"math"
	"time"

	"vitaltrack/fitness-app/internal/domain"

	"github.com/jinzhu/now"
)

// WindowDays is the length of the workout summary window.
const WindowDays = 7

// dayLabelLayout renders a weekday as its three-letter abbreviation.
const dayLabelLayout = "Mon"

// GoalCompletion is one goal of the weekly goal summary.
type GoalCompletion struct {
	Goal       domain.Goal
	Completion float64
}

// ActivePlan is an active plan with its own session completion.
type ActivePlan struct {
	Plan       domain.Plan
	Completion int
}

// PlanSummary aggregates all plans of one owner.
type PlanSummary struct {
	TotalPlans        int
	StatusCounts      map[domain.PlanStatus]int
	TotalSessions     int
	CompletedSessions int
	CompletionRate    int
	ActivePlans       []ActivePlan
}

// DayVolume is the number of minutes trained on one calendar day.
type DayVolume struct {
	Day     string
	Date    time.Time
	Minutes int
}

// WorkoutSummary aggregates the workouts of the trailing seven-day window.
type WorkoutSummary struct {
	TotalSessions   int
	TotalMinutes    int
	AverageDuration int
	RecentWorkout   *domain.Workout
	VolumeByDay     []DayVolume
	Intensity       map[domain.Intensity]int
	LastUpdated     time.Time
}

// Completion returns progress as a percentage of target, capped at 100.
// A zero target yields 0.
func Completion(progress, target float64) float64 {
	if target == 0 {
		return 0
	}
	return math.Min(100, progress/target*100)
}

// ratio returns round(part/total*100), or 0 when total is 0.
func ratio(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

// CalendarWeek returns the first and last instant of the week containing t.
// Weeks start on Sunday.
func CalendarWeek(t time.Time) (start, end time.Time) {
	n := now.With(t)
	return n.BeginningOfWeek(), n.EndOfWeek()
}

// TrailingWindow returns the seven calendar days ending on the day of t,
// from start-of-day of the first to end-of-day of the last.
func TrailingWindow(t time.Time) (start, end time.Time) {
	end = now.With(t).EndOfDay()
	start = now.With(t.AddDate(0, 0, -(WindowDays - 1))).BeginningOfDay()
	return start, end
}

// WeeklyGoals keeps the active weekly goals whose window intersects the
// calendar week of t and computes their completion. Input order is preserved.
func WeeklyGoals(goals []domain.Goal, t time.Time) []GoalCompletion {
	weekStart, weekEnd := CalendarWeek(t)

	out := []GoalCompletion{}
	for _, g := range goals {
		if g.Period != domain.PeriodWeekly || !g.IsActive {
			continue
		}
		if !g.Overlaps(weekStart, weekEnd) {
			continue
		}
		out = append(out, GoalCompletion{Goal: g, Completion: Completion(g.Progress, g.Target)})
	}
	return out
}

// Plans summarizes every plan of one owner.
func Plans(plans []domain.Plan) PlanSummary {
	s := PlanSummary{
		StatusCounts: make(map[domain.PlanStatus]int, len(domain.PlanStatuses)),
		ActivePlans:  []ActivePlan{},
	}
	for _, status := range domain.PlanStatuses {
		s.StatusCounts[status] = 0
	}

	for _, p := range plans {
		s.TotalPlans++
		s.StatusCounts[p.Status]++
		completed := p.CompletedSessions()
		s.TotalSessions += len(p.Sessions)
		s.CompletedSessions += completed

		if p.Status == domain.PlanActive {
			s.ActivePlans = append(s.ActivePlans, ActivePlan{Plan: p, Completion: ratio(completed, len(p.Sessions))})
		}
	}
	s.CompletionRate = ratio(s.CompletedSessions, s.TotalSessions)
	return s
}

// Workouts summarizes the workouts that fall in the trailing window ending
// on the day of t. Workouts outside the window are ignored.
func Workouts(workouts []domain.Workout, t time.Time) WorkoutSummary {
	start, end := TrailingWindow(t)

	s := WorkoutSummary{
		VolumeByDay: make([]DayVolume, WindowDays),
		Intensity:   make(map[domain.Intensity]int, len(domain.Intensities)),
		LastUpdated: t,
	}
	for _, level := range domain.Intensities {
		s.Intensity[level] = 0
	}
	for i := range s.VolumeByDay {
		day := start.AddDate(0, 0, i)
		s.VolumeByDay[i] = DayVolume{Day: day.Format(dayLabelLayout), Date: day}
	}

	var recent *domain.Workout
	for i := range workouts {
		w := workouts[i]
		date := w.Date.In(start.Location())
		if date.Before(start) || date.After(end) {
			continue
		}

		s.TotalSessions++
		s.TotalMinutes += w.DurationMinutes
		s.Intensity[w.Intensity]++
		if idx := dayIndex(start, date); idx >= 0 && idx < WindowDays {
			s.VolumeByDay[idx].Minutes += w.DurationMinutes
		}
		if recent == nil || laterThan(w, *recent) {
			recent = &workouts[i]
		}
	}

	if s.TotalSessions > 0 {
		s.AverageDuration = int(math.Round(float64(s.TotalMinutes) / float64(s.TotalSessions)))
	}
	if recent != nil {
		copied := *recent
		s.RecentWorkout = &copied
	}
	return s
}

// dayIndex returns how many calendar days t lies after start.
func dayIndex(start, t time.Time) int {
	for i := 0; i < WindowDays; i++ {
		if !t.After(now.With(start.AddDate(0, 0, i)).EndOfDay()) {
			return i
		}
	}
	return -1
}

// laterThan orders workouts by date, then by creation time.
func laterThan(a, b domain.Workout) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.CreatedAt.After(b.CreatedAt)
}
