package client

import "time"

// Tokens is the pair returned by register, login and refresh. The same
// values are also stored as cookies in the client's jar.
type Tokens struct {
	AccessToken           string    `json:"accessToken"`
	RefreshToken          string    `json:"refreshToken"`
	AccessTokenExpiresAt  time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt time.Time `json:"refreshTokenExpiresAt"`
}

type Preferences struct {
	WeeklyGoal        int    `json:"weeklyGoal"`
	MeasurementSystem string `json:"measurementSystem"`
	RemindersEnabled  bool   `json:"remindersEnabled"`
}

type User struct {
	ID          string      `json:"id"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Email       string      `json:"email"`
	Roles       []string    `json:"roles"`
	Preferences Preferences `json:"preferences"`
	HasAvatar   bool        `json:"hasAvatar"`
	Age         *int        `json:"age,omitempty"`
	HeightCm    *float64    `json:"heightCm,omitempty"`
	WeightKg    *float64    `json:"weightKg,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type RegisterInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ProfileInput is a partial profile edit; nil fields are left unchanged.
type ProfileInput struct {
	FirstName   *string           `json:"firstName,omitempty"`
	LastName    *string           `json:"lastName,omitempty"`
	Age         *int              `json:"age,omitempty"`
	HeightCm    *float64          `json:"heightCm,omitempty"`
	WeightKg    *float64          `json:"weightKg,omitempty"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
}

type PreferencesInput struct {
	WeeklyGoal        *int    `json:"weeklyGoal,omitempty"`
	MeasurementSystem *string `json:"measurementSystem,omitempty"`
	RemindersEnabled  *bool   `json:"remindersEnabled,omitempty"`
}

type Goal struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Period    string    `json:"period"`
	Target    float64   `json:"target"`
	Progress  float64   `json:"progress"`
	Unit      string    `json:"unit"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type GoalInput struct {
	Type      string     `json:"type"`
	Period    string     `json:"period"`
	Target    float64    `json:"target"`
	Progress  *float64   `json:"progress,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
}

type GoalPatch struct {
	Type      *string    `json:"type,omitempty"`
	Period    *string    `json:"period,omitempty"`
	Target    *float64   `json:"target,omitempty"`
	Progress  *float64   `json:"progress,omitempty"`
	Unit      *string    `json:"unit,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsActive  *bool      `json:"isActive,omitempty"`
}

// GoalCompletion is one row of the weekly goal summary.
type GoalCompletion struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Period     string  `json:"period"`
	Target     float64 `json:"target"`
	Progress   float64 `json:"progress"`
	Unit       string  `json:"unit"`
	Completion float64 `json:"completion"`
}

type Session struct {
	ID             string `json:"id,omitempty"`
	Day            string `json:"day,omitempty"`
	Title          string `json:"title"`
	Notes          string `json:"notes,omitempty"`
	TargetDuration *int   `json:"targetDuration,omitempty"`
	FocusArea      string `json:"focusArea,omitempty"`
	Status         string `json:"status,omitempty"`
}

type Plan struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Goal      string     `json:"goal"`
	FocusArea string     `json:"focusArea"`
	Status    string     `json:"status"`
	Intensity string     `json:"intensity"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Sessions  []Session  `json:"sessions"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type PlanInput struct {
	Name      string     `json:"name"`
	Goal      string     `json:"goal,omitempty"`
	FocusArea string     `json:"focusArea,omitempty"`
	Status    string     `json:"status,omitempty"`
	Intensity string     `json:"intensity,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Sessions  []Session  `json:"sessions,omitempty"`
}

// PlanPatch updates a plan. A non-nil Sessions replaces the whole list.
type PlanPatch struct {
	Name      *string    `json:"name,omitempty"`
	Goal      *string    `json:"goal,omitempty"`
	FocusArea *string    `json:"focusArea,omitempty"`
	Status    *string    `json:"status,omitempty"`
	Intensity *string    `json:"intensity,omitempty"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Sessions  *[]Session `json:"sessions,omitempty"`
}

type ActivePlan struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	FocusArea  string     `json:"focusArea"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Completion int        `json:"completion"`
}

type PlanSummary struct {
	TotalPlans        int            `json:"totalPlans"`
	TotalSessions     int            `json:"totalSessions"`
	CompletedSessions int            `json:"completedSessions"`
	CompletionRate    int            `json:"completionRate"`
	ActivePlans       []ActivePlan   `json:"activePlans"`
	StatusCounts      map[string]int `json:"statusCounts"`
}

type ExerciseEntry struct {
	Name            string   `json:"name"`
	Sets            *int     `json:"sets,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

type Workout struct {
	ID              string          `json:"id"`
	PlanID          *string         `json:"planId,omitempty"`
	SessionID       *string         `json:"sessionId,omitempty"`
	Title           string          `json:"title"`
	Type            string          `json:"type"`
	Date            time.Time       `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Intensity       string          `json:"intensity"`
	PerceivedEffort *int            `json:"perceivedEffort,omitempty"`
	Calories        *int            `json:"calories,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status"`
	Exercises       []ExerciseEntry `json:"exercises"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type WorkoutInput struct {
	PlanID          *string         `json:"planId,omitempty"`
	SessionID       *string         `json:"sessionId,omitempty"`
	Title           string          `json:"title"`
	Type            string          `json:"type"`
	Date            *time.Time      `json:"date,omitempty"`
	DurationMinutes int             `json:"durationMinutes"`
	Intensity       string          `json:"intensity,omitempty"`
	PerceivedEffort *int            `json:"perceivedEffort,omitempty"`
	Calories        *int            `json:"calories,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	Status          string          `json:"status,omitempty"`
	Exercises       []ExerciseEntry `json:"exercises,omitempty"`
}

type WorkoutPatch struct {
	PlanID          *string          `json:"planId,omitempty"`
	SessionID       *string          `json:"sessionId,omitempty"`
	Title           *string          `json:"title,omitempty"`
	Type            *string          `json:"type,omitempty"`
	Date            *time.Time       `json:"date,omitempty"`
	DurationMinutes *int             `json:"durationMinutes,omitempty"`
	Intensity       *string          `json:"intensity,omitempty"`
	PerceivedEffort *int             `json:"perceivedEffort,omitempty"`
	Calories        *int             `json:"calories,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	Status          *string          `json:"status,omitempty"`
	Exercises       *[]ExerciseEntry `json:"exercises,omitempty"`
}

type DayVolume struct {
	Day     string    `json:"day"`
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

type WorkoutSummary struct {
	TotalSessions   int            `json:"totalSessions"`
	TotalMinutes    int            `json:"totalMinutes"`
	AverageDuration int            `json:"averageDuration"`
	RecentWorkout   *Workout       `json:"recentWorkout"`
	VolumeByDay     []DayVolume    `json:"volumeByDay"`
	Intensity       map[string]int `json:"intensity"`
	LastUpdated     time.Time      `json:"lastUpdated"`
}
