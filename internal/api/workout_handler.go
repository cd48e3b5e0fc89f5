package api

import (
	"net/http"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/service"
	"vitaltrack/fitness-app/internal/summary"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

type ExerciseEntryRequest struct {
	Name            string   `json:"name" binding:"required,max=80"`
	Sets            *int     `json:"sets" binding:"omitempty,min=0,max=20"`
	Reps            *int     `json:"reps" binding:"omitempty,min=0,max=200"`
	WeightKg        *float64 `json:"weightKg" binding:"omitempty,min=0,max=500"`
	DurationMinutes *int     `json:"durationMinutes" binding:"omitempty,min=0,max=300"`
	DistanceKm      *float64 `json:"distanceKm" binding:"omitempty,min=0,max=100"`
	Notes           string   `json:"notes" binding:"omitempty,max=300"`
}

type CreateWorkoutRequest struct {
	PlanID          *string                `json:"planId" binding:"omitempty,mongodb"`
	Plan            *string                `json:"plan" binding:"omitempty,mongodb"`
	SessionID       *string                `json:"sessionId" binding:"omitempty,mongodb"`
	Title           string                 `json:"title" binding:"required,max=120"`
	Type            domain.WorkoutType     `json:"type" binding:"required,oneof=strength conditioning mobility hybrid endurance"`
	Date            *time.Time             `json:"date"`
	DurationMinutes int                    `json:"durationMinutes" binding:"required,min=1,max=600"`
	Intensity       domain.Intensity       `json:"intensity" binding:"omitempty,oneof=easy moderate hard"`
	PerceivedEffort *int                   `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	Calories        *int                   `json:"calories" binding:"omitempty,min=0,max=5000"`
	Notes           string                 `json:"notes" binding:"omitempty,max=1000"`
	Status          domain.SessionStatus   `json:"status" binding:"omitempty,oneof=planned completed skipped"`
	Exercises       []ExerciseEntryRequest `json:"exercises" binding:"omitempty,max=20,dive"`
}

type UpdateWorkoutRequest struct {
	PlanID          *string                 `json:"planId" binding:"omitempty,mongodb"`
	Plan            *string                 `json:"plan" binding:"omitempty,mongodb"`
	SessionID       *string                 `json:"sessionId" binding:"omitempty,mongodb"`
	Title           *string                 `json:"title" binding:"omitempty,min=1,max=120"`
	Type            *domain.WorkoutType     `json:"type" binding:"omitempty,oneof=strength conditioning mobility hybrid endurance"`
	Date            *time.Time              `json:"date"`
	DurationMinutes *int                    `json:"durationMinutes" binding:"omitempty,min=1,max=600"`
	Intensity       *domain.Intensity       `json:"intensity" binding:"omitempty,oneof=easy moderate hard"`
	PerceivedEffort *int                    `json:"perceivedEffort" binding:"omitempty,min=1,max=10"`
	Calories        *int                    `json:"calories" binding:"omitempty,min=0,max=5000"`
	Notes           *string                 `json:"notes" binding:"omitempty,max=1000"`
	Status          *domain.SessionStatus   `json:"status" binding:"omitempty,oneof=planned completed skipped"`
	Exercises       *[]ExerciseEntryRequest `json:"exercises" binding:"omitempty,max=20,dive"`
}

// planRef accepts the older "plan" key when "planId" is absent.
func planRef(planID, plan *string) *string {
	if planID != nil {
		return planID
	}
	return plan
}

type ExerciseEntryResponse struct {
	Name            string   `json:"name"`
	Sets            *int     `json:"sets,omitempty"`
	Reps            *int     `json:"reps,omitempty"`
	WeightKg        *float64 `json:"weightKg,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	DistanceKm      *float64 `json:"distanceKm,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

type WorkoutResponse struct {
	ID              string                  `json:"id"`
	PlanID          *string                 `json:"planId,omitempty"`
	SessionID       *string                 `json:"sessionId,omitempty"`
	Title           string                  `json:"title"`
	Type            domain.WorkoutType      `json:"type"`
	Date            time.Time               `json:"date"`
	DurationMinutes int                     `json:"durationMinutes"`
	Intensity       domain.Intensity        `json:"intensity"`
	PerceivedEffort *int                    `json:"perceivedEffort,omitempty"`
	Calories        *int                    `json:"calories,omitempty"`
	Notes           string                  `json:"notes,omitempty"`
	Status          domain.SessionStatus    `json:"status"`
	Exercises       []ExerciseEntryResponse `json:"exercises"`
	CreatedAt       time.Time               `json:"createdAt"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

type DayVolumeResponse struct {
	Day     string    `json:"day"`
	Date    time.Time `json:"date"`
	Minutes int       `json:"minutes"`
}

type WorkoutSummaryResponse struct {
	TotalSessions   int                      `json:"totalSessions"`
	TotalMinutes    int                      `json:"totalMinutes"`
	AverageDuration int                      `json:"averageDuration"`
	RecentWorkout   *WorkoutResponse         `json:"recentWorkout"`
	VolumeByDay     []DayVolumeResponse      `json:"volumeByDay"`
	Intensity       map[domain.Intensity]int `json:"intensity"`
	LastUpdated     time.Time                `json:"lastUpdated"`
}

func toExerciseEntries(in []ExerciseEntryRequest) []domain.ExerciseEntry {
	out := make([]domain.ExerciseEntry, len(in))
	for i, e := range in {
		out[i] = domain.ExerciseEntry{
			Name:            e.Name,
			Sets:            e.Sets,
			Reps:            e.Reps,
			WeightKg:        e.WeightKg,
			DurationMinutes: e.DurationMinutes,
			DistanceKm:      e.DistanceKm,
			Notes:           e.Notes,
		}
	}
	return out
}

func hexOrNil(id *primitive.ObjectID) *string {
	if id == nil || id.IsZero() {
		return nil
	}
	hex := id.Hex()
	return &hex
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	exercises := make([]ExerciseEntryResponse, len(w.Exercises))
	for i, e := range w.Exercises {
		exercises[i] = ExerciseEntryResponse(e)
	}
	return WorkoutResponse{
		ID:              w.ID.Hex(),
		PlanID:          hexOrNil(w.PlanID),
		SessionID:       hexOrNil(w.SessionID),
		Title:           w.Title,
		Type:            w.Type,
		Date:            w.Date,
		DurationMinutes: w.DurationMinutes,
		Intensity:       w.Intensity,
		PerceivedEffort: w.PerceivedEffort,
		Calories:        w.Calories,
		Notes:           w.Notes,
		Status:          w.Status,
		Exercises:       exercises,
		CreatedAt:       w.CreatedAt,
		UpdatedAt:       w.UpdatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	out := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		out[i] = MapWorkoutToResponse(&workouts[i])
	}
	return out
}

func MapWorkoutSummaryToResponse(s summary.WorkoutSummary) WorkoutSummaryResponse {
	volume := make([]DayVolumeResponse, len(s.VolumeByDay))
	for i, d := range s.VolumeByDay {
		volume[i] = DayVolumeResponse(d)
	}
	resp := WorkoutSummaryResponse{
		TotalSessions:   s.TotalSessions,
		TotalMinutes:    s.TotalMinutes,
		AverageDuration: s.AverageDuration,
		VolumeByDay:     volume,
		Intensity:       s.Intensity,
		LastUpdated:     s.LastUpdated,
	}
	if s.RecentWorkout != nil {
		recent := MapWorkoutToResponse(s.RecentWorkout)
		resp.RecentWorkout = &recent
	}
	return resp
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List workouts, most recent date first
// @Tags Workouts
// @Produce json
// @Param planId query string false "Only workouts linked to this plan"
// @Param start query string false "Inclusive start day (YYYY-MM-DD or RFC 3339)"
// @Param end query string false "Inclusive end day (YYYY-MM-DD or RFC 3339)"
// @Success 200 {object} map[string][]WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	var query service.WorkoutQuery
	if raw := c.Query("planId"); raw != "" {
		planID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, apperror.Validation("Query parameter planId must be an id", nil))
			return
		}
		query.PlanID = &planID
	}
	var err error
	if query.Start, err = parseDateQuery(c, "start"); err != nil {
		abortWithError(c, err)
		return
	}
	if query.End, err = parseDateQuery(c, "end"); err != nil {
		abortWithError(c, err)
		return
	}

	workouts, err := h.workoutService.List(c.Request.Context(), currentUserID(c), query)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workouts": MapWorkoutsToResponse(workouts)})
}

// CreateWorkout godoc
// @Summary Log a workout
// @Description A workout linked to a plan session also sets that session's status.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 201 {object} map[string]WorkoutResponse
// @Failure 400 {object} errorResponse
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	workout, err := h.workoutService.Create(c.Request.Context(), currentUserID(c), service.WorkoutInput{
		PlanID:          optionalObjectID(planRef(req.PlanID, req.Plan)),
		SessionID:       optionalObjectID(req.SessionID),
		Title:           req.Title,
		Type:            req.Type,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		PerceivedEffort: req.PerceivedEffort,
		Calories:        req.Calories,
		Notes:           req.Notes,
		Status:          req.Status,
		Exercises:       toExerciseEntries(req.Exercises),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"workout": MapWorkoutToResponse(workout)})
}

func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrWorkoutNotFound)
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := service.WorkoutPatch{
		PlanID:          optionalObjectID(planRef(req.PlanID, req.Plan)),
		SessionID:       optionalObjectID(req.SessionID),
		Title:           req.Title,
		Type:            req.Type,
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Intensity:       req.Intensity,
		PerceivedEffort: req.PerceivedEffort,
		Calories:        req.Calories,
		Notes:           req.Notes,
		Status:          req.Status,
	}
	if req.Exercises != nil {
		exercises := toExerciseEntries(*req.Exercises)
		patch.Exercises = &exercises
	}

	workout, err := h.workoutService.Update(c.Request.Context(), currentUserID(c), id, patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"workout": MapWorkoutToResponse(workout)})
}

func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrWorkoutNotFound)
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary Training volume over the trailing seven days
// @Tags Workouts
// @Produce json
// @Success 200 {object} map[string]WorkoutSummaryResponse
// @Router /workouts/summary [get]
func (h *WorkoutHandler) Summary(c *gin.Context) {
	s, err := h.workoutService.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": MapWorkoutSummaryToResponse(s)})
}
