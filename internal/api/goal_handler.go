package api

import (
	"net/http"
	"strconv"
	"time"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/service"
	"vitaltrack/fitness-app/internal/summary"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct {
	goalService service.GoalService
}

func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

// --- DTOs ---

type CreateGoalRequest struct {
	Type      domain.GoalType   `json:"type" binding:"required,oneof=workouts minutes steps weight calories"`
	Period    domain.GoalPeriod `json:"period" binding:"required,oneof=daily weekly monthly"`
	Target    float64           `json:"target" binding:"required,gte=0.1"`
	Progress  *float64          `json:"progress" binding:"omitempty,gte=0"`
	Unit      string            `json:"unit" binding:"omitempty,max=30"`
	StartDate *time.Time        `json:"startDate"`
	EndDate   *time.Time        `json:"endDate"`
	IsActive  *bool             `json:"isActive"`
}

type UpdateGoalRequest struct {
	Type      *domain.GoalType   `json:"type" binding:"omitempty,oneof=workouts minutes steps weight calories"`
	Period    *domain.GoalPeriod `json:"period" binding:"omitempty,oneof=daily weekly monthly"`
	Target    *float64           `json:"target" binding:"omitempty,gte=0.1"`
	Progress  *float64           `json:"progress" binding:"omitempty,gte=0"`
	Unit      *string            `json:"unit" binding:"omitempty,max=30"`
	StartDate *time.Time         `json:"startDate"`
	EndDate   *time.Time         `json:"endDate"`
	IsActive  *bool              `json:"isActive"`
}

type GoalResponse struct {
	ID        string            `json:"id"`
	Type      domain.GoalType   `json:"type"`
	Period    domain.GoalPeriod `json:"period"`
	Target    float64           `json:"target"`
	Progress  float64           `json:"progress"`
	Unit      string            `json:"unit"`
	StartDate time.Time         `json:"startDate"`
	EndDate   time.Time         `json:"endDate"`
	IsActive  bool              `json:"isActive"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// GoalSummaryItem is one entry of the weekly goal summary.
type GoalSummaryItem struct {
	ID         string            `json:"id"`
	Type       domain.GoalType   `json:"type"`
	Period     domain.GoalPeriod `json:"period"`
	Target     float64           `json:"target"`
	Progress   float64           `json:"progress"`
	Unit       string            `json:"unit"`
	Completion float64           `json:"completion"`
}

func MapGoalToResponse(g *domain.Goal) GoalResponse {
	return GoalResponse{
		ID:        g.ID.Hex(),
		Type:      g.Type,
		Period:    g.Period,
		Target:    g.Target,
		Progress:  g.Progress,
		Unit:      g.Unit,
		StartDate: g.StartDate,
		EndDate:   g.EndDate,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

func MapGoalsToResponse(goals []domain.Goal) []GoalResponse {
	out := make([]GoalResponse, len(goals))
	for i := range goals {
		out[i] = MapGoalToResponse(&goals[i])
	}
	return out
}

func MapGoalSummaryToResponse(items []summary.GoalCompletion) []GoalSummaryItem {
	out := make([]GoalSummaryItem, len(items))
	for i, item := range items {
		out[i] = GoalSummaryItem{
			ID:         item.Goal.ID.Hex(),
			Type:       item.Goal.Type,
			Period:     item.Goal.Period,
			Target:     item.Goal.Target,
			Progress:   item.Goal.Progress,
			Unit:       item.Goal.Unit,
			Completion: item.Completion,
		}
	}
	return out
}

// --- Handler Methods ---

// ListGoals godoc
// @Summary List the authenticated user's goals
// @Tags Goals
// @Produce json
// @Param period query string false "daily, weekly or monthly"
// @Param active query bool false "Only active (true) or inactive (false) goals"
// @Success 200 {object} map[string][]GoalResponse
// @Router /goals [get]
func (h *GoalHandler) ListGoals(c *gin.Context) {
	filter := repository.GoalFilter{Period: domain.GoalPeriod(c.Query("period"))}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			abortWithError(c, apperror.Validation("Query parameter active must be a boolean", nil))
			return
		}
		filter.Active = &active
	}

	goals, err := h.goalService.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goals": MapGoalsToResponse(goals)})
}

// CreateGoal godoc
// @Summary Create a goal
// @Description Daily and monthly goals cover the current day or month. Weekly goals cover the current week unless dates are given.
// @Tags Goals
// @Accept json
// @Produce json
// @Param goal body CreateGoalRequest true "Goal"
// @Success 201 {object} map[string]GoalResponse
// @Failure 400 {object} errorResponse
// @Router /goals [post]
func (h *GoalHandler) CreateGoal(c *gin.Context) {
	var req CreateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	goal, err := h.goalService.Create(c.Request.Context(), currentUserID(c), service.GoalInput{
		Type:      req.Type,
		Period:    req.Period,
		Target:    req.Target,
		Progress:  req.Progress,
		Unit:      req.Unit,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"goal": MapGoalToResponse(goal)})
}

func (h *GoalHandler) UpdateGoal(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrGoalNotFound)
	if !ok {
		return
	}
	var req UpdateGoalRequest
	if !bindJSON(c, &req) {
		return
	}

	goal, err := h.goalService.Update(c.Request.Context(), currentUserID(c), id, service.GoalPatch{
		Type:      req.Type,
		Period:    req.Period,
		Target:    req.Target,
		Progress:  req.Progress,
		Unit:      req.Unit,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		IsActive:  req.IsActive,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"goal": MapGoalToResponse(goal)})
}

func (h *GoalHandler) DeleteGoal(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrGoalNotFound)
	if !ok {
		return
	}
	if err := h.goalService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// WeeklySummary godoc
// @Summary Completion of the active weekly goals overlapping this week
// @Tags Goals
// @Produce json
// @Success 200 {object} map[string][]GoalSummaryItem
// @Router /goals/summary/weekly [get]
func (h *GoalHandler) WeeklySummary(c *gin.Context) {
	items, err := h.goalService.WeeklySummary(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": MapGoalSummaryToResponse(items)})
}
