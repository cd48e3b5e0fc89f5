package api

import (
	"net/http"
	"time"

	"vitaltrack/fitness-app/internal/domain"
	"vitaltrack/fitness-app/internal/repository"
	"vitaltrack/fitness-app/internal/service"
	"vitaltrack/fitness-app/internal/summary"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type SessionRequest struct {
	ID             *string              `json:"id" binding:"omitempty,mongodb"`
	Day            string               `json:"day" binding:"omitempty,max=20"`
	Title          string               `json:"title" binding:"required,max=120"`
	Notes          string               `json:"notes" binding:"omitempty,max=500"`
	TargetDuration *int                 `json:"targetDuration" binding:"omitempty,min=0,max=300"`
	FocusArea      string               `json:"focusArea" binding:"omitempty,max=80"`
	Status         domain.SessionStatus `json:"status" binding:"omitempty,oneof=planned completed skipped"`
}

type CreatePlanRequest struct {
	Name      string               `json:"name" binding:"required,max=80"`
	Goal      string               `json:"goal" binding:"omitempty,max=200"`
	FocusArea string               `json:"focusArea" binding:"omitempty,max=80"`
	Status    domain.PlanStatus    `json:"status" binding:"omitempty,oneof=draft active paused completed"`
	Intensity domain.PlanIntensity `json:"intensity" binding:"omitempty,oneof=low moderate high"`
	StartDate *time.Time           `json:"startDate"`
	EndDate   *time.Time           `json:"endDate"`
	Notes     string               `json:"notes" binding:"omitempty,max=1000"`
	Sessions  []SessionRequest     `json:"sessions" binding:"omitempty,max=14,dive"`
}

type UpdatePlanRequest struct {
	Name      *string               `json:"name" binding:"omitempty,min=1,max=80"`
	Goal      *string               `json:"goal" binding:"omitempty,max=200"`
	FocusArea *string               `json:"focusArea" binding:"omitempty,max=80"`
	Status    *domain.PlanStatus    `json:"status" binding:"omitempty,oneof=draft active paused completed"`
	Intensity *domain.PlanIntensity `json:"intensity" binding:"omitempty,oneof=low moderate high"`
	StartDate *time.Time            `json:"startDate"`
	EndDate   *time.Time            `json:"endDate"`
	Notes     *string               `json:"notes" binding:"omitempty,max=1000"`
	Sessions  *[]SessionRequest     `json:"sessions" binding:"omitempty,max=14,dive"`
}

type SessionResponse struct {
	ID             string               `json:"id"`
	Day            string               `json:"day"`
	Title          string               `json:"title"`
	Notes          string               `json:"notes,omitempty"`
	TargetDuration *int                 `json:"targetDuration,omitempty"`
	FocusArea      string               `json:"focusArea,omitempty"`
	Status         domain.SessionStatus `json:"status"`
}

type PlanResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	Goal      string               `json:"goal"`
	FocusArea string               `json:"focusArea"`
	Status    domain.PlanStatus    `json:"status"`
	Intensity domain.PlanIntensity `json:"intensity"`
	StartDate time.Time            `json:"startDate"`
	EndDate   *time.Time           `json:"endDate,omitempty"`
	Notes     string               `json:"notes,omitempty"`
	Sessions  []SessionResponse    `json:"sessions"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

type ActivePlanResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	FocusArea  string     `json:"focusArea"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Completion int        `json:"completion"`
}

type PlanSummaryResponse struct {
	TotalPlans        int                       `json:"totalPlans"`
	TotalSessions     int                       `json:"totalSessions"`
	CompletedSessions int                       `json:"completedSessions"`
	CompletionRate    int                       `json:"completionRate"`
	ActivePlans       []ActivePlanResponse      `json:"activePlans"`
	StatusCounts      map[domain.PlanStatus]int `json:"statusCounts"`
}

func toSessionInputs(in []SessionRequest) []service.SessionInput {
	out := make([]service.SessionInput, len(in))
	for i, s := range in {
		out[i] = service.SessionInput{
			ID:             optionalObjectID(s.ID),
			Day:            s.Day,
			Title:          s.Title,
			Notes:          s.Notes,
			TargetDuration: s.TargetDuration,
			FocusArea:      s.FocusArea,
			Status:         s.Status,
		}
	}
	return out
}

func MapPlanToResponse(p *domain.Plan) PlanResponse {
	sessions := make([]SessionResponse, len(p.Sessions))
	for i, s := range p.Sessions {
		sessions[i] = SessionResponse{
			ID:             s.ID.Hex(),
			Day:            s.Day,
			Title:          s.Title,
			Notes:          s.Notes,
			TargetDuration: s.TargetDuration,
			FocusArea:      s.FocusArea,
			Status:         s.Status,
		}
	}
	return PlanResponse{
		ID:        p.ID.Hex(),
		Name:      p.Name,
		Goal:      p.Goal,
		FocusArea: p.FocusArea,
		Status:    p.Status,
		Intensity: p.Intensity,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Notes:     p.Notes,
		Sessions:  sessions,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	out := make([]PlanResponse, len(plans))
	for i := range plans {
		out[i] = MapPlanToResponse(&plans[i])
	}
	return out
}

func MapPlanSummaryToResponse(s summary.PlanSummary) PlanSummaryResponse {
	active := make([]ActivePlanResponse, len(s.ActivePlans))
	for i, a := range s.ActivePlans {
		active[i] = ActivePlanResponse{
			ID:         a.Plan.ID.Hex(),
			Name:       a.Plan.Name,
			FocusArea:  a.Plan.FocusArea,
			EndDate:    a.Plan.EndDate,
			Completion: a.Completion,
		}
	}
	return PlanSummaryResponse{
		TotalPlans:        s.TotalPlans,
		TotalSessions:     s.TotalSessions,
		CompletedSessions: s.CompletedSessions,
		CompletionRate:    s.CompletionRate,
		ActivePlans:       active,
		StatusCounts:      s.StatusCounts,
	}
}

// --- Handler Methods ---

// ListPlans godoc
// @Summary List the authenticated user's plans, newest first
// @Tags Plans
// @Produce json
// @Param status query string false "draft, active, paused or completed"
// @Success 200 {object} map[string][]PlanResponse
// @Router /plans [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	filter := repository.PlanFilter{Status: domain.PlanStatus(c.Query("status"))}
	plans, err := h.planService.List(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": MapPlansToResponse(plans)})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrPlanNotFound)
	if !ok {
		return
	}
	plan, err := h.planService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": MapPlanToResponse(plan)})
}

// CreatePlan godoc
// @Summary Create a plan
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Plan with up to 14 sessions"
// @Success 201 {object} map[string]PlanResponse
// @Failure 400 {object} errorResponse
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	plan, err := h.planService.Create(c.Request.Context(), currentUserID(c), service.PlanInput{
		Name:      req.Name,
		Goal:      req.Goal,
		FocusArea: req.FocusArea,
		Status:    req.Status,
		Intensity: req.Intensity,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
		Sessions:  toSessionInputs(req.Sessions),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": MapPlanToResponse(plan)})
}

// UpdatePlan godoc
// @Summary Update a plan
// @Description A submitted sessions list replaces the existing one.
// @Tags Plans
// @Accept json
// @Produce json
// @Param id path string true "Plan ID"
// @Success 200 {object} map[string]PlanResponse
// @Failure 404 {object} errorResponse "Plan not found"
// @Router /plans/{id} [patch]
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrPlanNotFound)
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := service.PlanPatch{
		Name:      req.Name,
		Goal:      req.Goal,
		FocusArea: req.FocusArea,
		Status:    req.Status,
		Intensity: req.Intensity,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	}
	if req.Sessions != nil {
		sessions := toSessionInputs(*req.Sessions)
		patch.Sessions = &sessions
	}

	plan, err := h.planService.Update(c.Request.Context(), currentUserID(c), id, patch)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plan": MapPlanToResponse(plan)})
}

func (h *PlanHandler) DeletePlan(c *gin.Context) {
	id, ok := parseObjectIDParam(c, "id", service.ErrPlanNotFound)
	if !ok {
		return
	}
	if err := h.planService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PlanHandler) Summary(c *gin.Context) {
	s, err := h.planService.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": MapPlanSummaryToResponse(s)})
}
