package api

import (
	"net/http"

	"vitaltrack/fitness-app/internal/apperror"
	"vitaltrack/fitness-app/internal/config"
	"vitaltrack/fitness-app/internal/metrics"
	"vitaltrack/fitness-app/internal/service"

	"github.com/gin-gonic/gin"
)

// Services bundles what the routes need.
type Services struct {
	Auth     service.AuthService
	Avatars  service.AvatarService
	Goals    service.GoalService
	Plans    service.PlanService
	Workouts service.WorkoutService
	// Realtime serves the websocket endpoint.
	Realtime http.Handler
	// Ping checks the database for /health; nil skips the check.
	Ping Pinger
}

// RouterConfig is the HTTP-facing subset of the configuration.
type RouterConfig struct {
	ClientURL string
	Cookies   SessionCookies
	RateLimit config.RateLimitConfig
}

// NewRouter builds the gin engine with the middleware chain and all routes.
func NewRouter(cfg RouterConfig, services Services) *gin.Engine {
	RegisterValidators()

	router := gin.New()
	router.Use(Recovery(), RequestLogger(), Metrics(), ErrorHandler(), CORS(cfg.ClientURL))
	SetupRoutes(router, cfg, services)
	return router
}

func SetupRoutes(router *gin.Engine, cfg RouterConfig, services Services) {
	authHandler := NewAuthHandler(services.Auth, services.Avatars, cfg.Cookies)
	goalHandler := NewGoalHandler(services.Goals)
	planHandler := NewPlanHandler(services.Plans)
	workoutHandler := NewWorkoutHandler(services.Workouts)
	healthHandler := NewHealthHandler(services.Ping)

	authMiddleware := AuthMiddleware(services.Auth)
	authLimiter := RateLimit(cfg.RateLimit.AuthRPS, cfg.RateLimit.AuthBurst)

	router.GET("/health", healthHandler.Health)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	if services.Realtime != nil {
		router.GET("/realtime", gin.WrapH(services.Realtime))
	}

	apiGroup := router.Group("/api")
	apiGroup.GET("", healthHandler.Index)

	authGroup := apiGroup.Group("/auth")
	{
		authGroup.POST("/register", authLimiter, authHandler.Register)
		authGroup.POST("/login", authLimiter, authHandler.Login)
		authGroup.POST("/refresh", authLimiter, authHandler.Refresh)

		authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		authGroup.GET("/me", authMiddleware, authHandler.Me)
		authGroup.PATCH("/me", authMiddleware, authHandler.UpdateMe)
		authGroup.POST("/me/avatar", authMiddleware, authHandler.CreateAvatarUpload)
		authGroup.GET("/me/avatar", authMiddleware, authHandler.GetAvatar)
		authGroup.DELETE("/me/avatar", authMiddleware, authHandler.DeleteAvatar)
	}

	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		goals := protected.Group("/goals")
		goals.GET("", goalHandler.ListGoals)
		goals.POST("", goalHandler.CreateGoal)
		goals.GET("/summary/weekly", goalHandler.WeeklySummary)
		goals.PATCH("/:id", goalHandler.UpdateGoal)
		goals.DELETE("/:id", goalHandler.DeleteGoal)

		plans := protected.Group("/plans")
		plans.GET("", planHandler.ListPlans)
		plans.POST("", planHandler.CreatePlan)
		plans.GET("/summary", planHandler.Summary)
		plans.GET("/:id", planHandler.GetPlan)
		plans.PATCH("/:id", planHandler.UpdatePlan)
		plans.DELETE("/:id", planHandler.DeletePlan)

		workouts := protected.Group("/workouts")
		workouts.GET("", workoutHandler.ListWorkouts)
		workouts.POST("", workoutHandler.CreateWorkout)
		workouts.GET("/summary", workoutHandler.Summary)
		workouts.PATCH("/:id", workoutHandler.UpdateWorkout)
		workouts.DELETE("/:id", workoutHandler.DeleteWorkout)
	}

	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, apperror.NotFound("Route not found"))
	})
}
