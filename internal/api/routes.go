package api

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	loc *time.Location,
	pastWindowDays int,
	authService service.AuthService,
	scheduleService service.ScheduleService,
	sessionService service.SessionService,
	coachService service.CoachService,
) {
	authHandler := NewAuthHandler(authService)
	scheduleHandler := NewScheduleHandler(scheduleService, loc, pastWindowDays)
	sessionHandler := NewSessionHandler(sessionService)
	coachHandler := NewCoachHandler(coachService)

	authMiddleware := AuthMiddleware(jwtSecret)
	router.Use(RequestIDMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := c.Get(ContextUserRoleKey)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Schedule Resolution ---
		// GET /api/v1/schedule/{today|week|upcoming|past}
		protected.GET("/schedule/:kind", scheduleHandler.GetOccurrences)
		// GET /api/v1/plans/{planId}/completed?date=YYYY-MM-DD
		protected.GET("/plans/:planId/completed", scheduleHandler.GetPlanCompleted)

		// --- Session Lifecycle ---
		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.POST("", sessionHandler.StartSession)
			sessionGroup.GET("/active", sessionHandler.GetActiveSession)
			sessionGroup.POST("/:sessionId/complete", sessionHandler.CompleteSession)
			sessionGroup.POST("/:sessionId/abort", sessionHandler.AbortSession)
		}
		protected.POST("/exercises/:exerciseId/start", sessionHandler.StartExercise)
		protected.POST("/exercises/:exerciseId/complete", sessionHandler.CompleteExercise)
		protected.POST("/sets/:setId/log", sessionHandler.LogSet)
		protected.POST("/sets/:setId/skip", sessionHandler.SkipSet)

		// --- Coach Admin Workflow ---
		// All routes require authentication AND the coach role.
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			coachGroup.POST("/athletes", coachHandler.AddAthlete)
			coachGroup.POST("/templates", coachHandler.CreateTemplate)
			coachGroup.GET("/templates", coachHandler.GetTemplates)
			coachGroup.POST("/assignments", coachHandler.CreateAssignment)
			coachGroup.DELETE("/assignments/:assignmentId", coachHandler.DeleteAssignment)
		}
	}
}
