package api

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachHandler exposes the admin workflow producing assignments and
// templates.
type CoachHandler struct {
	coachService service.CoachService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService) *CoachHandler {
	return &CoachHandler{coachService: coachService}
}

// --- Request Structs ---

type AddAthleteRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type CreateTemplateRequest struct {
	Name      string                    `json:"name" binding:"required"`
	Notes     string                    `json:"notes"`
	Exercises []TemplateExerciseRequest `json:"exercises" binding:"required,dive"`
}

type TemplateExerciseRequest struct {
	Name              string             `json:"name" binding:"required"`
	TargetSets        int                `json:"targetSets"`
	TargetReps        *int               `json:"targetReps"`
	TargetWeight      *float64           `json:"targetWeight"`
	TargetRestSeconds int                `json:"targetRestSeconds" binding:"gte=0"`
	SetTargets        []domain.SetTarget `json:"setTargets"`
}

type CreateAssignmentRequest struct {
	PlanID         string              `json:"planId" binding:"required"`
	UserID         string              `json:"userId" binding:"required"`
	ScheduleType   domain.ScheduleType `json:"scheduleType" binding:"required,oneof=once weekly"`
	ScheduledDate  *domain.Date        `json:"scheduledDate"`
	RecurrenceDays []int               `json:"recurrenceDays"`
	StartDate      *domain.Date        `json:"startDate"`
	EndDate        *domain.Date        `json:"endDate"`
	Published      bool                `json:"published"`
}

// AddAthlete handles POST /coach/athletes.
func (h *CoachHandler) AddAthlete(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddAthleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	athlete, err := h.coachService.AddAthleteByEmail(c.Request.Context(), coachID, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAthleteNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Operation failed")
		}
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(athlete))
}

// CreateTemplate handles POST /coach/templates.
func (h *CoachHandler) CreateTemplate(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	template := &domain.WorkoutTemplate{
		CoachID: coachID,
		Name:    req.Name,
		Notes:   req.Notes,
	}
	for i, e := range req.Exercises {
		template.Exercises = append(template.Exercises, domain.TemplateExercise{
			OrderIndex:        i,
			Name:              e.Name,
			TargetSets:        e.TargetSets,
			TargetReps:        e.TargetReps,
			TargetWeight:      e.TargetWeight,
			TargetRestSeconds: e.TargetRestSeconds,
			SetTargets:        e.SetTargets,
		})
	}

	created, err := h.coachService.CreateTemplate(c.Request.Context(), template)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetTemplates handles GET /coach/templates.
func (h *CoachHandler) GetTemplates(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}

	templates, err := h.coachService.GetTemplates(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Operation failed")
		return
	}
	if templates == nil {
		templates = []domain.WorkoutTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": templates})
}

// CreateAssignment handles POST /coach/assignments.
func (h *CoachHandler) CreateAssignment(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	assignment := &domain.Assignment{
		PlanID:         planID,
		UserID:         userID,
		CoachID:        coachID,
		ScheduleType:   req.ScheduleType,
		ScheduledDate:  req.ScheduledDate,
		RecurrenceDays: req.RecurrenceDays,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Published:      req.Published,
	}

	created, err := h.coachService.CreateAssignment(c.Request.Context(), assignment)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSchedule):
			abortWithError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrTemplateNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Operation failed")
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteAssignment handles DELETE /coach/assignments/:assignmentId.
func (h *CoachHandler) DeleteAssignment(c *gin.Context) {
	coachID, ok := currentUserID(c)
	if !ok {
		return
	}
	assignmentID, err := primitive.ObjectIDFromHex(c.Param("assignmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	if err := h.coachService.DeleteAssignment(c.Request.Context(), coachID, assignmentID); err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Operation failed")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
