package api

import (
	"alcyxob/workout-engine/internal/service"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionHandler exposes the session lifecycle operations.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// --- Request Structs ---

type StartSessionRequest struct {
	PlanID string `json:"planId" binding:"required"`
}

type LogSetRequest struct {
	ActualReps        int     `json:"actualReps" binding:"required,min=1"`
	ActualWeight      float64 `json:"actualWeight" binding:"gte=0"`
	RestSecondsActual int     `json:"restSecondsActual" binding:"gte=0"`
}

// mapSessionError translates service errors into HTTP responses. Unknown
// errors (persistence failures included) surface as a generic operation
// failure; nothing is silently swallowed, nothing internal leaks.
func mapSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNoExercisesInTemplate):
		abortWithError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionExerciseNotFound),
		errors.Is(err, service.ErrSetLogNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrSessionAlreadyActive):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSessionNotActive):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSessionAccessDenied):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Operation failed")
	}
}

// StartSession handles POST /sessions.
func (h *SessionHandler) StartSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	active, err := h.sessionService.StartSession(c.Request.Context(), userID, planID)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, active)
}

// GetActiveSession handles GET /sessions/active. Returns 204 when the user
// has no session in progress.
func (h *SessionHandler) GetActiveSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	active, err := h.sessionService.GetActiveSession(c.Request.Context(), userID)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	if active == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, active)
}

// CompleteSession handles POST /sessions/:sessionId/complete.
func (h *SessionHandler) CompleteSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	session, err := h.sessionService.CompleteSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// AbortSession handles POST /sessions/:sessionId/abort.
func (h *SessionHandler) AbortSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	sessionID, err := primitive.ObjectIDFromHex(c.Param("sessionId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	session, err := h.sessionService.AbortSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// StartExercise handles POST /exercises/:exerciseId/start.
func (h *SessionHandler) StartExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.sessionService.StartExercise(c.Request.Context(), userID, exerciseID); err != nil {
		mapSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CompleteExercise handles POST /exercises/:exerciseId/complete.
func (h *SessionHandler) CompleteExercise(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID format")
		return
	}

	if err := h.sessionService.CompleteExercise(c.Request.Context(), userID, exerciseID); err != nil {
		mapSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LogSet handles POST /sets/:setId/log.
func (h *SessionHandler) LogSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	setID, err := primitive.ObjectIDFromHex(c.Param("setId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set ID format")
		return
	}

	var req LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	log, err := h.sessionService.LogSet(c.Request.Context(), userID, setID, req.ActualReps, req.ActualWeight, req.RestSecondsActual)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}

// SkipSet handles POST /sets/:setId/skip.
func (h *SessionHandler) SkipSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	setID, err := primitive.ObjectIDFromHex(c.Param("setId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid set ID format")
		return
	}

	log, err := h.sessionService.SkipSet(c.Request.Context(), userID, setID)
	if err != nil {
		mapSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, log)
}
