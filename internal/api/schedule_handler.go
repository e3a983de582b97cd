package api

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/service"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler serves the resolved occurrence listings and the per-date
// completion query.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	loc             *time.Location
	pastWindowDays  int
}

// NewScheduleHandler creates a new ScheduleHandler. pastWindowDays is the
// lookback used when a past request carries no windowDays override.
func NewScheduleHandler(scheduleService service.ScheduleService, loc *time.Location, pastWindowDays int) *ScheduleHandler {
	if loc == nil {
		loc = time.Local
	}
	if pastWindowDays <= 0 {
		pastWindowDays = service.DefaultPastWindowDays
	}
	return &ScheduleHandler{scheduleService: scheduleService, loc: loc, pastWindowDays: pastWindowDays}
}

// currentUserID extracts the authenticated user's ObjectID from the context.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetOccurrences handles GET /schedule/:kind where kind is one of
// today|week|upcoming|past. The optional ?date=YYYY-MM-DD query anchors the
// resolution on a day other than the server's current one; past accepts
// ?windowDays=N.
func (h *ScheduleHandler) GetOccurrences(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	now := time.Now().In(h.loc)
	if dateStr := c.Query("date"); dateStr != "" {
		anchor, err := domain.ParseDate(dateStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date: %v", err))
			return
		}
		// Noon avoids any ambiguity around DST transitions at midnight.
		now = anchor.In(h.loc).Add(12 * time.Hour)
	}

	var (
		occurrences []domain.Occurrence
		err         error
	)
	switch kind := c.Param("kind"); kind {
	case "today":
		occurrences, err = h.scheduleService.Today(c.Request.Context(), userID, now)
	case "week":
		occurrences, err = h.scheduleService.ThisWeek(c.Request.Context(), userID, now)
	case "upcoming":
		occurrences, err = h.scheduleService.Upcoming(c.Request.Context(), userID, now)
	case "past":
		windowDays := h.pastWindowDays
		if windowStr := c.Query("windowDays"); windowStr != "" {
			windowDays, err = strconv.Atoi(windowStr)
			if err != nil || windowDays <= 0 {
				abortWithError(c, http.StatusBadRequest, "windowDays must be a positive integer")
				return
			}
		}
		occurrences, err = h.scheduleService.Past(c.Request.Context(), userID, now, windowDays)
	default:
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Unknown schedule kind %q", kind))
		return
	}
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Operation failed")
		return
	}

	if occurrences == nil {
		occurrences = []domain.Occurrence{}
	}
	c.JSON(http.StatusOK, gin.H{"occurrences": occurrences})
}

// GetPlanCompleted handles GET /plans/:planId/completed?date=YYYY-MM-DD.
func (h *ScheduleHandler) GetPlanCompleted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format")
		return
	}

	date, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date: %v", err))
		return
	}

	completed, err := h.scheduleService.IsCompletedOnDate(c.Request.Context(), userID, planID, date)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Operation failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"planId": planID.Hex(), "date": date.String(), "completed": completed})
}
