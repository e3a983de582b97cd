package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleType distinguishes one-time from recurring schedule rules.
type ScheduleType string

const (
	ScheduleOnce   ScheduleType = "once"   // single fixed calendar date
	ScheduleWeekly ScheduleType = "weekly" // repeats on selected weekdays
)

// Assignment binds a workout template (plan) to an athlete with a schedule
// rule. Assignments are created and removed by the coach admin workflow; the
// engine only reads them when resolving occurrences.
type Assignment struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PlanID  primitive.ObjectID `bson:"planId" json:"planId"`
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	CoachID primitive.ObjectID `bson:"coachId" json:"coachId"` // Denormalized for published-schedule lookups

	ScheduleType ScheduleType `bson:"scheduleType" json:"scheduleType"`

	// --- once ---
	ScheduledDate *Date `bson:"scheduledDate,omitempty" json:"scheduledDate,omitempty"`

	// --- weekly ---
	// Weekday numbering is 0=Sunday through 6=Saturday.
	RecurrenceDays []int `bson:"recurrenceDays,omitempty" json:"recurrenceDays,omitempty"`
	StartDate      *Date `bson:"startDate,omitempty" json:"startDate,omitempty"`
	EndDate        *Date `bson:"endDate,omitempty" json:"endDate,omitempty"`

	// Published marks a coach's own self-schedule entry, which is merged into
	// the weekly view of every athlete that coach manages.
	Published bool `bson:"published" json:"published"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Occurrence is a concrete (plan, date) pair derived from an Assignment's
// schedule rule. Occurrences are computed on every read and never persisted.
type Occurrence struct {
	PlanID       primitive.ObjectID `json:"planId"`
	DisplayDate  Date               `json:"displayDate"`
	AssignmentID primitive.ObjectID `json:"assignmentId"`

	// Completed is populated only for past listings.
	Completed *bool `json:"completed,omitempty"`
}
