package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionStatus tracks the session state machine:
// in_progress -> {completed, aborted}. Both end states are terminal.
type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionCompleted  SessionStatus = "completed"
	SessionAborted    SessionStatus = "aborted"
)

// Terminal reports whether no further transitions are permitted from s.
func (s SessionStatus) Terminal() bool {
	return s == SessionCompleted || s == SessionAborted
}

// Session is one performance of a workout template by an athlete. At most one
// in_progress session exists per user; the engine enforces this with a query
// at start, not a database constraint.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	PlanID    primitive.ObjectID `bson:"planId" json:"planId"`
	StartedAt time.Time          `bson:"startedAt" json:"startedAt"`
	EndedAt   *time.Time         `bson:"endedAt,omitempty" json:"endedAt,omitempty"`
	Status    SessionStatus      `bson:"status" json:"status"`

	// Aggregates are computed once, at finalization, never incrementally.
	TotalSeconds       *int64   `bson:"totalSeconds,omitempty" json:"totalSeconds,omitempty"`
	ExercisesCompleted *int     `bson:"exercisesCompleted,omitempty" json:"exercisesCompleted,omitempty"`
	TotalVolume        *float64 `bson:"totalVolume,omitempty" json:"totalVolume,omitempty"`
}

// SessionExercise is the per-exercise snapshot taken from the template at
// session start.
type SessionExercise struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionID         primitive.ObjectID `bson:"sessionId" json:"sessionId"`
	OrderIndex        int                `bson:"orderIndex" json:"orderIndex"`
	Name              string             `bson:"name" json:"name"`
	TargetSets        int                `bson:"targetSets" json:"targetSets"`
	TargetReps        *int               `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	TargetWeight      *float64           `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	TargetRestSeconds int                `bson:"targetRestSeconds" json:"targetRestSeconds"`
	StartedAt         *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
}

// SetLog records one target/actual rep-weight pair within a SessionExercise.
// The full set of logs for a session is created eagerly at session start;
// their count is fixed thereafter.
type SetLog struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SessionExerciseID primitive.ObjectID `bson:"sessionExerciseId" json:"sessionExerciseId"`
	SessionID         primitive.ObjectID `bson:"sessionId" json:"sessionId"` // Denormalized for one-query resume
	SetIndex          int                `bson:"setIndex" json:"setIndex"`
	TargetReps        *int               `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	TargetWeight      *float64           `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	ActualReps        *int               `bson:"actualReps,omitempty" json:"actualReps,omitempty"`
	ActualWeight      *float64           `bson:"actualWeight,omitempty" json:"actualWeight,omitempty"`
	RestSecondsActual *int               `bson:"restSecondsActual,omitempty" json:"restSecondsActual,omitempty"`
	CompletedAt       *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	Skipped           bool               `bson:"skipped" json:"skipped"`
}

// Addressed reports whether the set has been either logged or skipped.
func (l *SetLog) Addressed() bool {
	return l.CompletedAt != nil
}
