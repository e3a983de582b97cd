package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SetTarget is the per-set detail of a template exercise. Templates may spell
// out each set individually (e.g. pyramid loading) instead of repeating one
// target pair TargetSets times.
type SetTarget struct {
	Reps   *int     `bson:"reps,omitempty" json:"reps,omitempty"`
	Weight *float64 `bson:"weight,omitempty" json:"weight,omitempty"`
}

// TemplateExercise is one exercise slot within a WorkoutTemplate.
type TemplateExercise struct {
	OrderIndex        int      `bson:"orderIndex" json:"orderIndex"`
	Name              string   `bson:"name" json:"name"`
	TargetSets        int      `bson:"targetSets" json:"targetSets"`
	TargetReps        *int     `bson:"targetReps,omitempty" json:"targetReps,omitempty"`
	TargetWeight      *float64 `bson:"targetWeight,omitempty" json:"targetWeight,omitempty"`
	TargetRestSeconds int      `bson:"targetRestSeconds" json:"targetRestSeconds"`

	// SetTargets, when present, overrides the single TargetReps/TargetWeight
	// pair with one entry per set.
	SetTargets []SetTarget `bson:"setTargets,omitempty" json:"setTargets,omitempty"`
}

// WorkoutTemplate is the plan a session is started from. Starting a session
// snapshots the template's exercises, so later template edits never affect
// sessions already in flight.
type WorkoutTemplate struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID   primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name      string             `bson:"name" json:"name"`
	Notes     string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Exercises []TemplateExercise `bson:"exercises" json:"exercises"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
