package repository

import (
	"alcyxob/workout-engine/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	SetCoachForAthlete(ctx context.Context, athleteID, coachID primitive.ObjectID) error
}

// AssignmentRepository defines the interface for interacting with schedule
// assignment data.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	// GetByUserID returns the athlete's assignments ordered by creation time,
	// so occurrence aggregation is deterministic.
	GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Assignment, error)
	// GetPublishedByCoachID returns the coach's published self-schedule
	// entries, same ordering.
	GetPublishedByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Assignment, error)
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error
}

// TemplateRepository defines the interface for interacting with workout
// template data.
type TemplateRepository interface {
	Create(ctx context.Context, template *domain.WorkoutTemplate) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error)
	Update(ctx context.Context, template *domain.WorkoutTemplate) error
	Delete(ctx context.Context, id primitive.ObjectID, coachID primitive.ObjectID) error
}

// SessionRepository defines the interface for interacting with workout
// session data.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Session, error)
	// GetActiveByUserID returns the most recent in_progress session for the
	// user, or ErrNotFound when none exists.
	GetActiveByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
	// CountCompletedInWindow counts completed sessions for (userID, planID)
	// whose startedAt lies within [from, to].
	CountCompletedInWindow(ctx context.Context, userID, planID primitive.ObjectID, from, to time.Time) (int64, error)
}

// SessionExerciseRepository defines the interface for per-session exercise
// snapshots.
type SessionExerciseRepository interface {
	// CreateMany inserts the snapshot rows, assigning IDs, and returns them.
	CreateMany(ctx context.Context, exercises []domain.SessionExercise) ([]domain.SessionExercise, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SessionExercise, error)
	// GetBySessionID returns the session's exercises ordered by orderIndex.
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error)
	Update(ctx context.Context, exercise *domain.SessionExercise) error
}

// SetLogRepository defines the interface for set log records.
type SetLogRepository interface {
	CreateMany(ctx context.Context, logs []domain.SetLog) ([]domain.SetLog, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.SetLog, error)
	// GetBySessionID returns the session's set logs ordered by
	// (sessionExerciseId, setIndex).
	GetBySessionID(ctx context.Context, sessionID primitive.ObjectID) ([]domain.SetLog, error)
	// Upsert writes the log keyed on its natural composite key
	// (sessionExerciseId, setIndex). Last write wins.
	Upsert(ctx context.Context, log *domain.SetLog) error
}
