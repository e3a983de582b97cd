package service

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrTemplateNotFound        = errors.New("workout template not found")
	ErrNoExercisesInTemplate   = errors.New("workout template has no exercises")
	ErrSessionNotFound         = errors.New("session not found")
	ErrSessionExerciseNotFound = errors.New("session exercise not found")
	ErrSetLogNotFound          = errors.New("set log not found")
	ErrSessionAlreadyActive    = errors.New("a session is already in progress")
	ErrSessionNotActive        = errors.New("session is not in progress")
	ErrSessionAccessDenied     = errors.New("session does not belong to this user")
	ErrInvalidInput            = errors.New("invalid input")
)

// ActiveSession bundles a session with its exercise snapshots and set logs.
// Everything needed to resume lives in these persisted records; the service
// keeps no state between calls.
type ActiveSession struct {
	Session   domain.Session           `json:"session"`
	Exercises []domain.SessionExercise `json:"exercises"`
	SetLogs   []domain.SetLog          `json:"setLogs"`
}

// --- Service Interface ---

// SessionService drives the session lifecycle state machine:
// in_progress -> {completed, aborted}, both terminal. The acting user is an
// explicit parameter on every call and every mutation verifies ownership.
type SessionService interface {
	StartSession(ctx context.Context, userID, planID primitive.ObjectID) (*ActiveSession, error)
	GetActiveSession(ctx context.Context, userID primitive.ObjectID) (*ActiveSession, error)

	StartExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error
	CompleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error

	LogSet(ctx context.Context, userID, setID primitive.ObjectID, actualReps int, actualWeight float64, restSecondsActual int) (*domain.SetLog, error)
	SkipSet(ctx context.Context, userID, setID primitive.ObjectID) (*domain.SetLog, error)

	CompleteSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error)
	AbortSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error)
}

// --- Service Implementation ---

// sessionService implements the SessionService interface.
type sessionService struct {
	templateRepo repository.TemplateRepository
	sessionRepo  repository.SessionRepository
	exerciseRepo repository.SessionExerciseRepository
	setLogRepo   repository.SetLogRepository
	now          func() time.Time
}

// NewSessionService creates a new instance of sessionService. now may be nil,
// in which case time.Now is used.
func NewSessionService(
	templateRepo repository.TemplateRepository,
	sessionRepo repository.SessionRepository,
	exerciseRepo repository.SessionExerciseRepository,
	setLogRepo repository.SetLogRepository,
	now func() time.Time,
) SessionService {
	if now == nil {
		now = time.Now
	}
	return &sessionService{
		templateRepo: templateRepo,
		sessionRepo:  sessionRepo,
		exerciseRepo: exerciseRepo,
		setLogRepo:   setLogRepo,
		now:          now,
	}
}

// StartSession snapshots the template into a new in_progress session: one
// SessionExercise per template exercise (order preserved) and the full set of
// SetLogs, created eagerly so their count is fixed for the session's life.
//
// The three writes (session, exercises, set logs) are separate Mongo inserts
// with no cross-collection transaction. A failure partway leaves an
// in_progress session that GetActiveSession surfaces and AbortSession can
// clean up; callers must treat StartSession as non-atomic.
func (s *sessionService) StartSession(ctx context.Context, userID, planID primitive.ObjectID) (*ActiveSession, error) {
	if userID == primitive.NilObjectID || planID == primitive.NilObjectID {
		return nil, fmt.Errorf("%w: user ID and plan ID are required", ErrInvalidInput)
	}

	template, err := s.templateRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("load template: %w", err)
	}
	if len(template.Exercises) == 0 {
		return nil, ErrNoExercisesInTemplate
	}

	// One in_progress session per user, enforced by this query.
	_, err = s.sessionRepo.GetActiveByUserID(ctx, userID)
	if err == nil {
		return nil, ErrSessionAlreadyActive
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check active session: %w", err)
	}

	session := &domain.Session{
		UserID:    userID,
		PlanID:    planID,
		StartedAt: s.now(),
		Status:    domain.SessionInProgress,
	}
	sessionID, err := s.sessionRepo.Create(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	session.ID = sessionID

	exercises := make([]domain.SessionExercise, 0, len(template.Exercises))
	for i, te := range template.Exercises {
		exercises = append(exercises, domain.SessionExercise{
			SessionID:         sessionID,
			OrderIndex:        i,
			Name:              te.Name,
			TargetSets:        te.TargetSets,
			TargetReps:        te.TargetReps,
			TargetWeight:      te.TargetWeight,
			TargetRestSeconds: te.TargetRestSeconds,
		})
	}
	exercises, err = s.exerciseRepo.CreateMany(ctx, exercises)
	if err != nil {
		return nil, fmt.Errorf("create session exercises: %w", err)
	}

	var logs []domain.SetLog
	for i, te := range template.Exercises {
		logs = append(logs, buildSetLogs(sessionID, exercises[i].ID, te)...)
	}
	logs, err = s.setLogRepo.CreateMany(ctx, logs)
	if err != nil {
		return nil, fmt.Errorf("create set logs: %w", err)
	}

	return &ActiveSession{Session: *session, Exercises: exercises, SetLogs: logs}, nil
}

// buildSetLogs derives the eager set logs for one exercise: the template's
// per-set detail when present, otherwise the single target pair repeated
// TargetSets times.
func buildSetLogs(sessionID, exerciseID primitive.ObjectID, te domain.TemplateExercise) []domain.SetLog {
	if len(te.SetTargets) > 0 {
		logs := make([]domain.SetLog, 0, len(te.SetTargets))
		for i, st := range te.SetTargets {
			logs = append(logs, domain.SetLog{
				SessionExerciseID: exerciseID,
				SessionID:         sessionID,
				SetIndex:          i,
				TargetReps:        st.Reps,
				TargetWeight:      st.Weight,
			})
		}
		return logs
	}

	logs := make([]domain.SetLog, 0, te.TargetSets)
	for i := 0; i < te.TargetSets; i++ {
		logs = append(logs, domain.SetLog{
			SessionExerciseID: exerciseID,
			SessionID:         sessionID,
			SetIndex:          i,
			TargetReps:        te.TargetReps,
			TargetWeight:      te.TargetWeight,
		})
	}
	return logs
}

// GetActiveSession returns the user's most recent in_progress session with
// its exercises and set logs, or nil when there is none.
func (s *sessionService) GetActiveSession(ctx context.Context, userID primitive.ObjectID) (*ActiveSession, error) {
	session, err := s.sessionRepo.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load active session: %w", err)
	}

	exercises, err := s.exerciseRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load session exercises: %w", err)
	}
	logs, err := s.setLogRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load set logs: %w", err)
	}

	return &ActiveSession{Session: *session, Exercises: exercises, SetLogs: logs}, nil
}

// StartExercise marks the exercise started. Idempotent: a second call leaves
// the original start time untouched.
func (s *sessionService) StartExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	exercise, _, err := s.loadExerciseForUpdate(ctx, userID, exerciseID)
	if err != nil {
		return err
	}
	if exercise.StartedAt != nil {
		return nil
	}

	started := s.now()
	exercise.StartedAt = &started
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return fmt.Errorf("update session exercise: %w", err)
	}
	return nil
}

// CompleteExercise marks the exercise completed. Idempotent, and deliberately
// permissive: it does not require every set log to be addressed first.
func (s *sessionService) CompleteExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) error {
	exercise, _, err := s.loadExerciseForUpdate(ctx, userID, exerciseID)
	if err != nil {
		return err
	}
	if exercise.CompletedAt != nil {
		return nil
	}

	completed := s.now()
	exercise.CompletedAt = &completed
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return fmt.Errorf("update session exercise: %w", err)
	}
	return nil
}

// LogSet records the actual reps/weight for a set. Validation happens before
// any write; re-logging a set overwrites the previous actuals.
func (s *sessionService) LogSet(ctx context.Context, userID, setID primitive.ObjectID, actualReps int, actualWeight float64, restSecondsActual int) (*domain.SetLog, error) {
	if actualReps < 1 {
		return nil, fmt.Errorf("%w: actual reps must be at least 1", ErrInvalidInput)
	}
	if actualWeight < 0 {
		return nil, fmt.Errorf("%w: actual weight must not be negative", ErrInvalidInput)
	}

	log, err := s.loadSetLogForUpdate(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	completed := s.now()
	log.ActualReps = &actualReps
	log.ActualWeight = &actualWeight
	log.RestSecondsActual = &restSecondsActual
	log.CompletedAt = &completed
	log.Skipped = false

	if err := s.setLogRepo.Upsert(ctx, log); err != nil {
		return nil, fmt.Errorf("write set log: %w", err)
	}
	return log, nil
}

// SkipSet marks a set skipped. Skipped sets still count as addressed.
func (s *sessionService) SkipSet(ctx context.Context, userID, setID primitive.ObjectID) (*domain.SetLog, error) {
	log, err := s.loadSetLogForUpdate(ctx, userID, setID)
	if err != nil {
		return nil, err
	}

	completed := s.now()
	log.Skipped = true
	log.CompletedAt = &completed

	if err := s.setLogRepo.Upsert(ctx, log); err != nil {
		return nil, fmt.Errorf("write set log: %w", err)
	}
	return log, nil
}

// CompleteSession finalizes an in_progress session: it computes the aggregate
// totals once, here and nowhere else, and transitions to the terminal
// completed state.
func (s *sessionService) CompleteSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.loadOwnedActiveSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	ended := s.now()
	totalSeconds := int64(ended.Sub(session.StartedAt).Seconds())

	exercises, err := s.exerciseRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load session exercises: %w", err)
	}
	exercisesCompleted := 0
	for _, e := range exercises {
		if e.CompletedAt != nil {
			exercisesCompleted++
		}
	}

	logs, err := s.setLogRepo.GetBySessionID(ctx, session.ID)
	if err != nil {
		return nil, fmt.Errorf("load set logs: %w", err)
	}
	totalVolume := 0.0
	for _, l := range logs {
		if l.Skipped || l.CompletedAt == nil || l.ActualReps == nil || l.ActualWeight == nil {
			continue
		}
		totalVolume += float64(*l.ActualReps) * *l.ActualWeight
	}

	session.Status = domain.SessionCompleted
	session.EndedAt = &ended
	session.TotalSeconds = &totalSeconds
	session.ExercisesCompleted = &exercisesCompleted
	session.TotalVolume = &totalVolume

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("finalize session: %w", err)
	}
	return session, nil
}

// AbortSession transitions an in_progress session to the terminal aborted
// state. No aggregates are computed.
func (s *sessionService) AbortSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.loadOwnedActiveSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}

	ended := s.now()
	session.Status = domain.SessionAborted
	session.EndedAt = &ended

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, fmt.Errorf("abort session: %w", err)
	}
	return session, nil
}

// --- lookup helpers ---

// loadOwnedActiveSession fetches a session and verifies ownership and that it
// is still in_progress. Terminal sessions reject every further mutation.
func (s *sessionService) loadOwnedActiveSession(ctx context.Context, userID, sessionID primitive.ObjectID) (*domain.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrSessionAccessDenied
	}
	if session.Status.Terminal() {
		return nil, ErrSessionNotActive
	}
	return session, nil
}

func (s *sessionService) loadExerciseForUpdate(ctx context.Context, userID, exerciseID primitive.ObjectID) (*domain.SessionExercise, *domain.Session, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrSessionExerciseNotFound
		}
		return nil, nil, fmt.Errorf("load session exercise: %w", err)
	}
	session, err := s.loadOwnedActiveSession(ctx, userID, exercise.SessionID)
	if err != nil {
		return nil, nil, err
	}
	return exercise, session, nil
}

func (s *sessionService) loadSetLogForUpdate(ctx context.Context, userID, setID primitive.ObjectID) (*domain.SetLog, error) {
	log, err := s.setLogRepo.GetByID(ctx, setID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSetLogNotFound
		}
		return nil, fmt.Errorf("load set log: %w", err)
	}
	if _, err := s.loadOwnedActiveSession(ctx, userID, log.SessionID); err != nil {
		return nil, err
	}
	return log, nil
}
