package service

// In-memory repository fakes backing the service tests. Slices keep insertion
// order so listings behave like the sorted Mongo queries they stand in for.

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/repository"
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- AssignmentRepository fake ---

type fakeAssignmentRepo struct {
	assignments []domain.Assignment
}

func (f *fakeAssignmentRepo) Create(_ context.Context, a *domain.Assignment) (primitive.ObjectID, error) {
	a.ID = primitive.NewObjectID()
	f.assignments = append(f.assignments, *a)
	return a.ID, nil
}

func (f *fakeAssignmentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	for i := range f.assignments {
		if f.assignments[i].ID == id {
			a := f.assignments[i]
			return &a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeAssignmentRepo) GetByUserID(_ context.Context, userID primitive.ObjectID) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range f.assignments {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) GetPublishedByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.Assignment, error) {
	var out []domain.Assignment
	for _, a := range f.assignments {
		if a.CoachID == coachID && a.Published {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssignmentRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	for i, a := range f.assignments {
		if a.ID == id && a.CoachID == coachID {
			f.assignments = append(f.assignments[:i], f.assignments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- UserRepository fake ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) (primitive.ObjectID, error) {
	u.ID = primitive.NewObjectID()
	copied := *u
	f.users[u.ID] = &copied
	return u.ID, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) SetCoachForAthlete(_ context.Context, athleteID, coachID primitive.ObjectID) error {
	u, ok := f.users[athleteID]
	if !ok {
		return repository.ErrNotFound
	}
	u.CoachID = &coachID
	return nil
}

// --- TemplateRepository fake ---

type fakeTemplateRepo struct {
	templates map[primitive.ObjectID]*domain.WorkoutTemplate
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{templates: make(map[primitive.ObjectID]*domain.WorkoutTemplate)}
}

func (f *fakeTemplateRepo) Create(_ context.Context, t *domain.WorkoutTemplate) (primitive.ObjectID, error) {
	t.ID = primitive.NewObjectID()
	copied := *t
	f.templates[t.ID] = &copied
	return t.ID, nil
}

func (f *fakeTemplateRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.WorkoutTemplate, error) {
	t, ok := f.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTemplateRepo) GetByCoachID(_ context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	var out []domain.WorkoutTemplate
	for _, t := range f.templates {
		if t.CoachID == coachID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeTemplateRepo) Update(_ context.Context, t *domain.WorkoutTemplate) error {
	if _, ok := f.templates[t.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *t
	f.templates[t.ID] = &copied
	return nil
}

func (f *fakeTemplateRepo) Delete(_ context.Context, id, coachID primitive.ObjectID) error {
	t, ok := f.templates[id]
	if !ok || t.CoachID != coachID {
		return repository.ErrNotFound
	}
	delete(f.templates, id)
	return nil
}

// --- SessionRepository fake ---

type fakeSessionRepo struct {
	sessions map[primitive.ObjectID]*domain.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[primitive.ObjectID]*domain.Session)}
}

func (f *fakeSessionRepo) Create(_ context.Context, s *domain.Session) (primitive.ObjectID, error) {
	s.ID = primitive.NewObjectID()
	copied := *s
	f.sessions[s.ID] = &copied
	return s.ID, nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSessionRepo) GetActiveByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Session, error) {
	var latest *domain.Session
	for _, s := range f.sessions {
		if s.UserID != userID || s.Status != domain.SessionInProgress {
			continue
		}
		if latest == nil || s.StartedAt.After(latest.StartedAt) {
			latest = s
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeSessionRepo) Update(_ context.Context, s *domain.Session) error {
	if _, ok := f.sessions[s.ID]; !ok {
		return repository.ErrNotFound
	}
	copied := *s
	f.sessions[s.ID] = &copied
	return nil
}

func (f *fakeSessionRepo) CountCompletedInWindow(_ context.Context, userID, planID primitive.ObjectID, from, to time.Time) (int64, error) {
	var count int64
	for _, s := range f.sessions {
		if s.UserID != userID || s.PlanID != planID || s.Status != domain.SessionCompleted {
			continue
		}
		if s.StartedAt.Before(from) || s.StartedAt.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

// --- SessionExerciseRepository fake ---

type fakeSessionExerciseRepo struct {
	exercises []domain.SessionExercise
}

func (f *fakeSessionExerciseRepo) CreateMany(_ context.Context, exercises []domain.SessionExercise) ([]domain.SessionExercise, error) {
	for i := range exercises {
		exercises[i].ID = primitive.NewObjectID()
		f.exercises = append(f.exercises, exercises[i])
	}
	return exercises, nil
}

func (f *fakeSessionExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SessionExercise, error) {
	for i := range f.exercises {
		if f.exercises[i].ID == id {
			e := f.exercises[i]
			return &e, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSessionExerciseRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.SessionExercise, error) {
	var out []domain.SessionExercise
	for _, e := range f.exercises {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeSessionExerciseRepo) Update(_ context.Context, exercise *domain.SessionExercise) error {
	for i := range f.exercises {
		if f.exercises[i].ID == exercise.ID {
			f.exercises[i] = *exercise
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- SetLogRepository fake ---

type fakeSetLogRepo struct {
	logs []domain.SetLog
}

func (f *fakeSetLogRepo) CreateMany(_ context.Context, logs []domain.SetLog) ([]domain.SetLog, error) {
	for i := range logs {
		logs[i].ID = primitive.NewObjectID()
		f.logs = append(f.logs, logs[i])
	}
	return logs, nil
}

func (f *fakeSetLogRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.SetLog, error) {
	for i := range f.logs {
		if f.logs[i].ID == id {
			l := f.logs[i]
			return &l, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeSetLogRepo) GetBySessionID(_ context.Context, sessionID primitive.ObjectID) ([]domain.SetLog, error) {
	var out []domain.SetLog
	for _, l := range f.logs {
		if l.SessionID == sessionID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionExerciseID != out[j].SessionExerciseID {
			return out[i].SessionExerciseID.Hex() < out[j].SessionExerciseID.Hex()
		}
		return out[i].SetIndex < out[j].SetIndex
	})
	return out, nil
}

func (f *fakeSetLogRepo) Upsert(_ context.Context, log *domain.SetLog) error {
	for i := range f.logs {
		if f.logs[i].SessionExerciseID == log.SessionExerciseID && f.logs[i].SetIndex == log.SetIndex {
			log.ID = f.logs[i].ID
			f.logs[i] = *log
			return nil
		}
	}
	log.ID = primitive.NewObjectID()
	f.logs = append(f.logs, *log)
	return nil
}
