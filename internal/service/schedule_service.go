package service

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/repository"
	"alcyxob/workout-engine/internal/schedule"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUserNotFound = errors.New("user not found")
)

// DefaultPastWindowDays is the default lookback for the past listing.
const DefaultPastWindowDays = 14

// --- Service Interface ---

// ScheduleService resolves schedule assignments into concrete occurrences and
// answers per-date completion queries. All methods take the acting user
// explicitly; there is no ambient current-user lookup.
type ScheduleService interface {
	Today(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Occurrence, error)
	ThisWeek(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Occurrence, error)
	Upcoming(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Occurrence, error)
	Past(ctx context.Context, userID primitive.ObjectID, now time.Time, windowDays int) ([]domain.Occurrence, error)

	// IsCompletedOnDate reports whether the user finished a session of the
	// plan on the given local calendar date.
	IsCompletedOnDate(ctx context.Context, userID, planID primitive.ObjectID, date domain.Date) (bool, error)
}

// --- Service Implementation ---

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	assignmentRepo repository.AssignmentRepository
	sessionRepo    repository.SessionRepository
	userRepo       repository.UserRepository
	loc            *time.Location
}

// NewScheduleService creates a new instance of scheduleService. loc is the
// calendar the engine resolves day boundaries in; nil means time.Local.
func NewScheduleService(
	assignmentRepo repository.AssignmentRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
) ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &scheduleService{
		assignmentRepo: assignmentRepo,
		sessionRepo:    sessionRepo,
		userRepo:       userRepo,
		loc:            loc,
	}
}

// Today expands each assignment over today only, dedupes by (plan, date)
// keeping the first occurrence, and drops plans already completed today.
func (s *scheduleService) Today(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Occurrence, error) {
	assignments, err := s.assignmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	today := domain.DateOf(now, s.loc)
	occurrences := dedupe(expandAll(assignments, today, today))

	result := make([]domain.Occurrence, 0, len(occurrences))
	for _, occ := range occurrences {
		done, err := s.IsCompletedOnDate(ctx, userID, occ.PlanID, occ.DisplayDate)
		if err != nil {
			return nil, err
		}
		if done {
			continue
		}
		result = append(result, occ)
	}
	return result, nil
}

// ThisWeek expands over the Sunday..Saturday window containing now. The
// athlete's own assignments are merged with the published self-schedule of
// their coach, both expanded under the same rule, sorted ascending by date.
func (s *scheduleService) ThisWeek(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Occurrence, error) {
	assignments, err := s.assignmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	today := domain.DateOf(now, s.loc)
	weekStart := today.AddDays(-today.Weekday()) // back to Sunday
	weekEnd := weekStart.AddDays(6)

	occurrences := expandAll(assignments, weekStart, weekEnd)

	// Second occurrence source: the coach's published self-schedule.
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.CoachID != nil && *user.CoachID != primitive.NilObjectID {
		published, err := s.assignmentRepo.GetPublishedByCoachID(ctx, *user.CoachID)
		if err != nil {
			return nil, fmt.Errorf("load published schedule: %w", err)
		}
		occurrences = append(occurrences, expandAll(published, weekStart, weekEnd)...)
	}

	occurrences = dedupe(occurrences)
	sortOccurrences(occurrences)
	return occurrences, nil
}

// Upcoming expands over [tomorrow, now+7]; today is excluded.
func (s *scheduleService) Upcoming(ctx context.Context, userID primitive.ObjectID, now time.Time) ([]domain.Occurrence, error) {
	assignments, err := s.assignmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	today := domain.DateOf(now, s.loc)
	occurrences := dedupe(expandAll(assignments, today.AddDays(1), today.AddDays(7)))
	sortOccurrences(occurrences)
	return occurrences, nil
}

// Past expands over [now-windowDays, now-1] and annotates every occurrence
// with its completion status.
func (s *scheduleService) Past(ctx context.Context, userID primitive.ObjectID, now time.Time, windowDays int) ([]domain.Occurrence, error) {
	if windowDays <= 0 {
		windowDays = DefaultPastWindowDays
	}
	assignments, err := s.assignmentRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	today := domain.DateOf(now, s.loc)
	occurrences := dedupe(expandAll(assignments, today.AddDays(-windowDays), today.AddDays(-1)))
	sortOccurrences(occurrences)

	for i := range occurrences {
		done, err := s.IsCompletedOnDate(ctx, userID, occurrences[i].PlanID, occurrences[i].DisplayDate)
		if err != nil {
			return nil, err
		}
		completed := done
		occurrences[i].Completed = &completed
	}
	return occurrences, nil
}

// IsCompletedOnDate checks for a completed session of the plan whose start
// falls within the local calendar-day bounds of date.
func (s *scheduleService) IsCompletedOnDate(ctx context.Context, userID, planID primitive.ObjectID, date domain.Date) (bool, error) {
	from, to := date.DayBounds(s.loc)
	count, err := s.sessionRepo.CountCompletedInWindow(ctx, userID, planID, from, to)
	if err != nil {
		return false, fmt.Errorf("count completed sessions: %w", err)
	}
	return count > 0, nil
}

// --- occurrence helpers ---

func expandAll(assignments []domain.Assignment, rangeStart, rangeEnd domain.Date) []domain.Occurrence {
	var occurrences []domain.Occurrence
	for _, a := range assignments {
		for _, d := range schedule.Expand(a, rangeStart, rangeEnd) {
			occurrences = append(occurrences, domain.Occurrence{
				PlanID:       a.PlanID,
				DisplayDate:  d,
				AssignmentID: a.ID,
			})
		}
	}
	return occurrences
}

// dedupe keeps the first occurrence for each (plan, date) pair, preserving
// input order.
func dedupe(occurrences []domain.Occurrence) []domain.Occurrence {
	type key struct {
		plan primitive.ObjectID
		date domain.Date
	}
	seen := make(map[key]bool, len(occurrences))
	result := occurrences[:0]
	for _, occ := range occurrences {
		k := key{plan: occ.PlanID, date: occ.DisplayDate}
		if seen[k] {
			continue
		}
		seen[k] = true
		result = append(result, occ)
	}
	return result
}

// sortOccurrences orders ascending by date, tie-breaking on plan ID so that
// identical inputs always produce identical output order.
func sortOccurrences(occurrences []domain.Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		if !occurrences[i].DisplayDate.Equal(occurrences[j].DisplayDate) {
			return occurrences[i].DisplayDate.Before(occurrences[j].DisplayDate)
		}
		return occurrences[i].PlanID.Hex() < occurrences[j].PlanID.Hex()
	})
}
