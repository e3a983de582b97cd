package service

import (
	"alcyxob/workout-engine/internal/domain"
	"alcyxob/workout-engine/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrAthleteNotFound    = errors.New("athlete not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrInvalidSchedule    = errors.New("invalid schedule rule")
)

// --- Service Interface ---

// CoachService is the admin workflow that produces the Assignment records the
// scheduling engine consumes, plus template management and roster linking.
type CoachService interface {
	AddAthleteByEmail(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.User, error)

	CreateTemplate(ctx context.Context, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error)
	GetTemplates(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error)

	CreateAssignment(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error)
	DeleteAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) error
}

// --- Service Implementation ---

// coachService implements the CoachService interface.
type coachService struct {
	userRepo       repository.UserRepository
	templateRepo   repository.TemplateRepository
	assignmentRepo repository.AssignmentRepository
}

// NewCoachService creates a new instance of coachService.
func NewCoachService(
	userRepo repository.UserRepository,
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
) CoachService {
	return &coachService{
		userRepo:       userRepo,
		templateRepo:   templateRepo,
		assignmentRepo: assignmentRepo,
	}
}

// AddAthleteByEmail links an existing athlete account to the coach's roster.
func (s *coachService) AddAthleteByEmail(ctx context.Context, coachID primitive.ObjectID, email string) (*domain.User, error) {
	if coachID == primitive.NilObjectID || email == "" {
		return nil, errors.New("coach ID and athlete email are required")
	}

	athlete, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAthleteNotFound
		}
		return nil, err
	}
	if !athlete.IsAthlete() {
		return nil, ErrAthleteNotFound
	}

	if err := s.userRepo.SetCoachForAthlete(ctx, athlete.ID, coachID); err != nil {
		return nil, fmt.Errorf("link athlete: %w", err)
	}
	athlete.CoachID = &coachID
	athlete.PasswordHash = ""
	return athlete, nil
}

// CreateTemplate stores a new workout template for the coach.
func (s *coachService) CreateTemplate(ctx context.Context, template *domain.WorkoutTemplate) (*domain.WorkoutTemplate, error) {
	if template.Name == "" {
		return nil, errors.New("template name is required")
	}
	for i, te := range template.Exercises {
		if te.Name == "" {
			return nil, fmt.Errorf("exercise %d: name is required", i)
		}
		if te.TargetSets <= 0 && len(te.SetTargets) == 0 {
			return nil, fmt.Errorf("exercise %d: target sets or per-set targets required", i)
		}
	}

	templateID, err := s.templateRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	return s.templateRepo.GetByID(ctx, templateID)
}

// GetTemplates returns all templates owned by the coach.
func (s *coachService) GetTemplates(ctx context.Context, coachID primitive.ObjectID) ([]domain.WorkoutTemplate, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	return s.templateRepo.GetByCoachID(ctx, coachID)
}

// CreateAssignment stores a new schedule assignment after checking the rule
// is shaped right for its type. The resolver itself stays defensive about
// rules that slip through (empty recurrence days, inverted bounds).
func (s *coachService) CreateAssignment(ctx context.Context, assignment *domain.Assignment) (*domain.Assignment, error) {
	switch assignment.ScheduleType {
	case domain.ScheduleOnce:
		if assignment.ScheduledDate == nil {
			return nil, fmt.Errorf("%w: once schedule requires a scheduled date", ErrInvalidSchedule)
		}
	case domain.ScheduleWeekly:
		for _, wd := range assignment.RecurrenceDays {
			if wd < 0 || wd > 6 {
				return nil, fmt.Errorf("%w: weekday %d out of range 0..6", ErrInvalidSchedule, wd)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown schedule type %q", ErrInvalidSchedule, assignment.ScheduleType)
	}

	// Verify the plan exists before binding it.
	if _, err := s.templateRepo.GetByID(ctx, assignment.PlanID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	assignmentID, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		return nil, err
	}
	return s.assignmentRepo.GetByID(ctx, assignmentID)
}

// DeleteAssignment removes an assignment owned by the coach.
func (s *coachService) DeleteAssignment(ctx context.Context, coachID, assignmentID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || assignmentID == primitive.NilObjectID {
		return errors.New("coach ID and assignment ID are required")
	}
	err := s.assignmentRepo.Delete(ctx, assignmentID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAssignmentNotFound
		}
		return err
	}
	return nil
}
