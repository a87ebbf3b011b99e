package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/goalpulse/goalpulse/internal/repository"
	"github.com/goalpulse/goalpulse/internal/validation"
	"github.com/google/uuid"
)

var (
	ErrInvalidGoalType  = errors.New("goal type must be recurring or one-time")
	ErrInvalidGoalFreq  = errors.New("recurring goals need a frequency of daily, weekly or monthly")
	ErrDueDateRequired  = errors.New("one-time goals need a due date")
	ErrInvalidDueDate   = errors.New("due date must be YYYY-MM-DD or RFC 3339")
	ErrFrequencyOneTime = errors.New("one-time goals have no frequency")
)

// GoalInput is the payload for creating a goal.
type GoalInput struct {
	Title       string
	Description string
	GoalType    string
	Frequency   string
	DueDate     string
}

// GoalUpdate carries the fields to change; nil fields are left as they are.
type GoalUpdate struct {
	Title       *string
	Description *string
	Frequency   *string
	DueDate     *string
	IsCompleted *bool
}

type GoalService struct {
	repo     repository.GoalRepository
	location *time.Location
	now      func() time.Time
}

func NewGoalService(repo repository.GoalRepository, location *time.Location) *GoalService {
	if location == nil {
		location = time.Local
	}
	return &GoalService{
		repo:     repo,
		location: location,
		now:      time.Now,
	}
}

func (s *GoalService) Create(ctx context.Context, userID string, in GoalInput) (*model.Goal, error) {
	title := strings.TrimSpace(in.Title)
	if err := validation.ValidateTitle(title); err != nil {
		return nil, invalid("title", err)
	}
	if !model.ValidGoalType(in.GoalType) {
		return nil, invalid("goalType", ErrInvalidGoalType)
	}

	dueDate, err := ParseDueDate(in.DueDate, s.location)
	if err != nil {
		return nil, invalid("dueDate", err)
	}

	now := s.now()
	goal := &model.Goal{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		GoalType:    in.GoalType,
		DueDate:     dueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	switch in.GoalType {
	case model.GoalTypeRecurring:
		if !model.ValidFrequency(in.Frequency) {
			return nil, invalid("frequency", ErrInvalidGoalFreq)
		}
		goal.Frequency = in.Frequency
	case model.GoalTypeOneTime:
		if dueDate == nil {
			return nil, invalid("dueDate", ErrDueDateRequired)
		}
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	return goal, nil
}

func (s *GoalService) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(ctx, userID)
	if err != nil {
		return nil, err
	}
	if goals == nil {
		goals = []*model.Goal{}
	}
	return goals, nil
}

func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	return s.repo.ByID(ctx, userID, goalID)
}

// Update applies the non-nil fields of upd. A completion change follows the
// same rule as ToggleComplete: only completing stamps last_completed.
func (s *GoalService) Update(ctx context.Context, userID, goalID string, upd GoalUpdate) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if err := validation.ValidateTitle(title); err != nil {
			return nil, invalid("title", err)
		}
		goal.Title = title
	}

	if upd.Description != nil {
		goal.Description = strings.TrimSpace(*upd.Description)
	}

	if upd.Frequency != nil {
		switch {
		case goal.IsRecurring() && !model.ValidFrequency(*upd.Frequency):
			return nil, invalid("frequency", ErrInvalidGoalFreq)
		case !goal.IsRecurring() && *upd.Frequency != "":
			return nil, invalid("frequency", ErrFrequencyOneTime)
		}
		goal.Frequency = *upd.Frequency
	}

	if upd.DueDate != nil {
		dueDate, err := ParseDueDate(*upd.DueDate, s.location)
		if err != nil {
			return nil, invalid("dueDate", err)
		}
		if dueDate == nil && !goal.IsRecurring() {
			return nil, invalid("dueDate", ErrDueDateRequired)
		}
		goal.DueDate = dueDate
	}

	if upd.IsCompleted != nil && *upd.IsCompleted != goal.IsCompleted {
		goal.IsCompleted = *upd.IsCompleted
		if goal.IsCompleted {
			now := s.now()
			goal.LastCompleted = &now
		}
	}

	err = s.repo.Update(ctx, goal)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}

	return s.repo.ByID(ctx, userID, goalID)
}

func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	return s.repo.Delete(ctx, userID, goalID)
}

// ToggleComplete flips is_completed. Completing stamps last_completed with now;
// reopening leaves it as it was.
func (s *GoalService) ToggleComplete(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	completed := !goal.IsCompleted
	err = s.repo.SetCompletion(ctx, goal.ID, completed, completed, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to toggle goal: %w", err)
	}

	return s.repo.ByID(ctx, userID, goalID)
}

// ParseDueDate accepts an RFC 3339 timestamp or a plain date. A plain date is
// midnight of that day in loc. The empty string means no due date.
func ParseDueDate(value string, loc *time.Location) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	t, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	return &t, nil
}
