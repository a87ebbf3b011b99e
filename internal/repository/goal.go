package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrGoalNotFound = errors.New("goal not found")
)

const goalColumns = `g.id, g.user_id, g.title, g.description, g.goal_type, g.frequency, g.due_date,
	g.is_completed, g.last_completed, g.created_at, g.updated_at`

type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	Update(ctx context.Context, goal *model.Goal) error
	Delete(ctx context.Context, userID, goalID string) error

	// UsersWithIncompleteGoalsDue groups incomplete goals whose due date lies in
	// [start, end] by owner. With includeUndatedRecurring, incomplete recurring
	// goals without a due date are selected as well.
	UsersWithIncompleteGoalsDue(ctx context.Context, start, end time.Time, includeUndatedRecurring bool) ([]model.UserGoals, error)
	CompletedRecurringGoals(ctx context.Context) ([]*model.Goal, error)
	// SetCompletion stamps last_completed with now only when completing and stamp is set.
	SetCompletion(ctx context.Context, goalID string, completed, stamp bool, now time.Time) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, goal_type, frequency, due_date, is_completed, last_completed, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.GoalType,
		goal.Frequency,
		utc(goal.DueDate),
		goal.IsCompleted,
		utc(goal.LastCompleted),
		goal.CreatedAt.UTC(),
		goal.UpdatedAt.UTC(),
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT ` + goalColumns + ` FROM goals g WHERE g.id = $1 AND g.user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT ` + goalColumns + ` FROM goals g WHERE g.user_id = $1 ORDER BY g.created_at DESC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) Update(ctx context.Context, goal *model.Goal) error {
	query := `UPDATE goals
	          SET title = $1, description = $2, frequency = $3, due_date = $4, is_completed = $5, last_completed = $6, updated_at = $7
	          WHERE id = $8 AND user_id = $9`

	result, err := r.db.ExecContext(ctx, query,
		goal.Title,
		goal.Description,
		goal.Frequency,
		utc(goal.DueDate),
		goal.IsCompleted,
		utc(goal.LastCompleted),
		time.Now().UTC(),
		goal.ID,
		goal.UserID,
	)
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrGoalNotFound)
}

// Delete removes the goal and its notification log in one transaction.
func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM notifications WHERE goal_id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete notifications: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return err
	}

	err = expectOneRow(result, ErrGoalNotFound)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// dueGoalRow is a goal joined with its owner.
type dueGoalRow struct {
	model.Goal
	OwnerName      string    `db:"owner_name"`
	OwnerEmail     string    `db:"owner_email"`
	OwnerPhone     string    `db:"owner_phone"`
	OwnerFrequency string    `db:"owner_notification_frequency"`
	OwnerCreatedAt time.Time `db:"owner_created_at"`
	OwnerUpdatedAt time.Time `db:"owner_updated_at"`
}

func (r *goalRepository) UsersWithIncompleteGoalsDue(ctx context.Context, start, end time.Time, includeUndatedRecurring bool) ([]model.UserGoals, error) {
	due := `(g.due_date >= $2 AND g.due_date <= $3)`
	if includeUndatedRecurring {
		due = `(` + due + ` OR (g.due_date IS NULL AND g.goal_type = $4))`
	}

	query := `SELECT ` + goalColumns + `,
	                 u.name AS owner_name, u.email AS owner_email, u.phone AS owner_phone,
	                 u.notification_frequency AS owner_notification_frequency,
	                 u.created_at AS owner_created_at, u.updated_at AS owner_updated_at
	          FROM goals g
	          JOIN users u ON u.id = g.user_id
	          WHERE g.is_completed = $1 AND ` + due + `
	          ORDER BY u.created_at, u.id, g.created_at`

	args := []any{false, start.UTC(), end.UTC()}
	if includeUndatedRecurring {
		args = append(args, model.GoalTypeRecurring)
	}

	var rows []dueGoalRow
	err := r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select due goals: %w", err)
	}

	var groups []model.UserGoals
	index := make(map[string]int)
	for i := range rows {
		row := &rows[i]
		pos, ok := index[row.UserID]
		if !ok {
			pos = len(groups)
			index[row.UserID] = pos
			groups = append(groups, model.UserGoals{
				User: &model.User{
					ID:                    row.UserID,
					Name:                  row.OwnerName,
					Email:                 row.OwnerEmail,
					Phone:                 row.OwnerPhone,
					NotificationFrequency: row.OwnerFrequency,
					CreatedAt:             row.OwnerCreatedAt,
					UpdatedAt:             row.OwnerUpdatedAt,
				},
			})
		}
		goal := row.Goal
		groups[pos].Goals = append(groups[pos].Goals, &goal)
	}

	return groups, nil
}

func (r *goalRepository) CompletedRecurringGoals(ctx context.Context) ([]*model.Goal, error) {
	var goals []*model.Goal
	query := `SELECT ` + goalColumns + ` FROM goals g
	          WHERE g.goal_type = $1 AND g.is_completed = $2 AND g.last_completed IS NOT NULL
	          ORDER BY g.created_at`

	err := r.db.SelectContext(ctx, &goals, query, model.GoalTypeRecurring, true)
	if err != nil {
		return nil, fmt.Errorf("failed to select completed recurring goals: %w", err)
	}

	return goals, nil
}

func (r *goalRepository) SetCompletion(ctx context.Context, goalID string, completed, stamp bool, now time.Time) error {
	var (
		result sql.Result
		err    error
	)
	if completed && stamp {
		query := `UPDATE goals SET is_completed = $1, last_completed = $2, updated_at = $3 WHERE id = $4`
		result, err = r.db.ExecContext(ctx, query, completed, now.UTC(), now.UTC(), goalID)
	} else {
		query := `UPDATE goals SET is_completed = $1, updated_at = $2 WHERE id = $3`
		result, err = r.db.ExecContext(ctx, query, completed, now.UTC(), goalID)
	}
	if err != nil {
		return err
	}

	return expectOneRow(result, ErrGoalNotFound)
}

func expectOneRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

// utc normalizes stored timestamps so range comparisons stay consistent across drivers.
func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
