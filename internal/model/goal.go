package model

import (
	"time"
)

const (
	GoalTypeRecurring = "recurring"
	GoalTypeOneTime   = "one-time"
)

const (
	FrequencyDaily   = "daily"
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Goal is either recurring (Frequency set) or one-time (DueDate set).
// Recurring goals may also carry a DueDate for the instance they are due on.
type Goal struct {
	ID            string     `db:"id" json:"id"`
	UserID        string     `db:"user_id" json:"userId"`
	Title         string     `db:"title" json:"title"`
	Description   string     `db:"description" json:"description"`
	GoalType      string     `db:"goal_type" json:"goalType"`
	Frequency     string     `db:"frequency" json:"frequency,omitempty"`
	DueDate       *time.Time `db:"due_date" json:"dueDate"`
	IsCompleted   bool       `db:"is_completed" json:"isCompleted"`
	LastCompleted *time.Time `db:"last_completed" json:"lastCompleted"`
	CreatedAt     time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updatedAt"`
}

func (g *Goal) IsRecurring() bool {
	return g.GoalType == GoalTypeRecurring
}

func ValidGoalType(t string) bool {
	return t == GoalTypeRecurring || t == GoalTypeOneTime
}

func ValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// UserGoals groups a user with the goals selected for them.
type UserGoals struct {
	User  *User
	Goals []*Goal
}
