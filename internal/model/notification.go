package model

import (
	"time"
)

const (
	NotificationBriefing = "briefing"
	NotificationReminder = "reminder"
	NotificationTest     = "test"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
)

// Notification records one delivery attempt for one goal.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	GoalID    *string   `db:"goal_id" json:"goalId"`
	Kind      string    `db:"kind" json:"kind"`
	Status    string    `db:"status" json:"status"`
	Error     string    `db:"error" json:"error,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
