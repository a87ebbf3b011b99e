package model

import (
	"time"
)

const (
	NotifyPassive    = "passive"
	NotifyPersistent = "persistent"
)

type User struct {
	ID                    string    `db:"id" json:"id"`
	Name                  string    `db:"name" json:"name"`
	Email                 string    `db:"email" json:"email"`
	PasswordHash          string    `db:"password_hash" json:"-"`
	Phone                 string    `db:"phone" json:"phone"`
	NotificationFrequency string    `db:"notification_frequency" json:"notificationFrequency"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

// ValidNotificationFrequency reports whether f is a known preference.
func ValidNotificationFrequency(f string) bool {
	return f == NotifyPassive || f == NotifyPersistent
}
