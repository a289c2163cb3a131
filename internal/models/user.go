package models

import "time"

// User represents a learner account
type User struct {
	ID               int64
	Email            string
	PasswordHash     string
	Name             string
	RemindersEnabled bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
