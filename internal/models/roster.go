package models

import "time"

// RosterMember is a reviewer/administrator recipient for milestone and expiry
// reports. Opt-in is per notification category.
type RosterMember struct {
	ID               string    `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	FullName         string    `db:"full_name" json:"full_name"`
	NotifyMilestones bool      `db:"notify_milestones" json:"notify_milestones"`
	NotifyExpiry     bool      `db:"notify_expiry" json:"notify_expiry"`
	Active           bool      `db:"active" json:"active"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
