package models

import "time"

// NotificationCategory labels the kind of message dispatched by the engine.
type NotificationCategory string

const (
	NotificationAssigned  NotificationCategory = "PLAN_ASSIGNED"
	NotificationReminder  NotificationCategory = "REMINDER"
	NotificationMilestone NotificationCategory = "MILESTONE_REPORT"
	NotificationExpiry    NotificationCategory = "EXPIRY_REPORT"
)

// Recipient identifies one notification target.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NotificationRecord is the outbox row written before a message is published
// to the delivery channel. Rendering and final transport happen downstream.
type NotificationRecord struct {
	ID        string               `db:"id" json:"id"`
	Recipient string               `db:"recipient" json:"recipient"`
	Category  NotificationCategory `db:"category" json:"category"`
	Subject   string               `db:"subject" json:"subject"`
	Body      string               `db:"body" json:"body"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}
