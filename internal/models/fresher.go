package models

import "time"

// Fresher represents a newly hired employee onboarded through the portal.
// Records are managed by the fresher administration surface; the learning
// engine only reads them for recipient identity.
type Fresher struct {
	ID         string    `db:"id" json:"id"`
	Email      string    `db:"email" json:"email"`
	FullName   string    `db:"full_name" json:"full_name"`
	Department string    `db:"department" json:"department"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	Active     bool      `db:"active" json:"active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}
