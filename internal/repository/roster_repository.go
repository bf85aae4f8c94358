package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

// RosterRepository reads reviewer/administrator recipients.
type RosterRepository struct {
	db *sqlx.DB
}

// NewRosterRepository constructs the repository.
func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

// ListOptedIn returns active members who enabled the given category.
func (r *RosterRepository) ListOptedIn(ctx context.Context, category models.NotificationCategory) ([]models.RosterMember, error) {
	var flag string
	switch category {
	case models.NotificationMilestone:
		flag = "notify_milestones"
	case models.NotificationExpiry:
		flag = "notify_expiry"
	default:
		return nil, fmt.Errorf("roster has no opt-in for category %s", category)
	}

	query := fmt.Sprintf(`SELECT id, email, full_name, notify_milestones, notify_expiry, active, created_at
		FROM roster_members WHERE active = TRUE AND %s = TRUE ORDER BY email ASC`, flag)
	var members []models.RosterMember
	if err := r.db.SelectContext(ctx, &members, query); err != nil {
		return nil, fmt.Errorf("list opted-in roster members: %w", err)
	}
	return members, nil
}
