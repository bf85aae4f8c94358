package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

// FresherRepository reads fresher records. Fresher CRUD is owned by the
// portal's administration surface.
type FresherRepository struct {
	db *sqlx.DB
}

// NewFresherRepository constructs the repository.
func NewFresherRepository(db *sqlx.DB) *FresherRepository {
	return &FresherRepository{db: db}
}

// FindByID returns one fresher by ID.
func (r *FresherRepository) FindByID(ctx context.Context, id string) (*models.Fresher, error) {
	const query = `SELECT id, email, full_name, department, start_date, active, created_at, updated_at
		FROM freshers WHERE id = $1`
	var fresher models.Fresher
	if err := r.db.GetContext(ctx, &fresher, query, id); err != nil {
		return nil, err
	}
	return &fresher, nil
}
