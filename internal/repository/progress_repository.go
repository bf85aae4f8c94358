package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

// ProgressRepository persists per-assignment progress items.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// InsertItems appends items to an assignment preserving the given order.
func (r *ProgressRepository) InsertItems(ctx context.Context, assignmentID string, items []models.ProgressItem) error {
	const query = `INSERT INTO progress_items
		(id, assignment_id, item_no, title, link, duration_minutes, is_completed, completed_at, notes, created_at, updated_at)
		VALUES (:id, :assignment_id, :item_no, :title, :link, :duration_minutes, :is_completed, :completed_at, :notes, :created_at, :updated_at)`
	now := time.Now().UTC()
	for i := range items {
		items[i].AssignmentID = assignmentID
		if items[i].ID == "" {
			items[i].ID = uuid.NewString()
		}
		if items[i].CreatedAt.IsZero() {
			items[i].CreatedAt = now
		}
		items[i].UpdatedAt = now
		if _, err := r.db.NamedExecContext(ctx, query, items[i]); err != nil {
			return fmt.Errorf("insert progress item %d: %w", items[i].ItemNo, err)
		}
	}
	return nil
}

// ListByAssignment returns items in assignment order.
func (r *ProgressRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressItem, error) {
	const query = `SELECT id, assignment_id, item_no, title, link, duration_minutes, is_completed, completed_at, notes, created_at, updated_at
		FROM progress_items WHERE assignment_id = $1 ORDER BY item_no ASC`
	var items []models.ProgressItem
	if err := r.db.SelectContext(ctx, &items, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list progress items: %w", err)
	}
	return items, nil
}

// MaxItemNo returns the highest item number for the assignment, 0 when none.
func (r *ProgressRepository) MaxItemNo(ctx context.Context, assignmentID string) (int, error) {
	const query = `SELECT COALESCE(MAX(item_no), 0) FROM progress_items WHERE assignment_id = $1`
	var max int
	if err := r.db.GetContext(ctx, &max, query, assignmentID); err != nil {
		return 0, fmt.Errorf("max item no: %w", err)
	}
	return max, nil
}

// UpdateProgressItemParams carries the partial update for one item. Fields are
// written only when non-nil; CompletedAt in particular is set by the service
// only on a transition to completed, so an un-complete never clears it.
type UpdateProgressItemParams struct {
	IsCompleted *bool
	CompletedAt *time.Time
	Notes       *string
}

// UpdateItem applies a partial update to one item of an assignment.
func (r *ProgressRepository) UpdateItem(ctx context.Context, assignmentID string, itemNo int, params UpdateProgressItemParams) error {
	sets := []string{}
	args := []interface{}{}

	if params.IsCompleted != nil {
		sets = append(sets, fmt.Sprintf("is_completed = $%d", len(args)+1))
		args = append(args, *params.IsCompleted)
	}
	if params.CompletedAt != nil {
		sets = append(sets, fmt.Sprintf("completed_at = $%d", len(args)+1))
		args = append(args, *params.CompletedAt)
	}
	if params.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)+1))
		args = append(args, *params.Notes)
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)+1))
	args = append(args, time.Now().UTC())

	query := fmt.Sprintf("UPDATE progress_items SET %s WHERE assignment_id = $%d AND item_no = $%d",
		strings.Join(sets, ", "), len(args)+1, len(args)+2)
	args = append(args, assignmentID, itemNo)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update progress item: %w", err)
	}
	return requireRowsAffected(result)
}

// CountStats returns completed and total item counts for an assignment.
func (r *ProgressRepository) CountStats(ctx context.Context, assignmentID string) (completed, total int, err error) {
	const query = `SELECT COUNT(*) FILTER (WHERE is_completed) AS completed, COUNT(*) AS total
		FROM progress_items WHERE assignment_id = $1`
	row := struct {
		Completed int `db:"completed"`
		Total     int `db:"total"`
	}{}
	if err := r.db.GetContext(ctx, &row, query, assignmentID); err != nil {
		return 0, 0, fmt.Errorf("count progress stats: %w", err)
	}
	return row.Completed, row.Total, nil
}
