package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

const assignmentColumns = `id, fresher_id, department, catalog_key, assigned_at, duration_days, deadline,
	last_reminder_sent, deadline_notified_at, created_at, updated_at`

// AssignmentRepository persists learning assignments and serves the candidate
// queries for the three batch jobs.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// GetByFresher returns the assignment owned by the fresher.
func (r *AssignmentRepository) GetByFresher(ctx context.Context, fresherID string) (*models.LearningAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM learning_assignments WHERE fresher_id = $1`, assignmentColumns)
	var assignment models.LearningAssignment
	if err := r.db.GetContext(ctx, &assignment, query, fresherID); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.LearningAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	const query = `INSERT INTO learning_assignments
		(id, fresher_id, department, catalog_key, assigned_at, duration_days, deadline, last_reminder_sent, deadline_notified_at, created_at, updated_at)
		VALUES (:id, :fresher_id, :department, :catalog_key, :assigned_at, :duration_days, :deadline, :last_reminder_sent, :deadline_notified_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create learning assignment: %w", err)
	}
	return nil
}

// UpdateDeadline persists an extended duration and deadline. The deadline is
// computed by the caller from the previously stored value; this method never
// recalculates it.
func (r *AssignmentRepository) UpdateDeadline(ctx context.Context, fresherID string, durationDays int, deadline time.Time) error {
	const query = `UPDATE learning_assignments SET duration_days = $1, deadline = $2, updated_at = $3 WHERE fresher_id = $4`
	result, err := r.db.ExecContext(ctx, query, durationDays, deadline, time.Now().UTC(), fresherID)
	if err != nil {
		return fmt.Errorf("update assignment deadline: %w", err)
	}
	return requireRowsAffected(result)
}

// MarkReminderSent stamps the reminder idempotency guard.
func (r *AssignmentRepository) MarkReminderSent(ctx context.Context, fresherID string, ts time.Time) error {
	const query = `UPDATE learning_assignments SET last_reminder_sent = $1, updated_at = $2 WHERE fresher_id = $3`
	result, err := r.db.ExecContext(ctx, query, ts, time.Now().UTC(), fresherID)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return requireRowsAffected(result)
}

// MarkExpiryNotified stamps the one-shot expiry guard.
func (r *AssignmentRepository) MarkExpiryNotified(ctx context.Context, fresherID string, ts time.Time) error {
	const query = `UPDATE learning_assignments SET deadline_notified_at = $1, updated_at = $2 WHERE fresher_id = $3`
	result, err := r.db.ExecContext(ctx, query, ts, time.Now().UTC(), fresherID)
	if err != nil {
		return fmt.Errorf("mark expiry notified: %w", err)
	}
	return requireRowsAffected(result)
}

// ListReminderCandidates returns assignments eligible for a reminder: deadline
// still ahead, reminder window elapsed (or never reminded), and at least one
// incomplete item.
func (r *AssignmentRepository) ListReminderCandidates(ctx context.Context, now time.Time, resendAfter time.Duration) ([]models.LearningAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM learning_assignments a
		WHERE a.deadline > $1
		  AND (a.last_reminder_sent IS NULL OR a.last_reminder_sent <= $2)
		  AND EXISTS (SELECT 1 FROM progress_items p WHERE p.assignment_id = a.id AND p.is_completed = FALSE)
		ORDER BY a.deadline ASC`, prefixColumns("a", assignmentColumns))
	var assignments []models.LearningAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, now, now.Add(-resendAfter)); err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return assignments, nil
}

// ListMilestoneCandidates returns assignments whose whole-day age is exactly
// one of the given milestone days. Strict equality: a missed daily run skips
// that milestone permanently.
func (r *AssignmentRepository) ListMilestoneCandidates(ctx context.Context, now time.Time, days []int) ([]models.LearningAssignment, error) {
	raw := fmt.Sprintf(`SELECT %s FROM learning_assignments a
		WHERE floor(extract(epoch FROM (?::timestamptz - a.assigned_at)) / 86400) IN (?)
		ORDER BY a.assigned_at ASC`, prefixColumns("a", assignmentColumns))
	query, args, err := sqlx.In(raw, now, days)
	if err != nil {
		return nil, fmt.Errorf("build milestone candidate query: %w", err)
	}
	query = r.db.Rebind(query)
	var assignments []models.LearningAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list milestone candidates: %w", err)
	}
	return assignments, nil
}

// ListExpiryCandidates returns assignments past their deadline that have not
// yet received the one-shot expiry notice.
func (r *AssignmentRepository) ListExpiryCandidates(ctx context.Context, now time.Time) ([]models.LearningAssignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM learning_assignments a
		WHERE a.deadline < $1 AND a.deadline_notified_at IS NULL
		ORDER BY a.deadline ASC`, prefixColumns("a", assignmentColumns))
	var assignments []models.LearningAssignment
	if err := r.db.SelectContext(ctx, &assignments, query, now); err != nil {
		return nil, fmt.Errorf("list expiry candidates: %w", err)
	}
	return assignments, nil
}

func requireRowsAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
