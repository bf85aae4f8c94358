package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	"github.com/noah-isme/hr-onboard-api/internal/repository"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

type progressItemStore interface {
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressItem, error)
	UpdateItem(ctx context.Context, assignmentID string, itemNo int, params repository.UpdateProgressItemParams) error
}

type assignmentReader interface {
	GetByFresher(ctx context.Context, fresherID string) (*models.LearningAssignment, error)
}

// UpdateProgressRequest is a partial update for one progress item.
type UpdateProgressRequest struct {
	IsCompleted *bool   `json:"is_completed"`
	Notes       *string `json:"notes"`
}

// ProgressService records module completion and aggregates progress stats.
type ProgressService struct {
	assignments assignmentReader
	progress    progressItemStore
	freshers    fresherReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewProgressService constructs the service.
func NewProgressService(assignments assignmentReader, progress progressItemStore, freshers fresherReader, validate *validator.Validate, logger *zap.Logger) *ProgressService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{assignments: assignments, progress: progress, freshers: freshers, validator: validate, logger: logger}
}

// UpdateProgress applies a partial update to one item of the fresher's plan.
// Marking an item completed stamps its completion time; un-completing leaves
// the previous completion time in place.
func (s *ProgressService) UpdateProgress(ctx context.Context, fresherID string, itemNo int, req UpdateProgressRequest) (*models.ProgressItem, error) {
	if req.IsCompleted == nil && req.Notes == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no fields to update")
	}

	assignment, err := s.assignments.GetByFresher(ctx, fresherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no learning assignment for fresher")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	params := repository.UpdateProgressItemParams{
		IsCompleted: req.IsCompleted,
		Notes:       req.Notes,
	}
	if req.IsCompleted != nil && *req.IsCompleted {
		now := time.Now().UTC()
		params.CompletedAt = &now
	}

	if err := s.progress.UpdateItem(ctx, assignment.ID, itemNo, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "progress item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress item")
	}

	items, err := s.progress.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload progress items")
	}
	for i := range items {
		if items[i].ItemNo == itemNo {
			return &items[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "progress item not found")
}

// GetProgress returns the fresher's plan with items, aggregate stats and the
// signed number of whole days remaining until the deadline.
func (s *ProgressService) GetProgress(ctx context.Context, fresherID string) (*models.ProgressReport, error) {
	fresher, err := s.freshers.FindByID(ctx, fresherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fresher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fresher")
	}

	assignment, err := s.assignments.GetByFresher(ctx, fresherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no learning assignment for fresher")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	items, err := s.progress.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load progress items")
	}

	return &models.ProgressReport{
		Fresher:       fresher,
		Assignment:    assignment,
		Items:         items,
		Stats:         computeStats(items),
		DaysRemaining: wholeDaysBetween(time.Now().UTC(), assignment.Deadline),
	}, nil
}

// computeStats aggregates completion counts. An empty plan reports 0 percent.
func computeStats(items []models.ProgressItem) models.ProgressStats {
	stats := models.ProgressStats{TotalCount: len(items)}
	for _, item := range items {
		if item.IsCompleted {
			stats.CompletedCount++
		}
	}
	if stats.TotalCount > 0 {
		stats.ProgressPercentage = int(math.Round(float64(stats.CompletedCount) / float64(stats.TotalCount) * 100))
	}
	return stats
}
