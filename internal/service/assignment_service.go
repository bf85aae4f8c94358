package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

type assignmentStore interface {
	GetByFresher(ctx context.Context, fresherID string) (*models.LearningAssignment, error)
	Create(ctx context.Context, assignment *models.LearningAssignment) error
	UpdateDeadline(ctx context.Context, fresherID string, durationDays int, deadline time.Time) error
}

type progressItemWriter interface {
	InsertItems(ctx context.Context, assignmentID string, items []models.ProgressItem) error
	MaxItemNo(ctx context.Context, assignmentID string) (int, error)
}

type catalogReader interface {
	ListModules(ctx context.Context, catalogKey string) ([]models.CatalogModule, error)
}

type fresherReader interface {
	FindByID(ctx context.Context, id string) (*models.Fresher, error)
}

type assignedNotifier interface {
	SendAssigned(ctx context.Context, fresher *models.Fresher, moduleCount int) error
}

// AssignLearningPlanRequest describes the assignment payload.
type AssignLearningPlanRequest struct {
	FresherID  string `json:"fresher_id" validate:"required"`
	Department string `json:"department"`
}

// AddCustomResourceRequest describes an extra module added to an existing plan.
type AddCustomResourceRequest struct {
	Title           string `json:"title" validate:"required"`
	Link            string `json:"link"`
	DurationMinutes int    `json:"duration_minutes" validate:"gte=0"`
	Notes           string `json:"notes"`
}

// AssignmentService creates learning assignments and extends their deadlines.
type AssignmentService struct {
	assignments assignmentStore
	progress    progressItemWriter
	catalogs    catalogReader
	freshers    fresherReader
	notifier    assignedNotifier
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(
	assignments assignmentStore,
	progress progressItemWriter,
	catalogs catalogReader,
	freshers fresherReader,
	notifier assignedNotifier,
	validate *validator.Validate,
	logger *zap.Logger,
) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		assignments: assignments,
		progress:    progress,
		catalogs:    catalogs,
		freshers:    freshers,
		notifier:    notifier,
		validator:   validate,
		logger:      logger,
	}
}

// Assign creates the fresher's learning plan from the catalog resolved for the
// department. Calling it again for the same fresher is a no-op returning the
// existing assignment.
func (s *AssignmentService) Assign(ctx context.Context, req AssignLearningPlanRequest) (*models.LearningAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	fresher, err := s.freshers.FindByID(ctx, req.FresherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "fresher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fresher")
	}

	existing, err := s.assignments.GetByFresher(ctx, req.FresherID)
	if err == nil {
		s.logger.Info("learning plan already assigned, skipping",
			zap.String("fresher_id", req.FresherID),
			zap.String("catalog_key", existing.CatalogKey))
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing assignment")
	}

	catalogKey := ResolveCatalog(req.Department)
	modules, err := s.catalogs.ListModules(ctx, catalogKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog modules")
	}

	totalMinutes := 0
	for _, module := range modules {
		totalMinutes += module.DurationMinutes
	}
	durationDays := InitialDurationDays(totalMinutes)

	now := time.Now().UTC()
	assignment := &models.LearningAssignment{
		FresherID:    req.FresherID,
		Department:   req.Department,
		CatalogKey:   catalogKey,
		AssignedAt:   now,
		DurationDays: durationDays,
		Deadline:     now.AddDate(0, 0, durationDays),
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}

	items := make([]models.ProgressItem, 0, len(modules))
	for i, module := range modules {
		items = append(items, models.ProgressItem{
			ItemNo:          i + 1,
			Title:           module.Title,
			Link:            module.Link,
			DurationMinutes: module.DurationMinutes,
		})
	}
	if err := s.progress.InsertItems(ctx, assignment.ID, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create progress items")
	}

	// Best effort only: the plan stays assigned even when the welcome
	// notification cannot be delivered.
	if err := s.notifier.SendAssigned(ctx, fresher, len(modules)); err != nil {
		s.logger.Warn("failed to send plan-assigned notification",
			zap.String("fresher_id", req.FresherID), zap.Error(err))
	}

	s.logger.Info("learning plan assigned",
		zap.String("fresher_id", req.FresherID),
		zap.String("catalog_key", catalogKey),
		zap.Int("modules", len(modules)),
		zap.Int("duration_days", durationDays))
	return assignment, nil
}

// AddCustomResource appends an extra module to an existing plan and extends
// the deadline proportionally to the resource workload.
func (s *AssignmentService) AddCustomResource(ctx context.Context, fresherID string, req AddCustomResourceRequest) (*models.ProgressItem, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid resource payload")
	}

	assignment, err := s.assignments.GetByFresher(ctx, fresherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no learning assignment for fresher")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	maxNo, err := s.progress.MaxItemNo(ctx, assignment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute next item number")
	}

	item := models.ProgressItem{
		ItemNo:          maxNo + 1,
		Title:           req.Title,
		Link:            req.Link,
		DurationMinutes: req.DurationMinutes,
		Notes:           req.Notes,
	}
	if err := s.progress.InsertItems(ctx, assignment.ID, []models.ProgressItem{item}); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to insert progress item")
	}

	if req.DurationMinutes > 0 {
		additionalDays := ExtensionDays(req.DurationMinutes)
		newDuration := assignment.DurationDays + additionalDays
		// Extension compounds off the stored deadline, never off the clock.
		newDeadline := ExtendDeadline(assignment.Deadline, req.DurationMinutes)
		if err := s.assignments.UpdateDeadline(ctx, fresherID, newDuration, newDeadline); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to extend deadline")
		}
		s.logger.Info("deadline extended for custom resource",
			zap.String("fresher_id", fresherID),
			zap.Int("additional_days", additionalDays),
			zap.Time("new_deadline", newDeadline))
	}

	return &item, nil
}
