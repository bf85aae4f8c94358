package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	"github.com/noah-isme/hr-onboard-api/internal/repository"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

type assignmentRepoStub struct {
	assignment *models.LearningAssignment
	getErr     error
	createErr  error
	updateErr  error

	created         *models.LearningAssignment
	updatedDuration int
	updatedDeadline *time.Time

	candidates []models.LearningAssignment
	listErr    error

	reminderMarked []string
	reminderErr    error
	expiryMarked   []string
	expiryErr      error
}

func (s *assignmentRepoStub) GetByFresher(ctx context.Context, fresherID string) (*models.LearningAssignment, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	if s.assignment == nil {
		return nil, sql.ErrNoRows
	}
	return s.assignment, nil
}

func (s *assignmentRepoStub) Create(ctx context.Context, assignment *models.LearningAssignment) error {
	if s.createErr != nil {
		return s.createErr
	}
	if assignment.ID == "" {
		assignment.ID = "assignment-1"
	}
	s.created = assignment
	return nil
}

func (s *assignmentRepoStub) UpdateDeadline(ctx context.Context, fresherID string, durationDays int, deadline time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedDuration = durationDays
	s.updatedDeadline = &deadline
	return nil
}

func (s *assignmentRepoStub) ListReminderCandidates(ctx context.Context, now time.Time, resendAfter time.Duration) ([]models.LearningAssignment, error) {
	return s.candidates, s.listErr
}

func (s *assignmentRepoStub) ListMilestoneCandidates(ctx context.Context, now time.Time, days []int) ([]models.LearningAssignment, error) {
	return s.candidates, s.listErr
}

func (s *assignmentRepoStub) ListExpiryCandidates(ctx context.Context, now time.Time) ([]models.LearningAssignment, error) {
	return s.candidates, s.listErr
}

func (s *assignmentRepoStub) MarkReminderSent(ctx context.Context, fresherID string, ts time.Time) error {
	if s.reminderErr != nil {
		return s.reminderErr
	}
	s.reminderMarked = append(s.reminderMarked, fresherID)
	return nil
}

func (s *assignmentRepoStub) MarkExpiryNotified(ctx context.Context, fresherID string, ts time.Time) error {
	if s.expiryErr != nil {
		return s.expiryErr
	}
	s.expiryMarked = append(s.expiryMarked, fresherID)
	return nil
}

type progressRepoStub struct {
	items     []models.ProgressItem
	inserted  []models.ProgressItem
	maxItemNo int

	insertErr error
	listErr   error
	updateErr error
	maxErr    error
}

func (s *progressRepoStub) InsertItems(ctx context.Context, assignmentID string, items []models.ProgressItem) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, items...)
	return nil
}

func (s *progressRepoStub) MaxItemNo(ctx context.Context, assignmentID string) (int, error) {
	if s.maxErr != nil {
		return 0, s.maxErr
	}
	return s.maxItemNo, nil
}

func (s *progressRepoStub) ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressItem, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.items, nil
}

func (s *progressRepoStub) UpdateItem(ctx context.Context, assignmentID string, itemNo int, params repository.UpdateProgressItemParams) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for i := range s.items {
		if s.items[i].ItemNo != itemNo {
			continue
		}
		if params.IsCompleted != nil {
			s.items[i].IsCompleted = *params.IsCompleted
		}
		if params.CompletedAt != nil {
			s.items[i].CompletedAt = params.CompletedAt
		}
		if params.Notes != nil {
			s.items[i].Notes = *params.Notes
		}
		return nil
	}
	return sql.ErrNoRows
}

type catalogRepoStub struct {
	modules []models.CatalogModule
	err     error
}

func (s *catalogRepoStub) ListModules(ctx context.Context, catalogKey string) ([]models.CatalogModule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.modules, nil
}

type fresherRepoStub struct {
	freshers map[string]*models.Fresher
	err      error
}

func (s *fresherRepoStub) FindByID(ctx context.Context, id string) (*models.Fresher, error) {
	if s.err != nil {
		return nil, s.err
	}
	if fresher, ok := s.freshers[id]; ok {
		return fresher, nil
	}
	return nil, sql.ErrNoRows
}

type notifierStub struct {
	assigned    int
	assignedErr error

	reminderTiers   []models.ReminderTier
	reminderFailFor map[string]bool

	milestoneRecipients []models.Recipient
	milestoneDays       []int
	milestoneFailFor    map[string]bool

	expiryRecipients []models.Recipient
	expiryFailFor    map[string]bool
}

func (s *notifierStub) SendAssigned(ctx context.Context, fresher *models.Fresher, moduleCount int) error {
	if s.assignedErr != nil {
		return s.assignedErr
	}
	s.assigned++
	return nil
}

func (s *notifierStub) SendReminder(ctx context.Context, fresher *models.Fresher, stats models.ProgressStats, tier models.ReminderTier) error {
	if s.reminderFailFor[fresher.ID] {
		return errors.New("smtp unavailable")
	}
	s.reminderTiers = append(s.reminderTiers, tier)
	return nil
}

func (s *notifierStub) SendMilestoneReport(ctx context.Context, recipient models.Recipient, report *models.ProgressReport, breakdown models.MilestoneBreakdown, milestoneDay int) error {
	if s.milestoneFailFor[recipient.Email] {
		return errors.New("smtp unavailable")
	}
	s.milestoneRecipients = append(s.milestoneRecipients, recipient)
	s.milestoneDays = append(s.milestoneDays, milestoneDay)
	return nil
}

func (s *notifierStub) SendExpiryReport(ctx context.Context, recipient models.Recipient, report *models.ProgressReport) error {
	if s.expiryFailFor[recipient.Email] {
		return errors.New("smtp unavailable")
	}
	s.expiryRecipients = append(s.expiryRecipients, recipient)
	return nil
}

func testFresher() *models.Fresher {
	return &models.Fresher{
		ID:         "fresher-1",
		Email:      "ana@example.com",
		FullName:   "Ana Silva",
		Department: "Data Engineering",
	}
}

func TestAssignCreatesPlanFromCatalog(t *testing.T) {
	assignments := &assignmentRepoStub{}
	progress := &progressRepoStub{}
	catalogs := &catalogRepoStub{modules: []models.CatalogModule{
		{Title: "SQL Basics", DurationMinutes: 300},
		{Title: "Pipelines", DurationMinutes: 180},
	}}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	notifier := &notifierStub{}

	svc := NewAssignmentService(assignments, progress, catalogs, freshers, notifier, validator.New(), nil)
	assignment, err := svc.Assign(context.Background(), AssignLearningPlanRequest{FresherID: "fresher-1", Department: "Data Engineering"})
	require.NoError(t, err)

	assert.Equal(t, models.CatalogDataAnalytics, assignment.CatalogKey)
	// 480 total minutes round up to one day plus the two buffer days.
	assert.Equal(t, 3, assignment.DurationDays)
	assert.Equal(t, assignment.AssignedAt.AddDate(0, 0, 3), assignment.Deadline)

	require.Len(t, progress.inserted, 2)
	assert.Equal(t, 1, progress.inserted[0].ItemNo)
	assert.Equal(t, "SQL Basics", progress.inserted[0].Title)
	assert.Equal(t, 2, progress.inserted[1].ItemNo)

	assert.Equal(t, 1, notifier.assigned)
}

func TestAssignIsIdempotent(t *testing.T) {
	existing := &models.LearningAssignment{ID: "assignment-1", FresherID: "fresher-1", CatalogKey: models.CatalogGeneral}
	assignments := &assignmentRepoStub{assignment: existing}
	progress := &progressRepoStub{}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	notifier := &notifierStub{}

	svc := NewAssignmentService(assignments, progress, &catalogRepoStub{}, freshers, notifier, validator.New(), nil)
	assignment, err := svc.Assign(context.Background(), AssignLearningPlanRequest{FresherID: "fresher-1"})
	require.NoError(t, err)

	assert.Same(t, existing, assignment)
	assert.Nil(t, assignments.created)
	assert.Empty(t, progress.inserted)
	assert.Zero(t, notifier.assigned)
}

func TestAssignFresherNotFound(t *testing.T) {
	svc := NewAssignmentService(&assignmentRepoStub{}, &progressRepoStub{}, &catalogRepoStub{}, &fresherRepoStub{}, &notifierStub{}, validator.New(), nil)
	_, err := svc.Assign(context.Background(), AssignLearningPlanRequest{FresherID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAssignEmptyCatalogGetsBufferOnly(t *testing.T) {
	assignments := &assignmentRepoStub{}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}

	svc := NewAssignmentService(assignments, &progressRepoStub{}, &catalogRepoStub{}, freshers, &notifierStub{}, validator.New(), nil)
	assignment, err := svc.Assign(context.Background(), AssignLearningPlanRequest{FresherID: "fresher-1", Department: "Finance"})
	require.NoError(t, err)

	assert.Equal(t, models.CatalogGeneral, assignment.CatalogKey)
	assert.Equal(t, 2, assignment.DurationDays)
}

func TestAssignSurvivesNotificationFailure(t *testing.T) {
	assignments := &assignmentRepoStub{}
	freshers := &fresherRepoStub{freshers: map[string]*models.Fresher{"fresher-1": testFresher()}}
	notifier := &notifierStub{assignedErr: errors.New("redis down")}

	svc := NewAssignmentService(assignments, &progressRepoStub{}, &catalogRepoStub{}, freshers, notifier, validator.New(), nil)
	assignment, err := svc.Assign(context.Background(), AssignLearningPlanRequest{FresherID: "fresher-1"})
	require.NoError(t, err)
	assert.NotNil(t, assignment)
	assert.NotNil(t, assignments.created)
}

func TestAddCustomResourceExtendsDeadline(t *testing.T) {
	deadline := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	assignments := &assignmentRepoStub{assignment: &models.LearningAssignment{
		ID: "assignment-1", FresherID: "fresher-1", DurationDays: 5, Deadline: deadline,
	}}
	progress := &progressRepoStub{maxItemNo: 4}

	svc := NewAssignmentService(assignments, progress, &catalogRepoStub{}, &fresherRepoStub{}, &notifierStub{}, validator.New(), nil)
	item, err := svc.AddCustomResource(context.Background(), "fresher-1", AddCustomResourceRequest{
		Title:           "Security Onboarding",
		DurationMinutes: 70,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, item.ItemNo)
	require.Len(t, progress.inserted, 1)

	// 70 minutes round up to two extra days, stacked on the stored deadline.
	assert.Equal(t, 7, assignments.updatedDuration)
	require.NotNil(t, assignments.updatedDeadline)
	assert.Equal(t, deadline.AddDate(0, 0, 2), *assignments.updatedDeadline)
}

func TestAddCustomResourceZeroDurationKeepsDeadline(t *testing.T) {
	assignments := &assignmentRepoStub{assignment: &models.LearningAssignment{
		ID: "assignment-1", FresherID: "fresher-1", DurationDays: 5,
		Deadline: time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}}
	progress := &progressRepoStub{maxItemNo: 2}

	svc := NewAssignmentService(assignments, progress, &catalogRepoStub{}, &fresherRepoStub{}, &notifierStub{}, validator.New(), nil)
	item, err := svc.AddCustomResource(context.Background(), "fresher-1", AddCustomResourceRequest{Title: "Team Intro"})
	require.NoError(t, err)

	assert.Equal(t, 3, item.ItemNo)
	assert.Nil(t, assignments.updatedDeadline)
}

func TestAddCustomResourceRequiresAssignment(t *testing.T) {
	svc := NewAssignmentService(&assignmentRepoStub{}, &progressRepoStub{}, &catalogRepoStub{}, &fresherRepoStub{}, &notifierStub{}, validator.New(), nil)
	_, err := svc.AddCustomResource(context.Background(), "fresher-1", AddCustomResourceRequest{Title: "Extra"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
