package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

type expiryCandidateStore interface {
	ListExpiryCandidates(ctx context.Context, now time.Time) ([]models.LearningAssignment, error)
	MarkExpiryNotified(ctx context.Context, fresherID string, ts time.Time) error
}

type expiryNotifier interface {
	SendExpiryReport(ctx context.Context, recipient models.Recipient, report *models.ProgressReport) error
}

// ExpiryService sends a one-shot notice when an assignment's deadline has
// passed. Roster members are notified before the employee; the notified guard
// is set only when every send succeeded, so a partial failure leaves the
// candidate eligible for the next run.
type ExpiryService struct {
	assignments expiryCandidateStore
	progress    progressListReader
	freshers    fresherReader
	roster      rosterReader
	notifier    expiryNotifier
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewExpiryService constructs the service.
func NewExpiryService(
	assignments expiryCandidateStore,
	progress progressListReader,
	freshers fresherReader,
	roster rosterReader,
	notifier expiryNotifier,
	metrics *MetricsService,
	logger *zap.Logger,
) *ExpiryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryService{
		assignments: assignments,
		progress:    progress,
		freshers:    freshers,
		roster:      roster,
		notifier:    notifier,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run executes one expiry batch against the given reference time.
func (s *ExpiryService) Run(ctx context.Context, now time.Time) (models.JobRunSummary, error) {
	start := time.Now()
	summary := models.JobRunSummary{Job: JobExpiry, RanAt: now}

	candidates, err := s.assignments.ListExpiryCandidates(ctx, now)
	if err != nil {
		s.metrics.ObserveJobRun(JobExpiry, "error", time.Since(start))
		return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expiry candidates")
	}
	summary.Selected = len(candidates)
	s.metrics.AddJobCandidates(JobExpiry, len(candidates))

	members, err := s.roster.ListOptedIn(ctx, models.NotificationExpiry)
	if err != nil {
		s.metrics.ObserveJobRun(JobExpiry, "error", time.Since(start))
		return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list expiry roster")
	}

	for _, assignment := range candidates {
		select {
		case <-ctx.Done():
			s.metrics.ObserveJobRun(JobExpiry, "canceled", time.Since(start))
			return summary, ctx.Err()
		default:
		}

		notified, err := s.notify(ctx, assignment, members, now)
		if err != nil {
			summary.Failed++
			s.logger.Warn("expiry notice failed, continuing with next assignment",
				zap.String("fresher_id", assignment.FresherID), zap.Error(err))
			continue
		}
		if !notified {
			summary.Skipped++
			continue
		}
		summary.Notified++
	}

	s.metrics.ObserveJobRun(JobExpiry, "ok", time.Since(start))
	s.logger.Info("expiry run finished",
		zap.Int("selected", summary.Selected),
		zap.Int("notified", summary.Notified),
		zap.Int("failed", summary.Failed),
		zap.Int("skipped", summary.Skipped))
	return summary, nil
}

// notify reports whether the candidate was fully notified and marked. A false
// return with a nil error means a roster send failed: the employee send was
// skipped and the guard left unset for retry.
func (s *ExpiryService) notify(ctx context.Context, assignment models.LearningAssignment, members []models.RosterMember, now time.Time) (bool, error) {
	fresher, err := s.freshers.FindByID(ctx, assignment.FresherID)
	if err != nil {
		return false, err
	}
	items, err := s.progress.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return false, err
	}

	report := &models.ProgressReport{
		Fresher:       fresher,
		Assignment:    &assignment,
		Items:         items,
		Stats:         computeStats(items),
		DaysRemaining: wholeDaysBetween(now, assignment.Deadline),
	}

	// Every roster member is attempted even after a failure, so no member is
	// starved by another's bad address.
	rosterOK := true
	for _, member := range members {
		recipient := models.Recipient{Email: member.Email, Name: member.FullName}
		if err := s.notifier.SendExpiryReport(ctx, recipient, report); err != nil {
			s.metrics.ObserveNotification(string(models.NotificationExpiry), "error")
			s.logger.Warn("expiry report to roster member failed",
				zap.String("fresher_id", fresher.ID),
				zap.String("recipient", member.Email), zap.Error(err))
			rosterOK = false
			continue
		}
		s.metrics.ObserveNotification(string(models.NotificationExpiry), "ok")
	}
	if !rosterOK {
		return false, nil
	}

	employee := models.Recipient{Email: fresher.Email, Name: fresher.FullName}
	if err := s.notifier.SendExpiryReport(ctx, employee, report); err != nil {
		s.metrics.ObserveNotification(string(models.NotificationExpiry), "error")
		return false, err
	}
	s.metrics.ObserveNotification(string(models.NotificationExpiry), "ok")

	if err := s.assignments.MarkExpiryNotified(ctx, assignment.FresherID, now); err != nil {
		// Sends went out but the guard did not stick; the next run repeats them.
		s.logger.Error("failed to mark expiry notified",
			zap.String("fresher_id", assignment.FresherID), zap.Error(err))
		return false, err
	}
	return true, nil
}
