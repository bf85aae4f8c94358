package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

// Batch job names used for registration, logging and metrics.
const (
	JobReminders  = "reminders"
	JobMilestones = "milestones"
	JobExpiry     = "expiry"
)

type reminderCandidateStore interface {
	ListReminderCandidates(ctx context.Context, now time.Time, resendAfter time.Duration) ([]models.LearningAssignment, error)
	MarkReminderSent(ctx context.Context, fresherID string, ts time.Time) error
}

type progressListReader interface {
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.ProgressItem, error)
}

type reminderNotifier interface {
	SendReminder(ctx context.Context, fresher *models.Fresher, stats models.ProgressStats, tier models.ReminderTier) error
}

// ReminderService sends recurring progress reminders to freshers with
// incomplete plans. Candidates are processed strictly sequentially; a failed
// send leaves the guard untouched so the next eligible run retries it.
type ReminderService struct {
	assignments reminderCandidateStore
	progress    progressListReader
	freshers    fresherReader
	notifier    reminderNotifier
	resendAfter time.Duration
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewReminderService constructs the service.
func NewReminderService(
	assignments reminderCandidateStore,
	progress progressListReader,
	freshers fresherReader,
	notifier reminderNotifier,
	resendAfter time.Duration,
	metrics *MetricsService,
	logger *zap.Logger,
) *ReminderService {
	if resendAfter <= 0 {
		resendAfter = 48 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReminderService{
		assignments: assignments,
		progress:    progress,
		freshers:    freshers,
		notifier:    notifier,
		resendAfter: resendAfter,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run executes one reminder batch against the given reference time.
func (s *ReminderService) Run(ctx context.Context, now time.Time) (models.JobRunSummary, error) {
	start := time.Now()
	summary := models.JobRunSummary{Job: JobReminders, RanAt: now}

	candidates, err := s.assignments.ListReminderCandidates(ctx, now, s.resendAfter)
	if err != nil {
		s.metrics.ObserveJobRun(JobReminders, "error", time.Since(start))
		return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reminder candidates")
	}
	summary.Selected = len(candidates)
	s.metrics.AddJobCandidates(JobReminders, len(candidates))

	for _, assignment := range candidates {
		select {
		case <-ctx.Done():
			s.metrics.ObserveJobRun(JobReminders, "canceled", time.Since(start))
			return summary, ctx.Err()
		default:
		}

		if err := s.remind(ctx, assignment, now); err != nil {
			summary.Failed++
			s.logger.Warn("reminder failed, continuing with next assignment",
				zap.String("fresher_id", assignment.FresherID), zap.Error(err))
			continue
		}
		summary.Notified++
	}

	s.metrics.ObserveJobRun(JobReminders, "ok", time.Since(start))
	s.logger.Info("reminder run finished",
		zap.Int("selected", summary.Selected),
		zap.Int("notified", summary.Notified),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *ReminderService) remind(ctx context.Context, assignment models.LearningAssignment, now time.Time) error {
	fresher, err := s.freshers.FindByID(ctx, assignment.FresherID)
	if err != nil {
		return err
	}
	items, err := s.progress.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return err
	}

	stats := computeStats(items)
	tier := reminderTierFor(stats.ProgressPercentage, wholeDaysBetween(now, assignment.Deadline))

	if err := s.notifier.SendReminder(ctx, fresher, stats, tier); err != nil {
		s.metrics.ObserveNotification(string(models.NotificationReminder), "error")
		return err
	}
	s.metrics.ObserveNotification(string(models.NotificationReminder), "ok")

	if err := s.assignments.MarkReminderSent(ctx, assignment.FresherID, now); err != nil {
		// The reminder went out but the guard did not stick; the next run may
		// send a duplicate.
		s.logger.Error("failed to mark reminder sent",
			zap.String("fresher_id", assignment.FresherID), zap.Error(err))
		return err
	}
	return nil
}

func reminderTierFor(progressPct, daysRemaining int) models.ReminderTier {
	return models.ReminderTier{
		Motivation:    motivationFor(progressPct),
		Urgency:       urgencyFor(daysRemaining),
		DaysRemaining: daysRemaining,
	}
}

func motivationFor(progressPct int) models.MotivationTier {
	switch {
	case progressPct >= 75:
		return models.MotivationAlmostDone
	case progressPct >= 50:
		return models.MotivationOverHalf
	case progressPct >= 25:
		return models.MotivationGoodStart
	case progressPct > 0:
		return models.MotivationJustStarted
	default:
		return models.MotivationNotStarted
	}
}

func urgencyFor(daysRemaining int) models.UrgencyTier {
	switch {
	case daysRemaining <= 0:
		// Unreachable today: candidate selection requires deadline > now.
		// Kept in case the selection predicate is relaxed later.
		return models.UrgencyOverdue
	case daysRemaining <= 3:
		return models.UrgencyCritical
	case daysRemaining <= 7:
		return models.UrgencySoon
	default:
		return models.UrgencyRelaxed
	}
}
