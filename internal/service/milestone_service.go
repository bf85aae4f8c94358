package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/hr-onboard-api/internal/models"
	appErrors "github.com/noah-isme/hr-onboard-api/pkg/errors"
)

type milestoneCandidateStore interface {
	ListMilestoneCandidates(ctx context.Context, now time.Time, days []int) ([]models.LearningAssignment, error)
}

type rosterReader interface {
	ListOptedIn(ctx context.Context, category models.NotificationCategory) ([]models.RosterMember, error)
}

type milestoneNotifier interface {
	SendMilestoneReport(ctx context.Context, recipient models.Recipient, report *models.ProgressReport, breakdown models.MilestoneBreakdown, milestoneDay int) error
}

// MilestoneService sends detailed progress reports on fixed days after
// assignment. Selection is an exact whole-day match against the configured
// milestone days; a run that does not land on the day simply sends nothing,
// there is no catch-up. Reports carry no sent-guard because a day matches at
// most one scheduled run.
type MilestoneService struct {
	assignments milestoneCandidateStore
	progress    progressListReader
	freshers    fresherReader
	roster      rosterReader
	notifier    milestoneNotifier
	days        []int
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewMilestoneService constructs the service.
func NewMilestoneService(
	assignments milestoneCandidateStore,
	progress progressListReader,
	freshers fresherReader,
	roster rosterReader,
	notifier milestoneNotifier,
	days []int,
	metrics *MetricsService,
	logger *zap.Logger,
) *MilestoneService {
	if len(days) == 0 {
		days = []int{30, 60, 90}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MilestoneService{
		assignments: assignments,
		progress:    progress,
		freshers:    freshers,
		roster:      roster,
		notifier:    notifier,
		days:        days,
		metrics:     metrics,
		logger:      logger,
	}
}

// Run executes one milestone batch against the given reference time.
func (s *MilestoneService) Run(ctx context.Context, now time.Time) (models.JobRunSummary, error) {
	start := time.Now()
	summary := models.JobRunSummary{Job: JobMilestones, RanAt: now}

	candidates, err := s.assignments.ListMilestoneCandidates(ctx, now, s.days)
	if err != nil {
		s.metrics.ObserveJobRun(JobMilestones, "error", time.Since(start))
		return summary, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list milestone candidates")
	}
	summary.Selected = len(candidates)
	s.metrics.AddJobCandidates(JobMilestones, len(candidates))

	members, err := s.roster.ListOptedIn(ctx, models.NotificationMilestone)
	if err != nil {
		// Employee reports still go out; the roster copy is skipped this run.
		s.logger.Error("failed to load milestone roster, sending employee reports only", zap.Error(err))
		members = nil
	}

	for _, assignment := range candidates {
		select {
		case <-ctx.Done():
			s.metrics.ObserveJobRun(JobMilestones, "canceled", time.Since(start))
			return summary, ctx.Err()
		default:
		}

		if err := s.report(ctx, assignment, members, now); err != nil {
			summary.Failed++
			s.logger.Warn("milestone report failed, continuing with next assignment",
				zap.String("fresher_id", assignment.FresherID), zap.Error(err))
			continue
		}
		summary.Notified++
	}

	s.metrics.ObserveJobRun(JobMilestones, "ok", time.Since(start))
	s.logger.Info("milestone run finished",
		zap.Int("selected", summary.Selected),
		zap.Int("notified", summary.Notified),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

func (s *MilestoneService) report(ctx context.Context, assignment models.LearningAssignment, members []models.RosterMember, now time.Time) error {
	fresher, err := s.freshers.FindByID(ctx, assignment.FresherID)
	if err != nil {
		return err
	}
	items, err := s.progress.ListByAssignment(ctx, assignment.ID)
	if err != nil {
		return err
	}

	milestoneDay := wholeDaysBetween(assignment.AssignedAt, now)
	report := &models.ProgressReport{
		Fresher:       fresher,
		Assignment:    &assignment,
		Items:         items,
		Stats:         computeStats(items),
		DaysRemaining: wholeDaysBetween(now, assignment.Deadline),
	}
	breakdown := splitByCompletion(items)

	var firstErr error
	employee := models.Recipient{Email: fresher.Email, Name: fresher.FullName}
	if err := s.notifier.SendMilestoneReport(ctx, employee, report, breakdown, milestoneDay); err != nil {
		s.metrics.ObserveNotification(string(models.NotificationMilestone), "error")
		s.logger.Warn("milestone report to employee failed",
			zap.String("fresher_id", fresher.ID), zap.Error(err))
		firstErr = err
	} else {
		s.metrics.ObserveNotification(string(models.NotificationMilestone), "ok")
	}

	// Roster copies are independent of the employee send and of each other.
	for _, member := range members {
		recipient := models.Recipient{Email: member.Email, Name: member.FullName}
		if err := s.notifier.SendMilestoneReport(ctx, recipient, report, breakdown, milestoneDay); err != nil {
			s.metrics.ObserveNotification(string(models.NotificationMilestone), "error")
			s.logger.Warn("milestone report to roster member failed",
				zap.String("fresher_id", fresher.ID),
				zap.String("recipient", member.Email), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		s.metrics.ObserveNotification(string(models.NotificationMilestone), "ok")
	}

	return firstErr
}

// splitByCompletion partitions items preserving their plan order.
func splitByCompletion(items []models.ProgressItem) models.MilestoneBreakdown {
	var breakdown models.MilestoneBreakdown
	for _, item := range items {
		if item.IsCompleted {
			breakdown.Completed = append(breakdown.Completed, item)
		} else {
			breakdown.Pending = append(breakdown.Pending, item)
		}
	}
	return breakdown
}
