package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

type notificationStore interface {
	Insert(ctx context.Context, record *models.NotificationRecord) error
}

// Message is the payload published to the delivery channel. A downstream
// mailer consumes these and handles the actual transport.
type Message struct {
	ID        string                      `json:"id"`
	Recipient models.Recipient            `json:"recipient"`
	Category  models.NotificationCategory `json:"category"`
	Subject   string                      `json:"subject"`
	Body      string                      `json:"body"`
	Sender    string                      `json:"sender"`
	SentAt    time.Time                   `json:"sent_at"`
}

// Dispatcher renders notifications, records them in the outbox and publishes
// them to Redis. Both the insert and the publish must succeed for a send to
// count; callers treat an error as "not delivered" and apply their own retry
// or guard semantics.
type Dispatcher struct {
	store   notificationStore
	redis   *redis.Client
	channel string
	sender  string
	logger  *zap.Logger
}

// NewDispatcher constructs the dispatcher. channelBase prefixes the Redis
// channel, e.g. "onboard" publishes to "onboard:notifications".
func NewDispatcher(store notificationStore, redisClient *redis.Client, channelBase, sender string, logger *zap.Logger) *Dispatcher {
	if channelBase == "" {
		channelBase = "onboard"
	}
	if sender == "" {
		sender = "HR Onboarding"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		store:   store,
		redis:   redisClient,
		channel: channelBase + ":notifications",
		sender:  sender,
		logger:  logger,
	}
}

// SendAssigned notifies a fresher that their learning plan is ready.
func (d *Dispatcher) SendAssigned(ctx context.Context, fresher *models.Fresher, moduleCount int) error {
	recipient := models.Recipient{Email: fresher.Email, Name: fresher.FullName}
	subject := "Your learning plan is ready"
	body := renderAssigned(fresher.FullName, moduleCount)
	return d.dispatch(ctx, recipient, models.NotificationAssigned, subject, body)
}

// SendReminder nudges a fresher about incomplete modules. The wording follows
// the progress and urgency buckets chosen by the reminder job.
func (d *Dispatcher) SendReminder(ctx context.Context, fresher *models.Fresher, stats models.ProgressStats, tier models.ReminderTier) error {
	recipient := models.Recipient{Email: fresher.Email, Name: fresher.FullName}
	subject := fmt.Sprintf("Learning reminder: %d of %d modules completed", stats.CompletedCount, stats.TotalCount)
	body := renderReminder(fresher.FullName, stats, tier)
	return d.dispatch(ctx, recipient, models.NotificationReminder, subject, body)
}

// SendMilestoneReport delivers a detailed progress report for a fixed-day
// milestone to one recipient.
func (d *Dispatcher) SendMilestoneReport(ctx context.Context, recipient models.Recipient, report *models.ProgressReport, breakdown models.MilestoneBreakdown, milestoneDay int) error {
	subject := fmt.Sprintf("Day %d learning report for %s", milestoneDay, report.Fresher.FullName)
	body := renderMilestone(recipient.Name, report, breakdown, milestoneDay)
	return d.dispatch(ctx, recipient, models.NotificationMilestone, subject, body)
}

// SendExpiryReport delivers a deadline-passed notice to one recipient.
func (d *Dispatcher) SendExpiryReport(ctx context.Context, recipient models.Recipient, report *models.ProgressReport) error {
	subject := fmt.Sprintf("Learning deadline passed for %s", report.Fresher.FullName)
	body := renderExpiry(recipient.Name, report)
	return d.dispatch(ctx, recipient, models.NotificationExpiry, subject, body)
}

func (d *Dispatcher) dispatch(ctx context.Context, recipient models.Recipient, category models.NotificationCategory, subject, body string) error {
	record := &models.NotificationRecord{
		Recipient: recipient.Email,
		Category:  category,
		Subject:   subject,
		Body:      body,
	}
	if err := d.store.Insert(ctx, record); err != nil {
		return fmt.Errorf("record notification: %w", err)
	}

	message := Message{
		ID:        record.ID,
		Recipient: recipient,
		Category:  category,
		Subject:   subject,
		Body:      body,
		Sender:    d.sender,
		SentAt:    record.CreatedAt,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := d.redis.Publish(ctx, d.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	d.logger.Debug("notification dispatched",
		zap.String("category", string(category)),
		zap.String("recipient", recipient.Email))
	return nil
}
