package models

import "time"

// LearningAssignment binds a fresher to a resolved module catalog, a total
// allotted duration and a completion deadline. At most one row exists per
// fresher.
//
// DurationDays only ever increases and Deadline only ever moves forward:
// modules can be added to a plan but never removed.
type LearningAssignment struct {
	ID                 string     `db:"id" json:"id"`
	FresherID          string     `db:"fresher_id" json:"fresher_id"`
	Department         string     `db:"department" json:"department"`
	CatalogKey         string     `db:"catalog_key" json:"catalog_key"`
	AssignedAt         time.Time  `db:"assigned_at" json:"assigned_at"`
	DurationDays       int        `db:"duration_days" json:"duration_days"`
	Deadline           time.Time  `db:"deadline" json:"deadline"`
	LastReminderSent   *time.Time `db:"last_reminder_sent" json:"last_reminder_sent,omitempty"`
	DeadlineNotifiedAt *time.Time `db:"deadline_notified_at" json:"deadline_notified_at,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// ProgressItem is one trackable learning module instance inside an assignment.
// ItemNo is a sequence scoped to the owning assignment, not a global ID.
// Items are append-only; only completion state and notes mutate.
type ProgressItem struct {
	ID              string     `db:"id" json:"-"`
	AssignmentID    string     `db:"assignment_id" json:"-"`
	ItemNo          int        `db:"item_no" json:"item_no"`
	Title           string     `db:"title" json:"title"`
	Link            string     `db:"link" json:"link,omitempty"`
	DurationMinutes int        `db:"duration_minutes" json:"duration_minutes"`
	IsCompleted     bool       `db:"is_completed" json:"is_completed"`
	CompletedAt     *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	Notes           string     `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// ProgressStats aggregates completion counts for an assignment.
type ProgressStats struct {
	CompletedCount     int `json:"completed_count"`
	TotalCount         int `json:"total_count"`
	ProgressPercentage int `json:"progress_percentage"`
}

// ProgressReport is the full progress view returned to API consumers and
// embedded in milestone/expiry notifications.
type ProgressReport struct {
	Fresher       *Fresher            `json:"fresher"`
	Assignment    *LearningAssignment `json:"assignment"`
	Items         []ProgressItem      `json:"items"`
	Stats         ProgressStats       `json:"stats"`
	DaysRemaining int                 `json:"days_remaining"`
}

// MilestoneBreakdown splits an assignment's items by completion state for the
// fixed-day milestone reports.
type MilestoneBreakdown struct {
	Completed []ProgressItem `json:"completed"`
	Pending   []ProgressItem `json:"pending"`
}

// MotivationTier buckets progress percentage for reminder wording.
type MotivationTier string

const (
	MotivationAlmostDone  MotivationTier = "ALMOST_DONE"
	MotivationOverHalf    MotivationTier = "OVER_HALF"
	MotivationGoodStart   MotivationTier = "GOOD_START"
	MotivationJustStarted MotivationTier = "JUST_STARTED"
	MotivationNotStarted  MotivationTier = "NOT_STARTED"
)

// UrgencyTier buckets days remaining for reminder wording.
type UrgencyTier string

const (
	UrgencyOverdue  UrgencyTier = "OVERDUE"
	UrgencyCritical UrgencyTier = "CRITICAL"
	UrgencySoon     UrgencyTier = "SOON"
	UrgencyRelaxed  UrgencyTier = "RELAXED"
)

// ReminderTier carries the wording buckets chosen for one reminder send.
type ReminderTier struct {
	Motivation    MotivationTier `json:"motivation"`
	Urgency       UrgencyTier    `json:"urgency"`
	DaysRemaining int            `json:"days_remaining"`
}

// JobRunSummary reports the outcome of one batch job invocation.
type JobRunSummary struct {
	Job      string    `json:"job"`
	RanAt    time.Time `json:"ran_at"`
	Selected int       `json:"selected"`
	Notified int       `json:"notified"`
	Failed   int       `json:"failed"`
	Skipped  int       `json:"skipped"`
}
