package notifier

import (
	"fmt"
	"strings"

	"github.com/noah-isme/hr-onboard-api/internal/models"
)

var motivationLines = map[models.MotivationTier]string{
	models.MotivationAlmostDone:  "You're almost there, just a few modules left.",
	models.MotivationOverHalf:    "Great momentum, you're past the halfway mark.",
	models.MotivationGoodStart:   "Good start, keep the pace going.",
	models.MotivationJustStarted: "You've made a start, now build on it.",
	models.MotivationNotStarted:  "Your learning plan is waiting, dive into the first module.",
}

var urgencyLines = map[models.UrgencyTier]string{
	models.UrgencyOverdue:  "Your deadline has already passed. Please reach out to your HR contact.",
	models.UrgencyCritical: "Only %d day(s) left before your deadline.",
	models.UrgencySoon:     "Your deadline is %d day(s) away.",
	models.UrgencyRelaxed:  "You have %d day(s) remaining, plenty of time if you stay steady.",
}

func renderAssigned(name string, moduleCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "Welcome aboard! Your onboarding learning plan with %d module(s) has been assigned.\n", moduleCount)
	b.WriteString("Log in to the onboarding portal to see your modules and deadline.\n")
	return b.String()
}

func renderReminder(name string, stats models.ProgressStats, tier models.ReminderTier) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "You have completed %d of %d modules (%d%%).\n", stats.CompletedCount, stats.TotalCount, stats.ProgressPercentage)
	b.WriteString(motivationLines[tier.Motivation])
	b.WriteString("\n")

	urgency := urgencyLines[tier.Urgency]
	if strings.Contains(urgency, "%d") {
		urgency = fmt.Sprintf(urgency, tier.DaysRemaining)
	}
	b.WriteString(urgency)
	b.WriteString("\n")
	return b.String()
}

func renderMilestone(recipientName string, report *models.ProgressReport, breakdown models.MilestoneBreakdown, milestoneDay int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", recipientName)
	fmt.Fprintf(&b, "Day %d progress report for %s (%s department):\n", milestoneDay, report.Fresher.FullName, report.Fresher.Department)
	fmt.Fprintf(&b, "Completed %d of %d modules (%d%%), %d day(s) until the deadline.\n\n",
		report.Stats.CompletedCount, report.Stats.TotalCount, report.Stats.ProgressPercentage, report.DaysRemaining)

	b.WriteString("Completed modules:\n")
	writeItemList(&b, breakdown.Completed)
	b.WriteString("\nPending modules:\n")
	writeItemList(&b, breakdown.Pending)
	return b.String()
}

func renderExpiry(recipientName string, report *models.ProgressReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", recipientName)
	fmt.Fprintf(&b, "The learning deadline for %s (%s department) has passed.\n", report.Fresher.FullName, report.Fresher.Department)
	fmt.Fprintf(&b, "Final status: %d of %d modules completed (%d%%).\n\n",
		report.Stats.CompletedCount, report.Stats.TotalCount, report.Stats.ProgressPercentage)

	pending := make([]models.ProgressItem, 0, len(report.Items))
	for _, item := range report.Items {
		if !item.IsCompleted {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		b.WriteString("All modules were completed.\n")
		return b.String()
	}
	b.WriteString("Outstanding modules:\n")
	writeItemList(&b, pending)
	return b.String()
}

func writeItemList(b *strings.Builder, items []models.ProgressItem) {
	if len(items) == 0 {
		b.WriteString("  (none)\n")
		return
	}
	for _, item := range items {
		fmt.Fprintf(b, "  %d. %s (%d min)\n", item.ItemNo, item.Title, item.DurationMinutes)
	}
}
