package service

import "time"

const (
	minutesPerDay  = 24 * 60
	minutesPerHour = 60

	// deadlineBufferDays is granted on top of the catalog workload, also for
	// empty catalogs.
	deadlineBufferDays = 2
)

// InitialDurationDays converts a catalog's total workload into allotted days.
func InitialDurationDays(totalMinutes int) int {
	return ceilDiv(totalMinutes, minutesPerDay) + deadlineBufferDays
}

// ExtensionDays converts a custom resource's workload into additional days.
func ExtensionDays(durationMinutes int) int {
	return ceilDiv(durationMinutes, minutesPerHour)
}

// ExtendDeadline moves a stored deadline forward by the days owed to the given
// workload. The extension compounds off the previously stored deadline; it is
// deliberately not recomputed from total minutes and not rebased to the
// current time, so repeated additions stack relative to the last stored value.
func ExtendDeadline(oldDeadline time.Time, additionalMinutes int) time.Time {
	return oldDeadline.AddDate(0, 0, ExtensionDays(additionalMinutes))
}

// wholeDaysBetween truncates the difference between two instants to whole
// days. Negative when to precedes from.
func wholeDaysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func ceilDiv(value, unit int) int {
	if value <= 0 {
		return 0
	}
	return (value + unit - 1) / unit
}
