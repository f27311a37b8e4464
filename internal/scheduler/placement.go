package scheduler

import (
	"math"
	"time"

	"github.com/mgilabert/focal/internal/dateutil"
)

// Interactive placement: direct, user-driven single-task schedule changes
// outside the batch scheduler. Drops are unconditional overwrites with no
// overlap check; stacked tasks are the rendering layer's problem. Malformed
// drops are silent no-ops at the call site (an unknown task id simply
// matches nothing in the store).

// DropOnHour returns the scheduled instant for a drop onto an hour cell:
// the given day at hour:00.
func DropOnHour(day time.Time, hour int) time.Time {
	d := dateutil.TruncateToDay(day)
	if hour < 0 || hour > 23 {
		return d
	}
	return d.Add(time.Duration(hour) * time.Hour)
}

// DropOnDay returns the scheduled instant for a whole-day (month view) drop:
// midnight of the given day.
func DropOnDay(day time.Time) time.Time {
	return dateutil.TruncateToDay(day)
}

// ResizePreview returns the candidate duration shown while a resize drag is
// in flight: the initial duration plus the drag delta, floored at
// MinDuration. Preview values are for live feedback only and are never
// committed as-is.
func ResizePreview(initialMinutes, deltaMinutes int) int {
	candidate := initialMinutes + deltaMinutes
	if candidate < MinDuration {
		return MinDuration
	}
	return candidate
}

// ResizeCommit snaps a candidate duration to the nearest SlotStep increment,
// floored at MinDuration. This becomes the task's new estimated duration;
// the scheduled start instant is never moved by a resize.
func ResizeCommit(candidateMinutes int) int {
	snapped := int(math.Round(float64(candidateMinutes)/SlotStep)) * SlotStep
	if snapped < MinDuration {
		return MinDuration
	}
	return snapped
}
