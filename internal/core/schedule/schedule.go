// Package schedule contains the pure due-date arithmetic for maintenance
// tasks: computing the next due date at creation and assessing pending
// tasks during an escalation sweep. No I/O; callers inject the clock and
// reuse a single now for the whole request.
package schedule

import "time"

// Task types.
const (
	TypeRecurring = "recurring"
	TypeOneTime   = "one_time"
)

// EscalateAfterDays is how many days a task may sit overdue before its
// priority is forced to urgent.
const EscalateAfterDays = 7

// NextDue computes the next due date for a task.
//
// An explicit due date always wins. Otherwise recurring tasks fall due
// frequencyDays from now; one-time tasks, and recurring tasks with no
// frequency, fall due immediately.
func NextDue(taskType string, frequencyDays int, explicitDue *time.Time, now time.Time) time.Time {
	if explicitDue != nil {
		return *explicitDue
	}
	if taskType == TypeRecurring && frequencyDays > 0 {
		return now.AddDate(0, 0, frequencyDays)
	}
	return now
}

// Assessment is the decision for one pending task during a sweep.
// NewStatus is empty when the task is not yet due.
type Assessment struct {
	NewStatus        string
	EscalatePriority bool
	DaysOverdue      int
}

// Assess compares a pending task's due date against now, in whole calendar
// days. Time-of-day is ignored: a task due later today is still due today.
func Assess(now, nextDue time.Time, priority string) Assessment {
	days := daysBetween(nextDue, now)

	switch {
	case days > 0:
		return Assessment{
			NewStatus:        "overdue",
			EscalatePriority: days > EscalateAfterDays && priority != "urgent",
			DaysOverdue:      days,
		}
	case days == 0:
		return Assessment{NewStatus: "due_today"}
	default:
		return Assessment{DaysOverdue: days}
	}
}

// daysBetween returns the number of calendar days from a to b, truncating
// both to midnight in b's location.
func daysBetween(a, b time.Time) int {
	loc := b.Location()
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, loc)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, loc)
	return int(bd.Sub(ad).Hours() / 24)
}
