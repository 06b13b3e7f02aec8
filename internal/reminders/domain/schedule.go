package reminders

import "time"

// Tier is the escalation stage of a reminder relative to the due date.
type Tier string

const (
	TierBeforeDue Tier = "before_due"
	TierOnDue     Tier = "on_due"
	TierAfterDue  Tier = "after_due"
	TierNone      Tier = "none"
)

// Schedule holds the emission cadence per tier. The decision is a pure
// function of the signed day distance to the due date, recomputed daily;
// no reminder state is persisted beyond the sent log.
type Schedule struct {
	// BeforeDueOffsets lists the days-before-due that emit, e.g. 7, 3, 1.
	BeforeDueOffsets []int
	// DailyThrough is the last overdue day of the daily cadence.
	DailyThrough int
	// EveryOtherThrough is the last overdue day of the every-2nd-day cadence.
	EveryOtherThrough int
	// WeeklyThrough is the last overdue day of the weekly cadence.
	WeeklyThrough int
	// LongCycleDays is the cadence beyond WeeklyThrough.
	LongCycleDays int
}

// DefaultSchedule returns the standard escalation cadence: pre-due nudges
// at -7/-3/-1, daily for the first week overdue, every 2nd day through two
// weeks, weekly through day 30, then every 14 days.
func DefaultSchedule() Schedule {
	return Schedule{
		BeforeDueOffsets:  []int{7, 3, 1},
		DailyThrough:      7,
		EveryOtherThrough: 14,
		WeeklyThrough:     30,
		LongCycleDays:     14,
	}
}

// DaysLate returns the signed whole-day distance from the due date:
// negative before the due date, zero on it, positive past it.
func DaysLate(dueDate, today time.Time) int {
	due := time.Date(dueDate.Year(), dueDate.Month(), dueDate.Day(), 0, 0, 0, 0, time.UTC)
	now := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(now.Sub(due) / (24 * time.Hour))
}

// Decide returns the tier for the given day distance and whether a
// reminder is due today.
func (s Schedule) Decide(daysLate int) (Tier, bool) {
	switch {
	case daysLate < 0:
		until := -daysLate
		if until > 7 {
			return TierNone, false
		}
		for _, offset := range s.BeforeDueOffsets {
			if until == offset {
				return TierBeforeDue, true
			}
		}
		return TierBeforeDue, false

	case daysLate == 0:
		return TierOnDue, true

	case daysLate <= s.DailyThrough:
		return TierAfterDue, true

	case daysLate <= s.EveryOtherThrough:
		return TierAfterDue, daysLate%2 == 0

	case daysLate <= s.WeeklyThrough:
		// Anchored on the first weekly day, so 15, 22, 29 with defaults.
		return TierAfterDue, (daysLate-s.EveryOtherThrough-1)%7 == 0

	default:
		anchor := s.lastWeeklyDay()
		return TierAfterDue, (daysLate-anchor)%s.LongCycleDays == 0
	}
}

// lastWeeklyDay is the final emission day of the weekly cadence; the long
// cycle continues from it, so 29+14=43, 57, ... with defaults.
func (s Schedule) lastWeeklyDay() int {
	day := s.EveryOtherThrough + 1
	for day+7 <= s.WeeklyThrough {
		day += 7
	}
	return day
}
