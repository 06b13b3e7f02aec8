package reminders_test

import (
	"testing"
	"time"

	reminders "condo-billing/internal/reminders/domain"
)

func TestDecide_DefaultCadence(t *testing.T) {
	schedule := reminders.DefaultSchedule()

	cases := []struct {
		daysLate int
		tier     reminders.Tier
		emit     bool
	}{
		{-10, reminders.TierNone, false},
		{-8, reminders.TierNone, false},
		{-7, reminders.TierBeforeDue, true},
		{-6, reminders.TierBeforeDue, false},
		{-5, reminders.TierBeforeDue, false},
		{-3, reminders.TierBeforeDue, true},
		{-2, reminders.TierBeforeDue, false},
		{-1, reminders.TierBeforeDue, true},
		{0, reminders.TierOnDue, true},
		{1, reminders.TierAfterDue, true},
		{4, reminders.TierAfterDue, true},
		{7, reminders.TierAfterDue, true},
		{8, reminders.TierAfterDue, true},
		{9, reminders.TierAfterDue, false},
		{10, reminders.TierAfterDue, true},
		{13, reminders.TierAfterDue, false},
		{14, reminders.TierAfterDue, true},
		{15, reminders.TierAfterDue, true},
		{16, reminders.TierAfterDue, false},
		{21, reminders.TierAfterDue, false},
		{22, reminders.TierAfterDue, true},
		{29, reminders.TierAfterDue, true},
		{30, reminders.TierAfterDue, false},
		{42, reminders.TierAfterDue, false},
		{43, reminders.TierAfterDue, true},
		{44, reminders.TierAfterDue, false},
		{57, reminders.TierAfterDue, true},
	}
	for _, tc := range cases {
		tier, emit := schedule.Decide(tc.daysLate)
		if tier != tc.tier || emit != tc.emit {
			t.Errorf("Decide(%d) = (%s, %v), want (%s, %v)", tc.daysLate, tier, emit, tc.tier, tc.emit)
		}
	}
}

func TestDaysLate_IgnoresTimeOfDay(t *testing.T) {
	due := time.Date(2024, time.March, 25, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		today time.Time
		want  int
	}{
		{time.Date(2024, time.March, 18, 23, 59, 0, 0, time.UTC), -7},
		{time.Date(2024, time.March, 25, 0, 0, 1, 0, time.UTC), 0},
		{time.Date(2024, time.March, 25, 23, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, time.March, 26, 1, 0, 0, 0, time.UTC), 1},
		{time.Date(2024, time.April, 1, 8, 0, 0, 0, time.UTC), 7},
	}
	for _, tc := range cases {
		if got := reminders.DaysLate(due, tc.today); got != tc.want {
			t.Errorf("DaysLate(due, %s) = %d, want %d", tc.today, got, tc.want)
		}
	}
}
