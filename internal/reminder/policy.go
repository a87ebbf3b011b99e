package reminder

import (
	"time"

	"github.com/goalpulse/goalpulse/internal/model"
)

// DayBounds returns the first and last instant of now's calendar day in now's location.
func DayBounds(now time.Time) (time.Time, time.Time) {
	start := StartOfDay(now)
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Selects reports whether a user with the given notification preference is
// messaged by trigger. The briefing ignores the preference.
func Selects(trigger Trigger, frequency string) bool {
	switch trigger {
	case TriggerBriefing:
		return true
	case TriggerPassive:
		return frequency == model.NotifyPassive
	case TriggerPersistent:
		return frequency == model.NotifyPersistent
	}
	return false
}

// ShouldReset reports whether a completed recurring goal re-opens at now.
//
//   - daily: last completion happened on an earlier calendar day
//   - weekly: today is Monday and the last completion was before today
//   - monthly: today is the 1st and the last completion was before today
//
// Goals with no known frequency are never reset.
func ShouldReset(goal *model.Goal, now time.Time) bool {
	if goal == nil || !goal.IsRecurring() || !goal.IsCompleted || goal.LastCompleted == nil {
		return false
	}

	startOfToday := StartOfDay(now)
	completedBeforeToday := goal.LastCompleted.Before(startOfToday)

	switch goal.Frequency {
	case model.FrequencyDaily:
		return completedBeforeToday
	case model.FrequencyWeekly:
		return now.Weekday() == time.Monday && completedBeforeToday
	case model.FrequencyMonthly:
		return now.Day() == 1 && completedBeforeToday
	}
	return false
}
