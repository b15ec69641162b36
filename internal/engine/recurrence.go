package engine

import (
	"slices"
	"strings"
	"time"

	"github.com/calvinalkan/yahtl/internal/model"
)

const (
	day = 24 * time.Hour

	// maxFrequencyPeriods bounds the frequency streak walk.
	maxFrequencyPeriods = 1000

	// elapsedGrace stretches the elapsed interval when counting streaks.
	elapsedGrace = 1.2

	defaultFrequencyPeriod = 30
)

// CalculateNextDue returns when a recurring item is next due after being
// completed at completion. A zero completion means now. Frequency goals and
// unsupported calendar patterns have no next due date.
func (e *Engine) CalculateNextDue(item *model.Item, completion time.Time) (time.Time, bool) {
	r := item.Recurrence
	if r == nil {
		return time.Time{}, false
	}

	if completion.IsZero() {
		completion = e.clock.Now()
	}

	switch r.Type {
	case model.RecurrenceCalendar:
		if r.CalendarPattern == "" {
			return time.Time{}, false
		}

		days := calendarNextDays(strings.ToLower(r.CalendarPattern))
		if days == 0 {
			e.log.Warn("calendar pattern not supported", "item", item.UID, "pattern", r.CalendarPattern)

			return time.Time{}, false
		}

		return completion.Add(time.Duration(days) * day), true
	case model.RecurrenceElapsed:
		return completion.Add(time.Duration(elapsedIntervalDays(r)) * day), true
	default:
		return time.Time{}, false
	}
}

// calendarNextDays maps a calendar pattern to its period for next-due
// purposes. Returns 0 for unsupported patterns.
func calendarNextDays(pattern string) int {
	switch {
	case strings.Contains(pattern, "daily"):
		return 1
	case strings.Contains(pattern, "week"):
		return 7
	case strings.Contains(pattern, "month"):
		return 30
	case strings.Contains(pattern, "year"):
		return 365
	default:
		return 0
	}
}

// calendarStreakDays maps a calendar pattern to the period used for streaks
// and risk. Only daily, weekly and monthly patterns are tracked.
func calendarStreakDays(pattern string) int {
	pattern = strings.ToLower(pattern)

	switch {
	case strings.Contains(pattern, "daily"):
		return 1
	case strings.Contains(pattern, "weekly"):
		return 7
	case strings.Contains(pattern, "monthly"):
		return 30
	default:
		return 0
	}
}

func unitDays(unit model.Unit) int {
	switch unit {
	case model.UnitWeeks:
		return 7
	case model.UnitMonths:
		return 30
	case model.UnitYears:
		return 365
	default:
		return 1
	}
}

func elapsedIntervalDays(r *model.RecurrenceConfig) int {
	interval := r.ElapsedInterval
	if interval == 0 {
		interval = 1
	}

	return interval * unitDays(r.ElapsedUnit)
}

func frequencyTarget(r *model.RecurrenceConfig) int {
	if r.FrequencyCount == 0 {
		return 1
	}

	return r.FrequencyCount
}

// frequencyPeriodDays converts the frequency period to days. Years are not
// a frequency unit and count as days.
func frequencyPeriodDays(r *model.RecurrenceConfig) int {
	period := r.FrequencyPeriod
	if period == 0 {
		period = defaultFrequencyPeriod
	}

	switch r.FrequencyUnit {
	case model.UnitWeeks:
		return period * 7
	case model.UnitMonths:
		return period * 30
	default:
		return period
	}
}

// wholeDays returns the number of whole days in d, rounding toward negative infinity.
func wholeDays(d time.Duration) int {
	days := int(d / day)
	if d%day < 0 {
		days--
	}

	return days
}

// CalculateStreak returns the number of consecutive recurrence periods in
// which a habit was completed on schedule. Items that are not habits, do not
// recur or were never completed have no streak.
func (e *Engine) CalculateStreak(item *model.Item) int {
	r := item.Recurrence
	if len(item.CompletionHistory) == 0 || r == nil || !item.HasTrait(model.TraitHabit) {
		return 0
	}

	history := newestFirst(item.CompletionHistory)
	now := e.clock.Now()

	switch r.Type {
	case model.RecurrenceCalendar:
		return calendarStreak(calendarStreakDays(r.CalendarPattern), history, now)
	case model.RecurrenceElapsed:
		return elapsedStreak(elapsedIntervalDays(r), history)
	case model.RecurrenceFrequency:
		return frequencyStreak(frequencyTarget(r), frequencyPeriodDays(r), history, now)
	default:
		return 0
	}
}

func newestFirst(history []model.CompletionRecord) []time.Time {
	out := make([]time.Time, 0, len(history))
	for _, rec := range history {
		out = append(out, rec.Timestamp)
	}

	slices.SortStableFunc(out, func(a, b time.Time) int { return b.Compare(a) })

	return out
}

// calendarStreak walks back from now one period at a time. Each completion
// must fall inside the current window; the first one outside ends the streak.
func calendarStreak(periodDays int, history []time.Time, now time.Time) int {
	if periodDays == 0 {
		return 0
	}

	period := time.Duration(periodDays) * day
	expected := now
	streak := 0

	for _, ts := range history {
		start := expected.Add(-period)
		if ts.Before(start) || ts.After(expected) {
			break
		}

		streak++
		expected = start
	}

	return streak
}

// elapsedStreak counts consecutive completions whose gaps stay within the
// interval plus a 20% grace.
func elapsedStreak(intervalDays int, history []time.Time) int {
	if len(history) < 2 {
		return len(history)
	}

	limit := float64(intervalDays) * elapsedGrace
	streak := 1

	for i := 0; i < len(history)-1; i++ {
		gap := wholeDays(history[i].Sub(history[i+1]))
		if float64(gap) > limit {
			break
		}

		streak++
	}

	return streak
}

// frequencyStreak counts consecutive fixed periods, newest first, that reach
// the target number of completions.
func frequencyStreak(target, periodDays int, history []time.Time, now time.Time) int {
	period := time.Duration(periodDays) * day
	end := now
	streak := 0

	for range maxFrequencyPeriods {
		start := end.Add(-period)
		if countBetween(history, start, end) < target {
			break
		}

		streak++
		end = start
	}

	return streak
}

func countBetween(history []time.Time, start, end time.Time) int {
	n := 0

	for _, ts := range history {
		if !ts.Before(start) && !ts.After(end) {
			n++
		}
	}

	return n
}

// IsStreakAtRisk reports whether a habit must be completed now to keep its
// streak: a full calendar period has passed since the last completion, or an
// elapsed interval is within one day of running out.
func (e *Engine) IsStreakAtRisk(item *model.Item) bool {
	r := item.Recurrence
	if r == nil || !item.HasTrait(model.TraitHabit) || item.LastCompleted == nil {
		return false
	}

	since := wholeDays(e.clock.Now().Sub(*item.LastCompleted))

	switch r.Type {
	case model.RecurrenceCalendar:
		period := calendarStreakDays(r.CalendarPattern)
		if period == 0 {
			return false
		}

		return since >= period
	case model.RecurrenceElapsed:
		return since >= elapsedIntervalDays(r)-1
	default:
		return false
	}
}

// FrequencyProgress is the state of a frequency goal in the current period.
type FrequencyProgress struct {
	Count             int            `json:"count"              yaml:"count"`
	Target            int            `json:"target"             yaml:"target"`
	PeriodEnd         time.Time      `json:"period_end"         yaml:"period_end"`
	DaysRemaining     int            `json:"days_remaining"     yaml:"days_remaining"`
	ThresholdPriority model.Priority `json:"threshold_priority" yaml:"threshold_priority"`
	Complete          bool           `json:"complete"           yaml:"complete"`
}

// FrequencyProgress reports progress toward a frequency goal over the
// trailing period. Returns false for items without a frequency recurrence.
//
// DaysRemaining is the full period until the item has been completed once;
// afterwards it is measured against a window that always ends now.
func (e *Engine) FrequencyProgress(item *model.Item) (FrequencyProgress, bool) {
	r := item.Recurrence
	if r == nil || r.Type != model.RecurrenceFrequency {
		return FrequencyProgress{}, false
	}

	now := e.clock.Now()
	periodDays := frequencyPeriodDays(r)
	period := time.Duration(periodDays) * day
	start := now.Add(-period)

	count := 0

	for _, rec := range item.CompletionHistory {
		if !rec.Timestamp.Before(start) {
			count++
		}
	}

	remaining := periodDays
	if item.LastCompleted != nil {
		remaining = periodDays - wholeDays(now.Sub(start))
	}

	target := frequencyTarget(r)

	return FrequencyProgress{
		Count:             count,
		Target:            target,
		PeriodEnd:         start.Add(period),
		DaysRemaining:     remaining,
		ThresholdPriority: selectThreshold(r.Thresholds, remaining),
		Complete:          count >= target,
	}, true
}

// selectThreshold returns the priority of the threshold with the smallest
// AtDaysRemaining that is still >= remaining. Ties go to the threshold listed
// last. Returns "" when no threshold applies.
func selectThreshold(thresholds []model.RecurrenceThreshold, remaining int) model.Priority {
	var best *model.RecurrenceThreshold

	for i := range thresholds {
		th := &thresholds[i]
		if th.AtDaysRemaining < remaining {
			continue
		}

		if best == nil || th.AtDaysRemaining <= best.AtDaysRemaining {
			best = th
		}
	}

	if best == nil {
		return ""
	}

	return best.Priority
}
