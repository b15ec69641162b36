package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/yahtl/internal/engine"
	"github.com/calvinalkan/yahtl/internal/model"
)

const day = 24 * time.Hour

func Test_CalculateNextDue(t *testing.T) {
	t.Parallel()

	completed := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		rec    *model.RecurrenceConfig
		wantOK bool
		want   time.Time
	}{
		{name: "no recurrence"},
		{name: "daily", rec: &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "Daily"}, wantOK: true, want: completed.Add(day)},
		{name: "weekly", rec: &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "every week"}, wantOK: true, want: completed.Add(7 * day)},
		{name: "monthly", rec: &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "monthly"}, wantOK: true, want: completed.Add(30 * day)},
		{name: "yearly", rec: &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "yearly"}, wantOK: true, want: completed.Add(365 * day)},
		{name: "unsupported pattern", rec: &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "every other tuesday"}},
		{name: "empty pattern", rec: &model.RecurrenceConfig{Type: model.RecurrenceCalendar}},
		{name: "elapsed default", rec: &model.RecurrenceConfig{Type: model.RecurrenceElapsed}, wantOK: true, want: completed.Add(day)},
		{name: "elapsed weeks", rec: &model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 2, ElapsedUnit: model.UnitWeeks}, wantOK: true, want: completed.Add(14 * day)},
		{name: "elapsed months", rec: &model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 3, ElapsedUnit: model.UnitMonths}, wantOK: true, want: completed.Add(90 * day)},
		{name: "frequency", rec: &model.RecurrenceConfig{Type: model.RecurrenceFrequency, FrequencyCount: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			it := newItem("a", "A")
			it.Recurrence = tt.rec

			got, ok := newEngine(nil, testNow).CalculateNextDue(it, completed)
			require.Equal(t, tt.wantOK, ok)

			if ok {
				assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			}
		})
	}
}

func Test_CalculateNextDue_Defaults_To_Now(t *testing.T) {
	t.Parallel()

	it := newItem("a", "A")
	it.Recurrence = &model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 5}

	got, ok := newEngine(nil, testNow).CalculateNextDue(it, time.Time{})
	require.True(t, ok)
	assert.True(t, testNow.Add(5*day).Equal(got), "got %s", got)
}

func habit(rec *model.RecurrenceConfig, history ...time.Time) *model.Item {
	it := newItem("h", "Habit")
	it.Traits = []model.Trait{model.TraitActionable, model.TraitHabit}
	it.Recurrence = rec
	it.CompletionHistory = completions(history...)

	for _, ts := range history {
		if it.LastCompleted == nil || ts.After(*it.LastCompleted) {
			it.LastCompleted = ptr(ts)
		}
	}

	return it
}

func Test_CalculateStreak(t *testing.T) {
	t.Parallel()

	daily := &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "daily"}

	tests := []struct {
		name string
		item *model.Item
		want int
	}{
		{name: "no history", item: habit(daily), want: 0},
		{
			name: "not a habit",
			item: func() *model.Item {
				it := habit(daily, daysAgo(0.5))
				it.Traits = []model.Trait{model.TraitActionable}

				return it
			}(),
			want: 0,
		},
		{name: "daily consecutive", item: habit(daily, daysAgo(2.5), daysAgo(0.5), daysAgo(1.5)), want: 3},
		{name: "daily stops at gap", item: habit(daily, daysAgo(0.5), daysAgo(2.5), daysAgo(3.5)), want: 1},
		{name: "daily broken today", item: habit(daily, daysAgo(1.5)), want: 0},
		{
			name: "weekly",
			item: habit(&model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "weekly"}, daysAgo(1), daysAgo(8), daysAgo(22)),
			want: 2,
		},
		{
			name: "untracked calendar pattern",
			item: habit(&model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "yearly"}, daysAgo(1)),
			want: 0,
		},
		{
			name: "elapsed single completion",
			item: habit(&model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 1}, daysAgo(40)),
			want: 1,
		},
		{
			name: "elapsed within grace",
			item: habit(&model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 1}, daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(5)),
			want: 3,
		},
		{
			name: "elapsed weekly with a late completion",
			item: habit(&model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 1, ElapsedUnit: model.UnitWeeks}, daysAgo(0), daysAgo(8), daysAgo(17)),
			want: 2,
		},
		{
			name: "frequency",
			item: habit(
				&model.RecurrenceConfig{Type: model.RecurrenceFrequency, FrequencyCount: 2, FrequencyPeriod: 1, FrequencyUnit: model.UnitWeeks},
				daysAgo(1), daysAgo(2), daysAgo(8), daysAgo(9), daysAgo(15),
			),
			want: 2,
		},
		{
			name: "frequency current period short",
			item: habit(
				&model.RecurrenceConfig{Type: model.RecurrenceFrequency, FrequencyCount: 2, FrequencyPeriod: 7},
				daysAgo(1), daysAgo(8), daysAgo(9),
			),
			want: 0,
		},
		{
			// A non-positive count is met by every period, so only the walk bound stops it.
			name: "frequency walk stops at 1000 periods",
			item: habit(
				&model.RecurrenceConfig{Type: model.RecurrenceFrequency, FrequencyCount: -1, FrequencyPeriod: 1},
				daysAgo(0.5),
			),
			want: 1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := newEngine(nil, testNow).CalculateStreak(tt.item)
			if got != tt.want {
				t.Fatalf("streak=%d, want=%d", got, tt.want)
			}
		})
	}
}

func Test_IsStreakAtRisk(t *testing.T) {
	t.Parallel()

	daily := &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "daily"}
	weekly := &model.RecurrenceConfig{Type: model.RecurrenceCalendar, CalendarPattern: "weekly"}
	every3 := &model.RecurrenceConfig{Type: model.RecurrenceElapsed, ElapsedInterval: 3}

	tests := []struct {
		name string
		item *model.Item
		want bool
	}{
		{name: "never completed", item: habit(daily), want: false},
		{name: "daily done today", item: habit(daily, daysAgo(0.5)), want: false},
		{name: "daily a day ago", item: habit(daily, daysAgo(1.5)), want: true},
		{name: "weekly recent", item: habit(weekly, daysAgo(3)), want: false},
		{name: "weekly overdue", item: habit(weekly, daysAgo(7)), want: true},
		{name: "elapsed one day left", item: habit(every3, daysAgo(2)), want: true},
		{name: "elapsed plenty left", item: habit(every3, daysAgo(1)), want: false},
		{name: "frequency never at risk", item: habit(&model.RecurrenceConfig{Type: model.RecurrenceFrequency}, daysAgo(40)), want: false},
		{
			name: "not a habit",
			item: func() *model.Item {
				it := habit(daily, daysAgo(3))
				it.Traits = []model.Trait{model.TraitRecurring}

				return it
			}(),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := newEngine(nil, testNow).IsStreakAtRisk(tt.item); got != tt.want {
				t.Fatalf("at risk=%v, want=%v", got, tt.want)
			}
		})
	}
}

func Test_FrequencyProgress(t *testing.T) {
	t.Parallel()

	e := newEngine(nil, testNow)

	rec := &model.RecurrenceConfig{
		Type:            model.RecurrenceFrequency,
		FrequencyCount:  3,
		FrequencyPeriod: 1,
		FrequencyUnit:   model.UnitWeeks,
		Thresholds: []model.RecurrenceThreshold{
			{AtDaysRemaining: 3, Priority: model.PriorityHigh},
			{AtDaysRemaining: 1, Priority: model.PriorityCritical},
		},
	}

	it := newItem("f", "Gym")
	it.Recurrence = rec
	it.CompletionHistory = completions(daysAgo(1), daysAgo(3), daysAgo(10))
	it.LastCompleted = ptr(daysAgo(1))

	got, ok := e.FrequencyProgress(it)
	require.True(t, ok)

	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 3, got.Target)
	assert.False(t, got.Complete)
	assert.Equal(t, 0, got.DaysRemaining)
	assert.True(t, testNow.Equal(got.PeriodEnd))
	assert.Equal(t, model.PriorityCritical, got.ThresholdPriority)

	it.CompletionHistory = append(it.CompletionHistory, completions(daysAgo(2))...)

	got, _ = e.FrequencyProgress(it)
	assert.True(t, got.Complete)
}

func Test_FrequencyProgress_Before_First_Completion(t *testing.T) {
	t.Parallel()

	e := newEngine(nil, testNow)

	it := newItem("f", "Gym")
	it.Recurrence = &model.RecurrenceConfig{
		Type:            model.RecurrenceFrequency,
		FrequencyPeriod: 7,
		Thresholds:      []model.RecurrenceThreshold{{AtDaysRemaining: 3, Priority: model.PriorityHigh}},
	}

	got, ok := e.FrequencyProgress(it)
	require.True(t, ok)
	assert.Equal(t, engine.FrequencyProgress{
		Count:         0,
		Target:        1,
		PeriodEnd:     got.PeriodEnd,
		DaysRemaining: 7,
	}, got)

	it.Recurrence.Thresholds = append(it.Recurrence.Thresholds, model.RecurrenceThreshold{AtDaysRemaining: 7, Priority: model.PriorityMedium})

	got, _ = e.FrequencyProgress(it)
	assert.Equal(t, model.PriorityMedium, got.ThresholdPriority)
}

func Test_FrequencyProgress_Threshold_Ties_Prefer_Last(t *testing.T) {
	t.Parallel()

	it := newItem("f", "Gym")
	it.Recurrence = &model.RecurrenceConfig{
		Type: model.RecurrenceFrequency,
		Thresholds: []model.RecurrenceThreshold{
			{AtDaysRemaining: 2, Priority: model.PriorityHigh},
			{AtDaysRemaining: 2, Priority: model.PriorityCritical},
		},
	}
	it.LastCompleted = ptr(daysAgo(3))

	got, ok := newEngine(nil, testNow).FrequencyProgress(it)
	require.True(t, ok)
	assert.Equal(t, model.PriorityCritical, got.ThresholdPriority)
}

func Test_FrequencyProgress_Rejects_Other_Recurrence(t *testing.T) {
	t.Parallel()

	it := newItem("a", "A")
	it.Recurrence = &model.RecurrenceConfig{Type: model.RecurrenceElapsed}

	_, ok := newEngine(nil, testNow).FrequencyProgress(it)
	assert.False(t, ok)

	it.Recurrence = nil

	_, ok = newEngine(nil, testNow).FrequencyProgress(it)
	assert.False(t, ok)
}
