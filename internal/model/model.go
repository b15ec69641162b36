// Package model defines the yahtl data model: items with composable traits,
// the lists that own them, and the recurrence, blocker and requirement
// configurations the engine evaluates.
package model

import (
	"slices"
	"time"
)

// Trait is a composable flag on an item.
type Trait string

// Traits.
const (
	TraitActionable Trait = "actionable"
	TraitRecurring  Trait = "recurring"
	TraitHabit      Trait = "habit"
	TraitChore      Trait = "chore"
	TraitReminder   Trait = "reminder"
	TraitNote       Trait = "note"
)

// AllTraits lists every valid trait in canonical order.
var AllTraits = []Trait{TraitActionable, TraitRecurring, TraitHabit, TraitChore, TraitReminder, TraitNote}

// Status is the lifecycle state of an item.
type Status string

// Statuses.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusMissed     Status = "missed"
)

// AllStatuses lists every valid status.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusMissed}

// Mode combines several boolean conditions.
type Mode string

// Modes.
const (
	ModeAny Mode = "ANY"
	ModeAll Mode = "ALL"
)

// RecurrenceType selects which fields of a RecurrenceConfig are read.
type RecurrenceType string

// Recurrence types.
const (
	RecurrenceCalendar  RecurrenceType = "calendar"
	RecurrenceElapsed   RecurrenceType = "elapsed"
	RecurrenceFrequency RecurrenceType = "frequency"
)

// Unit is a coarse calendar unit. Months are 30 days, years 365.
type Unit string

// Units.
const (
	UnitDays   Unit = "days"
	UnitWeeks  Unit = "weeks"
	UnitMonths Unit = "months"
	UnitYears  Unit = "years"
)

// Priority is an explicit item priority or a frequency threshold priority.
// Items use low/medium/high; thresholds may also use critical.
type Priority string

// Priorities.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Visibility controls who can see a list.
type Visibility string

// Visibilities.
const (
	VisibilityPrivate Visibility = "private"
	VisibilityShared  Visibility = "shared"
)

// CompletionHistoryCap is the maximum number of completion records kept per item.
const CompletionHistoryCap = 365

// CompletionRecord records a single completion of an item.
type CompletionRecord struct {
	UserID    string
	Timestamp time.Time
}

// RecurrenceThreshold raises the priority of a frequency goal once the
// remaining days in the period drop to AtDaysRemaining.
type RecurrenceThreshold struct {
	AtDaysRemaining int      `json:"at_days_remaining"`
	Priority        Priority `json:"priority"`
}

// RecurrenceConfig describes how an item repeats. Type determines which of
// the remaining fields are read; fields of other types are ignored.
// Zero numeric fields and empty units mean "use the default".
type RecurrenceConfig struct {
	Type            RecurrenceType        `json:"type"`
	CalendarPattern string                `json:"calendar_pattern,omitempty"`
	ElapsedInterval int                   `json:"elapsed_interval,omitempty"`
	ElapsedUnit     Unit                  `json:"elapsed_unit,omitempty"`
	FrequencyCount  int                   `json:"frequency_count,omitempty"`
	FrequencyPeriod int                   `json:"frequency_period,omitempty"`
	FrequencyUnit   Unit                  `json:"frequency_unit,omitempty"`
	Thresholds      []RecurrenceThreshold `json:"thresholds"`
}

// BlockerConfig suppresses an item while other items are incomplete or
// sensors are on. Mode combines the item and sensor categories; ItemMode and
// SensorMode combine the references within each category.
type BlockerConfig struct {
	Mode       Mode     `json:"mode"`
	Items      []string `json:"items"`
	ItemMode   Mode     `json:"item_mode"`
	Sensors    []string `json:"sensors"`
	SensorMode Mode     `json:"sensor_mode"`
}

// DefaultBlockerConfig returns an empty blocker config with default modes.
func DefaultBlockerConfig() BlockerConfig {
	return BlockerConfig{Mode: ModeAll, ItemMode: ModeAny, SensorMode: ModeAny}
}

// RequirementsConfig lists the ambient conditions under which an item is
// actionable.
type RequirementsConfig struct {
	Mode            Mode     `json:"mode"`
	Location        []string `json:"location"`
	People          []string `json:"people"`
	TimeConstraints []string `json:"time_constraints"`
	Context         []string `json:"context"`
	Sensors         []string `json:"sensors"`
}

// DefaultRequirementsConfig returns an empty requirements config with the default mode.
func DefaultRequirementsConfig() RequirementsConfig {
	return RequirementsConfig{Mode: ModeAny}
}

// ContextOverride is a caller-supplied context snapshot layered over the
// context derived from ambient state.
type ContextOverride struct {
	Location  string
	People    []string
	Contexts  []string
	UpdatedAt time.Time
}

// IsEmpty reports whether the override changes nothing.
func (o ContextOverride) IsEmpty() bool {
	return o.Location == "" && len(o.People) == 0 && len(o.Contexts) == 0
}

// IsValidTrait reports whether trait is a known trait.
func IsValidTrait(trait Trait) bool {
	return slices.Contains(AllTraits, trait)
}

// IsValidStatus reports whether status is a known status.
func IsValidStatus(status Status) bool {
	return slices.Contains(AllStatuses, status)
}

// IsValidMode reports whether mode is ANY or ALL.
func IsValidMode(mode Mode) bool {
	return mode == ModeAny || mode == ModeAll
}

// IsValidRecurrenceType reports whether t is a known recurrence type.
func IsValidRecurrenceType(t RecurrenceType) bool {
	switch t {
	case RecurrenceCalendar, RecurrenceElapsed, RecurrenceFrequency:
		return true
	default:
		return false
	}
}

// IsValidUnit reports whether unit is a known unit. Frequency goals do not
// accept years.
func IsValidUnit(unit Unit, allowYears bool) bool {
	switch unit {
	case UnitDays, UnitWeeks, UnitMonths:
		return true
	case UnitYears:
		return allowYears
	default:
		return false
	}
}

// IsValidPriority reports whether p is a valid explicit item priority.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// IsValidThresholdPriority reports whether p is a valid threshold priority.
func IsValidThresholdPriority(p Priority) bool {
	return IsValidPriority(p) || p == PriorityCritical
}

// IsValidVisibility reports whether v is a known visibility.
func IsValidVisibility(v Visibility) bool {
	return v == VisibilityPrivate || v == VisibilityShared
}
