package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Item is a yahtl item. UID is stamped at creation and never changes.
type Item struct {
	UID         string
	Title       string
	Description string

	Traits []Trait
	Tags   []string

	Status      Status
	NeedsDetail bool

	Due          *time.Time
	TimeEstimate *int // minutes
	BufferBefore int  // minutes
	BufferAfter  int  // minutes

	Recurrence   *RecurrenceConfig
	Blockers     *BlockerConfig
	Requirements *RequirementsConfig
	Priority     Priority // empty means none

	CompletionHistory []CompletionRecord
	CurrentStreak     int
	LastCompleted     *time.Time
	CreatedAt         time.Time
	CreatedBy         string
}

// NewItem creates a pending actionable item with a fresh uid.
func NewItem(title, createdBy string, now time.Time) *Item {
	return &Item{
		UID:       NewUID(),
		Title:     title,
		Traits:    []Trait{TraitActionable},
		Tags:      []string{},
		Status:    StatusPending,
		CreatedAt: now,
		CreatedBy: createdBy,
	}
}

// NewUID returns a random item uid.
func NewUID() string {
	return uuid.NewString()
}

// HasTrait reports whether the item carries trait.
func (it *Item) HasTrait(trait Trait) bool {
	return slices.Contains(it.Traits, trait)
}

// SetTraits replaces the traits, dropping duplicates and keeping first-seen order.
func (it *Item) SetTraits(traits []Trait) {
	out := make([]Trait, 0, len(traits))

	for _, t := range traits {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}

	it.Traits = out
}

// AddTags appends tags not already present.
func (it *Item) AddTags(tags ...string) {
	for _, tag := range tags {
		if !slices.Contains(it.Tags, tag) {
			it.Tags = append(it.Tags, tag)
		}
	}
}

// RemoveTags drops every occurrence of the given tags.
func (it *Item) RemoveTags(tags ...string) {
	it.Tags = slices.DeleteFunc(it.Tags, func(t string) bool {
		return slices.Contains(tags, t)
	})
}

// RecordCompletion appends a completion record, updates LastCompleted and
// evicts the oldest records beyond CompletionHistoryCap. Status and streak
// are left to the caller.
func (it *Item) RecordCompletion(userID string, at time.Time) {
	it.CompletionHistory = append(it.CompletionHistory, CompletionRecord{UserID: userID, Timestamp: at})

	if over := len(it.CompletionHistory) - CompletionHistoryCap; over > 0 {
		it.CompletionHistory = slices.Clone(it.CompletionHistory[over:])
	}

	last := at
	it.LastCompleted = &last
}

// IsOpen reports whether the item still needs doing.
func (it *Item) IsOpen() bool {
	return it.Status == StatusPending || it.Status == StatusInProgress
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() Item {
	c := *it
	c.Traits = slices.Clone(it.Traits)
	c.Tags = slices.Clone(it.Tags)
	c.CompletionHistory = slices.Clone(it.CompletionHistory)
	c.Due = cloneTime(it.Due)
	c.LastCompleted = cloneTime(it.LastCompleted)

	if it.TimeEstimate != nil {
		v := *it.TimeEstimate
		c.TimeEstimate = &v
	}

	if it.Recurrence != nil {
		r := *it.Recurrence
		r.Thresholds = slices.Clone(it.Recurrence.Thresholds)
		c.Recurrence = &r
	}

	if it.Blockers != nil {
		b := *it.Blockers
		b.Items = slices.Clone(it.Blockers.Items)
		b.Sensors = slices.Clone(it.Blockers.Sensors)
		c.Blockers = &b
	}

	if it.Requirements != nil {
		r := *it.Requirements
		r.Location = slices.Clone(it.Requirements.Location)
		r.People = slices.Clone(it.Requirements.People)
		r.TimeConstraints = slices.Clone(it.Requirements.TimeConstraints)
		r.Context = slices.Clone(it.Requirements.Context)
		r.Sensors = slices.Clone(it.Requirements.Sensors)
		c.Requirements = &r
	}

	return c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}

	v := *t

	return &v
}
