package engine

import (
	"slices"
	"time"

	"github.com/calvinalkan/yahtl/internal/model"
)

// Score components.
const (
	scoreOverdue       = 100
	scoreDueToday      = 50
	scoreDueThisWeek   = 20
	scoreStreakAtRisk  = 40
	scoreContextBonus  = 10
	scoreThresholdCrit = 90
	scoreThresholdHigh = 60
	scoreThresholdMed  = 30
	scorePriorityHigh  = 50
	scorePriorityMed   = 25
	scorePriorityLow   = 10
)

// QueueEntry is a ranked queue item. Item is a copy; mutating it does not
// affect the list it came from.
type QueueEntry struct {
	Item     model.Item `json:"item"      yaml:"item"`
	ListID   string     `json:"list_id"   yaml:"list_id"`
	ListName string     `json:"list_name" yaml:"list_name"`
	Score    int        `json:"score"     yaml:"score"`
}

// PrioritizedQueue returns the actionable, open, unblocked items whose
// requirements are met in ctx, ordered by score descending, then due date
// and creation time ascending. Items without a due date or creation time
// sort after those with one.
//
// A positive availableTime drops items whose time estimate exceeds it.
func (e *Engine) PrioritizedQueue(lists []*model.List, ctx Context, availableTime *int) []QueueEntry {
	var entries []QueueEntry

	for _, l := range lists {
		for _, item := range l.Items {
			if !item.HasTrait(model.TraitActionable) || !item.IsOpen() {
				continue
			}

			if blocked, reasons := e.IsItemBlocked(item, lists); blocked {
				e.log.Debug("queue: item blocked", "item", item.UID, "reasons", reasons)

				continue
			}

			if met, reasons := e.CheckRequirementsMet(item, ctx); !met {
				e.log.Debug("queue: requirements not met", "item", item.UID, "reasons", reasons)

				continue
			}

			if availableTime != nil && *availableTime > 0 &&
				item.TimeEstimate != nil && *item.TimeEstimate > *availableTime {
				e.log.Debug("queue: exceeds available time", "item", item.UID, "estimate", *item.TimeEstimate)

				continue
			}

			entries = append(entries, QueueEntry{
				Item:     item.Clone(),
				ListID:   l.ListID,
				ListName: l.Name,
				Score:    e.Score(item, ctx),
			})
		}
	}

	slices.SortStableFunc(entries, compareEntries)

	return entries
}

func compareEntries(a, b QueueEntry) int {
	if a.Score != b.Score {
		return b.Score - a.Score
	}

	if c := compareMissingLast(a.Item.Due, b.Item.Due); c != 0 {
		return c
	}

	return compareMissingLast(timePtr(a.Item.CreatedAt), timePtr(b.Item.CreatedAt))
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func compareMissingLast(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

// Score ranks an item for the queue. Higher is more urgent.
func (e *Engine) Score(item *model.Item, ctx Context) int {
	score := 0

	if item.Due != nil {
		until := item.Due.Sub(e.clock.Now())

		switch {
		case until < 0:
			score += scoreOverdue
		case until < day:
			score += scoreDueToday
		case until < 7*day:
			score += scoreDueThisWeek
		}
	}

	if progress, ok := e.FrequencyProgress(item); ok {
		switch progress.ThresholdPriority {
		case model.PriorityCritical:
			score += scoreThresholdCrit
		case model.PriorityHigh:
			score += scoreThresholdHigh
		case model.PriorityMedium:
			score += scoreThresholdMed
		}
	}

	if item.HasTrait(model.TraitHabit) && e.IsStreakAtRisk(item) {
		score += scoreStreakAtRisk
	}

	switch item.Priority {
	case model.PriorityHigh:
		score += scorePriorityHigh
	case model.PriorityMedium:
		score += scorePriorityMed
	case model.PriorityLow:
		score += scorePriorityLow
	}

	return score + contextBonus(item.Requirements, ctx)
}

// contextBonus rewards items whose requirements fit the context well: any
// ALL-mode requirements (already known to be met), or ANY-mode requirements
// matching on more than one of location, people, time and context.
func contextBonus(req *model.RequirementsConfig, ctx Context) int {
	if req == nil {
		return 0
	}

	if modeOr(req.Mode, model.ModeAny) == model.ModeAll {
		return scoreContextBonus
	}

	matches := 0

	if len(req.Location) > 0 && locationMatches(req, ctx) {
		matches++
	}

	if len(req.People) > 0 && peopleMatch(req, ctx) {
		matches++
	}

	if len(req.TimeConstraints) > 0 && timeMatches(req, ctx) {
		matches++
	}

	if len(req.Context) > 0 && contextMatches(req, ctx) {
		matches++
	}

	if matches > 1 {
		return scoreContextBonus
	}

	return 0
}
