package engine

import (
	"fmt"
	"strings"

	"github.com/calvinalkan/yahtl/internal/model"
)

// IsItemBlocked reports whether item is blocked by incomplete items or by
// sensors that are on, with one reason per blocking reference.
//
// Blocker uids are resolved against lists in order; the first list holding
// the uid wins. Unresolvable uids and unknown sensors never block. A
// category without references is left out of the cross-category
// combination. Reasons are empty whenever the item is not blocked.
func (e *Engine) IsItemBlocked(item *model.Item, lists []*model.List) (bool, []string) {
	b := item.Blockers
	if b == nil {
		return false, nil
	}

	hasItems := len(b.Items) > 0
	hasSensors := len(b.Sensors) > 0

	if !hasItems && !hasSensors {
		return false, nil
	}

	var (
		reasons       []string
		itemBlocked   bool
		sensorBlocked bool
	)

	if hasItems {
		var r []string
		itemBlocked, r = e.itemCategoryBlocked(item.UID, b, lists)
		reasons = append(reasons, r...)
	}

	if hasSensors {
		var r []string
		sensorBlocked, r = e.sensorCategoryBlocked(b)
		reasons = append(reasons, r...)
	}

	var blocked bool

	switch modeOr(b.Mode, model.ModeAll) {
	case model.ModeAny:
		blocked = itemBlocked || sensorBlocked
	default:
		blocked = (!hasItems || itemBlocked) && (!hasSensors || sensorBlocked)
	}

	if !blocked {
		return false, nil
	}

	return true, reasons
}

func (e *Engine) itemCategoryBlocked(uid string, b *model.BlockerConfig, lists []*model.List) (bool, []string) {
	var incomplete, complete []*model.Item

	for _, ref := range b.Items {
		found := findItem(lists, ref)
		if found == nil {
			e.log.Debug("blocker reference not found", "item", uid, "blocker", ref)

			continue
		}

		if found.Status == model.StatusCompleted {
			complete = append(complete, found)
		} else {
			incomplete = append(incomplete, found)
		}
	}

	var reasons []string

	for _, it := range incomplete {
		reasons = append(reasons, fmt.Sprintf("Item '%s' not completed", it.Title))
	}

	if modeOr(b.ItemMode, model.ModeAny) == model.ModeAll {
		found := len(incomplete) + len(complete)
		if found > 0 && len(incomplete) == found {
			return true, reasons
		}

		if len(complete) > 0 {
			return false, []string{"Items completed: " + joinTitles(complete)}
		}

		return false, nil
	}

	return len(incomplete) > 0, reasons
}

func (e *Engine) sensorCategoryBlocked(b *model.BlockerConfig) (bool, []string) {
	var on, off []string

	for _, id := range b.Sensors {
		if e.sensorOn(id) {
			on = append(on, id)
		} else {
			off = append(off, id)
		}
	}

	var reasons []string

	for _, id := range on {
		reasons = append(reasons, fmt.Sprintf("Sensor %s is on", id))
	}

	if modeOr(b.SensorMode, model.ModeAny) == model.ModeAll {
		if len(off) == 0 {
			return true, reasons
		}

		return false, []string{"Sensors off: " + strings.Join(off, ", ")}
	}

	return len(on) > 0, reasons
}

// findItem returns the first item with uid across lists, in list order.
func findItem(lists []*model.List, uid string) *model.Item {
	for _, l := range lists {
		if it := l.Item(uid); it != nil {
			return it
		}
	}

	return nil
}

func joinTitles(items []*model.Item) string {
	titles := make([]string, 0, len(items))
	for _, it := range items {
		titles = append(titles, "'"+it.Title+"'")
	}

	return strings.Join(titles, ", ")
}

// modeOr returns mode if it is ANY or ALL, else fallback.
func modeOr(mode, fallback model.Mode) model.Mode {
	if model.IsValidMode(mode) {
		return mode
	}

	return fallback
}
