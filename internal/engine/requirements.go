package engine

import (
	"fmt"
	"slices"
	"strings"

	"github.com/calvinalkan/yahtl/internal/model"
)

// CheckRequirementsMet reports whether ctx satisfies the item's
// requirements. Reasons name each configured sub-requirement that failed
// and are empty whenever the requirements are met.
//
// In ALL mode every sub-requirement must hold, unconfigured ones holding
// vacuously. In ANY mode at least one configured sub-requirement must hold;
// with nothing configured the requirements are met.
func (e *Engine) CheckRequirementsMet(item *model.Item, ctx Context) (bool, []string) {
	req := item.Requirements
	if req == nil {
		return true, nil
	}

	checks := e.requirementChecks(req, ctx)

	var met bool

	switch modeOr(req.Mode, model.ModeAny) {
	case model.ModeAll:
		met = true

		for _, c := range checks {
			if c.configured && !c.met {
				met = false
			}
		}
	default:
		configured := false

		for _, c := range checks {
			if c.configured {
				configured = true

				if c.met {
					met = true
				}
			}
		}

		if !configured {
			met = true
		}
	}

	if met {
		return true, nil
	}

	var reasons []string

	for _, c := range checks {
		if c.configured && !c.met {
			reasons = append(reasons, c.reason)
		}
	}

	return false, reasons
}

type requirementCheck struct {
	configured bool
	met        bool
	reason     string
}

func (e *Engine) requirementChecks(req *model.RequirementsConfig, ctx Context) []requirementCheck {
	return []requirementCheck{
		{
			configured: len(req.Location) > 0,
			met:        locationMatches(req, ctx),
			reason:     fmt.Sprintf("Location '%s' not in required: %s", ctx.Location, formatSet(req.Location)),
		},
		{
			configured: len(req.People) > 0,
			met:        peopleMatch(req, ctx),
			reason:     "Required people not present: " + formatSet(req.People),
		},
		{
			configured: len(req.TimeConstraints) > 0,
			met:        timeMatches(req, ctx),
			reason:     "Time constraint not met: needs " + formatSet(req.TimeConstraints),
		},
		{
			configured: len(req.Context) > 0,
			met:        contextMatches(req, ctx),
			reason:     "Required context not available: " + formatSet(req.Context),
		},
		{
			configured: len(req.Sensors) > 0,
			met:        slices.ContainsFunc(req.Sensors, e.sensorOn),
			reason:     "Required sensors not on: " + formatSet(req.Sensors),
		},
	}
}

func locationMatches(req *model.RequirementsConfig, ctx Context) bool {
	return slices.Contains(req.Location, ctx.Location)
}

func peopleMatch(req *model.RequirementsConfig, ctx Context) bool {
	return intersects(ctx.People, req.People)
}

func timeMatches(req *model.RequirementsConfig, ctx Context) bool {
	return slices.Contains(req.TimeConstraints, ctx.TimeConstraint)
}

func contextMatches(req *model.RequirementsConfig, ctx Context) bool {
	return intersects(ctx.Contexts, req.Context)
}

func intersects(have, want []string) bool {
	return slices.ContainsFunc(have, func(s string) bool { return slices.Contains(want, s) })
}

func formatSet(values []string) string {
	return "[" + strings.Join(values, ", ") + "]"
}
