package engine

import (
	"time"

	"github.com/calvinalkan/yahtl/internal/model"
)

// Presence states and derived locations.
const (
	personHome   = "home"
	locationHome = "home"
	locationAway = "away"
)

// Time constraints.
const (
	TimeMorning       = "morning"
	TimeBusinessHours = "business_hours"
	TimeEvening       = "evening"
	TimeNight         = "night"
	TimeWeekend       = "weekend"
)

// Context is the situation items are evaluated in.
type Context struct {
	Location       string   `json:"location"        yaml:"location"`
	People         []string `json:"people"          yaml:"people"`
	TimeConstraint string   `json:"time_constraint" yaml:"time_constraint"`
	Contexts       []string `json:"contexts"        yaml:"contexts"`
}

// WithOverride returns c with the non-empty fields of o replacing its own.
func (c Context) WithOverride(o model.ContextOverride) Context {
	if o.Location != "" {
		c.Location = o.Location
	}

	if len(o.People) > 0 {
		c.People = o.People
	}

	if len(o.Contexts) > 0 {
		c.Contexts = o.Contexts
	}

	return c
}

// TimeConstraint classifies t. Weekends win over the hour of day.
func TimeConstraint(t time.Time) string {
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return TimeWeekend
	}

	switch h := t.Hour(); {
	case h >= 6 && h < 9:
		return TimeMorning
	case h >= 9 && h < 17:
		return TimeBusinessHours
	case h >= 17 && h < 21:
		return TimeEvening
	default:
		return TimeNight
	}
}

// CurrentContext derives the context from presence and the clock. People at
// home are listed by display name; the location is home when anyone is.
func (e *Engine) CurrentContext(presence Presence) Context {
	ctx := Context{
		Location:       locationAway,
		People:         []string{},
		TimeConstraint: TimeConstraint(e.clock.Now()),
		Contexts:       []string{},
	}

	if presence == nil {
		return ctx
	}

	for _, p := range presence.Persons() {
		if p.State == personHome {
			ctx.People = append(ctx.People, p.DisplayName)
		}
	}

	if len(ctx.People) > 0 {
		ctx.Location = locationHome
	}

	return ctx
}
