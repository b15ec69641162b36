// Package engine evaluates yahtl items against each other and against the
// ambient context: blocker resolution, requirement matching, recurrence and
// streak computation, and the prioritized queue.
//
// Every method is a pure function of its arguments, the injected clock and
// the read-only sensor lookup. The engine never mutates items and holds no
// mutable state, so one Engine may be shared across goroutines as long as
// the lists passed to a single call are not mutated during that call.
package engine

import (
	"log/slog"

	"github.com/calvinalkan/yahtl/internal/clock"
)

// stateOn is the only entity state the engine interprets.
const stateOn = "on"

// EntityState is the state of an external entity (sensor or person).
type EntityState struct {
	State       string
	DisplayName string
}

// Sensors looks up external entity states by id.
type Sensors interface {
	State(entityID string) (EntityState, bool)
}

// Presence enumerates tracked people.
type Presence interface {
	Persons() []EntityState
}

// Engine evaluates items. The zero value is not usable; use New.
type Engine struct {
	sensors Sensors
	clock   clock.Clock
	log     *slog.Logger
}

// New returns an Engine. A nil sensors reports every sensor as unknown, a
// nil clock uses the wall clock and a nil logger discards output.
func New(sensors Sensors, clk clock.Clock, logger *slog.Logger) *Engine {
	if sensors == nil {
		sensors = noSensors{}
	}

	if clk == nil {
		clk = clock.Real()
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Engine{sensors: sensors, clock: clk, log: logger}
}

// sensorOn reports whether the sensor exists and is on.
func (e *Engine) sensorOn(id string) bool {
	st, ok := e.sensors.State(id)

	return ok && st.State == stateOn
}

type noSensors struct{}

func (noSensors) State(string) (EntityState, bool) { return EntityState{}, false }
