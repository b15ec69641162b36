// Package ambient provides the external entity states the engine consults:
// sensors that block items or satisfy requirements, and the people whose
// presence decides the current location.
//
// States come from a JSONC snapshot file, typically written by a home
// automation bridge:
//
//	{
//	  "entities": {
//	    "binary_sensor.door": {"state": "on"},
//	    "person.alice": {"state": "home", "name": "Alice"}, // trailing commas ok
//	  }
//	}
package ambient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/yahtl/internal/engine"
)

// ErrInvalidSnapshot is returned when a snapshot file cannot be parsed.
var ErrInvalidSnapshot = errors.New("invalid state snapshot")

// personPrefix marks entities that track a person.
const personPrefix = "person."

// Entity is the recorded state of one external entity.
type Entity struct {
	State string `json:"state"`
	Name  string `json:"name,omitempty"`
}

// Snapshot maps entity ids to their state. It implements engine.Sensors
// and engine.Presence.
type Snapshot map[string]Entity

var (
	_ engine.Sensors  = Snapshot(nil)
	_ engine.Presence = Snapshot(nil)
)

type snapshotFile struct {
	Entities map[string]Entity `json:"entities"`
}

// Load reads the snapshot at path. An empty path or a missing file yields an
// empty snapshot.
func Load(path string) (Snapshot, error) {
	if path == "" {
		return Snapshot{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{}, nil
		}

		return nil, fmt.Errorf("reading state snapshot: %w", err)
	}

	snap, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrInvalidSnapshot, path, err)
	}

	return snap, nil
}

// Parse decodes a JSONC snapshot document.
func Parse(data []byte) (Snapshot, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var f snapshotFile

	err = json.Unmarshal(standardized, &f)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if f.Entities == nil {
		return Snapshot{}, nil
	}

	return Snapshot(f.Entities), nil
}

// Static builds a snapshot from entity id to state.
func Static(states map[string]string) Snapshot {
	s := make(Snapshot, len(states))
	for id, st := range states {
		s[id] = Entity{State: st}
	}

	return s
}

// State returns the state of the entity with the given id.
func (s Snapshot) State(id string) (engine.EntityState, bool) {
	ent, ok := s[id]
	if !ok {
		return engine.EntityState{}, false
	}

	return engine.EntityState{State: ent.State, DisplayName: displayName(id, ent)}, true
}

// Persons returns every person entity, ordered by id.
func (s Snapshot) Persons() []engine.EntityState {
	ids := make([]string, 0, len(s))

	for id := range s {
		if strings.HasPrefix(id, personPrefix) {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	out := make([]engine.EntityState, 0, len(ids))
	for _, id := range ids {
		ent := s[id]
		out = append(out, engine.EntityState{State: ent.State, DisplayName: displayName(id, ent)})
	}

	return out
}

func displayName(id string, ent Entity) string {
	if ent.Name != "" {
		return ent.Name
	}

	return id
}
