package ambient_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/yahtl/internal/ambient"
	"github.com/calvinalkan/yahtl/internal/engine"
)

func Test_Load_Parses_JSONC_Snapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	err := os.WriteFile(path, []byte(`{
		// written by the bridge
		"entities": {
			"binary_sensor.door": {"state": "on"},
			"person.bob": {"state": "not_home", "name": "Bob"},
			"person.alice": {"state": "home", "name": "Alice"},
			"person.guest": {"state": "home"},
		},
	}`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	snap, err := ambient.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	st, ok := snap.State("binary_sensor.door")
	if !ok || st.State != "on" {
		t.Fatalf("door=%+v ok=%v, want=on true", st, ok)
	}

	if _, ok := snap.State("binary_sensor.window"); ok {
		t.Fatal("unknown sensor reported present")
	}

	want := []engine.EntityState{
		{State: "home", DisplayName: "Alice"},
		{State: "not_home", DisplayName: "Bob"},
		{State: "home", DisplayName: "person.guest"},
	}
	if diff := cmp.Diff(want, snap.Persons()); diff != "" {
		t.Fatalf("persons mismatch (-want +got):\n%s", diff)
	}
}

func Test_Load_Missing_File_Is_Empty(t *testing.T) {
	t.Parallel()

	for _, path := range []string{"", filepath.Join(t.TempDir(), "nope.json")} {
		snap, err := ambient.Load(path)
		if err != nil {
			t.Fatalf("Load(%q): %v", path, err)
		}

		if len(snap) != 0 || len(snap.Persons()) != 0 {
			t.Fatalf("Load(%q)=%v, want empty", path, snap)
		}
	}
}

func Test_Load_Rejects_Malformed_Snapshot(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")

	err := os.WriteFile(path, []byte(`{"entities": [`), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	_, err = ambient.Load(path)
	if !errors.Is(err, ambient.ErrInvalidSnapshot) {
		t.Fatalf("err=%v, want=%v", err, ambient.ErrInvalidSnapshot)
	}
}

func Test_Static_Drives_Engine(t *testing.T) {
	t.Parallel()

	snap := ambient.Static(map[string]string{"binary_sensor.rain": "on", "person.alice": "home"})

	e := engine.New(snap, nil, nil)
	ctx := e.CurrentContext(snap)

	if ctx.Location != "home" {
		t.Fatalf("location=%q, want=home", ctx.Location)
	}

	if diff := cmp.Diff([]string{"person.alice"}, ctx.People); diff != "" {
		t.Fatalf("people mismatch (-want +got):\n%s", diff)
	}
}
