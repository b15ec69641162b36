package cli_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/yahtl/internal/cli"
	"github.com/calvinalkan/yahtl/internal/model"
)

func queueUIDs(c *cli.CLI, args ...string) []string {
	return lines(c.MustRun(append([]string{"queue", "--field", "uid"}, args...)...))
}

func TestBlockByItem(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	first := c.MustRun("add", "home", "Buy paint")
	second := c.MustRun("add", "home", "Paint fence")

	c.MustRun("block", second, "--item", first)

	if diff := cmp.Diff([]string{first}, queueUIDs(c)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}

	stdout := c.MustRun("show", second)
	cli.AssertContains(t, stdout, "blocked:      yes (Item 'Buy paint' not completed)")

	c.MustRun("complete", first)

	if diff := cmp.Diff([]string{second}, queueUIDs(c)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}

	c.MustRun("block", second, "--clear")

	if c.ReadList("home").Item(second).Blockers != nil {
		t.Error("blockers still set after --clear")
	}
}

func TestBlockAllItemsMode(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	a := c.MustRun("add", "home", "A")
	b := c.MustRun("add", "home", "B")
	blocked := c.MustRun("add", "home", "Blocked")

	c.MustRun("block", blocked, "--item", a, "--item", b, "--item-mode", "all")

	stdout := c.MustRun("show", blocked, "--json")
	cli.AssertContains(t, stdout, `"blocked": true`)
	cli.AssertContains(t, stdout, `"Item 'A' not completed"`)
	cli.AssertContains(t, stdout, `"Item 'B' not completed"`)
	cli.AssertContains(t, stdout, `"item_mode": "ALL"`)

	// One completed blocker is enough to unblock in ALL mode.
	c.MustRun("complete", a)

	if diff := cmp.Diff([]string{b, blocked}, queueUIDs(c)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockBySensor(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	c.WriteFile(".yahtl.json", `{"state_file": "state.json"}`)
	c.WriteFile("state.json", `{"entities": {"binary_sensor.washer": {"state": "on"}}}`)

	uid := c.MustRun("add", "home", "Hang laundry")
	c.MustRun("block", uid, "--sensor", "binary_sensor.washer")

	if got := queueUIDs(c); len(got) != 0 {
		t.Errorf("queue=%v, want empty", got)
	}

	c.WriteFile("state.json", `{"entities": {"binary_sensor.washer": {"state": "off"}}}`)

	if diff := cmp.Diff([]string{uid}, queueUIDs(c)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockCommandErrors(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Task")

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "nothing to set", args: []string{"block", uid}, wantStderr: "nothing to set"},
		{name: "clear with flags", args: []string{"block", uid, "--clear", "--item", "x"}, wantStderr: "--clear cannot be combined"},
		{name: "self", args: []string{"block", uid, "--item", uid}, wantStderr: "item cannot block itself"},
		{name: "bad mode", args: []string{"block", uid, "--item", "x", "--mode", "SOME"}, wantStderr: "invalid mode"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, stderr, exitCode := c.Run(tt.args...)

			if got, want := exitCode, 1; got != want {
				t.Errorf("exitCode=%d, want=%d", got, want)
			}

			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr=%q, want to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestBlockUnknownItemWarns(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Task")

	stdout, stderr, exitCode := c.Run("block", uid, "--item", "ghost")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout, uid)
	cli.AssertContains(t, stderr, "warning: blocker ghost does not exist")

	// A blocker that cannot be resolved is ignored.
	if diff := cmp.Diff([]string{uid}, queueUIDs(c)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestRequireLocation(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Vacuum")
	c.MustRun("require", uid, "--location", "home")

	if got := queueUIDs(c); len(got) != 0 {
		t.Errorf("queue=%v, want empty while away", got)
	}

	if diff := cmp.Diff([]string{uid}, queueUIDs(c, "--location", "home")); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}

	stdout := c.MustRun("show", uid)
	cli.AssertContains(t, stdout, "requirements: not met (Location 'away' not in required: [home])")

	c.MustRun("require", uid, "--clear")

	if diff := cmp.Diff([]string{uid}, queueUIDs(c)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestRequireAllMode(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Call")
	c.MustRun("require", uid, "--time", "business_hours", "--context", "phone", "--mode", "all")

	it := c.ReadList("home").Item(uid)
	want := &model.RequirementsConfig{
		Mode:            model.ModeAll,
		Location:        []string{},
		People:          []string{},
		TimeConstraints: []string{"business_hours"},
		Context:         []string{"phone"},
		Sensors:         []string{},
	}

	if diff := cmp.Diff(want, it.Requirements); diff != "" {
		t.Errorf("requirements mismatch (-want +got):\n%s", diff)
	}

	if got := queueUIDs(c); len(got) != 0 {
		t.Errorf("queue=%v, want empty without phone context", got)
	}

	stdout := c.MustRun("queue", "--context", "phone")
	// Both ALL-mode requirements match, which earns the context bonus.
	cli.AssertContains(t, stdout, "  10  "+uid)

	stderr := c.MustFail("require", uid)
	cli.AssertContains(t, stderr, "nothing to set")
}

func TestRecurCalendarRearms(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Water plants", "--trait", "actionable,recurring")
	c.MustRun("recur", uid, "--calendar", "daily")

	stdout := c.MustRun("complete", uid)
	cli.AssertContains(t, stdout, "pending")
	cli.AssertContains(t, stdout, "next due: 2024-01-11T12:00:00Z")

	it := c.ReadList("home").Item(uid)
	if got, want := it.Status, model.StatusPending; got != want {
		t.Errorf("status=%q, want=%q", got, want)
	}

	if it.Due == nil || model.FormatInstant(*it.Due) != "2024-01-11T12:00:00Z" {
		t.Errorf("due=%v, want=2024-01-11T12:00:00Z", it.Due)
	}
}

func TestRecurHabitStreak(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Stretch", "--trait", "actionable,habit")
	c.MustRun("recur", uid, "--every", "2", "--unit", "days")

	stdout := c.MustRun("complete", uid)
	cli.AssertContains(t, stdout, "next due: 2024-01-12T12:00:00Z")
	cli.AssertContains(t, stdout, "streak: 1")

	if got, want := c.ReadList("home").Item(uid).CurrentStreak, 1; got != want {
		t.Errorf("current_streak=%d, want=%d", got, want)
	}
}

func TestRecurFrequencyProgress(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Gym", "--trait", "actionable,habit")
	c.MustRun("recur", uid, "--times", "3", "--per", "1", "--per-unit", "weeks", "--threshold", "7:high")

	stdout := c.MustRun("show", uid)
	cli.AssertContains(t, stdout, "recurrence:   3 times per 1 weeks")
	cli.AssertContains(t, stdout, "progress:     0/3, 7 days remaining, high")

	// The high threshold scores 60.
	cli.AssertContains(t, c.MustRun("queue"), "  60  "+uid)

	c.MustRun("complete", uid)

	it := c.ReadList("home").Item(uid)
	if got, want := it.Status, model.StatusPending; got != want {
		t.Errorf("status=%q, want=%q", got, want)
	}

	if it.Due != nil {
		t.Errorf("due=%v, want=nil", it.Due)
	}

	cli.AssertContains(t, c.MustRun("show", uid), "progress:     1/3")
}

func TestRecurWarnsWithoutTrait(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Task")

	stdout, stderr, exitCode := c.Run("recur", uid, "--calendar", "weekly")

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout, uid)
	cli.AssertContains(t, stderr, "warning: item has neither the recurring nor the habit trait")

	if c.ReadList("home").Item(uid).Recurrence == nil {
		t.Error("recurrence not saved")
	}
}

func TestRecurCommandErrors(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Task", "--trait", "recurring")

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "nothing", args: []string{"recur", uid}, wantStderr: "nothing to set"},
		{name: "two kinds", args: []string{"recur", uid, "--calendar", "daily", "--every", "2"}, wantStderr: "specify exactly one"},
		{name: "unit only", args: []string{"recur", uid, "--unit", "weeks"}, wantStderr: "specify exactly one"},
		{name: "clear with kind", args: []string{"recur", uid, "--clear", "--calendar", "daily"}, wantStderr: "--clear cannot be combined"},
		{name: "bad threshold", args: []string{"recur", uid, "--times", "2", "--threshold", "soon"}, wantStderr: "invalid threshold"},
		{name: "bad threshold priority", args: []string{"recur", uid, "--times", "2", "--threshold", "3:urgent"}, wantStderr: "invalid threshold"},
		{name: "bad unit", args: []string{"recur", uid, "--every", "2", "--unit", "fortnights"}, wantStderr: "invalid unit"},
		{name: "years per frequency", args: []string{"recur", uid, "--times", "2", "--per-unit", "years"}, wantStderr: "invalid unit"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			stderr := c.MustFail(tt.args...)

			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr=%q, want to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestRecurClear(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Task", "--trait", "recurring")
	c.MustRun("recur", uid, "--calendar", "monthly")
	c.MustRun("recur", uid, "--clear")

	if c.ReadList("home").Item(uid).Recurrence != nil {
		t.Error("recurrence still set after --clear")
	}
}
