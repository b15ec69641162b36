package cli_test

import (
	"testing"

	"github.com/calvinalkan/yahtl/internal/cli"
)

func TestContextDerivedFromState(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("context")
	cli.AssertContains(t, stdout, "location: away")
	cli.AssertContains(t, stdout, "people:   -")
	cli.AssertContains(t, stdout, "time:     business_hours")

	c.WriteFile("state.json", `{
		// written by the home bridge
		"entities": {
			"person.bob": {"state": "not_home", "name": "Bob"},
			"person.alice": {"state": "home", "name": "Alice"},
			"person.carol": {"state": "home"},
		},
	}`)

	stdout = c.MustRun("--state-file", "state.json", "context")
	cli.AssertContains(t, stdout, "location: home")
	cli.AssertContains(t, stdout, "people:   Alice, person.carol")
}

func TestContextOverride(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("context", "--location", "office", "--context", "computer", "--context", "phone")
	cli.AssertContains(t, stdout, "location: office")
	cli.AssertContains(t, stdout, "contexts: computer, phone")

	AssertFileExists(t, c.DataDir()+"/context.json")

	// The override persists across invocations.
	stdout = c.MustRun("context", "--json")
	cli.AssertContains(t, stdout, `"location": "office"`)
	cli.AssertContains(t, stdout, `"time_constraint": "business_hours"`)

	stderr := c.MustFail("context", "--clear", "--location", "home")
	cli.AssertContains(t, stderr, "--clear cannot be combined")

	stdout = c.MustRun("context", "--clear")
	cli.AssertContains(t, stdout, "location: away")
	cli.AssertContains(t, stdout, "contexts: -")
}

func TestContextOverrideAppliesToQueue(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Email", "--estimate", "5")
	c.MustRun("require", uid, "--context", "computer")

	if got := queueUIDs(c); len(got) != 0 {
		t.Fatalf("queue=%v, want empty", got)
	}

	c.MustRun("context", "--context", "computer")

	got := queueUIDs(c)
	if len(got) != 1 || got[0] != uid {
		t.Errorf("queue=%v, want=[%s]", got, uid)
	}

	// Command flags win over the saved override.
	if got := queueUIDs(c, "--context", "phone"); len(got) != 0 {
		t.Errorf("queue=%v, want empty", got)
	}
}
