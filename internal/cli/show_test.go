package cli_test

import (
	"testing"

	"github.com/calvinalkan/yahtl/internal/cli"
)

func TestShowCommand(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Dishes", "-d", "after dinner", "--tag", "kitchen",
		"--due", "2024-01-10T18:00:00Z", "--estimate", "15", "-p", "medium")

	stdout := c.MustRun("show", uid)

	for _, want := range []string{
		"uid:          " + uid,
		"title:        Dishes",
		"description:  after dinner",
		"list:         home",
		"status:       pending",
		"traits:       actionable",
		"tags:         kitchen",
		"priority:     medium",
		"due:          2024-01-10T18:00:00Z",
		"estimate:     15 min",
		"created:      2024-01-10T12:00:00Z by tester",
		"blocked:      no",
		"requirements: met",
		// due within a day (50) plus medium priority (25)
		"score:        75",
	} {
		cli.AssertContains(t, stdout, want)
	}

	cli.AssertNotContains(t, stdout, "streak:")
	cli.AssertNotContains(t, stdout, "progress:")
}

func TestShowStructuredOutput(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Stretch", "--trait", "actionable,habit")
	c.MustRun("recur", uid, "--calendar", "daily")

	stdout := c.MustRun("show", uid, "--json")
	cli.AssertContains(t, stdout, `"list_id": "home"`)
	cli.AssertContains(t, stdout, `"blocked": false`)
	cli.AssertContains(t, stdout, `"blocked_reasons": []`)
	cli.AssertContains(t, stdout, `"streak": 0`)
	cli.AssertContains(t, stdout, `"next_due": "2024-01-11T12:00:00Z"`)
	cli.AssertNotContains(t, stdout, `"frequency"`)

	stdout = c.MustRun("show", uid, "--yaml")
	cli.AssertContains(t, stdout, "requirements_met: true")
	cli.AssertContains(t, stdout, "calendar_pattern: daily")
}

func TestShowErrors(t *testing.T) {
	t.Parallel()

	c := newHome(t)

	stderr := c.MustFail("show")
	cli.AssertContains(t, stderr, "item uid is required")

	stderr = c.MustFail("show", "nope")
	cli.AssertContains(t, stderr, "item not found")
}
