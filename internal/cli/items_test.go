package cli_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/yahtl/internal/cli"
	"github.com/calvinalkan/yahtl/internal/model"
)

func TestAddCommand(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name       string
		args       []string
		wantStderr string
	}{
		{name: "missing list", args: []string{"add"}, wantStderr: "list id is required"},
		{name: "missing title", args: []string{"add", "home"}, wantStderr: "title is required"},
		{name: "unknown list", args: []string{"add", "nope", "Title"}, wantStderr: "list not found"},
		{name: "invalid trait", args: []string{"add", "home", "T", "--trait", "urgent"}, wantStderr: "invalid trait"},
		{name: "invalid priority", args: []string{"add", "home", "T", "-p", "urgent"}, wantStderr: "invalid priority"},
		{name: "invalid due", args: []string{"add", "home", "T", "--due", "tomorrow"}, wantStderr: "--due"},
		{name: "zero estimate", args: []string{"add", "home", "T", "--estimate", "0"}, wantStderr: "time estimate must be positive"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newHome(t)
			stderr := c.MustFail(tt.args...)

			if !strings.Contains(stderr, tt.wantStderr) {
				t.Errorf("stderr=%q, want to contain %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestAddStoresItem(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Water", "the", "plants",
		"--trait", "actionable,chore", "--tag", "garden",
		"--due", "2024-01-12", "--estimate", "10", "-p", "HIGH", "--needs-detail")

	if got, want := len(uid), 36; got != want {
		t.Fatalf("uid=%q, want a uuid", uid)
	}

	l := c.ReadList("home")
	if got, want := len(l.Items), 1; got != want {
		t.Fatalf("items=%d, want=%d", got, want)
	}

	it := l.Items[0]

	if got, want := it.UID, uid; got != want {
		t.Errorf("uid=%q, want=%q", got, want)
	}

	if got, want := it.Title, "Water the plants"; got != want {
		t.Errorf("title=%q, want=%q", got, want)
	}

	if diff := cmp.Diff([]model.Trait{model.TraitActionable, model.TraitChore}, it.Traits); diff != "" {
		t.Errorf("traits mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"garden"}, it.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	if it.Due == nil || it.Due.Day() != 12 {
		t.Errorf("due=%v, want 2024-01-12", it.Due)
	}

	if it.TimeEstimate == nil || *it.TimeEstimate != 10 {
		t.Errorf("time_estimate=%v, want=10", it.TimeEstimate)
	}

	if got, want := it.Priority, model.PriorityHigh; got != want {
		t.Errorf("priority=%q, want=%q", got, want)
	}

	if !it.NeedsDetail {
		t.Error("needs_detail=false, want=true")
	}

	if got, want := it.CreatedBy, "tester"; got != want {
		t.Errorf("created_by=%q, want=%q", got, want)
	}

	if got, want := model.FormatInstant(it.CreatedAt), cli.TestNow; got != want {
		t.Errorf("created_at=%q, want=%q", got, want)
	}
}

func TestUpdateCommand(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Dishes", "--due", "2024-01-12T08:00:00Z", "--estimate", "5", "-p", "low")

	stdout := c.MustRun("update", uid, "--title", "Wash dishes", "--clear-due", "--estimate", "15", "-p", "none")
	cli.AssertContains(t, stdout, "Wash dishes")

	it := c.ReadList("home").Items[0]

	if got, want := it.Title, "Wash dishes"; got != want {
		t.Errorf("title=%q, want=%q", got, want)
	}

	if it.Due != nil {
		t.Errorf("due=%v, want=nil", it.Due)
	}

	if it.TimeEstimate == nil || *it.TimeEstimate != 15 {
		t.Errorf("time_estimate=%v, want=15", it.TimeEstimate)
	}

	if got, want := it.Priority, model.Priority(""); got != want {
		t.Errorf("priority=%q, want=%q", got, want)
	}

	stderr := c.MustFail("update", uid, "--title", "")
	cli.AssertContains(t, stderr, "title is required")

	stderr = c.MustFail("update", "missing-uid", "--title", "x")
	cli.AssertContains(t, stderr, "item not found")
}

func TestStatusTransitions(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Dishes")

	cli.AssertContains(t, c.MustRun("start", uid), "in_progress")

	stderr := c.MustFail("start", uid)
	cli.AssertContains(t, stderr, "item is not pending")

	cli.AssertContains(t, c.MustRun("complete", uid), "completed")

	stderr = c.MustFail("complete", uid)
	cli.AssertContains(t, stderr, "item is not open")

	stderr = c.MustFail("miss", uid)
	cli.AssertContains(t, stderr, "item is not open")

	cli.AssertContains(t, c.MustRun("reopen", uid), "pending")

	stderr = c.MustFail("reopen", uid)
	cli.AssertContains(t, stderr, "item is already open")

	cli.AssertContains(t, c.MustRun("miss", uid), "missed")

	it := c.ReadList("home").Items[0]
	if got, want := len(it.CompletionHistory), 1; got != want {
		t.Fatalf("completions=%d, want=%d", got, want)
	}

	if got, want := it.CompletionHistory[0].UserID, "tester"; got != want {
		t.Errorf("completed by=%q, want=%q", got, want)
	}
}

func TestCompleteRecordsUser(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Dishes")
	c.MustRun("complete", uid, "--user", "alice")

	it := c.ReadList("home").Items[0]
	if got, want := it.CompletionHistory[0].UserID, "alice"; got != want {
		t.Errorf("completed by=%q, want=%q", got, want)
	}

	if it.LastCompleted == nil {
		t.Error("last_completed=nil, want set")
	}
}

func TestRmCommand(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Dishes")
	keep := c.MustRun("add", "home", "Laundry")

	if got, want := c.MustRun("rm", uid), "deleted "+uid; got != want {
		t.Errorf("stdout=%q, want=%q", got, want)
	}

	l := c.ReadList("home")
	if got, want := len(l.Items), 1; got != want {
		t.Fatalf("items=%d, want=%d", got, want)
	}

	if got, want := l.Items[0].UID, keep; got != want {
		t.Errorf("remaining=%q, want=%q", got, want)
	}

	stderr := c.MustFail("rm", uid)
	cli.AssertContains(t, stderr, "item not found")
}

func TestMoveCommand(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	c.MustRun("list-create", "work")

	a := c.MustRun("add", "home", "A")
	b := c.MustRun("add", "home", "B")
	d := c.MustRun("add", "home", "C")
	other := c.MustRun("add", "work", "Other")

	c.MustRun("move", d)
	c.MustRun("move", a, "--after", b)

	var got []string
	for _, it := range c.ReadList("home").Items {
		got = append(got, it.UID)
	}

	if diff := cmp.Diff([]string{d, b, a}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	stderr := c.MustFail("move", a, "--after", other)
	cli.AssertContains(t, stderr, "move target not in the same list")

	stderr = c.MustFail("move", a, "--after", a)
	cli.AssertContains(t, stderr, "move target not in the same list")
}

func TestTraitsAndTags(t *testing.T) {
	t.Parallel()

	c := newHome(t)
	uid := c.MustRun("add", "home", "Stretch")

	c.MustRun("traits", uid, "habit", "recurring", "habit")
	c.MustRun("tag", uid, "health", "morning")
	c.MustRun("tag", uid, "health")
	c.MustRun("untag", uid, "morning")
	c.MustRun("needs-detail", uid)

	it := c.ReadList("home").Items[0]

	if diff := cmp.Diff([]model.Trait{model.TraitHabit, model.TraitRecurring}, it.Traits); diff != "" {
		t.Errorf("traits mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"health"}, it.Tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}

	if !it.NeedsDetail {
		t.Error("needs_detail=false, want=true")
	}

	c.MustRun("needs-detail", uid, "--clear")

	if c.ReadList("home").Items[0].NeedsDetail {
		t.Error("needs_detail=true after --clear, want=false")
	}

	stderr := c.MustFail("traits", uid)
	cli.AssertContains(t, stderr, "at least one value is required")

	stderr = c.MustFail("traits", uid, "epic")
	cli.AssertContains(t, stderr, "invalid trait")
}
