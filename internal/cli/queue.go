package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bmatcuk/doublestar/v4"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/engine"
	"github.com/calvinalkan/yahtl/internal/model"
)

// queueOptions are the flags shared by queue and watch.
type queueOptions struct {
	time      *int
	listsGlob *string
	location  *string
	people    *[]string
	contexts  *[]string
}

func addQueueFlags(fs *flag.FlagSet) queueOptions {
	return queueOptions{
		time:      fs.Int("time", 0, "Available minutes; hides items estimated longer"),
		listsGlob: fs.String("lists", "", "Only lists whose id matches this glob"),
		location:  fs.String("location", "", "Override the current location"),
		people:    fs.StringArray("person", nil, "Override who is present (repeatable)"),
		contexts:  fs.StringArray("context", nil, "Override the active contexts (repeatable)"),
	}
}

func (q queueOptions) override() model.ContextOverride {
	return model.ContextOverride{Location: *q.location, People: *q.people, Contexts: *q.contexts}
}

// compute returns the queue for the session, filtered by the lists glob.
func (q queueOptions) compute(s *session) ([]engine.QueueEntry, error) {
	if *q.listsGlob != "" && !doublestar.ValidatePattern(*q.listsGlob) {
		return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, *q.listsGlob)
	}

	ctx, err := s.contextFor(q.override())
	if err != nil {
		return nil, err
	}

	var available *int
	if *q.time > 0 {
		available = q.time
	}

	entries := s.eng.PrioritizedQueue(s.reg.Lists(), ctx, available)

	if *q.listsGlob == "" {
		return entries, nil
	}

	filtered := entries[:0]

	for _, e := range entries {
		ok, matchErr := doublestar.Match(*q.listsGlob, e.ListID)
		if matchErr != nil {
			return nil, fmt.Errorf("--lists: %w", matchErr)
		}

		if ok {
			filtered = append(filtered, e)
		}
	}

	return filtered, nil
}

func queueCmd(a *app) *Command {
	fs := flag.NewFlagSet("queue", flag.ContinueOnError)
	opts := addQueueFlags(fs)
	limit := fs.IntP("limit", "n", 0, "Show at most this many items")
	asJSON := fs.Bool("json", false, "Output as JSON")
	asYAML := fs.Bool("yaml", false, "Output as YAML")
	field := fs.String("field", "", "Print only this field: uid, title, score, list")

	return &Command{
		Flags: fs,
		Usage: "queue [flags]",
		Short: "Show what to do next",
		Long: `Show open actionable items that are not blocked and whose requirements
are met, highest score first.

The context is derived from the state file (who is home, the time of day),
then the saved override (yahtl context), then --location/--person/--context.

Examples:
  yahtl queue
  yahtl queue --time 15 --limit 5
  yahtl queue --lists 'work*' --field uid`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", errTooManyArgs, args)
			}

			if *field != "" && !validQueueField(*field) {
				return fmt.Errorf("%w: %q", errInvalidField, *field)
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			entries, err := opts.compute(s)
			if err != nil {
				return err
			}

			if *limit > 0 && len(entries) > *limit {
				entries = entries[:*limit]
			}

			return printQueue(o, entries, *field, *asJSON, *asYAML)
		},
	}
}

func validQueueField(field string) bool {
	switch field {
	case "uid", "title", "score", "list":
		return true
	default:
		return false
	}
}

func queueField(e *engine.QueueEntry, field string) any {
	switch field {
	case "uid":
		return e.Item.UID
	case "title":
		return e.Item.Title
	case "score":
		return e.Score
	default:
		return e.ListID
	}
}

func printQueue(o *IO, entries []engine.QueueEntry, field string, asJSON, asYAML bool) error {
	var structured any = entries
	if entries == nil {
		structured = []engine.QueueEntry{}
	}

	if field != "" {
		values := make([]any, 0, len(entries))
		for i := range entries {
			values = append(values, queueField(&entries[i], field))
		}

		structured = values
	}

	done, err := printStructured(o, structured, asJSON, asYAML)
	if done {
		return err
	}

	if field != "" {
		for i := range entries {
			switch v := queueField(&entries[i], field).(type) {
			case int:
				o.Println(strconv.Itoa(v))
			default:
				o.Println(v)
			}
		}

		return nil
	}

	if len(entries) == 0 {
		o.ErrPrintln("queue is empty")

		return nil
	}

	for i := range entries {
		o.Println(queueLine(&entries[i]))
	}

	return nil
}

func queueLine(e *engine.QueueEntry) string {
	line := fmt.Sprintf("%4d  %s  %s: %s", e.Score, e.Item.UID, e.ListID, e.Item.Title)

	if e.Item.Due != nil {
		line += "  (due " + formatTime(e.Item.Due) + ")"
	}

	return line
}
