package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/model"
	"github.com/calvinalkan/yahtl/internal/service"
)

func listCreateCmd(a *app) *Command {
	fs := flag.NewFlagSet("list-create", flag.ContinueOnError)
	name := fs.String("name", "", "Display name (default: the id)")
	owner := fs.String("owner", "", "Owner (default: the configured user)")
	inbox := fs.Bool("inbox", false, "Mark as the inbox list")

	return &Command{
		Flags: fs,
		Usage: "list-create <id> [flags]",
		Short: "Create a list",
		Long: `Create an empty private list. The id names the list file
(yahtl.<id>.json) and may use letters, digits, '-' and '_'.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := oneArg(args, errListRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			l, err := s.svc.CreateList(service.ListInput{ListID: id, Name: *name, Owner: *owner, IsInbox: *inbox})
			if err != nil {
				return err
			}

			o.Println("created list", l.ListID)

			return nil
		},
	}
}

func listsCmd(a *app) *Command {
	fs := flag.NewFlagSet("lists", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Output as JSON")
	asYAML := fs.Bool("yaml", false, "Output as YAML")

	return &Command{
		Flags: fs,
		Usage: "lists [--json|--yaml]",
		Short: "Show lists with item counts",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			s, err := a.open()
			if err != nil {
				return err
			}

			lists := s.reg.Lists()

			done, err := printStructured(o, listSummaries(lists), *asJSON, *asYAML)
			if done {
				return err
			}

			if len(lists) == 0 {
				o.ErrPrintln("no lists (create one with: yahtl list-create <id>)")

				return nil
			}

			for _, l := range lists {
				o.Println(listLine(l))
			}

			return nil
		},
	}
}

type listSummary struct {
	ListID     string           `json:"list_id"`
	Name       string           `json:"name"`
	Owner      string           `json:"owner"`
	Visibility model.Visibility `json:"visibility"`
	SharedWith []string         `json:"shared_with"`
	IsInbox    bool             `json:"is_inbox"`
	Items      int              `json:"items"`
	Open       int              `json:"open"`
}

func listSummaries(lists []*model.List) []listSummary {
	out := make([]listSummary, 0, len(lists))

	for _, l := range lists {
		open := 0

		for _, it := range l.Items {
			if it.IsOpen() {
				open++
			}
		}

		out = append(out, listSummary{
			ListID:     l.ListID,
			Name:       l.Name,
			Owner:      l.Owner,
			Visibility: l.Visibility,
			SharedWith: l.SharedWith,
			IsInbox:    l.IsInbox,
			Items:      len(l.Items),
			Open:       open,
		})
	}

	return out
}

func listLine(l *model.List) string {
	var b strings.Builder

	sum := listSummaries([]*model.List{l})[0]
	fmt.Fprintf(&b, "%-16s %-24s %d items (%d open)  %s", l.ListID, l.Name, sum.Items, sum.Open, l.Visibility)

	if len(l.SharedWith) > 0 {
		fmt.Fprintf(&b, " with %s", strings.Join(l.SharedWith, ", "))
	}

	if l.IsInbox {
		b.WriteString("  [inbox]")
	}

	return b.String()
}

func shareCmd(a *app) *Command {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	visibility := fs.String("visibility", "", "private or shared")
	with := fs.StringArray("with", nil, "User to share with (repeatable)")

	return &Command{
		Flags: fs,
		Usage: "share <list> --visibility private|shared [--with user]...",
		Short: "Set who can see a list",
		Exec: func(_ context.Context, o *IO, args []string) error {
			id, err := oneArg(args, errListRequired)
			if err != nil {
				return err
			}

			if *visibility == "" {
				return errVisibility
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			l, err := s.svc.SetVisibility(id, model.Visibility(strings.ToLower(*visibility)), *with)
			if err != nil {
				return err
			}

			o.Println(listLine(l))

			return nil
		},
	}
}
