package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/model"
)

func contextCmd(a *app) *Command {
	fs := flag.NewFlagSet("context", flag.ContinueOnError)
	location := fs.String("location", "", "Location to assume")
	people := fs.StringArray("person", nil, "Person to assume present (repeatable)")
	contexts := fs.StringArray("context", nil, "Active context, e.g. computer or phone (repeatable)")
	clearFlag := fs.Bool("clear", false, "Remove the saved override")
	asJSON := fs.Bool("json", false, "Output as JSON")
	asYAML := fs.Bool("yaml", false, "Output as YAML")

	return &Command{
		Flags: fs,
		Usage: "context [flags] | --clear",
		Short: "Show or override the current context",
		Long: `Without flags, show the context the queue is computed in. With
--location, --person or --context, save an override that replaces those
parts of the context derived from the state file until cleared.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return errTooManyArgs
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			override := model.ContextOverride{Location: *location, People: *people, Contexts: *contexts}

			switch {
			case *clearFlag && !override.IsEmpty():
				return errClearExclusive
			case *clearFlag:
				err = s.svc.ClearContext()
			case !override.IsEmpty():
				err = s.svc.SetContext(override)
			}

			if err != nil {
				return err
			}

			ctx, err := s.contextFor(model.ContextOverride{})
			if err != nil {
				return err
			}

			done, err := printStructured(o, ctx, *asJSON, *asYAML)
			if done {
				return err
			}

			o.Println("location:", orDash(ctx.Location))
			o.Println("people:  ", joinOrDash(ctx.People))
			o.Println("time:    ", ctx.TimeConstraint)
			o.Println("contexts:", joinOrDash(ctx.Contexts))

			return nil
		},
	}
}
