package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/model"
)

// uidValuesCmd builds a command of the form "<name> <uid> <value>...".
func uidValuesCmd(a *app, usage, short string, fn func(s *session, uid string, values []string) (model.Item, error)) *Command {
	return &Command{
		Flags: flag.NewFlagSet(usage, flag.ContinueOnError),
		Usage: usage,
		Short: short,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errUIDRequired
			}

			if len(args) == 1 {
				return errArgsRequired
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := fn(s, args[0], args[1:])
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			return nil
		},
	}
}

func traitsCmd(a *app) *Command {
	return uidValuesCmd(a, "traits <uid> <trait>...", "Replace an item's traits",
		func(s *session, uid string, values []string) (model.Item, error) {
			return s.svc.SetTraits(uid, toTraits(values))
		})
}

func tagCmd(a *app) *Command {
	return uidValuesCmd(a, "tag <uid> <tag>...", "Add tags to an item",
		func(s *session, uid string, values []string) (model.Item, error) {
			return s.svc.AddTags(uid, values)
		})
}

func untagCmd(a *app) *Command {
	return uidValuesCmd(a, "untag <uid> <tag>...", "Remove tags from an item",
		func(s *session, uid string, values []string) (model.Item, error) {
			return s.svc.RemoveTags(uid, values)
		})
}

func needsDetailCmd(a *app) *Command {
	fs := flag.NewFlagSet("needs-detail", flag.ContinueOnError)
	clearFlag := fs.Bool("clear", false, "Remove the flag")

	return &Command{
		Flags: fs,
		Usage: "needs-detail <uid> [--clear]",
		Short: "Flag an item as needing more detail",
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := s.svc.SetNeedsDetail(uid, !*clearFlag)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			return nil
		},
	}
}
