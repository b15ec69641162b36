package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/model"
	"github.com/calvinalkan/yahtl/internal/service"
)

func addCmd(a *app) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	description := fs.StringP("description", "d", "", "Description")
	traits := fs.StringSlice("trait", nil, "Trait (repeatable or comma separated; default actionable)")
	tags := fs.StringSlice("tag", nil, "Tag (repeatable or comma separated)")
	due := fs.String("due", "", "Due instant (RFC 3339, 2006-01-02T15:04 or 2006-01-02)")
	estimate := fs.Int("estimate", 0, "Time estimate in minutes")
	priority := fs.StringP("priority", "p", "", "low, medium or high")
	needsDetail := fs.Bool("needs-detail", false, "Flag as needing more detail")
	bufferBefore := fs.Int("buffer-before", 0, "Buffer before, in minutes")
	bufferAfter := fs.Int("buffer-after", 0, "Buffer after, in minutes")

	return &Command{
		Flags: fs,
		Usage: "add <list> <title> [flags]",
		Short: "Add an item, prints its uid",
		Long: `Add an item to a list and print its uid. Words after the list id
are joined into the title.

Traits: actionable, recurring, habit, chore, reminder, note.

Examples:
  yahtl add home Water the plants --trait actionable,chore --estimate 10
  yahtl add work "Quarterly report" --due 2024-03-31 -p high`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return errListRequired
			}

			if len(args) == 1 {
				return errTitleRequired
			}

			in := service.ItemInput{
				Title:        strings.Join(args[1:], " "),
				Description:  *description,
				Traits:       toTraits(*traits),
				Tags:         *tags,
				Priority:     model.Priority(strings.ToLower(*priority)),
				NeedsDetail:  *needsDetail,
				BufferBefore: *bufferBefore,
				BufferAfter:  *bufferAfter,
			}

			if *due != "" {
				t, err := model.ParseInstant(*due)
				if err != nil {
					return fmt.Errorf("--due: %w", err)
				}

				in.Due = &t
			}

			if fs.Changed("estimate") {
				in.TimeEstimate = estimate
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := s.svc.AddItem(args[0], in)
			if err != nil {
				return err
			}

			o.Println(it.UID)

			return nil
		},
	}
}

func updateCmd(a *app) *Command {
	fs := flag.NewFlagSet("update", flag.ContinueOnError)
	title := fs.StringP("title", "t", "", "New title")
	description := fs.StringP("description", "d", "", "New description")
	due := fs.String("due", "", "Due instant")
	clearDue := fs.Bool("clear-due", false, "Remove the due date")
	estimate := fs.Int("estimate", 0, "Time estimate in minutes")
	clearEstimate := fs.Bool("clear-estimate", false, "Remove the time estimate")
	priority := fs.StringP("priority", "p", "", "low, medium, high or none")
	bufferBefore := fs.Int("buffer-before", 0, "Buffer before, in minutes")
	bufferAfter := fs.Int("buffer-after", 0, "Buffer after, in minutes")

	return &Command{
		Flags: fs,
		Usage: "update <uid> [flags]",
		Short: "Update item fields",
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			var patch service.ItemPatch

			if fs.Changed("title") {
				patch.Title = title
			}

			if fs.Changed("description") {
				patch.Description = description
			}

			if fs.Changed("due") {
				t, parseErr := model.ParseInstant(*due)
				if parseErr != nil {
					return fmt.Errorf("--due: %w", parseErr)
				}

				patch.Due = &t
			}

			patch.ClearDue = *clearDue
			patch.ClearEstimate = *clearEstimate

			if fs.Changed("estimate") {
				patch.TimeEstimate = estimate
			}

			if fs.Changed("priority") {
				p := model.Priority(strings.ToLower(*priority))
				if p == "none" {
					p = ""
				}

				patch.Priority = &p
			}

			if fs.Changed("buffer-before") {
				patch.BufferBefore = bufferBefore
			}

			if fs.Changed("buffer-after") {
				patch.BufferAfter = bufferAfter
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := s.svc.UpdateItem(uid, patch)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			return nil
		},
	}
}

func startCmd(a *app) *Command {
	return uidCmd(a, "start <uid>", "Mark a pending item in progress", func(s *session, uid string) (model.Item, error) {
		return s.svc.StartItem(uid)
	})
}

func reopenCmd(a *app) *Command {
	return uidCmd(a, "reopen <uid>", "Move a completed or missed item back to pending", func(s *session, uid string) (model.Item, error) {
		return s.svc.ReopenItem(uid)
	})
}

func missCmd(a *app) *Command {
	return uidCmd(a, "miss <uid>", "Mark an open item as missed", func(s *session, uid string) (model.Item, error) {
		return s.svc.MissItem(uid)
	})
}

// uidCmd builds a command taking exactly one uid that applies fn and
// prints the resulting item.
func uidCmd(a *app, usage, short string, fn func(s *session, uid string) (model.Item, error)) *Command {
	return &Command{
		Flags: flag.NewFlagSet(usage, flag.ContinueOnError),
		Usage: usage,
		Short: short,
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := fn(s, uid)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			return nil
		},
	}
}

func completeCmd(a *app) *Command {
	fs := flag.NewFlagSet("complete", flag.ContinueOnError)
	user := fs.String("user", "", "Record the completion for this user")

	return &Command{
		Flags: fs,
		Usage: "complete <uid> [--user u]",
		Short: "Complete an item",
		Long: `Record a completion and update the streak. Recurring items come back
as pending with their next due date; frequency goals come back as pending.
Anything else is marked completed.`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := s.svc.CompleteItem(uid, *user)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			if it.Status == model.StatusPending && it.Due != nil {
				o.Println("next due:", formatTime(it.Due))
			}

			if it.HasTrait(model.TraitHabit) {
				o.Println("streak:", it.CurrentStreak)
			}

			return nil
		},
	}
}

func rmCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
		Usage: "rm <uid>",
		Short: "Delete an item",
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			err = s.svc.DeleteItem(uid)
			if err != nil {
				return err
			}

			o.Println("deleted", uid)

			return nil
		},
	}
}

func moveCmd(a *app) *Command {
	fs := flag.NewFlagSet("move", flag.ContinueOnError)
	after := fs.String("after", "", "Place after this item (default: first)")

	return &Command{
		Flags: fs,
		Usage: "move <uid> [--after uid]",
		Short: "Reorder an item within its list",
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			err = s.svc.MoveItem(uid, *after)
			if err != nil {
				return err
			}

			o.Println("moved", uid)

			return nil
		},
	}
}
