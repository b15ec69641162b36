package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one yahtl subcommand. The first word of Usage is its name.
type Command struct {
	Flags *flag.FlagSet

	// Usage follows "yahtl" in help output, e.g. "show <uid> [--json|--yaml]".
	Usage string

	// Short appears next to the command in the grouped command listing.
	Short string

	// Long replaces Short in "yahtl <cmd> --help" when set.
	Long string

	Exec func(ctx context.Context, o *IO, args []string) error
}

// commandGroup is a titled section of the command listing.
type commandGroup struct {
	title    string
	commands []*Command
}

// Name returns the command name.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

// PrintHelp writes usage, description and flags to stdout.
func (c *Command) PrintHelp(o *IO) {
	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Printf("Usage: yahtl %s\n\n%s\n", c.Usage, desc)

	if c.Flags != nil && c.Flags.HasFlags() {
		var buf strings.Builder

		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("\nFlags:\n%s", buf.String())
	}

	o.Println()
	o.Println("Global options go before the command; see 'yahtl --help'.")
}

// Run parses args and executes the command, returning the exit code.
// Recorded warnings turn an otherwise successful run into exit code 1.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(&strings.Builder{})

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		c.PrintHelp(o)

		return 0
	case err != nil:
		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.ErrPrintln("error:", err)

		return 1
	}

	return o.Finish()
}

// writeCommandGroups prints each group under its title with the usage
// column sized to the longest usage across all groups.
func writeCommandGroups(w io.Writer, groups []commandGroup) {
	width := 0

	for _, g := range groups {
		for _, cmd := range g.commands {
			width = max(width, len(cmd.Usage))
		}
	}

	for i, g := range groups {
		if i > 0 {
			fprintln(w)
		}

		fprintln(w, g.title+":")

		for _, cmd := range g.commands {
			fprintln(w, fmt.Sprintf("  %-*s  %s", width, cmd.Usage, cmd.Short))
		}
	}
}
