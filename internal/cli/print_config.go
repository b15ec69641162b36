package cli

import (
	"context"

	flag "github.com/spf13/pflag"
)

func printConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show the effective config and where it came from",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			err := printJSON(o, a.cfg)
			if err != nil {
				return err
			}

			o.Println("")
			o.Println("# Sources:")

			src := a.cfg.Sources
			if src.Global != "" {
				o.Println("#   global:", src.Global)
			}

			if src.Project != "" {
				o.Println("#   project:", src.Project)
			}

			if src.Global == "" && src.Project == "" {
				o.Println("#   (using defaults only)")
			}

			o.Println("#   data dir:", a.cfg.DataDirAbs)

			return nil
		},
	}
}
