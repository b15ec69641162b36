package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/config"
)

const helpFlag = "--help"

var errUnknownCommand = errors.New("unknown command")

// Run is the main entry point. args includes the program name. sigCh, if
// non-nil, cancels the running command on the first signal. Returns the
// exit code.
func Run(stdin io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals, rest, err := parseGlobalFlags(args[min(1, len(args)):])
	if err != nil {
		fprintln(errOut, "error:", err)
		printUsage(errOut, nil)

		return 1
	}

	if len(rest) == 0 || rest[0] == "-h" || rest[0] == helpFlag || rest[0] == "help" {
		printUsage(out, nil)

		return 0
	}

	cfg, err := config.Load(config.LoadInput{
		WorkDirOverride:   globals.workDir,
		ConfigPath:        globals.configPath,
		DataDirOverride:   globals.dataDir,
		StateFileOverride: globals.stateFile,
		UserOverride:      globals.user,
		Verbose:           globals.verbose,
		Env:               env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	a := &app{
		cfg:    cfg,
		env:    env,
		stdin:  stdin,
		errOut: errOut,
		log:    slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: cfg.Slog()})),
	}

	return a.dispatch(ctx, NewIO(out, errOut), rest)
}

// dispatch runs the command named by args[0].
func (a *app) dispatch(ctx context.Context, o *IO, args []string) int {
	groups := a.commandGroups()

	for _, g := range groups {
		for _, cmd := range g.commands {
			if cmd.Name() == args[0] {
				return cmd.Run(ctx, o, args[1:])
			}
		}
	}

	o.ErrPrintln("error:", fmt.Errorf("%w: %s", errUnknownCommand, args[0]))
	printUsage(a.errOut, groups)

	return 1
}

type globalFlags struct {
	workDir    string
	configPath string
	dataDir    string
	stateFile  string
	user       string
	verbose    bool
}

// parseGlobalFlags parses flags up to the first non-flag argument, which
// starts the command.
func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var g globalFlags

	fs := flag.NewFlagSet("yahtl", flag.ContinueOnError)
	fs.SetOutput(&strings.Builder{})
	fs.SetInterspersed(false)
	fs.StringVarP(&g.workDir, "cwd", "C", "", "Run as if started in `dir`")
	fs.StringVarP(&g.configPath, "config", "c", "", "Use the given config `file`")
	fs.StringVar(&g.dataDir, "data-dir", "", "Store lists in `dir`")
	fs.StringVar(&g.stateFile, "state-file", "", "Read sensor and presence states from `file`")
	fs.StringVar(&g.user, "user", "", "Act as `user`")
	fs.BoolVarP(&g.verbose, "verbose", "v", false, "Debug logging")

	err := fs.Parse(args)
	if errors.Is(err, flag.ErrHelp) {
		return g, []string{helpFlag}, nil
	}

	if err != nil {
		return globalFlags{}, nil, err
	}

	return g, fs.Args(), nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, groups []commandGroup) {
	if groups == nil {
		groups = (&app{}).commandGroups()
	}

	_, _ = fmt.Fprint(w, `yahtl - tasks, habits and chores, queued by what you can do now

Usage: yahtl [options] <command> [args]

Options:
  -C, --cwd <dir>          Run as if started in <dir>
  -c, --config <file>      Use specified config file
      --data-dir <dir>     Store lists in <dir>
      --state-file <file>  Read sensor and presence states from <file>
      --user <user>        Act as <user>
  -v, --verbose            Debug logging
`+"\n")

	writeCommandGroups(w, groups)
}
