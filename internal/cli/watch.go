package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/model"
)

const defaultDebounce = 100 * time.Millisecond

func watchCmd(a *app) *Command {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	opts := addQueueFlags(fs)
	debounce := fs.Duration("debounce", defaultDebounce, "Wait this long after a change before re-printing")

	return &Command{
		Flags: fs,
		Usage: "watch [flags]",
		Short: "Re-print the queue whenever lists or states change",
		Long: `Print the queue, then print it again whenever a list, the saved context
or the state file changes. Runs until interrupted.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("%w: %v", errTooManyArgs, args)
			}

			w, err := fsnotify.NewWatcher()
			if err != nil {
				return fmt.Errorf("starting watcher: %w", err)
			}

			defer func() { _ = w.Close() }()

			err = os.MkdirAll(a.cfg.DataDirAbs, 0o750)
			if err != nil {
				return fmt.Errorf("creating data dir: %w", err)
			}

			dirs := []string{a.cfg.DataDirAbs}
			if a.cfg.StateFileAbs != "" {
				dirs = append(dirs, filepath.Dir(a.cfg.StateFileAbs))
			}

			for _, dir := range dirs {
				err = w.Add(dir)
				if err != nil {
					return fmt.Errorf("watching %s: %w", dir, err)
				}

				a.log.Debug("watching directory", "path", dir)
			}

			render := func() {
				s, openErr := a.open()
				if openErr != nil {
					o.ErrPrintln("error:", openErr)

					return
				}

				entries, computeErr := opts.compute(s)
				if computeErr != nil {
					o.ErrPrintln("error:", computeErr)

					return
				}

				o.Printf("--- queue at %s\n", model.FormatInstant(s.clock.Now()))

				printErr := printQueue(o, entries, "", false, false)
				if printErr != nil {
					o.ErrPrintln("error:", printErr)
				}
			}

			render()

			var fire <-chan time.Time

			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-w.Events:
					if !ok {
						return nil
					}

					if a.watched(ev.Name) {
						a.log.Debug("change detected", "path", ev.Name, "op", ev.Op.String())
						fire = time.After(*debounce)
					}
				case werr, ok := <-w.Errors:
					if !ok {
						return nil
					}

					a.log.Warn("watcher error", "error", werr)
				case <-fire:
					fire = nil

					render()
				}
			}
		},
	}
}

// watched reports whether a change to path can alter the queue.
func (a *app) watched(path string) bool {
	if a.cfg.StateFileAbs != "" && filepath.Clean(path) == a.cfg.StateFileAbs {
		return true
	}

	if filepath.Dir(path) != a.cfg.DataDirAbs {
		return false
	}

	base := filepath.Base(path)

	return base == "context.json" || (strings.HasPrefix(base, "yahtl.") && strings.HasSuffix(base, ".json"))
}
