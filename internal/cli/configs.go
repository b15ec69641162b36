package cli

import (
	"context"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/model"
)

// checkClear enforces that --clear stands alone and that something is set
// otherwise.
func checkClear(fs *flag.FlagSet, clearing bool) error {
	changed := 0

	fs.Visit(func(f *flag.Flag) {
		if f.Name != "clear" {
			changed++
		}
	})

	if clearing && changed > 0 {
		return errClearExclusive
	}

	if !clearing && changed == 0 {
		return errNothingToSet
	}

	return nil
}

func blockCmd(a *app) *Command {
	fs := flag.NewFlagSet("block", flag.ContinueOnError)
	items := fs.StringArray("item", nil, "Blocking item uid (repeatable)")
	sensors := fs.StringArray("sensor", nil, "Blocking sensor id (repeatable)")
	mode := fs.String("mode", string(model.ModeAll), "Combine item and sensor categories: ANY or ALL")
	itemMode := fs.String("item-mode", string(model.ModeAny), "Combine blocking items: ANY or ALL")
	sensorMode := fs.String("sensor-mode", string(model.ModeAny), "Combine blocking sensors: ANY or ALL")
	clearFlag := fs.Bool("clear", false, "Remove all blockers")

	return &Command{
		Flags: fs,
		Usage: "block <uid> [flags] | --clear",
		Short: "Set what blocks an item",
		Long: `Replace the item's blocker configuration. An item is blocked while its
blocking items are incomplete or its blocking sensors are on.

Examples:
  yahtl block <uid> --item <other-uid>
  yahtl block <uid> --sensor binary_sensor.washer_running
  yahtl block <uid> --item <a> --item <b> --item-mode ALL`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			err = checkClear(fs, *clearFlag)
			if err != nil {
				return err
			}

			var cfg *model.BlockerConfig

			if !*clearFlag {
				cfg = &model.BlockerConfig{
					Mode:       toMode(*mode),
					Items:      *items,
					ItemMode:   toMode(*itemMode),
					Sensors:    *sensors,
					SensorMode: toMode(*sensorMode),
				}
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			for _, ref := range *items {
				if _, _, findErr := s.reg.FindItem(ref); findErr != nil {
					o.Warn("blocker "+ref+" does not exist", "it is ignored until an item with that uid exists")
				}
			}

			it, err := s.svc.SetBlockers(uid, cfg)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			return nil
		},
	}
}

func requireCmd(a *app) *Command {
	fs := flag.NewFlagSet("require", flag.ContinueOnError)
	locations := fs.StringArray("location", nil, "Required location (repeatable)")
	people := fs.StringArray("person", nil, "Person who must be present (repeatable)")
	times := fs.StringArray("time", nil, "Time constraint: morning, business_hours, evening, night, weekend (repeatable)")
	contexts := fs.StringArray("context", nil, "Required context (repeatable)")
	sensors := fs.StringArray("sensor", nil, "Sensor that must be on (repeatable)")
	mode := fs.String("mode", string(model.ModeAny), "Combine conditions: ANY or ALL")
	clearFlag := fs.Bool("clear", false, "Remove all requirements")

	return &Command{
		Flags: fs,
		Usage: "require <uid> [flags] | --clear",
		Short: "Set when an item is actionable",
		Long: `Replace the item's requirements. The item only enters the queue when the
current context satisfies them (any condition with ANY, every one with ALL).`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			err = checkClear(fs, *clearFlag)
			if err != nil {
				return err
			}

			var cfg *model.RequirementsConfig

			if !*clearFlag {
				cfg = &model.RequirementsConfig{
					Mode:            toMode(*mode),
					Location:        *locations,
					People:          *people,
					TimeConstraints: *times,
					Context:         *contexts,
					Sensors:         *sensors,
				}
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := s.svc.SetRequirements(uid, cfg)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			return nil
		},
	}
}

func recurCmd(a *app) *Command {
	fs := flag.NewFlagSet("recur", flag.ContinueOnError)
	calendar := fs.String("calendar", "", "Calendar pattern: daily, weekly, monthly, yearly")
	every := fs.Int("every", 0, "Repeat this many units after each completion")
	unit := fs.String("unit", string(model.UnitDays), "Unit for --every: days, weeks, months, years")
	times := fs.Int("times", 0, "Complete this many times per period")
	per := fs.Int("per", 0, "Period length for --times (default 30)")
	perUnit := fs.String("per-unit", string(model.UnitDays), "Unit for --per: days, weeks, months")
	thresholds := fs.StringArray("threshold", nil, "Frequency threshold <days>:<priority> (repeatable)")
	clearFlag := fs.Bool("clear", false, "Remove the recurrence")

	return &Command{
		Flags: fs,
		Usage: "recur <uid> (--calendar p | --every n | --times n) [flags] | --clear",
		Short: "Set how an item repeats",
		Long: `Replace the item's recurrence.

  --calendar daily        due again a fixed calendar period after completion
  --every 3 --unit days   due again an interval after completion
  --times 3 --per 1 --per-unit weeks
                          complete a number of times per period

Frequency thresholds raise priority as the period runs out:
  --threshold 7:medium --threshold 2:critical`,
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			err = checkClear(fs, *clearFlag)
			if err != nil {
				return err
			}

			var cfg *model.RecurrenceConfig

			if !*clearFlag {
				cfg, err = recurrenceFromFlags(fs, *calendar, *every, *unit, *times, *per, *perUnit)
				if err != nil {
					return err
				}

				for _, raw := range *thresholds {
					th, parseErr := parseThreshold(raw)
					if parseErr != nil {
						return parseErr
					}

					cfg.Thresholds = append(cfg.Thresholds, th)
				}
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, err := s.svc.SetRecurrence(uid, cfg)
			if err != nil {
				return err
			}

			o.Println(itemLine(&it))

			if cfg != nil && !it.HasTrait(model.TraitRecurring) && !it.HasTrait(model.TraitHabit) {
				o.Warn("item has neither the recurring nor the habit trait",
					fmt.Sprintf("add one with: yahtl traits %s %s recurring", it.UID, joinTraits(it.Traits)))
			}

			return nil
		},
	}
}

func recurrenceFromFlags(fs *flag.FlagSet, calendar string, every int, unit string, times, per int, perUnit string) (*model.RecurrenceConfig, error) {
	kinds := 0

	for _, name := range []string{"calendar", "every", "times"} {
		if fs.Changed(name) {
			kinds++
		}
	}

	if kinds != 1 {
		return nil, errRecurrenceKind
	}

	switch {
	case fs.Changed("calendar"):
		return &model.RecurrenceConfig{
			Type:            model.RecurrenceCalendar,
			CalendarPattern: strings.ToLower(calendar),
		}, nil
	case fs.Changed("every"):
		return &model.RecurrenceConfig{
			Type:            model.RecurrenceElapsed,
			ElapsedInterval: every,
			ElapsedUnit:     model.Unit(strings.ToLower(unit)),
		}, nil
	default:
		return &model.RecurrenceConfig{
			Type:            model.RecurrenceFrequency,
			FrequencyCount:  times,
			FrequencyPeriod: per,
			FrequencyUnit:   model.Unit(strings.ToLower(perUnit)),
		}, nil
	}
}

func joinTraits(traits []model.Trait) string {
	parts := make([]string, 0, len(traits))
	for _, t := range traits {
		parts = append(parts, string(t))
	}

	return strings.Join(parts, " ")
}
