package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/yahtl/internal/engine"
	"github.com/calvinalkan/yahtl/internal/model"
)

// itemReport is an item with everything the engine says about it right now.
type itemReport struct {
	Item               model.Item                `json:"item"`
	ListID             string                    `json:"list_id"`
	Blocked            bool                      `json:"blocked"`
	BlockedReasons     []string                  `json:"blocked_reasons"`
	RequirementsMet    bool                      `json:"requirements_met"`
	RequirementReasons []string                  `json:"requirement_reasons"`
	NextDue            *time.Time                `json:"next_due"`
	Streak             *int                      `json:"streak,omitempty"`
	StreakAtRisk       bool                      `json:"streak_at_risk"`
	Frequency          *engine.FrequencyProgress `json:"frequency,omitempty"`
	Score              int                       `json:"score"`
}

func buildReport(s *session, it *model.Item, l *model.List, ctx engine.Context) itemReport {
	lists := s.reg.Lists()

	blocked, blockedReasons := s.eng.IsItemBlocked(it, lists)
	met, reqReasons := s.eng.CheckRequirementsMet(it, ctx)

	r := itemReport{
		Item:               it.Clone(),
		ListID:             l.ListID,
		Blocked:            blocked,
		BlockedReasons:     nonNil(blockedReasons),
		RequirementsMet:    met,
		RequirementReasons: nonNil(reqReasons),
		StreakAtRisk:       s.eng.IsStreakAtRisk(it),
		Score:              s.eng.Score(it, ctx),
	}

	if it.Recurrence != nil {
		var from time.Time
		if it.LastCompleted != nil {
			from = *it.LastCompleted
		}

		if next, ok := s.eng.CalculateNextDue(it, from); ok {
			r.NextDue = &next
		}

		streak := s.eng.CalculateStreak(it)
		r.Streak = &streak
	}

	if fp, ok := s.eng.FrequencyProgress(it); ok {
		r.Frequency = &fp
	}

	return r
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}

	return values
}

func showCmd(a *app) *Command {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	asJSON := fs.Bool("json", false, "Output as JSON")
	asYAML := fs.Bool("yaml", false, "Output as YAML")

	return &Command{
		Flags: fs,
		Usage: "show <uid> [--json|--yaml]",
		Short: "Show an item with its queue diagnostics",
		Exec: func(_ context.Context, o *IO, args []string) error {
			uid, err := oneArg(args, errUIDRequired)
			if err != nil {
				return err
			}

			s, err := a.open()
			if err != nil {
				return err
			}

			it, l, err := s.reg.FindItem(uid)
			if err != nil {
				return err
			}

			ctx, err := s.contextFor(model.ContextOverride{})
			if err != nil {
				return err
			}

			r := buildReport(s, it, l, ctx)

			done, err := printStructured(o, r, *asJSON, *asYAML)
			if done {
				return err
			}

			printReport(o, &r)

			return nil
		},
	}
}

func printReport(o *IO, r *itemReport) {
	it := &r.Item

	o.Printf("uid:          %s\n", it.UID)
	o.Printf("title:        %s\n", it.Title)

	if it.Description != "" {
		o.Printf("description:  %s\n", it.Description)
	}

	o.Printf("list:         %s\n", r.ListID)
	o.Printf("status:       %s\n", it.Status)
	o.Printf("traits:       %s\n", joinOrDash(it.Traits))
	o.Printf("tags:         %s\n", joinOrDash(it.Tags))

	if it.Priority != "" {
		o.Printf("priority:     %s\n", it.Priority)
	}

	o.Printf("due:          %s\n", formatTime(it.Due))

	if it.TimeEstimate != nil {
		o.Printf("estimate:     %d min\n", *it.TimeEstimate)
	}

	if it.NeedsDetail {
		o.Printf("needs detail: yes\n")
	}

	o.Printf("created:      %s by %s\n", formatTime(&it.CreatedAt), orDash(it.CreatedBy))

	if r.Blocked {
		o.Printf("blocked:      yes (%s)\n", strings.Join(r.BlockedReasons, "; "))
	} else {
		o.Printf("blocked:      no\n")
	}

	if r.RequirementsMet {
		o.Printf("requirements: met\n")
	} else {
		o.Printf("requirements: not met (%s)\n", strings.Join(r.RequirementReasons, "; "))
	}

	if it.Recurrence != nil {
		o.Printf("recurrence:   %s\n", describeRecurrence(it.Recurrence))
		o.Printf("next due:     %s\n", formatTime(r.NextDue))
	}

	if r.Streak != nil {
		risk := ""
		if r.StreakAtRisk {
			risk = " (at risk)"
		}

		o.Printf("streak:       %d%s\n", *r.Streak, risk)
	}

	if r.Frequency != nil {
		fp := r.Frequency
		o.Printf("progress:     %d/%d, %d days remaining", fp.Count, fp.Target, fp.DaysRemaining)

		if fp.ThresholdPriority != "" {
			o.Printf(", %s", fp.ThresholdPriority)
		}

		o.Printf("\n")
	}

	o.Printf("score:        %d\n", r.Score)
}

func describeRecurrence(r *model.RecurrenceConfig) string {
	switch r.Type {
	case model.RecurrenceCalendar:
		return "calendar " + r.CalendarPattern
	case model.RecurrenceElapsed:
		return fmt.Sprintf("every %d %s", r.ElapsedInterval, orDefault(string(r.ElapsedUnit), "days"))
	case model.RecurrenceFrequency:
		return fmt.Sprintf("%d times per %d %s", r.FrequencyCount, r.FrequencyPeriod, orDefault(string(r.FrequencyUnit), "days"))
	default:
		return string(r.Type)
	}
}

func orDash(s string) string {
	return orDefault(s, "-")
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}

	return s
}
