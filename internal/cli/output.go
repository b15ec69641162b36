package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/yahtl/internal/model"
)

// printJSON writes v as indented JSON.
func printJSON(o *IO, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	o.Println(string(data))

	return nil
}

// printYAML writes v as YAML. v goes through its JSON encoding first so
// items keep their wire field names and instant format.
func printYAML(o *IO, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	var generic any

	err = json.Unmarshal(data, &generic)
	if err != nil {
		return fmt.Errorf("unmarshal json: %w", err)
	}

	out, err := yaml.Marshal(generic)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	o.Printf("%s", out)

	return nil
}

// printStructured prints v as JSON or YAML. Returns false when neither was
// requested.
func printStructured(o *IO, v any, asJSON, asYAML bool) (bool, error) {
	switch {
	case asJSON && asYAML:
		return true, errFormatsExclusive
	case asJSON:
		return true, printJSON(o, v)
	case asYAML:
		return true, printYAML(o, v)
	default:
		return false, nil
	}
}

func joinOrDash[T ~string](values []T) string {
	if len(values) == 0 {
		return "-"
	}

	parts := make([]string, 0, len(values))
	for _, v := range values {
		parts = append(parts, string(v))
	}

	return strings.Join(parts, ", ")
}

func toTraits(values []string) []model.Trait {
	out := make([]model.Trait, 0, len(values))
	for _, v := range values {
		out = append(out, model.Trait(strings.ToLower(v)))
	}

	return out
}

func toMode(value string) model.Mode {
	return model.Mode(strings.ToUpper(value))
}

// parseThreshold parses "<days>:<priority>".
func parseThreshold(s string) (model.RecurrenceThreshold, error) {
	days, prio, ok := strings.Cut(s, ":")
	if !ok {
		return model.RecurrenceThreshold{}, fmt.Errorf("%w: %q", errInvalidThreshold, s)
	}

	n, err := strconv.Atoi(days)
	if err != nil {
		return model.RecurrenceThreshold{}, fmt.Errorf("%w: %q", errInvalidThreshold, s)
	}

	return model.RecurrenceThreshold{AtDaysRemaining: n, Priority: model.Priority(strings.ToLower(prio))}, nil
}

// oneArg returns the single positional argument or err when missing.
func oneArg(args []string, missing error) (string, error) {
	switch len(args) {
	case 0:
		return "", missing
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("%w: %s", errTooManyArgs, strings.Join(args[1:], " "))
	}
}

func itemLine(it *model.Item) string {
	return fmt.Sprintf("%s  %-11s  %s", it.UID, it.Status, it.Title)
}
