package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// instantLayouts are tried in order when reading instants. Values without a
// zone are interpreted in the local zone.
var instantLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FormatInstant formats t as an ISO-8601 / RFC 3339 string.
func FormatInstant(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseInstant parses an ISO-8601 instant with or without zone, or a bare date.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	for i, layout := range instantLayouts {
		var (
			t   time.Time
			err error
		)

		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}

		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidInstant, s)
}

func formatInstantPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}

	s := FormatInstant(*t)

	return &s
}

func parseInstantPtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}

	t, err := ParseInstant(*s)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

type completionJSON struct {
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

// MarshalJSON implements json.Marshaler.
func (r CompletionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(completionJSON{UserID: r.UserID, Timestamp: FormatInstant(r.Timestamp)})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *CompletionRecord) UnmarshalJSON(data []byte) error {
	var raw completionJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	if raw.Timestamp == "" {
		return fmt.Errorf("%w: timestamp", ErrMissingField)
	}

	ts, err := ParseInstant(raw.Timestamp)
	if err != nil {
		return err
	}

	*r = CompletionRecord{UserID: raw.UserID, Timestamp: ts}

	return nil
}

// UnmarshalJSON fills absent modes with their defaults.
func (b *BlockerConfig) UnmarshalJSON(data []byte) error {
	type plain BlockerConfig

	p := plain(DefaultBlockerConfig())

	err := json.Unmarshal(data, &p)
	if err != nil {
		return err
	}

	*b = BlockerConfig(p)

	return nil
}

// UnmarshalJSON fills an absent mode with its default.
func (r *RequirementsConfig) UnmarshalJSON(data []byte) error {
	type plain RequirementsConfig

	p := plain(DefaultRequirementsConfig())

	err := json.Unmarshal(data, &p)
	if err != nil {
		return err
	}

	*r = RequirementsConfig(p)

	return nil
}

// itemJSON is the persisted shape of an Item.
type itemJSON struct {
	UID               string              `json:"uid"`
	Title             string              `json:"title"`
	Description       string              `json:"description"`
	Traits            []Trait             `json:"traits"`
	Tags              []string            `json:"tags"`
	Status            Status              `json:"status"`
	NeedsDetail       bool                `json:"needs_detail"`
	Due               *string             `json:"due"`
	TimeEstimate      *int                `json:"time_estimate"`
	BufferBefore      int                 `json:"buffer_before"`
	BufferAfter       int                 `json:"buffer_after"`
	Recurrence        *RecurrenceConfig   `json:"recurrence"`
	Blockers          *BlockerConfig      `json:"blockers"`
	Requirements      *RequirementsConfig `json:"requirements"`
	Priority          *Priority           `json:"priority"`
	CompletionHistory []CompletionRecord  `json:"completion_history"`
	CurrentStreak     int                 `json:"current_streak"`
	LastCompleted     *string             `json:"last_completed"`
	CreatedAt         *string             `json:"created_at"`
	CreatedBy         string              `json:"created_by"`
}

// MarshalJSON implements json.Marshaler.
func (it Item) MarshalJSON() ([]byte, error) {
	raw := itemJSON{
		UID:               it.UID,
		Title:             it.Title,
		Description:       it.Description,
		Traits:            it.Traits,
		Tags:              it.Tags,
		Status:            it.Status,
		NeedsDetail:       it.NeedsDetail,
		Due:               formatInstantPtr(it.Due),
		TimeEstimate:      it.TimeEstimate,
		BufferBefore:      it.BufferBefore,
		BufferAfter:       it.BufferAfter,
		Recurrence:        it.Recurrence,
		Blockers:          it.Blockers,
		Requirements:      it.Requirements,
		CompletionHistory: it.CompletionHistory,
		CurrentStreak:     it.CurrentStreak,
		LastCompleted:     formatInstantPtr(it.LastCompleted),
		CreatedBy:         it.CreatedBy,
	}

	if raw.Traits == nil {
		raw.Traits = []Trait{}
	}

	if raw.Tags == nil {
		raw.Tags = []string{}
	}

	if raw.CompletionHistory == nil {
		raw.CompletionHistory = []CompletionRecord{}
	}

	if it.Priority != "" {
		p := it.Priority
		raw.Priority = &p
	}

	if !it.CreatedAt.IsZero() {
		raw.CreatedAt = formatInstantPtr(&it.CreatedAt)
	}

	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler. Absent fields take their defaults.
func (it *Item) UnmarshalJSON(data []byte) error {
	var raw itemJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	if raw.UID == "" {
		return fmt.Errorf("%w: uid", ErrMissingField)
	}

	out := Item{
		UID:               raw.UID,
		Title:             raw.Title,
		Description:       raw.Description,
		Traits:            raw.Traits,
		Tags:              raw.Tags,
		Status:            raw.Status,
		NeedsDetail:       raw.NeedsDetail,
		TimeEstimate:      raw.TimeEstimate,
		BufferBefore:      raw.BufferBefore,
		BufferAfter:       raw.BufferAfter,
		Recurrence:        raw.Recurrence,
		Blockers:          raw.Blockers,
		Requirements:      raw.Requirements,
		CompletionHistory: raw.CompletionHistory,
		CurrentStreak:     raw.CurrentStreak,
		CreatedBy:         raw.CreatedBy,
	}

	if out.Traits == nil {
		out.Traits = []Trait{TraitActionable}
	}

	if out.Tags == nil {
		out.Tags = []string{}
	}

	if out.Status == "" {
		out.Status = StatusPending
	}

	if raw.Priority != nil {
		out.Priority = *raw.Priority
	}

	out.Due, err = parseInstantPtr(raw.Due)
	if err != nil {
		return fmt.Errorf("due: %w", err)
	}

	out.LastCompleted, err = parseInstantPtr(raw.LastCompleted)
	if err != nil {
		return fmt.Errorf("last_completed: %w", err)
	}

	created, err := parseInstantPtr(raw.CreatedAt)
	if err != nil {
		return fmt.Errorf("created_at: %w", err)
	}

	if created != nil {
		out.CreatedAt = *created
	}

	*it = out

	return nil
}

// listJSON is the persisted shape of a List.
type listJSON struct {
	ListID     string     `json:"list_id"`
	Name       string     `json:"name"`
	Owner      string     `json:"owner"`
	Visibility Visibility `json:"visibility"`
	SharedWith []string   `json:"shared_with"`
	IsInbox    bool       `json:"is_inbox"`
	Items      []*Item    `json:"items"`
}

// MarshalJSON implements json.Marshaler.
func (l List) MarshalJSON() ([]byte, error) {
	raw := listJSON(l)

	if raw.SharedWith == nil {
		raw.SharedWith = []string{}
	}

	if raw.Items == nil {
		raw.Items = []*Item{}
	}

	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler. list_id and name are required.
func (l *List) UnmarshalJSON(data []byte) error {
	var raw listJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	if raw.ListID == "" {
		return fmt.Errorf("%w: list_id", ErrMissingField)
	}

	if raw.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingField)
	}

	if raw.Visibility == "" {
		raw.Visibility = VisibilityPrivate
	}

	if raw.SharedWith == nil {
		raw.SharedWith = []string{}
	}

	if raw.Items == nil {
		raw.Items = []*Item{}
	}

	*l = List(raw)

	return nil
}

type contextOverrideJSON struct {
	Location  string   `json:"location,omitempty"`
	People    []string `json:"people"`
	Contexts  []string `json:"contexts"`
	UpdatedAt string   `json:"updated_at"`
}

// MarshalJSON implements json.Marshaler.
func (o ContextOverride) MarshalJSON() ([]byte, error) {
	raw := contextOverrideJSON{
		Location: o.Location,
		People:   o.People,
		Contexts: o.Contexts,
	}

	if raw.People == nil {
		raw.People = []string{}
	}

	if raw.Contexts == nil {
		raw.Contexts = []string{}
	}

	if !o.UpdatedAt.IsZero() {
		raw.UpdatedAt = FormatInstant(o.UpdatedAt)
	}

	return json.Marshal(raw)
}

// UnmarshalJSON implements json.Unmarshaler.
func (o *ContextOverride) UnmarshalJSON(data []byte) error {
	var raw contextOverrideJSON

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return err
	}

	out := ContextOverride{Location: raw.Location, People: raw.People, Contexts: raw.Contexts}

	if raw.UpdatedAt != "" {
		out.UpdatedAt, err = ParseInstant(raw.UpdatedAt)
		if err != nil {
			return fmt.Errorf("updated_at: %w", err)
		}
	}

	*o = out

	return nil
}
