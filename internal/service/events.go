package service

import "time"

// EventKind names what a command changed.
type EventKind string

// Event kinds.
const (
	EventListCreated    EventKind = "list_created"
	EventListUpdated    EventKind = "list_updated"
	EventItemAdded      EventKind = "item_added"
	EventItemUpdated    EventKind = "item_updated"
	EventItemCompleted  EventKind = "item_completed"
	EventItemDeleted    EventKind = "item_deleted"
	EventItemMoved      EventKind = "item_moved"
	EventContextUpdated EventKind = "context_updated"
)

// ChangeEvent is emitted after a command has been saved.
type ChangeEvent struct {
	Kind    EventKind
	ListID  string
	ItemUID string
	At      time.Time
}

// Notifier receives change events.
type Notifier interface {
	Notify(ev ChangeEvent)
}

// NotifierFunc adapts a function to a Notifier.
type NotifierFunc func(ev ChangeEvent)

// Notify calls f(ev).
func (f NotifierFunc) Notify(ev ChangeEvent) { f(ev) }

type discardNotifier struct{}

func (discardNotifier) Notify(ChangeEvent) {}
