package model

import "slices"

// List is a yahtl list, the unit of persistence. Item uids are unique
// within a list.
type List struct {
	ListID     string
	Name       string
	Owner      string
	Visibility Visibility
	SharedWith []string
	IsInbox    bool
	Items      []*Item
}

// NewList returns an empty private list.
func NewList(listID, name string) *List {
	return &List{
		ListID:     listID,
		Name:       name,
		Visibility: VisibilityPrivate,
		SharedWith: []string{},
		Items:      []*Item{},
	}
}

// Item returns the item with uid, or nil.
func (l *List) Item(uid string) *Item {
	for _, it := range l.Items {
		if it.UID == uid {
			return it
		}
	}

	return nil
}

// AddItem appends an item.
func (l *List) AddItem(it *Item) {
	l.Items = append(l.Items, it)
}

// RemoveItem removes the item with uid. Returns false if not found.
func (l *List) RemoveItem(uid string) bool {
	idx := l.indexOf(uid)
	if idx < 0 {
		return false
	}

	l.Items = slices.Delete(l.Items, idx, idx+1)

	return true
}

// MoveItem moves the item with uid directly after afterUID. An empty
// afterUID moves it to the front; an unknown afterUID moves it to the end.
// Returns false if uid is not in the list.
func (l *List) MoveItem(uid, afterUID string) bool {
	idx := l.indexOf(uid)
	if idx < 0 {
		return false
	}

	it := l.Items[idx]
	l.Items = slices.Delete(l.Items, idx, idx+1)

	if afterUID == "" {
		l.Items = slices.Insert(l.Items, 0, it)

		return true
	}

	prev := l.indexOf(afterUID)
	if prev < 0 {
		l.Items = append(l.Items, it)

		return true
	}

	l.Items = slices.Insert(l.Items, prev+1, it)

	return true
}

func (l *List) indexOf(uid string) int {
	return slices.IndexFunc(l.Items, func(it *Item) bool { return it.UID == uid })
}
