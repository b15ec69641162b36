package store

import (
	"fmt"
	"slices"
	"time"

	"github.com/calvinalkan/yahtl/internal/model"
)

// maxUIDAttempts bounds uid regeneration on collision.
const maxUIDAttempts = 10

// Registry is the in-memory set of lists in a data dir, keyed by list id
// and ordered by id. Item lookups by uid scan lists in that order and
// return the first match.
type Registry struct {
	store  *Store
	lists  map[string]*model.List
	order  []string
	newUID func() string
}

// OpenRegistry loads every list document in the store's data dir.
func OpenRegistry(s *Store) (*Registry, error) {
	ids, err := s.ListIDs()
	if err != nil {
		return nil, err
	}

	r := &Registry{
		store:  s,
		lists:  make(map[string]*model.List, len(ids)),
		order:  make([]string, 0, len(ids)),
		newUID: model.NewUID,
	}

	for _, id := range ids {
		l, loadErr := s.Load(id)
		if loadErr != nil {
			return nil, loadErr
		}

		r.put(l)
	}

	return r, nil
}

// Store returns the backing store.
func (r *Registry) Store() *Store {
	return r.store
}

// Lists returns the lists in id order.
func (r *Registry) Lists() []*model.List {
	out := make([]*model.List, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.lists[id])
	}

	return out
}

// List returns the list with id.
func (r *Registry) List(id string) (*model.List, bool) {
	l, ok := r.lists[id]

	return l, ok
}

// FindItem returns the first item with uid, in list order, and its list.
func (r *Registry) FindItem(uid string) (*model.Item, *model.List, error) {
	for _, id := range r.order {
		l := r.lists[id]
		if it := l.Item(uid); it != nil {
			return it, l, nil
		}
	}

	return nil, nil, fmt.Errorf("%w: %s", ErrItemNotFound, uid)
}

// NewItem returns a new item whose uid is unused across every list.
func (r *Registry) NewItem(title, createdBy string, now time.Time) (*model.Item, error) {
	it := model.NewItem(title, createdBy, now)

	for range maxUIDAttempts {
		it.UID = r.newUID()

		if _, _, err := r.FindItem(it.UID); err != nil {
			return it, nil
		}
	}

	return nil, ErrUIDExhausted
}

// put inserts or replaces l, keeping id order.
func (r *Registry) put(l *model.List) {
	if _, ok := r.lists[l.ListID]; !ok {
		i, _ := slices.BinarySearch(r.order, l.ListID)
		r.order = slices.Insert(r.order, i, l.ListID)
	}

	r.lists[l.ListID] = l
}

// Create persists a new list and adds it to the registry.
func (r *Registry) Create(l *model.List) error {
	err := r.store.Create(l)
	if err != nil {
		return err
	}

	r.put(l)

	return nil
}

// Update applies fn to the stored list under its lock and refreshes the
// registry with the written result.
func (r *Registry) Update(listID string, fn func(l *model.List) error) (*model.List, error) {
	l, err := r.store.Update(listID, fn)
	if err != nil {
		return nil, err
	}

	r.put(l)

	return l, nil
}

// Delete removes the list document and drops it from the registry.
func (r *Registry) Delete(listID string) error {
	err := r.store.Delete(listID)
	if err != nil {
		return err
	}

	delete(r.lists, listID)
	r.order = slices.DeleteFunc(r.order, func(id string) bool { return id == listID })

	return nil
}
