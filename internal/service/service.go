// Package service is the yahtl command surface. Every mutating command
// validates its input, applies the change to the owning list under the
// list's lock, saves it and then emits a ChangeEvent.
package service

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/calvinalkan/yahtl/internal/clock"
	"github.com/calvinalkan/yahtl/internal/engine"
	"github.com/calvinalkan/yahtl/internal/model"
	"github.com/calvinalkan/yahtl/internal/store"
)

// Options configures a Service. Registry and Engine are required.
type Options struct {
	Registry *store.Registry
	Engine   *engine.Engine
	Clock    clock.Clock
	Logger   *slog.Logger
	Notifier Notifier
	// User is recorded as creator and completer when a command names none.
	User string
}

// Service executes commands against the lists in a registry.
type Service struct {
	reg    *store.Registry
	eng    *engine.Engine
	clock  clock.Clock
	log    *slog.Logger
	notify Notifier
	user   string
}

// New returns a Service.
func New(opts Options) *Service {
	s := &Service{
		reg:    opts.Registry,
		eng:    opts.Engine,
		clock:  opts.Clock,
		log:    opts.Logger,
		notify: opts.Notifier,
		user:   opts.User,
	}

	if s.clock == nil {
		s.clock = clock.Real()
	}

	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}

	if s.notify == nil {
		s.notify = discardNotifier{}
	}

	return s
}

// Registry returns the registry the service operates on.
func (s *Service) Registry() *store.Registry {
	return s.reg
}

func (s *Service) emit(kind EventKind, listID, uid string) {
	ev := ChangeEvent{Kind: kind, ListID: listID, ItemUID: uid, At: s.clock.Now()}
	s.log.Debug("change", "kind", kind, "list", listID, "item", uid)
	s.notify.Notify(ev)
}

func (s *Service) userOr(user string) string {
	if user != "" {
		return user
	}

	return s.user
}

// mutateItem applies fn to the item with uid inside its list's update and
// returns a copy of the saved item.
func (s *Service) mutateItem(uid string, kind EventKind, fn func(it *model.Item, l *model.List) error) (model.Item, error) {
	_, owner, err := s.reg.FindItem(uid)
	if err != nil {
		return model.Item{}, err
	}

	var saved model.Item

	_, err = s.reg.Update(owner.ListID, func(l *model.List) error {
		it := l.Item(uid)
		if it == nil {
			return fmt.Errorf("%w: %s", store.ErrItemNotFound, uid)
		}

		fnErr := fn(it, l)
		if fnErr != nil {
			return fnErr
		}

		saved = it.Clone()

		return nil
	})
	if err != nil {
		return model.Item{}, err
	}

	s.emit(kind, owner.ListID, uid)

	return saved, nil
}

// now is used for timestamps written by commands.
func (s *Service) now() time.Time {
	return s.clock.Now()
}
