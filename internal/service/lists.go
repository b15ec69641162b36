package service

import (
	"fmt"
	"slices"

	"github.com/calvinalkan/yahtl/internal/model"
	"github.com/calvinalkan/yahtl/internal/store"
)

// ListInput describes a list to create.
type ListInput struct {
	ListID  string
	Name    string
	Owner   string
	IsInbox bool
}

// CreateList creates an empty private list. The name defaults to the id and
// the owner to the service user.
func (s *Service) CreateList(in ListInput) (*model.List, error) {
	if !store.ValidListID(in.ListID) {
		return nil, fmt.Errorf("%w: %q", store.ErrInvalidListID, in.ListID)
	}

	name := in.Name
	if name == "" {
		name = in.ListID
	}

	l := model.NewList(in.ListID, name)
	l.Owner = s.userOr(in.Owner)
	l.IsInbox = in.IsInbox

	err := s.reg.Create(l)
	if err != nil {
		return nil, err
	}

	s.emit(EventListCreated, l.ListID, "")

	return l, nil
}

// SetVisibility sets who can see a list. sharedWith is stored only for
// shared lists.
func (s *Service) SetVisibility(listID string, visibility model.Visibility, sharedWith []string) (*model.List, error) {
	if !model.IsValidVisibility(visibility) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVisibility, visibility)
	}

	l, err := s.reg.Update(listID, func(l *model.List) error {
		l.Visibility = visibility
		l.SharedWith = []string{}

		if visibility == model.VisibilityShared {
			for _, u := range sharedWith {
				if !slices.Contains(l.SharedWith, u) {
					l.SharedWith = append(l.SharedWith, u)
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(EventListUpdated, listID, "")

	return l, nil
}
