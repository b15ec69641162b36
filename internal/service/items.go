package service

import (
	"fmt"
	"time"

	"github.com/calvinalkan/yahtl/internal/model"
	"github.com/calvinalkan/yahtl/internal/store"
)

// ItemInput describes an item to add. Empty Traits means actionable.
type ItemInput struct {
	Title        string
	Description  string
	Traits       []model.Trait
	Tags         []string
	Due          *time.Time
	TimeEstimate *int
	Priority     model.Priority
	NeedsDetail  bool
	BufferBefore int
	BufferAfter  int
	CreatedBy    string
}

// ItemPatch lists field updates. Nil fields are left unchanged.
type ItemPatch struct {
	Title         *string
	Description   *string
	Due           *time.Time
	ClearDue      bool
	TimeEstimate  *int
	ClearEstimate bool
	// Priority set to "" clears the priority.
	Priority     *model.Priority
	BufferBefore *int
	BufferAfter  *int
}

func validateTraits(traits []model.Trait) error {
	for _, t := range traits {
		if !model.IsValidTrait(t) {
			return fmt.Errorf("%w: %q", ErrInvalidTrait, t)
		}
	}

	return nil
}

func validatePriority(p model.Priority) error {
	if p != "" && !model.IsValidPriority(p) {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, p)
	}

	return nil
}

func validateEstimate(minutes *int) error {
	if minutes != nil && *minutes <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEstimate, *minutes)
	}

	return nil
}

func validateBuffers(values ...int) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidBuffer, v)
		}
	}

	return nil
}

func (in ItemInput) validate() error {
	if in.Title == "" {
		return ErrTitleRequired
	}

	err := validateTraits(in.Traits)
	if err != nil {
		return err
	}

	err = validatePriority(in.Priority)
	if err != nil {
		return err
	}

	err = validateEstimate(in.TimeEstimate)
	if err != nil {
		return err
	}

	return validateBuffers(in.BufferBefore, in.BufferAfter)
}

// AddItem appends a new item to the list and returns it.
func (s *Service) AddItem(listID string, in ItemInput) (model.Item, error) {
	err := in.validate()
	if err != nil {
		return model.Item{}, err
	}

	if _, ok := s.reg.List(listID); !ok {
		return model.Item{}, fmt.Errorf("%w: %s", store.ErrListNotFound, listID)
	}

	it, err := s.reg.NewItem(in.Title, s.userOr(in.CreatedBy), s.now())
	if err != nil {
		return model.Item{}, err
	}

	it.Description = in.Description

	if len(in.Traits) > 0 {
		it.SetTraits(in.Traits)
	}

	it.AddTags(in.Tags...)

	if in.Due != nil {
		due := *in.Due
		it.Due = &due
	}

	if in.TimeEstimate != nil {
		est := *in.TimeEstimate
		it.TimeEstimate = &est
	}

	it.Priority = in.Priority
	it.NeedsDetail = in.NeedsDetail
	it.BufferBefore = in.BufferBefore
	it.BufferAfter = in.BufferAfter

	_, err = s.reg.Update(listID, func(l *model.List) error {
		l.AddItem(it)

		return nil
	})
	if err != nil {
		return model.Item{}, err
	}

	s.emit(EventItemAdded, listID, it.UID)

	return it.Clone(), nil
}

// UpdateItem applies patch to the item.
func (s *Service) UpdateItem(uid string, patch ItemPatch) (model.Item, error) {
	if patch.Title != nil && *patch.Title == "" {
		return model.Item{}, ErrTitleRequired
	}

	if patch.Priority != nil {
		err := validatePriority(*patch.Priority)
		if err != nil {
			return model.Item{}, err
		}
	}

	err := validateEstimate(patch.TimeEstimate)
	if err != nil {
		return model.Item{}, err
	}

	for _, b := range []*int{patch.BufferBefore, patch.BufferAfter} {
		if b != nil {
			err = validateBuffers(*b)
			if err != nil {
				return model.Item{}, err
			}
		}
	}

	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		if patch.Title != nil {
			it.Title = *patch.Title
		}

		if patch.Description != nil {
			it.Description = *patch.Description
		}

		switch {
		case patch.ClearDue:
			it.Due = nil
		case patch.Due != nil:
			due := *patch.Due
			it.Due = &due
		}

		switch {
		case patch.ClearEstimate:
			it.TimeEstimate = nil
		case patch.TimeEstimate != nil:
			est := *patch.TimeEstimate
			it.TimeEstimate = &est
		}

		if patch.Priority != nil {
			it.Priority = *patch.Priority
		}

		if patch.BufferBefore != nil {
			it.BufferBefore = *patch.BufferBefore
		}

		if patch.BufferAfter != nil {
			it.BufferAfter = *patch.BufferAfter
		}

		return nil
	})
}

// StartItem moves a pending item to in_progress.
func (s *Service) StartItem(uid string) (model.Item, error) {
	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		if it.Status != model.StatusPending {
			return fmt.Errorf("%w: %s is %s", ErrItemNotPending, uid, it.Status)
		}

		it.Status = model.StatusInProgress

		return nil
	})
}

// CompleteItem records a completion by user (the service user if empty)
// and recomputes the streak. A recurring item with a computable next due
// date is re-armed as pending with that due date, a frequency goal is
// re-armed as pending with no due date, and anything else is completed.
func (s *Service) CompleteItem(uid, user string) (model.Item, error) {
	return s.mutateItem(uid, EventItemCompleted, func(it *model.Item, _ *model.List) error {
		if !it.IsOpen() {
			return fmt.Errorf("%w: %s is %s", ErrItemNotOpen, uid, it.Status)
		}

		now := s.now()
		it.RecordCompletion(s.userOr(user), now)
		it.CurrentStreak = s.eng.CalculateStreak(it)

		if it.Recurrence != nil {
			if next, ok := s.eng.CalculateNextDue(it, now); ok {
				it.Status = model.StatusPending
				it.Due = &next

				return nil
			}

			if it.Recurrence.Type == model.RecurrenceFrequency {
				it.Status = model.StatusPending
				it.Due = nil

				return nil
			}
		}

		it.Status = model.StatusCompleted

		return nil
	})
}

// ReopenItem moves a completed or missed item back to pending.
func (s *Service) ReopenItem(uid string) (model.Item, error) {
	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		if it.IsOpen() {
			return fmt.Errorf("%w: %s is %s", ErrItemAlreadyOpen, uid, it.Status)
		}

		it.Status = model.StatusPending

		return nil
	})
}

// MissItem marks an open item as missed.
func (s *Service) MissItem(uid string) (model.Item, error) {
	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		if !it.IsOpen() {
			return fmt.Errorf("%w: %s is %s", ErrItemNotOpen, uid, it.Status)
		}

		it.Status = model.StatusMissed

		return nil
	})
}

// DeleteItem removes the item from its list.
func (s *Service) DeleteItem(uid string) error {
	_, err := s.mutateItem(uid, EventItemDeleted, func(it *model.Item, l *model.List) error {
		l.RemoveItem(it.UID)

		return nil
	})

	return err
}

// MoveItem moves the item directly after afterUID in its list, or to the
// front when afterUID is empty. afterUID must be in the same list.
func (s *Service) MoveItem(uid, afterUID string) error {
	_, err := s.mutateItem(uid, EventItemMoved, func(it *model.Item, l *model.List) error {
		if afterUID != "" && (afterUID == uid || l.Item(afterUID) == nil) {
			return fmt.Errorf("%w: %s", ErrMoveTargetNotFound, afterUID)
		}

		l.MoveItem(it.UID, afterUID)

		return nil
	})

	return err
}

// SetTraits replaces the item's traits.
func (s *Service) SetTraits(uid string, traits []model.Trait) (model.Item, error) {
	err := validateTraits(traits)
	if err != nil {
		return model.Item{}, err
	}

	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		it.SetTraits(traits)

		return nil
	})
}

// AddTags adds tags the item does not have yet.
func (s *Service) AddTags(uid string, tags []string) (model.Item, error) {
	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		it.AddTags(tags...)

		return nil
	})
}

// RemoveTags removes tags from the item.
func (s *Service) RemoveTags(uid string, tags []string) (model.Item, error) {
	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		it.RemoveTags(tags...)

		return nil
	})
}

// SetNeedsDetail flags or unflags the item as needing more detail.
func (s *Service) SetNeedsDetail(uid string, needsDetail bool) (model.Item, error) {
	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		it.NeedsDetail = needsDetail

		return nil
	})
}
