package service

import (
	"fmt"

	"github.com/calvinalkan/yahtl/internal/model"
)

func validateMode(field string, mode model.Mode) error {
	if !model.IsValidMode(mode) {
		return fmt.Errorf("%w: %s %q", ErrInvalidMode, field, mode)
	}

	return nil
}

func validateRecurrence(r *model.RecurrenceConfig) error {
	if !model.IsValidRecurrenceType(r.Type) {
		return fmt.Errorf("%w: type %q", ErrInvalidRecurrence, r.Type)
	}

	switch r.Type {
	case model.RecurrenceCalendar:
		if r.CalendarPattern == "" {
			return fmt.Errorf("%w: calendar pattern is required", ErrInvalidRecurrence)
		}
	case model.RecurrenceElapsed:
		if r.ElapsedInterval < 0 {
			return fmt.Errorf("%w: interval %d", ErrInvalidRecurrence, r.ElapsedInterval)
		}

		if r.ElapsedUnit != "" && !model.IsValidUnit(r.ElapsedUnit, true) {
			return fmt.Errorf("%w: %q", ErrInvalidUnit, r.ElapsedUnit)
		}
	case model.RecurrenceFrequency:
		if r.FrequencyCount < 0 || r.FrequencyPeriod < 0 {
			return fmt.Errorf("%w: count %d per %d", ErrInvalidRecurrence, r.FrequencyCount, r.FrequencyPeriod)
		}

		if r.FrequencyUnit != "" && !model.IsValidUnit(r.FrequencyUnit, false) {
			return fmt.Errorf("%w: %q", ErrInvalidUnit, r.FrequencyUnit)
		}
	}

	for _, th := range r.Thresholds {
		if th.AtDaysRemaining < 0 || !model.IsValidThresholdPriority(th.Priority) {
			return fmt.Errorf("%w: %d:%s", ErrInvalidThreshold, th.AtDaysRemaining, th.Priority)
		}
	}

	return nil
}

// SetRecurrence replaces the item's recurrence. A nil config clears it.
func (s *Service) SetRecurrence(uid string, r *model.RecurrenceConfig) (model.Item, error) {
	if r != nil {
		err := validateRecurrence(r)
		if err != nil {
			return model.Item{}, err
		}
	}

	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		it.Recurrence = cloneRecurrence(r)

		return nil
	})
}

// SetBlockers replaces the item's blockers. A nil config clears it.
func (s *Service) SetBlockers(uid string, b *model.BlockerConfig) (model.Item, error) {
	if b != nil {
		modes := []struct {
			field string
			mode  model.Mode
		}{{"mode", b.Mode}, {"item_mode", b.ItemMode}, {"sensor_mode", b.SensorMode}}

		for _, m := range modes {
			err := validateMode(m.field, m.mode)
			if err != nil {
				return model.Item{}, err
			}
		}

		for _, ref := range b.Items {
			if ref == uid {
				return model.Item{}, fmt.Errorf("%w: %s", ErrCannotBlockSelf, uid)
			}
		}
	}

	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		if b == nil {
			it.Blockers = nil

			return nil
		}

		c := *b
		c.Items = append([]string{}, b.Items...)
		c.Sensors = append([]string{}, b.Sensors...)
		it.Blockers = &c

		for _, ref := range c.Items {
			if _, _, err := s.reg.FindItem(ref); err != nil {
				s.log.Warn("blocker references unknown item", "item", uid, "blocker", ref)
			}
		}

		return nil
	})
}

// SetRequirements replaces the item's requirements. A nil config clears it.
func (s *Service) SetRequirements(uid string, r *model.RequirementsConfig) (model.Item, error) {
	if r != nil {
		err := validateMode("mode", r.Mode)
		if err != nil {
			return model.Item{}, err
		}
	}

	return s.mutateItem(uid, EventItemUpdated, func(it *model.Item, _ *model.List) error {
		if r == nil {
			it.Requirements = nil

			return nil
		}

		c := *r
		c.Location = append([]string{}, r.Location...)
		c.People = append([]string{}, r.People...)
		c.TimeConstraints = append([]string{}, r.TimeConstraints...)
		c.Context = append([]string{}, r.Context...)
		c.Sensors = append([]string{}, r.Sensors...)
		it.Requirements = &c

		return nil
	})
}

func cloneRecurrence(r *model.RecurrenceConfig) *model.RecurrenceConfig {
	if r == nil {
		return nil
	}

	c := *r
	c.Thresholds = append([]model.RecurrenceThreshold(nil), r.Thresholds...)

	return &c
}

// Context returns the persisted context override.
func (s *Service) Context() (model.ContextOverride, error) {
	return s.reg.Store().LoadContext()
}

// SetContext persists a context override. An empty override clears it.
func (s *Service) SetContext(o model.ContextOverride) error {
	if o.IsEmpty() {
		return s.ClearContext()
	}

	o.UpdatedAt = s.now()

	err := s.reg.Store().SaveContext(o)
	if err != nil {
		return err
	}

	s.emit(EventContextUpdated, "", "")

	return nil
}

// ClearContext removes the persisted context override.
func (s *Service) ClearContext() error {
	err := s.reg.Store().ClearContext()
	if err != nil {
		return err
	}

	s.emit(EventContextUpdated, "", "")

	return nil
}
