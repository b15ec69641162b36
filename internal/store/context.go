package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/yahtl/internal/model"
)

const contextFileName = "context.json"

// ContextPath returns the path of the persisted context override.
func (s *Store) ContextPath() string {
	return filepath.Join(s.dir, contextFileName)
}

// LoadContext returns the persisted context override. A missing file is an
// empty override.
func (s *Store) LoadContext() (model.ContextOverride, error) {
	data, err := os.ReadFile(s.ContextPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.ContextOverride{}, nil
		}

		return model.ContextOverride{}, fmt.Errorf("reading context override: %w", err)
	}

	var o model.ContextOverride

	err = json.Unmarshal(data, &o)
	if err != nil {
		return model.ContextOverride{}, fmt.Errorf("%w %s: %w", ErrDecode, s.ContextPath(), err)
	}

	return o, nil
}

// SaveContext persists o.
func (s *Store) SaveContext(o model.ContextOverride) error {
	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding context override: %w", err)
	}

	path := s.ContextPath()

	return withLock(path, func() error {
		mkErr := os.MkdirAll(s.dir, dirPerms)
		if mkErr != nil {
			return fmt.Errorf("creating data dir: %w", mkErr)
		}

		writeErr := atomic.WriteFile(path, bytes.NewReader(append(data, '\n')))
		if writeErr != nil {
			return fmt.Errorf("writing context override: %w", writeErr)
		}

		return nil
	})
}

// ClearContext removes the persisted context override.
func (s *Store) ClearContext() error {
	path := s.ContextPath()

	return withLock(path, func() error {
		err := os.Remove(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing context override: %w", err)
		}

		return nil
	})
}
