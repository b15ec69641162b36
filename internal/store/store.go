// Package store persists yahtl lists as one JSON document per list:
//
//	<data_dir>/yahtl.<list_id>.json   {"version": 1, "data": <list>}
//
// Writes are atomic (temp file + rename) and serialized across processes
// with an exclusive flock on <data_dir>/.locks/<file>.lock.
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/calvinalkan/yahtl/internal/model"
)

const (
	filePrefix = "yahtl."
	fileSuffix = ".json"

	// DocumentVersion is the only list document version this store reads.
	DocumentVersion = 1

	dirPerms  = 0o750
	filePerms = 0o600
)

// Store reads and writes list documents in a data directory.
type Store struct {
	dir string
}

// New returns a Store rooted at dir. The directory is created on first write.
func New(dir string) *Store {
	return &Store{dir: filepath.Clean(dir)}
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the document path for listID.
func (s *Store) Path(listID string) string {
	return filepath.Join(s.dir, filePrefix+listID+fileSuffix)
}

// ValidListID reports whether id can name a list document: non-empty,
// letters, digits, '-' and '_' only.
func ValidListID(id string) bool {
	if id == "" {
		return false
	}

	for _, r := range id {
		ok := r == '-' || r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
		if !ok {
			return false
		}
	}

	return true
}

type document struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Load reads the list with listID.
func (s *Store) Load(listID string) (*model.List, error) {
	if !ValidListID(listID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidListID, listID)
	}

	return s.read(listID)
}

func (s *Store) read(listID string) (*model.List, error) {
	path := s.Path(listID)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrListNotFound, listID)
		}

		return nil, fmt.Errorf("reading list %s: %w", listID, err)
	}

	l, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if l.ListID != listID {
		return nil, fmt.Errorf("%w %s: list_id %q does not match file name", ErrDecode, path, l.ListID)
	}

	return l, nil
}

func decode(data []byte) (*model.List, error) {
	var doc document

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if doc.Version != DocumentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	if len(doc.Data) == 0 || bytes.Equal(doc.Data, []byte("null")) {
		return nil, fmt.Errorf("%w: missing data", ErrDecode)
	}

	var l model.List

	err = json.Unmarshal(doc.Data, &l)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	return &l, nil
}

func encode(l *model.List) ([]byte, error) {
	data, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding list %s: %w", l.ListID, err)
	}

	out, err := json.MarshalIndent(document{Version: DocumentVersion, Data: data}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding list %s: %w", l.ListID, err)
	}

	return append(out, '\n'), nil
}

// Save writes l, replacing any existing document.
func (s *Store) Save(l *model.List) error {
	if !ValidListID(l.ListID) {
		return fmt.Errorf("%w: %q", ErrInvalidListID, l.ListID)
	}

	path := s.Path(l.ListID)

	return withLock(path, func() error {
		return s.write(l)
	})
}

func (s *Store) write(l *model.List) error {
	data, err := encode(l)
	if err != nil {
		return err
	}

	err = os.MkdirAll(s.dir, dirPerms)
	if err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	err = atomic.WriteFile(s.Path(l.ListID), bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("writing list %s: %w", l.ListID, err)
	}

	return nil
}

// Create writes a new list. It fails with ErrListExists if a document for
// the list id is already present.
func (s *Store) Create(l *model.List) error {
	if !ValidListID(l.ListID) {
		return fmt.Errorf("%w: %q", ErrInvalidListID, l.ListID)
	}

	path := s.Path(l.ListID)

	return withLock(path, func() error {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrListExists, l.ListID)
		}

		return s.write(l)
	})
}

// Update loads the list, applies fn and writes the result, all under the
// list's lock. Nothing is written if fn returns an error.
func (s *Store) Update(listID string, fn func(l *model.List) error) (*model.List, error) {
	if !ValidListID(listID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidListID, listID)
	}

	var updated *model.List

	err := withLock(s.Path(listID), func() error {
		l, err := s.read(listID)
		if err != nil {
			return err
		}

		err = fn(l)
		if err != nil {
			return err
		}

		updated = l

		return s.write(l)
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the document for listID.
func (s *Store) Delete(listID string) error {
	if !ValidListID(listID) {
		return fmt.Errorf("%w: %q", ErrInvalidListID, listID)
	}

	path := s.Path(listID)

	return withLock(path, func() error {
		err := os.Remove(path)
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrListNotFound, listID)
		}

		if err != nil {
			return fmt.Errorf("deleting list %s: %w", listID, err)
		}

		return nil
	})
}

// ListIDs returns the ids of every list document in the data dir, sorted.
// A missing data dir has no lists.
func (s *Store) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}

		return nil, fmt.Errorf("reading data dir: %w", err)
	}

	var ids []string

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		if ValidListID(id) {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids, nil
}
