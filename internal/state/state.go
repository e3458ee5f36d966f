// Package state is the scanner's cache of per-file content hashes and
// derived default titles, kept in a bbolt database between builds.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
)

const (
	CurrentStateVersion  = "3"
	CurrentParserVersion = "tree-sitter-doc-v1"

	BuckMeta  = "meta"
	BuckFiles = "files"

	keyVersion       = "version"
	keyParserVersion = "parser_version"
	keyUpdatedAt     = "updated_at"
)

// FileState tracks the state of a single file
type FileState struct {
	Hash      string    `msgpack:"hash"`
	Language  string    `msgpack:"language,omitempty"`
	Title     string    `msgpack:"title"`
	Topics    []string  `msgpack:"topics,omitempty"`
	UpdatedAt time.Time `msgpack:"updated_at"`
}

// State tracks the state of all files for incremental builds. It is held
// in memory and written back as a whole.
type State struct {
	Version       string
	ParserVersion string
	UpdatedAt     time.Time
	Files         map[string]FileState
}

// NewState creates a new empty state
func NewState() *State {
	return &State{
		Version:       CurrentStateVersion,
		ParserVersion: CurrentParserVersion,
		Files:         make(map[string]FileState),
	}
}

func open(path string, readOnly bool) (*bbolt.DB, error) {
	return bbolt.Open(path, 0600, &bbolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: readOnly,
	})
}

// Load reads the cache database. A missing database yields an empty state.
func Load(path string) (*State, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewState(), nil
	}

	db, err := open(path, true)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	s := &State{Files: make(map[string]FileState)}
	err = db.View(func(tx *bbolt.Tx) error {
		if meta := tx.Bucket([]byte(BuckMeta)); meta != nil {
			s.Version = string(meta.Get([]byte(keyVersion)))
			s.ParserVersion = string(meta.Get([]byte(keyParserVersion)))
			if raw := meta.Get([]byte(keyUpdatedAt)); raw != nil {
				if err := s.UpdatedAt.UnmarshalBinary(raw); err != nil {
					return err
				}
			}
		}
		files := tx.Bucket([]byte(BuckFiles))
		if files == nil {
			return nil
		}
		return files.ForEach(func(k, v []byte) error {
			var fs FileState
			if err := msgpack.Unmarshal(v, &fs); err != nil {
				return fmt.Errorf("file %s: %w", k, err)
			}
			s.Files[string(k)] = fs
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	migrateState(s)

	return s, nil
}

// Save writes the state to the cache database, replacing its content.
func (s *State) Save(path string) error {
	if s.Version == "" {
		s.Version = CurrentStateVersion
	}
	if s.ParserVersion == "" {
		s.ParserVersion = CurrentParserVersion
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	s.UpdatedAt = time.Now()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	db, err := open(path, false)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists([]byte(BuckMeta))
		if err != nil {
			return err
		}
		updated, err := s.UpdatedAt.MarshalBinary()
		if err != nil {
			return err
		}
		for k, v := range map[string][]byte{
			keyVersion:       []byte(s.Version),
			keyParserVersion: []byte(s.ParserVersion),
			keyUpdatedAt:     updated,
		} {
			if err := meta.Put([]byte(k), v); err != nil {
				return err
			}
		}

		if err := tx.DeleteBucket([]byte(BuckFiles)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		files, err := tx.CreateBucket([]byte(BuckFiles))
		if err != nil {
			return err
		}
		for name, fs := range s.Files {
			enc, err := msgpack.Marshal(fs)
			if err != nil {
				return fmt.Errorf("file %s: %w", name, err)
			}
			if err := files.Put([]byte(name), enc); err != nil {
				return err
			}
		}
		return nil
	})
}

// SetFile records the scan result for a file.
func (s *State) SetFile(file string, fs FileState) {
	if fs.UpdatedAt.IsZero() {
		fs.UpdatedAt = time.Now()
	}
	s.Files[file] = fs
}

// GetFile returns the stored state for a file
func (s *State) GetFile(file string) (FileState, bool) {
	fs, ok := s.Files[file]
	return fs, ok
}

// HasChanged returns true if the file hash differs from stored
func (s *State) HasChanged(file, currentHash string) bool {
	fs, ok := s.Files[file]
	if !ok {
		return true // New file
	}
	return fs.Hash != currentHash
}

// TitleChanged reports whether the default title differs from the stored
// one. Files without a stored title count as changed.
func (s *State) TitleChanged(file, title string) bool {
	fs, ok := s.Files[file]
	if !ok {
		return true
	}
	return fs.Title != title
}

// RemoveFile removes a file from state tracking
func (s *State) RemoveFile(file string) {
	delete(s.Files, file)
}

// ChangedFiles returns files that have changed based on provided hashes
func (s *State) ChangedFiles(currentHashes map[string]string) []string {
	changed := make([]string, 0)
	for file, hash := range currentHashes {
		if s.HasChanged(file, hash) {
			changed = append(changed, file)
		}
	}
	sort.Strings(changed)
	return changed
}

// DeletedFiles returns files that no longer exist
func (s *State) DeletedFiles(currentFiles map[string]bool) []string {
	deleted := make([]string, 0)
	for file := range s.Files {
		if !currentFiles[file] {
			deleted = append(deleted, file)
		}
	}
	sort.Strings(deleted)
	return deleted
}

// migrateState discards cached files written by another reader version,
// since their titles may have been derived differently.
func migrateState(s *State) {
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}

	switch s.Version {
	case "", "1", "2":
		s.Files = make(map[string]FileState)
		s.Version = CurrentStateVersion
	case CurrentStateVersion:
		// no-op
	default:
		// Keep unknown versions untouched but ensure required maps are initialized.
	}

	if s.ParserVersion != CurrentParserVersion {
		s.Files = make(map[string]FileState)
		s.ParserVersion = CurrentParserVersion
	}
}
