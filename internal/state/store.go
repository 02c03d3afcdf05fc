// Package state persists engine state as per-workspace JSON files.
//
// Each engine that survives a process restart (rate-limit counters,
// exit-signal history, the last published session status) writes its own
// file under the workspace state directory. Read and write failures are the
// caller's to log and swallow; nothing here is fatal to the loop.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is the workspace-relative state directory.
const DefaultDir = ".agent-pilot"

// Well-known state file names.
const (
	RateLimitFile  = "ratelimit-state.json"
	ExitSignalFile = "exit-signals.json"
	StatusFile     = "session-status.json"
)

// Store reads and writes JSON state files in a single directory.
type Store struct {
	Dir string
}

// NewStore returns a Store rooted at dir, or at DefaultDir when dir is
// empty.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	return &Store{Dir: dir}
}

// Init creates the state directory if it does not exist.
func (s *Store) Init() error {
	return os.MkdirAll(s.Dir, 0755)
}

// SaveJSON writes v as indented JSON to name within the state directory,
// creating the directory on demand.
func (s *Store) SaveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	path := filepath.Join(s.Dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// LoadJSON reads name from the state directory into v.
func (s *Store) LoadJSON(name string, v any) error {
	path := filepath.Join(s.Dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}

// Exists reports whether name is present in the state directory.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(filepath.Join(s.Dir, name))
	return err == nil
}

// Clean removes the entire state directory.
func (s *Store) Clean() error {
	return os.RemoveAll(s.Dir)
}
