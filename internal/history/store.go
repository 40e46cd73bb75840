package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
)

// Store persists the append-only event log as a single JSON array document.
// Every append rewrites the whole document under one mutex, so two concurrent
// appends can never read the same prior state and lose an entry. Entries are
// never updated or deleted.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *logger.Logger
}

func NewStore(path string, log *logger.Logger) *Store {
	return &Store{
		path:   path,
		logger: log,
	}
}

// Append adds one entry to the log. A missing document is initialized with a
// single entry; a corrupt document is logged and treated as empty rather than
// failing the request.
func (s *Store) Append(entry dto.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.readLocked()
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode log entries: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("write log file %s: %w", s.path, err)
	}

	return nil
}

// ReadAll returns every entry in append order. A missing document yields an
// empty slice, never an error.
func (s *Store) ReadAll() []dto.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked()
}

// Count returns the number of persisted entries.
func (s *Store) Count() int {
	return len(s.ReadAll())
}

// readLocked loads the current document. Callers must hold the mutex.
func (s *Store) readLocked() []dto.LogEntry {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warning("Failed to read log file %s: %v", s.path, err)
		}
		return nil
	}

	var entries []dto.LogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.logger.Warning("Log file %s is corrupt, treating as empty: %v", s.path, err)
		return nil
	}

	return entries
}
