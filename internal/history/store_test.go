package history

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(filepath.Join(dir, "logs.json"), logger.New(filepath.Join(dir, "logs")))
}

func imageEntry(ts string) dto.LogEntry {
	return dto.LogEntry{
		Type:       dto.TypeImage,
		Timestamp:  ts,
		Detections: []dto.Detection{},
	}
}

func TestReadAll_MissingFileReturnsEmpty(t *testing.T) {
	s := newTestStore(t)

	entries := s.ReadAll()
	if len(entries) != 0 {
		t.Errorf("expected empty log, got %d entries", len(entries))
	}
}

func TestAppend_InitializesMissingDocument(t *testing.T) {
	s := newTestStore(t)

	if err := s.Append(imageEntry("2025-06-15 10:00:00")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	entries := s.ReadAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Timestamp != "2025-06-15 10:00:00" {
		t.Errorf("unexpected timestamp: %s", entries[0].Timestamp)
	}
}

func TestAppend_PreservesOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		entry := imageEntry(fmt.Sprintf("2025-06-15 10:00:0%d", i))
		if err := s.Append(entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries := s.ReadAll()
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		expected := fmt.Sprintf("2025-06-15 10:00:0%d", i)
		if entry.Timestamp != expected {
			t.Errorf("entry %d timestamp = %s, expected %s", i, entry.Timestamp, expected)
		}
	}
}

func TestAppend_ConcurrentWritersLoseNothing(t *testing.T) {
	s := newTestStore(t)
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := imageEntry("2025-06-15 10:00:00")
			entry.User = fmt.Sprintf("writer-%d", i)
			if err := s.Append(entry); err != nil {
				t.Errorf("Append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	entries := s.ReadAll()
	if len(entries) != writers {
		t.Fatalf("expected %d entries after concurrent appends, got %d", writers, len(entries))
	}

	seen := make(map[string]bool)
	for _, entry := range entries {
		seen[entry.User] = true
	}
	if len(seen) != writers {
		t.Errorf("expected %d distinct entries, got %d (lost update)", writers, len(seen))
	}
}

func TestAppend_CorruptDocumentTreatedAsEmpty(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs.json")
	if err := os.WriteFile(path, []byte("{not valid json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, logger.New(filepath.Join(dir, "logs")))

	if err := s.Append(imageEntry("2025-06-15 10:00:00")); err != nil {
		t.Fatalf("Append on corrupt document failed: %v", err)
	}

	entries := s.ReadAll()
	if len(entries) != 1 {
		t.Errorf("expected corrupt document to be reset, got %d entries", len(entries))
	}
}
