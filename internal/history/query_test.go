package history

import (
	"errors"
	"path/filepath"
	"testing"

	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
)

func newTestEngine(t *testing.T, entries []dto.LogEntry) *Engine {
	t.Helper()
	s := newTestStore(t)
	for _, entry := range entries {
		if err := s.Append(entry); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	return NewEngine(s, "http://127.0.0.1:8000")
}

func TestQuery_NoFiltersReturnsEverything(t *testing.T) {
	engine := newTestEngine(t, []dto.LogEntry{
		imageEntry("2025-06-15 10:00:00"),
		imageEntry("2025-06-16 10:00:00"),
	})

	result, err := engine.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 entries, got %d", len(result))
	}
}

func TestQuery_TimeBoundsAreInclusive(t *testing.T) {
	engine := newTestEngine(t, []dto.LogEntry{
		imageEntry("2025-06-15 09:59:59"),
		imageEntry("2025-06-15 10:00:00"),
		imageEntry("2025-06-15 11:00:00"),
		imageEntry("2025-06-15 11:00:01"),
	})

	result, err := engine.Query(Filter{
		StartTime: "2025-06-15 10:00:00",
		EndTime:   "2025-06-15 11:00:00",
	})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("expected 2 entries within inclusive bounds, got %d", len(result))
	}
	if result[0].Timestamp != "2025-06-15 10:00:00" || result[1].Timestamp != "2025-06-15 11:00:00" {
		t.Errorf("unexpected entries: %s, %s", result[0].Timestamp, result[1].Timestamp)
	}
}

func TestQuery_SwappedBoundsYieldEmptyResult(t *testing.T) {
	engine := newTestEngine(t, []dto.LogEntry{
		imageEntry("2025-06-15 10:00:00"),
	})

	result, err := engine.Query(Filter{
		StartTime: "2025-06-16 00:00:00",
		EndTime:   "2025-06-14 00:00:00",
	})
	if err != nil {
		t.Fatalf("swapped bounds must not error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty result for swapped bounds, got %d entries", len(result))
	}
}

func TestQuery_MalformedTimeNamesField(t *testing.T) {
	engine := newTestEngine(t, nil)

	tests := []struct {
		filter Filter
		field  string
	}{
		{Filter{StartTime: "15/06/2025"}, "start_time"},
		{Filter{EndTime: "not-a-time"}, "end_time"},
	}

	for _, tt := range tests {
		_, err := engine.Query(tt.filter)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		if ve.Field != tt.field {
			t.Errorf("ValidationError field = %s, expected %s", ve.Field, tt.field)
		}
	}
}

func TestQuery_UserAndTypeFiltersAreConjunctive(t *testing.T) {
	videoEntry := dto.LogEntry{Type: dto.TypeVideo, Timestamp: "2025-06-15 10:00:00", User: "alice"}
	engine := newTestEngine(t, []dto.LogEntry{
		{Type: dto.TypeImage, Timestamp: "2025-06-15 10:00:00", User: "alice"},
		{Type: dto.TypeImage, Timestamp: "2025-06-15 10:00:00", User: "bob"},
		videoEntry,
	})

	result, err := engine.Query(Filter{User: "alice", Type: dto.TypeVideo})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(result))
	}
	if result[0].Type != dto.TypeVideo || result[0].User != "alice" {
		t.Errorf("wrong entry survived: %+v", result[0].LogEntry)
	}
}

func TestQuery_UserFilterSkipsEntriesWithoutUser(t *testing.T) {
	engine := newTestEngine(t, []dto.LogEntry{
		imageEntry("2025-06-15 10:00:00"), // no user recorded
	})

	result, err := engine.Query(Filter{User: "alice"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("entries without a user must not match a user filter, got %d", len(result))
	}
}

func TestQuery_MediaURLDerivation(t *testing.T) {
	withPath := imageEntry("2025-06-15 10:00:00")
	withPath.MediaPath = "history_logs/images/20250615_abc.jpg"
	windowsPath := imageEntry("2025-06-15 10:01:00")
	windowsPath.MediaPath = `history_logs\videos\20250615_def.mp4`
	noPath := imageEntry("2025-06-15 10:02:00")

	engine := newTestEngine(t, []dto.LogEntry{withPath, windowsPath, noPath})

	result, err := engine.Query(Filter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result))
	}

	if result[0].MediaURL == nil || *result[0].MediaURL != "http://127.0.0.1:8000/history_logs/images/20250615_abc.jpg" {
		t.Errorf("unexpected media url: %v", result[0].MediaURL)
	}
	if result[1].MediaURL == nil || *result[1].MediaURL != "http://127.0.0.1:8000/history_logs/videos/20250615_def.mp4" {
		t.Errorf("backslash path not normalized: %v", result[1].MediaURL)
	}
	if result[2].MediaURL != nil {
		t.Errorf("entry without media path must have nil url, got %v", *result[2].MediaURL)
	}
}

func TestQuery_BaseURLTrailingSlash(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "logs.json"), logger.New(filepath.Join(t.TempDir(), "logs")))
	entry := imageEntry("2025-06-15 10:00:00")
	entry.MediaPath = "history_logs/images/a.jpg"
	if err := s.Append(entry); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(s, "http://example.com/")
	result, err := engine.Query(Filter{})
	if err != nil {
		t.Fatal(err)
	}
	if *result[0].MediaURL != "http://example.com/history_logs/images/a.jpg" {
		t.Errorf("unexpected media url: %s", *result[0].MediaURL)
	}
}
