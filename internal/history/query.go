package history

import (
	"fmt"
	"strings"
	"time"

	"fishwatch/internal/dto"
)

// ValidationError reports a malformed query filter, naming the offending
// field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s must use format %s", e.Field, dto.TimestampLayout)
}

// Filter narrows a history query. All fields are optional and combined with
// AND; time bounds are inclusive.
type Filter struct {
	StartTime string
	EndTime   string
	User      string
	Type      string
}

// Engine answers history queries against the event log and derives publicly
// resolvable media URLs for each surviving entry.
type Engine struct {
	store   *Store
	baseURL string
}

func NewEngine(store *Store, baseURL string) *Engine {
	return &Engine{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Query returns the entries matching the filter, in append order. Malformed
// time bounds fail with a ValidationError; a start bound after the end bound
// simply yields an empty result.
func (e *Engine) Query(f Filter) ([]dto.HistoryEntry, error) {
	var start, end time.Time
	hasStart := f.StartTime != ""
	hasEnd := f.EndTime != ""

	if hasStart {
		t, err := time.Parse(dto.TimestampLayout, f.StartTime)
		if err != nil {
			return nil, &ValidationError{Field: "start_time"}
		}
		start = t
	}
	if hasEnd {
		t, err := time.Parse(dto.TimestampLayout, f.EndTime)
		if err != nil {
			return nil, &ValidationError{Field: "end_time"}
		}
		end = t
	}

	entries := e.store.ReadAll()
	result := make([]dto.HistoryEntry, 0, len(entries))

	for _, entry := range entries {
		if hasStart || hasEnd {
			ts, err := time.Parse(dto.TimestampLayout, entry.Timestamp)
			if err != nil {
				continue
			}
			if hasStart && ts.Before(start) {
				continue
			}
			if hasEnd && ts.After(end) {
				continue
			}
		}
		if f.User != "" && entry.User != f.User {
			continue
		}
		if f.Type != "" && entry.Type != f.Type {
			continue
		}

		result = append(result, dto.HistoryEntry{
			LogEntry: entry,
			MediaURL: e.mediaURL(entry.MediaPath),
		})
	}

	return result, nil
}

// mediaURL derives the asset URL from a stored media path, normalizing path
// separators so entries written on any platform resolve correctly. Entries
// without a media path get a nil URL.
func (e *Engine) mediaURL(path string) *string {
	if path == "" {
		return nil
	}

	normalized := strings.ReplaceAll(path, "\\", "/")
	normalized = strings.TrimPrefix(normalized, "./")
	normalized = strings.TrimLeft(normalized, "/")

	url := e.baseURL + "/" + normalized
	return &url
}
