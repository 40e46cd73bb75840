package dto

// HistoryEntry is a log entry enriched with a publicly resolvable URL for its
// persisted media. MediaURL is null for entries without a media path.
type HistoryEntry struct {
	LogEntry
	MediaURL *string `json:"media_url"`
}
