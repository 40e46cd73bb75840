package dto

// TimestampLayout is the textual timestamp format used in log entries and
// history query filters.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry types.
const (
	TypeImage = "image"
	TypeVideo = "video"
)

// LogEntry is one persisted record of a completed image or video detection
// request. Entries are immutable after creation and only ever appended.
type LogEntry struct {
	Type        string      `json:"type"`
	Timestamp   string      `json:"timestamp"`
	User        string      `json:"user,omitempty"`
	Detections  []Detection `json:"detections"`
	AlertCount  int         `json:"alert_count"`
	TotalFrames int         `json:"total_frames,omitempty"`
	FPS         float64     `json:"fps,omitempty"`
	MediaPath   string      `json:"media_path,omitempty"`
}
