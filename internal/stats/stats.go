package stats

import (
	"sync"
	"time"
)

// Media kinds tracked by the aggregator.
const (
	KindImage = "image"
	KindVideo = "video"
)

const dateLayout = "2006-01-02"

// Counters holds the four monotonic counters for one media kind. Today never
// exceeds Total for the same metric.
type Counters struct {
	TotalDetections int64
	TodayDetections int64
	TotalAlerts     int64
	TodayAlerts     int64
}

// Snapshot is a consistent point-in-time copy of all counters.
type Snapshot struct {
	Image           Counters
	Video           Counters
	QuestionAnswers int64
}

// Aggregator owns the process-wide detection statistics. All counters for a
// kind are updated together under one mutex so a concurrent Snapshot can
// never observe a torn update. The "today" reference date is re-evaluated on
// every call; crossing midnight resets the today counters.
type Aggregator struct {
	mu      sync.Mutex
	now     func() time.Time
	day     string
	image   Counters
	video   Counters
	answers int64
}

func New() *Aggregator {
	return NewWithClock(time.Now)
}

// NewWithClock allows tests to control the wall clock.
func NewWithClock(now func() time.Time) *Aggregator {
	return &Aggregator{
		now: now,
		day: now().Format(dateLayout),
	}
}

// Record atomically adds detection and alert counts for a kind to both the
// lifetime and today totals. Unknown kinds are ignored.
func (a *Aggregator) Record(kind string, detections, alerts int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollover()

	c := a.countersFor(kind)
	if c == nil {
		return
	}

	c.TotalDetections += int64(detections)
	c.TodayDetections += int64(detections)
	c.TotalAlerts += int64(alerts)
	c.TodayAlerts += int64(alerts)
}

// RecordAnswer increments the question-answer counter.
func (a *Aggregator) RecordAnswer() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers++
}

// Snapshot returns a consistent copy of all counters.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rollover()

	return Snapshot{
		Image:           a.image,
		Video:           a.video,
		QuestionAnswers: a.answers,
	}
}

// rollover resets the today counters when the wall-clock date has moved past
// the reference date. Callers must hold the mutex.
func (a *Aggregator) rollover() {
	day := a.now().Format(dateLayout)
	if day == a.day {
		return
	}

	a.day = day
	a.image.TodayDetections = 0
	a.image.TodayAlerts = 0
	a.video.TodayDetections = 0
	a.video.TodayAlerts = 0
}

func (a *Aggregator) countersFor(kind string) *Counters {
	switch kind {
	case KindImage:
		return &a.image
	case KindVideo:
		return &a.video
	}
	return nil
}
