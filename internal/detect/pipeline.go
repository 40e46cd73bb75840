package detect

import (
	"encoding/json"

	"gocv.io/x/gocv"

	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
)

// Broadcaster fans alert events out to live subscribers.
type Broadcaster interface {
	Publish(msg []byte)
}

// StatsRecorder accumulates detection/alert counters per media kind.
type StatsRecorder interface {
	Record(kind string, detections, alerts int)
}

// Result is the outcome of processing one frame.
type Result struct {
	Detections []dto.Detection
	AlertCount int
	Annotated  []byte // JPEG
}

// Pipeline composes detector, label translation, alert broadcasting,
// annotation and stats accounting for a single frame. It does not persist
// anything; persistence is the caller's responsibility.
type Pipeline struct {
	detector   Detector
	translator *Translator
	annotator  *Annotator
	stats      StatsRecorder
	alerts     Broadcaster
	threshold  float64
	logger     *logger.Logger
}

func NewPipeline(detector Detector, translator *Translator, annotator *Annotator, stats StatsRecorder, alerts Broadcaster, threshold float64, log *logger.Logger) *Pipeline {
	return &Pipeline{
		detector:   detector,
		translator: translator,
		annotator:  annotator,
		stats:      stats,
		alerts:     alerts,
		threshold:  threshold,
		logger:     log,
	}
}

// Threshold returns the alert confidence threshold in effect.
func (p *Pipeline) Threshold() float64 {
	return p.threshold
}

// Process runs one frame through the full pipeline. Detector errors are
// returned unmodified and never retried. kind is the media kind the frame is
// counted under ("image" or "video").
func (p *Pipeline) Process(frame gocv.Mat, kind string) (*Result, error) {
	detections, err := p.detector.Detect(frame)
	if err != nil {
		return nil, err
	}

	for i := range detections {
		detections[i].LabelDisplay = p.translator.Translate(detections[i].LabelEN)
	}

	alertCount := dto.CountAlerts(detections, p.threshold)
	if alertCount > 0 {
		p.PublishAlert(alertCount)
	}

	annotated, err := p.annotator.Annotate(frame, detections)
	if err != nil {
		return nil, err
	}

	p.stats.Record(kind, len(detections), alertCount)

	return &Result{
		Detections: detections,
		AlertCount: alertCount,
		Annotated:  annotated,
	}, nil
}

// PublishAlert pushes an alert event carrying the low-confidence detection
// count to all subscribers. Fire-and-forget: delivery is not awaited.
func (p *Pipeline) PublishAlert(count int) {
	msg, err := json.Marshal(map[string]int{"alert": count})
	if err != nil {
		p.logger.Error("Failed to encode alert message: %v", err)
		return
	}
	p.alerts.Publish(msg)
}
