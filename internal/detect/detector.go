package detect

import (
	"bufio"
	"image"
	"os"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
)

// minConfidence is the floor below which network output rows are discarded as
// noise. It sits well under the alert threshold so low-confidence detections
// still surface as alerts instead of being filtered away.
const minConfidence = 0.2

// Detector maps a decoded frame to a list of detections. Implementations are
// not required to be safe for concurrent use; wrap them in a Pool when shared.
type Detector interface {
	Detect(frame gocv.Mat) ([]dto.Detection, error)
}

// DNNDetector runs an OpenCV DNN object detection network. The network is
// expected to produce SSD-style output rows of seven floats:
// [batch, classID, confidence, left, top, right, bottom] with normalized
// coordinates.
type DNNDetector struct {
	net     gocv.Net
	classes []string
	logger  *logger.Logger
}

// NewDNNDetector loads the network from model/config files and the class name
// list (one label per line, line number = class id).
func NewDNNDetector(modelPath, configPath, classNamesPath string, log *logger.Logger) (*DNNDetector, error) {
	if _, err := os.Stat(modelPath); os.IsNotExist(err) {
		return nil, errors.Errorf("model file not found: %s", modelPath)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.Errorf("config file not found: %s", configPath)
	}

	classes, err := loadClassNames(classNamesPath)
	if err != nil {
		return nil, errors.Wrap(err, "load class names")
	}

	net := gocv.ReadNet(modelPath, configPath)
	if net.Empty() {
		return nil, errors.Errorf("failed to load network from %s", modelPath)
	}
	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "set network backend")
	}
	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, errors.Wrap(err, "set network target")
	}

	log.Info("Detection network initialized (%d classes)", len(classes))

	return &DNNDetector{
		net:     net,
		classes: classes,
		logger:  log,
	}, nil
}

// Detect runs the network on one frame and returns the raw detections with
// English labels only; label translation happens downstream.
func (d *DNNDetector) Detect(frame gocv.Mat) ([]dto.Detection, error) {
	if frame.Empty() {
		return nil, errors.Wrap(ErrDecode, "empty frame")
	}

	blob := gocv.BlobFromImage(frame, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	if output.Empty() {
		return nil, errors.Wrap(ErrInference, "network produced no output")
	}

	imgWidth := float32(frame.Cols())
	imgHeight := float32(frame.Rows())

	var detections []dto.Detection
	rows := output.Total() / 7
	for i := 0; i < rows; i++ {
		confidence := output.GetFloatAt(0, i*7+2)
		if confidence < minConfidence {
			continue
		}

		classID := int(output.GetFloatAt(0, i*7+1))
		label := "unknown"
		if classID >= 0 && classID < len(d.classes) {
			label = d.classes[classID]
		}

		x1 := int(output.GetFloatAt(0, i*7+3) * imgWidth)
		y1 := int(output.GetFloatAt(0, i*7+4) * imgHeight)
		x2 := int(output.GetFloatAt(0, i*7+5) * imgWidth)
		y2 := int(output.GetFloatAt(0, i*7+6) * imgHeight)

		detections = append(detections, dto.Detection{
			BBox:       [4]int{x1, y1, x2, y2},
			Confidence: float64(confidence),
			LabelEN:    label,
		})
	}

	return detections, nil
}

// Close releases the network.
func (d *DNNDetector) Close() error {
	return d.net.Close()
}

func loadClassNames(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var classes []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		classes = append(classes, scanner.Text())
	}
	return classes, scanner.Err()
}
