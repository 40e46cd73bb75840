package detect

import (
	"fmt"
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"fishwatch/internal/dto"
)

var (
	alertColor = color.RGBA{R: 255, G: 0, B: 0, A: 0} // below threshold
	okColor    = color.RGBA{R: 0, G: 255, B: 0, A: 0}
)

// Annotator draws detection boxes and labels onto frames. Detections below
// the confidence threshold are drawn red, the rest green.
type Annotator struct {
	threshold float64
}

func NewAnnotator(threshold float64) *Annotator {
	return &Annotator{threshold: threshold}
}

// Annotate draws all detections onto a copy of frame and returns it encoded
// as JPEG. The input frame is left untouched.
func (a *Annotator) Annotate(frame gocv.Mat, detections []dto.Detection) ([]byte, error) {
	annotated := frame.Clone()
	defer annotated.Close()

	a.Draw(&annotated, detections)

	buf, err := gocv.IMEncode(".jpg", annotated)
	if err != nil {
		return nil, errors.Wrap(err, "encode annotated frame")
	}
	defer buf.Close()

	out := make([]byte, buf.Len())
	copy(out, buf.GetBytes())
	return out, nil
}

// Draw renders boxes and label text in place. Label text is positioned just
// above the box as "{display_label}: {confidence:.2f}".
func (a *Annotator) Draw(frame *gocv.Mat, detections []dto.Detection) {
	for _, d := range detections {
		col := okColor
		if d.Confidence < a.threshold {
			col = alertColor
		}

		rect := image.Rect(d.BBox[0], d.BBox[1], d.BBox[2], d.BBox[3])
		gocv.Rectangle(frame, rect, col, 2)

		// Hershey fonts cover ASCII only, so non-ASCII display labels fall
		// back to the English label for the on-frame text.
		label := d.LabelDisplay
		if label == "" || !isASCII(label) {
			label = d.LabelEN
		}
		text := fmt.Sprintf("%s: %.2f", label, d.Confidence)
		gocv.PutText(frame, text, image.Pt(d.BBox[0], d.BBox[1]-10), gocv.FontHersheySimplex, 0.6, col, 2)
	}
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
