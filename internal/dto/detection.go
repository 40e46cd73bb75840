package dto

// Detection is one recognized object instance on a frame. Immutable once
// produced. Frame and Time are set only for detections coming from video
// sampling (frame index and frame_index/fps).
type Detection struct {
	Frame        *int     `json:"frame,omitempty"`
	Time         *float64 `json:"time,omitempty"`
	BBox         [4]int   `json:"bbox"` // x1, y1, x2, y2
	Confidence   float64  `json:"confidence"`
	LabelEN      string   `json:"label_en"`
	LabelDisplay string   `json:"label_display"`
}

// CountAlerts returns how many detections fall below the confidence threshold.
func CountAlerts(detections []Detection, threshold float64) int {
	count := 0
	for _, d := range detections {
		if d.Confidence < threshold {
			count++
		}
	}
	return count
}
