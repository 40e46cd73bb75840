package detect

import (
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
	"fishwatch/internal/stats"
)

// fallbackFPS is used when the container reports no frame rate.
const fallbackFPS = 30.0

// VideoResult aggregates the outcome of a full video scan.
type VideoResult struct {
	TotalFrames int
	FPS         float64
	Detections  []dto.Detection
	TotalAlerts int
	Frames      [][]byte // annotated sampled frames, JPEG, in source order
}

// VideoProcessor drives the frame pipeline over a decoded video. Only every
// Nth frame is processed; intervening frames are skipped entirely, so the
// reassembled output plays at source fps but lasts 1/N of the source
// duration.
type VideoProcessor struct {
	pipeline *Pipeline
	interval int
	logger   *logger.Logger
}

func NewVideoProcessor(pipeline *Pipeline, interval int, log *logger.Logger) *VideoProcessor {
	if interval <= 0 {
		interval = 1
	}
	return &VideoProcessor{
		pipeline: pipeline,
		interval: interval,
		logger:   log,
	}
}

// Process reads the video at path sequentially, runs every Nth frame through
// the pipeline and attaches frame index and index/fps to each detection.
// After the full scan the aggregated alert count is broadcast once, in
// addition to the per-frame broadcasts made by the pipeline.
func (v *VideoProcessor) Process(path string) (*VideoResult, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "open video: %v", err)
	}
	defer capture.Close()

	fps := capture.Get(gocv.VideoCaptureFPS)
	if fps <= 0 {
		fps = fallbackFPS
	}

	frame := gocv.NewMat()
	defer frame.Close()

	result := &VideoResult{FPS: fps}
	frameCount := 0

	for {
		if ok := capture.Read(&frame); !ok {
			break
		}
		if frame.Empty() {
			break
		}

		if frameCount%v.interval == 0 {
			res, err := v.pipeline.Process(frame, stats.KindVideo)
			if err != nil {
				return nil, err
			}

			index := frameCount
			at := float64(frameCount) / fps
			for i := range res.Detections {
				res.Detections[i].Frame = &index
				res.Detections[i].Time = &at
			}

			result.Detections = append(result.Detections, res.Detections...)
			result.TotalAlerts += res.AlertCount
			result.Frames = append(result.Frames, res.Annotated)
		}

		frameCount++
	}

	result.TotalFrames = frameCount

	if result.TotalAlerts > 0 {
		v.pipeline.PublishAlert(result.TotalAlerts)
	}

	v.logger.Info("Video processed: %d frames, %d sampled, %d detections, %d alerts",
		result.TotalFrames, len(result.Frames), len(result.Detections), result.TotalAlerts)

	return result, nil
}

// WriteVideo reassembles the sampled annotated frames into a video at path,
// written sequentially at the source frame rate. With sampling interval N the
// output duration is the source duration divided by N.
func (v *VideoProcessor) WriteVideo(path string, frames [][]byte, fps float64) error {
	if len(frames) == 0 {
		return nil
	}

	first, err := gocv.IMDecode(frames[0], gocv.IMReadColor)
	if err != nil {
		return errors.Wrap(err, "decode first frame")
	}
	width, height := first.Cols(), first.Rows()
	first.Close()

	writer, err := gocv.VideoWriterFile(path, "mp4v", fps, width, height, true)
	if err != nil {
		return errors.Wrap(err, "open video writer")
	}
	defer writer.Close()

	for i, data := range frames {
		mat, err := gocv.IMDecode(data, gocv.IMReadColor)
		if err != nil {
			return errors.Wrapf(err, "decode frame %d", i)
		}
		err = writer.Write(mat)
		mat.Close()
		if err != nil {
			return errors.Wrapf(err, "write frame %d", i)
		}
	}

	return nil
}
