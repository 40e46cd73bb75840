package handlers

import (
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"gocv.io/x/gocv"

	"fishwatch/internal/detect"
	"fishwatch/internal/dto"
	"fishwatch/internal/history"
	"fishwatch/internal/logger"
	"fishwatch/internal/stats"
	"fishwatch/internal/storage"
)

// maxUploadSize caps upload request bodies (images and videos).
const maxUploadSize = 512 << 20

type imageResponse struct {
	Status     string          `json:"status"`
	Detections []dto.Detection `json:"detections"`
	Image      string          `json:"image"` // annotated image, base64 JPEG
}

type videoResponse struct {
	Status      string          `json:"status"`
	TotalFrames int             `json:"total_frames"`
	FPS         float64         `json:"fps"`
	Detections  []dto.Detection `json:"detections"`
	VideoFrames []string        `json:"video_frames"` // annotated sampled frames, base64 JPEG
}

// UploadImageHandler accepts one encoded image (multipart field "file"), runs
// it through the pipeline, persists the annotated image and a log entry, and
// returns the result. A persistence failure is logged but never swallows the
// in-memory response.
func UploadImageHandler(pipeline *detect.Pipeline, media *storage.MediaStore, store *history.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", log)
			return
		}

		data, user, ok := readUpload(w, r, log)
		if !ok {
			return
		}

		frame, err := gocv.IMDecode(data, gocv.IMReadColor)
		if err != nil || frame.Empty() {
			if err == nil {
				frame.Close()
			}
			writeError(w, http.StatusBadRequest, "unable to decode image", log)
			return
		}
		defer frame.Close()

		result, err := pipeline.Process(frame, stats.KindImage)
		if err != nil {
			log.Error("Image processing failed: %v", err)
			writeError(w, http.StatusInternalServerError, "detection failed", log)
			return
		}

		mediaPath, err := media.SaveImage(result.Annotated)
		if err != nil {
			log.Error("Failed to save annotated image: %v", err)
			mediaPath = ""
		}

		entry := dto.LogEntry{
			Type:       dto.TypeImage,
			Timestamp:  time.Now().Format(dto.TimestampLayout),
			User:       user,
			Detections: nonNilDetections(result.Detections),
			AlertCount: result.AlertCount,
			MediaPath:  mediaPath,
		}
		if err := store.Append(entry); err != nil {
			log.Error("Failed to persist image log entry: %v", err)
		}

		writeJSON(w, http.StatusOK, imageResponse{
			Status:     "success",
			Detections: nonNilDetections(result.Detections),
			Image:      base64.StdEncoding.EncodeToString(result.Annotated),
		}, log)
	}
}

// UploadVideoHandler accepts one encoded video (multipart field "file"),
// samples it through the pipeline, persists the reassembled annotated video
// and a log entry, and returns per-frame results. The temp copy of the upload
// is removed on every path.
func UploadVideoHandler(video *detect.VideoProcessor, media *storage.MediaStore, store *history.Store, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", log)
			return
		}

		data, user, ok := readUpload(w, r, log)
		if !ok {
			return
		}

		temp, err := os.CreateTemp("", "fishwatch-upload-*.mp4")
		if err != nil {
			log.Error("Failed to create temp video file: %v", err)
			writeError(w, http.StatusInternalServerError, "unable to store upload", log)
			return
		}
		defer os.Remove(temp.Name())

		if _, err := temp.Write(data); err != nil {
			temp.Close()
			log.Error("Failed to write temp video file: %v", err)
			writeError(w, http.StatusInternalServerError, "unable to store upload", log)
			return
		}
		temp.Close()

		result, err := video.Process(temp.Name())
		if err != nil {
			if errors.Is(err, detect.ErrDecode) {
				writeError(w, http.StatusBadRequest, "unable to open video file", log)
				return
			}
			log.Error("Video processing failed: %v", err)
			writeError(w, http.StatusInternalServerError, "detection failed", log)
			return
		}

		mediaPath := ""
		if len(result.Frames) > 0 {
			full, rel := media.NewVideoPath()
			if err := video.WriteVideo(full, result.Frames, result.FPS); err != nil {
				log.Error("Failed to write annotated video: %v", err)
			} else {
				mediaPath = rel
			}
		}

		entry := dto.LogEntry{
			Type:        dto.TypeVideo,
			Timestamp:   time.Now().Format(dto.TimestampLayout),
			User:        user,
			Detections:  nonNilDetections(result.Detections),
			AlertCount:  result.TotalAlerts,
			TotalFrames: result.TotalFrames,
			FPS:         result.FPS,
			MediaPath:   mediaPath,
		}
		if err := store.Append(entry); err != nil {
			log.Error("Failed to persist video log entry: %v", err)
		}

		frames := make([]string, 0, len(result.Frames))
		for _, f := range result.Frames {
			frames = append(frames, base64.StdEncoding.EncodeToString(f))
		}

		writeJSON(w, http.StatusOK, videoResponse{
			Status:      "success",
			TotalFrames: result.TotalFrames,
			FPS:         result.FPS,
			Detections:  nonNilDetections(result.Detections),
			VideoFrames: frames,
		}, log)
	}
}

// readUpload pulls the "file" multipart field (plus the optional "user"
// field) out of the request. It writes the client error itself and reports ok
// = false when the request is unusable.
func readUpload(w http.ResponseWriter, r *http.Request, log *logger.Logger) (data []byte, user string, ok bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field", log)
		return nil, "", false
	}
	defer file.Close()

	data, err = io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unable to read upload", log)
		return nil, "", false
	}

	return data, r.FormValue("user"), true
}
