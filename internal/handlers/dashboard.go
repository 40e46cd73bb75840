package handlers

import (
	"net/http"

	"fishwatch/internal/logger"
	"fishwatch/internal/stats"
)

type dashboardResponse struct {
	TotalImageDetections int64 `json:"total_image_detections"`
	TodayImageDetections int64 `json:"today_image_detections"`
	TotalImageAlerts     int64 `json:"total_image_alerts"`
	TodayImageAlerts     int64 `json:"today_image_alerts"`
	TotalVideoDetections int64 `json:"total_video_detections"`
	TodayVideoDetections int64 `json:"today_video_detections"`
	TotalVideoAlerts     int64 `json:"total_video_alerts"`
	TodayVideoAlerts     int64 `json:"today_video_alerts"`
	QuestionAnswerCount  int64 `json:"question_answer_count"`
}

// DashboardHandler returns the current statistics snapshot.
func DashboardHandler(aggregator *stats.Aggregator, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := aggregator.Snapshot()

		writeJSON(w, http.StatusOK, dashboardResponse{
			TotalImageDetections: snapshot.Image.TotalDetections,
			TodayImageDetections: snapshot.Image.TodayDetections,
			TotalImageAlerts:     snapshot.Image.TotalAlerts,
			TodayImageAlerts:     snapshot.Image.TodayAlerts,
			TotalVideoDetections: snapshot.Video.TotalDetections,
			TodayVideoDetections: snapshot.Video.TodayDetections,
			TotalVideoAlerts:     snapshot.Video.TotalAlerts,
			TodayVideoAlerts:     snapshot.Video.TodayAlerts,
			QuestionAnswerCount:  snapshot.QuestionAnswers,
		}, log)
	}
}
