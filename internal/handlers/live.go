package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"gocv.io/x/gocv"

	"fishwatch/internal/broadcast"
	"fishwatch/internal/detect"
	"fishwatch/internal/dto"
	"fishwatch/internal/logger"
	"fishwatch/internal/stats"
)

const liveReadTimeout = 60 * time.Second

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type liveResult struct {
	Status     string          `json:"status"`
	Detections []dto.Detection `json:"detections"`
	Frame      string          `json:"frame"` // annotated frame, base64 JPEG
}

type liveError struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// LiveDetectionHandler runs the live stream ingress. Each binary message is a
// framed image payload; the structured result goes back on the same
// connection, which is also registered as an alert subscriber. A single
// writer pump serializes direct replies and broadcast alerts, so each
// subscriber sees events in publish order. Live frames are never persisted.
func LiveDetectionHandler(pipeline *detect.Pipeline, hub *broadcast.Hub, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error("WebSocket upgrade error: %v", err)
			return
		}
		defer conn.Close()

		conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
		conn.SetPongHandler(func(appData string) error {
			conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
			return nil
		})

		sub := hub.Register()
		defer hub.Unregister(sub)

		go writerPump(conn, sub, hub, log)

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				log.Info("Live client %s disconnected: %v", sub.ID(), err)
				return
			}
			conn.SetReadDeadline(time.Now().Add(liveReadTimeout))

			if len(data) == 0 {
				continue
			}

			payload, ok := processLiveFrame(pipeline, data, log)
			if !ok {
				continue
			}
			if err := sub.Send(payload); err != nil {
				return
			}
		}
	}
}

// writerPump owns all writes to the connection. It drains the subscriber
// queue until the subscriber or the transport goes away.
func writerPump(conn *websocket.Conn, sub *broadcast.Subscriber, hub *broadcast.Hub, log *logger.Logger) {
	for {
		select {
		case <-sub.Done():
			return
		case msg := <-sub.Messages():
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Info("Live client %s write failed: %v", sub.ID(), err)
				hub.Unregister(sub)
				conn.Close()
				return
			}
		}
	}
}

// processLiveFrame decodes and runs one frame, returning the encoded reply.
// Decode and inference failures produce an error reply instead of tearing
// down the connection.
func processLiveFrame(pipeline *detect.Pipeline, data []byte, log *logger.Logger) ([]byte, bool) {
	frame, err := gocv.IMDecode(data, gocv.IMReadColor)
	if err != nil || frame.Empty() {
		if err == nil {
			frame.Close()
		}
		return encodeLive(liveError{Status: "error", Error: "unable to decode frame"}, log)
	}

	result, err := pipeline.Process(frame, stats.KindImage)
	frame.Close()
	if err != nil {
		log.Error("Live frame processing failed: %v", err)
		return encodeLive(liveError{Status: "error", Error: "detection failed"}, log)
	}

	return encodeLive(liveResult{
		Status:     "success",
		Detections: nonNilDetections(result.Detections),
		Frame:      base64.StdEncoding.EncodeToString(result.Annotated),
	}, log)
}

func encodeLive(v interface{}, log *logger.Logger) ([]byte, bool) {
	payload, err := json.Marshal(v)
	if err != nil {
		log.Error("Error encoding live message: %v", err)
		return nil, false
	}
	return payload, true
}

// nonNilDetections keeps empty detection lists as [] in JSON output.
func nonNilDetections(detections []dto.Detection) []dto.Detection {
	if detections == nil {
		return []dto.Detection{}
	}
	return detections
}
