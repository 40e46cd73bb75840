package handlers

import (
	"encoding/json"
	"net/http"

	"fishwatch/internal/logger"
	"fishwatch/internal/qa"
	"fishwatch/internal/stats"
)

type questionRequest struct {
	Prompt       string `json:"prompt"`
	DeepThinking bool   `json:"deep_thinking"`
}

type answerResponse struct {
	Response string `json:"response"`
}

// AskQuestionHandler forwards a question to the text generation service and
// counts the answered questions. Generation failures are reported in the body
// and do not increment the counter.
func AskQuestionHandler(client *qa.Client, aggregator *stats.Aggregator, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", log)
			return
		}

		var req questionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", log)
			return
		}
		if req.Prompt == "" {
			writeError(w, http.StatusBadRequest, "prompt is required", log)
			return
		}

		answer, err := client.Generate(r.Context(), req.Prompt, req.DeepThinking)
		if err != nil {
			log.Error("Question answering failed: %v", err)
			writeJSON(w, http.StatusOK, errorResponse{Error: err.Error()}, log)
			return
		}

		aggregator.RecordAnswer()
		writeJSON(w, http.StatusOK, answerResponse{Response: answer}, log)
	}
}
