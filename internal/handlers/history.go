package handlers

import (
	"errors"
	"net/http"

	"fishwatch/internal/history"
	"fishwatch/internal/logger"
)

// HistoryHandler serves filtered history queries. Malformed time filters are
// client errors naming the offending field.
func HistoryHandler(engine *history.Engine, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := history.Filter{
			StartTime: q.Get("start_time"),
			EndTime:   q.Get("end_time"),
			User:      q.Get("user"),
			Type:      q.Get("type"),
		}

		entries, err := engine.Query(filter)
		if err != nil {
			var ve *history.ValidationError
			if errors.As(err, &ve) {
				writeError(w, http.StatusBadRequest, ve.Error(), log)
				return
			}
			log.Error("History query failed: %v", err)
			writeError(w, http.StatusInternalServerError, "history query failed", log)
			return
		}

		writeJSON(w, http.StatusOK, entries, log)
	}
}
