package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// writeJSON сначала кодирует ответ целиком и только потом пишет статус:
// если значение не сериализуется, клиент получит 500 с текстом ошибки, а не 200 с пустым телом.
func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		logger.Error("json encoding failed", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		body, _ = json.Marshal(map[string]string{"error": "response encoding failed"})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body = append(body, '\n')
	if _, err := w.Write(body); err != nil {
		logger.Debug("response write failed", zap.Error(err))
	}
}

func writeJSONError(w http.ResponseWriter, logger *zap.Logger, status int, err error) {
	writeJSON(w, logger, status, map[string]string{"error": err.Error()})
}
