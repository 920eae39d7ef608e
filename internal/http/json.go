package httpx

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"

	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
)

// WriteJSON writes a JSON response with the given status code. Encoding goes
// through a buffer so a marshal failure cannot corrupt a half-written body.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

// ErrorParams describes a JSON error response.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response. Internal errors are logged but the
// underlying message is replaced with the sanitized user-facing form.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	message := "internal server error"
	if p.Err != nil {
		message = apperrors.UserMessage(p.Err)
		if p.Code >= http.StatusInternalServerError {
			slog.Error("request failed", "code", p.Code, "error", p.Err)
		}
	}

	body := map[string]any{"error": message}
	if p.ErrCode != "" {
		body["code"] = p.ErrCode
	}
	WriteJSON(w, p.Code, body)
}
