package httpx

import (
	"net/http"
)

// Healthz reports process liveness. It does not touch the session store or
// the upstream API.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
