package httpx

import (
	"net/http"
)

// SignedOut renders the post-logout page.
func (h *UIHandlers) SignedOut(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Code":      http.StatusOK,
		"Title":     "Signed Out - EcoTrack",
		"Message":   "You have been signed out.",
		"ShowLogin": true,
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("signed-out page render failed", "error", err)
		http.Redirect(w, r, "/login", http.StatusFound)
	}
}

// Unauthorized renders the access-denied page shown when a signed-in user
// hits a route above their role.
func (h *UIHandlers) Unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	data := map[string]any{
		"Code":            http.StatusForbidden,
		"Title":           "Access Denied - EcoTrack",
		"Message":         "You do not have permission to view this page.",
		"IsAuthenticated": IsAuthenticatedRequest(r.Context()),
		"ShowHome":        true,
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("unauthorized page render failed", "error", err)
	}
}

// NotFound renders a 404 page for browsers and a JSON 404 otherwise.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "not_found"})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	data := map[string]any{
		"Code":            http.StatusNotFound,
		"Title":           "Not Found - EcoTrack",
		"Message":         "The page you are looking for does not exist.",
		"IsAuthenticated": IsAuthenticatedRequest(r.Context()),
		"ShowHome":        true,
	}
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("not-found page render failed", "error", err)
	}
}
