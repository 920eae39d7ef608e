package httpx

import (
	"context"
	"net/http"
)

// Dashboard renders the role-appropriate landing page: admins get the triage
// board over every complaint, users get an overview of their own.
func (h *UIHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	state := h.sessionState(r)
	if state != nil && state.IsAdmin() {
		h.adminDashboard(w, r)
		return
	}
	h.userDashboard(w, r)
}

func (h *UIHandlers) userDashboard(w http.ResponseWriter, r *http.Request) {
	cookie := h.upstreamCookie(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Dashboard - EcoTrack",
			PageTitle:   "My Dashboard",
			CurrentPage: PageDashboard,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			overview, err := h.Complaints.Overview(ctx, cookie)
			if err != nil {
				return err
			}
			data["Complaints"] = overview.Complaints
			data["Stats"] = overview.Stats
			data["Categories"] = overview.Categories
			return nil
		},
	})
}

func (h *UIHandlers) adminDashboard(w http.ResponseWriter, r *http.Request) {
	cookie := h.upstreamCookie(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Triage - EcoTrack",
			PageTitle:   "Triage Board",
			CurrentPage: PageDashboard,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			board, err := h.Admin.TriageBoard(ctx, cookie)
			if err != nil {
				return err
			}
			data["IsTriage"] = true
			data["Complaints"] = board.Complaints
			data["Stats"] = board.Stats
			data["Users"] = board.Users
			return nil
		},
	})
}
