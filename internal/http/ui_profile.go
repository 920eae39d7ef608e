package httpx

import (
	"net/http"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
)

// profileFormFrame carries the profile page's two forms through a render.
type profileFormFrame struct {
	Input           model.ProfileUpdateInput
	FieldErrors     map[string]string
	Message         string
	Status          int
	Saved           bool
	PasswordChanged bool
}

// ProfilePage renders the account settings page, prefilled from the
// session's cached identity.
func (h *UIHandlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	frame := profileFormFrame{
		Saved:           r.URL.Query().Get("saved") == "1",
		PasswordChanged: r.URL.Query().Get("password_changed") == "1",
	}
	if state := h.sessionState(r); state != nil && state.Identity != nil {
		frame.Input = model.ProfileUpdateInput{
			Name:  state.Identity.Name,
			Email: state.Identity.Email,
		}
	}
	h.renderProfile(w, r, frame)
}

// ProfileUpdate handles the name/email form post. Success refreshes the
// session's cached identity, so the redirect re-render shows the new values.
func (h *UIHandlers) ProfileUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	input := model.ProfileUpdateInput{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	}
	frame := profileFormFrame{Input: input}

	if errs := input.Validate(); errs != nil {
		frame.FieldErrors = errs
		frame.Status = http.StatusUnprocessableEntity
		h.renderProfile(w, r, frame)
		return
	}

	state := h.sessionState(r)
	if state == nil {
		redirectToLogin(w, r)
		return
	}
	if _, err := h.Profile.UpdateProfile(r.Context(), state.ID, input); err != nil {
		h.handleProfileFormError(w, r, frame, err)
		return
	}
	http.Redirect(w, r, "/profile?saved=1", http.StatusSeeOther)
}

// ProfilePassword handles the change-password form post. The current
// password is verified upstream; a mismatch comes back as a validation
// error and re-renders the form.
func (h *UIHandlers) ProfilePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	input := model.PasswordChangeInput{
		Current: r.PostFormValue("current_password"),
		New:     r.PostFormValue("new_password"),
		Confirm: r.PostFormValue("confirm_password"),
	}
	frame := h.prefilledProfileFrame(r)

	if errs := input.Validate(); errs != nil {
		frame.FieldErrors = errs
		frame.Status = http.StatusUnprocessableEntity
		h.renderProfile(w, r, frame)
		return
	}

	state := h.sessionState(r)
	if state == nil {
		redirectToLogin(w, r)
		return
	}
	if err := h.Profile.ChangePassword(r.Context(), state.ID, input.Current, input.New); err != nil {
		if apperrors.IsValidation(err) && apperrors.GetField(err) == "" {
			// The upstream does not name the field; the current password
			// is the only thing it verifies.
			frame.FieldErrors = map[string]string{"current_password": apperrors.UserMessage(err)}
			frame.Status = http.StatusUnprocessableEntity
			h.renderProfile(w, r, frame)
			return
		}
		h.handleProfileFormError(w, r, frame, err)
		return
	}
	http.Redirect(w, r, "/profile?password_changed=1", http.StatusSeeOther)
}

func (h *UIHandlers) prefilledProfileFrame(r *http.Request) profileFormFrame {
	frame := profileFormFrame{}
	if state := h.sessionState(r); state != nil && state.Identity != nil {
		frame.Input = model.ProfileUpdateInput{
			Name:  state.Identity.Name,
			Email: state.Identity.Email,
		}
	}
	return frame
}

func (h *UIHandlers) handleProfileFormError(w http.ResponseWriter, r *http.Request, frame profileFormFrame, err error) {
	if apperrors.IsValidation(err) {
		if field := apperrors.GetField(err); field != "" {
			frame.FieldErrors = map[string]string{field: apperrors.UserMessage(err)}
		} else {
			frame.Message = apperrors.UserMessage(err)
		}
		frame.Status = http.StatusUnprocessableEntity
		h.renderProfile(w, r, frame)
		return
	}
	h.serviceErrorResponse(w, r, err)
}

func (h *UIHandlers) renderProfile(w http.ResponseWriter, r *http.Request, frame profileFormFrame) {
	meta := PageMeta{
		Title:       "My Profile - EcoTrack",
		PageTitle:   "My Profile",
		CurrentPage: PageProfile,
	}

	builder := NewTemplateData(r, meta).
		With("Input", frame.Input).
		WithFieldErrors(frame.FieldErrors)
	if frame.Saved {
		builder.With("Saved", true)
	}
	if frame.PasswordChanged {
		builder.With("PasswordChanged", true)
	}
	if frame.Message != "" {
		builder.WithError(frame.Message)
	}

	if frame.Status != 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(frame.Status)
	}
	h.renderPage(w, r, builder.Build())
}
