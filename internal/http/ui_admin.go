package httpx

import (
	"context"
	"net/http"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// AdminComplaints renders every complaint with inline status controls.
func (h *UIHandlers) AdminComplaints(w http.ResponseWriter, r *http.Request) {
	cookie := h.upstreamCookie(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "All Complaints - EcoTrack",
			PageTitle:   "All Complaints",
			CurrentPage: PageAdminComplaints,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			board, err := h.Admin.TriageBoard(ctx, cookie)
			if err != nil {
				return err
			}
			data["Complaints"] = board.Complaints
			data["Stats"] = board.Stats
			return nil
		},
	})
}

// AdminComplaintStatus moves a complaint through triage.
func (h *UIHandlers) AdminComplaintStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	status := r.PostFormValue("status")
	if _, err := h.Admin.UpdateComplaintStatus(r.Context(), h.upstreamCookie(r), id, status); err != nil {
		if apperrors.IsValidation(err) {
			http.Error(w, apperrors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		h.serviceErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/complaints", http.StatusSeeOther)
}

// AdminUsers renders the account roster.
func (h *UIHandlers) AdminUsers(w http.ResponseWriter, r *http.Request) {
	cookie := h.upstreamCookie(r)
	callerID := h.callerID(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Users - EcoTrack",
			PageTitle:   "Users",
			CurrentPage: PageAdminUsers,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			users, err := h.Admin.ListUsers(ctx, cookie)
			if err != nil {
				return err
			}
			data["Users"] = users
			data["CallerID"] = callerID
			return nil
		},
	})
}

// AdminUserNew renders the admin account creation form.
func (h *UIHandlers) AdminUserNew(w http.ResponseWriter, r *http.Request) {
	h.renderAdminUserForm(w, r, adminUserFormFrame{Mode: FormModeCreate})
}

// AdminUserCreate creates another admin account.
func (h *UIHandlers) AdminUserCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := model.RegistrationInput{
		Name:     r.PostFormValue("name"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     "admin",
	}
	frame := adminUserFormFrame{Mode: FormModeCreate, Name: input.Name, Email: input.Email}

	if errs := input.Validate(); errs != nil {
		frame.FieldErrors = errs
		frame.Status = http.StatusUnprocessableEntity
		h.renderAdminUserForm(w, r, frame)
		return
	}

	reg := ports.Registration{Name: input.Name, Email: input.Email, Password: input.Password}
	if _, err := h.Admin.CreateAdmin(r.Context(), reg); err != nil {
		h.handleAdminUserFormError(w, r, frame, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// AdminUserEdit renders the account edit form. The roster endpoint is the
// only read the upstream admin API offers, so the record comes from there.
func (h *UIHandlers) AdminUserEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	users, err := h.Admin.ListUsers(r.Context(), h.upstreamCookie(r))
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}

	for _, u := range users {
		if u.ID == id {
			h.renderAdminUserForm(w, r, adminUserFormFrame{
				Mode:  FormModeEdit,
				ID:    u.ID,
				Name:  u.Name,
				Email: u.Email,
				Role:  u.Role,
			})
			return
		}
	}
	h.NotFound(w, r)
}

// AdminUserUpdate handles the account edit form post.
func (h *UIHandlers) AdminUserUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	input := model.UserUpdateInput{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Role:  r.PostFormValue("role"),
	}
	frame := adminUserFormFrame{
		Mode: FormModeEdit, ID: id,
		Name: input.Name, Email: input.Email, Role: input.Role,
	}

	if errs := input.Validate(); errs != nil {
		frame.FieldErrors = errs
		frame.Status = http.StatusUnprocessableEntity
		h.renderAdminUserForm(w, r, frame)
		return
	}

	if _, err := h.Admin.UpdateUser(r.Context(), h.upstreamCookie(r), id, input); err != nil {
		h.handleAdminUserFormError(w, r, frame, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// AdminUserDelete removes an account. Deleting your own account is refused
// by the service layer.
func (h *UIHandlers) AdminUserDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	if err := h.Admin.DeleteUser(r.Context(), h.upstreamCookie(r), id, h.callerID(r)); err != nil {
		if apperrors.IsValidation(err) {
			http.Error(w, apperrors.UserMessage(err), http.StatusUnprocessableEntity)
			return
		}
		h.serviceErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *UIHandlers) callerID(r *http.Request) int64 {
	if state := h.sessionState(r); state != nil && state.Identity != nil {
		return state.Identity.ID
	}
	return 0
}

// adminUserFormFrame carries everything the shared user form needs.
type adminUserFormFrame struct {
	Mode        FormMode
	ID          int64
	Name        string
	Email       string
	Role        string
	FieldErrors map[string]string
	Message     string
	Status      int
}

func (h *UIHandlers) renderAdminUserForm(w http.ResponseWriter, r *http.Request, frame adminUserFormFrame) {
	meta := PageMeta{
		Title:       "New Admin - EcoTrack",
		PageTitle:   "New Admin",
		CurrentPage: PageAdminUserForm,
	}
	if frame.Mode == FormModeEdit {
		meta.Title = "Edit User - EcoTrack"
		meta.PageTitle = "Edit User"
	}

	builder := NewTemplateData(r, meta).
		With("Mode", string(frame.Mode)).
		With("FormID", frame.ID).
		With("Name", frame.Name).
		With("Email", frame.Email).
		With("Role", frame.Role).
		WithFieldErrors(frame.FieldErrors)
	if frame.Message != "" {
		builder.WithError(frame.Message)
	}

	if frame.Status != 0 {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(frame.Status)
	}
	h.renderPage(w, r, builder.Build())
}

func (h *UIHandlers) handleAdminUserFormError(w http.ResponseWriter, r *http.Request, frame adminUserFormFrame, err error) {
	if apperrors.IsValidation(err) {
		if field := apperrors.GetField(err); field != "" {
			frame.FieldErrors = map[string]string{field: apperrors.UserMessage(err)}
		} else {
			frame.Message = apperrors.UserMessage(err)
		}
		frame.Status = http.StatusUnprocessableEntity
		h.renderAdminUserForm(w, r, frame)
		return
	}
	h.serviceErrorResponse(w, r, err)
}
