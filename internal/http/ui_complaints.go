package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// maxUploadBytes bounds complaint image uploads. The upstream API enforces
// its own limit; this one just keeps oversized bodies off the wire.
const maxUploadBytes = 10 << 20

// ComplaintsList renders the caller's complaints.
func (h *UIHandlers) ComplaintsList(w http.ResponseWriter, r *http.Request) {
	cookie := h.upstreamCookie(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "My Complaints - EcoTrack",
			PageTitle:   "My Complaints",
			CurrentPage: PageComplaints,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			complaints, err := h.Complaints.ListMine(ctx, cookie)
			if err != nil {
				return err
			}
			data["Complaints"] = complaints
			return nil
		},
	})
}

// ComplaintNew renders the create form.
func (h *UIHandlers) ComplaintNew(w http.ResponseWriter, r *http.Request) {
	h.renderComplaintForm(w, r, complaintFormFrame{Mode: FormModeCreate})
}

// ComplaintCreate handles the create form post, including the optional
// image part.
func (h *UIHandlers) ComplaintCreate(w http.ResponseWriter, r *http.Request) {
	input, image, err := parseComplaintForm(r)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if errs := input.Validate(); errs != nil {
		h.renderComplaintForm(w, r, complaintFormFrame{
			Mode:        FormModeCreate,
			Input:       input,
			FieldErrors: errs,
			Status:      http.StatusUnprocessableEntity,
		})
		return
	}

	created, err := h.Complaints.Create(r.Context(), h.upstreamCookie(r), input, image)
	if err != nil {
		h.handleComplaintFormError(w, r, complaintFormFrame{Mode: FormModeCreate, Input: input}, err)
		return
	}
	http.Redirect(w, r, "/complaints/"+strconv.FormatInt(created.ID, 10), http.StatusSeeOther)
}

// ComplaintView renders a single complaint.
func (h *UIHandlers) ComplaintView(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	cookie := h.upstreamCookie(r)
	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Complaint - EcoTrack",
			PageTitle:   "Complaint",
			CurrentPage: PageComplaintView,
		},
		Fetch: func(ctx context.Context, data map[string]any) error {
			complaint, fetchErr := h.Complaints.Get(ctx, cookie, id)
			if fetchErr != nil {
				return fetchErr
			}
			data["Complaint"] = complaint
			data["PageTitle"] = complaint.Title
			return nil
		},
	})
}

// ComplaintEdit renders the edit form pre-filled from the upstream record.
func (h *UIHandlers) ComplaintEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	complaint, err := h.Complaints.Get(r.Context(), h.upstreamCookie(r), id)
	if err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}

	h.renderComplaintForm(w, r, complaintFormFrame{
		Mode:      FormModeEdit,
		Complaint: &complaint,
		Input: model.ComplaintInput{
			Title:       complaint.Title,
			Description: complaint.Description,
			CategoryID:  complaint.Category.ID,
		},
	})
}

// ComplaintUpdate handles the edit form post.
func (h *UIHandlers) ComplaintUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	input, image, err := parseComplaintForm(r)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	frame := complaintFormFrame{
		Mode:      FormModeEdit,
		Complaint: &model.Complaint{ID: id},
		Input:     input,
	}

	if errs := input.Validate(); errs != nil {
		frame.FieldErrors = errs
		frame.Status = http.StatusUnprocessableEntity
		h.renderComplaintForm(w, r, frame)
		return
	}

	if _, err := h.Complaints.Update(r.Context(), h.upstreamCookie(r), id, input, image); err != nil {
		h.handleComplaintFormError(w, r, frame, err)
		return
	}
	http.Redirect(w, r, "/complaints/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

// ComplaintDelete removes a complaint and returns to the list.
func (h *UIHandlers) ComplaintDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.NotFound(w, r)
		return
	}

	if err := h.Complaints.Delete(r.Context(), h.upstreamCookie(r), id); err != nil {
		h.serviceErrorResponse(w, r, err)
		return
	}
	http.Redirect(w, r, "/complaints", http.StatusSeeOther)
}

// complaintFormFrame carries everything the shared create/edit form needs.
type complaintFormFrame struct {
	Mode        FormMode
	Complaint   *model.Complaint
	Input       model.ComplaintInput
	FieldErrors map[string]string
	Message     string
	Status      int
}

// renderComplaintForm renders the shared form, fetching the category list
// for the select input.
func (h *UIHandlers) renderComplaintForm(w http.ResponseWriter, r *http.Request, frame complaintFormFrame) {
	categories, err := h.Complaints.Categories(r.Context(), h.upstreamCookie(r))
	if err != nil {
		if apperrors.IsUnauthenticated(err) {
			h.handleStaleSession(w, r)
			return
		}
		h.logger().Error("category fetch failed", "error", err)
		if frame.Message == "" {
			frame.Message = apperrors.UserMessage(err)
		}
	}

	meta := PageMeta{
		Title:       "New Complaint - EcoTrack",
		PageTitle:   "New Complaint",
		CurrentPage: PageComplaintForm,
	}
	if frame.Mode == FormModeEdit {
		meta.Title = "Edit Complaint - EcoTrack"
		meta.PageTitle = "Edit Complaint"
	}

	builder := NewTemplateData(r, meta).
		With("Mode", string(frame.Mode)).
		With("Input", frame.Input).
		With("Categories", categories).
		WithFieldErrors(frame.FieldErrors)
	if frame.Complaint != nil {
		builder.With("Complaint", frame.Complaint)
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

// handleComplaintFormError re-renders the form for validation failures and
// defers everything else to the shared error mapping.
func (h *UIHandlers) handleComplaintFormError(w http.ResponseWriter, r *http.Request, frame complaintFormFrame, err error) {
	if apperrors.IsValidation(err) {
		if field := apperrors.GetField(err); field != "" {
			frame.FieldErrors = map[string]string{field: apperrors.UserMessage(err)}
		} else {
			frame.Message = apperrors.UserMessage(err)
		}
		frame.Status = http.StatusUnprocessableEntity
		h.renderComplaintForm(w, r, frame)
		return
	}
	h.serviceErrorResponse(w, r, err)
}

// parseComplaintForm decodes the multipart complaint form and its optional
// image.
func parseComplaintForm(r *http.Request) (model.ComplaintInput, *ports.Upload, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		// Plain form posts (no image input) are fine too.
		if !errors.Is(err, http.ErrNotMultipart) {
			return model.ComplaintInput{}, nil, err
		}
		if err := r.ParseForm(); err != nil {
			return model.ComplaintInput{}, nil, err
		}
	}

	categoryID, _ := strconv.ParseInt(r.PostFormValue("categoryId"), 10, 64)
	input := model.ComplaintInput{
		Title:       r.PostFormValue("title"),
		Description: r.PostFormValue("description"),
		CategoryID:  categoryID,
	}

	image, err := formImage(r)
	if err != nil {
		return model.ComplaintInput{}, nil, err
	}
	return input, image, nil
}

func formImage(r *http.Request) (*ports.Upload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &ports.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
