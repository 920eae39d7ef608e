package upstream

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

// ListMine fetches the calling user's complaints.
func (c *Client) ListMine(ctx context.Context, upstreamCookie string) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/complaints",
		Cookie: upstreamCookie,
	}, &complaints)
	if err != nil {
		return nil, fmt.Errorf("list complaints: %w", err)
	}
	return complaints, nil
}

// Get fetches a single complaint by ID.
func (c *Client) Get(ctx context.Context, upstreamCookie string, id int64) (model.Complaint, error) {
	var complaint model.Complaint
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/complaints/" + strconv.FormatInt(id, 10),
		Cookie: upstreamCookie,
	}, &complaint)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("get complaint %d: %w", id, err)
	}
	return complaint, nil
}

// Create submits a new complaint as multipart form data, streaming through the
// optional image without persisting it locally.
func (c *Client) Create(
	ctx context.Context,
	upstreamCookie string,
	in model.ComplaintInput,
	image *ports.Upload,
) (model.Complaint, error) {
	body, contentType, err := encodeComplaintForm(in, image)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}

	var complaint model.Complaint
	err = c.doJSON(ctx, requestParams{
		Method:  http.MethodPost,
		Path:    "/complaints",
		Cookie:  upstreamCookie,
		Body:    body,
		Headers: map[string]string{"Content-Type": contentType},
	}, &complaint)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("create complaint: %w", err)
	}
	return complaint, nil
}

// Update replaces a complaint's fields, optionally with a new image.
func (c *Client) Update(
	ctx context.Context,
	upstreamCookie string,
	id int64,
	in model.ComplaintInput,
	image *ports.Upload,
) (model.Complaint, error) {
	body, contentType, err := encodeComplaintForm(in, image)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("update complaint %d: %w", id, err)
	}

	var complaint model.Complaint
	err = c.doJSON(ctx, requestParams{
		Method:  http.MethodPut,
		Path:    "/complaints/" + strconv.FormatInt(id, 10),
		Cookie:  upstreamCookie,
		Body:    body,
		Headers: map[string]string{"Content-Type": contentType},
	}, &complaint)
	if err != nil {
		return model.Complaint{}, fmt.Errorf("update complaint %d: %w", id, err)
	}
	return complaint, nil
}

// Delete removes a complaint.
func (c *Client) Delete(ctx context.Context, upstreamCookie string, id int64) error {
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodDelete,
		Path:   "/complaints/" + strconv.FormatInt(id, 10),
		Cookie: upstreamCookie,
	}, nil)
	if err != nil {
		return fmt.Errorf("delete complaint %d: %w", id, err)
	}
	return nil
}

// List fetches the available complaint categories.
func (c *Client) List(ctx context.Context, upstreamCookie string) ([]model.Category, error) {
	var categories []model.Category
	err := c.doJSON(ctx, requestParams{
		Method: http.MethodGet,
		Path:   "/categories",
		Cookie: upstreamCookie,
	}, &categories)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// encodeComplaintForm builds the multipart body the upstream expects for
// complaint create/update calls.
func encodeComplaintForm(in model.ComplaintInput, image *ports.Upload) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       in.Title,
		"description": in.Description,
		"categoryId":  strconv.FormatInt(in.CategoryID, 10),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", name, err)
		}
	}

	if image != nil {
		part, err := mw.CreateFormFile("image", image.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create image part: %w", err)
		}
		if _, err = part.Write(image.Data); err != nil {
			return nil, "", fmt.Errorf("write image part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}
