package httpx

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
	"github.com/ecotrack/ecotrack-ui/internal/testutil"
)

var testCategories = []model.Category{
	{ID: 1, Name: "Waste"},
	{ID: 2, Name: "Water"},
}

func TestComplaintsList(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.ComplaintAPI.EXPECT().ListMine(gomock.Any(), fx.Auth.Cookie).
		Return(testutil.Complaints(2), nil)

	rec := fx.browserGet(t, "/complaints", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	ContainsAll(t, bodyString(t, rec), "My Complaints", "Report an Issue")
}

func TestComplaintNew_RendersCategorySelect(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.CategoryAPI.EXPECT().List(gomock.Any(), fx.Auth.Cookie).Return(testCategories, nil)

	rec := fx.browserGet(t, "/complaints/new", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	ContainsAll(t, bodyString(t, rec), "New Complaint", "Waste", "Water", `enctype="multipart/form-data"`)
}

func TestComplaintCreate_Valid(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	created := testutil.NewComplaint().WithID(42).Build()
	fx.ComplaintAPI.EXPECT().
		Create(gomock.Any(), fx.Auth.Cookie, model.ComplaintInput{
			Title:       "Overflowing bins",
			Description: "Bins on Elm Street have not been emptied in weeks.",
			CategoryID:  1,
		}, nil).
		Return(created, nil)

	form := url.Values{
		"title":       {"Overflowing bins"},
		"description": {"Bins on Elm Street have not been emptied in weeks."},
		"categoryId":  {"1"},
	}
	rec := fx.postForm(t, "/complaints", form, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/complaints/42", rec.Header().Get("Location"))
}

func TestComplaintCreate_InvalidKeepsInput(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	// Validation fails before any upstream write; only the form's category
	// fetch hits the API.
	fx.CategoryAPI.EXPECT().List(gomock.Any(), gomock.Any()).Return(testCategories, nil)

	form := url.Values{
		"title":       {""},
		"description": {"Still worth keeping"},
		"categoryId":  {"2"},
	}
	rec := fx.postForm(t, "/complaints", form, cookies)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	ContainsAll(t, bodyString(t, rec), "Title is required.", "Still worth keeping")
}

func TestComplaintCreate_UploadsImage(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	var gotUpload *ports.Upload
	fx.ComplaintAPI.EXPECT().
		Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ model.ComplaintInput, image *ports.Upload) (model.Complaint, error) {
			gotUpload = image
			return testutil.NewComplaint().WithID(7).Build(), nil
		})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("title", "Illegal dumping"))
	require.NoError(t, mw.WriteField("description", "Construction waste dumped by the river."))
	require.NoError(t, mw.WriteField("categoryId", "2"))
	require.NoError(t, mw.WriteField("csrf_token", cookieValue(cookies, DefaultCSRFCookieName)))
	part, err := mw.CreateFormFile("image", "dump.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/complaints", &buf)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Content-Type", mw.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := serve(fx.testEnv, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.NotNil(t, gotUpload)
	assert.Equal(t, "dump.jpg", gotUpload.Filename)
	assert.Equal(t, []byte("jpeg-bytes"), gotUpload.Data)
}

func TestComplaintView(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	complaint := testutil.NewComplaint().WithID(5).WithTitle("Broken streetlight").Build()
	fx.ComplaintAPI.EXPECT().Get(gomock.Any(), fx.Auth.Cookie, int64(5)).Return(complaint, nil)

	rec := fx.browserGet(t, "/complaints/5", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	ContainsAll(t, bodyString(t, rec), "Broken streetlight", "/complaints/5/edit", "/complaints/5/delete")
}

func TestComplaintView_MissingRendersNotFound(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.ComplaintAPI.EXPECT().Get(gomock.Any(), gomock.Any(), int64(99)).
		Return(model.Complaint{}, apperrors.NotFound("Not found."))

	rec := fx.browserGet(t, "/complaints/99", cookies...)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplaintView_ForbiddenRedirectsToUnauthorized(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.ComplaintAPI.EXPECT().Get(gomock.Any(), gomock.Any(), int64(6)).
		Return(model.Complaint{}, apperrors.Forbidden("You do not have permission to do that."))

	rec := fx.browserGet(t, "/complaints/6", cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))
}

func TestComplaintEdit_PrefillsForm(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	complaint := testutil.NewComplaint().WithID(5).WithTitle("Broken streetlight").
		WithCategory(2, "Water").Build()
	fx.ComplaintAPI.EXPECT().Get(gomock.Any(), fx.Auth.Cookie, int64(5)).Return(complaint, nil)
	fx.CategoryAPI.EXPECT().List(gomock.Any(), fx.Auth.Cookie).Return(testCategories, nil)

	rec := fx.browserGet(t, "/complaints/5/edit", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	ContainsAll(t, bodyString(t, rec),
		"Edit Complaint",
		`value="Broken streetlight"`,
		`action="/complaints/5"`,
	)
}

func TestComplaintUpdate(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.ComplaintAPI.EXPECT().
		Update(gomock.Any(), fx.Auth.Cookie, int64(5), gomock.Any(), nil).
		Return(testutil.NewComplaint().WithID(5).Build(), nil)

	form := url.Values{
		"title":       {"Broken streetlight"},
		"description": {"Still dark at the Elm and 3rd crossing."},
		"categoryId":  {"2"},
	}
	rec := fx.postForm(t, "/complaints/5", form, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/complaints/5", rec.Header().Get("Location"))
}

func TestComplaintDelete(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.ComplaintAPI.EXPECT().Delete(gomock.Any(), fx.Auth.Cookie, int64(5)).Return(nil)

	rec := fx.postForm(t, "/complaints/5/delete", url.Values{}, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/complaints", rec.Header().Get("Location"))
}
