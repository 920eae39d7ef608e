package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/ecotrack/ecotrack-ui/internal/domain/auth"
	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL})
}

func TestWhoAmI_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/auth/me", r.URL.Path)
		ck, err := r.Cookie("Authorization")
		require.NoError(t, err)
		assert.Equal(t, "tok123", ck.Value)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "name": "A", "email": "a@x.com", "role": "ADMIN",
		})
	})

	identity, err := client.WhoAmI(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), identity.ID)
	assert.Equal(t, domainauth.RoleAdmin, identity.Role, "upper-case upstream role normalizes to canonical lowercase")
}

func TestWhoAmI_Unauthenticated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.WhoAmI(context.Background(), "stale")
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err), "401 must map to the expected-unauthenticated code")
	assert.False(t, apperrors.IsUpstream(err))
}

func TestWhoAmI_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusInternalServerError)
	})

	_, err := client.WhoAmI(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.Contains(t, apperrors.UserMessage(err), "boom")
}

func TestWhoAmI_MalformedPayload(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "not-a-number"`))
	})

	_, err := client.WhoAmI(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err), "malformed payloads are transient failures, not auth failures")
}

func TestWhoAmI_NetworkError(t *testing.T) {
	client := NewClient(Options{BaseURL: "http://127.0.0.1:1"})

	_, err := client.WhoAmI(context.Background(), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestLogin_CapturesSessionCookie(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)

		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "a@x.com", creds["email"])

		http.SetCookie(w, &http.Cookie{Name: "Authorization", Value: "fresh-token", HttpOnly: true})
		w.WriteHeader(http.StatusOK)
	})

	cookie, err := client.Login(context.Background(), ports.Credentials{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", cookie)
}

func TestLogin_BadCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
	})

	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@x.com", Password: "nope"})
	require.Error(t, err)
	assert.Contains(t, apperrors.UserMessage(err), "Invalid email or password")
}

func TestLogin_NoCookieInResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.Login(context.Background(), ports.Credentials{Email: "a@x.com", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestRegister(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user", body["role"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.User{ID: 5, Name: body["name"], Email: body["email"], Role: body["role"]})
	})

	user, err := client.Register(context.Background(), ports.Registration{
		Name: "Ada", Email: "ada@x.com", Password: "pw123456", Role: "user",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
}

func TestCreateComplaint_MultipartWithImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/complaints", r.URL.Path)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Oil spill", r.FormValue("title"))
		assert.Equal(t, "3", r.FormValue("categoryId"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "spill.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Complaint{ID: 9, Title: "Oil spill", Status: model.StatusPending})
	})

	complaint, err := client.Create(context.Background(), "tok", model.ComplaintInput{
		Title:       "Oil spill",
		Description: "Sheen on the creek",
		CategoryID:  3,
	}, &ports.Upload{Filename: "spill.jpg", ContentType: "image/jpeg", Data: []byte("fakejpeg")})
	require.NoError(t, err)
	assert.Equal(t, int64(9), complaint.ID)
	assert.Equal(t, model.StatusPending, complaint.Status)
}

func TestCreateComplaint_NoImage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("image")
		assert.Error(t, err, "no image part expected")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(model.Complaint{ID: 10})
	})

	_, err := client.Create(context.Background(), "tok", model.ComplaintInput{
		Title: "Noise", Description: "Night works", CategoryID: 1,
	}, nil)
	require.NoError(t, err)
}

func TestUpdateComplaintStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/complaints/4/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "RESOLVED", body["status"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(model.Complaint{ID: 4, Status: model.StatusResolved})
	})

	complaint, err := client.UpdateComplaintStatus(context.Background(), "tok", 4, model.StatusResolved)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, complaint.Status)
}

func TestDeleteUser_Forbidden(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"admin required"}`))
	})

	err := client.DeleteUser(context.Background(), "tok", 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestListCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/categories", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]model.Category{{ID: 1, Name: "Water"}, {ID: 2, Name: "Air"}})
	})

	categories, err := client.List(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Water", categories[0].Name)
}

func TestUpdateProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user/profile", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"name": "New Name", "email": "new@example.com"}, body)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 7, "name": "New Name", "email": "new@example.com", "role": "user",
		})
	})

	user, err := client.UpdateProfile(context.Background(), "tok",
		model.ProfileUpdateInput{Name: "New Name", Email: "new@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.Equal(t, "new@example.com", user.Email)
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/user/password", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "old", body["currentPassword"])
		assert.Equal(t, "new-secret", body["newPassword"])

		http.Error(w, `{"message":"Current password is incorrect."}`, http.StatusBadRequest)
	})

	err := client.ChangePassword(context.Background(), "tok", "old", "new-secret")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestInterfaceAssertions(t *testing.T) {
	var c *Client
	var _ ports.AuthAPI = c
	var _ ports.ProfileAPI = c
	var _ ports.ComplaintAPI = c
	var _ ports.CategoryAPI = c
	var _ ports.AdminAPI = c
}
