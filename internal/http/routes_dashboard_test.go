package httpx

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	authmocks "github.com/ecotrack/ecotrack-ui/internal/mocks/auth"
	portsmocks "github.com/ecotrack/ecotrack-ui/internal/mocks/ports"
	"github.com/ecotrack/ecotrack-ui/internal/service"
	"github.com/ecotrack/ecotrack-ui/internal/testutil"
)

// routerFixture is a full router over gomock upstream APIs, so tests can
// script the upstream while exercising real services and handlers.
type routerFixture struct {
	*testEnv
	ComplaintAPI *portsmocks.MockComplaintAPI
	CategoryAPI  *portsmocks.MockCategoryAPI
	AdminAPI     *portsmocks.MockAdminAPI
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	capi := portsmocks.NewMockComplaintAPI(ctrl)
	cat := portsmocks.NewMockCategoryAPI(ctrl)
	aapi := portsmocks.NewMockAdminAPI(ctrl)
	stub := authmocks.NewStubAuthAPI()

	complaints := service.NewComplaintService(service.ComplaintServiceOptions{
		Complaints: capi,
		Categories: cat,
	})
	admin := service.NewAdminService(service.AdminServiceOptions{
		Admin: aapi,
		Auth:  stub,
	})

	return &routerFixture{
		testEnv:      newTestEnvWith(t, stub, complaints, admin),
		ComplaintAPI: capi,
		CategoryAPI:  cat,
		AdminAPI:     aapi,
	}
}

func TestDashboard_UserSeesOwnComplaintsAndStats(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	complaints := []model.Complaint{
		testutil.NewComplaint().WithID(1).WithTitle("Overflowing bins on Elm Street").Build(),
		testutil.NewComplaint().WithID(2).WithTitle("Oil slick in the creek").
			WithStatus(model.StatusResolved).Build(),
	}
	fx.ComplaintAPI.EXPECT().ListMine(gomock.Any(), fx.Auth.Cookie).Return(complaints, nil)
	fx.CategoryAPI.EXPECT().List(gomock.Any(), fx.Auth.Cookie).
		Return([]model.Category{{ID: 1, Name: "Waste"}}, nil)

	rec := fx.browserGet(t, "/", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)

	body := bodyString(t, rec)
	ContainsAll(t, body,
		"My Dashboard",
		"Overflowing bins on Elm Street",
		"Oil slick in the creek",
		"<strong>2</strong> total",
		"<strong>1</strong> resolved",
	)
	assert.NotContains(t, body, "Triage Board")
}

func TestDashboard_AdminSeesTriageBoard(t *testing.T) {
	fx := newRouterFixture(t)
	fx.asAdmin()
	cookies := fx.signIn(t)

	fx.AdminAPI.EXPECT().ListAllComplaints(gomock.Any(), fx.Auth.Cookie).
		Return(testutil.Complaints(3), nil)
	fx.AdminAPI.EXPECT().ListUsers(gomock.Any(), fx.Auth.Cookie).
		Return([]model.User{{ID: 1, Name: "Stub User"}}, nil)

	rec := fx.browserGet(t, "/", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	ContainsAll(t, bodyString(t, rec), "Triage Board", "<strong>3</strong> total", "Manage users (1)")
}

func TestDashboard_UpstreamFailureShowsBannerNotErrorPage(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)

	fx.ComplaintAPI.EXPECT().ListMine(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Upstream("Complaint service error (HTTP 502).")).AnyTimes()
	fx.CategoryAPI.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]model.Category{}, nil).AnyTimes()

	rec := fx.browserGet(t, "/", cookies...)
	require.Equal(t, http.StatusOK, rec.Code)
	ContainsAll(t, bodyString(t, rec), "My Dashboard", "Complaint service error (HTTP 502).")
}

// A dead upstream session means the cached cookie is worthless: the session
// is reset and the user returns to login, where a fresh probe runs.
func TestDashboard_StaleUpstreamSessionInvalidates(t *testing.T) {
	fx := newRouterFixture(t)
	cookies := fx.signIn(t)
	probes := fx.Auth.WhoAmICalls()

	fx.ComplaintAPI.EXPECT().ListMine(gomock.Any(), gomock.Any()).
		Return(nil, apperrors.Unauthenticated("Not authenticated.")).AnyTimes()
	fx.CategoryAPI.EXPECT().List(gomock.Any(), gomock.Any()).
		Return([]model.Category{}, nil).AnyTimes()

	rec := fx.browserGet(t, "/", cookies...)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	// The next navigation re-checks with the upstream instead of trusting
	// the invalidated state.
	fx.browserGet(t, "/login", cookies...)
	assert.Greater(t, fx.Auth.WhoAmICalls(), probes)
}

func TestUnknownRouteRendersNotFoundPage(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	rec := env.browserGet(t, "/no-such-page")
	require.Equal(t, http.StatusNotFound, rec.Code)
	ContainsAll(t, bodyString(t, rec), "404", "does not exist")
}

func TestHealthz_BypassesSessions(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := newJSONRequest(t, http.MethodGet, "/healthz", nil)
	rec := serve(env, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Result().Cookies(), "health probes must not create sessions")
	assert.Equal(t, 0, env.Auth.WhoAmICalls())
}
