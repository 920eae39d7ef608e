package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ecotrack/ecotrack-ui/internal/domain/model"
	apperrors "github.com/ecotrack/ecotrack-ui/internal/errors"
	mocksauth "github.com/ecotrack/ecotrack-ui/internal/mocks/auth"
	portsmocks "github.com/ecotrack/ecotrack-ui/internal/mocks/ports"
	"github.com/ecotrack/ecotrack-ui/internal/ports"
	"github.com/ecotrack/ecotrack-ui/internal/testutil"
)

func newTestAdminService(t *testing.T) (*AdminService, *portsmocks.MockAdminAPI) {
	t.Helper()
	ctrl := gomock.NewController(t)
	admin := portsmocks.NewMockAdminAPI(ctrl)
	svc := NewAdminService(AdminServiceOptions{
		Admin: admin,
		Auth:  mocksauth.NewStubAuthAPI(),
	})
	return svc, admin
}

func TestAdminService_TriageBoard(t *testing.T) {
	svc, admin := newTestAdminService(t)

	list := testutil.Complaints(4)
	list[0].Status = model.StatusInProgress
	list[3].Status = model.StatusRejected

	admin.EXPECT().ListAllComplaints(gomock.Any(), testCookie).Return(list, nil)
	admin.EXPECT().ListUsers(gomock.Any(), testCookie).Return([]model.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com", Role: "admin"},
		{ID: 2, Name: "Bob", Email: "bob@example.com", Role: "user"},
	}, nil)

	board, err := svc.TriageBoard(context.Background(), testCookie)
	require.NoError(t, err)
	assert.Len(t, board.Complaints, 4)
	assert.Len(t, board.Users, 2)
	assert.Equal(t, 2, board.Stats.Pending)
	assert.Equal(t, 1, board.Stats.InProgress)
	assert.Equal(t, 1, board.Stats.Rejected)
}

func TestAdminService_TriageBoard_Failure(t *testing.T) {
	svc, admin := newTestAdminService(t)

	admin.EXPECT().ListAllComplaints(gomock.Any(), testCookie).
		Return(nil, apperrors.Upstream("boom")).AnyTimes()
	admin.EXPECT().ListUsers(gomock.Any(), testCookie).
		Return([]model.User{}, nil).AnyTimes()

	_, err := svc.TriageBoard(context.Background(), testCookie)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestAdminService_UpdateComplaintStatus(t *testing.T) {
	svc, admin := newTestAdminService(t)

	want := testutil.NewComplaint().WithID(5).WithStatus(model.StatusResolved).Build()
	admin.EXPECT().
		UpdateComplaintStatus(gomock.Any(), testCookie, int64(5), model.StatusResolved).
		Return(want, nil)

	got, err := svc.UpdateComplaintStatus(context.Background(), testCookie, 5, "RESOLVED")
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Status)
}

func TestAdminService_UpdateComplaintStatus_UnknownStatus(t *testing.T) {
	svc, _ := newTestAdminService(t)

	// No upstream expectation: an unknown status never crosses the wire
	_, err := svc.UpdateComplaintStatus(context.Background(), testCookie, 5, "SOLVED")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "status", apperrors.GetField(err))
}

func TestAdminService_CreateAdmin_ForcesAdminRole(t *testing.T) {
	api := mocksauth.NewStubAuthAPI()
	var captured ports.Registration
	api.RegisterFunc = func(_ context.Context, reg ports.Registration) (model.User, error) {
		captured = reg
		return model.User{ID: 9, Name: reg.Name, Email: reg.Email, Role: reg.Role}, nil
	}

	ctrl := gomock.NewController(t)
	svc := NewAdminService(AdminServiceOptions{
		Admin: portsmocks.NewMockAdminAPI(ctrl),
		Auth:  api,
	})

	user, err := svc.CreateAdmin(context.Background(), ports.Registration{
		Name:     "Second Admin",
		Email:    "second@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", captured.Role)
	assert.Equal(t, "admin", user.Role)
}

func TestAdminService_UpdateUser_Validates(t *testing.T) {
	svc, _ := newTestAdminService(t)

	_, err := svc.UpdateUser(context.Background(), testCookie, 2, model.UserUpdateInput{
		Name:  "Bob",
		Email: "not-an-email",
		Role:  "user",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestAdminService_DeleteUser(t *testing.T) {
	svc, admin := newTestAdminService(t)

	admin.EXPECT().DeleteUser(gomock.Any(), testCookie, int64(2)).Return(nil)

	require.NoError(t, svc.DeleteUser(context.Background(), testCookie, 2, 1))
}

func TestAdminService_DeleteUser_RefusesSelf(t *testing.T) {
	svc, _ := newTestAdminService(t)

	err := svc.DeleteUser(context.Background(), testCookie, 1, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
