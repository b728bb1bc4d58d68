package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishlink/internal/models"
	"parishlink/internal/services/dto"
	"parishlink/test/helpers"
)

func TestRegisterLoginFlow(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	srv.CreateAdmin(t, "admin@flow.test")

	// Register lands in pending.
	w := srv.SendRequest(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:        "newmember@flow.test",
		Password:     "a strong password",
		Name:         "New Member",
		Denomination: "Methodist",
		Branch:       "North",
	}, "")
	helpers.RequireStatus(t, w, http.StatusCreated)

	var registered dto.UserResponse
	helpers.DecodeBody(t, w, &registered)
	assert.Equal(t, string(models.ApprovalStatusPending), registered.AccountStatus)
	assert.Equal(t, string(models.UserRoleMember), registered.Role)

	// Duplicate email conflicts.
	w = srv.SendRequest(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:        "newmember@flow.test",
		Password:     "another password",
		Name:         "Impostor",
		Denomination: "Methodist",
	}, "")
	helpers.RequireStatus(t, w, http.StatusConflict)

	// Login works even while pending so the user can see their status.
	w = srv.SendRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "newmember@flow.test",
		Password: "a strong password",
	}, "")
	helpers.RequireStatus(t, w, http.StatusOK)

	var authResp dto.AuthResponse
	helpers.DecodeBody(t, w, &authResp)
	require.NotEmpty(t, authResp.AccessToken)
	require.NotEmpty(t, authResp.RefreshToken)

	// But the member surface is closed until approval.
	w = srv.SendRequest(t, http.MethodGet, "/api/search/profiles?q=carpenter", nil, authResp.AccessToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	// Wrong password rejected.
	w = srv.SendRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "newmember@flow.test",
		Password: "not the password",
	}, "")
	helpers.RequireStatus(t, w, http.StatusUnauthorized)
}

func TestRefreshTokenRotation(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	srv.CreateApprovedMember(t, "rotate@flow.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/auth/login", dto.LoginRequest{
		Email:    "rotate@flow.test",
		Password: "test-password-123",
	}, "")
	helpers.RequireStatus(t, w, http.StatusOK)
	var first dto.AuthResponse
	helpers.DecodeBody(t, w, &first)

	// Refresh consumes the token and issues a new pair.
	w = srv.SendRequest(t, http.MethodPost, "/api/auth/refresh", dto.RefreshRequest{
		RefreshToken: first.RefreshToken,
	}, "")
	helpers.RequireStatus(t, w, http.StatusOK)
	var second dto.AuthResponse
	helpers.DecodeBody(t, w, &second)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token is dead.
	w = srv.SendRequest(t, http.MethodPost, "/api/auth/refresh", dto.RefreshRequest{
		RefreshToken: first.RefreshToken,
	}, "")
	helpers.RequireStatus(t, w, http.StatusUnauthorized)
}

func TestAccountApprovalFlow(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "approver@flow.test")
	pending, memberToken := srv.CreateUser(t, "pending@flow.test", models.UserRoleMember, models.ApprovalStatusPending)

	// Member cannot approve anyone, including themselves.
	w := srv.SendRequest(t, http.MethodPost, "/api/users/"+pending.ID+"/approve", nil, memberToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	// Admin approves.
	w = srv.SendRequest(t, http.MethodPost, "/api/users/"+pending.ID+"/approve", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var approved dto.UserResponse
	helpers.DecodeBody(t, w, &approved)
	assert.Equal(t, string(models.ApprovalStatusApproved), approved.AccountStatus)

	// The member got notified.
	w = srv.SendRequest(t, http.MethodGet, "/api/notifications", nil, memberToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var notifications dto.NotificationListResponse
	helpers.DecodeBody(t, w, &notifications)
	require.NotEmpty(t, notifications.Notifications)
	assert.Equal(t, string(models.NotificationTypeAccountApproved), notifications.Notifications[0].Type)
}

func TestAccountRejectionWithReason(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "rejecter@flow.test")
	pending, _ := srv.CreateUser(t, "unknown@flow.test", models.UserRoleMember, models.ApprovalStatusPending)

	w := srv.SendRequest(t, http.MethodPost, "/api/users/"+pending.ID+"/reject", dto.RejectAccountRequest{
		Reason: "no record of this person in our congregation",
	}, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	var rejected dto.UserResponse
	helpers.DecodeBody(t, w, &rejected)
	assert.Equal(t, string(models.ApprovalStatusRejected), rejected.AccountStatus)
	assert.Equal(t, "no record of this person in our congregation", rejected.RejectionReason)

	// Rejecting again is allowed and stays rejected.
	w = srv.SendRequest(t, http.MethodPost, "/api/users/"+pending.ID+"/reject", dto.RejectAccountRequest{}, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
}

func TestLastAdminGuard(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	admin, adminToken := srv.CreateAdmin(t, "lonely-admin@flow.test")
	other, _ := srv.CreateAdmin(t, "second-admin@flow.test")

	// With two admins, demotion works.
	w := srv.SendRequest(t, http.MethodPut, "/api/users/"+other.ID+"/role", dto.ChangeRoleRequest{Role: "member"}, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	// Now the last admin cannot demote themselves (self guard fires first).
	w = srv.SendRequest(t, http.MethodPut, "/api/users/"+admin.ID+"/role", dto.ChangeRoleRequest{Role: "member"}, adminToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)
}
