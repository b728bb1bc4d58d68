package integration

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishlink/internal/models"
	"parishlink/internal/services/dto"
	"parishlink/test/helpers"
)

// Registration fans out a single-use approval link per moderator; hitting
// it approves the account without logging in.
func TestOneClickApprovalLink(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, _ = srv.CreateAdmin(t, "admin@link.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:        "newcomer@link.test",
		Password:     "long-enough-pw-1",
		Name:         "New Comer",
		Denomination: "Baptist",
	}, "")
	helpers.RequireStatus(t, w, http.StatusCreated)

	var newcomer models.User
	require.NoError(t, srv.DB.Where("email = ?", "newcomer@link.test").First(&newcomer).Error)

	var token models.ApprovalToken
	require.NoError(t, srv.DB.Where("user_id = ?", newcomer.ID).First(&token).Error)
	assert.Nil(t, token.UsedAt)

	w = srv.SendRequest(t, http.MethodGet, "/api/approve-account/"+token.Token, nil, "")
	helpers.RequireStatus(t, w, http.StatusOK)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.True(t, strings.Contains(w.Body.String(), "New Comer"))

	require.NoError(t, srv.DB.First(&newcomer, "id = ?", newcomer.ID).Error)
	assert.Equal(t, models.ApprovalStatusApproved, newcomer.AccountStatus)

	// Single use.
	w = srv.SendRequest(t, http.MethodGet, "/api/approve-account/"+token.Token, nil, "")
	helpers.RequireStatus(t, w, http.StatusBadRequest)
}

// A link whose approval cannot complete must stay usable; consuming
// the token and approving happen in one transaction.
func TestApprovalLinkNotBurnedWhenApprovalFails(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, _ = srv.CreateAdmin(t, "admin@burn.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/auth/register", dto.RegisterRequest{
		Email:        "vanishing@burn.test",
		Password:     "long-enough-pw-1",
		Name:         "Vanishing User",
		Denomination: "Baptist",
	}, "")
	helpers.RequireStatus(t, w, http.StatusCreated)

	var newcomer models.User
	require.NoError(t, srv.DB.Where("email = ?", "vanishing@burn.test").First(&newcomer).Error)
	var token models.ApprovalToken
	require.NoError(t, srv.DB.Where("user_id = ?", newcomer.ID).First(&token).Error)

	// Remove the user row out from under the link so the approval
	// inside the handler fails.
	require.NoError(t, srv.DB.Delete(&models.User{}, "id = ?", newcomer.ID).Error)

	w = srv.SendRequest(t, http.MethodGet, "/api/approve-account/"+token.Token, nil, "")
	helpers.RequireStatus(t, w, http.StatusBadRequest)

	require.NoError(t, srv.DB.First(&token, "id = ?", token.ID).Error)
	assert.Nil(t, token.UsedAt)
}

func TestApprovalLinkGarbageToken(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	w := srv.SendRequest(t, http.MethodGet, "/api/approve-account/not-a-real-token", nil, "")
	helpers.RequireStatus(t, w, http.StatusBadRequest)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}
