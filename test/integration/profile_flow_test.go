package integration

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishlink/internal/models"
	"parishlink/internal/services/dto"
	"parishlink/test/helpers"
)

func createProfileReq(profession string) dto.CreateProfileRequest {
	return dto.CreateProfileRequest{
		Profession: profession,
		Skills:     "carpentry, framing",
		Location:   "Springfield",
	}
}

func TestProfileModerationFlow(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, memberToken := srv.CreateApprovedMember(t, "carpenter@profile.test")
	_, pastorToken := srv.CreateUser(t, "pastor@profile.test", models.UserRolePastor, models.ApprovalStatusApproved)
	_, otherToken := srv.CreateApprovedMember(t, "viewer@profile.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/profiles", createProfileReq("Carpenter"), memberToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var profile dto.ProfileResponse
	helpers.DecodeBody(t, w, &profile)
	assert.Equal(t, string(models.ApprovalStatusPending), profile.Status)

	// One profile per account.
	w = srv.SendRequest(t, http.MethodPost, "/api/profiles", createProfileReq("Plumber"), memberToken)
	helpers.RequireStatus(t, w, http.StatusConflict)

	// Pending profiles are invisible to other members but visible to the owner.
	w = srv.SendRequest(t, http.MethodGet, "/api/profiles/"+profile.ID, nil, otherToken)
	helpers.RequireStatus(t, w, http.StatusNotFound)
	w = srv.SendRequest(t, http.MethodGet, "/api/profiles/"+profile.ID, nil, memberToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	// Pastors can moderate profiles.
	w = srv.SendRequest(t, http.MethodGet, "/api/profiles/pending", nil, pastorToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var pending dto.ProfileListResponse
	helpers.DecodeBody(t, w, &pending)
	require.Len(t, pending.Profiles, 1)

	w = srv.SendRequest(t, http.MethodPost, "/api/profiles/"+profile.ID+"/approve", nil, pastorToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &profile)
	assert.Equal(t, string(models.ApprovalStatusApproved), profile.Status)
	assert.NotNil(t, profile.ApprovedAt)

	// Now publicly visible, with view counting for non-owners.
	w = srv.SendRequest(t, http.MethodGet, "/api/profiles/"+profile.ID, nil, otherToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	w = srv.SendRequest(t, http.MethodGet, "/api/profiles/"+profile.ID, nil, otherToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var viewed dto.ProfileResponse
	helpers.DecodeBody(t, w, &viewed)
	assert.GreaterOrEqual(t, viewed.ViewCount, int64(1))

	// Any edit sends the profile back to moderation.
	bio := "Twenty years of finish carpentry."
	w = srv.SendRequest(t, http.MethodPut, "/api/profiles/me", dto.UpdateProfileRequest{Bio: &bio}, memberToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &profile)
	assert.Equal(t, string(models.ApprovalStatusPending), profile.Status)
	assert.Nil(t, profile.ApprovedAt)

	// Owner notified on rejection, with the reason preserved.
	w = srv.SendRequest(t, http.MethodPost, "/api/profiles/"+profile.ID+"/reject",
		dto.RejectRequest{Reason: "Skills section is empty"}, pastorToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &profile)
	assert.Equal(t, string(models.ApprovalStatusRejected), profile.Status)
	assert.Equal(t, "Skills section is empty", profile.RejectionReason)

	w = srv.SendRequest(t, http.MethodGet, "/api/notifications", nil, memberToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var notifications dto.NotificationListResponse
	helpers.DecodeBody(t, w, &notifications)
	types := make([]string, 0, len(notifications.Notifications))
	for _, n := range notifications.Notifications {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, string(models.NotificationTypeProfileRejected))
	assert.Contains(t, types, string(models.NotificationTypeProfileApproved))
}

func TestProfileBulkModeration(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "bulk-admin@profile.test")

	ids := make([]string, 0, 3)
	for _, email := range []string{"b1@profile.test", "b2@profile.test", "b3@profile.test"} {
		_, token := srv.CreateApprovedMember(t, email)
		w := srv.SendRequest(t, http.MethodPost, "/api/profiles", createProfileReq("Electrician"), token)
		helpers.RequireStatus(t, w, http.StatusCreated)
		var p dto.ProfileResponse
		helpers.DecodeBody(t, w, &p)
		ids = append(ids, p.ID)
	}
	// One unknown id in the middle must not abort the batch.
	ids = append(ids[:1], append([]string{uuid.NewString()}, ids[1:]...)...)

	w := srv.SendRequest(t, http.MethodPost, "/api/profiles/bulk-approve", dto.BulkRequest{IDs: ids}, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var body struct {
		Results []dto.BulkResult `json:"results"`
	}
	helpers.DecodeBody(t, w, &body)
	require.Len(t, body.Results, 4)
	assert.True(t, body.Results[0].Success)
	assert.False(t, body.Results[1].Success)
	assert.NotEmpty(t, body.Results[1].Error)
	assert.True(t, body.Results[2].Success)
	assert.True(t, body.Results[3].Success)
}

func TestProfileVerificationBadges(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "verify-admin@profile.test")
	_, memberToken := srv.CreateApprovedMember(t, "verify-member@profile.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/profiles", createProfileReq("Nurse"), memberToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var profile dto.ProfileResponse
	helpers.DecodeBody(t, w, &profile)

	yes := true
	w = srv.SendRequest(t, http.MethodPut, "/api/profiles/"+profile.ID+"/verification",
		dto.SetVerificationRequest{PastorVerified: &yes}, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &profile)
	assert.True(t, profile.PastorVerified)
	assert.False(t, profile.EmailVerified)

	// Verification endpoints are moderator-only.
	w = srv.SendRequest(t, http.MethodPut, "/api/profiles/"+profile.ID+"/verification",
		dto.SetVerificationRequest{EmailVerified: &yes}, memberToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)
}

func TestSearchQueryIsBoundNotInterpolated(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, searcherToken := srv.CreateApprovedMember(t, "quoter@profile.test")

	for _, q := range []string{`baker's`, `x'; drop table profiles --`, `a\b"c`} {
		w := srv.SendRequest(t, http.MethodGet, "/api/search/profiles?q="+url.QueryEscape(q), nil, searcherToken)
		helpers.RequireStatus(t, w, http.StatusOK)
		var results dto.ProfileListResponse
		helpers.DecodeBody(t, w, &results)
		assert.Empty(t, results.Profiles)
	}
}

func TestSearchFindsApprovedProfilesOnly(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "search-admin@profile.test")
	_, approvedToken := srv.CreateApprovedMember(t, "search-approved@profile.test")
	_, pendingToken := srv.CreateApprovedMember(t, "search-pending@profile.test")
	_, searcherToken := srv.CreateApprovedMember(t, "searcher@profile.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/profiles", createProfileReq("Baker"), approvedToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var approved dto.ProfileResponse
	helpers.DecodeBody(t, w, &approved)
	w = srv.SendRequest(t, http.MethodPost, "/api/profiles/"+approved.ID+"/approve", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodPost, "/api/profiles", createProfileReq("Baker"), pendingToken)
	helpers.RequireStatus(t, w, http.StatusCreated)

	w = srv.SendRequest(t, http.MethodGet, "/api/search/profiles?q=baker", nil, searcherToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var results dto.ProfileListResponse
	helpers.DecodeBody(t, w, &results)
	require.Len(t, results.Profiles, 1)
	assert.Equal(t, approved.ID, results.Profiles[0].ID)

	// Search queries land in the caller's history.
	w = srv.SendRequest(t, http.MethodGet, "/api/search/history", nil, searcherToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var history dto.SearchHistoryResponse
	helpers.DecodeBody(t, w, &history)
	require.NotEmpty(t, history.Entries)
	assert.Equal(t, "baker", history.Entries[0].Query)

	w = srv.SendRequest(t, http.MethodDelete, "/api/search/history", nil, searcherToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	w = srv.SendRequest(t, http.MethodGet, "/api/search/history", nil, searcherToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &history)
	assert.Empty(t, history.Entries)
}
