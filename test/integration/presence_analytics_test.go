package integration

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"parishlink/internal/services/dto"
	"parishlink/test/helpers"
)

func TestHeartbeatAndPresence(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	alice, aliceToken := srv.CreateApprovedMember(t, "alice@presence.test")
	_, bobToken := srv.CreateApprovedMember(t, "bob@presence.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/users/heartbeat", dto.HeartbeatRequest{IsOnline: true}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/users/"+alice.ID+"/presence", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var presence dto.PresenceResponse
	helpers.DecodeBody(t, w, &presence)
	assert.True(t, presence.IsOnline)
	assert.NotNil(t, presence.LastSeen)

	// Going offline is an explicit heartbeat, not a timeout.
	w = srv.SendRequest(t, http.MethodPost, "/api/users/heartbeat", dto.HeartbeatRequest{IsOnline: false}, aliceToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/users/"+alice.ID+"/presence", nil, bobToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &presence)
	assert.False(t, presence.IsOnline)
}

func TestAnalyticsAccess(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "admin@analytics.test")
	_, memberToken := srv.CreateApprovedMember(t, "member@analytics.test")

	w := srv.SendRequest(t, http.MethodGet, "/api/analytics/dashboard", nil, memberToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	w = srv.SendRequest(t, http.MethodGet, "/api/analytics/dashboard", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var dashboard dto.DashboardResponse
	helpers.DecodeBody(t, w, &dashboard)
	assert.GreaterOrEqual(t, dashboard.TotalUsers, int64(2))
	assert.NotEmpty(t, dashboard.UsersByRole)

	w = srv.SendRequest(t, http.MethodGet, "/api/analytics/registrations?days=7", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var stats dto.RegistrationStatsResponse
	helpers.DecodeBody(t, w, &stats)
	assert.GreaterOrEqual(t, stats.Total, int64(2))
}
