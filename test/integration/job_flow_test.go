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

func TestJobOpportunityLifecycle(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "admin@jobs.test")
	poster, posterToken := srv.CreateApprovedMember(t, "poster@jobs.test")
	_, browserToken := srv.CreateApprovedMember(t, "browser@jobs.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/jobs", dto.CreateJobOpportunityRequest{
		Title:       "Church organist needed",
		Description: "Sunday services plus one rehearsal a week.",
		Location:    "Springfield",
	}, posterToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var job dto.JobOpportunityResponse
	helpers.DecodeBody(t, w, &job)
	assert.Equal(t, string(models.ApprovalStatusPending), job.Status)
	assert.Equal(t, poster.ID, job.PostedByUserID)

	// The admins who moderate the board are alerted about the new
	// submission; discovery must not rely on polling the pending queue.
	w = srv.SendRequest(t, http.MethodGet, "/api/notifications?unread_only=true", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var adminNotifications dto.NotificationListResponse
	helpers.DecodeBody(t, w, &adminNotifications)
	adminTypes := make([]string, 0, len(adminNotifications.Notifications))
	for _, n := range adminNotifications.Notifications {
		adminTypes = append(adminTypes, n.Type)
	}
	assert.Contains(t, adminTypes, string(models.NotificationTypePendingApproval))

	// Listings only show approved postings to members, regardless of any
	// status filter they ask for.
	w = srv.SendRequest(t, http.MethodGet, "/api/jobs?status=pending", nil, browserToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var listing dto.JobOpportunityListResponse
	helpers.DecodeBody(t, w, &listing)
	assert.Empty(t, listing.Jobs)

	// The poster can still open their own pending posting.
	w = srv.SendRequest(t, http.MethodGet, "/api/jobs/"+job.ID, nil, posterToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	w = srv.SendRequest(t, http.MethodGet, "/api/jobs/"+job.ID, nil, browserToken)
	helpers.RequireStatus(t, w, http.StatusNotFound)

	w = srv.SendRequest(t, http.MethodPost, "/api/jobs/"+job.ID+"/approve", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/jobs", nil, browserToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &listing)
	require.Len(t, listing.Jobs, 1)
	assert.Equal(t, job.ID, listing.Jobs[0].ID)
	assert.NotEmpty(t, listing.Jobs[0].PostedByName)

	// Editing an approved posting puts it back in the moderation queue.
	title := "Church organist needed (part time)"
	w = srv.SendRequest(t, http.MethodPut, "/api/jobs/"+job.ID, dto.UpdateJobOpportunityRequest{Title: &title}, posterToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &job)
	assert.Equal(t, string(models.ApprovalStatusPending), job.Status)

	// Only the poster or an admin may edit or delete.
	w = srv.SendRequest(t, http.MethodPut, "/api/jobs/"+job.ID, dto.UpdateJobOpportunityRequest{Title: &title}, browserToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)
	w = srv.SendRequest(t, http.MethodDelete, "/api/jobs/"+job.ID, nil, browserToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	w = srv.SendRequest(t, http.MethodDelete, "/api/jobs/"+job.ID, nil, posterToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	w = srv.SendRequest(t, http.MethodGet, "/api/jobs/"+job.ID, nil, posterToken)
	helpers.RequireStatus(t, w, http.StatusNotFound)
}

func TestJobModerationIsAdminOnly(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, pastorToken := srv.CreateUser(t, "pastor@jobs.test", models.UserRolePastor, models.ApprovalStatusApproved)
	_, posterToken := srv.CreateApprovedMember(t, "poster2@jobs.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/jobs", dto.CreateJobOpportunityRequest{
		Title:       "Youth camp cook",
		Description: "Two weeks in July.",
	}, posterToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var job dto.JobOpportunityResponse
	helpers.DecodeBody(t, w, &job)

	// Pastors moderate people and profiles, not the job board.
	w = srv.SendRequest(t, http.MethodPost, "/api/jobs/"+job.ID+"/approve", nil, pastorToken)
	helpers.RequireStatus(t, w, http.StatusForbidden)

	// Submission alerts follow the same policy: admins only.
	w = srv.SendRequest(t, http.MethodGet, "/api/notifications", nil, pastorToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var pastorNotifications dto.NotificationListResponse
	helpers.DecodeBody(t, w, &pastorNotifications)
	for _, n := range pastorNotifications.Notifications {
		assert.NotEqual(t, string(models.NotificationTypePendingApproval), n.Type)
	}
}

func TestJobSeekerRequestFlow(t *testing.T) {
	srv := helpers.NewTestServer(t, testDB)
	_, adminToken := srv.CreateAdmin(t, "admin@seekers.test")
	_, seekerToken := srv.CreateApprovedMember(t, "seeker@seekers.test")
	_, browserToken := srv.CreateApprovedMember(t, "browser@seekers.test")

	w := srv.SendRequest(t, http.MethodPost, "/api/job-seekers", dto.CreateJobSeekerRequestRequest{
		Title:       "Experienced bookkeeper available",
		Description: "Fifteen years with small nonprofits.",
		DesiredRole: "Bookkeeper",
	}, seekerToken)
	helpers.RequireStatus(t, w, http.StatusCreated)
	var req dto.JobSeekerRequestResponse
	helpers.DecodeBody(t, w, &req)
	assert.Equal(t, string(models.ApprovalStatusPending), req.Status)

	w = srv.SendRequest(t, http.MethodPost, "/api/job-seekers/"+req.ID+"/reject",
		dto.RejectRequest{Reason: "Contact details missing"}, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &req)
	assert.Equal(t, string(models.ApprovalStatusRejected), req.Status)
	assert.Equal(t, "Contact details missing", req.RejectionReason)

	// Rejected posts never surface in the public listing.
	w = srv.SendRequest(t, http.MethodGet, "/api/job-seekers", nil, browserToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	var listing dto.JobSeekerRequestListResponse
	helpers.DecodeBody(t, w, &listing)
	assert.Empty(t, listing.Requests)

	// An edit resubmits, clearing the rejection.
	desc := "Fifteen years with small nonprofits. Reachable at the parish office."
	w = srv.SendRequest(t, http.MethodPut, "/api/job-seekers/"+req.ID,
		dto.UpdateJobSeekerRequestRequest{Description: &desc}, seekerToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &req)
	assert.Equal(t, string(models.ApprovalStatusPending), req.Status)
	assert.Empty(t, req.RejectionReason)

	w = srv.SendRequest(t, http.MethodPost, "/api/job-seekers/"+req.ID+"/approve", nil, adminToken)
	helpers.RequireStatus(t, w, http.StatusOK)

	w = srv.SendRequest(t, http.MethodGet, "/api/job-seekers", nil, browserToken)
	helpers.RequireStatus(t, w, http.StatusOK)
	helpers.DecodeBody(t, w, &listing)
	require.Len(t, listing.Requests, 1)
}
