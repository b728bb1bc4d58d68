package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderAccountApproved(t *testing.T) {
	msg, err := Render(TemplateAccountApproved, map[string]interface{}{
		"name":      "Maria",
		"login_url": "https://app.example.org/login",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your account has been approved", msg.Subject)
	assert.Contains(t, msg.HTML, "Maria")
	assert.Contains(t, msg.HTML, "https://app.example.org/login")
}

func TestRenderPendingApprovalIncludesOneClickLink(t *testing.T) {
	msg, err := Render(TemplatePendingApproval, map[string]interface{}{
		"name":        "John Smith",
		"email":       "john@example.org",
		"denomination": "Baptist",
		"branch":      "Downtown",
		"approve_url": "https://app.example.org/api/approve-account/tok123",
	})
	require.NoError(t, err)
	assert.Contains(t, msg.HTML, "approve-account/tok123")
	assert.Contains(t, msg.HTML, "Baptist")
	assert.Contains(t, msg.HTML, "Downtown")
}

func TestRenderJobPendingReview(t *testing.T) {
	msg, err := Render(TemplateJobPendingReview, map[string]interface{}{
		"name":   "Admin",
		"poster": "Maria",
		"title":  "Church organist needed",
	})
	require.NoError(t, err)
	assert.Equal(t, "A posting awaits review", msg.Subject)
	assert.Contains(t, msg.HTML, "Maria")
	assert.Contains(t, msg.HTML, "Church organist needed")
}

func TestRenderRejectionReasonOptional(t *testing.T) {
	withReason, err := Render(TemplateAccountRejected, map[string]interface{}{
		"name":   "Maria",
		"reason": "unknown congregation",
	})
	require.NoError(t, err)
	assert.Contains(t, withReason.HTML, "unknown congregation")

	without, err := Render(TemplateAccountRejected, map[string]interface{}{
		"name": "Maria",
	})
	require.NoError(t, err)
	assert.NotContains(t, without.HTML, "Reason:")
}

func TestRenderEscapesHTML(t *testing.T) {
	msg, err := Render(TemplateNewMessage, map[string]interface{}{
		"name":      "Maria",
		"from_name": "<script>alert(1)</script>",
		"inbox_url": "/messages",
	})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := Render("no_such_template", nil)
	assert.Error(t, err)
	assert.False(t, KnownTemplate("no_such_template"))
	assert.True(t, KnownTemplate(TemplateNewMessage))
}
