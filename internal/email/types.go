package email

// Message is a rendered, ready-to-send email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Template names stored in outbox rows. The worker resolves them back
// to a renderer at delivery time, so adding a template never needs a
// migration.
const (
	TemplateRegistrationReceived = "registration_received"
	TemplateAccountApproved      = "account_approved"
	TemplateAccountRejected      = "account_rejected"
	TemplatePendingApproval      = "pending_approval"
	TemplateProfileApproved      = "profile_approved"
	TemplateProfileRejected      = "profile_rejected"
	TemplateJobSubmitted         = "job_submitted"
	TemplateJobPendingReview     = "job_pending_review"
	TemplateJobApproved          = "job_approved"
	TemplateJobRejected          = "job_rejected"
	TemplateNewMessage           = "new_message"
)
