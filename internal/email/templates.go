package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// templateDef pairs a subject line with an HTML body. Both are
// html/template sources executed against the outbox row's data map.
type templateDef struct {
	subject string
	body    string
}

const layoutTop = `<div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:24px;">
<h2 style="color:#2c3e50;">ParishLink</h2>`

const layoutBottom = `<p style="color:#95a5a6;font-size:12px;margin-top:32px;">
You are receiving this email because you have an account on ParishLink.</p></div>`

var templates = map[string]templateDef{
	TemplateRegistrationReceived: {
		subject: "Welcome to ParishLink",
		body: `<p>Hello {{.name}},</p>
<p>Your registration has been received. A pastor or administrator from
{{.denomination}} will review your account shortly. You will get another
email once it has been approved.</p>`,
	},
	TemplateAccountApproved: {
		subject: "Your account has been approved",
		body: `<p>Hello {{.name}},</p>
<p>Your ParishLink account has been approved. You can now create your
professional profile and connect with other members.</p>
<p><a href="{{.login_url}}" style="background:#27ae60;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px;">Sign in</a></p>`,
	},
	TemplateAccountRejected: {
		subject: "Your account was not approved",
		body: `<p>Hello {{.name}},</p>
<p>Unfortunately your account was not approved.</p>
{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}
<p>If you believe this is a mistake, please contact your church office.</p>`,
	},
	TemplatePendingApproval: {
		subject: "New member awaiting approval",
		body: `<p>A new member has registered and is awaiting approval:</p>
<p><strong>{{.name}}</strong> ({{.email}})<br>
{{.denomination}}{{if .branch}}, {{.branch}}{{end}}</p>
<p><a href="{{.approve_url}}" style="background:#27ae60;color:#fff;padding:10px 20px;text-decoration:none;border-radius:4px;">Approve account</a></p>
<p>The link is valid for 7 days and can be used once. To reject or review
in detail, use the admin dashboard.</p>`,
	},
	TemplateProfileApproved: {
		subject: "Your profile is now live",
		body: `<p>Hello {{.name}},</p>
<p>Your professional profile has been approved and is now visible in the
directory.</p>`,
	},
	TemplateProfileRejected: {
		subject: "Your profile needs changes",
		body: `<p>Hello {{.name}},</p>
<p>Your professional profile was not approved.</p>
{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}
<p>You can edit your profile and it will be reviewed again.</p>`,
	},
	TemplateJobSubmitted: {
		subject: "Your posting is under review",
		body: `<p>Hello {{.name}},</p>
<p>Your posting "{{.title}}" has been received and will appear on the
board once approved.</p>`,
	},
	TemplateJobPendingReview: {
		subject: "A posting awaits review",
		body: `<p>Hello {{.name}},</p>
<p>{{.poster}} submitted "{{.title}}" to the jobs board. It will not be
visible until it is approved.</p>`,
	},
	TemplateJobApproved: {
		subject: "Your posting has been approved",
		body: `<p>Hello {{.name}},</p>
<p>Your posting "{{.title}}" has been approved and is now visible on the
jobs board.</p>`,
	},
	TemplateJobRejected: {
		subject: "Your posting was not approved",
		body: `<p>Hello {{.name}},</p>
<p>Your posting "{{.title}}" was not approved.</p>
{{if .reason}}<p>Reason: {{.reason}}</p>{{end}}`,
	},
	TemplateNewMessage: {
		subject: "New message on ParishLink",
		body: `<p>Hello {{.name}},</p>
<p>You have a new message from <strong>{{.from_name}}</strong>.</p>
<p><a href="{{.inbox_url}}">Open your inbox</a></p>`,
	},
}

// Render resolves an outbox template name and executes it with data.
func Render(name string, data map[string]interface{}) (Message, error) {
	def, ok := templates[name]
	if !ok {
		return Message{}, fmt.Errorf("unknown email template %q", name)
	}

	tmpl, err := template.New(name).Parse(layoutTop + def.body + layoutBottom)
	if err != nil {
		return Message{}, fmt.Errorf("parse template %q: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return Message{}, fmt.Errorf("execute template %q: %w", name, err)
	}

	return Message{Subject: def.subject, HTML: buf.String()}, nil
}

// KnownTemplate reports whether name resolves to a registered template.
func KnownTemplate(name string) bool {
	_, ok := templates[name]
	return ok
}
