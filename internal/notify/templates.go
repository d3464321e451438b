package notify

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/support-desk/internal/models"
	"github.com/flosch/pongo2/v6"
)

const (
	subjectReportCreated = "Notification: New User Report Submitted"
	subjectReminder      = "Reminder: Pending Report"
)

var reportCreatedText = pongo2.Must(pongo2.FromString(`{% autoescape off %}Hello,

A user has filed a report about an assistant conversation.

Report ID: {{ id }}
Reported By: {{ reported_by }}
Reason: {{ reason }}
Description: {{ description }}
Chat ID: {{ chat_id }}
Status: {{ status }}

This message was generated automatically; replies are not monitored.{% endautoescape %}`))

var reportCreatedHTML = pongo2.Must(pongo2.FromString(`<div style="font-family:sans-serif;max-width:600px;margin:auto;padding:24px">
<h2>New user report</h2>
<p>A user has filed a report about an assistant conversation.</p>
<ul>
<li><b>Report ID:</b> {{ id }}</li>
<li><b>Reported By:</b> {{ reported_by }}</li>
<li><b>Reason:</b> {{ reason }}</li>
<li><b>Description:</b> {{ description }}</li>
<li><b>Chat ID:</b> {{ chat_id }}</li>
<li><b>Status:</b> {{ status }}</li>
</ul>
<p style="color:#888">This message was generated automatically; replies are not monitored.</p>
</div>`))

var reminderText = pongo2.Must(pongo2.FromString(`{% autoescape off %}A report is still pending.

Report ID: {{ id }}
Reported By: {{ reported_by }}
Reason: {{ reason }}
Status: {{ status }}
Created At: {{ created_at }}{% endautoescape %}`))

var reminderHTML = pongo2.Must(pongo2.FromString(`<p>Reminder: a report is still pending.</p>
<ul>
<li><b>Report ID:</b> {{ id }}</li>
<li><b>Reported By:</b> {{ reported_by }}</li>
<li><b>Reason:</b> {{ reason }}</li>
<li><b>Status:</b> {{ status }}</li>
<li><b>Created At:</b> {{ created_at }}</li>
</ul>`))

func reportContext(r *models.Report) pongo2.Context {
	return pongo2.Context{
		"id":          r.ID.String(),
		"chat_id":     r.ChatID.String(),
		"reported_by": r.ReportedBy,
		"reason":      r.Reason,
		"description": r.Description,
		"status":      string(r.Status),
		"created_at":  r.CreatedAt.UTC().Format(time.RFC1123),
	}
}

// ReportCreatedMessage renders the notice sent when a report is filed.
func ReportCreatedMessage(to string, r *models.Report) (Message, error) {
	return render(to, subjectReportCreated, reportCreatedText, reportCreatedHTML, reportContext(r))
}

// ReminderMessage renders the notice sent for a report left pending.
func ReminderMessage(to string, r *models.Report) (Message, error) {
	return render(to, subjectReminder, reminderText, reminderHTML, reportContext(r))
}

func render(to, subject string, text, html *pongo2.Template, ctx pongo2.Context) (Message, error) {
	textBody, err := text.Execute(ctx)
	if err != nil {
		return Message{}, err
	}
	htmlBody, err := html.Execute(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{To: to, Subject: subject, Text: textBody, HTML: htmlBody}, nil
}
