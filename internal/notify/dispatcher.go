package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Template names used by the casework orchestrator.
const (
	TemplateCaseStarted       = "case-started"
	TemplateStatusChanged     = "status-changed"
	TemplateTimetableUpdated  = "timetable-updated"
)

type emailTemplate struct {
	subject string
	body    string
}

// Body templates use text/template with the personalization map as data.
var emailTemplates = map[string]emailTemplate{
	TemplateCaseStarted: {
		subject: "Appeal {{.reference}} has started",
		body:    "The appeal {{.reference}} started on {{.start_date}}. The LPA questionnaire is due by {{.questionnaire_due}}.",
	},
	TemplateStatusChanged: {
		subject: "Appeal {{.reference}} status update",
		body:    "The appeal {{.reference}} has moved to the {{.status}} stage.",
	},
	TemplateTimetableUpdated: {
		subject: "Appeal {{.reference}} timetable updated",
		body:    "The timetable for appeal {{.reference}} has been updated.",
	},
}

// SESClient is the slice of the SES v2 API the dispatcher uses.
type SESClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Dispatcher sends templated notification emails via SES. Failures are
// logged by callers, not retried here.
type Dispatcher struct {
	client      SESClient
	fromAddress string
}

// NewDispatcher creates a dispatcher sending from the given address.
func NewDispatcher(client SESClient, fromAddress string) *Dispatcher {
	return &Dispatcher{client: client, fromAddress: fromAddress}
}

// Send renders the named template with the personalization values and emails
// it to the recipient.
func (d *Dispatcher) Send(ctx context.Context, templateName, recipient string, personalization map[string]string) error {
	tmpl, ok := emailTemplates[templateName]
	if !ok {
		return fmt.Errorf("notify: unknown template %q", templateName)
	}
	if recipient == "" {
		return fmt.Errorf("notify: no recipient for template %q", templateName)
	}

	subject, err := renderTemplate(tmpl.subject, personalization)
	if err != nil {
		return fmt.Errorf("render subject for %q: %w", templateName, err)
	}
	body, err := renderTemplate(tmpl.body, personalization)
	if err != nil {
		return fmt.Errorf("render body for %q: %w", templateName, err)
	}

	_, err = d.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(d.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("send %q to %s: %w", templateName, recipient, err)
	}
	return nil
}

func renderTemplate(text string, data map[string]string) (string, error) {
	tmpl, err := template.New("email").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
