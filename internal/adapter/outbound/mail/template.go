// Package mail renders and delivers the layer's notification messages.
package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/google/uuid"

	"github.com/paranoialabs/paranoia/internal/port/outbound"
)

// KeyExpired is the template key for the stale-account reset notification.
const KeyExpired = "paranoia_expired"

// ExpiredParams parameterizes the stale-account reset notification.
type ExpiredParams struct {
	// Name is the account's login name.
	Name string
	// ThresholdDays is the configured inactivity threshold.
	ThresholdDays int
	// SiteName labels the sending site in the message.
	SiteName string
}

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
}

var templates = map[string]messageTemplate{
	KeyExpired: {
		subject: template.Must(template.New("subject").Parse(
			`{{.SiteName}}: your password has been reset`)),
		body: template.Must(template.New("body").Parse(
			`Hello {{.Name}},

Your account on {{.SiteName}} has not been used in more than {{.ThresholdDays}} days.
As a security precaution your password has been reset and your account locked.

To regain access, use the password recovery form to choose a new password.
`)),
	},
}

// RenderExpired renders the stale-account reset notification for delivery.
func RenderExpired(to string, params ExpiredParams) (outbound.Message, error) {
	return render(KeyExpired, to, params)
}

func render(key, to string, params any) (outbound.Message, error) {
	tpl, ok := templates[key]
	if !ok {
		return outbound.Message{}, fmt.Errorf("unknown mail template: %s", key)
	}

	var subject, body bytes.Buffer
	if err := tpl.subject.Execute(&subject, params); err != nil {
		return outbound.Message{}, fmt.Errorf("failed to render subject for %s: %w", key, err)
	}
	if err := tpl.body.Execute(&body, params); err != nil {
		return outbound.Message{}, fmt.Errorf("failed to render body for %s: %w", key, err)
	}

	return outbound.Message{
		ID:          uuid.NewString(),
		TemplateKey: key,
		To:          to,
		Subject:     subject.String(),
		Body:        body.String(),
	}, nil
}
