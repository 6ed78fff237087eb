// Package outbound defines the outbound port interfaces implemented by
// adapters.
package outbound

import "context"

// Message is a rendered notification ready for delivery.
type Message struct {
	// ID is a unique message identifier for log correlation.
	ID string
	// TemplateKey names the template the message was rendered from.
	TemplateKey string
	// To is the recipient address.
	To string
	// Subject is the rendered subject line.
	Subject string
	// Body is the rendered plain-text body.
	Body string
}

// Mailer delivers notification messages through the host's mail abstraction.
type Mailer interface {
	// Send delivers a message. Delivery is best-effort; callers log and
	// continue on failure.
	Send(ctx context.Context, msg Message) error
}
