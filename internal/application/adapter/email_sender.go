// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// SendEmailInput represents the input for sending an email.
type SendEmailInput struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// SendEmailResult represents the result of sending an email.
type SendEmailResult struct {
	ProviderID string
}

// EmailSender defines the interface for sending emails via an external provider.
type EmailSender interface {
	// Send delivers an email through the provider (e.g., Resend).
	Send(ctx context.Context, input SendEmailInput) (*SendEmailResult, error)
}

// EmailService defines the interface for queueing emails.
type EmailService interface {
	// QueueWelcomeEmail queues the email sent to a newly registered user.
	QueueWelcomeEmail(ctx context.Context, input QueueWelcomeEmailInput) error
}

// QueueWelcomeEmailInput represents the input for queueing a welcome email.
type QueueWelcomeEmailInput struct {
	UserID    string
	UserEmail string
	UserName  string
	Username  string
}
