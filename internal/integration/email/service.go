// Package email queues, renders and delivers transactional emails.
package email

import (
	"context"

	"github.com/expense-tracker/backend/internal/application/adapter"
	"github.com/expense-tracker/backend/internal/domain/entity"
	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	welcomeSubject = "Welcome to Expense Tracker"
	loginPath      = "/login"
)

// Service handles email queueing operations.
type Service struct {
	queue      adapter.EmailQueueRepository
	appBaseURL string
}

// NewService creates a new email service.
func NewService(queue adapter.EmailQueueRepository, appBaseURL string) *Service {
	return &Service{
		queue:      queue,
		appBaseURL: appBaseURL,
	}
}

// QueueWelcomeEmail queues the greeting sent after registration.
func (s *Service) QueueWelcomeEmail(ctx context.Context, input adapter.QueueWelcomeEmailInput) error {
	name := input.UserName
	if name == "" {
		name = input.Username
	}

	job := entity.NewEmailJob(
		entity.TemplateWelcome,
		input.UserEmail,
		name,
		welcomeSubject,
		map[string]string{
			"user_id":   input.UserID,
			"user_name": name,
			"username":  input.Username,
			"login_url": s.appBaseURL + loginPath,
		},
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewEmailError(
			domainerror.ErrCodeEmailQueueFailed,
			"failed to queue welcome email",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.EmailService.
var _ adapter.EmailService = (*Service)(nil)
