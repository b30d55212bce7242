package subscription

import (
	"context"
	"fmt"
	"log"

	"github.com/ignite/newsletter/internal/domain"
)

// Service implements the subscribe and confirm workflows. All public
// methods are safe for concurrent use if the underlying repository and
// sender are concurrency-safe.
type Service struct {
	repo    Repository
	sender  EmailSender
	baseURL string
}

// NewService creates a subscription service. baseURL is the externally
// reachable root of this application, used to build confirmation links.
func NewService(repo Repository, sender EmailSender, baseURL string) *Service {
	return &Service{repo: repo, sender: sender, baseURL: baseURL}
}

// RawForm holds the unvalidated sign-up form fields.
type RawForm struct {
	Name  string
	Email string
}

// Subscribe runs the full sign-up workflow: validate the form, persist the
// subscriber and a fresh confirmation token atomically, then send the
// confirmation email. Returns the new subscriber id.
//
// Persistence is committed before the email is attempted. An email failure
// therefore leaves the subscriber stored in pending_confirmation with a
// valid token outstanding; it is reported as an error but deliberately not
// rolled back.
func (s *Service) Subscribe(ctx context.Context, form RawForm) (string, error) {
	sub, err := parseForm(form)
	if err != nil {
		return "", err
	}

	token := GenerateToken()
	id, err := s.repo.CreateSubscriber(ctx, sub, token)
	if err != nil {
		return "", fmt.Errorf("store new subscriber: %w", err)
	}

	if err := s.sendConfirmationEmail(ctx, sub, token); err != nil {
		log.Printf("[subscription.Service] subscriber %s stored but confirmation email failed: %v", id, err)
		return id, fmt.Errorf("send confirmation email: %w", err)
	}

	return id, nil
}

// Confirm flips the subscriber bound to token to confirmed status.
// Returns ErrTokenNotFound for an unknown token. Calling it again with the
// same valid token succeeds with no further state change.
func (s *Service) Confirm(ctx context.Context, token string) error {
	return s.repo.ConfirmByToken(ctx, token)
}

func parseForm(form RawForm) (domain.NewSubscriber, error) {
	name, err := domain.ParseSubscriberName(form.Name)
	if err != nil {
		return domain.NewSubscriber{}, &ValidationError{Reason: err.Error()}
	}
	email, err := domain.ParseSubscriberEmail(form.Email)
	if err != nil {
		return domain.NewSubscriber{}, &ValidationError{Reason: err.Error()}
	}
	return domain.NewSubscriber{Name: name, Email: email}, nil
}

func (s *Service) sendConfirmationEmail(ctx context.Context, sub domain.NewSubscriber, token string) error {
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", s.baseURL, token)
	htmlBody := fmt.Sprintf(
		"Welcome to our newsletter!<br />Click <a href=\"%s\">here</a> to confirm your subscription.",
		link,
	)
	textBody := fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		link,
	)
	return s.sender.Send(ctx, sub.Email, "Welcome", htmlBody, textBody)
}
