package subscription

import (
	"context"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for subscriptions.
// Implementations must be safe for concurrent use.
type Repository interface {
	// CreateSubscriber inserts a subscription row in pending_confirmation
	// status together with its confirmation token, atomically: either both
	// rows are committed or neither is. Returns the new subscriber id.
	CreateSubscriber(ctx context.Context, sub domain.NewSubscriber, token string) (string, error)

	// ConfirmByToken looks up the subscriber bound to token and sets its
	// status to confirmed. Returns ErrTokenNotFound for an unknown token.
	// The update is unconditional, so re-confirming is a harmless no-op.
	ConfirmByToken(ctx context.Context, token string) error
}

// EmailSender is the outbound transactional-email collaborator.
type EmailSender interface {
	// Send delivers one email. A non-2xx provider response or a timeout
	// surfaces as an error; the call performs no retries.
	Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error
}
