package domain

import "time"

// SubscriberStatus enumerates the states a subscriber can be in.
type SubscriberStatus string

const (
	// SubscriberPending is the initial state: the sign-up form was accepted
	// but the confirmation link has not been visited yet.
	SubscriberPending SubscriberStatus = "pending_confirmation"
	// SubscriberConfirmed means the confirmation link was visited. This is
	// a terminal state; there is no transition out of it.
	SubscriberConfirmed SubscriberStatus = "confirmed"
)

// Subscription is the persisted record for a single sign-up attempt.
type Subscription struct {
	ID           string           `json:"id" db:"id"`
	Email        string           `json:"email" db:"email"`
	Name         string           `json:"name" db:"name"`
	SubscribedAt time.Time        `json:"subscribed_at" db:"subscribed_at"`
	Status       SubscriberStatus `json:"status" db:"status"`
}

// SubscriptionToken binds a confirmation token to a subscriber. A subscriber
// may hold several tokens (one per sign-up attempt); every outstanding token
// stays valid until used.
type SubscriptionToken struct {
	Token        string `json:"subscription_token" db:"subscription_token"`
	SubscriberID string `json:"subscriber_id" db:"subscriber_id"`
}

// NewSubscriber is a validated sign-up submission. It can only be built from
// ParseSubscriberName/ParseSubscriberEmail, so any NewSubscriber reaching the
// service or repository layers is known to be well-formed.
type NewSubscriber struct {
	Name  SubscriberName
	Email SubscriberEmail
}
