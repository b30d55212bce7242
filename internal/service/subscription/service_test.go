package subscription_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// memRepo is an in-memory subscription repository for unit testing.
type memRepo struct {
	mu          sync.Mutex
	subscribers map[string]*domain.Subscription // keyed by id
	tokens      map[string]string               // token -> subscriber id
	failCreate  error
}

func newMemRepo() *memRepo {
	return &memRepo{
		subscribers: make(map[string]*domain.Subscription),
		tokens:      make(map[string]string),
	}
}

func (m *memRepo) CreateSubscriber(_ context.Context, sub domain.NewSubscriber, token string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreate != nil {
		return "", m.failCreate
	}
	id := uuid.New().String()
	m.subscribers[id] = &domain.Subscription{
		ID:     id,
		Email:  sub.Email.String(),
		Name:   sub.Name.String(),
		Status: domain.SubscriberPending,
	}
	m.tokens[token] = id
	return id, nil
}

func (m *memRepo) ConfirmByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.tokens[token]
	if !ok {
		return subscription.ErrTokenNotFound
	}
	m.subscribers[id].Status = domain.SubscriberConfirmed
	return nil
}

// fakeSender records sent emails and can be told to fail.
type fakeSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail error
}

type sentEmail struct {
	to       string
	subject  string
	htmlBody string
	textBody string
}

func (f *fakeSender) Send(_ context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.sent = append(f.sent, sentEmail{to: to.String(), subject: subject, htmlBody: htmlBody, textBody: textBody})
	return nil
}

const baseURL = "https://newsletter.ignite.com"

func TestSubscribe(t *testing.T) {
	repo := newMemRepo()
	sender := &fakeSender{}
	svc := subscription.NewService(repo, sender, baseURL)

	id, err := svc.Subscribe(context.Background(), subscription.RawForm{
		Name: "le guin", Email: "ursula_le_guin@gmail.com",
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	sub, ok := repo.subscribers[id]
	if !ok {
		t.Fatalf("no subscription stored for id %s", id)
	}
	if sub.Email != "ursula_le_guin@gmail.com" || sub.Name != "le guin" {
		t.Fatalf("stored %q/%q, want form values", sub.Name, sub.Email)
	}
	if sub.Status != domain.SubscriberPending {
		t.Fatalf("expected pending_confirmation, got %s", sub.Status)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected exactly 1 email, got %d", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.to != "ursula_le_guin@gmail.com" || msg.subject != "Welcome" {
		t.Fatalf("unexpected email to=%q subject=%q", msg.to, msg.subject)
	}

	// Both bodies must carry the confirmation link for the stored token.
	if len(repo.tokens) != 1 {
		t.Fatalf("expected 1 stored token, got %d", len(repo.tokens))
	}
	var token string
	for tok := range repo.tokens {
		token = tok
	}
	link := fmt.Sprintf("%s/subscriptions/confirm?subscription_token=%s", baseURL, token)
	if !strings.Contains(msg.htmlBody, link) {
		t.Errorf("html body missing confirmation link %s", link)
	}
	if !strings.Contains(msg.textBody, link) {
		t.Errorf("text body missing confirmation link %s", link)
	}
}

func TestSubscribeValidation(t *testing.T) {
	cases := []struct {
		label string
		form  subscription.RawForm
	}{
		{"missing email", subscription.RawForm{Name: "le guin"}},
		{"missing name", subscription.RawForm{Email: "ursula_le_guin@gmail.com"}},
		{"malformed email", subscription.RawForm{Name: "Ursula", Email: "not-an-email"}},
		{"forbidden name char", subscription.RawForm{Name: "ursula{", Email: "ursula_le_guin@gmail.com"}},
	}
	for _, tc := range cases {
		repo := newMemRepo()
		sender := &fakeSender{}
		svc := subscription.NewService(repo, sender, baseURL)

		_, err := svc.Subscribe(context.Background(), tc.form)
		var vErr *subscription.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("%s: expected ValidationError, got %v", tc.label, err)
		}
		if len(repo.subscribers) != 0 {
			t.Errorf("%s: expected no stored subscribers, got %d", tc.label, len(repo.subscribers))
		}
		if len(sender.sent) != 0 {
			t.Errorf("%s: expected no email, got %d", tc.label, len(sender.sent))
		}
	}
}

func TestSubscribeStoreFailure(t *testing.T) {
	repo := newMemRepo()
	repo.failCreate = errors.New("connection refused")
	sender := &fakeSender{}
	svc := subscription.NewService(repo, sender, baseURL)

	_, err := svc.Subscribe(context.Background(), subscription.RawForm{
		Name: "le guin", Email: "ursula_le_guin@gmail.com",
	})
	if err == nil {
		t.Fatal("expected error on store failure")
	}
	var vErr *subscription.ValidationError
	if errors.As(err, &vErr) {
		t.Fatalf("store failure misclassified as validation error: %v", err)
	}
	// Strict ordering: no email may be attempted for uncommitted data.
	if len(sender.sent) != 0 {
		t.Fatalf("expected no email after store failure, got %d", len(sender.sent))
	}
}

// A failed confirmation email must not roll back the committed subscriber:
// durability before notification is the designed trade-off, and the pending
// row stays confirmable through its stored token.
func TestSubscribeEmailFailureKeepsSubscriber(t *testing.T) {
	repo := newMemRepo()
	sender := &fakeSender{fail: errors.New("provider returned 500")}
	svc := subscription.NewService(repo, sender, baseURL)

	_, err := svc.Subscribe(context.Background(), subscription.RawForm{
		Name: "le guin", Email: "ursula_le_guin@gmail.com",
	})
	if err == nil {
		t.Fatal("expected error on email failure")
	}

	if len(repo.subscribers) != 1 {
		t.Fatalf("expected subscriber to remain stored, got %d", len(repo.subscribers))
	}
	for _, sub := range repo.subscribers {
		if sub.Status != domain.SubscriberPending {
			t.Fatalf("expected pending_confirmation, got %s", sub.Status)
		}
	}
	if len(repo.tokens) != 1 {
		t.Fatalf("expected token to remain stored, got %d", len(repo.tokens))
	}
}

func TestConfirm(t *testing.T) {
	repo := newMemRepo()
	sender := &fakeSender{}
	svc := subscription.NewService(repo, sender, baseURL)

	id, err := svc.Subscribe(context.Background(), subscription.RawForm{
		Name: "le guin", Email: "ursula_le_guin@gmail.com",
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	var token string
	for tok := range repo.tokens {
		token = tok
	}

	if err := svc.Confirm(context.Background(), token); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if got := repo.subscribers[id].Status; got != domain.SubscriberConfirmed {
		t.Fatalf("expected confirmed, got %s", got)
	}

	// Idempotent: a second confirm with the same token is a no-op success.
	if err := svc.Confirm(context.Background(), token); err != nil {
		t.Fatalf("re-confirm: %v", err)
	}
	if got := repo.subscribers[id].Status; got != domain.SubscriberConfirmed {
		t.Fatalf("expected confirmed after re-confirm, got %s", got)
	}
}

func TestConfirmUnknownToken(t *testing.T) {
	repo := newMemRepo()
	svc := subscription.NewService(repo, &fakeSender{}, baseURL)

	err := svc.Confirm(context.Background(), "definitely-not-a-real-token")
	if !errors.Is(err, subscription.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

// Repeated sign-ups for the same address each mint an independent pending
// record and token; the design does not deduplicate by email.
func TestSubscribeTwiceSameEmail(t *testing.T) {
	repo := newMemRepo()
	sender := &fakeSender{}
	svc := subscription.NewService(repo, sender, baseURL)

	form := subscription.RawForm{Name: "le guin", Email: "ursula_le_guin@gmail.com"}
	id1, err := svc.Subscribe(context.Background(), form)
	if err != nil {
		t.Fatalf("first subscribe: %v", err)
	}
	id2, err := svc.Subscribe(context.Background(), form)
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}

	if id1 == id2 {
		t.Fatal("expected independent subscriber ids")
	}
	if len(repo.subscribers) != 2 || len(repo.tokens) != 2 {
		t.Fatalf("expected 2 subscribers and 2 tokens, got %d/%d", len(repo.subscribers), len(repo.tokens))
	}
}
