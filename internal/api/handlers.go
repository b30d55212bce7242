package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/service/subscription"
)

// Handlers holds the dependencies shared by all endpoint handlers. It is
// constructed once at startup and passed to the router; there is no other
// shared mutable state across requests.
type Handlers struct {
	subs *subscription.Service
}

// NewHandlers creates the handler set backed by the given service.
func NewHandlers(svc *subscription.Service) *Handlers {
	return &Handlers{subs: svc}
}

// HealthCheck reports liveness.
//
//	GET /health_check
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Subscribe accepts a form-encoded sign-up submission.
//
//	POST /subscriptions
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httputil.BadRequest(w, "malformed form data")
		return
	}

	_, err := h.subs.Subscribe(r.Context(), subscription.RawForm{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
	})
	if err != nil {
		writeSubscriptionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Confirm flips a pending subscriber to confirmed via its token.
//
//	GET /subscriptions/confirm?subscription_token=...
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("subscription_token")
	if token == "" {
		httputil.BadRequest(w, "subscription_token is required")
		return
	}

	if err := h.subs.Confirm(r.Context(), token); err != nil {
		writeSubscriptionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Newsletter is the publish request payload.
type Newsletter struct {
	Title   string `json:"title"`
	Content struct {
		HTML string `json:"html"`
		Text string `json:"text"`
	} `json:"content"`
}

// PublishNewsletter accepts a newsletter issue for delivery to confirmed
// subscribers. Delivery fan-out is not implemented yet; the payload is
// validated and acknowledged.
//
//	POST /newsletters
func (h *Handlers) PublishNewsletter(w http.ResponseWriter, r *http.Request) {
	var newsletter Newsletter
	if !httputil.Decode(w, r, &newsletter) {
		return
	}

	log.Printf("[api] accepted newsletter %q (delivery not implemented)", newsletter.Title)
	w.WriteHeader(http.StatusOK)
}

// writeSubscriptionError maps service-layer errors to HTTP statuses in one
// place, keeping the workflow layer free of transport concerns. Validation
// reasons go back to the caller; anything else is logged with full detail
// and answered with a generic 500.
func writeSubscriptionError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *subscription.ValidationError
	switch {
	case errors.As(err, &vErr):
		httputil.Error(w, http.StatusUnprocessableEntity, vErr.Reason)
	case errors.Is(err, subscription.ErrTokenNotFound):
		httputil.Error(w, http.StatusUnauthorized, "unknown subscription token")
	default:
		log.Printf("[api] %s %s failed: %v", r.Method, r.URL.Path, err)
		httputil.Error(w, http.StatusInternalServerError, "internal server error")
	}
}
