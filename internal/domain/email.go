package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

// SubscriberEmail is a validated email address. The zero value is invalid;
// the only constructor is ParseSubscriberEmail.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail validates raw form input as an email address.
// It requires a bare address (no display name) whose domain contains at
// least one dot-separated label, which rules out addresses like "user@host"
// that net/mail alone would accept.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid email address", raw)
	}
	if addr.Name != "" || addr.Address != raw {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid email address", raw)
	}
	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || !strings.Contains(addr.Address[at+1:], ".") {
		return SubscriberEmail{}, fmt.Errorf("%q is not a valid email address", raw)
	}
	return SubscriberEmail{value: addr.Address}, nil
}

// String returns the validated address.
func (e SubscriberEmail) String() string { return e.value }
