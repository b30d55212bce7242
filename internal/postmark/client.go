// Package postmark is a minimal client for Postmark's transactional
// email API, covering only the single-send endpoint this service needs.
package postmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
)

// Client is a Postmark API client. It performs no retries: the subscribe
// workflow needs a definitive outcome per request, and the provider call is
// already bounded by the configured timeout.
type Client struct {
	baseURL     string
	serverToken string
	sender      string
	httpClient  *http.Client
}

// NewClient creates a new Postmark API client
func NewClient(cfg config.EmailConfig) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		serverToken: cfg.ServerToken,
		sender:      cfg.Sender,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// sendEmailRequest is Postmark's single-send payload.
type sendEmailRequest struct {
	From     string `json:"From"`
	To       string `json:"To"`
	Subject  string `json:"Subject"`
	HTMLBody string `json:"HtmlBody"`
	TextBody string `json:"TextBody"`
}

// Send delivers one email through Postmark. A non-2xx response is returned
// as an error carrying the status and response body.
func (c *Client) Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	payload, err := json.Marshal(sendEmailRequest{
		From:     c.sender,
		To:       to.String(),
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/email", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("X-Postmark-Server-Token", c.serverToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}
