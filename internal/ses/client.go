// Package ses sends transactional email through AWS SES v2. It is the
// alternative to the Postmark client, selected by email.provider config.
package ses

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
)

// Sender is an AWS SES v2 email sender.
type Sender struct {
	client *sesv2.Client
	sender string
}

// NewSender creates a new SES sender. The sender address must be verified
// in the target SES account.
func NewSender(ctx context.Context, cfg appconfig.SESConfig, sender string) (*Sender, error) {
	// Create AWS credentials
	creds := credentials.NewStaticCredentialsProvider(
		cfg.AccessKey,
		cfg.SecretKey,
		"", // session token (empty for static creds)
	)

	// Load AWS config with static credentials and a bounded HTTP timeout
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithHTTPClient(&http.Client{Timeout: cfg.Timeout()}),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &Sender{
		client: sesv2.NewFromConfig(awsCfg),
		sender: sender,
	}, nil
}

// Send delivers one email via the SES SendEmail API.
func (s *Sender) Send(ctx context.Context, to domain.SubscriberEmail, subject, htmlBody, textBody string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to.String()},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(htmlBody)},
					Text: &types.Content{Data: aws.String(textBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("sending email via SES: %w", err)
	}
	return nil
}
