package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends reminder digests via Amazon SES
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
}

// NewEmailService creates a new email service. With no from address
// configured it comes up disabled and skips every send.
func NewEmailService(awsRegion, fromEmail, fromName string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendReviewDigest tells a learner how many items are waiting for them
func (s *EmailService) SendReviewDigest(ctx context.Context, toEmail, toName string, dueCount int) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): digest to %s", toEmail)
		return nil
	}

	greeting := toName
	if greeting == "" {
		greeting = "there"
	}

	noun := "items"
	if dueCount == 1 {
		noun = "item"
	}

	subject := fmt.Sprintf("You have %d %s ready for review", dueCount, noun)
	textBody := fmt.Sprintf(`Hi %s,

%d %s in your review queue %s ready. A few minutes now keeps them fresh.

This is an automated reminder from lingoloop. You can turn these off in
your account settings.
`, greeting, dueCount, noun, pluralVerb(dueCount))

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
	<p>Hi %s,</p>
	<p><strong>%d %s</strong> in your review queue %s ready.
	A few minutes now keeps them fresh.</p>
	<p style="font-size: 12px; color: #666;">This is an automated reminder
	from lingoloop. You can turn these off in your account settings.</p>
</body>
</html>
`, greeting, dueCount, noun, pluralVerb(dueCount))

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send digest email: %w", err)
	}

	return nil
}

func pluralVerb(n int) string {
	if n == 1 {
		return "is"
	}
	return "are"
}
