package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"github.com/guardians/awareness-portal/internal/pkg/logger"
)

// SESMailer sends simulation emails through AWS SES using the SDK v2.
type SESMailer struct {
	region string
	client *sesv2.Client
}

// NewSESMailer creates an SES mailer. Returns an error when credentials are
// missing or the SDK config cannot be built; callers treat a nil mailer as
// "transport not configured".
func NewSESMailer(accessKey, secretKey, region string) (*SESMailer, error) {
	if region == "" {
		region = "us-east-1"
	}
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("ses: missing credentials")
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("ses: load aws config: %w", err)
	}

	return &SESMailer{
		region: region,
		client: sesv2.NewFromConfig(cfg),
	}, nil
}

// Send delivers a single email through AWS SES.
func (s *SESMailer) Send(ctx context.Context, msg *Message) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fmt.Sprintf("%s <%s>", msg.FromName, msg.FromEmail)),
		Destination:      &types.Destination{ToAddresses: []string{msg.To}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(msg.HTMLContent), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if msg.SimulationName != "" {
		input.EmailTags = []types.MessageTag{
			{Name: aws.String("simulation"), Value: aws.String(msg.SimulationName)},
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses: send to %s: %w", logger.RedactEmail(msg.To), err)
	}

	messageID := ""
	if result.MessageId != nil {
		messageID = *result.MessageId
	}
	logger.Debug("ses send ok", "to", msg.To, "message_id", messageID)
	return nil
}
