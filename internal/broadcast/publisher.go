package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// SNSClient is the slice of the SNS API the publisher uses.
type SNSClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// caseUpdatedMessage is the integration event envelope published when a case changes.
type caseUpdatedMessage struct {
	Type       string    `json:"type"`
	AppealID   uuid.UUID `json:"appeal_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits case-updated integration events to an SNS topic.
// Fire-and-forget: failures are surfaced to the caller for logging only.
type Publisher struct {
	client   SNSClient
	topicARN string
}

// NewPublisher creates a publisher for the given topic.
func NewPublisher(client SNSClient, topicARN string) *Publisher {
	return &Publisher{client: client, topicARN: topicARN}
}

// PublishCaseUpdated publishes a case-updated event for the appeal.
func (p *Publisher) PublishCaseUpdated(ctx context.Context, appealID uuid.UUID) error {
	payload, err := json.Marshal(caseUpdatedMessage{
		Type:       "appeal.case-updated",
		AppealID:   appealID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal case-updated event: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(payload)),
	})
	if err != nil {
		return fmt.Errorf("publish case-updated event: %w", err)
	}
	return nil
}
