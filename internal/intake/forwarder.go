package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"

	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
	"github.com/webplotcentersj-hash/clinicasj/internal/notify"
)

// Forwarder hands an accepted request to staff-facing systems.
type Forwarder interface {
	Name() string
	Forward(ctx context.Context, evt Event) error
}

// EventTypeBookingRequested is the type of every forwarded intake event.
const EventTypeBookingRequested = "booking.requested.v1"

// Event is the envelope forwarded for an accepted request.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	ReceivedAt time.Time       `json:"receivedAt"`
	Request    booking.Request `json:"request"`
}

// NewEvent wraps r in an event with a fresh ID.
func NewEvent(r booking.Request, receivedAt time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       EventTypeBookingRequested,
		ReceivedAt: receivedAt.UTC(),
		Request:    r,
	}
}

// EmailForwarder notifies the front desk by email.
type EmailForwarder struct {
	sender notify.EmailSender
	to     string
	clinic string
}

// NewEmailForwarder returns nil when there is no sender or no recipient.
func NewEmailForwarder(sender notify.EmailSender, to, clinicName string) *EmailForwarder {
	if sender == nil || strings.TrimSpace(to) == "" {
		return nil
	}
	return &EmailForwarder{sender: sender, to: strings.TrimSpace(to), clinic: clinicName}
}

func (f *EmailForwarder) Name() string { return "email" }

func (f *EmailForwarder) Forward(ctx context.Context, evt Event) error {
	r := evt.Request
	subject := fmt.Sprintf("Nueva solicitud de turno: %s (%s)", r.FullName(), r.Specialty)
	if f.clinic != "" {
		subject = fmt.Sprintf("[%s] %s", f.clinic, subject)
	}
	body := fmt.Sprintf("Solicitud %s recibida el %s\n\n%s",
		evt.ID, evt.ReceivedAt.Format("02/01/2006 15:04 MST"), booking.FormatSummary(r))

	if err := f.sender.Send(ctx, notify.EmailMessage{
		To:      f.to,
		Subject: subject,
		Body:    body,
		HTML:    booking.FormatSummaryHTML(r),
	}); err != nil {
		return fmt.Errorf("intake: email forward: %w", err)
	}
	return nil
}

type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// QueueForwarder publishes the event to an SQS queue for downstream scheduling tools.
type QueueForwarder struct {
	client   sqsAPI
	queueURL string
}

// NewQueueForwarder returns nil when client is nil or queueURL is empty.
func NewQueueForwarder(client *sqs.Client, queueURL string) *QueueForwarder {
	if client == nil {
		return nil
	}
	return newQueueForwarder(client, queueURL)
}

func newQueueForwarder(client sqsAPI, queueURL string) *QueueForwarder {
	if strings.TrimSpace(queueURL) == "" {
		return nil
	}
	return &QueueForwarder{client: client, queueURL: queueURL}
}

func (f *QueueForwarder) Name() string { return "queue" }

func (f *QueueForwarder) Forward(ctx context.Context, evt Event) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("intake: encode event: %w", err)
	}
	_, err = f.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(f.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"type": {DataType: aws.String("String"), StringValue: aws.String(evt.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("intake: failed to send SQS message: %w", err)
	}
	return nil
}

var (
	_ Forwarder = (*EmailForwarder)(nil)
	_ Forwarder = (*QueueForwarder)(nil)
)
