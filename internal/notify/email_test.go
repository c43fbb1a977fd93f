package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "turnos@example.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSender_FromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "turnos@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, DefaultFromName, sender.fromName)

	sender = NewSendGridSender(SendGridConfig{APIKey: "key", FromEmail: "turnos@example.com", FromName: "Guardia"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Guardia", sender.fromName)
}

func TestSendGridSender_NotConfigured(t *testing.T) {
	var sender *SendGridSender
	err := sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "x"})
	assert.Error(t, err)
}

func TestLogSender_ValidatesMessage(t *testing.T) {
	sender := NewLogSender(nil)
	assert.NoError(t, sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "Turno"}))
	assert.Error(t, sender.Send(context.Background(), EmailMessage{Subject: "Turno"}))
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "a@example.com"}))
}

func TestRecordingSender(t *testing.T) {
	sender := &RecordingSender{}
	require.NoError(t, sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "Turno"}))
	assert.Len(t, sender.Sent(), 1)

	sender.Err = errors.New("boom")
	assert.Error(t, sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "Turno"}))
	assert.Len(t, sender.Sent(), 1)
}

type stubSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (s *stubSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	s.input = params
	if s.err != nil {
		return nil, s.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_BuildsInput(t *testing.T) {
	api := &stubSES{}
	sender := newSESSender(api, SESConfig{FromEmail: "turnos@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "recepcion@example.com",
		Subject: "Nueva solicitud",
		Body:    "texto",
		HTML:    "<p>texto</p>",
	})
	require.NoError(t, err)
	require.NotNil(t, api.input)
	assert.Equal(t, "Sanatorio San Juan <turnos@example.com>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"recepcion@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "texto", aws.ToString(api.input.Content.Simple.Body.Text.Data))
	assert.Equal(t, "<p>texto</p>", aws.ToString(api.input.Content.Simple.Body.Html.Data))
}

func TestSESSender_WrapsError(t *testing.T) {
	cause := errors.New("throttled")
	sender := newSESSender(&stubSES{err: cause}, SESConfig{FromEmail: "turnos@example.com"}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "a@example.com", Subject: "x", Body: "y"})
	assert.ErrorIs(t, err, cause)
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{}, nil))
}
