package conversation

import (
	"context"

	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
	"github.com/webplotcentersj-hash/clinicasj/internal/observability/metrics"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// Submitter delivers a validated booking request.
type Submitter interface {
	Submit(ctx context.Context, r booking.Request) error
}

// CommandExtractor acts on the booking command embedded in a model reply.
type CommandExtractor struct {
	submitter Submitter
	clinic    booking.Clinic
	logger    *logging.Logger
	metrics   *metrics.ChatMetrics
}

func NewCommandExtractor(submitter Submitter, clinic booking.Clinic, logger *logging.Logger, m *metrics.ChatMetrics) *CommandExtractor {
	if submitter == nil {
		panic("conversation: booking submitter cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CommandExtractor{
		submitter: submitter,
		clinic:    clinic,
		logger:    logger,
		metrics:   m,
	}
}

// Process returns the reply to render for modelText. Text without a booking
// command, including a malformed one, is returned unchanged. A command is
// validated first and submitted at most once.
func (e *CommandExtractor) Process(ctx context.Context, modelText string) Reply {
	var cmd CreateBookingCommand
	switch c := ParseCommand(modelText).(type) {
	case CreateBookingCommand:
		cmd = c
	case NoCommand:
		if c.Malformed {
			e.metrics.ObserveCommand("malformed")
			e.logger.Warn("booking command could not be parsed; passing reply through")
		} else {
			e.metrics.ObserveCommand("none")
		}
		return Reply{Text: modelText, Source: SourceModel}
	}
	e.metrics.ObserveCommand(ActionCreateBooking)

	req, issues := booking.Validate(booking.NormalizeCandidate(cmd.Payload))
	if len(issues) > 0 {
		e.metrics.ObserveBooking(string(BookingRejected))
		e.logger.Info("booking command rejected", "fields", issues.Fields())
		return Reply{
			Text:    booking.MissingFieldsPrompt(issues),
			Source:  SourceModel,
			Booking: &BookingOutcome{Status: BookingRejected, Issues: issues},
		}
	}

	if err := e.submitter.Submit(ctx, req); err != nil {
		e.metrics.ObserveBooking(string(BookingSubmissionFailed))
		e.logger.Error("booking submission failed",
			"error", err,
			"specialty", req.Specialty,
		)
		return Reply{
			Text:    booking.ReceiptWithFallback(req, e.clinic),
			Source:  SourceModel,
			Booking: &BookingOutcome{Status: BookingSubmissionFailed, Request: &req},
		}
	}

	e.metrics.ObserveBooking(string(BookingConfirmed))
	return Reply{
		Text:    booking.Confirmation(req, e.clinic),
		Source:  SourceModel,
		Booking: &BookingOutcome{Status: BookingConfirmed, Request: &req},
	}
}
