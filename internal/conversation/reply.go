package conversation

import "github.com/webplotcentersj-hash/clinicasj/internal/booking"

// ReplySource records which branch produced a reply.
type ReplySource string

const (
	SourceModel    ReplySource = "model"
	SourceFallback ReplySource = "fallback"
)

// BookingStatus is the outcome of a structured booking command.
type BookingStatus string

const (
	BookingConfirmed        BookingStatus = "confirmed"
	BookingRejected         BookingStatus = "rejected"
	BookingSubmissionFailed BookingStatus = "submission_failed"
)

// BookingOutcome is attached to a reply whose model text carried a booking command.
type BookingOutcome struct {
	Status  BookingStatus    `json:"status"`
	Request *booking.Request `json:"request,omitempty"`
	Issues  booking.Issues   `json:"issues,omitempty"`
}

// Reply is the assistant turn rendered to the patient.
type Reply struct {
	Text    string          `json:"message"`
	Source  ReplySource     `json:"source"`
	Booking *BookingOutcome `json:"booking,omitempty"`
}
