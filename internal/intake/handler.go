// Package intake serves the booking intake endpoint: it re-validates every
// request it receives, suppresses duplicates and forwards accepted requests
// to the front desk.
package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/webplotcentersj-hash/clinicasj/internal/booking"
	"github.com/webplotcentersj-hash/clinicasj/internal/observability/metrics"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

const maxIntakeBodyBytes = 64 << 10

// Handler serves POST /api/turnos.
type Handler struct {
	deduper    Deduper
	forwarders []Forwarder
	logger     *logging.Logger
	metrics    *metrics.IntakeMetrics
	now        func() time.Time
}

// NewHandler creates the intake handler. deduper may be nil; nil forwarders
// are skipped.
func NewHandler(deduper Deduper, forwarders []Forwarder, logger *logging.Logger, m *metrics.IntakeMetrics) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	active := make([]Forwarder, 0, len(forwarders))
	for _, f := range forwarders {
		if f == nil || isNilForwarder(f) {
			continue
		}
		active = append(active, f)
	}
	return &Handler{
		deduper:    deduper,
		forwarders: active,
		logger:     logger,
		metrics:    m,
		now:        time.Now,
	}
}

// isNilForwarder catches typed nils returned by the New*Forwarder constructors.
func isNilForwarder(f Forwarder) bool {
	switch v := f.(type) {
	case *EmailForwarder:
		return v == nil
	case *QueueForwarder:
		return v == nil
	}
	return false
}

type intakeResponse struct {
	OK     bool           `json:"ok"`
	Error  string         `json:"error,omitempty"`
	Issues booking.Issues `json:"issues,omitempty"`
}

// Submit handles POST /api/turnos.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var candidate any
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxIntakeBodyBytes)).Decode(&candidate); err != nil {
		h.logger.Warn("intake: undecodable body", "error", err)
		candidate = nil
	}

	req, issues := booking.Validate(candidate)
	if len(issues) > 0 {
		h.metrics.ObserveRequest("invalid")
		h.logger.Info("intake: request rejected", "fields", issues.Fields())
		h.writeJSON(w, http.StatusBadRequest, intakeResponse{Error: "Datos inválidos", Issues: issues})
		return
	}

	h.accept(r.Context(), req)
	h.writeJSON(w, http.StatusOK, intakeResponse{OK: true})
}

// accept runs duplicate suppression and forwarding for a valid request.
// Forwarding is best-effort: failures are logged and counted, never returned.
func (h *Handler) accept(ctx context.Context, req booking.Request) {
	if h.deduper != nil {
		first, err := h.deduper.FirstSeen(ctx, req)
		switch {
		case err != nil:
			h.logger.Warn("intake: duplicate check unavailable, forwarding anyway", "error", err)
		case !first:
			h.metrics.ObserveRequest("duplicate")
			h.logger.Info("intake: duplicate request acknowledged", "specialty", req.Specialty)
			return
		}
	}

	evt := NewEvent(req, h.now())
	for _, f := range h.forwarders {
		err := f.Forward(ctx, evt)
		h.metrics.ObserveForward(f.Name(), err == nil)
		if err != nil {
			h.logger.Error("intake: forward failed", "forwarder", f.Name(), "event_id", evt.ID, "error", err)
		}
	}

	h.metrics.ObserveRequest("accepted")
	h.logger.Info("intake: request accepted",
		"event_id", evt.ID,
		"specialty", req.Specialty,
		"time_of_day", string(req.TimeOfDay),
	)
}

// LocalSubmitter hands chat-derived bookings straight to a Handler without a
// network round trip. It satisfies the same contract as booking.Client.
type LocalSubmitter struct {
	handler *Handler
}

// NewLocalSubmitter returns a submitter bound to h.
func NewLocalSubmitter(h *Handler) *LocalSubmitter {
	if h == nil {
		panic("intake: handler cannot be nil")
	}
	return &LocalSubmitter{handler: h}
}

// Submit re-checks r and runs it through the intake pipeline.
func (s *LocalSubmitter) Submit(ctx context.Context, r booking.Request) error {
	if issues := r.Check(); len(issues) > 0 {
		s.handler.metrics.ObserveRequest("invalid")
		return fmt.Errorf("%w: %s", booking.ErrIncompleteRequest, issues.Error())
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrSubmissionFailed, err)
	}
	s.handler.accept(ctx, r)
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
