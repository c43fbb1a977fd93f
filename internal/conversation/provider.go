package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/webplotcentersj-hash/clinicasj/internal/knowledge"
	"github.com/webplotcentersj-hash/clinicasj/internal/observability/metrics"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// StaticProvider answers from the keyword knowledge base. It never calls the
// model and never extracts bookings.
type StaticProvider struct {
	responder *knowledge.Responder
	metrics   *metrics.ChatMetrics
}

func NewStaticProvider(responder *knowledge.Responder, m *metrics.ChatMetrics) *StaticProvider {
	if responder == nil {
		responder = knowledge.NewDefaultResponder()
	}
	return &StaticProvider{responder: responder, metrics: m}
}

func (p *StaticProvider) Reply(_ context.Context, utterance string, _ []Turn) (Reply, error) {
	if strings.TrimSpace(utterance) == "" {
		return Reply{}, ErrInvalidInput
	}
	p.metrics.ObserveTurn(string(SourceFallback))
	return Reply{Text: p.responder.Respond(utterance), Source: SourceFallback}, nil
}

// FallbackProvider asks primary first and answers from static on any failure
// other than ErrInvalidInput.
type FallbackProvider struct {
	primary ReplyProvider
	static  *StaticProvider
	logger  *logging.Logger
	metrics *metrics.ChatMetrics
}

func NewFallbackProvider(primary ReplyProvider, static *StaticProvider, logger *logging.Logger, m *metrics.ChatMetrics) *FallbackProvider {
	if primary == nil {
		panic("conversation: primary reply provider cannot be nil")
	}
	if static == nil {
		static = NewStaticProvider(nil, m)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackProvider{primary: primary, static: static, logger: logger, metrics: m}
}

func (p *FallbackProvider) Reply(ctx context.Context, utterance string, history []Turn) (Reply, error) {
	reply, err := p.primary.Reply(ctx, utterance, history)
	if err == nil {
		return reply, nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return Reply{}, err
	}

	reason := fallbackReason(ctx, err)
	p.metrics.ObserveFallback(reason)
	p.logger.Warn("serving static reply after model failure",
		"error", err,
		"reason", reason,
	)
	return p.static.Reply(ctx, utterance, history)
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return "canceled"
	case errors.Is(err, ErrModelUnavailable):
		return "model_unavailable"
	default:
		return "error"
	}
}
