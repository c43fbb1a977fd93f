package conversation

import (
	"context"

	"github.com/webplotcentersj-hash/clinicasj/internal/observability/metrics"
)

// ReplyProvider produces the assistant turn for an utterance.
type ReplyProvider interface {
	Reply(ctx context.Context, utterance string, history []Turn) (Reply, error)
}

type turnCompleter interface {
	Handle(ctx context.Context, utterance string, history []Turn) (string, error)
}

// Assistant is the model-backed ReplyProvider: one model turn followed by
// booking command extraction.
type Assistant struct {
	turns     turnCompleter
	extractor *CommandExtractor
	metrics   *metrics.ChatMetrics
}

func NewAssistant(turns turnCompleter, extractor *CommandExtractor, m *metrics.ChatMetrics) *Assistant {
	if turns == nil {
		panic("conversation: turn handler cannot be nil")
	}
	if extractor == nil {
		panic("conversation: command extractor cannot be nil")
	}
	return &Assistant{turns: turns, extractor: extractor, metrics: m}
}

// Reply fails only with ErrInvalidInput or an error wrapping ErrModelUnavailable.
func (a *Assistant) Reply(ctx context.Context, utterance string, history []Turn) (Reply, error) {
	text, err := a.turns.Handle(ctx, utterance, history)
	if err != nil {
		return Reply{}, err
	}
	reply := a.extractor.Process(ctx, text)
	a.metrics.ObserveTurn(string(reply.Source))
	return reply, nil
}
