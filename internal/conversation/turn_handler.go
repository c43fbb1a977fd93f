package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/webplotcentersj-hash/clinicasj/internal/observability/metrics"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// EmptyReplyText is returned when the model answers with no text.
const EmptyReplyText = "Lo siento, no pude generar una respuesta."

var turnTracer = otel.Tracer("clinicasj.internal.conversation")

// TurnHandlerConfig configures a TurnHandler.
type TurnHandlerConfig struct {
	Client      LLMClient
	Model       string
	System      string
	Timeout     time.Duration
	MaxTokens   int32
	Temperature float32
	Logger      *logging.Logger
	Metrics     *metrics.ChatMetrics
	Tracer      trace.Tracer
}

// TurnHandler turns one utterance plus prior history into one model call.
// It holds no per-conversation state.
type TurnHandler struct {
	client      LLMClient
	model       string
	system      string
	timeout     time.Duration
	maxTokens   int32
	temperature float32
	logger      *logging.Logger
	metrics     *metrics.ChatMetrics
	tracer      trace.Tracer
}

func NewTurnHandler(cfg TurnHandlerConfig) *TurnHandler {
	if cfg.Client == nil {
		panic("conversation: llm client cannot be nil")
	}
	if strings.TrimSpace(cfg.System) == "" {
		cfg.System = SystemPrompt()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = turnTracer
	}
	return &TurnHandler{
		client:      cfg.Client,
		model:       cfg.Model,
		system:      cfg.System,
		timeout:     cfg.Timeout,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		tracer:      cfg.Tracer,
	}
}

// Handle returns the model's raw reply text. Errors are ErrInvalidInput or
// wrap ErrModelUnavailable.
func (h *TurnHandler) Handle(ctx context.Context, utterance string, history []Turn) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", ErrInvalidInput
	}

	ctx, span := h.tracer.Start(ctx, "conversation.turn")
	defer span.End()
	span.SetAttributes(attribute.Int("conversation.history_len", len(history)))

	req := LLMRequest{
		Model:       h.model,
		Messages:    h.BuildMessages(utterance, history),
		MaxTokens:   h.maxTokens,
		Temperature: h.temperature,
	}

	callCtx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	resp, err := h.client.Complete(callCtx, req)
	elapsed := time.Since(start)
	if err != nil {
		outcome := "error"
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			outcome = "timeout"
		}
		h.metrics.ObserveModelLatency(outcome, elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
		h.logger.Warn("model call failed",
			"error", err,
			"outcome", outcome,
			"duration_ms", elapsed.Milliseconds(),
		)
		return "", fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	h.metrics.ObserveModelLatency("ok", elapsed)
	span.SetAttributes(
		attribute.Int("llm.input_tokens", int(resp.Usage.InputTokens)),
		attribute.Int("llm.output_tokens", int(resp.Usage.OutputTokens)),
	)

	if strings.TrimSpace(resp.Text) == "" {
		h.logger.Info("model returned empty reply", "stop_reason", resp.StopReason)
		return EmptyReplyText, nil
	}
	return resp.Text, nil
}

// BuildMessages assembles the transcript sent to the model. With no history the
// instruction and utterance share one user message; otherwise the instruction
// is a leading user turn followed by the history, in order, and the utterance.
func (h *TurnHandler) BuildMessages(utterance string, history []Turn) []ChatMessage {
	if len(history) == 0 {
		return []ChatMessage{{
			Role:    ChatRoleUser,
			Content: h.system + "\n\nUsuario: " + utterance,
		}}
	}
	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: h.system})
	for _, turn := range history {
		messages = append(messages, ChatMessage{Role: normalizedRole(turn.Role), Content: turn.Content})
	}
	return append(messages, ChatMessage{Role: ChatRoleUser, Content: utterance})
}
