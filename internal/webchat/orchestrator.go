package webchat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
	"github.com/webplotcentersj-hash/clinicasj/internal/knowledge"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

// ErrTurnInProgress is returned by Begin while the session awaits a reply.
var ErrTurnInProgress = errors.New("webchat: a reply is already pending")

// PendingTurn is an accepted utterance whose reply has not been produced yet.
type PendingTurn struct {
	session   *Session
	Utterance string
	Modality  Modality
	// History is the transcript before the utterance was appended.
	History []conversation.Turn
}

// TurnResult is the rendered assistant turn.
type TurnResult struct {
	Reply conversation.Reply
	Speak bool
}

// Orchestrator drives the per-message flow of a Session.
type Orchestrator struct {
	provider  conversation.ReplyProvider
	responder *knowledge.Responder
	timeout   time.Duration
	logger    *logging.Logger
}

// NewOrchestrator creates an orchestrator. responder answers when provider
// fails anyway; timeout bounds each turn.
func NewOrchestrator(provider conversation.ReplyProvider, responder *knowledge.Responder, timeout time.Duration, logger *logging.Logger) *Orchestrator {
	if provider == nil {
		panic("webchat: reply provider cannot be nil")
	}
	if responder == nil {
		responder = knowledge.NewDefaultResponder()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Orchestrator{provider: provider, responder: responder, timeout: timeout, logger: logger}
}

// Begin accepts utterance into the session and marks it awaiting a reply.
// Blank input and sends while a reply is pending leave the session untouched.
func (o *Orchestrator) Begin(s *Session, utterance string, modality Modality) (*PendingTurn, error) {
	if strings.TrimSpace(utterance) == "" {
		return nil, conversation.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return nil, ErrTurnInProgress
	}
	history := append([]conversation.Turn(nil), s.turns...)
	s.turns = append(s.turns, conversation.UserTurn(utterance))
	s.pending = true
	s.lastModality = modality
	return &PendingTurn{session: s, Utterance: utterance, Modality: modality, History: history}, nil
}

// Resolve produces the reply for p and returns the session to idle. It always
// yields a reply: provider errors are answered from the knowledge base.
func (o *Orchestrator) Resolve(ctx context.Context, p *PendingTurn) TurnResult {
	s := p.session
	start := time.Now()

	turnCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	reply, err := o.provider.Reply(turnCtx, p.Utterance, p.History)
	if err != nil {
		o.logger.Warn("webchat: provider failed, using knowledge base",
			"session_id", s.ID,
			"error", err,
		)
		reply = conversation.Reply{Text: o.responder.Respond(p.Utterance), Source: conversation.SourceFallback}
	}

	s.mu.Lock()
	s.turns = append(s.turns, conversation.AssistantTurn(reply.Text))
	s.pending = false
	speak := s.autoSpeak
	s.mu.Unlock()

	o.logger.Debug("webchat: turn resolved",
		"session_id", s.ID,
		"source", string(reply.Source),
		"modality", string(p.Modality),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return TurnResult{Reply: reply, Speak: speak}
}

// Send runs Begin and Resolve back to back.
func (o *Orchestrator) Send(ctx context.Context, s *Session, utterance string, modality Modality) (TurnResult, error) {
	p, err := o.Begin(s, utterance, modality)
	if err != nil {
		return TurnResult{}, err
	}
	return o.Resolve(ctx, p), nil
}
