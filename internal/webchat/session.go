// Package webchat runs the embedded chat widget: one in-memory dialogue
// session per websocket connection, driven by an Orchestrator.
package webchat

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
)

// Greeting seeds every new session.
const Greeting = "¡Hola! Soy el asistente inteligente del Sanatorio San Juan. Puedo informarte sobre turnos, especialidades, obras sociales y más. ¿En qué te ayudo?"

// Modality is how the patient produced an utterance.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityVoice Modality = "voice"
)

func parseModality(s string) Modality {
	if Modality(strings.ToLower(strings.TrimSpace(s))) == ModalityVoice {
		return ModalityVoice
	}
	return ModalityText
}

// State is the externally visible session state.
type State string

const (
	StateIdle          State = "idle"
	StateAwaitingReply State = "awaiting_reply"
)

// Session is the dialogue state of one widget connection. It is never persisted.
type Session struct {
	ID string

	mu           sync.Mutex
	turns        []conversation.Turn
	pending      bool
	autoSpeak    bool
	lastModality Modality
}

// NewSession creates a session seeded with the greeting. Auto-speak starts on.
func NewSession(id string) *Session {
	if strings.TrimSpace(id) == "" {
		id = uuid.New().String()
	}
	return &Session{
		ID:           id,
		turns:        []conversation.Turn{conversation.AssistantTurn(Greeting)},
		autoSpeak:    true,
		lastModality: ModalityText,
	}
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]conversation.Turn(nil), s.turns...)
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return StateAwaitingReply
	}
	return StateIdle
}

func (s *Session) AutoSpeak() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.autoSpeak
}

func (s *Session) SetAutoSpeak(on bool) {
	s.mu.Lock()
	s.autoSpeak = on
	s.mu.Unlock()
}

func (s *Session) LastModality() Modality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastModality
}
