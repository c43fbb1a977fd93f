package webchat

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/webplotcentersj-hash/clinicasj/internal/conversation"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

//go:embed widget.js
var defaultWidgetJS []byte

const (
	maxInboundBytes = 16 << 10
	writeTimeout    = 10 * time.Second
)

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type      string `json:"type"` // "message", "settings", "ping"
	Text      string `json:"text,omitempty"`
	Modality  string `json:"modality,omitempty"`
	AutoSpeak *bool  `json:"auto_speak,omitempty"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string                       `json:"type"` // "session", "message", "typing", "busy", "error", "pong"
	Text      string                       `json:"text,omitempty"`
	Role      string                       `json:"role,omitempty"`
	Source    conversation.ReplySource     `json:"source,omitempty"`
	Speak     bool                         `json:"speak,omitempty"`
	AutoSpeak *bool                        `json:"auto_speak,omitempty"`
	Booking   *conversation.BookingOutcome `json:"booking,omitempty"`
	SessionID string                       `json:"session_id,omitempty"`
	Timestamp string                       `json:"timestamp,omitempty"`
}

// Handler serves the widget script and its websocket.
type Handler struct {
	orchestrator *Orchestrator
	upgrader     websocket.Upgrader
	logger       *logging.Logger
	widgetJS     []byte
}

// NewHandler creates a web chat handler. An empty widgetJS serves the built-in
// widget. allowedOrigins limits websocket upgrades; empty or "*" allows all.
func NewHandler(orchestrator *Orchestrator, widgetJS []byte, allowedOrigins []string, logger *logging.Logger) *Handler {
	if orchestrator == nil {
		panic("webchat: orchestrator cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if len(widgetJS) == 0 {
		widgetJS = defaultWidgetJS
	}
	return &Handler{
		orchestrator: orchestrator,
		logger:       logger,
		widgetJS:     widgetJS,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			return func(*http.Request) bool { return true }
		}
		if origin != "" {
			set[origin] = struct{}{}
		}
	}
	if len(set) == 0 {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

// wsConn serialises writes to one connection.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *wsConn) send(msg OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(msg)
}

// HandleWebSocket upgrades to WebSocket and runs one dialogue session until
// the connection closes. Closing the connection cancels any pending turn.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("webchat: upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxInboundBytes)

	ctx, cancel := context.WithCancel(context.Background())
	var inflight sync.WaitGroup
	defer func() {
		cancel()
		inflight.Wait()
	}()

	session := NewSession(sessionIDFromQuery(r.URL.Query().Get("session")))
	wsc := &wsConn{conn: conn}
	autoSpeak := session.AutoSpeak()
	_ = wsc.send(OutboundMessage{Type: "session", SessionID: session.ID, AutoSpeak: &autoSpeak})
	_ = wsc.send(OutboundMessage{Type: "message", Role: conversation.ChatRoleAssistant, Text: Greeting, Timestamp: now()})

	h.logger.Info("webchat: connection opened", "session_id", session.ID)

	for {
		var msg InboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", session.ID, "error", err)
			return
		}

		switch msg.Type {
		case "ping":
			_ = wsc.send(OutboundMessage{Type: "pong"})
		case "settings":
			if msg.AutoSpeak != nil {
				session.SetAutoSpeak(*msg.AutoSpeak)
			}
		case "message":
			pending, err := h.orchestrator.Begin(session, msg.Text, parseModality(msg.Modality))
			switch {
			case errors.Is(err, conversation.ErrInvalidInput):
				_ = wsc.send(OutboundMessage{Type: "error", Text: "Escribí tu consulta para que pueda ayudarte."})
				continue
			case errors.Is(err, ErrTurnInProgress):
				_ = wsc.send(OutboundMessage{Type: "busy", Text: "Estoy respondiendo tu consulta anterior, dame un momento."})
				continue
			case err != nil:
				h.logger.Error("webchat: failed to accept message", "session_id", session.ID, "error", err)
				continue
			}

			_ = wsc.send(OutboundMessage{Type: "typing"})
			inflight.Add(1)
			go func() {
				defer inflight.Done()
				result := h.orchestrator.Resolve(ctx, pending)
				if ctx.Err() != nil {
					return
				}
				if err := wsc.send(OutboundMessage{
					Type:      "message",
					Role:      conversation.ChatRoleAssistant,
					Text:      result.Reply.Text,
					Source:    result.Reply.Source,
					Speak:     result.Speak,
					Booking:   result.Reply.Booking,
					Timestamp: now(),
				}); err != nil {
					h.logger.Warn("webchat: failed to deliver reply", "session_id", session.ID, "error", err)
				}
			}()
		default:
			h.logger.Debug("webchat: ignoring message", "type", msg.Type)
		}
	}
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(h.widgetJS)
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// sessionIDFromQuery accepts a client-supplied session id only when it is a
// UUID. Anything else gets a fresh id.
func sessionIDFromQuery(raw string) string {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
