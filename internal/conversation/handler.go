package conversation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

const maxChatBodyBytes = 256 << 10

// Handler serves the chat turn endpoints.
type Handler struct {
	assistant ReplyProvider
	static    ReplyProvider
	logger    *logging.Logger
}

// NewHandler creates a chat handler. assistant backs /api/ai/chat and static
// backs /api/ai/fallback.
func NewHandler(assistant, static ReplyProvider, logger *logging.Logger) *Handler {
	if assistant == nil || static == nil {
		panic("conversation: reply providers cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{assistant: assistant, static: static, logger: logger}
}

// ChatRequest is the chat turn request body.
type ChatRequest struct {
	Message             string `json:"message"`
	ConversationHistory []Turn `json:"conversationHistory"`
}

type chatResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Source  ReplySource     `json:"source,omitempty"`
	Booking *BookingOutcome `json:"booking,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Chat handles POST /api/ai/chat. A model failure is reported as 502 so
// callers can fall back on their side.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.assistant)
}

// Fallback handles POST /api/ai/fallback with the static knowledge reply.
func (h *Handler) Fallback(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.static)
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, provider ReplyProvider) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBodyBytes)).Decode(&req); err != nil {
		h.logger.Warn("failed to decode chat request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Cuerpo de la solicitud inválido"})
		return
	}

	reply, err := provider.Reply(r.Context(), req.Message, req.ConversationHistory)
	switch {
	case errors.Is(err, ErrInvalidInput):
		h.writeJSON(w, http.StatusBadRequest, chatResponse{Error: "Mensaje requerido"})
		return
	case err != nil:
		h.logger.Error("chat turn failed", "error", err)
		h.writeJSON(w, http.StatusBadGateway, chatResponse{
			Error: "El asistente no está disponible en este momento. Por favor intenta nuevamente.",
		})
		return
	}

	h.writeJSON(w, http.StatusOK, chatResponse{
		Success: true,
		Message: reply.Text,
		Source:  reply.Source,
		Booking: reply.Booking,
	})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", "error", err)
	}
}
