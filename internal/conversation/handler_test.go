package conversation

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webplotcentersj-hash/clinicasj/internal/knowledge"
	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

func postJSON(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/ai/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	return rec, payload
}

func TestHandlerChat_Success(t *testing.T) {
	llm := &stubLLMClient{response: LLMResponse{Text: "¿Cuál es tu nombre completo?"}}
	h := NewHandler(newModelAssistant(llm, &stubSubmitter{}), NewStaticProvider(nil, nil), logging.Default())

	rec, payload := postJSON(t, h.Chat, `{"message":"necesito un turno","conversationHistory":[{"role":"assistant","content":"¡Hola!"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, "¿Cuál es tu nombre completo?", payload["message"])
	assert.Equal(t, "model", payload["source"])
	require.Len(t, llm.lastReq.Messages, 3)
}

func TestHandlerChat_BookingOutcomeIsReported(t *testing.T) {
	llm := &stubLLMClient{response: LLMResponse{Text: completeCommand}}
	submitter := &stubSubmitter{}
	h := NewHandler(newModelAssistant(llm, submitter), NewStaticProvider(nil, nil), logging.Default())

	rec, payload := postJSON(t, h.Chat, `{"message":"sí, confirmo"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, submitter.count())
	bookingOut, ok := payload["booking"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "confirmed", bookingOut["status"])
}

func TestHandlerChat_BlankMessage(t *testing.T) {
	llm := &stubLLMClient{}
	h := NewHandler(newModelAssistant(llm, &stubSubmitter{}), NewStaticProvider(nil, nil), logging.Default())

	for _, body := range []string{`{"message":""}`, `{}`, `{"message":"  "}`} {
		rec, payload := postJSON(t, h.Chat, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
		assert.Equal(t, "Mensaje requerido", payload["error"])
	}
	assert.Zero(t, llm.callCount())
}

func TestHandlerChat_InvalidBody(t *testing.T) {
	h := NewHandler(&stubProvider{}, NewStaticProvider(nil, nil), logging.Default())

	for _, body := range []string{`not json`, `{"message":42}`} {
		rec, payload := postJSON(t, h.Chat, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, false, payload["success"])
	}
}

func TestHandlerChat_ModelFailureIsBadGateway(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("quota exceeded")}
	h := NewHandler(newModelAssistant(llm, &stubSubmitter{}), NewStaticProvider(nil, nil), logging.Default())

	rec, payload := postJSON(t, h.Chat, `{"message":"hola"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, false, payload["success"])
	assert.NotContains(t, payload["error"], "quota")
}

func TestHandlerFallback(t *testing.T) {
	h := NewHandler(&stubProvider{}, NewStaticProvider(nil, nil), logging.Default())

	rec, payload := postJSON(t, h.Fallback, `{"message":"hola"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, knowledge.DefaultGroups()[0].Reply, payload["message"])
	assert.Equal(t, "fallback", payload["source"])
}
