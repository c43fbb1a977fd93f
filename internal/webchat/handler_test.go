package webchat

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webplotcentersj-hash/clinicasj/pkg/logging"
)

const testSessionID = "6f1c2b7e-3d4a-4e8f-9a0b-1c2d3e4f5a6b"

func dialTestServer(t *testing.T, h *Handler) *websocket.Conn {
	t.Helper()
	return dialWithSession(t, h, testSessionID)
}

func dialWithSession(t *testing.T, h *Handler, sessionID string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws?session=" + url.QueryEscape(sessionID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) OutboundMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg OutboundMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestHandleWebSocket_Greeting(t *testing.T) {
	provider := newGatedProvider(modelReply("x"))
	h := NewHandler(NewOrchestrator(provider, nil, time.Second, nil), nil, nil, logging.New("error"))
	conn := dialTestServer(t, h)

	session := readMessage(t, conn)
	assert.Equal(t, "session", session.Type)
	assert.Equal(t, testSessionID, session.SessionID)
	require.NotNil(t, session.AutoSpeak)
	assert.True(t, *session.AutoSpeak)

	greeting := readMessage(t, conn)
	assert.Equal(t, "message", greeting.Type)
	assert.Equal(t, Greeting, greeting.Text)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "ping"}))
	assert.Equal(t, "pong", readMessage(t, conn).Type)
}

func TestHandleWebSocket_ReplacesMalformedSessionID(t *testing.T) {
	h := NewHandler(NewOrchestrator(newGatedProvider(modelReply("x")), nil, time.Second, nil), nil, nil, logging.New("error"))

	for _, raw := range []string{"", "test-session", "abc\nlevel=ERROR msg=forged"} {
		conn := dialWithSession(t, h, raw)
		session := readMessage(t, conn)
		require.Equal(t, "session", session.Type)
		_, err := uuid.Parse(session.SessionID)
		assert.NoError(t, err, "session id %q", session.SessionID)
		assert.NotEqual(t, raw, session.SessionID)
	}
}

func TestHandleWebSocket_MessageRoundTrip(t *testing.T) {
	provider := newGatedProvider(modelReply("¿Cuál es tu nombre completo?"))
	close(provider.release)
	h := NewHandler(NewOrchestrator(provider, nil, time.Second, nil), nil, nil, logging.New("error"))
	conn := dialTestServer(t, h)
	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "settings", AutoSpeak: boolPtr(false)}))
	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "message", Text: "necesito un turno"}))

	assert.Equal(t, "typing", readMessage(t, conn).Type)
	reply := readMessage(t, conn)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, "¿Cuál es tu nombre completo?", reply.Text)
	assert.Equal(t, "model", string(reply.Source))
	assert.False(t, reply.Speak)
}

func TestHandleWebSocket_BackToBackSendIsBusy(t *testing.T) {
	provider := newGatedProvider(modelReply("primera"))
	h := NewHandler(NewOrchestrator(provider, nil, 5*time.Second, nil), nil, nil, logging.New("error"))
	conn := dialTestServer(t, h)
	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "message", Text: "hola"}))
	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "message", Text: "hola de nuevo"}))

	assert.Equal(t, "typing", readMessage(t, conn).Type)
	assert.Equal(t, "busy", readMessage(t, conn).Type)

	close(provider.release)
	reply := readMessage(t, conn)
	assert.Equal(t, "message", reply.Type)
	assert.Equal(t, "primera", reply.Text)
	assert.Equal(t, 1, provider.callCount())
}

func TestHandleWebSocket_BlankMessage(t *testing.T) {
	provider := newGatedProvider(modelReply("x"))
	h := NewHandler(NewOrchestrator(provider, nil, time.Second, nil), nil, nil, logging.New("error"))
	conn := dialTestServer(t, h)
	readMessage(t, conn)
	readMessage(t, conn)

	require.NoError(t, conn.WriteJSON(InboundMessage{Type: "message", Text: "  "}))
	assert.Equal(t, "error", readMessage(t, conn).Type)
	assert.Zero(t, provider.callCount())
}

func TestHandleWebSocket_RejectsUnknownOrigin(t *testing.T) {
	provider := newGatedProvider(modelReply("x"))
	h := NewHandler(NewOrchestrator(provider, nil, time.Second, nil), nil, []string{"https://sanatoriosanjuan.com"}, logging.New("error"))
	srv := httptest.NewServer(http.HandlerFunc(h.HandleWebSocket))
	defer srv.Close()

	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHandleWidgetJS(t *testing.T) {
	provider := newGatedProvider(modelReply("x"))
	o := NewOrchestrator(provider, nil, time.Second, nil)

	h := NewHandler(o, []byte("// widget"), nil, logging.New("error"))
	w := httptest.NewRecorder()
	h.HandleWidgetJS(w, httptest.NewRequest(http.MethodGet, "/chat/widget.js", nil))
	assert.Equal(t, "application/javascript", w.Header().Get("Content-Type"))
	assert.Equal(t, "// widget", w.Body.String())

	h = NewHandler(o, nil, nil, logging.New("error"))
	w = httptest.NewRecorder()
	h.HandleWidgetJS(w, httptest.NewRequest(http.MethodGet, "/chat/widget.js", nil))
	assert.Contains(t, w.Body.String(), "/chat/ws")
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/chat/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}
	assert.True(t, originChecker(nil)(req("https://any.example")))
	assert.True(t, originChecker([]string{"*"})(req("https://any.example")))

	check := originChecker([]string{"https://a.example"})
	assert.True(t, check(req("https://a.example")))
	assert.True(t, check(req("")))
	assert.False(t, check(req("https://b.example")))
}

func boolPtr(b bool) *bool { return &b }
