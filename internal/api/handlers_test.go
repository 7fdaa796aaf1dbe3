package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newschat/internal/chat"
	"newschat/internal/domain"
	"newschat/internal/embedding/localhash"
	"newschat/internal/generation/template"
	"newschat/internal/hub"
	"newschat/internal/news"
	"newschat/internal/retrieval"
	sessionmem "newschat/internal/session/memory"
	"newschat/internal/vectorstore/memory"
)

func newTestServer(t *testing.T, redisActive bool) *httptest.Server {
	t.Helper()
	emb := localhash.NewEmbedder(0)
	store := memory.NewStorage()
	corpus := news.SampleArticles()
	require.NoError(t, news.Seed(context.Background(), emb, store, corpus))

	deliveries := hub.New()
	retriever := retrieval.NewService(emb, store, corpus)
	svc := chat.NewService(retriever, template.NewGenerator(), sessionmem.NewStore(), deliveries, 3)
	handler := NewHandler(svc, deliveries, redisActive, []string{"http://localhost:3000"})
	srv := httptest.NewServer(NewRouter(handler, []string{"http://localhost:3000"}))
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	return resp
}

func TestHealthReportsRedisState(t *testing.T) {
	srv := newTestServer(t, false)

	var body map[string]string
	resp := getJSON(t, srv.URL+"/api/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "disconnected", body["redis"])
}

func TestQueryEndpoint(t *testing.T) {
	srv := newTestServer(t, false)

	payload, _ := json.Marshal(map[string]string{"query": "AI technology"})
	resp, err := http.Post(srv.URL+"/api/chat/query", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Success  bool     `json:"success"`
		Response string   `json:"response"`
		Sources  []string `json:"sources"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body.Success)
	assert.NotEmpty(t, body.Response)
	assert.NotEmpty(t, body.Sources)
}

func TestQueryEndpointRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Post(srv.URL+"/api/chat/query", "application/json", strings.NewReader(`{"query":""}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHistoryLifecycle(t *testing.T) {
	srv := newTestServer(t, false)

	var body struct {
		History []domain.ChatMessage `json:"history"`
	}
	getJSON(t, srv.URL+"/api/chat/history/s1", &body)
	assert.Empty(t, body.History)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/chat/history/s1", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWebSocketTurnDeliversUserAndAssistant(t *testing.T) {
	srv := newTestServer(t, false)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat/s1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]string{"message": "what's new in AI"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var first, second domain.ChatMessage
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))

	assert.Equal(t, domain.RoleUser, first.Role)
	assert.Equal(t, "what's new in AI", first.Content)
	assert.Equal(t, domain.RoleAssistant, second.Role)
	assert.NotEmpty(t, second.Content)
	assert.NotEmpty(t, second.Sources)
}
