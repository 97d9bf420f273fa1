package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhirupbanerjee/gea-ai-assistant/internal/adapter/assistant"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/config"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/contextchannel"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/service"
	"github.com/abhirupbanerjee/gea-ai-assistant/internal/tools"
	"github.com/abhirupbanerjee/gea-ai-assistant/tests/helpers"
)

// newAssistantStub serves just enough of the threads/runs API for the happy
// path: every run completes on its first poll.
func newAssistantStub(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("POST /v1/threads", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "thread_1"})
	})
	mux.HandleFunc("POST /v1/threads/{thread}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "rm_user"})
	})
	mux.HandleFunc("GET /v1/threads/{thread}/messages", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":   "rm_assistant",
					"role": "assistant",
					"content": []map[string]interface{}{
						{"type": "text", "text": map[string]string{"value": reply}},
					},
				},
			},
		})
	})
	mux.HandleFunc("POST /v1/threads/{thread}/runs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "run_1", "status": "queued"})
	})
	mux.HandleFunc("GET /v1/threads/{thread}/runs/{run}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": r.PathValue("run"), "status": "completed"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T, opts ...func(*config.Config)) (*echo.Echo, *contextchannel.Channel) {
	t.Helper()

	cfg := &config.Config{
		AssistantID:    "asst_test",
		APIKey:         "sk-test",
		PollInterval:   time.Millisecond,
		MaxPolls:       10,
		ToolTimeout:    5 * time.Second,
		AllowedOrigins: []string{"http://localhost:3000"},
		AdminUsers: []config.AdminUser{
			{Email: "admin@gea.gov.gd", Password: "secret"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	stub := newAssistantStub(t, "Hello from the assistant.")
	client := assistant.NewClient(stub.URL, cfg.APIKey, "", 5*time.Second)
	channel := contextchannel.NewChannel(cfg.AllowedOrigins)
	svc := service.New(helpers.NewTestSQLiteStore(t), client, tools.NewRegistry(), channel, nil, cfg)

	e := echo.New()
	NewHandler(svc, channel, cfg).RegisterRoutes(e)
	return e, channel
}

func doJSON(e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestChatEndpoint(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hello from the assistant.", resp["reply"])
	assert.Equal(t, "thread_1", resp["threadId"])
	assert.Equal(t, "success", resp["status"])
}

func TestChatEndpointEmptyMessage(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/chat", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Message is required")
}

func TestChatEndpointMissingConfig(t *testing.T) {
	e, _ := newTestHandler(t, func(cfg *config.Config) {
		cfg.AssistantID = ""
	})

	rec := doJSON(e, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing assistant configuration")
}

func TestToolHandlerMissingFields(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/assistant/tool-handler", `{"thread_id":"thread_1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Missing thread_id or run_id")
}

func TestToolHandlerNoAction(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/assistant/tool-handler", `{"thread_id":"thread_1","run_id":"run_1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "no_action_needed")
}

func TestLogin(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/login", `{"email":"admin@gea.gov.gd","password":"secret"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/api/login", `{"email":"admin@gea.gov.gd","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"success":false}`, rec.Body.String())
}

func TestLoginNotConfigured(t *testing.T) {
	e, _ := newTestHandler(t, func(cfg *config.Config) {
		cfg.AdminUsers = nil
	})

	rec := doJSON(e, http.MethodPost, "/api/login", `{"email":"a@b.c","password":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin users not configured")
}

func TestHealth(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestGetContext(t *testing.T) {
	e, channel := newTestHandler(t)
	channel.SeedFromSource("/feedback")

	rec := doJSON(e, http.MethodGet, "/api/context", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["hasContext"])
	assert.Equal(t, "/feedback", resp["summary"])
	assert.Contains(t, resp["description"], "Current page: /feedback")
}

func TestConversationEndpoints(t *testing.T) {
	e, _ := newTestHandler(t)

	rec := doJSON(e, http.MethodPost, "/api/chat", `{"message":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodGet, "/api/conversation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Messages []map[string]interface{} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Messages, 2)

	rec = doJSON(e, http.MethodDelete, "/api/conversation", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cleared")

	rec = doJSON(e, http.MethodGet, "/api/conversation", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Messages)
}

func TestContextWebSocket(t *testing.T) {
	e, channel := newTestHandler(t)
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/context/ws?source=/grievance&embedded=true"
	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	// The source query parameter seeds a route-only snapshot on connect.
	deadline := time.Now().Add(2 * time.Second)
	for !channel.HasContext() {
		if time.Now().After(deadline) {
			t.Fatal("source seed never applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.Equal(t, "/grievance", channel.Current().Route)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{
		"type": "CONTEXT_UPDATE",
		"context": {"route": "/feedback", "changeType": "navigation"}
	}`)))

	deadline = time.Now().Add(2 * time.Second)
	for channel.Current().Route != "/feedback" {
		if time.Now().After(deadline) {
			t.Fatal("context update never applied")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestContextWebSocketDisallowedOrigin(t *testing.T) {
	e, channel := newTestHandler(t)
	channel.SetEmbedded(true)
	srv := httptest.NewServer(e)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/context/ws"
	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{
		"type": "CONTEXT_UPDATE",
		"context": {"route": "/feedback"}
	}`)))

	// The message is dropped and the origin error is recorded.
	deadline := time.Now().Add(2 * time.Second)
	for channel.ErrorMessage() == "" {
		if time.Now().After(deadline) {
			t.Fatal("origin error never recorded")
		}
		time.Sleep(5 * time.Millisecond)
	}
	assert.False(t, channel.HasContext())
	assert.Equal(t, contextchannel.AdvisoryMessage, channel.ErrorMessage())
}
