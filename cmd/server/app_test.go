package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-brainchat/internal/config"
	"github.com/iyunix/go-brainchat/internal/dtos"
	"github.com/iyunix/go-brainchat/internal/services"
)

func TestApplicationEndToEnd(t *testing.T) {
	fn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Prompt string `json:"prompt"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Prompt == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"boom","context":{"message":"GEMINI_API_KEY is not set"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "**answer** to " + body.Prompt})
	}))
	defer fn.Close()

	cfg, err := config.LoadFrom(map[string]string{
		"ANSWER_FUNCTION_URL": fn.URL,
		"ANSWER_MAX_RETRIES":  "0",
		"DATABASE_PATH":       filepath.Join(t.TempDir(), "audit.db"),
		"JWT_SECRET_KEY":      "test",
	})
	require.NoError(t, err)

	app, err := NewApplication(cfg, &services.NoOpLogger{})
	require.NoError(t, err)
	defer app.Close()

	call := func(method, path, token string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		app.Router.ServeHTTP(rec, req)
		return rec
	}

	rec := call(http.MethodPost, "/api/session", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sess dtos.SessionResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))

	for _, prompt := range []string{"hello", "fail"} {
		rec = call(http.MethodPost, "/api/messages", sess.Token, dtos.SubmitRequestDTO{Message: prompt})
		require.Equal(t, http.StatusAccepted, rec.Code)
		ws, ok := app.ChatService.Lookup(sess.OwnerID)
		require.True(t, ok)
		ws.Pipeline.WaitIdle()
	}

	rec = call(http.MethodGet, "/api/chats", sess.Token, nil)
	var st dtos.StateDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	require.Len(t, st.ActiveChat.Messages, 4)
	assert.Equal(t, "<p><strong>answer</strong> to hello</p>", st.ActiveChat.Messages[1].HTML)
	assert.Equal(t, "Sorry, I encountered an error. Please check the function logs and your API key.", st.ActiveChat.Messages[3].Content)

	rec = call(http.MethodGet, "/api/notifications", sess.Token, nil)
	var notes []dtos.NotificationDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "Failed to get AI response: GEMINI_API_KEY is not set", notes[0].Description)

	rec = call(http.MethodGet, "/api/submissions?limit=1", sess.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats dtos.SubmissionStatsDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, map[string]int64{"answered": 1, "failed": 1}, stats.Counts)
	require.Len(t, stats.Recent, 1)
	assert.Equal(t, "failed", stats.Recent[0].Outcome)
	assert.Equal(t, "GEMINI_API_KEY is not set", stats.Recent[0].ErrorDetail)

	rec = call(http.MethodGet, "/api/submissions?limit=-3", sess.Token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
