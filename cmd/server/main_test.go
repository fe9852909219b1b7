package main

import (
	"bufio"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iyunix/go-brainchat/internal/config"
	"github.com/iyunix/go-brainchat/internal/dtos"
	"github.com/iyunix/go-brainchat/internal/services"
)

func TestServeShutsDownWithOpenEventStream(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"ANSWER_FUNCTION_URL": "http://127.0.0.1:1/answer",
		"DATABASE_PATH":       filepath.Join(t.TempDir(), "audit.db"),
		"JWT_SECRET_KEY":      "test",
	})
	require.NoError(t, err)
	app, err := NewApplication(cfg, &services.NoOpLogger{})
	require.NoError(t, err)
	defer app.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + ln.Addr().String()
	srv := &http.Server{Handler: app.Router, ReadHeaderTimeout: time.Second}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	served := make(chan error, 1)
	go func() { served <- serve(ctx, srv, ln, &services.NoOpLogger{}) }()

	client := &http.Client{Transport: &http.Transport{}}
	defer client.CloseIdleConnections()

	resp, err := client.Post(base+"/api/session", "application/json", nil)
	require.NoError(t, err)
	var sess dtos.SessionResponseDTO
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sess))
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodGet, base+"/api/events", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	stream, err := client.Do(req)
	require.NoError(t, err)
	defer stream.Body.Close()

	lines := bufio.NewScanner(stream.Body)
	ready := false
	for lines.Scan() {
		if strings.HasPrefix(lines.Text(), "event: ready") {
			ready = true
			break
		}
	}
	require.True(t, ready)

	start := time.Now()
	stop()
	select {
	case err := <-served:
		assert.NoError(t, err)
		assert.Less(t, time.Since(start), shutdownTimeout)
	case <-time.After(5 * time.Second):
		t.Fatal("shutdown blocked by the open event stream")
	}
}
