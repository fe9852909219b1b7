// File: internal/handlers/events_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

const (
	eventBuffer       = 64
	heartbeatInterval = 25 * time.Second
)

// StreamEvents pushes store change events to the client as server-sent
// events until the client goes away. A slow client loses events rather than
// blocking the store; it should refetch the state on "resync".
func (h *ChatHandler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	events := make(chan chatservice.Event, eventBuffer)
	dropped := make(chan struct{}, 1)
	cancel := ws.Store.Subscribe(func(ev chatservice.Event) {
		select {
		case events <- ev:
		default:
			select {
			case dropped <- struct{}{}:
			default:
			}
		}
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	writeSSE(w, "ready", map[string]string{"active_chat_id": ws.Store.ActiveChatID()})
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-events:
			writeSSE(w, string(ev.Type), ev)
		case <-dropped:
			writeSSE(w, "resync", map[string]string{})
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
		}
		flusher.Flush()
	}
}

func writeSSE(w http.ResponseWriter, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}
