// File: internal/handlers/chat_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-brainchat/internal/dtos"
	"github.com/iyunix/go-brainchat/internal/middleware"
	"github.com/iyunix/go-brainchat/internal/services"
	chatservice "github.com/iyunix/go-brainchat/internal/services/chat"
)

type ChatHandler struct {
	chats     *services.ChatService
	presenter *dtos.Presenter
	logger    Logger
}

func NewChatHandler(cs *services.ChatService, presenter *dtos.Presenter, logger Logger) (*ChatHandler, error) {
	if cs == nil {
		return nil, errors.New("chat service is required")
	}
	if presenter == nil {
		presenter = dtos.NewPresenter(nil)
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &ChatHandler{chats: cs, presenter: presenter, logger: logger}, nil
}

// workspace resolves the caller's workspace; it writes the error response
// itself and returns nil when there is none.
func (h *ChatHandler) workspace(w http.ResponseWriter, r *http.Request) *chatservice.Workspace {
	ownerID, ok := middleware.OwnerID(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return nil
	}
	ws, err := h.chats.Workspace(ownerID)
	if err != nil {
		h.logger.Error("failed to open workspace", "owner_id", ownerID, "error", err)
		writeError(w, "Could not open workspace", http.StatusInternalServerError)
		return nil
	}
	return ws
}

// GetState returns the chat list, the active chat id and its transcript.
func (h *ChatHandler) GetState(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.State(ws.Store.Snapshot()))
}

func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	chat := ws.Store.CreateChat()
	writeJSON(w, http.StatusCreated, h.presenter.Chat(chat, chat.ID, false))
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	id := mux.Vars(r)["id"]
	chat, ok := ws.Store.Chat(id)
	if !ok {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.Chat(chat, ws.Store.ActiveChatID(), ws.Store.IsPending(id)))
}

// SelectChat makes the chat the active one.
func (h *ChatHandler) SelectChat(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	if err := ws.Store.SelectChat(mux.Vars(r)["id"]); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.State(ws.Store.Snapshot()))
}

func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	var req dtos.RenameRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id := mux.Vars(r)["id"]
	chat, err := ws.Store.RenameChat(id, req.Title)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.Summary(chat, ws.Store.ActiveChatID(), ws.Store.IsPending(id)))
}

// DeleteChat removes the chat and returns the resulting state, which always
// has an active chat.
func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	if err := ws.Store.DeleteChat(mux.Vars(r)["id"]); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.presenter.State(ws.Store.Snapshot()))
}

// SubmitMessage submits to the chat named in the path.
func (h *ChatHandler) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	h.submit(w, r, ws, mux.Vars(r)["id"])
}

// SubmitActive submits to whichever chat is active.
func (h *ChatHandler) SubmitActive(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	h.submit(w, r, ws, ws.Store.ActiveChatID())
}

func (h *ChatHandler) submit(w http.ResponseWriter, r *http.Request, ws *chatservice.Workspace, chatID string) {
	var req dtos.SubmitRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// One outstanding answer per chat: the send control is disabled while
	// the chat is pending.
	sub, err := ws.Pipeline.TrySubmit(r.Context(), chatID, req.Message)
	if errors.Is(err, chatservice.ErrChatPending) {
		writeError(w, "An answer for this chat is still pending", http.StatusConflict)
		return
	}
	if sub == nil {
		writeJSON(w, http.StatusOK, dtos.SubmitResponseDTO{Accepted: false})
		return
	}

	userMsg := h.presenter.Message(sub.UserMessage)
	writeJSON(w, http.StatusAccepted, dtos.SubmitResponseDTO{
		Accepted:    true,
		ChatID:      sub.ChatID,
		UserMessage: &userMsg,
	})
}

// GetNotifications drains the workspace's pending notifications.
func (h *ChatHandler) GetNotifications(w http.ResponseWriter, r *http.Request) {
	ws := h.workspace(w, r)
	if ws == nil {
		return
	}
	notes := ws.Notifications.Drain()
	out := make([]dtos.NotificationDTO, 0, len(notes))
	for _, n := range notes {
		out = append(out, h.presenter.Notification(n))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ChatHandler) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, chatservice.ErrChatNotFound) {
		writeError(w, "Chat not found", http.StatusNotFound)
		return
	}
	var chatErr *chatservice.ChatError
	if errors.As(err, &chatErr) && chatErr.Type == chatservice.ErrTypeValidation {
		writeError(w, chatErr.Message, http.StatusBadRequest)
		return
	}
	h.logger.Error("chat store operation failed", "error", err)
	writeError(w, "Internal server error", http.StatusInternalServerError)
}
