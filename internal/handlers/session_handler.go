// File: internal/handlers/session_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/iyunix/go-brainchat/internal/auth"
	"github.com/iyunix/go-brainchat/internal/dtos"
	"github.com/iyunix/go-brainchat/internal/idgen"
	"github.com/iyunix/go-brainchat/internal/middleware"
	"github.com/iyunix/go-brainchat/internal/ratelimit"
	"github.com/iyunix/go-brainchat/internal/services"
)

// SessionHandler issues and revokes workspace tokens. Sign-in is a mock:
// anyone may start a session and gets a fresh workspace.
type SessionHandler struct {
	chats        *services.ChatService
	secret       []byte
	ttl          time.Duration
	secureCookie bool
	ids          idgen.Generator
	logger       Logger

	submitLimiter *ratelimit.MemoryRateLimiter
}

func NewSessionHandler(cs *services.ChatService, secret []byte, ttl time.Duration, secureCookie bool, logger Logger) *SessionHandler {
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &SessionHandler{
		chats:        cs,
		secret:       secret,
		ttl:          ttl,
		secureCookie: secureCookie,
		ids:          idgen.New("ws_"),
		logger:       logger,
	}
}

// SetSubmitLimiter lets sign-out discard the workspace's submit counters.
func (h *SessionHandler) SetSubmitLimiter(l *ratelimit.MemoryRateLimiter) {
	h.submitLimiter = l
}

// SignIn returns a token for a new workspace, or refreshes the caller's
// token when it still carries a valid one for a live workspace.
func (h *SessionHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	ownerID := ""
	if cookie, err := r.Cookie(middleware.AuthCookieName); err == nil {
		if id, err := auth.ValidateToken(cookie.Value, h.secret); err == nil {
			// Only a workspace that still exists is resumed; an evicted one
			// starts over under a new id.
			if _, live := h.chats.Lookup(id); live {
				ownerID = id
			} else {
				h.logger.Debug("workspace expired; starting a new one", "owner_id", id)
			}
		}
	}
	if ownerID == "" {
		ownerID = h.ids.NewID()
	}

	token, err := auth.GenerateJWT(ownerID, h.secret, h.ttl)
	if err != nil {
		h.logger.Error("failed to sign workspace token", "error", err)
		writeError(w, "Could not start session", http.StatusInternalServerError)
		return
	}
	if _, err := h.chats.Workspace(ownerID); err != nil {
		h.logger.Error("failed to open workspace", "owner_id", ownerID, "error", err)
		writeError(w, "Could not start session", http.StatusInternalServerError)
		return
	}

	middleware.SetAuthCookie(w, token, h.ttl, h.secureCookie)
	h.logger.Info("session started", "owner_id", ownerID)
	writeJSON(w, http.StatusOK, dtos.SessionResponseDTO{
		Token:     token,
		OwnerID:   ownerID,
		ExpiresAt: time.Now().Add(h.ttl).UTC().Format(time.RFC3339),
	})
}

// SignOut drops the caller's workspace and clears the cookie.
func (h *SessionHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	if ownerID, ok := middleware.OwnerID(r.Context()); ok {
		h.chats.Drop(ownerID)
		if h.submitLimiter != nil {
			h.submitLimiter.Reset(middleware.OwnerRateKey(ownerID))
		}
		h.logger.Info("session ended", "owner_id", ownerID)
	}
	middleware.ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
