package middleware

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/iyunix/go-brainchat/internal/auth"
)

// NewJWTMiddleware validates the workspace token from the auth_token cookie
// or an Authorization: Bearer header and stores the owner id in the context.
func NewJWTMiddleware(secretKey []byte, logger Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, fromCookie := tokenFromRequest(r)
			if token == "" {
				logger.Debug("missing workspace token", "path", r.URL.Path)
				writeUnauthorized(w, "Sign in required")
				return
			}

			ownerID, err := auth.ValidateToken(token, secretKey)
			if err != nil {
				logger.Warn("invalid workspace token", "path", r.URL.Path, "error", err)
				if fromCookie {
					ClearAuthCookie(w)
				}
				writeUnauthorized(w, "Invalid or expired session")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwnerID(r.Context(), ownerID)))
		})
	}
}

func tokenFromRequest(r *http.Request) (token string, fromCookie bool) {
	if h := r.Header.Get("Authorization"); h != "" {
		if rest, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(rest), false
		}
	}
	if cookie, err := r.Cookie(AuthCookieName); err == nil {
		return cookie.Value, true
	}
	return "", false
}

// SetAuthCookie stores token in the auth_token cookie.
func SetAuthCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
