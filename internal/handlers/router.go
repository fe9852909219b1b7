// File: internal/handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-brainchat/internal/middleware"
	"github.com/iyunix/go-brainchat/internal/ratelimit"
)

// RouterDeps are the pieces NewRouter wires together.
type RouterDeps struct {
	Chat           *ChatHandler
	Session        *SessionHandler
	Ledger         *LedgerHandler // optional
	JWTSecret      []byte
	SubmitLimiter  *ratelimit.MemoryRateLimiter // optional
	SessionLimiter *ratelimit.MemoryRateLimiter // optional
	AllowedOrigins []string
	Logger         Logger
}

func NewRouter(d RouterDeps) *mux.Router {
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(d.JWTSecret, d.Logger)

	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.RecoverPanic(d.Logger))
	r.Use(middleware.LoggingMiddleware(d.Logger))

	// Preflight requests need a matching route for the CORS middleware to run.
	r.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// --- Public Routes ---
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")
	r.HandleFunc("/api/log", NewFrontendLogHandler(d.Logger)).Methods("POST")

	signIn := http.Handler(http.HandlerFunc(d.Session.SignIn))
	if d.SessionLimiter != nil {
		signIn = middleware.RateLimitMiddleware(d.SessionLimiter, "session", d.Logger)(signIn)
	}
	r.Handle("/api/session", signIn).Methods("POST")

	// --- Protected Routes ---
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/session", d.Session.SignOut).Methods("DELETE")
	api.HandleFunc("/chats", d.Chat.GetState).Methods("GET")
	api.HandleFunc("/chats", d.Chat.CreateChat).Methods("POST")
	api.HandleFunc("/chats/{id}", d.Chat.GetChat).Methods("GET")
	api.HandleFunc("/chats/{id}", d.Chat.RenameChat).Methods("PATCH")
	api.HandleFunc("/chats/{id}", d.Chat.DeleteChat).Methods("DELETE")
	api.HandleFunc("/chats/{id}/active", d.Chat.SelectChat).Methods("PUT")
	api.HandleFunc("/notifications", d.Chat.GetNotifications).Methods("GET")
	api.HandleFunc("/events", d.Chat.StreamEvents).Methods("GET")
	if d.Ledger != nil {
		api.HandleFunc("/submissions", d.Ledger.GetSubmissions).Methods("GET")
	}

	submit := api.NewRoute().Subrouter()
	if d.SubmitLimiter != nil {
		submit.Use(middleware.RateLimitMiddleware(d.SubmitLimiter, "submit", d.Logger))
	}
	submit.HandleFunc("/chats/{id}/messages", d.Chat.SubmitMessage).Methods("POST")
	submit.HandleFunc("/messages", d.Chat.SubmitActive).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}
