package api

import (
	"net/http"

	"route-notify-service/internal/api/handlers"
	"route-notify-service/internal/config"
	"route-notify-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root: handlers stay unaware
// of which concrete session store backs the gate.
func NewRouter(cfg *config.Service, sessions ports.SessionStore) http.Handler {
	mux := http.NewServeMux()

	smsHandler := &handlers.SMSHandler{Cfg: cfg}
	authHandler := &handlers.AuthHandler{Cfg: cfg, Sessions: sessions}

	limiter := newLoginLimiter()
	guard := func(h http.HandlerFunc) http.Handler {
		return requireSession(sessions, cfg.SessionTimeout, h)
	}

	mux.HandleFunc("/health", handlers.Health)

	mux.Handle("/auth/login", limiter.middleware(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("/auth/logout", authHandler.Logout)
	mux.HandleFunc("/auth/status", authHandler.Status)

	mux.Handle("/sms/send", guard(smsHandler.Send))
	mux.Handle("/sms/preview", guard(smsHandler.Preview))
	mux.Handle("/sms/test", guard(smsHandler.Test))

	return loggingMiddleware(mux)
}
