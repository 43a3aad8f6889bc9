package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"route-notify-service/internal/api/dto"
	"route-notify-service/internal/config"
	"route-notify-service/internal/ports"
)

// SessionCookie is the browser cookie carrying the session token.
const SessionCookie = "session_token"

// AuthHandler implements the password login gate in front of the
// notification endpoints.
type AuthHandler struct {
	Cfg      *config.Service
	Sessions ports.SessionStore
}

// ResolveSession returns the live session for the request, or nil plus a
// caller-facing reason. Sessions past the configured timeout are deleted
// on sight.
func ResolveSession(r *http.Request, store ports.SessionStore, timeout time.Duration) (*ports.Session, string) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, "authentication required"
	}

	sess, err := store.Get(r.Context(), cookie.Value)
	if err != nil {
		log.Printf("session lookup failed: %v", err)
		return nil, "authentication required"
	}
	if sess == nil {
		return nil, "authentication required"
	}

	if time.Since(sess.LoginTime) > timeout {
		if err := store.Delete(r.Context(), sess.Token); err != nil {
			log.Printf("expired session delete failed: %v", err)
		}
		return nil, "session expired"
	}

	return sess, ""
}

// Login checks the admin password and establishes a session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Password == "" {
		writeError(w, r, http.StatusBadRequest, "password is required")
		return
	}

	if req.Password != h.Cfg.AdminPassword {
		writeError(w, r, http.StatusUnauthorized, "invalid password")
		return
	}

	sess := ports.Session{
		Token:     uuid.NewString(),
		LoginTime: time.Now().UTC(),
	}

	if err := h.Sessions.Put(r.Context(), sess, h.Cfg.SessionTimeout); err != nil {
		log.Printf("session create failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.Cfg.SessionTimeout.Seconds()),
	})

	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "login successful"})
}

// Logout deletes the session and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		if err := h.Sessions.Delete(r.Context(), cookie.Value); err != nil {
			log.Printf("session delete failed: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	writeJSON(w, r, http.StatusOK, dto.MessageResponse{Success: true, Message: "logged out successfully"})
}

// Status reports whether the caller holds a live session.
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	sess, _ := ResolveSession(r, h.Sessions, h.Cfg.SessionTimeout)
	if sess == nil {
		writeJSON(w, r, http.StatusOK, dto.AuthStatusResponse{Authenticated: false})
		return
	}

	loginTime := sess.LoginTime
	writeJSON(w, r, http.StatusOK, dto.AuthStatusResponse{
		Authenticated: true,
		LoginTime:     &loginTime,
	})
}
