package handler

import (
	"crypto/subtle"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"whosfordinner/internal/store"
)

const sessionMaxAge = 14 * 24 * 60 * 60 // seconds, matches the session TTL

// AuthHandler runs the shared-PIN login. Either pin (plaintext compare)
// or pinHash (bcrypt) is set; pinHash wins when both are.
type AuthHandler struct {
	pin       string
	pinHash   string
	sessions  *store.SessionStore
	templates *template.Template
	logger    *slog.Logger
}

func NewAuthHandler(pin, pinHash string, sessions *store.SessionStore, templates *template.Template, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		pin:       pin,
		pinHash:   pinHash,
		sessions:  sessions,
		templates: templates,
		logger:    logger,
	}
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	pin := strings.TrimSpace(r.FormValue("pin"))
	if pin == "" || !h.pinOK(pin) {
		w.WriteHeader(http.StatusUnauthorized)
		h.render(w, map[string]any{"Error": "Wrong PIN, try again."})
		return
	}

	sess, err := h.sessions.Issue()
	if err != nil {
		h.logger.Error("issue session", "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   r.TLS != nil,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Revoke(cookie.Value); err != nil {
			h.logger.Error("revoke session", "error", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) pinOK(pin string) bool {
	if h.pinHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(h.pinHash), []byte(pin)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(h.pin), []byte(pin)) == 1
}

func (h *AuthHandler) render(w http.ResponseWriter, data any) {
	if err := h.templates.ExecuteTemplate(w, "login.html", data); err != nil {
		h.logger.Error("render login", "error", err)
	}
}
