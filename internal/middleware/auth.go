package middleware

import (
	"net/http"

	"whosfordinner/internal/store"
)

const sessionCookieName = "session"

// RequireAuth redirects to /login unless the request carries a valid
// session cookie. The whole household shares one PIN, so there is no
// per-user identity to attach; a valid session is all it takes.
func RequireAuth(sessions *store.SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			ok, err := sessions.Validate(cookie.Value)
			if err != nil || !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
