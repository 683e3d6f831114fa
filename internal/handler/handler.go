// Package handler holds the HTTP handlers for the dinner planner: login,
// the week view with its form intents, meal management and photo serving.
package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
)

const sessionCookieName = "session"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// weekRedirect sends the browser back to the week view, preserving the
// week the form was submitted from.
func weekRedirect(w http.ResponseWriter, r *http.Request) {
	target := "/"
	if wk := r.FormValue("week"); wk != "" {
		target = "/?week=" + url.QueryEscape(wk)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}
