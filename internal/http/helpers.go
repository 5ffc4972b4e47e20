// Package http implements the gateway's managed REST/OpenAI-compatible HTTP
// surface, layered on top of net/http. It is a sibling of internal/gateway's
// WebSocket RPC surface, not a replacement for it.
package http

import (
	"encoding/json"
	"net/http"
	"regexp"
	"strings"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// extractBearerToken pulls the token out of "Authorization: Bearer <token>".
func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// extractUserID reads the external user id managed mode threads through
// requests via a custom header (standalone mode never sets it).
func extractUserID(r *http.Request) string {
	return r.Header.Get("X-GoClaw-User-Id")
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

func isValidSlug(s string) bool {
	return s != "" && len(s) <= 64 && slugPattern.MatchString(s)
}
