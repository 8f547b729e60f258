// internal/handlers/player.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/auth"
)

// extractCookieToken extracts a named cookie value from the "Cookie" header,
// or returns empty if not found.
func extractCookieToken(cookieHeader, cookieName string) string {
	parts := strings.Split(cookieHeader, cookieName+"=")
	if len(parts) < 2 {
		return ""
	}
	token := parts[1]
	if idx := strings.Index(token, ";"); idx != -1 {
		token = token[:idx]
	}
	return token
}

// EnsurePlayer resolves the caller to a player id. A caller without a valid
// session token gets a fresh ephemeral player and a session cookie; there are
// no accounts, a player exists as long as their cookie does.
func (s *Server) EnsurePlayer(w http.ResponseWriter, r *http.Request) (uuid.UUID, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	if token != "" {
		if sub, err := auth.AuthenticateJWT(token); err == nil {
			if playerID, parseErr := uuid.Parse(sub); parseErr == nil {
				return playerID, nil
			}
		}
		// Bad or stale token: fall through and mint a new player.
	}

	playerID := uuid.New()
	newToken, err := auth.CreateJWT(playerID.String())
	if err != nil {
		return uuid.Nil, err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "auth_token",
		Value:    newToken,
		HttpOnly: true,
		Path:     "/",
	})
	return playerID, nil
}

// PlayerNameHandler sets the caller's display name and propagates it to every
// game they are seated at. The body is a bare JSON string, e.g. "Ada".
func (s *Server) PlayerNameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	playerID, err := s.EnsurePlayer(w, r)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	var name string
	if err := json.NewDecoder(r.Body).Decode(&name); err != nil || strings.TrimSpace(name) == "" {
		http.Error(w, "body must be a non-empty JSON string", http.StatusBadRequest)
		return
	}
	name = strings.TrimSpace(name)

	s.setPlayerName(playerID, name)
	s.Dispatcher.RenamePlayer(playerID, name)
	w.WriteHeader(http.StatusNoContent)
}
