// internal/handlers/game.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/engine"
	"github.com/cardtable/nuo/internal/nuo"
)

// gamePath is the canonical action/poll path for a game.
func gamePath(gameID uuid.UUID) string {
	return "/api/" + nuo.GameType + "/" + gameID.String()
}

// CreateGameHandler creates a fresh game and returns its id, join code and
// canonical path. POST /api/game with optional {"gameType": "nuo"}.
func (s *Server) CreateGameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req struct {
		GameType string `json:"gameType"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "malformed request body", http.StatusBadRequest)
			return
		}
	}
	if req.GameType == "" {
		req.GameType = nuo.GameType
	}

	gameID, shortCode, err := s.Dispatcher.CreateGame(req.GameType)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        gameID,
		"shortCode": shortCode,
		"path":      gamePath(gameID),
	})
}

// JoinGameHandler seats the caller at the game with the given join code.
// PUT /api/join/{shortCode}.
func (s *Server) JoinGameHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	shortCode := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/join/"))
	if shortCode == "" || strings.Contains(shortCode, "/") {
		http.Error(w, "missing short code (/api/join/{shortCode})", http.StatusBadRequest)
		return
	}
	playerID, err := s.EnsurePlayer(w, r)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	gameID, view, err := s.Dispatcher.Join(shortCode, playerID, s.playerName(playerID))
	if err != nil {
		s.writeActionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, GameResponse{Path: gamePath(gameID), PlayerView: view})
}

// actionRequest is the body of an action submission.
type actionRequest struct {
	Name string             `json:"name"`
	Args engine.ArgumentSet `json:"args,omitempty"`
}

// GameHandler serves the per-game path: GET polls the caller's view, POST
// submits an action. /api/nuo/{gameID}[/events].
func (s *Server) GameHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/"+nuo.GameType+"/")
	parts := strings.Split(rest, "/")
	if len(parts) < 1 || parts[0] == "" {
		http.Error(w, "missing game id (/api/"+nuo.GameType+"/{gameID})", http.StatusBadRequest)
		return
	}
	gameID, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}
	if len(parts) > 1 && parts[1] == "events" {
		s.EventsHandler(w, r, gameID)
		return
	}

	playerID, err := s.EnsurePlayer(w, r)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	switch r.Method {
	case http.MethodGet:
		view, err := s.Dispatcher.View(gameID, playerID)
		if err != nil {
			s.writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, GameResponse{Path: gamePath(gameID), PlayerView: view})
	case http.MethodPost:
		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "body must be {\"name\": ..., \"args\": {...}}", http.StatusBadRequest)
			return
		}
		view, err := s.Dispatcher.Submit(gameID, playerID, req.Name, req.Args)
		if err != nil {
			s.writeActionError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, GameResponse{Path: gamePath(gameID), PlayerView: view})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
