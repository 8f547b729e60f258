// internal/handlers/api_server.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/engine"
	"github.com/cardtable/nuo/internal/events"
)

// Server is the thin HTTP host around the rules engine: it owns the
// dispatcher, the event fan-out for WebSocket feeds, and the per-player
// display names the engine itself doesn't track.
type Server struct {
	Log        *log.Logger
	Dispatcher *engine.Dispatcher
	Events     *events.Broadcaster

	mu    sync.Mutex
	names map[uuid.UUID]string
}

func NewServer(logger *log.Logger, dispatcher *engine.Dispatcher, broadcaster *events.Broadcaster) *Server {
	return &Server{
		Log:        logger,
		Dispatcher: dispatcher,
		Events:     broadcaster,
		names:      make(map[uuid.UUID]string),
	}
}

// GameResponse wraps every game-scoped reply: the canonical action/poll path
// for the game plus the caller's view of it.
type GameResponse struct {
	Path       string      `json:"path"`
	PlayerView interface{} `json:"playerView"`
}

func (s *Server) playerName(playerID uuid.UUID) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.names[playerID]
}

func (s *Server) setPlayerName(playerID uuid.UUID, name string) {
	s.mu.Lock()
	s.names[playerID] = name
	s.mu.Unlock()
}

// writeJSON writes a JSON response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warnf("failed to encode response: %v", err)
	}
}

// errorBody is the JSON shape of a rejected request.
type errorBody struct {
	Error struct {
		Kind   string `json:"kind"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func asActionError(err error) (*engine.ActionError, bool) {
	var actionErr *engine.ActionError
	if errors.As(err, &actionErr) {
		return actionErr, true
	}
	return nil, false
}

// writeActionError maps engine error kinds onto HTTP statuses. Invariant
// violations surface as 500s; everything else is a clean rejection.
func (s *Server) writeActionError(w http.ResponseWriter, err error) {
	var body errorBody

	if actionErr, ok := asActionError(err); ok {
		body.Error.Kind = string(actionErr.Kind)
		body.Error.Reason = actionErr.Reason
		status := http.StatusBadRequest
		switch actionErr.Kind {
		case engine.KindNoSuchGame, engine.KindNoSuchAction:
			status = http.StatusNotFound
		case engine.KindNotYourTurn, engine.KindWrongPhase:
			status = http.StatusConflict
		}
		writeJSON(w, status, body)
		return
	}

	s.Log.WithError(err).Error("internal error handling action")
	body.Error.Kind = "internal"
	body.Error.Reason = "internal server error"
	writeJSON(w, http.StatusInternalServerError, body)
}
