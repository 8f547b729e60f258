// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// EventsHandler upgrades the connection to WebSocket and streams the game's
// advisory notification feed. The feed is human-readable text frames; it is
// not required for correctness, clients poll the game path for state.
func (s *Server) EventsHandler(w http.ResponseWriter, r *http.Request, gameID uuid.UUID) {
	c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		Subprotocols:   []string{"nuo-events"},
		OriginPatterns: []string{"*"}, // Adjust for production security.
	})
	if err != nil {
		s.Log.Warnf("WebSocket accept error for game %s: %v", gameID, err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "handler exit")

	s.Log.Infof("event feed connected for game %s from %s", gameID, r.RemoteAddr)

	ch, cancel := s.Events.Subscribe(gameID)
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			c.Close(websocket.StatusNormalClosure, "client gone")
			return
		case msg := <-ch:
			writeCtx, writeCancel := context.WithTimeout(ctx, 5*time.Second)
			err := c.Write(writeCtx, websocket.MessageText, []byte(msg))
			writeCancel()
			if err != nil {
				s.Log.Infof("event feed closed for game %s: %v", gameID, err)
				return
			}
		}
	}
}
