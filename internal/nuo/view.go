// internal/nuo/view.go
package nuo

import (
	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/engine"
)

// PlayerInfo is the public part of a seat: no hand contents.
type PlayerInfo struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Ready bool      `json:"ready"`
}

// SelfState reveals the requesting player's own cards.
type SelfState struct {
	Hand  []string `json:"hand"`
	Drawn string   `json:"drawn,omitempty"`
}

// OpponentState is the public card count for one seat during a round.
type OpponentState struct {
	ID        uuid.UUID `json:"id"`
	CardCount int       `json:"cardCount"`
}

// PlayerView is the player-scoped projection handed to the transport layer.
// Other players' hands never appear here, only their card counts.
type PlayerView struct {
	Self              PlayerInfo               `json:"self"`
	ShortCode         string                   `json:"shortCode"`
	AvailableActions  []engine.AvailableAction `json:"availableActions"`
	Players           []PlayerInfo             `json:"players"`
	Phase             string                   `json:"phase"`
	ReversedDirection bool                     `json:"reversedDirection"`
	Current           *uuid.UUID               `json:"current"`
	Winner            *uuid.UUID               `json:"winner"`
	WildColor         string                   `json:"wildColor,omitempty"`
	DiscardTop        string                   `json:"discardTop,omitempty"`
	DrawPileSize      int                      `json:"drawPileSize"`
	NuoSelf           *SelfState               `json:"nuoSelf"`
	NuoPlayers        []OpponentState          `json:"nuoPlayers"`
}

// View implements engine.Game. Caller holds the game's exclusive scope.
func (g *Game) View(playerID uuid.UUID, actions []engine.AvailableAction) interface{} {
	view := PlayerView{
		Self:              PlayerInfo{ID: playerID, Name: defaultName},
		ShortCode:         g.shortCode,
		AvailableActions:  actions,
		Players:           make([]PlayerInfo, 0, len(g.players)),
		Phase:             g.phase.String(),
		ReversedDirection: g.reversed,
		WildColor:         g.activeColor.String(),
		DrawPileSize:      g.deck.DrawCount(),
	}
	for _, p := range g.players {
		view.Players = append(view.Players, PlayerInfo{ID: p.ID, Name: p.Name, Ready: p.Ready})
	}

	if self, ok := g.player(playerID); ok {
		view.Self.Name = self.Name
		view.Self.Ready = self.Ready
		if g.phase != PhaseWaiting {
			state := &SelfState{Hand: make([]string, 0, len(self.Hand))}
			for _, c := range self.Hand {
				state.Hand = append(state.Hand, c.String())
			}
			if g.drawn != nil && g.isCurrent(playerID) {
				state.Drawn = g.drawn.String()
			}
			view.NuoSelf = state
		}
	}

	if g.phase != PhaseWaiting {
		current := g.players[g.current].ID
		view.Current = &current
		if top, ok := g.deck.TopDiscard(); ok {
			view.DiscardTop = top.String()
		}
		view.NuoPlayers = make([]OpponentState, 0, len(g.players))
		for _, p := range g.players {
			view.NuoPlayers = append(view.NuoPlayers, OpponentState{ID: p.ID, CardCount: len(p.Hand)})
		}
	}
	if g.winner >= 0 {
		winner := g.players[g.winner].ID
		view.Winner = &winner
	}
	return view
}
