// internal/nuo/game.go
package nuo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/deck"
	"github.com/cardtable/nuo/internal/engine"
	"github.com/cardtable/nuo/internal/events"
)

// Phase is the coarse-grained turn state of a game.
type Phase int

const (
	// PhaseWaiting is the pre-round lobby state; only playerReady is legal.
	PhaseWaiting Phase = iota
	// PhaseInTurn accepts drawCard or playCard from the current player.
	PhaseInTurn
	// PhaseAwaitingDrawnDecision follows drawCard: the current player either
	// plays the drawn card (playDrawn) or ends the turn keeping it.
	PhaseAwaitingDrawnDecision
	// PhaseAwaitingColorChoice follows a wildcard play; only chooseColor from
	// the player who played it is legal, and the turn does not advance until
	// the color is set.
	PhaseAwaitingColorChoice
	// PhaseRoundOver is entered when a hand empties; only playAgain is legal.
	PhaseRoundOver
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseInTurn:
		return "inTurn"
	case PhaseAwaitingDrawnDecision:
		return "awaitingDrawnDecision"
	case PhaseAwaitingColorChoice:
		return "awaitingColorChoice"
	case PhaseRoundOver:
		return "roundOver"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Player is one seat at the table.
type Player struct {
	ID    uuid.UUID
	Name  string
	Ready bool
	Hand  []deck.Card
}

const (
	initialHandSize = 7
	maxPlayers      = 10
	defaultName     = "Unknown"
)

// DeckFactory builds a fresh shuffled deck wired to an event emitter. The
// production factory uses crypto-strong randomness; tests inject a seeded one.
type DeckFactory func(emit func(string)) *deck.Deck

// Game holds the entire authoritative state for one match. It carries no lock
// of its own: the dispatcher serializes all access within a per-game exclusive
// scope, so exactly one action is ever in flight against an instance.
type Game struct {
	id        uuid.UUID
	shortCode string

	players     []*Player
	phase       Phase
	current     int
	reversed    bool
	activeColor deck.Color
	deck        *deck.Deck

	// drawn is the card taken by the current player this turn, set only in
	// PhaseAwaitingDrawnDecision.
	drawn *deck.Card
	// chooser indexes the player who owes a color choice, set only in
	// PhaseAwaitingColorChoice.
	chooser int
	// pendingDrawFour defers the wild-draw-four penalty until the color is
	// chosen, so the forced draw and the skip happen in one committed step.
	pendingDrawFour bool
	// winner indexes the player whose hand emptied, or -1.
	winner int

	sink    events.Sink
	newDeck DeckFactory
}

// NewGame builds an empty waiting-phase game with a freshly shuffled deck.
func NewGame(id uuid.UUID, shortCode string, sink events.Sink, newDeck DeckFactory) *Game {
	if sink == nil {
		sink = events.NopSink{}
	}
	g := &Game{
		id:        id,
		shortCode: shortCode,
		phase:     PhaseWaiting,
		winner:    -1,
		sink:      sink,
		newDeck:   newDeck,
	}
	g.deck = newDeck(g.emit)
	return g
}

func (g *Game) ID() uuid.UUID {
	return g.id
}

func (g *Game) ShortCode() string {
	return g.shortCode
}

// Join seats a new player. Joining is only possible before a round starts;
// a player already seated is a no-op (reconnects re-use the seat).
func (g *Game) Join(playerID uuid.UUID, name string) error {
	if _, ok := g.player(playerID); ok {
		return nil
	}
	if g.phase != PhaseWaiting {
		return engine.WrongPhase("game %s is already in progress", g.shortCode)
	}
	if len(g.players) >= maxPlayers {
		return engine.IllegalArgument("game %s is full", g.shortCode)
	}
	if name == "" {
		name = defaultName
	}
	g.players = append(g.players, &Player{ID: playerID, Name: name})
	g.emitf("%s joined the game.", name)
	return nil
}

// Rename updates a seated player's display name; unknown players are ignored.
func (g *Game) Rename(playerID uuid.UUID, name string) {
	if name == "" {
		return
	}
	if p, ok := g.player(playerID); ok {
		p.Name = name
	}
}

// player finds a seat by player id.
func (g *Game) player(playerID uuid.UUID) (*Player, bool) {
	for _, p := range g.players {
		if p.ID == playerID {
			return p, true
		}
	}
	return nil, false
}

func (g *Game) playerIndex(playerID uuid.UUID) int {
	for i, p := range g.players {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

// isCurrent reports whether it is this player's turn.
func (g *Game) isCurrent(playerID uuid.UUID) bool {
	return len(g.players) > 0 && g.players[g.current].ID == playerID
}

// nextIndex computes the seat the given number of steps away in play
// direction. steps=1 is the next player, steps=2 skips one.
func (g *Game) nextIndex(steps int) int {
	n := len(g.players)
	d := steps % n
	if g.reversed {
		d = -d
	}
	return ((g.current+d)%n + n) % n
}

// advance commits a turn change: the drawn-card window closes and play moves
// the given number of steps.
func (g *Game) advance(steps int) {
	g.current = g.nextIndex(steps)
	g.drawn = nil
	g.phase = PhaseInTurn
	g.emitf("It's %s's turn.", g.players[g.current].Name)
}

// startRound deals initial hands and flips the discard pile's first card.
// Flipped wildcards stay buried in the discard; flipping continues until a
// colored card tops the pile and sets the active color.
func (g *Game) startRound() error {
	for _, p := range g.players {
		p.Hand = make([]deck.Card, 0, initialHandSize)
		for i := 0; i < initialHandSize; i++ {
			c, err := g.deck.TakeCard()
			if err != nil {
				return engine.Invariantf(err, "dealing initial hand in game %s", g.id)
			}
			p.Hand = append(p.Hand, c)
		}
	}
	for {
		c, err := g.deck.TakeCard()
		if err != nil {
			return engine.Invariantf(err, "flipping first discard in game %s", g.id)
		}
		g.deck.Discard(c)
		if !c.IsWild() {
			g.activeColor = c.Color
			break
		}
	}
	g.current = 0
	g.reversed = false
	g.winner = -1
	g.phase = PhaseInTurn
	g.emitf("Round started. It's %s's turn.", g.players[g.current].Name)
	return nil
}

// resetRound rebuilds the deck and returns the game to the waiting phase.
func (g *Game) resetRound() {
	g.deck = g.newDeck(g.emit)
	for _, p := range g.players {
		p.Hand = nil
		p.Ready = false
	}
	g.phase = PhaseWaiting
	g.current = 0
	g.reversed = false
	g.activeColor = deck.NoColor
	g.drawn = nil
	g.pendingDrawFour = false
	g.winner = -1
	g.emit("New round: waiting for players to ready up.")
}

// playable reports whether the card could be played on the current pile: a
// wildcard always, otherwise a match on active color or on the top card's
// rank.
func (g *Game) playable(c deck.Card) bool {
	if c.IsWild() {
		return true
	}
	if c.Color == g.activeColor {
		return true
	}
	top, ok := g.deck.TopDiscard()
	return ok && top.Code == c.Code
}

// removeFromHand removes one copy of the card from the player's hand.
func removeFromHand(p *Player, card deck.Card) bool {
	for i, c := range p.Hand {
		if c == card {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// forceDraw makes the player at idx draw count cards (draw-two / draw-four
// penalties).
func (g *Game) forceDraw(idx, count int) error {
	p := g.players[idx]
	for i := 0; i < count; i++ {
		c, err := g.deck.TakeCard()
		if err != nil {
			return engine.Invariantf(err, "forced draw of %d for %s in game %s", count, p.Name, g.id)
		}
		p.Hand = append(p.Hand, c)
	}
	g.emitf("%s draws %d.", p.Name, count)
	return nil
}

// cardCount sums every card the game tracks. It must equal the standard deck
// size for any reachable state.
func (g *Game) cardCount() int {
	total := g.deck.DrawCount() + g.deck.DiscardCount()
	for _, p := range g.players {
		total += len(p.Hand)
	}
	return total
}

func (g *Game) emit(message string) {
	g.sink.Event(g.id, message)
}

func (g *Game) emitf(format string, args ...interface{}) {
	g.emit(fmt.Sprintf(format, args...))
}
