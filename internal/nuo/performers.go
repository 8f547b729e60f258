// internal/nuo/performers.go
package nuo

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/deck"
	"github.com/cardtable/nuo/internal/engine"
)

// Action names, stable identifiers used for dispatch and in availableActions.
const (
	ActionPlayerReady = "playerReady"
	ActionDrawCard    = "drawCard"
	ActionPlayCard    = "playCard"
	ActionPlayDrawn   = "playDrawn"
	ActionChooseColor = "chooseColor"
	ActionPlayAgain   = "playAgain"
)

// Argument keys.
const (
	argCard  = "card"
	argColor = "color"
)

// gameOf narrows the dispatcher's engine.Game back to this ruleset. The
// registry binds these performers only to nuo games, so a mismatch is a
// wiring bug, not a runtime condition.
func gameOf(g engine.Game) *Game {
	ng, ok := g.(*Game)
	if !ok {
		panic(fmt.Sprintf("nuo performer bound to foreign game type %T", g))
	}
	return ng
}

// --- playerReady ---

// playerReadyPerformer toggles the acting player's ready flag during the
// waiting phase. Once every seated player is ready (and there are at least
// two), the round starts and initial hands are dealt.
type playerReadyPerformer struct{}

func (playerReadyPerformer) Name() string { return ActionPlayerReady }

func (playerReadyPerformer) PossibleArguments(eg engine.Game, playerID uuid.UUID) ([]engine.ArgumentSet, bool) {
	g := gameOf(eg)
	if g.phase != PhaseWaiting {
		return nil, false
	}
	_, seated := g.player(playerID)
	return nil, seated
}

func (playerReadyPerformer) Apply(eg engine.Game, playerID uuid.UUID, _ engine.ArgumentSet) error {
	g := gameOf(eg)
	if g.phase != PhaseWaiting {
		return engine.WrongPhase("ready-up is only possible while waiting for a round")
	}
	p, ok := g.player(playerID)
	if !ok {
		return engine.IllegalArgument("player %s is not in this game", playerID)
	}
	p.Ready = !p.Ready
	if p.Ready {
		g.emitf("%s is ready.", p.Name)
	} else {
		g.emitf("%s is no longer ready.", p.Name)
	}

	if len(g.players) < 2 {
		return nil
	}
	for _, pl := range g.players {
		if !pl.Ready {
			return nil
		}
	}
	return g.startRound()
}

// --- drawCard ---

// drawCardPerformer draws the top card of the draw pile for the current
// player, opening the one-shot follow-up window: the drawn card may be played
// immediately via playDrawn, or a second drawCard ends the turn keeping it.
type drawCardPerformer struct{}

func (drawCardPerformer) Name() string { return ActionDrawCard }

func (drawCardPerformer) PossibleArguments(eg engine.Game, playerID uuid.UUID) ([]engine.ArgumentSet, bool) {
	g := gameOf(eg)
	if g.phase != PhaseInTurn && g.phase != PhaseAwaitingDrawnDecision {
		return nil, false
	}
	return nil, g.isCurrent(playerID)
}

func (drawCardPerformer) Apply(eg engine.Game, playerID uuid.UUID, _ engine.ArgumentSet) error {
	g := gameOf(eg)
	switch g.phase {
	case PhaseInTurn:
		if !g.isCurrent(playerID) {
			return engine.NotYourTurn("it's %s's turn", g.players[g.current].Name)
		}
		c, err := g.deck.TakeCard()
		if err != nil {
			return engine.Invariantf(err, "drawing for %s in game %s", playerID, g.id)
		}
		p := g.players[g.current]
		p.Hand = append(p.Hand, c)
		drawn := c
		g.drawn = &drawn
		g.phase = PhaseAwaitingDrawnDecision
		g.emitf("%s drew a card.", p.Name)
		return nil
	case PhaseAwaitingDrawnDecision:
		if !g.isCurrent(playerID) {
			return engine.NotYourTurn("it's %s's turn", g.players[g.current].Name)
		}
		// Second draw request inside the decision window ends the turn,
		// keeping the drawn card.
		g.emitf("%s kept the drawn card.", g.players[g.current].Name)
		g.advance(1)
		return nil
	default:
		return engine.WrongPhase("cannot draw during %s", g.phase)
	}
}

// --- playCard ---

// playCardPerformer plays a card from the current player's hand onto the
// discard pile and applies its rank effect.
type playCardPerformer struct{}

func (playCardPerformer) Name() string { return ActionPlayCard }

func (playCardPerformer) PossibleArguments(eg engine.Game, playerID uuid.UUID) ([]engine.ArgumentSet, bool) {
	g := gameOf(eg)
	if g.phase != PhaseInTurn || !g.isCurrent(playerID) {
		return nil, false
	}
	p := g.players[g.current]
	var args []engine.ArgumentSet
	seen := make(map[deck.Card]bool, len(p.Hand))
	for _, c := range p.Hand {
		if seen[c] || !g.playable(c) {
			continue
		}
		seen[c] = true
		args = append(args, engine.ArgumentSet{argCard: c.String()})
	}
	return args, len(args) > 0
}

func (pf playCardPerformer) Apply(eg engine.Game, playerID uuid.UUID, args engine.ArgumentSet) error {
	g := gameOf(eg)
	if g.phase != PhaseInTurn {
		return engine.WrongPhase("cannot play a card during %s", g.phase)
	}
	if !g.isCurrent(playerID) {
		return engine.NotYourTurn("it's %s's turn", g.players[g.current].Name)
	}
	card, ok := deck.ParseCard(args.Get(argCard))
	if !ok {
		return engine.IllegalArgument("malformed card %q", args.Get(argCard))
	}
	return pf.play(g, card)
}

// play validates the card against the current player's hand and the pile, then
// commits the play. Shared with playDrawn.
func (playCardPerformer) play(g *Game, card deck.Card) error {
	p := g.players[g.current]
	held := false
	for _, c := range p.Hand {
		if c == card {
			held = true
			break
		}
	}
	if !held {
		return engine.IllegalArgument("card %s is not in your hand", card)
	}
	if !g.playable(card) {
		top, _ := g.deck.TopDiscard()
		return engine.IllegalArgument("card %s does not match color %s or top card %s", card, g.activeColor, top)
	}

	idx := g.current
	removeFromHand(p, card)
	g.deck.Discard(card)
	g.emitf("%s played %s.", p.Name, card)

	if len(p.Hand) == 0 {
		g.phase = PhaseRoundOver
		g.winner = idx
		g.drawn = nil
		g.pendingDrawFour = false
		g.emitf("%s wins the round!", p.Name)
		return nil
	}

	switch {
	case card.IsWild():
		// Turn advance is deferred until chooseColor completes it.
		g.phase = PhaseAwaitingColorChoice
		g.chooser = idx
		g.pendingDrawFour = card.Code == deck.CodeDrawFour
		g.drawn = nil
	case card.Code == deck.CodeSkip:
		g.activeColor = card.Color
		g.advance(2)
	case card.Code == deck.CodeReverse:
		g.activeColor = card.Color
		g.reversed = !g.reversed
		if len(g.players) == 2 {
			// No opponent to cycle past: reverse acts as skip.
			g.advance(2)
		} else {
			g.advance(1)
		}
	case card.Code == deck.CodeDrawTwo:
		g.activeColor = card.Color
		if err := g.forceDraw(g.nextIndex(1), 2); err != nil {
			return err
		}
		g.advance(2)
	default:
		g.activeColor = card.Color
		g.advance(1)
	}
	return nil
}

// --- playDrawn ---

// playDrawnPerformer forwards to playCard but only for the card drawn this
// turn, so a player cannot draw and then play an unrelated hand card as if it
// were the draw.
type playDrawnPerformer struct {
	play playCardPerformer
}

func (playDrawnPerformer) Name() string { return ActionPlayDrawn }

func (playDrawnPerformer) PossibleArguments(eg engine.Game, playerID uuid.UUID) ([]engine.ArgumentSet, bool) {
	g := gameOf(eg)
	if g.phase != PhaseAwaitingDrawnDecision || !g.isCurrent(playerID) || g.drawn == nil {
		return nil, false
	}
	if !g.playable(*g.drawn) {
		return nil, false
	}
	return []engine.ArgumentSet{{argCard: g.drawn.String()}}, true
}

func (pf playDrawnPerformer) Apply(eg engine.Game, playerID uuid.UUID, args engine.ArgumentSet) error {
	g := gameOf(eg)
	if g.phase != PhaseAwaitingDrawnDecision {
		return engine.WrongPhase("no drawn card is awaiting a decision")
	}
	if !g.isCurrent(playerID) {
		return engine.NotYourTurn("it's %s's turn", g.players[g.current].Name)
	}
	if g.drawn == nil {
		return engine.Invariantf(nil, "awaiting drawn decision with no drawn card in game %s", g.id)
	}
	if raw := args.Get(argCard); raw != "" && raw != g.drawn.String() {
		return engine.IllegalArgument("card %s is not the card you just drew", raw)
	}
	card := *g.drawn
	return pf.play.play(g, card)
}

// --- chooseColor ---

// chooseColorPerformer sets the active color after a wildcard play and
// completes the deferred turn advance, including the wild-draw-four penalty.
type chooseColorPerformer struct{}

func (chooseColorPerformer) Name() string { return ActionChooseColor }

func (chooseColorPerformer) PossibleArguments(eg engine.Game, playerID uuid.UUID) ([]engine.ArgumentSet, bool) {
	g := gameOf(eg)
	if g.phase != PhaseAwaitingColorChoice || g.players[g.chooser].ID != playerID {
		return nil, false
	}
	args := make([]engine.ArgumentSet, 0, len(deck.Colors))
	for _, c := range deck.Colors {
		args = append(args, engine.ArgumentSet{argColor: c.String()})
	}
	return args, true
}

func (chooseColorPerformer) Apply(eg engine.Game, playerID uuid.UUID, args engine.ArgumentSet) error {
	g := gameOf(eg)
	if g.phase != PhaseAwaitingColorChoice {
		return engine.WrongPhase("no color choice is pending")
	}
	chooser := g.players[g.chooser]
	if chooser.ID != playerID {
		return engine.NotYourTurn("only %s may choose the color", chooser.Name)
	}
	color, ok := deck.ParseColor(args.Get(argColor))
	if !ok {
		return engine.IllegalArgument("malformed color %q", args.Get(argColor))
	}

	g.activeColor = color
	g.emitf("%s chose %s.", chooser.Name, color)
	if g.pendingDrawFour {
		g.pendingDrawFour = false
		if err := g.forceDraw(g.nextIndex(1), 4); err != nil {
			return err
		}
		g.advance(2)
		return nil
	}
	g.advance(1)
	return nil
}

// --- playAgain ---

// playAgainPerformer resets a concluded round back to the waiting phase with a
// rebuilt deck and cleared ready flags.
type playAgainPerformer struct{}

func (playAgainPerformer) Name() string { return ActionPlayAgain }

func (playAgainPerformer) PossibleArguments(eg engine.Game, playerID uuid.UUID) ([]engine.ArgumentSet, bool) {
	g := gameOf(eg)
	if g.phase != PhaseRoundOver {
		return nil, false
	}
	_, seated := g.player(playerID)
	return nil, seated
}

func (playAgainPerformer) Apply(eg engine.Game, playerID uuid.UUID, _ engine.ArgumentSet) error {
	g := gameOf(eg)
	if g.phase != PhaseRoundOver {
		return engine.WrongPhase("the round is still in progress")
	}
	if _, ok := g.player(playerID); !ok {
		return engine.IllegalArgument("player %s is not in this game", playerID)
	}
	g.resetRound()
	return nil
}
