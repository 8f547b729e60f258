// internal/nuo/definition.go
package nuo

import (
	"github.com/google/uuid"

	"github.com/cardtable/nuo/internal/deck"
	"github.com/cardtable/nuo/internal/engine"
	"github.com/cardtable/nuo/internal/events"
)

// GameType is the registry identifier for this ruleset.
const GameType = "nuo"

// Performers returns the fixed action set legal for a nuo game.
func Performers() []engine.Performer {
	play := playCardPerformer{}
	return []engine.Performer{
		playerReadyPerformer{},
		chooseColorPerformer{},
		drawCardPerformer{},
		play,
		playDrawnPerformer{play: play},
		playAgainPerformer{},
	}
}

// NewDefinition builds the process-wide definition for nuo games. Each game
// gets its own crypto-seeded deck; notifications flow into sink.
func NewDefinition(sink events.Sink) *engine.Definition {
	factory := func(emit func(string)) *deck.Deck {
		return deck.NewStandardDeck(deck.NewCryptoRand(), emit)
	}
	return NewDefinitionWithDeck(sink, factory)
}

// NewDefinitionWithDeck is NewDefinition with an injected deck factory, so
// tests can run the whole engine on seeded shuffles.
func NewDefinitionWithDeck(sink events.Sink, factory DeckFactory) *engine.Definition {
	return &engine.Definition{
		GameType: GameType,
		Create: func(id uuid.UUID, shortCode string) engine.Game {
			return NewGame(id, shortCode, sink, factory)
		},
		Performers: Performers(),
	}
}
