// internal/engine/performer.go
package engine

import "github.com/google/uuid"

// ArgumentSet is one concrete argument combination for an action, as it travels
// on the wire: flat string keys and values (cards as "r7", colors as "b").
type ArgumentSet map[string]string

// Get returns the named argument, or "" if absent.
func (a ArgumentSet) Get(key string) string {
	if a == nil {
		return ""
	}
	return a[key]
}

// AvailableAction is the client-facing affordance for one currently-legal
// action: its dispatch name plus every argument combination that would be
// accepted right now. Actions that take no arguments carry an empty list.
type AvailableAction struct {
	Name              string        `json:"name"`
	PossibleArguments []ArgumentSet `json:"possibleArguments"`
}

// Game is the minimal surface the dispatcher needs from a live game instance.
// All mutation happens inside the dispatcher's per-game exclusive scope, so
// implementations carry no locking of their own.
type Game interface {
	ID() uuid.UUID
	ShortCode() string

	// Join adds a player, or is a no-op for a player already seated.
	Join(playerID uuid.UUID, name string) error

	// Rename updates a seated player's display name; unknown players are
	// ignored so a global rename can be fanned out to every game.
	Rename(playerID uuid.UUID, name string)

	// View builds the player-scoped public projection. actions is the
	// dispatcher-computed affordance list for this player.
	View(playerID uuid.UUID, actions []AvailableAction) interface{}
}

// Performer is one named unit of game logic: it can enumerate the argument
// sets it would currently accept for a player, and atomically validate+apply
// one of them. Validation must not mutate the game, and Apply must leave the
// game unchanged on any rejection.
type Performer interface {
	// Name is the stable identifier used for dispatch.
	Name() string

	// PossibleArguments enumerates every argument combination Apply would
	// accept right now for this player. legal distinguishes a no-argument
	// action that is currently allowed (nil, true) from one that is not
	// (nil, false); it must be consistent with Apply.
	PossibleArguments(g Game, playerID uuid.UUID) (args []ArgumentSet, legal bool)

	// Apply validates and, if legal, mutates g. Rejections are *ActionError;
	// anything else is treated as an internal failure.
	Apply(g Game, playerID uuid.UUID, args ArgumentSet) error
}

// Definition is the immutable configuration for one game type: its identifier,
// a factory for fresh instances, and the fixed performer set legal for it.
type Definition struct {
	GameType   string
	Create     func(id uuid.UUID, shortCode string) Game
	Performers []Performer
}
