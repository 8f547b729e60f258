// internal/engine/dispatcher.go
package engine

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// instance pairs a live game with its definition and the mutual-exclusion
// scope that serializes every action against it. Exactly one action is in
// flight per game; different games proceed in parallel.
type instance struct {
	mu   sync.Mutex
	reg  *registration
	game Game
}

// Dispatcher holds the live games and routes incoming (gameId, playerId,
// actionName, args) tuples to the matching performer.
type Dispatcher struct {
	registry *Registry
	log      *logrus.Logger

	mu     sync.Mutex // guards the maps only, never held during Apply
	games  map[uuid.UUID]*instance
	byCode map[string]*instance
}

func NewDispatcher(registry *Registry, logger *logrus.Logger) *Dispatcher {
	if logger == nil {
		logger = logrus.New()
	}
	return &Dispatcher{
		registry: registry,
		log:      logger,
		games:    make(map[uuid.UUID]*instance),
		byCode:   make(map[string]*instance),
	}
}

// CreateGame instantiates a fresh game of the given type and returns its id
// and join code.
func (d *Dispatcher) CreateGame(gameType string) (uuid.UUID, string, error) {
	reg, ok := d.registry.lookup(gameType)
	if !ok {
		return uuid.Nil, "", fmt.Errorf("%w: %q", ErrUnknownGameType, gameType)
	}

	id := uuid.New()

	d.mu.Lock()
	defer d.mu.Unlock()
	code := newShortCode()
	for _, taken := d.byCode[code]; taken; _, taken = d.byCode[code] {
		code = newShortCode()
	}
	inst := &instance{reg: reg, game: reg.def.Create(id, code)}
	d.games[id] = inst
	d.byCode[code] = inst

	d.log.WithFields(logrus.Fields{
		"game_type":  gameType,
		"game_id":    id,
		"short_code": code,
	}).Info("created game")
	return id, code, nil
}

// RemoveGame discards a live game, e.g. once all players have left.
func (d *Dispatcher) RemoveGame(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	inst, ok := d.games[id]
	if !ok {
		return
	}
	delete(d.games, id)
	delete(d.byCode, inst.game.ShortCode())
	d.log.WithField("game_id", id).Info("removed game")
}

// Join seats a player at the game with the given short code and returns the
// game id plus the player's first view of it.
func (d *Dispatcher) Join(shortCode string, playerID uuid.UUID, name string) (uuid.UUID, interface{}, error) {
	d.mu.Lock()
	inst, ok := d.byCode[shortCode]
	d.mu.Unlock()
	if !ok {
		return uuid.Nil, nil, NoSuchGame("no game with code %q", shortCode)
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	if err := inst.game.Join(playerID, name); err != nil {
		return uuid.Nil, nil, err
	}
	return inst.game.ID(), d.buildView(inst, playerID), nil
}

// RenamePlayer updates the player's display name in every game they are
// seated at. Games without that player ignore the call.
func (d *Dispatcher) RenamePlayer(playerID uuid.UUID, name string) {
	d.mu.Lock()
	insts := make([]*instance, 0, len(d.games))
	for _, inst := range d.games {
		insts = append(insts, inst)
	}
	d.mu.Unlock()

	for _, inst := range insts {
		inst.mu.Lock()
		inst.game.Rename(playerID, name)
		inst.mu.Unlock()
	}
}

// Submit routes one player action: resolve the game, resolve the performer,
// apply under the game's exclusive scope, and return the updated view. Any
// rejection comes back as a typed *ActionError with no state mutated.
func (d *Dispatcher) Submit(gameID, playerID uuid.UUID, actionName string, args ArgumentSet) (interface{}, error) {
	d.mu.Lock()
	inst, ok := d.games[gameID]
	d.mu.Unlock()
	if !ok {
		return nil, NoSuchGame("no game %s", gameID)
	}
	performer, ok := inst.reg.performers[actionName]
	if !ok {
		return nil, NoSuchAction("game type %q has no action %q", inst.reg.def.GameType, actionName)
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if err := performer.Apply(inst.game, playerID, args); err != nil {
		var inv *InvariantError
		if errors.As(err, &inv) {
			d.log.WithFields(logrus.Fields{
				"game_id": gameID,
				"player":  playerID,
				"action":  actionName,
			}).WithError(inv).Error("internal invariant violation")
			return nil, err
		}
		return nil, err
	}
	return d.buildView(inst, playerID), nil
}

// View returns the player-scoped projection of committed game state.
func (d *Dispatcher) View(gameID, playerID uuid.UUID) (interface{}, error) {
	d.mu.Lock()
	inst, ok := d.games[gameID]
	d.mu.Unlock()
	if !ok {
		return nil, NoSuchGame("no game %s", gameID)
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()
	return d.buildView(inst, playerID), nil
}

// buildView recomputes the affordance list for the player and hands it to the
// game's own projection. Caller holds inst.mu.
func (d *Dispatcher) buildView(inst *instance, playerID uuid.UUID) interface{} {
	actions := make([]AvailableAction, 0, len(inst.reg.def.Performers))
	for _, p := range inst.reg.def.Performers {
		args, legal := p.PossibleArguments(inst.game, playerID)
		if !legal {
			continue
		}
		if args == nil {
			args = []ArgumentSet{}
		}
		actions = append(actions, AvailableAction{Name: p.Name(), PossibleArguments: args})
	}
	return inst.game.View(playerID, actions)
}

// newShortCode returns a 4-letter join code.
func newShortCode() string {
	var b [4]byte
	if _, err := crand.Read(b[:]); err != nil {
		panic(err)
	}
	for i := range b {
		b[i] = 'A' + b[i]%26
	}
	return string(b[:])
}
