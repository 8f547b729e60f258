// internal/engine/registry.go
package engine

import (
	"errors"
	"fmt"
)

// ErrUnknownGameType is returned when creating a game for an unregistered type.
var ErrUnknownGameType = errors.New("no such game type")

// registration is a Definition plus its performer set indexed by name.
type registration struct {
	def        *Definition
	performers map[string]Performer
}

// Registry maps game type identifiers to their definitions. It is populated
// once at process start and read-only afterwards, so concurrent reads need no
// synchronization.
type Registry struct {
	defs map[string]*registration
}

func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*registration)}
}

// Register adds a definition keyed by its game type. Registering a duplicate
// game type, or a definition whose performers share a name, is a startup
// configuration error.
func (r *Registry) Register(def *Definition) error {
	if def.GameType == "" {
		return fmt.Errorf("definition has empty game type")
	}
	if def.Create == nil {
		return fmt.Errorf("definition %q has no factory", def.GameType)
	}
	if _, exists := r.defs[def.GameType]; exists {
		return fmt.Errorf("duplicate game type %q", def.GameType)
	}
	performers := make(map[string]Performer, len(def.Performers))
	for _, p := range def.Performers {
		if _, exists := performers[p.Name()]; exists {
			return fmt.Errorf("game type %q registers duplicate performer %q", def.GameType, p.Name())
		}
		performers[p.Name()] = p
	}
	r.defs[def.GameType] = &registration{def: def, performers: performers}
	return nil
}

// MustRegister is Register for startup wiring, panicking on config errors.
func (r *Registry) MustRegister(def *Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

func (r *Registry) lookup(gameType string) (*registration, bool) {
	reg, ok := r.defs[gameType]
	return reg, ok
}
