// internal/events/sink.go
package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Sink receives human-readable game notifications ("Re-shuffled deck.", turn
// announcements, ...). Sinks are advisory: game correctness never depends on
// delivery, and implementations must not block game mutation.
type Sink interface {
	Event(gameID uuid.UUID, message string)
}

// NopSink discards every notification.
type NopSink struct{}

func (NopSink) Event(uuid.UUID, string) {}

// LogSink writes notifications to a logrus logger.
type LogSink struct {
	Log *logrus.Logger
}

func (s LogSink) Event(gameID uuid.UUID, message string) {
	s.Log.WithField("game_id", gameID).Info(message)
}

// MultiSink fans a notification out to several sinks.
type MultiSink []Sink

func (m MultiSink) Event(gameID uuid.UUID, message string) {
	for _, s := range m {
		s.Event(gameID, message)
	}
}

// Broadcaster fans notifications out to per-game subscribers, e.g. WebSocket
// connections streaming the event feed. Slow subscribers drop messages rather
// than stall the game.
type Broadcaster struct {
	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan string
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[uuid.UUID]map[int]chan string)}
}

// Event implements Sink.
func (b *Broadcaster) Event(gameID uuid.UUID, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[gameID] {
		select {
		case ch <- message:
		default:
		}
	}
}

// Subscribe registers a listener for one game's notifications. The returned
// cancel func must be called to release the subscription.
func (b *Broadcaster) Subscribe(gameID uuid.UUID) (<-chan string, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan string, 16)
	if b.subs[gameID] == nil {
		b.subs[gameID] = make(map[int]chan string)
	}
	b.subs[gameID][id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.subs[gameID]; ok {
			delete(subs, id)
			if len(subs) == 0 {
				delete(b.subs, gameID)
			}
		}
	}
	return ch, cancel
}
