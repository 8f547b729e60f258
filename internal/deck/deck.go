// internal/deck/deck.go
package deck

import (
	"errors"
	"math/rand"
)

// ErrExhausted is returned by TakeCard when both piles are empty. That state
// is unreachable while the 108-card conservation invariant holds, so callers
// must treat it as an internal invariant violation, not a user-facing failure.
var ErrExhausted = errors.New("draw and discard piles are both empty")

// StandardDeckSize is the full card count of the standard deck: per color one
// zero, two each of 1-9, two skips, two reverses and two draw-twos, plus four
// wildcards and four wild-draw-fours.
const StandardDeckSize = 108

// Deck owns the draw and discard piles for one game. It is not safe for
// concurrent use; the owning game's exclusive scope serializes access.
type Deck struct {
	draw    []Card
	discard []Card
	rng     *rand.Rand
	emit    func(string)
}

// NewStandardDeck builds the canonical 108-card set and shuffles it with the
// injected random source. The source is kept for later reshuffles, so a seeded
// source makes the whole deck lifecycle reproducible under test. emit receives
// advisory human-readable notifications and may be nil.
func NewStandardDeck(rng *rand.Rand, emit func(string)) *Deck {
	cards := make([]Card, 0, StandardDeckSize)
	for _, color := range Colors {
		for n := 0; n <= 9; n++ {
			cards = append(cards, Card{Color: color, Code: Code('0' + n)})
			if n > 0 {
				cards = append(cards, Card{Color: color, Code: Code('0' + n)})
			}
		}
		for i := 0; i < 2; i++ {
			cards = append(cards,
				Card{Color: color, Code: CodeSkip},
				Card{Color: color, Code: CodeReverse},
				Card{Color: color, Code: CodeDrawTwo})
		}
	}
	for i := 0; i < 4; i++ {
		cards = append(cards,
			Card{Color: ColorWild, Code: CodeWild},
			Card{Color: ColorWild, Code: CodeDrawFour})
	}
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return &Deck{
		draw:    cards,
		discard: make([]Card, 0, StandardDeckSize),
		rng:     rng,
		emit:    emit,
	}
}

// TakeCard removes and returns the front card of the draw pile. When the draw
// pile is empty the entire discard pile is shuffled back in first. It fails
// only with ErrExhausted, which indicates a card-conservation bug upstream.
func (d *Deck) TakeCard() (Card, error) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return Card{}, ErrExhausted
		}
		d.draw = append(d.draw, d.discard...)
		d.discard = d.discard[:0]
		d.rng.Shuffle(len(d.draw), func(i, j int) {
			d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
		})
		if d.emit != nil {
			d.emit("Re-shuffled deck.")
		}
	}
	card := d.draw[0]
	d.draw = d.draw[1:]
	return card, nil
}

// Discard appends a card to the back of the discard pile. Legality of the
// discard is the caller's concern.
func (d *Deck) Discard(card Card) {
	d.discard = append(d.discard, card)
}

// TopDiscard returns the most recently discarded card, if any.
func (d *Deck) TopDiscard() (Card, bool) {
	if len(d.discard) == 0 {
		return Card{}, false
	}
	return d.discard[len(d.discard)-1], true
}

// DrawCount returns the number of cards left in the draw pile.
func (d *Deck) DrawCount() int {
	return len(d.draw)
}

// DiscardCount returns the number of cards in the discard pile.
func (d *Deck) DiscardCount() int {
	return len(d.discard)
}
