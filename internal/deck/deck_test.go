// internal/deck/deck_test.go
package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestStandardDeckComposition(t *testing.T) {
	d := NewStandardDeck(seeded(1), nil)
	require.Equal(t, StandardDeckSize, d.DrawCount())
	require.Equal(t, 0, d.DiscardCount())

	counts := make(map[Card]int)
	for d.DrawCount() > 0 {
		c, err := d.TakeCard()
		require.NoError(t, err)
		counts[c]++
	}

	for _, color := range Colors {
		assert.Equal(t, 1, counts[Card{Color: color, Code: '0'}], "one zero per color")
		for n := 1; n <= 9; n++ {
			assert.Equal(t, 2, counts[Card{Color: color, Code: Code('0' + byte(n))}], "two %d per color", n)
		}
		assert.Equal(t, 2, counts[Card{Color: color, Code: CodeSkip}])
		assert.Equal(t, 2, counts[Card{Color: color, Code: CodeReverse}])
		assert.Equal(t, 2, counts[Card{Color: color, Code: CodeDrawTwo}])
	}
	assert.Equal(t, 4, counts[Card{Color: ColorWild, Code: CodeWild}])
	assert.Equal(t, 4, counts[Card{Color: ColorWild, Code: CodeDrawFour}])
}

func TestSeededShuffleReproducible(t *testing.T) {
	d1 := NewStandardDeck(seeded(42), nil)
	d2 := NewStandardDeck(seeded(42), nil)
	for i := 0; i < StandardDeckSize; i++ {
		c1, err1 := d1.TakeCard()
		c2, err2 := d2.TakeCard()
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, c1, c2, "card %d differs", i)
	}
}

func TestTakeCardReshufflesDiscard(t *testing.T) {
	var notices []string
	d := NewStandardDeck(seeded(7), func(msg string) {
		notices = append(notices, msg)
	})

	// Drain the draw pile, discarding 30 of the cards and keeping the rest
	// "in players' hands".
	for i := 0; i < StandardDeckSize; i++ {
		c, err := d.TakeCard()
		require.NoError(t, err)
		if i < 30 {
			d.Discard(c)
		}
	}
	require.Equal(t, 0, d.DrawCount())
	require.Equal(t, 30, d.DiscardCount())
	require.Empty(t, notices)

	c, err := d.TakeCard()
	require.NoError(t, err)
	assert.NotZero(t, c)
	assert.Equal(t, 29, d.DrawCount(), "discard pile should have become the draw pile")
	assert.Equal(t, 0, d.DiscardCount())
	assert.Equal(t, []string{"Re-shuffled deck."}, notices)
}

func TestTakeCardBothPilesEmpty(t *testing.T) {
	d := NewStandardDeck(seeded(7), nil)
	for i := 0; i < StandardDeckSize; i++ {
		_, err := d.TakeCard()
		require.NoError(t, err)
	}

	_, err := d.TakeCard()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestDiscardAndTop(t *testing.T) {
	d := NewStandardDeck(seeded(3), nil)
	_, ok := d.TopDiscard()
	assert.False(t, ok)

	r7 := Card{Color: ColorRed, Code: '7'}
	gs := Card{Color: ColorGreen, Code: CodeSkip}
	d.Discard(r7)
	d.Discard(gs)

	top, ok := d.TopDiscard()
	require.True(t, ok)
	assert.Equal(t, gs, top, "most recent discard is on top")
	assert.Equal(t, 2, d.DiscardCount())
}

func TestCardWireFormat(t *testing.T) {
	cases := []struct {
		in   string
		card Card
		ok   bool
	}{
		{"r7", Card{Color: ColorRed, Code: '7'}, true},
		{"gs", Card{Color: ColorGreen, Code: CodeSkip}, true},
		{"bv", Card{Color: ColorBlue, Code: CodeReverse}, true},
		{"yd", Card{Color: ColorYellow, Code: CodeDrawTwo}, true},
		{"ww", Card{Color: ColorWild, Code: CodeWild}, true},
		{"wf", Card{Color: ColorWild, Code: CodeDrawFour}, true},
		{"w7", Card{}, false}, // wild digits don't exist
		{"rw", Card{}, false}, // colored wilds don't exist
		{"x7", Card{}, false},
		{"r", Card{}, false},
		{"", Card{}, false},
	}
	for _, tc := range cases {
		card, ok := ParseCard(tc.in)
		assert.Equal(t, tc.ok, ok, "ParseCard(%q)", tc.in)
		if tc.ok {
			assert.Equal(t, tc.card, card)
			assert.Equal(t, tc.in, card.String(), "round trip")
		}
	}
}

func TestParseColor(t *testing.T) {
	for _, c := range Colors {
		got, ok := ParseColor(c.String())
		require.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseColor("w")
	assert.False(t, ok, "wild is not a choosable color")
	_, ok = ParseColor("")
	assert.False(t, ok)
}
