// internal/deck/card.go
package deck

// Color identifies a card color. Wild cards carry ColorWild until the player
// who played them picks one of the four real colors.
type Color byte

const (
	NoColor     Color = 0
	ColorRed    Color = 'r'
	ColorYellow Color = 'y'
	ColorGreen  Color = 'g'
	ColorBlue   Color = 'b'
	ColorWild   Color = 'w'
)

// Colors lists the four playable colors, excluding wild.
var Colors = [4]Color{ColorRed, ColorYellow, ColorGreen, ColorBlue}

// ParseColor parses a one-letter color code ("r", "y", "g", "b").
// Wild is not a choosable color, so it is rejected here.
func ParseColor(s string) (Color, bool) {
	if len(s) != 1 {
		return NoColor, false
	}
	c := Color(s[0])
	for _, known := range Colors {
		if c == known {
			return c, true
		}
	}
	return NoColor, false
}

func (c Color) String() string {
	if c == NoColor {
		return ""
	}
	return string([]byte{byte(c)})
}

// Code identifies a card rank: a digit '0'-'9' or one of the special ranks.
type Code byte

const (
	CodeSkip     Code = 's'
	CodeReverse  Code = 'v'
	CodeDrawTwo  Code = 'd'
	CodeWild     Code = 'w'
	CodeDrawFour Code = 'f'
)

// IsDigit reports whether the code is a plain number rank.
func (c Code) IsDigit() bool {
	return c >= '0' && c <= '9'
}

func (c Code) String() string {
	return string([]byte{byte(c)})
}

// Card is an immutable color/code pair. Cards are plain comparable values, so
// structural equality and map keys work without any extra plumbing.
type Card struct {
	Color Color `json:"color"`
	Code  Code  `json:"code"`
}

// String renders the two-character wire form, e.g. "r7", "gs", "wf".
func (c Card) String() string {
	return c.Color.String() + c.Code.String()
}

// ParseCard parses the two-character wire form produced by String.
func ParseCard(s string) (Card, bool) {
	if len(s) != 2 {
		return Card{}, false
	}
	color := Color(s[0])
	code := Code(s[1])
	validColor := color == ColorWild
	for _, known := range Colors {
		if color == known {
			validColor = true
		}
	}
	validCode := code.IsDigit() || code == CodeSkip || code == CodeReverse || code == CodeDrawTwo
	if color == ColorWild {
		validCode = code == CodeWild || code == CodeDrawFour
	}
	if !validColor || !validCode {
		return Card{}, false
	}
	return Card{Color: color, Code: code}, true
}

// IsWild reports whether the card is a wildcard or wild-draw-four.
func (c Card) IsWild() bool {
	return c.Color == ColorWild
}
