package fen

import (
	"fmt"
	"strings"
	"unicode"

	. "github.com/cricklet/leisertest/internal/helpers"
)

// Tokens holds the spelling of every symbol in a position string. Piece
// tokens are given in lowercase; white pieces are rendered uppercase.
type Tokens struct {
	Kings [NumOrientations]string
	Pawns [NumOrientations]string

	// indexed by Side
	Sides [2]string

	RankSeparator string
	SideDelimiter string
}

var DefaultTokens = Tokens{
	Kings:         [NumOrientations]string{"nn", "ss", "ee", "ww"},
	Pawns:         [NumOrientations]string{"nw", "ne", "se", "sw"},
	Sides:         [2]string{"W", "B"},
	RankSeparator: "/",
	SideDelimiter: " ",
}

func (t Tokens) directions(k Kind) [NumOrientations]string {
	if k == King {
		return t.Kings
	}
	return t.Pawns
}

func render(token string, side Side) string {
	if side == White {
		return strings.ToUpper(token)
	}
	return strings.ToLower(token)
}

func (t Tokens) Token(p Piece) string {
	return render(t.directions(p.Kind)[p.Orientation], p.Side)
}

func (t Tokens) KingTokens(side Side) []string {
	result := make([]string, 0, NumOrientations)
	for _, k := range t.Kings {
		result = append(result, render(k, side))
	}
	return result
}

func (t Tokens) SideToken(side Side) string {
	return t.Sides[side]
}

func (t Tokens) SideFromToken(s string) (Side, Error) {
	for _, side := range Sides {
		if t.Sides[side] == s {
			return side, NilError
		}
	}
	return White, Wrap(fmt.Errorf("%w: unknown side to move '%v'", ErrMalformedPosition, s))
}

// every rendered piece token with the piece it decodes to
func (t Tokens) pieceTable() []Pair[string, Piece] {
	result := []Pair[string, Piece]{}
	for _, side := range Sides {
		for _, kind := range []Kind{King, Pawn} {
			for o := 0; o < NumOrientations; o++ {
				p := Piece{Kind: kind, Side: side, Orientation: Orientation(o)}
				result = append(result, Pair[string, Piece]{First: t.Token(p), Second: p})
			}
		}
	}
	return result
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (t Tokens) Validate() Error {
	pieces := append(t.Kings[:], t.Pawns[:]...)
	for i, token := range pieces {
		if token == "" || !isLetters(token) {
			return configurationErrorf("piece token '%v' must be non-empty letters", token)
		}
		if token != strings.ToLower(token) || strings.ToUpper(token) == token {
			return configurationErrorf("piece token '%v' must be lowercase and have an uppercase form", token)
		}
		for j, other := range pieces {
			if i != j && strings.HasPrefix(other, token) {
				return configurationErrorf("piece token '%v' is ambiguous with '%v'", token, other)
			}
		}
	}

	if t.Sides[White] == "" || t.Sides[Black] == "" || t.Sides[White] == t.Sides[Black] {
		return configurationErrorf("side tokens %v must be distinct and non-empty", t.Sides)
	}
	if t.RankSeparator == "" || t.SideDelimiter == "" || t.RankSeparator == t.SideDelimiter {
		return configurationErrorf("rank separator '%v' and side delimiter '%v' must be distinct and non-empty",
			t.RankSeparator, t.SideDelimiter)
	}
	for _, separator := range []string{t.RankSeparator, t.SideDelimiter} {
		for _, r := range separator {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return configurationErrorf("separator '%v' can't contain letters or digits", separator)
			}
		}
	}
	return NilError
}
