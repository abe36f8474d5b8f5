package fen

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/cricklet/leisertest/internal/helpers"
)

type Square = Optional[Piece]

// Board is indexed [rank][file]; rank 0 is the first rank of the string.
type Board [][]Square

func NewBoard(rows int, cols int) Board {
	b := make(Board, rows)
	for i := range b {
		b[i] = make([]Square, cols)
	}
	return b
}

func (b Board) Pieces() []Piece {
	result := []Piece{}
	for _, rank := range b {
		for _, square := range rank {
			if square.HasValue() {
				result = append(result, square.Value())
			}
		}
	}
	return result
}

func (b Board) NumPieces() int {
	return len(b.Pieces())
}

type Position struct {
	Board      Board
	SideToMove Side
}

func EncodeRank(tokens Tokens, rank []Square) string {
	s := ""
	numEmpty := 0
	for _, square := range rank {
		if square.IsEmpty() {
			numEmpty++
			continue
		}
		if numEmpty > 0 {
			s += fmt.Sprint(numEmpty)
			numEmpty = 0
		}
		s += tokens.Token(square.Value())
	}
	if numEmpty > 0 {
		s += fmt.Sprint(numEmpty)
	}
	return s
}

func (c Config) Encode(p Position) string {
	ranks := MapSlice(p.Board, func(rank []Square) string {
		return EncodeRank(c.Tokens, rank)
	})
	return strings.Join(ranks, c.Tokens.RankSeparator) + c.Tokens.SideDelimiter + c.Tokens.SideToken(p.SideToMove)
}

func malformedf(format string, args ...any) Error {
	return Wrap(fmt.Errorf("%w: %v", ErrMalformedPosition, fmt.Sprintf(format, args...)))
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func parseRank(s string, cols int, table []Pair[string, Piece]) ([]Square, Error) {
	rank := []Square{}
	for i := 0; i < len(s); {
		if isDigit(s[i]) {
			j := i
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			numEmpty, err := strconv.Atoi(s[i:j])
			if !IsNil(err) || numEmpty == 0 {
				return rank, malformedf("bad empty run '%v' in rank '%v'", s[i:j], s)
			}
			for k := 0; k < numEmpty; k++ {
				rank = append(rank, Empty[Piece]())
			}
			i = j
		} else {
			entry := FindInSlice(table, func(e Pair[string, Piece]) bool {
				return strings.HasPrefix(s[i:], e.First)
			})
			if entry.IsEmpty() {
				return rank, malformedf("unknown token at '%v' in rank '%v'", s[i:], s)
			}
			rank = append(rank, Some(entry.Value().Second))
			i += len(entry.Value().First)
		}

		if len(rank) > cols {
			return rank, malformedf("rank '%v' has more than %v cells", s, cols)
		}
	}

	if len(rank) != cols {
		return rank, malformedf("rank '%v' has %v cells, expected %v", s, len(rank), cols)
	}
	return rank, NilError
}

// Parse is the inverse of Encode. It rejects strings whose ranks don't expand
// to exactly Cols cells.
func (c Config) Parse(s string) (Position, Error) {
	boardStr, sideStr, found := strings.Cut(s, c.Tokens.SideDelimiter)
	if !found {
		return Position{}, malformedf("missing side to move in '%v'", s)
	}

	side, err := c.Tokens.SideFromToken(sideStr)
	if !IsNil(err) {
		return Position{}, err
	}

	rankStrs := strings.Split(boardStr, c.Tokens.RankSeparator)
	if len(rankStrs) != c.Rows {
		return Position{}, malformedf("found %v ranks in '%v', expected %v", len(rankStrs), s, c.Rows)
	}

	table := c.Tokens.pieceTable()
	board := make(Board, 0, c.Rows)
	for _, rankStr := range rankStrs {
		rank, err := parseRank(rankStr, c.Cols, table)
		if !IsNil(err) {
			return Position{}, err
		}
		board = append(board, rank)
	}

	return Position{Board: board, SideToMove: side}, NilError
}
