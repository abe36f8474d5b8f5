package fen

import (
	"errors"
	"fmt"

	. "github.com/cricklet/leisertest/internal/helpers"
)

var (
	ErrConfiguration     = errors.New("configuration error")
	ErrMalformedPosition = errors.New("malformed position")
)

func configurationErrorf(format string, args ...any) Error {
	return Wrap(fmt.Errorf("%w: %v", ErrConfiguration, fmt.Sprintf(format, args...)))
}

type Config struct {
	Rows         int
	Cols         int
	PawnsPerSide int
	MaxDepth     int

	Tokens Tokens
}

func DefaultConfig() Config {
	return Config{
		Rows:         10,
		Cols:         10,
		PawnsPerSide: 7,
		MaxDepth:     6,
		Tokens:       DefaultTokens,
	}
}

// PieceBudget is one king plus the pawns, for both sides.
func (c Config) PieceBudget() int {
	return 2 * (1 + c.PawnsPerSide)
}

func (c Config) Cells() int {
	return c.Rows * c.Cols
}

// EmptyProbability is the chance a cell is skipped, chosen so that on
// average the whole budget is spread over the board.
func (c Config) EmptyProbability() float64 {
	return 1 - float64(c.PieceBudget())/float64(c.Cells())
}

func (c Config) Validate() Error {
	if c.Rows <= 0 || c.Cols <= 0 {
		return configurationErrorf("board must have positive dimensions, got %vx%v", c.Rows, c.Cols)
	}
	if c.PawnsPerSide < 0 {
		return configurationErrorf("pawns per side must not be negative, got %v", c.PawnsPerSide)
	}
	if c.PieceBudget() > c.Cells() {
		return configurationErrorf("piece budget %v exceeds the %v cells of a %vx%v board",
			c.PieceBudget(), c.Cells(), c.Rows, c.Cols)
	}
	if c.MaxDepth < 1 {
		return configurationErrorf("max depth must be at least 1, got %v", c.MaxDepth)
	}
	return c.Tokens.Validate()
}
