package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	. "github.com/cricklet/leisertest/internal/helpers"
)

const (
	BestMovePrefix = "bestmove"
	ScorePrefix    = "info score"
	DepthPrefix    = "info depth"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrEmptyData    = errors.New("empty data")
	ErrMalformed    = errors.New("malformed output")
	ErrEmptyBatch   = errors.New("empty batch")
	ErrZeroBaseline = errors.New("zero baseline")
)

func outputLines(raw string) []string {
	return MapSlice(Lines(raw), func(line string) string {
		return strings.TrimRight(line, " \t\r")
	})
}

func linesWithPrefix(raw string, prefix string) []string {
	return FilterSlice(outputLines(raw), func(line string) bool {
		return strings.HasPrefix(line, prefix)
	})
}

// ExtractBestMove returns the first best-move line.
func ExtractBestMove(raw string) (string, Error) {
	line := FindInSlice(outputLines(raw), func(line string) bool {
		return strings.HasPrefix(line, BestMovePrefix)
	})
	if line.IsEmpty() {
		return "", Wrap(fmt.Errorf("%w: no '%v' line in %v lines of output",
			ErrNotFound, BestMovePrefix, len(outputLines(raw))))
	}
	return line.Value(), NilError
}

// ExtractTrace returns the search-progress lines in the order they were
// emitted, followed by the best-move line.
func ExtractTrace(raw string) ([]string, Error) {
	bestMove, err := ExtractBestMove(raw)
	if !IsNil(err) {
		return nil, err
	}
	return append(linesWithPrefix(raw, ScorePrefix), bestMove), NilError
}

func parseNps(line string) (int, Error) {
	fields := strings.Fields(line)
	nps, err := strconv.Atoi(Last(fields))
	if !IsNil(err) {
		return 0, Wrap(fmt.Errorf("%w: trailing field of '%v' isn't a speed: %w", ErrMalformed, line, err))
	}
	return nps, NilError
}

// ExtractAvgNps averages the trailing nodes-per-second field of every
// per-depth info line.
func ExtractAvgNps(raw string) (float64, Error) {
	lines := linesWithPrefix(raw, DepthPrefix)
	if len(lines) == 0 {
		return 0, Wrap(fmt.Errorf("%w: no '%v' lines", ErrEmptyData, DepthPrefix))
	}

	total := 0
	for _, line := range lines {
		nps, err := parseNps(line)
		if !IsNil(err) {
			return 0, err
		}
		total += nps
	}
	return float64(total) / float64(len(lines)), NilError
}
