package sampler

import (
	"fmt"
	"strconv"
	"strings"

	. "github.com/cricklet/leisertest/internal/helpers"
)

const (
	positionPrefix = "position fen "
	depthPrefix    = "go depth "
	quitCommand    = "quit"
)

// TestCase is one engine input: a position and a search depth.
type TestCase struct {
	Position string
	Depth    int
}

func (t TestCase) String() string {
	return positionPrefix + t.Position + "\n" + depthPrefix + fmt.Sprint(t.Depth) + "\n" + quitCommand
}

func ParseTestCase(s string) (TestCase, Error) {
	lines := FilterSlice(Lines(s), func(line string) bool {
		return strings.TrimSpace(line) != ""
	})
	if len(lines) != 3 || strings.TrimSpace(lines[2]) != quitCommand {
		return TestCase{}, Errorf("expected 'position', 'go' and 'quit' lines, got %q", s)
	}

	position, found := strings.CutPrefix(lines[0], positionPrefix)
	if !found {
		return TestCase{}, Errorf("expected '%v' in %q", positionPrefix, lines[0])
	}

	depthStr, found := strings.CutPrefix(lines[1], depthPrefix)
	if !found {
		return TestCase{}, Errorf("expected '%v' in %q", depthPrefix, lines[1])
	}
	depth, err := strconv.Atoi(strings.TrimSpace(depthStr))
	if !IsNil(err) {
		return TestCase{}, Wrap(err)
	}

	return TestCase{Position: strings.TrimRight(position, " "), Depth: depth}, NilError
}
