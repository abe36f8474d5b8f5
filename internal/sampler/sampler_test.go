package sampler

import (
	"errors"
	"math/rand"
	"strconv"
	"strings"
	"testing"

	"github.com/cricklet/leisertest/internal/fen"
	. "github.com/cricklet/leisertest/internal/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allTokens = []string{"nn", "ss", "ee", "ww", "nw", "ne", "se", "sw"}

// counts tokens straight from the string, without going through fen.Parse
func countTokens(position string) int {
	board := strings.ToLower(strings.Split(position, " ")[0])
	count := 0
	for i := 0; i < len(board); {
		if Contains(allTokens, board[i:MinInt(i+2, len(board))]) {
			count++
			i += 2
		} else {
			i++
		}
	}
	return count
}

// expands every rank into its number of cells
func rankWidths(position string) []int {
	board := strings.Split(position, " ")[0]
	return MapSlice(strings.Split(board, "/"), func(rank string) int {
		width := 0
		for i := 0; i < len(rank); {
			j := i
			for j < len(rank) && rank[j] >= '0' && rank[j] <= '9' {
				j++
			}
			if j > i {
				n, _ := strconv.Atoi(rank[i:j])
				width += n
				i = j
			} else {
				width++
				i += 2
			}
		}
		return width
	})
}

func newSampler(t *testing.T, seed int64, options ...SamplerOption) *Sampler {
	s, err := New(fen.DefaultConfig(), append([]SamplerOption{WithSeed(seed)}, options...)...)
	require.True(t, err.IsNil(), err)
	return s
}

func TestCandidatesKeepThePieceBudget(t *testing.T) {
	s := newSampler(t, 1)
	cfg := s.Config()

	for i := 0; i < 2000; i++ {
		candidate := s.GenerateCandidate()

		assert.Equal(t, cfg.PieceBudget(), countTokens(candidate), candidate)

		widths := rankWidths(candidate)
		assert.Equal(t, cfg.Rows, len(widths), candidate)
		for _, width := range widths {
			assert.Equal(t, cfg.Cols, width, candidate)
		}

		position, err := cfg.Parse(candidate)
		require.True(t, err.IsNil(), err)
		assert.Equal(t, cfg.PieceBudget(), position.Board.NumPieces())
	}
}

func TestCandidatesHoldOneKingAndThePawnsPerSide(t *testing.T) {
	s := newSampler(t, 2)

	for i := 0; i < 200; i++ {
		position := s.GenerateCandidatePosition()

		counts := map[fen.Side]map[fen.Kind]int{
			fen.White: {},
			fen.Black: {},
		}
		for _, p := range position.Board.Pieces() {
			counts[p.Side][p.Kind]++
			assert.Less(t, int(p.Orientation), fen.NumOrientations)
		}
		for _, side := range fen.Sides {
			assert.Equal(t, 1, counts[side][fen.King])
			assert.Equal(t, 7, counts[side][fen.Pawn])
		}
	}
}

func TestCandidatesSpreadOverTheBoard(t *testing.T) {
	s := newSampler(t, 3)

	occupied := map[int]int{}
	sideToMove := map[fen.Side]int{}
	for i := 0; i < 2000; i++ {
		position := s.GenerateCandidatePosition()
		sideToMove[position.SideToMove]++
		for row, rank := range position.Board {
			if rank[0].HasValue() {
				occupied[row]++
			}
		}
	}

	assert.Greater(t, occupied[0], 0)
	assert.Greater(t, occupied[9], 0)
	assert.Greater(t, sideToMove[fen.White], 800)
	assert.Greater(t, sideToMove[fen.Black], 800)
}

func TestFullBoard(t *testing.T) {
	cfg := fen.DefaultConfig()
	cfg.Rows, cfg.Cols = 4, 4

	s, err := New(cfg, WithSeed(4))
	require.True(t, err.IsNil(), err)

	candidate := s.GenerateCandidate()
	assert.Equal(t, 16, countTokens(candidate), candidate)
	assert.False(t, strings.ContainsAny(candidate, "0123456789"), candidate)
}

func TestKingsOnly(t *testing.T) {
	cfg := fen.DefaultConfig()
	cfg.PawnsPerSide = 0

	s, err := New(cfg, WithSeed(5))
	require.True(t, err.IsNil(), err)

	position, err := s.SampleLegalPosition()
	require.True(t, err.IsNil(), err)
	assert.Equal(t, 2, countTokens(position), position)
	assert.True(t, s.IsLegal(position))
}

func parsePosition(t *testing.T, position string) fen.Position {
	parsed, err := fen.DefaultConfig().Parse(position)
	require.True(t, err.IsNil(), err)
	return parsed
}

func TestIsLegal(t *testing.T) {
	s := newSampler(t, 6)

	legal := "nn9/10/10/10/10/10/10/10/10/9EE W"
	assert.True(t, s.IsLegal(legal))
	assert.True(t, HasKingForEachSide(parsePosition(t, legal)))
	assert.False(t, HasAllKingOrientations(parsePosition(t, legal)))

	for _, illegal := range []string{
		"nn9/10/10/10/10/10/10/10/10/9ee W", // no white king
		"NN9/10/10/10/10/10/10/10/10/9EE B", // no black king
		"nw9/10/10/10/10/10/10/10/10/9SE B", // pawns only
	} {
		assert.False(t, s.IsLegal(illegal), illegal)
		assert.False(t, HasKingForEachSide(parsePosition(t, illegal)), illegal)
	}

	// kings are present but the board doesn't parse
	assert.False(t, s.IsLegal("nn9/10/10/10/10/10/10/10/10/10EE W"))
	assert.False(t, s.IsLegal("nn EE"))

	everyKing := parsePosition(t, "nnssEEWW2/eewwNNSS2/10/10/10/10/10/10/10/10 W")
	assert.True(t, HasAllKingOrientations(everyKing))
	assert.True(t, HasKingForEachSide(everyKing))

	missingOne := parsePosition(t, "nnssEEWW2/eeNNSS4/10/10/10/10/10/10/10/10 W")
	assert.False(t, HasAllKingOrientations(missingOne))
}

func TestIsLegalIgnoresKingsAcrossTokenJoins(t *testing.T) {
	cfg := fen.DefaultConfig()
	cfg.Tokens.Kings = [fen.NumOrientations]string{"ab", "cd", "ef", "gh"}
	cfg.Tokens.Pawns = [fen.NumOrientations]string{"ba", "xy", "zq", "uv"}

	s, err := New(cfg, WithSeed(6))
	require.True(t, err.IsNil(), err)

	// "baba" contains "ab" but is two black pawns
	assert.False(t, s.IsLegal("baba8/10/10/10/10/10/10/10/10/AB8 W"))
	assert.True(t, s.IsLegal("ab9/10/10/10/10/10/10/10/10/AB8 W"))

	for i := 0; i < 200; i++ {
		position, err := s.SampleLegalPosition()
		require.True(t, err.IsNil(), err)
		parsed, err := cfg.Parse(position)
		require.True(t, err.IsNil(), err)
		assert.True(t, HasKingForEachSide(parsed), position)
	}
}

func TestSampleLegalPosition(t *testing.T) {
	s := newSampler(t, 7, WithMaxRetries(1000))

	for i := 0; i < 500; i++ {
		position, err := s.SampleLegalPosition()
		require.True(t, err.IsNil(), err)
		assert.True(t, s.IsLegal(position), position)
		assert.Equal(t, 16, countTokens(position), position)
	}
}

func TestSeededSamplingIsReproducible(t *testing.T) {
	for _, seed := range []int64{0, 42, 1 << 40} {
		a := newSampler(t, seed)
		b, err := New(fen.DefaultConfig(), WithRand(rand.New(rand.NewSource(seed))))
		require.True(t, err.IsNil(), err)

		for i := 0; i < 20; i++ {
			caseA, err := a.SampleTestCase()
			require.True(t, err.IsNil(), err)
			caseB, err := b.SampleTestCase()
			require.True(t, err.IsNil(), err)

			assert.Equal(t, caseA, caseB)
			assert.Equal(t, 16, countTokens(caseA.Position))
			assert.True(t, a.IsLegal(caseA.Position))
		}
	}
}

func TestRetriesExhausted(t *testing.T) {
	s := newSampler(t, 8, WithMaxRetries(10), WithPredicate(func(string) bool {
		return false
	}))

	_, err := s.SampleLegalPosition()
	assert.True(t, err.HasError())
	assert.True(t, errors.Is(err, ErrRetriesExhausted), err)
	assert.True(t, errors.Is(err, fen.ErrConfiguration), err)
}

func TestPredicateNarrowsLegalPositions(t *testing.T) {
	whiteToMove := func(position string) bool {
		return strings.HasSuffix(position, " W")
	}
	s := newSampler(t, 9, WithPredicate(whiteToMove))

	for i := 0; i < 50; i++ {
		position, err := s.SampleLegalPosition()
		require.True(t, err.IsNil(), err)
		assert.True(t, whiteToMove(position), position)
	}
}

func TestNewRejectsBadConfiguration(t *testing.T) {
	cfg := fen.DefaultConfig()
	cfg.PawnsPerSide = 60

	_, err := New(cfg)
	assert.True(t, errors.Is(err, fen.ErrConfiguration), err)

	_, err = New(fen.DefaultConfig(), WithMaxRetries(0))
	assert.True(t, errors.Is(err, fen.ErrConfiguration), err)

	_, err = New(fen.DefaultConfig(), WithLegality(AllKingOrientations))
	assert.True(t, errors.Is(err, fen.ErrConfiguration), err)

	_, err = New(fen.DefaultConfig(), WithLegality(LegalityRule(9)))
	assert.True(t, errors.Is(err, fen.ErrConfiguration), err)
}

func TestSampleDepth(t *testing.T) {
	s := newSampler(t, 10)

	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		depth := s.SampleDepth()
		assert.GreaterOrEqual(t, depth, 1)
		assert.LessOrEqual(t, depth, 6)
		seen[depth] = true
	}
	assert.Equal(t, 6, len(seen))
}
