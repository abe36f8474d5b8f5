package sampler

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/cricklet/leisertest/internal/fen"
	. "github.com/cricklet/leisertest/internal/helpers"
)

var ErrRetriesExhausted = errors.New("retries exhausted")

const DefaultMaxRetries = 100000

// LegalityRule picks how strictly a candidate is checked for kings.
type LegalityRule int

const (
	// at least one king token of each side
	AnyKingOrientation LegalityRule = iota

	// every king token of each side. With one king per side this can't be
	// satisfied, so New refuses it.
	AllKingOrientations
)

func (r LegalityRule) String() string {
	return [2]string{"any-king-orientation", "all-king-orientations"}[r]
}

func kingOrientations(position fen.Position) [2][fen.NumOrientations]bool {
	seen := [2][fen.NumOrientations]bool{}
	for _, piece := range position.Board.Pieces() {
		if piece.IsKing() {
			seen[piece.Side][piece.Orientation] = true
		}
	}
	return seen
}

func HasKingForEachSide(position fen.Position) bool {
	seen := kingOrientations(position)
	for _, side := range fen.Sides {
		if !Contains(seen[side][:], true) {
			return false
		}
	}
	return true
}

func HasAllKingOrientations(position fen.Position) bool {
	seen := kingOrientations(position)
	for _, side := range fen.Sides {
		if Contains(seen[side][:], false) {
			return false
		}
	}
	return true
}

// Sampler generates random positions for a fixed configuration. It owns its
// random source and is not safe for concurrent use.
type Sampler struct {
	cfg fen.Config
	rng *rand.Rand

	maxRetries int
	legality   LegalityRule
	predicate  Optional[func(string) bool]

	logger Logger
}

type SamplerOption func(*Sampler)

func WithSeed(seed int64) SamplerOption {
	return func(s *Sampler) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

func WithRand(rng *rand.Rand) SamplerOption {
	return func(s *Sampler) {
		s.rng = rng
	}
}

func WithMaxRetries(maxRetries int) SamplerOption {
	return func(s *Sampler) {
		s.maxRetries = maxRetries
	}
}

func WithLegality(rule LegalityRule) SamplerOption {
	return func(s *Sampler) {
		s.legality = rule
	}
}

// WithPredicate adds a caller supplied condition on top of the legality rule.
func WithPredicate(predicate func(string) bool) SamplerOption {
	return func(s *Sampler) {
		s.predicate = Some(predicate)
	}
}

func WithLogger(logger Logger) SamplerOption {
	return func(s *Sampler) {
		s.logger = logger
	}
}

func New(cfg fen.Config, options ...SamplerOption) (*Sampler, Error) {
	err := cfg.Validate()
	if !IsNil(err) {
		return nil, err
	}

	s := &Sampler{
		cfg:        cfg,
		maxRetries: DefaultMaxRetries,
		legality:   AnyKingOrientation,
	}
	for _, option := range options {
		option(s)
	}

	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.logger == nil {
		s.logger = &SilentLogger
	}

	if s.maxRetries < 1 {
		return nil, Wrap(fmt.Errorf("%w: max retries must be at least 1, got %v", fen.ErrConfiguration, s.maxRetries))
	}
	switch s.legality {
	case AnyKingOrientation:
	case AllKingOrientations:
		// one king per side shows a single orientation
		return nil, Wrap(fmt.Errorf("%w: %v needs %v kings per side, the board has 1",
			fen.ErrConfiguration, s.legality, fen.NumOrientations))
	default:
		return nil, Wrap(fmt.Errorf("%w: unknown legality rule %d", fen.ErrConfiguration, s.legality))
	}

	return s, NilError
}

func (s *Sampler) Config() fen.Config {
	return s.cfg
}

func (s *Sampler) randomPiece(kind fen.Kind, side fen.Side) fen.Piece {
	return fen.Piece{
		Kind:        kind,
		Side:        side,
		Orientation: fen.Orientation(s.rng.Intn(fen.NumOrientations)),
	}
}

func (s *Sampler) bag() []fen.Piece {
	pieces := make([]fen.Piece, 0, s.cfg.PieceBudget())
	for _, side := range []fen.Side{fen.Black, fen.White} {
		pieces = append(pieces, s.randomPiece(fen.King, side))
		for i := 0; i < s.cfg.PawnsPerSide; i++ {
			pieces = append(pieces, s.randomPiece(fen.Pawn, side))
		}
	}
	return pieces
}

// GenerateCandidatePosition scatters the whole bag over the board in
// row-major order. Each cell is skipped with EmptyProbability while pieces
// remain, unless the remaining cells are needed to place every piece.
func (s *Sampler) GenerateCandidatePosition() fen.Position {
	pieces := s.bag()
	board := fen.NewBoard(s.cfg.Rows, s.cfg.Cols)

	pEmpty := s.cfg.EmptyProbability()
	cellsLeft := s.cfg.Cells()

	for row := 0; row < s.cfg.Rows; row++ {
		for col := 0; col < s.cfg.Cols; col++ {
			numPiecesLeft := len(pieces)
			if numPiecesLeft > 0 {
				leaveEmpty := s.rng.Float64() < pEmpty
				if !leaveEmpty || numPiecesLeft == cellsLeft {
					i := s.rng.Intn(numPiecesLeft)
					board[row][col] = Some(pieces[i])

					pieces[i] = pieces[numPiecesLeft-1]
					pieces = pieces[:numPiecesLeft-1]
				}
			}
			cellsLeft--
		}
	}

	return fen.Position{
		Board:      board,
		SideToMove: fen.Sides[s.rng.Intn(len(fen.Sides))],
	}
}

func (s *Sampler) GenerateCandidate() string {
	return s.cfg.Encode(s.GenerateCandidatePosition())
}

// IsLegal checks the kings of the parsed position, so a king token that only
// appears across the join of two other tokens doesn't count.
func (s *Sampler) IsLegal(position string) bool {
	parsed, err := s.cfg.Parse(position)
	if !IsNil(err) {
		return false
	}

	legal := false
	switch s.legality {
	case AnyKingOrientation:
		legal = HasKingForEachSide(parsed)
	case AllKingOrientations:
		legal = HasAllKingOrientations(parsed)
	}
	if legal && s.predicate.HasValue() {
		legal = s.predicate.Value()(position)
	}
	return legal
}

func (s *Sampler) SampleLegalPosition() (string, Error) {
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		candidate := s.GenerateCandidate()
		if s.IsLegal(candidate) {
			if attempt > 1 {
				s.logger.Printf("found legal position after %v candidates\n", attempt)
			}
			return candidate, NilError
		}
	}
	return "", Wrap(fmt.Errorf("%w: no legal position after %v candidates: %w",
		fen.ErrConfiguration, s.maxRetries, ErrRetriesExhausted))
}

// SampleDepth is uniform in [1, MaxDepth].
func (s *Sampler) SampleDepth() int {
	return 1 + s.rng.Intn(s.cfg.MaxDepth)
}

func (s *Sampler) SampleTestCase() (TestCase, Error) {
	position, err := s.SampleLegalPosition()
	if !IsNil(err) {
		return TestCase{}, err
	}
	return TestCase{Position: position, Depth: s.SampleDepth()}, NilError
}
