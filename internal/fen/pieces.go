package fen

type Side uint

const (
	White Side = iota
	Black
)

var _sideStrings = [2]string{
	"white", "black",
}

func (s Side) String() string {
	return _sideStrings[s]
}

func (s Side) Other() Side {
	return 1 - s
}

var Sides = [2]Side{White, Black}

type Kind uint

const (
	King Kind = iota
	Pawn
)

func (k Kind) String() string {
	return [2]string{"king", "pawn"}[k]
}

// Orientation indexes the four direction codes of a piece's kind.
type Orientation uint8

const NumOrientations = 4

type Piece struct {
	Kind        Kind
	Side        Side
	Orientation Orientation
}

func (p Piece) IsKing() bool {
	return p.Kind == King
}
