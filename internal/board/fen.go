package board

import (
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

var fenKinds = map[nchess.PieceType]PieceKind{
	nchess.Knight: Knight,
	nchess.Queen:  Queen,
	nchess.Bishop: Bishop,
	nchess.Pawn:   Pawn,
	nchess.King:   King,
	nchess.Rook:   Rook,
}

var fenRanks = []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
var fenFiles = []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}

// FromFEN converts a FEN position into a matrix. "startpos" is accepted as an
// alias for the initial position. White maps to Light, black to Dark.
func FromFEN(fen string) (Matrix, error) {
	fen = strings.TrimSpace(fen)
	var game *nchess.Game
	if fen == "" || fen == "startpos" {
		game = nchess.NewGame()
	} else {
		option, err := nchess.FEN(fen)
		if err != nil {
			return nil, fmt.Errorf("parse fen %q: %w", fen, err)
		}
		game = nchess.NewGame(option)
	}

	position := game.Position()
	if position == nil {
		return nil, fmt.Errorf("parse fen %q: no position", fen)
	}
	b := position.Board()

	m := Empty()
	for row, rank := range fenRanks {
		for col, file := range fenFiles {
			piece := b.Piece(nchess.NewSquare(file, rank))
			if piece == nchess.NoPiece {
				continue
			}
			kind, ok := fenKinds[piece.Type()]
			if !ok {
				continue
			}
			side := Light
			if piece.Color() == nchess.Black {
				side = Dark
			}
			m[row][col] = Piece{Kind: kind, Side: side}.Symbol()
		}
	}
	return m, nil
}
