package board

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	Rows = 8
	Cols = 8
)

// Empty cells are encoded as a space.
const EmptySymbol = ' '

// ErrShape is returned when a matrix is not exactly Rows x Cols.
var ErrShape = errors.New("8x8 board not recognized")

// Matrix is a board state as handed over by the upstream process: one rune per
// cell, row 0 is rank 8 and column 0 is file A. It is not guaranteed to be
// well formed; use Validate before reading cells.
type Matrix [][]rune

// ShapeError describes why a matrix failed validation.
type ShapeError struct {
	Rows   int // number of rows received
	Row    int // first offending row, -1 when the row count is wrong
	Length int // length of the offending row
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: got %d rows, want %d", ErrShape, e.Rows, Rows)
	}
	return fmt.Sprintf("%v: row %d has %d columns, want %d", ErrShape, e.Row, e.Length, Cols)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// Validate checks that m has exactly Rows rows of exactly Cols columns.
func Validate(m Matrix) error {
	if len(m) != Rows {
		return &ShapeError{Rows: len(m), Row: -1}
	}
	for i, row := range m {
		if len(row) != Cols {
			return &ShapeError{Rows: len(m), Row: i, Length: len(row)}
		}
	}
	return nil
}

// Empty returns a well formed board with no pieces.
func Empty() Matrix {
	m := make(Matrix, Rows)
	for i := range m {
		m[i] = []rune(strings.Repeat(string(EmptySymbol), Cols))
	}
	return m
}

// ParseRows builds a matrix from text rows, one rune per cell. Rows are taken
// as-is so that shape errors survive until validation.
func ParseRows(lines []string) Matrix {
	m := make(Matrix, 0, len(lines))
	for _, line := range lines {
		m = append(m, []rune(line))
	}
	return m
}

// Clone returns a deep copy of m.
func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = append([]rune(nil), row...)
	}
	return out
}

func (m Matrix) String() string {
	var sb strings.Builder
	for i, row := range m {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(row))
	}
	return sb.String()
}

// IsEmpty reports whether r denotes an empty cell.
func IsEmpty(r rune) bool { return r == EmptySymbol }

// PieceKind identifies a piece independently of its side. The order matches
// the order of the piece textures.
type PieceKind int

const (
	Knight PieceKind = iota
	Queen
	Bishop
	Pawn
	King
	Rook
)

// PieceKindCount is the number of distinct piece kinds (and textures).
const PieceKindCount = 6

var kindLetters = [PieceKindCount]rune{'C', 'D', 'F', 'P', 'R', 'T'}

var kindNames = [PieceKindCount]string{"knight", "queen", "bishop", "pawn", "king", "rook"}

// Kinds lists all piece kinds in texture order.
func Kinds() []PieceKind {
	return []PieceKind{Knight, Queen, Bishop, Pawn, King, Rook}
}

// Letter returns the uppercase symbol of the kind.
func (k PieceKind) Letter() rune {
	if k < 0 || int(k) >= PieceKindCount {
		return '?'
	}
	return kindLetters[k]
}

func (k PieceKind) String() string {
	if k < 0 || int(k) >= PieceKindCount {
		return fmt.Sprintf("PieceKind(%d)", int(k))
	}
	return kindNames[k]
}

// Side owns a piece. Light pieces are written in uppercase, dark in lowercase.
type Side int

const (
	Light Side = iota
	Dark
)

func (s Side) String() string {
	if s == Dark {
		return "dark"
	}
	return "light"
}

type Piece struct {
	Kind PieceKind
	Side Side
}

// Symbol returns the cell symbol encoding p.
func (p Piece) Symbol() rune {
	letter := p.Kind.Letter()
	if p.Side == Dark {
		return unicode.ToLower(letter)
	}
	return letter
}

func (p Piece) String() string { return p.Side.String() + " " + p.Kind.String() }

// ParseSymbol decodes a cell symbol. It returns false for the empty symbol and
// for anything outside the twelve piece symbols.
func ParseSymbol(r rune) (Piece, bool) {
	side := Light
	if unicode.IsLower(r) {
		side = Dark
	}
	upper := unicode.ToUpper(r)
	for i, letter := range kindLetters {
		if letter == upper {
			return Piece{Kind: PieceKind(i), Side: side}, true
		}
	}
	return Piece{}, false
}
