package model

import "fmt"

const (
	BoardSize  = 9
	FieldSize  = 3
	FieldCount = (BoardSize / FieldSize) * (BoardSize / FieldSize)
)

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return ""
	}
	return ""
}

// IsPromotion reports whether a pawn may turn into this kind.
func (p PieceType) IsPromotion() bool {
	switch p {
	case Queen, Rook, Bishop, Knight:
		return true
	}
	return false
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Piece struct {
	Type     PieceType   `json:"type"`
	Color    PlayerColor `json:"color"`
	HasMoved bool        `json:"hasMoved"`
	Visible  bool        `json:"visible"`
}

type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < BoardSize && p.Col >= 0 && p.Col < BoardSize
}

func (p Position) offset(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) getSquareNotation() string {
	return fmt.Sprintf("%s%d", p.getFileNotation(), p.Row+1)
}

func (p Position) getFileNotation() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

func (p Position) String() string {
	return p.getSquareNotation()
}

// Board is the single source of truth for piece placement. It performs no
// validation; callers are expected to pass in-bounds positions.
type Board struct {
	Squares [BoardSize][BoardSize]*Piece `json:"squares"`
}

func (b *Board) PieceAt(p Position) *Piece {
	if !p.InBounds() {
		return nil
	}
	return b.Squares[p.Row][p.Col]
}

func (b *Board) Place(piece *Piece, p Position) {
	b.Squares[p.Row][p.Col] = piece
}

// Remove clears the square and returns whatever stood there.
func (b *Board) Remove(p Position) *Piece {
	piece := b.Squares[p.Row][p.Col]
	b.Squares[p.Row][p.Col] = nil
	return piece
}

func (b *Board) Clone() *Board {
	out := &Board{}
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if pc := b.Squares[r][c]; pc != nil {
				cp := *pc
				out.Squares[r][c] = &cp
			}
		}
	}
	return out
}

// Count returns the number of pieces owned by color.
func (b *Board) Count(color PlayerColor) int {
	n := 0
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if pc := b.Squares[r][c]; pc != nil && pc.Color == color {
				n++
			}
		}
	}
	return n
}

// FindKing returns the position of color's king, if it is still on the board.
func (b *Board) FindKing(color PlayerColor) (Position, bool) {
	for r := 0; r < BoardSize; r++ {
		for c := 0; c < BoardSize; c++ {
			if pc := b.Squares[r][c]; pc != nil && pc.Color == color && pc.Type == King {
				return Position{Row: r, Col: c}, true
			}
		}
	}
	return Position{}, false
}

func FieldIndexOf(p Position) int {
	return (p.Row/FieldSize)*FieldSize + p.Col/FieldSize
}

// CellsOfField returns the nine coordinates of a field in row-major order.
func CellsOfField(idx int) []Position {
	top := (idx / FieldSize) * FieldSize
	left := (idx % FieldSize) * FieldSize
	cells := make([]Position, 0, FieldSize*FieldSize)
	for r := top; r < top+FieldSize; r++ {
		for c := left; c < left+FieldSize; c++ {
			cells = append(cells, Position{Row: r, Col: c})
		}
	}
	return cells
}
