package model

import "github.com/samber/lo"

var (
	rookDirs   = []Position{{Row: 1, Col: 0}, {Row: -1, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: -1}}
	bishopDirs = []Position{{Row: 1, Col: 1}, {Row: 1, Col: -1}, {Row: -1, Col: 1}, {Row: -1, Col: -1}}
	queenDirs  = append(append([]Position{}, rookDirs...), bishopDirs...)
	knightDirs = []Position{{Row: -2, Col: -1}, {Row: -2, Col: 1}, {Row: -1, Col: -2}, {Row: -1, Col: 2}, {Row: 1, Col: -2}, {Row: 1, Col: 2}, {Row: 2, Col: -1}, {Row: 2, Col: 1}}
	kingDirs   = queenDirs
)

// LegalDestinations returns the pseudo-legal destinations of the piece on
// from. Leaving the own king attacked is allowed.
func LegalDestinations(board *Board, from Position, enPassantTarget *Position) []Position {
	return destinations(board, from, enPassantTarget, true)
}

func destinations(board *Board, from Position, enPassantTarget *Position, withCastling bool) []Position {
	piece := board.PieceAt(from)
	if piece == nil {
		return nil
	}
	switch piece.Type {
	case Pawn:
		return getPsuedoPawnMoves(board, piece, from, enPassantTarget)
	case Knight:
		return getStepMoves(board, piece, from, knightDirs)
	case Bishop:
		return getSlidingMoves(board, piece, from, bishopDirs)
	case Rook:
		return getSlidingMoves(board, piece, from, rookDirs)
	case Queen:
		return getSlidingMoves(board, piece, from, queenDirs)
	case King:
		moves := getStepMoves(board, piece, from, kingDirs)
		if withCastling {
			moves = append(moves, getCastleMoves(board, piece, from)...)
		}
		return moves
	}
	return nil
}

func getSlidingMoves(board *Board, piece *Piece, from Position, dirs []Position) []Position {
	moves := []Position{}
	for _, dir := range dirs {
		target := from.offset(dir.Row, dir.Col)
		for step := 1; step < BoardSize && target.InBounds(); step++ {
			occupant := board.PieceAt(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != piece.Color {
					moves = append(moves, target)
				}
				break
			}
			target = target.offset(dir.Row, dir.Col)
		}
	}
	return moves
}

func getStepMoves(board *Board, piece *Piece, from Position, offsets []Position) []Position {
	moves := []Position{}
	for _, dir := range offsets {
		target := from.offset(dir.Row, dir.Col)
		if !target.InBounds() {
			continue
		}
		if occupant := board.PieceAt(target); occupant == nil || occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}
	return moves
}

func getPsuedoPawnMoves(board *Board, piece *Piece, from Position, enPassantTarget *Position) []Position {
	moves := []Position{}
	dir := piece.Color.forward()

	one := from.offset(dir, 0)
	if one.InBounds() && board.PieceAt(one) == nil {
		moves = append(moves, one)
		two := from.offset(2*dir, 0)
		home := piece.Color.homeRows()
		if (from.Row == home[0] || from.Row == home[1]) && two.InBounds() && board.PieceAt(two) == nil {
			moves = append(moves, two)
		}
	}

	for _, dc := range []int{-1, 1} {
		target := from.offset(dir, dc)
		if !target.InBounds() {
			continue
		}
		if occupant := board.PieceAt(target); occupant != nil && occupant.Color != piece.Color {
			moves = append(moves, target)
		}
	}

	// The passed pawn itself is removed when the move is applied.
	if enPassantTarget != nil && enPassantTarget.Row == from.Row+dir && abs(enPassantTarget.Col-from.Col) == 1 {
		passed := board.PieceAt(Position{Row: from.Row, Col: enPassantTarget.Col})
		if passed != nil && passed.Type == Pawn && passed.Color != piece.Color && !lo.Contains(moves, *enPassantTarget) {
			moves = append(moves, *enPassantTarget)
		}
	}
	return moves
}

func getCastleMoves(board *Board, king *Piece, from Position) []Position {
	if king.HasMoved {
		return nil
	}
	moves := []Position{}
	for _, side := range []int{-1, 1} {
		if _, ok := castlePartner(board, king, from, side); ok {
			moves = append(moves, from.offset(0, 2*side))
		}
	}
	return moves
}

// castlePartner scans from the king along its row in direction side. The
// first piece met is the only candidate: it must be an unmoved rook of the
// king's color standing at least two squares away, and the king's
// destination must be on the board.
func castlePartner(board *Board, king *Piece, from Position, side int) (Position, bool) {
	if !from.offset(0, 2*side).InBounds() {
		return Position{}, false
	}
	for target := from.offset(0, side); target.InBounds(); target = target.offset(0, side) {
		occupant := board.PieceAt(target)
		if occupant == nil {
			continue
		}
		if occupant.Type != Rook || occupant.Color != king.Color || occupant.HasMoved {
			return Position{}, false
		}
		if abs(target.Col-from.Col) < 2 {
			return Position{}, false
		}
		return target, true
	}
	return Position{}, false
}

// IsInCheck reports whether any opposing piece can reach color's king.
// Castling is ignored. A side without a king is never in check.
func IsInCheck(board *Board, color PlayerColor) bool {
	kingPos, ok := board.FindKing(color)
	if !ok {
		return false
	}
	return isSquareAttacked(board, color.Opponent(), kingPos)
}

func isSquareAttacked(board *Board, attackingColor PlayerColor, target Position) bool {
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			from := Position{Row: row, Col: col}
			piece := board.PieceAt(from)
			if piece == nil || piece.Color != attackingColor {
				continue
			}
			if lo.Contains(destinations(board, from, nil, false), target) {
				return true
			}
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
