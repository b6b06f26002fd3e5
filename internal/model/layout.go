package model

import (
	"fmt"
	"strings"
)

// Layout selects one of the fixed starting positions.
type Layout string

const (
	// LayoutSet1 is the classic eight piece back rank on each side.
	LayoutSet1 Layout = "set1"
	// LayoutSet2 is the sixteen piece two-rank formation.
	LayoutSet2 Layout = "set2"
)

func layoutGrid(layout Layout) [BoardSize][BoardSize]PieceType {
	const (
		r = Rook
		n = Knight
		b = Bishop
		q = Queen
		k = King
		p = Pawn
		o = PieceType("")
	)
	if layout == LayoutSet2 {
		return [BoardSize][BoardSize]PieceType{
			{r, n, b, q, k, q, b, n, r},
			{r, n, b, p, p, p, b, n, r},
			{p, p, p, p, p, p, p, p, p},
			{o, o, o, o, o, o, o, o, o},
			{o, o, o, o, o, o, o, o, o},
			{o, o, o, o, o, o, o, o, o},
			{p, p, p, p, p, p, p, p, p},
			{r, n, b, p, p, p, b, n, r},
			{r, n, b, q, k, q, b, n, r},
		}
	}
	return [BoardSize][BoardSize]PieceType{
		{r, n, b, k, q, b, n, r, o},
		{p, p, p, p, p, p, p, p, p},
		{o, o, o, o, o, o, o, o, o},
		{o, o, o, o, o, o, o, o, o},
		{o, o, o, o, o, o, o, o, o},
		{o, o, o, o, o, o, o, o, o},
		{o, o, o, o, o, o, o, o, o},
		{p, p, p, p, p, p, p, p, p},
		{r, n, b, k, q, b, n, r, o},
	}
}

func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "set1":
		return LayoutSet1, nil
	case "2", "set2":
		return LayoutSet2, nil
	}
	return "", fmt.Errorf("unknown layout %q", s)
}

// rowOwner gives the starting color of pieces placed on a row.
func rowOwner(row int) PlayerColor {
	switch {
	case row <= 2:
		return PlayerColorWhite
	case row >= BoardSize-3:
		return PlayerColorBlack
	}
	return PlayerColorNone
}

func newBoard(layout Layout) *Board {
	grid := layoutGrid(layout)
	board := &Board{}
	for row := 0; row < BoardSize; row++ {
		for col := 0; col < BoardSize; col++ {
			if grid[row][col] == "" {
				continue
			}
			board.Place(&Piece{Type: grid[row][col], Color: rowOwner(row)}, Position{Row: row, Col: col})
		}
	}
	return board
}
