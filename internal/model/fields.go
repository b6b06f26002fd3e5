package model

// lines are the eight tic-tac-toe lines over a 3x3 grid indexed row-major.
var lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// lineWinner returns the color holding a full line, or PlayerColorNone.
func lineWinner(grid [9]PlayerColor) PlayerColor {
	winner := PlayerColorNone
	for _, line := range lines {
		c := grid[line[0]]
		if c != PlayerColorNone && grid[line[1]] == c && grid[line[2]] == c {
			winner = c
		}
	}
	return winner
}

func hasLine(grid [9]PlayerColor, color PlayerColor) bool {
	for _, line := range lines {
		if grid[line[0]] == color && grid[line[1]] == color && grid[line[2]] == color {
			return true
		}
	}
	return false
}

// fieldGrid lays out the visible pieces of a field. Invisible pieces count
// as empty squares.
func fieldGrid(board *Board, idx int) [9]PlayerColor {
	var grid [9]PlayerColor
	for i, pos := range CellsOfField(idx) {
		if piece := board.PieceAt(pos); piece != nil && piece.Visible {
			grid[i] = piece.Color
		}
	}
	return grid
}

// updateFieldOwners claims every unowned field that now holds a full line
// and returns the indexes newly claimed. Owned fields are never released.
func updateFieldOwners(board *Board, owners *[FieldCount]PlayerColor) []int {
	won := []int{}
	for idx := 0; idx < FieldCount; idx++ {
		if owners[idx] != PlayerColorNone {
			continue
		}
		if winner := lineWinner(fieldGrid(board, idx)); winner != PlayerColorNone {
			owners[idx] = winner
			won = append(won, idx)
		}
	}
	return won
}

// evaluateOutcome decides whether the game ended after mover's ply.
func evaluateOutcome(board *Board, owners [FieldCount]PlayerColor, mover PlayerColor, captureTheKing bool) *Outcome {
	sides := []PlayerColor{PlayerColorWhite, PlayerColorBlack}
	if captureTheKing {
		for _, color := range sides {
			if _, ok := board.FindKing(color); !ok {
				return &Outcome{Reason: OutcomeKingCaptured, Winner: color.Opponent(), Loser: color}
			}
		}
	} else {
		for _, color := range sides {
			if board.Count(color) == 0 {
				return &Outcome{Reason: OutcomeNoPiecesLeft, Winner: color.Opponent(), Loser: color}
			}
		}
	}
	if hasLine(owners, mover) {
		return &Outcome{Reason: OutcomeTicTacToe, Winner: mover, Loser: mover.Opponent()}
	}
	return nil
}
