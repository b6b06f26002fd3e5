package model

// emptyGame returns a game on a bare board with white to move.
func emptyGame(captureTheKing bool) *Game {
	g := NewGame(Settings{Layout: LayoutSet1, CaptureTheKing: captureTheKing})
	g.board = &Board{}
	return g
}

func put(g *Game, row, col int, t PieceType, c PlayerColor) *Piece {
	piece := &Piece{Type: t, Color: c}
	g.board.Place(piece, pos(row, col))
	return piece
}

func pos(row, col int) Position {
	return Position{Row: row, Col: col}
}

// fakeConn records every message written to it.
type fakeConn struct {
	messages []interface{}
	closed   bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.messages = append(f.messages, v)
	return nil
}

func (f *fakeConn) Close() error {
	f.closed = true
	return nil
}
