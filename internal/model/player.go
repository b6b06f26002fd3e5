package model

// Conn is the write side of a participant's connection.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type Player struct {
	ID    string
	Color PlayerColor
}

type ClientPlayer struct {
	ID    string      `json:"name"`
	Color PlayerColor `json:"color"`
}

type PlayerColor string

const (
	PlayerColorNone  PlayerColor = ""
	PlayerColorWhite PlayerColor = "white"
	PlayerColorBlack PlayerColor = "black"
)

// Opponent returns the other side. The zero color has no opponent.
func (c PlayerColor) Opponent() PlayerColor {
	switch c {
	case PlayerColorWhite:
		return PlayerColorBlack
	case PlayerColorBlack:
		return PlayerColorWhite
	}
	return PlayerColorNone
}

// forward is the row step a pawn of this color takes.
func (c PlayerColor) forward() int {
	if c == PlayerColorWhite {
		return 1
	}
	return -1
}

// promotionRow is the farthest row for this color.
func (c PlayerColor) promotionRow() int {
	if c == PlayerColorWhite {
		return BoardSize - 1
	}
	return 0
}

// homeRows are the two rows a pawn may double step from.
func (c PlayerColor) homeRows() [2]int {
	if c == PlayerColorWhite {
		return [2]int{1, 2}
	}
	return [2]int{BoardSize - 3, BoardSize - 2}
}
