package model

// Move is the commit record exchanged with clients and replayed by peers.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type Ply struct {
	Color          PlayerColor     `json:"color"`
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	EnPassant      bool            `json:"enPassant"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion"`
	FieldsWon      []int           `json:"fieldsWon"`
	Notation       string          `json:"notation"`
}

// Record returns the commit record that reproduces this ply.
func (p Ply) Record() Move {
	return Move{From: p.From, To: p.To, Promotion: p.Promotion}
}
